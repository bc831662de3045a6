package domain

import (
	"testing"

	"github.com/go-playground/validator/v10"
)

// SchoolConfig.Validate only covers the cross-field interval-range check;
// numberOfPeriods/daysOfWeek are enforced by the struct's own validate tags,
// exercised by the caller's validator.Validate (see internal/api).
func TestSchoolConfigValidate(t *testing.T) {
	cases := []struct {
		name    string
		cfg     SchoolConfig
		wantErr bool
	}{
		{
			name: "valid",
			cfg: SchoolConfig{
				NumberOfPeriods: 4,
				DaysOfWeek:      []DayOfWeek{{Name: "Mon"}},
			},
		},
		{
			name: "interval out of range",
			cfg: SchoolConfig{
				NumberOfPeriods: 3,
				DaysOfWeek:      []DayOfWeek{{Name: "Mon"}},
				IntervalSlots:   []IntervalSlot{{AfterPeriod: 3}},
			},
			wantErr: true,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.cfg.Validate()
			if (err != nil) != tc.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tc.wantErr)
			}
		})
	}
}

// 3 periods with an interval after period 2 leaves only period 1 as a valid
// double-start: a double starting at 2 would span the interval.
func TestValidDoubleStarts(t *testing.T) {
	cfg := SchoolConfig{
		NumberOfPeriods: 3,
		DaysOfWeek:      []DayOfWeek{{Name: "Mon"}},
		IntervalSlots:   []IntervalSlot{{AfterPeriod: 2}},
	}
	got := cfg.ValidDoubleStarts()
	if len(got) != 1 || got[0] != 1 {
		t.Fatalf("ValidDoubleStarts() = %v, want [1]", got)
	}
}

func TestValidDoubleStartsNoIntervals(t *testing.T) {
	cfg := SchoolConfig{NumberOfPeriods: 4, DaysOfWeek: []DayOfWeek{{Name: "Mon"}}}
	got := cfg.ValidDoubleStarts()
	want := []int{1, 2, 3}
	if len(got) != len(want) {
		t.Fatalf("ValidDoubleStarts() = %v, want %v", got, want)
	}
	for i, v := range want {
		if got[i] != v {
			t.Fatalf("ValidDoubleStarts() = %v, want %v", got, want)
		}
	}
}

func TestLessonValidateTags(t *testing.T) {
	validate := validator.New()
	l := Lesson{ID: "L1", ClassIDs: nil}
	if err := validate.Struct(l); err == nil {
		t.Fatal("expected error for empty classIds")
	}
	l.ClassIDs = []string{"C1"}
	if err := validate.Struct(l); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestLessonPrimarySubject(t *testing.T) {
	l := Lesson{ID: "L1", ClassIDs: []string{"C1"}}
	if _, ok := l.PrimarySubject(); ok {
		t.Fatal("expected no primary subject")
	}
	l.SubjectIDs = []string{"math", "art"}
	got, ok := l.PrimarySubject()
	if !ok || got != "math" {
		t.Fatalf("PrimarySubject() = %q, %v, want math, true", got, ok)
	}
}
