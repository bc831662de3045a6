package timetable

import (
	"testing"

	"github.com/smuggr/timetable-solver/internal/domain"
)

func cfg3PeriodsOneInterval() domain.SchoolConfig {
	return domain.SchoolConfig{
		NumberOfPeriods: 3,
		DaysOfWeek:      []domain.DayOfWeek{{Name: "Mon"}},
		IntervalSlots:   []domain.IntervalSlot{{AfterPeriod: 2}},
	}
}

// singles=2, doubles=1 yields 3 tasks.
func TestBuildTaskCount(t *testing.T) {
	lessons := []domain.Lesson{
		{ID: "L1", ClassIDs: []string{"C1"}, TeacherIDs: []string{"T1"}, NumberOfSingles: 2, NumberOfDoubles: 1},
	}
	tables := Build(lessons, cfg3PeriodsOneInterval())
	if len(tables.Tasks) != 3 {
		t.Fatalf("len(Tasks) = %d, want 3", len(tables.Tasks))
	}
	singles, doubles := 0, 0
	for _, task := range tables.Tasks {
		switch task.Kind {
		case Single:
			singles++
		case Double:
			doubles++
		}
	}
	if singles != 2 || doubles != 1 {
		t.Fatalf("singles=%d doubles=%d, want 2,1", singles, doubles)
	}
}

func TestBuildValidDoubleStarts(t *testing.T) {
	tables := Build(nil, cfg3PeriodsOneInterval())
	if len(tables.ValidDoubleStarts) != 1 || tables.ValidDoubleStarts[0] != 1 {
		t.Fatalf("ValidDoubleStarts = %v, want [1]", tables.ValidDoubleStarts)
	}
}

// TeacherLessons records every teacher's distinct lessons, including a teacher
// on a single lesson; the >=2-lesson floor is applied later by the overlap
// constraint builder, not here.
func TestBuildTeacherLessons(t *testing.T) {
	lessons := []domain.Lesson{
		{ID: "L1", ClassIDs: []string{"C1"}, TeacherIDs: []string{"T1"}, NumberOfSingles: 1},
		{ID: "L2", ClassIDs: []string{"C1"}, TeacherIDs: []string{"T1"}, NumberOfSingles: 1},
		{ID: "L3", ClassIDs: []string{"C1"}, TeacherIDs: []string{"T2"}, NumberOfSingles: 1},
	}
	tables := Build(lessons, domain.SchoolConfig{NumberOfPeriods: 4, DaysOfWeek: []domain.DayOfWeek{{Name: "Mon"}}})
	if got := tables.TeacherLessons["T1"]; len(got) != 2 {
		t.Fatalf("TeacherLessons[T1] = %v, want 2 lessons", got)
	}
	if got := tables.TeacherLessons["T2"]; len(got) != 1 {
		t.Fatalf("TeacherLessons[T2] = %v, want 1 lesson", got)
	}
}

// Parallel classes: one lesson fans out into every class's ClassLessons index.
func TestBuildClassLessons(t *testing.T) {
	lessons := []domain.Lesson{
		{ID: "L1", ClassIDs: []string{"A", "B"}, NumberOfSingles: 1},
	}
	tables := Build(lessons, domain.SchoolConfig{NumberOfPeriods: 4, DaysOfWeek: []domain.DayOfWeek{{Name: "Mon"}}})
	for _, classID := range []string{"A", "B"} {
		if len(tables.ClassLessons[classID]) != 1 {
			t.Fatalf("ClassLessons[%s] = %v, want 1 lesson", classID, tables.ClassLessons[classID])
		}
		if len(tables.TasksForLessons(tables.ClassLessons[classID])) != 1 {
			t.Fatalf("TasksForLessons(%s) want 1 task", classID)
		}
	}
}

func TestClassSubjectTasks(t *testing.T) {
	lessons := []domain.Lesson{
		{ID: "L1", ClassIDs: []string{"C1"}, SubjectIDs: []string{"math"}, NumberOfSingles: 2},
	}
	tables := Build(lessons, domain.SchoolConfig{NumberOfPeriods: 4, DaysOfWeek: []domain.DayOfWeek{{Name: "Mon"}}})
	key := classSubjectKey("C1", "math")
	if len(tables.ClassSubjectTasks[key]) != 2 {
		t.Fatalf("ClassSubjectTasks[%s] = %v, want 2 tasks", key, tables.ClassSubjectTasks[key])
	}
}
