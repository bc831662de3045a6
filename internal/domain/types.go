// Package domain holds the immutable value types that describe a school's
// weekly teaching structure: the periods and breaks in a day, the days of
// the week, the lessons that must be taught, and the classes that receive
// them.
package domain

import (
	"fmt"
	"sort"
)

// IntervalSlot marks that a break occurs after the given period. Duration is
// carried through for display purposes only; scheduling only cares about
// AfterPeriod.
type IntervalSlot struct {
	AfterPeriod int `json:"afterPeriod"`
	Duration    int `json:"duration,omitempty"`
}

// DayOfWeek is an opaque identifier for one column of the timetable. Its
// ordering in SchoolConfig.DaysOfWeek is the input order, not any calendar
// ordering.
type DayOfWeek struct {
	Name         string `json:"name"`
	Abbreviation string `json:"abbreviation,omitempty"`
}

// SchoolConfig describes the shape of the weekly grid every lesson is
// placed into.
type SchoolConfig struct {
	NumberOfPeriods int            `json:"numberOfPeriods" validate:"gte=2"`
	IntervalSlots   []IntervalSlot `json:"intervalSlots,omitempty" validate:"omitempty,dive"`
	DaysOfWeek      []DayOfWeek    `json:"daysOfWeek" validate:"required,min=1"`
}

// Validate checks the one invariant a validate struct tag cannot express:
// every interval's afterPeriod must fall strictly inside the period range, a
// check that reads two fields of the struct against each other. The
// single-field checks (numberOfPeriods >= 2, at least one day) are instead
// covered by this struct's own validate tags, run by the caller's
// validator.Validate.
func (c SchoolConfig) Validate() error {
	for _, s := range c.IntervalSlots {
		if s.AfterPeriod < 1 || s.AfterPeriod > c.NumberOfPeriods-1 {
			return fmt.Errorf("interval afterPeriod %d out of range [1,%d]", s.AfterPeriod, c.NumberOfPeriods-1)
		}
	}
	return nil
}

// ValidDoubleStarts returns the sorted set of periods a double task may
// legally start at: every period except the last, minus any period that
// would make the double span an interval break.
func (c SchoolConfig) ValidDoubleStarts() []int {
	blocked := make(map[int]bool, len(c.IntervalSlots))
	for _, s := range c.IntervalSlots {
		blocked[s.AfterPeriod] = true
	}
	var starts []int
	for p := 1; p < c.NumberOfPeriods; p++ {
		if !blocked[p] {
			starts = append(starts, p)
		}
	}
	sort.Ints(starts)
	return starts
}

// Lesson is a parallel teaching block: when scheduled at (day, period),
// every class in ClassIDs occupies that slot simultaneously, taught by the
// teachers in TeacherIDs. A lesson never yields one decision per class —
// the whole block is placed as a single unit.
type Lesson struct {
	ID              string   `json:"id" validate:"required"`
	Name            string   `json:"name,omitempty"`
	SubjectIDs      []string `json:"subjectIds,omitempty"`
	TeacherIDs      []string `json:"teacherIds,omitempty"`
	ClassIDs        []string `json:"classIds" validate:"required,min=1"`
	NumberOfSingles int      `json:"numberOfSingles" validate:"gte=0"`
	NumberOfDoubles int      `json:"numberOfDoubles" validate:"gte=0"`
	Color           string   `json:"color,omitempty"`
}

// PrimarySubject returns SubjectIDs[0], the grouping key the distribution
// constraints group tasks by, and false when the lesson carries no subject.
func (l Lesson) PrimarySubject() (string, bool) {
	if len(l.SubjectIDs) == 0 {
		return "", false
	}
	return l.SubjectIDs[0], true
}

// Class is a group of students sharing a timetable.
type Class struct {
	ID    string `json:"id"`
	Name  string `json:"name,omitempty"`
	Grade string `json:"grade,omitempty"`
}
