// Package fixture ships a small, valid example request so the solver can be
// exercised without a hand-written client payload, scaled down to a size a
// CP-SAT solve finishes quickly on.
package fixture

import "github.com/smuggr/timetable-solver/internal/domain"

// Config is a five-day, six-period week with one interval after period 3.
func Config() domain.SchoolConfig {
	return domain.SchoolConfig{
		NumberOfPeriods: 6,
		IntervalSlots: []domain.IntervalSlot{
			{AfterPeriod: 3, Duration: 15},
		},
		DaysOfWeek: []domain.DayOfWeek{
			{Name: "Monday", Abbreviation: "Mon"},
			{Name: "Tuesday", Abbreviation: "Tue"},
			{Name: "Wednesday", Abbreviation: "Wed"},
			{Name: "Thursday", Abbreviation: "Thu"},
			{Name: "Friday", Abbreviation: "Fri"},
		},
	}
}

// Classes returns two sample classes.
func Classes() []domain.Class {
	return []domain.Class{
		{ID: "class-1a", Name: "1A", Grade: "1"},
		{ID: "class-1b", Name: "1B", Grade: "1"},
	}
}

// Lessons returns a small, varied lesson set: a single-class lesson, a
// parallel lesson shared by both classes, and a double-period lesson.
func Lessons() []domain.Lesson {
	return []domain.Lesson{
		{
			ID:              "lesson-math-1a",
			Name:            "Mathematics",
			SubjectIDs:      []string{"math"},
			TeacherIDs:      []string{"teacher-kowalski"},
			ClassIDs:        []string{"class-1a"},
			NumberOfSingles: 4,
			NumberOfDoubles: 0,
			Color:           "#4C8BF5",
		},
		{
			ID:              "lesson-art-parallel",
			Name:            "Art",
			SubjectIDs:      []string{"art"},
			TeacherIDs:      []string{"teacher-nowak"},
			ClassIDs:        []string{"class-1a", "class-1b"},
			NumberOfSingles: 0,
			NumberOfDoubles: 1,
			Color:           "#F59E0B",
		},
		{
			ID:              "lesson-science-1b",
			Name:            "Science",
			SubjectIDs:      []string{"science"},
			TeacherIDs:      []string{"teacher-kowalski", "teacher-wojcik"},
			ClassIDs:        []string{"class-1b"},
			NumberOfSingles: 2,
			NumberOfDoubles: 1,
			Color:           "#10B981",
		},
	}
}
