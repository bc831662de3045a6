package engine

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/require"

	"github.com/smuggr/timetable-solver/internal/domain"
	"github.com/smuggr/timetable-solver/internal/timetable"
)

func newDriver() *Driver {
	return NewDriver(4)
}

func oneDayConfig(periods int, intervals ...domain.IntervalSlot) domain.SchoolConfig {
	return domain.SchoolConfig{
		NumberOfPeriods: periods,
		DaysOfWeek:      []domain.DayOfWeek{{Name: "Mon"}},
		IntervalSlots:   intervals,
	}
}

func TestDriverSolveMinimalFeasible(t *testing.T) {
	req := Request{
		Lessons: []domain.Lesson{
			{ID: "L1", TeacherIDs: []string{"T1"}, ClassIDs: []string{"C1"}, NumberOfSingles: 2, NumberOfDoubles: 1},
		},
		Classes:         []domain.Class{{ID: "C1"}},
		Config:          oneDayConfig(4),
		AllowRelaxation: true,
		MaxTimeLimit:    30 * time.Second,
	}
	res, err := newDriver().Solve(req)
	require.NoError(t, err)
	require.True(t, res.Success)
	require.Equal(t, "success", res.Status)
	require.Empty(t, res.UnplacedTasks)
	require.Len(t, res.Slots, 4) // 2 singles + 1 double(2 records)
}

func TestDriverSolveIntervalForbidsDouble(t *testing.T) {
	req := Request{
		Lessons: []domain.Lesson{
			{ID: "L1", TeacherIDs: []string{"T1"}, ClassIDs: []string{"C1"}, NumberOfDoubles: 1},
		},
		Classes:      []domain.Class{{ID: "C1"}},
		Config:       oneDayConfig(3, domain.IntervalSlot{AfterPeriod: 2}),
		MaxTimeLimit: 30 * time.Second,
	}
	res, err := newDriver().Solve(req)
	require.NoError(t, err)
	require.Empty(t, res.UnplacedTasks)
	require.Len(t, res.Slots, 2)
	require.Equal(t, 1, res.Slots[0].PeriodNumber)
	require.Equal(t, 2, res.Slots[1].PeriodNumber)
}

func TestDriverSolveIntervalForbidsSecondDouble(t *testing.T) {
	req := Request{
		Lessons: []domain.Lesson{
			{ID: "L1", TeacherIDs: []string{"T1"}, ClassIDs: []string{"C1"}, NumberOfDoubles: 2},
		},
		Classes:      []domain.Class{{ID: "C1"}},
		Config:       oneDayConfig(3, domain.IntervalSlot{AfterPeriod: 2}),
		MaxTimeLimit: 30 * time.Second,
	}
	res, err := newDriver().Solve(req)
	require.NoError(t, err)
	require.Len(t, res.UnplacedTasks, 1)
}

func TestDriverSolveTeacherConflict(t *testing.T) {
	req := Request{
		Lessons: []domain.Lesson{
			{ID: "L1", TeacherIDs: []string{"T1"}, ClassIDs: []string{"C1"}, NumberOfSingles: 1},
			{ID: "L2", TeacherIDs: []string{"T1"}, ClassIDs: []string{"C1"}, NumberOfSingles: 1},
		},
		Classes:      []domain.Class{{ID: "C1"}},
		Config:       oneDayConfig(2),
		MaxTimeLimit: 30 * time.Second,
	}
	res, err := newDriver().Solve(req)
	require.NoError(t, err)
	require.Empty(t, res.UnplacedTasks)
	require.Len(t, res.Slots, 2)
	require.NotEqual(t, res.Slots[0].PeriodNumber, res.Slots[1].PeriodNumber)
}

func TestDriverSolveParallelClasses(t *testing.T) {
	req := Request{
		Lessons: []domain.Lesson{
			{ID: "L1", TeacherIDs: []string{"T1"}, ClassIDs: []string{"A", "B"}, NumberOfSingles: 1},
		},
		Classes:      []domain.Class{{ID: "A"}, {ID: "B"}},
		Config:       oneDayConfig(4),
		MaxTimeLimit: 30 * time.Second,
	}
	res, err := newDriver().Solve(req)
	require.NoError(t, err)
	require.Len(t, res.Slots, 2)
	require.Equal(t, res.Slots[0].Day, res.Slots[1].Day)
	require.Equal(t, res.Slots[0].PeriodNumber, res.Slots[1].PeriodNumber)
}

func TestDriverSolveDistributionPhase1(t *testing.T) {
	req := Request{
		Lessons: []domain.Lesson{
			{ID: "L1", SubjectIDs: []string{"math"}, TeacherIDs: []string{"T1"}, ClassIDs: []string{"C1"}, NumberOfSingles: 2},
		},
		Classes: []domain.Class{{ID: "C1"}},
		Config: domain.SchoolConfig{
			NumberOfPeriods: 6,
			DaysOfWeek: []domain.DayOfWeek{
				{Name: "Mon"}, {Name: "Tue"}, {Name: "Wed"}, {Name: "Thu"}, {Name: "Fri"},
			},
		},
		MaxTimeLimit: 30 * time.Second,
	}
	res, err := newDriver().Solve(req)
	require.NoError(t, err)
	require.Empty(t, res.UnplacedTasks)
	require.Len(t, res.Slots, 2)
	require.NotEqual(t, res.Slots[0].Day, res.Slots[1].Day)
}

// 6 singles of one subject over a 5-day week force at least one day to
// host two instances once the distribution cap relaxes into a penalty.
func TestDriverSolvePhase3Fallback(t *testing.T) {
	driver := newDriver()
	driver.Budgets = Budgets{Phase1: 5 * time.Second, Phase2: 5 * time.Second, Phase3: 5 * time.Second}

	req := Request{
		Lessons: []domain.Lesson{
			{ID: "L1", SubjectIDs: []string{"math"}, TeacherIDs: []string{"T1"}, ClassIDs: []string{"C1"}, NumberOfSingles: 6},
		},
		Classes: []domain.Class{{ID: "C1"}},
		Config: domain.SchoolConfig{
			NumberOfPeriods: 6,
			DaysOfWeek: []domain.DayOfWeek{
				{Name: "Mon"}, {Name: "Tue"}, {Name: "Wed"}, {Name: "Thu"}, {Name: "Fri"},
			},
		},
		AllowRelaxation: true,
		MaxTimeLimit:    15 * time.Second,
	}
	res, err := driver.Solve(req)
	require.NoError(t, err)
	require.Empty(t, res.UnplacedTasks)
	require.Len(t, res.Slots, 6)

	byDay := make(map[int]int)
	for _, s := range res.Slots {
		byDay[s.Day]++
	}
	doubled := false
	for _, n := range byDay {
		if n >= 2 {
			doubled = true
		}
	}
	require.True(t, doubled, "expected at least one day with two instances of the subject")
}

// allowRelaxation=false must stop after Phase 1 even when the schedule
// still has unplaced tasks, rather than falling through to the soft-penalty
// phases.
func TestDriverSolveAllowRelaxationFalseStopsAtPhase1(t *testing.T) {
	req := Request{
		Lessons: []domain.Lesson{
			{ID: "L1", SubjectIDs: []string{"math"}, TeacherIDs: []string{"T1"}, ClassIDs: []string{"C1"}, NumberOfSingles: 6},
		},
		Classes: []domain.Class{{ID: "C1"}},
		Config: domain.SchoolConfig{
			NumberOfPeriods: 6,
			DaysOfWeek: []domain.DayOfWeek{
				{Name: "Mon"}, {Name: "Tue"}, {Name: "Wed"}, {Name: "Thu"}, {Name: "Fri"},
			},
		},
		AllowRelaxation: false,
		MaxTimeLimit:    15 * time.Second,
	}
	res, err := newDriver().Solve(req)
	require.NoError(t, err)
	require.NotEmpty(t, res.UnplacedTasks, "Phase 1's hard distribution cap should leave this oversubscribed subject unplaced")
	require.NotEqual(t, "success", res.Status)
}

// Identical input and a fixed seed must produce an identical slot set.
// cmp.Diff with cmpopts.SortSlices gives a readable failure if a future
// change to tie-break ordering breaks determinism.
func TestDriverSolveDeterministic(t *testing.T) {
	req := Request{
		Lessons: []domain.Lesson{
			{ID: "L1", SubjectIDs: []string{"math"}, TeacherIDs: []string{"T1"}, ClassIDs: []string{"C1", "C2"}, NumberOfSingles: 3, NumberOfDoubles: 1},
			{ID: "L2", TeacherIDs: []string{"T2"}, ClassIDs: []string{"C1"}, NumberOfSingles: 2},
		},
		Classes: []domain.Class{{ID: "C1"}, {ID: "C2"}},
		Config: domain.SchoolConfig{
			NumberOfPeriods: 6,
			IntervalSlots:   []domain.IntervalSlot{{AfterPeriod: 3}},
			DaysOfWeek: []domain.DayOfWeek{
				{Name: "Mon"}, {Name: "Tue"}, {Name: "Wed"},
			},
		},
		MaxTimeLimit: 20 * time.Second,
	}

	first, err := newDriver().Solve(req)
	require.NoError(t, err)
	second, err := newDriver().Solve(req)
	require.NoError(t, err)

	less := func(a, b timetable.TimetableSlot) bool {
		if a.ClassID != b.ClassID {
			return a.ClassID < b.ClassID
		}
		if a.Day != b.Day {
			return a.Day < b.Day
		}
		return a.PeriodNumber < b.PeriodNumber
	}
	if diff := cmp.Diff(first.Slots, second.Slots, cmpopts.SortSlices(less)); diff != "" {
		t.Fatalf("solve is not deterministic across repeated runs (-first +second):\n%s", diff)
	}
}
