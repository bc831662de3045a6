package engine

import (
	"github.com/smuggr/timetable-solver/internal/engine/cpsat"
	"github.com/smuggr/timetable-solver/internal/timetable"
)

// Variables holds every place/presence boolean materialized for one phase's
// model. Day is a 0-based index into Tables.Config.DaysOfWeek, period is
// 1-based.
type Variables struct {
	Place    map[int]map[int]map[int]cpsat.BoolVar // [taskIdx][day][period]
	Presence map[int]cpsat.BoolVar                 // [taskIdx]
}

// BuildVariables materializes a fresh set of place/presence variables
// against model for every task in tables. Called once per phase, always
// against a freshly-built model — variables are never reused across phases.
func BuildVariables(model *cpsat.Model, tables *timetable.Tables) *Variables {
	vars := &Variables{
		Place:    make(map[int]map[int]map[int]cpsat.BoolVar, len(tables.Tasks)),
		Presence: make(map[int]cpsat.BoolVar, len(tables.Tasks)),
	}

	numDays := len(tables.Config.DaysOfWeek)

	for _, task := range tables.Tasks {
		vars.Presence[task.Index] = model.NewBoolVar()

		periods := legalStarts(task.Kind, tables)
		byDay := make(map[int]map[int]cpsat.BoolVar, numDays)
		for day := 0; day < numDays; day++ {
			byPeriod := make(map[int]cpsat.BoolVar, len(periods))
			for _, period := range periods {
				byPeriod[period] = model.NewBoolVar()
			}
			byDay[day] = byPeriod
		}
		vars.Place[task.Index] = byDay
	}

	return vars
}

func legalStarts(kind timetable.Kind, tables *timetable.Tables) []int {
	if kind == timetable.Double {
		return tables.ValidDoubleStarts
	}
	starts := make([]int, tables.Config.NumberOfPeriods)
	for p := 1; p <= tables.Config.NumberOfPeriods; p++ {
		starts[p-1] = p
	}
	return starts
}
