package engine

import (
	"github.com/smuggr/timetable-solver/internal/engine/cpsat"
	"github.com/smuggr/timetable-solver/internal/timetable"
)

// Objective weights. BDouble/BSingle are the Tier-1 placement reward base;
// PPhase2/PPhase3 are the Tier-2 distribution-penalty magnitude for the
// second and third relaxation phases respectively. B >> P at every phase so
// the solver never trades a placement for a smoother distribution.
const (
	BDouble = 2_000_000
	BSingle = 1_000_000
	PPhase2 = 100_000
	PPhase3 = 10
)

// BuildObjective assembles the maximand for one phase: Tier 1 always,
// Tier 2 only when p > 0 (Phase 1 uses the hard constraint instead, see
// BuildConstraints).
func BuildObjective(model *cpsat.Model, tables *timetable.Tables, vars *Variables, p int64) *cpsat.LinearExpr {
	obj := cpsat.NewSum()
	addTier1(obj, tables, vars)
	if p > 0 {
		addTier2(model, obj, tables, vars, p)
	}
	return obj
}

func addTier1(obj *cpsat.LinearExpr, tables *timetable.Tables, vars *Variables) {
	for _, task := range tables.Tasks {
		base := int64(BSingle)
		if task.Kind == timetable.Double {
			base = BDouble
		}
		weight := base * int64(len(task.ClassIDs))
		obj.AddTerm(vars.Presence[task.Index], weight)
	}
}

// addTier2 adds -P * overflow for every (class, subject, day) triple with
// >=2 candidate tasks, where overflow = max(count-1, 0) and count is the
// number of those tasks placed on that day.
func addTier2(model *cpsat.Model, obj *cpsat.LinearExpr, tables *timetable.Tables, vars *Variables, p int64) {
	numDays := len(tables.Config.DaysOfWeek)

	for _, taskIdxs := range tables.ClassSubjectTasks {
		if len(taskIdxs) < 2 {
			continue
		}
		for day := 0; day < numDays; day++ {
			var dayVars []cpsat.Arg
			for _, ti := range taskIdxs {
				for _, v := range vars.Place[ti][day] {
					dayVars = append(dayVars, v)
				}
			}
			if len(dayVars) < 2 {
				continue
			}
			countMinusOne := cpsat.NewSum(dayVars...).AddConstant(-1)
			overflow := model.NewIntVar(0, int64(len(dayVars)))
			model.MaxEquality(overflow, countMinusOne, cpsat.Constant(0))
			obj.AddTerm(overflow, -p)
		}
	}
}
