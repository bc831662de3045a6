package engine

import (
	"github.com/smuggr/timetable-solver/internal/engine/cpsat"
	"github.com/smuggr/timetable-solver/internal/timetable"
)

// BuildConstraints emits the hard constraints against model for the given
// tables/vars. hardDistribution selects whether the per-day subject cap is
// included as a hard constraint (the strict first phase only; later phases
// replace it with a soft penalty in the objective instead). Returns the
// number of constraints added, surfaced in SolverResponse.stats.constraintsAdded.
func BuildConstraints(model *cpsat.Model, tables *timetable.Tables, vars *Variables, hardDistribution bool) int {
	count := 0
	count += addPresenceLinkage(model, tables, vars)
	count += addOverlapConstraints(model, tables, vars, tables.TeacherLessons, 2)
	count += addOverlapConstraints(model, tables, vars, tables.ClassLessons, 1)
	if hardDistribution {
		count += addSubjectDistribution(model, tables, vars)
	}
	return count
}

// addPresenceLinkage emits Σ place[task,*,*] = presence[task] for every
// task, tying a task's placement booleans to whether it is considered
// placed at all.
func addPresenceLinkage(model *cpsat.Model, tables *timetable.Tables, vars *Variables) int {
	count := 0
	for _, task := range tables.Tasks {
		var terms []cpsat.Arg
		for _, byPeriod := range vars.Place[task.Index] {
			for _, v := range byPeriod {
				terms = append(terms, v)
			}
		}
		sum := cpsat.NewSum(terms...)
		model.Equal(sum, vars.Presence[task.Index])
		count++
	}
	return count
}

// addOverlapConstraints implements the teacher/class non-overlap rule:
// no two tasks sharing a teacher or a class may occupy the same cell.
// groups maps an entity id (teacher or class) to the distinct lesson ids it
// appears on; minGroupSize gates whether a grouping with fewer lessons than
// that is skipped. A teacher only needs this constraint once it teaches
// >=2 distinct lessons; a class, however, can still collide against the
// other tasks of its own single lesson (e.g. two of its singles placed in
// the same cell), so classes carry no such floor.
func addOverlapConstraints(model *cpsat.Model, tables *timetable.Tables, vars *Variables, groups map[string][]string, minGroupSize int) int {
	count := 0
	numDays := len(tables.Config.DaysOfWeek)
	numPeriods := tables.Config.NumberOfPeriods

	for _, lessonIDs := range groups {
		if len(lessonIDs) < minGroupSize {
			continue
		}
		taskIdxs := tables.TasksForLessons(lessonIDs)
		if len(taskIdxs) < 2 {
			continue
		}
		for day := 0; day < numDays; day++ {
			for period := 1; period <= numPeriods; period++ {
				var cellVars []cpsat.Arg
				for _, ti := range taskIdxs {
					task := tables.Tasks[ti]
					byPeriod := vars.Place[ti][day]
					if v, ok := byPeriod[period]; ok {
						cellVars = append(cellVars, v)
					}
					if task.Kind == timetable.Double {
						if v, ok := byPeriod[period-1]; ok {
							cellVars = append(cellVars, v)
						}
					}
				}
				if len(cellVars) < 2 {
					continue
				}
				model.AtMostOneWeighted(cellVars...)
				count++
			}
		}
	}
	return count
}

// addSubjectDistribution emits the strict-phase hard cap: for each
// (class, primary subject) pair with >=2 tasks, at most one placement per
// day.
func addSubjectDistribution(model *cpsat.Model, tables *timetable.Tables, vars *Variables) int {
	count := 0
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
			model.AtMostOneWeighted(dayVars...)
			count++
		}
	}
	return count
}
