package engine

import (
	"strings"

	"github.com/smuggr/timetable-solver/internal/domain"
	"github.com/smuggr/timetable-solver/internal/engine/cpsat"
	"github.com/smuggr/timetable-solver/internal/timetable"
)

// Extraction is the result of reading back one solved model: the placed
// slots, the tasks that received no placement (not yet diagnosed), and the
// busy grids diagnostics needs.
type Extraction struct {
	Slots        []timetable.TimetableSlot
	unplacedIdxs []int
	busyTeacher  map[string][][]bool // [teacherId][day][period] (period 1-indexed, index 0 unused)
	busyClass    map[string][][]bool
}

// Extract reads presence/place back from result for every task.
func Extract(tables *timetable.Tables, vars *Variables, result *cpsat.Result) *Extraction {
	numDays := len(tables.Config.DaysOfWeek)
	numPeriods := tables.Config.NumberOfPeriods

	ex := &Extraction{
		busyTeacher: make(map[string][][]bool),
		busyClass:   make(map[string][][]bool),
	}

	grid := func(m map[string][][]bool, id string) [][]bool {
		g, ok := m[id]
		if !ok {
			g = make([][]bool, numDays)
			for d := range g {
				g[d] = make([]bool, numPeriods+1)
			}
			m[id] = g
		}
		return g
	}

	for _, task := range tables.Tasks {
		if !result.BoolValue(vars.Presence[task.Index]) {
			ex.unplacedIdxs = append(ex.unplacedIdxs, task.Index)
			continue
		}

		day, period, found := findPlacement(vars, result, task.Index, numDays)
		if !found {
			// presence=1 but no place var true: treat as unplaced, a
			// solver-level inconsistency the diagnostics can't explain
			// away any further than "generic constraint block".
			ex.unplacedIdxs = append(ex.unplacedIdxs, task.Index)
			continue
		}

		for _, classID := range task.ClassIDs {
			if task.Kind == timetable.Double {
				ex.Slots = append(ex.Slots,
					timetable.TimetableSlot{ClassID: classID, LessonID: task.LessonID, Day: day, PeriodNumber: period, IsDoubleStart: true},
					timetable.TimetableSlot{ClassID: classID, LessonID: task.LessonID, Day: day, PeriodNumber: period + 1, IsDoubleEnd: true},
				)
			} else {
				ex.Slots = append(ex.Slots,
					timetable.TimetableSlot{ClassID: classID, LessonID: task.LessonID, Day: day, PeriodNumber: period},
				)
			}
		}

		for _, classID := range task.ClassIDs {
			cg := grid(ex.busyClass, classID)
			markOccupied(cg, day, period, task.Kind)
		}
		for _, teacherID := range task.TeacherIDs {
			tg := grid(ex.busyTeacher, teacherID)
			markOccupied(tg, day, period, task.Kind)
		}
	}

	return ex
}

func markOccupied(g [][]bool, day, period int, kind timetable.Kind) {
	g[day][period] = true
	if kind == timetable.Double {
		g[day][period+1] = true
	}
}

func findPlacement(vars *Variables, result *cpsat.Result, taskIdx, numDays int) (day, period int, found bool) {
	for d := 0; d < numDays; d++ {
		for p, v := range vars.Place[taskIdx][d] {
			if result.BoolValue(v) {
				return d, p, true
			}
		}
	}
	return 0, 0, false
}

// Utilization returns per-teacher/per-class utilization (busy cells /
// (days * numberOfPeriods)), keyed "teacher:<id>" / "class:<id>", and is
// also surfaced externally in SolverResponse.stats.utilization.
func (ex *Extraction) Utilization(tables *timetable.Tables) map[string]float64 {
	numDays := len(tables.Config.DaysOfWeek)
	numPeriods := tables.Config.NumberOfPeriods
	total := float64(numDays * numPeriods)

	out := make(map[string]float64, len(ex.busyTeacher)+len(ex.busyClass))
	for id, g := range ex.busyTeacher {
		out["teacher:"+id] = busyFraction(g, total)
	}
	for id, g := range ex.busyClass {
		out["class:"+id] = busyFraction(g, total)
	}
	return out
}

func busyFraction(g [][]bool, total float64) float64 {
	if total == 0 {
		return 0
	}
	busy := 0
	for _, row := range g {
		for p := 1; p < len(row); p++ {
			if row[p] {
				busy++
			}
		}
	}
	return float64(busy) / total
}

// Diagnose builds the UnplacedTask list for every task that received no
// placement, classifying each by teacher/class utilization thresholds.
func (ex *Extraction) Diagnose(tables *timetable.Tables, lessons map[string]domain.Lesson, classes map[string]domain.Class) []timetable.UnplacedTask {
	numDays := len(tables.Config.DaysOfWeek)
	numPeriods := tables.Config.NumberOfPeriods
	util := ex.Utilization(tables)

	var out []timetable.UnplacedTask
	for _, taskIdx := range ex.unplacedIdxs {
		task := tables.Tasks[taskIdx]
		required := 1
		if task.Kind == timetable.Double {
			required = 2
		}

		teacherUtil := 0.0
		for _, teacherID := range task.TeacherIDs {
			if u := util["teacher:"+teacherID]; u > teacherUtil {
				teacherUtil = u
			}
		}

		for _, classID := range task.ClassIDs {
			classUtil := util["class:"+classID]
			reason := classify(teacherUtil, classUtil, func() (emptyIntersection, tooShort bool) {
				return ex.intersectionProbe(tables, task, classID, required, numDays, numPeriods)
			})

			lessonName := task.LessonName
			className := ""
			if c, ok := classes[classID]; ok {
				className = c.Name
			}
			teacherName := strings.Join(task.TeacherIDs, ",")

			out = append(out, timetable.UnplacedTask{
				LessonID:    task.LessonID,
				ClassID:     classID,
				LessonName:  lessonName,
				ClassName:   className,
				TeacherName: teacherName,
				TaskType:    task.Kind.String(),
				Diagnostic:  reason,
			})
		}
	}
	return out
}

// classify ranks the possible diagnoses in priority order, from "fully
// booked" down to "generic constraint block". probe is only invoked
// (lazily) when both utilizations exceed 0.70, since it is the only branch
// that needs the free-slot intersection.
func classify(teacherUtil, classUtil float64, probe func() (emptyIntersection, tooShort bool)) string {
	switch {
	case teacherUtil >= 1.0:
		return "teacher fully booked"
	case classUtil >= 1.0:
		return "class fully booked"
	case teacherUtil > 0.90:
		return "teacher critically loaded"
	case classUtil > 0.90:
		return "class critically loaded"
	case teacherUtil > 0.70 && classUtil > 0.70:
		empty, short := probe()
		switch {
		case empty:
			return "no overlapping free slot"
		case short:
			return "insufficient consecutive free slots"
		default:
			return "interval or distribution constraints"
		}
	case teacherUtil < 0.30:
		return "likely over-constrained globally"
	default:
		return "generic constraint block"
	}
}

// intersectionProbe checks, for a task's teachers and a given class, what
// free slots remain: emptyIntersection is true when no cell is free for
// both every teacher and the class; tooShort is true when free cells exist
// but never in a run of `required` consecutive periods on the same day.
func (ex *Extraction) intersectionProbe(tables *timetable.Tables, task timetable.Task, classID string, required, numDays, numPeriods int) (emptyIntersection, tooShort bool) {
	free := func(day, period int) bool {
		if cg, ok := ex.busyClass[classID]; ok && cg[day][period] {
			return false
		}
		for _, teacherID := range task.TeacherIDs {
			if tg, ok := ex.busyTeacher[teacherID]; ok && tg[day][period] {
				return false
			}
		}
		return true
	}

	anyFree := false
	anyRun := false
	validStarts := make(map[int]bool, len(tables.ValidDoubleStarts))
	for _, s := range tables.ValidDoubleStarts {
		validStarts[s] = true
	}

	for day := 0; day < numDays; day++ {
		for period := 1; period <= numPeriods; period++ {
			if !free(day, period) {
				continue
			}
			anyFree = true
			if required == 1 {
				anyRun = true
				continue
			}
			if validStarts[period] && period+1 <= numPeriods && free(day, period+1) {
				anyRun = true
			}
		}
	}

	if !anyFree {
		return true, false
	}
	return false, !anyRun
}
