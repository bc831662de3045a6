// Package engine implements the core of this system: a phased CP-SAT
// solve. BuildVariables/BuildConstraints/BuildObjective materialize one
// phase's model; Driver.Solve orchestrates all three phases and the
// extraction/diagnostics pass that follows each one.
package engine

import (
	"fmt"
	"time"

	"github.com/smuggr/timetable-solver/internal/domain"
	"github.com/smuggr/timetable-solver/internal/engine/cpsat"
	"github.com/smuggr/timetable-solver/internal/timetable"
)

// Seed is the fixed random seed every phase solves with, so identical input
// always produces an identical schedule.
const Seed = 42

// Budgets are the default per-phase wall-clock caps.
type Budgets struct {
	Phase1 time.Duration
	Phase2 time.Duration
	Phase3 time.Duration
}

// DefaultBudgets gives the strict first phase the largest share of wall
// clock time and each relaxation phase after it progressively less.
var DefaultBudgets = Budgets{
	Phase1: 3600 * time.Second,
	Phase2: 1200 * time.Second,
	Phase3: 600 * time.Second,
}

// Request is the engine-facing solve request, decoded from the
// transport-level DTO (internal/api/dto) and already validated by
// internal/api.
type Request struct {
	Lessons         []domain.Lesson
	Classes         []domain.Class
	Config          domain.SchoolConfig
	AllowRelaxation bool
	MaxTimeLimit    time.Duration
}

// Stats mirrors SolverResponse.stats, plus the per-teacher/per-class
// utilization supplement.
type Stats struct {
	TotalLessons     int                `json:"totalLessons"`
	TotalTasks       int                `json:"totalTasks"`
	SinglesCreated   int                `json:"singlesCreated"`
	DoublesCreated   int                `json:"doublesCreated"`
	ConstraintsAdded int                `json:"constraintsAdded"`
	Seed             int32              `json:"seed"`
	Utilization      map[string]float64 `json:"utilization"`
}

// Result is the engine-facing solve result; internal/api maps it onto
// SolverResponse.
type Result struct {
	Success       bool
	Status        string // "success" | "partial" | "failed"
	Slots         []timetable.TimetableSlot
	UnplacedTasks []timetable.UnplacedTask
	Conflicts     int
	SolvingTime   time.Duration
	Stats         Stats
	Message       string
}

// Driver runs the three-phase solve state machine.
type Driver struct {
	Budgets          Budgets
	NumSearchWorkers int32
}

// NewDriver returns a Driver configured with the default budgets and the
// given worker count (CP-SAT typically sees good returns from 4-8 parallel
// search workers).
func NewDriver(numSearchWorkers int32) *Driver {
	return &Driver{Budgets: DefaultBudgets, NumSearchWorkers: numSearchWorkers}
}

// phaseOutcome is the per-phase bookkeeping threaded through the state
// machine: the extraction, the constraint count, and whether the solver
// returned a usable (non-INFEASIBLE, non-MODEL_INVALID) result.
type phaseOutcome struct {
	extraction  *Extraction
	constraints int
	usable      bool
}

// Solve runs Phase1 -> (Done|Phase2) -> (Done|Phase3) -> Done, returning as
// soon as a phase yields zero unplaced tasks, and otherwise falling through
// to the next phase with its own time budget carved out of req.MaxTimeLimit.
func (d *Driver) Solve(req Request) (*Result, error) {
	start := time.Now()
	tables := timetable.Build(req.Lessons, req.Config)
	lessonByID := indexLessons(req.Lessons)
	classByID := indexClasses(req.Classes)

	stats := Stats{
		TotalLessons:   len(req.Lessons),
		TotalTasks:     len(tables.Tasks),
		SinglesCreated: countKind(tables, timetable.Single),
		DoublesCreated: countKind(tables, timetable.Double),
		Seed:           Seed,
	}

	remaining := req.MaxTimeLimit

	phase1Budget := clampBudget(d.Budgets.Phase1, remaining)
	outcome1, err := d.runPhase(tables, true, 0, phase1Budget)
	if err != nil {
		return nil, fmt.Errorf("phase 1: %w", err)
	}
	stats.ConstraintsAdded = outcome1.constraints
	remaining -= phase1Budget
	if outcome1.usable && len(outcome1.extraction.unplacedIdxs) == 0 {
		return d.finish(outcome1.extraction, tables, lessonByID, classByID, stats, start, "success")
	}

	// A caller that sets allowRelaxation=false opts out of the soft-penalty
	// phases entirely — Phase 1's hard distribution cap is the only
	// schedule it is willing to accept.
	if !req.AllowRelaxation {
		return d.finish(outcome1.extraction, tables, lessonByID, classByID, stats, start, statusFor(outcome1))
	}

	if remaining <= 0 {
		return d.finish(outcome1.extraction, tables, lessonByID, classByID, stats, start, statusFor(outcome1))
	}

	phase2Budget := clampBudget(d.Budgets.Phase2, remaining)
	outcome2, err := d.runPhase(tables, false, PPhase2, phase2Budget)
	if err != nil {
		return nil, fmt.Errorf("phase 2: %w", err)
	}
	stats.ConstraintsAdded = outcome2.constraints
	remaining -= phase2Budget
	best := bestOutcome(outcome1, outcome2)
	if outcome2.usable && len(outcome2.extraction.unplacedIdxs) == 0 {
		return d.finish(outcome2.extraction, tables, lessonByID, classByID, stats, start, "success")
	}

	if remaining <= 0 {
		return d.finish(best.extraction, tables, lessonByID, classByID, stats, start, statusFor(best))
	}

	phase3Budget := clampBudget(d.Budgets.Phase3, remaining)
	outcome3, err := d.runPhase(tables, false, PPhase3, phase3Budget)
	if err != nil {
		return nil, fmt.Errorf("phase 3: %w", err)
	}
	stats.ConstraintsAdded = outcome3.constraints
	best = bestOutcome(best, outcome3)
	status := "success"
	if len(best.extraction.unplacedIdxs) > 0 {
		status = statusFor(best)
	}
	return d.finish(best.extraction, tables, lessonByID, classByID, stats, start, status)
}

// runPhase builds a fresh model, constraints and objective, solves it, and
// extracts the result. A freshly-built model is mandatory per phase —
// nothing from a prior phase's model is reused.
func (d *Driver) runPhase(tables *timetable.Tables, hardDistribution bool, p int64, budget time.Duration) (phaseOutcome, error) {
	model := cpsat.NewModel()
	vars := BuildVariables(model, tables)
	constraints := BuildConstraints(model, tables, vars, hardDistribution)
	obj := BuildObjective(model, tables, vars, p)
	model.Maximize(obj)

	result, err := model.Solve(cpsat.Params{
		MaxTimeInSeconds: budget.Seconds(),
		RandomSeed:       Seed,
		NumSearchWorkers: d.NumSearchWorkers,
	})
	if err != nil {
		return phaseOutcome{}, err
	}

	usable := result.Status == cpsat.StatusOptimal || result.Status == cpsat.StatusFeasible
	extraction := Extract(tables, vars, result)
	// A time-limited UNKNOWN still carries a partial assignment in the
	// solver's last snapshot; treat it as usable if it placed anything.
	if result.Status == cpsat.StatusUnknown && len(extraction.Slots) > 0 {
		usable = true
	}

	return phaseOutcome{extraction: extraction, constraints: constraints, usable: usable}, nil
}

// bestOutcome prefers whichever outcome has fewer unplaced tasks; ties keep
// the later (more-relaxed) phase's result, matching the driver's "return
// whatever is produced" instruction for Phase 3.
func bestOutcome(a, b phaseOutcome) phaseOutcome {
	if !b.usable {
		if a.usable {
			return a
		}
		return b
	}
	if !a.usable {
		return b
	}
	if len(b.extraction.unplacedIdxs) <= len(a.extraction.unplacedIdxs) {
		return b
	}
	return a
}

func statusFor(o phaseOutcome) string {
	if !o.usable {
		return "failed"
	}
	if len(o.extraction.unplacedIdxs) == 0 {
		return "success"
	}
	return "partial"
}

func (d *Driver) finish(ex *Extraction, tables *timetable.Tables, lessons map[string]domain.Lesson, classes map[string]domain.Class, stats Stats, start time.Time, status string) (*Result, error) {
	stats.Utilization = ex.Utilization(tables)
	unplaced := ex.Diagnose(tables, lessons, classes)

	res := &Result{
		Status:        status,
		Success:       status != "failed",
		Slots:         ex.Slots,
		UnplacedTasks: unplaced,
		Conflicts:     0,
		SolvingTime:   time.Since(start),
		Stats:         stats,
	}

	switch status {
	case "success":
		res.Message = "all tasks placed"
	case "partial":
		res.Message = fmt.Sprintf("time limit reached with %d task(s) unplaced", len(unplaced))
	case "failed":
		res.Message = "no feasible solution found within the configured time budget"
	}
	return res, nil
}

func clampBudget(phaseDefault, remaining time.Duration) time.Duration {
	if remaining < phaseDefault {
		return remaining
	}
	return phaseDefault
}

func countKind(tables *timetable.Tables, kind timetable.Kind) int {
	n := 0
	for _, task := range tables.Tasks {
		if task.Kind == kind {
			n++
		}
	}
	return n
}

func indexLessons(lessons []domain.Lesson) map[string]domain.Lesson {
	out := make(map[string]domain.Lesson, len(lessons))
	for _, l := range lessons {
		out[l.ID] = l
	}
	return out
}

func indexClasses(classes []domain.Class) map[string]domain.Class {
	out := make(map[string]domain.Class, len(classes))
	for _, c := range classes {
		out[c.ID] = c
	}
	return out
}
