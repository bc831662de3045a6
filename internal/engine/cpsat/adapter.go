// Package cpsat is a thin adapter over Google OR-Tools' CP-SAT Go bindings
// (github.com/google/or-tools/sat/go/cpmodel). It exists so the rest of
// internal/engine talks in terms of "model", "bool var" and "solve with a
// time budget" without every call site importing the proto packages
// directly.
package cpsat

import (
	"github.com/golang/glog"
	cmpb "github.com/google/or-tools/ortools/sat/proto/cpmodel"
	sppb "github.com/google/or-tools/ortools/sat/proto/satparameters"
	"github.com/google/or-tools/sat/go/cpmodel"
	"google.golang.org/protobuf/proto"
)

// Model wraps a fresh cpmodel.Builder. One Model is built per solve phase
// and discarded afterwards — it is never reused across phases.
type Model struct {
	b *cpmodel.Builder
}

// NewModel returns an empty model.
func NewModel() *Model {
	return &Model{b: cpmodel.NewCpModelBuilder()}
}

// BoolVar is a boolean decision variable.
type BoolVar = cpmodel.BoolVar

// LinearExpr is a linear combination of variables and constants.
type LinearExpr = cpmodel.LinearExpr

// Arg is anything that can appear in a linear expression: a BoolVar, an
// IntVar, or a LinearExpr itself.
type Arg = cpmodel.LinearArgument

// Constant returns a fixed-value linear expression, used as the zero side
// of a max-equality (e.g. overflow = max(count-1, 0)).
func Constant(v int64) *LinearExpr {
	return cpmodel.NewConstant(v)
}

// NewBoolVar allocates a fresh boolean variable.
func (m *Model) NewBoolVar() BoolVar {
	return m.b.NewBoolVar()
}

// NewSum builds Σ vars as a LinearExpr.
func NewSum(vars ...cpmodel.LinearArgument) *LinearExpr {
	return cpmodel.NewLinearExpr().AddSum(vars...)
}

// AtMostOneWeighted constrains Σ vars <= 1 where vars may include the same
// variable contributing from more than one occupancy window (e.g. a double
// occupying both its start and end cell). Plain AddAtMostOne only accepts
// distinct boolean literals, so overlap constraints are expressed as a
// general linear inequality instead.
func (m *Model) AtMostOneWeighted(vars ...cpmodel.LinearArgument) {
	if len(vars) < 2 {
		return
	}
	m.b.AddLessOrEqual(NewSum(vars...), cpmodel.NewConstant(1))
}

// Equal constrains lhs == rhs.
func (m *Model) Equal(lhs, rhs cpmodel.LinearArgument) {
	m.b.AddEquality(lhs, rhs)
}

// LessOrEqual constrains lhs <= rhs.
func (m *Model) LessOrEqual(lhs, rhs cpmodel.LinearArgument) {
	m.b.AddLessOrEqual(lhs, rhs)
}

// NewIntVar allocates a fresh integer variable bounded to [lb, ub].
func (m *Model) NewIntVar(lb, ub int64) cpmodel.IntVar {
	return m.b.NewIntVar(lb, ub)
}

// MaxEquality constrains target == max(exprs...).
func (m *Model) MaxEquality(target cpmodel.LinearArgument, exprs ...cpmodel.LinearArgument) {
	m.b.AddMaxEquality(target, exprs...)
}

// Maximize sets the objective. Called at most once per model.
func (m *Model) Maximize(obj *LinearExpr) {
	m.b.Maximize(obj)
}

// Params bundles the per-phase solver configuration: a hard wall-clock
// budget, a fixed seed for determinism, and the worker count the solver may
// exploit internally.
type Params struct {
	MaxTimeInSeconds float64
	RandomSeed       int32
	NumSearchWorkers int32
}

// Status mirrors the subset of cmpb.CpSolverStatus the phase driver cares
// about, kept as our own type so nothing outside this package imports the
// proto enum directly.
type Status int

const (
	StatusUnknown Status = iota
	StatusOptimal
	StatusFeasible
	StatusInfeasible
	StatusModelInvalid
)

func (s Status) String() string {
	switch s {
	case StatusOptimal:
		return "OPTIMAL"
	case StatusFeasible:
		return "FEASIBLE"
	case StatusInfeasible:
		return "INFEASIBLE"
	case StatusModelInvalid:
		return "MODEL_INVALID"
	default:
		return "UNKNOWN"
	}
}

// Result is the outcome of one Solve call: the interpreted status plus the
// raw response, kept around so BoolValue can read back assignments.
type Result struct {
	Status   Status
	response *cmpb.CpSolverResponse
}

// BoolValue reads back the solved value of a boolean variable. It returns
// false for every variable when the response carries no solution (as after
// INFEASIBLE, MODEL_INVALID, or an UNKNOWN that found nothing).
func (r *Result) BoolValue(v BoolVar) bool {
	if len(r.response.GetSolution()) == 0 {
		return false
	}
	return cpmodel.SolutionBooleanValue(r.response, v)
}

// IntValue reads back the solved value of a linear expression.
func (r *Result) IntValue(expr cpmodel.LinearArgument) int64 {
	return cpmodel.SolutionIntegerValue(r.response, expr)
}

// Solve finalizes the model and invokes the CP-SAT solver with the given
// parameters.
func (m *Model) Solve(p Params) (*Result, error) {
	proto2, err := m.b.Model()
	if err != nil {
		return nil, err
	}
	params := &sppb.SatParameters{
		MaxTimeInSeconds: proto.Float64(p.MaxTimeInSeconds),
		RandomSeed:       proto.Int32(p.RandomSeed),
		NumSearchWorkers: proto.Int32(p.NumSearchWorkers),
	}
	resp, err := cpmodel.SolveCpModelWithParameters(proto2, params)
	if err != nil {
		return nil, err
	}
	result := &Result{Status: statusOf(resp), response: resp}
	glog.V(1).Infof("cpsat solve: status=%s vars=%d constraints=%d wallTime=%.2fs",
		result.Status, len(proto2.GetVariables()), len(proto2.GetConstraints()), resp.GetWallTime())
	return result, nil
}

func statusOf(resp *cmpb.CpSolverResponse) Status {
	switch resp.GetStatus() {
	case cmpb.CpSolverStatus_OPTIMAL:
		return StatusOptimal
	case cmpb.CpSolverStatus_FEASIBLE:
		return StatusFeasible
	case cmpb.CpSolverStatus_INFEASIBLE:
		return StatusInfeasible
	case cmpb.CpSolverStatus_MODEL_INVALID:
		return StatusModelInvalid
	default:
		return StatusUnknown
	}
}
