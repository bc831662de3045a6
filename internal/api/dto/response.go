package dto

import (
	"github.com/smuggr/timetable-solver/internal/engine"
	"github.com/smuggr/timetable-solver/internal/timetable"
)

// SolverResponse is the wire shape of a solve result.
type SolverResponse struct {
	Success       bool                      `json:"success"`
	Status        string                    `json:"status"`
	Slots         []timetable.TimetableSlot `json:"slots"`
	UnplacedTasks []timetable.UnplacedTask  `json:"unplacedTasks"`
	Conflicts     int                       `json:"conflicts"`
	SolvingTime   float64                   `json:"solvingTime"`
	Stats         engine.Stats              `json:"stats"`
	Message       string                    `json:"message"`
}

// FromResult maps an engine.Result onto the wire shape, never leaving
// Slots/UnplacedTasks nil so clients always see arrays, not null.
func FromResult(res *engine.Result) SolverResponse {
	slots := res.Slots
	if slots == nil {
		slots = []timetable.TimetableSlot{}
	}
	unplaced := res.UnplacedTasks
	if unplaced == nil {
		unplaced = []timetable.UnplacedTask{}
	}
	return SolverResponse{
		Success:       res.Success,
		Status:        res.Status,
		Slots:         slots,
		UnplacedTasks: unplaced,
		Conflicts:     res.Conflicts,
		SolvingTime:   res.SolvingTime.Seconds(),
		Stats:         res.Stats,
		Message:       res.Message,
	}
}
