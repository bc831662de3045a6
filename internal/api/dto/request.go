// Package dto holds the HTTP-facing JSON shapes and the field-alias
// handling a solve request accepts (`_id`, `lessonName`, `schoolConfig`).
package dto

import (
	"encoding/json"
	"time"

	"github.com/smuggr/timetable-solver/internal/domain"
)

// Lesson is the wire shape of domain.Lesson, accepting `_id` as an alias
// for `id` and `lessonName` as an alias for `name`.
type Lesson struct {
	ID              string
	Name            string
	SubjectIDs      []string
	TeacherIDs      []string
	ClassIDs        []string
	NumberOfSingles int
	NumberOfDoubles int
	Color           string
}

type lessonWire struct {
	ID              string   `json:"id"`
	AltID           string   `json:"_id"`
	Name            string   `json:"name"`
	AltName         string   `json:"lessonName"`
	SubjectIDs      []string `json:"subjectIds"`
	TeacherIDs      []string `json:"teacherIds"`
	ClassIDs        []string `json:"classIds"`
	NumberOfSingles int      `json:"numberOfSingles"`
	NumberOfDoubles int      `json:"numberOfDoubles"`
	Color           string   `json:"color"`
}

func (l *Lesson) UnmarshalJSON(data []byte) error {
	var w lessonWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	l.ID = firstNonEmpty(w.ID, w.AltID)
	l.Name = firstNonEmpty(w.Name, w.AltName)
	l.SubjectIDs = w.SubjectIDs
	l.TeacherIDs = w.TeacherIDs
	l.ClassIDs = w.ClassIDs
	l.NumberOfSingles = w.NumberOfSingles
	l.NumberOfDoubles = w.NumberOfDoubles
	l.Color = w.Color
	return nil
}

// ToDomain converts the wire shape to the domain value type.
func (l Lesson) ToDomain() domain.Lesson {
	return domain.Lesson{
		ID:              l.ID,
		Name:            l.Name,
		SubjectIDs:      l.SubjectIDs,
		TeacherIDs:      l.TeacherIDs,
		ClassIDs:        l.ClassIDs,
		NumberOfSingles: l.NumberOfSingles,
		NumberOfDoubles: l.NumberOfDoubles,
		Color:           l.Color,
	}
}

// Class is the wire shape of domain.Class, also accepting `_id`.
type Class struct {
	ID    string
	Name  string
	Grade string
}

type classWire struct {
	ID    string `json:"id"`
	AltID string `json:"_id"`
	Name  string `json:"name"`
	Grade string `json:"grade"`
}

func (c *Class) UnmarshalJSON(data []byte) error {
	var w classWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	c.ID = firstNonEmpty(w.ID, w.AltID)
	c.Name = w.Name
	c.Grade = w.Grade
	return nil
}

func (c Class) ToDomain() domain.Class {
	return domain.Class{ID: c.ID, Name: c.Name, Grade: c.Grade}
}

// SolverRequest is the wire shape of a solve request, accepting either
// `config` or `schoolConfig` for the school configuration. MaxTimeLimit is
// zero when the request omitted it; the caller applies its own configured
// default in that case (see internal/api.Server.bindAndValidate).
type SolverRequest struct {
	Lessons         []Lesson
	Classes         []Class
	Config          domain.SchoolConfig
	AllowRelaxation bool
	MaxTimeLimit    time.Duration
}

type solverRequestWire struct {
	Lessons         []Lesson             `json:"lessons"`
	Classes         []Class              `json:"classes"`
	Config          *domain.SchoolConfig `json:"config"`
	SchoolConfig    *domain.SchoolConfig `json:"schoolConfig"`
	AllowRelaxation *bool                `json:"allowRelaxation"`
	MaxTimeLimit    *int                 `json:"maxTimeLimit"`
}

func (r *SolverRequest) UnmarshalJSON(data []byte) error {
	var w solverRequestWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	r.Lessons = w.Lessons
	r.Classes = w.Classes

	if w.SchoolConfig != nil {
		r.Config = *w.SchoolConfig
	} else if w.Config != nil {
		r.Config = *w.Config
	}

	r.AllowRelaxation = true
	if w.AllowRelaxation != nil {
		r.AllowRelaxation = *w.AllowRelaxation
	}

	if w.MaxTimeLimit != nil {
		r.MaxTimeLimit = time.Duration(*w.MaxTimeLimit) * time.Second
	}

	return nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
