// Package timetable derives the scheduling units (Tasks) and index tables
// from a domain model, and defines the output shapes (TimetableSlot,
// UnplacedTask) the engine's extractor fills in.
package timetable

import (
	"fmt"

	"github.com/smuggr/timetable-solver/internal/domain"
)

// Kind distinguishes a single-period task from a double-period one.
type Kind int

const (
	Single Kind = iota
	Double
)

func (k Kind) String() string {
	if k == Double {
		return "double"
	}
	return "single"
}

// Task is one scheduling decision unit: a required instance of a lesson.
// Index is derived deterministically from (lesson order, kind, occurrence)
// so it is stable across the phased driver's model rebuilds.
type Task struct {
	Index      int
	LessonID   string
	LessonName string
	Kind       Kind
	Occurrence int
	ClassIDs   []string
	TeacherIDs []string
	SubjectID  string
	HasSubject bool
}

// Tables holds every structure derived from a lesson set: the task
// enumeration itself, the valid double-start periods, and the grouping
// indexes the constraint builder walks.
type Tables struct {
	Config            domain.SchoolConfig
	Tasks             []Task
	ValidDoubleStarts []int

	// TeacherLessons maps a teacher id to the distinct set of lesson ids
	// it appears on, in first-seen order.
	TeacherLessons map[string][]string
	// ClassLessons maps a class id to the distinct set of lesson ids that
	// include it in classIds, in first-seen order.
	ClassLessons map[string][]string
	// LessonTasks maps a lesson id to the indexes (into Tasks) of every
	// task derived from it.
	LessonTasks map[string][]int
	// ClassSubjectTasks maps "classId\x00subjectId" to task indexes, used
	// by the Phase-1 hard distribution constraint and the Tier-2 penalty.
	ClassSubjectTasks map[string][]int
}

// Build derives Tasks and the index tables from lessons and the school
// configuration. It does not validate lessons or config; callers validate
// first (see internal/api).
func Build(lessons []domain.Lesson, cfg domain.SchoolConfig) *Tables {
	t := &Tables{
		Config:            cfg,
		ValidDoubleStarts: cfg.ValidDoubleStarts(),
		TeacherLessons:    make(map[string][]string),
		ClassLessons:      make(map[string][]string),
		LessonTasks:       make(map[string][]int),
		ClassSubjectTasks: make(map[string][]int),
	}

	seenTeacherLesson := make(map[string]bool)
	seenClassLesson := make(map[string]bool)

	idx := 0
	for _, lesson := range lessons {
		subjectID, hasSubject := lesson.PrimarySubject()

		emit := func(kind Kind, occurrence int) {
			task := Task{
				Index:      idx,
				LessonID:   lesson.ID,
				LessonName: lesson.Name,
				Kind:       kind,
				Occurrence: occurrence,
				ClassIDs:   append([]string(nil), lesson.ClassIDs...),
				TeacherIDs: append([]string(nil), lesson.TeacherIDs...),
				SubjectID:  subjectID,
				HasSubject: hasSubject,
			}
			t.Tasks = append(t.Tasks, task)
			t.LessonTasks[lesson.ID] = append(t.LessonTasks[lesson.ID], idx)
			if hasSubject {
				for _, classID := range lesson.ClassIDs {
					key := classSubjectKey(classID, subjectID)
					t.ClassSubjectTasks[key] = append(t.ClassSubjectTasks[key], idx)
				}
			}
			idx++
		}

		for i := 0; i < lesson.NumberOfSingles; i++ {
			emit(Single, i)
		}
		for i := 0; i < lesson.NumberOfDoubles; i++ {
			emit(Double, i)
		}

		for _, teacherID := range lesson.TeacherIDs {
			key := teacherID + "\x00" + lesson.ID
			if !seenTeacherLesson[key] {
				seenTeacherLesson[key] = true
				t.TeacherLessons[teacherID] = append(t.TeacherLessons[teacherID], lesson.ID)
			}
		}
		for _, classID := range lesson.ClassIDs {
			key := classID + "\x00" + lesson.ID
			if !seenClassLesson[key] {
				seenClassLesson[key] = true
				t.ClassLessons[classID] = append(t.ClassLessons[classID], lesson.ID)
			}
		}
	}

	return t
}

func classSubjectKey(classID, subjectID string) string {
	return classID + "\x00" + subjectID
}

// TasksForLessons returns the flattened task indexes of every lesson in
// lessonIDs, deduplicated, preserving first-seen order.
func (t *Tables) TasksForLessons(lessonIDs []string) []int {
	seen := make(map[int]bool)
	var out []int
	for _, lid := range lessonIDs {
		for _, taskIdx := range t.LessonTasks[lid] {
			if !seen[taskIdx] {
				seen[taskIdx] = true
				out = append(out, taskIdx)
			}
		}
	}
	return out
}

// TimetableSlot is one placed (class, day, period) record.
type TimetableSlot struct {
	ClassID       string `json:"classId"`
	LessonID      string `json:"lessonId"`
	Day           int    `json:"day"`
	PeriodNumber  int    `json:"periodNumber"`
	IsDoubleStart bool   `json:"isDoubleStart"`
	IsDoubleEnd   bool   `json:"isDoubleEnd"`
}

// UnplacedTask describes a task that received no placement.
type UnplacedTask struct {
	LessonID    string `json:"lessonId"`
	ClassID     string `json:"classId"`
	LessonName  string `json:"lessonName"`
	ClassName   string `json:"className"`
	TeacherName string `json:"teacherName"`
	TaskType    string `json:"taskType"`
	Diagnostic  string `json:"diagnostic"`
}

// String renders a task for log messages and error wrapping.
func (t Task) String() string {
	return fmt.Sprintf("task#%d(lesson=%s,kind=%s,occurrence=%d)", t.Index, t.LessonID, t.Kind, t.Occurrence)
}
