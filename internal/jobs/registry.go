// Package jobs implements the async job registry: a UUID-keyed,
// mutex-guarded map of job status, one dedicated goroutine per job running
// to completion with no retries and no user-visible cancellation. This is a
// deliberately simpler shape than a general retrying worker queue — it is a
// status map a client polls, not a task queue with backoff (see DESIGN.md).
package jobs

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/smuggr/timetable-solver/internal/engine"
)

// Status is the lifecycle state of one job.
type Status string

const (
	StatusStarting   Status = "starting"
	StatusProcessing Status = "processing"
	StatusCompleted  Status = "completed"
	StatusFailed     Status = "failed"
)

// Job is the polled-for state of one asynchronous solve. Only the owning
// worker writes to a Job after creation; readers (status handlers) receive
// a copy via Registry.Get.
type Job struct {
	ID          string
	Status      Status
	Progress    int
	CreatedAt   time.Time
	CompletedAt *time.Time
	Result      *engine.Result
	Error       string
}

// snapshot returns a shallow copy safe to hand to a reader without holding
// the registry lock.
func (j *Job) snapshot() *Job {
	cp := *j
	return &cp
}

// Registry is process-wide mutable state guarded by a single lock: entry
// insertion, progress update, and status read all require mutual exclusion.
type Registry struct {
	mu     sync.Mutex
	jobs   map[string]*Job
	logger *zap.Logger
}

// NewRegistry returns an empty registry.
func NewRegistry(logger *zap.Logger) *Registry {
	return &Registry{jobs: make(map[string]*Job), logger: logger}
}

// Start creates a job entry and launches its dedicated worker goroutine,
// returning the new job id immediately; the solve itself runs to completion
// on the worker goroutine while the caller polls Get for its outcome.
func (r *Registry) Start(req engine.Request, driver *engine.Driver) string {
	id := uuid.NewString()
	now := time.Now()
	job := &Job{ID: id, Status: StatusStarting, Progress: 0, CreatedAt: now}

	r.mu.Lock()
	r.jobs[id] = job
	r.mu.Unlock()

	go r.run(id, req, driver)

	return id
}

// Get returns a snapshot of the job's current state, or false if unknown.
func (r *Registry) Get(id string) (*Job, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	job, ok := r.jobs[id]
	if !ok {
		return nil, false
	}
	return job.snapshot(), true
}

func (r *Registry) run(id string, req engine.Request, driver *engine.Driver) {
	r.setProcessing(id)

	result, err := driver.Solve(req)

	r.mu.Lock()
	defer r.mu.Unlock()
	job, ok := r.jobs[id]
	if !ok {
		return
	}
	completedAt := time.Now()
	job.CompletedAt = &completedAt
	if err != nil {
		job.Status = StatusFailed
		job.Error = err.Error()
		job.Progress = 100
		r.logger.Error("solve job failed", zap.String("jobId", id), zap.Error(err))
		return
	}
	job.Status = StatusCompleted
	job.Progress = 100
	job.Result = result
	r.logger.Info("solve job completed", zap.String("jobId", id), zap.String("status", result.Status))
}

func (r *Registry) setProcessing(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if job, ok := r.jobs[id]; ok {
		job.Status = StatusProcessing
		job.Progress = 1
	}
}
