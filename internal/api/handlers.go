// Package api wires the Gin HTTP surface: the synchronous and asynchronous
// solve endpoints, job-status polling, and an example-request convenience
// endpoint that hands back a ready-to-POST fixture body.
package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/smuggr/timetable-solver/internal/api/dto"
	"github.com/smuggr/timetable-solver/internal/domain"
	"github.com/smuggr/timetable-solver/internal/domain/fixture"
	"github.com/smuggr/timetable-solver/internal/engine"
	"github.com/smuggr/timetable-solver/internal/jobs"
	"github.com/smuggr/timetable-solver/internal/platform/apperr"
)

// Server holds the dependencies every handler needs.
type Server struct {
	driver              *engine.Driver
	registry            *jobs.Registry
	logger              *zap.Logger
	validate            *validator.Validate
	defaultMaxTimeLimit time.Duration
}

// NewServer builds a Server around a solve driver and job registry.
// defaultMaxTimeLimit is applied to any request that omits maxTimeLimit.
func NewServer(driver *engine.Driver, registry *jobs.Registry, logger *zap.Logger, defaultMaxTimeLimit time.Duration) *Server {
	return &Server{
		driver:              driver,
		registry:            registry,
		logger:              logger,
		validate:            validator.New(),
		defaultMaxTimeLimit: defaultMaxTimeLimit,
	}
}

func (s *Server) handleRoot(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"service": "timetable-solver",
		"status":  "ok",
		"endpoints": []string{
			"GET /health",
			"POST /solve",
			"POST /start-solve",
			"GET /job-status/:jobId",
			"GET /example-request",
		},
	})
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}

// handleExampleRequest returns a ready-to-POST SolverRequest body built from
// the bundled fixture.
func (s *Server) handleExampleRequest(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"lessons":         fixture.Lessons(),
		"classes":         fixture.Classes(),
		"schoolConfig":    fixture.Config(),
		"allowRelaxation": true,
		"maxTimeLimit":    int(s.defaultMaxTimeLimit.Seconds()),
	})
}

func (s *Server) handleSolve(c *gin.Context) {
	req, appErr := s.bindAndValidate(c)
	if appErr != nil {
		writeError(c, appErr)
		return
	}

	result, err := s.driver.Solve(req)
	if err != nil {
		writeError(c, apperr.Wrap(apperr.CodeInternal, http.StatusInternalServerError, "solve failed", err))
		return
	}

	c.JSON(http.StatusOK, dto.FromResult(result))
}

func (s *Server) handleStartSolve(c *gin.Context) {
	req, appErr := s.bindAndValidate(c)
	if appErr != nil {
		writeError(c, appErr)
		return
	}

	id := s.registry.Start(req, s.driver)
	s.logger.Info("solve job started", zap.String("jobId", id))

	c.JSON(http.StatusOK, gin.H{
		"jobId":   id,
		"status":  "started",
		"message": "solve started, poll /job-status/" + id,
	})
}

func (s *Server) handleJobStatus(c *gin.Context) {
	id := c.Param("jobId")
	job, ok := s.registry.Get(id)
	if !ok {
		writeError(c, apperr.ErrNotFound.Clone("job not found"))
		return
	}

	body := gin.H{
		"jobId":     job.ID,
		"status":    job.Status,
		"progress":  job.Progress,
		"createdAt": job.CreatedAt,
	}
	if job.CompletedAt != nil {
		body["completedAt"] = job.CompletedAt
	}
	if job.Result != nil {
		body["result"] = dto.FromResult(job.Result)
	}
	if job.Error != "" {
		body["error"] = job.Error
	}

	c.JSON(http.StatusOK, body)
}

// bindAndValidate decodes a SolverRequest body, runs validator.Validate
// against the decoded domain.SchoolConfig/domain.Lesson values for the
// field-shape checks their validate tags express, then runs the remaining
// cross-field checks Validate() covers by hand. Any failure comes back as an
// *apperr.Error classified CodeValidation.
func (s *Server) bindAndValidate(c *gin.Context) (engine.Request, *apperr.Error) {
	var body dto.SolverRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		return engine.Request{}, apperr.Wrap(apperr.CodeValidation, http.StatusBadRequest, "invalid request body", err)
	}

	if body.MaxTimeLimit == 0 {
		body.MaxTimeLimit = s.defaultMaxTimeLimit
	}

	if err := s.validate.Struct(body.Config); err != nil {
		return engine.Request{}, apperr.Wrap(apperr.CodeValidation, http.StatusBadRequest, "invalid schoolConfig", err)
	}
	if err := body.Config.Validate(); err != nil {
		return engine.Request{}, apperr.Wrap(apperr.CodeValidation, http.StatusBadRequest, "invalid schoolConfig", err)
	}

	lessons := make([]domain.Lesson, 0, len(body.Lessons))
	for _, l := range body.Lessons {
		dl := l.ToDomain()
		if err := s.validate.Struct(dl); err != nil {
			return engine.Request{}, apperr.Wrap(apperr.CodeValidation, http.StatusBadRequest, "invalid lesson", err)
		}
		lessons = append(lessons, dl)
	}

	classes := make([]domain.Class, 0, len(body.Classes))
	for _, cl := range body.Classes {
		classes = append(classes, cl.ToDomain())
	}

	return engine.Request{
		Lessons:         lessons,
		Classes:         classes,
		Config:          body.Config,
		AllowRelaxation: body.AllowRelaxation,
		MaxTimeLimit:    body.MaxTimeLimit,
	}, nil
}

func writeError(c *gin.Context, err *apperr.Error) {
	c.JSON(err.Status, gin.H{"detail": err.Error()})
}
