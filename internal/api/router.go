package api

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/smuggr/timetable-solver/internal/engine"
	"github.com/smuggr/timetable-solver/internal/jobs"
	"github.com/smuggr/timetable-solver/internal/platform/config"
	"github.com/smuggr/timetable-solver/internal/platform/cors"
	"github.com/smuggr/timetable-solver/internal/platform/logger"
)

// NewRouter assembles the Gin engine: recovery, request logging, permissive
// CORS, then the solve route table plus an example-request convenience
// route.
func NewRouter(cfg *config.Config, log *zap.Logger, driver *engine.Driver, registry *jobs.Registry) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(logger.GinMiddleware(log))
	r.Use(cors.New(cfg.AllowedOrigins))

	srv := NewServer(driver, registry, log, cfg.DefaultMaxTimeLimit)

	r.GET("/", srv.handleRoot)
	r.GET("/health", srv.handleHealth)
	r.GET("/example-request", srv.handleExampleRequest)
	r.POST("/solve", srv.handleSolve)
	r.POST("/start-solve", srv.handleStartSolve)
	r.GET("/job-status/:jobId", srv.handleJobStatus)

	return r
}
