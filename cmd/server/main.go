// Command server is the process entrypoint: load configuration, build the
// logger, wire the solve driver and job registry, and serve the HTTP
// surface until an interrupt asks for a graceful shutdown.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/smuggr/timetable-solver/internal/api"
	"github.com/smuggr/timetable-solver/internal/engine"
	"github.com/smuggr/timetable-solver/internal/jobs"
	"github.com/smuggr/timetable-solver/internal/platform/config"
	"github.com/smuggr/timetable-solver/internal/platform/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load configuration: " + err.Error())
	}

	log, err := logger.New(cfg)
	if err != nil {
		panic("failed to build logger: " + err.Error())
	}
	defer log.Sync()

	driver := engine.NewDriver(cfg.NumSearchWorkers)
	driver.Budgets = engine.Budgets{
		Phase1: cfg.Phase1TimeLimit,
		Phase2: cfg.Phase2TimeLimit,
		Phase3: cfg.Phase3TimeLimit,
	}
	registry := jobs.NewRegistry(log)

	router := api.NewRouter(cfg, log, driver, registry)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		log.Info("listening", zap.String("port", cfg.Port), zap.String("env", cfg.Env))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("graceful shutdown failed", zap.Error(err))
	}
}
