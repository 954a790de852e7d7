package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/asif1001/wareopes1-sub002/internal/config"
	"github.com/asif1001/wareopes1-sub002/internal/infra"
	"github.com/asif1001/wareopes1-sub002/internal/repository"
	"github.com/asif1001/wareopes1-sub002/internal/router"
	"github.com/asif1001/wareopes1-sub002/internal/worker"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	// Structured logger. Dev output is pretty, prod is JSON
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	db, err := infra.NewDatabase(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to postgres")
	}

	rdb, err := infra.NewRedis(cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Report generation pipeline: AI sidecar behind a circuit breaker,
	// report/email jobs on the Redis-backed worker pool, a cron for retries.
	aiClient := infra.NewReportAIClient(cfg.ReportAIURL)
	reportCB := infra.NewCircuitBreaker(infra.DefaultCBConfig())
	mailer := infra.NewMailer(cfg)
	dispatcher := worker.NewDispatcher(rdb)

	reportRepo := repository.NewReportRepository(db)
	summaryRepo := repository.NewSummaryRepository(db)
	shipmentRepo := repository.NewShipmentRepository(db)
	maintenanceRepo := repository.NewMaintenanceRepository(db)

	handlers := worker.WorkerHandlers{
		Report: worker.NewReportWorker(reportRepo, summaryRepo, shipmentRepo, maintenanceRepo,
			aiClient, reportCB, dispatcher, cfg.PDFStoragePath),
		Email: worker.NewEmailWorker(mailer),
	}
	worker.StartWorkerPool(ctx, rdb, cfg.WorkerPoolSize, handlers)
	worker.StartRetryCron(ctx, worker.RetryCronConfig{
		Reports:    reportRepo,
		CB:         reportCB,
		Dispatcher: dispatcher,
	})

	r := router.New(cfg, db, rdb, reportCB, dispatcher)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown on SIGINT / SIGTERM
	go func() {
		log.Info().Msgf("WareOpes backend listening on :%d", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server…")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("forced shutdown")
	}
	log.Info().Msg("server exited")
}
