package worker

// retry_cron.go
// Background goroutine that re-enqueues reports stuck in status=pending
// with a next_retry_at in the past. Gated on the circuit breaker so a
// downed AI sidecar is not hammered.

import (
	"context"
	"time"

	"github.com/asif1001/wareopes1-sub002/internal/infra"
	"github.com/asif1001/wareopes1-sub002/internal/repository"

	"github.com/rs/zerolog/log"
)

const (
	retryTickInterval = 30 * time.Second
	retryBatchSize    = 10
)

// RetryCronConfig holds the dependencies for the retry goroutine.
type RetryCronConfig struct {
	Reports    repository.ReportRepository
	CB         *infra.CircuitBreaker
	Dispatcher *Dispatcher
}

// StartRetryCron launches a goroutine that ticks every 30s, queries due
// pending reports and pushes them back onto the report queue. It respects
// the context for graceful shutdown.
func StartRetryCron(ctx context.Context, cfg RetryCronConfig) {
	go func() {
		ticker := time.NewTicker(retryTickInterval)
		defer ticker.Stop()

		log.Info().Msg("retry_cron: started")

		for {
			select {
			case <-ctx.Done():
				log.Info().Msg("retry_cron: shutting down")
				return
			case <-ticker.C:
				processRetries(ctx, cfg)
			}
		}
	}()
}

func processRetries(ctx context.Context, cfg RetryCronConfig) {
	// If CB is open, skip the tick entirely
	if cfg.CB.State() == infra.CBOpen {
		log.Debug().Msg("retry_cron: circuit breaker is open, skipping tick")
		return
	}

	reports, err := cfg.Reports.ListPendingRetries(ctx, time.Now(), retryBatchSize)
	if err != nil {
		log.Error().Err(err).Msg("retry_cron: failed to query pending retries")
		return
	}
	if len(reports) == 0 {
		return
	}

	log.Info().Int("count", len(reports)).Msg("retry_cron: re-enqueueing pending reports")

	for i := range reports {
		rep := &reports[i]

		// Clear the schedule before re-enqueueing so a slow worker does
		// not race the next tick into a duplicate job.
		rep.NextRetryAt = nil
		if err := cfg.Reports.Update(ctx, rep); err != nil {
			log.Error().Err(err).Str("report_id", rep.ID.String()).Msg("retry_cron: failed to clear schedule")
			continue
		}

		if err := cfg.Dispatcher.EnqueueReport(ctx, ReportJobPayload{ReportID: rep.ID.String()}); err != nil {
			log.Error().Err(err).Str("report_id", rep.ID.String()).Msg("retry_cron: failed to re-enqueue")
			// Put the schedule back so the next tick tries again
			next := time.Now().Add(retryTickInterval)
			rep.NextRetryAt = &next
			_ = cfg.Reports.Update(ctx, rep)
			continue
		}

		log.Info().
			Str("report_id", rep.ID.String()).
			Int("retry_count", rep.RetryCount).
			Msg("retry_cron: report re-enqueued")
	}
}
