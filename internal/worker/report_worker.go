package worker

// report_worker.go
// Processes report-generation jobs from QueueReports.
// Gathers figures from the database, asks the report AI sidecar for a
// narrative, renders the PDF and optionally enqueues an email job.

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/asif1001/wareopes1-sub002/internal/infra"
	"github.com/asif1001/wareopes1-sub002/internal/model"
	"github.com/asif1001/wareopes1-sub002/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// ReportJobPayload is the job envelope sent to QueueReports.
type ReportJobPayload struct {
	ReportID string `json:"report_id"`
}

// ReportWorker turns a pending Report row into a finished PDF.
type ReportWorker struct {
	reports        repository.ReportRepository
	summaries      repository.SummaryRepository
	shipments      repository.ShipmentRepository
	maintenance    repository.MaintenanceRepository
	aiClient       *infra.ReportAIClient
	cb             *infra.CircuitBreaker
	dispatcher     *Dispatcher
	pdfStoragePath string
}

func NewReportWorker(
	reports repository.ReportRepository,
	summaries repository.SummaryRepository,
	shipments repository.ShipmentRepository,
	maintenance repository.MaintenanceRepository,
	aiClient *infra.ReportAIClient,
	cb *infra.CircuitBreaker,
	dispatcher *Dispatcher,
	pdfStoragePath string,
) *ReportWorker {
	return &ReportWorker{
		reports:        reports,
		summaries:      summaries,
		shipments:      shipments,
		maintenance:    maintenance,
		aiClient:       aiClient,
		cb:             cb,
		dispatcher:     dispatcher,
		pdfStoragePath: pdfStoragePath,
	}
}

// Process handles a single report job:
//  1. Parse ReportJobPayload and load the Report row
//  2. Gather key figures for the report kind from the DB
//  3. Call the AI sidecar through the circuit breaker, with backoff
//  4. Render the PDF and mark the report done
//  5. Optionally enqueue an email job with the PDF attached
//
// Sidecar failures put the report back to pending with a NextRetryAt so the
// retry cron picks it up; the row moves to error once retries are exhausted.
func (w *ReportWorker) Process(ctx context.Context, raw json.RawMessage) {
	var payload ReportJobPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		log.Error().Err(err).Msg("report_worker: invalid payload")
		return
	}

	reportID, err := uuid.Parse(payload.ReportID)
	if err != nil {
		log.Error().Str("report_id", payload.ReportID).Msg("report_worker: invalid report_id")
		return
	}

	rep, err := w.reports.FindByID(ctx, reportID)
	if err != nil {
		log.Error().Err(err).Str("report_id", payload.ReportID).Msg("report_worker: report not found")
		return
	}
	if rep.Status == model.ReportDone {
		log.Debug().Str("report_id", payload.ReportID).Msg("report_worker: already done, skipping")
		return
	}

	rep.Status = model.ReportProcessing
	_ = w.reports.Update(ctx, rep)

	figures, err := w.gatherFigures(ctx, rep)
	if err != nil {
		log.Error().Err(err).Str("report_id", payload.ReportID).Msg("report_worker: failed to gather figures")
		w.scheduleRetry(ctx, rep, err)
		return
	}

	var aiResp *infra.ReportAIResponse
	aiErr := w.cb.Execute(func() error {
		resp, err := w.aiClient.Generate(ctx, infra.ReportAIPayload{
			Kind:     rep.Kind,
			Title:    rep.Title,
			FromDate: rep.FromDate.Format("2006-01-02"),
			ToDate:   rep.ToDate.Format("2006-01-02"),
			Figures:  figures,
		})
		if err != nil {
			return err
		}
		aiResp = resp
		return nil
	})
	if aiErr != nil {
		log.Warn().Err(aiErr).Str("report_id", payload.ReportID).Msg("report_worker: AI sidecar call failed")
		w.scheduleRetry(ctx, rep, aiErr)
		return
	}

	pdfPath, pdfErr := infra.GenerateReportPDF(rep, aiResp, figures, w.pdfStoragePath)
	if pdfErr != nil {
		log.Error().Err(pdfErr).Str("report_id", payload.ReportID).Msg("report_worker: PDF generation failed")
		w.scheduleRetry(ctx, rep, pdfErr)
		return
	}

	rep.Status = model.ReportDone
	rep.PDFPath = &pdfPath
	rep.NextRetryAt = nil
	rep.LastError = nil
	if err := w.reports.Update(ctx, rep); err != nil {
		log.Error().Err(err).Str("report_id", payload.ReportID).Msg("report_worker: failed to mark report done")
		return
	}
	log.Info().Str("report_id", payload.ReportID).Str("pdf", pdfPath).Msg("report_worker: report generated")

	if rep.EmailTo != nil && *rep.EmailTo != "" {
		emailJob := EmailJobPayload{
			ToEmail: *rep.EmailTo,
			Subject: fmt.Sprintf("WareOpes report: %s", rep.Title),
			Body: fmt.Sprintf("Attached is the %s report covering %s to %s.",
				rep.Kind, rep.FromDate.Format("2006-01-02"), rep.ToDate.Format("2006-01-02")),
			PDFPath: pdfPath,
		}
		if err := w.dispatcher.EnqueueEmail(ctx, emailJob); err != nil {
			log.Warn().Err(err).Str("email", *rep.EmailTo).Msg("report_worker: failed to enqueue email")
		} else {
			log.Info().Str("email", *rep.EmailTo).Msg("report_worker: email job enqueued")
		}
	}
}

// gatherFigures pulls the numbers the AI narrative is written around.
func (w *ReportWorker) gatherFigures(ctx context.Context, rep *model.Report) (map[string]any, error) {
	switch rep.Kind {
	case "productivity":
		totals, err := w.summaries.TotalsForRange(ctx, rep.FromDate, rep.ToDate)
		if err != nil {
			return nil, err
		}
		return map[string]any{
			"sorting_cases": totals.SortingCases,
			"sorting_lines": totals.SortingLines,
			"packing_cases": totals.PackingCases,
			"packing_lines": totals.PackingLines,
		}, nil
	case "shipments":
		figures := map[string]any{}
		for _, status := range []string{model.ShipmentExpected, model.ShipmentArrived, model.ShipmentCompleted} {
			n, err := w.shipments.CountByStatus(ctx, status)
			if err != nil {
				return nil, err
			}
			figures[status+"_shipments"] = n
		}
		return figures, nil
	case "maintenance":
		toEnd := rep.ToDate.AddDate(0, 0, 1).Add(-time.Second)
		total, count, err := w.maintenance.CostBetween(ctx, rep.FromDate, toEnd)
		if err != nil {
			return nil, err
		}
		return map[string]any{
			"total_cost": total.StringFixed(2),
			"records":    count,
		}, nil
	default:
		return nil, fmt.Errorf("unknown report kind %q", rep.Kind)
	}
}

// scheduleRetry puts the report back to pending for the retry cron, or parks
// it in error state once MaxReportRetries is reached.
func (w *ReportWorker) scheduleRetry(ctx context.Context, rep *model.Report, cause error) {
	rep.RetryCount++
	errMsg := cause.Error()
	rep.LastError = &errMsg

	if rep.RetryCount >= model.MaxReportRetries {
		rep.Status = model.ReportError
		rep.NextRetryAt = nil
		_ = w.reports.Update(ctx, rep)

		payload := fmt.Sprintf(`{"report_id":"%s"}`, rep.ID)
		SendToDLQ(ctx, w.dispatcher.rdb, QueueReports, "report", []byte(payload),
			fmt.Sprintf("max retries (%d) exceeded: %s", model.MaxReportRetries, errMsg),
			rep.RetryCount)
		log.Error().
			Str("report_id", rep.ID.String()).
			Int("retries", rep.RetryCount).
			Msg("report_worker: max retries exceeded, moved to DLQ")
		return
	}

	rep.Status = model.ReportPending
	nextRetry := time.Now().Add(computeRetryBackoff(rep.RetryCount))
	rep.NextRetryAt = &nextRetry
	_ = w.reports.Update(ctx, rep)
	log.Warn().
		Str("report_id", rep.ID.String()).
		Int("retry_count", rep.RetryCount).
		Time("next_retry_at", nextRetry).
		Msg("report_worker: scheduled retry")
}

// computeRetryBackoff doubles the wait per attempt: 1m, 2m, 4m … capped at 15m.
func computeRetryBackoff(retryCount int) time.Duration {
	if retryCount < 1 {
		retryCount = 1
	}
	d := time.Minute << uint(retryCount-1)
	if d > 15*time.Minute {
		d = 15 * time.Minute
	}
	return d
}
