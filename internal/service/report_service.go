package service

import (
	"context"
	"errors"
	"time"

	"github.com/asif1001/wareopes1-sub002/internal/dto"
	"github.com/asif1001/wareopes1-sub002/internal/model"
	"github.com/asif1001/wareopes1-sub002/internal/repository"
	"github.com/asif1001/wareopes1-sub002/internal/worker"

	"github.com/google/uuid"
)

type ReportService interface {
	// Request persists the report row and enqueues the generation job.
	// Generation itself happens on the worker pool.
	Request(ctx context.Context, userID uuid.UUID, req dto.CreateReportRequest) (*dto.ReportResponse, error)
	Get(ctx context.Context, id uuid.UUID) (*dto.ReportResponse, error)
	ListMine(ctx context.Context, userID uuid.UUID) ([]dto.ReportResponse, error)
	// PDFPath returns the stored file path for a finished report.
	PDFPath(ctx context.Context, id uuid.UUID) (string, error)
}

type reportService struct {
	repo       repository.ReportRepository
	dispatcher *worker.Dispatcher
}

func NewReportService(repo repository.ReportRepository, dispatcher *worker.Dispatcher) ReportService {
	return &reportService{repo: repo, dispatcher: dispatcher}
}

func (s *reportService) Request(ctx context.Context, userID uuid.UUID, req dto.CreateReportRequest) (*dto.ReportResponse, error) {
	from, err := time.Parse("2006-01-02", req.FromDate)
	if err != nil {
		return nil, errors.New("from_date must be YYYY-MM-DD")
	}
	to, err := time.Parse("2006-01-02", req.ToDate)
	if err != nil {
		return nil, errors.New("to_date must be YYYY-MM-DD")
	}
	if to.Before(from) {
		return nil, errors.New("to_date is before from_date")
	}

	rep := &model.Report{
		Title:       req.Title,
		Kind:        req.Kind,
		FromDate:    from,
		ToDate:      to,
		Status:      model.ReportPending,
		EmailTo:     req.EmailTo,
		RequestedBy: userID,
	}
	if err := s.repo.Create(ctx, rep); err != nil {
		return nil, err
	}

	if err := s.dispatcher.EnqueueReport(ctx, worker.ReportJobPayload{ReportID: rep.ID.String()}); err != nil {
		// Enqueue failure is recoverable: the retry cron picks the row up.
		next := time.Now().Add(time.Minute)
		rep.NextRetryAt = &next
		_ = s.repo.Update(ctx, rep)
	}
	return reportToResponse(rep), nil
}

func (s *reportService) Get(ctx context.Context, id uuid.UUID) (*dto.ReportResponse, error) {
	rep, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, errors.New("report not found")
	}
	return reportToResponse(rep), nil
}

func (s *reportService) ListMine(ctx context.Context, userID uuid.UUID) ([]dto.ReportResponse, error) {
	reports, err := s.repo.ListByUser(ctx, userID, 50)
	if err != nil {
		return nil, err
	}
	resp := make([]dto.ReportResponse, len(reports))
	for i := range reports {
		resp[i] = *reportToResponse(&reports[i])
	}
	return resp, nil
}

func (s *reportService) PDFPath(ctx context.Context, id uuid.UUID) (string, error) {
	rep, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return "", errors.New("report not found")
	}
	if rep.Status != model.ReportDone || rep.PDFPath == nil {
		return "", errors.New("report is not ready")
	}
	return *rep.PDFPath, nil
}

func reportToResponse(r *model.Report) *dto.ReportResponse {
	return &dto.ReportResponse{
		ID:        r.ID.String(),
		Title:     r.Title,
		Kind:      r.Kind,
		FromDate:  r.FromDate.Format("2006-01-02"),
		ToDate:    r.ToDate.Format("2006-01-02"),
		Status:    r.Status,
		EmailTo:   r.EmailTo,
		LastError: r.LastError,
		CreatedAt: r.CreatedAt.Format(time.RFC3339),
	}
}
