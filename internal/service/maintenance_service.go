package service

import (
	"context"
	"errors"
	"time"

	"github.com/asif1001/wareopes1-sub002/internal/dto"
	"github.com/asif1001/wareopes1-sub002/internal/model"
	"github.com/asif1001/wareopes1-sub002/internal/repository"

	"github.com/google/uuid"
)

type MaintenanceService interface {
	Create(ctx context.Context, userID uuid.UUID, req dto.MaintenanceRequest) (*dto.MaintenanceResponse, error)
	List(ctx context.Context, filter dto.MaintenanceFilter) (*dto.MaintenanceListResponse, error)
	Update(ctx context.Context, id uuid.UUID, req dto.MaintenanceRequest) (*dto.MaintenanceResponse, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type maintenanceService struct {
	repo repository.MaintenanceRepository
}

func NewMaintenanceService(repo repository.MaintenanceRepository) MaintenanceService {
	return &maintenanceService{repo: repo}
}

func (s *maintenanceService) Create(ctx context.Context, userID uuid.UUID, req dto.MaintenanceRequest) (*dto.MaintenanceResponse, error) {
	rec, err := maintenanceFromRequest(req)
	if err != nil {
		return nil, err
	}
	rec.CreatedBy = userID
	if err := s.repo.Create(ctx, rec); err != nil {
		return nil, err
	}
	return maintenanceToResponse(rec), nil
}

func (s *maintenanceService) List(ctx context.Context, filter dto.MaintenanceFilter) (*dto.MaintenanceListResponse, error) {
	repoFilter := repository.MaintenanceFilter{
		VehicleNo: filter.VehicleNo,
		Page:      filter.Page,
		Limit:     filter.Limit,
	}
	if filter.From != "" {
		from, err := time.Parse("2006-01-02", filter.From)
		if err != nil {
			return nil, errors.New("from must be YYYY-MM-DD")
		}
		repoFilter.From = &from
	}
	if filter.To != "" {
		to, err := time.Parse("2006-01-02", filter.To)
		if err != nil {
			return nil, errors.New("to must be YYYY-MM-DD")
		}
		repoFilter.To = &to
	}
	records, total, err := s.repo.List(ctx, repoFilter)
	if err != nil {
		return nil, err
	}
	data := make([]dto.MaintenanceResponse, len(records))
	for i := range records {
		data[i] = *maintenanceToResponse(&records[i])
	}
	return &dto.MaintenanceListResponse{Data: data, Total: total, Page: filter.Page, Limit: filter.Limit}, nil
}

func (s *maintenanceService) Update(ctx context.Context, id uuid.UUID, req dto.MaintenanceRequest) (*dto.MaintenanceResponse, error) {
	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, errors.New("maintenance record not found")
	}
	updated, err := maintenanceFromRequest(req)
	if err != nil {
		return nil, err
	}
	updated.ID = existing.ID
	updated.CreatedBy = existing.CreatedBy
	updated.CreatedAt = existing.CreatedAt
	if err := s.repo.Update(ctx, updated); err != nil {
		return nil, err
	}
	return maintenanceToResponse(updated), nil
}

func (s *maintenanceService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}

func maintenanceFromRequest(req dto.MaintenanceRequest) (*model.MaintenanceRecord, error) {
	servicedAt, err := time.Parse("2006-01-02", req.ServicedAt)
	if err != nil {
		return nil, errors.New("serviced_at must be YYYY-MM-DD")
	}
	rec := &model.MaintenanceRecord{
		VehicleNo:   req.VehicleNo,
		Description: req.Description,
		Cost:        req.Cost,
		OdometerKm:  req.OdometerKm,
		ServicedAt:  servicedAt,
		Workshop:    req.Workshop,
	}
	if req.NextDueAt != nil {
		next, err := time.Parse("2006-01-02", *req.NextDueAt)
		if err != nil {
			return nil, errors.New("next_due_at must be YYYY-MM-DD")
		}
		rec.NextDueAt = &next
	}
	return rec, nil
}

func maintenanceToResponse(m *model.MaintenanceRecord) *dto.MaintenanceResponse {
	resp := &dto.MaintenanceResponse{
		ID:          m.ID.String(),
		VehicleNo:   m.VehicleNo,
		Description: m.Description,
		Cost:        m.Cost,
		OdometerKm:  m.OdometerKm,
		ServicedAt:  m.ServicedAt.Format("2006-01-02"),
		Workshop:    m.Workshop,
		CreatedAt:   m.CreatedAt.Format(time.RFC3339),
	}
	if m.NextDueAt != nil {
		next := m.NextDueAt.Format("2006-01-02")
		resp.NextDueAt = &next
	}
	return resp
}
