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

type LicenseService interface {
	Create(ctx context.Context, req dto.LicenseRequest) (*dto.LicenseResponse, error)
	List(ctx context.Context) ([]dto.LicenseResponse, error)
	ListExpiring(ctx context.Context, withinDays int) ([]dto.LicenseResponse, error)
	Update(ctx context.Context, id uuid.UUID, req dto.LicenseRequest) (*dto.LicenseResponse, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type licenseService struct {
	repo repository.LicenseRepository
}

func NewLicenseService(repo repository.LicenseRepository) LicenseService {
	return &licenseService{repo: repo}
}

func (s *licenseService) Create(ctx context.Context, req dto.LicenseRequest) (*dto.LicenseResponse, error) {
	lic, err := licenseFromRequest(req)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, lic); err != nil {
		return nil, err
	}
	return licenseToResponse(lic), nil
}

func (s *licenseService) List(ctx context.Context) ([]dto.LicenseResponse, error) {
	licenses, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	resp := make([]dto.LicenseResponse, len(licenses))
	for i := range licenses {
		resp[i] = *licenseToResponse(&licenses[i])
	}
	return resp, nil
}

func (s *licenseService) ListExpiring(ctx context.Context, withinDays int) ([]dto.LicenseResponse, error) {
	if withinDays <= 0 {
		withinDays = 30
	}
	cutoff := time.Now().AddDate(0, 0, withinDays)
	licenses, err := s.repo.ListExpiringBefore(ctx, cutoff)
	if err != nil {
		return nil, err
	}
	resp := make([]dto.LicenseResponse, len(licenses))
	for i := range licenses {
		resp[i] = *licenseToResponse(&licenses[i])
	}
	return resp, nil
}

func (s *licenseService) Update(ctx context.Context, id uuid.UUID, req dto.LicenseRequest) (*dto.LicenseResponse, error) {
	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, errors.New("license not found")
	}
	updated, err := licenseFromRequest(req)
	if err != nil {
		return nil, err
	}
	updated.ID = existing.ID
	updated.CreatedAt = existing.CreatedAt
	if err := s.repo.Update(ctx, updated); err != nil {
		return nil, err
	}
	return licenseToResponse(updated), nil
}

func (s *licenseService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}

func licenseFromRequest(req dto.LicenseRequest) (*model.DriverLicense, error) {
	expires, err := time.Parse("2006-01-02", req.ExpiresAt)
	if err != nil {
		return nil, errors.New("expires_at must be YYYY-MM-DD")
	}
	lic := &model.DriverLicense{
		DriverName: req.DriverName,
		LicenseNo:  req.LicenseNo,
		Class:      req.Class,
		ExpiresAt:  expires,
	}
	if req.UserID != nil {
		uid, err := uuid.Parse(*req.UserID)
		if err != nil {
			return nil, errors.New("user_id must be a UUID")
		}
		lic.UserID = &uid
	}
	if req.IssuedAt != nil {
		issued, err := time.Parse("2006-01-02", *req.IssuedAt)
		if err != nil {
			return nil, errors.New("issued_at must be YYYY-MM-DD")
		}
		lic.IssuedAt = &issued
	}
	return lic, nil
}

func licenseToResponse(l *model.DriverLicense) *dto.LicenseResponse {
	resp := &dto.LicenseResponse{
		ID:         l.ID.String(),
		DriverName: l.DriverName,
		LicenseNo:  l.LicenseNo,
		Class:      l.Class,
		ExpiresAt:  l.ExpiresAt.Format("2006-01-02"),
		DaysLeft:   int(time.Until(l.ExpiresAt).Hours() / 24),
	}
	if l.UserID != nil {
		uid := l.UserID.String()
		resp.UserID = &uid
	}
	if l.IssuedAt != nil {
		issued := l.IssuedAt.Format("2006-01-02")
		resp.IssuedAt = &issued
	}
	return resp
}
