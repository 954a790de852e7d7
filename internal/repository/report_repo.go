package repository

import (
	"context"
	"time"

	"github.com/asif1001/wareopes1-sub002/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ReportRepository interface {
	Create(ctx context.Context, rep *model.Report) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Report, error)
	ListByUser(ctx context.Context, userID uuid.UUID, limit int) ([]model.Report, error)
	Update(ctx context.Context, rep *model.Report) error
	// ListPendingRetries returns pending reports whose next_retry_at is due,
	// oldest first, capped at limit. Consumed by the retry cron.
	ListPendingRetries(ctx context.Context, now time.Time, limit int) ([]model.Report, error)
}

type reportRepo struct{ db *gorm.DB }

func NewReportRepository(db *gorm.DB) ReportRepository { return &reportRepo{db: db} }

func (r *reportRepo) Create(ctx context.Context, rep *model.Report) error {
	return r.db.WithContext(ctx).Create(rep).Error
}

func (r *reportRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Report, error) {
	var rep model.Report
	err := r.db.WithContext(ctx).First(&rep, id).Error
	return &rep, err
}

func (r *reportRepo) ListByUser(ctx context.Context, userID uuid.UUID, limit int) ([]model.Report, error) {
	if limit < 1 || limit > 200 {
		limit = 50
	}
	var reports []model.Report
	err := r.db.WithContext(ctx).
		Where("requested_by = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Find(&reports).Error
	return reports, err
}

func (r *reportRepo) Update(ctx context.Context, rep *model.Report) error {
	return r.db.WithContext(ctx).Save(rep).Error
}

func (r *reportRepo) ListPendingRetries(ctx context.Context, now time.Time, limit int) ([]model.Report, error) {
	var reports []model.Report
	err := r.db.WithContext(ctx).
		Where("status = ? AND next_retry_at IS NOT NULL AND next_retry_at <= ?", model.ReportPending, now).
		Order("next_retry_at").
		Limit(limit).
		Find(&reports).Error
	return reports, err
}
