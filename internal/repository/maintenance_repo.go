package repository

import (
	"context"
	"time"

	"github.com/asif1001/wareopes1-sub002/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// MaintenanceFilter defines filters for listing maintenance records.
type MaintenanceFilter struct {
	VehicleNo string
	From      *time.Time
	To        *time.Time
	Page      int
	Limit     int
}

type MaintenanceRepository interface {
	Create(ctx context.Context, m *model.MaintenanceRecord) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.MaintenanceRecord, error)
	List(ctx context.Context, filter MaintenanceFilter) ([]model.MaintenanceRecord, int64, error)
	Update(ctx context.Context, m *model.MaintenanceRecord) error
	Delete(ctx context.Context, id uuid.UUID) error
	// CostBetween sums maintenance spend in [from, to] and counts records.
	CostBetween(ctx context.Context, from, to time.Time) (decimal.Decimal, int64, error)
}

type maintenanceRepo struct{ db *gorm.DB }

func NewMaintenanceRepository(db *gorm.DB) MaintenanceRepository {
	return &maintenanceRepo{db: db}
}

func (r *maintenanceRepo) Create(ctx context.Context, m *model.MaintenanceRecord) error {
	return r.db.WithContext(ctx).Create(m).Error
}

func (r *maintenanceRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.MaintenanceRecord, error) {
	var m model.MaintenanceRecord
	err := r.db.WithContext(ctx).First(&m, id).Error
	return &m, err
}

func (r *maintenanceRepo) List(ctx context.Context, filter MaintenanceFilter) ([]model.MaintenanceRecord, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.MaintenanceRecord{})
	if filter.VehicleNo != "" {
		q = q.Where("vehicle_no = ?", filter.VehicleNo)
	}
	if filter.From != nil {
		q = q.Where("serviced_at >= ?", *filter.From)
	}
	if filter.To != nil {
		q = q.Where("serviced_at <= ?", *filter.To)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	page := filter.Page
	limit := filter.Limit
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 200 {
		limit = 50
	}
	offset := (page - 1) * limit

	var records []model.MaintenanceRecord
	err := q.Order("serviced_at DESC").Offset(offset).Limit(limit).Find(&records).Error
	return records, total, err
}

func (r *maintenanceRepo) Update(ctx context.Context, m *model.MaintenanceRecord) error {
	return r.db.WithContext(ctx).Save(m).Error
}

func (r *maintenanceRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.MaintenanceRecord{}, id).Error
}

func (r *maintenanceRepo) CostBetween(ctx context.Context, from, to time.Time) (decimal.Decimal, int64, error) {
	var row struct {
		Total decimal.Decimal
		N     int64
	}
	err := r.db.WithContext(ctx).Model(&model.MaintenanceRecord{}).
		Select("COALESCE(SUM(cost),0) AS total, COUNT(*) AS n").
		Where("serviced_at >= ? AND serviced_at <= ?", from, to).
		Scan(&row).Error
	return row.Total, row.N, err
}
