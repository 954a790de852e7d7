package repository

import (
	"context"

	"github.com/asif1001/wareopes1-sub002/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ShipmentFilter defines filters for listing shipments.
type ShipmentFilter struct {
	Status string
	Branch string
	Page   int
	Limit  int
}

type ShipmentRepository interface {
	Create(ctx context.Context, s *model.Shipment) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Shipment, error)
	List(ctx context.Context, filter ShipmentFilter) ([]model.Shipment, int64, error)
	Update(ctx context.Context, s *model.Shipment) error
	CountByStatus(ctx context.Context, status string) (int64, error)
}

type shipmentRepo struct{ db *gorm.DB }

func NewShipmentRepository(db *gorm.DB) ShipmentRepository { return &shipmentRepo{db: db} }

func (r *shipmentRepo) Create(ctx context.Context, s *model.Shipment) error {
	return r.db.WithContext(ctx).Create(s).Error
}

func (r *shipmentRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Shipment, error) {
	var s model.Shipment
	err := r.db.WithContext(ctx).Preload("Cases").First(&s, id).Error
	return &s, err
}

func (r *shipmentRepo) List(ctx context.Context, filter ShipmentFilter) ([]model.Shipment, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.Shipment{})
	if filter.Status != "" && filter.Status != "all" {
		q = q.Where("status = ?", filter.Status)
	}
	if filter.Branch != "" {
		q = q.Where("branch = ?", filter.Branch)
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

	var shipments []model.Shipment
	err := q.Order("created_at DESC").Offset(offset).Limit(limit).Find(&shipments).Error
	return shipments, total, err
}

func (r *shipmentRepo) Update(ctx context.Context, s *model.Shipment) error {
	return r.db.WithContext(ctx).Save(s).Error
}

func (r *shipmentRepo) CountByStatus(ctx context.Context, status string) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Shipment{}).Where("status = ?", status).Count(&n).Error
	return n, err
}
