package repository

import (
	"context"
	"time"

	"github.com/asif1001/wareopes1-sub002/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AllocationFilter defines filters for listing audit entries.
type AllocationFilter struct {
	UserID *uuid.UUID
	Type   string
	From   *time.Time
	To     *time.Time
	Page   int
	Limit  int
}

type AllocationRepository interface {
	// CreateBatch writes audit entries in one multi-row insert. Called only
	// after every referenced case transaction has committed; entries are
	// eventually consistent with ledger state, never part of its transaction.
	CreateBatch(ctx context.Context, entries []model.AllocationEntry) error
	List(ctx context.Context, filter AllocationFilter) ([]model.AllocationEntry, int64, error)
}

type allocationRepo struct{ db *gorm.DB }

func NewAllocationRepository(db *gorm.DB) AllocationRepository {
	return &allocationRepo{db: db}
}

func (r *allocationRepo) CreateBatch(ctx context.Context, entries []model.AllocationEntry) error {
	if len(entries) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&entries).Error
}

func (r *allocationRepo) List(ctx context.Context, filter AllocationFilter) ([]model.AllocationEntry, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.AllocationEntry{})
	if filter.UserID != nil {
		q = q.Where("user_id = ?", *filter.UserID)
	}
	if filter.Type != "" {
		q = q.Where("type = ?", filter.Type)
	}
	if filter.From != nil {
		q = q.Where("entry_date >= ?", *filter.From)
	}
	if filter.To != nil {
		q = q.Where("entry_date <= ?", *filter.To)
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
	if limit < 1 || limit > 500 {
		limit = 100
	}
	offset := (page - 1) * limit

	var entries []model.AllocationEntry
	err := q.Order("created_at DESC").Offset(offset).Limit(limit).Find(&entries).Error
	return entries, total, err
}
