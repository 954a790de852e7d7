package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/asif1001/wareopes1-sub002/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrCaseNotFound is returned when the (shipment, case number) pair does not
// exist. Fatal for the allocation that named it.
var ErrCaseNotFound = errors.New("production case not found")

// ExceedsRemainingError rejects an allocation that would oversubscribe a
// case. Remaining carries the actual remaining capacity for the client.
type ExceedsRemainingError struct {
	Remaining int
	Requested int
}

func (e *ExceedsRemainingError) Error() string {
	return fmt.Sprintf("requested %d lines but only %d remaining", e.Requested, e.Remaining)
}

type CaseRepository interface {
	CreateBatch(ctx context.Context, cases []model.ProductionCase) error
	FindByShipmentCase(ctx context.Context, shipmentID uuid.UUID, caseNumber string) (*model.ProductionCase, error)
	ListByShipment(ctx context.Context, shipmentID uuid.UUID) ([]model.ProductionCase, error)
	// Allocate consumes lines from a case's remaining capacity inside a
	// single row-locked transaction. Two concurrent allocations against the
	// same case serialize on the row lock, so the capacity check and the
	// increment are atomic. Different cases do not contend.
	Allocate(ctx context.Context, shipmentID uuid.UUID, caseNumber string, lines int, by uuid.UUID) (*model.ProductionCase, error)
	CountFullySortedSince(ctx context.Context, since time.Time) (int64, error)
}

type caseRepo struct{ db *gorm.DB }

func NewCaseRepository(db *gorm.DB) CaseRepository { return &caseRepo{db: db} }

func (r *caseRepo) CreateBatch(ctx context.Context, cases []model.ProductionCase) error {
	if len(cases) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&cases).Error
}

func (r *caseRepo) FindByShipmentCase(ctx context.Context, shipmentID uuid.UUID, caseNumber string) (*model.ProductionCase, error) {
	var c model.ProductionCase
	err := r.db.WithContext(ctx).
		Where("shipment_id = ? AND case_number = ?", shipmentID, caseNumber).
		First(&c).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrCaseNotFound
	}
	return &c, err
}

func (r *caseRepo) ListByShipment(ctx context.Context, shipmentID uuid.UUID) ([]model.ProductionCase, error) {
	var cases []model.ProductionCase
	err := r.db.WithContext(ctx).
		Where("shipment_id = ?", shipmentID).
		Order("case_number").
		Find(&cases).Error
	return cases, err
}

func (r *caseRepo) Allocate(ctx context.Context, shipmentID uuid.UUID, caseNumber string, lines int, by uuid.UUID) (*model.ProductionCase, error) {
	var c model.ProductionCase
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("shipment_id = ? AND case_number = ?", shipmentID, caseNumber).
			First(&c).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCaseNotFound
		}
		if err != nil {
			return err
		}

		remaining := c.RemainingLines()
		if lines > remaining {
			return &ExceedsRemainingError{Remaining: remaining, Requested: lines}
		}

		now := time.Now()
		c.ConsumedLines += lines
		c.LastAllocatedAt = &now
		c.LastAllocatedBy = &by
		return tx.Model(&model.ProductionCase{}).
			Where("id = ?", c.ID).
			Updates(map[string]interface{}{
				"consumed_lines":    c.ConsumedLines,
				"last_allocated_at": now,
				"last_allocated_by": by,
			}).Error
	})
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *caseRepo) CountFullySortedSince(ctx context.Context, since time.Time) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.ProductionCase{}).
		Where("consumed_lines >= total_lines AND last_allocated_at >= ?", since).
		Count(&n).Error
	return n, err
}
