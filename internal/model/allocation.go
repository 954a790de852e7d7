package model

import (
	"time"

	"github.com/google/uuid"
)

// Allocation entry types.
const (
	AllocationSorting = "sorting"
	AllocationPacking = "packing"
)

// AllocationEntry is the append-only audit record written after a production
// entry is accepted. Sorting entries reference a shipment case; packing
// entries reference a location and the new case being packed. Entries are
// written in one batch after every referenced case has committed its
// capacity update; they are never mutated afterwards.
type AllocationEntry struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Type        string    `gorm:"type:varchar(10);not null;index"`
	UserID      uuid.UUID `gorm:"type:uuid;not null;index"`
	EntryDate   time.Time `gorm:"type:date;not null;index"`
	ShipmentID  *uuid.UUID `gorm:"type:uuid"`
	CaseNumber  *string
	TotalLines  int
	EkcDomestic int
	EkmBulk     int
	LocationNo  *string
	NewCaseNo   *string
	LinesPacked int
	CreatedAt   time.Time
}

// TableName overrides GORM's default pluralization.
func (AllocationEntry) TableName() string { return "allocation_entries" }

// DailySummary aggregates a user's production output per calendar day.
// Upserted incrementally as entry batches are accepted.
type DailySummary struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserID       uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_user_day"`
	Date         time.Time `gorm:"type:date;not null;uniqueIndex:idx_user_day"`
	SortingCases int       `gorm:"not null;default:0"`
	SortingLines int       `gorm:"not null;default:0"`
	PackingCases int       `gorm:"not null;default:0"`
	PackingLines int       `gorm:"not null;default:0"`
	UpdatedAt    time.Time
}

// TableName overrides GORM's default pluralization.
func (DailySummary) TableName() string { return "daily_summaries" }
