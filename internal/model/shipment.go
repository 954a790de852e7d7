package model

import (
	"time"

	"github.com/google/uuid"
)

// Shipment statuses.
const (
	ShipmentExpected  = "expected"
	ShipmentArrived   = "arrived"
	ShipmentCompleted = "completed"
)

// Shipment is an inbound container/consignment tracked through the warehouse.
type Shipment struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ShipmentNo string    `gorm:"uniqueIndex;not null"`
	Origin     string
	Carrier    string
	Status     string `gorm:"type:varchar(20);not null;default:expected"`
	ETA        *time.Time
	ArrivedAt  *time.Time
	Branch     *string
	CreatedBy  uuid.UUID `gorm:"type:uuid"`
	CreatedAt  time.Time
	UpdatedAt  time.Time

	Cases []ProductionCase `gorm:"foreignKey:ShipmentID"`
}

// ProductionCase is a shipment sub-unit with a fixed line-count capacity.
// ConsumedLines only ever grows, and never past TotalLines; that invariant
// is enforced inside a row-locked transaction (see repository.CaseRepository).
// RemainingLines and FullySorted are derived on read, never stored.
type ProductionCase struct {
	ID              uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ShipmentID      uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_shipment_case"`
	CaseNumber      string    `gorm:"not null;uniqueIndex:idx_shipment_case"`
	TotalLines      int       `gorm:"not null"`
	ConsumedLines   int       `gorm:"not null;default:0"`
	LastAllocatedAt *time.Time
	LastAllocatedBy *uuid.UUID `gorm:"type:uuid"`
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// RemainingLines is clamped at zero; stored data predating the capacity
// check may already be oversubscribed.
func (c *ProductionCase) RemainingLines() int {
	r := c.TotalLines - c.ConsumedLines
	if r < 0 {
		return 0
	}
	return r
}

func (c *ProductionCase) FullySorted() bool {
	return c.ConsumedLines >= c.TotalLines
}
