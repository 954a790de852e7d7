package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// MaintenanceRecord logs a service performed on a vehicle or piece of
// warehouse equipment (forklifts, trucks, dock levellers).
type MaintenanceRecord struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	VehicleNo   string    `gorm:"not null;index"`
	Description string    `gorm:"not null"`
	Cost        decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	OdometerKm  *int
	ServicedAt  time.Time `gorm:"not null"`
	NextDueAt   *time.Time
	Workshop    string
	CreatedBy   uuid.UUID `gorm:"type:uuid;not null"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// DriverLicense tracks a driver's license and its expiry so dispatch can
// surface licenses that are about to lapse.
type DriverLicense struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserID     *uuid.UUID `gorm:"type:uuid;index"`
	DriverName string     `gorm:"not null"`
	LicenseNo  string     `gorm:"uniqueIndex;not null"`
	Class      string     `gorm:"type:varchar(10)"`
	IssuedAt   *time.Time
	ExpiresAt  time.Time `gorm:"not null;index"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
