package dto

import "github.com/shopspring/decimal"

// ─── Maintenance ─────────────────────────────────────────────────────────────

type MaintenanceFilter struct {
	VehicleNo string `form:"vehicle_no"`
	From      string `form:"from" validate:"omitempty,datetime=2006-01-02"`
	To        string `form:"to"   validate:"omitempty,datetime=2006-01-02"`
	Page      int    `form:"page,default=1"   validate:"min=1"`
	Limit     int    `form:"limit,default=50" validate:"min=1,max=200"`
}

type MaintenanceRequest struct {
	VehicleNo   string          `json:"vehicle_no"  validate:"required"`
	Description string          `json:"description" validate:"required"`
	Cost        decimal.Decimal `json:"cost"        validate:"min=0"`
	OdometerKm  *int            `json:"odometer_km" validate:"omitempty,min=0"`
	ServicedAt  string          `json:"serviced_at" validate:"required,datetime=2006-01-02"`
	NextDueAt   *string         `json:"next_due_at" validate:"omitempty,datetime=2006-01-02"`
	Workshop    string          `json:"workshop"`
}

type MaintenanceResponse struct {
	ID          string          `json:"id"`
	VehicleNo   string          `json:"vehicle_no"`
	Description string          `json:"description"`
	Cost        decimal.Decimal `json:"cost"`
	OdometerKm  *int            `json:"odometer_km,omitempty"`
	ServicedAt  string          `json:"serviced_at"`
	NextDueAt   *string         `json:"next_due_at,omitempty"`
	Workshop    string          `json:"workshop,omitempty"`
	CreatedAt   string          `json:"created_at"`
}

type MaintenanceListResponse struct {
	Data  []MaintenanceResponse `json:"data"`
	Total int64                 `json:"total"`
	Page  int                   `json:"page"`
	Limit int                   `json:"limit"`
}

// ─── Driver licenses ─────────────────────────────────────────────────────────

type LicenseRequest struct {
	UserID     *string `json:"user_id"     validate:"omitempty,uuid"`
	DriverName string  `json:"driver_name" validate:"required"`
	LicenseNo  string  `json:"license_no"  validate:"required"`
	Class      string  `json:"class"`
	IssuedAt   *string `json:"issued_at"  validate:"omitempty,datetime=2006-01-02"`
	ExpiresAt  string  `json:"expires_at" validate:"required,datetime=2006-01-02"`
}

type LicenseResponse struct {
	ID         string  `json:"id"`
	UserID     *string `json:"user_id,omitempty"`
	DriverName string  `json:"driver_name"`
	LicenseNo  string  `json:"license_no"`
	Class      string  `json:"class,omitempty"`
	IssuedAt   *string `json:"issued_at,omitempty"`
	ExpiresAt  string  `json:"expires_at"`
	// DaysLeft is negative when already expired
	DaysLeft int `json:"days_left"`
}
