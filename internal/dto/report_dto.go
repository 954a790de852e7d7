package dto

type CreateReportRequest struct {
	Title    string  `json:"title" validate:"required"`
	Kind     string  `json:"kind"  validate:"required,oneof=productivity shipments maintenance"`
	FromDate string  `json:"from_date" validate:"required,datetime=2006-01-02"`
	ToDate   string  `json:"to_date"   validate:"required,datetime=2006-01-02"`
	EmailTo  *string `json:"email_to"  validate:"omitempty,email"`
}

type ReportResponse struct {
	ID        string  `json:"id"`
	Title     string  `json:"title"`
	Kind      string  `json:"kind"`
	FromDate  string  `json:"from_date"`
	ToDate    string  `json:"to_date"`
	Status    string  `json:"status"`
	EmailTo   *string `json:"email_to,omitempty"`
	LastError *string `json:"last_error,omitempty"`
	CreatedAt string  `json:"created_at"`
}

// DashboardStats feeds the landing page tiles. Cached in Redis for a minute.
type DashboardStats struct {
	OpenTasks          int64 `json:"open_tasks"`
	ShipmentsInTransit int64 `json:"shipments_in_transit"`
	ShipmentsArrived   int64 `json:"shipments_arrived"`
	CasesSortedToday   int64 `json:"cases_sorted_today"`
	LinesSortedToday   int   `json:"lines_sorted_today"`
	LinesPackedToday   int   `json:"lines_packed_today"`
	ExpiringLicenses   int   `json:"expiring_licenses"`
}
