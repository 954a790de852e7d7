package dto

// ─── Shipments ───────────────────────────────────────────────────────────────

type ShipmentFilter struct {
	Status string `form:"status,default=all"` // expected | arrived | completed | all
	Branch string `form:"branch"`
	Page   int    `form:"page,default=1"   validate:"min=1"`
	Limit  int    `form:"limit,default=50" validate:"min=1,max=200"`
}

type CreateShipmentRequest struct {
	ShipmentNo string  `json:"shipment_no" validate:"required"`
	Origin     string  `json:"origin"`
	Carrier    string  `json:"carrier"`
	ETA        *string `json:"eta" validate:"omitempty,datetime=2006-01-02"`
	Branch     *string `json:"branch"`
}

type UpdateShipmentRequest struct {
	Origin  string  `json:"origin"`
	Carrier string  `json:"carrier"`
	Status  string  `json:"status" validate:"omitempty,oneof=expected arrived completed"`
	ETA     *string `json:"eta" validate:"omitempty,datetime=2006-01-02"`
}

// CaseManifestRequest seeds the production cases for a shipment.
type CaseManifestRequest struct {
	Cases []CaseManifestItem `json:"cases" validate:"required,min=1,dive"`
}

type CaseManifestItem struct {
	CaseNumber string `json:"case_number" validate:"required"`
	TotalLines int    `json:"total_lines" validate:"required,gt=0"`
}

type ShipmentCaseResponse struct {
	CaseNumber     string `json:"case_number"`
	TotalLines     int    `json:"total_lines"`
	ConsumedLines  int    `json:"consumed_lines"`
	RemainingLines int    `json:"remaining_lines"`
	FullySorted    bool   `json:"fully_sorted"`
}

type ShipmentResponse struct {
	ID         string                 `json:"id"`
	ShipmentNo string                 `json:"shipment_no"`
	Origin     string                 `json:"origin"`
	Carrier    string                 `json:"carrier"`
	Status     string                 `json:"status"`
	ETA        *string                `json:"eta,omitempty"`
	ArrivedAt  *string                `json:"arrived_at,omitempty"`
	Branch     *string                `json:"branch,omitempty"`
	Cases      []ShipmentCaseResponse `json:"cases,omitempty"`
	CreatedAt  string                 `json:"created_at"`
}

type ShipmentListResponse struct {
	Data  []ShipmentResponse `json:"data"`
	Total int64              `json:"total"`
	Page  int                `json:"page"`
	Limit int                `json:"limit"`
}
