package dto

// Field names on this endpoint are part of the published API contract used by
// the dashboard frontend; they stay camelCase unlike the rest of the API.

// SortingEntryRequest consumes totalLines from a case's remaining capacity.
type SortingEntryRequest struct {
	ShipmentID  string `json:"shipmentId"  validate:"required,uuid"`
	CaseNumber  string `json:"caseNumber"  validate:"required"`
	TotalLines  int    `json:"totalLines"  validate:"required,gt=0"`
	EkcDomestic int    `json:"ekcDomestic" validate:"min=0"`
	EkmBulk     int    `json:"ekmBulk"     validate:"min=0"`
}

// PackingEntryRequest records lines packed into a new case at a location.
// Packing does not touch the consumption ledger.
type PackingEntryRequest struct {
	LocationNo  string `json:"locationNo"  validate:"required"`
	NewCaseNo   string `json:"newCaseNo"   validate:"required"`
	LinesPacked int    `json:"linesPacked" validate:"required,gt=0"`
}

type RecordEntriesRequest struct {
	Date           string                `json:"date"   validate:"required,datetime=2006-01-02"`
	UserID         string                `json:"userId" validate:"required,uuid"`
	SortingEntries []SortingEntryRequest `json:"sortingEntries" validate:"dive"`
	PackingEntries []PackingEntryRequest `json:"packingEntries" validate:"dive"`
	// ClientRef is echoed back verbatim. Reserved for client-side retry
	// correlation; the server performs no deduplication on it.
	ClientRef string `json:"clientRef"`
}

type EntriesSummary struct {
	SortingCases int `json:"sortingCases"`
	SortingLines int `json:"sortingLines"`
	PackingCases int `json:"packingCases"`
	PackingLines int `json:"packingLines"`
}

type RecordEntriesResponse struct {
	OK        bool           `json:"ok"`
	Summary   EntriesSummary `json:"summary"`
	ClientRef string         `json:"clientRef,omitempty"`
}

// CaseStatusResponse is returned by GET /v1/production/cases.
type CaseStatusResponse struct {
	ShipmentID      string  `json:"shipmentId"`
	CaseNumber      string  `json:"caseNumber"`
	TotalLines      int     `json:"totalLines"`
	ConsumedLines   int     `json:"consumedLines"`
	RemainingLines  int     `json:"remainingLines"`
	FullySorted     bool    `json:"fullySorted"`
	LastAllocatedAt *string `json:"lastAllocatedAt,omitempty"`
	LastAllocatedBy *string `json:"lastAllocatedBy,omitempty"`
}

// EntryLogFilter narrows the audit listing of recorded entries.
type EntryLogFilter struct {
	UserID string `form:"userId" validate:"omitempty,uuid"`
	Type   string `form:"type"  validate:"omitempty,oneof=sorting packing"`
	From   string `form:"from"  validate:"omitempty,datetime=2006-01-02"`
	To     string `form:"to"    validate:"omitempty,datetime=2006-01-02"`
	Page   int    `form:"page,default=1"   validate:"min=1"`
	Limit  int    `form:"limit,default=100" validate:"min=1,max=500"`
}

// EntryLogItem is one audit record. Sorting entries carry the shipment case
// fields; packing entries carry the location fields.
type EntryLogItem struct {
	ID          string  `json:"id"`
	Type        string  `json:"type"`
	UserID      string  `json:"userId"`
	Date        string  `json:"date"`
	ShipmentID  *string `json:"shipmentId,omitempty"`
	CaseNumber  *string `json:"caseNumber,omitempty"`
	TotalLines  int     `json:"totalLines,omitempty"`
	EkcDomestic int     `json:"ekcDomestic,omitempty"`
	EkmBulk     int     `json:"ekmBulk,omitempty"`
	LocationNo  *string `json:"locationNo,omitempty"`
	NewCaseNo   *string `json:"newCaseNo,omitempty"`
	LinesPacked int     `json:"linesPacked,omitempty"`
	CreatedAt   string  `json:"createdAt"`
}

type EntryLogResponse struct {
	Data  []EntryLogItem `json:"data"`
	Total int64          `json:"total"`
	Page  int            `json:"page"`
	Limit int            `json:"limit"`
}

type DailySummaryResponse struct {
	Date         string `json:"date"`
	SortingCases int    `json:"sortingCases"`
	SortingLines int    `json:"sortingLines"`
	PackingCases int    `json:"packingCases"`
	PackingLines int    `json:"packingLines"`
}
