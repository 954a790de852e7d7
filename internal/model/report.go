package model

import (
	"time"

	"github.com/google/uuid"
)

// Report statuses. "pending" reports with a due NextRetryAt are picked up by
// the retry cron; "error" means retries are exhausted and the job is in the DLQ.
const (
	ReportPending    = "pending"
	ReportProcessing = "processing"
	ReportDone       = "done"
	ReportError      = "error"
)

// MaxReportRetries caps AI-sidecar attempts before a report is parked.
const MaxReportRetries = 5

// Report is an AI-assisted operations report. A worker calls the report AI
// sidecar for the narrative, renders the PDF and optionally emails it.
type Report struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Title       string    `gorm:"not null"`
	Kind        string    `gorm:"type:varchar(30);not null"` // productivity | shipments | maintenance
	FromDate    time.Time `gorm:"type:date;not null"`
	ToDate      time.Time `gorm:"type:date;not null"`
	Status      string    `gorm:"type:varchar(20);not null;default:pending"`
	PDFPath     *string
	EmailTo     *string
	RequestedBy uuid.UUID `gorm:"type:uuid;not null"`
	RetryCount  int       `gorm:"not null;default:0"`
	NextRetryAt *time.Time
	LastError   *string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
