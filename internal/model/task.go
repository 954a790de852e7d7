package model

import (
	"time"

	"github.com/google/uuid"
)

// Task statuses.
const (
	TaskOpen       = "open"
	TaskInProgress = "in_progress"
	TaskDone       = "done"
	TaskCancelled  = "cancelled"
)

// Task is a warehouse work item.
// Priority: "low" | "normal" | "high"
type Task struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Title       string    `gorm:"not null"`
	Description string
	Status      string     `gorm:"type:varchar(20);not null;default:open"`
	Priority    string     `gorm:"type:varchar(10);not null;default:normal"`
	AssigneeID  *uuid.UUID `gorm:"type:uuid;index"`
	DueDate     *time.Time
	CreatedBy   uuid.UUID `gorm:"type:uuid;not null"`
	CreatedAt   time.Time
	UpdatedAt   time.Time

	Assignee *User `gorm:"foreignKey:AssigneeID"`
}
