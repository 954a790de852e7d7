package model

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
)

// AdminRole is the role name that bypasses per-page permission checks.
// Comparison is exact and case-sensitive: role names come from the Roles
// table, which is seeded and edited through the admin UI only.
const AdminRole = "Admin"

// PermissionSet maps a page key ("tasks", "maintenance", …) to the set of
// allowed actions ("view", "add", "edit", "delete"). Stored as JSONB.
type PermissionSet map[string][]string

// Allows reports whether the set grants action on page. Order-independent.
func (p PermissionSet) Allows(page, action string) bool {
	for _, a := range p[page] {
		if a == action {
			return true
		}
	}
	return false
}

func (p PermissionSet) Value() (driver.Value, error) {
	if p == nil {
		return nil, nil
	}
	return json.Marshal(p)
}

func (p *PermissionSet) Scan(value interface{}) error {
	if value == nil {
		*p = nil
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, p)
	case string:
		return json.Unmarshal([]byte(v), p)
	default:
		return errors.New("permission set: unsupported scan type")
	}
}

// StringList is a JSONB-backed string slice (role permission codes).
type StringList []string

func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		return nil, nil
	}
	return json.Marshal(l)
}

func (l *StringList) Scan(value interface{}) error {
	if value == nil {
		*l = nil
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, l)
	case string:
		return json.Unmarshal([]byte(v), l)
	default:
		return errors.New("string list: unsupported scan type")
	}
}

// User stores system users. Permissions, when set, override the defaults
// derived from the user's role; nil means "fall back to the role".
type User struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	EmployeeNo   string    `gorm:"uniqueIndex;not null"`
	FullName     string    `gorm:"not null"`
	Email        *string
	PasswordHash string        `gorm:"not null"`
	Role         string        `gorm:"type:varchar(40);not null"`
	Permissions  PermissionSet `gorm:"type:jsonb"`
	Branch       *string
	Active       bool `gorm:"not null;default:true"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Role is an admin-managed permission group. Each permission entry is a
// "<page>:<action>" code, e.g. "tasks:view".
type Role struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name        string     `gorm:"uniqueIndex;not null"`
	Permissions StringList `gorm:"type:jsonb"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
