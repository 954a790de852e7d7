package dto

import "github.com/asif1001/wareopes1-sub002/internal/model"

type LoginRequest struct {
	Login    string `json:"login"    validate:"required"` // employee number or email
	Password string `json:"password" validate:"required"`
}

// LoginResponse is returned by POST /v1/auth/login. The session cookie is
// set alongside; the body mirrors the resolved identity for the client.
type LoginResponse struct {
	User UserResponse `json:"user"`
}

type UserResponse struct {
	ID          string              `json:"id"`
	EmployeeNo  string              `json:"employee_no"`
	FullName    string              `json:"full_name"`
	Email       *string             `json:"email,omitempty"`
	Role        string              `json:"role"`
	Branch      *string             `json:"branch,omitempty"`
	Permissions model.PermissionSet `json:"permissions,omitempty"`
	Active      bool                `json:"active"`
}

type CreateUserRequest struct {
	EmployeeNo  string              `json:"employee_no" validate:"required"`
	FullName    string              `json:"full_name"   validate:"required"`
	Email       *string             `json:"email"       validate:"omitempty,email"`
	Password    string              `json:"password"    validate:"required,min=6"`
	Role        string              `json:"role"        validate:"required"`
	Branch      *string             `json:"branch"`
	Permissions model.PermissionSet `json:"permissions"`
}

type UpdateUserRequest struct {
	FullName    string              `json:"full_name"`
	Email       *string             `json:"email"    validate:"omitempty,email"`
	Password    string              `json:"password" validate:"omitempty,min=6"`
	Role        string              `json:"role"`
	Branch      *string             `json:"branch"`
	Permissions model.PermissionSet `json:"permissions"`
}

type RoleRequest struct {
	Name string `json:"name" validate:"required"`
	// Permissions are "<page>:<action>" codes, e.g. "tasks:view"
	Permissions []string `json:"permissions" validate:"required,dive,contains=:"`
}

type RoleResponse struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Permissions []string `json:"permissions"`
}
