package service

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/asif1001/wareopes1-sub002/internal/model"
	"github.com/asif1001/wareopes1-sub002/internal/repository"

	"github.com/google/uuid"
)

// AuthContext is the resolved identity and effective permission set for one
// request. Permissions may be nil when neither the user record nor its role
// grants anything; route guards treat nil as "no access" unless the role is
// Admin.
type AuthContext struct {
	UserID      uuid.UUID
	EmployeeNo  string
	FullName    string
	Role        string
	Branch      *string
	Permissions model.PermissionSet
}

// IsAdmin reports whether the caller holds the Admin role. Exact,
// case-sensitive match against the stored role name.
func (a *AuthContext) IsAdmin() bool { return a.Role == model.AdminRole }

// Can reports whether the caller may perform action on page.
// Admin bypasses per-page permissions.
func (a *AuthContext) Can(page, action string) bool {
	return a.IsAdmin() || a.Permissions.Allows(page, action)
}

// SessionService turns a raw session cookie value into an AuthContext.
// All failure paths degrade to (nil, false), never an error. A missing or
// unknown session is simply an unauthenticated request.
type SessionService interface {
	Resolve(ctx context.Context, cookieValue string) (*AuthContext, bool)
}

type sessionService struct {
	users repository.UserRepository
	roles repository.RoleRepository
}

func NewSessionService(users repository.UserRepository, roles repository.RoleRepository) SessionService {
	return &sessionService{users: users, roles: roles}
}

func (s *sessionService) Resolve(ctx context.Context, cookieValue string) (*AuthContext, bool) {
	rawID := ParseSessionCookie(cookieValue)
	if rawID == "" {
		return nil, false
	}
	uid, err := uuid.Parse(rawID)
	if err != nil {
		return nil, false
	}

	user, err := s.users.FindByID(ctx, uid)
	if err != nil || !user.Active {
		return nil, false
	}

	perms := user.Permissions
	if perms == nil && user.Role != "" {
		// Role fallback: flatten the role's "page:action" codes. A missing
		// role record leaves permissions nil, which grants nothing.
		if role, rerr := s.roles.FindByName(ctx, user.Role); rerr == nil {
			perms = FlattenPermissions(role.Permissions)
		}
	}

	return &AuthContext{
		UserID:      user.ID,
		EmployeeNo:  user.EmployeeNo,
		FullName:    user.FullName,
		Role:        user.Role,
		Branch:      user.Branch,
		Permissions: perms,
	}, true
}

// ParseSessionCookie extracts the user id from a session cookie value. The
// value is either a JSON object with an "id" field or a bare id string;
// a failed JSON decode falls back to the raw value rather than erroring,
// so legacy bare-id cookies keep working.
func ParseSessionCookie(value string) string {
	var obj struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal([]byte(value), &obj); err == nil && obj.ID != "" {
		return obj.ID
	}
	return value
}

// FlattenPermissions groups "page:action" codes into a page → action-set
// mapping. Entries missing either segment are dropped; duplicates collapse.
func FlattenPermissions(codes []string) model.PermissionSet {
	if len(codes) == 0 {
		return nil
	}
	perms := make(model.PermissionSet)
	for _, code := range codes {
		page, action, ok := strings.Cut(code, ":")
		if !ok || page == "" || action == "" {
			continue
		}
		if !perms.Allows(page, action) {
			perms[page] = append(perms[page], action)
		}
	}
	if len(perms) == 0 {
		return nil
	}
	return perms
}
