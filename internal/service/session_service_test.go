package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/asif1001/wareopes1-sub002/internal/model"
	"github.com/asif1001/wareopes1-sub002/internal/repository"
	"github.com/asif1001/wareopes1-sub002/internal/service"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ── Stubs ─────────────────────────────────────────────────────────────────────

type stubUserRepo struct {
	users map[uuid.UUID]*model.User
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[uuid.UUID]*model.User)}
}

func (r *stubUserRepo) Create(_ context.Context, u *model.User) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	r.users[u.ID] = u
	return nil
}

func (r *stubUserRepo) FindByLogin(_ context.Context, login string) (*model.User, error) {
	for _, u := range r.users {
		if u.Active && (u.EmployeeNo == login || (u.Email != nil && *u.Email == login)) {
			return u, nil
		}
	}
	return nil, errors.New("record not found")
}

func (r *stubUserRepo) FindByID(_ context.Context, id uuid.UUID) (*model.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, errors.New("record not found")
	}
	return u, nil
}

func (r *stubUserRepo) List(_ context.Context) ([]model.User, error) {
	var out []model.User
	for _, u := range r.users {
		if u.Active {
			out = append(out, *u)
		}
	}
	return out, nil
}

func (r *stubUserRepo) ListAll(_ context.Context) ([]model.User, error) {
	var out []model.User
	for _, u := range r.users {
		out = append(out, *u)
	}
	return out, nil
}

func (r *stubUserRepo) Update(_ context.Context, u *model.User) error {
	r.users[u.ID] = u
	return nil
}

func (r *stubUserRepo) SoftDelete(_ context.Context, id uuid.UUID) error {
	if u, ok := r.users[id]; ok {
		u.Active = false
	}
	return nil
}

func (r *stubUserRepo) Reactivate(_ context.Context, id uuid.UUID) error {
	if u, ok := r.users[id]; ok {
		u.Active = true
	}
	return nil
}

var _ repository.UserRepository = (*stubUserRepo)(nil)

type stubRoleRepo struct {
	roles map[string]*model.Role
}

func newStubRoleRepo() *stubRoleRepo {
	return &stubRoleRepo{roles: make(map[string]*model.Role)}
}

func (r *stubRoleRepo) Create(_ context.Context, role *model.Role) error {
	if role.ID == uuid.Nil {
		role.ID = uuid.New()
	}
	r.roles[role.Name] = role
	return nil
}

func (r *stubRoleRepo) FindByName(_ context.Context, name string) (*model.Role, error) {
	role, ok := r.roles[name]
	if !ok {
		return nil, errors.New("record not found")
	}
	return role, nil
}

func (r *stubRoleRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Role, error) {
	for _, role := range r.roles {
		if role.ID == id {
			return role, nil
		}
	}
	return nil, errors.New("record not found")
}

func (r *stubRoleRepo) List(_ context.Context) ([]model.Role, error) {
	var out []model.Role
	for _, role := range r.roles {
		out = append(out, *role)
	}
	return out, nil
}

func (r *stubRoleRepo) Update(_ context.Context, role *model.Role) error {
	r.roles[role.Name] = role
	return nil
}

func (r *stubRoleRepo) Delete(_ context.Context, id uuid.UUID) error {
	for name, role := range r.roles {
		if role.ID == id {
			delete(r.roles, name)
		}
	}
	return nil
}

var _ repository.RoleRepository = (*stubRoleRepo)(nil)

func buildSessionSvc() (service.SessionService, *stubUserRepo, *stubRoleRepo) {
	users := newStubUserRepo()
	roles := newStubRoleRepo()
	return service.NewSessionService(users, roles), users, roles
}

func seedUser(users *stubUserRepo, role string, perms model.PermissionSet) *model.User {
	u := &model.User{
		ID:          uuid.New(),
		EmployeeNo:  "E1001",
		FullName:    "Test User",
		Role:        role,
		Permissions: perms,
		Active:      true,
	}
	users.users[u.ID] = u
	return u
}

// ── Cookie parsing ────────────────────────────────────────────────────────────

func TestParseSessionCookie_BareAndJSONEquivalent(t *testing.T) {
	assert.Equal(t, "u1", service.ParseSessionCookie("u1"))
	assert.Equal(t, "u1", service.ParseSessionCookie(`{"id":"u1"}`))
}

func TestParseSessionCookie_MalformedJSONFallsBack(t *testing.T) {
	// Broken JSON degrades to the raw value instead of erroring.
	assert.Equal(t, `{"id":`, service.ParseSessionCookie(`{"id":`))
	// JSON without an id also falls back to the raw value.
	assert.Equal(t, `{"user":"u1"}`, service.ParseSessionCookie(`{"user":"u1"}`))
}

func TestResolve_JSONAndBareCookieSameUser(t *testing.T) {
	svc, users, _ := buildSessionSvc()
	u := seedUser(users, "Worker", model.PermissionSet{"tasks": {"view"}})

	bare, ok := svc.Resolve(context.Background(), u.ID.String())
	require.True(t, ok)
	wrapped, ok := svc.Resolve(context.Background(), `{"id":"`+u.ID.String()+`"}`)
	require.True(t, ok)
	assert.Equal(t, bare.UserID, wrapped.UserID)
	assert.Equal(t, bare.Permissions, wrapped.Permissions)
}

// ── Resolution ────────────────────────────────────────────────────────────────

func TestResolve_UnknownOrInactiveUser(t *testing.T) {
	svc, users, _ := buildSessionSvc()
	u := seedUser(users, "Worker", nil)
	u.Active = false

	_, ok := svc.Resolve(context.Background(), uuid.New().String())
	assert.False(t, ok)

	_, ok = svc.Resolve(context.Background(), u.ID.String())
	assert.False(t, ok)

	_, ok = svc.Resolve(context.Background(), "not-a-uuid")
	assert.False(t, ok)
}

func TestResolve_ExplicitPermissionsWinOverRole(t *testing.T) {
	svc, users, roles := buildSessionSvc()
	_ = roles.Create(context.Background(), &model.Role{
		Name:        "Worker",
		Permissions: model.StringList{"shipments:view"},
	})
	u := seedUser(users, "Worker", model.PermissionSet{"tasks": {"view"}})

	auth, ok := svc.Resolve(context.Background(), u.ID.String())
	require.True(t, ok)
	assert.True(t, auth.Can("tasks", "view"))
	// The role's grants are not merged in.
	assert.False(t, auth.Can("shipments", "view"))
}

func TestResolve_RoleFallbackFlattensCodes(t *testing.T) {
	svc, users, roles := buildSessionSvc()
	_ = roles.Create(context.Background(), &model.Role{
		Name:        "Worker",
		Permissions: model.StringList{"tasks:view", "tasks:manage", "production:record"},
	})
	u := seedUser(users, "Worker", nil)

	auth, ok := svc.Resolve(context.Background(), u.ID.String())
	require.True(t, ok)
	assert.True(t, auth.Can("tasks", "view"))
	assert.True(t, auth.Can("tasks", "manage"))
	assert.True(t, auth.Can("production", "record"))
	assert.False(t, auth.Can("production", "view"))
}

func TestResolve_MissingRoleGrantsNothing(t *testing.T) {
	svc, users, _ := buildSessionSvc()
	u := seedUser(users, "GhostRole", nil)

	auth, ok := svc.Resolve(context.Background(), u.ID.String())
	require.True(t, ok)
	assert.Nil(t, auth.Permissions)
	assert.False(t, auth.Can("tasks", "view"))
}

// ── Permission flattening ─────────────────────────────────────────────────────

func TestFlattenPermissions_DropsMalformedAndDeduplicates(t *testing.T) {
	perms := service.FlattenPermissions([]string{
		"tasks:view", "tasks:view", "tasks:", ":view", "nocolon", "reports:view",
	})
	assert.Equal(t, model.PermissionSet{
		"tasks":   {"view"},
		"reports": {"view"},
	}, perms)
}

func TestFlattenPermissions_EmptyAndAllMalformed(t *testing.T) {
	assert.Nil(t, service.FlattenPermissions(nil))
	assert.Nil(t, service.FlattenPermissions([]string{}))
	assert.Nil(t, service.FlattenPermissions([]string{"nocolon", ":", "x:"}))
}

// ── Admin semantics ───────────────────────────────────────────────────────────

func TestIsAdmin_ExactMatchOnly(t *testing.T) {
	for role, want := range map[string]bool{
		"Admin":         true,
		"admin":         false,
		"ADMIN":         false,
		"Administrator": false,
		"":              false,
	} {
		auth := &service.AuthContext{Role: role}
		assert.Equal(t, want, auth.IsAdmin(), "role %q", role)
	}
}

func TestAdminBypassesPermissionChecks(t *testing.T) {
	svc, users, _ := buildSessionSvc()
	u := seedUser(users, model.AdminRole, nil)

	auth, ok := svc.Resolve(context.Background(), u.ID.String())
	require.True(t, ok)
	assert.True(t, auth.Can("anything", "at-all"))
}
