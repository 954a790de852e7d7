package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/asif1001/wareopes1-sub002/internal/dto"
	"github.com/asif1001/wareopes1-sub002/internal/model"
	"github.com/asif1001/wareopes1-sub002/internal/service"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// flakyUserRepo fails FindByLogin a configured number of times before
// delegating, to exercise the login retry policy.
type flakyUserRepo struct {
	*stubUserRepo
	failures int
	err      error
	calls    int
}

func (r *flakyUserRepo) FindByLogin(ctx context.Context, login string) (*model.User, error) {
	r.calls++
	if r.calls <= r.failures {
		return nil, r.err
	}
	return r.stubUserRepo.FindByLogin(ctx, login)
}

func seedLoginUser(users *stubUserRepo, password string) *model.User {
	hash, _ := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	u := &model.User{
		ID:           uuid.New(),
		EmployeeNo:   "E2001",
		FullName:     "Login User",
		PasswordHash: string(hash),
		Role:         "Worker",
		Active:       true,
	}
	users.users[u.ID] = u
	return u
}

func TestLogin_Success(t *testing.T) {
	users := newStubUserRepo()
	seedLoginUser(users, "secret123")
	svc := service.NewAuthService(users)

	resp, err := svc.Login(context.Background(), dto.LoginRequest{Login: "E2001", Password: "secret123"})
	require.NoError(t, err)
	assert.Equal(t, "E2001", resp.User.EmployeeNo)
}

func TestLogin_WrongPassword(t *testing.T) {
	users := newStubUserRepo()
	seedLoginUser(users, "secret123")
	svc := service.NewAuthService(users)

	_, err := svc.Login(context.Background(), dto.LoginRequest{Login: "E2001", Password: "nope"})
	assert.ErrorIs(t, err, service.ErrInvalidCredentials)
}

func TestLogin_RetriesTransientFailure(t *testing.T) {
	users := newStubUserRepo()
	seedLoginUser(users, "secret123")
	repo := &flakyUserRepo{stubUserRepo: users, failures: 2, err: errors.New("connection refused")}
	svc := service.NewAuthService(repo)

	resp, err := svc.Login(context.Background(), dto.LoginRequest{Login: "E2001", Password: "secret123"})
	require.NoError(t, err)
	assert.Equal(t, "E2001", resp.User.EmployeeNo)
	assert.Equal(t, 3, repo.calls)
}

func TestLogin_UnknownUserNotRetried(t *testing.T) {
	users := newStubUserRepo()
	repo := &flakyUserRepo{stubUserRepo: users, failures: 99, err: gorm.ErrRecordNotFound}
	svc := service.NewAuthService(repo)

	_, err := svc.Login(context.Background(), dto.LoginRequest{Login: "ghost", Password: "x"})
	assert.ErrorIs(t, err, service.ErrInvalidCredentials)
	// Not-found is permanent: exactly one lookup, no backoff loop.
	assert.Equal(t, 1, repo.calls)
}

func TestCreateAndUpdateUser(t *testing.T) {
	users := newStubUserRepo()
	svc := service.NewAuthService(users)

	created, err := svc.CreateUser(context.Background(), dto.CreateUserRequest{
		EmployeeNo: "E3001",
		FullName:   "New User",
		Password:   "secret123",
		Role:       "Worker",
	})
	require.NoError(t, err)
	assert.True(t, created.Active)

	id := uuid.MustParse(created.ID)
	updated, err := svc.UpdateUser(context.Background(), id, dto.UpdateUserRequest{
		FullName:    "Renamed User",
		Permissions: model.PermissionSet{"tasks": {"view"}},
	})
	require.NoError(t, err)
	assert.Equal(t, "Renamed User", updated.FullName)
	assert.True(t, updated.Permissions.Allows("tasks", "view"))

	require.NoError(t, svc.DeactivateUser(context.Background(), id))
	all, err := svc.ListUsers(context.Background(), true)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.False(t, all[0].Active)
}
