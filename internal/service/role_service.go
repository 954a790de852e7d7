package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/asif1001/wareopes1-sub002/internal/dto"
	"github.com/asif1001/wareopes1-sub002/internal/model"
	"github.com/asif1001/wareopes1-sub002/internal/repository"

	"github.com/google/uuid"
)

type RoleService interface {
	Create(ctx context.Context, req dto.RoleRequest) (*dto.RoleResponse, error)
	List(ctx context.Context) ([]dto.RoleResponse, error)
	Update(ctx context.Context, id uuid.UUID, req dto.RoleRequest) (*dto.RoleResponse, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type roleService struct {
	repo repository.RoleRepository
}

func NewRoleService(repo repository.RoleRepository) RoleService {
	return &roleService{repo: repo}
}

// validateCodes rejects permission codes missing either segment. The session
// resolver drops such entries silently for stored data, but new writes
// should not introduce them.
func validateCodes(codes []string) error {
	for _, code := range codes {
		page, action, ok := strings.Cut(code, ":")
		if !ok || page == "" || action == "" {
			return fmt.Errorf("malformed permission code %q, want \"page:action\"", code)
		}
	}
	return nil
}

func (s *roleService) Create(ctx context.Context, req dto.RoleRequest) (*dto.RoleResponse, error) {
	if err := validateCodes(req.Permissions); err != nil {
		return nil, err
	}
	role := &model.Role{Name: req.Name, Permissions: req.Permissions}
	if err := s.repo.Create(ctx, role); err != nil {
		return nil, err
	}
	return roleToResponse(role), nil
}

func (s *roleService) List(ctx context.Context) ([]dto.RoleResponse, error) {
	roles, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	resp := make([]dto.RoleResponse, len(roles))
	for i := range roles {
		resp[i] = *roleToResponse(&roles[i])
	}
	return resp, nil
}

func (s *roleService) Update(ctx context.Context, id uuid.UUID, req dto.RoleRequest) (*dto.RoleResponse, error) {
	if err := validateCodes(req.Permissions); err != nil {
		return nil, err
	}
	role, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.Name != "" {
		role.Name = req.Name
	}
	role.Permissions = req.Permissions
	if err := s.repo.Update(ctx, role); err != nil {
		return nil, err
	}
	return roleToResponse(role), nil
}

func (s *roleService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}

func roleToResponse(r *model.Role) *dto.RoleResponse {
	return &dto.RoleResponse{ID: r.ID.String(), Name: r.Name, Permissions: r.Permissions}
}
