package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/sangkips/stewardpro-api/internal/domain/entity"
	"github.com/sangkips/stewardpro-api/internal/domain/repository"
	"github.com/sangkips/stewardpro-api/pkg/apperror"
	"github.com/sangkips/stewardpro-api/pkg/pagination"
)

// UserService manages platform users and the role catalogue
type UserService struct {
	userRepo       repository.UserRepository
	roleRepo       repository.RoleRepository
	permissionRepo repository.PermissionRepository
}

// NewUserService creates a new user service
func NewUserService(
	userRepo repository.UserRepository,
	roleRepo repository.RoleRepository,
	permissionRepo repository.PermissionRepository,
) *UserService {
	return &UserService{
		userRepo:       userRepo,
		roleRepo:       roleRepo,
		permissionRepo: permissionRepo,
	}
}

// UserListInput filters the admin user listing
type UserListInput struct {
	Pagination *pagination.PaginationParams
	Search     string
	Active     *bool
}

// ListUsers pages through users matching the filter
func (s *UserService) ListUsers(ctx context.Context, input *UserListInput) (*pagination.PaginatedResult[entity.User], error) {
	params := &repository.UserFilterParams{
		Pagination: input.Pagination,
		Search:     input.Search,
		Active:     input.Active,
	}
	users, total, err := s.userRepo.List(ctx, params)
	if err != nil {
		return nil, err
	}
	return pagination.NewPaginatedResult(users, pagination.NewPagination(params.Pagination.Page, params.Pagination.PerPage, total)), nil
}

// GetUser returns a user with roles and permissions
func (s *UserService) GetUser(ctx context.Context, userID uuid.UUID) (*entity.User, error) {
	user, err := s.userRepo.GetWithRoles(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperror.NewNotFoundError("User")
	}
	return user, nil
}

// UpdateUserRoles makes the user's roles exactly roleIDs. Unknown role IDs
// are rejected.
func (s *UserService) UpdateUserRoles(ctx context.Context, userID uuid.UUID, roleIDs []uint) (*entity.User, error) {
	if _, err := s.GetUser(ctx, userID); err != nil {
		return nil, err
	}

	ids := uniqueIDs(roleIDs)
	roles, err := s.roleRepo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	if len(roles) != len(ids) {
		return nil, apperror.NewFieldError("role_ids", "Role not found")
	}

	if err := s.userRepo.SetRoles(ctx, userID, ids); err != nil {
		return nil, err
	}
	return s.userRepo.GetWithRoles(ctx, userID)
}

// SetUserActive enables or disables sign-in. Existing access tokens run
// out on their own; refresh is refused straight away.
func (s *UserService) SetUserActive(ctx context.Context, actorID, userID uuid.UUID, active bool) (*entity.User, error) {
	if actorID == userID && !active {
		return nil, apperror.NewBadRequestError("You cannot deactivate your own account")
	}
	if _, err := s.GetUser(ctx, userID); err != nil {
		return nil, err
	}

	if err := s.userRepo.SetActive(ctx, userID, active); err != nil {
		return nil, err
	}
	log.Ctx(ctx).Info().Str("user_id", userID.String()).Bool("active", active).Msg("user access changed")
	return s.userRepo.GetWithRoles(ctx, userID)
}

// DeleteUser soft deletes a user
func (s *UserService) DeleteUser(ctx context.Context, userID uuid.UUID) error {
	if _, err := s.GetUser(ctx, userID); err != nil {
		return err
	}
	return s.userRepo.Delete(ctx, userID)
}

// ListRoles returns all roles
func (s *UserService) ListRoles(ctx context.Context) ([]entity.Role, error) {
	return s.roleRepo.List(ctx)
}

// ListPermissions returns all permissions
func (s *UserService) ListPermissions(ctx context.Context) ([]entity.Permission, error) {
	return s.permissionRepo.List(ctx)
}

// UpdateRolePermissions replaces a role's permission set
func (s *UserService) UpdateRolePermissions(ctx context.Context, roleID uint, permissionIDs []uint) (*entity.Role, error) {
	role, err := s.roleRepo.GetWithPermissions(ctx, roleID)
	if err != nil {
		return nil, err
	}
	if role == nil {
		return nil, apperror.NewNotFoundError("Role")
	}

	ids := uniqueIDs(permissionIDs)
	found, err := s.permissionRepo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	if len(found) != len(ids) {
		return nil, apperror.NewFieldError("permission_ids", "Permission not found")
	}

	if err := s.roleRepo.SyncPermissions(ctx, roleID, ids); err != nil {
		return nil, err
	}
	return s.roleRepo.GetWithPermissions(ctx, roleID)
}

func uniqueIDs(ids []uint) []uint {
	seen := make(map[uint]struct{}, len(ids))
	out := make([]uint, 0, len(ids))
	for _, id := range ids {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
