package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/stewardpro-api/internal/domain/entity"
	"github.com/sangkips/stewardpro-api/pkg/pagination"
)

// UserFilterParams narrows the admin user listing
type UserFilterParams struct {
	Pagination *pagination.PaginationParams
	Search     string
	Active     *bool
}

// UserRepository stores staff accounts and their platform roles
type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	GetByUsername(ctx context.Context, username string) (*entity.User, error)
	GetByProviderID(ctx context.Context, provider, providerID string) (*entity.User, error)
	Update(ctx context.Context, user *entity.User) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, params *UserFilterParams) ([]entity.User, int64, error)
	GetWithRoles(ctx context.Context, id uuid.UUID) (*entity.User, error)
	// SetRoles makes roleIDs the user's exact role set
	SetRoles(ctx context.Context, userID uuid.UUID, roleIDs []uint) error
	AssignRoleByName(ctx context.Context, userID uuid.UUID, roleName string) error
	SetActive(ctx context.Context, id uuid.UUID, active bool) error
	RecordLogin(ctx context.Context, id uuid.UUID, at time.Time) error
}

type RoleRepository interface {
	FindByIDs(ctx context.Context, ids []uint) ([]entity.Role, error)
	List(ctx context.Context) ([]entity.Role, error)
	GetWithPermissions(ctx context.Context, id uint) (*entity.Role, error)
	SyncPermissions(ctx context.Context, roleID uint, permissionIDs []uint) error
}

type PermissionRepository interface {
	FindByIDs(ctx context.Context, ids []uint) ([]entity.Permission, error)
	List(ctx context.Context) ([]entity.Permission, error)
}

// PasswordResetTokenRepository keeps emailed reset tokens by hash
type PasswordResetTokenRepository interface {
	Replace(ctx context.Context, token *entity.PasswordResetToken) error
	// Consume reports whether a live token for the email was found and spent
	Consume(ctx context.Context, hash, email string) (bool, error)
	DeleteByEmail(ctx context.Context, email string) error
	DeleteExpired(ctx context.Context) (int64, error)
}
