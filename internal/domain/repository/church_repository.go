package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/sangkips/stewardpro-api/internal/domain/entity"
	"github.com/sangkips/stewardpro-api/pkg/pagination"
)

// ChurchRepository defines the interface for church (tenant) data operations
type ChurchRepository interface {
	// Create creates a new church
	Create(ctx context.Context, church *entity.Church) error

	// GetByID retrieves a church by ID
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Church, error)

	// GetBySlug retrieves a church by slug (subdomain identifier)
	GetBySlug(ctx context.Context, slug string) (*entity.Church, error)

	// Update updates an existing church
	Update(ctx context.Context, church *entity.Church) error

	// GetUserChurches retrieves all churches a user belongs to with pagination
	GetUserChurches(ctx context.Context, userID uuid.UUID, params *pagination.PaginationParams) ([]entity.Church, int64, error)

	// AddMember grants a user access to a church
	AddMember(ctx context.Context, membership *entity.ChurchMembership) error

	// RemoveMember revokes a user's access
	RemoveMember(ctx context.Context, churchID, userID uuid.UUID) error

	// GetMembers retrieves all users of a church
	GetMembers(ctx context.Context, churchID uuid.UUID) ([]entity.ChurchMembership, error)

	// IsMember checks if a user belongs to a church
	IsMember(ctx context.Context, churchID, userID uuid.UUID) (bool, error)

	// GetMembership retrieves a specific membership
	GetMembership(ctx context.Context, churchID, userID uuid.UUID) (*entity.ChurchMembership, error)

	// SlugExists checks if a slug is already taken
	SlugExists(ctx context.Context, slug string) (bool, error)

	// ListAll returns every church, used by scheduled jobs
	ListAll(ctx context.Context) ([]entity.Church, error)
}
