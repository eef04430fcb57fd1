package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/sangkips/stewardpro-api/internal/domain/entity"
	"github.com/sangkips/stewardpro-api/internal/domain/enum"
	"github.com/sangkips/stewardpro-api/pkg/pagination"
)

// MemberRepository defines the interface for member data operations
type MemberRepository interface {
	Create(ctx context.Context, member *entity.Member) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Member, error)
	GetByIDs(ctx context.Context, ids []uuid.UUID) ([]entity.Member, error)
	GetByMemberID(ctx context.Context, memberID string) (*entity.Member, error)
	Update(ctx context.Context, member *entity.Member) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, params *MemberFilterParams) ([]entity.Member, int64, error)
	ListActiveWithContact(ctx context.Context) ([]entity.Member, error)
	Count(ctx context.Context) (int64, error)
}

// MemberFilterParams contains filtering parameters for member queries
type MemberFilterParams struct {
	Pagination *pagination.PaginationParams
	Search     string
	Status     *enum.MemberStatus
	ChurchRole *enum.ChurchRole
}
