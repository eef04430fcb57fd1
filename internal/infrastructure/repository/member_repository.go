package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/sangkips/stewardpro-api/internal/domain/entity"
	"github.com/sangkips/stewardpro-api/internal/domain/enum"
	domainRepo "github.com/sangkips/stewardpro-api/internal/domain/repository"
	"gorm.io/gorm"
)

type memberRepository struct {
	db *gorm.DB
}

// NewMemberRepository creates a new member repository
func NewMemberRepository(db *gorm.DB) domainRepo.MemberRepository {
	return &memberRepository{db: db}
}

func (r *memberRepository) Create(ctx context.Context, member *entity.Member) error {
	return r.db.WithContext(ctx).Create(member).Error
}

func (r *memberRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Member, error) {
	var member entity.Member
	err := r.db.WithContext(ctx).Scopes(TenantScope(ctx)).First(&member, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &member, err
}

func (r *memberRepository) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]entity.Member, error) {
	var members []entity.Member
	if len(ids) == 0 {
		return members, nil
	}
	err := r.db.WithContext(ctx).Scopes(TenantScope(ctx)).Where("id IN ?", ids).Find(&members).Error
	return members, err
}

func (r *memberRepository) GetByMemberID(ctx context.Context, memberID string) (*entity.Member, error) {
	var member entity.Member
	err := r.db.WithContext(ctx).Scopes(TenantScope(ctx)).First(&member, "member_id = ?", memberID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &member, err
}

func (r *memberRepository) Update(ctx context.Context, member *entity.Member) error {
	return r.db.WithContext(ctx).Save(member).Error
}

func (r *memberRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Scopes(TenantScope(ctx)).Delete(&entity.Member{}, "id = ?", id).Error
}

func (r *memberRepository) List(ctx context.Context, params *domainRepo.MemberFilterParams) ([]entity.Member, int64, error) {
	var members []entity.Member
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.Member{}).
		Scopes(TenantScope(ctx), SearchScope(params.Search, "first_name", "last_name", "member_id", "contact"))

	if params.Status != nil {
		query = query.Where("status = ?", *params.Status)
	}

	if params.ChurchRole != nil {
		query = query.Where("church_role = ?", *params.ChurchRole)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.Scopes(PageScope(params.Pagination)).
		Order("last_name ASC, first_name ASC").
		Find(&members).Error

	return members, total, err
}

func (r *memberRepository) ListActiveWithContact(ctx context.Context) ([]entity.Member, error) {
	var members []entity.Member
	err := r.db.WithContext(ctx).Scopes(TenantScope(ctx)).
		Where("status = ? AND contact <> ''", enum.MemberStatusActive).
		Order("last_name ASC").
		Find(&members).Error
	return members, err
}

func (r *memberRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entity.Member{}).Scopes(TenantScope(ctx)).Count(&count).Error
	return count, err
}
