package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/sangkips/stewardpro-api/internal/domain/entity"
	domainRepo "github.com/sangkips/stewardpro-api/internal/domain/repository"
	"github.com/sangkips/stewardpro-api/pkg/pagination"
	"gorm.io/gorm"
)

type churchRepository struct {
	db *gorm.DB
}

// NewChurchRepository creates a new church repository
func NewChurchRepository(db *gorm.DB) domainRepo.ChurchRepository {
	return &churchRepository{db: db}
}

func (r *churchRepository) Create(ctx context.Context, church *entity.Church) error {
	return r.db.WithContext(ctx).Create(church).Error
}

func (r *churchRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Church, error) {
	var church entity.Church
	err := r.db.WithContext(ctx).First(&church, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &church, err
}

func (r *churchRepository) GetBySlug(ctx context.Context, slug string) (*entity.Church, error) {
	var church entity.Church
	err := r.db.WithContext(ctx).First(&church, "slug = ?", slug).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &church, err
}

func (r *churchRepository) Update(ctx context.Context, church *entity.Church) error {
	return r.db.WithContext(ctx).Save(church).Error
}

func (r *churchRepository) GetUserChurches(ctx context.Context, userID uuid.UUID, params *pagination.PaginationParams) ([]entity.Church, int64, error) {
	var churches []entity.Church
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.Church{}).
		Joins("JOIN church_memberships ON church_memberships.church_id = churches.id").
		Where("church_memberships.user_id = ?", userID)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	params.Validate()
	err := query.Offset(params.Offset()).Limit(params.PerPage).
		Order("churches.name ASC").
		Find(&churches).Error

	return churches, total, err
}

func (r *churchRepository) AddMember(ctx context.Context, membership *entity.ChurchMembership) error {
	return r.db.WithContext(ctx).Create(membership).Error
}

func (r *churchRepository) RemoveMember(ctx context.Context, churchID, userID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Delete(&entity.ChurchMembership{}, "church_id = ? AND user_id = ?", churchID, userID).Error
}

func (r *churchRepository) GetMembers(ctx context.Context, churchID uuid.UUID) ([]entity.ChurchMembership, error) {
	var members []entity.ChurchMembership
	err := r.db.WithContext(ctx).
		Preload("User").
		Where("church_id = ?", churchID).
		Order("created_at ASC").
		Find(&members).Error
	for i := range members {
		members[i].PopulateUserDetails()
	}
	return members, err
}

func (r *churchRepository) IsMember(ctx context.Context, churchID, userID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entity.ChurchMembership{}).
		Where("church_id = ? AND user_id = ?", churchID, userID).
		Count(&count).Error
	return count > 0, err
}

func (r *churchRepository) GetMembership(ctx context.Context, churchID, userID uuid.UUID) (*entity.ChurchMembership, error) {
	var m entity.ChurchMembership
	err := r.db.WithContext(ctx).
		Where("church_id = ? AND user_id = ?", churchID, userID).
		First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &m, err
}

func (r *churchRepository) SlugExists(ctx context.Context, slug string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entity.Church{}).Where("slug = ?", slug).Count(&count).Error
	return count > 0, err
}

func (r *churchRepository) ListAll(ctx context.Context) ([]entity.Church, error) {
	var churches []entity.Church
	err := r.db.WithContext(ctx).Order("created_at ASC").Find(&churches).Error
	return churches, err
}
