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

type departmentRepository struct {
	db *gorm.DB
}

// NewDepartmentRepository creates a new department repository
func NewDepartmentRepository(db *gorm.DB) domainRepo.DepartmentRepository {
	return &departmentRepository{db: db}
}

func (r *departmentRepository) Create(ctx context.Context, dept *entity.Department) error {
	return r.db.WithContext(ctx).Omit("Parent", "Head").Create(dept).Error
}

func (r *departmentRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Department, error) {
	var dept entity.Department
	err := r.db.WithContext(ctx).Scopes(TenantScope(ctx)).
		Preload("Head").
		First(&dept, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &dept, err
}

func (r *departmentRepository) GetByCode(ctx context.Context, code string) (*entity.Department, error) {
	var dept entity.Department
	err := r.db.WithContext(ctx).Scopes(TenantScope(ctx)).First(&dept, "code = ?", code).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &dept, err
}

func (r *departmentRepository) Update(ctx context.Context, dept *entity.Department) error {
	return r.db.WithContext(ctx).Omit("Parent", "Head").Save(dept).Error
}

func (r *departmentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Scopes(TenantScope(ctx)).Delete(&entity.Department{}, "id = ?", id).Error
}

func (r *departmentRepository) List(ctx context.Context, params *pagination.PaginationParams, search string, activeOnly bool) ([]entity.Department, int64, error) {
	var depts []entity.Department
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.Department{}).
		Scopes(TenantScope(ctx), SearchScope(search, "name", "code"))

	if activeOnly {
		query = query.Where("is_active = ?", true)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.Scopes(PageScope(params)).
		Order("name ASC").
		Find(&depts).Error

	return depts, total, err
}

func (r *departmentRepository) ListAll(ctx context.Context) ([]entity.Department, error) {
	var depts []entity.Department
	err := r.db.WithContext(ctx).Scopes(TenantScope(ctx)).Order("name ASC").Find(&depts).Error
	return depts, err
}

func (r *departmentRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entity.Department{}).Scopes(TenantScope(ctx)).Count(&count).Error
	return count, err
}

type itemRepository struct {
	db *gorm.DB
}

// NewItemRepository creates a new item repository
func NewItemRepository(db *gorm.DB) domainRepo.ItemRepository {
	return &itemRepository{db: db}
}

func (r *itemRepository) Create(ctx context.Context, item *entity.Item) error {
	return r.db.WithContext(ctx).Omit("Department").Create(item).Error
}

func (r *itemRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Item, error) {
	var item entity.Item
	err := r.db.WithContext(ctx).Scopes(TenantScope(ctx)).
		Preload("Department").
		First(&item, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &item, err
}

func (r *itemRepository) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]entity.Item, error) {
	var items []entity.Item
	if len(ids) == 0 {
		return items, nil
	}
	err := r.db.WithContext(ctx).Scopes(TenantScope(ctx)).Where("id IN ?", ids).Find(&items).Error
	return items, err
}

func (r *itemRepository) Update(ctx context.Context, item *entity.Item) error {
	return r.db.WithContext(ctx).Omit("Department").Save(item).Error
}

func (r *itemRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Scopes(TenantScope(ctx)).Delete(&entity.Item{}, "id = ?", id).Error
}

func (r *itemRepository) List(ctx context.Context, params *pagination.PaginationParams, departmentID *uuid.UUID, activeOnly bool) ([]entity.Item, int64, error) {
	var items []entity.Item
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.Item{}).Scopes(TenantScope(ctx))

	if departmentID != nil {
		query = query.Where("department_id = ?", *departmentID)
	}

	if activeOnly {
		query = query.Where("is_active = ?", true)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	params.Validate()
	err := query.Offset(params.Offset()).Limit(params.PerPage).
		Order("item_name ASC").
		Find(&items).Error

	return items, total, err
}
