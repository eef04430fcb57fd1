package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/stewardpro-api/internal/domain/entity"
	"github.com/sangkips/stewardpro-api/internal/domain/enum"
	domainRepo "github.com/sangkips/stewardpro-api/internal/domain/repository"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type departmentIncomeRepository struct {
	db *gorm.DB
}

// NewDepartmentIncomeRepository creates a new department income repository
func NewDepartmentIncomeRepository(db *gorm.DB) domainRepo.DepartmentIncomeRepository {
	return &departmentIncomeRepository{db: db}
}

func (r *departmentIncomeRepository) Create(ctx context.Context, income *entity.DepartmentIncome) error {
	return r.db.WithContext(ctx).Omit("Department").Create(income).Error
}

func (r *departmentIncomeRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.DepartmentIncome, error) {
	var income entity.DepartmentIncome
	err := r.db.WithContext(ctx).Scopes(TenantScope(ctx)).
		Preload("Department").
		First(&income, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &income, err
}

func (r *departmentIncomeRepository) Update(ctx context.Context, income *entity.DepartmentIncome) error {
	return r.db.WithContext(ctx).Omit("Department").Save(income).Error
}

func (r *departmentIncomeRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Scopes(TenantScope(ctx)).Delete(&entity.DepartmentIncome{}, "id = ?", id).Error
}

func (r *departmentIncomeRepository) List(ctx context.Context, params *domainRepo.IncomeFilterParams) ([]entity.DepartmentIncome, int64, error) {
	var incomes []entity.DepartmentIncome
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.DepartmentIncome{}).Scopes(TenantScope(ctx))

	if params.DepartmentID != nil {
		query = query.Where("department_id = ?", *params.DepartmentID)
	}

	if params.IncomeType != nil {
		query = query.Where("income_type = ?", *params.IncomeType)
	}

	if params.StartDate != nil {
		query = query.Where("date >= ?", *params.StartDate)
	}

	if params.EndDate != nil {
		query = query.Where("date <= ?", *params.EndDate)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	params.Pagination.Validate()
	err := query.Offset(params.Pagination.Offset()).Limit(params.Pagination.PerPage).
		Order("date DESC").
		Find(&incomes).Error

	return incomes, total, err
}

type incomeTypeSum struct {
	IncomeType enum.IncomeType
	Total      decimal.Decimal
}

func (r *departmentIncomeRepository) SumByType(ctx context.Context, departmentID uuid.UUID, from, to time.Time) (map[enum.IncomeType]decimal.Decimal, error) {
	var rows []incomeTypeSum
	err := r.db.WithContext(ctx).Model(&entity.DepartmentIncome{}).Scopes(TenantScope(ctx)).
		Select("income_type, COALESCE(SUM(amount), 0) AS total").
		Where("department_id = ? AND doc_status = ? AND date BETWEEN ? AND ?",
			departmentID, enum.DocStatusSubmitted, entity.DateOf(from), entity.DateOf(to)).
		Group("income_type").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	out := make(map[enum.IncomeType]decimal.Decimal, len(rows))
	for _, row := range rows {
		out[row.IncomeType] = row.Total
	}
	return out, nil
}
