package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/sangkips/stewardpro-api/internal/domain/entity"
	"github.com/sangkips/stewardpro-api/internal/domain/enum"
	domainRepo "github.com/sangkips/stewardpro-api/internal/domain/repository"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type budgetRepository struct {
	db *gorm.DB
}

// NewBudgetRepository creates a new department budget repository
func NewBudgetRepository(db *gorm.DB) domainRepo.BudgetRepository {
	return &budgetRepository{db: db}
}

func orderByIdx(db *gorm.DB) *gorm.DB {
	return db.Order("idx ASC")
}

func (r *budgetRepository) Create(ctx context.Context, budget *entity.DepartmentBudget) error {
	return r.db.WithContext(ctx).Omit("Department", "FiscalYear").Create(budget).Error
}

func (r *budgetRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.DepartmentBudget, error) {
	var budget entity.DepartmentBudget
	err := r.db.WithContext(ctx).Scopes(TenantScope(ctx)).
		Preload("Department").
		Preload("FiscalYear").
		First(&budget, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &budget, err
}

func (r *budgetRepository) GetWithItems(ctx context.Context, id uuid.UUID) (*entity.DepartmentBudget, error) {
	var budget entity.DepartmentBudget
	err := r.db.WithContext(ctx).Scopes(TenantScope(ctx)).
		Preload("Department").
		Preload("FiscalYear").
		Preload("Items", orderByIdx).
		Preload("Items.Item").
		First(&budget, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &budget, err
}

func (r *budgetRepository) Save(ctx context.Context, budget *entity.DepartmentBudget) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return saveBudget(tx, budget)
	})
}

// saveBudget writes the header and replaces every line
func saveBudget(tx *gorm.DB, budget *entity.DepartmentBudget) error {
	if err := tx.Omit(clause.Associations).Save(budget).Error; err != nil {
		return err
	}
	if err := tx.Where("budget_id = ?", budget.ID).Delete(&entity.DepartmentBudgetItem{}).Error; err != nil {
		return err
	}
	if len(budget.Items) == 0 {
		return nil
	}
	for i := range budget.Items {
		budget.Items[i].BudgetID = budget.ID
	}
	return tx.Omit("Item").Create(&budget.Items).Error
}

func (r *budgetRepository) Transition(ctx context.Context, id uuid.UUID, fn func(*entity.DepartmentBudget) error) (*entity.DepartmentBudget, error) {
	var budget entity.DepartmentBudget

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Scopes(TenantScope(ctx)).
			Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&budget, "id = ?", id).Error; err != nil {
			return err
		}
		if err := tx.Where("budget_id = ?", budget.ID).Order("idx ASC").Find(&budget.Items).Error; err != nil {
			return err
		}

		if err := fn(&budget); err != nil {
			return err
		}

		if err := tx.Omit(clause.Associations).Save(&budget).Error; err != nil {
			return err
		}
		for i := range budget.Items {
			if err := tx.Omit(clause.Associations).Save(&budget.Items[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &budget, nil
}

func (r *budgetRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Scopes(TenantScope(ctx)).Delete(&entity.DepartmentBudget{}, "id = ?", id).Error; err != nil {
			return err
		}
		return tx.Where("budget_id = ?", id).Delete(&entity.DepartmentBudgetItem{}).Error
	})
}

func (r *budgetRepository) List(ctx context.Context, params *domainRepo.BudgetFilterParams) ([]entity.DepartmentBudget, int64, error) {
	var budgets []entity.DepartmentBudget
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.DepartmentBudget{}).Scopes(TenantScope(ctx))

	if params.DepartmentID != nil {
		query = query.Where("department_id = ?", *params.DepartmentID)
	}

	if params.FiscalYearID != nil {
		query = query.Where("fiscal_year_id = ?", *params.FiscalYearID)
	}

	if params.Status != nil {
		query = query.Where("status = ?", *params.Status)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	params.Pagination.Validate()
	err := query.Offset(params.Pagination.Offset()).Limit(params.Pagination.PerPage).
		Preload("Department").
		Preload("FiscalYear").
		Order("created_at DESC").
		Find(&budgets).Error

	return budgets, total, err
}

func (r *budgetRepository) ListSubmitted(ctx context.Context, fiscalYearID, departmentID *uuid.UUID) ([]entity.DepartmentBudget, error) {
	var budgets []entity.DepartmentBudget

	query := r.db.WithContext(ctx).Scopes(TenantScope(ctx)).
		Where("doc_status = ?", enum.DocStatusSubmitted)

	if fiscalYearID != nil {
		query = query.Where("fiscal_year_id = ?", *fiscalYearID)
	}

	if departmentID != nil {
		query = query.Where("department_id = ?", *departmentID)
	}

	err := query.Preload("Department").Preload("FiscalYear").Order("created_at ASC").Find(&budgets).Error
	return budgets, err
}
