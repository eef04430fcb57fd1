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
	"gorm.io/gorm/clause"
)

type expenseRepository struct {
	db *gorm.DB
}

// NewExpenseRepository creates a new department expense repository
func NewExpenseRepository(db *gorm.DB) domainRepo.ExpenseRepository {
	return &expenseRepository{db: db}
}

func (r *expenseRepository) Create(ctx context.Context, expense *entity.DepartmentExpense) error {
	return r.db.WithContext(ctx).Omit("Department", "Budget").Create(expense).Error
}

func (r *expenseRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.DepartmentExpense, error) {
	var expense entity.DepartmentExpense
	err := r.db.WithContext(ctx).Scopes(TenantScope(ctx)).
		Preload("Department").
		First(&expense, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &expense, err
}

func (r *expenseRepository) GetWithDetails(ctx context.Context, id uuid.UUID) (*entity.DepartmentExpense, error) {
	var expense entity.DepartmentExpense
	err := r.db.WithContext(ctx).Scopes(TenantScope(ctx)).
		Preload("Department").
		Preload("Budget").
		Preload("Details", orderByIdx).
		Preload("Details.Item").
		First(&expense, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &expense, err
}

func (r *expenseRepository) Save(ctx context.Context, expense *entity.DepartmentExpense) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return saveExpense(tx, expense)
	})
}

func saveExpense(tx *gorm.DB, expense *entity.DepartmentExpense) error {
	if err := tx.Omit(clause.Associations).Save(expense).Error; err != nil {
		return err
	}
	if err := tx.Where("expense_id = ?", expense.ID).Delete(&entity.DepartmentExpenseDetail{}).Error; err != nil {
		return err
	}
	if len(expense.Details) == 0 {
		return nil
	}
	for i := range expense.Details {
		expense.Details[i].ExpenseID = expense.ID
	}
	return tx.Omit("Item").Create(&expense.Details).Error
}

func (r *expenseRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Scopes(TenantScope(ctx)).Delete(&entity.DepartmentExpense{}, "id = ?", id).Error; err != nil {
			return err
		}
		return tx.Where("expense_id = ?", id).Delete(&entity.DepartmentExpenseDetail{}).Error
	})
}

func (r *expenseRepository) List(ctx context.Context, params *domainRepo.ExpenseFilterParams) ([]entity.DepartmentExpense, int64, error) {
	var expenses []entity.DepartmentExpense
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.DepartmentExpense{}).Scopes(TenantScope(ctx))

	if params.DepartmentID != nil {
		query = query.Where("department_id = ?", *params.DepartmentID)
	}

	if params.BudgetID != nil {
		query = query.Where("budget_id = ?", *params.BudgetID)
	}

	if params.Status != nil {
		query = query.Where("status = ?", *params.Status)
	}

	if params.StartDate != nil {
		query = query.Where("expense_date >= ?", *params.StartDate)
	}

	if params.EndDate != nil {
		query = query.Where("expense_date <= ?", *params.EndDate)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	params.Pagination.Validate()
	err := query.Offset(params.Pagination.Offset()).Limit(params.Pagination.PerPage).
		Preload("Department").
		Order("expense_date DESC, created_at DESC").
		Find(&expenses).Error

	return expenses, total, err
}

func (r *expenseRepository) MutateWithBudget(ctx context.Context, expenseID uuid.UUID, fn domainRepo.BudgetMutation) (*entity.DepartmentExpense, error) {
	var out *entity.DepartmentExpense

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var expense entity.DepartmentExpense
		if err := tx.Scopes(TenantScope(ctx)).
			Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&expense, "id = ?", expenseID).Error; err != nil {
			return err
		}
		if err := tx.Where("expense_id = ?", expense.ID).Order("idx ASC").Find(&expense.Details).Error; err != nil {
			return err
		}

		var budget *entity.DepartmentBudget
		if expense.BudgetID != nil {
			budget = &entity.DepartmentBudget{}
			if err := tx.Scopes(TenantScope(ctx)).
				Clauses(clause.Locking{Strength: "UPDATE"}).
				First(budget, "id = ?", *expense.BudgetID).Error; err != nil {
				return err
			}
			if err := tx.Where("budget_id = ?", budget.ID).Order("idx ASC").Find(&budget.Items).Error; err != nil {
				return err
			}
		}

		if err := fn(&expense, budget); err != nil {
			return err
		}

		if err := tx.Omit(clause.Associations).Save(&expense).Error; err != nil {
			return err
		}
		if budget != nil {
			if err := tx.Omit(clause.Associations).Save(budget).Error; err != nil {
				return err
			}
			for i := range budget.Items {
				if err := tx.Omit(clause.Associations).Save(&budget.Items[i]).Error; err != nil {
					return err
				}
			}
		}

		out = &expense
		return nil
	})
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return out, err
}

func (r *expenseRepository) SumSubmitted(ctx context.Context, departmentID *uuid.UUID, from, to time.Time) (decimal.Decimal, error) {
	var total decimal.Decimal

	query := r.db.WithContext(ctx).Model(&entity.DepartmentExpense{}).Scopes(TenantScope(ctx)).
		Select("COALESCE(SUM(total_amount), 0)").
		Where("doc_status = ? AND expense_date BETWEEN ? AND ?",
			enum.DocStatusSubmitted, entity.DateOf(from), entity.DateOf(to))

	if departmentID != nil {
		query = query.Where("department_id = ?", *departmentID)
	}

	err := query.Scan(&total).Error
	return total, err
}
