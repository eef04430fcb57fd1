package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/sangkips/stewardpro-api/internal/domain/entity"
	domainRepo "github.com/sangkips/stewardpro-api/internal/domain/repository"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type treasuryBudgetRepository struct {
	db *gorm.DB
}

// NewTreasuryBudgetRepository creates a new treasury budget repository
func NewTreasuryBudgetRepository(db *gorm.DB) domainRepo.TreasuryBudgetRepository {
	return &treasuryBudgetRepository{db: db}
}

func (r *treasuryBudgetRepository) GetByFiscalYear(ctx context.Context, fiscalYearID uuid.UUID) (*entity.TreasuryBudget, error) {
	var tb entity.TreasuryBudget
	err := r.db.WithContext(ctx).Scopes(TenantScope(ctx)).
		Preload("FiscalYear").
		Preload("Details").
		Preload("Details.Department").
		First(&tb, "fiscal_year_id = ?", fiscalYearID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &tb, err
}

func (r *treasuryBudgetRepository) Save(ctx context.Context, tb *entity.TreasuryBudget) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Save(tb).Error; err != nil {
			return err
		}
		if err := tx.Where("treasury_budget_id = ?", tb.ID).Delete(&entity.TreasuryBudgetDetail{}).Error; err != nil {
			return err
		}
		if len(tb.Details) == 0 {
			return nil
		}
		for i := range tb.Details {
			tb.Details[i].TreasuryBudgetID = tb.ID
		}
		return tx.Omit("Department").Create(&tb.Details).Error
	})
}
