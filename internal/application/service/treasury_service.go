package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/sangkips/stewardpro-api/internal/domain/entity"
	"github.com/sangkips/stewardpro-api/internal/domain/repository"
	"github.com/sangkips/stewardpro-api/pkg/apperror"
)

// TreasuryService keeps the per-fiscal-year roll-up of submitted budgets
type TreasuryService struct {
	treasuryRepo   repository.TreasuryBudgetRepository
	budgetRepo     repository.BudgetRepository
	fiscalYearRepo repository.FiscalYearRepository
}

// NewTreasuryService creates a new treasury budget service
func NewTreasuryService(
	treasuryRepo repository.TreasuryBudgetRepository,
	budgetRepo repository.BudgetRepository,
	fiscalYearRepo repository.FiscalYearRepository,
) *TreasuryService {
	return &TreasuryService{
		treasuryRepo:   treasuryRepo,
		budgetRepo:     budgetRepo,
		fiscalYearRepo: fiscalYearRepo,
	}
}

// Sync rebuilds the fiscal year's roll-up from its submitted budgets
func (s *TreasuryService) Sync(ctx context.Context, fiscalYearID uuid.UUID) (*entity.TreasuryBudget, error) {
	churchID, err := churchFromContext(ctx)
	if err != nil {
		return nil, err
	}

	budgets, err := s.budgetRepo.ListSubmitted(ctx, &fiscalYearID, nil)
	if err != nil {
		return nil, err
	}

	tb, err := s.treasuryRepo.GetByFiscalYear(ctx, fiscalYearID)
	if err != nil {
		return nil, err
	}
	if tb == nil {
		tb = &entity.TreasuryBudget{FiscalYearID: fiscalYearID}
		tb.ID = uuid.New()
		tb.TenantID = churchID
	}

	tb.Rebuild(budgets)
	tb.FiscalYear = nil
	if err := s.treasuryRepo.Save(ctx, tb); err != nil {
		return nil, err
	}
	return tb, nil
}

// Get returns the roll-up for a fiscal year, building it on first read
func (s *TreasuryService) Get(ctx context.Context, fiscalYearID uuid.UUID) (*entity.TreasuryBudget, error) {
	fy, err := s.fiscalYearRepo.GetByID(ctx, fiscalYearID)
	if err != nil {
		return nil, err
	}
	if fy == nil {
		return nil, apperror.NewNotFoundError("Fiscal year")
	}

	tb, err := s.treasuryRepo.GetByFiscalYear(ctx, fiscalYearID)
	if err != nil {
		return nil, err
	}
	if tb != nil {
		return tb, nil
	}

	tb, err = s.Sync(ctx, fiscalYearID)
	if err != nil {
		return nil, err
	}
	tb.FiscalYear = fy
	return tb, nil
}
