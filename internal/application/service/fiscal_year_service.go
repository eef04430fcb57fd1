package service

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/sangkips/stewardpro-api/internal/domain/entity"
	"github.com/sangkips/stewardpro-api/internal/domain/repository"
	infraRepo "github.com/sangkips/stewardpro-api/internal/infrastructure/repository"
	"github.com/sangkips/stewardpro-api/pkg/apperror"
	"gorm.io/datatypes"
)

// autoCreateWindow is how many days before year end the next year is created
const autoCreateWindow = 3

// FiscalYearService manages accounting years
type FiscalYearService struct {
	fiscalYearRepo repository.FiscalYearRepository
	churchRepo     repository.ChurchRepository
}

// NewFiscalYearService creates a new fiscal year service
func NewFiscalYearService(fiscalYearRepo repository.FiscalYearRepository, churchRepo repository.ChurchRepository) *FiscalYearService {
	return &FiscalYearService{
		fiscalYearRepo: fiscalYearRepo,
		churchRepo:     churchRepo,
	}
}

// FiscalYearInput carries the fields of a new fiscal year
type FiscalYearInput struct {
	Year          string
	YearStartDate datatypes.Date
	YearEndDate   *datatypes.Date
	IsShortYear   bool
	Disabled      bool
}

// FiscalYearUpdateInput carries the fields that may change after creation
type FiscalYearUpdateInput struct {
	Year        *string
	IsShortYear *bool
	Disabled    *bool
}

// CreateFiscalYear records a fiscal year that overlaps no other
func (s *FiscalYearService) CreateFiscalYear(ctx context.Context, input *FiscalYearInput) (*entity.FiscalYear, error) {
	churchID, err := churchFromContext(ctx)
	if err != nil {
		return nil, err
	}

	fy := &entity.FiscalYear{
		Year:          input.Year,
		YearStartDate: input.YearStartDate,
		IsShortYear:   input.IsShortYear,
		Disabled:      input.Disabled,
	}
	if input.YearEndDate != nil {
		fy.YearEndDate = *input.YearEndDate
	}
	fy.TenantID = churchID

	if err := s.create(ctx, fy); err != nil {
		return nil, err
	}
	return fy, nil
}

func (s *FiscalYearService) create(ctx context.Context, fy *entity.FiscalYear) error {
	if err := fy.Validate(); err != nil {
		return err
	}
	existing, err := s.fiscalYearRepo.List(ctx)
	if err != nil {
		return err
	}
	if err := fy.CheckOverlap(existing); err != nil {
		return err
	}
	return s.fiscalYearRepo.Create(ctx, fy)
}

// GetFiscalYear retrieves a fiscal year by ID
func (s *FiscalYearService) GetFiscalYear(ctx context.Context, id uuid.UUID) (*entity.FiscalYear, error) {
	fy, err := s.fiscalYearRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if fy == nil {
		return nil, apperror.NewNotFoundError("Fiscal year")
	}
	return fy, nil
}

// UpdateFiscalYear changes the name or flags; dates stay fixed
func (s *FiscalYearService) UpdateFiscalYear(ctx context.Context, id uuid.UUID, input *FiscalYearUpdateInput) (*entity.FiscalYear, error) {
	fy, err := s.GetFiscalYear(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Year != nil && *input.Year != fy.Year {
		fy.Year = *input.Year
		existing, err := s.fiscalYearRepo.List(ctx)
		if err != nil {
			return nil, err
		}
		if err := fy.CheckOverlap(existing); err != nil {
			return nil, err
		}
	}
	if input.IsShortYear != nil {
		fy.IsShortYear = *input.IsShortYear
	}
	if input.Disabled != nil {
		fy.Disabled = *input.Disabled
	}
	if err := fy.Validate(); err != nil {
		return nil, err
	}

	if err := s.fiscalYearRepo.Update(ctx, fy); err != nil {
		return nil, err
	}
	return fy, nil
}

// ListFiscalYears lists the church's fiscal years
func (s *FiscalYearService) ListFiscalYears(ctx context.Context) ([]entity.FiscalYear, error) {
	years, err := s.fiscalYearRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	if years == nil {
		years = []entity.FiscalYear{}
	}
	return years, nil
}

// GetCovering returns the enabled fiscal year containing date
func (s *FiscalYearService) GetCovering(ctx context.Context, date time.Time) (*entity.FiscalYear, error) {
	fy, err := s.fiscalYearRepo.GetCovering(ctx, date)
	if err != nil {
		return nil, err
	}
	if fy == nil {
		return nil, apperror.NewNotFoundError("Fiscal year for " + date.Format("2006-01-02"))
	}
	return fy, nil
}

// AutoCreateNext creates the following fiscal year when the latest one
// ends within three days. It returns nil when nothing was due.
func (s *FiscalYearService) AutoCreateNext(ctx context.Context) (*entity.FiscalYear, error) {
	latest, err := s.fiscalYearRepo.GetLatest(ctx)
	if err != nil {
		return nil, err
	}
	if latest == nil || !latest.EndsWithin(today(), autoCreateWindow) {
		return nil, nil
	}

	next := latest.Next()
	if err := s.create(ctx, next); err != nil {
		if apperror.IsCode(err, http.StatusConflict) {
			return nil, nil
		}
		return nil, err
	}
	log.Ctx(ctx).Info().Str("fiscal_year", next.Year).Msg("created next fiscal year")
	return next, nil
}

// AutoCreateAll runs AutoCreateNext for every church and returns how many
// fiscal years were created
func (s *FiscalYearService) AutoCreateAll(ctx context.Context) (int, error) {
	churches, err := s.churchRepo.ListAll(ctx)
	if err != nil {
		return 0, err
	}

	created := 0
	for _, church := range churches {
		fy, err := s.AutoCreateNext(infraRepo.WithTenant(ctx, church.ID))
		if err != nil {
			log.Ctx(ctx).Error().Err(err).Str("church_id", church.ID.String()).Msg("fiscal year auto-create failed")
			continue
		}
		if fy != nil {
			created++
		}
	}
	return created, nil
}
