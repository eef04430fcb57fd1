package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/sangkips/stewardpro-api/internal/domain/entity"
	"github.com/sangkips/stewardpro-api/internal/domain/enum"
	"github.com/sangkips/stewardpro-api/internal/domain/repository"
	"github.com/sangkips/stewardpro-api/pkg/apperror"
	"github.com/sangkips/stewardpro-api/pkg/pagination"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// ContributionService handles tithes and offerings
type ContributionService struct {
	contributionRepo repository.ContributionRepository
	memberRepo       repository.MemberRepository
	settings         *SettingsService
	tasks            TaskEnqueuer
	namer            documentNamer
}

// NewContributionService creates a new tithes and offerings service
func NewContributionService(
	contributionRepo repository.ContributionRepository,
	memberRepo repository.MemberRepository,
	seriesRepo repository.NamingSeriesRepository,
	settings *SettingsService,
	tasks TaskEnqueuer,
) *ContributionService {
	return &ContributionService{
		contributionRepo: contributionRepo,
		memberRepo:       memberRepo,
		settings:         settings,
		tasks:            tasks,
		namer:            documentNamer{seriesRepo: seriesRepo},
	}
}

// ContributionInput carries the editable contribution fields
type ContributionInput struct {
	Date                   datatypes.Date
	MemberID               *uuid.UUID
	TitheAmount            decimal.Decimal
	OfferingAmount         decimal.Decimal
	CampmeetingOffering    decimal.Decimal
	ChurchBuildingOffering decimal.Decimal
	PaymentMode            enum.PaymentMode
	ReceiptNumber          string
	Notes                  string
}

func (s *ContributionService) apply(ctx context.Context, c *entity.Contribution, in *ContributionInput) error {
	if in.MemberID != nil {
		member, err := s.memberRepo.GetByID(ctx, *in.MemberID)
		if err != nil {
			return err
		}
		if member == nil {
			return apperror.NewFieldError("member", "Member not found")
		}
		c.Member = member
	} else {
		c.Member = nil
	}

	c.Date = in.Date
	c.MemberID = in.MemberID
	c.TitheAmount = in.TitheAmount
	c.OfferingAmount = in.OfferingAmount
	c.CampmeetingOffering = in.CampmeetingOffering
	c.ChurchBuildingOffering = in.ChurchBuildingOffering
	c.PaymentMode = in.PaymentMode
	c.ReceiptNumber = in.ReceiptNumber
	c.Notes = in.Notes
	return c.Validate()
}

// CreateContribution records a draft contribution
func (s *ContributionService) CreateContribution(ctx context.Context, userID uuid.UUID, input *ContributionInput) (*entity.Contribution, error) {
	churchID, err := churchFromContext(ctx)
	if err != nil {
		return nil, err
	}

	c := &entity.Contribution{CreatedBy: &userID}
	c.TenantID = churchID
	if err := s.apply(ctx, c, input); err != nil {
		return nil, err
	}

	name, err := s.namer.next(ctx, entity.SeriesContribution, entity.Time(c.Date))
	if err != nil {
		return nil, err
	}
	c.Name = name

	if err := s.contributionRepo.Create(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// GetContribution retrieves a contribution by ID
func (s *ContributionService) GetContribution(ctx context.Context, id uuid.UUID) (*entity.Contribution, error) {
	c, err := s.contributionRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, apperror.NewNotFoundError("Tithes and offerings record")
	}
	return c, nil
}

// UpdateContribution edits a draft contribution
func (s *ContributionService) UpdateContribution(ctx context.Context, id uuid.UUID, input *ContributionInput) (*entity.Contribution, error) {
	c, err := s.GetContribution(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := requireDraft(&c.Document); err != nil {
		return nil, err
	}

	if err := s.apply(ctx, c, input); err != nil {
		return nil, err
	}
	if err := s.contributionRepo.Update(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// DeleteContribution removes a draft contribution
func (s *ContributionService) DeleteContribution(ctx context.Context, id uuid.UUID) error {
	c, err := s.GetContribution(ctx, id)
	if err != nil {
		return err
	}
	if err := requireDraft(&c.Document); err != nil {
		return err
	}
	return s.contributionRepo.Delete(ctx, id)
}

// SubmitContribution issues the receipt number, submits the record and
// queues a receipt SMS. SMS problems never fail the submit.
func (s *ContributionService) SubmitContribution(ctx context.Context, userID, id uuid.UUID) (*entity.Contribution, error) {
	c, err := s.GetContribution(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := requireDraft(&c.Document); err != nil {
		return nil, err
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}

	c.MarkSubmitted(userID, now())
	if err := s.saveWithReceipt(ctx, c); err != nil {
		return nil, err
	}

	s.queueReceiptSMS(ctx, c)
	return c, nil
}

// receiptAttempts bounds how often a generated receipt number is redrawn
// after another submit on the same date claimed it first
const receiptAttempts = 3

// saveWithReceipt stores the submitted record, numbering it from the
// receipts already issued on its date when no number was entered
func (s *ContributionService) saveWithReceipt(ctx context.Context, c *entity.Contribution) error {
	generated := c.ReceiptNumber == ""
	for attempt := 1; ; attempt++ {
		if generated {
			date := entity.Time(c.Date)
			count, err := s.contributionRepo.CountOnDate(ctx, date)
			if err != nil {
				return err
			}
			c.ReceiptNumber = entity.FormatReceiptNumber(date, count+1)
		}

		err := s.contributionRepo.Update(ctx, c)
		if !errors.Is(err, repository.ErrDuplicateReceipt) {
			return err
		}
		if !generated || attempt == receiptAttempts {
			return apperror.NewConflictError(fmt.Sprintf("Receipt number %s is already issued", c.ReceiptNumber))
		}
		log.Ctx(ctx).Debug().Str("receipt", c.ReceiptNumber).Msg("receipt number taken, renumbering")
	}
}

func (s *ContributionService) queueReceiptSMS(ctx context.Context, c *entity.Contribution) {
	if c.Member == nil || c.Member.Contact == "" {
		return
	}

	settings, err := s.settings.GetSettings(ctx)
	if err != nil {
		log.Ctx(ctx).Warn().Err(err).Msg("receipt SMS skipped: settings unavailable")
		return
	}
	if !settings.FeatureEnabled(enum.FeatureSMS) {
		return
	}

	if err := s.tasks.EnqueueReceiptSMS(ctx, c.TenantID, c.ID); err != nil {
		log.Ctx(ctx).Warn().Err(err).Str("contribution", c.Name).Msg("failed to enqueue receipt SMS")
	}
}

// CancelContribution cancels a submitted contribution
func (s *ContributionService) CancelContribution(ctx context.Context, id uuid.UUID) (*entity.Contribution, error) {
	c, err := s.GetContribution(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := requireSubmitted(&c.Document); err != nil {
		return nil, err
	}

	c.MarkCancelled(now())
	if err := s.contributionRepo.Update(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// ListContributions lists contributions with filters and pagination
func (s *ContributionService) ListContributions(ctx context.Context, params *repository.ContributionFilterParams) (*pagination.PaginatedResult[entity.Contribution], error) {
	rows, total, err := s.contributionRepo.List(ctx, params)
	if err != nil {
		return nil, err
	}

	pag := pagination.NewPagination(params.Pagination.Page, params.Pagination.PerPage, total)
	return pagination.NewPaginatedResult(rows, pag), nil
}
