package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/sangkips/stewardpro-api/internal/domain/entity"
	"github.com/sangkips/stewardpro-api/internal/domain/enum"
	"github.com/sangkips/stewardpro-api/internal/domain/repository"
	"github.com/sangkips/stewardpro-api/pkg/apperror"
	"github.com/sangkips/stewardpro-api/pkg/email"
	"github.com/sangkips/stewardpro-api/pkg/pagination"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// RemittanceService prepares and tracks remittances to the parent organization
type RemittanceService struct {
	remittanceRepo   repository.RemittanceRepository
	contributionRepo repository.ContributionRepository
	settings         *SettingsService
	tasks            TaskEnqueuer
	namer            documentNamer
}

// NewRemittanceService creates a new remittance service
func NewRemittanceService(
	remittanceRepo repository.RemittanceRepository,
	contributionRepo repository.ContributionRepository,
	seriesRepo repository.NamingSeriesRepository,
	settings *SettingsService,
	tasks TaskEnqueuer,
) *RemittanceService {
	return &RemittanceService{
		remittanceRepo:   remittanceRepo,
		contributionRepo: contributionRepo,
		settings:         settings,
		tasks:            tasks,
		namer:            documentNamer{seriesRepo: seriesRepo},
	}
}

// RemittanceInput carries the editable remittance fields
type RemittanceInput struct {
	OrganizationName       string
	OrganizationType       enum.OrganizationType
	RemittanceDate         datatypes.Date
	RemittancePeriod       enum.RemittancePeriod
	TitheAmount            decimal.Decimal
	OfferingToFieldAmount  decimal.Decimal
	SpecialOfferingsAmount decimal.Decimal
	OtherRemittancesAmount decimal.Decimal
	PaymentMode            enum.PaymentMode
	ReferenceNumber        string
	ContactPerson          string
	ContactDetails         string
	NotificationEmail      string
	Notes                  string
}

func (in *RemittanceInput) apply(r *entity.Remittance) {
	r.OrganizationName = in.OrganizationName
	r.OrganizationType = in.OrganizationType
	r.RemittanceDate = in.RemittanceDate
	r.RemittancePeriod = in.RemittancePeriod
	r.TitheAmount = in.TitheAmount
	r.OfferingToFieldAmount = in.OfferingToFieldAmount
	r.SpecialOfferingsAmount = in.SpecialOfferingsAmount
	r.OtherRemittancesAmount = in.OtherRemittancesAmount
	r.PaymentMode = in.PaymentMode
	r.ReferenceNumber = in.ReferenceNumber
	r.ContactPerson = in.ContactPerson
	r.ContactDetails = in.ContactDetails
	r.NotificationEmail = in.NotificationEmail
	r.Notes = in.Notes
}

// Preview sums submitted contributions in the period ending on date
func (s *RemittanceService) Preview(ctx context.Context, date datatypes.Date, period enum.RemittancePeriod) (*entity.RemittancePreview, error) {
	if period == "" {
		period = enum.RemittancePeriodMonthly
	}
	if !period.IsValid() {
		return nil, apperror.NewFieldError("remittance_period", "Invalid remittance period")
	}
	if entity.Time(date).IsZero() {
		date = entity.DateOf(today())
	}

	from, to := period.Range(entity.Time(date))
	totals, err := s.contributionRepo.SumSubmitted(ctx, from, to)
	if err != nil {
		return nil, err
	}

	special := totals.Special()
	return &entity.RemittancePreview{
		PeriodFrom:             from.Format("2006-01-02"),
		PeriodTo:               to.Format("2006-01-02"),
		TitheAmount:            totals.Tithe,
		OfferingToFieldAmount:  totals.OfferingToField,
		SpecialOfferingsAmount: special,
		TotalRemittanceAmount:  totals.Tithe.Add(totals.OfferingToField).Add(special),
		ContributionCount:      totals.Count,
	}, nil
}

// CreateRemittance records a draft remittance
func (s *RemittanceService) CreateRemittance(ctx context.Context, userID uuid.UUID, input *RemittanceInput) (*entity.Remittance, error) {
	churchID, err := churchFromContext(ctx)
	if err != nil {
		return nil, err
	}

	r := &entity.Remittance{
		Status:     enum.RemittanceStatusDraft,
		PreparedBy: &userID,
	}
	r.ID = uuid.New()
	r.TenantID = churchID
	input.apply(r)
	if entity.Time(r.RemittanceDate).IsZero() {
		r.RemittanceDate = entity.DateOf(today())
	}
	if err := r.Validate(today()); err != nil {
		return nil, err
	}

	name, err := s.namer.next(ctx, entity.SeriesRemittance, entity.Time(r.RemittanceDate))
	if err != nil {
		return nil, err
	}
	r.Name = name

	if err := s.remittanceRepo.Create(ctx, r); err != nil {
		return nil, err
	}
	return r, nil
}

// CreateFromPreview fills the amounts from the period's submitted
// contributions, then records a draft remittance
func (s *RemittanceService) CreateFromPreview(ctx context.Context, userID uuid.UUID, input *RemittanceInput) (*entity.Remittance, error) {
	preview, err := s.Preview(ctx, input.RemittanceDate, input.RemittancePeriod)
	if err != nil {
		return nil, err
	}
	if !preview.TotalRemittanceAmount.IsPositive() {
		return nil, apperror.NewBadRequestError("No submitted tithes and offerings in the period")
	}

	in := *input
	in.TitheAmount = preview.TitheAmount
	in.OfferingToFieldAmount = preview.OfferingToFieldAmount
	in.SpecialOfferingsAmount = preview.SpecialOfferingsAmount
	return s.CreateRemittance(ctx, userID, &in)
}

// GetRemittance retrieves a remittance with its lines
func (s *RemittanceService) GetRemittance(ctx context.Context, id uuid.UUID) (*entity.Remittance, error) {
	r, err := s.remittanceRepo.GetWithItems(ctx, id)
	if err != nil {
		return nil, err
	}
	if r == nil {
		return nil, apperror.NewNotFoundError("Remittance")
	}
	return r, nil
}

// UpdateRemittance replaces a draft remittance's fields
func (s *RemittanceService) UpdateRemittance(ctx context.Context, id uuid.UUID, input *RemittanceInput) (*entity.Remittance, error) {
	r, err := s.GetRemittance(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := requireDraft(&r.Document); err != nil {
		return nil, err
	}

	input.apply(r)
	if err := r.Validate(today()); err != nil {
		return nil, err
	}
	if err := s.remittanceRepo.Save(ctx, r); err != nil {
		return nil, err
	}
	return r, nil
}

// DeleteRemittance removes a draft remittance
func (s *RemittanceService) DeleteRemittance(ctx context.Context, id uuid.UUID) error {
	r, err := s.remittanceRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if r == nil {
		return apperror.NewNotFoundError("Remittance")
	}
	if err := requireDraft(&r.Document); err != nil {
		return err
	}
	return s.remittanceRepo.Delete(ctx, id)
}

// SubmitRemittance approves a draft remittance in the submitter's name and
// queues the notification email
func (s *RemittanceService) SubmitRemittance(ctx context.Context, userID, id uuid.UUID) (*entity.Remittance, error) {
	r, err := s.GetRemittance(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := requireDraft(&r.Document); err != nil {
		return nil, err
	}

	// Pending Approval is the pre-submit state; the submitter approves.
	r.Status = enum.RemittanceStatusApproved
	r.ApprovedBy = &userID
	r.ApprovalDate = nil
	if err := r.Validate(today()); err != nil {
		return nil, err
	}
	r.MarkSubmitted(userID, now())
	if err := s.remittanceRepo.Save(ctx, r); err != nil {
		return nil, err
	}

	s.queueNotification(ctx, r)
	return r, nil
}

func (s *RemittanceService) queueNotification(ctx context.Context, r *entity.Remittance) {
	if r.NotificationEmail == "" {
		settings, err := s.settings.GetSettings(ctx)
		if err != nil || settings.NotificationEmail == "" {
			return
		}
	}
	if err := s.tasks.EnqueueRemittanceEmail(ctx, r.TenantID, r.ID); err != nil {
		log.Ctx(ctx).Warn().Err(err).Str("remittance", r.Name).Msg("failed to enqueue remittance email")
	}
}

// MarkSent records that an approved remittance has been paid out
func (s *RemittanceService) MarkSent(ctx context.Context, id uuid.UUID, reference string) (*entity.Remittance, error) {
	r, err := s.submittedWithStatus(ctx, id, enum.RemittanceStatusApproved)
	if err != nil {
		return nil, err
	}

	r.Status = enum.RemittanceStatusSent
	if reference != "" {
		r.ReferenceNumber = reference
	}
	if err := s.remittanceRepo.Save(ctx, r); err != nil {
		return nil, err
	}
	return r, nil
}

// MarkReceived records the organization's confirmation of receipt
func (s *RemittanceService) MarkReceived(ctx context.Context, id uuid.UUID) (*entity.Remittance, error) {
	r, err := s.submittedWithStatus(ctx, id, enum.RemittanceStatusSent)
	if err != nil {
		return nil, err
	}

	r.Status = enum.RemittanceStatusReceived
	if err := s.remittanceRepo.Save(ctx, r); err != nil {
		return nil, err
	}
	return r, nil
}

func (s *RemittanceService) submittedWithStatus(ctx context.Context, id uuid.UUID, status enum.RemittanceStatus) (*entity.Remittance, error) {
	r, err := s.GetRemittance(ctx, id)
	if err != nil {
		return nil, err
	}
	if !r.IsSubmitted() || r.Status != status {
		return nil, apperror.NewConflictError(fmt.Sprintf("Remittance must be %s, it is %s", status, r.Status))
	}
	return r, nil
}

// CancelRemittance cancels a submitted remittance, returning it to draft status
func (s *RemittanceService) CancelRemittance(ctx context.Context, id uuid.UUID) (*entity.Remittance, error) {
	r, err := s.GetRemittance(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := requireSubmitted(&r.Document); err != nil {
		return nil, err
	}

	r.MarkCancelled(now())
	r.Status = enum.RemittanceStatusDraft
	if err := s.remittanceRepo.Save(ctx, r); err != nil {
		return nil, err
	}
	return r, nil
}

// ListRemittances lists remittances with filters and pagination
func (s *RemittanceService) ListRemittances(ctx context.Context, params *repository.RemittanceFilterParams) (*pagination.PaginatedResult[entity.Remittance], error) {
	rows, total, err := s.remittanceRepo.List(ctx, params)
	if err != nil {
		return nil, err
	}
	return pagination.NewPaginatedResult(rows, pagination.NewPagination(params.Pagination.Page, params.Pagination.PerPage, total)), nil
}

// RemittanceSummary is a remittance with its period and breakdown
type RemittanceSummary struct {
	Name             string                  `json:"name"`
	OrganizationName string                  `json:"organization_name"`
	RemittanceDate   string                  `json:"remittance_date"`
	PeriodFrom       string                  `json:"period_from"`
	PeriodTo         string                  `json:"period_to"`
	Status           enum.RemittanceStatus   `json:"status"`
	DocStatus        enum.DocStatus          `json:"doc_status"`
	Total            decimal.Decimal         `json:"total_remittance_amount"`
	Items            []entity.RemittanceItem `json:"items"`
}

// Summary describes a remittance for display
func (s *RemittanceService) Summary(ctx context.Context, id uuid.UUID) (*RemittanceSummary, error) {
	r, err := s.GetRemittance(ctx, id)
	if err != nil {
		return nil, err
	}

	from, to := r.PeriodRange()
	items := r.Items
	if items == nil {
		items = []entity.RemittanceItem{}
	}
	return &RemittanceSummary{
		Name:             r.Name,
		OrganizationName: r.OrganizationName,
		RemittanceDate:   entity.FormatDate(r.RemittanceDate),
		PeriodFrom:       from.Format("2006-01-02"),
		PeriodTo:         to.Format("2006-01-02"),
		Status:           r.Status,
		DocStatus:        r.DocStatus,
		Total:            r.TotalRemittanceAmount,
		Items:            items,
	}, nil
}

// Notification builds the remittance email. The recipient is the
// remittance's own address, falling back to the church notification email;
// an empty recipient means there is nobody to notify.
func (s *RemittanceService) Notification(ctx context.Context, id uuid.UUID) (string, *email.RemittanceNotice, error) {
	r, err := s.GetRemittance(ctx, id)
	if err != nil {
		return "", nil, err
	}
	settings, err := s.settings.GetSettings(ctx)
	if err != nil {
		return "", nil, err
	}

	to := r.NotificationEmail
	if to == "" {
		to = settings.NotificationEmail
	}
	if to == "" || !r.IsSubmitted() {
		return "", nil, nil
	}

	from, until := r.PeriodRange()
	notice := &email.RemittanceNotice{
		ChurchName:       settings.ChurchName,
		OrganizationName: r.OrganizationName,
		RemittanceNo:     r.Name,
		RemittanceDate:   entity.FormatDate(r.RemittanceDate),
		PeriodFrom:       from.Format("2006-01-02"),
		PeriodTo:         until.Format("2006-01-02"),
		Total:            r.TotalRemittanceAmount.StringFixed(2),
	}
	for _, item := range r.Items {
		notice.Lines = append(notice.Lines, email.RemittanceNoticeLine{
			Type:        string(item.ItemType),
			Description: item.Description,
			Amount:      item.Amount.StringFixed(2),
		})
	}
	return to, notice, nil
}
