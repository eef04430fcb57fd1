package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/sangkips/stewardpro-api/internal/domain/entity"
	"github.com/sangkips/stewardpro-api/internal/domain/enum"
	"github.com/sangkips/stewardpro-api/internal/domain/repository"
	infraRepo "github.com/sangkips/stewardpro-api/internal/infrastructure/repository"
	"github.com/sangkips/stewardpro-api/pkg/apperror"
	"github.com/sangkips/stewardpro-api/pkg/metrics"
	"github.com/sangkips/stewardpro-api/pkg/pagination"
	"github.com/sangkips/stewardpro-api/pkg/sms"
	"gorm.io/datatypes"
)

// ErrSMSGateway marks a send the gateway refused; the job layer retries it
var ErrSMSGateway = errors.New("sms gateway rejected the message")

// SMSSender delivers messages through the SMS gateway
type SMSSender interface {
	Send(ctx context.Context, creds sms.Credentials, message string, recipients ...string) sms.Result
}

// Bulk message kinds
const (
	BulkCustom  = "custom"
	BulkWelcome = "welcome"
	BulkReceipt = "receipt"
)

// BulkSMSInput selects recipients for a bulk send. Custom and welcome
// messages go to MemberIDs, receipts to the members of ContributionIDs.
type BulkSMSInput struct {
	Type            string      `json:"type"`
	Message         string      `json:"message,omitempty"`
	MemberIDs       []uuid.UUID `json:"member_ids,omitempty"`
	ContributionIDs []uuid.UUID `json:"contribution_ids,omitempty"`
}

// BulkSMSRecipient is the outcome for one recipient
type BulkSMSRecipient struct {
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

// BulkSMSResult summarises a bulk send
type BulkSMSResult struct {
	Success    bool               `json:"success"`
	Total      int                `json:"total"`
	Successful int                `json:"successful"`
	Failed     int                `json:"failed"`
	Results    []BulkSMSRecipient `json:"results"`
}

// SMSService sends member notifications and keeps the SMS log
type SMSService struct {
	settings         *SettingsService
	logRepo          repository.SMSLogRepository
	memberRepo       repository.MemberRepository
	contributionRepo repository.ContributionRepository
	churchRepo       repository.ChurchRepository
	sender           SMSSender
	tasks            TaskEnqueuer
}

// NewSMSService creates a new SMS service
func NewSMSService(
	settings *SettingsService,
	logRepo repository.SMSLogRepository,
	memberRepo repository.MemberRepository,
	contributionRepo repository.ContributionRepository,
	churchRepo repository.ChurchRepository,
	sender SMSSender,
	tasks TaskEnqueuer,
) *SMSService {
	return &SMSService{
		settings:         settings,
		logRepo:          logRepo,
		memberRepo:       memberRepo,
		contributionRepo: contributionRepo,
		churchRepo:       churchRepo,
		sender:           sender,
		tasks:            tasks,
	}
}

// outgoing is one message ready to send
type outgoing struct {
	smsType  enum.SMSType
	memberID *uuid.UUID
	name     string
	phone    string
	message  string
	refDoc   string
}

// deliver sends one message, logs the attempt and counts it against the
// quota when the gateway accepts it
func (s *SMSService) deliver(ctx context.Context, settings *entity.Settings, m outgoing) (*entity.SMSLog, error) {
	churchID, err := churchFromContext(ctx)
	if err != nil {
		return nil, err
	}

	phone := sms.NormalizePhone(m.phone)
	res := s.sender.Send(ctx, smsCredentials(settings), m.message, phone)
	metrics.RecordGatewayCall("sms", res.Success)

	entry := &entity.SMSLog{
		SMSType:       m.smsType,
		MemberID:      m.memberID,
		RecipientName: m.name,
		PhoneNumber:   phone,
		Message:       m.message,
		Status:        entity.SMSStatusSuccess,
		Reference:     res.Reference,
		ReferenceDoc:  m.refDoc,
		SentAt:        now(),
	}
	entry.TenantID = churchID
	if !res.Success {
		entry.Status = entity.SMSStatusFailedPrefix + res.Error
	}
	if res.Response != "" {
		entry.GatewayResponse = datatypes.JSON(res.Response)
	}
	if err := s.logRepo.Create(ctx, entry); err != nil {
		log.Ctx(ctx).Error().Err(err).Str("phone", phone).Msg("failed to write SMS log")
	}

	if !res.Success {
		log.Ctx(ctx).Warn().Str("phone", phone).Str("type", string(m.smsType)).Str("error", res.Error).Msg("SMS send failed")
		return entry, fmt.Errorf("%w: %s", ErrSMSGateway, res.Error)
	}
	if err := s.settings.IncrementSMSUsage(ctx, 1); err != nil {
		log.Ctx(ctx).Error().Err(err).Msg("failed to increment SMS usage")
	}
	return entry, nil
}

// ready loads settings and reports whether SMS can go out at all
func (s *SMSService) ready(ctx context.Context) (*entity.Settings, bool, error) {
	settings, err := s.settings.GetSettings(ctx)
	if err != nil {
		return nil, false, err
	}
	if !settings.FeatureEnabled(enum.FeatureSMS) || !settings.SMSConfigured() {
		return settings, false, nil
	}
	return settings, true, nil
}

// SendWelcome greets a new member. Nothing is sent when SMS is off, the
// quota is used up or the member has no phone.
func (s *SMSService) SendWelcome(ctx context.Context, memberID uuid.UUID) (*entity.SMSLog, error) {
	settings, ok, err := s.ready(ctx)
	if err != nil || !ok {
		return nil, err
	}
	if err := settings.CanSendSMS(1); err != nil {
		log.Ctx(ctx).Warn().Err(err).Msg("welcome SMS skipped")
		return nil, nil
	}

	member, err := s.memberRepo.GetByID(ctx, memberID)
	if err != nil {
		return nil, err
	}
	if member == nil || member.Contact == "" {
		return nil, nil
	}

	return s.deliver(ctx, settings, outgoing{
		smsType:  enum.SMSTypeWelcome,
		memberID: &member.ID,
		name:     member.FullName(),
		phone:    member.Contact,
		message:  sms.WelcomeMessage(member.FullName()),
		refDoc:   member.MemberID,
	})
}

// SendReceipt confirms a submitted contribution to its member
func (s *SMSService) SendReceipt(ctx context.Context, contributionID uuid.UUID) (*entity.SMSLog, error) {
	settings, ok, err := s.ready(ctx)
	if err != nil || !ok {
		return nil, err
	}
	if err := settings.CanSendSMS(1); err != nil {
		log.Ctx(ctx).Warn().Err(err).Msg("receipt SMS skipped")
		return nil, nil
	}

	c, err := s.contributionRepo.GetByID(ctx, contributionID)
	if err != nil {
		return nil, err
	}
	msg, ok := receiptMessage(c)
	if !ok {
		return nil, nil
	}
	return s.deliver(ctx, settings, msg)
}

func receiptMessage(c *entity.Contribution) (outgoing, bool) {
	if c == nil || !c.IsSubmitted() || c.Member == nil || c.Member.Contact == "" {
		return outgoing{}, false
	}
	name := c.Member.FullName()
	return outgoing{
		smsType:  enum.SMSTypeReceipt,
		memberID: &c.Member.ID,
		name:     name,
		phone:    c.Member.Contact,
		message:  sms.ReceiptMessage(name, c.ReceiptNumber, entity.Time(c.Date), formatMoney(c.TotalAmount)),
		refDoc:   c.Name,
	}, true
}

// QueueBulk checks the request and hands it to the worker
func (s *SMSService) QueueBulk(ctx context.Context, input *BulkSMSInput) error {
	churchID, err := churchFromContext(ctx)
	if err != nil {
		return err
	}
	if err := s.checkBulk(ctx, input); err != nil {
		return err
	}
	return s.tasks.EnqueueBulkSMS(ctx, churchID, input)
}

func (s *SMSService) checkBulk(ctx context.Context, input *BulkSMSInput) error {
	settings, err := s.settings.GetSettings(ctx)
	if err != nil {
		return err
	}
	n := len(input.MemberIDs)
	switch input.Type {
	case BulkCustom:
		if input.Message == "" {
			return apperror.NewFieldError("message", "Message is required")
		}
	case BulkWelcome:
	case BulkReceipt:
		n = len(input.ContributionIDs)
	default:
		return apperror.NewFieldError("type", "Type must be custom, welcome or receipt")
	}
	if n == 0 {
		return apperror.NewFieldError("recipients", "No recipients selected")
	}
	if err := settings.CanSendSMS(n); err != nil {
		return err
	}
	if !settings.SMSConfigured() {
		return apperror.NewBadRequestError("SMS gateway is not configured")
	}
	return nil
}

// SendBulk sends a custom, welcome or receipt message to a selection and
// reports the outcome per recipient
func (s *SMSService) SendBulk(ctx context.Context, input *BulkSMSInput) (*BulkSMSResult, error) {
	if err := s.checkBulk(ctx, input); err != nil {
		return nil, err
	}
	settings, err := s.settings.GetSettings(ctx)
	if err != nil {
		return nil, err
	}

	var batch []outgoing
	result := &BulkSMSResult{Results: []BulkSMSRecipient{}}
	if input.Type == BulkReceipt {
		for _, id := range input.ContributionIDs {
			c, err := s.contributionRepo.GetByID(ctx, id)
			if err != nil {
				return nil, err
			}
			msg, ok := receiptMessage(c)
			if !ok {
				result.Results = append(result.Results, BulkSMSRecipient{Name: id.String(), Error: "No submitted record with a member phone"})
				continue
			}
			batch = append(batch, msg)
		}
	} else {
		members, err := s.memberRepo.GetByIDs(ctx, input.MemberIDs)
		if err != nil {
			return nil, err
		}
		for i := range members {
			m := &members[i]
			if m.Contact == "" {
				result.Results = append(result.Results, BulkSMSRecipient{Name: m.FullName(), Error: "No phone number"})
				continue
			}
			msg := outgoing{
				smsType:  enum.SMSTypeBulk,
				memberID: &m.ID,
				name:     m.FullName(),
				phone:    m.Contact,
				message:  input.Message,
				refDoc:   m.MemberID,
			}
			if input.Type == BulkWelcome {
				msg.smsType = enum.SMSTypeWelcome
				msg.message = sms.WelcomeMessage(m.FullName())
			}
			batch = append(batch, msg)
		}
	}

	for _, msg := range batch {
		r := BulkSMSRecipient{Name: msg.name, Phone: sms.NormalizePhone(msg.phone), Success: true}
		if _, err := s.deliver(ctx, settings, msg); err != nil {
			r.Success = false
			r.Error = err.Error()
		}
		result.Results = append(result.Results, r)
	}

	result.Total = len(result.Results)
	for _, r := range result.Results {
		if r.Success {
			result.Successful++
		} else {
			result.Failed++
		}
	}
	result.Success = result.Successful > 0
	return result, nil
}

// SendWeekly sends the weekly giving summary to active members of the
// church in context and returns how many were sent. It stops at the
// monthly quota.
func (s *SMSService) SendWeekly(ctx context.Context) (int, error) {
	settings, ok, err := s.ready(ctx)
	if err != nil {
		return 0, err
	}
	if !ok {
		log.Ctx(ctx).Info().Msg("SMS disabled or not configured, weekly SMS skipped")
		return 0, nil
	}

	members, err := s.memberRepo.ListActiveWithContact(ctx)
	if err != nil {
		return 0, err
	}
	if len(members) == 0 {
		return 0, nil
	}

	end := today()
	totals, err := s.contributionRepo.SumSubmitted(ctx, end.AddDate(0, 0, -6), end)
	if err != nil {
		return 0, err
	}

	churchName := settings.ChurchName
	if churchName == "" {
		if churchID, err := churchFromContext(ctx); err == nil {
			if church, err := s.churchRepo.GetByID(ctx, churchID); err == nil && church != nil {
				churchName = church.Name
			}
		}
	}

	budget := settings.SMSBalance()
	sent := 0
	for i := range members {
		if sent >= budget {
			log.Ctx(ctx).Warn().Int("remaining", len(members)-i).Msg("SMS quota reached, weekly SMS stopped")
			break
		}
		m := &members[i]
		_, err := s.deliver(ctx, settings, outgoing{
			smsType:  enum.SMSTypeWeekly,
			memberID: &m.ID,
			name:     m.FullName(),
			phone:    m.Contact,
			message:  sms.WeeklyMessage(m.FullName(), churchName, formatMoney(totals.Total)),
			refDoc:   m.MemberID,
		})
		if err == nil {
			sent++
		}
	}
	return sent, nil
}

// SendWeeklyAll runs the weekly SMS for every church
func (s *SMSService) SendWeeklyAll(ctx context.Context) (int, error) {
	churches, err := s.churchRepo.ListAll(ctx)
	if err != nil {
		return 0, err
	}

	total := 0
	for _, church := range churches {
		n, err := s.SendWeekly(infraRepo.WithTenant(ctx, church.ID))
		if err != nil {
			log.Ctx(ctx).Error().Err(err).Str("church_id", church.ID.String()).Msg("weekly SMS failed")
			continue
		}
		total += n
	}
	return total, nil
}

// ListLogs pages through the SMS log, newest first
func (s *SMSService) ListLogs(ctx context.Context, params *repository.SMSLogFilterParams) (*pagination.CursorResult[entity.SMSLog], error) {
	if params.Cursor == nil {
		params.Cursor = &pagination.CursorParams{}
	}
	rows, err := s.logRepo.ListWithCursor(ctx, params)
	if err != nil {
		return nil, apperror.NewBadRequestError(err.Error())
	}
	return pagination.NewCursorResult(rows, params.Cursor.Limit, func(l entity.SMSLog) (string, time.Time) {
		return l.ID.String(), l.CreatedAt
	}), nil
}
