package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/sangkips/stewardpro-api/internal/domain/entity"
	"github.com/sangkips/stewardpro-api/internal/domain/enum"
	"github.com/sangkips/stewardpro-api/internal/domain/repository"
	"github.com/sangkips/stewardpro-api/pkg/apperror"
	"github.com/sangkips/stewardpro-api/pkg/metrics"
	"github.com/sangkips/stewardpro-api/pkg/mobilemoney"
	"github.com/sangkips/stewardpro-api/pkg/pagination"
	"github.com/sangkips/stewardpro-api/pkg/sms"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// PaymentGateway pushes payment prompts to phones
type PaymentGateway interface {
	RequestPayment(ctx context.Context, creds mobilemoney.Credentials, pr mobilemoney.PaymentRequest) mobilemoney.Result
}

// MobileMoneyService requests payments from members' phones
type MobileMoneyService struct {
	paymentRepo repository.MobileMoneyRepository
	memberRepo  repository.MemberRepository
	settings    *SettingsService
	gateway     PaymentGateway
}

// NewMobileMoneyService creates a new mobile money service
func NewMobileMoneyService(
	paymentRepo repository.MobileMoneyRepository,
	memberRepo repository.MemberRepository,
	settings *SettingsService,
	gateway PaymentGateway,
) *MobileMoneyService {
	return &MobileMoneyService{
		paymentRepo: paymentRepo,
		memberRepo:  memberRepo,
		settings:    settings,
		gateway:     gateway,
	}
}

// PaymentInput asks a phone holder to pay. PhoneNumber may be left empty
// when MemberID is set.
type PaymentInput struct {
	MemberID    *uuid.UUID
	PhoneNumber string
	Amount      decimal.Decimal
	Description string
}

// RequestPayment sends a push-payment prompt and records the outcome.
// Gateway failures are recorded, not returned as errors.
func (s *MobileMoneyService) RequestPayment(ctx context.Context, userID uuid.UUID, input *PaymentInput) (*entity.MobileMoneyPayment, error) {
	churchID, err := churchFromContext(ctx)
	if err != nil {
		return nil, err
	}

	settings, err := s.settings.GetSettings(ctx)
	if err != nil {
		return nil, err
	}
	if err := settings.CheckFeature(enum.FeatureMobileMoney); err != nil {
		return nil, err
	}
	if !settings.MobileMoneyConfigured() {
		return nil, apperror.NewBadRequestError("Mobile money gateway is not configured")
	}

	amount := entity.Round(input.Amount)
	if !amount.IsPositive() {
		return nil, apperror.NewFieldError("amount", "Amount must be greater than zero")
	}

	phone := input.PhoneNumber
	if input.MemberID != nil {
		member, err := s.memberRepo.GetByID(ctx, *input.MemberID)
		if err != nil {
			return nil, err
		}
		if member == nil {
			return nil, apperror.NewFieldError("member", "Member not found")
		}
		if phone == "" {
			phone = member.Contact
		}
	}
	phone = sms.NormalizePhone(phone)
	if phone == "" {
		return nil, apperror.NewFieldError("phone_number", "Phone number is required")
	}

	res := s.gateway.RequestPayment(ctx, mobileMoneyCredentials(settings), mobilemoney.PaymentRequest{
		PhoneNumber: phone,
		Amount:      amount,
		Description: input.Description,
	})
	metrics.RecordGatewayCall("mobile_money", res.Success)

	payment := &entity.MobileMoneyPayment{
		MemberID:      input.MemberID,
		PhoneNumber:   phone,
		Amount:        amount,
		Description:   input.Description,
		Success:       res.Success,
		Error:         res.Error,
		TransactionID: res.TransactionID,
		RequestedBy:   &userID,
	}
	payment.TenantID = churchID
	if len(res.Data) > 0 {
		payment.GatewayResponse = datatypes.JSON(res.Data)
	}

	if !res.Success {
		log.Ctx(ctx).Warn().Str("phone", phone).Str("error", res.Error).Msg("mobile money request failed")
	}
	if err := s.paymentRepo.Create(ctx, payment); err != nil {
		return nil, err
	}
	return payment, nil
}

// ListPayments lists recorded payment requests, newest first
func (s *MobileMoneyService) ListPayments(ctx context.Context, params *pagination.PaginationParams) (*pagination.PaginatedResult[entity.MobileMoneyPayment], error) {
	rows, total, err := s.paymentRepo.List(ctx, params)
	if err != nil {
		return nil, err
	}
	return pagination.NewPaginatedResult(rows, pagination.NewPagination(params.Page, params.PerPage, total)), nil
}
