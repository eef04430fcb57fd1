package service

import (
	"context"

	"github.com/rs/zerolog/log"
	"github.com/sangkips/stewardpro-api/internal/domain/entity"
	"github.com/sangkips/stewardpro-api/internal/domain/enum"
	"github.com/sangkips/stewardpro-api/internal/domain/repository"
	infraRepo "github.com/sangkips/stewardpro-api/internal/infrastructure/repository"
	"github.com/sangkips/stewardpro-api/pkg/apperror"
	"github.com/sangkips/stewardpro-api/pkg/mobilemoney"
	"github.com/sangkips/stewardpro-api/pkg/sms"
)

// SettingsService manages each church's subscription, feature flags and
// gateway configuration
type SettingsService struct {
	settingsRepo repository.SettingsRepository
	churchRepo   repository.ChurchRepository
}

// NewSettingsService creates a new settings service
func NewSettingsService(settingsRepo repository.SettingsRepository, churchRepo repository.ChurchRepository) *SettingsService {
	return &SettingsService{
		settingsRepo: settingsRepo,
		churchRepo:   churchRepo,
	}
}

// GetSettings returns the church's settings, starting a trial on first access
func (s *SettingsService) GetSettings(ctx context.Context) (*entity.Settings, error) {
	churchID, err := churchFromContext(ctx)
	if err != nil {
		return nil, err
	}

	settings, err := s.settingsRepo.Get(ctx)
	if err != nil {
		return nil, err
	}
	if settings != nil {
		return settings, nil
	}

	name := ""
	church, err := s.churchRepo.GetByID(ctx, churchID)
	if err != nil {
		return nil, err
	}
	if church != nil {
		name = church.Name
	}

	settings = entity.DefaultSettings(name, today())
	settings.TenantID = churchID
	if err := s.settingsRepo.Create(ctx, settings); err != nil {
		return nil, err
	}
	return settings, nil
}

// UpdateSettingsInput carries editable settings. Nil fields are unchanged.
type UpdateSettingsInput struct {
	ChurchName           *string
	AdminContactName     *string
	AdminContactEmail    *string
	AdminContactPhone    *string
	BillingContactEmail  *string
	NotificationEmail    *string
	Features             *entity.FeatureFlags
	SMSAPIKey            *string
	SMSAPISecret         *string
	SMSSenderID          *string
	SMSBaseURL           *string
	MobileMoneyAPIKey    *string
	MobileMoneyPublicKey *string
	MobileMoneyBaseURL   *string
}

// UpdateSettings applies input, then clamps flags to the package
func (s *SettingsService) UpdateSettings(ctx context.Context, input *UpdateSettingsInput) (*entity.Settings, error) {
	settings, err := s.GetSettings(ctx)
	if err != nil {
		return nil, err
	}

	assign := func(dst *string, src *string) {
		if src != nil {
			*dst = *src
		}
	}
	assign(&settings.ChurchName, input.ChurchName)
	assign(&settings.AdminContactName, input.AdminContactName)
	assign(&settings.AdminContactEmail, input.AdminContactEmail)
	assign(&settings.AdminContactPhone, input.AdminContactPhone)
	assign(&settings.BillingContactEmail, input.BillingContactEmail)
	assign(&settings.NotificationEmail, input.NotificationEmail)
	assign(&settings.SMSAPIKey, input.SMSAPIKey)
	assign(&settings.SMSAPISecret, input.SMSAPISecret)
	assign(&settings.SMSSenderID, input.SMSSenderID)
	assign(&settings.SMSBaseURL, input.SMSBaseURL)
	assign(&settings.MobileMoneyAPIKey, input.MobileMoneyAPIKey)
	assign(&settings.MobileMoneyPublicKey, input.MobileMoneyPublicKey)
	assign(&settings.MobileMoneyBaseURL, input.MobileMoneyBaseURL)
	if input.Features != nil {
		settings.Features = *input.Features
	}

	if err := settings.Validate(); err != nil {
		return nil, err
	}
	if err := s.settingsRepo.Update(ctx, settings); err != nil {
		return nil, err
	}
	return settings, nil
}

// ChangePackageInput switches the church to another package
type ChangePackageInput struct {
	Package enum.SubscriptionPackage
	Months  int
}

// ChangePackage applies a package's limits and flags and starts a paid
// period of the given number of months from today
func (s *SettingsService) ChangePackage(ctx context.Context, input *ChangePackageInput) (*entity.Settings, error) {
	if _, ok := entity.Packages[input.Package]; !ok {
		return nil, apperror.NewFieldError("subscription_package", "Invalid subscription package")
	}
	months := input.Months
	if months <= 0 {
		months = 1
	}

	settings, err := s.GetSettings(ctx)
	if err != nil {
		return nil, err
	}

	start := today()
	settings.Package = input.Package
	settings.Status = enum.SubscriptionActive
	settings.StartDate = entity.DateOf(start)
	settings.EndDate = entity.DateOf(enum.AddMonths(start, months))
	settings.ApplyPackage()

	if err := settings.Validate(); err != nil {
		return nil, err
	}
	if err := s.settingsRepo.Update(ctx, settings); err != nil {
		return nil, err
	}
	return settings, nil
}

// SubscriptionStatus is the result of a subscription check
type SubscriptionStatus struct {
	Package  enum.SubscriptionPackage `json:"subscription_package"`
	Status   enum.SubscriptionStatus  `json:"subscription_status"`
	EndDate  string                   `json:"subscription_end_date"`
	Usable   bool                     `json:"usable"`
	Features entity.FeatureFlags      `json:"features"`
}

// CheckSubscription expires the church's subscription when it has lapsed
func (s *SettingsService) CheckSubscription(ctx context.Context) (*SubscriptionStatus, error) {
	settings, err := s.GetSettings(ctx)
	if err != nil {
		return nil, err
	}

	if settings.CheckSubscription(today()) {
		if err := s.settingsRepo.Update(ctx, settings); err != nil {
			return nil, err
		}
	}

	return &SubscriptionStatus{
		Package:  settings.Package,
		Status:   settings.Status,
		EndDate:  entity.FormatDate(settings.EndDate),
		Usable:   settings.Status.Usable(),
		Features: settings.Features,
	}, nil
}

// RequireFeature fails with 402 when the church's package lacks f
func (s *SettingsService) RequireFeature(ctx context.Context, f enum.Feature) error {
	settings, err := s.GetSettings(ctx)
	if err != nil {
		return err
	}
	return settings.CheckFeature(f)
}

// SMSBalance is the church's remaining SMS quota for the month
type SMSBalance struct {
	Quota     int `json:"sms_monthly_quota"`
	Used      int `json:"sms_used_this_month"`
	Remaining int `json:"sms_balance"`
}

// GetSMSBalance reports the SMS quota usage
func (s *SettingsService) GetSMSBalance(ctx context.Context) (*SMSBalance, error) {
	settings, err := s.GetSettings(ctx)
	if err != nil {
		return nil, err
	}
	return &SMSBalance{
		Quota:     settings.Limits.SMSMonthlyQuota,
		Used:      settings.SMSUsedThisMonth,
		Remaining: settings.SMSBalance(),
	}, nil
}

// IncrementSMSUsage records n sent messages
func (s *SettingsService) IncrementSMSUsage(ctx context.Context, n int) error {
	if n <= 0 {
		return nil
	}
	return s.settingsRepo.IncrementSMSUsed(ctx, n)
}

// ResetMonthlyUsage zeroes every church's SMS counter
func (s *SettingsService) ResetMonthlyUsage(ctx context.Context) (int64, error) {
	return s.settingsRepo.ResetAllSMSUsage(ctx)
}

// CheckAllSubscriptions runs the subscription check for every church and
// returns how many were expired
func (s *SettingsService) CheckAllSubscriptions(ctx context.Context) (int, error) {
	churches, err := s.churchRepo.ListAll(ctx)
	if err != nil {
		return 0, err
	}

	expired := 0
	for _, church := range churches {
		churchCtx := infraRepo.WithTenant(ctx, church.ID)
		settings, err := s.settingsRepo.Get(churchCtx)
		if err != nil {
			log.Ctx(ctx).Error().Err(err).Str("church_id", church.ID.String()).Msg("failed to load settings")
			continue
		}
		if settings == nil || !settings.CheckSubscription(today()) {
			continue
		}
		if err := s.settingsRepo.Update(churchCtx, settings); err != nil {
			log.Ctx(ctx).Error().Err(err).Str("church_id", church.ID.String()).Msg("failed to expire subscription")
			continue
		}
		expired++
	}
	return expired, nil
}

// smsCredentials builds gateway credentials from settings
func smsCredentials(s *entity.Settings) sms.Credentials {
	return sms.Credentials{
		APIKey:    s.SMSAPIKey,
		APISecret: s.SMSAPISecret,
		SenderID:  s.SMSSenderID,
		BaseURL:   s.SMSBaseURL,
	}
}

// mobileMoneyCredentials builds gateway credentials from settings
func mobileMoneyCredentials(s *entity.Settings) mobilemoney.Credentials {
	return mobilemoney.Credentials{
		APIKey:    s.MobileMoneyAPIKey,
		PublicKey: s.MobileMoneyPublicKey,
		BaseURL:   s.MobileMoneyBaseURL,
	}
}
