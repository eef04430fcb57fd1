package entity

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"

	"github.com/sangkips/stewardpro-api/internal/domain/enum"
	"github.com/sangkips/stewardpro-api/pkg/apperror"
	"github.com/sangkips/stewardpro-api/pkg/utils"
)

// Unlimited marks a package limit with no ceiling
const Unlimited = -1

// PackageLimits caps what a church may create under its package
type PackageLimits struct {
	MaxMembers          int `gorm:"not null;default:200" json:"max_members"`
	MaxDepartments      int `gorm:"not null;default:10" json:"max_departments"`
	MaxBudgetItems      int `gorm:"not null;default:100" json:"max_budget_items"`
	MaxReportsPerMonth  int `gorm:"not null;default:50" json:"max_reports_per_month"`
	StorageLimitGB      int `gorm:"not null;default:5" json:"storage_limit_gb"`
	APICallsPerMonth    int `gorm:"not null;default:1000" json:"api_calls_per_month"`
	ExportLimitPerMonth int `gorm:"not null;default:20" json:"export_limit_per_month"`
	DataRetentionMonths int `gorm:"not null;default:24" json:"data_retention_months"`
	SMSMonthlyQuota     int `gorm:"not null;default:0" json:"sms_monthly_quota"`
}

// Allows reports whether count more records fit under limit
func Allows(limit int, current int64) bool {
	return limit == Unlimited || current < int64(limit)
}

// FeatureFlags are the switches a package turns on
type FeatureFlags struct {
	SMS               bool `gorm:"not null" json:"enable_sms_integration"`
	MobileMoney       bool `gorm:"not null" json:"enable_mobile_money_integration"`
	AdvancedAnalytics bool `gorm:"not null" json:"enable_advanced_analytics"`
	MultiBranch       bool `gorm:"not null" json:"enable_multi_branch"`
	APIAccess         bool `gorm:"not null" json:"enable_api_access"`
	CustomReports     bool `gorm:"not null" json:"enable_custom_reports"`
	WhiteLabel        bool `gorm:"not null" json:"enable_white_label"`
	DedicatedSupport  bool `gorm:"not null" json:"dedicated_support"`
	PrioritySupport   bool `gorm:"not null" json:"priority_support"`
	OnsiteTraining    bool `gorm:"not null" json:"onsite_training"`
}

// Has reports whether the flag for f is on
func (ff FeatureFlags) Has(f enum.Feature) bool {
	switch f {
	case enum.FeatureSMS:
		return ff.SMS
	case enum.FeatureMobileMoney:
		return ff.MobileMoney
	case enum.FeatureAdvancedAnalytics:
		return ff.AdvancedAnalytics
	case enum.FeatureMultiBranch:
		return ff.MultiBranch
	case enum.FeatureAPIAccess:
		return ff.APIAccess
	case enum.FeatureCustomReports:
		return ff.CustomReports
	case enum.FeatureWhiteLabel:
		return ff.WhiteLabel
	case enum.FeatureDedicatedSupport:
		return ff.DedicatedSupport
	case enum.FeaturePrioritySupport:
		return ff.PrioritySupport
	case enum.FeatureOnsiteTraining:
		return ff.OnsiteTraining
	}
	return false
}

// and keeps only the flags both sides have on
func (ff FeatureFlags) and(o FeatureFlags) FeatureFlags {
	return FeatureFlags{
		SMS:               ff.SMS && o.SMS,
		MobileMoney:       ff.MobileMoney && o.MobileMoney,
		AdvancedAnalytics: ff.AdvancedAnalytics && o.AdvancedAnalytics,
		MultiBranch:       ff.MultiBranch && o.MultiBranch,
		APIAccess:         ff.APIAccess && o.APIAccess,
		CustomReports:     ff.CustomReports && o.CustomReports,
		WhiteLabel:        ff.WhiteLabel && o.WhiteLabel,
		DedicatedSupport:  ff.DedicatedSupport && o.DedicatedSupport,
		PrioritySupport:   ff.PrioritySupport && o.PrioritySupport,
		OnsiteTraining:    ff.OnsiteTraining && o.OnsiteTraining,
	}
}

// PackageConfig is the price list entry for one package
type PackageConfig struct {
	MonthlyCost decimal.Decimal
	AnnualCost  decimal.Decimal
	Limits      PackageLimits
	Features    FeatureFlags
}

// Packages is the price list in TZS
var Packages = map[enum.SubscriptionPackage]PackageConfig{
	enum.PackageStarter: {
		MonthlyCost: decimal.NewFromInt(3_000_000),
		AnnualCost:  decimal.NewFromInt(32_400_000),
		Limits: PackageLimits{
			MaxMembers: 200, MaxDepartments: 10, MaxBudgetItems: 100, MaxReportsPerMonth: 50,
			StorageLimitGB: 5, APICallsPerMonth: 1000, ExportLimitPerMonth: 20, DataRetentionMonths: 24,
		},
	},
	enum.PackageProfessional: {
		MonthlyCost: decimal.NewFromInt(5_500_000),
		AnnualCost:  decimal.NewFromInt(59_400_000),
		Limits: PackageLimits{
			MaxMembers: 1000, MaxDepartments: 25, MaxBudgetItems: 500, MaxReportsPerMonth: 100,
			StorageLimitGB: 15, APICallsPerMonth: 5000, ExportLimitPerMonth: 50, DataRetentionMonths: 36,
		},
		Features: FeatureFlags{AdvancedAnalytics: true, CustomReports: true, PrioritySupport: true},
	},
	enum.PackagePremium: {
		MonthlyCost: decimal.NewFromInt(8_500_000),
		AnnualCost:  decimal.NewFromInt(91_800_000),
		Limits: PackageLimits{
			MaxMembers: Unlimited, MaxDepartments: 50, MaxBudgetItems: 1000, MaxReportsPerMonth: 200,
			StorageLimitGB: 50, APICallsPerMonth: 15000, ExportLimitPerMonth: 100, DataRetentionMonths: 60,
			SMSMonthlyQuota: 500,
		},
		Features: FeatureFlags{
			SMS: true, MobileMoney: true, AdvancedAnalytics: true, MultiBranch: true, APIAccess: true,
			CustomReports: true, DedicatedSupport: true, PrioritySupport: true,
		},
	},
	enum.PackageEnterprise: {
		MonthlyCost: decimal.NewFromInt(15_000_000),
		AnnualCost:  decimal.NewFromInt(162_000_000),
		Limits: PackageLimits{
			MaxMembers: Unlimited, MaxDepartments: Unlimited, MaxBudgetItems: Unlimited, MaxReportsPerMonth: Unlimited,
			StorageLimitGB: 200, APICallsPerMonth: 50000, ExportLimitPerMonth: Unlimited, DataRetentionMonths: 120,
			SMSMonthlyQuota: 2000,
		},
		Features: FeatureFlags{
			SMS: true, MobileMoney: true, AdvancedAnalytics: true, MultiBranch: true, APIAccess: true,
			CustomReports: true, WhiteLabel: true, DedicatedSupport: true, PrioritySupport: true, OnsiteTraining: true,
		},
	},
}

// PackagesWith lists the packages that include f, cheapest first
func PackagesWith(f enum.Feature) []enum.SubscriptionPackage {
	var out []enum.SubscriptionPackage
	for _, p := range []enum.SubscriptionPackage{enum.PackageStarter, enum.PackageProfessional, enum.PackagePremium, enum.PackageEnterprise} {
		if Packages[p].Features.Has(f) {
			out = append(out, p)
		}
	}
	return out
}

// Settings is the per-church subscription and integration record
type Settings struct {
	TenantModel
	ChurchName          string                   `gorm:"size:255" json:"church_name"`
	AdminContactName    string                   `gorm:"size:255" json:"admin_contact_name,omitempty"`
	AdminContactEmail   string                   `gorm:"size:255" json:"admin_contact_email,omitempty"`
	AdminContactPhone   string                   `gorm:"size:50" json:"admin_contact_phone,omitempty"`
	BillingContactEmail string                   `gorm:"size:255" json:"billing_contact_email,omitempty"`
	NotificationEmail   string                   `gorm:"size:255" json:"notification_email,omitempty"`
	Package             enum.SubscriptionPackage `gorm:"column:subscription_package;size:20;not null;default:'Starter'" json:"subscription_package"`
	Status              enum.SubscriptionStatus  `gorm:"column:subscription_status;size:20;not null;default:'Trial'" json:"subscription_status"`
	StartDate           datatypes.Date           `gorm:"column:subscription_start_date;not null" json:"subscription_start_date"`
	EndDate             datatypes.Date           `gorm:"column:subscription_end_date;not null" json:"subscription_end_date"`
	MonthlyCost         decimal.Decimal          `gorm:"type:decimal(15,2);not null;default:0" json:"monthly_cost"`
	AnnualCost          decimal.Decimal          `gorm:"type:decimal(15,2);not null;default:0" json:"annual_cost"`

	Limits   PackageLimits `gorm:"embedded;embeddedPrefix:limit_" json:"limits"`
	Features FeatureFlags  `gorm:"embedded;embeddedPrefix:feature_" json:"features"`

	SMSAPIKey        string `gorm:"size:255" json:"-"`
	SMSAPISecret     string `gorm:"size:255" json:"-"`
	SMSSenderID      string `gorm:"size:50" json:"sms_sender_id,omitempty"`
	SMSBaseURL       string `gorm:"size:255" json:"sms_base_url,omitempty"`
	SMSUsedThisMonth int    `gorm:"not null;default:0" json:"sms_used_this_month"`

	MobileMoneyAPIKey    string `gorm:"size:255" json:"-"`
	MobileMoneyPublicKey string `gorm:"size:255" json:"-"`
	MobileMoneyBaseURL   string `gorm:"size:255" json:"mobile_money_base_url,omitempty"`
}

// TableName returns the table name for the Settings model
func (Settings) TableName() string {
	return "stewardpro_settings"
}

// DefaultSettings is a one-month Starter trial
func DefaultSettings(churchName string, today time.Time) *Settings {
	s := &Settings{
		ChurchName: churchName,
		Package:    enum.PackageStarter,
		Status:     enum.SubscriptionTrial,
		StartDate:  DateOf(today),
		EndDate:    DateOf(enum.AddMonths(today, 1)),
	}
	s.ApplyPackage()
	return s
}

// ApplyPackage resets costs, limits and flags to the package defaults
func (s *Settings) ApplyPackage() {
	cfg, ok := Packages[s.Package]
	if !ok {
		s.Package = enum.PackageStarter
		cfg = Packages[enum.PackageStarter]
	}
	s.MonthlyCost = cfg.MonthlyCost
	s.AnnualCost = cfg.AnnualCost
	s.Limits = cfg.Limits
	s.Features = cfg.Features
}

// ClampFeatures turns off flags the package does not include and every flag
// when the subscription is not usable
func (s *Settings) ClampFeatures() {
	if !s.Status.Usable() {
		s.Features = FeatureFlags{}
		return
	}
	s.Features = s.Features.and(Packages[s.Package].Features)
}

// Validate checks dates and emails, then clamps flags
func (s *Settings) Validate() error {
	if !s.Status.IsValid() {
		return apperror.NewFieldError("subscription_status", "Invalid subscription status")
	}
	if _, ok := Packages[s.Package]; !ok {
		return apperror.NewFieldError("subscription_package", "Invalid subscription package")
	}
	if !Time(s.EndDate).After(Time(s.StartDate)) {
		return apperror.NewFieldError("subscription_end_date", "Subscription end date must be after start date")
	}
	for field, email := range map[string]string{
		"notification_email":    s.NotificationEmail,
		"admin_contact_email":   s.AdminContactEmail,
		"billing_contact_email": s.BillingContactEmail,
	} {
		if email != "" && !utils.IsValidEmail(email) {
			return apperror.NewFieldError(field, "Please enter a valid email address")
		}
	}
	s.ClampFeatures()
	return nil
}

// FeatureEnabled reports whether f may be used right now
func (s *Settings) FeatureEnabled(f enum.Feature) bool {
	return s.Status.Usable() && s.Features.Has(f)
}

// CheckFeature returns a payment-required error naming the packages that
// unlock f when it is not enabled
func (s *Settings) CheckFeature(f enum.Feature) error {
	if !s.Status.Usable() {
		return apperror.ErrSubscriptionInactive
	}
	if s.Features.Has(f) {
		return nil
	}
	names := make([]string, 0, 4)
	for _, p := range PackagesWith(f) {
		names = append(names, string(p))
	}
	if len(names) == 0 {
		return apperror.NewFeatureError(fmt.Sprintf("Feature %s is not available", f))
	}
	return apperror.NewFeatureError(fmt.Sprintf(
		"Feature %s is not enabled. Available in: %s", f, strings.Join(names, ", ")))
}

// SMSBalance is what is left of this month's quota
func (s *Settings) SMSBalance() int {
	if left := s.Limits.SMSMonthlyQuota - s.SMSUsedThisMonth; left > 0 {
		return left
	}
	return 0
}

// CanSendSMS checks the feature and that n more messages fit the quota
func (s *Settings) CanSendSMS(n int) error {
	if err := s.CheckFeature(enum.FeatureSMS); err != nil {
		return err
	}
	if s.SMSBalance() < n {
		return apperror.ErrSMSQuotaExceeded
	}
	return nil
}

// SMSConfigured reports whether gateway credentials are complete
func (s *Settings) SMSConfigured() bool {
	return s.SMSAPIKey != "" && s.SMSAPISecret != "" && s.SMSSenderID != "" && s.SMSBaseURL != ""
}

// MobileMoneyConfigured reports whether gateway credentials are complete
func (s *Settings) MobileMoneyConfigured() bool {
	return s.MobileMoneyAPIKey != "" && s.MobileMoneyPublicKey != "" && s.MobileMoneyBaseURL != ""
}

// ResetMonthlyUsage zeroes the monthly counters
func (s *Settings) ResetMonthlyUsage() {
	s.SMSUsedThisMonth = 0
}

// CheckSubscription expires a subscription whose end date has passed and
// reports whether anything changed
func (s *Settings) CheckSubscription(today time.Time) bool {
	if s.Status == enum.SubscriptionExpired || s.Status == enum.SubscriptionSuspended {
		return false
	}
	if Time(s.EndDate).Before(Time(DateOf(today))) {
		s.Status = enum.SubscriptionExpired
		s.ClampFeatures()
		return true
	}
	return false
}
