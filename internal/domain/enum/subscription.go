package enum

// SubscriptionPackage is the tier a church pays for
type SubscriptionPackage string

const (
	PackageStarter      SubscriptionPackage = "Starter"
	PackageProfessional SubscriptionPackage = "Professional"
	PackagePremium      SubscriptionPackage = "Premium"
	PackageEnterprise   SubscriptionPackage = "Enterprise"
)

// SubscriptionStatus is the billing state of a church
type SubscriptionStatus string

const (
	SubscriptionTrial     SubscriptionStatus = "Trial"
	SubscriptionActive    SubscriptionStatus = "Active"
	SubscriptionExpired   SubscriptionStatus = "Expired"
	SubscriptionSuspended SubscriptionStatus = "Suspended"
)

// Usable reports whether features may be used in this state
func (s SubscriptionStatus) Usable() bool {
	return s == SubscriptionTrial || s == SubscriptionActive
}

func (s SubscriptionStatus) IsValid() bool {
	switch s {
	case SubscriptionTrial, SubscriptionActive, SubscriptionExpired, SubscriptionSuspended:
		return true
	}
	return false
}

// Feature is a capability gated by the subscription package
type Feature string

const (
	FeatureSMS               Feature = "sms"
	FeatureMobileMoney       Feature = "mobile_money"
	FeatureAdvancedAnalytics Feature = "advanced_analytics"
	FeatureMultiBranch       Feature = "multi_branch"
	FeatureAPIAccess         Feature = "api_access"
	FeatureCustomReports     Feature = "custom_reports"
	FeatureDedicatedSupport  Feature = "dedicated_support"
	FeatureWhiteLabel        Feature = "white_label"
	FeaturePrioritySupport   Feature = "priority_support"
	FeatureOnsiteTraining    Feature = "onsite_training"
)

// SMSType classifies an outbound message in the SMS log
type SMSType string

const (
	SMSTypeWelcome SMSType = "Member Registration"
	SMSTypeReceipt SMSType = "Tithe & Offering Receipt"
	SMSTypeBulk    SMSType = "Bulk Message"
	SMSTypeWeekly  SMSType = "Weekly Notification"
)
