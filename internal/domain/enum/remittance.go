package enum

import "time"

// RemittanceStatus is the workflow state of a remittance
type RemittanceStatus string

const (
	RemittanceStatusDraft           RemittanceStatus = "Draft"
	RemittanceStatusPendingApproval RemittanceStatus = "Pending Approval"
	RemittanceStatusApproved        RemittanceStatus = "Approved"
	RemittanceStatusSent            RemittanceStatus = "Sent"
	RemittanceStatusReceived        RemittanceStatus = "Received"
)

// RemittancePeriod is the collection window a remittance covers
type RemittancePeriod string

const (
	RemittancePeriodWeekly    RemittancePeriod = "Weekly"
	RemittancePeriodMonthly   RemittancePeriod = "Monthly"
	RemittancePeriodQuarterly RemittancePeriod = "Quarterly"
	RemittancePeriodAnnual    RemittancePeriod = "Annual"
)

func (p RemittancePeriod) IsValid() bool {
	switch p {
	case RemittancePeriodWeekly, RemittancePeriodMonthly, RemittancePeriodQuarterly, RemittancePeriodAnnual:
		return true
	}
	return false
}

// Range returns the inclusive window ending on date
func (p RemittancePeriod) Range(date time.Time) (from, to time.Time) {
	to = date
	switch p {
	case RemittancePeriodWeekly:
		from = date.AddDate(0, 0, -6)
	case RemittancePeriodMonthly:
		from = AddMonths(date, -1)
	case RemittancePeriodQuarterly:
		from = AddMonths(date, -3)
	case RemittancePeriodAnnual:
		from = AddMonths(date, -12)
	default:
		from = date
	}
	return from, to
}

// OrganizationType is the level of the receiving body
type OrganizationType string

const (
	OrganizationConference        OrganizationType = "Conference"
	OrganizationUnion             OrganizationType = "Union"
	OrganizationDivision          OrganizationType = "Division"
	OrganizationGeneralConference OrganizationType = "General Conference"
	OrganizationOther             OrganizationType = "Other"
)

func (o OrganizationType) IsValid() bool {
	switch o {
	case OrganizationConference, OrganizationUnion, OrganizationDivision, OrganizationGeneralConference, OrganizationOther:
		return true
	}
	return false
}

// RemittanceItemType labels a derived remittance line
type RemittanceItemType string

const (
	RemittanceItemTithe           RemittanceItemType = "Tithe"
	RemittanceItemOfferingToField RemittanceItemType = "Offering to Field"
	RemittanceItemSpecialOffering RemittanceItemType = "Special Offering"
	RemittanceItemOther           RemittanceItemType = "Other"
)

// AddMonths shifts t by n months, clamping to the last day of the target
// month so that 31 March minus one month is 29 February, not 2 March.
func AddMonths(t time.Time, n int) time.Time {
	first := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location()).AddDate(0, n, 0)
	last := first.AddDate(0, 1, -1).Day()
	day := t.Day()
	if day > last {
		day = last
	}
	return time.Date(first.Year(), first.Month(), day, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
}
