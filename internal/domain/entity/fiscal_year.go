package entity

import (
	"fmt"
	"time"

	"gorm.io/datatypes"

	"github.com/sangkips/stewardpro-api/internal/domain/enum"
	"github.com/sangkips/stewardpro-api/pkg/apperror"
)

// FiscalYear is the accounting year budgets are drawn up for
type FiscalYear struct {
	TenantModel
	Year          string         `gorm:"size:20;not null;index" json:"year"`
	YearStartDate datatypes.Date `gorm:"not null" json:"year_start_date"`
	YearEndDate   datatypes.Date `gorm:"not null" json:"year_end_date"`
	IsShortYear   bool           `gorm:"not null" json:"is_short_year"`
	Disabled      bool           `gorm:"not null" json:"disabled"`
	AutoCreated   bool           `gorm:"not null" json:"auto_created"`
}

// TableName returns the table name for the FiscalYear model
func (FiscalYear) TableName() string {
	return "fiscal_years"
}

// ExpectedEndDate is twelve months after start, minus a day
func ExpectedEndDate(start time.Time) time.Time {
	return enum.AddMonths(start, 12).AddDate(0, 0, -1)
}

// FiscalYearName is "YYYY" within one calendar year, else "YYYY-YYYY"
func FiscalYearName(start, end time.Time) string {
	if start.Year() == end.Year() {
		return fmt.Sprintf("%d", start.Year())
	}
	return fmt.Sprintf("%d-%d", start.Year(), end.Year())
}

// Start returns the first day as time.Time
func (f *FiscalYear) Start() time.Time { return Time(f.YearStartDate) }

// End returns the last day as time.Time
func (f *FiscalYear) End() time.Time { return Time(f.YearEndDate) }

// Contains reports whether the date falls inside the year, inclusive
func (f *FiscalYear) Contains(date time.Time) bool {
	d := Time(DateOf(date))
	return !d.Before(f.Start()) && !d.After(f.End())
}

// Overlaps reports whether two fiscal years share any day
func (f *FiscalYear) Overlaps(other *FiscalYear) bool {
	return !f.Start().After(other.End()) && !other.Start().After(f.End())
}

// Validate checks the date pair and fills in the name
func (f *FiscalYear) Validate() error {
	start, end := f.Start(), f.End()
	if start.IsZero() {
		return apperror.NewFieldError("year_start_date", "Year start date is required")
	}
	if end.IsZero() {
		end = ExpectedEndDate(start)
		f.YearEndDate = DateOf(end)
	}
	if !end.After(start) {
		return apperror.NewFieldError("year_end_date", "Year end date must be after year start date")
	}
	if !f.IsShortYear && !end.Equal(ExpectedEndDate(start)) {
		return apperror.NewFieldError("year_end_date", fmt.Sprintf(
			"Year end date must be %s unless this is a short year", ExpectedEndDate(start).Format("2006-01-02")))
	}
	if f.Year == "" {
		f.Year = FiscalYearName(start, end)
	}
	return nil
}

// CheckOverlap refuses a fiscal year that shares days or a name with another
func (f *FiscalYear) CheckOverlap(others []FiscalYear) error {
	for i := range others {
		o := &others[i]
		if o.ID == f.ID {
			continue
		}
		if o.Year == f.Year {
			return apperror.NewConflictError(fmt.Sprintf("Fiscal year %s already exists", f.Year))
		}
		if f.Overlaps(o) {
			return apperror.NewConflictError(fmt.Sprintf(
				"Fiscal year dates overlap with fiscal year %s (%s to %s)",
				o.Year, FormatDate(o.YearStartDate), FormatDate(o.YearEndDate)))
		}
	}
	return nil
}

// Next builds the full fiscal year starting the day after this one ends
func (f *FiscalYear) Next() *FiscalYear {
	start := f.End().AddDate(0, 0, 1)
	end := ExpectedEndDate(start)
	next := &FiscalYear{
		Year:          FiscalYearName(start, end),
		YearStartDate: DateOf(start),
		YearEndDate:   DateOf(end),
		AutoCreated:   true,
	}
	next.TenantID = f.TenantID
	return next
}

// EndsWithin reports whether the year ends no later than days from today
func (f *FiscalYear) EndsWithin(today time.Time, days int) bool {
	return !f.End().After(Time(DateOf(today)).AddDate(0, 0, days))
}
