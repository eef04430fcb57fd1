package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/stewardpro-api/internal/domain/entity"
	"github.com/sangkips/stewardpro-api/internal/domain/repository"
	"github.com/sangkips/stewardpro-api/pkg/apperror"
	"github.com/sangkips/stewardpro-api/pkg/export"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// ReportService builds the financial reports and their XLSX exports
type ReportService struct {
	reportRepo       repository.ReportRepository
	contributionRepo repository.ContributionRepository
	expenseRepo      repository.ExpenseRepository
	budgetRepo       repository.BudgetRepository
	fiscalYearRepo   repository.FiscalYearRepository
}

// NewReportService creates a new report service
func NewReportService(
	reportRepo repository.ReportRepository,
	contributionRepo repository.ContributionRepository,
	expenseRepo repository.ExpenseRepository,
	budgetRepo repository.BudgetRepository,
	fiscalYearRepo repository.FiscalYearRepository,
) *ReportService {
	return &ReportService{
		reportRepo:       reportRepo,
		contributionRepo: contributionRepo,
		expenseRepo:      expenseRepo,
		budgetRepo:       budgetRepo,
		fiscalYearRepo:   fiscalYearRepo,
	}
}

// percentChange is (current - previous) / previous in percent, zero when
// there is nothing to compare against
func percentChange(current, previous decimal.Decimal) decimal.Decimal {
	if previous.IsZero() {
		return decimal.Zero
	}
	return current.Sub(previous).Div(previous).Mul(hundred).Round(2)
}

func percentOf(part, whole decimal.Decimal) decimal.Decimal {
	if !whole.IsPositive() {
		return decimal.Zero
	}
	return part.Div(whole).Mul(hundred).Round(2)
}

func money(d decimal.Decimal) float64 {
	return d.Round(2).InexactFloat64()
}

// SummaryRow is one category of the financial summary
type SummaryRow struct {
	Category      string          `json:"category"`
	CurrentMonth  decimal.Decimal `json:"current_month"`
	PreviousMonth decimal.Decimal `json:"previous_month"`
	YearToDate    decimal.Decimal `json:"year_to_date"`
	PreviousYear  decimal.Decimal `json:"previous_year"`
	MonthChange   decimal.Decimal `json:"month_change"`
	YearChange    decimal.Decimal `json:"year_change"`
}

// FinancialSummary compares income and spending across four periods
type FinancialSummary struct {
	AsOf time.Time    `json:"as_of"`
	Rows []SummaryRow `json:"rows"`
}

type summaryPeriods struct {
	curFrom, curTo, prevFrom, prevTo, ytdFrom, ytdTo, lyFrom, lyTo time.Time
}

func periodsFor(day time.Time) summaryPeriods {
	monthStart := time.Date(day.Year(), day.Month(), 1, 0, 0, 0, 0, time.UTC)
	return summaryPeriods{
		curFrom:  monthStart,
		curTo:    monthStart.AddDate(0, 1, -1),
		prevFrom: monthStart.AddDate(0, -1, 0),
		prevTo:   monthStart.AddDate(0, 0, -1),
		ytdFrom:  time.Date(day.Year(), 1, 1, 0, 0, 0, 0, time.UTC),
		ytdTo:    day,
		lyFrom:   time.Date(day.Year()-1, 1, 1, 0, 0, 0, 0, time.UTC),
		lyTo:     time.Date(day.Year()-1, 12, 31, 0, 0, 0, 0, time.UTC),
	}
}

func summaryRow(category string, cur, prev, ytd, ly decimal.Decimal) SummaryRow {
	return SummaryRow{
		Category:      category,
		CurrentMonth:  cur,
		PreviousMonth: prev,
		YearToDate:    ytd,
		PreviousYear:  ly,
		MonthChange:   percentChange(cur, prev),
		YearChange:    percentChange(ytd, ly),
	}
}

// FinancialSummary reports tithes, offerings, special offerings and
// expenses for the current and previous month, year to date and the
// previous year
func (s *ReportService) FinancialSummary(ctx context.Context) (*FinancialSummary, error) {
	day := today()
	p := periodsFor(day)

	ranges := [4][2]time.Time{{p.curFrom, p.curTo}, {p.prevFrom, p.prevTo}, {p.ytdFrom, p.ytdTo}, {p.lyFrom, p.lyTo}}
	var income [4]*repository.ContributionTotals
	var spent [4]decimal.Decimal
	for i, r := range ranges {
		totals, err := s.contributionRepo.SumSubmitted(ctx, r[0], r[1])
		if err != nil {
			return nil, err
		}
		income[i] = totals

		exp, err := s.expenseRepo.SumSubmitted(ctx, nil, r[0], r[1])
		if err != nil {
			return nil, err
		}
		spent[i] = exp
	}

	pick := func(f func(*repository.ContributionTotals) decimal.Decimal) [4]decimal.Decimal {
		var out [4]decimal.Decimal
		for i := range income {
			out[i] = f(income[i])
		}
		return out
	}
	tithe := pick(func(t *repository.ContributionTotals) decimal.Decimal { return t.Tithe })
	offering := pick(func(t *repository.ContributionTotals) decimal.Decimal { return t.Offering })
	special := pick(func(t *repository.ContributionTotals) decimal.Decimal { return t.Special() })
	total := pick(func(t *repository.ContributionTotals) decimal.Decimal { return t.Total })

	var net [4]decimal.Decimal
	for i := range net {
		net[i] = total[i].Sub(spent[i])
	}

	row := func(name string, v [4]decimal.Decimal) SummaryRow {
		return summaryRow(name, v[0], v[1], v[2], v[3])
	}
	return &FinancialSummary{
		AsOf: day,
		Rows: []SummaryRow{
			row("Tithes", tithe),
			row("Offerings", offering),
			row("Special Offerings", special),
			row("Total Income", total),
			row("Department Expenses", spent),
			row("Net", net),
		},
	}, nil
}

// Table renders the summary for export
func (r *FinancialSummary) Table() export.Table {
	t := export.Table{
		Sheet:   "Financial Summary",
		Title:   "Financial Summary as of " + r.AsOf.Format("02/01/2006"),
		Headers: []string{"Category", "Current Month", "Previous Month", "Year to Date", "Previous Year", "% Change (Month)", "% Change (Year)"},
	}
	for _, row := range r.Rows {
		t.Rows = append(t.Rows, []any{
			row.Category, money(row.CurrentMonth), money(row.PreviousMonth), money(row.YearToDate),
			money(row.PreviousYear), money(row.MonthChange), money(row.YearChange),
		})
	}
	return t
}

// BudgetReportRow is one submitted budget against its spending
type BudgetReportRow struct {
	BudgetName         string          `json:"budget_name"`
	DepartmentName     string          `json:"department_name"`
	DepartmentCode     string          `json:"department_code"`
	FiscalYear         string          `json:"fiscal_year"`
	AllocatedAmount    decimal.Decimal `json:"allocated_amount"`
	ActualExpenses     decimal.Decimal `json:"actual_expenses"`
	Balance            decimal.Decimal `json:"balance"`
	UtilizationPercent decimal.Decimal `json:"utilization_percentage"`
	Status             string          `json:"status"`
}

// DepartmentalBudgetReport lists budgets with totals
type DepartmentalBudgetReport struct {
	Rows           []BudgetReportRow `json:"rows"`
	TotalAllocated decimal.Decimal   `json:"total_allocated"`
	TotalActual    decimal.Decimal   `json:"total_actual"`
	TotalBalance   decimal.Decimal   `json:"total_balance"`
}

// budgetHealth labels utilization for the budget report
func budgetHealth(pct decimal.Decimal) string {
	switch {
	case pct.GreaterThan(hundred):
		return "Over Budget"
	case pct.GreaterThan(decimal.NewFromInt(90)):
		return "Near Limit"
	case pct.GreaterThan(decimal.NewFromInt(50)):
		return "On Track"
	default:
		return "Under Utilized"
	}
}

// DepartmentalBudget reports submitted budgets, optionally for one fiscal
// year or department
func (s *ReportService) DepartmentalBudget(ctx context.Context, fiscalYearID, departmentID *uuid.UUID) (*DepartmentalBudgetReport, error) {
	budgets, err := s.budgetRepo.ListSubmitted(ctx, fiscalYearID, departmentID)
	if err != nil {
		return nil, err
	}

	report := &DepartmentalBudgetReport{Rows: make([]BudgetReportRow, 0, len(budgets))}
	for i := range budgets {
		b := &budgets[i]
		row := BudgetReportRow{
			BudgetName:         b.Name,
			AllocatedAmount:    b.TotalBudgetAmount,
			ActualExpenses:     b.SpentAmount,
			Balance:            b.TotalBudgetAmount.Sub(b.SpentAmount),
			UtilizationPercent: percentOf(b.SpentAmount, b.TotalBudgetAmount),
		}
		row.Status = budgetHealth(row.UtilizationPercent)
		if b.Department != nil {
			row.DepartmentName = b.Department.Name
			row.DepartmentCode = b.Department.Code
		}
		if b.FiscalYear != nil {
			row.FiscalYear = b.FiscalYear.Year
		}
		report.Rows = append(report.Rows, row)
		report.TotalAllocated = report.TotalAllocated.Add(row.AllocatedAmount)
		report.TotalActual = report.TotalActual.Add(row.ActualExpenses)
	}
	report.TotalBalance = report.TotalAllocated.Sub(report.TotalActual)
	return report, nil
}

// Table renders the budget report for export
func (r *DepartmentalBudgetReport) Table() export.Table {
	t := export.Table{
		Sheet:   "Departmental Budget",
		Title:   "Departmental Budget Report",
		Headers: []string{"Budget", "Department", "Code", "Fiscal Year", "Allocated", "Actual Expenses", "Balance", "Utilization %", "Status"},
		Totals:  []any{"Total", "", "", "", money(r.TotalAllocated), money(r.TotalActual), money(r.TotalBalance)},
	}
	for _, row := range r.Rows {
		t.Rows = append(t.Rows, []any{
			row.BudgetName, row.DepartmentName, row.DepartmentCode, row.FiscalYear,
			money(row.AllocatedAmount), money(row.ActualExpenses), money(row.Balance),
			money(row.UtilizationPercent), row.Status,
		})
	}
	return t
}

// BalanceReportRow is one department's income against expenses
type BalanceReportRow struct {
	DepartmentID   uuid.UUID       `json:"department_id"`
	DepartmentName string          `json:"department_name"`
	DepartmentCode string          `json:"department_code"`
	Income         decimal.Decimal `json:"income"`
	Expenses       decimal.Decimal `json:"expenses"`
	Balance        decimal.Decimal `json:"balance"`
}

// DepartmentBalanceReport lists every department's balance over a range
type DepartmentBalanceReport struct {
	From          time.Time          `json:"from"`
	To            time.Time          `json:"to"`
	Rows          []BalanceReportRow `json:"rows"`
	TotalIncome   decimal.Decimal    `json:"total_income"`
	TotalExpenses decimal.Decimal    `json:"total_expenses"`
	TotalBalance  decimal.Decimal    `json:"total_balance"`
}

// DepartmentBalances reports submitted income and expenses per department
// in [from, to]
func (s *ReportService) DepartmentBalances(ctx context.Context, from, to time.Time) (*DepartmentBalanceReport, error) {
	if to.Before(from) {
		return nil, apperror.NewBadRequestError("End date must not be before start date")
	}
	rows, err := s.reportRepo.DepartmentBalances(ctx, from, to)
	if err != nil {
		return nil, err
	}

	report := &DepartmentBalanceReport{From: from, To: to, Rows: make([]BalanceReportRow, 0, len(rows))}
	for _, r := range rows {
		report.Rows = append(report.Rows, BalanceReportRow{
			DepartmentID:   r.DepartmentID,
			DepartmentName: r.DepartmentName,
			DepartmentCode: r.DepartmentCode,
			Income:         r.Income,
			Expenses:       r.Expenses,
			Balance:        r.Income.Sub(r.Expenses),
		})
		report.TotalIncome = report.TotalIncome.Add(r.Income)
		report.TotalExpenses = report.TotalExpenses.Add(r.Expenses)
	}
	report.TotalBalance = report.TotalIncome.Sub(report.TotalExpenses)
	return report, nil
}

// Table renders the balance report for export
func (r *DepartmentBalanceReport) Table() export.Table {
	t := export.Table{
		Sheet:   "Department Balance",
		Title:   "Department Balance " + r.From.Format("02/01/2006") + " to " + r.To.Format("02/01/2006"),
		Headers: []string{"Department", "Code", "Income", "Expenses", "Balance"},
		Totals:  []any{"Total", "", money(r.TotalIncome), money(r.TotalExpenses), money(r.TotalBalance)},
	}
	for _, row := range r.Rows {
		t.Rows = append(t.Rows, []any{row.DepartmentName, row.DepartmentCode, money(row.Income), money(row.Expenses), money(row.Balance)})
	}
	return t
}

// PendingRemittanceRow is one month of money owed to the field
type PendingRemittanceRow struct {
	Month           string          `json:"month"`
	Tithe           decimal.Decimal `json:"tithe"`
	OfferingToField decimal.Decimal `json:"offering_to_field"`
	Special         decimal.Decimal `json:"special_offerings"`
	TotalToRemit    decimal.Decimal `json:"total_to_remit"`
	Remitted        decimal.Decimal `json:"remitted"`
	Pending         decimal.Decimal `json:"pending"`
	PendingPercent  decimal.Decimal `json:"pending_percentage"`
}

// PendingRemittanceReport compares what each month owes with what was sent
type PendingRemittanceReport struct {
	Rows          []PendingRemittanceRow `json:"rows"`
	TotalToRemit  decimal.Decimal        `json:"total_to_remit"`
	TotalRemitted decimal.Decimal        `json:"total_remitted"`
	TotalPending  decimal.Decimal        `json:"total_pending"`
}

// PendingRemittance reports per month the tithe, offering to field and
// special offerings due against submitted remittances
func (s *ReportService) PendingRemittance(ctx context.Context, from, to time.Time) (*PendingRemittanceReport, error) {
	if to.Before(from) {
		return nil, apperror.NewBadRequestError("End date must not be before start date")
	}
	months, err := s.reportRepo.MonthlyRemittances(ctx, from, to)
	if err != nil {
		return nil, err
	}

	report := &PendingRemittanceReport{Rows: make([]PendingRemittanceRow, 0, len(months))}
	for _, m := range months {
		due := m.Tithe.Add(m.ToField).Add(m.Special)
		row := PendingRemittanceRow{
			Month:           m.Month.Format("January 2006"),
			Tithe:           m.Tithe,
			OfferingToField: m.ToField,
			Special:         m.Special,
			TotalToRemit:    due,
			Remitted:        m.Remitted,
			Pending:         due.Sub(m.Remitted),
		}
		row.PendingPercent = percentOf(row.Pending, due)
		report.Rows = append(report.Rows, row)
		report.TotalToRemit = report.TotalToRemit.Add(due)
		report.TotalRemitted = report.TotalRemitted.Add(m.Remitted)
	}
	report.TotalPending = report.TotalToRemit.Sub(report.TotalRemitted)
	return report, nil
}

// Table renders the pending remittance report for export
func (r *PendingRemittanceReport) Table() export.Table {
	t := export.Table{
		Sheet:   "Pending Remittance",
		Title:   "Pending Remittance Report",
		Headers: []string{"Month", "Tithe", "Offering to Field", "Special Offerings", "Total to Remit", "Remitted", "Pending", "Pending %"},
		Totals:  []any{"Total", "", "", "", money(r.TotalToRemit), money(r.TotalRemitted), money(r.TotalPending)},
	}
	for _, row := range r.Rows {
		t.Rows = append(t.Rows, []any{
			row.Month, money(row.Tithe), money(row.OfferingToField), money(row.Special),
			money(row.TotalToRemit), money(row.Remitted), money(row.Pending), money(row.PendingPercent),
		})
	}
	return t
}

// TithesReport lists submitted receipts in a date range with column totals
type TithesReport struct {
	From   time.Time             `json:"from"`
	To     time.Time             `json:"to"`
	Rows   []entity.Contribution `json:"rows"`
	Totals TithesReportTotals    `json:"totals"`
}

// TithesReportTotals are the column sums of the report rows
type TithesReportTotals struct {
	Tithe            decimal.Decimal `json:"tithe_amount"`
	Offering         decimal.Decimal `json:"offering_amount"`
	OfferingToField  decimal.Decimal `json:"offering_to_field"`
	OfferingToChurch decimal.Decimal `json:"offering_to_church"`
	Campmeeting      decimal.Decimal `json:"campmeeting_offering"`
	ChurchBuilding   decimal.Decimal `json:"church_building_offering"`
	Total            decimal.Decimal `json:"total_amount"`
}

// TithesAndOfferings lists submitted receipts in [from, to], optionally
// for one member
func (s *ReportService) TithesAndOfferings(ctx context.Context, from, to time.Time, memberID *uuid.UUID) (*TithesReport, error) {
	if to.Before(from) {
		return nil, apperror.NewBadRequestError("End date must not be before start date")
	}
	rows, err := s.contributionRepo.ListSubmitted(ctx, from, to, memberID)
	if err != nil {
		return nil, err
	}
	if rows == nil {
		rows = []entity.Contribution{}
	}

	report := &TithesReport{From: from, To: to, Rows: rows}
	tt := &report.Totals
	for i := range rows {
		c := &rows[i]
		tt.Tithe = tt.Tithe.Add(c.TitheAmount)
		tt.Offering = tt.Offering.Add(c.OfferingAmount)
		tt.OfferingToField = tt.OfferingToField.Add(c.OfferingToField)
		tt.OfferingToChurch = tt.OfferingToChurch.Add(c.OfferingToChurch)
		tt.Campmeeting = tt.Campmeeting.Add(c.CampmeetingOffering)
		tt.ChurchBuilding = tt.ChurchBuilding.Add(c.ChurchBuildingOffering)
		tt.Total = tt.Total.Add(c.TotalAmount)
	}
	return report, nil
}

// Table renders the tithes report for export
func (r *TithesReport) Table() export.Table {
	tt := r.Totals
	t := export.Table{
		Sheet: "Tithes and Offerings",
		Title: "Tithes and Offerings " + r.From.Format("02/01/2006") + " to " + r.To.Format("02/01/2006"),
		Headers: []string{"Date", "Receipt", "Member", "Tithe", "Offering", "To Field", "To Church",
			"Campmeeting", "Church Building", "Total", "Payment Mode"},
		Totals: []any{"Total", "", "", money(tt.Tithe), money(tt.Offering), money(tt.OfferingToField),
			money(tt.OfferingToChurch), money(tt.Campmeeting), money(tt.ChurchBuilding), money(tt.Total)},
	}
	for i := range r.Rows {
		c := &r.Rows[i]
		member := "Anonymous"
		if c.Member != nil {
			member = c.Member.FullName()
		}
		t.Rows = append(t.Rows, []any{
			entity.FormatDate(c.Date), c.ReceiptNumber, member,
			money(c.TitheAmount), money(c.OfferingAmount), money(c.OfferingToField), money(c.OfferingToChurch),
			money(c.CampmeetingOffering), money(c.ChurchBuildingOffering), money(c.TotalAmount), string(c.PaymentMode),
		})
	}
	return t
}

// Exportable is a report that renders to a worksheet
type Exportable interface {
	Table() export.Table
}

// ExportXLSX renders a report as an XLSX workbook
func (s *ReportService) ExportXLSX(report Exportable) ([]byte, error) {
	return export.XLSX(report.Table())
}

// FiscalYearRange returns a fiscal year's dates for date-bounded reports
func (s *ReportService) FiscalYearRange(ctx context.Context, id uuid.UUID) (time.Time, time.Time, error) {
	fy, err := s.fiscalYearRepo.GetByID(ctx, id)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	if fy == nil {
		return time.Time{}, time.Time{}, apperror.NewNotFoundError("Fiscal year")
	}
	return fy.Start(), fy.End(), nil
}
