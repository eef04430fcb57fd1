package repository

import (
	"context"
	"sort"
	"time"

	"github.com/sangkips/stewardpro-api/internal/domain/entity"
	"github.com/sangkips/stewardpro-api/internal/domain/enum"
	domainRepo "github.com/sangkips/stewardpro-api/internal/domain/repository"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type reportRepository struct {
	db *gorm.DB
}

// NewReportRepository creates a new report repository
func NewReportRepository(db *gorm.DB) domainRepo.ReportRepository {
	return &reportRepository{db: db}
}

func (r *reportRepository) DepartmentBalances(ctx context.Context, from, to time.Time) ([]domainRepo.DepartmentBalanceRow, error) {
	var rows []domainRepo.DepartmentBalanceRow
	start, end := entity.DateOf(from), entity.DateOf(to)

	err := r.db.WithContext(ctx).Model(&entity.Department{}).Scopes(TenantScope(ctx)).
		Select(`departments.id AS department_id,
			departments.name AS department_name,
			departments.code AS department_code,
			COALESCE((SELECT SUM(i.amount) FROM department_incomes i
				WHERE i.department_id = departments.id AND i.doc_status = ? AND i.deleted_at IS NULL
				AND i.date BETWEEN ? AND ?), 0) AS income,
			COALESCE((SELECT SUM(e.total_amount) FROM department_expenses e
				WHERE e.department_id = departments.id AND e.doc_status = ? AND e.deleted_at IS NULL
				AND e.expense_date BETWEEN ? AND ?), 0) AS expenses`,
			enum.DocStatusSubmitted, start, end,
			enum.DocStatusSubmitted, start, end).
		Order("departments.name ASC").
		Scan(&rows).Error
	return rows, err
}

type monthSum struct {
	Month   time.Time
	Tithe   decimal.Decimal
	ToField decimal.Decimal
	Special decimal.Decimal
	Total   decimal.Decimal
}

func (r *reportRepository) MonthlyRemittances(ctx context.Context, from, to time.Time) ([]domainRepo.MonthlyRemittanceRow, error) {
	start, end := entity.DateOf(from), entity.DateOf(to)

	var owed []monthSum
	err := r.db.WithContext(ctx).Model(&entity.Contribution{}).Scopes(TenantScope(ctx)).
		Select(`date_trunc('month', date) AS month,
			COALESCE(SUM(tithe_amount), 0) AS tithe,
			COALESCE(SUM(offering_to_field), 0) AS to_field,
			COALESCE(SUM(campmeeting_offering + church_building_offering), 0) AS special`).
		Where("doc_status = ? AND date BETWEEN ? AND ?", enum.DocStatusSubmitted, start, end).
		Group("month").
		Scan(&owed).Error
	if err != nil {
		return nil, err
	}

	var sent []monthSum
	err = r.db.WithContext(ctx).Model(&entity.Remittance{}).Scopes(TenantScope(ctx)).
		Select(`date_trunc('month', remittance_date) AS month,
			COALESCE(SUM(total_remittance_amount), 0) AS total`).
		Where("doc_status = ? AND remittance_date BETWEEN ? AND ?", enum.DocStatusSubmitted, start, end).
		Group("month").
		Scan(&sent).Error
	if err != nil {
		return nil, err
	}

	byMonth := make(map[time.Time]*domainRepo.MonthlyRemittanceRow)
	row := func(m time.Time) *domainRepo.MonthlyRemittanceRow {
		m = time.Date(m.Year(), m.Month(), 1, 0, 0, 0, 0, time.UTC)
		if existing, ok := byMonth[m]; ok {
			return existing
		}
		created := &domainRepo.MonthlyRemittanceRow{Month: m}
		byMonth[m] = created
		return created
	}

	for _, o := range owed {
		rr := row(o.Month)
		rr.Tithe = o.Tithe
		rr.ToField = o.ToField
		rr.Special = o.Special
	}
	for _, s := range sent {
		row(s.Month).Remitted = s.Total
	}

	out := make([]domainRepo.MonthlyRemittanceRow, 0, len(byMonth))
	for _, rr := range byMonth {
		out = append(out, *rr)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Month.Before(out[j].Month) })
	return out, nil
}
