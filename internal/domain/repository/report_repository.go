package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DepartmentBalanceRow is one department's income against its expenses
type DepartmentBalanceRow struct {
	DepartmentID   uuid.UUID
	DepartmentName string
	DepartmentCode string
	Income         decimal.Decimal
	Expenses       decimal.Decimal
}

// MonthlyRemittanceRow compares what a month owes the field with what was sent
type MonthlyRemittanceRow struct {
	Month    time.Time
	Tithe    decimal.Decimal
	ToField  decimal.Decimal
	Special  decimal.Decimal
	Remitted decimal.Decimal
}

// ReportRepository defines aggregation queries behind the reports
type ReportRepository interface {
	// DepartmentBalances sums submitted income and expenses per department in [from, to]
	DepartmentBalances(ctx context.Context, from, to time.Time) ([]DepartmentBalanceRow, error)

	// MonthlyRemittances groups contributions and remittances by month in [from, to]
	MonthlyRemittances(ctx context.Context, from, to time.Time) ([]MonthlyRemittanceRow, error)
}
