package request

import "github.com/shopspring/decimal"

// DepartmentRequest creates or replaces a department
type DepartmentRequest struct {
	Name             string  `json:"name" binding:"required,max=255"`
	Code             string  `json:"code" binding:"omitempty,max=20"`
	ParentID         *string `json:"parent_id" binding:"omitempty,uuid"`
	HeadOfDepartment *string `json:"head_of_department" binding:"omitempty,uuid"`
	BudgetYear       int     `json:"budget_year" binding:"omitempty,min=2000,max=2100"`
	IsActive         *bool   `json:"is_active"`
	Description      string  `json:"description"`
}

// ItemRequest creates or replaces a department item
type ItemRequest struct {
	ItemName        string          `json:"item_name" binding:"required,max=255"`
	DepartmentID    string          `json:"department_id" binding:"required,uuid"`
	DefaultCategory string          `json:"default_category" binding:"omitempty"`
	UnitPrice       decimal.Decimal `json:"unit_price"`
	IsActive        *bool           `json:"is_active"`
	Description     string          `json:"description"`
}

// IncomeRequest records department income
type IncomeRequest struct {
	DepartmentID string          `json:"department_id" binding:"required,uuid"`
	IncomeType   string          `json:"income_type" binding:"required,oneof=Tithe Offering Donation 'Fund Raising' Grant Other"`
	Amount       decimal.Decimal `json:"amount"`
	Date         string          `json:"date" binding:"required,datetime=2006-01-02"`
	Source       string          `json:"source"`
	Description  string          `json:"description"`
}

// BudgetItemRequest is one planned spend line
type BudgetItemRequest struct {
	ItemID          *string         `json:"item_id" binding:"omitempty,uuid"`
	ExpenseCategory string          `json:"expense_category" binding:"required"`
	Description     string          `json:"description"`
	Quantity        decimal.Decimal `json:"quantity"`
	UnitPrice       decimal.Decimal `json:"unit_price"`
}

// BudgetRequest creates or replaces a department budget
type BudgetRequest struct {
	DepartmentID      string              `json:"department_id" binding:"required,uuid"`
	FiscalYearID      string              `json:"fiscal_year_id" binding:"required,uuid"`
	BudgetPeriod      string              `json:"budget_period" binding:"required,oneof=Annual Quarterly Monthly"`
	TotalBudgetAmount decimal.Decimal     `json:"total_budget_amount"`
	Description       string              `json:"description"`
	Notes             string              `json:"notes"`
	Items             []BudgetItemRequest `json:"items" binding:"required,min=1,dive"`
}

// ExpenseDetailRequest is one spend line
type ExpenseDetailRequest struct {
	ItemID          *string         `json:"item_id" binding:"omitempty,uuid"`
	ExpenseCategory string          `json:"expense_category" binding:"required"`
	Description     string          `json:"description"`
	Quantity        decimal.Decimal `json:"quantity"`
	UnitPrice       decimal.Decimal `json:"unit_price"`
}

// ExpenseRequest creates or replaces a department expense
type ExpenseRequest struct {
	DepartmentID    string                 `json:"department_id" binding:"required,uuid"`
	BudgetID        *string                `json:"budget_id" binding:"omitempty,uuid"`
	ExpenseDate     string                 `json:"expense_date" binding:"required,datetime=2006-01-02"`
	PaymentMode     string                 `json:"payment_mode" binding:"required,oneof=Cash Cheque 'Bank Transfer' Mpesa 'Credit Card' Other"`
	Vendor          string                 `json:"vendor"`
	InvoiceNumber   string                 `json:"invoice_number"`
	ReceiptNumber   string                 `json:"receipt_number"`
	ReferenceNumber string                 `json:"reference_number"`
	Notes           string                 `json:"notes"`
	Details         []ExpenseDetailRequest `json:"details" binding:"required,min=1,dive"`
}
