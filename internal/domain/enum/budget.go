package enum

// BudgetStatus is the workflow state of a department budget
type BudgetStatus string

const (
	BudgetStatusDraft    BudgetStatus = "Draft"
	BudgetStatusApproved BudgetStatus = "Approved"
	BudgetStatusActive   BudgetStatus = "Active"
	BudgetStatusClosed   BudgetStatus = "Closed"
)

// BudgetPeriod is the span a budget covers
type BudgetPeriod string

const (
	BudgetPeriodAnnual    BudgetPeriod = "Annual"
	BudgetPeriodQuarterly BudgetPeriod = "Quarterly"
	BudgetPeriodMonthly   BudgetPeriod = "Monthly"
)

func (p BudgetPeriod) IsValid() bool {
	switch p {
	case BudgetPeriodAnnual, BudgetPeriodQuarterly, BudgetPeriodMonthly:
		return true
	}
	return false
}

// ExpenseCategory groups spending; budget lines and expense lines are
// matched on it
type ExpenseCategory string

const (
	ExpenseCategoryEquipment   ExpenseCategory = "Equipment"
	ExpenseCategorySupplies    ExpenseCategory = "Supplies"
	ExpenseCategoryEvents      ExpenseCategory = "Events"
	ExpenseCategoryTraining    ExpenseCategory = "Training"
	ExpenseCategoryTravel      ExpenseCategory = "Travel"
	ExpenseCategoryUtilities   ExpenseCategory = "Utilities"
	ExpenseCategoryMaintenance ExpenseCategory = "Maintenance"
	ExpenseCategorySalaries    ExpenseCategory = "Salaries"
	ExpenseCategoryRent        ExpenseCategory = "Rent"
	ExpenseCategoryInsurance   ExpenseCategory = "Insurance"
	ExpenseCategoryOther       ExpenseCategory = "Other"
)

func (c ExpenseCategory) IsValid() bool {
	switch c {
	case ExpenseCategoryEquipment, ExpenseCategorySupplies, ExpenseCategoryEvents, ExpenseCategoryTraining,
		ExpenseCategoryTravel, ExpenseCategoryUtilities, ExpenseCategoryMaintenance, ExpenseCategorySalaries,
		ExpenseCategoryRent, ExpenseCategoryInsurance, ExpenseCategoryOther:
		return true
	}
	return false
}

// ExpenseStatus is the approval workflow state of an expense
type ExpenseStatus string

const (
	ExpenseStatusDraft           ExpenseStatus = "Draft"
	ExpenseStatusPendingApproval ExpenseStatus = "Pending Approval"
	ExpenseStatusApproved        ExpenseStatus = "Approved"
	ExpenseStatusPaid            ExpenseStatus = "Paid"
	ExpenseStatusRejected        ExpenseStatus = "Rejected"
)

// IncomeType classifies money a department receives
type IncomeType string

const (
	IncomeTypeTithe       IncomeType = "Tithe"
	IncomeTypeOffering    IncomeType = "Offering"
	IncomeTypeDonation    IncomeType = "Donation"
	IncomeTypeFundRaising IncomeType = "Fund Raising"
	IncomeTypeGrant       IncomeType = "Grant"
	IncomeTypeOther       IncomeType = "Other"
)

func (t IncomeType) IsValid() bool {
	switch t {
	case IncomeTypeTithe, IncomeTypeOffering, IncomeTypeDonation, IncomeTypeFundRaising, IncomeTypeGrant, IncomeTypeOther:
		return true
	}
	return false
}
