package entity

import (
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/sangkips/stewardpro-api/internal/domain/enum"
	"github.com/sangkips/stewardpro-api/pkg/apperror"
)

// Department is a ministry of the church that holds budgets and records
// income and expenses
type Department struct {
	TenantModel
	Name             string     `gorm:"size:255;not null" json:"department_name"`
	Code             string     `gorm:"size:50;not null;index" json:"department_code"`
	ParentID         *uuid.UUID `gorm:"type:uuid;index" json:"parent_department_id,omitempty"`
	HeadOfDepartment *uuid.UUID `gorm:"type:uuid" json:"head_of_department,omitempty"`
	BudgetYear       int        `gorm:"not null" json:"budget_year"`
	IsActive         bool       `gorm:"not null" json:"is_active"`
	Description      string     `gorm:"type:text" json:"description,omitempty"`

	// Relationships
	Parent   *Department  `gorm:"foreignKey:ParentID" json:"parent,omitempty"`
	Head     *Member      `gorm:"foreignKey:HeadOfDepartment" json:"head,omitempty"`
	Children []Department `gorm:"-" json:"children,omitempty"`
}

// TableName returns the table name for the Department model
func (Department) TableName() string {
	return "departments"
}

// Normalize trims the name and upper-cases the code
func (d *Department) Normalize() {
	d.Name = strings.TrimSpace(d.Name)
	d.Code = strings.ToUpper(strings.TrimSpace(d.Code))
}

// Validate checks the department's own fields; cycles need the stored tree
func (d *Department) Validate(currentYear int) error {
	d.Normalize()

	var errs []apperror.FieldError
	if d.Name == "" {
		errs = append(errs, apperror.FieldError{Field: "department_name", Message: "Department name is required"})
	}
	if d.Code == "" {
		errs = append(errs, apperror.FieldError{Field: "department_code", Message: "Department code is required"})
	}
	if d.ParentID != nil && *d.ParentID == d.ID {
		errs = append(errs, apperror.FieldError{Field: "parent_department_id", Message: "Department cannot be its own parent"})
	}
	if d.BudgetYear == 0 {
		d.BudgetYear = currentYear
	}
	if len(errs) > 0 {
		return apperror.NewValidationError(errs)
	}
	return nil
}

// BuildTree nests departments under their parents and returns the roots
func BuildTree(depts []Department) []Department {
	children := make(map[uuid.UUID][]Department)
	var roots []Department
	for _, d := range depts {
		if d.ParentID == nil {
			roots = append(roots, d)
			continue
		}
		children[*d.ParentID] = append(children[*d.ParentID], d)
	}

	var attach func(d *Department, depth int)
	attach = func(d *Department, depth int) {
		if depth > len(depts) {
			return
		}
		d.Children = children[d.ID]
		for i := range d.Children {
			attach(&d.Children[i], depth+1)
		}
	}
	for i := range roots {
		attach(&roots[i], 0)
	}
	return roots
}

// HierarchyPath renders ancestors root first, e.g. "Youth > Choir"
func HierarchyPath(chain []Department) string {
	names := make([]string, 0, len(chain))
	for i := len(chain) - 1; i >= 0; i-- {
		names = append(names, chain[i].Name)
	}
	return strings.Join(names, " > ")
}

// Item is a catalogued thing a department budgets for and buys
type Item struct {
	TenantModel
	ItemName        string               `gorm:"size:255;not null" json:"item_name"`
	DepartmentID    uuid.UUID            `gorm:"type:uuid;not null;index" json:"department_id"`
	DefaultCategory enum.ExpenseCategory `gorm:"size:30" json:"default_category,omitempty"`
	UnitPrice       decimal.Decimal      `gorm:"type:decimal(15,2);not null;default:0" json:"unit_price"`
	IsActive        bool                 `gorm:"not null" json:"is_active"`
	Description     string               `gorm:"type:text" json:"description,omitempty"`

	// Relationships
	Department *Department `gorm:"foreignKey:DepartmentID" json:"department,omitempty"`
}

// TableName returns the table name for the Item model
func (Item) TableName() string {
	return "items"
}

// Validate checks the item fields
func (i *Item) Validate() error {
	i.ItemName = strings.TrimSpace(i.ItemName)
	if i.ItemName == "" {
		return apperror.NewFieldError("item_name", "Item name is required")
	}
	if i.DepartmentID == uuid.Nil {
		return apperror.NewFieldError("department_id", "Department is required")
	}
	if i.DefaultCategory != "" && !i.DefaultCategory.IsValid() {
		return apperror.NewFieldError("default_category", "Invalid expense category")
	}
	if i.UnitPrice.IsNegative() {
		return apperror.NewFieldError("unit_price", "Unit price cannot be negative")
	}
	i.UnitPrice = Round(i.UnitPrice)
	return nil
}
