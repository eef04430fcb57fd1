package entity

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/sangkips/stewardpro-api/internal/domain/enum"
	"github.com/sangkips/stewardpro-api/pkg/apperror"
	"github.com/sangkips/stewardpro-api/pkg/utils"
)

// Member is a person on the church roll
type Member struct {
	TenantModel
	MemberID    string            `gorm:"size:50;not null;index" json:"member_id"`
	FirstName   string            `gorm:"size:255;not null" json:"first_name"`
	LastName    string            `gorm:"size:255;not null" json:"last_name"`
	Gender      enum.Gender       `gorm:"size:20" json:"gender,omitempty"`
	Email       string            `gorm:"size:255" json:"email,omitempty"`
	Contact     string            `gorm:"size:50" json:"contact,omitempty"`
	DateOfBirth *datatypes.Date   `json:"date_of_birth,omitempty"`
	BaptismDate *datatypes.Date   `json:"baptism_date,omitempty"`
	JoinDate    *datatypes.Date   `json:"join_date,omitempty"`
	Status      enum.MemberStatus `gorm:"size:20;not null;default:'Active';index" json:"status"`
	ChurchRole  enum.ChurchRole   `gorm:"size:30;not null;default:'Member'" json:"church_role"`
	Address     string            `gorm:"type:text" json:"address,omitempty"`
	Notes       string            `gorm:"type:text" json:"notes,omitempty"`
	CreatedBy   *uuid.UUID        `gorm:"type:uuid" json:"created_by,omitempty"`
}

// TableName returns the table name for the Member model
func (Member) TableName() string {
	return "members"
}

// FullName joins first and last name
func (m *Member) FullName() string {
	return strings.TrimSpace(m.FirstName + " " + m.LastName)
}

// Age in whole years on the given day, nil without a birth date
func (m *Member) Age(on time.Time) *int {
	if m.DateOfBirth == nil {
		return nil
	}
	dob := Time(*m.DateOfBirth)
	age := on.Year() - dob.Year()
	if on.Month() < dob.Month() || (on.Month() == dob.Month() && on.Day() < dob.Day()) {
		age--
	}
	return &age
}

// Validate checks field formats and date ordering
func (m *Member) Validate(today time.Time) error {
	var errs []apperror.FieldError

	m.MemberID = strings.TrimSpace(m.MemberID)
	if m.MemberID == "" {
		errs = append(errs, apperror.FieldError{Field: "member_id", Message: "Member ID is required"})
	}
	if strings.TrimSpace(m.FirstName) == "" {
		errs = append(errs, apperror.FieldError{Field: "first_name", Message: "First name is required"})
	}
	if strings.TrimSpace(m.LastName) == "" {
		errs = append(errs, apperror.FieldError{Field: "last_name", Message: "Last name is required"})
	}
	if m.Email != "" && !utils.IsValidEmail(m.Email) {
		errs = append(errs, apperror.FieldError{Field: "email", Message: "Invalid email format"})
	}
	if m.Status == "" {
		m.Status = enum.MemberStatusActive
	}
	if !m.Status.IsValid() {
		errs = append(errs, apperror.FieldError{Field: "status", Message: "Invalid member status"})
	}
	if m.ChurchRole == "" {
		m.ChurchRole = enum.ChurchRoleMember
	}
	if !m.ChurchRole.IsValid() {
		errs = append(errs, apperror.FieldError{Field: "church_role", Message: "Invalid church role"})
	}

	day := Time(DateOf(today))
	for field, d := range map[string]*datatypes.Date{
		"date_of_birth": m.DateOfBirth,
		"baptism_date":  m.BaptismDate,
		"join_date":     m.JoinDate,
	} {
		if d != nil && Time(*d).After(day) {
			errs = append(errs, apperror.FieldError{Field: field, Message: "Date cannot be in the future"})
		}
	}
	if m.DateOfBirth != nil && m.BaptismDate != nil && Time(*m.BaptismDate).Before(Time(*m.DateOfBirth)) {
		errs = append(errs, apperror.FieldError{Field: "baptism_date", Message: "Baptism date cannot be before date of birth"})
	}

	if len(errs) > 0 {
		return apperror.NewValidationError(errs)
	}
	return nil
}
