package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Church is the tenant: every member, contribution and budget belongs to one
type Church struct {
	ID        uuid.UUID      `gorm:"type:uuid;primary_key" json:"id"`
	Name      string         `gorm:"size:255;not null" json:"name"`
	Slug      string         `gorm:"size:255;unique;not null" json:"slug"`
	OwnerID   uuid.UUID      `gorm:"type:uuid;not null;index" json:"owner_id"`
	Address   string         `gorm:"type:text" json:"address,omitempty"`
	Phone     string         `gorm:"size:50" json:"phone,omitempty"`
	Email     string         `gorm:"size:255" json:"email,omitempty"`
	Currency  string         `gorm:"size:10;default:'TZS'" json:"currency"`
	Timezone  string         `gorm:"size:50;default:'Africa/Dar_es_Salaam'" json:"timezone"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	Owner   User               `gorm:"foreignKey:OwnerID" json:"-"`
	Members []ChurchMembership `gorm:"foreignKey:ChurchID" json:"-"`
}

// BeforeCreate generates a UUID before creating a new church
func (c *Church) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Church model
func (Church) TableName() string {
	return "churches"
}

// MemberUser represents a subset of user fields for membership responses
type MemberUser struct {
	ID        uuid.UUID `json:"id"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Email     string    `json:"email"`
}

// Membership roles of a user within a church
const (
	ChurchUserOwner  = "owner"
	ChurchUserAdmin  = "admin"
	ChurchUserMember = "member"
)

// ChurchMembership grants a user access to a church's books
type ChurchMembership struct {
	ChurchID  uuid.UUID `gorm:"type:uuid;primaryKey" json:"church_id"`
	UserID    uuid.UUID `gorm:"type:uuid;primaryKey" json:"user_id"`
	Role      string    `gorm:"size:50;default:'member'" json:"role"`
	CreatedAt time.Time `json:"created_at"`

	// Relationships
	Church Church `gorm:"foreignKey:ChurchID" json:"-"`
	User   User   `gorm:"foreignKey:UserID" json:"-"`

	MemberUser *MemberUser `gorm:"-" json:"user,omitempty"`
}

// PopulateUserDetails populates the MemberUser field from the User relationship
func (m *ChurchMembership) PopulateUserDetails() {
	if m.User.ID != uuid.Nil {
		m.MemberUser = &MemberUser{
			ID:        m.User.ID,
			FirstName: m.User.FirstName,
			LastName:  m.User.LastName,
			Email:     m.User.Email,
		}
	}
}

// TableName returns the table name for the ChurchMembership model
func (ChurchMembership) TableName() string {
	return "church_memberships"
}
