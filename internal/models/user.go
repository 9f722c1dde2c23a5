package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Role string

const (
	RoleAdmin    Role = "Admin"
	RoleBuyer    Role = "Buyer"
	RoleSupplier Role = "Supplier"
)

func ValidRole(r Role) bool {
	return r == RoleAdmin || r == RoleBuyer || r == RoleSupplier
}

type AccountStatus string

const (
	AccountPending  AccountStatus = "Pending"
	AccountApproved AccountStatus = "Approved"
	AccountRejected AccountStatus = "Rejected"
)

// User covers all three roles. Suppliers start Pending and carry the
// company fields; Buyers are auto-approved but still need OTP verification.
type User struct {
	ID         uuid.UUID     `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Name       string        `gorm:"size:255;not null" json:"name"`
	Email      string        `gorm:"size:255;not null;uniqueIndex" json:"email"`
	Password   string        `gorm:"not null" json:"-"`
	Role       Role          `gorm:"size:20;not null" json:"role"`
	Status     AccountStatus `gorm:"size:20;not null;default:'Pending'" json:"status"`
	IsVerified bool          `gorm:"not null;default:false" json:"is_verified"`

	OTP       string     `gorm:"size:6" json:"-"`
	OTPExpiry *time.Time `json:"-"`

	ResetTokenHash   string     `gorm:"size:64;index" json:"-"`
	ResetTokenExpiry *time.Time `json:"-"`

	// Supplier onboarding details.
	CompanyName    string `gorm:"size:255" json:"company_name,omitempty"`
	BusinessType   string `gorm:"size:100" json:"business_type,omitempty"`
	CompanyCountry string `gorm:"size:100" json:"company_country,omitempty"`
	CompanyWebsite string `gorm:"size:255" json:"company_website,omitempty"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

// CanLogin is the authentication invariant: verified email and an
// approved account, regardless of role.
func (u *User) CanLogin() bool {
	return u.IsVerified && u.Status == AccountApproved
}
