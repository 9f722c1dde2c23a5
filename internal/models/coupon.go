package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type DiscountType string

const (
	DiscountPercentage DiscountType = "Percentage"
	DiscountFlat       DiscountType = "Flat"
)

func ValidDiscountType(t DiscountType) bool {
	return t == DiscountPercentage || t == DiscountFlat
}

// Coupon is redeemable only while it is active, not expired, under its
// usage limit, and the purchase total meets the minimum. TimesUsed only
// moves forward, and only on successful payment verification.
type Coupon struct {
	ID                uuid.UUID    `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Code              string       `gorm:"size:50;not null;uniqueIndex" json:"code"`
	DiscountType      DiscountType `gorm:"size:20;not null" json:"discount_type"`
	DiscountValue     float64      `gorm:"not null" json:"discount_value"`
	MinPurchaseAmount float64      `gorm:"not null;default:0" json:"min_purchase_amount"`
	IsActive          bool         `gorm:"not null;default:true" json:"is_active"`
	ExpiryDate        time.Time    `gorm:"not null" json:"expiry_date"`
	UsageLimit        int          `gorm:"not null" json:"usage_limit"`
	TimesUsed         int          `gorm:"not null;default:0" json:"times_used"`
	CreatedAt         time.Time    `json:"created_at"`
	UpdatedAt         time.Time    `json:"updated_at"`
}

func (c *Coupon) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}
