package dto

import "time"

type CreateCouponRequest struct {
	Code              string    `json:"code" validate:"required,max=50"`
	DiscountType      string    `json:"discount_type" validate:"required,oneof=Percentage Flat"`
	DiscountValue     float64   `json:"discount_value" validate:"required,gt=0"`
	MinPurchaseAmount float64   `json:"min_purchase_amount" validate:"gte=0"`
	ExpiryDate        time.Time `json:"expiry_date" validate:"required"`
	UsageLimit        int       `json:"usage_limit" validate:"required,gte=1"`
	IsActive          *bool     `json:"is_active,omitempty"`
}

type ValidateCouponRequest struct {
	Code        string  `json:"code" validate:"required"`
	TotalAmount float64 `json:"total_amount" validate:"required,gt=0"`
}

type ValidateCouponResponse struct {
	Success        bool    `json:"success"`
	Code           string  `json:"code"`
	DiscountAmount float64 `json:"discount_amount"`
}
