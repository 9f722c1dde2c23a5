package dto

import (
	"github.com/jewelen/marketplace-backend/internal/models"
)

type OrderItemRequest struct {
	ProductID string `json:"product_id" validate:"required,uuid"`
	Quantity  int    `json:"quantity" validate:"required,gte=1"`
}

// CreateOrderRequest carries no monetary amounts: the chargeable total is
// always recomputed from the catalog on the server.
type CreateOrderRequest struct {
	Items      []OrderItemRequest `json:"items" validate:"required,min=1,dive"`
	AddressID  string             `json:"address_id" validate:"required,uuid"`
	CouponCode string             `json:"coupon_code,omitempty"`
}

type CreateOrderResponse struct {
	Success        bool         `json:"success"`
	Order          models.Order `json:"order"`
	GatewayOrderID string       `json:"gateway_order_id"`
	GatewayKeyID   string       `json:"gateway_key_id"`
	Amount         int64        `json:"amount"`
	Currency       string       `json:"currency"`
}

type VerifyPaymentRequest struct {
	GatewayOrderID   string `json:"razorpay_order_id" validate:"required"`
	GatewayPaymentID string `json:"razorpay_payment_id" validate:"required"`
	GatewaySignature string `json:"razorpay_signature" validate:"required"`
}

type UpdateOrderStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=Pending Processing Shipped Delivered Cancelled Failed"`
}

type UpdateItemStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=Processing Shipped Delivered Cancelled"`
}
