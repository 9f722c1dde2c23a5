package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type OrderStatus string

const (
	OrderPending    OrderStatus = "Pending"
	OrderProcessing OrderStatus = "Processing"
	OrderShipped    OrderStatus = "Shipped"
	OrderDelivered  OrderStatus = "Delivered"
	OrderCancelled  OrderStatus = "Cancelled"
	OrderFailed     OrderStatus = "Failed"
)

func ValidOrderStatus(s OrderStatus) bool {
	switch s {
	case OrderPending, OrderProcessing, OrderShipped, OrderDelivered, OrderCancelled, OrderFailed:
		return true
	}
	return false
}

type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "Pending"
	PaymentPaid     PaymentStatus = "Paid"
	PaymentFailed   PaymentStatus = "Failed"
	PaymentRefunded PaymentStatus = "Refunded"
)

// ItemStatus is the fulfillment state of one line item, settable by the
// owning seller independently of the order-level status.
type ItemStatus string

const (
	ItemProcessing ItemStatus = "Processing"
	ItemShipped    ItemStatus = "Shipped"
	ItemDelivered  ItemStatus = "Delivered"
	ItemCancelled  ItemStatus = "Cancelled"
)

func ValidItemStatus(s ItemStatus) bool {
	switch s {
	case ItemProcessing, ItemShipped, ItemDelivered, ItemCancelled:
		return true
	}
	return false
}

// Order couples the fulfillment state machine with the gateway payment
// state. Pending -> Processing happens through exactly one verified
// payment; Failed, Delivered and Cancelled are terminal.
type Order struct {
	ID        uuid.UUID   `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID    uuid.UUID   `gorm:"type:uuid;not null;index" json:"user_id"`
	AddressID uuid.UUID   `gorm:"type:uuid;not null" json:"address_id"`
	Items     []OrderItem `gorm:"foreignKey:OrderID" json:"items"`

	TotalAmount    float64 `gorm:"not null" json:"total_amount"`
	CouponCode     *string `gorm:"size:50" json:"coupon_code,omitempty"`
	DiscountAmount float64 `gorm:"not null;default:0" json:"discount_amount"`

	OrderStatus OrderStatus `gorm:"size:20;not null;default:'Pending';index" json:"order_status"`

	GatewayOrderID   string        `gorm:"size:100;uniqueIndex" json:"gateway_order_id"`
	GatewayPaymentID string        `gorm:"size:100" json:"gateway_payment_id,omitempty"`
	GatewaySignature string        `gorm:"size:255" json:"-"`
	PaymentStatus    PaymentStatus `gorm:"size:20;not null;default:'Pending'" json:"payment_status"`
	Receipt          string        `gorm:"size:64" json:"receipt"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	User    User    `gorm:"foreignKey:UserID" json:"-"`
	Address Address `gorm:"foreignKey:AddressID" json:"-"`
}

func (o *Order) BeforeCreate(tx *gorm.DB) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	return nil
}

// FinalAmount is the chargeable amount after the coupon discount.
func (o *Order) FinalAmount() float64 {
	return o.TotalAmount - o.DiscountAmount
}

// OrderItem snapshots the catalog price at purchase time; PriceAtOrder
// never changes after creation. SellerID is denormalized from the product
// so seller-facing queries avoid joining the catalog.
type OrderItem struct {
	ID           uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	OrderID      uuid.UUID  `gorm:"type:uuid;not null;index" json:"order_id"`
	ProductID    uuid.UUID  `gorm:"type:uuid;not null;index" json:"product_id"`
	SellerID     uuid.UUID  `gorm:"type:uuid;not null;index" json:"seller_id"`
	Quantity     int        `gorm:"not null" json:"quantity"`
	PriceAtOrder float64    `gorm:"not null" json:"price_at_order"`
	Status       ItemStatus `gorm:"size:20;not null;default:'Processing'" json:"status"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
	Product      Product    `gorm:"foreignKey:ProductID" json:"-"`
}

func (oi *OrderItem) BeforeCreate(tx *gorm.DB) error {
	if oi.ID == uuid.Nil {
		oi.ID = uuid.New()
	}
	return nil
}
