package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Category string

const (
	CategoryRings       Category = "Rings"
	CategoryNewArrivals Category = "New Arrivals"
	CategoryNecklaces   Category = "Necklaces"
	CategoryEarrings    Category = "Earrings"
	CategoryBracelets   Category = "Bracelets"
	CategoryGifts       Category = "Gifts"
)

var Categories = []Category{
	CategoryRings,
	CategoryNewArrivals,
	CategoryNecklaces,
	CategoryEarrings,
	CategoryBracelets,
	CategoryGifts,
}

func ValidCategory(c Category) bool {
	for _, v := range Categories {
		if v == c {
			return true
		}
	}
	return false
}

type ProductStatus string

const (
	ProductPending  ProductStatus = "Pending"
	ProductApproved ProductStatus = "Approved"
	ProductRejected ProductStatus = "Rejected"
)

// Product is a jewelry listing. SKU is unique per seller, not globally;
// when OriginalPrice is set, Price must stay strictly below it.
type Product struct {
	ID            uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	SellerID      uuid.UUID      `gorm:"type:uuid;not null;uniqueIndex:idx_products_seller_sku" json:"seller_id"`
	SKU           string         `gorm:"size:100;not null;uniqueIndex:idx_products_seller_sku;index" json:"sku"`
	Name          string         `gorm:"size:255;not null" json:"name"`
	Description   string         `gorm:"type:text" json:"description"`
	Price         float64        `gorm:"not null" json:"price"`
	OriginalPrice *float64       `json:"original_price,omitempty"`
	Images        datatypes.JSON `gorm:"type:jsonb;default:'[]'" json:"images"`
	StockQuantity int            `gorm:"not null;default:1" json:"stock_quantity"`
	Category      Category       `gorm:"size:50;not null;index" json:"category"`
	// Metal, gemstone and dimension attributes vary wildly per listing
	// and are only ever rendered, so they live in one JSONB blob.
	Attributes datatypes.JSON `gorm:"type:jsonb;default:'{}'" json:"attributes"`
	Tags       datatypes.JSON `gorm:"type:jsonb;default:'[]'" json:"tags"`
	IsFeatured bool           `gorm:"default:false" json:"is_featured"`
	Status     ProductStatus  `gorm:"size:20;not null;default:'Pending';index" json:"status"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
	Seller     User           `gorm:"foreignKey:SellerID" json:"-"`
}

func (p *Product) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// ValidPricePair reports whether the price/original-price invariant holds.
func (p *Product) ValidPricePair() bool {
	return p.OriginalPrice == nil || p.Price < *p.OriginalPrice
}
