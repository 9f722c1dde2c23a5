package dto

import "github.com/jewelen/marketplace-backend/internal/models"

type CreateProductRequest struct {
	SKU           string                 `json:"sku" validate:"required,max=100"`
	Name          string                 `json:"name" validate:"required,max=255"`
	Description   string                 `json:"description"`
	Price         float64                `json:"price" validate:"required,gt=0"`
	OriginalPrice *float64               `json:"original_price,omitempty" validate:"omitempty,gt=0"`
	Images        []string               `json:"images"`
	StockQuantity int                    `json:"stock_quantity" validate:"gte=0"`
	Category      string                 `json:"category" validate:"required"`
	Attributes    map[string]interface{} `json:"attributes,omitempty"`
	Tags          []string               `json:"tags,omitempty"`
	IsFeatured    bool                   `json:"is_featured"`
	// Admins may create on behalf of a seller.
	SellerID string `json:"seller_id,omitempty" validate:"omitempty,uuid"`
}

type UpdateProductRequest struct {
	Name          *string                `json:"name,omitempty" validate:"omitempty,max=255"`
	Description   *string                `json:"description,omitempty"`
	Price         *float64               `json:"price,omitempty" validate:"omitempty,gt=0"`
	OriginalPrice *float64               `json:"original_price,omitempty"`
	ClearOriginal bool                   `json:"clear_original_price,omitempty"`
	Images        []string               `json:"images,omitempty"`
	StockQuantity *int                   `json:"stock_quantity,omitempty" validate:"omitempty,gte=0"`
	Category      *string                `json:"category,omitempty"`
	Attributes    map[string]interface{} `json:"attributes,omitempty"`
	Tags          []string               `json:"tags,omitempty"`
	IsFeatured    *bool                  `json:"is_featured,omitempty"`
}

type UpdateStockRequest struct {
	StockQuantity int `json:"stock_quantity" validate:"gte=0"`
}

type ProductListResponse struct {
	Items []models.Product `json:"items"`
	Page  int              `json:"page"`
	Pages int              `json:"pages"`
	Count int64            `json:"count"`
}

type CollectionResponse struct {
	Name     models.Category `json:"name"`
	ImageURL string          `json:"image_url"`
}
