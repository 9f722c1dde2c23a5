package dto

import "github.com/jewelen/marketplace-backend/internal/models"

type AddToCartRequest struct {
	ProductID string `json:"product_id" validate:"required,uuid"`
	Quantity  int    `json:"quantity" validate:"omitempty,gte=1"`
}

type UpdateCartQuantityRequest struct {
	ProductID string `json:"product_id" validate:"required,uuid"`
	Quantity  int    `json:"quantity" validate:"required,gte=1"`
}

// CartEntry joins a cart line with its live product detail.
type CartEntry struct {
	Product  models.Product `json:"product"`
	Quantity int            `json:"quantity"`
}

type CartResponse struct {
	Items []CartEntry `json:"items"`
}

type ToggleWishlistRequest struct {
	ProductID string `json:"product_id" validate:"required,uuid"`
}
