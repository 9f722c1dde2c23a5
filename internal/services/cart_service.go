package services

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jewelen/marketplace-backend/internal/dto"
	"github.com/jewelen/marketplace-backend/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var ErrInsufficientStock = errors.New("insufficient stock")

type CartService struct {
	db *gorm.DB
}

func NewCartService(db *gorm.DB) *CartService {
	return &CartService{db: db}
}

// AddToCart inserts a cart line or bumps the quantity of an existing
// one. The quantity is capped against live stock.
func (s *CartService) AddToCart(userID, productID uuid.UUID, quantity int) error {
	if quantity < 1 {
		quantity = 1
	}

	var product models.Product
	err := s.db.First(&product, "id = ? AND status = ?", productID, models.ProductApproved).Error
	if err != nil {
		return ErrProductNotFound
	}

	var existing models.CartItem
	err = s.db.Where("user_id = ? AND product_id = ?", userID, productID).First(&existing).Error
	if err == nil {
		quantity += existing.Quantity
	}
	if quantity > product.StockQuantity {
		return ErrInsufficientStock
	}

	item := models.CartItem{
		UserID:    userID,
		ProductID: productID,
		Quantity:  quantity,
	}
	err = s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "product_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"quantity", "updated_at"}),
	}).Create(&item).Error
	if err != nil {
		return fmt.Errorf("failed to add to cart: %w", err)
	}
	return nil
}

// SetQuantity replaces the quantity of an existing cart line.
func (s *CartService) SetQuantity(userID, productID uuid.UUID, quantity int) error {
	var product models.Product
	if err := s.db.First(&product, "id = ?", productID).Error; err != nil {
		return ErrProductNotFound
	}
	if quantity > product.StockQuantity {
		return ErrInsufficientStock
	}

	res := s.db.Model(&models.CartItem{}).
		Where("user_id = ? AND product_id = ?", userID, productID).
		Update("quantity", quantity)
	if res.Error != nil {
		return fmt.Errorf("failed to update cart: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrProductNotFound
	}
	return nil
}

func (s *CartService) RemoveFromCart(userID, productID uuid.UUID) error {
	return s.db.Where("user_id = ? AND product_id = ?", userID, productID).
		Delete(&models.CartItem{}).Error
}

func (s *CartService) ClearCart(userID uuid.UUID) error {
	return s.db.Where("user_id = ?", userID).Delete(&models.CartItem{}).Error
}

// Cart returns the user's cart joined with live product detail. Lines
// whose product has since been removed or unlisted are dropped.
func (s *CartService) Cart(userID uuid.UUID) (*dto.CartResponse, error) {
	var items []models.CartItem
	err := s.db.Preload("Product").
		Where("user_id = ?", userID).
		Order("created_at ASC").
		Find(&items).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load cart: %w", err)
	}

	entries := make([]dto.CartEntry, 0, len(items))
	for _, item := range items {
		if item.Product.ID == uuid.Nil || item.Product.Status != models.ProductApproved {
			continue
		}
		entries = append(entries, dto.CartEntry{Product: item.Product, Quantity: item.Quantity})
	}
	return &dto.CartResponse{Items: entries}, nil
}

// ToggleWishlist adds the product if absent, removes it if present.
// Returns true when the product ended up on the wishlist.
func (s *CartService) ToggleWishlist(userID, productID uuid.UUID) (bool, error) {
	var product models.Product
	if err := s.db.First(&product, "id = ?", productID).Error; err != nil {
		return false, ErrProductNotFound
	}

	res := s.db.Where("user_id = ? AND product_id = ?", userID, productID).
		Delete(&models.WishlistItem{})
	if res.Error != nil {
		return false, fmt.Errorf("failed to toggle wishlist: %w", res.Error)
	}
	if res.RowsAffected > 0 {
		return false, nil
	}

	item := models.WishlistItem{UserID: userID, ProductID: productID}
	if err := s.db.Create(&item).Error; err != nil {
		return false, fmt.Errorf("failed to add to wishlist: %w", err)
	}
	return true, nil
}

func (s *CartService) Wishlist(userID uuid.UUID) ([]models.Product, error) {
	var items []models.WishlistItem
	err := s.db.Preload("Product").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&items).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load wishlist: %w", err)
	}

	products := make([]models.Product, 0, len(items))
	for _, item := range items {
		if item.Product.ID == uuid.Nil {
			continue
		}
		products = append(products, item.Product)
	}
	return products, nil
}
