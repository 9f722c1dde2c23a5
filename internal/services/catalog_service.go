package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/google/uuid"
	"github.com/jewelen/marketplace-backend/internal/auth"
	"github.com/jewelen/marketplace-backend/internal/dto"
	"github.com/jewelen/marketplace-backend/internal/models"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

var (
	ErrProductNotFound   = errors.New("product not found")
	ErrInvalidCategory   = errors.New("invalid category")
	ErrDuplicateSKU      = errors.New("SKU already exists for this seller")
	ErrPriceInvariant    = errors.New("price must be lower than original price")
	ErrForbidden         = errors.New("not allowed")
	ErrProductNotPending = errors.New("product is not pending review")
)

const productPageSize = 10

type CatalogService struct {
	db *gorm.DB
}

func NewCatalogService(db *gorm.DB) *CatalogService {
	return &CatalogService{db: db}
}

// ProductQuery narrows Browse. Empty fields match everything.
type ProductQuery struct {
	Category string
	Search   string
	Featured bool
	Page     int
}

// Browse returns approved, in-stock listings for the storefront.
func (s *CatalogService) Browse(q ProductQuery) (*dto.ProductListResponse, error) {
	tx := s.db.Model(&models.Product{}).
		Where("status = ? AND stock_quantity > 0", models.ProductApproved)

	if q.Category != "" {
		if !models.ValidCategory(models.Category(q.Category)) {
			return nil, ErrInvalidCategory
		}
		tx = tx.Where("category = ?", q.Category)
	}
	if q.Search != "" {
		needle := "%" + strings.TrimSpace(q.Search) + "%"
		tx = tx.Where("name ILIKE ? OR description ILIKE ?", needle, needle)
	}
	if q.Featured {
		tx = tx.Where("is_featured = true")
	}

	return s.paginate(tx, q.Page)
}

func (s *CatalogService) paginate(tx *gorm.DB, page int) (*dto.ProductListResponse, error) {
	if page < 1 {
		page = 1
	}

	var count int64
	if err := tx.Count(&count).Error; err != nil {
		return nil, fmt.Errorf("failed to count products: %w", err)
	}

	var items []models.Product
	err := tx.Order("created_at DESC").
		Limit(productPageSize).
		Offset((page - 1) * productPageSize).
		Find(&items).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}

	pages := int(math.Ceil(float64(count) / float64(productPageSize)))
	return &dto.ProductListResponse{Items: items, Page: page, Pages: pages, Count: count}, nil
}

// Get returns a single approved listing for public viewing.
func (s *CatalogService) Get(id uuid.UUID) (*models.Product, error) {
	var p models.Product
	err := s.db.First(&p, "id = ? AND status = ?", id, models.ProductApproved).Error
	if err != nil {
		return nil, ErrProductNotFound
	}
	return &p, nil
}

// GetBySKU returns an approved listing by its SKU. SKUs are only unique
// per seller, so the newest approved match wins.
func (s *CatalogService) GetBySKU(sku string) (*models.Product, error) {
	var p models.Product
	err := s.db.Where("sku = ? AND status = ?", sku, models.ProductApproved).
		Order("created_at DESC").
		First(&p).Error
	if err != nil {
		return nil, ErrProductNotFound
	}
	return &p, nil
}

// GetAny returns a listing regardless of status; callers enforce access.
func (s *CatalogService) GetAny(id uuid.UUID) (*models.Product, error) {
	var p models.Product
	if err := s.db.First(&p, "id = ?", id).Error; err != nil {
		return nil, ErrProductNotFound
	}
	return &p, nil
}

// Collections lists the storefront categories with a representative image
// taken from the newest approved product in each.
func (s *CatalogService) Collections() ([]dto.CollectionResponse, error) {
	out := make([]dto.CollectionResponse, 0, len(models.Categories))
	for _, cat := range models.Categories {
		var p models.Product
		err := s.db.Where("category = ? AND status = ?", cat, models.ProductApproved).
			Order("created_at DESC").First(&p).Error

		entry := dto.CollectionResponse{Name: cat}
		if err == nil {
			var images []string
			if json.Unmarshal(p.Images, &images) == nil && len(images) > 0 {
				entry.ImageURL = images[0]
			}
		}
		out = append(out, entry)
	}
	return out, nil
}

// Create adds a listing. Supplier-created products start Pending; an
// admin creating on behalf of a seller gets an approved listing.
func (s *CatalogService) Create(ident auth.Identity, req *dto.CreateProductRequest) (*models.Product, error) {
	if !models.ValidCategory(models.Category(req.Category)) {
		return nil, ErrInvalidCategory
	}

	sellerID := ident.ID
	status := models.ProductPending
	if ident.Role == models.RoleAdmin {
		status = models.ProductApproved
		if req.SellerID != "" {
			parsed, err := uuid.Parse(req.SellerID)
			if err != nil {
				return nil, fmt.Errorf("invalid seller id: %w", err)
			}
			sellerID = parsed
		}
	}

	p := models.Product{
		ID:            uuid.New(),
		SellerID:      sellerID,
		SKU:           strings.TrimSpace(req.SKU),
		Name:          req.Name,
		Description:   req.Description,
		Price:         req.Price,
		OriginalPrice: req.OriginalPrice,
		StockQuantity: req.StockQuantity,
		Category:      models.Category(req.Category),
		IsFeatured:    req.IsFeatured,
		Status:        status,
	}
	if !p.ValidPricePair() {
		return nil, ErrPriceInvariant
	}

	p.Images = mustJSON(req.Images, "[]")
	p.Tags = mustJSON(req.Tags, "[]")
	p.Attributes = mustJSON(req.Attributes, "{}")

	if err := s.db.Create(&p).Error; err != nil {
		if isUniqueViolation(err) {
			return nil, ErrDuplicateSKU
		}
		return nil, fmt.Errorf("failed to create product: %w", err)
	}
	return &p, nil
}

// Update edits a listing. Suppliers may only touch their own; edits by a
// supplier send the product back to Pending review.
func (s *CatalogService) Update(ident auth.Identity, id uuid.UUID, req *dto.UpdateProductRequest) (*models.Product, error) {
	p, err := s.GetAny(id)
	if err != nil {
		return nil, err
	}
	if !auth.CanAccess(ident, auth.ProductResource(p.SellerID), auth.ActionUpdate) {
		return nil, ErrForbidden
	}

	updates := map[string]interface{}{}
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.StockQuantity != nil {
		updates["stock_quantity"] = *req.StockQuantity
	}
	if req.IsFeatured != nil {
		updates["is_featured"] = *req.IsFeatured
	}
	if req.Category != nil {
		if !models.ValidCategory(models.Category(*req.Category)) {
			return nil, ErrInvalidCategory
		}
		updates["category"] = *req.Category
	}

	price := p.Price
	original := p.OriginalPrice
	if req.Price != nil {
		price = *req.Price
		updates["price"] = price
	}
	if req.ClearOriginal {
		original = nil
		updates["original_price"] = nil
	} else if req.OriginalPrice != nil {
		original = req.OriginalPrice
		updates["original_price"] = *req.OriginalPrice
	}
	if original != nil && price >= *original {
		return nil, ErrPriceInvariant
	}

	if req.Images != nil {
		updates["images"] = mustJSON(req.Images, "[]")
	}
	if req.Tags != nil {
		updates["tags"] = mustJSON(req.Tags, "[]")
	}
	if req.Attributes != nil {
		updates["attributes"] = mustJSON(req.Attributes, "{}")
	}

	if ident.Role == models.RoleSupplier {
		updates["status"] = models.ProductPending
	}

	if len(updates) > 0 {
		if err := s.db.Model(p).Updates(updates).Error; err != nil {
			return nil, fmt.Errorf("failed to update product: %w", err)
		}
	}
	return s.GetAny(id)
}

// UpdateStock changes only the quantity and never resets approval.
func (s *CatalogService) UpdateStock(ident auth.Identity, id uuid.UUID, quantity int) (*models.Product, error) {
	p, err := s.GetAny(id)
	if err != nil {
		return nil, err
	}
	if !auth.CanAccess(ident, auth.ProductResource(p.SellerID), auth.ActionUpdate) {
		return nil, ErrForbidden
	}
	if err := s.db.Model(p).Update("stock_quantity", quantity).Error; err != nil {
		return nil, fmt.Errorf("failed to update stock: %w", err)
	}
	p.StockQuantity = quantity
	return p, nil
}

func (s *CatalogService) Delete(ident auth.Identity, id uuid.UUID) error {
	p, err := s.GetAny(id)
	if err != nil {
		return err
	}
	if !auth.CanAccess(ident, auth.ProductResource(p.SellerID), auth.ActionDelete) {
		return ErrForbidden
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		tx.Where("product_id = ?", id).Delete(&models.CartItem{})
		tx.Where("product_id = ?", id).Delete(&models.WishlistItem{})
		return tx.Delete(p).Error
	})
}

// SellerProducts lists everything a supplier owns, any status.
func (s *CatalogService) SellerProducts(sellerID uuid.UUID, page int) (*dto.ProductListResponse, error) {
	tx := s.db.Model(&models.Product{}).Where("seller_id = ?", sellerID)
	return s.paginate(tx, page)
}

// PendingProducts lists listings awaiting admin review.
func (s *CatalogService) PendingProducts(page int) (*dto.ProductListResponse, error) {
	tx := s.db.Model(&models.Product{}).Where("status = ?", models.ProductPending)
	return s.paginate(tx, page)
}

// AllProducts is the admin view, unfiltered.
func (s *CatalogService) AllProducts(page int) (*dto.ProductListResponse, error) {
	return s.paginate(s.db.Model(&models.Product{}), page)
}

// Review approves or rejects a pending listing.
func (s *CatalogService) Review(id uuid.UUID, approve bool) (*models.Product, error) {
	p, err := s.GetAny(id)
	if err != nil {
		return nil, err
	}
	if p.Status != models.ProductPending {
		return nil, ErrProductNotPending
	}

	status := models.ProductRejected
	if approve {
		status = models.ProductApproved
	}
	if err := s.db.Model(p).Update("status", status).Error; err != nil {
		return nil, fmt.Errorf("failed to review product: %w", err)
	}
	p.Status = status
	return p, nil
}

func mustJSON(v interface{}, empty string) datatypes.JSON {
	if v == nil {
		return datatypes.JSON(empty)
	}
	b, err := json.Marshal(v)
	if err != nil {
		return datatypes.JSON(empty)
	}
	return datatypes.JSON(b)
}

func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "duplicate key")
}
