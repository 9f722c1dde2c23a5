package importer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jewelen/marketplace-backend/internal/models"
	"github.com/spf13/cast"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

var (
	ErrMissingSKU      = errors.New("row has no SKU")
	ErrInvalidCategory = errors.New("row has an invalid category")
	ErrPriceInvariant  = errors.New("discounted price must be less than the original price")
)

// Mapping assigns product fields to feed column names. Recognized field
// keys: sku, name, description, price, original_price, stock_quantity,
// category, images, tags (images/tags are comma separated in feeds).
type Mapping map[string]string

// ProductInput is one mapped and coerced feed row.
type ProductInput struct {
	SKU           string
	Name          string
	Description   string
	Price         float64
	OriginalPrice *float64
	StockQuantity int
	Category      models.Category
	Images        []string
	Tags          []string
}

// MapRow applies the column mapping to a raw feed row and coerces values.
func MapRow(row map[string]string, mapping Mapping) (ProductInput, error) {
	get := func(field string) string {
		col, ok := mapping[field]
		if !ok {
			return ""
		}
		return row[col]
	}

	in := ProductInput{
		SKU:         strings.TrimSpace(get("sku")),
		Name:        strings.TrimSpace(get("name")),
		Description: get("description"),
	}
	if in.SKU == "" {
		return in, ErrMissingSKU
	}

	in.Price = cast.ToFloat64(get("price"))
	if raw := strings.TrimSpace(get("original_price")); raw != "" {
		v := cast.ToFloat64(raw)
		in.OriginalPrice = &v
	}
	in.StockQuantity = cast.ToInt(get("stock_quantity"))

	in.Category = models.Category(strings.TrimSpace(get("category")))
	if !models.ValidCategory(in.Category) {
		return in, fmt.Errorf("%w: %q (sku %s)", ErrInvalidCategory, in.Category, in.SKU)
	}

	if raw := get("images"); raw != "" {
		in.Images = splitList(raw)
	}
	if raw := get("tags"); raw != "" {
		in.Tags = splitList(raw)
	}

	if in.OriginalPrice != nil && in.Price >= *in.OriginalPrice {
		return in, fmt.Errorf("%w (sku %s)", ErrPriceInvariant, in.SKU)
	}
	return in, nil
}

func splitList(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			out = append(out, t)
		}
	}
	return out
}

// Importer upserts mapped feed rows into the catalog.
type Importer struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Importer {
	return &Importer{db: db}
}

// Import maps every row, validates the whole batch before any write, and
// upserts per (seller, sku). Returns created and updated counts.
func (im *Importer) Import(ctx context.Context, sellerID uuid.UUID, rows []map[string]string, mapping Mapping) (int, int, error) {
	inputs := make([]ProductInput, 0, len(rows))
	for _, row := range rows {
		in, err := MapRow(row, mapping)
		if err != nil {
			return 0, 0, err
		}
		inputs = append(inputs, in)
	}
	if len(inputs) == 0 {
		return 0, 0, nil
	}

	skus := make([]string, 0, len(inputs))
	for _, in := range inputs {
		skus = append(skus, in.SKU)
	}

	var existing []string
	if err := im.db.WithContext(ctx).Model(&models.Product{}).
		Where("seller_id = ? AND sku IN ?", sellerID, skus).
		Pluck("sku", &existing).Error; err != nil {
		return 0, 0, fmt.Errorf("failed to load existing SKUs: %w", err)
	}
	known := make(map[string]bool, len(existing))
	for _, sku := range existing {
		known[sku] = true
	}

	var created, updated int
	err := im.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, in := range inputs {
			if known[in.SKU] {
				if err := tx.Model(&models.Product{}).
					Where("seller_id = ? AND sku = ?", sellerID, in.SKU).
					Updates(updateColumns(in)).Error; err != nil {
					return fmt.Errorf("failed to update sku %s: %w", in.SKU, err)
				}
				updated++
				continue
			}

			product := models.Product{
				ID:            uuid.New(),
				SellerID:      sellerID,
				SKU:           in.SKU,
				Name:          in.Name,
				Description:   in.Description,
				Price:         in.Price,
				OriginalPrice: in.OriginalPrice,
				StockQuantity: in.StockQuantity,
				Category:      in.Category,
				Images:        toJSON(in.Images),
				Tags:          toJSON(in.Tags),
				Status:        models.ProductPending,
			}
			if err := tx.Create(&product).Error; err != nil {
				return fmt.Errorf("failed to create sku %s: %w", in.SKU, err)
			}
			created++
		}
		return nil
	})
	if err != nil {
		return 0, 0, err
	}
	return created, updated, nil
}

func updateColumns(in ProductInput) map[string]interface{} {
	cols := map[string]interface{}{
		"name":           in.Name,
		"description":    in.Description,
		"price":          in.Price,
		"original_price": in.OriginalPrice,
		"stock_quantity": in.StockQuantity,
		"category":       in.Category,
	}
	if in.Images != nil {
		cols["images"] = toJSON(in.Images)
	}
	if in.Tags != nil {
		cols["tags"] = toJSON(in.Tags)
	}
	return cols
}

func toJSON(list []string) datatypes.JSON {
	if list == nil {
		list = []string{}
	}
	b, err := json.Marshal(list)
	if err != nil {
		return datatypes.JSON("[]")
	}
	return datatypes.JSON(b)
}

// ParseMapping decodes a stored JSON mapping.
func ParseMapping(raw []byte) (Mapping, error) {
	var m Mapping
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, fmt.Errorf("invalid field mapping: %w", err)
	}
	if len(m) == 0 {
		return nil, errors.New("field mapping is empty")
	}
	return m, nil
}
