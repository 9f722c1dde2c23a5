package services

import (
	"testing"

	"github.com/google/uuid"
	"github.com/jewelen/marketplace-backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetBySKUReturnsApprovedListing(t *testing.T) {
	f := newOrderFixture(t)
	svc := NewCatalogService(f.db)

	p, err := svc.GetBySKU("RING-001")
	require.NoError(t, err)
	assert.Equal(t, f.product.ID, p.ID)

	_, err = svc.GetBySKU("NO-SUCH-SKU")
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestGetBySKUSkipsUnapprovedListings(t *testing.T) {
	f := newOrderFixture(t)
	svc := NewCatalogService(f.db)

	pending := models.Product{
		ID:            uuid.New(),
		SellerID:      f.seller,
		SKU:           "RING-002",
		Name:          "Unreviewed Ring",
		Price:         700,
		StockQuantity: 3,
		Category:      models.CategoryRings,
		Status:        models.ProductPending,
	}
	require.NoError(t, f.db.Create(&pending).Error)

	_, err := svc.GetBySKU("RING-002")
	assert.ErrorIs(t, err, ErrProductNotFound)
}
