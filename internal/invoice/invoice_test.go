package invoice

import (
	"testing"

	"github.com/google/uuid"
	"github.com/jewelen/marketplace-backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRender(t *testing.T) {
	productID := uuid.New()
	order := &models.Order{
		ID:             uuid.New(),
		TotalAmount:    1999,
		DiscountAmount: 199.9,
		CouponCode:     strPtr("SAVE10"),
		PaymentStatus:  models.PaymentPaid,
		Receipt:        "rcpt_1832930281",
		GatewayOrderID: "order_xyz",
		Items: []models.OrderItem{
			{ProductID: productID, Quantity: 2, PriceAtOrder: 999.5},
		},
	}
	buyer := &models.User{Name: "Asha Verma", Email: "asha@example.com"}
	address := &models.Address{
		FullName:   "Asha Verma",
		Line1:      "14 MG Road",
		City:       "Bengaluru",
		State:      "Karnataka",
		PostalCode: "560001",
		Country:    "India",
	}
	products := map[string]models.Product{
		productID.String(): {ID: productID, Name: "Gold Ring", SKU: "RING-001"},
	}

	pdf, err := NewRenderer().Render(order, buyer, address, products)
	require.NoError(t, err)

	assert.Greater(t, len(pdf), 500)
	assert.Equal(t, "%PDF", string(pdf[:4]))
}

func TestRenderUnknownProduct(t *testing.T) {
	// A line item whose product was deleted still renders.
	order := &models.Order{
		ID:            uuid.New(),
		TotalAmount:   500,
		PaymentStatus: models.PaymentPaid,
		Receipt:       "rcpt_2",
		Items: []models.OrderItem{
			{ProductID: uuid.New(), Quantity: 1, PriceAtOrder: 500},
		},
	}
	buyer := &models.User{Name: "B", Email: "b@example.com"}
	address := &models.Address{FullName: "B", Line1: "x", City: "y", PostalCode: "1", Country: "IN"}

	pdf, err := NewRenderer().Render(order, buyer, address, map[string]models.Product{})
	require.NoError(t, err)
	assert.Equal(t, "%PDF", string(pdf[:4]))
}

func strPtr(s string) *string { return &s }
