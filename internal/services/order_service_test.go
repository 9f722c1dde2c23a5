package services

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/jewelen/marketplace-backend/internal/auth"
	"github.com/jewelen/marketplace-backend/internal/config"
	"github.com/jewelen/marketplace-backend/internal/dto"
	"github.com/jewelen/marketplace-backend/internal/models"
	"github.com/jewelen/marketplace-backend/internal/notify"
	"github.com/jewelen/marketplace-backend/internal/payment"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const testGatewaySecret = "test_secret"

type fakeGateway struct {
	mu        sync.Mutex
	intents   int
	refunds   []string
	intentErr error
	refundErr error
}

func (g *fakeGateway) CreateIntent(ctx context.Context, amount int64, currency, receipt string) (*payment.Intent, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.intentErr != nil {
		return nil, g.intentErr
	}
	g.intents++
	return &payment.Intent{
		ID:       fmt.Sprintf("order_fake_%d", g.intents),
		Amount:   amount,
		Currency: currency,
		Receipt:  receipt,
	}, nil
}

func (g *fakeGateway) Refund(ctx context.Context, paymentID string, amount int64) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.refundErr != nil {
		return g.refundErr
	}
	g.refunds = append(g.refunds, paymentID)
	return nil
}

func (g *fakeGateway) refunded() []string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]string(nil), g.refunds...)
}

type nullStore struct{}

func (nullStore) Create(n *models.Notification) error { return nil }

var orderSchema = []string{
	`CREATE TABLE products (
		id TEXT PRIMARY KEY,
		seller_id TEXT NOT NULL,
		sku TEXT NOT NULL,
		name TEXT NOT NULL,
		description TEXT,
		price REAL NOT NULL,
		original_price REAL,
		images TEXT DEFAULT '[]',
		stock_quantity INTEGER NOT NULL DEFAULT 1,
		category TEXT NOT NULL,
		attributes TEXT DEFAULT '{}',
		tags TEXT DEFAULT '[]',
		is_featured INTEGER DEFAULT 0,
		status TEXT NOT NULL DEFAULT 'Pending',
		created_at DATETIME,
		updated_at DATETIME
	)`,
	`CREATE TABLE addresses (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		full_name TEXT NOT NULL,
		phone TEXT,
		line1 TEXT NOT NULL,
		line2 TEXT,
		city TEXT NOT NULL,
		state TEXT,
		postal_code TEXT NOT NULL,
		country TEXT NOT NULL,
		is_default INTEGER DEFAULT 0,
		created_at DATETIME,
		updated_at DATETIME
	)`,
	`CREATE TABLE coupons (
		id TEXT PRIMARY KEY,
		code TEXT NOT NULL UNIQUE,
		discount_type TEXT NOT NULL,
		discount_value REAL NOT NULL,
		min_purchase_amount REAL NOT NULL DEFAULT 0,
		is_active INTEGER NOT NULL DEFAULT 1,
		expiry_date DATETIME NOT NULL,
		usage_limit INTEGER NOT NULL,
		times_used INTEGER NOT NULL DEFAULT 0,
		created_at DATETIME,
		updated_at DATETIME
	)`,
	`CREATE TABLE cart_items (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		product_id TEXT NOT NULL,
		quantity INTEGER NOT NULL DEFAULT 1,
		created_at DATETIME,
		updated_at DATETIME
	)`,
	`CREATE TABLE orders (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		address_id TEXT NOT NULL,
		total_amount REAL NOT NULL,
		coupon_code TEXT,
		discount_amount REAL NOT NULL DEFAULT 0,
		order_status TEXT NOT NULL DEFAULT 'Pending',
		gateway_order_id TEXT,
		gateway_payment_id TEXT,
		gateway_signature TEXT,
		payment_status TEXT NOT NULL DEFAULT 'Pending',
		receipt TEXT,
		created_at DATETIME,
		updated_at DATETIME
	)`,
	`CREATE TABLE order_items (
		id TEXT PRIMARY KEY,
		order_id TEXT NOT NULL,
		product_id TEXT NOT NULL,
		seller_id TEXT NOT NULL,
		quantity INTEGER NOT NULL,
		price_at_order REAL NOT NULL,
		status TEXT NOT NULL DEFAULT 'Processing',
		created_at DATETIME,
		updated_at DATETIME
	)`,
}

type orderFixture struct {
	svc     *OrderService
	coupons *CouponService
	db      *gorm.DB
	gw      *fakeGateway
	buyer   uuid.UUID
	seller  uuid.UUID
	product models.Product
	address models.Address
}

func newOrderFixture(t *testing.T) *orderFixture {
	t.Helper()

	dsn := filepath.Join(t.TempDir(), "orders.db")
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	for _, stmt := range orderSchema {
		require.NoError(t, db.Exec(stmt).Error)
	}

	f := &orderFixture{
		db:     db,
		gw:     &fakeGateway{},
		buyer:  uuid.New(),
		seller: uuid.New(),
	}

	f.product = models.Product{
		ID:            uuid.New(),
		SellerID:      f.seller,
		SKU:           "RING-001",
		Name:          "Gold Ring",
		Price:         500,
		StockQuantity: 5,
		Category:      models.CategoryRings,
		Status:        models.ProductApproved,
	}
	require.NoError(t, db.Create(&f.product).Error)

	f.address = models.Address{
		ID:         uuid.New(),
		UserID:     f.buyer,
		FullName:   "Asha Verma",
		Line1:      "12 MG Road",
		City:       "Pune",
		PostalCode: "411001",
		Country:    "India",
	}
	require.NoError(t, db.Create(&f.address).Error)

	require.NoError(t, db.Create(&models.CartItem{
		ID:        uuid.New(),
		UserID:    f.buyer,
		ProductID: f.product.ID,
		Quantity:  2,
	}).Error)

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	cfg := &config.Config{
		GatewayKeyID:  "rzp_test_key",
		GatewaySecret: testGatewaySecret,
		Currency:      "INR",
	}
	f.coupons = NewCouponService(db)
	f.svc = NewOrderService(db, cfg, f.gw, f.coupons, notify.NewHub(nullStore{}), node)
	return f
}

func (f *orderFixture) createOrder(t *testing.T, couponCode string) *dto.CreateOrderResponse {
	t.Helper()
	resp, err := f.svc.Create(context.Background(), f.buyer, &dto.CreateOrderRequest{
		Items:      []dto.OrderItemRequest{{ProductID: f.product.ID.String(), Quantity: 2}},
		AddressID:  f.address.ID.String(),
		CouponCode: couponCode,
	})
	require.NoError(t, err)
	return resp
}

func (f *orderFixture) stock(t *testing.T) int {
	t.Helper()
	var p models.Product
	require.NoError(t, f.db.First(&p, "id = ?", f.product.ID).Error)
	return p.StockQuantity
}

func (f *orderFixture) reload(t *testing.T, id uuid.UUID) models.Order {
	t.Helper()
	var o models.Order
	require.NoError(t, f.db.Preload("Items").First(&o, "id = ?", id).Error)
	return o
}

func (f *orderFixture) verifyReq(resp *dto.CreateOrderResponse, paymentID string) *dto.VerifyPaymentRequest {
	return &dto.VerifyPaymentRequest{
		GatewayOrderID:   resp.GatewayOrderID,
		GatewayPaymentID: paymentID,
		GatewaySignature: payment.Signature(resp.GatewayOrderID, paymentID, testGatewaySecret),
	}
}

func TestCreateOrderReservesStockAndRecomputesTotal(t *testing.T) {
	f := newOrderFixture(t)

	resp := f.createOrder(t, "")

	assert.Equal(t, payment.MinorUnits(1000), resp.Amount)
	assert.Equal(t, f.product.Price, resp.Order.Items[0].PriceAtOrder)
	assert.Equal(t, models.OrderPending, resp.Order.OrderStatus)
	assert.Equal(t, models.PaymentPending, resp.Order.PaymentStatus)
	assert.Equal(t, 3, f.stock(t))
}

func TestVerifyPaymentRunsSideEffectsExactlyOnce(t *testing.T) {
	f := newOrderFixture(t)

	coupon := models.Coupon{
		ID:            uuid.New(),
		Code:          "SAVE10",
		DiscountType:  models.DiscountPercentage,
		DiscountValue: 10,
		IsActive:      true,
		ExpiryDate:    time.Now().Add(24 * time.Hour),
		UsageLimit:    100,
	}
	require.NoError(t, f.db.Create(&coupon).Error)

	resp := f.createOrder(t, "SAVE10")
	assert.Equal(t, payment.MinorUnits(900), resp.Amount)

	req := f.verifyReq(resp, "pay_001")
	order, err := f.svc.VerifyPayment(req)
	require.NoError(t, err)
	assert.Equal(t, models.PaymentPaid, order.PaymentStatus)
	assert.Equal(t, models.OrderProcessing, order.OrderStatus)
	assert.Equal(t, 3, f.stock(t))

	var c models.Coupon
	require.NoError(t, f.db.First(&c, "code = ?", "SAVE10").Error)
	assert.Equal(t, 1, c.TimesUsed)

	var cartCount int64
	f.db.Model(&models.CartItem{}).Where("user_id = ?", f.buyer).Count(&cartCount)
	assert.Zero(t, cartCount)

	// The identical callback again must not decrement stock or redeem
	// the coupon a second time.
	replayed, err := f.svc.VerifyPayment(req)
	require.ErrorIs(t, err, ErrAlreadyVerified)
	assert.Equal(t, models.PaymentPaid, replayed.PaymentStatus)
	assert.Equal(t, 3, f.stock(t))

	require.NoError(t, f.db.First(&c, "code = ?", "SAVE10").Error)
	assert.Equal(t, 1, c.TimesUsed)
}

func TestVerifyPaymentMismatchFailsOrderAndRestocks(t *testing.T) {
	f := newOrderFixture(t)

	resp := f.createOrder(t, "")
	assert.Equal(t, 3, f.stock(t))

	_, err := f.svc.VerifyPayment(&dto.VerifyPaymentRequest{
		GatewayOrderID:   resp.GatewayOrderID,
		GatewayPaymentID: "pay_001",
		GatewaySignature: "deadbeef",
	})
	require.ErrorIs(t, err, ErrSignatureMismatch)

	order := f.reload(t, resp.Order.ID)
	assert.Equal(t, models.OrderFailed, order.OrderStatus)
	assert.Equal(t, models.PaymentFailed, order.PaymentStatus)
	assert.Equal(t, 5, f.stock(t))
	for _, item := range order.Items {
		assert.Equal(t, models.ItemCancelled, item.Status)
	}

	// Failed is terminal; cancelling must not restock again.
	_, err = f.svc.Cancel(context.Background(), auth.Identity{ID: f.buyer, Role: models.RoleBuyer}, order.ID)
	require.ErrorIs(t, err, ErrOrderNotCancellable)
	assert.Equal(t, 5, f.stock(t))
}

func TestCancelRefundFailureLeavesOrderUntouched(t *testing.T) {
	f := newOrderFixture(t)

	resp := f.createOrder(t, "")
	_, err := f.svc.VerifyPayment(f.verifyReq(resp, "pay_001"))
	require.NoError(t, err)

	f.gw.refundErr = errors.New("gateway down")
	_, err = f.svc.Cancel(context.Background(), auth.Identity{ID: f.buyer, Role: models.RoleBuyer}, resp.Order.ID)
	require.Error(t, err)

	order := f.reload(t, resp.Order.ID)
	assert.Equal(t, models.OrderProcessing, order.OrderStatus)
	assert.Equal(t, models.PaymentPaid, order.PaymentStatus)
	assert.Equal(t, 3, f.stock(t))

	// The order stays actionable: with the gateway back up the same
	// cancellation succeeds.
	f.gw.refundErr = nil
	cancelled, err := f.svc.Cancel(context.Background(), auth.Identity{ID: f.buyer, Role: models.RoleBuyer}, resp.Order.ID)
	require.NoError(t, err)
	assert.Equal(t, models.OrderCancelled, cancelled.OrderStatus)
	assert.Equal(t, models.PaymentRefunded, cancelled.PaymentStatus)
	assert.Equal(t, 5, f.stock(t))
}

func TestCancelShippedPaidOrderRefundsAndRestocks(t *testing.T) {
	f := newOrderFixture(t)

	resp := f.createOrder(t, "")
	_, err := f.svc.VerifyPayment(f.verifyReq(resp, "pay_001"))
	require.NoError(t, err)

	_, err = f.svc.UpdateStatus(resp.Order.ID, models.OrderShipped)
	require.NoError(t, err)
	assert.Equal(t, 3, f.stock(t))

	order, err := f.svc.Cancel(context.Background(), auth.Identity{ID: f.buyer, Role: models.RoleBuyer}, resp.Order.ID)
	require.NoError(t, err)
	assert.Equal(t, models.OrderCancelled, order.OrderStatus)
	assert.Equal(t, models.PaymentRefunded, order.PaymentStatus)
	assert.Equal(t, 5, f.stock(t))
	assert.Equal(t, []string{"pay_001"}, f.gw.refunded())
}

func TestUpdateStatusCancellingUnpaidOrderRestocks(t *testing.T) {
	f := newOrderFixture(t)

	resp := f.createOrder(t, "")
	assert.Equal(t, 3, f.stock(t))

	order, err := f.svc.UpdateStatus(resp.Order.ID, models.OrderCancelled)
	require.NoError(t, err)
	assert.Equal(t, models.OrderCancelled, order.OrderStatus)
	assert.Equal(t, 5, f.stock(t))
	for _, item := range order.Items {
		assert.Equal(t, models.ItemCancelled, item.Status)
	}

	// Re-applying the terminal status must not restock again.
	_, err = f.svc.UpdateStatus(resp.Order.ID, models.OrderCancelled)
	require.NoError(t, err)
	assert.Equal(t, 5, f.stock(t))
}

func TestDeleteReturnsUnpaidReservation(t *testing.T) {
	f := newOrderFixture(t)

	resp := f.createOrder(t, "")
	assert.Equal(t, 3, f.stock(t))

	require.NoError(t, f.svc.Delete(resp.Order.ID))
	assert.Equal(t, 5, f.stock(t))

	_, err := f.svc.Get(auth.Identity{ID: f.buyer, Role: models.RoleAdmin}, resp.Order.ID)
	require.ErrorIs(t, err, ErrOrderNotFound)

	var itemCount int64
	f.db.Model(&models.OrderItem{}).Where("order_id = ?", resp.Order.ID).Count(&itemCount)
	assert.Zero(t, itemCount)
}

func TestDeleteCancelledOrderDoesNotRestockTwice(t *testing.T) {
	f := newOrderFixture(t)

	resp := f.createOrder(t, "")
	_, err := f.svc.UpdateStatus(resp.Order.ID, models.OrderCancelled)
	require.NoError(t, err)
	assert.Equal(t, 5, f.stock(t))

	require.NoError(t, f.svc.Delete(resp.Order.ID))
	assert.Equal(t, 5, f.stock(t))
}

func TestDeletePaidOrderKeepsSoldStock(t *testing.T) {
	f := newOrderFixture(t)

	resp := f.createOrder(t, "")
	_, err := f.svc.VerifyPayment(f.verifyReq(resp, "pay_001"))
	require.NoError(t, err)

	require.NoError(t, f.svc.Delete(resp.Order.ID))
	assert.Equal(t, 3, f.stock(t))
}
