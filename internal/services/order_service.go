package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/google/uuid"
	"github.com/jewelen/marketplace-backend/internal/auth"
	"github.com/jewelen/marketplace-backend/internal/config"
	"github.com/jewelen/marketplace-backend/internal/dto"
	"github.com/jewelen/marketplace-backend/internal/models"
	"github.com/jewelen/marketplace-backend/internal/notify"
	"github.com/jewelen/marketplace-backend/internal/payment"
	"gorm.io/gorm"
)

var (
	ErrOrderNotFound       = errors.New("order not found")
	ErrAddressNotFound     = errors.New("address not found")
	ErrEmptyOrder          = errors.New("order has no items")
	ErrZeroAmount          = errors.New("order amount must be greater than zero")
	ErrSignatureMismatch   = errors.New("payment signature verification failed")
	ErrAlreadyVerified     = errors.New("payment already verified")
	ErrOrderNotCancellable = errors.New("order can no longer be cancelled")
	ErrItemNotFound        = errors.New("order item not found")
)

type OrderService struct {
	db      *gorm.DB
	cfg     *config.Config
	gateway payment.Gateway
	coupons *CouponService
	hub     *notify.Hub
	node    *snowflake.Node
}

func NewOrderService(db *gorm.DB, cfg *config.Config, gw payment.Gateway, coupons *CouponService, hub *notify.Hub, node *snowflake.Node) *OrderService {
	return &OrderService{db: db, cfg: cfg, gateway: gw, coupons: coupons, hub: hub, node: node}
}

// Create builds an order from live catalog prices, reserves stock and
// opens a payment intent at the gateway. Client-supplied amounts are
// never consulted: the total is recomputed here from scratch.
func (s *OrderService) Create(ctx context.Context, userID uuid.UUID, req *dto.CreateOrderRequest) (*dto.CreateOrderResponse, error) {
	if len(req.Items) == 0 {
		return nil, ErrEmptyOrder
	}

	addressID, err := uuid.Parse(req.AddressID)
	if err != nil {
		return nil, ErrAddressNotFound
	}
	var address models.Address
	if err := s.db.First(&address, "id = ? AND user_id = ?", addressID, userID).Error; err != nil {
		return nil, ErrAddressNotFound
	}

	type line struct {
		product  models.Product
		quantity int
	}
	lines := make([]line, 0, len(req.Items))
	var total float64
	for _, item := range req.Items {
		productID, err := uuid.Parse(item.ProductID)
		if err != nil {
			return nil, ErrProductNotFound
		}
		var product models.Product
		err = s.db.First(&product, "id = ? AND status = ?", productID, models.ProductApproved).Error
		if err != nil {
			return nil, ErrProductNotFound
		}
		if product.StockQuantity < item.Quantity {
			return nil, fmt.Errorf("%w: %s", ErrInsufficientStock, product.Name)
		}
		lines = append(lines, line{product: product, quantity: item.Quantity})
		total += product.Price * float64(item.Quantity)
	}
	total = math.Round(total*100) / 100

	var discount float64
	var couponCode *string
	if req.CouponCode != "" {
		coupon, err := s.coupons.byCode(req.CouponCode)
		if err != nil {
			return nil, err
		}
		if err := CheckRedeemable(coupon, total, time.Now()); err != nil {
			return nil, err
		}
		discount = ComputeDiscount(coupon, total)
		couponCode = &coupon.Code
	}

	final := total - discount
	if final <= 0 {
		return nil, ErrZeroAmount
	}

	receipt := "rcpt_" + s.node.Generate().String()
	intent, err := s.gateway.CreateIntent(ctx, payment.MinorUnits(final), s.cfg.Currency, receipt)
	if err != nil {
		return nil, fmt.Errorf("failed to create payment intent: %w", err)
	}

	order := models.Order{
		ID:             uuid.New(),
		UserID:         userID,
		AddressID:      addressID,
		TotalAmount:    total,
		CouponCode:     couponCode,
		DiscountAmount: discount,
		OrderStatus:    models.OrderPending,
		PaymentStatus:  models.PaymentPending,
		GatewayOrderID: intent.ID,
		Receipt:        receipt,
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		for _, l := range lines {
			// Guarded decrement so two concurrent orders cannot both
			// take the last unit.
			res := tx.Model(&models.Product{}).
				Where("id = ? AND stock_quantity >= ?", l.product.ID, l.quantity).
				UpdateColumn("stock_quantity", gorm.Expr("stock_quantity - ?", l.quantity))
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return fmt.Errorf("%w: %s", ErrInsufficientStock, l.product.Name)
			}
		}

		if err := tx.Create(&order).Error; err != nil {
			return err
		}

		items := make([]models.OrderItem, 0, len(lines))
		for _, l := range lines {
			items = append(items, models.OrderItem{
				ID:           uuid.New(),
				OrderID:      order.ID,
				ProductID:    l.product.ID,
				SellerID:     l.product.SellerID,
				Quantity:     l.quantity,
				PriceAtOrder: l.product.Price,
				Status:       models.ItemProcessing,
			})
		}
		return tx.Create(&items).Error
	})
	if err != nil {
		return nil, err
	}

	loaded, err := s.getByID(order.ID)
	if err != nil {
		return nil, err
	}

	return &dto.CreateOrderResponse{
		Success:        true,
		Order:          *loaded,
		GatewayOrderID: intent.ID,
		GatewayKeyID:   s.cfg.GatewayKeyID,
		Amount:         intent.Amount,
		Currency:       intent.Currency,
	}, nil
}

// VerifyPayment confirms the gateway callback. The signature check is
// constant-time; the Pending -> Paid transition is a compare-and-set so
// a replayed callback can never re-run the side effects. Replays of an
// already verified payment return ErrAlreadyVerified, which handlers
// treat as success. A signature mismatch fails the order and releases
// its stock reservation, leaving the catalog as if the order had never
// been placed.
func (s *OrderService) VerifyPayment(req *dto.VerifyPaymentRequest) (*models.Order, error) {
	var order models.Order
	err := s.db.Preload("Items").Where("gateway_order_id = ?", req.GatewayOrderID).First(&order).Error
	if err != nil {
		return nil, ErrOrderNotFound
	}

	if !payment.VerifySignature(req.GatewayOrderID, req.GatewayPaymentID, req.GatewaySignature, s.cfg.GatewaySecret) {
		err := s.db.Transaction(func(tx *gorm.DB) error {
			res := tx.Model(&models.Order{}).
				Where("gateway_order_id = ? AND payment_status = ?", req.GatewayOrderID, models.PaymentPending).
				Updates(map[string]interface{}{
					"payment_status": models.PaymentFailed,
					"order_status":   models.OrderFailed,
				})
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return nil
			}
			if err := restockItems(tx, order.Items); err != nil {
				return err
			}
			return tx.Model(&models.OrderItem{}).
				Where("order_id = ?", order.ID).
				Update("status", models.ItemCancelled).Error
		})
		if err != nil {
			return nil, fmt.Errorf("failed to record failed payment: %w", err)
		}
		return nil, ErrSignatureMismatch
	}

	var verified bool
	err = s.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Order{}).
			Where("gateway_order_id = ? AND payment_status = ?", req.GatewayOrderID, models.PaymentPending).
			Updates(map[string]interface{}{
				"payment_status":     models.PaymentPaid,
				"order_status":       models.OrderProcessing,
				"gateway_payment_id": req.GatewayPaymentID,
				"gateway_signature":  req.GatewaySignature,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return nil
		}
		verified = true

		if order.CouponCode != nil {
			if err := s.coupons.Redeem(tx, *order.CouponCode); err != nil {
				return err
			}
		}
		return tx.Where("user_id = ?", order.UserID).Delete(&models.CartItem{}).Error
	})
	if err != nil {
		return nil, fmt.Errorf("failed to record payment: %w", err)
	}

	loaded, err := s.getByID(order.ID)
	if err != nil {
		return nil, err
	}
	if !verified {
		if loaded.PaymentStatus == models.PaymentPaid {
			return loaded, ErrAlreadyVerified
		}
		return nil, ErrOrderNotFound
	}

	for _, item := range loaded.Items {
		var product models.Product
		name := "item"
		if s.db.First(&product, "id = ?", item.ProductID).Error == nil {
			name = product.Name
		}
		s.hub.PublishSale(notify.SaleEvent{
			OrderID:     loaded.ID,
			SellerID:    item.SellerID,
			ProductID:   item.ProductID,
			ProductName: name,
			Quantity:    item.Quantity,
			Amount:      item.PriceAtOrder * float64(item.Quantity),
		})
	}
	return loaded, nil
}

// Cancel aborts any order that has not reached a terminal state, up to
// and including one already shipped. Paid orders are refunded first; if
// the refund fails the order is left untouched. Reserved stock is
// returned either way.
func (s *OrderService) Cancel(ctx context.Context, ident auth.Identity, orderID uuid.UUID) (*models.Order, error) {
	order, err := s.getByID(orderID)
	if err != nil {
		return nil, err
	}
	if !auth.CanAccess(ident, auth.OrderResource(order.UserID), auth.ActionUpdate) {
		return nil, ErrForbidden
	}
	switch order.OrderStatus {
	case models.OrderCancelled, models.OrderDelivered, models.OrderFailed:
		return nil, ErrOrderNotCancellable
	}
	if order.PaymentStatus == models.PaymentRefunded {
		return nil, ErrOrderNotCancellable
	}

	refunded := false
	if order.PaymentStatus == models.PaymentPaid {
		amount := payment.MinorUnits(order.FinalAmount())
		if err := s.gateway.Refund(ctx, order.GatewayPaymentID, amount); err != nil {
			return nil, fmt.Errorf("refund failed, order unchanged: %w", err)
		}
		refunded = true
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		updates := map[string]interface{}{"order_status": models.OrderCancelled}
		if refunded {
			updates["payment_status"] = models.PaymentRefunded
		}
		if err := tx.Model(&models.Order{}).Where("id = ?", orderID).Updates(updates).Error; err != nil {
			return err
		}

		if err := restockItems(tx, order.Items); err != nil {
			return err
		}

		return tx.Model(&models.OrderItem{}).
			Where("order_id = ?", orderID).
			Update("status", models.ItemCancelled).Error
	})
	if err != nil {
		return nil, fmt.Errorf("failed to cancel order: %w", err)
	}

	sellers := map[uuid.UUID]struct{}{}
	for _, item := range order.Items {
		if _, seen := sellers[item.SellerID]; seen {
			continue
		}
		sellers[item.SellerID] = struct{}{}
		s.hub.PublishCancelled(notify.CancelEvent{OrderID: orderID, SellerID: item.SellerID})
	}

	return s.getByID(orderID)
}

// restockItems returns each line item's quantity to its product.
func restockItems(tx *gorm.DB, items []models.OrderItem) error {
	for _, item := range items {
		err := tx.Model(&models.Product{}).
			Where("id = ?", item.ProductID).
			UpdateColumn("stock_quantity", gorm.Expr("stock_quantity + ?", item.Quantity)).Error
		if err != nil {
			return err
		}
	}
	return nil
}

func (s *OrderService) getByID(id uuid.UUID) (*models.Order, error) {
	var order models.Order
	if err := s.db.Preload("Items").First(&order, "id = ?", id).Error; err != nil {
		return nil, ErrOrderNotFound
	}
	return &order, nil
}

// Get returns one order; buyers only see their own.
func (s *OrderService) Get(ident auth.Identity, id uuid.UUID) (*models.Order, error) {
	order, err := s.getByID(id)
	if err != nil {
		return nil, err
	}
	if !auth.CanAccess(ident, auth.OrderResource(order.UserID), auth.ActionRead) {
		return nil, ErrForbidden
	}
	return order, nil
}

func (s *OrderService) MyOrders(userID uuid.UUID) ([]models.Order, error) {
	var orders []models.Order
	err := s.db.Preload("Items").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&orders).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	return orders, nil
}

// SellerOrders lists paid orders containing at least one of the seller's
// items, with the item list trimmed to that seller.
func (s *OrderService) SellerOrders(sellerID uuid.UUID) ([]models.Order, error) {
	var items []models.OrderItem
	err := s.db.Where("seller_id = ?", sellerID).Order("created_at DESC").Find(&items).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list seller items: %w", err)
	}

	byOrder := map[uuid.UUID][]models.OrderItem{}
	orderIDs := make([]uuid.UUID, 0)
	for _, item := range items {
		if _, seen := byOrder[item.OrderID]; !seen {
			orderIDs = append(orderIDs, item.OrderID)
		}
		byOrder[item.OrderID] = append(byOrder[item.OrderID], item)
	}
	if len(orderIDs) == 0 {
		return []models.Order{}, nil
	}

	var orders []models.Order
	err = s.db.Where("id IN ? AND payment_status = ?", orderIDs, models.PaymentPaid).
		Order("created_at DESC").
		Find(&orders).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list seller orders: %w", err)
	}
	for i := range orders {
		orders[i].Items = byOrder[orders[i].ID]
	}
	return orders, nil
}

func (s *OrderService) AllOrders() ([]models.Order, error) {
	var orders []models.Order
	err := s.db.Preload("Items").Order("created_at DESC").Find(&orders).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	return orders, nil
}

// UpdateStatus is the admin override for the order-level state. Forcing
// an unpaid order into a terminal state releases its stock reservation;
// paid orders keep theirs, and cancellation with a refund goes through
// Cancel.
func (s *OrderService) UpdateStatus(id uuid.UUID, status models.OrderStatus) (*models.Order, error) {
	if !models.ValidOrderStatus(status) {
		return nil, fmt.Errorf("invalid order status %q", status)
	}
	order, err := s.getByID(id)
	if err != nil {
		return nil, err
	}

	terminal := status == models.OrderCancelled || status == models.OrderFailed
	wasTerminal := order.OrderStatus == models.OrderCancelled || order.OrderStatus == models.OrderFailed
	releasing := terminal && !wasTerminal

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if releasing {
			// Guard on the payment state so a verification landing
			// between the read and this update cannot cause a restock
			// of sold units.
			res := tx.Model(&models.Order{}).
				Where("id = ? AND payment_status IN ?", id,
					[]models.PaymentStatus{models.PaymentPending, models.PaymentFailed}).
				Update("order_status", status)
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 1 {
				if err := restockItems(tx, order.Items); err != nil {
					return err
				}
				return tx.Model(&models.OrderItem{}).
					Where("order_id = ?", id).
					Update("status", models.ItemCancelled).Error
			}
		}
		return tx.Model(&models.Order{}).Where("id = ?", id).Update("order_status", status).Error
	})
	if err != nil {
		return nil, fmt.Errorf("failed to update order status: %w", err)
	}
	return s.getByID(id)
}

// Delete hard-removes an order and its items. An order still waiting on
// payment holds a stock reservation, which is returned first; cancelled
// and failed orders already released theirs.
func (s *OrderService) Delete(id uuid.UUID) error {
	order, err := s.getByID(id)
	if err != nil {
		return err
	}
	reserved := order.PaymentStatus == models.PaymentPending &&
		order.OrderStatus != models.OrderCancelled && order.OrderStatus != models.OrderFailed
	err = s.db.Transaction(func(tx *gorm.DB) error {
		if reserved {
			if err := restockItems(tx, order.Items); err != nil {
				return err
			}
		}
		if err := tx.Where("order_id = ?", id).Delete(&models.OrderItem{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Order{}, "id = ?", id).Error
	})
	if err != nil {
		return fmt.Errorf("failed to delete order: %w", err)
	}
	return nil
}

// UpdateItemStatus lets the owning seller move one line item through
// fulfillment. Admins may touch any item.
func (s *OrderService) UpdateItemStatus(ident auth.Identity, itemID uuid.UUID, status models.ItemStatus) (*models.OrderItem, error) {
	if !models.ValidItemStatus(status) {
		return nil, fmt.Errorf("invalid item status %q", status)
	}

	var item models.OrderItem
	if err := s.db.First(&item, "id = ?", itemID).Error; err != nil {
		return nil, ErrItemNotFound
	}
	if !auth.CanAccess(ident, auth.OrderResource(item.SellerID), auth.ActionUpdate) {
		return nil, ErrForbidden
	}

	if err := s.db.Model(&item).Update("status", status).Error; err != nil {
		return nil, fmt.Errorf("failed to update item status: %w", err)
	}
	item.Status = status
	return &item, nil
}

// InvoiceData gathers everything the PDF renderer needs for one order.
// Only paid orders have invoices.
func (s *OrderService) InvoiceData(ident auth.Identity, orderID uuid.UUID) (*models.Order, *models.User, *models.Address, map[string]models.Product, error) {
	order, err := s.getByID(orderID)
	if err != nil {
		return nil, nil, nil, nil, err
	}
	if !auth.CanAccess(ident, auth.OrderResource(order.UserID), auth.ActionRead) {
		return nil, nil, nil, nil, ErrForbidden
	}
	if order.PaymentStatus != models.PaymentPaid && order.PaymentStatus != models.PaymentRefunded {
		return nil, nil, nil, nil, ErrOrderNotFound
	}

	var buyer models.User
	if err := s.db.First(&buyer, "id = ?", order.UserID).Error; err != nil {
		return nil, nil, nil, nil, ErrUserNotFound
	}
	var address models.Address
	if err := s.db.First(&address, "id = ?", order.AddressID).Error; err != nil {
		return nil, nil, nil, nil, ErrAddressNotFound
	}

	products := map[string]models.Product{}
	for _, item := range order.Items {
		var p models.Product
		if s.db.First(&p, "id = ?", item.ProductID).Error == nil {
			products[item.ProductID.String()] = p
		}
	}
	return order, &buyer, &address, products, nil
}
