package notify

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/asaskevich/EventBus"
	"github.com/google/uuid"
	"github.com/jewelen/marketplace-backend/internal/models"
	"gorm.io/gorm"
)

const (
	TopicSale           = "order.sale"
	TopicOrderCancelled = "order.cancelled"
)

// SaleEvent is published once per line item of a successfully paid order.
type SaleEvent struct {
	OrderID     uuid.UUID
	SellerID    uuid.UUID
	ProductID   uuid.UUID
	ProductName string
	Quantity    int
	Amount      float64
}

// CancelEvent is published when an order is cancelled, once per seller
// with items in the order.
type CancelEvent struct {
	OrderID  uuid.UUID
	SellerID uuid.UUID
}

// Store persists notifications; split out so the hub can be exercised
// without a database.
type Store interface {
	Create(n *models.Notification) error
}

type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) Create(n *models.Notification) error {
	return s.db.Create(n).Error
}

// Hub persists seller notifications and fans them out over per-user
// channels for live delivery.
type Hub struct {
	bus   EventBus.Bus
	store Store

	mu   sync.RWMutex
	subs map[uuid.UUID]map[chan models.Notification]struct{}
}

func NewHub(store Store) *Hub {
	h := &Hub{
		bus:   EventBus.New(),
		store: store,
		subs:  make(map[uuid.UUID]map[chan models.Notification]struct{}),
	}
	if err := h.bus.Subscribe(TopicSale, h.handleSale); err != nil {
		slog.Error("failed to subscribe to sale topic", "error", err)
	}
	if err := h.bus.Subscribe(TopicOrderCancelled, h.handleCancel); err != nil {
		slog.Error("failed to subscribe to cancel topic", "error", err)
	}
	return h
}

func (h *Hub) PublishSale(ev SaleEvent) {
	h.bus.Publish(TopicSale, ev)
}

func (h *Hub) PublishCancelled(ev CancelEvent) {
	h.bus.Publish(TopicOrderCancelled, ev)
}

// Subscribe registers a live channel for the user. The returned cancel
// func must be called when the consumer goes away.
func (h *Hub) Subscribe(userID uuid.UUID) (<-chan models.Notification, func()) {
	ch := make(chan models.Notification, 8)

	h.mu.Lock()
	if h.subs[userID] == nil {
		h.subs[userID] = make(map[chan models.Notification]struct{})
	}
	h.subs[userID][ch] = struct{}{}
	h.mu.Unlock()

	cancel := func() {
		h.mu.Lock()
		delete(h.subs[userID], ch)
		if len(h.subs[userID]) == 0 {
			delete(h.subs, userID)
		}
		h.mu.Unlock()
	}
	return ch, cancel
}

func (h *Hub) handleSale(ev SaleEvent) {
	orderID := ev.OrderID
	n := models.Notification{
		ID:      uuid.New(),
		UserID:  ev.SellerID,
		Type:    models.NotificationSale,
		Message: fmt.Sprintf("You sold %d x %s", ev.Quantity, ev.ProductName),
		OrderID: &orderID,
	}
	h.deliver(n)
}

func (h *Hub) handleCancel(ev CancelEvent) {
	orderID := ev.OrderID
	n := models.Notification{
		ID:      uuid.New(),
		UserID:  ev.SellerID,
		Type:    models.NotificationOrderCancelled,
		Message: fmt.Sprintf("Order %s was cancelled", ev.OrderID),
		OrderID: &orderID,
	}
	h.deliver(n)
}

func (h *Hub) deliver(n models.Notification) {
	if err := h.store.Create(&n); err != nil {
		slog.Error("failed to persist notification", "error", err, "user_id", n.UserID)
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for ch := range h.subs[n.UserID] {
		select {
		case ch <- n:
		default: // slow consumer, drop rather than block the workflow
		}
	}
}
