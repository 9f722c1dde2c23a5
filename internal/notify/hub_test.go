package notify

import (
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jewelen/marketplace-backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memStore struct {
	mu      sync.Mutex
	created []models.Notification
}

func (s *memStore) Create(n *models.Notification) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.created = append(s.created, *n)
	return nil
}

func (s *memStore) all() []models.Notification {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.Notification(nil), s.created...)
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("condition not met in time")
}

func TestHubPersistsSale(t *testing.T) {
	store := &memStore{}
	hub := NewHub(store)

	sellerID := uuid.New()
	hub.PublishSale(SaleEvent{
		OrderID:     uuid.New(),
		SellerID:    sellerID,
		ProductID:   uuid.New(),
		ProductName: "Gold Ring",
		Quantity:    2,
		Amount:      1999,
	})

	waitFor(t, func() bool { return len(store.all()) == 1 })

	n := store.all()[0]
	assert.Equal(t, sellerID, n.UserID)
	assert.Equal(t, models.NotificationSale, n.Type)
	assert.Contains(t, n.Message, "Gold Ring")
	require.NotNil(t, n.OrderID)
}

func TestHubDeliversToSubscriber(t *testing.T) {
	store := &memStore{}
	hub := NewHub(store)

	sellerID := uuid.New()
	ch, cancel := hub.Subscribe(sellerID)
	defer cancel()

	hub.PublishCancelled(CancelEvent{OrderID: uuid.New(), SellerID: sellerID})

	select {
	case n := <-ch:
		assert.Equal(t, models.NotificationOrderCancelled, n.Type)
		assert.Equal(t, sellerID, n.UserID)
	case <-time.After(2 * time.Second):
		t.Fatal("no notification delivered")
	}
}

func TestHubIgnoresOtherUsers(t *testing.T) {
	store := &memStore{}
	hub := NewHub(store)

	ch, cancel := hub.Subscribe(uuid.New())
	defer cancel()

	hub.PublishCancelled(CancelEvent{OrderID: uuid.New(), SellerID: uuid.New()})

	waitFor(t, func() bool { return len(store.all()) == 1 })

	select {
	case <-ch:
		t.Fatal("notification delivered to the wrong subscriber")
	default:
	}
}

func TestHubCancelUnsubscribes(t *testing.T) {
	store := &memStore{}
	hub := NewHub(store)

	sellerID := uuid.New()
	ch, cancel := hub.Subscribe(sellerID)
	cancel()

	hub.PublishCancelled(CancelEvent{OrderID: uuid.New(), SellerID: sellerID})
	waitFor(t, func() bool { return len(store.all()) == 1 })

	select {
	case <-ch:
		t.Fatal("notification delivered after cancel")
	default:
	}
}
