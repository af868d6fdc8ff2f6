package orderControllers

import (
	"encoding/json"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anh-khoa-nguyen/OFOProject/models"
	"github.com/anh-khoa-nguyen/OFOProject/notification"
)

type recordingConn struct {
	mu       sync.Mutex
	messages [][]byte
	closed   bool
}

func (c *recordingConn) WriteMessage(_ int, data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	copied := make([]byte, len(data))
	copy(copied, data)
	c.messages = append(c.messages, copied)
	return nil
}

func (c *recordingConn) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	return nil
}

func (c *recordingConn) events(t *testing.T) []notification.Event {
	t.Helper()
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]notification.Event, 0, len(c.messages))
	for _, raw := range c.messages {
		var ev notification.Event
		require.NoError(t, json.Unmarshal(raw, &ev))
		out = append(out, ev)
	}
	return out
}

func (f *fixture) createOrder(t *testing.T, status models.OrderStatus) *models.Order {
	t.Helper()
	order, err := CreateOrderFromCart(f.db, CreateOrderParams{
		UserID:          f.user.ID,
		RestaurantID:    f.restaurant.ID,
		Partition:       f.partition(1),
		DeliveryAddress: "123 Test Street",
		Subtotal:        30000,
		ShippingFee:     15000,
		InitialStatus:   status,
	})
	require.NoError(t, err)
	return order
}

func TestAdvanceOrderStatusOneStep(t *testing.T) {
	f := setup(t)
	hub := notification.NewHub()
	conn := &recordingConn{}
	hub.Subscribe(f.restaurant.ID, conn)

	order := f.createOrder(t, models.OrderStatusPending)

	updated, err := AdvanceOrderStatus(f.db, hub, order.ID, models.OrderStatusConfirmed)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusConfirmed, updated.Status)

	var stored models.Order
	require.NoError(t, f.db.First(&stored, order.ID).Error)
	assert.Equal(t, models.OrderStatusConfirmed, stored.Status)

	events := conn.events(t)
	require.Len(t, events, 1)
	assert.Equal(t, "order_status", events[0]["type"])
	assert.Equal(t, "confirmed", events[0]["status"])
}

func TestAdvanceOrderStatusFullFlow(t *testing.T) {
	f := setup(t)
	hub := notification.NewHub()
	order := f.createOrder(t, models.OrderStatusPending)

	for _, target := range []models.OrderStatus{
		models.OrderStatusConfirmed,
		models.OrderStatusDelivering,
		models.OrderStatusCompleted,
	} {
		updated, err := AdvanceOrderStatus(f.db, hub, order.ID, target)
		require.NoError(t, err)
		assert.Equal(t, target, updated.Status)
	}
}

func TestAdvanceOrderStatusRejectsSkip(t *testing.T) {
	f := setup(t)
	hub := notification.NewHub()
	conn := &recordingConn{}
	hub.Subscribe(f.restaurant.ID, conn)

	order := f.createOrder(t, models.OrderStatusPending)

	// pending -> delivering skips "confirmed".
	_, err := AdvanceOrderStatus(f.db, hub, order.ID, models.OrderStatusDelivering)
	assert.ErrorIs(t, err, ErrIllegalTransition)

	var stored models.Order
	require.NoError(t, f.db.First(&stored, order.ID).Error)
	assert.Equal(t, models.OrderStatusPending, stored.Status)
	assert.Empty(t, conn.events(t))
}

func TestAdvanceOrderStatusRejectsBackward(t *testing.T) {
	f := setup(t)
	hub := notification.NewHub()
	order := f.createOrder(t, models.OrderStatusConfirmed)

	// "pending" is only ever entered via payment confirmation or checkout.
	_, err := AdvanceOrderStatus(f.db, hub, order.ID, models.OrderStatusPending)
	assert.ErrorIs(t, err, ErrIllegalTransition)
}

func TestAdvanceOrderStatusUnpaidNotConfirmable(t *testing.T) {
	f := setup(t)
	hub := notification.NewHub()
	order := f.createOrder(t, models.OrderStatusUnpaid)

	_, err := AdvanceOrderStatus(f.db, hub, order.ID, models.OrderStatusConfirmed)
	assert.ErrorIs(t, err, ErrIllegalTransition)
}

func TestAdvanceOrderStatusMissingOrder(t *testing.T) {
	f := setup(t)
	hub := notification.NewHub()

	_, err := AdvanceOrderStatus(f.db, hub, 9999, models.OrderStatusConfirmed)
	assert.ErrorIs(t, err, ErrOrderNotFound)
}
