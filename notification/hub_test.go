package notification

import (
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anh-khoa-nguyen/OFOProject/models"
	"github.com/anh-khoa-nguyen/OFOProject/testutil"
)

// fakeConn records every frame written to it.
type fakeConn struct {
	mu       sync.Mutex
	messages [][]byte
	failWith error
	closed   bool
}

func (f *fakeConn) WriteMessage(_ int, data []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failWith != nil {
		return f.failWith
	}
	buf := make([]byte, len(data))
	copy(buf, data)
	f.messages = append(f.messages, buf)
	return nil
}

func (f *fakeConn) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	return nil
}

func (f *fakeConn) received() [][]byte {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([][]byte(nil), f.messages...)
}

func TestPublishScopedToRestaurant(t *testing.T) {
	hub := NewHub()
	connA := &fakeConn{}
	connB := &fakeConn{}
	hub.Subscribe(1, connA)
	hub.Subscribe(2, connB)

	hub.Publish(1, Event{"type": "new_order", "order_id": 7})

	require.Len(t, connA.received(), 1)
	assert.Empty(t, connB.received())

	var got map[string]interface{}
	require.NoError(t, json.Unmarshal(connA.received()[0], &got))
	assert.Equal(t, "new_order", got["type"])
	assert.Equal(t, float64(7), got["order_id"])
}

func TestPublishReachesEverySubscriber(t *testing.T) {
	hub := NewHub()
	conns := []*fakeConn{{}, {}, {}}
	for _, c := range conns {
		hub.Subscribe(1, c)
	}

	hub.Publish(1, Event{"type": "order_status"})

	for _, c := range conns {
		assert.Len(t, c.received(), 1)
	}
}

func TestUnsubscribeStopsDelivery(t *testing.T) {
	hub := NewHub()
	conn := &fakeConn{}
	hub.Subscribe(1, conn)
	hub.Unsubscribe(1, conn)

	hub.Publish(1, Event{"type": "new_order"})

	assert.Empty(t, conn.received())
	assert.Zero(t, hub.Subscribers(1))
}

func TestFailedWriteDropsConnection(t *testing.T) {
	hub := NewHub()
	dead := &fakeConn{failWith: errors.New("broken pipe")}
	live := &fakeConn{}
	hub.Subscribe(1, dead)
	hub.Subscribe(1, live)

	hub.Publish(1, Event{"type": "new_order"})

	assert.True(t, dead.closed)
	assert.Equal(t, 1, hub.Subscribers(1))
	assert.Len(t, live.received(), 1)
}

func TestConcurrentJoinLeaveBroadcast(t *testing.T) {
	hub := NewHub()
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			conn := &fakeConn{}
			hub.Subscribe(1, conn)
			hub.Publish(1, Event{"type": "new_order"})
			hub.Unsubscribe(1, conn)
		}()
	}
	wg.Wait()
	assert.Zero(t, hub.Subscribers(1))
}

func TestFormatVND(t *testing.T) {
	assert.Equal(t, "100,000đ", FormatVND(100000))
	assert.Equal(t, "75,000đ", FormatVND(75000))
	assert.Equal(t, "1,215,000đ", FormatVND(1215000))
	assert.Equal(t, "500đ", FormatVND(500))
	assert.Equal(t, "0đ", FormatVND(0))
}

func TestPublishNewOrderPayload(t *testing.T) {
	db := testutil.OpenDB(t)
	user := models.User{Name: "Khach Hang", Email: "kh@test.com", Password: "x"}
	require.NoError(t, db.Create(&user).Error)
	owner := models.User{Name: "Chu Quan", Email: "cq@test.com", Password: "x", Role: models.RoleRestaurant}
	require.NoError(t, db.Create(&owner).Error)
	restaurant := models.Restaurant{RestaurantName: "Quan Noti", OwnerUserID: owner.ID, Active: true}
	require.NoError(t, db.Create(&restaurant).Error)

	makeOrder := func() *models.Order {
		order := models.Order{
			UserID: user.ID, RestaurantID: restaurant.ID,
			Subtotal: 100000, Total: 100000,
			DeliveryAddress: "123 ABC", Status: models.OrderStatusPending,
			OrderDate: time.Now(),
		}
		require.NoError(t, db.Create(&order).Error)
		return &order
	}
	first := makeOrder()
	second := makeOrder()
	_ = first

	hub := NewHub()
	conn := &fakeConn{}
	hub.Subscribe(restaurant.ID, conn)

	PublishNewOrder(db, hub, second.ID)

	require.Len(t, conn.received(), 1)
	var got map[string]interface{}
	require.NoError(t, json.Unmarshal(conn.received()[0], &got))
	assert.Equal(t, "new_order", got["type"])
	assert.Equal(t, float64(second.ID), got["order_id"])
	assert.Equal(t, float64(2), got["daily_order_number"])
	assert.Equal(t, "100,000đ", got["total"])
	assert.Equal(t, "Khach Hang", got["customer_name"])
}
