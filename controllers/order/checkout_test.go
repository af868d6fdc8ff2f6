package orderControllers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anh-khoa-nguyen/OFOProject/cart"
	"github.com/anh-khoa-nguyen/OFOProject/models"
	"github.com/anh-khoa-nguyen/OFOProject/notification"
)

func TestCreateOrderFromCartDiscountCapped(t *testing.T) {
	f := setup(t)

	// An 80,000 discount against a 75,000 order can only zero the total,
	// never push it negative.
	order, err := CreateOrderFromCart(f.db, CreateOrderParams{
		UserID:          f.user.ID,
		RestaurantID:    f.restaurant.ID,
		Partition:       f.partition(2),
		DeliveryAddress: "123 Test Street",
		Subtotal:        60000,
		ShippingFee:     15000,
		Discount:        80000,
		InitialStatus:   models.OrderStatusPending,
	})
	require.NoError(t, err)
	assert.Equal(t, float64(75000), order.Discount)
	assert.Zero(t, order.Total)

	var stored models.Order
	require.NoError(t, f.db.First(&stored, order.ID).Error)
	assert.Zero(t, stored.Total)
}

func checkoutRouter(f *fixture, store *cart.Store, hub *notification.Hub) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/checkout/:restaurantID", func(c *gin.Context) {
		c.Set("user_id", f.user.ID)
	}, CheckoutHandler(f.db, store, hub))
	return r
}

func (f *fixture) postCheckout(t *testing.T, r *gin.Engine, body gin.H) *httptest.ResponseRecorder {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost,
		fmt.Sprintf("/checkout/%d", f.restaurant.ID), bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestCheckoutDiscountFloorsAtFreeOrder(t *testing.T) {
	f := setup(t)
	store := cart.NewStore()
	hub := notification.NewHub()
	r := checkoutRouter(f, store, hub)

	session := fmt.Sprintf("user:%d", f.user.ID)
	store.AddItem(session, f.restaurant.ID, f.restaurant.RestaurantName, "", cart.Line{
		DishID:    f.dish.ID,
		DishName:  f.dish.Name,
		UnitPrice: f.dish.Price,
		Quantity:  2,
	})

	// Two flat 40,000 vouchers together exceed the 75,000 order cost.
	now := time.Now()
	var voucherIDs []uint
	for _, code := range []string{"FLAT40A", "FLAT40B"} {
		v := models.Voucher{
			Code: code, Limit: 40000, RestaurantID: f.restaurant.ID,
			StartDate: now.Add(-time.Hour), EndDate: now.Add(time.Hour), Active: true,
		}
		require.NoError(t, f.db.Create(&v).Error)
		voucherIDs = append(voucherIDs, v.ID)
	}

	w := f.postCheckout(t, r, gin.H{
		"delivery_address": "123 Test Street",
		"lat":              f.restaurant.Lat,
		"lng":              f.restaurant.Lng,
		"voucher_ids":      voucherIDs,
		"payment_method":   "cash",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var resp struct {
		ID       uint    `json:"id"`
		Subtotal float64 `json:"subtotal"`
		Discount float64 `json:"discount"`
		Total    float64 `json:"total"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, float64(60000), resp.Subtotal)
	assert.Equal(t, float64(75000), resp.Discount)
	assert.Zero(t, resp.Total)

	var stored models.Order
	require.NoError(t, f.db.First(&stored, resp.ID).Error)
	assert.Zero(t, stored.Total)
	assert.Equal(t, models.OrderStatusPending, stored.Status)

	// The partition is gone once the order is durable.
	_, ok := store.Partition(session, f.restaurant.ID)
	assert.False(t, ok)
}

func TestCheckoutRejectsEmptyCart(t *testing.T) {
	f := setup(t)
	r := checkoutRouter(f, cart.NewStore(), notification.NewHub())

	w := f.postCheckout(t, r, gin.H{
		"delivery_address": "123 Test Street",
		"payment_method":   "cash",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func operatorContext(t *testing.T, userID uint, role models.UserRole) *gin.Context {
	t.Helper()
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Set("user_id", userID)
	c.Set("role", string(role))
	return c
}

func TestOperatorOwnsRestaurant(t *testing.T) {
	f := setup(t)

	var owner models.User
	require.NoError(t, f.db.First(&owner, f.restaurant.OwnerUserID).Error)

	assert.True(t, OperatorOwnsRestaurant(f.db,
		operatorContext(t, owner.ID, models.RoleRestaurant), f.restaurant.ID))

	// Wrong user, wrong role, and admin tokens are all refused; admin access
	// runs through the API-key routes instead.
	assert.False(t, OperatorOwnsRestaurant(f.db,
		operatorContext(t, f.user.ID, models.RoleRestaurant), f.restaurant.ID))
	assert.False(t, OperatorOwnsRestaurant(f.db,
		operatorContext(t, owner.ID, models.RoleUser), f.restaurant.ID))
	assert.False(t, OperatorOwnsRestaurant(f.db,
		operatorContext(t, owner.ID, models.RoleAdmin), f.restaurant.ID))
}
