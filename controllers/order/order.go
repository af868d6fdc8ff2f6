package orderControllers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/anh-khoa-nguyen/OFOProject/cart"
	"github.com/anh-khoa-nguyen/OFOProject/controllers/payment"
	"github.com/anh-khoa-nguyen/OFOProject/models"
	"github.com/anh-khoa-nguyen/OFOProject/notification"
	"github.com/anh-khoa-nguyen/OFOProject/pricing"
)

var (
	ErrEmptyCart      = errors.New("cart is empty for this restaurant")
	ErrInvalidVoucher = errors.New("voucher is not applicable to this order")
	ErrOrderNotFound  = errors.New("order not found")
)

// -------- Request Structs --------

type CheckoutRequest struct {
	DeliveryAddress string  `json:"delivery_address" binding:"required"`
	Lat             float64 `json:"lat"`
	Lng             float64 `json:"lng"`
	Note            string  `json:"note"`
	VoucherIDs      []uint  `json:"voucher_ids"`
	PaymentMethod   string  `json:"payment_method" binding:"required,oneof=cash momo"`
}

// -------- Core Logic --------

type CreateOrderParams struct {
	UserID          uint
	RestaurantID    uint
	Partition       *cart.Partition
	DeliveryAddress string
	Note            string
	Subtotal        float64
	ShippingFee     float64
	Discount        float64
	VoucherIDs      []uint
	DeliveryMinutes int
	InitialStatus   models.OrderStatus
}

// CreateOrderFromCart persists an order, its line-item snapshots and the
// applied voucher links as one atomic unit. The total is recomputed here from
// the server-resolved amounts; nothing monetary is trusted from the request.
// On any failure the whole transaction rolls back and the caller leaves the
// cart partition untouched.
func CreateOrderFromCart(db *gorm.DB, p CreateOrderParams) (*models.Order, error) {
	if p.Partition == nil || len(p.Partition.Items) == 0 {
		return nil, ErrEmptyCart
	}

	details := make([]models.OrderDetail, 0, len(p.Partition.Items))
	for _, line := range p.Partition.Items {
		optionsJSON, err := json.Marshal(line.Options)
		if err != nil {
			return nil, err
		}
		details = append(details, models.OrderDetail{
			DishID:          line.DishID,
			DishName:        line.DishName,
			UnitPrice:       line.UnitPrice,
			Quantity:        line.Quantity,
			SelectedOptions: string(optionsJSON),
			Note:            line.Note,
		})
	}

	// The discount can never exceed what the order costs; the floor of the
	// total is a free order, not a payout.
	discount := p.Discount
	if discount > p.Subtotal+p.ShippingFee {
		discount = p.Subtotal + p.ShippingFee
	}

	eta := time.Now().Add(time.Duration(p.DeliveryMinutes) * time.Minute)
	order := models.Order{
		UserID:                p.UserID,
		RestaurantID:          p.RestaurantID,
		OrderDate:             time.Now(),
		Subtotal:              p.Subtotal,
		ShippingFee:           p.ShippingFee,
		Discount:              discount,
		Total:                 p.Subtotal + p.ShippingFee - discount,
		DeliveryAddress:       p.DeliveryAddress,
		Note:                  p.Note,
		Status:                p.InitialStatus,
		EstimatedDeliveryTime: &eta,
		DeliveryMinutes:       p.DeliveryMinutes,
		Details:               details,
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&order).Error; err != nil {
			return err
		}
		if len(p.VoucherIDs) == 0 {
			return nil
		}
		var vouchers []models.Voucher
		if err := tx.Where("id IN ? AND restaurant_id = ?", p.VoucherIDs, p.RestaurantID).
			Find(&vouchers).Error; err != nil {
			return err
		}
		if len(vouchers) != len(p.VoucherIDs) {
			return ErrInvalidVoucher
		}
		return tx.Model(&order).Association("Vouchers").Append(vouchers)
	})
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// -------- Handlers --------

// CheckoutHandler turns the session's cart partition for one restaurant into
// a durable order. Cash orders enter the flow at "pending"; gateway orders at
// "unpaid" with a redirect URL for the customer.
func CheckoutHandler(db *gorm.DB, store *cart.Store, hub *notification.Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		restaurantID, err := parseID(c.Param("restaurantID"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid restaurant id"})
			return
		}

		var req CheckoutRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		var restaurant models.Restaurant
		if err := db.First(&restaurant, "id = ? AND active = ?", restaurantID, true).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "restaurant not found"})
			return
		}

		sessionKey := sessionID(c)
		partition, ok := store.Partition(sessionKey, restaurantID)
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": ErrEmptyCart.Error()})
			return
		}

		subtotal := partition.Subtotal()
		distanceKm := pricing.Distance(restaurant.Lat, restaurant.Lng, req.Lat, req.Lng)
		shippingFee := pricing.EstimateShipping(distanceKm)
		deliveryMinutes := pricing.EstimatedDeliveryMinutes(distanceKm)

		var discount float64
		now := time.Now()
		for _, voucherID := range req.VoucherIDs {
			res, err := pricing.ResolveVoucherByID(db, voucherID, restaurantID, subtotal, now)
			if err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to validate voucher"})
				return
			}
			if !res.Valid {
				c.JSON(http.StatusBadRequest, gin.H{"error": res.Reason.Error()})
				return
			}
			discount += res.Discount
		}
		// Never discount below a free order.
		if discount > subtotal+shippingFee {
			discount = subtotal + shippingFee
		}

		initialStatus := models.OrderStatusPending
		if req.PaymentMethod == "momo" {
			initialStatus = models.OrderStatusUnpaid
		}

		order, err := CreateOrderFromCart(db, CreateOrderParams{
			UserID:          userID,
			RestaurantID:    restaurantID,
			Partition:       partition,
			DeliveryAddress: req.DeliveryAddress,
			Note:            req.Note,
			Subtotal:        subtotal,
			ShippingFee:     shippingFee,
			Discount:        discount,
			VoucherIDs:      req.VoucherIDs,
			DeliveryMinutes: deliveryMinutes,
			InitialStatus:   initialStatus,
		})
		if err != nil {
			if errors.Is(err, ErrInvalidVoucher) || errors.Is(err, ErrEmptyCart) {
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to place order, please try again"})
			return
		}

		// The order is durable; only now is the partition dropped.
		store.Clear(sessionKey, restaurantID)

		if req.PaymentMethod == "cash" {
			notification.PublishNewOrder(db, hub, order.ID)
			c.JSON(http.StatusCreated, order)
			return
		}

		record, err := paymentControllers.CreatePaymentRecord(db, order, "momo")
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create payment"})
			return
		}
		payURL, err := paymentControllers.CreateMomoPayment(db, record)
		if err != nil {
			// The order stays unpaid and retryable; only the gateway call failed.
			c.JSON(http.StatusBadGateway, gin.H{"error": err.Error(), "order_id": order.ID})
			return
		}
		c.JSON(http.StatusOK, gin.H{"pay_url": payURL, "order_id": order.ID})
	}
}

// GetUserOrdersHandler lists the authenticated user's orders, newest first.
func GetUserOrdersHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		var orders []models.Order
		if err := db.
			Where("user_id = ?", userID).
			Preload("Details").
			Preload("Vouchers").
			Order("order_date DESC").
			Find(&orders).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch orders"})
			return
		}
		c.JSON(http.StatusOK, orders)
	}
}

// GetRestaurantOrdersHandler lists a restaurant's orders for its operator.
func GetRestaurantOrdersHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		restaurantID, err := parseID(c.Param("restaurantID"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid restaurant id"})
			return
		}
		if !OperatorOwnsRestaurant(db, c, restaurantID) {
			c.JSON(http.StatusForbidden, gin.H{"error": "not an operator of this restaurant"})
			return
		}
		var orders []models.Order
		if err := db.
			Where("restaurant_id = ?", restaurantID).
			Preload("User").
			Preload("Details").
			Order("order_date DESC").
			Find(&orders).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch orders"})
			return
		}
		c.JSON(http.StatusOK, orders)
	}
}

// GetAllOrdersHandler lists every order (admin).
func GetAllOrdersHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var orders []models.Order
		if err := db.
			Preload("User").
			Preload("Details").
			Order("order_date DESC").
			Find(&orders).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch orders"})
			return
		}
		c.JSON(http.StatusOK, orders)
	}
}

// -------- Helpers --------

func currentUserID(c *gin.Context) (uint, bool) {
	val, exists := c.Get("user_id")
	if !exists {
		return 0, false
	}
	id, ok := val.(uint)
	return id, ok
}

// OperatorOwnsRestaurant reports whether the authenticated caller is the
// restaurant-role owner of the given restaurant. Admin access goes through
// the API-key routes, never through ownership.
func OperatorOwnsRestaurant(db *gorm.DB, c *gin.Context, restaurantID uint) bool {
	userID, ok := currentUserID(c)
	if !ok {
		return false
	}
	role, _ := c.Get("role")
	if role != string(models.RoleRestaurant) {
		return false
	}
	var restaurant models.Restaurant
	if err := db.First(&restaurant, restaurantID).Error; err != nil {
		return false
	}
	return restaurant.OwnerUserID == userID
}

// sessionID keys the cart store: the authenticated user id when present, a
// client-provided session header otherwise.
func sessionID(c *gin.Context) string {
	if id, ok := currentUserID(c); ok {
		return "user:" + strconv.FormatUint(uint64(id), 10)
	}
	return c.GetHeader("X-Session-ID")
}

func parseID(raw string) (uint, error) {
	id, err := strconv.ParseUint(raw, 10, 32)
	return uint(id), err
}
