package orderControllers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/anh-khoa-nguyen/OFOProject/models"
	"github.com/anh-khoa-nguyen/OFOProject/notification"
)

var ErrIllegalTransition = errors.New("illegal order status transition")

// Operator-driven transitions move exactly one step along the linear flow.
// Entry into "pending" happens via payment confirmation (or cash checkout),
// never through this map.
var previousStatus = map[models.OrderStatus]models.OrderStatus{
	models.OrderStatusConfirmed:  models.OrderStatusPending,
	models.OrderStatusDelivering: models.OrderStatusConfirmed,
	models.OrderStatusCompleted:  models.OrderStatusDelivering,
}

type UpdateOrderStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

func mapOrderStatus(status string) (models.OrderStatus, error) {
	switch strings.ToLower(status) {
	case string(models.OrderStatusUnpaid):
		return models.OrderStatusUnpaid, nil
	case string(models.OrderStatusPending):
		return models.OrderStatusPending, nil
	case string(models.OrderStatusConfirmed):
		return models.OrderStatusConfirmed, nil
	case string(models.OrderStatusDelivering):
		return models.OrderStatusDelivering, nil
	case string(models.OrderStatusCompleted):
		return models.OrderStatusCompleted, nil
	default:
		return "", errors.New("invalid order status")
	}
}

// AdvanceOrderStatus applies one operator-driven step of the order state
// machine. The conditional update on the expected predecessor makes the
// check-and-set atomic: with two concurrent writers only one row update wins,
// the other sees zero rows and reports an illegal transition. The
// notification goes out only after the update is committed.
func AdvanceOrderStatus(db *gorm.DB, hub *notification.Hub, orderID uint, target models.OrderStatus) (*models.Order, error) {
	expected, ok := previousStatus[target]
	if !ok {
		return nil, ErrIllegalTransition
	}

	res := db.Model(&models.Order{}).
		Where("id = ? AND order_status = ?", orderID, expected).
		Update("order_status", target)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		var order models.Order
		if err := db.First(&order, orderID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrOrderNotFound
			}
			return nil, err
		}
		return nil, ErrIllegalTransition
	}

	var order models.Order
	if err := db.First(&order, orderID).Error; err != nil {
		return nil, err
	}
	notification.PublishStatusChange(hub, &order)
	return &order, nil
}

// UpdateOrderStatusHandler lets a restaurant operator move one of its orders
// one step forward.
func UpdateOrderStatusHandler(db *gorm.DB, hub *notification.Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		orderID, err := parseID(c.Param("orderID"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid order id"})
			return
		}
		var req UpdateOrderStatusRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		target, err := mapOrderStatus(req.Status)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		var order models.Order
		if err := db.First(&order, orderID).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
			return
		}
		if !OperatorOwnsRestaurant(db, c, order.RestaurantID) {
			c.JSON(http.StatusForbidden, gin.H{"error": "not an operator of this restaurant"})
			return
		}

		updated, err := AdvanceOrderStatus(db, hub, orderID, target)
		if err != nil {
			switch {
			case errors.Is(err, ErrOrderNotFound):
				c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			case errors.Is(err, ErrIllegalTransition):
				c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
			default:
				c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update order status"})
			}
			return
		}
		c.JSON(http.StatusOK, updated)
	}
}
