package notification

import (
	"log"
	"strconv"
	"time"

	"gorm.io/gorm"

	"github.com/anh-khoa-nguyen/OFOProject/models"
)

// PublishNewOrder pushes the "new paid order" event to the owning
// restaurant's room. Call it only after the status transition has been
// committed; a crash between commit and this call is an accepted
// at-least-once gap that operators reconcile by polling.
func PublishNewOrder(db *gorm.DB, hub *Hub, orderID uint) {
	var order models.Order
	if err := db.Preload("User").First(&order, orderID).Error; err != nil {
		log.Printf("new order notification: load order %d: %v", orderID, err)
		return
	}

	// Display aid only. The count races with orders created in the same
	// instant and may repeat; operators never key anything off it.
	sequence := countOrdersToday(db, order.RestaurantID, time.Now())

	hub.Publish(order.RestaurantID, Event{
		"type":               "new_order",
		"order_id":           order.ID,
		"daily_order_number": sequence,
		"total":              FormatVND(order.Total),
		"customer_name":      order.User.Name,
	})
}

// PublishStatusChange pushes an order status update to the restaurant's room.
func PublishStatusChange(hub *Hub, order *models.Order) {
	hub.Publish(order.RestaurantID, Event{
		"type":     "order_status",
		"order_id": order.ID,
		"status":   order.Status,
	})
}

func countOrdersToday(db *gorm.DB, restaurantID uint, now time.Time) int64 {
	start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	var count int64
	err := db.Model(&models.Order{}).
		Where("restaurant_id = ? AND order_date >= ? AND order_date < ?",
			restaurantID, start, start.Add(24*time.Hour)).
		Count(&count).Error
	if err != nil {
		log.Printf("daily order count for restaurant %d: %v", restaurantID, err)
		return 0
	}
	return count
}

// FormatVND renders an amount as a grouped VND string, e.g. "100,000đ".
func FormatVND(amount float64) string {
	digits := strconv.FormatInt(int64(amount), 10)
	negative := false
	if len(digits) > 0 && digits[0] == '-' {
		negative = true
		digits = digits[1:]
	}

	var out []byte
	for i, c := range []byte(digits) {
		if i > 0 && (len(digits)-i)%3 == 0 {
			out = append(out, ',')
		}
		out = append(out, c)
	}
	if negative {
		out = append([]byte{'-'}, out...)
	}
	return string(out) + "đ"
}
