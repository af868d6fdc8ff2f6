package notificationControllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"gorm.io/gorm"

	"github.com/anh-khoa-nguyen/OFOProject/models"
	"github.com/anh-khoa-nguyen/OFOProject/notification"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// RestaurantSocketHandler upgrades an operator connection and joins it to the
// restaurant's notification room. Only the authenticated owner of the
// restaurant is subscribed; anyone else is rejected before the upgrade so the
// connection never enters any room.
func RestaurantSocketHandler(db *gorm.DB, hub *notification.Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		restaurantID, err := strconv.ParseUint(c.Param("restaurantID"), 10, 32)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid restaurant id"})
			return
		}

		userVal, exists := c.Get("user_id")
		if !exists {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		userID, _ := userVal.(uint)
		role, _ := c.Get("role")
		if role != string(models.RoleRestaurant) {
			c.JSON(http.StatusForbidden, gin.H{"error": "operator account required"})
			return
		}

		var restaurant models.Restaurant
		if err := db.First(&restaurant, uint(restaurantID)).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "restaurant not found"})
			return
		}
		if restaurant.OwnerUserID != userID {
			c.JSON(http.StatusForbidden, gin.H{"error": "not an operator of this restaurant"})
			return
		}

		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			return
		}
		defer conn.Close()

		hub.Subscribe(uint(restaurantID), conn)
		defer hub.Unsubscribe(uint(restaurantID), conn)

		// Hold the connection open; the read loop only detects disconnects.
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				break
			}
		}
	}
}
