package cartControllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/anh-khoa-nguyen/OFOProject/cart"
	"github.com/anh-khoa-nguyen/OFOProject/models"
)

type AddToCartInput struct {
	DishID    uint   `json:"dish_id" binding:"required"`
	Quantity  int    `json:"quantity"`
	OptionIDs []uint `json:"option_ids"`
	Note      string `json:"note"`
	EditKey   string `json:"edit_key"`
}

type CartLineInput struct {
	RestaurantID uint   `json:"restaurant_id" binding:"required"`
	ItemKey      string `json:"item_key" binding:"required"`
	Quantity     int    `json:"quantity"`
}

// AddToCart resolves the dish and its selected options from the menu and
// merges the line into the session cart. The unit price comes from the
// database rows, never from the request body.
func AddToCart(db *gorm.DB, store *cart.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		session := sessionID(c)
		if session == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "missing session"})
			return
		}

		var input AddToCartInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}
		if input.Quantity <= 0 {
			input.Quantity = 1
		}

		var dish models.Dish
		if err := db.First(&dish, "id = ? AND active = ?", input.DishID, true).Error; err != nil {
			status := http.StatusInternalServerError
			errMsg := "Failed to validate dish"
			if err == gorm.ErrRecordNotFound {
				status = http.StatusBadRequest
				errMsg = "Dish does not exist"
			}
			c.JSON(status, gin.H{"error": errMsg})
			return
		}

		var restaurant models.Restaurant
		if err := db.First(&restaurant, dish.RestaurantID).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load restaurant"})
			return
		}

		unitPrice := dish.Price
		var snapshots []cart.OptionSnapshot
		if len(input.OptionIDs) > 0 {
			var options []models.DishOption
			if err := db.Preload("Group").Where("id IN ?", input.OptionIDs).Find(&options).Error; err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load options"})
				return
			}
			if len(options) != len(input.OptionIDs) {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Option does not exist"})
				return
			}
			for _, opt := range options {
				if opt.Group.RestaurantID != dish.RestaurantID {
					c.JSON(http.StatusBadRequest, gin.H{"error": "Option does not belong to this dish"})
					return
				}
				unitPrice += opt.Price
				snapshots = append(snapshots, cart.OptionSnapshot{ID: opt.ID, Name: opt.Name, Price: opt.Price})
			}
		}

		line := cart.Line{
			DishID:    dish.ID,
			DishName:  dish.Name,
			UnitPrice: unitPrice,
			Quantity:  input.Quantity,
			OptionIDs: input.OptionIDs,
			Options:   snapshots,
			Note:      input.Note,
		}
		snapshot := store.AddItemReplacing(session, dish.RestaurantID, restaurant.RestaurantName, restaurant.Image, line, input.EditKey)

		c.JSON(http.StatusOK, gin.H{"success": true, "cart": snapshot})
	}
}

// UpdateCartItem sets a line's quantity; zero or less removes the line.
func UpdateCartItem(store *cart.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		session := sessionID(c)
		if session == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "missing session"})
			return
		}
		var input CartLineInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}

		snapshot, ok := store.UpdateQuantity(session, input.RestaurantID, input.ItemKey, input.Quantity)
		if !ok {
			c.JSON(http.StatusNotFound, gin.H{"error": "Cart item not found"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "cart": snapshot})
	}
}

// RemoveCartItem deletes a line from the session cart.
func RemoveCartItem(store *cart.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		session := sessionID(c)
		if session == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "missing session"})
			return
		}
		var input CartLineInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}

		snapshot, ok := store.RemoveItem(session, input.RestaurantID, input.ItemKey)
		if !ok {
			c.JSON(http.StatusNotFound, gin.H{"error": "Cart item not found"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "cart": snapshot})
	}
}

// GetCart returns the session's whole cart, every restaurant partition.
func GetCart(store *cart.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		session := sessionID(c)
		if session == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "missing session"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"cart": store.Snapshot(session)})
	}
}

func sessionID(c *gin.Context) string {
	if val, exists := c.Get("user_id"); exists {
		if id, ok := val.(uint); ok {
			return "user:" + strconv.FormatUint(uint64(id), 10)
		}
	}
	return c.GetHeader("X-Session-ID")
}
