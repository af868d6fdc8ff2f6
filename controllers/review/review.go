package reviewControllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/anh-khoa-nguyen/OFOProject/models"
)

type CreateReviewInput struct {
	Star    int    `json:"star" binding:"required,min=1,max=5"`
	Comment string `json:"comment"`
	Image   string `json:"image"`
}

// CreateReviewHandler lets a customer review a completed order. The
// restaurant's star average is recomputed as an explicit step after the
// review commits, not by a storage-layer trigger, so it stays visible and
// testable.
func CreateReviewHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userVal, exists := c.Get("user_id")
		if !exists {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		userID := userVal.(uint)

		orderID, err := strconv.ParseUint(c.Param("orderID"), 10, 32)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid order id"})
			return
		}

		var input CreateReviewInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		var order models.Order
		if err := db.First(&order, "id = ? AND user_id = ?", orderID, userID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
			} else {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch order"})
			}
			return
		}
		if order.Status != models.OrderStatusCompleted {
			c.JSON(http.StatusBadRequest, gin.H{"error": "only completed orders can be reviewed"})
			return
		}

		review := models.Review{
			UserID:       userID,
			RestaurantID: order.RestaurantID,
			OrderID:      order.ID,
			Star:         input.Star,
			Comment:      input.Comment,
			Image:        input.Image,
		}
		if err := db.Create(&review).Error; err != nil {
			c.JSON(http.StatusConflict, gin.H{"error": "order already reviewed"})
			return
		}

		if err := RecomputeRestaurantRating(db, order.RestaurantID); err != nil {
			// The review is committed; a stale average self-heals on the
			// next review.
			c.JSON(http.StatusCreated, review)
			return
		}
		c.JSON(http.StatusCreated, review)
	}
}

// RecomputeRestaurantRating refreshes the restaurant's cached star average
// from its reviews.
func RecomputeRestaurantRating(db *gorm.DB, restaurantID uint) error {
	var average float64
	err := db.Model(&models.Review{}).
		Where("restaurant_id = ?", restaurantID).
		Select("COALESCE(AVG(star), 0)").
		Scan(&average).Error
	if err != nil {
		return err
	}
	return db.Model(&models.Restaurant{}).
		Where("id = ?", restaurantID).
		Update("star_average", average).Error
}
