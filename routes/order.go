package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/anh-khoa-nguyen/OFOProject/cart"
	notificationControllers "github.com/anh-khoa-nguyen/OFOProject/controllers/notification"
	orderControllers "github.com/anh-khoa-nguyen/OFOProject/controllers/order"
	reviewControllers "github.com/anh-khoa-nguyen/OFOProject/controllers/review"
	"github.com/anh-khoa-nguyen/OFOProject/middleware"
	"github.com/anh-khoa-nguyen/OFOProject/notification"
)

func SetupOrderRoutes(r *gin.Engine, db *gorm.DB, store *cart.Store, hub *notification.Hub) {
	// Checkout converts the session cart partition into a durable order.
	r.POST("/checkout/:restaurantID", middleware.ValidateToken, orderControllers.CheckoutHandler(db, store, hub))

	orders := r.Group("/orders")
	orders.Use(middleware.ValidateToken)
	{
		// Order history for the logged-in customer
		orders.GET("/user", orderControllers.GetUserOrdersHandler(db))

		// Orders of one restaurant, for its operator
		orders.GET("/restaurant/:restaurantID", orderControllers.GetRestaurantOrdersHandler(db))

		// Operator-driven status transitions (confirm, deliver, complete)
		orders.PUT("/:orderID/status", orderControllers.UpdateOrderStatusHandler(db, hub))

		// Review a completed order
		orders.POST("/:orderID/review", reviewControllers.CreateReviewHandler(db))
	}

	// Real-time new-order feed for restaurant operators
	r.GET("/ws/restaurant/:restaurantID", middleware.ValidateToken, notificationControllers.RestaurantSocketHandler(db, hub))

	// Full order listing for back-office tooling
	admin := r.Group("/admin")
	admin.Use(middleware.ValidateAPIKey)
	{
		admin.GET("/orders", orderControllers.GetAllOrdersHandler(db))
	}
}
