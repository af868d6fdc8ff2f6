package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/anh-khoa-nguyen/OFOProject/cart"
	cartControllers "github.com/anh-khoa-nguyen/OFOProject/controllers/cart"
	"github.com/anh-khoa-nguyen/OFOProject/middleware"
)

func SetupCartRoutes(r *gin.Engine, db *gorm.DB, store *cart.Store) {
	api := r.Group("/api")
	api.Use(middleware.OptionalToken)
	{
		api.POST("/add-to-cart", cartControllers.AddToCart(db, store))
		api.POST("/update-cart-item", cartControllers.UpdateCartItem(store))
		api.POST("/remove-cart-item", cartControllers.RemoveCartItem(store))
		api.GET("/cart", cartControllers.GetCart(store))
	}
}
