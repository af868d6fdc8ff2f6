package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/anh-khoa-nguyen/OFOProject/cart"
	"github.com/anh-khoa-nguyen/OFOProject/notification"
)

// SetupRoutes is the single entry-point that wires up every route group.
func SetupRoutes(r *gin.Engine, db *gorm.DB, store *cart.Store, hub *notification.Hub) {
	// Session cart (guests and logged-in users)
	SetupCartRoutes(r, db, store)

	// Checkout, order history, status transitions, operator websocket
	SetupOrderRoutes(r, db, store, hub)

	// Payment gateway webhook
	SetupPaymentRoutes(r, db, hub)

	// Voucher listing and operator CRUD
	SetupVoucherRoutes(r, db)
}
