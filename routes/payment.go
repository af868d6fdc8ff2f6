package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	paymentControllers "github.com/anh-khoa-nguyen/OFOProject/controllers/payment"
	"github.com/anh-khoa-nguyen/OFOProject/middleware"
	"github.com/anh-khoa-nguyen/OFOProject/notification"
)

func SetupPaymentRoutes(r *gin.Engine, db *gorm.DB, hub *notification.Hub) {
	momo := r.Group("/momo")
	{
		// Asynchronous confirmation callback; middleware handles
		// sandbox/prod signature verification.
		momo.POST("/confirm-payment/:paymentID",
			middleware.MomoIPNAuth(),
			paymentControllers.MomoIPNHandler(db, hub),
		)
	}
}
