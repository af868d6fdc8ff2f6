package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	voucherControllers "github.com/anh-khoa-nguyen/OFOProject/controllers/voucher"
	"github.com/anh-khoa-nguyen/OFOProject/middleware"
)

func SetupVoucherRoutes(r *gin.Engine, db *gorm.DB) {
	// Candidate vouchers for the checkout UI
	r.GET("/api/vouchers/:restaurantID", voucherControllers.ListValidVouchersHandler(db))

	// Operator voucher management
	vouchers := r.Group("/restaurant/:restaurantID/vouchers")
	vouchers.Use(middleware.ValidateToken)
	{
		vouchers.POST("", voucherControllers.CreateVoucherHandler(db))
		vouchers.PUT("/:voucherID", voucherControllers.UpdateVoucherHandler(db))
		vouchers.DELETE("/:voucherID", voucherControllers.DeleteVoucherHandler(db))
	}
}
