package voucherControllers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	orderControllers "github.com/anh-khoa-nguyen/OFOProject/controllers/order"
	"github.com/anh-khoa-nguyen/OFOProject/models"
	"github.com/anh-khoa-nguyen/OFOProject/pricing"
)

type VoucherInput struct {
	Code        string    `json:"code" binding:"required,max=10"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Percent     float64   `json:"percent"`
	Limit       float64   `json:"limit"`
	Min         float64   `json:"min"`
	Max         float64   `json:"max"`
	StartDate   time.Time `json:"start_date" binding:"required"`
	EndDate     time.Time `json:"end_date" binding:"required"`
	Active      *bool     `json:"active"`
}

// ListValidVouchersHandler returns the vouchers a checkout can currently
// apply, partitioned into display categories.
func ListValidVouchersHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		restaurantID, err := strconv.ParseUint(c.Param("restaurantID"), 10, 32)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid restaurant id"})
			return
		}
		subtotal, err := strconv.ParseFloat(c.DefaultQuery("subtotal", "0"), 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid subtotal"})
			return
		}

		vouchers, err := pricing.ListValidVouchers(db, uint(restaurantID), subtotal, time.Now())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch vouchers"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"vouchers": vouchers})
	}
}

// CreateVoucherHandler lets a restaurant operator add a voucher.
func CreateVoucherHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		restaurantID, err := strconv.ParseUint(c.Param("restaurantID"), 10, 32)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid restaurant id"})
			return
		}
		if !orderControllers.OperatorOwnsRestaurant(db, c, uint(restaurantID)) {
			c.JSON(http.StatusForbidden, gin.H{"error": "not an operator of this restaurant"})
			return
		}

		var input VoucherInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if !input.EndDate.After(input.StartDate) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "end_date must be after start_date"})
			return
		}

		voucher := models.Voucher{
			RestaurantID: uint(restaurantID),
			Code:         input.Code,
			Name:         input.Name,
			Description:  input.Description,
			Percent:      input.Percent,
			Limit:        input.Limit,
			Min:          input.Min,
			Max:          input.Max,
			StartDate:    input.StartDate,
			EndDate:      input.EndDate,
			Active:       true,
		}
		if input.Active != nil {
			voucher.Active = *input.Active
		}
		if err := db.Create(&voucher).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create voucher"})
			return
		}
		c.JSON(http.StatusCreated, voucher)
	}
}

// VoucherUpdateInput is a partial update; only the fields present in the
// request body are applied.
type VoucherUpdateInput struct {
	Code        *string    `json:"code" binding:"omitempty,max=10"`
	Name        *string    `json:"name"`
	Description *string    `json:"description"`
	Percent     *float64   `json:"percent"`
	Limit       *float64   `json:"limit"`
	Min         *float64   `json:"min"`
	Max         *float64   `json:"max"`
	StartDate   *time.Time `json:"start_date"`
	EndDate     *time.Time `json:"end_date"`
	Active      *bool      `json:"active"`
}

func (in *VoucherUpdateInput) updates() map[string]interface{} {
	out := make(map[string]interface{})
	if in.Code != nil {
		out["code"] = *in.Code
	}
	if in.Name != nil {
		out["name"] = *in.Name
	}
	if in.Description != nil {
		out["description"] = *in.Description
	}
	if in.Percent != nil {
		out["percent"] = *in.Percent
	}
	if in.Limit != nil {
		out["limit"] = *in.Limit
	}
	if in.Min != nil {
		out["min"] = *in.Min
	}
	if in.Max != nil {
		out["max"] = *in.Max
	}
	if in.StartDate != nil {
		out["start_date"] = *in.StartDate
	}
	if in.EndDate != nil {
		out["end_date"] = *in.EndDate
	}
	if in.Active != nil {
		out["active"] = *in.Active
	}
	return out
}

// UpdateVoucherHandler applies partial updates to an operator's voucher.
func UpdateVoucherHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		voucher, ok := loadOwnedVoucher(db, c)
		if !ok {
			return
		}

		var input VoucherUpdateInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		if updates := input.updates(); len(updates) > 0 {
			if err := db.Model(voucher).Updates(updates).Error; err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update voucher"})
				return
			}
		}

		var updated models.Voucher
		if err := db.First(&updated, voucher.ID).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch voucher"})
			return
		}
		c.JSON(http.StatusOK, updated)
	}
}

// DeleteVoucherHandler removes an operator's voucher.
func DeleteVoucherHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		voucher, ok := loadOwnedVoucher(db, c)
		if !ok {
			return
		}
		if err := db.Delete(voucher).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete voucher"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Voucher deleted"})
	}
}

func loadOwnedVoucher(db *gorm.DB, c *gin.Context) (*models.Voucher, bool) {
	voucherID, err := strconv.ParseUint(c.Param("voucherID"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid voucher id"})
		return nil, false
	}
	var voucher models.Voucher
	if err := db.First(&voucher, voucherID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "voucher not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch voucher"})
		}
		return nil, false
	}
	if !orderControllers.OperatorOwnsRestaurant(db, c, voucher.RestaurantID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "not an operator of this restaurant"})
		return nil, false
	}
	return &voucher, true
}
