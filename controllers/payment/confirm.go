package paymentControllers

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/anh-khoa-nguyen/OFOProject/models"
	"github.com/anh-khoa-nguyen/OFOProject/notification"
)

var ErrPaymentNotFound = errors.New("payment not found")

// MomoResultSuccess is MoMo's result code for a completed payment.
const MomoResultSuccess = 0

type momoIPNRequest struct {
	ResultCode int    `json:"resultCode"`
	Message    string `json:"message"`
}

// ConfirmPayment applies an asynchronous gateway confirmation. MoMo delivers
// IPNs at least once, and two deliveries can run truly concurrently, so the
// transition is a transactional conditional update: "set paid where still
// unpaid"; only one writer wins the row. A re-delivery for an already-paid
// payment is a recognized duplicate, not an error. Returns whether this call
// performed the transition.
func ConfirmPayment(db *gorm.DB, hub *notification.Hub, paymentID uint, resultCode int) (bool, error) {
	var payment models.Payment
	if err := db.First(&payment, paymentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, ErrPaymentNotFound
		}
		return false, err
	}

	if resultCode != MomoResultSuccess {
		// Failed attempt: the payment is terminal, the order stays unpaid
		// and eligible for a new attempt.
		err := db.Model(&models.Payment{}).
			Where("id = ? AND payment_status = ?", paymentID, models.PaymentStatusUnpaid).
			Update("payment_status", models.PaymentStatusFailed).Error
		return false, err
	}

	applied := false
	err := db.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Payment{}).
			Where("id = ? AND payment_status = ?", paymentID, models.PaymentStatusUnpaid).
			Update("payment_status", models.PaymentStatusPaid)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			// Duplicate delivery or an attempt already failed; either way
			// the payment is terminal and there is nothing to apply.
			return nil
		}
		applied = true
		return tx.Model(&models.Order{}).
			Where("id = ? AND order_status = ?", payment.OrderID, models.OrderStatusUnpaid).
			Update("order_status", models.OrderStatusPending).Error
	})
	if err != nil {
		return false, err
	}

	if applied {
		// Emitted strictly after commit; see PublishNewOrder for the
		// at-least-once caveat.
		notification.PublishNewOrder(db, hub, payment.OrderID)
	}
	return applied, nil
}

// MomoIPNHandler consumes the asynchronous confirmation callback. MoMo
// retries on any non-2xx response, so the handler acknowledges every request
// it could parse far enough to route; business failures are logged, never
// surfaced to the gateway.
func MomoIPNHandler(db *gorm.DB, hub *notification.Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		paymentID, err := strconv.ParseUint(c.Param("paymentID"), 10, 32)
		if err != nil {
			c.Status(http.StatusNoContent)
			return
		}

		var req momoIPNRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			log.Printf("momo ipn: bad payload for payment %d: %v", paymentID, err)
			c.Status(http.StatusNoContent)
			return
		}

		applied, err := ConfirmPayment(db, hub, uint(paymentID), req.ResultCode)
		if err != nil {
			log.Printf("momo ipn: payment %d result %d: %v", paymentID, req.ResultCode, err)
		} else if !applied && req.ResultCode == MomoResultSuccess {
			log.Printf("momo ipn: duplicate confirmation for payment %d ignored", paymentID)
		}

		c.Status(http.StatusNoContent)
	}
}
