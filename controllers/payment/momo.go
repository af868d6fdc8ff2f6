package paymentControllers

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/anh-khoa-nguyen/OFOProject/models"
)

// ErrGatewayFailure covers both transport errors and non-zero MoMo result
// codes. The order stays unpaid and retryable in every case.
var ErrGatewayFailure = errors.New("payment gateway failure")

type momoConfig struct {
	PartnerCode string
	AccessKey   string
	SecretKey   string
	Endpoint    string
	IPNBaseURL  string
	RedirectURL string
}

func getMomoConfig() (momoConfig, error) {
	cfg := momoConfig{
		PartnerCode: os.Getenv("MOMO_PARTNER_CODE"),
		AccessKey:   os.Getenv("MOMO_ACCESS_KEY"),
		SecretKey:   os.Getenv("MOMO_SECRET_KEY"),
		Endpoint:    os.Getenv("MOMO_ENDPOINT"),
		IPNBaseURL:  os.Getenv("MOMO_IPN_URL_BASE"),
		RedirectURL: os.Getenv("MOMO_REDIRECT_URL"),
	}
	if cfg.PartnerCode == "" || cfg.AccessKey == "" || cfg.SecretKey == "" ||
		cfg.Endpoint == "" || cfg.IPNBaseURL == "" {
		return momoConfig{}, fmt.Errorf("momo configuration missing")
	}
	return cfg, nil
}

type momoCreateRequest struct {
	PartnerCode string `json:"partnerCode"`
	AccessKey   string `json:"accessKey"`
	RequestID   string `json:"requestId"`
	Amount      int64  `json:"amount"`
	OrderID     string `json:"orderId"`
	OrderInfo   string `json:"orderInfo"`
	RedirectURL string `json:"redirectUrl"`
	IPNURL      string `json:"ipnUrl"`
	ExtraData   string `json:"extraData"`
	RequestType string `json:"requestType"`
	Signature   string `json:"signature"`
	Lang        string `json:"lang"`
}

type momoCreateResponse struct {
	ResultCode int    `json:"resultCode"`
	Message    string `json:"message"`
	PayURL     string `json:"payUrl"`
}

// signCreateRequest builds the HMAC-SHA256 signature over the canonical
// alphabetically-ordered field concatenation MoMo expects.
func signCreateRequest(cfg momoConfig, amount int64, extraData, ipnURL, orderID, orderInfo, requestID, requestType string) string {
	raw := "accessKey=" + cfg.AccessKey +
		"&amount=" + strconv.FormatInt(amount, 10) +
		"&extraData=" + extraData +
		"&ipnUrl=" + ipnURL +
		"&orderId=" + orderID +
		"&orderInfo=" + orderInfo +
		"&partnerCode=" + cfg.PartnerCode +
		"&redirectUrl=" + cfg.RedirectURL +
		"&requestId=" + requestID +
		"&requestType=" + requestType

	mac := hmac.New(sha256.New, []byte(cfg.SecretKey))
	mac.Write([]byte(raw))
	return hex.EncodeToString(mac.Sum(nil))
}

// gatewayOrderRef is the order reference sent to MoMo; it must be unique per
// payment attempt, not per order, so retries get a fresh one.
func gatewayOrderRef() string {
	return time.Now().Format("20060102150405") + "-" + uuid.NewString()
}

// CreatePaymentRecord opens a new payment attempt for an order. Any earlier
// attempt still unpaid is failed first, so at most one attempt is
// non-terminal at a time.
func CreatePaymentRecord(db *gorm.DB, order *models.Order, method string) (*models.Payment, error) {
	payment := models.Payment{
		OrderID:     order.ID,
		Amount:      order.Total,
		Method:      method,
		Status:      models.PaymentStatusUnpaid,
		CreatedDate: time.Now(),
	}
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Payment{}).
			Where("order_id = ? AND payment_status = ?", order.ID, models.PaymentStatusUnpaid).
			Update("payment_status", models.PaymentStatusFailed).Error; err != nil {
			return err
		}
		return tx.Create(&payment).Error
	})
	if err != nil {
		return nil, err
	}
	return &payment, nil
}

// CreateMomoPayment sends the signed create request to MoMo and returns the
// redirect URL the customer is sent to. The IPN callback URL embeds the local
// payment id, so the asynchronous confirmation routes straight back to this
// payment record.
func CreateMomoPayment(db *gorm.DB, payment *models.Payment) (string, error) {
	cfg, err := getMomoConfig()
	if err != nil {
		return "", err
	}

	amount := int64(payment.Amount)
	requestID := uuid.NewString()
	orderRef := gatewayOrderRef()
	ipnURL := fmt.Sprintf("%s/%d", cfg.IPNBaseURL, payment.ID)
	orderInfo := fmt.Sprintf("Thanh toan don hang #%d", payment.OrderID)
	requestType := "captureWallet"

	body := momoCreateRequest{
		PartnerCode: cfg.PartnerCode,
		AccessKey:   cfg.AccessKey,
		RequestID:   requestID,
		Amount:      amount,
		OrderID:     orderRef,
		OrderInfo:   orderInfo,
		RedirectURL: cfg.RedirectURL,
		IPNURL:      ipnURL,
		ExtraData:   "",
		RequestType: requestType,
		Signature:   signCreateRequest(cfg, amount, "", ipnURL, orderRef, orderInfo, requestID, requestType),
		Lang:        "vi",
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequest(http.MethodPost, cfg.Endpoint, bytes.NewBuffer(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	client := &http.Client{Timeout: 15 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrGatewayFailure, err)
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: momo API error (%d): %s", ErrGatewayFailure, resp.StatusCode, string(raw))
	}

	var momoResp momoCreateResponse
	if err := json.Unmarshal(raw, &momoResp); err != nil {
		return "", fmt.Errorf("%w: failed to parse momo response: %v", ErrGatewayFailure, err)
	}
	if momoResp.ResultCode != 0 {
		return "", fmt.Errorf("%w: momo result %d: %s", ErrGatewayFailure, momoResp.ResultCode, momoResp.Message)
	}
	if momoResp.PayURL == "" {
		return "", fmt.Errorf("%w: momo returned empty pay url", ErrGatewayFailure)
	}

	if err := db.Model(payment).Updates(map[string]interface{}{
		"pay_url":          momoResp.PayURL,
		"gateway_order_id": orderRef,
	}).Error; err != nil {
		return "", err
	}
	return momoResp.PayURL, nil
}
