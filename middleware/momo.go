package middleware

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io"
	"log"
	"math"
	"net/http"
	"os"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
)

// Field order of MoMo's IPN signature: alphabetical, fixed by the provider.
var momoIPNFields = []string{
	"accessKey", "amount", "extraData", "message", "orderId", "orderInfo",
	"orderType", "partnerCode", "payType", "requestId", "responseTime",
	"resultCode", "transId",
}

// MomoIPNAuth verifies the HMAC-SHA256 signature on inbound MoMo
// confirmations. Skipped entirely in sandbox/dev mode, like the sandbox
// switch on the outbound side.
func MomoIPNAuth() gin.HandlerFunc {
	secretKey := os.Getenv("MOMO_SECRET_KEY")
	mode := strings.ToLower(os.Getenv("MOMO_MODE"))

	return func(c *gin.Context) {
		if mode == "sandbox" || mode == "dev" {
			c.Next()
			return
		}
		if secretKey == "" {
			log.Println("momo ipn: MOMO_SECRET_KEY is not set, rejecting webhook")
			c.JSON(http.StatusForbidden, gin.H{"error": "webhook verification unavailable"})
			c.Abort()
			return
		}

		body, err := io.ReadAll(c.Request.Body)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read body"})
			c.Abort()
			return
		}
		// The handler binds the body again after verification.
		c.Request.Body = io.NopCloser(bytes.NewBuffer(body))

		var payload map[string]interface{}
		if err := json.Unmarshal(body, &payload); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON body"})
			c.Abort()
			return
		}

		provided, _ := payload["signature"].(string)
		if provided == "" {
			c.JSON(http.StatusForbidden, gin.H{"error": "missing signature"})
			c.Abort()
			return
		}

		// MoMo signs accessKey from the merchant config, not the body.
		payload["accessKey"] = os.Getenv("MOMO_ACCESS_KEY")

		parts := make([]string, 0, len(momoIPNFields))
		for _, field := range momoIPNFields {
			parts = append(parts, field+"="+fieldValue(payload[field]))
		}

		mac := hmac.New(sha256.New, []byte(secretKey))
		mac.Write([]byte(strings.Join(parts, "&")))
		calculated := hex.EncodeToString(mac.Sum(nil))

		if !hmac.Equal([]byte(strings.ToLower(calculated)), []byte(strings.ToLower(provided))) {
			c.JSON(http.StatusForbidden, gin.H{"error": "invalid webhook signature"})
			c.Abort()
			return
		}
		c.Next()
	}
}

// fieldValue renders a JSON value the way MoMo formats it in the signature
// string: integers without a decimal part, absent fields as empty.
func fieldValue(v interface{}) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case float64:
		if val == math.Trunc(val) {
			return strconv.FormatInt(int64(val), 10)
		}
		return strconv.FormatFloat(val, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(val)
	default:
		raw, _ := json.Marshal(val)
		return string(raw)
	}
}
