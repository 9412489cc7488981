package payments

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
)

func sign(message, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(message))
	return hex.EncodeToString(mac.Sum(nil))
}

func TestVerifyPaymentSignature(t *testing.T) {
	t.Setenv("RAZORPAY_KEY_SECRET", "test_secret")

	valid := sign("order_abc|pay_xyz", "test_secret")
	assert.True(t, VerifyPaymentSignature("order_abc", "pay_xyz", valid))

	assert.False(t, VerifyPaymentSignature("order_abc", "pay_xyz", sign("order_abc|pay_xyz", "wrong_secret")))
	assert.False(t, VerifyPaymentSignature("order_other", "pay_xyz", valid))
	assert.False(t, VerifyPaymentSignature("order_abc", "pay_xyz", ""))
}

func TestVerifyWebhookSignature(t *testing.T) {
	t.Setenv("RAZORPAY_WEBHOOK_SECRET", "webhook_secret")

	body := []byte(`{"event":"payment.captured"}`)
	assert.True(t, VerifyWebhookSignature(body, sign(string(body), "webhook_secret")))
	assert.False(t, VerifyWebhookSignature(body, sign(string(body), "other")))
	assert.False(t, VerifyWebhookSignature([]byte(`{"event":"tampered"}`), sign(string(body), "webhook_secret")))
}

func TestVerifyHMACWithoutSecretNeverPasses(t *testing.T) {
	t.Setenv("RAZORPAY_KEY_SECRET", "")
	assert.False(t, VerifyPaymentSignature("order_abc", "pay_xyz", sign("order_abc|pay_xyz", "")))
}
