package utils

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVerifyRazorpaySignature(t *testing.T) {
	t.Setenv("RAZORPAY_SECRET", "test_secret")

	h := hmac.New(sha256.New, []byte("test_secret"))
	h.Write([]byte("order_123|pay_456"))
	genuine := hex.EncodeToString(h.Sum(nil))

	assert.True(t, VerifyRazorpaySignature("order_123", "pay_456", genuine))

	// Tampering with any part of the payload or the signature fails.
	assert.False(t, VerifyRazorpaySignature("order_123", "pay_999", genuine))
	assert.False(t, VerifyRazorpaySignature("order_999", "pay_456", genuine))
	assert.False(t, VerifyRazorpaySignature("order_123", "pay_456", "deadbeef"))
	assert.False(t, VerifyRazorpaySignature("order_123", "pay_456", ""))
}

func TestToPaise(t *testing.T) {
	assert.Equal(t, 249999, ToPaise(2499.99))
	assert.Equal(t, 10000, ToPaise(100))
	assert.Equal(t, 1, ToPaise(0.01))
	assert.Equal(t, 0, ToPaise(0))
}
