package utils

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"math"
	"os"
)

// VerifyRazorpaySignature recomputes the checkout signature over
// "order_id|payment_id" server-side and compares it in constant time.
// Client input is never trusted on its own.
func VerifyRazorpaySignature(orderID, paymentID, signature string) bool {
	h := hmac.New(sha256.New, []byte(os.Getenv("RAZORPAY_SECRET")))
	h.Write([]byte(orderID + "|" + paymentID))
	expected := hex.EncodeToString(h.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}

// ToPaise converts a rupee amount to integer paise for the gateway.
// Rounded, not truncated: float representation of e.g. 2499.99 sits just
// below 249999 and plain int conversion would lose a paisa.
func ToPaise(amount float64) int {
	return int(math.Round(amount * 100))
}
