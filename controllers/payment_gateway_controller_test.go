package controllers

import (
	"net/http"
	"testing"

	"github.com/Vishnu-717/TripTrail/models"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestVerifyGatewayPaymentRejectsTamperedSignature(t *testing.T) {
	// No expectations: a bad signature must be refused before the store is
	// touched, so the booking stays exactly as it was.
	mock := newHandlerMock(t)
	t.Setenv("RAZORPAY_SECRET", "test_secret")

	body := `{
		"razorpay_order_id": "order_123",
		"razorpay_payment_id": "pay_456",
		"razorpay_signature": "deadbeef"
	}`
	c, w := newTestContext(t, "42", body)
	c.Set("user", models.User{Model: gorm.Model{ID: 9}, Username: "traveller", Email: "traveller@example.com"})
	VerifyGatewayPayment(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Payment verification failed")
	assert.Contains(t, w.Body.String(), `"retry":true`)
	assert.NoError(t, mock.ExpectationsWereMet())
}
