package controllers

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/Vishnu-717/TripTrail/config"
	"github.com/Vishnu-717/TripTrail/models"
	"github.com/Vishnu-717/TripTrail/utils"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	razorpay "github.com/razorpay/razorpay-go"
)

// InitiateGatewayPayment creates a Razorpay order for the amount currently
// due on a gateway-mode booking. The client completes the checkout
// out-of-band and calls VerifyGatewayPayment with the signed callback.
func InitiateGatewayPayment(c *gin.Context) {
	utils.LogInfo("InitiateGatewayPayment called")
	userVal, exists := c.Get("user")
	if !exists {
		utils.LogError("User not found in context")
		utils.Unauthorized(c, "User not found")
		return
	}
	user := userVal.(models.User)
	userID := user.ID

	bookingID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		utils.LogError("Invalid booking ID: %v", err)
		utils.BadRequest(c, "Invalid booking ID", nil)
		return
	}

	var booking models.Booking
	if err := config.DB.Preload("Trip").Where("id = ? AND user_id = ?", bookingID, userID).First(&booking).Error; err != nil {
		utils.LogError("Booking not found for ID: %d, user ID: %d", bookingID, userID)
		utils.NotFound(c, "Booking not found")
		return
	}
	if booking.PaymentMode != models.PaymentModeGateway {
		utils.BadRequest(c, "This booking does not use gateway payment", nil)
		return
	}
	if booking.BookingStatus != models.BookingStatusPending {
		utils.LogError("Booking %d is %s, cannot initiate payment", booking.ID, booking.BookingStatus)
		utils.Conflict(c, "Booking is not awaiting payment", nil)
		return
	}

	// Reuse the existing order if one is already open for this booking.
	var open models.PaymentTransaction
	if err := config.DB.Where("booking_id = ? AND status = ? AND payment_mode = ?",
		booking.ID, models.TransactionStatusPending, models.PaymentModeGateway).First(&open).Error; err == nil {
		utils.LogInfo("Reusing open gateway order %s for booking ID: %d", open.RazorpayOrderID, booking.ID)
		utils.Success(c, "Payment already initiated", gin.H{
			"razorpay_order_id": open.RazorpayOrderID,
			"amount":            fmt.Sprintf("%.2f", open.Amount),
			"key":               os.Getenv("RAZORPAY_KEY"),
		})
		return
	}

	amountDue := booking.FinalAmount
	if booking.PaymentMethod == models.PaymentMethodSeatLock {
		lockAmount := booking.Trip.SeatLockPrice * float64(booking.ParticipantCount)
		if lockAmount < amountDue {
			amountDue = lockAmount
		}
	}
	if amountDue <= 0 {
		utils.Conflict(c, "Nothing is payable on this booking", nil)
		return
	}

	// Razorpay expects the amount in paise.
	amountPaise := utils.ToPaise(amountDue)
	client := razorpay.NewClient(os.Getenv("RAZORPAY_KEY"), os.Getenv("RAZORPAY_SECRET"))
	orderData := map[string]interface{}{
		"amount":          amountPaise,
		"currency":        "INR",
		"receipt":         "booking_" + strconv.Itoa(bookingID) + "_" + uuid.New().String()[:8],
		"payment_capture": 1,
	}
	rzOrder, err := client.Order.Create(orderData, nil)
	if err != nil {
		utils.LogError("Failed to create Razorpay order for booking ID: %d: %v", booking.ID, err)
		utils.InternalServerError(c, "Failed to create gateway order", err.Error())
		return
	}
	rzOrderID := fmt.Sprintf("%v", rzOrder["id"])
	utils.LogInfo("Created Razorpay order %s for booking ID: %d", rzOrderID, booking.ID)

	paymentType := booking.PaymentMethod
	txn := models.PaymentTransaction{
		BookingID:       booking.ID,
		ReferenceID:     rzOrderID,
		RazorpayOrderID: rzOrderID,
		Amount:          amountDue,
		PaymentType:     paymentType,
		Status:          models.TransactionStatusPending,
		PaymentMode:     models.PaymentModeGateway,
	}
	if err := config.DB.Create(&txn).Error; err != nil {
		utils.LogError("Failed to record gateway transaction for booking ID: %d: %v", booking.ID, err)
		utils.InternalServerError(c, "Failed to record gateway transaction", err.Error())
		return
	}

	utils.Success(c, "Payment initiated successfully", gin.H{
		"razorpay_order_id": rzOrderID,
		"amount":            fmt.Sprintf("%.2f", amountDue),
		"amount_display":    fmt.Sprintf("₹%.2f", amountDue),
		"key":               os.Getenv("RAZORPAY_KEY"),
		"user": gin.H{
			"name":  user.Username,
			"email": user.Email,
		},
	})
}

// VerifyGatewayPayment checks the Razorpay callback signature against the
// order and, when genuine, verifies the transaction and advances the booking
// without a manual review step. A bad signature is fatal to the attempt only;
// the booking stays pending.
func VerifyGatewayPayment(c *gin.Context) {
	utils.LogInfo("VerifyGatewayPayment called")
	userVal, exists := c.Get("user")
	if !exists {
		utils.LogError("User not found in context")
		utils.Unauthorized(c, "User not found")
		return
	}
	user := userVal.(models.User)
	userID := user.ID

	bookingID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		utils.LogError("Invalid booking ID: %v", err)
		utils.BadRequest(c, "Invalid booking ID", nil)
		return
	}

	var req struct {
		RazorpayOrderID   string `json:"razorpay_order_id" binding:"required"`
		RazorpayPaymentID string `json:"razorpay_payment_id" binding:"required"`
		RazorpaySignature string `json:"razorpay_signature" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError("Invalid request for user ID: %d: %v", userID, err)
		utils.BadRequest(c, "Invalid request", err.Error())
		return
	}

	if !utils.VerifyRazorpaySignature(req.RazorpayOrderID, req.RazorpayPaymentID, req.RazorpaySignature) {
		utils.LogError("Gateway signature mismatch for booking ID: %d, order %s, user ID: %d", bookingID, req.RazorpayOrderID, userID)
		appErr := utils.ExternalVerificationError("Payment verification failed", nil)
		utils.Error(c, appErr.Code, appErr.Message, gin.H{"retry": true})
		return
	}
	utils.LogInfo("Gateway signature verified for booking ID: %d", bookingID)

	tx := config.DB.Begin()
	if tx.Error != nil {
		utils.LogError("Failed to start transaction for booking ID: %d: %v", bookingID, tx.Error)
		utils.InternalServerError(c, "Failed to start transaction", nil)
		return
	}

	var booking models.Booking
	if err := tx.Preload("Trip").Where("id = ? AND user_id = ?", bookingID, userID).First(&booking).Error; err != nil {
		tx.Rollback()
		utils.LogError("Booking not found for ID: %d, user ID: %d", bookingID, userID)
		utils.NotFound(c, "Booking not found")
		return
	}

	var txn models.PaymentTransaction
	if err := tx.Where("booking_id = ? AND razorpay_order_id = ?", booking.ID, req.RazorpayOrderID).First(&txn).Error; err != nil {
		tx.Rollback()
		utils.LogError("Gateway order %s not found for booking ID: %d", req.RazorpayOrderID, booking.ID)
		utils.NotFound(c, "Gateway order not found for this booking")
		return
	}

	// First verification wins; replayed callbacks are refused.
	res := tx.Model(&models.PaymentTransaction{}).
		Where("id = ? AND status = ?", txn.ID, models.TransactionStatusPending).
		Updates(map[string]interface{}{
			"status":       models.TransactionStatusVerified,
			"reference_id": req.RazorpayPaymentID,
			"reviewed_by":  "gateway",
			"reviewed_at":  time.Now(),
		})
	if res.Error != nil {
		tx.Rollback()
		utils.LogError("Failed to verify transaction ID: %d: %v", txn.ID, res.Error)
		utils.InternalServerError(c, "Failed to verify transaction", nil)
		return
	}
	if res.RowsAffected == 0 {
		tx.Rollback()
		utils.LogError("Transaction ID: %d already reviewed", txn.ID)
		utils.Conflict(c, "This payment has already been processed", nil)
		return
	}
	txn.Status = models.TransactionStatusVerified

	if appErr := utils.ApplyVerifiedTransaction(tx, &booking, &txn); appErr != nil {
		tx.Rollback()
		utils.LogError("State transition failed for booking ID: %d: %v", booking.ID, appErr)
		utils.RespondWithAppError(c, appErr)
		return
	}

	if err := tx.Commit().Error; err != nil {
		utils.LogError("Failed to commit transaction for booking ID: %d: %v", booking.ID, err)
		utils.InternalServerError(c, "Failed to commit transaction", nil)
		return
	}

	if booking.BookingStatus == models.BookingStatusConfirmed {
		utils.DispatchBookingNotification(utils.BookingNotification{
			BookingID:      booking.ID,
			EventType:      utils.NotifyBookingConfirmed,
			RecipientEmail: user.Email,
			RecipientName:  user.Username,
			TripName:       booking.Trip.Name,
			Amount:         txn.Amount,
		})
	}

	utils.LogInfo("Gateway payment applied to booking ID: %d, status now %s", booking.ID, booking.BookingStatus)
	utils.Success(c, "Thank you for your payment!", gin.H{
		"booking_id":     booking.ID,
		"booking_status": booking.BookingStatus,
		"payment_status": booking.PaymentStatus,
		"amount":         fmt.Sprintf("%.2f", txn.Amount),
	})
}
