package controllers

import (
	"fmt"
	"strconv"
	"time"

	"github.com/Vishnu-717/TripTrail/config"
	"github.com/Vishnu-717/TripTrail/models"
	"github.com/Vishnu-717/TripTrail/utils"
	"github.com/gin-gonic/gin"
)

// SubmitPaymentRequest represents a manual payment submission
type SubmitPaymentRequest struct {
	ReferenceID string  `json:"reference_id" binding:"required"`
	Amount      float64 `json:"amount" binding:"required"`
}

// SubmitManualPayment records a manual bank-transfer settlement attempt
// against a booking. The transaction is created pending and only an admin
// review moves the booking; for seat-locked bookings this is also how the
// remaining amount is paid.
func SubmitManualPayment(c *gin.Context) {
	utils.LogInfo("SubmitManualPayment called")
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

	var req SubmitPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError("Invalid request for user ID: %d: %v", userID, err)
		utils.BadRequest(c, "Invalid request", err.Error())
		return
	}
	if !utils.ValidatePaymentReference(req.ReferenceID) {
		utils.LogError("Reference id too short for booking ID: %d", bookingID)
		utils.ValidationError(c, fmt.Sprintf("Reference id must be at least %d characters", utils.MinPaymentReferenceLength), nil)
		return
	}
	if req.Amount <= 0 {
		utils.ValidationError(c, "Amount must be greater than zero", nil)
		return
	}

	var booking models.Booking
	if err := config.DB.Preload("Trip").Where("id = ? AND user_id = ?", bookingID, userID).First(&booking).Error; err != nil {
		utils.LogError("Booking not found for ID: %d, user ID: %d", bookingID, userID)
		utils.NotFound(c, "Booking not found")
		return
	}

	// Resolve which settlement leg this submission is for.
	var paymentType string
	switch booking.BookingStatus {
	case models.BookingStatusPending:
		if booking.PaymentMode != models.PaymentModeManual {
			utils.LogError("Booking %d uses payment mode %s, not manual", booking.ID, booking.PaymentMode)
			utils.BadRequest(c, "This booking does not accept manual payments", nil)
			return
		}
		if booking.PaymentStatus != models.PaymentStatusPending {
			utils.Conflict(c, "Booking payment is not awaiting submission", nil)
			return
		}
		paymentType = booking.PaymentMethod
	case models.BookingStatusSeatLocked:
		paymentType = models.TransactionTypeRemaining
		deadline := utils.RemainingPaymentDeadline(booking.Trip.StartDate)
		if time.Now().After(deadline) {
			utils.LogError("Remaining payment past deadline for booking ID: %d", booking.ID)
			utils.Conflict(c, fmt.Sprintf("Remaining payment window closed on %s", deadline.Format("2006-01-02")), nil)
			return
		}
	default:
		utils.LogError("Booking %d is %s and accepts no payments", booking.ID, booking.BookingStatus)
		utils.Conflict(c, "Booking is not accepting payments", nil)
		return
	}

	verifiedTotal, err := utils.VerifiedTotal(config.DB, booking.ID)
	if err != nil {
		utils.LogError("Failed to aggregate verified payments for booking ID: %d: %v", booking.ID, err)
		utils.InternalServerError(c, "Failed to check booking payments", nil)
		return
	}
	remaining := utils.RemainingAmount(&booking, verifiedTotal)
	if req.Amount > remaining+0.01 {
		utils.LogError("Submitted amount %.2f exceeds remaining %.2f for booking ID: %d", req.Amount, remaining, booking.ID)
		utils.ValidationError(c, fmt.Sprintf("Amount exceeds the remaining payable %.2f", remaining), nil)
		return
	}

	// One pending settlement attempt at a time per booking.
	var pendingCount int64
	if err := config.DB.Model(&models.PaymentTransaction{}).
		Where("booking_id = ? AND status = ?", booking.ID, models.TransactionStatusPending).
		Count(&pendingCount).Error; err != nil {
		utils.LogError("Failed to check pending transactions for booking ID: %d: %v", booking.ID, err)
		utils.InternalServerError(c, "Failed to check pending transactions", nil)
		return
	}
	if pendingCount > 0 {
		utils.Conflict(c, "A payment for this booking is already awaiting review", nil)
		return
	}

	txn := models.PaymentTransaction{
		BookingID:   booking.ID,
		ReferenceID: req.ReferenceID,
		Amount:      req.Amount,
		PaymentType: paymentType,
		Status:      models.TransactionStatusPending,
		PaymentMode: models.PaymentModeManual,
	}
	if err := config.DB.Create(&txn).Error; err != nil {
		utils.LogError("Failed to record payment for booking ID: %d: %v", booking.ID, err)
		utils.InternalServerError(c, "Failed to record payment", err.Error())
		return
	}

	utils.LogInfo("Recorded %s payment transaction ID: %d for booking ID: %d", paymentType, txn.ID, booking.ID)
	utils.Created(c, "Payment submitted for review", gin.H{
		"transaction": gin.H{
			"id":           txn.ID,
			"booking_id":   booking.ID,
			"reference_id": txn.ReferenceID,
			"amount":       fmt.Sprintf("%.2f", txn.Amount),
			"payment_type": txn.PaymentType,
			"status":       txn.Status,
		},
		"remaining_after_verification": fmt.Sprintf("%.2f", remaining-req.Amount),
	})
}
