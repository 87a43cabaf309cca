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

// ApproveCashPaymentRequest records how much cash was actually received
type ApproveCashPaymentRequest struct {
	AmountPaid float64 `json:"amount_paid" binding:"required"`
	Notes      string  `json:"notes"`
}

// ApproveCashPayment settles a cash booking in a single step: the admin enters
// the amount received and the booking goes straight to confirmed with a
// verified transaction. There is no pending-review leg for cash.
func ApproveCashPayment(c *gin.Context) {
	utils.LogInfo("ApproveCashPayment called")
	adminVal, exists := c.Get("admin")
	if !exists {
		utils.Unauthorized(c, "Admin not found")
		return
	}
	admin := adminVal.(models.Admin)

	bookingID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		utils.LogError("Invalid booking ID: %v", err)
		utils.BadRequest(c, "Invalid booking ID", nil)
		return
	}

	var req ApproveCashPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError("Invalid request: %v", err)
		utils.BadRequest(c, "Invalid request", err.Error())
		return
	}
	if req.AmountPaid <= 0 {
		utils.ValidationError(c, "Amount paid must be greater than zero", nil)
		return
	}

	tx := config.DB.Begin()
	if tx.Error != nil {
		utils.LogError("Failed to start transaction: %v", tx.Error)
		utils.InternalServerError(c, "Failed to start transaction", nil)
		return
	}

	var booking models.Booking
	if err := tx.Preload("Trip").Preload("User").First(&booking, bookingID).Error; err != nil {
		tx.Rollback()
		utils.LogError("Booking not found for ID: %d", bookingID)
		utils.NotFound(c, "Booking not found")
		return
	}
	if booking.PaymentMode != models.PaymentModeCash {
		tx.Rollback()
		utils.BadRequest(c, "This booking is not a cash booking", nil)
		return
	}
	// Cash confirms a live pending booking only. A cancelled or rejected
	// booking must never come back through this door.
	if booking.BookingStatus != models.BookingStatusPending {
		tx.Rollback()
		utils.LogError("Booking %d is %s, cash approval refused", booking.ID, booking.BookingStatus)
		utils.Conflict(c, "Only a pending booking can be approved for cash", nil)
		return
	}
	if booking.PaymentStatus != models.PaymentStatusCashPending {
		tx.Rollback()
		utils.LogError("Booking %d has payment status %s, cannot approve cash", booking.ID, booking.PaymentStatus)
		utils.Conflict(c, "Booking is not awaiting cash approval", nil)
		return
	}
	if req.AmountPaid < booking.FinalAmount-0.01 {
		tx.Rollback()
		utils.LogError("Cash amount %.2f below payable %.2f for booking ID: %d", req.AmountPaid, booking.FinalAmount, booking.ID)
		utils.ValidationError(c, fmt.Sprintf("Amount paid must cover the payable %.2f", booking.FinalAmount), nil)
		return
	}

	if appErr := utils.TryReserveSeats(tx, booking.TripID, booking.ParticipantCount); appErr != nil {
		tx.Rollback()
		utils.LogError("Seat reservation failed for booking ID: %d: %v", booking.ID, appErr)
		utils.RespondWithAppError(c, appErr)
		return
	}

	now := time.Now()
	txn := models.PaymentTransaction{
		BookingID:   booking.ID,
		ReferenceID: fmt.Sprintf("CASH-%d-%d", booking.ID, now.Unix()),
		Amount:      req.AmountPaid,
		PaymentType: booking.PaymentMethod,
		Status:      models.TransactionStatusVerified,
		PaymentMode: models.PaymentModeCash,
		ReviewedBy:  admin.Email,
		ReviewedAt:  &now,
	}
	if err := tx.Create(&txn).Error; err != nil {
		tx.Rollback()
		utils.LogError("Failed to record cash transaction for booking ID: %d: %v", booking.ID, err)
		utils.InternalServerError(c, "Failed to record cash transaction", nil)
		return
	}

	updates := map[string]interface{}{
		"booking_status": models.BookingStatusConfirmed,
		"payment_status": models.PaymentStatusVerified,
	}
	if err := tx.Model(&models.Booking{}).Where("id = ?", booking.ID).Updates(updates).Error; err != nil {
		tx.Rollback()
		utils.LogError("Failed to update booking status for booking ID: %d: %v", booking.ID, err)
		utils.InternalServerError(c, "Failed to update booking status", nil)
		return
	}

	if err := utils.FinalizeCouponUsage(tx, booking.ID); err != nil {
		tx.Rollback()
		utils.LogError("Failed to finalize coupon usage for booking ID: %d: %v", booking.ID, err)
		utils.InternalServerError(c, "Failed to finalize coupon usage", nil)
		return
	}

	if err := tx.Commit().Error; err != nil {
		utils.LogError("Failed to commit transaction for booking ID: %d: %v", booking.ID, err)
		utils.InternalServerError(c, "Failed to commit transaction", nil)
		return
	}

	utils.DispatchBookingNotification(utils.BookingNotification{
		BookingID:      booking.ID,
		EventType:      utils.NotifyBookingConfirmed,
		RecipientEmail: booking.User.Email,
		RecipientName:  booking.User.Username,
		TripName:       booking.Trip.Name,
		Amount:         req.AmountPaid,
	})

	utils.LogInfo("Admin %s approved cash of %.2f for booking ID: %d", admin.Email, req.AmountPaid, booking.ID)
	utils.Success(c, "Cash payment approved", gin.H{
		"booking_id":     booking.ID,
		"booking_status": models.BookingStatusConfirmed,
		"payment_status": models.PaymentStatusVerified,
		"amount_paid":    fmt.Sprintf("%.2f", req.AmountPaid),
		"notes":          req.Notes,
	})
}
