package controllers

import (
	"fmt"
	"strconv"

	"github.com/Vishnu-717/TripTrail/config"
	"github.com/Vishnu-717/TripTrail/models"
	"github.com/Vishnu-717/TripTrail/utils"
	"github.com/gin-gonic/gin"
)

// CancelBookingRequest carries the user's optional cancellation note
type CancelBookingRequest struct {
	Reason string `json:"reason"`
}

// CancelBooking lets the user withdraw a booking that has not been confirmed.
// Coupon usage is released and anything the user already paid — wallet amount
// and verified transactions — is returned to the wallet.
func CancelBooking(c *gin.Context) {
	utils.LogInfo("CancelBooking called")
	userVal, exists := c.Get("user")
	if !exists {
		utils.Unauthorized(c, "User not found")
		return
	}
	user := userVal.(models.User)

	bookingID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		utils.LogError("Invalid booking ID: %v", err)
		utils.BadRequest(c, "Invalid booking ID", nil)
		return
	}

	var req CancelBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil && err.Error() != "EOF" {
		utils.LogError("Invalid request for user ID: %d: %v", user.ID, err)
		utils.BadRequest(c, "Invalid request", err.Error())
		return
	}

	tx := config.DB.Begin()
	if tx.Error != nil {
		utils.LogError("Failed to start transaction: %v", tx.Error)
		utils.InternalServerError(c, "Failed to start transaction", nil)
		return
	}

	var booking models.Booking
	if err := tx.Preload("Trip").Where("id = ? AND user_id = ?", bookingID, user.ID).First(&booking).Error; err != nil {
		tx.Rollback()
		utils.LogError("Booking not found for ID: %d, user ID: %d", bookingID, user.ID)
		utils.NotFound(c, "Booking not found")
		return
	}
	if !utils.CanCancel(booking.BookingStatus) {
		tx.Rollback()
		utils.LogError("Booking %d is %s and cannot be cancelled", booking.ID, booking.BookingStatus)
		utils.Conflict(c, "Booking can no longer be cancelled", nil)
		return
	}

	verifiedTotal, err := utils.VerifiedTotal(tx, booking.ID)
	if err != nil {
		tx.Rollback()
		utils.LogError("Failed to aggregate verified payments for booking ID: %d: %v", booking.ID, err)
		utils.InternalServerError(c, "Failed to compute refund", nil)
		return
	}

	// Closing payment_status as well keeps a cancelled cash booking out of
	// the cash-approval queue.
	updates := map[string]interface{}{
		"booking_status":    models.BookingStatusCancelled,
		"payment_status":    models.PaymentStatusRejected,
		"cancellation_note": req.Reason,
	}
	if err := tx.Model(&models.Booking{}).Where("id = ?", booking.ID).Updates(updates).Error; err != nil {
		tx.Rollback()
		utils.LogError("Failed to cancel booking ID: %d: %v", booking.ID, err)
		utils.InternalServerError(c, "Failed to cancel booking", nil)
		return
	}

	// Open submissions die with the booking.
	if err := tx.Model(&models.PaymentTransaction{}).
		Where("booking_id = ? AND status = ?", booking.ID, models.TransactionStatusPending).
		Update("status", models.TransactionStatusRejected).Error; err != nil {
		tx.Rollback()
		utils.LogError("Failed to void pending transactions for booking ID: %d: %v", booking.ID, err)
		utils.InternalServerError(c, "Failed to void pending transactions", nil)
		return
	}

	if err := utils.ReleaseCouponUsage(tx, booking.ID); err != nil {
		tx.Rollback()
		utils.LogError("Failed to release coupon usage for booking ID: %d: %v", booking.ID, err)
		utils.InternalServerError(c, "Failed to release coupon usage", nil)
		return
	}

	refund := booking.WalletAmountUsed + verifiedTotal
	if refund > 0 {
		refBookingID := booking.ID
		if _, err := utils.CreditWallet(tx, booking.UserID, refund,
			fmt.Sprintf("Refund for cancelled booking #%d", booking.ID),
			fmt.Sprintf("CANCEL-BOOKING-%d", booking.ID), &refBookingID); err != nil {
			tx.Rollback()
			utils.LogError("Failed to refund wallet for booking ID: %d: %v", booking.ID, err)
			utils.InternalServerError(c, "Failed to refund wallet", nil)
			return
		}
	}

	if err := tx.Commit().Error; err != nil {
		utils.LogError("Failed to commit transaction for booking ID: %d: %v", booking.ID, err)
		utils.InternalServerError(c, "Failed to commit transaction", nil)
		return
	}

	utils.LogInfo("Cancelled booking ID: %d with refund %.2f", booking.ID, refund)
	utils.Success(c, "Booking cancelled successfully", gin.H{
		"booking_id":        booking.ID,
		"booking_status":    models.BookingStatusCancelled,
		"wallet_refund":     fmt.Sprintf("%.2f", refund),
		"cancellation_note": req.Reason,
	})
}
