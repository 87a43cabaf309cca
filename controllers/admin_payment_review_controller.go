package controllers

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/Vishnu-717/TripTrail/config"
	"github.com/Vishnu-717/TripTrail/models"
	"github.com/Vishnu-717/TripTrail/utils"
	"github.com/gin-gonic/gin"
)

// ListPendingPayments returns the manual payment transactions awaiting review,
// oldest first.
func ListPendingPayments(c *gin.Context) {
	utils.LogInfo("ListPendingPayments called")
	_, exists := c.Get("admin")
	if !exists {
		utils.Unauthorized(c, "Admin not found")
		return
	}

	pagination := utils.NewPagination(c)
	query := config.DB.Model(&models.PaymentTransaction{}).
		Where("status = ? AND payment_mode = ?", models.TransactionStatusPending, models.PaymentModeManual)
	if paymentType := c.Query("payment_type"); paymentType != "" {
		query = query.Where("payment_type = ?", paymentType)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		utils.LogError("Failed to count pending payments: %v", err)
		utils.InternalServerError(c, "Failed to count pending payments", nil)
		return
	}
	pagination.SetTotal(total)

	var txns []models.PaymentTransaction
	if err := query.Order("created_at ASC").
		Offset(pagination.Offset).Limit(pagination.Limit).
		Find(&txns).Error; err != nil {
		utils.LogError("Failed to fetch pending payments: %v", err)
		utils.InternalServerError(c, "Failed to fetch pending payments", nil)
		return
	}

	items := make([]gin.H, 0, len(txns))
	for _, t := range txns {
		items = append(items, gin.H{
			"id":           t.ID,
			"booking_id":   t.BookingID,
			"reference_id": t.ReferenceID,
			"amount":       fmt.Sprintf("%.2f", t.Amount),
			"payment_type": t.PaymentType,
			"submitted_at": t.CreatedAt,
		})
	}

	utils.LogInfo("Fetched %d pending payments", len(txns))
	utils.Success(c, "Pending payments fetched successfully", gin.H{
		"payments": items,
		"pagination": gin.H{
			"page":      pagination.Page,
			"limit":     pagination.Limit,
			"total":     pagination.Total,
			"last_page": pagination.LastPage,
		},
	})
}

// VerifyPayment marks a pending manual transaction as verified and advances
// the booking accordingly. The first reviewer to act on a transaction wins;
// a second attempt is refused.
func VerifyPayment(c *gin.Context) {
	utils.LogInfo("VerifyPayment called")
	adminVal, exists := c.Get("admin")
	if !exists {
		utils.Unauthorized(c, "Admin not found")
		return
	}
	admin := adminVal.(models.Admin)

	txnID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		utils.LogError("Invalid transaction ID: %v", err)
		utils.BadRequest(c, "Invalid transaction ID", nil)
		return
	}

	tx := config.DB.Begin()
	if tx.Error != nil {
		utils.LogError("Failed to start transaction: %v", tx.Error)
		utils.InternalServerError(c, "Failed to start transaction", nil)
		return
	}

	var txn models.PaymentTransaction
	if err := tx.First(&txn, txnID).Error; err != nil {
		tx.Rollback()
		utils.LogError("Payment transaction not found for ID: %d", txnID)
		utils.NotFound(c, "Payment transaction not found")
		return
	}

	var booking models.Booking
	if err := tx.Preload("Trip").Preload("User").First(&booking, txn.BookingID).Error; err != nil {
		tx.Rollback()
		utils.LogError("Booking not found for transaction ID: %d", txnID)
		utils.NotFound(c, "Booking not found for this transaction")
		return
	}

	res := tx.Model(&models.PaymentTransaction{}).
		Where("id = ? AND status = ?", txn.ID, models.TransactionStatusPending).
		Updates(map[string]interface{}{
			"status":      models.TransactionStatusVerified,
			"reviewed_by": admin.Email,
			"reviewed_at": time.Now(),
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
		utils.Conflict(c, "This payment has already been reviewed", nil)
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
			RecipientEmail: booking.User.Email,
			RecipientName:  booking.User.Username,
			TripName:       booking.Trip.Name,
			Amount:         txn.Amount,
		})
	}

	utils.LogInfo("Admin %s verified transaction ID: %d, booking ID: %d now %s",
		admin.Email, txn.ID, booking.ID, booking.BookingStatus)
	utils.Success(c, "Payment verified successfully", gin.H{
		"transaction_id": txn.ID,
		"booking_id":     booking.ID,
		"booking_status": booking.BookingStatus,
		"payment_status": booking.PaymentStatus,
	})
}

// RejectPaymentRequest carries the reviewer's verdict on a bad payment
type RejectPaymentRequest struct {
	Category string `json:"category" binding:"required"`
	Notes    string `json:"notes"`
}

var validRejectionCategories = map[string]bool{
	models.RejectionReasonFakePayment: true,
	models.RejectionReasonFakeDetails: true,
	models.RejectionReasonSeatsFull:   true,
	models.RejectionReasonOther:       true,
}

// RejectPayment marks a pending manual transaction as rejected and rejects the
// booking, releasing its coupon usage and refunding any wallet amount.
func RejectPayment(c *gin.Context) {
	utils.LogInfo("RejectPayment called")
	adminVal, exists := c.Get("admin")
	if !exists {
		utils.Unauthorized(c, "Admin not found")
		return
	}
	admin := adminVal.(models.Admin)

	txnID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		utils.LogError("Invalid transaction ID: %v", err)
		utils.BadRequest(c, "Invalid transaction ID", nil)
		return
	}

	var req RejectPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError("Invalid request: %v", err)
		utils.BadRequest(c, "Invalid request", err.Error())
		return
	}
	category := strings.ToLower(strings.TrimSpace(req.Category))
	if !validRejectionCategories[category] {
		utils.ValidationError(c, "Invalid rejection category. Must be one of: fake_payment, fake_details, seats_full, other", nil)
		return
	}
	if category == models.RejectionReasonOther && strings.TrimSpace(req.Notes) == "" {
		utils.ValidationError(c, "Notes are required when the category is other", nil)
		return
	}

	tx := config.DB.Begin()
	if tx.Error != nil {
		utils.LogError("Failed to start transaction: %v", tx.Error)
		utils.InternalServerError(c, "Failed to start transaction", nil)
		return
	}

	var txn models.PaymentTransaction
	if err := tx.First(&txn, txnID).Error; err != nil {
		tx.Rollback()
		utils.LogError("Payment transaction not found for ID: %d", txnID)
		utils.NotFound(c, "Payment transaction not found")
		return
	}

	var booking models.Booking
	if err := tx.Preload("Trip").Preload("User").First(&booking, txn.BookingID).Error; err != nil {
		tx.Rollback()
		utils.LogError("Booking not found for transaction ID: %d", txnID)
		utils.NotFound(c, "Booking not found for this transaction")
		return
	}

	res := tx.Model(&models.PaymentTransaction{}).
		Where("id = ? AND status = ?", txn.ID, models.TransactionStatusPending).
		Updates(map[string]interface{}{
			"status":             models.TransactionStatusRejected,
			"rejection_category": category,
			"rejection_notes":    req.Notes,
			"reviewed_by":        admin.Email,
			"reviewed_at":        time.Now(),
		})
	if res.Error != nil {
		tx.Rollback()
		utils.LogError("Failed to reject transaction ID: %d: %v", txn.ID, res.Error)
		utils.InternalServerError(c, "Failed to reject transaction", nil)
		return
	}
	if res.RowsAffected == 0 {
		tx.Rollback()
		utils.LogError("Transaction ID: %d already reviewed", txn.ID)
		utils.Conflict(c, "This payment has already been reviewed", nil)
		return
	}

	if appErr := utils.RejectBooking(tx, &booking, category, req.Notes); appErr != nil {
		tx.Rollback()
		utils.LogError("Failed to reject booking ID: %d: %v", booking.ID, appErr)
		utils.RespondWithAppError(c, appErr)
		return
	}

	if err := tx.Commit().Error; err != nil {
		utils.LogError("Failed to commit transaction for booking ID: %d: %v", booking.ID, err)
		utils.InternalServerError(c, "Failed to commit transaction", nil)
		return
	}

	utils.DispatchBookingNotification(utils.BookingNotification{
		BookingID:      booking.ID,
		EventType:      utils.NotifyBookingRejected,
		RecipientEmail: booking.User.Email,
		RecipientName:  booking.User.Username,
		TripName:       booking.Trip.Name,
		Reason:         category,
	})

	utils.LogInfo("Admin %s rejected transaction ID: %d, booking ID: %d", admin.Email, txn.ID, booking.ID)
	utils.Success(c, "Payment rejected", gin.H{
		"transaction_id":     txn.ID,
		"booking_id":         booking.ID,
		"booking_status":     booking.BookingStatus,
		"rejection_category": category,
	})
}
