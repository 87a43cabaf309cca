package controllers

import (
	"fmt"
	"time"

	"github.com/Vishnu-717/TripTrail/config"
	"github.com/Vishnu-717/TripTrail/models"
	"github.com/Vishnu-717/TripTrail/utils"
	"github.com/gin-gonic/gin"
)

// SendPaymentReminders dispatches a payment-reminder notification to every
// seat-locked booking whose remaining-payment window closes within the next
// seven days. Intended to be triggered from the admin dashboard or a cron.
func SendPaymentReminders(c *gin.Context) {
	utils.LogInfo("SendPaymentReminders called")
	_, exists := c.Get("admin")
	if !exists {
		utils.Unauthorized(c, "Admin not found")
		return
	}

	now := time.Now()
	horizon := now.AddDate(0, 0, utils.RemainingPaymentCutoffDays+7)

	var bookings []models.Booking
	if err := config.DB.Preload("Trip").Preload("User").
		Joins("JOIN trips ON trips.id = bookings.trip_id").
		Where("bookings.booking_status = ? AND trips.start_date BETWEEN ? AND ?",
			models.BookingStatusSeatLocked, now, horizon).
		Find(&bookings).Error; err != nil {
		utils.LogError("Failed to fetch seat-locked bookings: %v", err)
		utils.InternalServerError(c, "Failed to fetch seat-locked bookings", nil)
		return
	}

	reminded := 0
	for _, b := range bookings {
		deadline := utils.RemainingPaymentDeadline(b.Trip.StartDate)
		if now.After(deadline) {
			continue
		}
		verifiedTotal, err := utils.VerifiedTotal(config.DB, b.ID)
		if err != nil {
			utils.LogError("Failed to aggregate verified payments for booking ID: %d: %v", b.ID, err)
			continue
		}
		remaining := utils.RemainingAmount(&b, verifiedTotal)
		if remaining <= 0.01 {
			continue
		}
		utils.DispatchBookingNotification(utils.BookingNotification{
			BookingID:      b.ID,
			EventType:      utils.NotifyPaymentReminder,
			RecipientEmail: b.User.Email,
			RecipientName:  b.User.Username,
			TripName:       b.Trip.Name,
			Amount:         remaining,
			Reason:         fmt.Sprintf("Remaining payment due by %s", deadline.Format("2006-01-02")),
		})
		reminded++
	}

	utils.LogInfo("Dispatched %d payment reminders", reminded)
	utils.Success(c, "Payment reminders dispatched", gin.H{
		"bookings_checked": len(bookings),
		"reminders_sent":   reminded,
	})
}
