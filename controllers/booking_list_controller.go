package controllers

import (
	"fmt"
	"strconv"

	"github.com/Vishnu-717/TripTrail/config"
	"github.com/Vishnu-717/TripTrail/models"
	"github.com/Vishnu-717/TripTrail/utils"
	"github.com/gin-gonic/gin"
)

// ListMyBookings returns the caller's bookings, newest first.
func ListMyBookings(c *gin.Context) {
	utils.LogInfo("ListMyBookings called")
	userVal, exists := c.Get("user")
	if !exists {
		utils.Unauthorized(c, "User not found")
		return
	}
	user := userVal.(models.User)

	pagination := utils.NewPagination(c)
	query := config.DB.Model(&models.Booking{}).Where("user_id = ?", user.ID)
	if status := c.Query("status"); status != "" {
		query = query.Where("booking_status = ?", status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		utils.LogError("Failed to count bookings for user ID: %d: %v", user.ID, err)
		utils.InternalServerError(c, "Failed to count bookings", nil)
		return
	}
	pagination.SetTotal(total)

	var bookings []models.Booking
	if err := query.Preload("Trip").
		Order("created_at DESC").
		Offset(pagination.Offset).Limit(pagination.Limit).
		Find(&bookings).Error; err != nil {
		utils.LogError("Failed to fetch bookings for user ID: %d: %v", user.ID, err)
		utils.InternalServerError(c, "Failed to fetch bookings", nil)
		return
	}

	items := make([]gin.H, 0, len(bookings))
	for _, b := range bookings {
		items = append(items, gin.H{
			"id":                b.ID,
			"trip_name":         b.Trip.Name,
			"trip_start_date":   b.Trip.StartDate,
			"booking_status":    b.BookingStatus,
			"payment_status":    b.PaymentStatus,
			"payment_method":    b.PaymentMethod,
			"participant_count": b.ParticipantCount,
			"final_amount":      fmt.Sprintf("%.2f", b.FinalAmount),
			"created_at":        b.CreatedAt,
		})
	}

	utils.LogInfo("Fetched %d bookings for user ID: %d", len(bookings), user.ID)
	utils.Success(c, "Bookings fetched successfully", gin.H{
		"bookings": items,
		"pagination": gin.H{
			"page":      pagination.Page,
			"limit":     pagination.Limit,
			"total":     pagination.Total,
			"last_page": pagination.LastPage,
		},
	})
}

// GetBookingDetail returns one booking with its passengers, transactions and
// the amount still payable.
func GetBookingDetail(c *gin.Context) {
	utils.LogInfo("GetBookingDetail called")
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

	var booking models.Booking
	if err := config.DB.Preload("Trip").Preload("Passengers").Preload("Transactions").
		Where("id = ? AND user_id = ?", bookingID, user.ID).First(&booking).Error; err != nil {
		utils.LogError("Booking not found for ID: %d, user ID: %d", bookingID, user.ID)
		utils.NotFound(c, "Booking not found")
		return
	}

	verifiedTotal, err := utils.VerifiedTotal(config.DB, booking.ID)
	if err != nil {
		utils.LogError("Failed to aggregate verified payments for booking ID: %d: %v", booking.ID, err)
		utils.InternalServerError(c, "Failed to compute booking balance", nil)
		return
	}
	remaining := utils.RemainingAmount(&booking, verifiedTotal)

	passengers := make([]gin.H, 0, len(booking.Passengers))
	for _, p := range booking.Passengers {
		passengers = append(passengers, gin.H{
			"name":   p.Name,
			"age":    p.Age,
			"gender": p.Gender,
			"phone":  p.Phone,
		})
	}
	transactions := make([]gin.H, 0, len(booking.Transactions))
	for _, t := range booking.Transactions {
		transactions = append(transactions, gin.H{
			"id":           t.ID,
			"reference_id": t.ReferenceID,
			"amount":       fmt.Sprintf("%.2f", t.Amount),
			"payment_type": t.PaymentType,
			"payment_mode": t.PaymentMode,
			"status":       t.Status,
			"submitted_at": t.CreatedAt,
		})
	}

	detail := gin.H{
		"id":                 booking.ID,
		"trip_id":            booking.TripID,
		"trip_name":          booking.Trip.Name,
		"trip_start_date":    booking.Trip.StartDate,
		"booking_status":     booking.BookingStatus,
		"payment_status":     booking.PaymentStatus,
		"payment_method":     booking.PaymentMethod,
		"payment_mode":       booking.PaymentMode,
		"participant_count":  booking.ParticipantCount,
		"base_amount":        fmt.Sprintf("%.2f", booking.BaseAmount),
		"coupon_code":        booking.CouponCode,
		"coupon_discount":    fmt.Sprintf("%.2f", booking.CouponDiscount),
		"wallet_amount_used": fmt.Sprintf("%.2f", booking.WalletAmountUsed),
		"final_amount":       fmt.Sprintf("%.2f", booking.FinalAmount),
		"verified_total":     fmt.Sprintf("%.2f", verifiedTotal),
		"remaining_amount":   fmt.Sprintf("%.2f", remaining),
		"passengers":         passengers,
		"transactions":       transactions,
		"created_at":         booking.CreatedAt,
	}
	if booking.BookingStatus == models.BookingStatusSeatLocked {
		detail["remaining_payment_deadline"] = utils.RemainingPaymentDeadline(booking.Trip.StartDate).Format("2006-01-02")
	}
	if booking.BookingStatus == models.BookingStatusRejected {
		detail["rejection_category"] = booking.RejectionCategory
		detail["rejection_reason"] = booking.RejectionReason
	}

	utils.Success(c, "Booking fetched successfully", gin.H{"booking": detail})
}
