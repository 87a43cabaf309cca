package controllers

import (
	"fmt"
	"strconv"

	"github.com/Vishnu-717/TripTrail/config"
	"github.com/Vishnu-717/TripTrail/models"
	"github.com/Vishnu-717/TripTrail/utils"
	"github.com/gin-gonic/gin"
)

var bookingSortColumns = map[string]string{
	"created_at":   "bookings.created_at",
	"final_amount": "bookings.final_amount",
	"start_date":   "trips.start_date",
}

// AdminListBookings returns bookings across all users with filtering and
// sorting for the review dashboard.
func AdminListBookings(c *gin.Context) {
	utils.LogInfo("AdminListBookings called")
	_, exists := c.Get("admin")
	if !exists {
		utils.Unauthorized(c, "Admin not found")
		return
	}

	pagination := utils.NewPagination(c)
	query := config.DB.Model(&models.Booking{}).
		Joins("JOIN trips ON trips.id = bookings.trip_id").
		Joins("JOIN users ON users.id = bookings.user_id")

	if status := c.Query("booking_status"); status != "" {
		query = query.Where("bookings.booking_status = ?", status)
	}
	if status := c.Query("payment_status"); status != "" {
		query = query.Where("bookings.payment_status = ?", status)
	}
	if mode := c.Query("payment_mode"); mode != "" {
		query = query.Where("bookings.payment_mode = ?", mode)
	}
	if tripID := c.Query("trip_id"); tripID != "" {
		query = query.Where("bookings.trip_id = ?", tripID)
	}
	if search := c.Query("search"); search != "" {
		pattern := "%" + search + "%"
		query = query.Where("users.email ILIKE ? OR users.username ILIKE ?", pattern, pattern)
	}

	sortColumn, ok := bookingSortColumns[c.DefaultQuery("sort", "created_at")]
	if !ok {
		sortColumn = "bookings.created_at"
	}
	direction := "DESC"
	if c.DefaultQuery("order", "desc") == "asc" {
		direction = "ASC"
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		utils.LogError("Failed to count bookings: %v", err)
		utils.InternalServerError(c, "Failed to count bookings", nil)
		return
	}
	pagination.SetTotal(total)

	var bookings []models.Booking
	if err := query.Preload("Trip").Preload("User").
		Order(sortColumn + " " + direction).
		Offset(pagination.Offset).Limit(pagination.Limit).
		Find(&bookings).Error; err != nil {
		utils.LogError("Failed to fetch bookings: %v", err)
		utils.InternalServerError(c, "Failed to fetch bookings", nil)
		return
	}

	items := make([]gin.H, 0, len(bookings))
	for _, b := range bookings {
		items = append(items, gin.H{
			"id":                b.ID,
			"user_email":        b.User.Email,
			"trip_name":         b.Trip.Name,
			"trip_start_date":   b.Trip.StartDate,
			"booking_status":    b.BookingStatus,
			"payment_status":    b.PaymentStatus,
			"payment_method":    b.PaymentMethod,
			"payment_mode":      b.PaymentMode,
			"participant_count": b.ParticipantCount,
			"final_amount":      fmt.Sprintf("%.2f", b.FinalAmount),
			"created_at":        b.CreatedAt,
		})
	}

	utils.LogInfo("Fetched %d bookings for admin", len(bookings))
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

// AdminGetBooking returns the full picture of one booking for review:
// passengers, every settlement attempt, and the verified coverage.
func AdminGetBooking(c *gin.Context) {
	utils.LogInfo("AdminGetBooking called")
	_, exists := c.Get("admin")
	if !exists {
		utils.Unauthorized(c, "Admin not found")
		return
	}

	bookingID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		utils.LogError("Invalid booking ID: %v", err)
		utils.BadRequest(c, "Invalid booking ID", nil)
		return
	}

	var booking models.Booking
	if err := config.DB.Preload("Trip").Preload("User").
		Preload("Passengers").Preload("Transactions").
		First(&booking, bookingID).Error; err != nil {
		utils.LogError("Booking not found for ID: %d", bookingID)
		utils.NotFound(c, "Booking not found")
		return
	}

	verifiedTotal, err := utils.VerifiedTotal(config.DB, booking.ID)
	if err != nil {
		utils.LogError("Failed to aggregate verified payments for booking ID: %d: %v", booking.ID, err)
		utils.InternalServerError(c, "Failed to compute booking balance", nil)
		return
	}

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
		entry := gin.H{
			"id":           t.ID,
			"reference_id": t.ReferenceID,
			"amount":       fmt.Sprintf("%.2f", t.Amount),
			"payment_type": t.PaymentType,
			"payment_mode": t.PaymentMode,
			"status":       t.Status,
			"submitted_at": t.CreatedAt,
		}
		if t.ReviewedBy != "" {
			entry["reviewed_by"] = t.ReviewedBy
			entry["reviewed_at"] = t.ReviewedAt
		}
		if t.Status == models.TransactionStatusRejected {
			entry["rejection_category"] = t.RejectionCategory
			entry["rejection_notes"] = t.RejectionNotes
		}
		transactions = append(transactions, entry)
	}

	utils.Success(c, "Booking fetched successfully", gin.H{
		"booking": gin.H{
			"id":                 booking.ID,
			"user":               gin.H{"id": booking.User.ID, "username": booking.User.Username, "email": booking.User.Email},
			"trip":               gin.H{"id": booking.Trip.ID, "name": booking.Trip.Name, "start_date": booking.Trip.StartDate},
			"booking_status":     booking.BookingStatus,
			"payment_status":     booking.PaymentStatus,
			"payment_method":     booking.PaymentMethod,
			"payment_mode":       booking.PaymentMode,
			"base_amount":        fmt.Sprintf("%.2f", booking.BaseAmount),
			"coupon_code":        booking.CouponCode,
			"coupon_discount":    fmt.Sprintf("%.2f", booking.CouponDiscount),
			"wallet_amount_used": fmt.Sprintf("%.2f", booking.WalletAmountUsed),
			"final_amount":       fmt.Sprintf("%.2f", booking.FinalAmount),
			"verified_total":     fmt.Sprintf("%.2f", verifiedTotal),
			"remaining_amount":   fmt.Sprintf("%.2f", utils.RemainingAmount(&booking, verifiedTotal)),
			"rejection_category": booking.RejectionCategory,
			"rejection_reason":   booking.RejectionReason,
			"passengers":         passengers,
			"transactions":       transactions,
			"created_at":         booking.CreatedAt,
		},
	})
}
