package controllers

import (
	"fmt"
	"strings"
	"time"

	"github.com/Vishnu-717/TripTrail/config"
	"github.com/Vishnu-717/TripTrail/models"
	"github.com/Vishnu-717/TripTrail/utils"
	"github.com/gin-gonic/gin"
)

// PassengerRequest is one traveller entry in a booking request
type PassengerRequest struct {
	Name   string `json:"name" binding:"required"`
	Age    int    `json:"age" binding:"required"`
	Gender string `json:"gender" binding:"required"`
	Phone  string `json:"phone"`
}

// CreateBookingRequest represents the request body for creating a booking
type CreateBookingRequest struct {
	TripID        uint               `json:"trip_id" binding:"required"`
	PaymentMethod string             `json:"payment_method" binding:"required"`
	PaymentMode   string             `json:"payment_mode" binding:"required"`
	CouponCode    string             `json:"coupon_code"`
	WalletAmount  float64            `json:"wallet_amount"`
	Passengers    []PassengerRequest `json:"passengers" binding:"required"`
}

// CreateBooking creates a booking in its initial state: prices the seats from
// the trip's tiers, applies a coupon and a wallet debit, and leaves the
// booking pending (or cash_pending) for the payment channels to settle.
func CreateBooking(c *gin.Context) {
	utils.LogInfo("CreateBooking called")
	userVal, exists := c.Get("user")
	if !exists {
		utils.LogError("User not found in context")
		utils.Unauthorized(c, "User not found")
		return
	}
	user := userVal.(models.User)
	userID := user.ID
	utils.LogInfo("Processing booking creation for user ID: %d", userID)

	var req CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError("Invalid request for user ID: %d: %v", userID, err)
		utils.BadRequest(c, "Invalid request", err.Error())
		return
	}

	paymentMethod := strings.ToLower(strings.TrimSpace(req.PaymentMethod))
	if paymentMethod != models.PaymentMethodFull && paymentMethod != models.PaymentMethodSeatLock {
		utils.LogError("Invalid payment method '%s' for user ID: %d", paymentMethod, userID)
		utils.BadRequest(c, "Invalid payment method. Must be one of: full, seat_lock", nil)
		return
	}

	paymentMode := strings.ToLower(strings.TrimSpace(req.PaymentMode))
	validModes := map[string]bool{
		models.PaymentModeManual:  true,
		models.PaymentModeCash:    true,
		models.PaymentModeGateway: true,
	}
	if !validModes[paymentMode] {
		utils.LogError("Invalid payment mode '%s' for user ID: %d", paymentMode, userID)
		utils.BadRequest(c, "Invalid payment mode. Must be one of: manual, cash, gateway", nil)
		return
	}

	if len(req.Passengers) == 0 {
		utils.ValidationError(c, "At least one passenger is required", nil)
		return
	}
	var fieldErrs utils.FieldValidationErrors
	for i, p := range req.Passengers {
		fieldErrs = append(fieldErrs, utils.ValidatePassenger(i, p.Name, p.Gender, p.Phone, p.Age)...)
	}
	if len(fieldErrs) > 0 {
		utils.LogError("Passenger validation failed for user ID: %d: %v", userID, fieldErrs)
		utils.ValidationError(c, "Invalid passenger details", fieldErrs)
		return
	}
	if req.WalletAmount < 0 {
		utils.ValidationError(c, "Wallet amount cannot be negative", nil)
		return
	}

	var trip models.Trip
	if err := config.DB.Where("id = ? AND is_active = ?", req.TripID, true).First(&trip).Error; err != nil {
		utils.LogError("Trip not found for ID: %d, user ID: %d", req.TripID, userID)
		utils.NotFound(c, "Trip not found")
		return
	}
	now := time.Now()
	if !trip.StartDate.After(now) {
		utils.LogError("Trip %d has already departed", trip.ID)
		utils.BadRequest(c, "Trip has already departed", nil)
		return
	}

	participantCount := len(req.Passengers)
	// Advisory check only. Capacity is enforced with a conditional update at
	// confirmation time.
	if trip.SeatsLeft() < participantCount {
		utils.LogError("Trip %d has only %d seats left, %d requested", trip.ID, trip.SeatsLeft(), participantCount)
		utils.Conflict(c, "Not enough seats left on this trip", gin.H{"seats_left": trip.SeatsLeft()})
		return
	}

	// Seat-lock bookings owe the full tier in total; the lock amount is just
	// the first settlement leg.
	var baseAmount float64
	if paymentMethod == models.PaymentMethodSeatLock {
		baseAmount = trip.FullPrice * float64(participantCount)
	} else {
		baseAmount = trip.PricePerSeat(paymentMethod, now) * float64(participantCount)
	}
	utils.LogInfo("Base amount %.2f for %d participants on trip %d", baseAmount, participantCount, trip.ID)

	tx := config.DB.Begin()
	if tx.Error != nil {
		utils.LogError("Failed to start transaction for user ID: %d: %v", userID, tx.Error)
		utils.InternalServerError(c, "Failed to start transaction", nil)
		return
	}

	var couponResult *utils.CouponValidationResult
	if req.CouponCode != "" {
		var appErr *utils.AppError
		couponResult, appErr = utils.ValidateCoupon(tx, req.CouponCode, baseAmount, trip.ID, userID, now, trip.StartDate)
		if appErr != nil {
			tx.Rollback()
			utils.LogError("Coupon validation failed for user ID: %d, code %s: %v", userID, req.CouponCode, appErr)
			utils.RespondWithAppError(c, appErr)
			return
		}
	}

	couponDiscount := 0.0
	couponCode := ""
	if couponResult != nil {
		couponDiscount = couponResult.DiscountAmount
		couponCode = couponResult.Coupon.Code
	}

	initialPaymentStatus := models.PaymentStatusPending
	if paymentMode == models.PaymentModeCash {
		initialPaymentStatus = models.PaymentStatusCashPending
	}

	booking := models.Booking{
		TripID:           trip.ID,
		UserID:           userID,
		BookingStatus:    models.BookingStatusPending,
		PaymentStatus:    initialPaymentStatus,
		PaymentMethod:    paymentMethod,
		PaymentMode:      paymentMode,
		BaseAmount:       baseAmount,
		CouponCode:       couponCode,
		CouponDiscount:   couponDiscount,
		FinalAmount:      baseAmount - couponDiscount,
		ParticipantCount: participantCount,
	}
	for _, p := range req.Passengers {
		booking.Passengers = append(booking.Passengers, models.Passenger{
			Name:   strings.TrimSpace(p.Name),
			Age:    p.Age,
			Gender: strings.ToLower(p.Gender),
			Phone:  p.Phone,
		})
	}
	if err := tx.Create(&booking).Error; err != nil {
		tx.Rollback()
		utils.LogError("Failed to create booking for user ID: %d: %v", userID, err)
		utils.InternalServerError(c, "Failed to create booking", err.Error())
		return
	}
	utils.LogInfo("Created booking ID: %d for user ID: %d", booking.ID, userID)

	if couponResult != nil {
		if appErr := utils.RedeemCoupon(tx, &couponResult.Coupon, booking.ID, userID, couponDiscount); appErr != nil {
			tx.Rollback()
			utils.LogError("Coupon redemption failed for booking ID: %d: %v", booking.ID, appErr)
			utils.RespondWithAppError(c, appErr)
			return
		}
		utils.LogInfo("Redeemed coupon %s for booking ID: %d, discount %.2f", couponCode, booking.ID, couponDiscount)
	}

	walletUsed := 0.0
	if req.WalletAmount > 0 {
		clamped := utils.ClampWalletRequest(req.WalletAmount, booking.FinalAmount)
		bookingID := booking.ID
		result, err := utils.DebitWallet(tx, userID, clamped,
			fmt.Sprintf("Payment towards booking #%d", booking.ID),
			fmt.Sprintf("BOOKING-%d", booking.ID), &bookingID)
		if err != nil {
			tx.Rollback()
			utils.LogError("Wallet debit failed for booking ID: %d: %v", booking.ID, err)
			utils.InternalServerError(c, "Failed to debit wallet", err.Error())
			return
		}
		// Debits clamp silently to the balance, except when there is nothing
		// to clamp to.
		if clamped > 0 && result.AmountUsed == 0 {
			tx.Rollback()
			utils.LogError("Wallet empty for user ID: %d on booking ID: %d", userID, booking.ID)
			utils.BadRequest(c, "Wallet balance is empty", nil)
			return
		}
		walletUsed = result.AmountUsed
		utils.LogInfo("Wallet debit of %.2f applied to booking ID: %d", walletUsed, booking.ID)
	}

	finalAmount := baseAmount - couponDiscount - walletUsed
	if finalAmount < 0 {
		finalAmount = 0
	}

	updates := map[string]interface{}{
		"wallet_amount_used": walletUsed,
		"final_amount":       finalAmount,
	}

	// A wallet that covers the whole payable amount settles the booking on
	// the spot; there is nothing left for a payment channel to collect.
	walletSettled := finalAmount <= 0.01 && paymentMode != models.PaymentModeCash
	if walletSettled {
		if appErr := utils.TryReserveSeats(tx, trip.ID, participantCount); appErr != nil {
			tx.Rollback()
			utils.LogError("Seat reservation failed for booking ID: %d: %v", booking.ID, appErr)
			utils.RespondWithAppError(c, appErr)
			return
		}
		updates["booking_status"] = models.BookingStatusConfirmed
		updates["payment_status"] = models.PaymentStatusVerified
		if err := utils.FinalizeCouponUsage(tx, booking.ID); err != nil {
			tx.Rollback()
			utils.LogError("Failed to finalize coupon usage for booking ID: %d: %v", booking.ID, err)
			utils.InternalServerError(c, "Failed to finalize coupon usage", nil)
			return
		}
	}

	if err := tx.Model(&models.Booking{}).Where("id = ?", booking.ID).Updates(updates).Error; err != nil {
		tx.Rollback()
		utils.LogError("Failed to update booking amounts for booking ID: %d: %v", booking.ID, err)
		utils.InternalServerError(c, "Failed to update booking", err.Error())
		return
	}

	if err := tx.Commit().Error; err != nil {
		utils.LogError("Failed to commit transaction for booking ID: %d: %v", booking.ID, err)
		utils.InternalServerError(c, "Failed to commit transaction", nil)
		return
	}

	eventType := utils.NotifyBookingPending
	bookingStatus := models.BookingStatusPending
	paymentStatus := initialPaymentStatus
	if walletSettled {
		eventType = utils.NotifyBookingConfirmed
		bookingStatus = models.BookingStatusConfirmed
		paymentStatus = models.PaymentStatusVerified
	}
	utils.DispatchBookingNotification(utils.BookingNotification{
		BookingID:      booking.ID,
		EventType:      eventType,
		RecipientEmail: user.Email,
		RecipientName:  user.Username,
		TripName:       trip.Name,
		Amount:         finalAmount,
	})

	amountDueNow := finalAmount
	if paymentMethod == models.PaymentMethodSeatLock && !walletSettled {
		lockAmount := trip.SeatLockPrice * float64(participantCount)
		if lockAmount < amountDueNow {
			amountDueNow = lockAmount
		}
	}

	utils.LogInfo("Successfully created booking ID: %d with status %s", booking.ID, bookingStatus)
	utils.Created(c, "Booking created successfully", gin.H{
		"booking": gin.H{
			"id":                 booking.ID,
			"trip_id":            trip.ID,
			"trip_name":          trip.Name,
			"booking_status":     bookingStatus,
			"payment_status":     paymentStatus,
			"payment_method":     paymentMethod,
			"payment_mode":       paymentMode,
			"participant_count":  participantCount,
			"base_amount":        fmt.Sprintf("%.2f", baseAmount),
			"coupon_code":        couponCode,
			"coupon_discount":    fmt.Sprintf("%.2f", couponDiscount),
			"wallet_amount_used": fmt.Sprintf("%.2f", walletUsed),
			"final_amount":       fmt.Sprintf("%.2f", finalAmount),
			"amount_due_now":     fmt.Sprintf("%.2f", amountDueNow),
		},
	})
}
