package utils

import (
	"fmt"
	"time"

	"github.com/Vishnu-717/TripTrail/models"
	"gorm.io/gorm"
)

func refundReference(bookingID uint) string {
	return fmt.Sprintf("REFUND-BOOKING-%d", bookingID)
}

// bookingTransitions is the transition table for verified payment events:
// (current booking status, verified transaction type) -> next booking status.
// Only the pairs listed here are legal; everything else is refused.
var bookingTransitions = map[[2]string]string{
	{models.BookingStatusPending, models.TransactionTypeFull}:         models.BookingStatusConfirmed,
	{models.BookingStatusPending, models.TransactionTypeSeatLock}:     models.BookingStatusSeatLocked,
	{models.BookingStatusSeatLocked, models.TransactionTypeRemaining}: models.BookingStatusConfirmed,
}

// NextBookingStatus resolves the transition table for a verified transaction.
func NextBookingStatus(current, transactionType string) (string, bool) {
	next, ok := bookingTransitions[[2]string{current, transactionType}]
	return next, ok
}

// CanReject reports whether a booking may move to rejected.
func CanReject(current string) bool {
	return current == models.BookingStatusPending || current == models.BookingStatusSeatLocked
}

// CanCancel reports whether the user may still cancel the booking.
func CanCancel(current string) bool {
	return current == models.BookingStatusPending || current == models.BookingStatusSeatLocked
}

// VerifiedTotal sums the verified transaction amounts for a booking.
func VerifiedTotal(db *gorm.DB, bookingID uint) (float64, error) {
	var total float64
	row := db.Model(&models.PaymentTransaction{}).
		Where("booking_id = ? AND status = ?", bookingID, models.TransactionStatusVerified).
		Select("COALESCE(SUM(amount), 0)").Row()
	if err := row.Scan(&total); err != nil {
		return 0, err
	}
	return total, nil
}

// RemainingAmount is what is still payable on a booking.
func RemainingAmount(booking *models.Booking, verifiedTotal float64) float64 {
	remaining := booking.FinalAmount - verifiedTotal
	if remaining < 0 {
		return 0
	}
	return remaining
}

// RemainingPaymentDeadline is the last moment a remaining payment may be
// submitted for a trip.
func RemainingPaymentDeadline(tripStart time.Time) time.Time {
	return tripStart.AddDate(0, 0, -RemainingPaymentCutoffDays)
}

// TryReserveSeats increments trip occupancy by count only if capacity allows,
// in a single conditional UPDATE. Capacity is not held earlier in the
// lifecycle, so this re-check at confirmation time is the one that counts.
func TryReserveSeats(db *gorm.DB, tripID uint, count int) *AppError {
	res := db.Model(&models.Trip{}).
		Where("id = ? AND current_participants + ? <= max_participants", tripID, count).
		UpdateColumn("current_participants", gorm.Expr("current_participants + ?", count))
	if res.Error != nil {
		return NewAppError(500, "Failed to reserve seats", res.Error)
	}
	if res.RowsAffected == 0 {
		return ConflictError("Trip capacity exceeded", nil)
	}
	return nil
}

// ReleaseSeats gives occupancy back, flooring at zero.
func ReleaseSeats(db *gorm.DB, tripID uint, count int) error {
	return db.Model(&models.Trip{}).
		Where("id = ? AND current_participants >= ?", tripID, count).
		UpdateColumn("current_participants", gorm.Expr("current_participants - ?", count)).Error
}

// ApplyVerifiedTransaction drives the booking state machine for a transaction
// that has just been verified. It enforces that verified coverage never
// exceeds the payable amount, resolves the transition table, reserves seats
// on confirmation and finalizes any coupon usage. Must run inside the same
// store transaction that flipped the payment row to verified.
func ApplyVerifiedTransaction(db *gorm.DB, booking *models.Booking, txn *models.PaymentTransaction) *AppError {
	priorVerified, err := VerifiedTotal(db, booking.ID)
	if err != nil {
		return NewAppError(500, "Failed to aggregate verified payments", err)
	}
	// The transaction row is already verified at this point, so priorVerified
	// includes its amount.
	if priorVerified > booking.FinalAmount+0.01 {
		return ConflictError("Verified payments would exceed the payable amount", nil)
	}

	next, ok := NextBookingStatus(booking.BookingStatus, txn.PaymentType)
	if !ok {
		return ConflictError("Payment type is not valid for the booking's current status", nil)
	}

	if next == models.BookingStatusConfirmed {
		if remaining := RemainingAmount(booking, priorVerified); remaining > 0.01 {
			return ConflictError("Booking is not fully paid", nil)
		}
		if appErr := TryReserveSeats(db, booking.TripID, booking.ParticipantCount); appErr != nil {
			return appErr
		}
	}

	updates := map[string]interface{}{
		"booking_status": next,
		"payment_status": models.PaymentStatusVerified,
	}
	if err := db.Model(&models.Booking{}).Where("id = ?", booking.ID).Updates(updates).Error; err != nil {
		return NewAppError(500, "Failed to update booking status", err)
	}

	if next == models.BookingStatusConfirmed {
		if err := FinalizeCouponUsage(db, booking.ID); err != nil {
			return NewAppError(500, "Failed to finalize coupon usage", err)
		}
	}

	booking.BookingStatus = next
	booking.PaymentStatus = models.PaymentStatusVerified
	return nil
}

// RejectBooking moves a booking to rejected with the given reason, releases
// its coupon usage and refunds any wallet amount it consumed. Must run inside
// a store transaction.
func RejectBooking(db *gorm.DB, booking *models.Booking, category, reason string) *AppError {
	if !CanReject(booking.BookingStatus) {
		return ConflictError("Booking can no longer be rejected", nil)
	}

	updates := map[string]interface{}{
		"booking_status":     models.BookingStatusRejected,
		"payment_status":     models.PaymentStatusRejected,
		"rejection_category": category,
		"rejection_reason":   reason,
	}
	if err := db.Model(&models.Booking{}).Where("id = ?", booking.ID).Updates(updates).Error; err != nil {
		return NewAppError(500, "Failed to update booking status", err)
	}

	if err := ReleaseCouponUsage(db, booking.ID); err != nil {
		return NewAppError(500, "Failed to release coupon usage", err)
	}

	if booking.WalletAmountUsed > 0 {
		bookingID := booking.ID
		if _, err := CreditWallet(db, booking.UserID, booking.WalletAmountUsed,
			"Refund for rejected booking", refundReference(booking.ID), &bookingID); err != nil {
			return NewAppError(500, "Failed to refund wallet amount", err)
		}
	}

	booking.BookingStatus = models.BookingStatusRejected
	booking.PaymentStatus = models.PaymentStatusRejected
	booking.RejectionCategory = category
	booking.RejectionReason = reason
	return nil
}
