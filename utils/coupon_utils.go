package utils

import (
	"time"

	"github.com/Vishnu-717/TripTrail/models"
	"gorm.io/gorm"
)

// Coupon rule failure messages, in evaluation order
const (
	MsgCouponNotFound         = "Coupon not found"
	MsgCouponInactive         = "Coupon is not active"
	MsgCouponNotYetActive     = "Coupon is not active yet"
	MsgCouponExpired          = "Coupon has expired"
	MsgCouponWrongTrip        = "Coupon is not applicable to this trip"
	MsgCouponWrongUser        = "Coupon is not applicable to this user"
	MsgCouponBelowMinimum     = "Booking amount is below the coupon minimum"
	MsgCouponUsageLimit       = "Coupon usage limit reached"
	MsgCouponUserLimit        = "You have already used this coupon the maximum number of times"
	MsgCouponNotEarlyBird     = "Booking is outside the early-bird window for this coupon"
	MsgCouponTotalDiscountCap = "Coupon has no remaining discount budget"
)

// CouponValidationResult is the outcome of a successful validation
type CouponValidationResult struct {
	Coupon         models.Coupon `json:"coupon"`
	DiscountAmount float64       `json:"discount_amount"`
	FinalAmount    float64       `json:"final_amount"`
}

// ComputeCouponDiscount computes the discount a coupon grants on amount.
// Percentage discounts are capped at MaxDiscount when set; fixed discounts
// never exceed the amount itself.
func ComputeCouponDiscount(coupon *models.Coupon, amount float64) float64 {
	var discount float64
	switch coupon.DiscountType {
	case models.DiscountTypePercentage:
		discount = amount * coupon.DiscountValue / 100
		if coupon.MaxDiscount > 0 && discount > coupon.MaxDiscount {
			discount = coupon.MaxDiscount
		}
	case models.DiscountTypeFixed:
		discount = coupon.DiscountValue
		if discount > amount {
			discount = amount
		}
	}
	return discount
}

// WithinEarlyBirdWindow reports whether a booking made at bookedAt is at
// least days days before the trip departs.
func WithinEarlyBirdWindow(bookedAt, tripStart time.Time, days int) bool {
	return !bookedAt.After(tripStart.AddDate(0, 0, -days))
}

// ValidateCoupon evaluates a coupon code against the booking context. Rules
// are checked in order and the first failure wins. Validation never persists
// usage; RedeemCoupon commits it atomically with the booking.
func ValidateCoupon(db *gorm.DB, code string, amount float64, tripID, userID uint, bookedAt, tripStart time.Time) (*CouponValidationResult, *AppError) {
	var coupon models.Coupon
	if err := db.Where("LOWER(code) = LOWER(?)", code).First(&coupon).Error; err != nil {
		return nil, NotFoundError(MsgCouponNotFound, err)
	}

	if !coupon.Active {
		return nil, BadRequestError(MsgCouponInactive, nil)
	}
	now := time.Now()
	if now.Before(coupon.ValidFrom) {
		return nil, BadRequestError(MsgCouponNotYetActive, nil)
	}
	if now.After(coupon.ValidUntil) {
		return nil, BadRequestError(MsgCouponExpired, nil)
	}

	var tripRestrictions int64
	if err := db.Model(&models.CouponTripRestriction{}).Where("coupon_id = ?", coupon.ID).Count(&tripRestrictions).Error; err != nil {
		return nil, NewAppError(500, "Failed to check coupon trip restrictions", err)
	}
	if tripRestrictions > 0 {
		var match int64
		db.Model(&models.CouponTripRestriction{}).Where("coupon_id = ? AND trip_id = ?", coupon.ID, tripID).Count(&match)
		if match == 0 {
			return nil, BadRequestError(MsgCouponWrongTrip, nil)
		}
	}

	var userRestrictions int64
	if err := db.Model(&models.CouponUserRestriction{}).Where("coupon_id = ?", coupon.ID).Count(&userRestrictions).Error; err != nil {
		return nil, NewAppError(500, "Failed to check coupon user restrictions", err)
	}
	if userRestrictions > 0 {
		var match int64
		db.Model(&models.CouponUserRestriction{}).Where("coupon_id = ? AND user_id = ?", coupon.ID, userID).Count(&match)
		if match == 0 {
			return nil, BadRequestError(MsgCouponWrongUser, nil)
		}
	}

	if amount < coupon.MinAmount {
		return nil, BadRequestError(MsgCouponBelowMinimum, nil)
	}

	if coupon.UsedCount >= coupon.UsageLimit {
		return nil, ConflictError(MsgCouponUsageLimit, nil)
	}

	var userUses int64
	if err := db.Model(&models.CouponUsage{}).
		Where("coupon_id = ? AND user_id = ? AND status <> ?", coupon.ID, userID, models.CouponUsageReleased).
		Count(&userUses).Error; err != nil {
		return nil, NewAppError(500, "Failed to check coupon usage", err)
	}
	if coupon.PerUserLimit > 0 && userUses >= int64(coupon.PerUserLimit) {
		return nil, ConflictError(MsgCouponUserLimit, nil)
	}

	if coupon.EarlyBird && !WithinEarlyBirdWindow(bookedAt, tripStart, coupon.EarlyBirdDays) {
		return nil, BadRequestError(MsgCouponNotEarlyBird, nil)
	}

	discount := ComputeCouponDiscount(&coupon, amount)

	if coupon.MaxTotalDiscount > 0 {
		var issued float64
		row := db.Model(&models.CouponUsage{}).
			Where("coupon_id = ? AND status <> ?", coupon.ID, models.CouponUsageReleased).
			Select("COALESCE(SUM(discount_amount), 0)").Row()
		if err := row.Scan(&issued); err != nil {
			return nil, NewAppError(500, "Failed to check issued discount", err)
		}
		if issued+discount > coupon.MaxTotalDiscount {
			return nil, ConflictError(MsgCouponTotalDiscountCap, nil)
		}
	}

	return &CouponValidationResult{
		Coupon:         coupon,
		DiscountAmount: discount,
		FinalAmount:    amount - discount,
	}, nil
}

// RedeemCoupon commits a coupon redemption. All three caps — usage limit,
// per-user limit and discount budget — are re-checked inside the conditional
// increment itself, so concurrent redemptions racing past any of them lose,
// and a provisional usage row ties the redemption to the booking.
func RedeemCoupon(db *gorm.DB, coupon *models.Coupon, bookingID, userID uint, discount float64) *AppError {
	res := db.Exec(`
		UPDATE coupons SET used_count = used_count + 1, updated_at = NOW()
		WHERE id = ?
		  AND used_count < usage_limit
		  AND (per_user_limit = 0 OR per_user_limit > (
			SELECT COUNT(*) FROM coupon_usages
			WHERE coupon_id = coupons.id AND user_id = ? AND status <> ?))
		  AND (max_total_discount = 0 OR max_total_discount >= ? + (
			SELECT COALESCE(SUM(discount_amount), 0) FROM coupon_usages
			WHERE coupon_id = coupons.id AND status <> ?))`,
		coupon.ID, userID, models.CouponUsageReleased, discount, models.CouponUsageReleased)
	if res.Error != nil {
		return NewAppError(500, "Failed to redeem coupon", res.Error)
	}
	if res.RowsAffected == 0 {
		return redeemConflict(db, coupon.ID, userID)
	}

	usage := models.CouponUsage{
		CouponID:       coupon.ID,
		BookingID:      bookingID,
		UserID:         userID,
		DiscountAmount: discount,
		Status:         models.CouponUsageProvisional,
	}
	if err := db.Create(&usage).Error; err != nil {
		return NewAppError(500, "Failed to record coupon usage", err)
	}
	return nil
}

// redeemConflict re-reads the caps to name the one that refused the
// redemption. The refusal itself already happened atomically.
func redeemConflict(db *gorm.DB, couponID, userID uint) *AppError {
	var coupon models.Coupon
	if err := db.First(&coupon, couponID).Error; err != nil {
		return ConflictError(MsgCouponUsageLimit, err)
	}
	if coupon.UsedCount >= coupon.UsageLimit {
		return ConflictError(MsgCouponUsageLimit, nil)
	}
	if coupon.PerUserLimit > 0 {
		var userUses int64
		db.Model(&models.CouponUsage{}).
			Where("coupon_id = ? AND user_id = ? AND status <> ?", couponID, userID, models.CouponUsageReleased).
			Count(&userUses)
		if userUses >= int64(coupon.PerUserLimit) {
			return ConflictError(MsgCouponUserLimit, nil)
		}
	}
	return ConflictError(MsgCouponTotalDiscountCap, nil)
}

// FinalizeCouponUsage marks the booking's provisional redemption final.
func FinalizeCouponUsage(db *gorm.DB, bookingID uint) error {
	return db.Model(&models.CouponUsage{}).
		Where("booking_id = ? AND status = ?", bookingID, models.CouponUsageProvisional).
		UpdateColumn("status", models.CouponUsageFinal).Error
}

// ReleaseCouponUsage releases the booking's redemption and reopens the slot
// on the usage counter. Safe to call when the booking used no coupon.
func ReleaseCouponUsage(db *gorm.DB, bookingID uint) error {
	var usage models.CouponUsage
	err := db.Where("booking_id = ? AND status = ?", bookingID, models.CouponUsageProvisional).First(&usage).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil
		}
		return err
	}

	if err := db.Model(&models.CouponUsage{}).Where("id = ?", usage.ID).
		UpdateColumn("status", models.CouponUsageReleased).Error; err != nil {
		return err
	}
	return db.Model(&models.Coupon{}).
		Where("id = ? AND used_count > 0", usage.CouponID).
		UpdateColumn("used_count", gorm.Expr("used_count - 1")).Error
}
