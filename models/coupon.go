package models

import (
	"time"

	"gorm.io/gorm"
)

// Coupon discount type constants
const (
	DiscountTypePercentage = "percentage"
	DiscountTypeFixed      = "fixed"
)

// Coupon usage record status constants
const (
	CouponUsageProvisional = "provisional"
	CouponUsageFinal       = "final"
	CouponUsageReleased    = "released"
)

type Coupon struct {
	ID               uint           `gorm:"primaryKey" json:"id"`
	Code             string         `json:"code"`
	DiscountType     string         `json:"discount_type"` // "percentage" or "fixed"
	DiscountValue    float64        `json:"discount_value"`
	MinAmount        float64        `json:"min_amount"`
	MaxDiscount      float64        `json:"max_discount"`
	UsageLimit       int            `json:"usage_limit"`
	PerUserLimit     int            `json:"per_user_limit" gorm:"default:1"`
	MaxTotalDiscount float64        `json:"max_total_discount"`
	EarlyBird        bool           `json:"early_bird"`
	EarlyBirdDays    int            `json:"early_bird_days"`
	ValidFrom        time.Time      `json:"valid_from"`
	ValidUntil       time.Time      `json:"valid_until"`
	UsedCount        int            `json:"used_count"`
	Active           bool           `json:"active"`
	CreatedAt        time.Time      `json:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at"`
	DeletedAt        gorm.DeletedAt `gorm:"index" json:"-"`

	TripRestrictions []CouponTripRestriction `json:"trip_restrictions,omitempty" gorm:"foreignKey:CouponID"`
	UserRestrictions []CouponUserRestriction `json:"user_restrictions,omitempty" gorm:"foreignKey:CouponID"`
}

// CouponTripRestriction limits a coupon to a trip. A coupon with no
// restriction rows is valid for every trip.
type CouponTripRestriction struct {
	ID       uint `gorm:"primaryKey" json:"id"`
	CouponID uint `json:"coupon_id" gorm:"index"`
	TripID   uint `json:"trip_id"`
}

// CouponUserRestriction limits a coupon to a user. A coupon with no
// restriction rows is valid for every user.
type CouponUserRestriction struct {
	ID       uint `gorm:"primaryKey" json:"id"`
	CouponID uint `json:"coupon_id" gorm:"index"`
	UserID   uint `json:"user_id"`
}

// CouponUsage records one redemption. It is written provisionally with the
// booking, finalized on confirmation and released on rejection.
type CouponUsage struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	CouponID       uint      `json:"coupon_id" gorm:"index"`
	BookingID      uint      `json:"booking_id" gorm:"index"`
	UserID         uint      `json:"user_id" gorm:"index"`
	DiscountAmount float64   `json:"discount_amount"`
	Status         string    `json:"status" gorm:"default:'provisional'"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}
