package models

import (
	"time"
)

// Booking status constants
const (
	BookingStatusPending    = "pending"
	BookingStatusSeatLocked = "seat_locked"
	BookingStatusConfirmed  = "confirmed"
	BookingStatusCancelled  = "cancelled"
	BookingStatusRejected   = "rejected"
)

// Booking payment status constants
const (
	PaymentStatusPending     = "pending"
	PaymentStatusCashPending = "cash_pending"
	PaymentStatusVerified    = "verified"
	PaymentStatusRejected    = "rejected"
)

// Payment method constants (which pricing tier the booking is on)
const (
	PaymentMethodFull     = "full"
	PaymentMethodSeatLock = "seat_lock"
)

// Payment mode constants (which settlement channel is used)
const (
	PaymentModeManual  = "manual"
	PaymentModeCash    = "cash"
	PaymentModeGateway = "gateway"
)

// Rejection reason categories an admin may pick from
const (
	RejectionReasonFakePayment = "fake_payment"
	RejectionReasonFakeDetails = "fake_details"
	RejectionReasonSeatsFull   = "seats_full"
	RejectionReasonOther       = "other"
)

type Booking struct {
	ID                uint                 `gorm:"primaryKey" json:"id"`
	TripID            uint                 `json:"trip_id"`
	Trip              Trip                 `json:"trip" gorm:"foreignKey:TripID"`
	UserID            uint                 `json:"user_id"`
	User              User                 `json:"user" gorm:"foreignKey:UserID"`
	BookingStatus     string               `json:"booking_status" gorm:"default:'pending'"`
	PaymentStatus     string               `json:"payment_status" gorm:"default:'pending'"`
	PaymentMethod     string               `json:"payment_method"`
	PaymentMode       string               `json:"payment_mode"`
	BaseAmount        float64              `json:"base_amount"`
	CouponCode        string               `json:"coupon_code"`
	CouponDiscount    float64              `json:"coupon_discount"`
	WalletAmountUsed  float64              `json:"wallet_amount_used"`
	FinalAmount       float64              `json:"final_amount"`
	ParticipantCount  int                  `json:"participant_count"`
	CancellationNote  string               `json:"cancellation_note,omitempty"`
	RejectionReason   string               `json:"rejection_reason,omitempty"`
	RejectionCategory string               `json:"rejection_category,omitempty"`
	Passengers        []Passenger          `json:"passengers" gorm:"foreignKey:BookingID"`
	Transactions      []PaymentTransaction `json:"transactions" gorm:"foreignKey:BookingID"`
	CreatedAt         time.Time            `json:"created_at"`
	UpdatedAt         time.Time            `json:"updated_at"`
}

// Passenger is one traveller on a booking
type Passenger struct {
	ID        uint   `gorm:"primaryKey" json:"id"`
	BookingID uint   `json:"booking_id"`
	Name      string `json:"name"`
	Age       int    `json:"age"`
	Gender    string `json:"gender"`
	Phone     string `json:"phone"`
}
