package models

import (
	"time"
)

// Transaction type constants (what the settlement pays for)
const (
	TransactionTypeFull      = "full"
	TransactionTypeSeatLock  = "seat_lock"
	TransactionTypeRemaining = "remaining"
)

// Transaction status constants
const (
	TransactionStatusPending  = "pending"
	TransactionStatusVerified = "verified"
	TransactionStatusRejected = "rejected"
)

// PaymentTransaction is one settlement attempt against a booking,
// normalized across the manual, cash and gateway channels.
type PaymentTransaction struct {
	ID                uint       `gorm:"primaryKey" json:"id"`
	BookingID         uint       `json:"booking_id"`
	Booking           Booking    `json:"-" gorm:"foreignKey:BookingID"`
	ReferenceID       string     `json:"reference_id"`
	RazorpayOrderID   string     `json:"razorpay_order_id,omitempty"`
	Amount            float64    `json:"amount"`
	PaymentType       string     `json:"payment_type"`
	Status            string     `json:"status" gorm:"default:'pending'"`
	PaymentMode       string     `json:"payment_mode"`
	ReviewedBy        string     `json:"reviewed_by,omitempty"`
	ReviewedAt        *time.Time `json:"reviewed_at,omitempty"`
	RejectionCategory string     `json:"rejection_category,omitempty"`
	RejectionNotes    string     `json:"rejection_notes,omitempty"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
}
