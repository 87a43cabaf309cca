package models

import (
	"time"

	"gorm.io/gorm"
)

// Trip represents a bookable trip with capacity and pricing tiers
type Trip struct {
	gorm.Model
	Name                string     `json:"name"`
	Destination         string     `json:"destination"`
	Description         string     `json:"description"`
	StartDate           time.Time  `json:"start_date"`
	EndDate             time.Time  `json:"end_date"`
	MaxParticipants     int        `json:"max_participants"`
	CurrentParticipants int        `json:"current_participants" gorm:"default:0"`
	FullPrice           float64    `json:"full_price"`
	SeatLockPrice       float64    `json:"seat_lock_price"`
	EarlyBirdPrice      float64    `json:"early_bird_price"`
	EarlyBirdUntil      *time.Time `json:"early_bird_until"`
	IsActive            bool       `json:"is_active" gorm:"default:true"`
}

// SeatsLeft returns the number of unconfirmed seats on the trip.
func (t *Trip) SeatsLeft() int {
	left := t.MaxParticipants - t.CurrentParticipants
	if left < 0 {
		return 0
	}
	return left
}

// PricePerSeat returns the per-participant price for the given payment method,
// applying the early-bird tier when the booking falls inside its window.
func (t *Trip) PricePerSeat(paymentMethod string, bookedAt time.Time) float64 {
	if paymentMethod == PaymentMethodSeatLock {
		return t.SeatLockPrice
	}
	if t.EarlyBirdPrice > 0 && t.EarlyBirdUntil != nil && bookedAt.Before(*t.EarlyBirdUntil) {
		return t.EarlyBirdPrice
	}
	return t.FullPrice
}
