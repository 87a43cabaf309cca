package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSeatsLeft(t *testing.T) {
	trip := Trip{MaxParticipants: 20, CurrentParticipants: 14}
	assert.Equal(t, 6, trip.SeatsLeft())

	trip.CurrentParticipants = 20
	assert.Equal(t, 0, trip.SeatsLeft())

	// Never negative even if data drifted.
	trip.CurrentParticipants = 25
	assert.Equal(t, 0, trip.SeatsLeft())
}

func TestPricePerSeat(t *testing.T) {
	earlyBirdUntil := time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC)
	trip := Trip{
		FullPrice:      12000,
		SeatLockPrice:  3000,
		EarlyBirdPrice: 9500,
		EarlyBirdUntil: &earlyBirdUntil,
	}

	// Seat-lock tier is always the lock price, regardless of early bird.
	assert.Equal(t, 3000.0, trip.PricePerSeat(PaymentMethodSeatLock, earlyBirdUntil.AddDate(0, 0, -10)))

	// Full tier inside the early-bird window gets the early-bird price.
	assert.Equal(t, 9500.0, trip.PricePerSeat(PaymentMethodFull, earlyBirdUntil.AddDate(0, 0, -10)))

	// After the window the full price applies.
	assert.Equal(t, 12000.0, trip.PricePerSeat(PaymentMethodFull, earlyBirdUntil.AddDate(0, 0, 1)))

	// No early-bird tier configured.
	trip.EarlyBirdUntil = nil
	assert.Equal(t, 12000.0, trip.PricePerSeat(PaymentMethodFull, earlyBirdUntil.AddDate(0, 0, -10)))
}
