package utils

import (
	"net/http"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/Vishnu-717/TripTrail/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// newGormMock opens a gorm connection backed by sqlmock.
func newGormMock(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	gdb, err := gorm.Open(postgres.New(postgres.Config{
		Conn:                 db,
		PreferSimpleProtocol: true,
	}), &gorm.Config{
		SkipDefaultTransaction: true,
		DisableAutomaticPing:   true,
	})
	require.NoError(t, err)
	return gdb, mock
}

func TestNextBookingStatus(t *testing.T) {
	cases := []struct {
		current  string
		txnType  string
		wantNext string
		wantOK   bool
	}{
		{models.BookingStatusPending, models.TransactionTypeFull, models.BookingStatusConfirmed, true},
		{models.BookingStatusPending, models.TransactionTypeSeatLock, models.BookingStatusSeatLocked, true},
		{models.BookingStatusSeatLocked, models.TransactionTypeRemaining, models.BookingStatusConfirmed, true},
		{models.BookingStatusPending, models.TransactionTypeRemaining, "", false},
		{models.BookingStatusSeatLocked, models.TransactionTypeFull, "", false},
		{models.BookingStatusSeatLocked, models.TransactionTypeSeatLock, "", false},
		{models.BookingStatusConfirmed, models.TransactionTypeFull, "", false},
		{models.BookingStatusRejected, models.TransactionTypeFull, "", false},
		{models.BookingStatusCancelled, models.TransactionTypeRemaining, "", false},
	}
	for _, tc := range cases {
		next, ok := NextBookingStatus(tc.current, tc.txnType)
		assert.Equal(t, tc.wantOK, ok, "%s + %s", tc.current, tc.txnType)
		assert.Equal(t, tc.wantNext, next, "%s + %s", tc.current, tc.txnType)
	}
}

func TestCanRejectAndCanCancel(t *testing.T) {
	assert.True(t, CanReject(models.BookingStatusPending))
	assert.True(t, CanReject(models.BookingStatusSeatLocked))
	assert.False(t, CanReject(models.BookingStatusConfirmed))
	assert.False(t, CanReject(models.BookingStatusCancelled))
	assert.False(t, CanReject(models.BookingStatusRejected))

	assert.True(t, CanCancel(models.BookingStatusPending))
	assert.True(t, CanCancel(models.BookingStatusSeatLocked))
	assert.False(t, CanCancel(models.BookingStatusConfirmed))
	assert.False(t, CanCancel(models.BookingStatusRejected))
}

func TestRemainingAmount(t *testing.T) {
	booking := &models.Booking{FinalAmount: 10000}

	assert.Equal(t, 10000.0, RemainingAmount(booking, 0))
	assert.Equal(t, 7000.0, RemainingAmount(booking, 3000))
	assert.Equal(t, 0.0, RemainingAmount(booking, 10000))
	// Never negative even when coverage overshoots.
	assert.Equal(t, 0.0, RemainingAmount(booking, 12000))
}

func TestRemainingPaymentDeadline(t *testing.T) {
	start := time.Date(2026, 10, 20, 0, 0, 0, 0, time.UTC)
	deadline := RemainingPaymentDeadline(start)
	assert.Equal(t, time.Date(2026, 10, 15, 0, 0, 0, 0, time.UTC), deadline)
}

func TestTryReserveSeatsSuccess(t *testing.T) {
	gdb, mock := newGormMock(t)

	mock.ExpectExec(`UPDATE "trips" SET "current_participants"=current_participants \+ \$1`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	appErr := TryReserveSeats(gdb, 7, 3)
	assert.Nil(t, appErr)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTryReserveSeatsCapacityExceeded(t *testing.T) {
	gdb, mock := newGormMock(t)

	// No row matches the capacity condition.
	mock.ExpectExec(`UPDATE "trips" SET "current_participants"=current_participants \+ \$1`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	appErr := TryReserveSeats(gdb, 7, 3)
	require.NotNil(t, appErr)
	assert.Equal(t, http.StatusConflict, appErr.Code)
	assert.True(t, IsConflictError(appErr))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestApplyVerifiedTransactionRefusesOverpayment(t *testing.T) {
	gdb, mock := newGormMock(t)

	// Verified coverage already exceeds the payable amount; nothing else may
	// be written.
	mock.ExpectQuery(`SELECT COALESCE\(SUM\(amount\), 0\) FROM "payment_transactions"`).
		WillReturnRows(sqlmock.NewRows([]string{"coalesce"}).AddRow(5000.0))

	booking := &models.Booking{
		ID:            42,
		TripID:        7,
		BookingStatus: models.BookingStatusPending,
		FinalAmount:   4000,
	}
	txn := &models.PaymentTransaction{
		BookingID:   42,
		Amount:      5000,
		PaymentType: models.TransactionTypeFull,
		Status:      models.TransactionStatusVerified,
	}

	appErr := ApplyVerifiedTransaction(gdb, booking, txn)
	require.NotNil(t, appErr)
	assert.True(t, IsConflictError(appErr))
	assert.Equal(t, models.BookingStatusPending, booking.BookingStatus)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestApplyVerifiedTransactionConfirmsFullyPaidBooking(t *testing.T) {
	gdb, mock := newGormMock(t)

	mock.ExpectQuery(`SELECT COALESCE\(SUM\(amount\), 0\) FROM "payment_transactions"`).
		WillReturnRows(sqlmock.NewRows([]string{"coalesce"}).AddRow(4000.0))
	mock.ExpectExec(`UPDATE "trips" SET "current_participants"=current_participants \+ \$1`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE "bookings"`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE "coupon_usages" SET "status"=\$1`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	booking := &models.Booking{
		ID:               42,
		TripID:           7,
		BookingStatus:    models.BookingStatusPending,
		FinalAmount:      4000,
		ParticipantCount: 2,
	}
	txn := &models.PaymentTransaction{
		BookingID:   42,
		Amount:      4000,
		PaymentType: models.TransactionTypeFull,
		Status:      models.TransactionStatusVerified,
	}

	appErr := ApplyVerifiedTransaction(gdb, booking, txn)
	require.Nil(t, appErr)
	assert.Equal(t, models.BookingStatusConfirmed, booking.BookingStatus)
	assert.Equal(t, models.PaymentStatusVerified, booking.PaymentStatus)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSeatLockRoundTripTransitions(t *testing.T) {
	// seat-lock leg verified -> seat_locked, remaining leg verified -> confirmed
	status := models.BookingStatusPending

	next, ok := NextBookingStatus(status, models.TransactionTypeSeatLock)
	require.True(t, ok)
	assert.Equal(t, models.BookingStatusSeatLocked, next)

	next, ok = NextBookingStatus(next, models.TransactionTypeRemaining)
	require.True(t, ok)
	assert.Equal(t, models.BookingStatusConfirmed, next)

	// A confirmed booking accepts no further verified transactions.
	_, ok = NextBookingStatus(next, models.TransactionTypeRemaining)
	assert.False(t, ok)
}
