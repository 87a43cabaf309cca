package controllers

import (
	"net/http"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/Vishnu-717/TripTrail/models"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestCancelBookingClosesPaymentStatus(t *testing.T) {
	mock := newHandlerMock(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT \* FROM "bookings"`).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "trip_id", "user_id", "booking_status", "payment_status",
			"payment_mode", "final_amount", "wallet_amount_used", "participant_count",
		}).AddRow(42, 7, 9, models.BookingStatusPending, models.PaymentStatusCashPending,
			models.PaymentModeCash, 4500.0, 0.0, 2))
	mock.ExpectQuery(`SELECT \* FROM "trips"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}).AddRow(7, "Valley Trek"))
	mock.ExpectQuery(`SELECT COALESCE\(SUM\(amount\), 0\) FROM "payment_transactions"`).
		WillReturnRows(sqlmock.NewRows([]string{"coalesce"}).AddRow(0.0))
	// The cancel closes payment_status too, so a cancelled cash booking can
	// never pass the cash-approval gate again.
	mock.ExpectExec(`UPDATE "bookings" SET "booking_status"=\$1,"cancellation_note"=\$2,"payment_status"=\$3`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE "payment_transactions" SET "status"=\$1`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(`SELECT \* FROM "coupon_usages"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "coupon_id", "booking_id", "user_id", "discount_amount", "status"}))
	mock.ExpectCommit()

	c, w := newTestContext(t, "42", `{}`)
	c.Set("user", models.User{Model: gorm.Model{ID: 9}, Username: "traveller", Email: "traveller@example.com"})
	CancelBooking(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"booking_status":"cancelled"`)
	assert.NoError(t, mock.ExpectationsWereMet())
}
