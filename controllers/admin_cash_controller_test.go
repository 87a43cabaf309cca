package controllers

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/Vishnu-717/TripTrail/config"
	"github.com/Vishnu-717/TripTrail/models"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// newHandlerMock points config.DB at a sqlmock-backed gorm connection for the
// duration of the test.
func newHandlerMock(t *testing.T) sqlmock.Sqlmock {
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

	prev := config.DB
	config.DB = gdb
	t.Cleanup(func() { config.DB = prev })
	return mock
}

func newTestContext(t *testing.T, bookingID, body string) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/", bytes.NewBufferString(body))
	c.Request.Header.Set("Content-Type", "application/json")
	c.Params = gin.Params{{Key: "id", Value: bookingID}}
	return c, w
}

func cashBookingRow(bookingStatus, paymentStatus string) *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "trip_id", "user_id", "booking_status", "payment_status",
		"payment_method", "payment_mode", "final_amount", "participant_count",
	}).AddRow(42, 7, 9, bookingStatus, paymentStatus,
		models.PaymentMethodFull, models.PaymentModeCash, 4500.0, 2)
}

func TestApproveCashPaymentRefusesCancelledBooking(t *testing.T) {
	mock := newHandlerMock(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT \* FROM "bookings"`).
		WillReturnRows(cashBookingRow(models.BookingStatusCancelled, models.PaymentStatusCashPending))
	mock.ExpectQuery(`SELECT \* FROM "trips"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "max_participants", "current_participants"}).
			AddRow(7, "Valley Trek", 20, 10))
	mock.ExpectQuery(`SELECT \* FROM "users"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "username", "email"}).
			AddRow(9, "traveller", "traveller@example.com"))
	// Nothing else: no seat reservation, no transaction row, no booking update.
	mock.ExpectRollback()

	c, w := newTestContext(t, "42", `{"amount_paid": 4500}`)
	c.Set("admin", models.Admin{Email: "ops@triptrail.test"})
	ApproveCashPayment(c)

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), "Only a pending booking can be approved for cash")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestApproveCashPaymentConfirmsPendingBooking(t *testing.T) {
	mock := newHandlerMock(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT \* FROM "bookings"`).
		WillReturnRows(cashBookingRow(models.BookingStatusPending, models.PaymentStatusCashPending))
	mock.ExpectQuery(`SELECT \* FROM "trips"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "max_participants", "current_participants"}).
			AddRow(7, "Valley Trek", 20, 10))
	mock.ExpectQuery(`SELECT \* FROM "users"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "username", "email"}).
			AddRow(9, "traveller", "traveller@example.com"))
	// Occupancy is bumped with the capacity-checked conditional update.
	mock.ExpectExec(`UPDATE "trips" SET "current_participants"=current_participants \+ \$1`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`INSERT INTO "payment_transactions"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
	mock.ExpectExec(`UPDATE "bookings" SET "booking_status"=\$1,"payment_status"=\$2`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE "coupon_usages" SET "status"=\$1`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	c, w := newTestContext(t, "42", `{"amount_paid": 4500}`)
	c.Set("admin", models.Admin{Email: "ops@triptrail.test"})
	ApproveCashPayment(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"booking_status":"confirmed"`)
	assert.Contains(t, w.Body.String(), `"payment_status":"verified"`)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestApproveCashPaymentRefusesShortAmount(t *testing.T) {
	mock := newHandlerMock(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT \* FROM "bookings"`).
		WillReturnRows(cashBookingRow(models.BookingStatusPending, models.PaymentStatusCashPending))
	mock.ExpectQuery(`SELECT \* FROM "trips"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "max_participants", "current_participants"}).
			AddRow(7, "Valley Trek", 20, 10))
	mock.ExpectQuery(`SELECT \* FROM "users"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "username", "email"}).
			AddRow(9, "traveller", "traveller@example.com"))
	mock.ExpectRollback()

	c, w := newTestContext(t, "42", `{"amount_paid": 4000}`)
	c.Set("admin", models.Admin{Email: "ops@triptrail.test"})
	ApproveCashPayment(c)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}
