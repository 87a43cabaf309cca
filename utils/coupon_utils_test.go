package utils

import (
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/Vishnu-717/TripTrail/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeCouponDiscountPercentageCapped(t *testing.T) {
	coupon := &models.Coupon{
		Code:          "SAVE20",
		DiscountType:  models.DiscountTypePercentage,
		DiscountValue: 20,
		MinAmount:     1000,
		MaxDiscount:   500,
	}

	// 20% of 3000 is 600, capped at 500.
	discount := ComputeCouponDiscount(coupon, 3000)
	assert.Equal(t, 500.0, discount)
	assert.Equal(t, 2500.0, 3000-discount)

	// Below the cap the raw percentage applies.
	assert.Equal(t, 400.0, ComputeCouponDiscount(coupon, 2000))
}

func TestComputeCouponDiscountPercentageUncapped(t *testing.T) {
	coupon := &models.Coupon{
		DiscountType:  models.DiscountTypePercentage,
		DiscountValue: 15,
	}
	assert.Equal(t, 450.0, ComputeCouponDiscount(coupon, 3000))
}

func TestComputeCouponDiscountFixedClamped(t *testing.T) {
	coupon := &models.Coupon{
		DiscountType:  models.DiscountTypeFixed,
		DiscountValue: 750,
	}
	assert.Equal(t, 750.0, ComputeCouponDiscount(coupon, 3000))
	// A fixed discount never exceeds the amount itself.
	assert.Equal(t, 500.0, ComputeCouponDiscount(coupon, 500))
}

func TestWithinEarlyBirdWindow(t *testing.T) {
	tripStart := time.Date(2026, 11, 1, 0, 0, 0, 0, time.UTC)

	// 45 days out with a 30-day window: inside.
	assert.True(t, WithinEarlyBirdWindow(tripStart.AddDate(0, 0, -45), tripStart, 30))
	// Exactly on the boundary counts as inside.
	assert.True(t, WithinEarlyBirdWindow(tripStart.AddDate(0, 0, -30), tripStart, 30))
	// 10 days out: too late.
	assert.False(t, WithinEarlyBirdWindow(tripStart.AddDate(0, 0, -10), tripStart, 30))
}

func TestValidateCouponRestrictedToOtherTrip(t *testing.T) {
	gdb, mock := newGormMock(t)
	now := time.Now()

	mock.ExpectQuery(`SELECT \* FROM "coupons" WHERE LOWER\(code\) = LOWER\(\$1\)`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "code", "discount_type", "discount_value", "usage_limit", "used_count", "active", "valid_from", "valid_until"}).
			AddRow(3, "TRIPONLY", models.DiscountTypeFixed, 500.0, 10, 0, true, now.Add(-time.Hour), now.Add(time.Hour)))
	// Restriction rows exist, but none for the requested trip.
	mock.ExpectQuery(`SELECT count\(\*\) FROM "coupon_trip_restrictions"`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectQuery(`SELECT count\(\*\) FROM "coupon_trip_restrictions"`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

	result, appErr := ValidateCoupon(gdb, "TRIPONLY", 3000, 7, 9, now, now.AddDate(0, 0, 40))
	require.Nil(t, result)
	require.NotNil(t, appErr)
	assert.Equal(t, MsgCouponWrongTrip, appErr.Message)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedeemCouponLimitExhausted(t *testing.T) {
	gdb, mock := newGormMock(t)

	// The conditional increment matches no row once used_count has reached
	// usage_limit, and the redemption must fail without writing usage.
	mock.ExpectExec(`UPDATE coupons SET used_count = used_count \+ 1`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(`SELECT \* FROM "coupons"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "code", "usage_limit", "per_user_limit", "used_count", "max_total_discount"}).
			AddRow(3, "SOLDOUT", 10, 0, 10, 0.0))

	coupon := &models.Coupon{ID: 3, Code: "SOLDOUT", UsageLimit: 10, UsedCount: 10}
	appErr := RedeemCoupon(gdb, coupon, 42, 9, 250)
	require.NotNil(t, appErr)
	assert.True(t, IsConflictError(appErr))
	assert.Equal(t, MsgCouponUsageLimit, appErr.Message)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedeemCouponPerUserLimitExhausted(t *testing.T) {
	gdb, mock := newGormMock(t)

	// The per-user cap is part of the increment's WHERE, so a second
	// redemption by the same user matches no row.
	mock.ExpectExec(`UPDATE coupons SET used_count = used_count \+ 1`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(`SELECT \* FROM "coupons"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "code", "usage_limit", "per_user_limit", "used_count", "max_total_discount"}).
			AddRow(3, "ONCEEACH", 10, 1, 2, 0.0))
	mock.ExpectQuery(`SELECT count\(\*\) FROM "coupon_usages"`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	coupon := &models.Coupon{ID: 3, Code: "ONCEEACH", UsageLimit: 10, UsedCount: 2, PerUserLimit: 1}
	appErr := RedeemCoupon(gdb, coupon, 42, 9, 250)
	require.NotNil(t, appErr)
	assert.True(t, IsConflictError(appErr))
	assert.Equal(t, MsgCouponUserLimit, appErr.Message)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedeemCouponDiscountBudgetExhausted(t *testing.T) {
	gdb, mock := newGormMock(t)

	mock.ExpectExec(`UPDATE coupons SET used_count = used_count \+ 1`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(`SELECT \* FROM "coupons"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "code", "usage_limit", "per_user_limit", "used_count", "max_total_discount"}).
			AddRow(3, "BUDGETED", 100, 0, 4, 1000.0))

	coupon := &models.Coupon{ID: 3, Code: "BUDGETED", UsageLimit: 100, UsedCount: 4, MaxTotalDiscount: 1000}
	appErr := RedeemCoupon(gdb, coupon, 42, 9, 250)
	require.NotNil(t, appErr)
	assert.True(t, IsConflictError(appErr))
	assert.Equal(t, MsgCouponTotalDiscountCap, appErr.Message)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedeemCouponRecordsProvisionalUsage(t *testing.T) {
	gdb, mock := newGormMock(t)

	mock.ExpectExec(`UPDATE coupons SET used_count = used_count \+ 1`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`INSERT INTO "coupon_usages"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))

	coupon := &models.Coupon{ID: 3, Code: "SAVE20", UsageLimit: 10, UsedCount: 2}
	appErr := RedeemCoupon(gdb, coupon, 42, 9, 250)
	assert.Nil(t, appErr)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReleaseCouponUsageWithoutCouponIsNoop(t *testing.T) {
	gdb, mock := newGormMock(t)

	mock.ExpectQuery(`SELECT \* FROM "coupon_usages"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "coupon_id", "booking_id", "user_id", "discount_amount", "status"}))

	err := ReleaseCouponUsage(gdb, 42)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReleaseCouponUsageReopensCounter(t *testing.T) {
	gdb, mock := newGormMock(t)

	mock.ExpectQuery(`SELECT \* FROM "coupon_usages"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "coupon_id", "booking_id", "user_id", "discount_amount", "status"}).
			AddRow(5, 3, 42, 9, 250.0, models.CouponUsageProvisional))
	mock.ExpectExec(`UPDATE "coupon_usages" SET "status"=\$1`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE "coupons" SET "used_count"=used_count - 1`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := ReleaseCouponUsage(gdb, 42)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
