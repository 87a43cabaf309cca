package utils

import (
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClampWalletRequest(t *testing.T) {
	cases := []struct {
		requested   float64
		outstanding float64
		want        float64
	}{
		{500, 2000, 500},
		{2500, 2000, 2000},
		{2000, 2000, 2000},
		{0, 2000, 0},
		{-100, 2000, 0},
		{500, 0, 0},
	}
	for _, tc := range cases {
		got := ClampWalletRequest(tc.requested, tc.outstanding)
		assert.Equal(t, tc.want, got, "requested=%.2f outstanding=%.2f", tc.requested, tc.outstanding)
	}
}

func TestDebitWalletZeroAmountSkipsStore(t *testing.T) {
	gdb, mock := newGormMock(t)

	result, err := DebitWallet(gdb, 9, 0, "noop", "REF", nil)
	require.NoError(t, err)
	assert.Equal(t, 0.0, result.AmountUsed)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDebitWalletClampsToBalance(t *testing.T) {
	gdb, mock := newGormMock(t)

	// Wallet holds 300, caller asks for up to 1000: the single UPDATE clamps
	// the debit to the balance and reports what was actually taken.
	mock.ExpectQuery(`UPDATE wallets AS w`).
		WillReturnRows(sqlmock.NewRows([]string{"amount_used", "balance_after"}).AddRow(300.0, 0.0))
	mock.ExpectQuery(`SELECT \* FROM "wallets"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "balance"}).AddRow(4, 9, 0.0))
	mock.ExpectQuery(`INSERT INTO "wallet_transactions"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))

	result, err := DebitWallet(gdb, 9, 1000, "Payment towards booking #42", "BOOKING-42", nil)
	require.NoError(t, err)
	assert.Equal(t, 300.0, result.AmountUsed)
	assert.Equal(t, 0.0, result.BalanceAfter)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDebitWalletEmptyWalletWritesNoLedger(t *testing.T) {
	gdb, mock := newGormMock(t)

	mock.ExpectQuery(`UPDATE wallets AS w`).
		WillReturnRows(sqlmock.NewRows([]string{"amount_used", "balance_after"}).AddRow(0.0, 0.0))

	result, err := DebitWallet(gdb, 9, 500, "Payment towards booking #42", "BOOKING-42", nil)
	require.NoError(t, err)
	assert.Equal(t, 0.0, result.AmountUsed)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreditWallet(t *testing.T) {
	gdb, mock := newGormMock(t)

	mock.ExpectQuery(`SELECT \* FROM "wallets"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "balance"}).AddRow(4, 9, 100.0))
	mock.ExpectQuery(`UPDATE wallets SET balance = balance \+ \$1`).
		WillReturnRows(sqlmock.NewRows([]string{"balance"}).AddRow(350.0))
	mock.ExpectQuery(`INSERT INTO "wallet_transactions"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(2))

	entry, err := CreditWallet(gdb, 9, 250, "Refund for rejected booking", "REFUND-BOOKING-42", nil)
	require.NoError(t, err)
	assert.Equal(t, 350.0, entry.BalanceAfter)
	assert.NoError(t, mock.ExpectationsWereMet())
}
