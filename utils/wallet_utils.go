package utils

import (
	"github.com/Vishnu-717/TripTrail/models"
	"gorm.io/gorm"
)

// GetOrCreateWallet retrieves or creates a wallet for a user
func GetOrCreateWallet(db *gorm.DB, userID uint) (*models.Wallet, error) {
	var wallet models.Wallet
	if err := db.Where("user_id = ?", userID).First(&wallet).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			wallet = models.Wallet{
				UserID:  userID,
				Balance: 0,
			}
			if err := db.Create(&wallet).Error; err != nil {
				return nil, err
			}
		} else {
			return nil, err
		}
	}
	return &wallet, nil
}

// DebitResult reports the outcome of a clamped wallet debit
type DebitResult struct {
	AmountUsed   float64 `json:"amount_used"`
	BalanceAfter float64 `json:"balance_after"`
}

// DebitWallet atomically debits up to maxAmount from the user's wallet.
// The amount used is clamped to the current balance inside a single UPDATE,
// so two concurrent debits can never overspend the same balance. A ledger
// entry is appended with the resulting balance.
func DebitWallet(db *gorm.DB, userID uint, maxAmount float64, description, reference string, bookingID *uint) (*DebitResult, error) {
	if maxAmount <= 0 {
		return &DebitResult{}, nil
	}

	var result DebitResult
	err := db.Raw(`
		UPDATE wallets AS w
		SET balance = w.balance - LEAST(prev.balance, ?), updated_at = NOW()
		FROM (SELECT id, balance FROM wallets WHERE user_id = ? AND deleted_at IS NULL FOR UPDATE) AS prev
		WHERE w.id = prev.id
		RETURNING LEAST(prev.balance, ?) AS amount_used, w.balance AS balance_after
	`, maxAmount, userID, maxAmount).Scan(&result).Error
	if err != nil {
		return nil, err
	}
	if result.AmountUsed == 0 {
		return &result, nil
	}

	var wallet models.Wallet
	if err := db.Where("user_id = ?", userID).First(&wallet).Error; err != nil {
		return nil, err
	}
	entry := models.WalletTransaction{
		WalletID:     wallet.ID,
		Amount:       result.AmountUsed,
		Type:         models.WalletTxTypeDebit,
		Description:  description,
		BookingID:    bookingID,
		Reference:    reference,
		BalanceAfter: result.BalanceAfter,
	}
	if err := db.Create(&entry).Error; err != nil {
		return nil, err
	}
	return &result, nil
}

// CreditWallet atomically adds amount to the user's wallet and appends a
// ledger entry. Credits always succeed for an existing wallet.
func CreditWallet(db *gorm.DB, userID uint, amount float64, description, reference string, bookingID *uint) (*models.WalletTransaction, error) {
	wallet, err := GetOrCreateWallet(db, userID)
	if err != nil {
		return nil, err
	}

	var balanceAfter float64
	err = db.Raw(`
		UPDATE wallets SET balance = balance + ?, updated_at = NOW()
		WHERE id = ?
		RETURNING balance
	`, amount, wallet.ID).Scan(&balanceAfter).Error
	if err != nil {
		return nil, err
	}

	entry := models.WalletTransaction{
		WalletID:     wallet.ID,
		Amount:       amount,
		Type:         models.WalletTxTypeCredit,
		Description:  description,
		BookingID:    bookingID,
		Reference:    reference,
		BalanceAfter: balanceAfter,
	}
	if err := db.Create(&entry).Error; err != nil {
		return nil, err
	}
	return &entry, nil
}

// SetWalletBalance sets a wallet to an exact balance and records the delta as
// a ledger entry. Used by the admin wallet adjustment surface.
func SetWalletBalance(db *gorm.DB, userID uint, newBalance float64, description string) (*models.WalletTransaction, error) {
	wallet, err := GetOrCreateWallet(db, userID)
	if err != nil {
		return nil, err
	}

	delta := newBalance - wallet.Balance
	txType := models.WalletTxTypeCredit
	if delta < 0 {
		txType = models.WalletTxTypeDebit
		delta = -delta
	}

	if err := db.Model(&models.Wallet{}).Where("id = ?", wallet.ID).
		UpdateColumn("balance", newBalance).Error; err != nil {
		return nil, err
	}

	entry := models.WalletTransaction{
		WalletID:     wallet.ID,
		Amount:       delta,
		Type:         txType,
		Description:  description,
		Reference:    "ADMIN-SET",
		BalanceAfter: newBalance,
	}
	if err := db.Create(&entry).Error; err != nil {
		return nil, err
	}
	return &entry, nil
}

// ClampWalletRequest returns how much of a wallet debit should even be
// attempted: never more than requested, never more than the outstanding
// amount on the booking.
func ClampWalletRequest(requested, outstanding float64) float64 {
	if requested <= 0 || outstanding <= 0 {
		return 0
	}
	if requested > outstanding {
		return outstanding
	}
	return requested
}
