package models

import (
	"time"

	"gorm.io/gorm"
)

// Wallet represents a user's stored-value balance
type Wallet struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	UserID    uint           `json:"user_id" gorm:"uniqueIndex"`
	Balance   float64        `json:"balance" gorm:"default:0"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// WalletTransaction is one ledger entry against a wallet
type WalletTransaction struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	WalletID     uint           `json:"wallet_id"`
	Wallet       Wallet         `json:"-" gorm:"foreignKey:WalletID"`
	Amount       float64        `json:"amount"`
	Type         string         `json:"type"` // credit, debit
	Description  string         `json:"description"`
	BookingID    *uint          `json:"booking_id"`
	Reference    string         `json:"reference"`
	BalanceAfter float64        `json:"balance_after"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}

// Wallet transaction type constants
const (
	WalletTxTypeCredit = "credit"
	WalletTxTypeDebit  = "debit"
)

// WalletTopupOrder tracks a gateway order created to add money to a wallet
type WalletTopupOrder struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	UserID          uint      `json:"user_id"`
	RazorpayOrderID string    `json:"razorpay_order_id" gorm:"uniqueIndex"`
	Amount          float64   `json:"amount"`
	Status          string    `json:"status"` // pending, completed, failed
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}
