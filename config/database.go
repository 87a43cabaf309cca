package config

import (
	"fmt"

	"github.com/Vishnu-717/TripTrail/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

// InitDB initializes the database connection and migrates the schema
func InitDB() {
	config, err := LoadConfig()
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		config.DBHost, config.DBPort, config.DBUser, config.DBPassword, config.DBName)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		panic(fmt.Sprintf("Failed to connect to database: %v", err))
	}

	DB = db

	err = DB.AutoMigrate(
		&models.User{},
		&models.Admin{},
		&models.Trip{},
		&models.Booking{},
		&models.Passenger{},
		&models.PaymentTransaction{},
		&models.Coupon{},
		&models.CouponTripRestriction{},
		&models.CouponUserRestriction{},
		&models.CouponUsage{},
		&models.Wallet{},
		&models.WalletTransaction{},
		&models.WalletTopupOrder{},
	)
	if err != nil {
		panic(fmt.Sprintf("Failed to migrate database: %v", err))
	}

	// Coupon codes are matched case-insensitively, so uniqueness has to hold
	// on the lowercased value. AutoMigrate cannot express expression indexes.
	err = DB.Exec(`CREATE UNIQUE INDEX IF NOT EXISTS idx_coupons_code_lower ON coupons (LOWER(code))`).Error
	if err != nil {
		panic(fmt.Sprintf("Failed to create coupon code index: %v", err))
	}
}
