package controllers

import (
	"fmt"
	"os"

	"github.com/Vishnu-717/TripTrail/config"
	"github.com/Vishnu-717/TripTrail/models"
	"github.com/Vishnu-717/TripTrail/utils"
	"github.com/gin-gonic/gin"
	razorpay "github.com/razorpay/razorpay-go"
)

// GetWallet returns the caller's wallet balance and ledger, newest first.
func GetWallet(c *gin.Context) {
	utils.LogInfo("GetWallet called")
	userVal, exists := c.Get("user")
	if !exists {
		utils.Unauthorized(c, "User not found")
		return
	}
	user := userVal.(models.User)

	wallet, err := utils.GetOrCreateWallet(config.DB, user.ID)
	if err != nil {
		utils.LogError("Failed to load wallet for user ID: %d: %v", user.ID, err)
		utils.InternalServerError(c, "Failed to load wallet", nil)
		return
	}

	pagination := utils.NewPagination(c)
	query := config.DB.Model(&models.WalletTransaction{}).Where("wallet_id = ?", wallet.ID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		utils.LogError("Failed to count wallet transactions for user ID: %d: %v", user.ID, err)
		utils.InternalServerError(c, "Failed to count wallet transactions", nil)
		return
	}
	pagination.SetTotal(total)

	var entries []models.WalletTransaction
	if err := query.Order("created_at DESC").
		Offset(pagination.Offset).Limit(pagination.Limit).
		Find(&entries).Error; err != nil {
		utils.LogError("Failed to fetch wallet transactions for user ID: %d: %v", user.ID, err)
		utils.InternalServerError(c, "Failed to fetch wallet transactions", nil)
		return
	}

	history := make([]gin.H, 0, len(entries))
	for _, e := range entries {
		history = append(history, gin.H{
			"id":            e.ID,
			"amount":        fmt.Sprintf("%.2f", e.Amount),
			"type":          e.Type,
			"description":   e.Description,
			"booking_id":    e.BookingID,
			"reference":     e.Reference,
			"balance_after": fmt.Sprintf("%.2f", e.BalanceAfter),
			"created_at":    e.CreatedAt,
		})
	}

	utils.Success(c, "Wallet fetched successfully", gin.H{
		"balance": fmt.Sprintf("%.2f", wallet.Balance),
		"history": history,
		"pagination": gin.H{
			"page":      pagination.Page,
			"limit":     pagination.Limit,
			"total":     pagination.Total,
			"last_page": pagination.LastPage,
		},
	})
}

// TopupWalletRequest asks for a gateway order to add money to the wallet
type TopupWalletRequest struct {
	Amount float64 `json:"amount" binding:"required"`
}

// InitiateWalletTopup creates a Razorpay order for a wallet top-up.
func InitiateWalletTopup(c *gin.Context) {
	utils.LogInfo("InitiateWalletTopup called")
	userVal, exists := c.Get("user")
	if !exists {
		utils.Unauthorized(c, "User not found")
		return
	}
	user := userVal.(models.User)

	var req TopupWalletRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError("Invalid request for user ID: %d: %v", user.ID, err)
		utils.BadRequest(c, "Invalid request", err.Error())
		return
	}
	if req.Amount <= 0 {
		utils.ValidationError(c, "Amount must be greater than zero", nil)
		return
	}

	client := razorpay.NewClient(os.Getenv("RAZORPAY_KEY"), os.Getenv("RAZORPAY_SECRET"))
	orderData := map[string]interface{}{
		"amount":          utils.ToPaise(req.Amount),
		"currency":        "INR",
		"receipt":         fmt.Sprintf("topup_%d", user.ID),
		"payment_capture": 1,
	}
	rzOrder, err := client.Order.Create(orderData, nil)
	if err != nil {
		utils.LogError("Failed to create topup order for user ID: %d: %v", user.ID, err)
		utils.InternalServerError(c, "Failed to create topup order", err.Error())
		return
	}
	rzOrderID := fmt.Sprintf("%v", rzOrder["id"])

	topup := models.WalletTopupOrder{
		UserID:          user.ID,
		RazorpayOrderID: rzOrderID,
		Amount:          req.Amount,
		Status:          "pending",
	}
	if err := config.DB.Create(&topup).Error; err != nil {
		utils.LogError("Failed to record topup order for user ID: %d: %v", user.ID, err)
		utils.InternalServerError(c, "Failed to record topup order", nil)
		return
	}

	utils.LogInfo("Created wallet topup order %s for user ID: %d", rzOrderID, user.ID)
	utils.Success(c, "Topup initiated successfully", gin.H{
		"razorpay_order_id": rzOrderID,
		"amount":            fmt.Sprintf("%.2f", req.Amount),
		"key":               os.Getenv("RAZORPAY_KEY"),
	})
}

// VerifyWalletTopup verifies the gateway callback for a top-up order and
// credits the wallet.
func VerifyWalletTopup(c *gin.Context) {
	utils.LogInfo("VerifyWalletTopup called")
	userVal, exists := c.Get("user")
	if !exists {
		utils.Unauthorized(c, "User not found")
		return
	}
	user := userVal.(models.User)

	var req struct {
		RazorpayOrderID   string `json:"razorpay_order_id" binding:"required"`
		RazorpayPaymentID string `json:"razorpay_payment_id" binding:"required"`
		RazorpaySignature string `json:"razorpay_signature" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError("Invalid request for user ID: %d: %v", user.ID, err)
		utils.BadRequest(c, "Invalid request", err.Error())
		return
	}

	if !utils.VerifyRazorpaySignature(req.RazorpayOrderID, req.RazorpayPaymentID, req.RazorpaySignature) {
		utils.LogError("Topup signature mismatch for order %s, user ID: %d", req.RazorpayOrderID, user.ID)
		appErr := utils.ExternalVerificationError("Payment verification failed", nil)
		utils.Error(c, appErr.Code, appErr.Message, nil)
		return
	}

	tx := config.DB.Begin()
	if tx.Error != nil {
		utils.LogError("Failed to start transaction: %v", tx.Error)
		utils.InternalServerError(c, "Failed to start transaction", nil)
		return
	}

	var topup models.WalletTopupOrder
	if err := tx.Where("razorpay_order_id = ? AND user_id = ?", req.RazorpayOrderID, user.ID).First(&topup).Error; err != nil {
		tx.Rollback()
		utils.LogError("Topup order %s not found for user ID: %d", req.RazorpayOrderID, user.ID)
		utils.NotFound(c, "Topup order not found")
		return
	}

	// A replayed callback must not credit twice.
	res := tx.Model(&models.WalletTopupOrder{}).
		Where("id = ? AND status = ?", topup.ID, "pending").
		Update("status", "completed")
	if res.Error != nil {
		tx.Rollback()
		utils.LogError("Failed to complete topup order ID: %d: %v", topup.ID, res.Error)
		utils.InternalServerError(c, "Failed to complete topup order", nil)
		return
	}
	if res.RowsAffected == 0 {
		tx.Rollback()
		utils.Conflict(c, "This topup has already been processed", nil)
		return
	}

	entry, err := utils.CreditWallet(tx, user.ID, topup.Amount,
		"Wallet topup via gateway", req.RazorpayPaymentID, nil)
	if err != nil {
		tx.Rollback()
		utils.LogError("Failed to credit wallet for user ID: %d: %v", user.ID, err)
		utils.InternalServerError(c, "Failed to credit wallet", nil)
		return
	}

	if err := tx.Commit().Error; err != nil {
		utils.LogError("Failed to commit topup for user ID: %d: %v", user.ID, err)
		utils.InternalServerError(c, "Failed to commit topup", nil)
		return
	}

	utils.LogInfo("Credited topup of %.2f to user ID: %d", topup.Amount, user.ID)
	utils.Success(c, "Wallet topped up successfully", gin.H{
		"amount":        fmt.Sprintf("%.2f", topup.Amount),
		"balance_after": fmt.Sprintf("%.2f", entry.BalanceAfter),
	})
}
