package controllers

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/Vishnu-717/TripTrail/config"
	"github.com/Vishnu-717/TripTrail/models"
	"github.com/Vishnu-717/TripTrail/utils"
	"github.com/gin-gonic/gin"
)

// AdjustWalletRequest represents an admin wallet adjustment
type AdjustWalletRequest struct {
	Action string  `json:"action" binding:"required"` // add or set
	Amount float64 `json:"amount" binding:"required"`
	Reason string  `json:"reason" binding:"required"`
}

// AdjustWallet adds to or sets a user's wallet balance with an audit reason.
func AdjustWallet(c *gin.Context) {
	utils.LogInfo("AdjustWallet called")
	adminVal, exists := c.Get("admin")
	if !exists {
		utils.Unauthorized(c, "Admin not found")
		return
	}
	admin := adminVal.(models.Admin)

	userID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		utils.LogError("Invalid user ID: %v", err)
		utils.BadRequest(c, "Invalid user ID", nil)
		return
	}

	var req AdjustWalletRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError("Invalid request: %v", err)
		utils.BadRequest(c, "Invalid request", err.Error())
		return
	}
	action := strings.ToLower(strings.TrimSpace(req.Action))
	if action != "add" && action != "set" {
		utils.ValidationError(c, "Action must be add or set", nil)
		return
	}
	if req.Amount < 0 || (action == "add" && req.Amount == 0) {
		utils.ValidationError(c, "Amount must not be negative", nil)
		return
	}
	if strings.TrimSpace(req.Reason) == "" {
		utils.ValidationError(c, "A reason is required for wallet adjustments", nil)
		return
	}

	var user models.User
	if err := config.DB.First(&user, userID).Error; err != nil {
		utils.LogError("User not found for ID: %d", userID)
		utils.NotFound(c, "User not found")
		return
	}

	description := fmt.Sprintf("Admin adjustment by %s: %s", admin.Email, req.Reason)

	tx := config.DB.Begin()
	if tx.Error != nil {
		utils.LogError("Failed to start transaction: %v", tx.Error)
		utils.InternalServerError(c, "Failed to start transaction", nil)
		return
	}

	var entry *models.WalletTransaction
	if action == "add" {
		entry, err = utils.CreditWallet(tx, user.ID, req.Amount, description, "ADMIN-ADD", nil)
	} else {
		entry, err = utils.SetWalletBalance(tx, user.ID, req.Amount, description)
	}
	if err != nil {
		tx.Rollback()
		utils.LogError("Failed to adjust wallet for user ID: %d: %v", user.ID, err)
		utils.InternalServerError(c, "Failed to adjust wallet", nil)
		return
	}

	if err := tx.Commit().Error; err != nil {
		utils.LogError("Failed to commit wallet adjustment for user ID: %d: %v", user.ID, err)
		utils.InternalServerError(c, "Failed to commit wallet adjustment", nil)
		return
	}

	utils.LogInfo("Admin %s adjusted wallet for user ID: %d (%s %.2f)", admin.Email, user.ID, action, req.Amount)
	utils.Success(c, "Wallet adjusted successfully", gin.H{
		"user_id":       user.ID,
		"action":        action,
		"amount":        fmt.Sprintf("%.2f", req.Amount),
		"balance_after": fmt.Sprintf("%.2f", entry.BalanceAfter),
		"reason":        req.Reason,
	})
}

// AdminGetWallet returns a user's wallet balance and recent ledger entries.
func AdminGetWallet(c *gin.Context) {
	utils.LogInfo("AdminGetWallet called")
	_, exists := c.Get("admin")
	if !exists {
		utils.Unauthorized(c, "Admin not found")
		return
	}

	userID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		utils.LogError("Invalid user ID: %v", err)
		utils.BadRequest(c, "Invalid user ID", nil)
		return
	}

	var user models.User
	if err := config.DB.First(&user, userID).Error; err != nil {
		utils.LogError("User not found for ID: %d", userID)
		utils.NotFound(c, "User not found")
		return
	}

	wallet, err := utils.GetOrCreateWallet(config.DB, user.ID)
	if err != nil {
		utils.LogError("Failed to load wallet for user ID: %d: %v", user.ID, err)
		utils.InternalServerError(c, "Failed to load wallet", nil)
		return
	}

	var entries []models.WalletTransaction
	if err := config.DB.Where("wallet_id = ?", wallet.ID).
		Order("created_at DESC").Limit(50).
		Find(&entries).Error; err != nil {
		utils.LogError("Failed to fetch wallet transactions for user ID: %d: %v", user.ID, err)
		utils.InternalServerError(c, "Failed to fetch wallet transactions", nil)
		return
	}

	utils.Success(c, "Wallet fetched successfully", gin.H{
		"user_id": user.ID,
		"email":   user.Email,
		"balance": fmt.Sprintf("%.2f", wallet.Balance),
		"history": entries,
	})
}
