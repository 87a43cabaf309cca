package controllers

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/Vishnu-717/TripTrail/config"
	"github.com/Vishnu-717/TripTrail/models"
	"github.com/Vishnu-717/TripTrail/utils"
	"github.com/gin-gonic/gin"
)

// CreateCouponRequest represents the coupon creation payload
type CreateCouponRequest struct {
	Code             string  `json:"code" binding:"required"`
	DiscountType     string  `json:"discount_type" binding:"required"`
	DiscountValue    float64 `json:"discount_value" binding:"required"`
	MinAmount        float64 `json:"min_amount"`
	MaxDiscount      float64 `json:"max_discount"`
	UsageLimit       int     `json:"usage_limit" binding:"required"`
	PerUserLimit     int     `json:"per_user_limit"`
	MaxTotalDiscount float64 `json:"max_total_discount"`
	EarlyBird        bool    `json:"early_bird"`
	EarlyBirdDays    int     `json:"early_bird_days"`
	ValidFrom        string  `json:"valid_from" binding:"required"`
	ValidUntil       string  `json:"valid_until" binding:"required"`
	TripIDs          []uint  `json:"trip_ids"`
	UserIDs          []uint  `json:"user_ids"`
}

func validateCouponFields(discountType string, discountValue float64) string {
	if discountType != models.DiscountTypePercentage && discountType != models.DiscountTypeFixed {
		return "Discount type must be percentage or fixed"
	}
	if discountValue <= 0 {
		return "Discount value must be greater than zero"
	}
	if discountType == models.DiscountTypePercentage && discountValue > 100 {
		return "Percentage discount cannot exceed 100"
	}
	return ""
}

// CreateCoupon creates a coupon, optionally restricted to trips or users.
func CreateCoupon(c *gin.Context) {
	utils.LogInfo("CreateCoupon called")
	_, exists := c.Get("admin")
	if !exists {
		utils.Unauthorized(c, "Admin not found")
		return
	}

	var req CreateCouponRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError("Invalid request: %v", err)
		utils.BadRequest(c, "Invalid request", err.Error())
		return
	}

	discountType := strings.ToLower(strings.TrimSpace(req.DiscountType))
	if msg := validateCouponFields(discountType, req.DiscountValue); msg != "" {
		utils.ValidationError(c, msg, nil)
		return
	}
	if req.UsageLimit < 1 {
		utils.ValidationError(c, "Usage limit must be at least 1", nil)
		return
	}
	validFrom, err := time.Parse("2006-01-02", req.ValidFrom)
	if err != nil {
		utils.ValidationError(c, "valid_from must be a date in YYYY-MM-DD format", nil)
		return
	}
	validUntil, err := time.Parse("2006-01-02", req.ValidUntil)
	if err != nil {
		utils.ValidationError(c, "valid_until must be a date in YYYY-MM-DD format", nil)
		return
	}
	if !validUntil.After(validFrom) {
		utils.ValidationError(c, "valid_until must be after valid_from", nil)
		return
	}
	if req.EarlyBird && req.EarlyBirdDays < 1 {
		utils.ValidationError(c, "early_bird_days must be at least 1 for an early-bird coupon", nil)
		return
	}

	code := strings.ToUpper(strings.TrimSpace(req.Code))
	var existing models.Coupon
	if err := config.DB.Where("LOWER(code) = LOWER(?)", code).First(&existing).Error; err == nil {
		utils.Conflict(c, "A coupon with this code already exists", nil)
		return
	}

	perUserLimit := req.PerUserLimit
	if perUserLimit < 1 {
		perUserLimit = 1
	}

	tx := config.DB.Begin()
	if tx.Error != nil {
		utils.LogError("Failed to start transaction: %v", tx.Error)
		utils.InternalServerError(c, "Failed to start transaction", nil)
		return
	}

	coupon := models.Coupon{
		Code:             code,
		DiscountType:     discountType,
		DiscountValue:    req.DiscountValue,
		MinAmount:        req.MinAmount,
		MaxDiscount:      req.MaxDiscount,
		UsageLimit:       req.UsageLimit,
		PerUserLimit:     perUserLimit,
		MaxTotalDiscount: req.MaxTotalDiscount,
		EarlyBird:        req.EarlyBird,
		EarlyBirdDays:    req.EarlyBirdDays,
		ValidFrom:        validFrom,
		ValidUntil:       validUntil.Add(24*time.Hour - time.Second),
		Active:           true,
	}
	if err := tx.Create(&coupon).Error; err != nil {
		tx.Rollback()
		utils.LogError("Failed to create coupon: %v", err)
		utils.InternalServerError(c, "Failed to create coupon", nil)
		return
	}

	for _, tripID := range req.TripIDs {
		if err := tx.Create(&models.CouponTripRestriction{CouponID: coupon.ID, TripID: tripID}).Error; err != nil {
			tx.Rollback()
			utils.LogError("Failed to restrict coupon to trip %d: %v", tripID, err)
			utils.InternalServerError(c, "Failed to create coupon restrictions", nil)
			return
		}
	}
	for _, userID := range req.UserIDs {
		if err := tx.Create(&models.CouponUserRestriction{CouponID: coupon.ID, UserID: userID}).Error; err != nil {
			tx.Rollback()
			utils.LogError("Failed to restrict coupon to user %d: %v", userID, err)
			utils.InternalServerError(c, "Failed to create coupon restrictions", nil)
			return
		}
	}

	if err := tx.Commit().Error; err != nil {
		utils.LogError("Failed to commit coupon: %v", err)
		utils.InternalServerError(c, "Failed to commit coupon", nil)
		return
	}

	utils.LogInfo("Created coupon %s (ID: %d)", coupon.Code, coupon.ID)
	utils.Created(c, "Coupon created successfully", gin.H{"coupon": coupon})
}

// IssueUserCouponRequest creates a one-off coupon for a single user
type IssueUserCouponRequest struct {
	UserID        uint    `json:"user_id" binding:"required"`
	Code          string  `json:"code" binding:"required"`
	DiscountType  string  `json:"discount_type" binding:"required"`
	DiscountValue float64 `json:"discount_value" binding:"required"`
	MinAmount     float64 `json:"min_amount"`
	MaxDiscount   float64 `json:"max_discount"`
	ValidDays     int     `json:"valid_days"`
}

// IssueUserCoupon creates a single-use coupon tied to one user, typically as
// a goodwill gesture after a rejection or support issue.
func IssueUserCoupon(c *gin.Context) {
	utils.LogInfo("IssueUserCoupon called")
	adminVal, exists := c.Get("admin")
	if !exists {
		utils.Unauthorized(c, "Admin not found")
		return
	}
	admin := adminVal.(models.Admin)

	var req IssueUserCouponRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError("Invalid request: %v", err)
		utils.BadRequest(c, "Invalid request", err.Error())
		return
	}

	discountType := strings.ToLower(strings.TrimSpace(req.DiscountType))
	if msg := validateCouponFields(discountType, req.DiscountValue); msg != "" {
		utils.ValidationError(c, msg, nil)
		return
	}

	var user models.User
	if err := config.DB.First(&user, req.UserID).Error; err != nil {
		utils.LogError("User not found for ID: %d", req.UserID)
		utils.NotFound(c, "User not found")
		return
	}

	code := strings.ToUpper(strings.TrimSpace(req.Code))
	var existing models.Coupon
	if err := config.DB.Where("LOWER(code) = LOWER(?)", code).First(&existing).Error; err == nil {
		utils.Conflict(c, "A coupon with this code already exists", nil)
		return
	}

	validDays := req.ValidDays
	if validDays < 1 {
		validDays = 30
	}
	now := time.Now()

	tx := config.DB.Begin()
	if tx.Error != nil {
		utils.LogError("Failed to start transaction: %v", tx.Error)
		utils.InternalServerError(c, "Failed to start transaction", nil)
		return
	}

	coupon := models.Coupon{
		Code:          code,
		DiscountType:  discountType,
		DiscountValue: req.DiscountValue,
		MinAmount:     req.MinAmount,
		MaxDiscount:   req.MaxDiscount,
		UsageLimit:    1,
		PerUserLimit:  1,
		ValidFrom:     now,
		ValidUntil:    now.AddDate(0, 0, validDays),
		Active:        true,
	}
	if err := tx.Create(&coupon).Error; err != nil {
		tx.Rollback()
		utils.LogError("Failed to create user coupon: %v", err)
		utils.InternalServerError(c, "Failed to create coupon", nil)
		return
	}
	if err := tx.Create(&models.CouponUserRestriction{CouponID: coupon.ID, UserID: user.ID}).Error; err != nil {
		tx.Rollback()
		utils.LogError("Failed to restrict coupon to user %d: %v", user.ID, err)
		utils.InternalServerError(c, "Failed to create coupon restriction", nil)
		return
	}

	if err := tx.Commit().Error; err != nil {
		utils.LogError("Failed to commit user coupon: %v", err)
		utils.InternalServerError(c, "Failed to commit coupon", nil)
		return
	}

	utils.LogInfo("Admin %s issued coupon %s to user ID: %d", admin.Email, coupon.Code, user.ID)
	utils.Created(c, "Coupon issued successfully", gin.H{
		"coupon":      coupon,
		"issued_to":   user.Email,
		"valid_until": coupon.ValidUntil.Format("2006-01-02"),
	})
}

// ListCoupons returns all coupons with their consumption counters.
func ListCoupons(c *gin.Context) {
	utils.LogInfo("ListCoupons called")
	_, exists := c.Get("admin")
	if !exists {
		utils.Unauthorized(c, "Admin not found")
		return
	}

	pagination := utils.NewPagination(c)
	query := config.DB.Model(&models.Coupon{})
	if active := c.Query("active"); active != "" {
		query = query.Where("active = ?", active == "true")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		utils.LogError("Failed to count coupons: %v", err)
		utils.InternalServerError(c, "Failed to count coupons", nil)
		return
	}
	pagination.SetTotal(total)

	var coupons []models.Coupon
	if err := query.Order("created_at DESC").
		Offset(pagination.Offset).Limit(pagination.Limit).
		Find(&coupons).Error; err != nil {
		utils.LogError("Failed to fetch coupons: %v", err)
		utils.InternalServerError(c, "Failed to fetch coupons", nil)
		return
	}

	items := make([]gin.H, 0, len(coupons))
	for _, cp := range coupons {
		items = append(items, gin.H{
			"id":             cp.ID,
			"code":           cp.Code,
			"discount_type":  cp.DiscountType,
			"discount_value": cp.DiscountValue,
			"min_amount":     fmt.Sprintf("%.2f", cp.MinAmount),
			"max_discount":   fmt.Sprintf("%.2f", cp.MaxDiscount),
			"usage_limit":    cp.UsageLimit,
			"used_count":     cp.UsedCount,
			"valid_from":     cp.ValidFrom.Format("2006-01-02"),
			"valid_until":    cp.ValidUntil.Format("2006-01-02"),
			"active":         cp.Active,
		})
	}

	utils.Success(c, "Coupons fetched successfully", gin.H{
		"coupons": items,
		"pagination": gin.H{
			"page":      pagination.Page,
			"limit":     pagination.Limit,
			"total":     pagination.Total,
			"last_page": pagination.LastPage,
		},
	})
}

// UpdateCouponRequest holds the mutable coupon fields
type UpdateCouponRequest struct {
	Active     *bool   `json:"active"`
	UsageLimit *int    `json:"usage_limit"`
	ValidUntil *string `json:"valid_until"`
}

// UpdateCoupon toggles a coupon or extends its limits. The code and discount
// terms are immutable once issued.
func UpdateCoupon(c *gin.Context) {
	utils.LogInfo("UpdateCoupon called")
	_, exists := c.Get("admin")
	if !exists {
		utils.Unauthorized(c, "Admin not found")
		return
	}

	couponID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		utils.LogError("Invalid coupon ID: %v", err)
		utils.BadRequest(c, "Invalid coupon ID", nil)
		return
	}

	var req UpdateCouponRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError("Invalid request: %v", err)
		utils.BadRequest(c, "Invalid request", err.Error())
		return
	}

	var coupon models.Coupon
	if err := config.DB.First(&coupon, couponID).Error; err != nil {
		utils.LogError("Coupon not found for ID: %d", couponID)
		utils.NotFound(c, "Coupon not found")
		return
	}

	updates := map[string]interface{}{}
	if req.Active != nil {
		updates["active"] = *req.Active
	}
	if req.UsageLimit != nil {
		if *req.UsageLimit < coupon.UsedCount {
			utils.ValidationError(c, "Usage limit cannot be below the already used count", nil)
			return
		}
		updates["usage_limit"] = *req.UsageLimit
	}
	if req.ValidUntil != nil {
		validUntil, err := time.Parse("2006-01-02", *req.ValidUntil)
		if err != nil {
			utils.ValidationError(c, "valid_until must be a date in YYYY-MM-DD format", nil)
			return
		}
		updates["valid_until"] = validUntil.Add(24*time.Hour - time.Second)
	}
	if len(updates) == 0 {
		utils.BadRequest(c, "Nothing to update", nil)
		return
	}

	if err := config.DB.Model(&coupon).Updates(updates).Error; err != nil {
		utils.LogError("Failed to update coupon ID: %d: %v", coupon.ID, err)
		utils.InternalServerError(c, "Failed to update coupon", nil)
		return
	}

	utils.LogInfo("Updated coupon ID: %d", coupon.ID)
	utils.Success(c, "Coupon updated successfully", gin.H{"coupon": coupon})
}
