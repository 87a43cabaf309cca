package controllers

import (
	"os"
	"strings"
	"time"

	"github.com/Vishnu-717/TripTrail/config"
	"github.com/Vishnu-717/TripTrail/models"
	"github.com/Vishnu-717/TripTrail/utils"
	"github.com/gin-gonic/gin"
)

// AdminLogin authenticates an admin and issues a JWT with admin claims.
func AdminLogin(c *gin.Context) {
	utils.LogInfo("AdminLogin called")

	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError("Invalid admin login request: %v", err)
		utils.BadRequest(c, "Invalid request", err.Error())
		return
	}

	var admin models.Admin
	if err := config.DB.Where("email = ?", strings.ToLower(strings.TrimSpace(req.Email))).First(&admin).Error; err != nil {
		utils.LogError("Admin login failed, not found for email %s", req.Email)
		utils.Unauthorized(c, "Invalid email or password")
		return
	}
	if !utils.CheckPassword(req.Password, admin.Password) {
		utils.LogError("Admin login failed, bad password for admin ID: %d", admin.ID)
		utils.Unauthorized(c, "Invalid email or password")
		return
	}
	if !admin.IsActive {
		utils.LogError("Inactive admin attempted login: %d", admin.ID)
		utils.Forbidden(c, "Admin account is inactive")
		return
	}

	token, err := utils.GenerateAdminToken(&admin)
	if err != nil {
		utils.LogError("Failed to generate admin token for admin ID: %d: %v", admin.ID, err)
		utils.InternalServerError(c, "Failed to generate token", nil)
		return
	}

	config.DB.Model(&admin).UpdateColumn("last_login", time.Now())

	utils.LogInfo("Admin ID: %d logged in", admin.ID)
	utils.Success(c, "Login successful", gin.H{
		"token": token,
		"admin": gin.H{
			"id":    admin.ID,
			"email": admin.Email,
		},
	})
}

// CreateSampleAdmin seeds an initial admin account from the environment if no
// admin exists yet. Called once at startup.
func CreateSampleAdmin() {
	var count int64
	if err := config.DB.Model(&models.Admin{}).Count(&count).Error; err != nil {
		utils.LogError("Failed to count admins: %v", err)
		return
	}
	if count > 0 {
		return
	}

	email := os.Getenv("ADMIN_EMAIL")
	password := os.Getenv("ADMIN_PASSWORD")
	if email == "" || password == "" {
		utils.LogInfo("No admin seed configured, skipping")
		return
	}

	hash, err := utils.HashPassword(password)
	if err != nil {
		utils.LogError("Failed to hash admin seed password: %v", err)
		return
	}

	admin := models.Admin{
		Email:     strings.ToLower(email),
		Password:  hash,
		FirstName: "Admin",
		IsActive:  true,
	}
	if err := config.DB.Create(&admin).Error; err != nil {
		utils.LogError("Failed to seed admin account: %v", err)
		return
	}
	utils.LogInfo("Seeded admin account %s", admin.Email)
}
