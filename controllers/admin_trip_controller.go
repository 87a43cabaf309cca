package controllers

import (
	"strconv"
	"time"

	"github.com/Vishnu-717/TripTrail/config"
	"github.com/Vishnu-717/TripTrail/models"
	"github.com/Vishnu-717/TripTrail/utils"
	"github.com/gin-gonic/gin"
)

// CreateTripRequest represents the trip creation payload
type CreateTripRequest struct {
	Name            string  `json:"name" binding:"required"`
	Destination     string  `json:"destination" binding:"required"`
	Description     string  `json:"description"`
	StartDate       string  `json:"start_date" binding:"required"`
	EndDate         string  `json:"end_date" binding:"required"`
	MaxParticipants int     `json:"max_participants" binding:"required"`
	FullPrice       float64 `json:"full_price" binding:"required"`
	SeatLockPrice   float64 `json:"seat_lock_price"`
	EarlyBirdPrice  float64 `json:"early_bird_price"`
	EarlyBirdUntil  string  `json:"early_bird_until"`
}

// CreateTrip adds a bookable trip with its capacity and pricing tiers.
func CreateTrip(c *gin.Context) {
	utils.LogInfo("CreateTrip called")
	_, exists := c.Get("admin")
	if !exists {
		utils.Unauthorized(c, "Admin not found")
		return
	}

	var req CreateTripRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError("Invalid request: %v", err)
		utils.BadRequest(c, "Invalid request", err.Error())
		return
	}

	startDate, err := time.Parse("2006-01-02", req.StartDate)
	if err != nil {
		utils.ValidationError(c, "start_date must be a date in YYYY-MM-DD format", nil)
		return
	}
	endDate, err := time.Parse("2006-01-02", req.EndDate)
	if err != nil {
		utils.ValidationError(c, "end_date must be a date in YYYY-MM-DD format", nil)
		return
	}
	if !endDate.After(startDate) {
		utils.ValidationError(c, "end_date must be after start_date", nil)
		return
	}
	if !startDate.After(time.Now()) {
		utils.ValidationError(c, "start_date must be in the future", nil)
		return
	}
	if req.MaxParticipants < 1 {
		utils.ValidationError(c, "max_participants must be at least 1", nil)
		return
	}
	if req.FullPrice <= 0 {
		utils.ValidationError(c, "full_price must be greater than zero", nil)
		return
	}
	if req.SeatLockPrice < 0 || req.SeatLockPrice >= req.FullPrice {
		utils.ValidationError(c, "seat_lock_price must be below full_price", nil)
		return
	}

	trip := models.Trip{
		Name:            req.Name,
		Destination:     req.Destination,
		Description:     req.Description,
		StartDate:       startDate,
		EndDate:         endDate,
		MaxParticipants: req.MaxParticipants,
		FullPrice:       req.FullPrice,
		SeatLockPrice:   req.SeatLockPrice,
		EarlyBirdPrice:  req.EarlyBirdPrice,
		IsActive:        true,
	}
	if req.EarlyBirdPrice > 0 {
		if req.EarlyBirdUntil == "" {
			utils.ValidationError(c, "early_bird_until is required when early_bird_price is set", nil)
			return
		}
		earlyBirdUntil, err := time.Parse("2006-01-02", req.EarlyBirdUntil)
		if err != nil {
			utils.ValidationError(c, "early_bird_until must be a date in YYYY-MM-DD format", nil)
			return
		}
		trip.EarlyBirdUntil = &earlyBirdUntil
	}

	if err := config.DB.Create(&trip).Error; err != nil {
		utils.LogError("Failed to create trip: %v", err)
		utils.InternalServerError(c, "Failed to create trip", nil)
		return
	}

	utils.LogInfo("Created trip ID: %d", trip.ID)
	utils.Created(c, "Trip created successfully", gin.H{"trip": trip})
}

// UpdateTripRequest holds the mutable trip fields
type UpdateTripRequest struct {
	Name            *string  `json:"name"`
	Description     *string  `json:"description"`
	MaxParticipants *int     `json:"max_participants"`
	FullPrice       *float64 `json:"full_price"`
	SeatLockPrice   *float64 `json:"seat_lock_price"`
	IsActive        *bool    `json:"is_active"`
}

// UpdateTrip edits a trip. Capacity can never be lowered below the seats
// already confirmed.
func UpdateTrip(c *gin.Context) {
	utils.LogInfo("UpdateTrip called")
	_, exists := c.Get("admin")
	if !exists {
		utils.Unauthorized(c, "Admin not found")
		return
	}

	tripID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		utils.LogError("Invalid trip ID: %v", err)
		utils.BadRequest(c, "Invalid trip ID", nil)
		return
	}

	var req UpdateTripRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError("Invalid request: %v", err)
		utils.BadRequest(c, "Invalid request", err.Error())
		return
	}

	var trip models.Trip
	if err := config.DB.First(&trip, tripID).Error; err != nil {
		utils.LogError("Trip not found for ID: %d", tripID)
		utils.NotFound(c, "Trip not found")
		return
	}

	updates := map[string]interface{}{}
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.MaxParticipants != nil {
		if *req.MaxParticipants < trip.CurrentParticipants {
			utils.ValidationError(c, "max_participants cannot be below the confirmed participant count", nil)
			return
		}
		updates["max_participants"] = *req.MaxParticipants
	}
	if req.FullPrice != nil {
		if *req.FullPrice <= 0 {
			utils.ValidationError(c, "full_price must be greater than zero", nil)
			return
		}
		updates["full_price"] = *req.FullPrice
	}
	if req.SeatLockPrice != nil {
		updates["seat_lock_price"] = *req.SeatLockPrice
	}
	if req.IsActive != nil {
		updates["is_active"] = *req.IsActive
	}
	if len(updates) == 0 {
		utils.BadRequest(c, "Nothing to update", nil)
		return
	}

	if err := config.DB.Model(&trip).Updates(updates).Error; err != nil {
		utils.LogError("Failed to update trip ID: %d: %v", trip.ID, err)
		utils.InternalServerError(c, "Failed to update trip", nil)
		return
	}

	utils.LogInfo("Updated trip ID: %d", trip.ID)
	utils.Success(c, "Trip updated successfully", gin.H{"trip": trip})
}
