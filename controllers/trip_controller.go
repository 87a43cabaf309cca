package controllers

import (
	"fmt"
	"strconv"
	"time"

	"github.com/Vishnu-717/TripTrail/config"
	"github.com/Vishnu-717/TripTrail/models"
	"github.com/Vishnu-717/TripTrail/utils"
	"github.com/gin-gonic/gin"
)

// ListTrips returns active upcoming trips with their pricing tiers and
// remaining capacity.
func ListTrips(c *gin.Context) {
	utils.LogInfo("ListTrips called")

	pagination := utils.NewPagination(c)
	query := config.DB.Model(&models.Trip{}).
		Where("is_active = ? AND start_date > ?", true, time.Now())
	if destination := c.Query("destination"); destination != "" {
		query = query.Where("destination ILIKE ?", "%"+destination+"%")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		utils.LogError("Failed to count trips: %v", err)
		utils.InternalServerError(c, "Failed to count trips", nil)
		return
	}
	pagination.SetTotal(total)

	var trips []models.Trip
	if err := query.Order("start_date ASC").
		Offset(pagination.Offset).Limit(pagination.Limit).
		Find(&trips).Error; err != nil {
		utils.LogError("Failed to fetch trips: %v", err)
		utils.InternalServerError(c, "Failed to fetch trips", nil)
		return
	}

	items := make([]gin.H, 0, len(trips))
	for _, t := range trips {
		items = append(items, tripSummary(&t))
	}

	utils.LogInfo("Fetched %d trips", len(trips))
	utils.Success(c, "Trips fetched successfully", gin.H{
		"trips": items,
		"pagination": gin.H{
			"page":      pagination.Page,
			"limit":     pagination.Limit,
			"total":     pagination.Total,
			"last_page": pagination.LastPage,
		},
	})
}

// GetTrip returns one active trip.
func GetTrip(c *gin.Context) {
	utils.LogInfo("GetTrip called")
	tripID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		utils.LogError("Invalid trip ID: %v", err)
		utils.BadRequest(c, "Invalid trip ID", nil)
		return
	}

	var trip models.Trip
	if err := config.DB.Where("id = ? AND is_active = ?", tripID, true).First(&trip).Error; err != nil {
		utils.LogError("Trip not found for ID: %d", tripID)
		utils.NotFound(c, "Trip not found")
		return
	}

	detail := tripSummary(&trip)
	detail["description"] = trip.Description
	detail["max_participants"] = trip.MaxParticipants

	utils.Success(c, "Trip fetched successfully", gin.H{"trip": detail})
}

func tripSummary(t *models.Trip) gin.H {
	summary := gin.H{
		"id":              t.ID,
		"name":            t.Name,
		"destination":     t.Destination,
		"start_date":      t.StartDate,
		"end_date":        t.EndDate,
		"seats_left":      t.SeatsLeft(),
		"full_price":      fmt.Sprintf("%.2f", t.FullPrice),
		"seat_lock_price": fmt.Sprintf("%.2f", t.SeatLockPrice),
	}
	if t.EarlyBirdPrice > 0 && t.EarlyBirdUntil != nil && time.Now().Before(*t.EarlyBirdUntil) {
		summary["early_bird_price"] = fmt.Sprintf("%.2f", t.EarlyBirdPrice)
		summary["early_bird_until"] = t.EarlyBirdUntil.Format("2006-01-02")
	}
	return summary
}
