package controllers

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/tealeg/xlsx"

	"github.com/Vishnu-717/TripTrail/config"
	"github.com/Vishnu-717/TripTrail/models"
	"github.com/Vishnu-717/TripTrail/utils"
)

// DownloadBookingReportExcel exports bookings for a period as an Excel sheet
// with a revenue summary.
func DownloadBookingReportExcel(c *gin.Context) {
	utils.LogInfo("DownloadBookingReportExcel called")
	_, exists := c.Get("admin")
	if !exists {
		utils.Unauthorized(c, "Admin not found")
		return
	}

	period := c.DefaultQuery("period", "day")
	utils.LogDebug("Generating Excel report for period: %s", period)

	now := time.Now()
	var startDate, endDate time.Time
	switch period {
	case "day":
		startDate = time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
		endDate = time.Date(now.Year(), now.Month(), now.Day(), 23, 59, 59, 999999999, now.Location())
	case "week":
		endDate = time.Date(now.Year(), now.Month(), now.Day(), 23, 59, 59, 999999999, now.Location())
		startDate = endDate.AddDate(0, 0, -6)
		startDate = time.Date(startDate.Year(), startDate.Month(), startDate.Day(), 0, 0, 0, 0, startDate.Location())
	case "month":
		startDate = now.AddDate(0, 0, -30).Truncate(24 * time.Hour)
		endDate = now.Add(24 * time.Hour)
	default:
		utils.LogError("Invalid period specified: %s", period)
		utils.BadRequest(c, "Invalid period", "Period must be day, week, or month")
		return
	}

	var bookings []models.Booking
	query := config.DB.Where("created_at >= ? AND created_at <= ?", startDate, endDate).
		Preload("User").
		Preload("Trip").
		Order("created_at DESC")
	if err := query.Find(&bookings).Error; err != nil {
		utils.LogError("Failed to fetch bookings: %v", err)
		utils.InternalServerError(c, "Failed to fetch bookings", err.Error())
		return
	}
	utils.LogDebug("Retrieved %d bookings for Excel report", len(bookings))

	var summary struct {
		TotalBookings  int
		Confirmed      int
		Rejected       int
		TotalRevenue   float64
		TotalDiscounts float64
		WalletPayments float64
		TotalSeats     int
		TotalCustomers int
		AverageBooking float64
	}
	customerSet := make(map[uint]bool)
	for _, b := range bookings {
		summary.TotalBookings++
		customerSet[b.UserID] = true
		summary.TotalDiscounts += b.CouponDiscount
		summary.WalletPayments += b.WalletAmountUsed
		if b.BookingStatus == models.BookingStatusConfirmed {
			summary.Confirmed++
			summary.TotalRevenue += b.FinalAmount
			summary.TotalSeats += b.ParticipantCount
		}
		if b.BookingStatus == models.BookingStatusRejected {
			summary.Rejected++
		}
	}
	summary.TotalCustomers = len(customerSet)
	if summary.Confirmed > 0 {
		summary.AverageBooking = math.Round((summary.TotalRevenue/float64(summary.Confirmed))*100) / 100
	}
	summary.TotalRevenue = math.Round(summary.TotalRevenue*100) / 100
	summary.TotalDiscounts = math.Round(summary.TotalDiscounts*100) / 100
	summary.WalletPayments = math.Round(summary.WalletPayments*100) / 100

	file := xlsx.NewFile()
	sheet, err := file.AddSheet("Booking Report")
	if err != nil {
		utils.LogError("Failed to create Excel sheet: %v", err)
		utils.InternalServerError(c, "Failed to create Excel sheet", err.Error())
		return
	}

	companyRow := sheet.AddRow()
	companyRow.AddCell().SetString(strings.ToUpper(utils.AppName) + " - Booking Report")
	companyRow = sheet.AddRow()
	companyRow.AddCell().SetString("Email: support@triptrail.in")
	companyRow = sheet.AddRow()
	companyRow.AddCell().SetString("Period: " + strings.ToUpper(period) + " | " + startDate.Format("2006-01-02") + " to " + endDate.Format("2006-01-02"))
	sheet.AddRow() // spacing

	headers := []string{"Booking ID", "User ID", "Username", "Trip", "Booked At", "Seats", "Base Amount", "Discount", "Wallet Used", "Final Amount", "Method", "Mode", "Booking Status", "Payment Status"}
	headerRow := sheet.AddRow()
	for _, h := range headers {
		cell := headerRow.AddCell()
		cell.SetString(h)
	}

	for _, b := range bookings {
		row := sheet.AddRow()
		row.AddCell().SetInt(int(b.ID))
		row.AddCell().SetInt(int(b.User.ID))
		row.AddCell().SetString(b.User.Username)
		row.AddCell().SetString(b.Trip.Name)
		row.AddCell().SetString(b.CreatedAt.Format("2006-01-02 15:04"))
		row.AddCell().SetInt(b.ParticipantCount)
		row.AddCell().SetFloat(b.BaseAmount)
		row.AddCell().SetFloat(b.CouponDiscount)
		row.AddCell().SetFloat(b.WalletAmountUsed)
		row.AddCell().SetFloat(b.FinalAmount)
		row.AddCell().SetString(b.PaymentMethod)
		row.AddCell().SetString(b.PaymentMode)
		row.AddCell().SetString(b.BookingStatus)
		row.AddCell().SetString(b.PaymentStatus)
	}

	sheet.AddRow() // spacing

	summaryRow := sheet.AddRow()
	summaryRow.AddCell().SetString("Summary")
	style := xlsx.NewStyle()
	font := xlsx.DefaultFont()
	font.Bold = true
	style.Font = *font
	summaryRow.Cells[0].SetStyle(style)

	summaryData := [][]string{
		{"Total Bookings", fmt.Sprintf("%d", summary.TotalBookings)},
		{"Confirmed", fmt.Sprintf("%d", summary.Confirmed)},
		{"Rejected", fmt.Sprintf("%d", summary.Rejected)},
		{"Total Revenue", fmt.Sprintf("%.2f", summary.TotalRevenue)},
		{"Total Discounts", fmt.Sprintf("%.2f", summary.TotalDiscounts)},
		{"Wallet Payments", fmt.Sprintf("%.2f", summary.WalletPayments)},
		{"Seats Confirmed", fmt.Sprintf("%d", summary.TotalSeats)},
		{"Total Customers", fmt.Sprintf("%d", summary.TotalCustomers)},
		{"Avg. Booking Value", fmt.Sprintf("%.2f", summary.AverageBooking)},
	}
	for _, data := range summaryData {
		row := sheet.AddRow()
		row.AddCell().SetString(data[0])
		row.AddCell().SetString(data[1])
	}

	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=booking_report_%s.xlsx", period))
	if err := file.Write(c.Writer); err != nil {
		utils.LogError("Failed to write Excel file: %v", err)
		utils.InternalServerError(c, "Failed to write Excel file", err.Error())
		return
	}
	utils.LogInfo("Successfully generated Excel report for period %s", period)
}
