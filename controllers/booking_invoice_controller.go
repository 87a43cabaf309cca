package controllers

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"

	"github.com/Vishnu-717/TripTrail/config"
	"github.com/Vishnu-717/TripTrail/models"
	"github.com/Vishnu-717/TripTrail/utils"
	"github.com/gin-gonic/gin"
	"github.com/jung-kurt/gofpdf"
)

// DownloadBookingInvoice generates and returns a PDF invoice for a confirmed
// booking.
func DownloadBookingInvoice(c *gin.Context) {
	utils.LogInfo("DownloadBookingInvoice called")

	userVal, exists := c.Get("user")
	if !exists {
		utils.Unauthorized(c, "User not found")
		return
	}
	user := userVal.(models.User)

	bookingID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		utils.LogError("Invalid booking ID: %v", err)
		utils.BadRequest(c, "Invalid booking ID", nil)
		return
	}

	var booking models.Booking
	if err := config.DB.Preload("Trip").Preload("Passengers").Preload("Transactions").
		Where("id = ? AND user_id = ?", bookingID, user.ID).First(&booking).Error; err != nil {
		utils.LogError("Booking not found for ID: %d, user ID: %d", bookingID, user.ID)
		utils.NotFound(c, "Booking not found")
		return
	}
	if booking.BookingStatus != models.BookingStatusConfirmed {
		utils.LogError("Invoice requested for unconfirmed booking ID: %d", booking.ID)
		utils.Conflict(c, "Invoices are only available for confirmed bookings", nil)
		return
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 18)
	pdf.Cell(100, 10, utils.AppName)
	pdf.SetFont("Arial", "", 12)
	pdf.Ln(8)
	pdf.Cell(100, 8, "Travel with us, remember forever")
	pdf.Ln(8)
	pdf.Cell(100, 8, "Email: support@triptrail.in | Phone: +91-98765-43210")
	pdf.Ln(12)

	pdf.SetFont("Arial", "B", 16)
	pdf.Cell(100, 10, "BOOKING INVOICE")
	pdf.Ln(12)
	pdf.SetFont("Arial", "", 12)
	pdf.Cell(60, 8, "Booking ID: "+strconv.Itoa(int(booking.ID)))
	pdf.Cell(70, 8, "Booked On: "+booking.CreatedAt.Format("2006-01-02 15:04:05"))
	pdf.Ln(8)
	pdf.Cell(60, 8, "Payment Mode: "+booking.PaymentMode)
	pdf.Cell(70, 8, "Status: "+booking.BookingStatus)
	pdf.Ln(10)

	pdf.SetFont("Arial", "B", 13)
	pdf.Cell(100, 8, "Billed To:")
	pdf.Ln(7)
	pdf.SetFont("Arial", "", 12)
	pdf.Cell(100, 8, user.FirstName+" "+user.LastName)
	pdf.Ln(6)
	pdf.Cell(100, 8, user.Email)
	pdf.Ln(10)

	pdf.SetFont("Arial", "B", 13)
	pdf.Cell(100, 8, "Trip:")
	pdf.Ln(7)
	pdf.SetFont("Arial", "", 12)
	pdf.Cell(100, 8, booking.Trip.Name+" - "+booking.Trip.Destination)
	pdf.Ln(6)
	pdf.Cell(100, 8, booking.Trip.StartDate.Format("2006-01-02")+" to "+booking.Trip.EndDate.Format("2006-01-02"))
	pdf.Ln(10)

	// Passenger table
	pdf.SetFont("Arial", "B", 12)
	pdf.CellFormat(80, 8, "Passenger", "1", 0, "C", false, 0, "")
	pdf.CellFormat(20, 8, "Age", "1", 0, "C", false, 0, "")
	pdf.CellFormat(30, 8, "Gender", "1", 0, "C", false, 0, "")
	pdf.Ln(-1)
	pdf.SetFont("Arial", "", 12)
	for _, p := range booking.Passengers {
		pdf.CellFormat(80, 8, p.Name, "1", 0, "L", false, 0, "")
		pdf.CellFormat(20, 8, strconv.Itoa(p.Age), "1", 0, "C", false, 0, "")
		pdf.CellFormat(30, 8, p.Gender, "1", 0, "C", false, 0, "")
		pdf.Ln(-1)
	}

	// Payment table
	pdf.Ln(4)
	pdf.SetFont("Arial", "B", 12)
	pdf.CellFormat(50, 8, "Reference", "1", 0, "C", false, 0, "")
	pdf.CellFormat(30, 8, "Type", "1", 0, "C", false, 0, "")
	pdf.CellFormat(30, 8, "Mode", "1", 0, "C", false, 0, "")
	pdf.CellFormat(30, 8, "Amount", "1", 0, "C", false, 0, "")
	pdf.Ln(-1)
	pdf.SetFont("Arial", "", 12)
	for _, t := range booking.Transactions {
		if t.Status != models.TransactionStatusVerified {
			continue
		}
		pdf.CellFormat(50, 8, t.ReferenceID, "1", 0, "L", false, 0, "")
		pdf.CellFormat(30, 8, t.PaymentType, "1", 0, "C", false, 0, "")
		pdf.CellFormat(30, 8, t.PaymentMode, "1", 0, "C", false, 0, "")
		pdf.CellFormat(30, 8, fmt.Sprintf("%.2f", t.Amount), "1", 0, "R", false, 0, "")
		pdf.Ln(-1)
	}

	// Summary
	pdf.Ln(4)
	pdf.SetFont("Arial", "B", 12)
	pdf.CellFormat(110, 8, "Base Amount:", "", 0, "L", false, 0, "")
	pdf.SetFont("Arial", "", 12)
	pdf.CellFormat(30, 8, fmt.Sprintf("%.2f", booking.BaseAmount), "", 1, "R", false, 0, "")
	if booking.CouponDiscount > 0 {
		pdf.SetFont("Arial", "B", 12)
		pdf.CellFormat(110, 8, "Coupon Discount ("+booking.CouponCode+"):", "", 0, "L", false, 0, "")
		pdf.SetFont("Arial", "", 12)
		pdf.CellFormat(30, 8, fmt.Sprintf("-%.2f", booking.CouponDiscount), "", 1, "R", false, 0, "")
	}
	if booking.WalletAmountUsed > 0 {
		pdf.SetFont("Arial", "B", 12)
		pdf.CellFormat(110, 8, "Paid from Wallet:", "", 0, "L", false, 0, "")
		pdf.SetFont("Arial", "", 12)
		pdf.CellFormat(30, 8, fmt.Sprintf("-%.2f", booking.WalletAmountUsed), "", 1, "R", false, 0, "")
	}
	pdf.SetFont("Arial", "B", 13)
	pdf.CellFormat(110, 10, "Amount Paid:", "", 0, "L", false, 0, "")
	pdf.CellFormat(30, 10, fmt.Sprintf("%.2f", booking.FinalAmount), "", 1, "R", false, 0, "")

	pdf.Ln(10)
	pdf.SetFont("Arial", "I", 12)
	pdf.Cell(0, 10, "Thank you for travelling with "+utils.AppName+"!")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		utils.LogError("Failed to generate invoice PDF for booking ID: %d: %v", booking.ID, err)
		utils.InternalServerError(c, "Failed to generate invoice", nil)
		return
	}
	utils.LogInfo("Generated invoice PDF for booking ID: %d", booking.ID)

	c.Header("Content-Type", "application/pdf")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=booking_invoice_%d.pdf", booking.ID))
	c.Data(http.StatusOK, "application/pdf", buf.Bytes())
}
