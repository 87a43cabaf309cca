package routes

import (
	"github.com/Vishnu-717/TripTrail/controllers"
	"github.com/Vishnu-717/TripTrail/middleware"
	"github.com/gin-gonic/gin"
)

// initAdminRoutes initializes all admin-related routes
func initAdminRoutes(router *gin.RouterGroup) {
	admin := router.Group("/admin")
	{
		// Public admin routes
		admin.POST("/login", controllers.AdminLogin)

		// Protected admin routes
		admin.Use(middleware.AdminMiddleware())
		{
			// Booking review
			admin.GET("/bookings", controllers.AdminListBookings)
			admin.GET("/bookings/:id", controllers.AdminGetBooking)
			admin.POST("/bookings/:id/cash/approve", controllers.ApproveCashPayment)

			// Payment review
			admin.GET("/payments/pending", controllers.ListPendingPayments)
			admin.POST("/payments/:id/verify", controllers.VerifyPayment)
			admin.POST("/payments/:id/reject", controllers.RejectPayment)

			// Trip management
			admin.POST("/trips", controllers.CreateTrip)
			admin.PUT("/trips/:id", controllers.UpdateTrip)

			// Coupon management
			admin.POST("/coupons", controllers.CreateCoupon)
			admin.GET("/coupons", controllers.ListCoupons)
			admin.PUT("/coupons/:id", controllers.UpdateCoupon)
			admin.POST("/coupons/issue", controllers.IssueUserCoupon)

			// Wallet management
			admin.GET("/users/:id/wallet", controllers.AdminGetWallet)
			admin.POST("/users/:id/wallet", controllers.AdjustWallet)

			// Reports and reminders
			admin.GET("/reports/bookings/excel", controllers.DownloadBookingReportExcel)
			admin.POST("/reminders/payments", controllers.SendPaymentReminders)
		}
	}
}
