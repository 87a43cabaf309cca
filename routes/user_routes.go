package routes

import (
	"github.com/Vishnu-717/TripTrail/controllers"
	"github.com/Vishnu-717/TripTrail/middleware"
	"github.com/gin-gonic/gin"
)

// initUserRoutes initializes all user-facing routes
func initUserRoutes(router *gin.RouterGroup) {
	// Public routes (no authentication required)
	router.POST("/register", controllers.Register)
	router.POST("/login", controllers.Login)
	router.GET("/trips", controllers.ListTrips)
	router.GET("/trips/:id", controllers.GetTrip)

	// Protected user routes
	user := router.Group("/user")
	user.Use(middleware.AuthMiddleware())
	{
		// Bookings
		user.POST("/bookings", controllers.CreateBooking)
		user.GET("/bookings", controllers.ListMyBookings)
		user.GET("/bookings/:id", controllers.GetBookingDetail)
		user.POST("/bookings/:id/cancel", controllers.CancelBooking)
		user.GET("/bookings/:id/invoice", controllers.DownloadBookingInvoice)

		// Payment channels
		user.POST("/bookings/:id/payments", controllers.SubmitManualPayment)
		user.POST("/bookings/:id/gateway/initiate", controllers.InitiateGatewayPayment)
		user.POST("/bookings/:id/gateway/verify", controllers.VerifyGatewayPayment)

		// Wallet
		user.GET("/wallet", controllers.GetWallet)
		user.POST("/wallet/topup/initiate", controllers.InitiateWalletTopup)
		user.POST("/wallet/topup/verify", controllers.VerifyWalletTopup)
	}
}
