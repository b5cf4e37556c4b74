package routes

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"autoshine/handlers"
	"autoshine/middleware"
	"autoshine/utils"
)

// RegisterCatalogRoutes registers the public service catalog.
func RegisterCatalogRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/catalog")
	{
		api.GET("/services", hb.Catalog.ListServices)
		api.GET("/services/:name", hb.Catalog.GetService)
	}
}

// RegisterPricingRoutes registers quoting and promo validation.
func RegisterPricingRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/pricing")
	{
		api.POST("/quote", hb.Pricing.Quote)
		api.POST("/promo/validate", hb.Pricing.ValidatePromo)
	}
}

// RegisterBookingRoutes sets up the customer-facing booking endpoints.
func RegisterBookingRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/bookings")
	{
		api.POST("", hb.Booking.CreateBooking)
		api.GET("/:id", hb.Booking.GetBooking)
		api.GET("", hb.Booking.ListUserBookings)
		api.POST("/:id/cancel", hb.Booking.CancelBooking)
		api.POST("/:id/reschedule", hb.Booking.RescheduleBooking)
		api.POST("/:id/review", hb.Booking.AddReview)
	}

	slots := r.Group("/api/slots")
	{
		slots.GET("", hb.Booking.GetAvailableSlots)
		slots.GET("/reschedule", hb.Booking.GetRescheduleSlots)
	}
}

// RegisterSubscriptionRoutes sets up recurring-plan endpoints.
func RegisterSubscriptionRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/subscriptions")
	{
		api.POST("", hb.Subscription.CreateSubscription)
		api.GET("/:id", hb.Subscription.GetSubscription)
		api.GET("", hb.Subscription.ListUserSubscriptions)
		api.POST("/:id/pause", hb.Subscription.PauseSubscription)
		api.POST("/:id/resume", hb.Subscription.ResumeSubscription)
		api.POST("/:id/cancel", hb.Subscription.CancelSubscription)
	}
}

// RegisterAdminRoutes covers detailer-side lifecycle operations and
// catalog management. Everything here requires the admin token.
func RegisterAdminRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	admin := r.Group("/api/admin")
	{
		admin.Use(middleware.AdminAuthMiddleware())
		admin.POST("/bookings/:id/accept", hb.Booking.AcceptBooking)
		admin.POST("/bookings/:id/reject", hb.Booking.RejectBooking)
		admin.POST("/bookings/:id/cancel", hb.Booking.AdminCancelBooking)
		admin.POST("/bookings/:id/approve-reschedule", hb.Booking.ApproveReschedule)
		admin.POST("/bookings/:id/start", hb.Booking.StartBooking)
		admin.POST("/bookings/:id/complete", hb.Booking.CompleteBooking)
		admin.POST("/bookings/:id/no-show", hb.Booking.MarkNoShow)
		admin.PUT("/catalog/services", hb.Catalog.UpsertService)
		admin.POST("/subscriptions/process-due", hb.Subscription.ProcessDue)
	}
}

// RegisterHealthRoute registers a health-check endpoint.
func RegisterHealthRoute(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, utils.GetHealthStatus())
	})
}

// RegisterRoutes centralizes registration of all endpoints and middleware.
func RegisterRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	r.Use(middleware.RateLimitMiddleware())

	RegisterHealthRoute(r)
	RegisterCatalogRoutes(r, hb)
	RegisterPricingRoutes(r, hb)
	RegisterBookingRoutes(r, hb)
	RegisterSubscriptionRoutes(r, hb)
	RegisterAdminRoutes(r, hb)
}
