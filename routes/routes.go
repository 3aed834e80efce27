package routes

import (
	"time"

	"plantco/handlers"
	"plantco/middleware"
	"plantco/models"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// RegisterOrderRoutes registers the order lifecycle endpoints.
func RegisterOrderRoutes(api *gin.RouterGroup, hb *handlers.HandlerBundle) {
	orders := api.Group("/orders")
	{
		orders.POST("", hb.Orders.CreateOrderHandler)
		orders.GET("", hb.Orders.ListOrdersHandler)
		orders.GET("/:id", hb.Orders.GetOrderHandler)
		orders.PATCH("/:id/status", middleware.RequireRole(models.RoleVendor, models.RoleAdmin, models.RoleCustomer), hb.Orders.UpdateOrderStatusHandler)
		orders.POST("/:id/cancel", hb.Orders.CancelOrderHandler)
		orders.POST("/:id/refund", middleware.RequireRole(models.RoleAdmin), hb.Orders.RefundOrderHandler)
	}
}

// RegisterBookingRoutes registers the booking lifecycle endpoints.
func RegisterBookingRoutes(api *gin.RouterGroup, hb *handlers.HandlerBundle) {
	bookings := api.Group("/bookings")
	{
		bookings.POST("", middleware.RequireRole(models.RoleCustomer), hb.Bookings.CreateBookingHandler)
		bookings.GET("", hb.Bookings.ListBookingsHandler)
		bookings.GET("/:id", hb.Bookings.GetBookingHandler)
		bookings.PATCH("/:id/status", hb.Bookings.UpdateBookingStatusHandler)
		bookings.POST("/:id/cancel", hb.Bookings.CancelBookingHandler)
		bookings.POST("/:id/reject", middleware.RequireRole(models.RoleServiceProvider), hb.Bookings.RejectBookingHandler)
		bookings.POST("/:id/review", middleware.RequireRole(models.RoleCustomer), hb.Bookings.ReviewBookingHandler)
		bookings.DELETE("/:id", middleware.RequireRole(models.RoleAdmin), hb.Bookings.DeleteBookingHandler)
	}
	api.GET("/providers/:id/booking-stats", hb.Bookings.ProviderStatsHandler)
}

// RegisterReviewRoutes registers product review endpoints.
func RegisterReviewRoutes(api *gin.RouterGroup, hb *handlers.HandlerBundle) {
	reviews := api.Group("/reviews")
	{
		reviews.POST("", middleware.RequireRole(models.RoleCustomer), hb.Reviews.CreateReviewHandler)
		reviews.PATCH("/:id/moderate", middleware.RequireRole(models.RoleAdmin), hb.Reviews.ModerateReviewHandler)
	}
}

// RegisterHealthRoute registers a health-check endpoint.
func RegisterHealthRoute(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.GET("/health", handlers.HealthHandler(hb.Health))
}

// RegisterRoutes centralizes registration of all endpoints and middleware.
func RegisterRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.Use(cors.New(cors.Config{
		AllowOrigins:  []string{"*"},
		AllowMethods:  []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Authorization", "Content-Type"},
		ExposeHeaders: []string{"Content-Length"},
		MaxAge:        12 * time.Hour,
	}))
	r.Use(middleware.RateLimitMiddleware(hb.MaxRequestsPerMin, hb.Logger))

	RegisterHealthRoute(r, hb)

	api := r.Group("/api")
	api.Use(middleware.JWTAuthMiddleware(hb.Signer, hb.Logger))
	RegisterOrderRoutes(api, hb)
	RegisterBookingRoutes(api, hb)
	RegisterReviewRoutes(api, hb)
}
