package di

import (
	"github.com/gin-gonic/gin"

	"github.com/mohand-ashraf/velora-hotel/internal/middleware"
)

// RegisterRoutes mounts the health probes and the /api/v1 surface
func (c *Container) RegisterRoutes(router *gin.Engine) {
	router.GET("/health", c.HealthHandler.Health)
	router.GET("/ready", c.HealthHandler.Ready)

	requireAuth := middleware.Auth(c.AuthService)

	// Writes replay on a repeated X-Idempotency-Key when Redis is available
	var idemStore middleware.IdempotencyStore
	if c.Redis != nil {
		idemStore = c.Redis
	}
	idempotent := middleware.Idempotency(middleware.IdempotencyConfig{
		Store:  idemStore,
		Logger: c.log,
	})

	v1 := router.Group("/api/v1")
	{
		auth := v1.Group("/auth")
		auth.POST("/signup", c.AuthHandler.Signup)
		auth.POST("/login", c.AuthHandler.Login)

		rooms := v1.Group("/rooms")
		rooms.GET("", c.RoomHandler.ListRooms)
		rooms.GET("/:id", c.RoomHandler.GetRoom)
		rooms.GET("/:id/availability", c.RoomHandler.Availability)
		rooms.POST("/:id/bookings", requireAuth, idempotent, c.BookingHandler.CommitBooking)

		bookings := v1.Group("/bookings", requireAuth)
		bookings.GET("", c.BookingHandler.ListBookings)
		bookings.DELETE("/:id", idempotent, c.BookingHandler.CancelBooking)
	}
}
