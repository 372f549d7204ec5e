package routes

import (
	"net/http"
	"time"

	"meytle/handlers"
	"meytle/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// HandlerBundle groups the handlers the router needs.
type HandlerBundle struct {
	Wizard       *handlers.WizardHandler
	Availability *handlers.AvailabilityHandler
	Catalog      *handlers.CatalogHandler
	Booking      *handlers.BookingHandler
}

// RegisterRoutes registers every endpoint of the service.
func RegisterRoutes(r *gin.Engine, hb *HandlerBundle) {
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	RegisterWizardRoutes(r, hb)
	RegisterCompanionRoutes(r, hb)

	api := r.Group("/api")
	{
		api.GET("/services", hb.Catalog.List)
		api.GET("/bookings/:id", hb.Booking.GetByID)
	}

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, utils.GetHealthStatus())
	})
}

// RegisterCompanionRoutes registers companion-scoped read endpoints.
func RegisterCompanionRoutes(r *gin.Engine, hb *HandlerBundle) {
	companions := r.Group("/api/companions")
	{
		companions.GET("/:id/availability", hb.Availability.Day)
		companions.GET("/:id/availability/weekly", hb.Availability.Weekly)
		companions.PUT("/:id/availability/weekly", hb.Availability.SetWeekly)
		companions.GET("/:id/services", hb.Catalog.CustomServices)
	}
}
