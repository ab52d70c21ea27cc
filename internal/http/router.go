// README: HTTP router registration.
package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"recharge/internal/http/handlers"
	"recharge/internal/http/middleware"
	"recharge/internal/service"
)

func NewRouter(deps ServerDeps, log zerolog.Logger) *gin.Engine {
	r := gin.New()
	r.Use(middleware.RequestID(), middleware.Logging(log), middleware.Recovery())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api")

	pricingHandler := handlers.NewPricingHandler(deps.Pricing)
	api.GET("/vehicle-classes", pricingHandler.VehicleClasses)
	api.POST("/transfers/estimate", pricingHandler.Estimate)

	quoteHandler := handlers.NewQuoteHandler(deps.Quotes)
	api.POST("/transfers/quotes", quoteHandler.Create)
	api.GET("/transfers/quotes/:id", quoteHandler.Get)

	placesHandler := handlers.NewPlacesHandler(deps.Places)
	api.GET("/destinations", placesHandler.Destinations)
	api.GET("/airports", placesHandler.Airports)
	api.GET("/places", placesHandler.Search)

	bookingHandler := handlers.NewBookingHandler(deps.Bookings)
	api.POST("/bookings", bookingHandler.Create)
	api.GET("/bookings", bookingHandler.List)
	api.GET("/bookings/:reference", bookingHandler.GetByReference)
	api.POST("/bookings/:id/status", bookingHandler.UpdateStatus)
	api.POST("/bookings/:id/assign", bookingHandler.AssignDriver)
	api.POST("/bookings/:id/payment", bookingHandler.UpdatePayment)

	assistant := service.NewTransferAssistant(deps.Assistant, deps.AIUsage, deps.Quotes, deps.Pricing.Registry(), deps.Location, log)
	aiHandler := handlers.NewAIHandler(assistant)
	api.POST("/assistant/quote", aiHandler.Quote)

	return r
}
