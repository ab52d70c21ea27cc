// README: Destination, airport and place search handlers.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"recharge/internal/maps"
)

type PlacesHandler struct {
	places *maps.PlacesService // nil when no maps key is configured
}

func NewPlacesHandler(places *maps.PlacesService) *PlacesHandler {
	return &PlacesHandler{places: places}
}

// Destinations handles GET /api/destinations?q=.
func (h *PlacesHandler) Destinations(c *gin.Context) {
	writeJSON(c, http.StatusOK, gin.H{"destinations": maps.SearchDestinations(c.Query("q"))})
}

// Airports handles GET /api/airports?q=.
func (h *PlacesHandler) Airports(c *gin.Context) {
	writeJSON(c, http.StatusOK, gin.H{"airports": maps.SearchAirports(c.Query("q"))})
}

// Search handles GET /api/places?q=, falling back to the built-in destinations.
func (h *PlacesHandler) Search(c *gin.Context) {
	q := c.Query("q")
	if h.places == nil {
		writeJSON(c, http.StatusOK, gin.H{"source": "destinations", "places": maps.SearchDestinations(q)})
		return
	}
	places, err := h.places.SearchText(c.Request.Context(), q)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, gin.H{"source": "google", "places": places})
}
