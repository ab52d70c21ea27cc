// README: Quote handlers for create/get.
package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"recharge/internal/modules/quote"
	"recharge/internal/types"
)

type QuoteHandler struct {
	quotes *quote.Service
}

func NewQuoteHandler(svc *quote.Service) *QuoteHandler {
	return &QuoteHandler{quotes: svc}
}

type createQuoteReq struct {
	Origin         string     `json:"origin"`
	Destination    string     `json:"destination"`
	VehicleClassID string     `json:"vehicle_class_id"`
	PickupAt       *time.Time `json:"pickup_at"`
}

type quoteResp struct {
	*quote.Quote
	Pricing estimateResp `json:"pricing"`
	Expired bool         `json:"expired"`
}

func (h *QuoteHandler) render(q *quote.Quote) quoteResp {
	return quoteResp{Quote: q, Pricing: newEstimateResp(q.Breakdown), Expired: q.Expired(h.quotes.Now())}
}

// Create handles POST /api/transfers/quotes.
func (h *QuoteHandler) Create(c *gin.Context) {
	var req createQuoteReq
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid json")
		return
	}
	q, err := h.quotes.Create(c.Request.Context(), quote.CreateCommand{
		Origin:         req.Origin,
		Destination:    req.Destination,
		VehicleClassID: req.VehicleClassID,
		PickupAt:       req.PickupAt,
	})
	if err != nil {
		writeServiceError(c, err)
		return
	}
	writeJSON(c, http.StatusCreated, h.render(q))
}

// Get handles GET /api/transfers/quotes/:id.
func (h *QuoteHandler) Get(c *gin.Context) {
	q, err := h.quotes.Get(c.Request.Context(), types.ID(c.Param("id")))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, h.render(q))
}
