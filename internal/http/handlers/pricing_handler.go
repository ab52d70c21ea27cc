// README: Pricing handlers (vehicle classes and stateless estimates).
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"recharge/internal/modules/pricing"
)

type PricingHandler struct {
	pricing *pricing.Service
}

func NewPricingHandler(svc *pricing.Service) *PricingHandler {
	return &PricingHandler{pricing: svc}
}

// VehicleClasses handles GET /api/vehicle-classes.
func (h *PricingHandler) VehicleClasses(c *gin.Context) {
	writeJSON(c, http.StatusOK, gin.H{"vehicle_classes": h.pricing.Registry().All()})
}

type estimateReq struct {
	DistanceKm     *float64            `json:"distance_km"`
	VehicleClassID string              `json:"vehicle_class_id"`
	PickupTime     *pricing.PickupTime `json:"pickup_time"`
}

type estimateResp struct {
	Breakdown pricing.PriceBreakdown   `json:"breakdown"`
	Display   pricing.DisplayBreakdown `json:"display"`
	Labels    map[string]string        `json:"labels"`
	Window    string                   `json:"time_window"`
}

func newEstimateResp(b pricing.PriceBreakdown) estimateResp {
	d := pricing.FormatBreakdown(b)
	window := pricing.WindowNone
	switch {
	case b.NightSurcharge > 0:
		window = pricing.WindowNight
	case b.PeakSurcharge > 0:
		window = pricing.WindowPeak
	}
	return estimateResp{Breakdown: b, Display: d, Labels: d.Labels(), Window: window.String()}
}

// Estimate handles POST /api/transfers/estimate.
func (h *PricingHandler) Estimate(c *gin.Context) {
	var req estimateReq
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid json")
		return
	}
	if req.DistanceKm == nil {
		badRequest(c, "distance_km is required")
		return
	}
	b, err := h.pricing.Estimate(pricing.EstimateRequest{
		DistanceKm:     *req.DistanceKm,
		VehicleClassID: req.VehicleClassID,
		PickupTime:     req.PickupTime,
	})
	if err != nil {
		writeServiceError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, newEstimateResp(b))
}
