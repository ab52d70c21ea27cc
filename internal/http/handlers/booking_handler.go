// README: Booking handlers for create/lookup/list and status changes.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"recharge/internal/modules/booking"
	"recharge/internal/types"
)

type BookingHandler struct {
	bookings *booking.Service
}

func NewBookingHandler(svc *booking.Service) *BookingHandler {
	return &BookingHandler{bookings: svc}
}

type createBookingReq struct {
	QuoteID         string           `json:"quote_id"`
	TransferType    string           `json:"transfer_type"`
	Customer        booking.Customer `json:"customer"`
	Adults          int              `json:"adults"`
	Children        int              `json:"children"`
	Infants         int              `json:"infants"`
	Luggage         int              `json:"luggage"`
	ChildSeats      int              `json:"child_seats"`
	FlightNumber    string           `json:"flight_number"`
	SpecialRequests string           `json:"special_requests"`
	MeetAndGreet    *bool            `json:"meet_and_greet"`
	FlightTracking  *bool            `json:"flight_tracking"`
}

// Create handles POST /api/bookings.
func (h *BookingHandler) Create(c *gin.Context) {
	var req createBookingReq
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid json")
		return
	}
	b, err := h.bookings.Create(c.Request.Context(), booking.CreateCommand{
		QuoteID:         types.ID(req.QuoteID),
		TransferType:    booking.TransferType(req.TransferType),
		Customer:        req.Customer,
		Adults:          req.Adults,
		Children:        req.Children,
		Infants:         req.Infants,
		Luggage:         req.Luggage,
		ChildSeats:      req.ChildSeats,
		FlightNumber:    req.FlightNumber,
		SpecialRequests: req.SpecialRequests,
		MeetAndGreet:    req.MeetAndGreet,
		FlightTracking:  req.FlightTracking,
	})
	if err != nil {
		writeServiceError(c, err)
		return
	}
	writeJSON(c, http.StatusCreated, b)
}

// GetByReference handles GET /api/bookings/:reference.
func (h *BookingHandler) GetByReference(c *gin.Context) {
	b, err := h.bookings.GetByReference(c.Request.Context(), c.Param("reference"))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, b)
}

// List handles GET /api/bookings?email=&status=.
func (h *BookingHandler) List(c *gin.Context) {
	ctx := c.Request.Context()
	if email := c.Query("email"); email != "" {
		out, err := h.bookings.ListByEmail(ctx, email)
		if err != nil {
			writeServiceError(c, err)
			return
		}
		writeJSON(c, http.StatusOK, gin.H{"bookings": out})
		return
	}

	var status booking.Status
	if raw := c.Query("status"); raw != "" {
		s, ok := booking.ParseStatus(raw)
		if !ok {
			badRequest(c, "unknown status")
			return
		}
		status = s
	}
	out, err := h.bookings.List(ctx, status)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, gin.H{"bookings": out})
}

type updateStatusReq struct {
	Status string `json:"status"`
	Notes  string `json:"notes"`
}

// UpdateStatus handles POST /api/bookings/:id/status.
func (h *BookingHandler) UpdateStatus(c *gin.Context) {
	var req updateStatusReq
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid json")
		return
	}
	status, ok := booking.ParseStatus(req.Status)
	if !ok {
		badRequest(c, "unknown status")
		return
	}
	b, err := h.bookings.UpdateStatus(c.Request.Context(), types.ID(c.Param("id")), status, req.Notes)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, b)
}

// AssignDriver handles POST /api/bookings/:id/assign.
func (h *BookingHandler) AssignDriver(c *gin.Context) {
	var req booking.DriverAssignment
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid json")
		return
	}
	b, err := h.bookings.AssignDriver(c.Request.Context(), types.ID(c.Param("id")), req)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, b)
}

type updatePaymentReq struct {
	PaymentStatus string `json:"payment_status"`
}

// UpdatePayment handles POST /api/bookings/:id/payment.
func (h *BookingHandler) UpdatePayment(c *gin.Context) {
	var req updatePaymentReq
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid json")
		return
	}
	to, ok := booking.ParsePaymentStatus(req.PaymentStatus)
	if !ok {
		badRequest(c, "unknown payment_status")
		return
	}
	b, err := h.bookings.UpdatePayment(c.Request.Context(), types.ID(c.Param("id")), to)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, b)
}
