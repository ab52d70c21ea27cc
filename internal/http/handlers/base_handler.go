// README: Base handler utilities (JSON helpers, error mapping).
package handlers

import (
	"net/http"

	"github.com/cockroachdb/errors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"recharge/internal/ai"
	"recharge/internal/maps"
	"recharge/internal/modules/aiusage"
	"recharge/internal/modules/booking"
	"recharge/internal/modules/pricing"
	"recharge/internal/modules/quote"
	"recharge/internal/service"
)

const (
	CodeInvalidDistance     = "INVALID_DISTANCE"
	CodeUnknownVehicleClass = "UNKNOWN_VEHICLE_CLASS"
	CodeInvalidPickupHour   = "INVALID_PICKUP_HOUR"
	CodeBadRequest          = "BAD_REQUEST"
	CodeNotFound            = "NOT_FOUND"
	CodeConflict            = "CONFLICT"
	CodeQuoteExpired        = "QUOTE_EXPIRED"
	CodeNoRoute             = "NO_ROUTE"
	CodeUnavailable         = "PROVIDER_UNAVAILABLE"
	CodeQuotaExceeded       = "QUOTA_EXCEEDED"
	CodeBadModelReply       = "BAD_MODEL_REPLY"
	CodeInternal            = "INTERNAL"
)

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

func writeJSON(c *gin.Context, status int, v any) {
	c.JSON(status, v)
}

func writeError(c *gin.Context, status int, code, msg string) {
	writeJSON(c, status, errorResponse{Error: msg, Code: code})
}

func badRequest(c *gin.Context, msg string) {
	writeError(c, http.StatusBadRequest, CodeBadRequest, msg)
}

type errorMapping struct {
	target error
	status int
	code   string
}

// Order matters: the first matching sentinel wins.
var errorMappings = []errorMapping{
	{pricing.ErrInvalidDistance, http.StatusBadRequest, CodeInvalidDistance},
	{pricing.ErrUnknownVehicleClass, http.StatusBadRequest, CodeUnknownVehicleClass},
	{pricing.ErrInvalidPickupHour, http.StatusBadRequest, CodeInvalidPickupHour},
	{quote.ErrBadRequest, http.StatusBadRequest, CodeBadRequest},
	{booking.ErrBadRequest, http.StatusBadRequest, CodeBadRequest},
	{maps.ErrEmptyLocation, http.StatusBadRequest, CodeBadRequest},
	{quote.ErrNotFound, http.StatusNotFound, CodeNotFound},
	{booking.ErrNotFound, http.StatusNotFound, CodeNotFound},
	{booking.ErrInvalidState, http.StatusConflict, CodeConflict},
	{booking.ErrConflict, http.StatusConflict, CodeConflict},
	{quote.ErrConflict, http.StatusConflict, CodeConflict},
	{booking.ErrQuoteExpired, http.StatusGone, CodeQuoteExpired},
	{quote.ErrNoRoute, http.StatusUnprocessableEntity, CodeNoRoute},
	{maps.ErrNoRouteFound, http.StatusUnprocessableEntity, CodeNoRoute},
	{maps.ErrProviderUnavailable, http.StatusServiceUnavailable, CodeUnavailable},
	{aiusage.ErrInsufficientTokens, http.StatusTooManyRequests, CodeQuotaExceeded},
	{ai.ErrEmptyMessage, http.StatusBadRequest, CodeBadRequest},
	{ai.ErrBadModelReply, http.StatusBadGateway, CodeBadModelReply},
	{service.ErrAssistantDisabled, http.StatusServiceUnavailable, CodeUnavailable},
}

// writeServiceError maps module sentinels to status codes. Anything unknown is
// logged and answered with a bare 500.
func writeServiceError(c *gin.Context, err error) {
	for _, m := range errorMappings {
		if errors.Is(err, m.target) {
			writeError(c, m.status, m.code, err.Error())
			return
		}
	}
	zerolog.Ctx(c.Request.Context()).Error().Err(err).Msg("unhandled error")
	writeError(c, http.StatusInternalServerError, CodeInternal, "internal error")
}
