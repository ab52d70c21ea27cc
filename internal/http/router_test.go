// README: End-to-end handler tests over the gin router with in-memory stores.
package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"recharge/internal/ai"
	httptransport "recharge/internal/http"
	"recharge/internal/maps"
	"recharge/internal/modules/aiusage"
	"recharge/internal/modules/booking"
	"recharge/internal/modules/pricing"
	"recharge/internal/modules/quote"
)

type fakeParser struct {
	intent *ai.TransferIntent
	err    error
	calls  int
}

func (f *fakeParser) ParseTransferRequest(context.Context, string, ai.PromptContext) (*ai.TransferIntent, error) {
	f.calls++
	return f.intent, f.err
}

type testClock struct{ t time.Time }

func (c *testClock) Now() time.Time { return c.t }

type env struct {
	router *gin.Engine
	clock  *testClock
	parser *fakeParser
}

func newEnv(t *testing.T) *env {
	t.Helper()
	gin.SetMode(gin.TestMode)
	log := zerolog.New(io.Discard)
	colombo, err := time.LoadLocation("Asia/Colombo")
	require.NoError(t, err)

	clock := &testClock{t: time.Date(2026, 5, 4, 3, 0, 0, 0, time.UTC)}
	pricingSvc := pricing.NewService(pricing.DefaultRegistry())
	routes := maps.NewFallbackRouteEstimator(log, maps.NewRouteTable())
	quoteSvc := quote.NewService(quote.NewMemoryRepository(), routes, pricingSvc, quote.Options{
		Location: colombo,
		Now:      clock.Now,
		Logger:   log,
	})
	bookingSvc := booking.NewService(booking.NewMemoryRepository(), quoteSvc, clock.Now, log)
	parser := &fakeParser{}

	router := httptransport.NewRouter(httptransport.ServerDeps{
		Pricing:   pricingSvc,
		Quotes:    quoteSvc,
		Bookings:  bookingSvc,
		Assistant: parser,
		AIUsage:   aiusage.NewService(aiusage.NewMemoryStore(clock.Now)),
		Location:  colombo,
	}, log)
	return &env{router: router, clock: clock, parser: parser}
}

func (e *env) do(t *testing.T, method, path string, body any) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)

	var out map[string]any
	if w.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	}
	return w, out
}

func TestHealth(t *testing.T) {
	w, body := newEnv(t).do(t, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", body["status"])
}

func TestVehicleClasses(t *testing.T) {
	w, body := newEnv(t).do(t, http.MethodGet, "/api/vehicle-classes", nil)
	require.Equal(t, http.StatusOK, w.Code)
	classes := body["vehicle_classes"].([]any)
	assert.Len(t, classes, 5)
	assert.Equal(t, "sedan", classes[0].(map[string]any)["id"])
}

func TestEstimate(t *testing.T) {
	e := newEnv(t)
	w, body := e.do(t, http.MethodPost, "/api/transfers/estimate", map[string]any{
		"distance_km":      50,
		"vehicle_class_id": "sedan",
		"pickup_time":      map[string]any{"hour": 23, "is_weekday": true},
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "night", body["time_window"])
	labels := body["labels"].(map[string]any)
	assert.Equal(t, "$60.00", labels["total_price"])
	assert.Equal(t, "$10.00", labels["night_surcharge"])
	assert.Equal(t, "$0.00", labels["peak_surcharge"])
}

func TestEstimateErrors(t *testing.T) {
	cases := []struct {
		name string
		body any
		code string
	}{
		{"negative distance", map[string]any{"distance_km": -1, "vehicle_class_id": "sedan"}, "INVALID_DISTANCE"},
		{"unknown vehicle", map[string]any{"distance_km": 10, "vehicle_class_id": "boat"}, "UNKNOWN_VEHICLE_CLASS"},
		{"bad hour", map[string]any{"distance_km": 10, "vehicle_class_id": "suv", "pickup_time": map[string]any{"hour": 24}}, "INVALID_PICKUP_HOUR"},
		{"distance checked first", map[string]any{"distance_km": -5, "vehicle_class_id": "boat", "pickup_time": map[string]any{"hour": 30}}, "INVALID_DISTANCE"},
		{"missing distance", map[string]any{"vehicle_class_id": "sedan"}, "BAD_REQUEST"},
	}
	e := newEnv(t)
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w, body := e.do(t, http.MethodPost, "/api/transfers/estimate", tc.body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Equal(t, tc.code, body["code"])
		})
	}
}

func TestQuoteAndBookingFlow(t *testing.T) {
	e := newEnv(t)

	w, q := e.do(t, http.MethodPost, "/api/transfers/quotes", map[string]any{
		"origin":           "CMB",
		"destination":      "Kandy",
		"vehicle_class_id": "minivan",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	quoteID := q["id"].(string)
	assert.Equal(t, "$127.50", q["pricing"].(map[string]any)["labels"].(map[string]any)["total_price"])

	w, _ = e.do(t, http.MethodGet, "/api/transfers/quotes/"+quoteID, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w, b := e.do(t, http.MethodPost, "/api/bookings", map[string]any{
		"quote_id":      quoteID,
		"transfer_type": "arrival",
		"customer":      map[string]any{"first_name": "Ayesha", "last_name": "Silva", "email": "ayesha@example.com"},
		"adults":        3,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	ref := b["booking_reference"].(string)
	id := b["id"].(string)
	assert.Equal(t, "pending", b["status"])
	assert.Equal(t, 127.5, b["total_price"])

	w, got := e.do(t, http.MethodGet, "/api/bookings/"+ref, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, id, got["id"])

	w, body := e.do(t, http.MethodPost, "/api/bookings/"+id+"/status", map[string]any{"status": "completed"})
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "CONFLICT", body["code"])

	w, _ = e.do(t, http.MethodPost, "/api/bookings/"+id+"/status", map[string]any{"status": "confirmed"})
	assert.Equal(t, http.StatusOK, w.Code)

	w, body = e.do(t, http.MethodPost, "/api/bookings/"+id+"/assign", map[string]any{"driver_id": "drv-7", "driver_name": "Ruwan"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "assigned", body["status"])

	w, body = e.do(t, http.MethodGet, "/api/bookings?email=AYESHA@example.com", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, body["bookings"], 1)

	w, body = e.do(t, http.MethodGet, "/api/bookings?status=pending", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, body["bookings"], 0)

	w, _ = e.do(t, http.MethodGet, "/api/bookings?status=lost", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, body = e.do(t, http.MethodPost, "/api/bookings/"+id+"/payment", map[string]any{"payment_status": "paid"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "paid", body["payment_status"])
	w, _ = e.do(t, http.MethodPost, "/api/bookings/"+id+"/payment", map[string]any{"payment_status": "refunded"})
	require.Equal(t, http.StatusOK, w.Code)

	w, body = e.do(t, http.MethodPost, "/api/bookings/"+id+"/payment", map[string]any{"payment_status": ""})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "BAD_REQUEST", body["code"])
	w, _ = e.do(t, http.MethodPost, "/api/bookings/"+id+"/payment", map[string]any{"payment_status": "paid"})
	assert.Equal(t, http.StatusConflict, w.Code)

	w, got = e.do(t, http.MethodGet, "/api/bookings/"+ref, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "refunded", got["payment_status"])
}

func TestQuoteErrors(t *testing.T) {
	e := newEnv(t)

	w, body := e.do(t, http.MethodPost, "/api/transfers/quotes", map[string]any{"origin": "CMB", "destination": "Atlantis", "vehicle_class_id": "sedan"})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, "NO_ROUTE", body["code"])

	w, body = e.do(t, http.MethodPost, "/api/transfers/quotes", map[string]any{"origin": "CMB", "destination": "Galle", "vehicle_class_id": "rickshaw"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "UNKNOWN_VEHICLE_CLASS", body["code"])

	w, _ = e.do(t, http.MethodGet, "/api/transfers/quotes/nope", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w, _ = e.do(t, http.MethodGet, "/api/bookings/ATNOPE", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestBookingExpiredQuote(t *testing.T) {
	e := newEnv(t)
	_, q := e.do(t, http.MethodPost, "/api/transfers/quotes", map[string]any{"origin": "CMB", "destination": "Galle", "vehicle_class_id": "sedan"})

	e.clock.t = e.clock.t.Add(31 * time.Minute)
	w, body := e.do(t, http.MethodPost, "/api/bookings", map[string]any{
		"quote_id":      q["id"],
		"transfer_type": "departure",
		"customer":      map[string]any{"last_name": "Fernando", "email": "f@example.com"},
		"adults":        1,
	})
	assert.Equal(t, http.StatusGone, w.Code)
	assert.Equal(t, "QUOTE_EXPIRED", body["code"])
}

func TestSearch(t *testing.T) {
	e := newEnv(t)
	// Substring match on name or area: Tangalle and Kegalle contain "galle" too.
	w, body := e.do(t, http.MethodGet, "/api/destinations?q=galle", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var names []string
	for _, d := range body["destinations"].([]any) {
		names = append(names, d.(map[string]any)["name"].(string))
	}
	assert.ElementsMatch(t, []string{"Galle Fort", "Unawatuna Beach", "Tangalle Beach", "Pinnawala Elephant Orphanage"}, names)

	w, body = e.do(t, http.MethodGet, "/api/destinations?q=sigiriya", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, body["destinations"], 1)

	w, body = e.do(t, http.MethodGet, "/api/airports?q=jaffna", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, body["airports"], 1)

	w, body = e.do(t, http.MethodGet, "/api/places?q=ella", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "destinations", body["source"])
}

func TestAssistant(t *testing.T) {
	e := newEnv(t)
	origin, dest := "CMB", "Nuwara Eliya"
	e.parser.intent = &ai.TransferIntent{Intent: ai.IntentQuote, Origin: &origin, Destination: &dest, Passengers: 5, Reply: "Here is your quote."}

	w, body := e.do(t, http.MethodPost, "/api/assistant/quote", map[string]any{"uid": "guest@example.com", "message": "5 of us to Nuwara Eliya from the airport"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "Here is your quote.", body["reply"])
	q := body["quote"].(map[string]any)
	assert.Equal(t, "suv", q["vehicle_class_id"])

	e.parser.intent = &ai.TransferIntent{Intent: ai.IntentClarification, Reply: "Where are you going?"}
	w, body = e.do(t, http.MethodPost, "/api/assistant/quote", map[string]any{"uid": "guest@example.com", "message": "I need a ride"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Nil(t, body["quote"])

	w, _ = e.do(t, http.MethodPost, "/api/assistant/quote", map[string]any{"uid": "", "message": "hi"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAssistantQuota(t *testing.T) {
	e := newEnv(t)
	e.parser.intent = &ai.TransferIntent{Intent: ai.IntentChat, Reply: "Hello!"}
	for i := 0; i < aiusage.DefaultTokens; i++ {
		w, _ := e.do(t, http.MethodPost, "/api/assistant/quote", map[string]any{"uid": "busy@example.com", "message": "hi"})
		require.Equal(t, http.StatusOK, w.Code)
	}
	w, body := e.do(t, http.MethodPost, "/api/assistant/quote", map[string]any{"uid": "busy@example.com", "message": "hi"})
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "QUOTA_EXCEEDED", body["code"])
	assert.Equal(t, aiusage.DefaultTokens, e.parser.calls)
}
