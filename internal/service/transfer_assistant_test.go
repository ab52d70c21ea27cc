package service

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"recharge/internal/ai"
	"recharge/internal/maps"
	"recharge/internal/modules/aiusage"
	"recharge/internal/modules/pricing"
	"recharge/internal/modules/quote"
)

type stubParser struct {
	intent *ai.TransferIntent
	err    error
	got    ai.PromptContext
}

func (s *stubParser) ParseTransferRequest(_ context.Context, _ string, pc ai.PromptContext) (*ai.TransferIntent, error) {
	s.got = pc
	return s.intent, s.err
}

// 2026-05-04 08:30 in Colombo.
var now = time.Date(2026, 5, 4, 3, 0, 0, 0, time.UTC)

func newAssistant(t *testing.T, parser ai.IntentParser) *TransferAssistant {
	t.Helper()
	log := zerolog.New(io.Discard)
	colombo, err := time.LoadLocation("Asia/Colombo")
	require.NoError(t, err)
	clock := func() time.Time { return now }
	p := pricing.NewService(pricing.DefaultRegistry())
	quotes := quote.NewService(quote.NewMemoryRepository(), maps.NewRouteTable(), p, quote.Options{Location: colombo, Now: clock, Logger: log})
	usage := aiusage.NewService(aiusage.NewMemoryStore(clock))
	return NewTransferAssistant(parser, usage, quotes, p.Registry(), colombo, log)
}

func strp(s string) *string { return &s }

func TestAssistantQuotes(t *testing.T) {
	parser := &stubParser{intent: &ai.TransferIntent{
		Intent:      ai.IntentQuote,
		Origin:      strp("Bandaranaike International Airport"),
		Destination: strp("Galle"),
		PickupAt:    strp("2026-05-04T23:00:00+05:30"),
		Passengers:  2,
		Reply:       "Here you go",
	}}
	a := newAssistant(t, parser)

	res, err := a.Quote(context.Background(), AssistantRequest{UID: "u@example.com", Message: "airport to galle at 11pm"})
	require.NoError(t, err)
	require.NotNil(t, res.Quote)
	assert.Equal(t, "sedan", res.Quote.VehicleClassID)
	assert.Equal(t, 150.0, res.Quote.Route.DistanceKm)
	// 100 subtotal, 20% night.
	assert.InDelta(t, 120.0, res.Quote.Breakdown.TotalPrice, 1e-9)

	assert.Equal(t, "2026-05-04T08:30:00+05:30", parser.got.Now.Format(time.RFC3339))
	assert.Len(t, parser.got.VehicleClasses, 5)
}

func TestAssistantPastPickupAsksAboutTomorrow(t *testing.T) {
	parser := &stubParser{intent: &ai.TransferIntent{
		Intent:      ai.IntentQuote,
		Origin:      strp("CMB"),
		Destination: strp("Kandy"),
		PickupAt:    strp("2026-05-04T06:00:00+05:30"),
	}}
	res, err := newAssistant(t, parser).Quote(context.Background(), AssistantRequest{UID: "u", Message: "6am to kandy"})
	require.NoError(t, err)
	assert.Nil(t, res.Quote)
	assert.Equal(t, ai.IntentClarification, res.Intent.Intent)
	assert.Contains(t, res.Reply, "tomorrow (May 5) at 06:00")
}

func TestAssistantClarification(t *testing.T) {
	parser := &stubParser{intent: &ai.TransferIntent{Intent: ai.IntentClarification, Destination: strp("Ella"), Reply: "Where from?"}}
	res, err := newAssistant(t, parser).Quote(context.Background(), AssistantRequest{UID: "u", Message: "to ella"})
	require.NoError(t, err)
	assert.Nil(t, res.Quote)
	assert.Equal(t, "Where from?", res.Reply)
}

func TestAssistantErrors(t *testing.T) {
	_, err := newAssistant(t, nil).Quote(context.Background(), AssistantRequest{UID: "u", Message: "hi"})
	assert.True(t, errors.Is(err, ErrAssistantDisabled))

	parser := &stubParser{intent: &ai.TransferIntent{Intent: ai.IntentQuote, Origin: strp("CMB"), Destination: strp("Atlantis")}}
	_, err = newAssistant(t, parser).Quote(context.Background(), AssistantRequest{UID: "u", Message: "to atlantis"})
	assert.True(t, errors.Is(err, maps.ErrNoRouteFound), "got %v", err)

	parser = &stubParser{err: errors.Wrap(ai.ErrBadModelReply, "garbage")}
	_, err = newAssistant(t, parser).Quote(context.Background(), AssistantRequest{UID: "u", Message: "??"})
	assert.True(t, errors.Is(err, ai.ErrBadModelReply))
}
