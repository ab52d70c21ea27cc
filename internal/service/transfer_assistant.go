// Package service holds flows that span several modules.
package service

import (
	"context"
	"fmt"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/rs/zerolog"

	"recharge/internal/ai"
	"recharge/internal/modules/aiusage"
	"recharge/internal/modules/pricing"
	"recharge/internal/modules/quote"
)

// ErrAssistantDisabled is returned when no intent parser is configured.
var ErrAssistantDisabled = errors.New("assistant is not configured")

// pastPickupWindow is how far in the past a pickup may be before it is taken
// as a mistake for the same time tomorrow.
const pastPickupWindow = 12 * time.Hour

// TransferAssistant turns a chat message into a quote: quota, intent, route and price.
type TransferAssistant struct {
	parser ai.IntentParser
	usage  *aiusage.Service
	quotes *quote.Service
	reg    pricing.Registry
	loc    *time.Location
	log    zerolog.Logger
}

func NewTransferAssistant(parser ai.IntentParser, usage *aiusage.Service, quotes *quote.Service, reg pricing.Registry, loc *time.Location, log zerolog.Logger) *TransferAssistant {
	if loc == nil {
		loc = time.UTC
	}
	return &TransferAssistant{parser: parser, usage: usage, quotes: quotes, reg: reg, loc: loc, log: log}
}

type AssistantRequest struct {
	UID     string
	Message string
	History []string
}

type AssistantResult struct {
	Reply  string
	Intent *ai.TransferIntent
	Quote  *quote.Quote // nil unless the intent was complete
}

func (a *TransferAssistant) Quote(ctx context.Context, req AssistantRequest) (*AssistantResult, error) {
	if a.parser == nil {
		return nil, ErrAssistantDisabled
	}
	if err := a.usage.UseToken(ctx, req.UID); err != nil {
		return nil, err
	}

	now := a.quotes.Now().In(a.loc)
	classes := make([]string, 0)
	for _, vc := range a.reg.All() {
		classes = append(classes, vc.ID)
	}
	intent, err := a.parser.ParseTransferRequest(ctx, req.Message, ai.PromptContext{
		Now:            now,
		VehicleClasses: classes,
		History:        req.History,
	})
	if err != nil {
		return nil, err
	}

	res := &AssistantResult{Reply: intent.Reply, Intent: intent}
	if !intent.Ready() {
		return res, nil
	}

	pickupAt, err := intent.PickupTime()
	if err != nil {
		return nil, err
	}
	if pickupAt != nil && pickupAt.Before(now) {
		if now.Sub(*pickupAt) < pastPickupWindow {
			tomorrow := pickupAt.Add(24 * time.Hour).In(a.loc)
			intent.Intent = ai.IntentClarification
			res.Reply = fmt.Sprintf("That time has already passed. Did you mean tomorrow (%s) at %s?",
				tomorrow.Format("Jan 2"), tomorrow.Format("15:04"))
			return res, nil
		}
		pickupAt = nil
	}

	q, err := a.quotes.Create(ctx, quote.CreateCommand{
		Origin:         *intent.Origin,
		Destination:    *intent.Destination,
		VehicleClassID: intent.Vehicle(),
		PickupAt:       pickupAt,
	})
	if err != nil {
		return nil, err
	}
	a.log.Info().Str("quote_id", string(q.ID)).Int("passengers", intent.Passengers).Msg("assistant quote")
	res.Quote = q
	return res, nil
}
