package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

const DefaultModel = "gemini-2.0-flash"

// GeminiProvider implements IntentParser using Google's Gemini models.
type GeminiProvider struct {
	client *genai.Client
	model  *genai.GenerativeModel
}

// NewGeminiProvider initializes a new Gemini client.
func NewGeminiProvider(ctx context.Context, apiKey, modelName string) (*GeminiProvider, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, errors.New("gemini: missing api key")
	}
	if modelName == "" {
		modelName = DefaultModel
	}
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, errors.Wrap(err, "create gemini client")
	}

	model := client.GenerativeModel(modelName)
	// Force JSON response for structured parsing.
	model.ResponseMIMEType = "application/json"
	model.SetTemperature(0.2)

	return &GeminiProvider{client: client, model: model}, nil
}

func (p *GeminiProvider) Close() {
	p.client.Close()
}

func (p *GeminiProvider) ParseTransferRequest(ctx context.Context, message string, pc PromptContext) (*TransferIntent, error) {
	if strings.TrimSpace(message) == "" {
		return nil, ErrEmptyMessage
	}
	prompt := fmt.Sprintf("%s\n\nCustomer Message: %s", buildSystemPrompt(pc), message)

	resp, err := p.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return nil, errors.Wrap(err, "gemini generate content")
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return nil, errors.Wrap(ErrBadModelReply, "no response candidates")
	}

	var text strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			text.WriteString(string(txt))
		}
	}
	return parseIntent(text.String())
}

func parseIntent(raw string) (*TransferIntent, error) {
	clean := cleanJSONString(raw)
	var intent TransferIntent
	if err := json.Unmarshal([]byte(clean), &intent); err != nil {
		return nil, errors.Wrapf(ErrBadModelReply, "%v. Raw: %s", err, clean)
	}
	switch intent.Intent {
	case IntentQuote, IntentClarification, IntentChat:
	default:
		return nil, errors.Wrapf(ErrBadModelReply, "unknown intent %q", intent.Intent)
	}
	if intent.Passengers < 1 {
		intent.Passengers = 1
	}
	return &intent, nil
}

func buildSystemPrompt(pc PromptContext) string {
	now := "UNKNOWN_TIME"
	if !pc.Now.IsZero() {
		now = pc.Now.Format(time.RFC3339) + " (" + pc.Now.Weekday().String() + ")"
	}
	classes := "sedan, suv, minivan, minicoach, luxury"
	if len(pc.VehicleClasses) > 0 {
		classes = strings.Join(pc.VehicleClasses, ", ")
	}
	history := "NONE"
	if len(pc.History) > 0 {
		history = "- " + strings.Join(pc.History, "\n- ")
	}

	return fmt.Sprintf(`Role: You are the booking assistant for Recharge Travels airport transfers in Sri Lanka.
Context:
- Current Time (Asia/Colombo): %s
- Vehicle classes: %s
- Main airport: Bandaranaike International Airport (CMB), Katunayake.
- Earlier messages from this customer:
%s

RULES:
1. Set "intent": "quote" only when BOTH origin and destination are clear.
   "the airport" means CMB unless another airport is named.
2. Otherwise set "intent": "clarification" and ask for what is missing in "reply".
3. Small talk without a transfer request is "intent": "chat".
4. "pickup_at": resolve relative times ("tomorrow 6am", "tonight") against Current Time.
   Output RFC3339 with the +05:30 offset, or null if no time was given.
   If the time has already passed today, use tomorrow.
5. "vehicle_class_id": only when the customer names or clearly describes one of the
   vehicle classes above; otherwise empty.
6. "passengers": count adults and children from ALL messages. Default 1.
7. Keep "reply" short, friendly and in the customer's language. Never include prices.

Output JSON Schema:
{
  "intent": "quote" | "clarification" | "chat",
  "origin": "string or null",
  "destination": "string or null",
  "vehicle_class_id": "string",
  "pickup_at": "YYYY-MM-DDTHH:mm:ss+05:30" | null,
  "passengers": integer,
  "luggage": integer,
  "reply": "string"
}
`, now, classes, history)
}

// cleanJSONString removes markdown code blocks if present (e.g. ```json ... ```)
func cleanJSONString(input string) string {
	input = strings.TrimSpace(input)
	input = strings.TrimPrefix(input, "```json")
	input = strings.TrimPrefix(input, "```")
	input = strings.TrimSuffix(input, "```")
	return strings.TrimSpace(input)
}
