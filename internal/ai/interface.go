package ai

import (
	"context"
	"time"
)

// PromptContext carries request-time facts the model cannot know.
type PromptContext struct {
	Now            time.Time
	VehicleClasses []string
	// History holds earlier user turns, oldest first, so follow-ups keep their context.
	History []string
}

// IntentParser turns a free-text transfer request into a structured intent.
type IntentParser interface {
	ParseTransferRequest(ctx context.Context, message string, pc PromptContext) (*TransferIntent, error)
}
