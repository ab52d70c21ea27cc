// README: AI booking assistant handler (token-guarded Gemini intent parsing).
package handlers

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"recharge/internal/ai"
	"recharge/internal/service"
)

type AIHandler struct {
	assistant *service.TransferAssistant
}

func NewAIHandler(assistant *service.TransferAssistant) *AIHandler {
	return &AIHandler{assistant: assistant}
}

type assistantReq struct {
	// UID identifies the customer for the monthly quota, usually their email.
	UID     string   `json:"uid"`
	Message string   `json:"message"`
	History []string `json:"history"`
}

type assistantResp struct {
	Reply  string             `json:"reply"`
	Intent *ai.TransferIntent `json:"intent"`
	Quote  *quoteResp         `json:"quote,omitempty"`
}

// Quote handles POST /api/assistant/quote.
func (h *AIHandler) Quote(c *gin.Context) {
	var req assistantReq
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid json")
		return
	}
	req.UID = strings.TrimSpace(req.UID)
	req.Message = strings.TrimSpace(req.Message)
	if req.UID == "" || req.Message == "" {
		badRequest(c, "missing uid or message")
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 15*time.Second)
	defer cancel()

	res, err := h.assistant.Quote(ctx, service.AssistantRequest{UID: req.UID, Message: req.Message, History: req.History})
	if err != nil {
		writeServiceError(c, err)
		return
	}

	resp := assistantResp{Reply: res.Reply, Intent: res.Intent}
	if res.Quote != nil {
		qr := quoteResp{Quote: res.Quote, Pricing: newEstimateResp(res.Quote.Breakdown)}
		resp.Quote = &qr
	}
	writeJSON(c, http.StatusOK, resp)
}
