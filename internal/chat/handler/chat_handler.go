// Package handler exposes the conversation over the diagnostics server:
// POST /v1/chat sends one typed turn and answers with the agent's reply.
// It drives the same ChatService as the terminal, so the turn lands in the
// saved transcript.
package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/boddenberg/sarathi-client-go/internal/chat/domain"
	"github.com/boddenberg/sarathi-client-go/internal/chat/service"
	maindomain "github.com/boddenberg/sarathi-client-go/internal/domain"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

var tracer = otel.Tracer("chat/handler")

// Conversation is the part of the ChatService the handler needs.
type Conversation interface {
	SendText(ctx context.Context, text string) error
	Snapshot() service.State
}

// ChatRequest is the POST /v1/chat body.
type ChatRequest struct {
	Query string `json:"query"`
}

// ChatResponse carries the newest agent message.
type ChatResponse struct {
	Answer string `json:"answer"`
}

// ============================================================
// ChatHandler: POST /v1/chat
// ============================================================

// ChatHandler returns the handler for POST /v1/chat.
//
// Request:
//
//	{"query": "How much did I earn this week?"}
//
// Response (200 OK):
//
//	{"answer": "You earned ₹4,200 across 14 trips..."}
func ChatHandler(conv Conversation, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /v1/chat")
		defer span.End()

		var req ChatRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body: expected {\"query\": \"your message\"}")
			return
		}
		if req.Query == "" {
			writeError(w, http.StatusBadRequest, "query is required")
			return
		}
		span.SetAttributes(attribute.Int("chat.query_len", len(req.Query)))

		if err := conv.SendText(ctx, req.Query); err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, ChatResponse{Answer: lastAgentMessage(conv.Snapshot().Messages)})
	}
}

func lastAgentMessage(msgs []domain.Message) string {
	for i := len(msgs) - 1; i >= 0; i-- {
		if msgs[i].Type == domain.SenderAgent {
			return msgs[i].Content
		}
	}
	return ""
}

// ============================================================
// Helpers
// ============================================================

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// handleServiceError maps domain errors to HTTP status codes.
func handleServiceError(w http.ResponseWriter, err error, logger *zap.Logger) {
	var (
		ext    *maindomain.ErrExternalService
		unauth *maindomain.ErrUnauthorized
		apiErr *maindomain.APIError
	)
	switch {
	case errors.As(err, &unauth):
		writeError(w, http.StatusUnauthorized, "not signed in")
	case errors.As(err, new(*maindomain.ErrCircuitOpen)):
		writeError(w, http.StatusServiceUnavailable, "backend unavailable")
	case errors.As(err, &ext):
		logger.Error("chat: external service error", zap.String("service", ext.Service), zap.Error(ext.Err))
		writeError(w, http.StatusBadGateway, "external service unavailable: "+ext.Service)
	case errors.As(err, &apiErr):
		writeError(w, http.StatusBadGateway, apiErr.DetailMessage())
	default:
		logger.Error("chat: unexpected error", zap.Error(err))
		writeError(w, http.StatusInternalServerError, domain.NetworkErrorText)
	}
}
