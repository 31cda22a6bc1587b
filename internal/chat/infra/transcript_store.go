package infra

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/boddenberg/sarathi-client-go/internal/chat/domain"
	"github.com/boddenberg/sarathi-client-go/internal/port"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
)

var tracer = otel.Tracer("chat/infra")

// ============================================================
// TranscriptStore: transcript persistence on the local KV store
// ============================================================
//
// The whole transcript is one JSON array under a single key, the same
// layout the mobile app uses:
//
//	[{"id": "1", "type": "agent", "content": "...", "timestamp": "2024-03-01T10:30:00.000Z"}]

// TranscriptStore implements the chat TranscriptRepository over a KVStore.
type TranscriptStore struct {
	kv  port.KVStore
	key string
}

// NewTranscriptStore stores the transcript under domain.TranscriptKey.
func NewTranscriptStore(kv port.KVStore) *TranscriptStore {
	return &TranscriptStore{kv: kv, key: domain.TranscriptKey}
}

// Load returns the saved transcript, or nil when none was saved.
func (s *TranscriptStore) Load(ctx context.Context) ([]domain.Message, error) {
	ctx, span := tracer.Start(ctx, "TranscriptStore.Load")
	defer span.End()

	raw, err := s.kv.Get(ctx, s.key)
	if err != nil {
		return nil, fmt.Errorf("read transcript: %w", err)
	}
	if raw == nil {
		return nil, nil
	}

	var msgs []domain.Message
	if err := json.Unmarshal(raw, &msgs); err != nil {
		return nil, fmt.Errorf("decode transcript: %w", err)
	}
	span.SetAttributes(attribute.Int("chat.messages", len(msgs)))
	return msgs, nil
}

// Save replaces the stored transcript.
func (s *TranscriptStore) Save(ctx context.Context, msgs []domain.Message) error {
	ctx, span := tracer.Start(ctx, "TranscriptStore.Save")
	defer span.End()
	span.SetAttributes(attribute.Int("chat.messages", len(msgs)))

	if msgs == nil {
		msgs = []domain.Message{}
	}
	raw, err := json.Marshal(msgs)
	if err != nil {
		return fmt.Errorf("encode transcript: %w", err)
	}
	if err := s.kv.Set(ctx, s.key, raw); err != nil {
		return fmt.Errorf("write transcript: %w", err)
	}
	return nil
}

// Clear removes the stored transcript.
func (s *TranscriptStore) Clear(ctx context.Context) error {
	ctx, span := tracer.Start(ctx, "TranscriptStore.Clear")
	defer span.End()
	return s.kv.Delete(ctx, s.key)
}
