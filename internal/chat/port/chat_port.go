// Package port defines what the chat service needs from the outside: the
// agent endpoints, transcript persistence and audio playback.
package port

import (
	"context"

	chatdomain "github.com/boddenberg/sarathi-client-go/internal/chat/domain"
	"github.com/boddenberg/sarathi-client-go/internal/domain"
)

// AgentCaller sends a turn to the conversational agent.
type AgentCaller interface {
	Chat(ctx context.Context, query string) (*domain.AgentResponse, error)
	VoiceChat(ctx context.Context, audio domain.Attachment) (*domain.AgentResponse, error)
}

// TranscriptRepository persists the transcript as a whole.
// Load returns nil when nothing has been saved yet.
type TranscriptRepository interface {
	Load(ctx context.Context) ([]chatdomain.Message, error)
	Save(ctx context.Context, msgs []chatdomain.Message) error
	Clear(ctx context.Context) error
}
