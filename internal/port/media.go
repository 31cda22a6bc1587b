package port

import (
	"context"

	"github.com/boddenberg/sarathi-client-go/internal/domain"
)

// Recorder captures one audio clip at a time.
type Recorder interface {
	Start(ctx context.Context) error
	Stop(ctx context.Context) (domain.Attachment, error)
	Recording() bool
	Close() error
}

// Player plays one sound at a time; starting a new one releases the previous.
type Player interface {
	Play(ctx context.Context, url string) error
	Stop() error
	Close() error
}
