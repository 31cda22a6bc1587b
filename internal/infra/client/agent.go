package client

import (
	"context"
	"net/http"

	"github.com/boddenberg/sarathi-client-go/internal/domain"
)

// AgentClient calls the conversational agent.
type AgentClient struct {
	t *Transport
}

// NewAgentClient creates a new AgentClient.
func NewAgentClient(t *Transport) *AgentClient {
	return &AgentClient{t: t}
}

// Chat sends a text query.
func (c *AgentClient) Chat(ctx context.Context, query string) (*domain.AgentResponse, error) {
	var resp domain.AgentResponse
	err := c.t.Do(ctx, Request{
		Operation: "AgentClient.Chat",
		Method:    http.MethodPost,
		Path:      "/agent/chat",
		Body:      &domain.AgentRequest{Query: query},
	}, &resp)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// VoiceChat sends a recorded question. The reply carries the transcription
// and, when synthesis succeeded, a URL to the spoken answer.
func (c *AgentClient) VoiceChat(ctx context.Context, audio domain.Attachment) (*domain.AgentResponse, error) {
	if audio.FileName == "" {
		audio.FileName = "voice_message.m4a"
	}
	if audio.ContentType == "" {
		audio.ContentType = "audio/m4a"
	}

	var resp domain.AgentResponse
	err := c.t.Do(ctx, Request{
		Operation: "AgentClient.VoiceChat",
		Method:    http.MethodPost,
		Path:      "/agent/voice-chat",
		Multipart: &Multipart{Files: []FilePart{{Field: FieldVoiceChat, Attachment: audio}}},
	}, &resp)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}
