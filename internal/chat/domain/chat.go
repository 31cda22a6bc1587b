// Package domain defines the chat transcript types.
//
// A transcript is an ordered list of messages kept on the device. It is
// written wholesale after every successful exchange and on clear; failed
// exchanges only change the in-memory copy.
package domain

import (
	"fmt"
	"time"
)

// TranscriptKey is the KV key the transcript is stored under.
const TranscriptKey = "SARATHI_CHAT_V3"

// ============================================================
// Messages
// ============================================================

// Sender is who produced a message.
type Sender string

const (
	SenderUser  Sender = "user"
	SenderAgent Sender = "agent"
)

// Message is one turn of the conversation. IDs are opaque strings so
// transcripts written by the mobile app load unchanged.
type Message struct {
	ID        string    `json:"id"`
	Type      Sender    `json:"type"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// Fixed texts shown in the transcript.
const (
	WelcomeText      = "Hello! I'm Sarathi AI. Type or speak to get started."
	NetworkErrorText = "Network error. Please try again."
	VoiceFailedText  = "Sorry, voice processing failed."
	VoicePendingText = "🎤 Sending Voice..."
	voiceFallback    = "Voice Message"
)

// VoiceContent is the user-side text for a voice turn.
func VoiceContent(transcription *string) string {
	text := voiceFallback
	if transcription != nil && *transcription != "" {
		text = *transcription
	}
	return fmt.Sprintf("🎤 \"%s\"", text)
}
