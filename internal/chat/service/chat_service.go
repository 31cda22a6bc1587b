// Package service implements the chat container: the in-memory transcript,
// the text and voice exchanges with the agent and transcript persistence.
//
// ============================================================
// Exchange rules
// ============================================================
//
// Text turn:
//  1. the user message is appended and the transcript saved
//  2. POST /agent/chat
//  3. success: the agent reply is appended and the transcript saved
//  4. failure: a local apology is appended and NOT saved
//
// Voice turn:
//  1. a pending placeholder is appended (never saved)
//  2. POST /agent/voice-chat
//  3. success: the placeholder becomes the transcribed user turn, the reply
//     is appended, the transcript saved and the audio reply played
//  4. failure: the placeholder is dropped and an unsaved apology appended
package service

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/boddenberg/sarathi-client-go/internal/chat/domain"
	"github.com/boddenberg/sarathi-client-go/internal/chat/port"
	maindomain "github.com/boddenberg/sarathi-client-go/internal/domain"
	"github.com/boddenberg/sarathi-client-go/internal/infra/observability"
	mainport "github.com/boddenberg/sarathi-client-go/internal/port"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

var chatTracer = otel.Tracer("chat/service")

// State is a point-in-time view of the conversation.
type State struct {
	Messages []domain.Message `json:"messages"`
	// Sending is true while an exchange with the agent is in flight.
	Sending bool `json:"sending"`
}

// URLResolver turns a backend-relative audio URL into an absolute one.
type URLResolver func(string) string

// ChatService is the conversational container.
type ChatService struct {
	agent   port.AgentCaller
	repo    port.TranscriptRepository
	player  mainport.Player
	resolve URLResolver
	metrics *observability.Metrics
	logger  *zap.Logger

	now   func() time.Time
	newID func() string

	// exchange serializes turns so replies land after their own prompt.
	exchange sync.Mutex

	mu       sync.Mutex
	messages []domain.Message
	sending  bool

	subMu  sync.Mutex
	subs   map[uint64]func()
	nextID uint64
}

// NewChatService wires the container. player may be nil, in which case
// audio replies are ignored.
func NewChatService(
	agent port.AgentCaller,
	repo port.TranscriptRepository,
	player mainport.Player,
	resolve URLResolver,
	metrics *observability.Metrics,
	logger *zap.Logger,
) *ChatService {
	if resolve == nil {
		resolve = func(u string) string { return u }
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ChatService{
		agent:   agent,
		repo:    repo,
		player:  player,
		resolve: resolve,
		metrics: metrics,
		logger:  logger,
		now:     func() time.Time { return time.Now().UTC() },
		newID:   uuid.NewString,
		subs:    make(map[uint64]func()),
	}
}

// Snapshot returns the current conversation. The slice is never mutated
// after it is returned.
func (s *ChatService) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return State{Messages: s.messages, Sending: s.sending}
}

// Subscribe registers fn for state changes and returns a function that
// removes it.
func (s *ChatService) Subscribe(fn func()) func() {
	s.subMu.Lock()
	id := s.nextID
	s.nextID++
	s.subs[id] = fn
	s.subMu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.subMu.Lock()
			delete(s.subs, id)
			s.subMu.Unlock()
		})
	}
}

// ResolveAudioURL makes an agent audio URL absolute.
func (s *ChatService) ResolveAudioURL(u string) string {
	return s.resolve(u)
}

// ============================================================
// History
// ============================================================

// LoadHistory reads the saved transcript. An empty or unreadable
// transcript is replaced by the welcome message, which is saved.
func (s *ChatService) LoadHistory(ctx context.Context) error {
	ctx, span := chatTracer.Start(ctx, "ChatService.LoadHistory")
	defer span.End()

	msgs, err := s.repo.Load(ctx)
	if err != nil {
		s.logger.Warn("chat: stored transcript unreadable, starting over", zap.Error(err))
	}
	if len(msgs) > 0 {
		span.SetAttributes(attribute.Int("chat.messages", len(msgs)))
		s.replace(msgs)
		return nil
	}

	welcome := []domain.Message{{
		ID:        "1",
		Type:      domain.SenderAgent,
		Content:   domain.WelcomeText,
		Timestamp: s.now(),
	}}
	s.replace(welcome)
	return s.save(ctx, welcome)
}

// Clear deletes the saved transcript and starts over with the welcome
// message.
func (s *ChatService) Clear(ctx context.Context) error {
	s.exchange.Lock()
	defer s.exchange.Unlock()

	if err := s.repo.Clear(ctx); err != nil {
		s.metrics.RecordStoreAction("chat", "clear", err)
		return err
	}
	s.replace(nil)
	err := s.LoadHistory(ctx)
	s.metrics.RecordStoreAction("chat", "clear", err)
	return err
}

// ============================================================
// Exchanges
// ============================================================

// SendText sends one typed turn. Blank input is ignored. The returned
// error is the agent failure, after the apology has been appended.
func (s *ChatService) SendText(ctx context.Context, text string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}

	s.exchange.Lock()
	defer s.exchange.Unlock()

	ctx, span := chatTracer.Start(ctx, "ChatService.SendText")
	defer span.End()

	history := s.push(s.message(domain.SenderUser, text))
	if err := s.save(ctx, history); err != nil {
		s.logger.Warn("chat: failed to save user turn", zap.Error(err))
	}

	s.setSending(true)
	resp, err := s.agent.Chat(ctx, text)
	s.setSending(false)
	if err != nil {
		s.logger.Error("chat: agent call failed", zap.Error(err))
		s.push(s.message(domain.SenderAgent, domain.NetworkErrorText))
		s.metrics.RecordStoreAction("chat", "send_text", err)
		span.RecordError(err)
		return err
	}

	span.SetAttributes(attribute.String("agent.query_type", resp.QueryType))
	history = s.push(s.message(domain.SenderAgent, resp.Response))
	err = s.save(ctx, history)
	s.metrics.RecordStoreAction("chat", "send_text", err)
	return err
}

// SendVoice sends one recorded turn and plays the spoken reply, if any.
func (s *ChatService) SendVoice(ctx context.Context, audio maindomain.Attachment) error {
	s.exchange.Lock()
	defer s.exchange.Unlock()

	ctx, span := chatTracer.Start(ctx, "ChatService.SendVoice")
	defer span.End()
	span.SetAttributes(attribute.Int("audio.bytes", len(audio.Data)))

	pending := s.message(domain.SenderUser, domain.VoicePendingText)
	s.push(pending)

	s.setSending(true)
	resp, err := s.agent.VoiceChat(ctx, audio)
	s.setSending(false)
	if err != nil {
		s.logger.Error("chat: voice exchange failed", zap.Error(err))
		s.dropAndAppend(pending.ID, s.message(domain.SenderAgent, domain.VoiceFailedText))
		s.metrics.RecordStoreAction("chat", "send_voice", err)
		span.RecordError(err)
		return err
	}

	user := domain.Message{
		ID:        pending.ID,
		Type:      domain.SenderUser,
		Content:   domain.VoiceContent(resp.Transcription),
		Timestamp: s.now(),
	}
	history := s.dropAndAppend(pending.ID, user, s.message(domain.SenderAgent, resp.Response))
	err = s.save(ctx, history)
	s.metrics.RecordStoreAction("chat", "send_voice", err)

	if resp.AudioURL != nil && *resp.AudioURL != "" {
		s.play(ctx, *resp.AudioURL)
	}
	return err
}

// play starts the spoken reply. Playback problems never fail the turn.
func (s *ChatService) play(ctx context.Context, audioURL string) {
	if s.player == nil {
		return
	}
	u := s.resolve(audioURL)
	if err := s.player.Play(ctx, u); err != nil {
		s.logger.Warn("chat: audio reply playback failed", zap.String("url", u), zap.Error(err))
	}
}

// ============================================================
// Internals
// ============================================================

func (s *ChatService) message(sender domain.Sender, content string) domain.Message {
	return domain.Message{
		ID:        s.newID(),
		Type:      sender,
		Content:   content,
		Timestamp: s.now(),
	}
}

func (s *ChatService) save(ctx context.Context, msgs []domain.Message) error {
	return s.repo.Save(ctx, msgs)
}

func (s *ChatService) replace(msgs []domain.Message) {
	s.mu.Lock()
	s.messages = msgs
	s.mu.Unlock()
	s.notify()
}

// push adds msgs and returns the new transcript.
func (s *ChatService) push(msgs ...domain.Message) []domain.Message {
	s.mu.Lock()
	next := make([]domain.Message, 0, len(s.messages)+len(msgs))
	next = append(next, s.messages...)
	next = append(next, msgs...)
	s.messages = next
	s.mu.Unlock()
	s.notify()
	return next
}

// dropAndAppend removes the message with id and appends msgs.
func (s *ChatService) dropAndAppend(id string, msgs ...domain.Message) []domain.Message {
	s.mu.Lock()
	next := make([]domain.Message, 0, len(s.messages)+len(msgs))
	for _, m := range s.messages {
		if m.ID != id {
			next = append(next, m)
		}
	}
	next = append(next, msgs...)
	s.messages = next
	s.mu.Unlock()
	s.notify()
	return next
}

func (s *ChatService) setSending(v bool) {
	s.mu.Lock()
	s.sending = v
	s.mu.Unlock()
	s.notify()
}

func (s *ChatService) notify() {
	s.subMu.Lock()
	fns := make([]func(), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.subMu.Unlock()

	for _, fn := range fns {
		fn()
	}
}
