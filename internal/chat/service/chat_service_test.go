package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/boddenberg/sarathi-client-go/internal/chat/domain"
	"github.com/boddenberg/sarathi-client-go/internal/chat/infra"
	"github.com/boddenberg/sarathi-client-go/internal/chat/service"
	maindomain "github.com/boddenberg/sarathi-client-go/internal/domain"
	"github.com/boddenberg/sarathi-client-go/internal/infra/observability"
	"github.com/boddenberg/sarathi-client-go/internal/infra/storage"

	"go.uber.org/zap"
)

// --- Mocks ---

type mockAgent struct {
	resp    *maindomain.AgentResponse
	err     error
	queries []string
	audio   []maindomain.Attachment
}

func (m *mockAgent) Chat(_ context.Context, query string) (*maindomain.AgentResponse, error) {
	m.queries = append(m.queries, query)
	return m.resp, m.err
}

func (m *mockAgent) VoiceChat(_ context.Context, audio maindomain.Attachment) (*maindomain.AgentResponse, error) {
	m.audio = append(m.audio, audio)
	return m.resp, m.err
}

type mockPlayer struct {
	played []string
	err    error
}

func (m *mockPlayer) Play(_ context.Context, url string) error {
	m.played = append(m.played, url)
	return m.err
}

func (m *mockPlayer) Stop() error  { return nil }
func (m *mockPlayer) Close() error { return nil }

type fixture struct {
	svc    *service.ChatService
	repo   *infra.TranscriptStore
	agent  *mockAgent
	player *mockPlayer
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	kv := storage.NewMemory()
	t.Cleanup(func() { _ = kv.Close() })

	repo := infra.NewTranscriptStore(kv)
	agent := &mockAgent{}
	player := &mockPlayer{}
	resolve := func(u string) string { return "http://api.local" + u }
	svc := service.NewChatService(agent, repo, player, resolve, observability.NewMetrics(), zap.NewNop())
	return &fixture{svc: svc, repo: repo, agent: agent, player: player}
}

func contents(msgs []domain.Message) []string {
	out := make([]string, len(msgs))
	for i, m := range msgs {
		out[i] = string(m.Type) + ":" + m.Content
	}
	return out
}

func equal(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func strptr(s string) *string { return &s }

// --- Tests ---

func TestLoadHistory_WelcomeOnEmpty(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	if err := f.svc.LoadHistory(ctx); err != nil {
		t.Fatal(err)
	}
	msgs := f.svc.Snapshot().Messages
	if len(msgs) != 1 || msgs[0].Type != domain.SenderAgent || msgs[0].Content != domain.WelcomeText {
		t.Fatalf("expected welcome message, got %v", contents(msgs))
	}

	saved, _ := f.repo.Load(ctx)
	if len(saved) != 1 {
		t.Errorf("expected welcome persisted, got %d messages", len(saved))
	}
}

func TestSendText_SuccessPersistsExchange(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_ = f.svc.LoadHistory(ctx)
	f.agent.resp = &maindomain.AgentResponse{Response: "Hinjewadi after 6pm.", QueryType: "earnings"}

	if err := f.svc.SendText(ctx, "  where should I drive?  "); err != nil {
		t.Fatal(err)
	}
	if f.agent.queries[0] != "where should I drive?" {
		t.Errorf("expected trimmed query, got %q", f.agent.queries[0])
	}

	want := []string{"agent:" + domain.WelcomeText, "user:where should I drive?", "agent:Hinjewadi after 6pm."}
	if got := contents(f.svc.Snapshot().Messages); !equal(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}
	saved, _ := f.repo.Load(ctx)
	if got := contents(saved); !equal(got, want) {
		t.Errorf("expected saved %v, got %v", want, got)
	}
	if f.svc.Snapshot().Sending {
		t.Error("expected sending cleared")
	}
}

func TestSendText_FailureAppendsUnsavedApology(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_ = f.svc.LoadHistory(ctx)
	f.agent.err = errors.New("dial tcp: connection refused")

	if err := f.svc.SendText(ctx, "hello"); err == nil {
		t.Fatal("expected error")
	}

	want := []string{"agent:" + domain.WelcomeText, "user:hello", "agent:" + domain.NetworkErrorText}
	if got := contents(f.svc.Snapshot().Messages); !equal(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}

	saved, _ := f.repo.Load(ctx)
	wantSaved := []string{"agent:" + domain.WelcomeText, "user:hello"}
	if got := contents(saved); !equal(got, wantSaved) {
		t.Errorf("expected apology unsaved, got %v", got)
	}
}

func TestSendText_BlankIgnored(t *testing.T) {
	f := newFixture(t)
	if err := f.svc.SendText(context.Background(), "   "); err != nil {
		t.Fatal(err)
	}
	if len(f.agent.queries) != 0 {
		t.Error("expected no agent call for blank input")
	}
}

func TestSendVoice_ReplacesPlaceholderAndPlays(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_ = f.svc.LoadHistory(ctx)
	f.agent.resp = &maindomain.AgentResponse{
		Response:      "Noted 300 for fuel.",
		Transcription: strptr("petrol 300"),
		AudioURL:      strptr("/static/audio/r1.mp3"),
	}

	var sawPending bool
	unsubscribe := f.svc.Subscribe(func() {
		for _, m := range f.svc.Snapshot().Messages {
			if m.Content == domain.VoicePendingText {
				sawPending = true
			}
		}
	})
	defer unsubscribe()

	if err := f.svc.SendVoice(ctx, maindomain.Attachment{Data: []byte("wav")}); err != nil {
		t.Fatal(err)
	}
	if !sawPending {
		t.Error("expected a pending placeholder while sending")
	}

	want := []string{"agent:" + domain.WelcomeText, `user:🎤 "petrol 300"`, "agent:Noted 300 for fuel."}
	if got := contents(f.svc.Snapshot().Messages); !equal(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}
	saved, _ := f.repo.Load(ctx)
	if got := contents(saved); !equal(got, want) {
		t.Errorf("expected saved %v, got %v", want, got)
	}
	if len(f.player.played) != 1 || f.player.played[0] != "http://api.local/static/audio/r1.mp3" {
		t.Errorf("unexpected playback %v", f.player.played)
	}
}

func TestSendVoice_FailureDropsPlaceholder(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_ = f.svc.LoadHistory(ctx)
	f.agent.err = &maindomain.APIError{Status: 500}

	if err := f.svc.SendVoice(ctx, maindomain.Attachment{Data: []byte("wav")}); err == nil {
		t.Fatal("expected error")
	}

	want := []string{"agent:" + domain.WelcomeText, "agent:" + domain.VoiceFailedText}
	if got := contents(f.svc.Snapshot().Messages); !equal(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}
	saved, _ := f.repo.Load(ctx)
	if len(saved) != 1 {
		t.Errorf("expected nothing new saved, got %v", contents(saved))
	}
	if len(f.player.played) != 0 {
		t.Error("expected no playback")
	}
}

func TestSendVoice_PlaybackFailureKeepsTurn(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_ = f.svc.LoadHistory(ctx)
	f.player.err = errors.New("ffplay: not found")
	f.agent.resp = &maindomain.AgentResponse{Response: "ok", AudioURL: strptr("https://cdn/a.mp3")}

	if err := f.svc.SendVoice(ctx, maindomain.Attachment{}); err != nil {
		t.Fatalf("expected playback failure to be ignored, got %v", err)
	}
	msgs := f.svc.Snapshot().Messages
	if msgs[1].Content != `🎤 "Voice Message"` {
		t.Errorf("expected fallback voice text, got %q", msgs[1].Content)
	}
}

func TestClear_StartsOver(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_ = f.svc.LoadHistory(ctx)
	f.agent.resp = &maindomain.AgentResponse{Response: "hi"}
	_ = f.svc.SendText(ctx, "hello")

	if err := f.svc.Clear(ctx); err != nil {
		t.Fatal(err)
	}
	want := []string{"agent:" + domain.WelcomeText}
	if got := contents(f.svc.Snapshot().Messages); !equal(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}
	saved, _ := f.repo.Load(ctx)
	if got := contents(saved); !equal(got, want) {
		t.Errorf("expected saved %v, got %v", want, got)
	}
}

func TestLoadHistory_KeepsSavedTranscript(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_ = f.repo.Save(ctx, []domain.Message{{ID: "a", Type: domain.SenderUser, Content: "earlier"}})

	if err := f.svc.LoadHistory(ctx); err != nil {
		t.Fatal(err)
	}
	if got := contents(f.svc.Snapshot().Messages); !equal(got, []string{"user:earlier"}) {
		t.Errorf("unexpected transcript %v", got)
	}
	if got := f.svc.ResolveAudioURL("/x.mp3"); got != "http://api.local/x.mp3" {
		t.Errorf("unexpected resolved url %q", got)
	}
}
