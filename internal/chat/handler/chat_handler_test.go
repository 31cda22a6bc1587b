package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/boddenberg/sarathi-client-go/internal/chat/domain"
	"github.com/boddenberg/sarathi-client-go/internal/chat/service"
	maindomain "github.com/boddenberg/sarathi-client-go/internal/domain"

	"go.uber.org/zap"
)

type fakeConversation struct {
	sent  []string
	reply string
	err   error
}

func (f *fakeConversation) SendText(_ context.Context, text string) error {
	f.sent = append(f.sent, text)
	return f.err
}

func (f *fakeConversation) Snapshot() service.State {
	return service.State{Messages: []domain.Message{
		{ID: "1", Type: domain.SenderAgent, Content: domain.WelcomeText},
		{ID: "2", Type: domain.SenderUser, Content: "hi"},
		{ID: "3", Type: domain.SenderAgent, Content: f.reply},
	}}
}

func post(h http.Handler, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/v1/chat", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestChatHandler_ReturnsLatestReply(t *testing.T) {
	conv := &fakeConversation{reply: "You earned ₹4200 this week."}
	rec := post(ChatHandler(conv, zap.NewNop()), `{"query":"How much did I earn?"}`)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var resp ChatResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatal(err)
	}
	if resp.Answer != "You earned ₹4200 this week." {
		t.Errorf("unexpected answer %q", resp.Answer)
	}
	if len(conv.sent) != 1 || conv.sent[0] != "How much did I earn?" {
		t.Errorf("unexpected turns sent: %v", conv.sent)
	}
}

func TestChatHandler_BadRequests(t *testing.T) {
	conv := &fakeConversation{}
	h := ChatHandler(conv, zap.NewNop())

	for _, body := range []string{`not json`, `{"query":""}`} {
		if rec := post(h, body); rec.Code != http.StatusBadRequest {
			t.Errorf("body %q: expected 400, got %d", body, rec.Code)
		}
	}
	if len(conv.sent) != 0 {
		t.Errorf("expected nothing sent, got %v", conv.sent)
	}
}

func TestChatHandler_ErrorMapping(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{"unauthorized", &maindomain.ErrUnauthorized{}, http.StatusUnauthorized},
		{"breaker", &maindomain.ErrCircuitOpen{Service: "sarathi-api"}, http.StatusServiceUnavailable},
		{"network", &maindomain.ErrExternalService{Service: "sarathi-api", Err: errors.New("refused")}, http.StatusBadGateway},
		{"api", &maindomain.APIError{Status: 500, Detail: "agent down"}, http.StatusBadGateway},
		{"other", errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := post(ChatHandler(&fakeConversation{err: tc.err}, zap.NewNop()), `{"query":"hi"}`)
			if rec.Code != tc.want {
				t.Errorf("expected %d, got %d", tc.want, rec.Code)
			}
		})
	}
}
