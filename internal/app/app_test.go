package app

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/boddenberg/sarathi-client-go/internal/config"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func newTestApp(t *testing.T, backend http.Handler) *App {
	t.Helper()
	srv := httptest.NewServer(backend)
	t.Cleanup(srv.Close)

	cfg := config.Default()
	cfg.APIURL = srv.URL
	cfg.StorageBackend = "memory"
	cfg.RecordCommand = ""
	cfg.PlayCommand = ""
	cfg.DiagToken = "diag-secret"

	a, err := New(context.Background(), cfg, zap.NewNop())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	t.Cleanup(func() { _ = a.Close(context.Background()) })
	return a
}

func TestNew_WithoutAudioTools(t *testing.T) {
	a := newTestApp(t, chi.NewRouter())

	if a.Recorder != nil || a.Player != nil {
		t.Error("expected audio disabled with empty commands")
	}
	if err := a.Chat.LoadHistory(context.Background()); err != nil {
		t.Fatal(err)
	}
	if n := len(a.Chat.Snapshot().Messages); n != 1 {
		t.Errorf("expected welcome message, got %d messages", n)
	}
}

func TestNew_UnauthorizedSignsOut(t *testing.T) {
	r := chi.NewRouter()
	r.Post("/auth/login", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token":"tok","token_type":"bearer"}`))
	})
	r.Get("/auth/me", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":1,"phone_number":"9800000000","name":"Ravi"}`))
	})
	r.Get("/alerts", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"detail":"Could not validate credentials"}`))
	})
	a := newTestApp(t, r)
	ctx := context.Background()

	if err := a.Auth.Login(ctx, "9800000000", "pw"); err != nil {
		t.Fatalf("login: %v", err)
	}
	if !a.Auth.Snapshot().Authenticated {
		t.Fatal("expected authenticated after login")
	}

	a.Alerts.FetchAlerts(ctx)

	if a.Auth.Snapshot().Authenticated {
		t.Error("expected 401 to sign the user out")
	}
	if tok, _ := a.Session.Token(ctx); tok != "" {
		t.Errorf("expected token cleared, got %q", tok)
	}
}

func TestDiagHandler(t *testing.T) {
	a := newTestApp(t, chi.NewRouter())
	h := a.DiagHandler()

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if rec.Code != http.StatusOK {
		t.Errorf("healthz: expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/state", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("state without token: expected 401, got %d", rec.Code)
	}

	req := httptest.NewRequest(http.MethodGet, "/v1/state", nil)
	req.Header.Set("Authorization", "Bearer diag-secret")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("state: expected 200, got %d", rec.Code)
	}

	var body map[string]json.RawMessage
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	for _, k := range []string{"auth", "trips", "vehicles", "financial", "alerts", "chat"} {
		if _, ok := body[k]; !ok {
			t.Errorf("expected %q in state", k)
		}
	}
}

func TestServeDiag_StopsOnCancel(t *testing.T) {
	a := newTestApp(t, chi.NewRouter())
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- a.ServeDiag(ctx, "127.0.0.1:0") }()
	cancel()

	if err := <-done; err != nil {
		t.Errorf("expected clean shutdown, got %v", err)
	}
}

func TestServeDiag_RefusesPublicAddrWithoutToken(t *testing.T) {
	a := newTestApp(t, chi.NewRouter())
	a.Config.DiagToken = ""

	if err := a.ServeDiag(context.Background(), "0.0.0.0:0"); err == nil {
		t.Fatal("expected an error for an unguarded public address")
	}
	if err := a.ServeDiag(context.Background(), ""); err == nil {
		t.Fatal("expected an error for an empty address")
	}
}
