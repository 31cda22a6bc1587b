// Package app wires configuration, local storage, the backend transport,
// the state containers and the audio tools into one value shared by the
// terminal UI and the CLI commands.
package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	chathandler "github.com/boddenberg/sarathi-client-go/internal/chat/handler"
	chatinfra "github.com/boddenberg/sarathi-client-go/internal/chat/infra"
	chatservice "github.com/boddenberg/sarathi-client-go/internal/chat/service"
	"github.com/boddenberg/sarathi-client-go/internal/config"
	"github.com/boddenberg/sarathi-client-go/internal/handler"
	"github.com/boddenberg/sarathi-client-go/internal/infra/client"
	"github.com/boddenberg/sarathi-client-go/internal/infra/observability"
	"github.com/boddenberg/sarathi-client-go/internal/infra/resilience"
	"github.com/boddenberg/sarathi-client-go/internal/infra/storage"
	"github.com/boddenberg/sarathi-client-go/internal/media"
	"github.com/boddenberg/sarathi-client-go/internal/port"
	"github.com/boddenberg/sarathi-client-go/internal/session"
	"github.com/boddenberg/sarathi-client-go/internal/store"

	"go.uber.org/zap"
)

const serviceName = "sarathi-client"

// App is the assembled client.
type App struct {
	Config  *config.Config
	Logger  *zap.Logger
	Metrics *observability.Metrics

	KV        port.KVStore
	Session   *session.Session
	Transport *client.Transport

	Auth      *store.AuthStore
	Trips     *store.TripsStore
	Vehicles  *store.VehiclesStore
	Financial *store.FinancialStore
	Alerts    *store.AlertsStore
	Chat      *chatservice.ChatService

	// Recorder and Player are nil when the audio tools are not configured.
	Recorder port.Recorder
	Player   port.Player

	shutdownTracer observability.ShutdownFunc
}

// New builds the client from cfg. Close releases everything New opened.
func New(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*App, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	shutdown, err := observability.InitTracer(cfg.OTLPEndpoint, serviceName)
	if err != nil {
		return nil, err
	}

	kv, err := storage.Open(ctx, storage.Options{
		Backend:       cfg.StorageBackend,
		SQLitePath:    cfg.StoragePath,
		RedisAddr:     cfg.RedisAddr,
		RedisPassword: cfg.RedisPassword,
		RedisDB:       cfg.RedisDB,
		RedisPrefix:   cfg.RedisPrefix,
		Secret:        cfg.StorageSecret,
	})
	if err != nil {
		_ = shutdown(ctx)
		return nil, fmt.Errorf("open storage: %w", err)
	}

	metrics := observability.NewMetrics()
	sess := session.New(kv)
	httpClient := &http.Client{Timeout: cfg.HTTPTimeout}

	transport := client.NewTransport(httpClient, cfg.APIURL, sess, resilience.Config{
		MaxRetries:     cfg.MaxRetries,
		InitialBackoff: cfg.InitialBackoff,
		MaxConcurrency: cfg.MaxConcurrency,
	}, metrics, logger)

	a := &App{
		Config:         cfg,
		Logger:         logger,
		Metrics:        metrics,
		KV:             kv,
		Session:        sess,
		Transport:      transport,
		shutdownTracer: shutdown,
	}

	a.Auth = store.NewAuthStore(client.NewAuthClient(transport), sess, metrics, logger)
	a.Trips = store.NewTripsStore(client.NewTripsClient(transport), metrics, logger)
	a.Vehicles = store.NewVehiclesStore(client.NewVehiclesClient(transport), metrics, logger)
	a.Financial = store.NewFinancialStore(client.NewGoalsClient(transport), client.NewInvestmentsClient(transport), metrics, logger)
	a.Alerts = store.NewAlertsStore(client.NewAlertsClient(transport), metrics, logger)

	// a 401 anywhere signs the user out
	transport.OnUnauthorized(a.Auth.HandleUnauthorized)

	a.openAudio(httpClient)

	a.Chat = chatservice.NewChatService(
		client.NewAgentClient(transport),
		chatinfra.NewTranscriptStore(kv),
		a.Player,
		transport.ResolveURL,
		metrics,
		logger,
	)

	logger.Info("app: client ready",
		zap.String("api_url", transport.BaseURL()),
		zap.String("storage", cfg.StorageBackend),
		zap.Duration("http_timeout", cfg.HTTPTimeout),
		zap.Int("max_retries", cfg.MaxRetries),
		zap.Bool("tracing", cfg.OTLPEndpoint != ""),
		zap.Bool("audio", a.Recorder != nil),
	)
	return a, nil
}

func (a *App) openAudio(httpClient *http.Client) {
	rec, err := media.NewRecorder(a.Config.RecordArgv(), "", media.DefaultStopGrace, a.Logger)
	if err != nil {
		a.Logger.Warn("app: voice recording disabled", zap.Error(err))
	} else {
		a.Recorder = rec
	}

	player, err := media.NewPlayer(a.Config.PlayArgv(), httpClient, a.Logger)
	if err != nil {
		a.Logger.Warn("app: audio playback disabled", zap.Error(err))
	} else {
		a.Player = player
	}
}

// State is the /v1/state body: one snapshot per container.
type State struct {
	Auth      store.AuthState      `json:"auth"`
	Trips     store.TripsState     `json:"trips"`
	Vehicles  store.VehiclesState  `json:"vehicles"`
	Financial store.FinancialState `json:"financial"`
	Alerts    store.AlertsState    `json:"alerts"`
	Chat      chatservice.State    `json:"chat"`
}

// Snapshot collects every container's current state.
func (a *App) Snapshot() State {
	return State{
		Auth:      a.Auth.Snapshot(),
		Trips:     a.Trips.Snapshot(),
		Vehicles:  a.Vehicles.Snapshot(),
		Financial: a.Financial.Snapshot(),
		Alerts:    a.Alerts.Snapshot(),
		Chat:      a.Chat.Snapshot(),
	}
}

// DiagHandler is the diagnostics router over this client.
func (a *App) DiagHandler() http.Handler {
	return handler.NewRouter(handler.Deps{
		Storage: a.KV,
		Backend: a.Transport,
		State:   func() any { return a.Snapshot() },
		Chat:    chathandler.ChatHandler(a.Chat, a.Logger),
		Token:   a.Config.DiagToken,
	}, a.Metrics, a.Logger)
}

// ServeDiag runs the diagnostics server on addr until ctx is cancelled.
func (a *App) ServeDiag(ctx context.Context, addr string) error {
	if err := config.CheckDiagAddr(addr, a.Config.DiagToken); err != nil {
		return err
	}
	srv := &http.Server{
		Addr:         addr,
		Handler:      a.DiagHandler(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		a.Logger.Info("diag: server starting", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	a.Logger.Info("diag: server shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("diag shutdown: %w", err)
	}
	return nil
}

// Close stops audio, closes storage and flushes traces.
func (a *App) Close(ctx context.Context) error {
	var errs []error
	if a.Recorder != nil {
		errs = append(errs, a.Recorder.Close())
	}
	if a.Player != nil {
		errs = append(errs, a.Player.Close())
	}
	errs = append(errs, a.KV.Close())
	if a.shutdownTracer != nil {
		errs = append(errs, a.shutdownTracer(ctx))
	}
	return errors.Join(errs...)
}
