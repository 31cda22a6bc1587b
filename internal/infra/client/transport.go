// Package client holds the HTTP transport for the Sarathi backend and the
// per-resource API clients built on it.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/boddenberg/sarathi-client-go/internal/domain"
	"github.com/boddenberg/sarathi-client-go/internal/infra/observability"
	"github.com/boddenberg/sarathi-client-go/internal/infra/resilience"
	"github.com/boddenberg/sarathi-client-go/internal/port"

	"github.com/sony/gobreaker"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.uber.org/zap"
)

var tracer = otel.Tracer("client")

const serviceName = "sarathi-api"

// UnauthorizedHook runs after a 401 has cleared the stored credentials.
type UnauthorizedHook func(ctx context.Context)

// Request is one logical backend call.
type Request struct {
	// Operation names the span and the metric series, e.g. "TripsClient.List".
	Operation string
	Method    string
	Path      string
	Query     url.Values
	// Body is JSON-encoded when non-nil. Ignored when Multipart is set.
	Body      any
	Multipart *Multipart
}

// Transport is the single HTTP entry point shared by all API clients.
// It attaches the bearer token, enforces the timeout, maps failures to
// domain errors and clears credentials on 401.
type Transport struct {
	httpClient *http.Client
	baseURL    string
	creds      port.CredentialStore
	cb         *gobreaker.CircuitBreaker
	cfg        resilience.Config
	bulkhead   *resilience.Bulkhead
	metrics    *observability.Metrics
	logger     *zap.Logger

	mu    sync.RWMutex
	hooks []UnauthorizedHook
}

// NewTransport creates a Transport. httpClient carries the fixed timeout.
func NewTransport(httpClient *http.Client, baseURL string, creds port.CredentialStore, cfg resilience.Config, metrics *observability.Metrics, logger *zap.Logger) *Transport {
	return &Transport{
		httpClient: httpClient,
		baseURL:    strings.TrimRight(baseURL, "/"),
		creds:      creds,
		cb:         resilience.NewCircuitBreaker(serviceName, countsAsSuccess),
		cfg:        cfg,
		bulkhead:   resilience.NewBulkhead(cfg.MaxConcurrency),
		metrics:    metrics,
		logger:     logger,
	}
}

// BaseURL returns the configured backend address without a trailing slash.
func (t *Transport) BaseURL() string {
	return t.baseURL
}

// ResolveURL turns a backend-relative path into an absolute URL.
// Absolute http(s) URLs are returned unchanged.
func (t *Transport) ResolveURL(u string) string {
	if strings.HasPrefix(u, "http://") || strings.HasPrefix(u, "https://") {
		return u
	}
	if !strings.HasPrefix(u, "/") {
		u = "/" + u
	}
	return t.baseURL + u
}

// OnUnauthorized registers a hook run, in registration order, after a 401
// response has cleared the credentials and before the error is returned.
func (t *Transport) OnUnauthorized(hook UnauthorizedHook) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.hooks = append(t.hooks, hook)
}

// BreakerState exposes the circuit breaker state for diagnostics.
func (t *Transport) BreakerState() string {
	return t.cb.State().String()
}

// Do executes req and decodes a 2xx JSON body into out (when out is non-nil).
func (t *Transport) Do(ctx context.Context, req Request, out any) error {
	ctx, span := tracer.Start(ctx, req.Operation)
	defer span.End()
	span.SetAttributes(
		attribute.String("http.method", req.Method),
		attribute.String("http.route", req.Path),
	)

	if err := t.bulkhead.Acquire(ctx); err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return &domain.ErrTimeout{Operation: req.Operation}
		}
		return err
	}
	defer t.bulkhead.Release()

	start := time.Now()
	_, err := t.cb.Execute(func() (any, error) {
		return nil, resilience.RetryWithBackoff(ctx, t.cfg, func() error {
			return t.once(ctx, req, out)
		})
	})
	err = t.mapError(req.Operation, err)

	t.metrics.RecordRequest(req.Operation, outcome(err), time.Since(start))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	return err
}

// once performs a single attempt. Errors that must not be retried are
// wrapped with resilience.Permanent.
func (t *Transport) once(ctx context.Context, req Request, out any) error {
	body, contentType, err := encodeBody(req)
	if err != nil {
		return resilience.Permanent(err)
	}

	u := t.baseURL + req.Path
	if len(req.Query) > 0 {
		u += "?" + req.Query.Encode()
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, u, body)
	if err != nil {
		return resilience.Permanent(err)
	}
	httpReq.Header.Set("Accept", "application/json")
	if contentType != "" {
		httpReq.Header.Set("Content-Type", contentType)
	}

	token, err := t.creds.Token(ctx)
	if err != nil {
		t.logger.Warn("api: failed to read stored token", zap.Error(err))
	}
	if token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+token)
	}
	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(httpReq.Header))

	resp, err := t.httpClient.Do(httpReq)
	if err != nil {
		if isTimeout(err) {
			t.logger.Warn("api: request timed out",
				zap.String("operation", req.Operation),
				zap.String("path", req.Path),
			)
			return &domain.ErrTimeout{Operation: req.Operation}
		}
		if errors.Is(err, context.Canceled) {
			return resilience.Permanent(err)
		}
		t.logger.Error("api: request failed",
			zap.String("operation", req.Operation),
			zap.String("path", req.Path),
			zap.String("trace_id", observability.TraceID(ctx)),
			zap.Error(err),
		)
		return err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := parseAPIError(resp.StatusCode, respBody)
		t.logger.Warn("api: non-2xx response",
			zap.String("operation", req.Operation),
			zap.String("path", req.Path),
			zap.Int("status", resp.StatusCode),
			zap.String("detail", apiErr.DetailMessage()),
			zap.String("trace_id", observability.TraceID(ctx)),
		)
		if resp.StatusCode == http.StatusUnauthorized {
			t.handleUnauthorized(ctx)
		}
		if resp.StatusCode < 500 {
			return resilience.Permanent(apiErr)
		}
		return apiErr
	}

	t.logger.Debug("api: request OK",
		zap.String("operation", req.Operation),
		zap.String("path", req.Path),
		zap.Int("status", resp.StatusCode),
	)

	if out == nil || len(bytes.TrimSpace(respBody)) == 0 {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return resilience.Permanent(fmt.Errorf("decode %s response: %w", req.Operation, err))
	}
	return nil
}

func (t *Transport) handleUnauthorized(ctx context.Context) {
	t.metrics.IncrUnauthorized()
	if err := t.creds.Clear(ctx); err != nil {
		t.logger.Error("api: failed to clear credentials after 401", zap.Error(err))
	}

	t.mu.RLock()
	hooks := make([]UnauthorizedHook, len(t.hooks))
	copy(hooks, t.hooks)
	t.mu.RUnlock()

	for _, hook := range hooks {
		hook(ctx)
	}
}

// mapError converts breaker and transport failures into domain errors.
// Backend responses (*domain.APIError) and timeouts pass through unchanged.
func (t *Transport) mapError(operation string, err error) error {
	if err == nil {
		return nil
	}

	var apiErr *domain.APIError
	var timeout *domain.ErrTimeout
	switch {
	case errors.As(err, &apiErr):
		return apiErr
	case errors.As(err, &timeout):
		return timeout
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		t.logger.Warn("api: circuit breaker open", zap.String("operation", operation))
		return &domain.ErrCircuitOpen{Service: serviceName}
	case errors.Is(err, context.DeadlineExceeded):
		return &domain.ErrTimeout{Operation: operation}
	default:
		return &domain.ErrExternalService{Service: serviceName, Err: err}
	}
}

// countsAsSuccess keeps client errors and caller cancellations from
// tripping the breaker.
func countsAsSuccess(err error) bool {
	if err == nil || errors.Is(err, context.Canceled) {
		return true
	}
	var apiErr *domain.APIError
	return errors.As(err, &apiErr) && apiErr.Status < 500
}

func outcome(err error) string {
	var apiErr *domain.APIError
	switch {
	case err == nil:
		return "success"
	case errors.As(err, &apiErr) && apiErr.Status < 500:
		return "client_error"
	case errors.As(err, &apiErr):
		return "server_error"
	default:
		return "network_error"
	}
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}

func encodeBody(req Request) (io.Reader, string, error) {
	if req.Multipart != nil {
		return req.Multipart.encode()
	}
	if req.Body == nil {
		if req.Method == http.MethodGet || req.Method == http.MethodDelete {
			return nil, "", nil
		}
		return nil, "application/json", nil
	}
	data, err := json.Marshal(req.Body)
	if err != nil {
		return nil, "", fmt.Errorf("encode request body: %w", err)
	}
	return bytes.NewReader(data), "application/json", nil
}

// parseAPIError decodes {"detail": "..."} or {"detail": [{"msg": "..."}]}.
func parseAPIError(status int, body []byte) *domain.APIError {
	apiErr := &domain.APIError{Status: status, Body: string(body)}

	var payload struct {
		Detail json.RawMessage `json:"detail"`
	}
	if err := json.Unmarshal(body, &payload); err != nil || len(payload.Detail) == 0 {
		return apiErr
	}

	var detail string
	if err := json.Unmarshal(payload.Detail, &detail); err == nil {
		apiErr.Detail = detail
		return apiErr
	}

	var fields []domain.FieldError
	if err := json.Unmarshal(payload.Detail, &fields); err == nil {
		apiErr.Fields = fields
	}
	return apiErr
}
