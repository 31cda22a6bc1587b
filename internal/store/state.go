// Package store holds the per-domain state containers the screens and CLI
// commands read from. Each container owns one slice of client state, runs
// the backend actions that change it and notifies subscribers afterwards.
//
// Published snapshots are immutable: actions always build new slices and
// maps instead of editing the ones a previous snapshot handed out.
package store

import (
	"errors"
	"sync"

	"github.com/boddenberg/sarathi-client-go/internal/domain"
	"github.com/boddenberg/sarathi-client-go/internal/infra/observability"

	"go.uber.org/zap"
)

// Meta is the loading and error part every snapshot carries.
type Meta struct {
	Loading bool   `json:"loading"`
	Error   string `json:"error,omitempty"`
}

// ErrorMessage picks the message shown to the driver for a failed action.
// A backend detail (or the joined validation list) wins over fallback.
func ErrorMessage(err error, fallback string) string {
	var apiErr *domain.APIError
	if errors.As(err, &apiErr) {
		if msg := apiErr.DetailMessage(); msg != "" {
			return msg
		}
	}
	return fallback
}

// container is the shared machinery behind every store: a guarded state
// value, an in-flight counter driving Meta.Loading and a subscriber set.
type container[S any] struct {
	name    string
	metrics *observability.Metrics
	logger  *zap.Logger

	mu       sync.Mutex
	state    S
	inflight int
	err      string

	subMu  sync.Mutex
	subs   map[uint64]func()
	nextID uint64
}

func newContainer[S any](name string, initial S, metrics *observability.Metrics, logger *zap.Logger) *container[S] {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &container[S]{
		name:    name,
		metrics: metrics,
		logger:  logger,
		state:   initial,
		subs:    make(map[uint64]func()),
	}
}

// Subscribe registers fn to run after every state change and returns a
// function removing it. fn runs on the goroutine that changed the state.
func (c *container[S]) Subscribe(fn func()) func() {
	c.subMu.Lock()
	id := c.nextID
	c.nextID++
	c.subs[id] = fn
	c.subMu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			c.subMu.Lock()
			delete(c.subs, id)
			c.subMu.Unlock()
		})
	}
}

func (c *container[S]) notify() {
	c.subMu.Lock()
	fns := make([]func(), 0, len(c.subs))
	for _, fn := range c.subs {
		fns = append(fns, fn)
	}
	c.subMu.Unlock()

	for _, fn := range fns {
		fn()
	}
}

func (c *container[S]) snapshot() (S, Meta) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state, Meta{Loading: c.inflight > 0, Error: c.err}
}

// begin marks an action as started and clears the previous error.
func (c *container[S]) begin() {
	c.mu.Lock()
	c.inflight++
	c.err = ""
	c.mu.Unlock()
	c.notify()
}

// succeed applies mutate and ends the action.
func (c *container[S]) succeed(action string, mutate func(*S)) {
	c.mu.Lock()
	if mutate != nil {
		mutate(&c.state)
	}
	c.end()
	c.mu.Unlock()

	c.metrics.RecordStoreAction(c.name, action, nil)
	c.notify()
}

// fail records the display message for err and ends the action.
func (c *container[S]) fail(action, fallback string, err error) {
	msg := ErrorMessage(err, fallback)

	c.mu.Lock()
	c.err = msg
	c.end()
	c.mu.Unlock()

	c.logger.Warn("store: action failed",
		zap.String("store", c.name),
		zap.String("action", action),
		zap.String("message", msg),
		zap.Error(err),
	)
	c.metrics.RecordStoreAction(c.name, action, err)
	c.notify()
}

// set replaces state outside an action cycle (selection, logout).
func (c *container[S]) set(mutate func(*S)) {
	c.mu.Lock()
	mutate(&c.state)
	c.mu.Unlock()
	c.notify()
}

func (c *container[S]) end() {
	if c.inflight > 0 {
		c.inflight--
	}
}

// prepend returns a new slice with v in front of items.
func prepend[T any](v T, items []T) []T {
	out := make([]T, 0, len(items)+1)
	out = append(out, v)
	return append(out, items...)
}

// replaceWhere returns a copy of items with the first match replaced by v.
func replaceWhere[T any](items []T, match func(T) bool, v T) []T {
	out := make([]T, len(items))
	copy(out, items)
	for i := range out {
		if match(out[i]) {
			out[i] = v
			break
		}
	}
	return out
}

// removeWhere returns a copy of items without the elements that match.
func removeWhere[T any](items []T, match func(T) bool) []T {
	out := make([]T, 0, len(items))
	for _, it := range items {
		if !match(it) {
			out = append(out, it)
		}
	}
	return out
}
