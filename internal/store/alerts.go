package store

import (
	"context"

	"github.com/boddenberg/sarathi-client-go/internal/domain"
	"github.com/boddenberg/sarathi-client-go/internal/infra/observability"
	"github.com/boddenberg/sarathi-client-go/internal/port"

	"go.uber.org/zap"
)

// AlertsState is the alerts slice of client state.
type AlertsState struct {
	Meta
	Alerts []domain.Alert `json:"alerts"`
}

// Unread counts alerts not yet marked read.
func (s AlertsState) Unread() int {
	n := 0
	for _, a := range s.Alerts {
		if !a.IsRead {
			n++
		}
	}
	return n
}

// AlertsStore owns the driver's notifications. Writes are followed by a
// refetch so the list always mirrors the backend.
type AlertsStore struct {
	c   *container[AlertsState]
	api port.AlertsAPI
}

// NewAlertsStore creates an empty AlertsStore.
func NewAlertsStore(api port.AlertsAPI, metrics *observability.Metrics, logger *zap.Logger) *AlertsStore {
	return &AlertsStore{
		c:   newContainer("alerts", AlertsState{}, metrics, logger),
		api: api,
	}
}

// Snapshot returns the current alerts state.
func (s *AlertsStore) Snapshot() AlertsState {
	st, meta := s.c.snapshot()
	st.Meta = meta
	return st
}

// Subscribe registers fn for state changes.
func (s *AlertsStore) Subscribe(fn func()) func() {
	return s.c.Subscribe(fn)
}

// FetchAlerts replaces the alert list.
func (s *AlertsStore) FetchAlerts(ctx context.Context) {
	s.c.begin()
	alerts, err := s.api.List(ctx)
	if err != nil {
		s.c.fail("fetch_alerts", "Failed to fetch alerts", err)
		return
	}
	s.c.succeed("fetch_alerts", func(st *AlertsState) { st.Alerts = alerts })
}

// MarkRead marks one alert read and reloads the list.
func (s *AlertsStore) MarkRead(ctx context.Context, id int64) error {
	s.c.begin()
	_, err := s.api.MarkRead(ctx, id)
	var alerts []domain.Alert
	if err == nil {
		alerts, err = s.api.List(ctx)
	}
	if err != nil {
		s.c.fail("mark_read", "Failed to update alert", err)
		return err
	}
	s.c.succeed("mark_read", func(st *AlertsState) { st.Alerts = alerts })
	return nil
}

// Delete removes one alert and reloads the list.
func (s *AlertsStore) Delete(ctx context.Context, id int64) error {
	s.c.begin()
	err := s.api.Delete(ctx, id)
	var alerts []domain.Alert
	if err == nil {
		alerts, err = s.api.List(ctx)
	}
	if err != nil {
		s.c.fail("delete_alert", "Failed to delete alert", err)
		return err
	}
	s.c.succeed("delete_alert", func(st *AlertsState) { st.Alerts = alerts })
	return nil
}
