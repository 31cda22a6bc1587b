package store

import (
	"context"

	"github.com/boddenberg/sarathi-client-go/internal/domain"
	"github.com/boddenberg/sarathi-client-go/internal/infra/observability"
	"github.com/boddenberg/sarathi-client-go/internal/port"

	"go.uber.org/zap"
)

// TripsState is the trips slice of client state.
type TripsState struct {
	Meta
	Trips []domain.Trip               `json:"trips"`
	Stats *domain.TripStats           `json:"stats,omitempty"`
	Zones []domain.ZoneRecommendation `json:"zones"`
}

// TripsStore owns the trip list, the earnings stats and zone suggestions.
type TripsStore struct {
	c   *container[TripsState]
	api port.TripsAPI
}

// NewTripsStore creates an empty TripsStore.
func NewTripsStore(api port.TripsAPI, metrics *observability.Metrics, logger *zap.Logger) *TripsStore {
	return &TripsStore{
		c:   newContainer("trips", TripsState{}, metrics, logger),
		api: api,
	}
}

// Snapshot returns the current trips state.
func (s *TripsStore) Snapshot() TripsState {
	st, meta := s.c.snapshot()
	st.Meta = meta
	return st
}

// Subscribe registers fn for state changes.
func (s *TripsStore) Subscribe(fn func()) func() {
	return s.c.Subscribe(fn)
}

// FetchTrips replaces the list with the trips of the last days days.
func (s *TripsStore) FetchTrips(ctx context.Context, days int) {
	s.c.begin()
	trips, err := s.api.List(ctx, days)
	if err != nil {
		s.c.fail("fetch_trips", "Failed to fetch trips", err)
		return
	}
	s.c.succeed("fetch_trips", func(st *TripsState) { st.Trips = trips })
}

// FetchStats loads the aggregate stats for the window.
func (s *TripsStore) FetchStats(ctx context.Context, days int) {
	s.c.begin()
	stats, err := s.api.Stats(ctx, days)
	if err != nil {
		s.c.fail("fetch_stats", "Failed to fetch stats", err)
		return
	}
	s.c.succeed("fetch_stats", func(st *TripsState) { st.Stats = stats })
}

// FetchZoneRecommendations loads the suggested zones.
func (s *TripsStore) FetchZoneRecommendations(ctx context.Context) {
	s.c.begin()
	zones, err := s.api.ZoneRecommendations(ctx)
	if err != nil {
		s.c.fail("fetch_zones", "Failed to fetch recommendations", err)
		return
	}
	s.c.succeed("fetch_zones", func(st *TripsState) { st.Zones = zones })
}

// CreateTrip logs a trip and puts it at the head of the list.
func (s *TripsStore) CreateTrip(ctx context.Context, req *domain.CreateTripRequest) (*domain.Trip, error) {
	s.c.begin()
	trip, err := s.api.Create(ctx, req)
	if err != nil {
		s.c.fail("create_trip", "Failed to create trip", err)
		return nil, err
	}
	s.c.succeed("create_trip", func(st *TripsState) { st.Trips = prepend(*trip, st.Trips) })
	return trip, nil
}

// UploadVoiceTrip sends a spoken trip description; the parsed trip goes
// to the head of the list.
func (s *TripsStore) UploadVoiceTrip(ctx context.Context, audio domain.Attachment) (*domain.Trip, error) {
	s.c.begin()
	trip, err := s.api.CreateFromVoice(ctx, audio)
	if err != nil {
		s.c.fail("upload_voice_trip", "Failed to upload voice trip", err)
		return nil, err
	}
	s.c.succeed("upload_voice_trip", func(st *TripsState) { st.Trips = prepend(*trip, st.Trips) })
	return trip, nil
}

// UpdateTrip applies a partial update and replaces the trip in place.
func (s *TripsStore) UpdateTrip(ctx context.Context, id int64, upd *domain.TripUpdate) (*domain.Trip, error) {
	s.c.begin()
	trip, err := s.api.Update(ctx, id, upd)
	if err != nil {
		s.c.fail("update_trip", "Failed to update trip", err)
		return nil, err
	}
	s.c.succeed("update_trip", func(st *TripsState) {
		st.Trips = replaceWhere(st.Trips, func(t domain.Trip) bool { return t.ID == id }, *trip)
	})
	return trip, nil
}

// DeleteTrip removes a trip.
func (s *TripsStore) DeleteTrip(ctx context.Context, id int64) error {
	s.c.begin()
	if err := s.api.Delete(ctx, id); err != nil {
		s.c.fail("delete_trip", "Failed to delete trip", err)
		return err
	}
	s.c.succeed("delete_trip", func(st *TripsState) {
		st.Trips = removeWhere(st.Trips, func(t domain.Trip) bool { return t.ID == id })
	})
	return nil
}
