package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/boddenberg/sarathi-client-go/internal/domain"
)

// DefaultStatsDays is the stats window used when none is given.
const DefaultStatsDays = 30

// TripsClient calls the /trips endpoints.
type TripsClient struct {
	t *Transport
}

// NewTripsClient creates a new TripsClient.
func NewTripsClient(t *Transport) *TripsClient {
	return &TripsClient{t: t}
}

// List returns trips, newest first. days <= 0 lists without a window.
func (c *TripsClient) List(ctx context.Context, days int) ([]domain.Trip, error) {
	var q url.Values
	if days > 0 {
		q = url.Values{"days": {strconv.Itoa(days)}}
	}
	var trips []domain.Trip
	err := c.t.Do(ctx, Request{
		Operation: "TripsClient.List",
		Method:    http.MethodGet,
		Path:      "/trips",
		Query:     q,
	}, &trips)
	return trips, err
}

// Create logs a trip entered by hand.
func (c *TripsClient) Create(ctx context.Context, req *domain.CreateTripRequest) (*domain.Trip, error) {
	var trip domain.Trip
	err := c.t.Do(ctx, Request{
		Operation: "TripsClient.Create",
		Method:    http.MethodPost,
		Path:      "/trips",
		Body:      req,
	}, &trip)
	if err != nil {
		return nil, err
	}
	return &trip, nil
}

// CreateFromVoice uploads a spoken trip description; the backend
// transcribes it and logs the trip.
func (c *TripsClient) CreateFromVoice(ctx context.Context, audio domain.Attachment) (*domain.Trip, error) {
	if audio.FileName == "" {
		audio.FileName = "trip_audio.m4a"
	}
	if audio.ContentType == "" {
		audio.ContentType = "audio/m4a"
	}

	var trip domain.Trip
	err := c.t.Do(ctx, Request{
		Operation: "TripsClient.CreateFromVoice",
		Method:    http.MethodPost,
		Path:      "/trips/voice",
		Multipart: &Multipart{Files: []FilePart{{Field: FieldTripAudio, Attachment: audio}}},
	}, &trip)
	if err != nil {
		return nil, err
	}
	return &trip, nil
}

// Stats aggregates trips over the last days days (DefaultStatsDays when <= 0).
func (c *TripsClient) Stats(ctx context.Context, days int) (*domain.TripStats, error) {
	if days <= 0 {
		days = DefaultStatsDays
	}
	var stats domain.TripStats
	err := c.t.Do(ctx, Request{
		Operation: "TripsClient.Stats",
		Method:    http.MethodGet,
		Path:      "/trips/stats",
		Query:     url.Values{"days": {strconv.Itoa(days)}},
	}, &stats)
	if err != nil {
		return nil, err
	}
	return &stats, nil
}

// ZoneRecommendations suggests high-value zones.
func (c *TripsClient) ZoneRecommendations(ctx context.Context) ([]domain.ZoneRecommendation, error) {
	var zones []domain.ZoneRecommendation
	err := c.t.Do(ctx, Request{
		Operation: "TripsClient.ZoneRecommendations",
		Method:    http.MethodGet,
		Path:      "/trips/recommendations/zones",
	}, &zones)
	return zones, err
}

// Update patches a trip.
func (c *TripsClient) Update(ctx context.Context, id int64, upd *domain.TripUpdate) (*domain.Trip, error) {
	var trip domain.Trip
	err := c.t.Do(ctx, Request{
		Operation: "TripsClient.Update",
		Method:    http.MethodPatch,
		Path:      fmt.Sprintf("/trips/%d", id),
		Body:      upd,
	}, &trip)
	if err != nil {
		return nil, err
	}
	return &trip, nil
}

// Delete removes a trip.
func (c *TripsClient) Delete(ctx context.Context, id int64) error {
	return c.t.Do(ctx, Request{
		Operation: "TripsClient.Delete",
		Method:    http.MethodDelete,
		Path:      fmt.Sprintf("/trips/%d", id),
	}, nil)
}
