package client_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"testing"
	"time"

	"github.com/boddenberg/sarathi-client-go/internal/domain"
	"github.com/boddenberg/sarathi-client-go/internal/infra/client"

	"github.com/go-chi/chi/v5"
)

// recorder captures the last request seen by the fake backend.
type recorder struct {
	method string
	path   string
	query  string
	body   map[string]any
	files  map[string][]string
}

func fakeBackend(rec *recorder, status int, reply any) http.Handler {
	r := chi.NewRouter()
	r.HandleFunc("/*", func(w http.ResponseWriter, r *http.Request) {
		rec.method = r.Method
		rec.path = r.URL.Path
		rec.query = r.URL.RawQuery
		rec.body = nil
		rec.files = nil

		if r.MultipartForm == nil && r.Header.Get("Content-Type") != "application/json" && r.ContentLength != 0 {
			if err := r.ParseMultipartForm(1 << 20); err == nil {
				rec.files = map[string][]string{}
				for field, fhs := range r.MultipartForm.File {
					for _, fh := range fhs {
						rec.files[field] = append(rec.files[field], fh.Filename)
					}
				}
			}
		} else {
			data, _ := io.ReadAll(r.Body)
			if len(data) > 0 {
				_ = json.Unmarshal(data, &rec.body)
			}
		}

		if reply == nil {
			w.WriteHeader(status)
			return
		}
		writeJSON(w, status, reply)
	})
	return r
}

func TestTripsClient_Endpoints(t *testing.T) {
	rec := &recorder{}
	f := newFixture(t, fakeBackend(rec, http.StatusOK, []any{}), time.Second)
	trips := client.NewTripsClient(f.transport)
	ctx := context.Background()

	if _, err := trips.List(ctx, 7); err != nil {
		t.Fatal(err)
	}
	if rec.method != http.MethodGet || rec.path != "/trips" || rec.query != "days=7" {
		t.Errorf("List: got %s %s?%s", rec.method, rec.path, rec.query)
	}

	if _, err := trips.List(ctx, 0); err != nil {
		t.Fatal(err)
	}
	if rec.query != "" {
		t.Errorf("List without window: expected no query, got %q", rec.query)
	}

	if _, err := trips.ZoneRecommendations(ctx); err != nil {
		t.Fatal(err)
	}
	if rec.path != "/trips/recommendations/zones" {
		t.Errorf("ZoneRecommendations: got %s", rec.path)
	}
}

func TestTripsClient_StatsDefaultsToThirtyDays(t *testing.T) {
	rec := &recorder{}
	f := newFixture(t, fakeBackend(rec, http.StatusOK, map[string]any{"total_trips": 3, "net_earnings": 900.5}), time.Second)

	stats, err := client.NewTripsClient(f.transport).Stats(context.Background(), 0)
	if err != nil {
		t.Fatal(err)
	}
	if rec.path != "/trips/stats" || rec.query != "days=30" {
		t.Errorf("Stats: got %s?%s", rec.path, rec.query)
	}
	if stats.TotalTrips != 3 || stats.NetEarnings != 900.5 {
		t.Errorf("unexpected stats %+v", stats)
	}
}

func TestTripsClient_UpdateAndDelete(t *testing.T) {
	rec := &recorder{}
	f := newFixture(t, fakeBackend(rec, http.StatusOK, map[string]any{"id": 12, "earnings": 400}), time.Second)
	trips := client.NewTripsClient(f.transport)

	earnings := 400.0
	trip, err := trips.Update(context.Background(), 12, &domain.TripUpdate{Earnings: &earnings})
	if err != nil {
		t.Fatal(err)
	}
	if rec.method != http.MethodPatch || rec.path != "/trips/12" || rec.body["earnings"] != 400.0 {
		t.Errorf("Update: got %s %s %v", rec.method, rec.path, rec.body)
	}
	if _, ok := rec.body["fuel_cost"]; ok {
		t.Error("Update: nil fields must be omitted")
	}
	if trip.ID != 12 {
		t.Errorf("expected trip 12, got %d", trip.ID)
	}

	rec2 := &recorder{}
	f2 := newFixture(t, fakeBackend(rec2, http.StatusNoContent, nil), time.Second)
	if err := client.NewTripsClient(f2.transport).Delete(context.Background(), 12); err != nil {
		t.Fatal(err)
	}
	if rec2.method != http.MethodDelete || rec2.path != "/trips/12" {
		t.Errorf("Delete: got %s %s", rec2.method, rec2.path)
	}
}

func TestVehiclesClient_HealthCheckUpload(t *testing.T) {
	rec := &recorder{}
	f := newFixture(t, fakeBackend(rec, http.StatusCreated, map[string]any{"id": 1, "vehicle_id": 3, "check_type": "image_diagnostic"}), time.Second)

	check, err := client.NewVehiclesClient(f.transport).UploadHealthCheck(context.Background(), 3, []domain.Attachment{
		{Data: []byte("jpg-0")},
		{Data: []byte("jpg-1")},
	})
	if err != nil {
		t.Fatal(err)
	}
	if rec.path != "/vehicles/3/health-check" {
		t.Errorf("unexpected path %s", rec.path)
	}
	names := rec.files["images"]
	if len(names) != 2 || names[0] != "vehicle_0.jpg" || names[1] != "vehicle_1.jpg" {
		t.Errorf("unexpected image parts %v", rec.files)
	}
	if check.VehicleID != 3 {
		t.Errorf("expected vehicle 3, got %d", check.VehicleID)
	}
}

func TestVehiclesClient_Endpoints(t *testing.T) {
	rec := &recorder{}
	f := newFixture(t, fakeBackend(rec, http.StatusOK, map[string]any{"id": 4}), time.Second)
	vehicles := client.NewVehiclesClient(f.transport)
	ctx := context.Background()

	if _, err := vehicles.HealthCheck(ctx, 4, 9); err != nil {
		t.Fatal(err)
	}
	if rec.path != "/vehicles/4/health-checks/9" {
		t.Errorf("HealthCheck: got %s", rec.path)
	}

	if _, err := vehicles.Create(ctx, &domain.CreateVehicleRequest{VehicleNumber: "MH12AB1234", VehicleType: "auto"}); err != nil {
		t.Fatal(err)
	}
	if rec.method != http.MethodPost || rec.path != "/vehicles" || rec.body["vehicle_number"] != "MH12AB1234" {
		t.Errorf("Create: got %s %s %v", rec.method, rec.path, rec.body)
	}
}

func TestGoalsClient_AddProgress(t *testing.T) {
	rec := &recorder{}
	f := newFixture(t, fakeBackend(rec, http.StatusCreated, map[string]any{"id": 1, "goal_id": 8, "amount_added": 500}), time.Second)

	notes := "tips"
	_, err := client.NewGoalsClient(f.transport).AddProgress(context.Background(), &domain.GoalProgressRequest{GoalID: 8, AmountAdded: 500, Notes: &notes})
	if err != nil {
		t.Fatal(err)
	}
	if rec.path != "/goals/8/progress" {
		t.Errorf("unexpected path %s", rec.path)
	}
	if rec.body["goal_id"] != 8.0 || rec.body["amount_added"] != 500.0 || rec.body["notes"] != "tips" {
		t.Errorf("unexpected body %v", rec.body)
	}
}

func TestInvestmentsClient_Endpoints(t *testing.T) {
	rec := &recorder{}
	f := newFixture(t, fakeBackend(rec, http.StatusOK, map[string]any{"monthly_surplus": 4200}), time.Second)
	inv := client.NewInvestmentsClient(f.transport)
	ctx := context.Background()

	s, err := inv.SurplusAnalysis(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if rec.path != "/investments/surplus-analysis" || s.MonthlySurplus != 4200 {
		t.Errorf("SurplusAnalysis: got %s %+v", rec.path, s)
	}

	if _, err := inv.Portfolio(ctx); err != nil {
		t.Fatal(err)
	}
	if rec.path != "/investments/portfolio" {
		t.Errorf("Portfolio: got %s", rec.path)
	}
}

func TestAlertsClient_MarkRead(t *testing.T) {
	rec := &recorder{}
	f := newFixture(t, fakeBackend(rec, http.StatusOK, map[string]any{"id": 2, "is_read": true}), time.Second)

	a, err := client.NewAlertsClient(f.transport).MarkRead(context.Background(), 2)
	if err != nil {
		t.Fatal(err)
	}
	if rec.method != http.MethodPost || rec.path != "/alerts/2/mark-read" {
		t.Errorf("MarkRead: got %s %s", rec.method, rec.path)
	}
	if !a.IsRead {
		t.Error("expected alert to be read")
	}
}

func TestAgentClient_ChatAndVoice(t *testing.T) {
	rec := &recorder{}
	f := newFixture(t, fakeBackend(rec, http.StatusOK, map[string]any{
		"response":        "Drive to Hinjewadi after 6pm.",
		"recommendations": []any{map[string]any{"zone": "Hinjewadi"}},
		"action_items":    []string{"Refuel"},
		"query_type":      "earnings",
		"analysis":        map[string]any{"earnings": map[string]any{"trend": "up"}},
		"audio_url":       "/static/reply.mp3",
		"transcription":   "where should I drive",
	}), time.Second)
	agent := client.NewAgentClient(f.transport)

	resp, err := agent.Chat(context.Background(), "where should I drive")
	if err != nil {
		t.Fatal(err)
	}
	if rec.path != "/agent/chat" || rec.body["query"] != "where should I drive" {
		t.Errorf("Chat: got %s %v", rec.path, rec.body)
	}
	if resp.QueryType != "earnings" || resp.Analysis[domain.AnalysisEarnings] == nil {
		t.Errorf("unexpected response %+v", resp)
	}

	resp, err = agent.VoiceChat(context.Background(), domain.Attachment{Data: []byte("wav")})
	if err != nil {
		t.Fatal(err)
	}
	if rec.path != "/agent/voice-chat" || len(rec.files["file"]) != 1 || rec.files["file"][0] != "voice_message.m4a" {
		t.Errorf("VoiceChat: got %s %v", rec.path, rec.files)
	}
	if resp.Transcription == nil || *resp.Transcription != "where should I drive" {
		t.Errorf("unexpected transcription %v", resp.Transcription)
	}
}

func TestAuthClient_Endpoints(t *testing.T) {
	rec := &recorder{}
	reply := map[string]any{"access_token": "tok", "token_type": "bearer", "id": 7, "name": "Ravi Kumar"}
	f := newFixture(t, fakeBackend(rec, http.StatusOK, reply), time.Second)
	auth := client.NewAuthClient(f.transport)
	ctx := context.Background()

	tok, err := auth.Login(ctx, &domain.LoginRequest{PhoneNumber: "9800000000", Password: "pw"})
	if err != nil {
		t.Fatal(err)
	}
	if tok.AccessToken != "tok" || rec.method != http.MethodPost || rec.path != "/auth/login" {
		t.Errorf("Login: got %s %s, token %q", rec.method, rec.path, tok.AccessToken)
	}
	if rec.body["phone_number"] != "9800000000" || rec.body["password"] != "pw" {
		t.Errorf("Login: unexpected body %v", rec.body)
	}

	if _, err := auth.Register(ctx, &domain.RegisterRequest{PhoneNumber: "9800000000", Name: "Ravi Kumar", Password: "pw"}); err != nil {
		t.Fatal(err)
	}
	if rec.method != http.MethodPost || rec.path != "/auth/register" || rec.body["name"] != "Ravi Kumar" {
		t.Errorf("Register: got %s %s %v", rec.method, rec.path, rec.body)
	}

	u, err := auth.Me(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if u.ID != 7 || rec.method != http.MethodGet || rec.path != "/auth/me" {
		t.Errorf("Me: got %s %s, user %+v", rec.method, rec.path, u)
	}

	city := "Pune"
	if _, err := auth.UpdateMe(ctx, &domain.ProfileUpdate{City: &city}); err != nil {
		t.Fatal(err)
	}
	if rec.method != http.MethodPatch || rec.path != "/auth/me" || rec.body["city"] != "Pune" {
		t.Errorf("UpdateMe: got %s %s %v", rec.method, rec.path, rec.body)
	}
	if _, ok := rec.body["name"]; ok {
		t.Errorf("UpdateMe: unset fields must be omitted, got %v", rec.body)
	}
}
