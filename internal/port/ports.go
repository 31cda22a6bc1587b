// Package port defines the interfaces (ports) for external dependencies.
// Following hexagonal architecture, these ports decouple the state
// containers and screens from the concrete HTTP clients and storage backends.
package port

import (
	"context"

	"github.com/boddenberg/sarathi-client-go/internal/domain"
)

// AuthAPI covers the /auth endpoints.
type AuthAPI interface {
	Login(ctx context.Context, req *domain.LoginRequest) (*domain.Token, error)
	Register(ctx context.Context, req *domain.RegisterRequest) (*domain.User, error)
	Me(ctx context.Context) (*domain.User, error)
	UpdateMe(ctx context.Context, upd *domain.ProfileUpdate) (*domain.User, error)
}

// TripsAPI covers the /trips endpoints. A days value <= 0 means no window.
type TripsAPI interface {
	List(ctx context.Context, days int) ([]domain.Trip, error)
	Create(ctx context.Context, req *domain.CreateTripRequest) (*domain.Trip, error)
	CreateFromVoice(ctx context.Context, audio domain.Attachment) (*domain.Trip, error)
	Stats(ctx context.Context, days int) (*domain.TripStats, error)
	ZoneRecommendations(ctx context.Context) ([]domain.ZoneRecommendation, error)
	Update(ctx context.Context, id int64, upd *domain.TripUpdate) (*domain.Trip, error)
	Delete(ctx context.Context, id int64) error
}

// VehiclesAPI covers the /vehicles endpoints.
type VehiclesAPI interface {
	List(ctx context.Context) ([]domain.Vehicle, error)
	Create(ctx context.Context, req *domain.CreateVehicleRequest) (*domain.Vehicle, error)
	Get(ctx context.Context, id int64) (*domain.Vehicle, error)
	Update(ctx context.Context, id int64, upd *domain.VehicleUpdate) (*domain.Vehicle, error)
	UploadHealthCheck(ctx context.Context, vehicleID int64, images []domain.Attachment) (*domain.VehicleHealthCheck, error)
	HealthChecks(ctx context.Context, vehicleID int64) ([]domain.VehicleHealthCheck, error)
	HealthCheck(ctx context.Context, vehicleID, checkID int64) (*domain.VehicleHealthCheck, error)
}

// GoalsAPI covers the /goals endpoints.
type GoalsAPI interface {
	List(ctx context.Context) ([]domain.Goal, error)
	Create(ctx context.Context, req *domain.CreateGoalRequest) (*domain.Goal, error)
	AddProgress(ctx context.Context, req *domain.GoalProgressRequest) (*domain.GoalProgress, error)
}

// InvestmentsAPI covers the /investments endpoints.
type InvestmentsAPI interface {
	List(ctx context.Context) ([]domain.Investment, error)
	Create(ctx context.Context, req *domain.CreateInvestmentRequest) (*domain.Investment, error)
	Portfolio(ctx context.Context) (*domain.PortfolioSummary, error)
	SurplusAnalysis(ctx context.Context) (*domain.SurplusAnalysis, error)
	Recommendations(ctx context.Context) ([]domain.InvestmentRecommendation, error)
}

// AlertsAPI covers the /alerts endpoints.
type AlertsAPI interface {
	List(ctx context.Context) ([]domain.Alert, error)
	MarkRead(ctx context.Context, id int64) (*domain.Alert, error)
	Delete(ctx context.Context, id int64) error
}

// AgentAPI covers the /agent endpoints.
type AgentAPI interface {
	Chat(ctx context.Context, query string) (*domain.AgentResponse, error)
	VoiceChat(ctx context.Context, audio domain.Attachment) (*domain.AgentResponse, error)
}

// KVStore is the local key-value persistence used for credentials and the
// chat transcript. Get returns (nil, nil) when the key is absent.
type KVStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Ping(ctx context.Context) error
	Close() error
}

// CredentialStore is what the transport needs from the session: the bearer
// token to attach and a way to drop credentials after a 401.
type CredentialStore interface {
	Token(ctx context.Context) (string, error)
	Clear(ctx context.Context) error
}

// Cache provides generic caching with TTL.
type Cache[T any] interface {
	Get(key string) (T, bool)
	Set(key string, value T)
	Delete(key string)
}
