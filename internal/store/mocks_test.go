package store_test

import (
	"context"

	"github.com/boddenberg/sarathi-client-go/internal/domain"
)

// --- Mocks ---

type mockAuthAPI struct {
	token     *domain.Token
	loginErr  error
	user      *domain.User
	meErr     error
	meCalls   int
	regErr    error
	updateErr error
}

func (m *mockAuthAPI) Login(_ context.Context, _ *domain.LoginRequest) (*domain.Token, error) {
	return m.token, m.loginErr
}

func (m *mockAuthAPI) Register(_ context.Context, req *domain.RegisterRequest) (*domain.User, error) {
	if m.regErr != nil {
		return nil, m.regErr
	}
	return &domain.User{ID: 2, Name: req.Name, PhoneNumber: req.PhoneNumber}, nil
}

func (m *mockAuthAPI) Me(_ context.Context) (*domain.User, error) {
	m.meCalls++
	return m.user, m.meErr
}

func (m *mockAuthAPI) UpdateMe(_ context.Context, upd *domain.ProfileUpdate) (*domain.User, error) {
	if m.updateErr != nil {
		return nil, m.updateErr
	}
	u := *m.user
	if upd.Name != nil {
		u.Name = *upd.Name
	}
	return &u, nil
}

type mockTripsAPI struct {
	trips   []domain.Trip
	stats   *domain.TripStats
	zones   []domain.ZoneRecommendation
	created *domain.Trip
	updated *domain.Trip
	err     error
	days    int
}

func (m *mockTripsAPI) List(_ context.Context, days int) ([]domain.Trip, error) {
	m.days = days
	return m.trips, m.err
}

func (m *mockTripsAPI) Create(_ context.Context, _ *domain.CreateTripRequest) (*domain.Trip, error) {
	return m.created, m.err
}

func (m *mockTripsAPI) CreateFromVoice(_ context.Context, _ domain.Attachment) (*domain.Trip, error) {
	return m.created, m.err
}

func (m *mockTripsAPI) Stats(_ context.Context, days int) (*domain.TripStats, error) {
	m.days = days
	return m.stats, m.err
}

func (m *mockTripsAPI) ZoneRecommendations(_ context.Context) ([]domain.ZoneRecommendation, error) {
	return m.zones, m.err
}

func (m *mockTripsAPI) Update(_ context.Context, _ int64, _ *domain.TripUpdate) (*domain.Trip, error) {
	return m.updated, m.err
}

func (m *mockTripsAPI) Delete(_ context.Context, _ int64) error {
	return m.err
}

type mockVehiclesAPI struct {
	vehicles []domain.Vehicle
	checks   map[int64][]domain.VehicleHealthCheck
	upload   *domain.VehicleHealthCheck
	err      error
}

func (m *mockVehiclesAPI) List(_ context.Context) ([]domain.Vehicle, error) {
	return m.vehicles, m.err
}

func (m *mockVehiclesAPI) Create(_ context.Context, req *domain.CreateVehicleRequest) (*domain.Vehicle, error) {
	if m.err != nil {
		return nil, m.err
	}
	return &domain.Vehicle{ID: 100, VehicleNumber: req.VehicleNumber, VehicleType: req.VehicleType}, nil
}

func (m *mockVehiclesAPI) Get(_ context.Context, id int64) (*domain.Vehicle, error) {
	return &domain.Vehicle{ID: id}, m.err
}

func (m *mockVehiclesAPI) Update(_ context.Context, id int64, upd *domain.VehicleUpdate) (*domain.Vehicle, error) {
	if m.err != nil {
		return nil, m.err
	}
	v := domain.Vehicle{ID: id}
	if upd.CurrentOdometerKM != nil {
		v.CurrentOdometerKM = *upd.CurrentOdometerKM
	}
	return &v, nil
}

func (m *mockVehiclesAPI) UploadHealthCheck(_ context.Context, _ int64, _ []domain.Attachment) (*domain.VehicleHealthCheck, error) {
	return m.upload, m.err
}

func (m *mockVehiclesAPI) HealthChecks(_ context.Context, vehicleID int64) ([]domain.VehicleHealthCheck, error) {
	return m.checks[vehicleID], m.err
}

func (m *mockVehiclesAPI) HealthCheck(_ context.Context, _, _ int64) (*domain.VehicleHealthCheck, error) {
	return nil, m.err
}

type mockGoalsAPI struct {
	goals       []domain.Goal
	listCalls   int
	listErr     error
	progressErr error
	lastReq     *domain.GoalProgressRequest
}

func (m *mockGoalsAPI) List(_ context.Context) ([]domain.Goal, error) {
	m.listCalls++
	if m.listErr != nil {
		return nil, m.listErr
	}
	return m.goals, nil
}

func (m *mockGoalsAPI) Create(_ context.Context, req *domain.CreateGoalRequest) (*domain.Goal, error) {
	return &domain.Goal{ID: 9, GoalName: req.GoalName, TargetAmount: req.TargetAmount}, nil
}

func (m *mockGoalsAPI) AddProgress(_ context.Context, req *domain.GoalProgressRequest) (*domain.GoalProgress, error) {
	m.lastReq = req
	if m.progressErr != nil {
		return nil, m.progressErr
	}
	return &domain.GoalProgress{GoalID: req.GoalID, AmountAdded: req.AmountAdded}, nil
}

type mockInvestmentsAPI struct {
	surplus *domain.SurplusAnalysis
	err     error
}

func (m *mockInvestmentsAPI) List(_ context.Context) ([]domain.Investment, error) {
	return nil, m.err
}

func (m *mockInvestmentsAPI) Create(_ context.Context, req *domain.CreateInvestmentRequest) (*domain.Investment, error) {
	return &domain.Investment{ID: 1, InvestmentName: req.InvestmentName}, m.err
}

func (m *mockInvestmentsAPI) Portfolio(_ context.Context) (*domain.PortfolioSummary, error) {
	return &domain.PortfolioSummary{}, m.err
}

func (m *mockInvestmentsAPI) SurplusAnalysis(_ context.Context) (*domain.SurplusAnalysis, error) {
	return m.surplus, m.err
}

func (m *mockInvestmentsAPI) Recommendations(_ context.Context) ([]domain.InvestmentRecommendation, error) {
	return nil, m.err
}

type mockAlertsAPI struct {
	alerts    []domain.Alert
	listCalls int
	listErr   error
	err       error
}

func (m *mockAlertsAPI) List(_ context.Context) ([]domain.Alert, error) {
	m.listCalls++
	if m.listErr != nil {
		return nil, m.listErr
	}
	return append([]domain.Alert(nil), m.alerts...), nil
}

func (m *mockAlertsAPI) MarkRead(_ context.Context, id int64) (*domain.Alert, error) {
	if m.err != nil {
		return nil, m.err
	}
	for i := range m.alerts {
		if m.alerts[i].ID == id {
			m.alerts[i].IsRead = true
		}
	}
	return &domain.Alert{ID: id, IsRead: true}, nil
}

func (m *mockAlertsAPI) Delete(_ context.Context, id int64) error {
	if m.err != nil {
		return m.err
	}
	kept := m.alerts[:0]
	for _, a := range m.alerts {
		if a.ID != id {
			kept = append(kept, a)
		}
	}
	m.alerts = kept
	return nil
}
