package store

import (
	"context"

	"github.com/boddenberg/sarathi-client-go/internal/domain"
	"github.com/boddenberg/sarathi-client-go/internal/infra/observability"
	"github.com/boddenberg/sarathi-client-go/internal/port"

	"go.uber.org/zap"
)

// VehiclesState is the vehicles slice of client state. HealthChecks is
// keyed by vehicle ID, newest first.
type VehiclesState struct {
	Meta
	Vehicles     []domain.Vehicle                      `json:"vehicles"`
	Selected     *domain.Vehicle                       `json:"selected,omitempty"`
	HealthChecks map[int64][]domain.VehicleHealthCheck `json:"health_checks"`
}

// Checks returns the health checks held for a vehicle.
func (s VehiclesState) Checks(vehicleID int64) []domain.VehicleHealthCheck {
	return s.HealthChecks[vehicleID]
}

// VehiclesStore owns the registered vehicles, the selection and the
// health-check history per vehicle.
type VehiclesStore struct {
	c   *container[VehiclesState]
	api port.VehiclesAPI
}

// NewVehiclesStore creates an empty VehiclesStore.
func NewVehiclesStore(api port.VehiclesAPI, metrics *observability.Metrics, logger *zap.Logger) *VehiclesStore {
	return &VehiclesStore{
		c:   newContainer("vehicles", VehiclesState{HealthChecks: map[int64][]domain.VehicleHealthCheck{}}, metrics, logger),
		api: api,
	}
}

// Snapshot returns the current vehicles state.
func (s *VehiclesStore) Snapshot() VehiclesState {
	st, meta := s.c.snapshot()
	st.Meta = meta
	return st
}

// Subscribe registers fn for state changes.
func (s *VehiclesStore) Subscribe(fn func()) func() {
	return s.c.Subscribe(fn)
}

// FetchVehicles replaces the list and selects its first vehicle, or none
// when the list is empty.
func (s *VehiclesStore) FetchVehicles(ctx context.Context) {
	s.c.begin()
	vehicles, err := s.api.List(ctx)
	if err != nil {
		s.c.fail("fetch_vehicles", "Failed to fetch vehicles", err)
		return
	}
	s.c.succeed("fetch_vehicles", func(st *VehiclesState) {
		st.Vehicles = vehicles
		st.Selected = nil
		if len(vehicles) > 0 {
			first := vehicles[0]
			st.Selected = &first
		}
	})
}

// SelectVehicle makes the vehicle with id the selection. It reports false
// when no such vehicle is held.
func (s *VehiclesStore) SelectVehicle(id int64) bool {
	found := false
	s.c.set(func(st *VehiclesState) {
		for _, v := range st.Vehicles {
			if v.ID == id {
				v := v
				st.Selected = &v
				found = true
				return
			}
		}
	})
	return found
}

// CreateVehicle registers a vehicle and appends it. It becomes the
// selection when nothing was selected.
func (s *VehiclesStore) CreateVehicle(ctx context.Context, req *domain.CreateVehicleRequest) (*domain.Vehicle, error) {
	s.c.begin()
	v, err := s.api.Create(ctx, req)
	if err != nil {
		s.c.fail("create_vehicle", "Failed to create vehicle", err)
		return nil, err
	}
	s.c.succeed("create_vehicle", func(st *VehiclesState) {
		vehicles := make([]domain.Vehicle, 0, len(st.Vehicles)+1)
		st.Vehicles = append(append(vehicles, st.Vehicles...), *v)
		if st.Selected == nil {
			sel := *v
			st.Selected = &sel
		}
	})
	return v, nil
}

// UpdateVehicle applies a partial update, replacing the vehicle in the
// list and in the selection.
func (s *VehiclesStore) UpdateVehicle(ctx context.Context, id int64, upd *domain.VehicleUpdate) (*domain.Vehicle, error) {
	s.c.begin()
	v, err := s.api.Update(ctx, id, upd)
	if err != nil {
		s.c.fail("update_vehicle", "Failed to update vehicle", err)
		return nil, err
	}
	s.c.succeed("update_vehicle", func(st *VehiclesState) {
		st.Vehicles = replaceWhere(st.Vehicles, func(x domain.Vehicle) bool { return x.ID == id }, *v)
		if st.Selected != nil && st.Selected.ID == id {
			sel := *v
			st.Selected = &sel
		}
	})
	return v, nil
}

// FetchHealthChecks loads the history of one vehicle.
func (s *VehiclesStore) FetchHealthChecks(ctx context.Context, vehicleID int64) {
	s.c.begin()
	checks, err := s.api.HealthChecks(ctx, vehicleID)
	if err != nil {
		s.c.fail("fetch_health_checks", "Failed to fetch health checks", err)
		return
	}
	s.c.succeed("fetch_health_checks", func(st *VehiclesState) {
		st.HealthChecks = withChecks(st.HealthChecks, vehicleID, checks)
	})
}

// UploadHealthCheck submits photos for diagnosis. The resulting check is
// prepended to that vehicle's history only.
func (s *VehiclesStore) UploadHealthCheck(ctx context.Context, vehicleID int64, images []domain.Attachment) (*domain.VehicleHealthCheck, error) {
	s.c.begin()
	check, err := s.api.UploadHealthCheck(ctx, vehicleID, images)
	if err != nil {
		s.c.fail("upload_health_check", "Failed to upload images", err)
		return nil, err
	}
	s.c.succeed("upload_health_check", func(st *VehiclesState) {
		st.HealthChecks = withChecks(st.HealthChecks, vehicleID, prepend(*check, st.HealthChecks[vehicleID]))
	})
	return check, nil
}

func withChecks(m map[int64][]domain.VehicleHealthCheck, vehicleID int64, checks []domain.VehicleHealthCheck) map[int64][]domain.VehicleHealthCheck {
	out := make(map[int64][]domain.VehicleHealthCheck, len(m)+1)
	for k, v := range m {
		out[k] = v
	}
	out[vehicleID] = checks
	return out
}
