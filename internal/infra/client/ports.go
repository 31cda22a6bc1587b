package client

import "github.com/boddenberg/sarathi-client-go/internal/port"

var (
	_ port.AuthAPI        = (*AuthClient)(nil)
	_ port.TripsAPI       = (*TripsClient)(nil)
	_ port.VehiclesAPI    = (*VehiclesClient)(nil)
	_ port.GoalsAPI       = (*GoalsClient)(nil)
	_ port.InvestmentsAPI = (*InvestmentsClient)(nil)
	_ port.AlertsAPI      = (*AlertsClient)(nil)
	_ port.AgentAPI       = (*AgentClient)(nil)
)
