package domain

// Vehicle is a registered vehicle with its maintenance metadata.
type Vehicle struct {
	ID                int64    `json:"id"`
	VehicleNumber     string   `json:"vehicle_number"`
	VehicleType       string   `json:"vehicle_type"`
	Make              *string  `json:"make,omitempty"`
	Model             *string  `json:"model,omitempty"`
	Year              *int     `json:"year,omitempty"`
	CurrentOdometerKM float64  `json:"current_odometer_km"`
	InsuranceExpiry   *Time    `json:"insurance_expiry,omitempty"`
	LastServiceDate   *Time    `json:"last_service_date,omitempty"`
	NextServiceDueKM  *float64 `json:"next_service_due_km,omitempty"`
	CreatedAt         Time     `json:"created_at"`
}

// CreateVehicleRequest is the body of POST /vehicles.
type CreateVehicleRequest struct {
	VehicleNumber string  `json:"vehicle_number" label:"Vehicle Number" validate:"required"`
	VehicleType   string  `json:"vehicle_type" label:"Vehicle Type" validate:"required"`
	Make          *string `json:"make,omitempty"`
	Model         *string `json:"model,omitempty"`
	Year          *int    `json:"year,omitempty"`
}

// VehicleUpdate is a partial patch for PATCH /vehicles/{id}.
type VehicleUpdate struct {
	Make              *string  `json:"make,omitempty"`
	Model             *string  `json:"model,omitempty"`
	Year              *int     `json:"year,omitempty"`
	CurrentOdometerKM *float64 `json:"current_odometer_km,omitempty"`
	InsuranceExpiry   *Time    `json:"insurance_expiry,omitempty"`
	LastServiceDate   *Time    `json:"last_service_date,omitempty"`
	NextServiceDueKM  *float64 `json:"next_service_due_km,omitempty"`
}

// VehicleHealthCheck is the AI diagnostic produced from uploaded images.
// DetectedIssues entries are free-form; common keys are "component",
// "issue" and "severity".
type VehicleHealthCheck struct {
	ID                      int64            `json:"id"`
	VehicleID               int64            `json:"vehicle_id"`
	CheckType               string           `json:"check_type"`
	ImageURLs               []string         `json:"image_urls,omitempty"`
	AIAnalysis              *string          `json:"ai_analysis,omitempty"`
	DetectedIssues          []map[string]any `json:"detected_issues,omitempty"`
	SeverityScore           *float64         `json:"severity_score,omitempty"`
	TireCondition           *string          `json:"tire_condition,omitempty"`
	EngineOilLevel          *string          `json:"engine_oil_level,omitempty"`
	BrakeCondition          *string          `json:"brake_condition,omitempty"`
	BatteryHealth           *string          `json:"battery_health,omitempty"`
	BodyDamage              *string          `json:"body_damage,omitempty"`
	ImmediateActionRequired bool             `json:"immediate_action_required"`
	Recommendations         *string          `json:"recommendations,omitempty"`
	EstimatedRepairCost     *float64         `json:"estimated_repair_cost,omitempty"`
	CreatedAt               Time             `json:"created_at"`
}

// ConditionScore maps a categorical condition rating to a 0-100 score.
// Unknown or absent ratings score 70.
func ConditionScore(rating *string, good int) int {
	if rating != nil && *rating == "good" {
		return good
	}
	return 70
}
