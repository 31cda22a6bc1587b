package domain

// Trip is one logged journey.
type Trip struct {
	ID              int64    `json:"id"`
	StartLocation   string   `json:"start_location"`
	EndLocation     string   `json:"end_location"`
	StartTime       Time     `json:"start_time"`
	EndTime         *Time    `json:"end_time,omitempty"`
	Earnings        float64  `json:"earnings"`
	FuelCost        float64  `json:"fuel_cost"`
	TollCost        float64  `json:"toll_cost"`
	OtherExpenses   float64  `json:"other_expenses"`
	NetEarnings     *float64 `json:"net_earnings,omitempty"`
	DistanceKM      *float64 `json:"distance_km,omitempty"`
	DurationMinutes *float64 `json:"duration_minutes,omitempty"`
	Platform        *string  `json:"platform,omitempty"`
	TripType        string   `json:"trip_type"`
	IsHighValueZone bool     `json:"is_high_value_zone"`
	ZoneRating      *float64 `json:"zone_rating,omitempty"`
	Transcription   *string  `json:"transcription,omitempty"`
	Status          string   `json:"status,omitempty"`
	CreatedAt       Time     `json:"created_at"`
}

// Net returns the backend-derived net earnings, or earnings minus costs when
// the backend left it out.
func (t Trip) Net() float64 {
	if t.NetEarnings != nil {
		return *t.NetEarnings
	}
	return t.Earnings - t.FuelCost - t.TollCost - t.OtherExpenses
}

// CreateTripRequest is the body of POST /trips.
type CreateTripRequest struct {
	StartLocation string   `json:"start_location" label:"Start Location" validate:"required"`
	EndLocation   string   `json:"end_location" label:"End Location" validate:"required"`
	StartTime     Time     `json:"start_time"`
	Earnings      float64  `json:"earnings" label:"Earnings" validate:"required"`
	FuelCost      *float64 `json:"fuel_cost,omitempty"`
	TollCost      *float64 `json:"toll_cost,omitempty"`
	OtherExpenses *float64 `json:"other_expenses,omitempty"`
	Platform      *string  `json:"platform,omitempty"`
	TripType      string   `json:"trip_type,omitempty"`
}

// TripUpdate is a partial patch for PATCH /trips/{id}.
type TripUpdate struct {
	EndLocation   *string  `json:"end_location,omitempty"`
	EndTime       *Time    `json:"end_time,omitempty"`
	DistanceKM    *float64 `json:"distance_km,omitempty"`
	Earnings      *float64 `json:"earnings,omitempty"`
	FuelCost      *float64 `json:"fuel_cost,omitempty"`
	TollCost      *float64 `json:"toll_cost,omitempty"`
	OtherExpenses *float64 `json:"other_expenses,omitempty"`
	Status        *string  `json:"status,omitempty"`
}

// TripStats aggregates trips over a window of days.
type TripStats struct {
	TotalTrips          int     `json:"total_trips"`
	TotalEarnings       float64 `json:"total_earnings"`
	TotalExpenses       float64 `json:"total_expenses"`
	NetEarnings         float64 `json:"net_earnings"`
	AverageTripEarnings float64 `json:"average_trip_earnings"`
	HighValueTrips      int     `json:"high_value_trips"`
	BestZone            *string `json:"best_zone,omitempty"`
	BestTimeSlot        *string `json:"best_time_slot,omitempty"`
}

// ZoneRecommendation suggests where to drive next.
type ZoneRecommendation struct {
	ZoneName         string  `json:"zone_name"`
	Latitude         float64 `json:"latitude"`
	Longitude        float64 `json:"longitude"`
	ExpectedEarnings float64 `json:"expected_earnings"`
	ConfidenceScore  float64 `json:"confidence_score"`
	Reason           string  `json:"reason"`
	BestTime         string  `json:"best_time"`
}
