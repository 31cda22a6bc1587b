package domain_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/boddenberg/sarathi-client-go/internal/domain"
)

func TestAPIError_DetailMessage_JoinsFieldMessages(t *testing.T) {
	err := &domain.APIError{
		Status: 422,
		Fields: []domain.FieldError{
			{Msg: "field required"},
			{Msg: "value is not a valid float"},
		},
	}

	want := "field required, value is not a valid float"
	if got := err.DetailMessage(); got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestAPIError_DetailMessage_String(t *testing.T) {
	err := &domain.APIError{Status: 401, Detail: "Incorrect phone number or password"}

	if got := err.DetailMessage(); got != "Incorrect phone number or password" {
		t.Errorf("unexpected detail %q", got)
	}
	if err.Error() != "api error 401: Incorrect phone number or password" {
		t.Errorf("unexpected error string %q", err.Error())
	}
}

func TestTime_UnmarshalNaive(t *testing.T) {
	cases := map[string]time.Time{
		`"2024-03-01T10:30:00"`:        time.Date(2024, 3, 1, 10, 30, 0, 0, time.UTC),
		`"2024-03-01T10:30:00.123456"`: time.Date(2024, 3, 1, 10, 30, 0, 123456000, time.UTC),
		`"2024-03-01T10:30:00Z"`:       time.Date(2024, 3, 1, 10, 30, 0, 0, time.UTC),
		`"2024-03-01"`:                 time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
	}

	for in, want := range cases {
		var got domain.Time
		if err := json.Unmarshal([]byte(in), &got); err != nil {
			t.Fatalf("%s: unexpected error %v", in, err)
		}
		if !got.Equal(want) {
			t.Errorf("%s: expected %v, got %v", in, want, got.Time)
		}
	}
}

func TestTime_NullAndInvalid(t *testing.T) {
	var got domain.Time
	if err := json.Unmarshal([]byte(`null`), &got); err != nil {
		t.Fatalf("unexpected error %v", err)
	}
	if !got.IsZero() {
		t.Error("expected zero time for null")
	}

	if err := json.Unmarshal([]byte(`"yesterday"`), &got); err == nil {
		t.Error("expected error for unparseable time")
	}
}

func TestTrip_Net(t *testing.T) {
	trip := domain.Trip{Earnings: 500, FuelCost: 120, TollCost: 30, OtherExpenses: 10}
	if trip.Net() != 340 {
		t.Errorf("expected 340, got %v", trip.Net())
	}

	net := 300.0
	trip.NetEarnings = &net
	if trip.Net() != 300 {
		t.Errorf("expected backend net 300, got %v", trip.Net())
	}
}

func TestConditionScore(t *testing.T) {
	good := "good"
	fair := "fair"

	if domain.ConditionScore(&good, 90) != 90 {
		t.Error("expected good rating to score 90")
	}
	if domain.ConditionScore(&fair, 90) != 70 {
		t.Error("expected fair rating to score 70")
	}
	if domain.ConditionScore(nil, 85) != 70 {
		t.Error("expected missing rating to score 70")
	}
}

func TestGoal_Completion(t *testing.T) {
	tests := []struct {
		name string
		goal domain.Goal
		want float64
	}{
		{"completion field", domain.Goal{CompletionPercentage: 42.5}, 42.5},
		{"legacy field", domain.Goal{PercentageComplete: 30}, 30},
		{"over target", domain.Goal{CompletionPercentage: 130}, 100},
		{"none", domain.Goal{}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.goal.Completion(); got != tt.want {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
		})
	}
}
