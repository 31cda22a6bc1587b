package format

import (
	"testing"
	"time"

	"github.com/boddenberg/sarathi-client-go/internal/domain"
)

func TestRupees(t *testing.T) {
	if got := Rupees(4200.4); got != "₹4200" {
		t.Errorf("expected ₹4200, got %q", got)
	}
	if got := Rupees(1234.6); got != "₹1235" {
		t.Errorf("expected ₹1235, got %q", got)
	}
	if got := RupeesOr(nil, Dash); got != "—" {
		t.Errorf("expected placeholder, got %q", got)
	}
}

func TestStrOr(t *testing.T) {
	empty, city := "", "Pune"
	cases := []struct {
		in   *string
		want string
	}{
		{nil, NotSet},
		{&empty, NotSet},
		{&city, "Pune"},
	}
	for _, tc := range cases {
		if got := StrOr(tc.in, NotSet); got != tc.want {
			t.Errorf("expected %q, got %q", tc.want, got)
		}
	}
}

func TestDateOr(t *testing.T) {
	d := domain.Time{Time: time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)}
	if got := DateOr(&d, Dash); got != "01 May 2024" {
		t.Errorf("unexpected date %q", got)
	}
	if got := DateOr(nil, Dash); got != Dash {
		t.Errorf("expected dash, got %q", got)
	}
	if got := DateTime(domain.Time{}); got != Dash {
		t.Errorf("expected dash for zero time, got %q", got)
	}
}

func TestOptString(t *testing.T) {
	if OptString("   ") != nil {
		t.Error("expected nil for blank input")
	}
	if s := OptString(" uber "); s == nil || *s != "uber" {
		t.Errorf("expected trimmed value, got %v", s)
	}
}

func TestTruncate(t *testing.T) {
	if got := Truncate("Koregaon Park", 8); got != "Koreg..." {
		t.Errorf("unexpected %q", got)
	}
	if got := Truncate("Baner", 8); got != "Baner" {
		t.Errorf("unexpected %q", got)
	}
}
