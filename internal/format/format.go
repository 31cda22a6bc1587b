// Package format renders domain values for the terminal screens and the
// command output.
package format

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/boddenberg/sarathi-client-go/internal/domain"
)

// Placeholders for absent optional fields.
const (
	NotSet = "Not set"
	NA     = "N/A"
	Dash   = "—"
)

// StrOr returns *s, or fallback when s is nil or empty.
func StrOr(s *string, fallback string) string {
	if s == nil || *s == "" {
		return fallback
	}
	return *s
}

// Rupees formats a whole-rupee amount, e.g. "₹350".
func Rupees(v float64) string {
	return "₹" + strconv.FormatFloat(v, 'f', 0, 64)
}

func RupeesOr(v *float64, fallback string) string {
	if v == nil {
		return fallback
	}
	return Rupees(*v)
}

func NumberOr(v *float64, layout, fallback string) string {
	if v == nil {
		return fallback
	}
	return fmt.Sprintf(layout, *v)
}

func IntOr(v *int, fallback string) string {
	if v == nil {
		return fallback
	}
	return strconv.Itoa(*v)
}

// DateOr formats a calendar date, or returns fallback for a missing one.
func DateOr(t *domain.Time, fallback string) string {
	if t == nil || t.IsZero() {
		return fallback
	}
	return t.Format("02 Jan 2006")
}

// DateTime formats a timestamp in local time.
func DateTime(t domain.Time) string {
	if t.IsZero() {
		return Dash
	}
	return t.Local().Format("02 Jan 15:04")
}

func Percent(v float64) string {
	return strconv.FormatFloat(v, 'f', 1, 64) + "%"
}

// Truncate shortens s to n runes, ending in "...".
func Truncate(s string, n int) string {
	r := []rune(s)
	if n <= 3 || len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}

// OptString returns nil for a blank value.
func OptString(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
