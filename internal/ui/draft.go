package ui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/boddenberg/sarathi-client-go/internal/domain"
)

// parseAmount reads a required number. Blank reads as zero so the
// presence check reports it.
func parseAmount(label, s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("%s must be a number", label)
	}
	return v, nil
}

func parseOptAmount(label, s string) (*float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, fmt.Errorf("%s must be a number", label)
	}
	return &v, nil
}

func parseOptInt(label, s string) (*int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return nil, fmt.Errorf("%s must be a whole number", label)
	}
	return &v, nil
}

func parseOptDate(label, s string) (*domain.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	t, err := domain.ParseTime(s)
	if err != nil {
		return nil, fmt.Errorf("%s must look like 2006-01-02", label)
	}
	return &t, nil
}
