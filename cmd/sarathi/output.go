package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/boddenberg/sarathi-client-go/internal/app"
	"github.com/boddenberg/sarathi-client-go/internal/store"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

var (
	headingStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#10b981"))
	labelStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#6b7280")).Width(20)
	mutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#6b7280"))
	warnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#ef4444")).Bold(true)
)

// errNotSignedIn is returned by commands that need a session.
var errNotSignedIn = errors.New("not signed in: run `sarathi login` first")

// requireSession restores the saved session, refreshing the profile.
func requireSession(ctx context.Context, a *app.App) error {
	a.Auth.LoadUser(ctx)
	if !a.Auth.Snapshot().Authenticated {
		return errNotSignedIn
	}
	return nil
}

// stateErr turns a container's error message into an error.
func stateErr(m store.Meta) error {
	if m.Error == "" {
		return nil
	}
	return errors.New(m.Error)
}

// actionErr reports a failed write with the message the container chose.
func actionErr(err error, m store.Meta) error {
	if err == nil {
		return nil
	}
	if m.Error != "" {
		return errors.New(m.Error)
	}
	return err
}

func heading(w io.Writer, title string) {
	fmt.Fprintln(w, headingStyle.Render(title))
}

func field(w io.Writer, label, value string) {
	fmt.Fprintln(w, labelStyle.Render(label)+" "+value)
}

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(mutedStyle).
		Headers(headers...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return lipgloss.NewStyle().Bold(true).Padding(0, 1)
			}
			return lipgloss.NewStyle().Padding(0, 1)
		})
}

func numOr(v *float64, fallback string) string {
	if v == nil {
		return fallback
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", s)
	}
	return id, nil
}

// optFloat returns nil for a flag left at its zero value.
func optFloat(v float64) *float64 {
	if v == 0 {
		return nil
	}
	return &v
}

