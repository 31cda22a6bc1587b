package ui

import (
	"strconv"
	"strings"

	"github.com/boddenberg/sarathi-client-go/internal/format"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// homeScreen is the dashboard: trip stats and the monthly surplus side by
// side. The two reads are independent.
type homeScreen struct {
	shell *Shell
}

func newHomeScreen(s *Shell) *homeScreen { return &homeScreen{shell: s} }

func (h *homeScreen) Title() string { return "Dashboard" }
func (h *homeScreen) Help() string  { return "" }

func (h *homeScreen) Init() tea.Cmd {
	d, ctx := h.shell.deps, h.shell.ctx
	return tea.Batch(
		run(func() { d.Trips.FetchStats(ctx, d.StatsDays) }),
		run(func() { d.Financial.FetchSurplus(ctx) }),
		run(func() { d.Alerts.FetchAlerts(ctx) }),
	)
}

func (h *homeScreen) Update(tea.Msg) tea.Cmd { return nil }

func (h *homeScreen) View(e env) string {
	d := h.shell.deps
	trips := d.Trips.Snapshot()
	fin := d.Financial.Snapshot()

	if (trips.Loading && trips.Stats == nil) || (fin.Loading && fin.Surplus == nil) {
		return e.loading("dashboard")
	}

	var b strings.Builder
	name := ""
	if u := d.Auth.Snapshot().User; u != nil {
		name = u.Name
	}
	b.WriteString(e.st.Bold.Render("Welcome back!") + " " + name + "\n\n")

	window := "Last " + strconv.Itoa(d.StatsDays) + " days"
	totalTrips, earnings, avg := "0", format.Rupees(0), format.Rupees(0)
	if s := trips.Stats; s != nil {
		totalTrips = strconv.Itoa(s.TotalTrips)
		earnings = format.Rupees(s.TotalEarnings)
		avg = format.Rupees(s.AverageTripEarnings)
	}
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top,
		e.st.Card.Width(26).Render("Total Trips\n"+e.st.Value.Render(totalTrips)+"\n"+e.st.Muted.Render(window)),
		" ",
		e.st.Card.Width(26).Render("Earnings\n"+e.st.Positive.Render(earnings)+"\n"+e.st.Muted.Render(avg+"/trip")),
	))
	b.WriteString("\n")

	engine := e.st.Title.Render("Earnings Engine") + "\n" +
		row(e, "This Month", earnings) +
		row(e, "Average/Trip", avg)
	if s := trips.Stats; s != nil {
		engine += row(e, "Net", format.Rupees(s.NetEarnings)) +
			row(e, "Best Zone", format.StrOr(s.BestZone, format.NA)) +
			row(e, "Best Time", format.StrOr(s.BestTimeSlot, format.NA))
	}
	engine += e.st.Muted.Render("press a to log a new trip")
	b.WriteString(e.st.Card.Render(engine) + "\n")

	if s := fin.Surplus; s != nil {
		growth := e.st.Title.Render("Growth Engine") + "\n" +
			row(e, "Monthly Surplus", e.st.Positive.Render(format.Rupees(s.MonthlySurplus))) +
			row(e, "Savings Rate", format.Percent(s.SurplusPercentage)) +
			row(e, "Emergency Fund", s.EmergencyFundStatus)
		for _, in := range s.Insights {
			growth += e.st.Muted.Render("• "+in) + "\n"
		}
		b.WriteString(e.st.Card.Render(strings.TrimRight(growth, "\n")) + "\n")
	}

	if trips.Error != "" {
		b.WriteString(e.st.Error.Render(trips.Error) + "\n")
	}
	if fin.Error != "" {
		b.WriteString(e.st.Error.Render(fin.Error) + "\n")
	}
	return b.String()
}

// row renders one label/value line.
func row(e env, label, value string) string {
	return e.st.Label.Render(label) + " " + value + "\n"
}
