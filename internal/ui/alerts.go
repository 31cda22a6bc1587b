package ui

import (
	"strings"

	"github.com/boddenberg/sarathi-client-go/internal/domain"
	"github.com/boddenberg/sarathi-client-go/internal/format"

	tea "github.com/charmbracelet/bubbletea"
)

type alertsScreen struct {
	shell  *Shell
	cursor int
}

func newAlertsScreen(s *Shell) *alertsScreen { return &alertsScreen{shell: s} }

func (a *alertsScreen) Title() string { return "Alerts" }
func (a *alertsScreen) Help() string  { return "↑/↓ select · enter mark read · d delete · r refresh" }

func (a *alertsScreen) Init() tea.Cmd {
	d, ctx := a.shell.deps, a.shell.ctx
	return run(func() { d.Alerts.FetchAlerts(ctx) })
}

func (a *alertsScreen) Update(msg tea.Msg) tea.Cmd {
	km, ok := msg.(tea.KeyMsg)
	if !ok {
		return nil
	}
	alerts := a.shell.deps.Alerts.Snapshot().Alerts
	d, ctx := a.shell.deps, a.shell.ctx

	switch km.String() {
	case "up", "k":
		if a.cursor > 0 {
			a.cursor--
		}
	case "down", "j":
		if a.cursor < len(alerts)-1 {
			a.cursor++
		}
	case "r":
		return a.Init()
	case "enter":
		if a.cursor < len(alerts) && !alerts[a.cursor].IsRead {
			id := alerts[a.cursor].ID
			return write(a, "Failed to update alert", "", false, func() error { return d.Alerts.MarkRead(ctx, id) })
		}
	case "d":
		if a.cursor < len(alerts) {
			id := alerts[a.cursor].ID
			return write(a, "Failed to delete alert", "Alert deleted", false, func() error { return d.Alerts.Delete(ctx, id) })
		}
	}
	return nil
}

func (a *alertsScreen) View(e env) string {
	st := a.shell.deps.Alerts.Snapshot()
	if st.Loading && st.Alerts == nil {
		return e.loading("alerts")
	}

	var b strings.Builder
	if len(st.Alerts) == 0 {
		b.WriteString(e.st.Muted.Render("You're all caught up.") + "\n")
	}
	if a.cursor >= len(st.Alerts) && len(st.Alerts) > 0 {
		a.cursor = len(st.Alerts) - 1
	}
	for i, al := range st.Alerts {
		b.WriteString(a.alertView(e, al, i == a.cursor))
	}

	if st.Error != "" {
		b.WriteString("\n" + e.st.Error.Render(st.Error) + "\n")
	}
	return b.String()
}

func (a *alertsScreen) alertView(e env, al domain.Alert, selected bool) string {
	marker := "  "
	if !al.IsRead {
		marker = e.st.Positive.Render("● ")
	}
	title := al.Title
	switch al.Priority {
	case "high", "urgent":
		title = e.st.Error.Render(title)
	case "medium":
		title = e.st.Warning.Render(title)
	default:
		title = e.st.Bold.Render(title)
	}
	if selected {
		title = e.st.Selected.Render("› ") + title
	}

	line := marker + title + "  " + e.st.Muted.Render(format.DateTime(al.CreatedAt)) + "\n"
	if selected {
		line += "    " + al.Message + "\n"
		if al.ActionRequired {
			line += "    " + e.st.Info.Render("Action: "+format.StrOr(al.ActionType, "required")) + "\n"
		}
	} else {
		line += "    " + e.st.Muted.Render(format.Truncate(al.Message, 70)) + "\n"
	}
	return line
}
