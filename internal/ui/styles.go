// Package ui is the terminal front end: the navigation shell and every
// screen, built on Bubble Tea.
package ui

import "github.com/charmbracelet/lipgloss"

// Palette.
var (
	ColorPrimary = lipgloss.Color("#10b981")
	ColorDark    = lipgloss.Color("#059669")
	ColorMuted   = lipgloss.Color("#6b7280")
	ColorBorder  = lipgloss.Color("#374151")
	ColorDanger  = lipgloss.Color("#ef4444")
	ColorWarning = lipgloss.Color("#f59e0b")
	ColorInfo    = lipgloss.Color("#3b82f6")
)

// Styles holds every style the screens use.
type Styles struct {
	Header    lipgloss.Style
	Tab       lipgloss.Style
	ActiveTab lipgloss.Style
	Title     lipgloss.Style
	Muted     lipgloss.Style
	Bold      lipgloss.Style
	Card      lipgloss.Style
	Value     lipgloss.Style
	Positive  lipgloss.Style
	Error     lipgloss.Style
	Warning   lipgloss.Style
	Info      lipgloss.Style
	Selected  lipgloss.Style
	Label     lipgloss.Style
	Help      lipgloss.Style
	Alert     lipgloss.Style
	Notice    lipgloss.Style
	UserMsg   lipgloss.Style
	AgentMsg  lipgloss.Style
	Spinner   lipgloss.Style
}

// DefaultStyles returns the green Sarathi theme.
func DefaultStyles() Styles {
	return Styles{
		Header: lipgloss.NewStyle().
			Background(ColorDark).
			Foreground(lipgloss.Color("#ffffff")).
			Padding(0, 2).
			Bold(true),

		Tab: lipgloss.NewStyle().
			Foreground(ColorMuted).
			Padding(0, 2),

		ActiveTab: lipgloss.NewStyle().
			Foreground(ColorPrimary).
			Padding(0, 2).
			Bold(true).
			Underline(true),

		Title: lipgloss.NewStyle().
			Foreground(ColorPrimary).
			Bold(true).
			MarginBottom(1),

		Muted: lipgloss.NewStyle().
			Foreground(ColorMuted),

		Bold: lipgloss.NewStyle().
			Bold(true),

		Card: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorBorder).
			Padding(0, 1).
			MarginBottom(1),

		Value: lipgloss.NewStyle().
			Bold(true),

		Positive: lipgloss.NewStyle().
			Foreground(ColorPrimary).
			Bold(true),

		Error: lipgloss.NewStyle().
			Foreground(ColorDanger).
			Bold(true),

		Warning: lipgloss.NewStyle().
			Foreground(ColorWarning),

		Info: lipgloss.NewStyle().
			Foreground(ColorInfo),

		Selected: lipgloss.NewStyle().
			Foreground(ColorPrimary).
			Bold(true),

		Label: lipgloss.NewStyle().
			Foreground(ColorMuted).
			Width(18),

		Help: lipgloss.NewStyle().
			Foreground(ColorMuted).
			Padding(0, 1),

		Alert: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorDanger).
			Foreground(ColorDanger).
			Padding(0, 1),

		Notice: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorPrimary).
			Foreground(ColorPrimary).
			Padding(0, 1),

		UserMsg: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#ffffff")).
			Background(ColorPrimary).
			Padding(0, 1),

		AgentMsg: lipgloss.NewStyle().
			PaddingLeft(1).
			BorderLeft(true).
			BorderStyle(lipgloss.ThickBorder()).
			BorderForeground(ColorPrimary),

		Spinner: lipgloss.NewStyle().
			Foreground(ColorPrimary),
	}
}
