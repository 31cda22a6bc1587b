package ui

import (
	"context"
	"strconv"
	"strings"

	"github.com/boddenberg/sarathi-client-go/internal/domain"
	"github.com/boddenberg/sarathi-client-go/internal/format"
	"github.com/boddenberg/sarathi-client-go/internal/validation"

	tea "github.com/charmbracelet/bubbletea"
)

type profileScreen struct {
	shell *Shell
}

func newProfileScreen(s *Shell) *profileScreen { return &profileScreen{shell: s} }

func (p *profileScreen) Title() string { return "Profile" }
func (p *profileScreen) Init() tea.Cmd { return nil }
func (p *profileScreen) Help() string  { return "e edit profile · L logout" }

func (p *profileScreen) Update(msg tea.Msg) tea.Cmd {
	km, ok := msg.(tea.KeyMsg)
	if !ok {
		return nil
	}
	switch km.String() {
	case "e":
		if u := p.shell.deps.Auth.Snapshot().User; u != nil {
			return push(newEditProfileScreen(p.shell, *u))
		}
	case "L":
		auth, ctx := p.shell.deps.Auth, p.shell.ctx
		// the shell swaps to the login flow on the auth change
		return write(p, "Logout failed", "", false, func() error { return auth.Logout(ctx) })
	}
	return nil
}

func (p *profileScreen) View(e env) string {
	u := p.shell.deps.Auth.Snapshot().User
	if u == nil {
		return e.loading("profile")
	}

	initial := "U"
	if r := []rune(strings.TrimSpace(u.Name)); len(r) > 0 {
		initial = strings.ToUpper(string(r[0]))
	}

	var b strings.Builder
	b.WriteString(e.st.UserMsg.Render(" "+initial+" ") + "  " + e.st.Title.UnsetMarginBottom().Render(u.Name) + "\n")
	b.WriteString(e.st.Muted.Render(u.PhoneNumber) + "\n\n")

	member := format.Dash
	if !u.CreatedAt.IsZero() {
		member = u.CreatedAt.Local().Format("02 Jan 2006")
	}
	b.WriteString(e.st.Card.Render(
		row(e, "City", format.StrOr(u.City, format.NotSet)) +
			row(e, "Vehicle Type", format.StrOr(u.VehicleType, format.NotSet)) +
			row(e, "Email", format.StrOr(u.Email, format.NotSet)) +
			row(e, "Language", format.StrOr(&u.PreferredLanguage, format.NotSet)) +
			row(e, "Income Target", format.Rupees(u.MonthlyIncomeTarget)) +
			row(e, "Avg. Expenses", format.Rupees(u.MonthlyExpenseAverage)) +
			"Member Since       " + member,
	) + "\n")

	b.WriteString(e.st.Muted.Render("Sarathi "+p.shell.deps.Version+" • Autonomous Resilience Agent") + "\n")
	return b.String()
}

func newEditProfileScreen(s *Shell, u domain.User) *formScreen {
	d := s.deps
	num := func(v float64) string {
		if v == 0 {
			return ""
		}
		return strconv.FormatFloat(v, 'f', -1, 64)
	}
	submit := func(v []string) (func(context.Context) error, string) {
		draft := struct {
			Name string `json:"name" label:"Name" validate:"required"`
		}{Name: strings.TrimSpace(v[0])}
		if problems := validation.Check(draft); problems != nil {
			return nil, validation.Summary(problems)
		}
		upd := &domain.ProfileUpdate{
			Name:              format.OptString(v[0]),
			Email:             format.OptString(v[1]),
			City:              format.OptString(v[2]),
			VehicleType:       format.OptString(v[3]),
			PreferredLanguage: format.OptString(v[4]),
		}
		var err error
		if upd.MonthlyIncomeTarget, err = parseOptAmount("Income Target", v[5]); err != nil {
			return nil, err.Error()
		}
		if upd.MonthlyExpenseAverage, err = parseOptAmount("Avg. Expenses", v[6]); err != nil {
			return nil, err.Error()
		}
		return func(ctx context.Context) error { return d.Auth.UpdateProfile(ctx, upd) }, ""
	}
	return newFormScreen(s, "Edit Profile", "Update failed", "Profile updated", submit,
		fieldSpec{label: "Name", value: u.Name},
		fieldSpec{label: "Email", value: format.StrOr(u.Email, "")},
		fieldSpec{label: "City", value: format.StrOr(u.City, "")},
		fieldSpec{label: "Vehicle Type", value: format.StrOr(u.VehicleType, "")},
		fieldSpec{label: "Language", value: u.PreferredLanguage},
		fieldSpec{label: "Income Target (₹)", value: num(u.MonthlyIncomeTarget)},
		fieldSpec{label: "Avg. Expenses (₹)", value: num(u.MonthlyExpenseAverage)},
	)
}
