package ui

import (
	"github.com/boddenberg/sarathi-client-go/internal/domain"
	"github.com/boddenberg/sarathi-client-go/internal/format"
	"github.com/boddenberg/sarathi-client-go/internal/validation"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// ============================================================
// Login
// ============================================================

type loginScreen struct {
	shell *Shell
	form  *form
}

func newLoginScreen(s *Shell) *loginScreen {
	return &loginScreen{
		shell: s,
		form: newForm(
			fieldSpec{label: "Phone Number", placeholder: "Enter your phone number"},
			fieldSpec{label: "Password", placeholder: "Enter your password", secret: true},
		),
	}
}

func (l *loginScreen) Title() string { return "Sign In" }
func (l *loginScreen) Init() tea.Cmd { return textinput.Blink }
func (l *loginScreen) Help() string  { return "enter sign in · ctrl+r create account" }

func (l *loginScreen) Update(msg tea.Msg) tea.Cmd {
	if _, ok := msg.(resultMsg); ok {
		l.form.busy = false
		return nil
	}
	if km, ok := msg.(tea.KeyMsg); ok && km.String() == "ctrl+r" {
		return func() tea.Msg { return showAuthMsg{register: true} }
	}

	submit, cmd := l.form.update(msg)
	if !submit {
		return cmd
	}

	draft := &domain.LoginRequest{PhoneNumber: l.form.value(0), Password: l.form.value(1)}
	if problems := validation.Check(draft); problems != nil {
		l.form.problem = validation.Summary(problems)
		return nil
	}
	l.form.problem = ""
	l.form.busy = true

	auth, ctx := l.shell.deps.Auth, l.shell.ctx
	// no fallback: the auth container's error is shown inline
	return func() tea.Msg {
		return resultMsg{from: l, err: auth.Login(ctx, draft.PhoneNumber, draft.Password)}
	}
}

func (l *loginScreen) View(e env) string {
	st := l.shell.deps.Auth.Snapshot()
	out := e.st.Muted.Render("Your AI co-pilot for earnings, vehicle health and savings.") + "\n\n"
	if st.Loading && !l.form.busy {
		return out + e.loading("session")
	}
	out += l.form.view(e)
	if st.Error != "" && !l.form.busy {
		out += "\n" + e.st.Error.Render(st.Error) + "\n"
	}
	return out
}

// ============================================================
// Register
// ============================================================

type registerScreen struct {
	shell *Shell
	form  *form
}

func newRegisterScreen(s *Shell) *registerScreen {
	return &registerScreen{
		shell: s,
		form: newForm(
			fieldSpec{label: "Full Name", placeholder: "Enter your full name"},
			fieldSpec{label: "Phone Number", placeholder: "Enter your phone number"},
			fieldSpec{label: "City", placeholder: "Enter your city"},
			fieldSpec{label: "Vehicle Type", value: "auto"},
			fieldSpec{label: "Password", placeholder: "Create a password", secret: true},
			fieldSpec{label: "Confirm Password", placeholder: "Confirm your password", secret: true},
		),
	}
}

func (r *registerScreen) Title() string { return "Create Account" }
func (r *registerScreen) Init() tea.Cmd { return textinput.Blink }
func (r *registerScreen) Help() string  { return "enter create account · esc sign in" }

func (r *registerScreen) Update(msg tea.Msg) tea.Cmd {
	if res, ok := msg.(resultMsg); ok {
		r.form.busy = false
		if res.err == nil {
			return tea.Batch(
				func() tea.Msg { return showAuthMsg{} },
				notice("Account created. Please sign in."),
			)
		}
		return nil
	}
	if km, ok := msg.(tea.KeyMsg); ok && km.String() == "esc" {
		return func() tea.Msg { return showAuthMsg{} }
	}

	submit, cmd := r.form.update(msg)
	if !submit {
		return cmd
	}

	v := r.form.values()
	if v[4] != v[5] {
		r.form.problem = "Passwords do not match"
		return nil
	}
	draft := &domain.RegisterRequest{
		Name:        v[0],
		PhoneNumber: v[1],
		City:        format.OptString(v[2]),
		VehicleType: format.OptString(v[3]),
		Password:    v[4],
	}
	if problems := validation.Check(draft); problems != nil {
		r.form.problem = validation.Summary(problems)
		return nil
	}
	r.form.problem = ""
	r.form.busy = true

	auth, ctx := r.shell.deps.Auth, r.shell.ctx
	return func() tea.Msg {
		return resultMsg{from: r, err: auth.Register(ctx, draft)}
	}
}

func (r *registerScreen) View(e env) string {
	st := r.shell.deps.Auth.Snapshot()
	out := r.form.view(e)
	if st.Error != "" && !r.form.busy {
		out += "\n" + e.st.Error.Render(st.Error) + "\n"
	}
	return out
}
