package ui

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// fieldSpec describes one form input.
type fieldSpec struct {
	label       string
	placeholder string
	value       string
	secret      bool
}

// form is a vertical list of text inputs. It is the local draft of a form
// screen: nothing reaches a container until the form is submitted.
type form struct {
	labels  []string
	inputs  []textinput.Model
	focus   int
	problem string
	busy    bool
}

func newForm(specs ...fieldSpec) *form {
	f := &form{
		labels: make([]string, len(specs)),
		inputs: make([]textinput.Model, len(specs)),
	}
	for i, sp := range specs {
		ti := textinput.New()
		ti.Prompt = ""
		ti.Placeholder = sp.placeholder
		ti.CharLimit = 120
		ti.SetValue(sp.value)
		if sp.secret {
			ti.EchoMode = textinput.EchoPassword
			ti.EchoCharacter = '•'
		}
		f.labels[i] = sp.label
		f.inputs[i] = ti
	}
	if len(f.inputs) > 0 {
		f.inputs[0].Focus()
	}
	return f
}

func (f *form) value(i int) string {
	return strings.TrimSpace(f.inputs[i].Value())
}

func (f *form) values() []string {
	out := make([]string, len(f.inputs))
	for i := range f.inputs {
		out[i] = f.value(i)
	}
	return out
}

func (f *form) setFocus(i int) tea.Cmd {
	f.inputs[f.focus].Blur()
	f.focus = i
	return f.inputs[i].Focus()
}

// update moves focus or edits the focused input. submit is true when enter
// is pressed on the last field.
func (f *form) update(msg tea.Msg) (submit bool, cmd tea.Cmd) {
	if km, ok := msg.(tea.KeyMsg); ok {
		switch km.String() {
		case "tab", "down":
			return false, f.setFocus((f.focus + 1) % len(f.inputs))
		case "shift+tab", "up":
			return false, f.setFocus((f.focus + len(f.inputs) - 1) % len(f.inputs))
		case "enter":
			if f.focus == len(f.inputs)-1 {
				return !f.busy, nil
			}
			return false, f.setFocus(f.focus + 1)
		}
	}
	f.inputs[f.focus], cmd = f.inputs[f.focus].Update(msg)
	return false, cmd
}

func (f *form) view(e env) string {
	var b strings.Builder
	for i, ti := range f.inputs {
		label := e.st.Label.Render(f.labels[i])
		if i == f.focus {
			label = e.st.Selected.Width(18).Render("› " + f.labels[i])
		}
		b.WriteString(label + " " + ti.View() + "\n")
	}
	if f.problem != "" {
		b.WriteString("\n" + e.st.Error.Render(f.problem) + "\n")
	}
	if f.busy {
		b.WriteString("\n" + e.spinner + " " + e.st.Muted.Render("Submitting...") + "\n")
	}
	return b.String()
}

// ============================================================
// Generic form screen
// ============================================================

// submitFunc turns the field values into a write action, or returns a
// problem to show under the form.
type submitFunc func(vals []string) (action func(ctx context.Context) error, problem string)

// formScreen is a stack screen around a form. On success it pops itself
// and shows done.
type formScreen struct {
	shell    *Shell
	title    string
	form     *form
	submit   submitFunc
	fallback string
	done     string
}

func newFormScreen(s *Shell, title, fallback, done string, submit submitFunc, specs ...fieldSpec) *formScreen {
	return &formScreen{
		shell:    s,
		title:    title,
		form:     newForm(specs...),
		submit:   submit,
		fallback: fallback,
		done:     done,
	}
}

func (f *formScreen) Title() string { return f.title }
func (f *formScreen) Init() tea.Cmd { return textinput.Blink }
func (f *formScreen) Help() string  { return "tab next field · enter submit" }

func (f *formScreen) Update(msg tea.Msg) tea.Cmd {
	// failures are shown by the shell as an alert
	if _, ok := msg.(resultMsg); ok {
		f.form.busy = false
		return nil
	}

	submit, cmd := f.form.update(msg)
	if !submit {
		return cmd
	}

	action, problem := f.submit(f.form.values())
	if problem != "" {
		f.form.problem = problem
		return nil
	}
	f.form.problem = ""
	f.form.busy = true
	ctx := f.shell.ctx
	return write(f, f.fallback, f.done, true, func() error { return action(ctx) })
}

func (f *formScreen) View(e env) string {
	return f.form.view(e)
}
