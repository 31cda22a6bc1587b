package ui

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/boddenberg/sarathi-client-go/internal/domain"
	"github.com/boddenberg/sarathi-client-go/internal/format"
	"github.com/boddenberg/sarathi-client-go/internal/validation"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
)

type goalsScreen struct {
	shell  *Shell
	cursor int
	bar    progress.Model
}

func newGoalsScreen(s *Shell) *goalsScreen {
	return &goalsScreen{
		shell: s,
		bar: progress.New(
			progress.WithSolidFill(string(ColorPrimary)),
			progress.WithWidth(40),
			progress.WithoutPercentage(),
		),
	}
}

func (g *goalsScreen) Title() string { return "Financial Goals" }
func (g *goalsScreen) Help() string  { return "↑/↓ select · + add progress · n new goal · r refresh" }

func (g *goalsScreen) Init() tea.Cmd {
	d, ctx := g.shell.deps, g.shell.ctx
	return run(func() { d.Financial.FetchGoals(ctx) })
}

func (g *goalsScreen) Update(msg tea.Msg) tea.Cmd {
	km, ok := msg.(tea.KeyMsg)
	if !ok {
		return nil
	}
	goals := g.shell.deps.Financial.Snapshot().Goals

	switch km.String() {
	case "up", "k":
		if g.cursor > 0 {
			g.cursor--
		}
	case "down", "j":
		if g.cursor < len(goals)-1 {
			g.cursor++
		}
	case "r":
		return g.Init()
	case "n":
		return push(newCreateGoalScreen(g.shell))
	case "+", "=":
		if g.cursor < len(goals) {
			return push(newGoalProgressScreen(g.shell, goals[g.cursor]))
		}
	}
	return nil
}

func (g *goalsScreen) View(e env) string {
	st := g.shell.deps.Financial.Snapshot()
	if st.Loading && st.Goals == nil {
		return e.loading("goals")
	}

	var b strings.Builder
	if len(st.Goals) == 0 {
		b.WriteString(e.st.Muted.Render("No goals set yet. Start by creating your first financial goal! Press n.") + "\n")
	}
	if g.cursor >= len(st.Goals) && len(st.Goals) > 0 {
		g.cursor = len(st.Goals) - 1
	}

	for i, goal := range st.Goals {
		title := e.st.Bold.Render(goal.GoalName) + "  " + e.st.Muted.Render(goal.GoalType) + "  " + g.status(e, goal.Status)
		if i == g.cursor {
			title = e.st.Selected.Render("› ") + title
		}
		pct := goal.Completion()
		body := title + "\n" +
			g.bar.ViewAs(pct/100) + " " + e.st.Value.Render(strconv.FormatFloat(pct, 'f', 1, 64)+"%") + "\n" +
			fmt.Sprintf("Current %s · Target %s · Monthly %s",
				e.st.Value.Render(format.Rupees(goal.CurrentAmount)),
				e.st.Value.Render(format.Rupees(goal.TargetAmount)),
				e.st.Positive.Render(format.Rupees(goal.MonthlyContribution)),
			)
		if goal.TargetDate != nil && !goal.TargetDate.IsZero() {
			body += "\n" + e.st.Muted.Render("Target date "+format.DateOr(goal.TargetDate, format.Dash))
		}
		b.WriteString(e.st.Card.Render(body) + "\n")
	}

	if st.Error != "" {
		b.WriteString(e.st.Error.Render(st.Error) + "\n")
	}
	return b.String()
}

func (g *goalsScreen) status(e env, status string) string {
	switch status {
	case "completed":
		return e.st.Positive.Render(status)
	case "active":
		return e.st.Info.Render(status)
	}
	return e.st.Muted.Render(format.StrOr(&status, format.Dash))
}

// ============================================================
// Goal forms (stack)
// ============================================================

func newCreateGoalScreen(s *Shell) *formScreen {
	d := s.deps
	submit := func(v []string) (func(context.Context) error, string) {
		target, err := parseAmount("Target Amount", v[2])
		if err != nil {
			return nil, err.Error()
		}
		draft := &domain.CreateGoalRequest{
			GoalName:     v[0],
			GoalType:     v[1],
			TargetAmount: target,
			Description:  format.OptString(v[5]),
		}
		if draft.MonthlyContribution, err = parseOptAmount("Monthly Contribution", v[3]); err != nil {
			return nil, err.Error()
		}
		if draft.TargetDate, err = parseOptDate("Target Date", v[4]); err != nil {
			return nil, err.Error()
		}
		if problems := validation.Check(draft); problems != nil {
			return nil, validation.Summary(problems)
		}
		return func(ctx context.Context) error {
			_, err := d.Financial.CreateGoal(ctx, draft)
			return err
		}, ""
	}
	return newFormScreen(s, "New Goal", "Failed to create goal", "Goal created", submit,
		fieldSpec{label: "Goal Name", placeholder: "e.g. New vehicle"},
		fieldSpec{label: "Goal Type", value: "savings"},
		fieldSpec{label: "Target Amount (₹)", placeholder: "50000"},
		fieldSpec{label: "Monthly (₹)", placeholder: "optional"},
		fieldSpec{label: "Target Date", placeholder: "YYYY-MM-DD"},
		fieldSpec{label: "Description", placeholder: "optional"},
	)
}

func newGoalProgressScreen(s *Shell, goal domain.Goal) *formScreen {
	d := s.deps
	submit := func(v []string) (func(context.Context) error, string) {
		amount, err := parseAmount("Amount", v[0])
		if err != nil {
			return nil, err.Error()
		}
		if amount <= 0 {
			return nil, "Amount: must be greater than zero"
		}
		notes := format.OptString(v[1])
		return func(ctx context.Context) error {
			return d.Financial.AddGoalProgress(ctx, goal.ID, amount, notes)
		}, ""
	}
	return newFormScreen(s, "Add to "+goal.GoalName, "Failed to add progress", "Progress saved", submit,
		fieldSpec{label: "Amount (₹)", placeholder: "500"},
		fieldSpec{label: "Notes", placeholder: "optional"},
	)
}
