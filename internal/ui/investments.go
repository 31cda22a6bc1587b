package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/boddenberg/sarathi-client-go/internal/domain"
	"github.com/boddenberg/sarathi-client-go/internal/format"
	"github.com/boddenberg/sarathi-client-go/internal/validation"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// investmentsScreen is the Growth tab: portfolio, surplus analysis, AI
// suggestions and the held investments. Each section renders as soon as
// its own read lands.
type investmentsScreen struct {
	shell *Shell
}

func newInvestmentsScreen(s *Shell) *investmentsScreen { return &investmentsScreen{shell: s} }

func (i *investmentsScreen) Title() string { return "Growth Engine" }
func (i *investmentsScreen) Help() string  { return "n new investment · r refresh" }

func (i *investmentsScreen) Init() tea.Cmd {
	d, ctx := i.shell.deps, i.shell.ctx
	return tea.Batch(
		run(func() { d.Financial.FetchPortfolio(ctx) }),
		run(func() { d.Financial.FetchSurplus(ctx) }),
		run(func() { d.Financial.FetchRecommendations(ctx) }),
		run(func() { d.Financial.FetchInvestments(ctx) }),
	)
}

func (i *investmentsScreen) Update(msg tea.Msg) tea.Cmd {
	km, ok := msg.(tea.KeyMsg)
	if !ok {
		return nil
	}
	switch km.String() {
	case "r":
		return i.Init()
	case "n":
		return push(newCreateInvestmentScreen(i.shell))
	}
	return nil
}

func (i *investmentsScreen) View(e env) string {
	st := i.shell.deps.Financial.Snapshot()
	if st.Loading && st.Portfolio == nil && st.Surplus == nil && st.Investments == nil {
		return e.loading("portfolio")
	}

	var b strings.Builder
	if p := st.Portfolio; p != nil {
		returns := format.Rupees(p.TotalReturns) + " (" + format.Percent(p.ReturnsPercentage) + ")"
		if p.TotalReturns >= 0 {
			returns = "+" + returns
		}
		b.WriteString(e.st.Card.Render(
			e.st.Title.Render("Portfolio Overview") + "\n" +
				row(e, "Total Invested", e.st.Value.Render(format.Rupees(p.TotalInvested))) +
				row(e, "Current Value", e.st.Value.Render(format.Rupees(p.CurrentPortfolioValue))) +
				row(e, "Total Returns", e.st.Positive.Render(returns)) +
				row(e, "Active", fmt.Sprint(p.ActiveInvestments)) +
				"Monthly SIPs       " + format.Rupees(p.MonthlyRecurringTotal),
		) + "\n")
	}

	if s := st.Surplus; s != nil {
		body := e.st.Title.Render("Monthly Surplus Analysis") + "\n" +
			row(e, "Monthly Income", format.Rupees(s.MonthlyIncome)) +
			row(e, "Monthly Expenses", e.st.Error.Render(format.Rupees(s.MonthlyExpenses))) +
			row(e, "Surplus", e.st.Positive.Render(format.Rupees(s.MonthlySurplus)+" ("+format.Percent(s.SurplusPercentage)+")")) +
			row(e, "Save", format.Rupees(s.RecommendedSavings)) +
			row(e, "Invest", format.Rupees(s.RecommendedInvestments))
		if len(s.Insights) > 0 {
			body += e.st.Info.Render("💡 Insights") + "\n"
			for _, in := range s.Insights {
				body += e.st.Info.Render("• "+in) + "\n"
			}
		}
		b.WriteString(e.st.Card.Render(strings.TrimRight(body, "\n")) + "\n")
	}

	if len(st.Recommendations) > 0 {
		b.WriteString(e.st.Bold.Render("🤖 AI Investment Recommendations") + "\n")
		for _, r := range st.Recommendations {
			b.WriteString(recommendationView(e, r))
		}
	}

	b.WriteString(e.st.Bold.Render("Active Investments") + "\n")
	if len(st.Investments) == 0 {
		b.WriteString(e.st.Muted.Render("No investments yet. Press n to add one.") + "\n")
	}
	for _, inv := range st.Investments {
		ret := format.Percent(inv.ReturnsPercentage)
		retStyle := e.st.Error
		if inv.ReturnsPercentage > 0 {
			ret = "+" + ret
			retStyle = e.st.Positive
		}
		b.WriteString(fmt.Sprintf("  %s  %s\n    invested %s · value %s · %s\n",
			e.st.Bold.Render(inv.InvestmentName),
			e.st.Muted.Render(inv.InvestmentType),
			format.Rupees(inv.InvestedAmount),
			format.Rupees(inv.CurrentValue),
			retStyle.Render(ret),
		))
	}

	if st.Error != "" {
		b.WriteString("\n" + e.st.Error.Render(st.Error) + "\n")
	}
	return b.String()
}

func recommendationView(e env, r domain.InvestmentRecommendation) string {
	risk := e.st.Muted
	switch r.RiskLevel {
	case "low":
		risk = e.st.Positive
	case "high":
		risk = e.st.Error
	case "medium":
		risk = e.st.Warning
	}
	facts := []string{"Suggested " + e.st.Positive.Render(format.Rupees(r.SuggestedAmount))}
	if r.ExpectedReturnRate != nil {
		facts = append(facts, "Return "+format.NumberOr(r.ExpectedReturnRate, "%.1f%%", format.NA))
	}
	if r.TenureMonths != nil {
		facts = append(facts, "Tenure "+format.IntOr(r.TenureMonths, format.NA)+" months")
	}

	body := e.st.Bold.Render(r.Title) + "  " + risk.Render(r.RiskLevel) + "\n" +
		lipgloss.NewStyle().Width(70).Render(r.Description) + "\n" +
		strings.Join(facts, " · ")
	if r.AIReasoning != nil && *r.AIReasoning != "" {
		body += "\n" + e.st.Muted.Render(format.Truncate(*r.AIReasoning, 120))
	}
	return e.st.Card.Render(body) + "\n"
}

func newCreateInvestmentScreen(s *Shell) *formScreen {
	d := s.deps
	submit := func(v []string) (func(context.Context) error, string) {
		principal, err := parseAmount("Principal", v[2])
		if err != nil {
			return nil, err.Error()
		}
		draft := &domain.CreateInvestmentRequest{
			InvestmentName:  v[0],
			InvestmentType:  v[1],
			PrincipalAmount: principal,
			RiskLevel:       v[5],
			ProviderName:    format.OptString(v[6]),
		}
		if draft.ExpectedReturnRate, err = parseOptAmount("Expected Return", v[3]); err != nil {
			return nil, err.Error()
		}
		if draft.RecurringAmount, err = parseOptAmount("Monthly SIP", v[4]); err != nil {
			return nil, err.Error()
		}
		if draft.RecurringAmount != nil && *draft.RecurringAmount > 0 {
			draft.IsRecurring = true
			monthly := "monthly"
			draft.RecurringFrequency = &monthly
		}
		if problems := validation.Check(draft); problems != nil {
			return nil, validation.Summary(problems)
		}
		return func(ctx context.Context) error {
			_, err := d.Financial.CreateInvestment(ctx, draft)
			return err
		}, ""
	}
	return newFormScreen(s, "New Investment", "Failed to create investment", "Investment added", submit,
		fieldSpec{label: "Name", placeholder: "e.g. SBI Recurring Deposit"},
		fieldSpec{label: "Type", value: "recurring_deposit"},
		fieldSpec{label: "Principal (₹)", placeholder: "5000"},
		fieldSpec{label: "Expected Return %", placeholder: "optional"},
		fieldSpec{label: "Monthly SIP (₹)", placeholder: "optional"},
		fieldSpec{label: "Risk Level", value: "low"},
		fieldSpec{label: "Provider", placeholder: "optional"},
	)
}
