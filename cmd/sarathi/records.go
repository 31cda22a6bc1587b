package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/boddenberg/sarathi-client-go/internal/domain"
	"github.com/boddenberg/sarathi-client-go/internal/format"
	"github.com/boddenberg/sarathi-client-go/internal/validation"

	"github.com/spf13/cobra"
)

// ============================================================
// Vehicles
// ============================================================

var vehiclesCmd = &cobra.Command{
	Use:   "vehicles",
	Short: "List registered vehicles",
	Args:  cobra.NoArgs,
	RunE:  runVehiclesList,
}

var addVehicle struct {
	number, vehicleType, make, model string
	year                             int
}

var vehiclesAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Register a vehicle",
	Args:  cobra.NoArgs,
	RunE:  runVehiclesAdd,
}

var vehiclesCheckCmd = &cobra.Command{
	Use:   "check ID PHOTO...",
	Short: "Upload photos for an AI health check",
	Args:  cobra.MinimumNArgs(2),
	RunE:  runVehiclesCheck,
}

var vehiclesHistoryCmd = &cobra.Command{
	Use:   "history ID",
	Short: "Show past health checks of a vehicle",
	Args:  cobra.ExactArgs(1),
	RunE:  runVehiclesHistory,
}

func init() {
	f := vehiclesAddCmd.Flags()
	f.StringVar(&addVehicle.number, "number", "", "registration number")
	f.StringVar(&addVehicle.vehicleType, "type", "auto", "vehicle type: auto, bike, car")
	f.StringVar(&addVehicle.make, "make", "", "manufacturer")
	f.StringVar(&addVehicle.model, "model", "", "model")
	f.IntVar(&addVehicle.year, "year", 0, "model year")

	vehiclesCmd.AddCommand(vehiclesAddCmd, vehiclesCheckCmd, vehiclesHistoryCmd)
}

func runVehiclesList(cmd *cobra.Command, _ []string) error {
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer closeApp(a)

	ctx := cmd.Context()
	if err := requireSession(ctx, a); err != nil {
		return err
	}
	a.Vehicles.FetchVehicles(ctx)
	st := a.Vehicles.Snapshot()
	if err := stateErr(st.Meta); err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	if len(st.Vehicles) == 0 {
		fmt.Fprintln(w, "No vehicles registered. Add one with `sarathi vehicles add`.")
		return nil
	}
	t := newTable("ID", "Number", "Type", "Make", "Model", "Odometer", "Insurance")
	for _, v := range st.Vehicles {
		year := format.NotSet
		if v.Year != nil {
			year = strconv.Itoa(*v.Year)
		}
		t.Row(
			strconv.FormatInt(v.ID, 10),
			v.VehicleNumber,
			v.VehicleType,
			format.StrOr(v.Make, format.NotSet),
			format.StrOr(v.Model, format.NotSet)+" ("+year+")",
			strconv.FormatFloat(v.CurrentOdometerKM, 'f', 0, 64)+" km",
			format.DateOr(v.InsuranceExpiry, format.NotSet),
		)
	}
	fmt.Fprintln(w, t.Render())
	return nil
}

func runVehiclesAdd(cmd *cobra.Command, _ []string) error {
	draft := &domain.CreateVehicleRequest{
		VehicleNumber: addVehicle.number,
		VehicleType:   addVehicle.vehicleType,
		Make:          format.OptString(addVehicle.make),
		Model:         format.OptString(addVehicle.model),
	}
	if addVehicle.year > 0 {
		draft.Year = &addVehicle.year
	}
	if err := validation.Validate(draft); err != nil {
		return err
	}

	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer closeApp(a)

	ctx := cmd.Context()
	if err := requireSession(ctx, a); err != nil {
		return err
	}
	v, err := a.Vehicles.CreateVehicle(ctx, draft)
	if err != nil {
		return actionErr(err, a.Vehicles.Snapshot().Meta)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Vehicle %s registered with id %d.\n", v.VehicleNumber, v.ID)
	return nil
}

func runVehiclesCheck(cmd *cobra.Command, args []string) error {
	id, err := parseID(args[0])
	if err != nil {
		return err
	}
	images := make([]domain.Attachment, 0, len(args)-1)
	for i, path := range args[1:] {
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("cannot read %s: %w", filepath.Base(path), err)
		}
		images = append(images, domain.Attachment{
			FileName:    fmt.Sprintf("vehicle_%d.jpg", i),
			ContentType: "image/jpeg",
			Data:        data,
		})
	}

	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer closeApp(a)

	ctx := cmd.Context()
	if err := requireSession(ctx, a); err != nil {
		return err
	}
	check, err := a.Vehicles.UploadHealthCheck(ctx, id, images)
	if err != nil {
		return actionErr(err, a.Vehicles.Snapshot().Meta)
	}
	w := cmd.OutOrStdout()
	heading(w, "Vehicle diagnostics completed!")
	printCheck(w, *check)
	return nil
}

func runVehiclesHistory(cmd *cobra.Command, args []string) error {
	id, err := parseID(args[0])
	if err != nil {
		return err
	}
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer closeApp(a)

	ctx := cmd.Context()
	if err := requireSession(ctx, a); err != nil {
		return err
	}
	a.Vehicles.FetchHealthChecks(ctx, id)
	st := a.Vehicles.Snapshot()
	if err := stateErr(st.Meta); err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	checks := st.Checks(id)
	if len(checks) == 0 {
		fmt.Fprintln(w, "No health checks yet.")
		return nil
	}
	for i, c := range checks {
		if i > 0 {
			fmt.Fprintln(w)
		}
		printCheck(w, c)
	}
	return nil
}

func printCheck(w io.Writer, c domain.VehicleHealthCheck) {
	heading(w, c.CreatedAt.Local().Format("02 Jan 2006 15:04")+" · "+c.CheckType)
	if c.ImmediateActionRequired {
		fmt.Fprintln(w, warnStyle.Render("Immediate action required"))
	}
	field(w, "Engine Oil", format.StrOr(c.EngineOilLevel, format.NA))
	field(w, "Tires", format.StrOr(c.TireCondition, format.NA))
	field(w, "Brakes", format.StrOr(c.BrakeCondition, format.NA))
	field(w, "Battery", format.StrOr(c.BatteryHealth, format.NA))
	field(w, "Body", format.StrOr(c.BodyDamage, format.NA))
	if c.EstimatedRepairCost != nil {
		field(w, "Repair Estimate", format.Rupees(*c.EstimatedRepairCost))
	}
	for _, issue := range c.DetectedIssues {
		component, _ := issue["component"].(string)
		desc, _ := issue["issue"].(string)
		severity, _ := issue["severity"].(string)
		fmt.Fprintln(w, mutedStyle.Render(fmt.Sprintf("• %s: %s (%s)", component, desc, severity)))
	}
	if c.Recommendations != nil {
		fmt.Fprintln(w, *c.Recommendations)
	}
}

// ============================================================
// Goals
// ============================================================

var goalsCmd = &cobra.Command{
	Use:   "goals",
	Short: "List savings goals",
	Args:  cobra.NoArgs,
	RunE:  runGoalsList,
}

var addGoal struct {
	name, goalType, date string
	target, monthly      float64
}

var goalsAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Create a savings goal",
	Args:  cobra.NoArgs,
	RunE:  runGoalsAdd,
}

var progressNotes string

var goalsProgressCmd = &cobra.Command{
	Use:   "progress ID AMOUNT",
	Short: "Record a contribution to a goal",
	Args:  cobra.ExactArgs(2),
	RunE:  runGoalsProgress,
}

func init() {
	f := goalsAddCmd.Flags()
	f.StringVar(&addGoal.name, "name", "", "goal name")
	f.StringVar(&addGoal.goalType, "type", "savings", "goal type: savings, emergency_fund, vehicle, education")
	f.Float64Var(&addGoal.target, "target", 0, "target amount (₹)")
	f.Float64Var(&addGoal.monthly, "monthly", 0, "planned monthly contribution (₹)")
	f.StringVar(&addGoal.date, "date", "", "target date (YYYY-MM-DD)")

	goalsProgressCmd.Flags().StringVar(&progressNotes, "notes", "", "note for this contribution")

	goalsCmd.AddCommand(goalsAddCmd, goalsProgressCmd)
}

func runGoalsList(cmd *cobra.Command, _ []string) error {
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer closeApp(a)

	ctx := cmd.Context()
	if err := requireSession(ctx, a); err != nil {
		return err
	}
	a.Financial.FetchGoals(ctx)
	st := a.Financial.Snapshot()
	if err := stateErr(st.Meta); err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	if len(st.Goals) == 0 {
		fmt.Fprintln(w, "No goals yet. Create one with `sarathi goals add`.")
		return nil
	}
	t := newTable("ID", "Goal", "Saved", "Target", "Progress", "Monthly", "Status")
	for _, g := range st.Goals {
		t.Row(
			strconv.FormatInt(g.ID, 10),
			g.GoalName,
			format.Rupees(g.CurrentAmount),
			format.Rupees(g.TargetAmount),
			strconv.FormatFloat(g.Completion(), 'f', 0, 64)+"%",
			format.Rupees(g.MonthlyContribution),
			g.Status,
		)
	}
	fmt.Fprintln(w, t.Render())
	return nil
}

func runGoalsAdd(cmd *cobra.Command, _ []string) error {
	draft := &domain.CreateGoalRequest{
		GoalName:            addGoal.name,
		GoalType:            addGoal.goalType,
		TargetAmount:        addGoal.target,
		MonthlyContribution: optFloat(addGoal.monthly),
	}
	if addGoal.date != "" {
		d, err := domain.ParseTime(addGoal.date)
		if err != nil {
			return fmt.Errorf("invalid --date: %w", err)
		}
		draft.TargetDate = &d
	}
	if err := validation.Validate(draft); err != nil {
		return err
	}

	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer closeApp(a)

	ctx := cmd.Context()
	if err := requireSession(ctx, a); err != nil {
		return err
	}
	g, err := a.Financial.CreateGoal(ctx, draft)
	if err != nil {
		return actionErr(err, a.Financial.Snapshot().Meta)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Goal %q created with id %d.\n", g.GoalName, g.ID)
	return nil
}

func runGoalsProgress(cmd *cobra.Command, args []string) error {
	id, err := parseID(args[0])
	if err != nil {
		return err
	}
	amount, err := strconv.ParseFloat(args[1], 64)
	if err != nil || amount <= 0 {
		return errors.New("amount: must be greater than zero")
	}

	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer closeApp(a)

	ctx := cmd.Context()
	if err := requireSession(ctx, a); err != nil {
		return err
	}
	if err := a.Financial.AddGoalProgress(ctx, id, amount, format.OptString(progressNotes)); err != nil {
		return actionErr(err, a.Financial.Snapshot().Meta)
	}
	for _, g := range a.Financial.Snapshot().Goals {
		if g.ID == id {
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %s of %s (%.0f%%).\n", g.GoalName, format.Rupees(g.CurrentAmount), format.Rupees(g.TargetAmount), g.Completion())
			return nil
		}
	}
	fmt.Fprintln(cmd.OutOrStdout(), "Progress recorded.")
	return nil
}

// ============================================================
// Investments
// ============================================================

var investmentsCmd = &cobra.Command{
	Use:   "investments",
	Short: "Show the portfolio, surplus analysis and active investments",
	Args:  cobra.NoArgs,
	RunE:  runInvestments,
}

var addInvestment struct {
	name, investmentType, risk, provider string
	principal, rate, recurring           float64
}

var investmentsAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Record an investment",
	Args:  cobra.NoArgs,
	RunE:  runInvestmentsAdd,
}

var investmentsRecommendCmd = &cobra.Command{
	Use:   "recommendations",
	Short: "Show AI investment suggestions",
	Args:  cobra.NoArgs,
	RunE:  runInvestmentsRecommend,
}

func init() {
	f := investmentsAddCmd.Flags()
	f.StringVar(&addInvestment.name, "name", "", "investment name")
	f.StringVar(&addInvestment.investmentType, "type", "fd", "type: fd, rd, mutual_fund, gold, ppf")
	f.Float64Var(&addInvestment.principal, "principal", 0, "principal amount (₹)")
	f.Float64Var(&addInvestment.rate, "rate", 0, "expected annual return (%)")
	f.Float64Var(&addInvestment.recurring, "recurring", 0, "monthly recurring amount (₹)")
	f.StringVar(&addInvestment.risk, "risk", "low", "risk level: low, medium, high")
	f.StringVar(&addInvestment.provider, "provider", "", "provider name")

	investmentsCmd.AddCommand(investmentsAddCmd, investmentsRecommendCmd)
}

func runInvestments(cmd *cobra.Command, _ []string) error {
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer closeApp(a)

	ctx := cmd.Context()
	if err := requireSession(ctx, a); err != nil {
		return err
	}
	a.Financial.FetchPortfolio(ctx)
	a.Financial.FetchSurplus(ctx)
	a.Financial.FetchInvestments(ctx)
	st := a.Financial.Snapshot()
	if err := stateErr(st.Meta); err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	if p := st.Portfolio; p != nil {
		heading(w, "Portfolio Overview")
		field(w, "Invested", format.Rupees(p.TotalInvested))
		field(w, "Current Value", format.Rupees(p.CurrentPortfolioValue))
		field(w, "Returns", fmt.Sprintf("%s (%.1f%%)", format.Rupees(p.TotalReturns), p.ReturnsPercentage))
		field(w, "Monthly SIP", format.Rupees(p.MonthlyRecurringTotal))
	}
	if s := st.Surplus; s != nil {
		heading(w, "\nMonthly Surplus Analysis")
		field(w, "Income", format.Rupees(s.MonthlyIncome))
		field(w, "Expenses", format.Rupees(s.MonthlyExpenses))
		field(w, "Surplus", format.Rupees(s.MonthlySurplus))
		field(w, "Save", format.Rupees(s.RecommendedSavings))
		field(w, "Invest", format.Rupees(s.RecommendedInvestments))
	}
	if len(st.Investments) > 0 {
		heading(w, "\nActive Investments")
		t := newTable("Name", "Type", "Invested", "Value", "Returns", "Risk")
		for _, inv := range st.Investments {
			t.Row(
				inv.InvestmentName,
				inv.InvestmentType,
				format.Rupees(inv.InvestedAmount),
				format.Rupees(inv.CurrentValue),
				strconv.FormatFloat(inv.ReturnsPercentage, 'f', 1, 64)+"%",
				inv.RiskLevel,
			)
		}
		fmt.Fprintln(w, t.Render())
	}
	return nil
}

func runInvestmentsAdd(cmd *cobra.Command, _ []string) error {
	draft := &domain.CreateInvestmentRequest{
		InvestmentName:     addInvestment.name,
		InvestmentType:     addInvestment.investmentType,
		PrincipalAmount:    addInvestment.principal,
		ExpectedReturnRate: optFloat(addInvestment.rate),
		RiskLevel:          addInvestment.risk,
		ProviderName:       format.OptString(addInvestment.provider),
	}
	if addInvestment.recurring > 0 {
		freq := "monthly"
		draft.IsRecurring = true
		draft.RecurringAmount = &addInvestment.recurring
		draft.RecurringFrequency = &freq
	}
	if err := validation.Validate(draft); err != nil {
		return err
	}

	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer closeApp(a)

	ctx := cmd.Context()
	if err := requireSession(ctx, a); err != nil {
		return err
	}
	inv, err := a.Financial.CreateInvestment(ctx, draft)
	if err != nil {
		return actionErr(err, a.Financial.Snapshot().Meta)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Investment %q recorded with id %d.\n", inv.InvestmentName, inv.ID)
	return nil
}

func runInvestmentsRecommend(cmd *cobra.Command, _ []string) error {
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer closeApp(a)

	ctx := cmd.Context()
	if err := requireSession(ctx, a); err != nil {
		return err
	}
	a.Financial.FetchRecommendations(ctx)
	st := a.Financial.Snapshot()
	if err := stateErr(st.Meta); err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	if len(st.Recommendations) == 0 {
		fmt.Fprintln(w, "No recommendations right now.")
		return nil
	}
	for i, r := range st.Recommendations {
		if i > 0 {
			fmt.Fprintln(w)
		}
		heading(w, r.Title)
		fmt.Fprintln(w, r.Description)
		field(w, "Suggested", format.Rupees(r.SuggestedAmount))
		field(w, "Expected Return", numOr(r.ExpectedReturnRate, format.NA)+"%")
		field(w, "Risk", r.RiskLevel)
		if r.AIReasoning != nil {
			fmt.Fprintln(w, mutedStyle.Render(*r.AIReasoning))
		}
	}
	return nil
}

// ============================================================
// Alerts
// ============================================================

var alertsCmd = &cobra.Command{
	Use:   "alerts",
	Short: "List alerts",
	Args:  cobra.NoArgs,
	RunE:  runAlertsList,
}

var alertsReadCmd = &cobra.Command{
	Use:   "read ID",
	Short: "Mark an alert read",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return alertAction(cmd, args[0], "Alert marked read.", func(a alertWriter, id int64) error {
			return a.MarkRead(cmd.Context(), id)
		})
	},
}

var alertsDeleteCmd = &cobra.Command{
	Use:   "delete ID",
	Short: "Delete an alert",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return alertAction(cmd, args[0], "Alert deleted.", func(a alertWriter, id int64) error {
			return a.Delete(cmd.Context(), id)
		})
	},
}

func init() {
	alertsCmd.AddCommand(alertsReadCmd, alertsDeleteCmd)
}

func runAlertsList(cmd *cobra.Command, _ []string) error {
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer closeApp(a)

	ctx := cmd.Context()
	if err := requireSession(ctx, a); err != nil {
		return err
	}
	a.Alerts.FetchAlerts(ctx)
	st := a.Alerts.Snapshot()
	if err := stateErr(st.Meta); err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	if len(st.Alerts) == 0 {
		fmt.Fprintln(w, "No alerts.")
		return nil
	}
	t := newTable("ID", "", "Priority", "Title", "Received")
	for _, al := range st.Alerts {
		mark := " "
		if !al.IsRead {
			mark = "•"
		}
		t.Row(
			strconv.FormatInt(al.ID, 10),
			mark,
			strings.ToUpper(al.Priority),
			al.Title,
			al.CreatedAt.Local().Format("02 Jan 15:04"),
		)
	}
	fmt.Fprintln(w, t.Render())
	return nil
}

type alertWriter interface {
	MarkRead(ctx context.Context, id int64) error
	Delete(ctx context.Context, id int64) error
}

func alertAction(cmd *cobra.Command, rawID, done string, do func(alertWriter, int64) error) error {
	id, err := parseID(rawID)
	if err != nil {
		return err
	}
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer closeApp(a)

	if err := requireSession(cmd.Context(), a); err != nil {
		return err
	}
	if err := do(a.Alerts, id); err != nil {
		return actionErr(err, a.Alerts.Snapshot().Meta)
	}
	fmt.Fprintln(cmd.OutOrStdout(), done)
	return nil
}
