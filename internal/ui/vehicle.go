package ui

import (
	"context"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/boddenberg/sarathi-client-go/internal/domain"
	"github.com/boddenberg/sarathi-client-go/internal/format"
	"github.com/boddenberg/sarathi-client-go/internal/store"
	"github.com/boddenberg/sarathi-client-go/internal/validation"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// vehicleScreen is the Health tab: the selected vehicle, the scores of its
// latest diagnostic and the recent checks.
type vehicleScreen struct {
	shell *Shell
}

func newVehicleScreen(s *Shell) *vehicleScreen { return &vehicleScreen{shell: s} }

func (v *vehicleScreen) Title() string { return "Vehicle Health" }

func (v *vehicleScreen) Help() string {
	return "[/] switch vehicle · u upload photos · n new vehicle · e edit · r refresh"
}

func (v *vehicleScreen) Init() tea.Cmd {
	d, ctx := v.shell.deps, v.shell.ctx
	return run(func() {
		d.Vehicles.FetchVehicles(ctx)
		if sel := d.Vehicles.Snapshot().Selected; sel != nil {
			d.Vehicles.FetchHealthChecks(ctx, sel.ID)
		}
	})
}

func (v *vehicleScreen) Update(msg tea.Msg) tea.Cmd {
	km, ok := msg.(tea.KeyMsg)
	if !ok {
		return nil
	}
	st := v.shell.deps.Vehicles.Snapshot()

	switch km.String() {
	case "[", "]":
		return v.cycle(st, km.String() == "]")
	case "r":
		return v.Init()
	case "n":
		return push(newCreateVehicleScreen(v.shell))
	case "e":
		if st.Selected != nil {
			return push(newEditVehicleScreen(v.shell, *st.Selected))
		}
	case "u":
		if st.Selected != nil {
			return push(newHealthCheckScreen(v.shell, *st.Selected))
		}
	}
	return nil
}

// cycle moves the selection to the next or previous vehicle and loads its
// history.
func (v *vehicleScreen) cycle(st store.VehiclesState, forward bool) tea.Cmd {
	if len(st.Vehicles) < 2 || st.Selected == nil {
		return nil
	}
	i := 0
	for j, x := range st.Vehicles {
		if x.ID == st.Selected.ID {
			i = j
			break
		}
	}
	if forward {
		i = (i + 1) % len(st.Vehicles)
	} else {
		i = (i + len(st.Vehicles) - 1) % len(st.Vehicles)
	}

	d, ctx := v.shell.deps, v.shell.ctx
	id := st.Vehicles[i].ID
	d.Vehicles.SelectVehicle(id)
	return run(func() { d.Vehicles.FetchHealthChecks(ctx, id) })
}

func (v *vehicleScreen) View(e env) string {
	st := v.shell.deps.Vehicles.Snapshot()
	if st.Loading && st.Vehicles == nil {
		return e.loading("vehicles")
	}

	var b strings.Builder
	if st.Selected == nil {
		b.WriteString(e.st.Muted.Render("No vehicle registered yet. Press n to add one.") + "\n")
		if st.Error != "" {
			b.WriteString("\n" + e.st.Error.Render(st.Error) + "\n")
		}
		return b.String()
	}

	sel := st.Selected
	name := sel.VehicleNumber
	if len(st.Vehicles) > 1 {
		name += e.st.Muted.Render(fmt.Sprintf("  (%d of %d)", indexOf(st.Vehicles, sel.ID)+1, len(st.Vehicles)))
	}
	b.WriteString(e.st.Card.Render(
		e.st.Title.Render(name) + "\n" +
			row(e, "Type", sel.VehicleType) +
			row(e, "Make", format.StrOr(sel.Make, format.NotSet)) +
			row(e, "Model", format.StrOr(sel.Model, format.NotSet)) +
			row(e, "Year", format.IntOr(sel.Year, format.NotSet)) +
			row(e, "Odometer", strconv.FormatFloat(sel.CurrentOdometerKM, 'f', 0, 64)+" km") +
			row(e, "Insurance Expiry", format.DateOr(sel.InsuranceExpiry, format.NotSet)) +
			row(e, "Last Service", format.DateOr(sel.LastServiceDate, format.NotSet)) +
			"Next Service Due   " + format.NumberOr(sel.NextServiceDueKM, "%.0f km", format.NotSet),
	))
	b.WriteString("\n")

	checks := st.Checks(sel.ID)
	b.WriteString(v.summary(e, checks))

	if len(checks) > 0 {
		b.WriteString("\n" + e.st.Bold.Render("Recent Diagnostics") + "\n")
		for i, c := range checks {
			if i == 3 {
				break
			}
			b.WriteString(checkView(e, c))
		}
	}

	if st.Error != "" {
		b.WriteString("\n" + e.st.Error.Render(st.Error) + "\n")
	}
	return b.String()
}

func (v *vehicleScreen) summary(e env, checks []domain.VehicleHealthCheck) string {
	if len(checks) == 0 {
		return e.st.Card.Render(
			e.st.Bold.Render("Vehicle Health") + "  " + e.st.Muted.Render("No Data") + "\n" +
				e.st.Muted.Render("No health checks yet. Press u to upload photos for a diagnosis."),
		) + "\n"
	}

	latest := checks[0]
	status := e.st.Positive.Render("Good Condition")
	if latest.ImmediateActionRequired {
		status = e.st.Error.Render("Needs Attention")
	}
	score := func(label string, rating *string, value int) string {
		return lipgloss.NewStyle().Width(20).Render(
			label + "\n" + e.st.Value.Render(strconv.Itoa(value)) + e.st.Muted.Render("/100  "+format.StrOr(rating, format.NA)),
		)
	}
	return e.st.Card.Render(
		e.st.Bold.Render("Vehicle Health") + "  " + status + "\n" +
			e.st.Muted.Render("Last check: "+format.DateTime(latest.CreatedAt)) + "\n\n" +
			lipgloss.JoinHorizontal(lipgloss.Top,
				score("Battery", latest.BatteryHealth, batteryScore(latest.BatteryHealth)),
				score("Engine Oil", latest.EngineOilLevel, domain.ConditionScore(latest.EngineOilLevel, 90)),
				score("Brakes", latest.BrakeCondition, domain.ConditionScore(latest.BrakeCondition, 85)),
				score("Tires", latest.TireCondition, domain.ConditionScore(latest.TireCondition, 88)),
			),
	) + "\n"
}

func checkView(e env, c domain.VehicleHealthCheck) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("  %s  %s  %s\n",
		e.st.Bold.Render(c.CheckType),
		e.st.Muted.Render(format.DateTime(c.CreatedAt)),
		format.NumberOr(c.SeverityScore, "%.0f/100", "0/100"),
	))
	if c.AIAnalysis != nil && *c.AIAnalysis != "" {
		b.WriteString("    " + format.Truncate(*c.AIAnalysis, 70) + "\n")
	}
	if c.Recommendations != nil && *c.Recommendations != "" {
		b.WriteString("    " + e.st.Info.Render("Recommendations: "+format.Truncate(*c.Recommendations, 60)) + "\n")
	}
	if c.EstimatedRepairCost != nil {
		b.WriteString("    " + e.st.Muted.Render("Estimated repair: "+format.Rupees(*c.EstimatedRepairCost)) + "\n")
	}
	if c.ImmediateActionRequired {
		b.WriteString("    " + e.st.Error.Render("⚠ Immediate Action Required") + "\n")
	}
	return b.String()
}

// batteryScore grades the battery more finely than the other components:
// no rating scores zero.
func batteryScore(rating *string) int {
	if rating == nil || *rating == "" {
		return 0
	}
	switch *rating {
	case "good":
		return 85
	case "fair":
		return 70
	}
	return 50
}

func indexOf(vehicles []domain.Vehicle, id int64) int {
	for i, v := range vehicles {
		if v.ID == id {
			return i
		}
	}
	return 0
}

// ============================================================
// Vehicle forms (stack)
// ============================================================

func newCreateVehicleScreen(s *Shell) *formScreen {
	d := s.deps
	submit := func(v []string) (func(context.Context) error, string) {
		draft := &domain.CreateVehicleRequest{
			VehicleNumber: v[0],
			VehicleType:   v[1],
			Make:          format.OptString(v[2]),
			Model:         format.OptString(v[3]),
		}
		var err error
		if draft.Year, err = parseOptInt("Year", v[4]); err != nil {
			return nil, err.Error()
		}
		if problems := validation.Check(draft); problems != nil {
			return nil, validation.Summary(problems)
		}
		return func(ctx context.Context) error {
			_, err := d.Vehicles.CreateVehicle(ctx, draft)
			return err
		}, ""
	}
	return newFormScreen(s, "Add Vehicle", "Failed to create vehicle", "Vehicle added", submit,
		fieldSpec{label: "Vehicle Number", placeholder: "MH12AB1234"},
		fieldSpec{label: "Vehicle Type", value: "auto"},
		fieldSpec{label: "Make", placeholder: "optional"},
		fieldSpec{label: "Model", placeholder: "optional"},
		fieldSpec{label: "Year", placeholder: "optional"},
	)
}

func newEditVehicleScreen(s *Shell, veh domain.Vehicle) *formScreen {
	d := s.deps
	submit := func(v []string) (func(context.Context) error, string) {
		upd := &domain.VehicleUpdate{Make: format.OptString(v[0]), Model: format.OptString(v[1])}
		var err error
		if upd.Year, err = parseOptInt("Year", v[2]); err != nil {
			return nil, err.Error()
		}
		if upd.CurrentOdometerKM, err = parseOptAmount("Odometer", v[3]); err != nil {
			return nil, err.Error()
		}
		if upd.InsuranceExpiry, err = parseOptDate("Insurance Expiry", v[4]); err != nil {
			return nil, err.Error()
		}
		if upd.LastServiceDate, err = parseOptDate("Last Service", v[5]); err != nil {
			return nil, err.Error()
		}
		if upd.NextServiceDueKM, err = parseOptAmount("Next Service Due", v[6]); err != nil {
			return nil, err.Error()
		}
		return func(ctx context.Context) error {
			_, err := d.Vehicles.UpdateVehicle(ctx, veh.ID, upd)
			return err
		}, ""
	}
	date := func(t *domain.Time) string {
		if t == nil || t.IsZero() {
			return ""
		}
		return t.Format("2006-01-02")
	}
	num := func(f *float64) string {
		if f == nil {
			return ""
		}
		return strconv.FormatFloat(*f, 'f', -1, 64)
	}
	odo := veh.CurrentOdometerKM
	return newFormScreen(s, "Edit "+veh.VehicleNumber, "Failed to update vehicle", "Vehicle updated", submit,
		fieldSpec{label: "Make", value: format.StrOr(veh.Make, "")},
		fieldSpec{label: "Model", value: format.StrOr(veh.Model, "")},
		fieldSpec{label: "Year", value: format.IntOr(veh.Year, "")},
		fieldSpec{label: "Odometer (km)", value: num(&odo)},
		fieldSpec{label: "Insurance Expiry", placeholder: "YYYY-MM-DD", value: date(veh.InsuranceExpiry)},
		fieldSpec{label: "Last Service", placeholder: "YYYY-MM-DD", value: date(veh.LastServiceDate)},
		fieldSpec{label: "Next Service (km)", value: num(veh.NextServiceDueKM)},
	)
}

// newHealthCheckScreen asks for photo paths and uploads them for a
// diagnosis.
func newHealthCheckScreen(s *Shell, veh domain.Vehicle) *formScreen {
	d := s.deps
	submit := func(v []string) (func(context.Context) error, string) {
		var paths []string
		for _, p := range strings.Split(v[0], ",") {
			if p = strings.TrimSpace(p); p != "" {
				paths = append(paths, p)
			}
		}
		if len(paths) == 0 {
			return nil, "Please select at least one image"
		}
		images := make([]domain.Attachment, 0, len(paths))
		for i, p := range paths {
			data, err := d.ReadFile(p)
			if err != nil {
				return nil, "Cannot read " + filepath.Base(p)
			}
			images = append(images, domain.Attachment{
				FileName:    fmt.Sprintf("vehicle_%d.jpg", i),
				ContentType: "image/jpeg",
				Data:        data,
			})
		}
		return func(ctx context.Context) error {
			_, err := d.Vehicles.UploadHealthCheck(ctx, veh.ID, images)
			return err
		}, ""
	}
	return newFormScreen(s, "Health Check · "+veh.VehicleNumber, "Failed to analyze vehicle images", "Vehicle diagnostics completed!", submit,
		fieldSpec{label: "Photos", placeholder: "engine.jpg, tires.jpg, dashboard.jpg"},
	)
}
