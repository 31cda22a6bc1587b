package ui

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/boddenberg/sarathi-client-go/internal/domain"
	"github.com/boddenberg/sarathi-client-go/internal/format"
	"github.com/boddenberg/sarathi-client-go/internal/validation"

	tea "github.com/charmbracelet/bubbletea"
)

// ============================================================
// Trips tab
// ============================================================

type tripsScreen struct {
	shell  *Shell
	cursor int
}

func newTripsScreen(s *Shell) *tripsScreen { return &tripsScreen{shell: s} }

func (t *tripsScreen) Title() string { return "Earnings" }
func (t *tripsScreen) Help() string  { return "↑/↓ select · e edit · d delete · r refresh" }

func (t *tripsScreen) Init() tea.Cmd {
	d, ctx := t.shell.deps, t.shell.ctx
	return tea.Batch(
		run(func() { d.Trips.FetchTrips(ctx, d.StatsDays) }),
		run(func() { d.Trips.FetchStats(ctx, d.StatsDays) }),
		run(func() { d.Trips.FetchZoneRecommendations(ctx) }),
	)
}

func (t *tripsScreen) Update(msg tea.Msg) tea.Cmd {
	km, ok := msg.(tea.KeyMsg)
	if !ok {
		return nil
	}
	trips := t.shell.deps.Trips.Snapshot().Trips

	switch km.String() {
	case "up", "k":
		if t.cursor > 0 {
			t.cursor--
		}
	case "down", "j":
		if t.cursor < len(trips)-1 {
			t.cursor++
		}
	case "r":
		return t.Init()
	case "e":
		if t.cursor < len(trips) {
			return push(newEditTripScreen(t.shell, trips[t.cursor]))
		}
	case "d":
		if t.cursor < len(trips) {
			id := trips[t.cursor].ID
			d, ctx := t.shell.deps, t.shell.ctx
			return write(t, "Failed to delete trip", "Trip deleted", false, func() error {
				return d.Trips.DeleteTrip(ctx, id)
			})
		}
	}
	return nil
}

func (t *tripsScreen) View(e env) string {
	st := t.shell.deps.Trips.Snapshot()
	if st.Loading && st.Trips == nil && st.Stats == nil {
		return e.loading("trips")
	}

	var b strings.Builder
	if s := st.Stats; s != nil {
		b.WriteString(e.st.Card.Render(
			row(e, "Trips", strconv.Itoa(s.TotalTrips)) +
				row(e, "Earnings", format.Rupees(s.TotalEarnings)) +
				row(e, "Expenses", format.Rupees(s.TotalExpenses)) +
				row(e, "Net", e.st.Positive.Render(format.Rupees(s.NetEarnings))) +
				"High-value trips   " + strconv.Itoa(s.HighValueTrips),
		))
		b.WriteString("\n")
	}

	b.WriteString(e.st.Bold.Render("Recent Trips") + "\n")
	if len(st.Trips) == 0 {
		b.WriteString(e.st.Muted.Render("No trips yet. Press a to log one.") + "\n")
	}
	if t.cursor >= len(st.Trips) && len(st.Trips) > 0 {
		t.cursor = len(st.Trips) - 1
	}
	for i, trip := range st.Trips {
		line := fmt.Sprintf("%-12s %s → %s  %s  net %s",
			format.DateTime(trip.StartTime),
			format.Truncate(trip.StartLocation, 18),
			format.Truncate(trip.EndLocation, 18),
			format.Rupees(trip.Earnings),
			format.Rupees(trip.Net()),
		)
		if trip.IsHighValueZone {
			line += " ★"
		}
		if i == t.cursor {
			b.WriteString(e.st.Selected.Render("› "+line) + "\n")
			b.WriteString(e.st.Muted.Render(fmt.Sprintf("    %s · %s km · %s min · %s",
				format.StrOr(trip.Platform, format.NA),
				format.NumberOr(trip.DistanceKM, "%.1f", format.NA),
				format.NumberOr(trip.DurationMinutes, "%.0f", format.NA),
				trip.TripType,
			)) + "\n")
		} else {
			b.WriteString("  " + line + "\n")
		}
	}

	if len(st.Zones) > 0 {
		b.WriteString("\n" + e.st.Bold.Render("Where to drive next") + "\n")
		for _, z := range st.Zones {
			b.WriteString(fmt.Sprintf("  %s  %s  %s  %s\n",
				e.st.Positive.Render(z.ZoneName),
				format.Rupees(z.ExpectedEarnings),
				e.st.Muted.Render(z.BestTime),
				e.st.Muted.Render(format.Truncate(z.Reason, 40)),
			))
		}
	}

	if st.Error != "" {
		b.WriteString("\n" + e.st.Error.Render(st.Error) + "\n")
	}
	return b.String()
}

func newEditTripScreen(s *Shell, trip domain.Trip) *formScreen {
	num := func(v float64) string { return strconv.FormatFloat(v, 'f', -1, 64) }
	d := s.deps
	submit := func(v []string) (func(context.Context) error, string) {
		upd := &domain.TripUpdate{EndLocation: format.OptString(v[0])}
		var err error
		if upd.Earnings, err = parseOptAmount("Earnings", v[1]); err != nil {
			return nil, err.Error()
		}
		if upd.FuelCost, err = parseOptAmount("Fuel", v[2]); err != nil {
			return nil, err.Error()
		}
		if upd.TollCost, err = parseOptAmount("Toll", v[3]); err != nil {
			return nil, err.Error()
		}
		if upd.DistanceKM, err = parseOptAmount("Distance", v[4]); err != nil {
			return nil, err.Error()
		}
		return func(ctx context.Context) error {
			_, err := d.Trips.UpdateTrip(ctx, trip.ID, upd)
			return err
		}, ""
	}
	return newFormScreen(s, "Edit Trip", "Failed to update trip", "Trip updated", submit,
		fieldSpec{label: "End Location", value: trip.EndLocation},
		fieldSpec{label: "Earnings (₹)", value: num(trip.Earnings)},
		fieldSpec{label: "Fuel Cost (₹)", value: num(trip.FuelCost)},
		fieldSpec{label: "Toll Cost (₹)", value: num(trip.TollCost)},
		fieldSpec{label: "Distance (km)", placeholder: "optional"},
	)
}

// ============================================================
// Add trip (stack)
// ============================================================

// recState is the recorder lifecycle owned by a screen.
type recState int

const (
	recIdle recState = iota
	recRecording
	recStopped
)

type addTripScreen struct {
	shell  *Shell
	form   *form
	voice  bool
	rec    recState
	status string
}

func newAddTripScreen(s *Shell) *addTripScreen {
	return &addTripScreen{
		shell: s,
		voice: s.deps.Recorder != nil,
		form: newForm(
			fieldSpec{label: "Start Location", placeholder: "e.g. Koregaon Park"},
			fieldSpec{label: "End Location", placeholder: "e.g. Hinjewadi"},
			fieldSpec{label: "Earnings (₹)", placeholder: "350"},
			fieldSpec{label: "Fuel Cost (₹)", placeholder: "optional"},
			fieldSpec{label: "Toll Cost (₹)", placeholder: "optional"},
			fieldSpec{label: "Platform", placeholder: "uber, ola, rapido..."},
		),
	}
}

func (a *addTripScreen) Title() string { return "Log Trip" }
func (a *addTripScreen) Init() tea.Cmd { return nil }

func (a *addTripScreen) Help() string {
	if a.voice {
		return "space record/stop · m manual entry"
	}
	if a.shell.deps.Recorder != nil {
		return "tab next field · enter save · ctrl+v voice entry"
	}
	return "tab next field · enter save"
}

type recordedMsg struct {
	audio domain.Attachment
	err   error
}

func (a *addTripScreen) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case resultMsg:
		a.form.busy = false
		a.rec = recIdle
		a.status = ""
		return nil
	case recordedMsg:
		return a.uploadVoice(msg)
	case tea.KeyMsg:
		if a.voice {
			return a.voiceKey(msg)
		}
		if msg.String() == "ctrl+v" && a.shell.deps.Recorder != nil {
			a.voice = true
			return nil
		}
	}

	submit, cmd := a.form.update(msg)
	if !submit {
		return cmd
	}
	return a.submitManual()
}

func (a *addTripScreen) voiceKey(msg tea.KeyMsg) tea.Cmd {
	rec, ctx := a.shell.deps.Recorder, a.shell.ctx
	switch msg.String() {
	case "m":
		if a.rec != recRecording {
			a.voice = false
		}
	case " ", "space", "enter":
		switch a.rec {
		case recIdle:
			if err := rec.Start(ctx); err != nil {
				a.status = "Could not start recording: " + err.Error()
				return nil
			}
			a.rec = recRecording
			a.status = ""
		case recRecording:
			a.rec = recStopped
			return func() tea.Msg {
				audio, err := rec.Stop(ctx)
				return recordedMsg{audio: audio, err: err}
			}
		}
	}
	return nil
}

func (a *addTripScreen) uploadVoice(msg recordedMsg) tea.Cmd {
	if msg.err != nil {
		a.rec = recIdle
		a.status = "Recording failed: " + msg.err.Error()
		return nil
	}
	a.status = "Processing voice input..."
	trips, ctx := a.shell.deps.Trips, a.shell.ctx
	return write(a, "Failed to upload voice trip", "Trip logged from voice", true, func() error {
		_, err := trips.UploadVoiceTrip(ctx, msg.audio)
		return err
	})
}

func (a *addTripScreen) submitManual() tea.Cmd {
	v := a.form.values()
	earnings, err := parseAmount("Earnings", v[2])
	if err != nil {
		a.form.problem = err.Error()
		return nil
	}
	draft := &domain.CreateTripRequest{
		StartLocation: v[0],
		EndLocation:   v[1],
		StartTime:     domain.NewTime(time.Now().UTC()),
		Earnings:      earnings,
		Platform:      format.OptString(v[5]),
		TripType:      "ride",
	}
	if draft.FuelCost, err = parseOptAmount("Fuel Cost", v[3]); err != nil {
		a.form.problem = err.Error()
		return nil
	}
	if draft.TollCost, err = parseOptAmount("Toll Cost", v[4]); err != nil {
		a.form.problem = err.Error()
		return nil
	}
	if problems := validation.Check(draft); problems != nil {
		a.form.problem = validation.Summary(problems)
		return nil
	}
	a.form.problem = ""
	a.form.busy = true

	trips, ctx := a.shell.deps.Trips, a.shell.ctx
	return write(a, "Failed to create trip", "Trip logged", true, func() error {
		_, err := trips.CreateTrip(ctx, draft)
		return err
	})
}

// Unmount discards a capture still running.
func (a *addTripScreen) Unmount() {
	if rec := a.shell.deps.Recorder; rec != nil && rec.Recording() {
		_ = rec.Close()
	}
}

func (a *addTripScreen) View(e env) string {
	if !a.voice {
		return e.st.Muted.Render("Enter the trip details.") + "\n\n" + a.form.view(e)
	}

	var b strings.Builder
	b.WriteString(e.st.Muted.Render("Say something like: \"Koregaon Park to Hinjewadi, 350 rupees, fuel 40\"") + "\n\n")
	switch a.rec {
	case recIdle:
		b.WriteString("🎤 " + e.st.Bold.Render("Press space to start recording") + "\n")
	case recRecording:
		b.WriteString(e.st.Error.Render("● Recording...") + " press space to stop\n")
	case recStopped:
		b.WriteString(e.spinner + " " + e.st.Muted.Render("Uploading...") + "\n")
	}
	if a.status != "" {
		b.WriteString("\n" + e.st.Muted.Render(a.status) + "\n")
	}
	return b.String()
}
