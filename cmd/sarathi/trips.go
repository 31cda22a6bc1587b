package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/boddenberg/sarathi-client-go/internal/domain"
	"github.com/boddenberg/sarathi-client-go/internal/format"
	"github.com/boddenberg/sarathi-client-go/internal/validation"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

// ============================================================
// Dashboard
// ============================================================

var dashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Show trip stats, the monthly surplus and unread alerts",
	Args:  cobra.NoArgs,
	RunE:  runDashboard,
}

func runDashboard(cmd *cobra.Command, _ []string) error {
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer closeApp(a)

	ctx := cmd.Context()
	if err := requireSession(ctx, a); err != nil {
		return err
	}

	days := a.Config.StatsDays
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		a.Trips.FetchStats(gctx, days)
		return stateErr(a.Trips.Snapshot().Meta)
	})
	g.Go(func() error {
		a.Financial.FetchSurplus(gctx)
		return stateErr(a.Financial.Snapshot().Meta)
	})
	g.Go(func() error {
		a.Alerts.FetchAlerts(gctx)
		return stateErr(a.Alerts.Snapshot().Meta)
	})
	if err := g.Wait(); err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	heading(w, "Welcome back, "+a.Auth.Snapshot().User.Name)
	if s := a.Trips.Snapshot().Stats; s != nil {
		heading(w, fmt.Sprintf("\nEarnings Engine (last %d days)", days))
		field(w, "Total Trips", strconv.Itoa(s.TotalTrips))
		field(w, "Earnings", format.Rupees(s.TotalEarnings))
		field(w, "Average/Trip", format.Rupees(s.AverageTripEarnings))
		field(w, "Net", format.Rupees(s.NetEarnings))
		field(w, "Best Zone", format.StrOr(s.BestZone, format.NA))
		field(w, "Best Time", format.StrOr(s.BestTimeSlot, format.NA))
	}
	if s := a.Financial.Snapshot().Surplus; s != nil {
		heading(w, "\nGrowth Engine")
		field(w, "Monthly Surplus", format.Rupees(s.MonthlySurplus))
		field(w, "Savings Rate", strconv.FormatFloat(s.SurplusPercentage, 'f', 1, 64)+"%")
		field(w, "Emergency Fund", s.EmergencyFundStatus)
		for _, in := range s.Insights {
			fmt.Fprintln(w, mutedStyle.Render("• "+in))
		}
	}
	if n := a.Alerts.Snapshot().Unread(); n > 0 {
		fmt.Fprintf(w, "\n%d unread alert(s). Run `sarathi alerts`.\n", n)
	}
	return nil
}

// ============================================================
// Trips
// ============================================================

var tripsCmd = &cobra.Command{
	Use:   "trips",
	Short: "List recent trips",
	Args:  cobra.NoArgs,
	RunE:  runTripsList,
}

var addTrip struct {
	from, to, platform string
	earnings, fuel     float64
	toll, distance     float64
}

var tripsAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Log a trip",
	Args:  cobra.NoArgs,
	RunE:  runTripsAdd,
}

var tripsVoiceCmd = &cobra.Command{
	Use:   "voice FILE",
	Short: "Log a trip from a recorded description (WAV)",
	Args:  cobra.ExactArgs(1),
	RunE:  runTripsVoice,
}

var tripsDeleteCmd = &cobra.Command{
	Use:   "delete ID",
	Short: "Delete a trip",
	Args:  cobra.ExactArgs(1),
	RunE:  runTripsDelete,
}

var tripsZonesCmd = &cobra.Command{
	Use:   "zones",
	Short: "Show recommended zones",
	Args:  cobra.NoArgs,
	RunE:  runTripsZones,
}

func init() {
	f := tripsAddCmd.Flags()
	f.StringVar(&addTrip.from, "from", "", "start location")
	f.StringVar(&addTrip.to, "to", "", "end location")
	f.Float64Var(&addTrip.earnings, "earnings", 0, "fare earned (₹)")
	f.Float64Var(&addTrip.fuel, "fuel", 0, "fuel cost (₹)")
	f.Float64Var(&addTrip.toll, "toll", 0, "toll cost (₹)")
	f.Float64Var(&addTrip.distance, "distance", 0, "distance (km)")
	f.StringVar(&addTrip.platform, "platform", "", "platform: uber, ola, rapido...")

	tripsCmd.AddCommand(tripsAddCmd, tripsVoiceCmd, tripsDeleteCmd, tripsZonesCmd)
}

func runTripsList(cmd *cobra.Command, _ []string) error {
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer closeApp(a)

	ctx := cmd.Context()
	if err := requireSession(ctx, a); err != nil {
		return err
	}
	a.Trips.FetchTrips(ctx, a.Config.StatsDays)
	st := a.Trips.Snapshot()
	if err := stateErr(st.Meta); err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	if len(st.Trips) == 0 {
		fmt.Fprintln(w, "No trips yet. Log one with `sarathi trips add`.")
		return nil
	}
	t := newTable("ID", "Started", "From", "To", "Earnings", "Net", "Platform")
	for _, trip := range st.Trips {
		t.Row(
			strconv.FormatInt(trip.ID, 10),
			trip.StartTime.Local().Format("02 Jan 15:04"),
			trip.StartLocation,
			trip.EndLocation,
			format.Rupees(trip.Earnings),
			format.Rupees(trip.Net()),
			format.StrOr(trip.Platform, format.NA),
		)
	}
	fmt.Fprintln(w, t.Render())
	return nil
}

func runTripsAdd(cmd *cobra.Command, _ []string) error {
	draft := &domain.CreateTripRequest{
		StartLocation: addTrip.from,
		EndLocation:   addTrip.to,
		StartTime:     domain.NewTime(time.Now().UTC()),
		Earnings:      addTrip.earnings,
		FuelCost:      optFloat(addTrip.fuel),
		TollCost:      optFloat(addTrip.toll),
		Platform:      format.OptString(addTrip.platform),
		TripType:      "ride",
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
	trip, err := a.Trips.CreateTrip(ctx, draft)
	if err != nil {
		return actionErr(err, a.Trips.Snapshot().Meta)
	}
	if addTrip.distance > 0 {
		if _, err := a.Trips.UpdateTrip(ctx, trip.ID, &domain.TripUpdate{DistanceKM: &addTrip.distance}); err != nil {
			return actionErr(err, a.Trips.Snapshot().Meta)
		}
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Trip %d logged: %s → %s, %s.\n", trip.ID, trip.StartLocation, trip.EndLocation, format.Rupees(trip.Earnings))
	return nil
}

func runTripsVoice(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(args[0])
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
	trip, err := a.Trips.UploadVoiceTrip(ctx, domain.Attachment{
		FileName:    filepath.Base(args[0]),
		ContentType: "audio/wav",
		Data:        data,
	})
	if err != nil {
		return actionErr(err, a.Trips.Snapshot().Meta)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Trip %d logged from voice: %s → %s, %s.\n", trip.ID, trip.StartLocation, trip.EndLocation, format.Rupees(trip.Earnings))
	return nil
}

func runTripsDelete(cmd *cobra.Command, args []string) error {
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
	if err := a.Trips.DeleteTrip(ctx, id); err != nil {
		return actionErr(err, a.Trips.Snapshot().Meta)
	}
	fmt.Fprintln(cmd.OutOrStdout(), "Trip deleted.")
	return nil
}

func runTripsZones(cmd *cobra.Command, _ []string) error {
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer closeApp(a)

	ctx := cmd.Context()
	if err := requireSession(ctx, a); err != nil {
		return err
	}
	a.Trips.FetchZoneRecommendations(ctx)
	st := a.Trips.Snapshot()
	if err := stateErr(st.Meta); err != nil {
		return err
	}

	t := newTable("Zone", "Expected", "Best Time", "Why")
	for _, z := range st.Zones {
		t.Row(z.ZoneName, format.Rupees(z.ExpectedEarnings), z.BestTime, z.Reason)
	}
	fmt.Fprintln(cmd.OutOrStdout(), t.Render())
	return nil
}
