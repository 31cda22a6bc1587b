// Command sarathi is the terminal client for the Sarathi driver assistant.
// Without a subcommand it starts the full-screen UI.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/boddenberg/sarathi-client-go/internal/app"
	"github.com/boddenberg/sarathi-client-go/internal/config"
	"github.com/boddenberg/sarathi-client-go/internal/infra/observability"
	"github.com/boddenberg/sarathi-client-go/internal/ui"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

var (
	configPath     string
	apiURL         string
	logLevel       string
	storageBackend string
	statsDays      int
)

var rootCmd = &cobra.Command{
	Use:   "sarathi",
	Short: "Sarathi: earnings, vehicle health and savings for gig drivers",
	Long: `Sarathi is a terminal client for the Sarathi driver assistant.

Run without arguments to open the full-screen app. The subcommands cover the
same features for scripts and quick lookups.

Configuration is read from ~/.config/sarathi/config.yaml (or --config), then
.env, then SARATHI_* environment variables, then flags.`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runTUI,
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&configPath, "config", "", "config file (default "+config.DefaultPath()+")")
	pf.StringVar(&apiURL, "api-url", "", "backend base URL")
	pf.StringVar(&logLevel, "log-level", "", "log level: debug, info, warn, error")
	pf.StringVar(&storageBackend, "storage", "", "local storage backend: sqlite, memory, redis")
	pf.IntVar(&statsDays, "days", 0, "trip window in days (default from config)")

	rootCmd.AddCommand(loginCmd, logoutCmd, registerCmd, whoamiCmd)
	rootCmd.AddCommand(dashboardCmd, tripsCmd, vehiclesCmd, goalsCmd, investmentsCmd, alertsCmd)
	rootCmd.AddCommand(chatCmd, diagCmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// loadConfig layers flags over the file and environment configuration.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	_ = config.LoadDotEnv(".env")

	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("api-url") {
		cfg.APIURL = apiURL
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = logLevel
	}
	if flags.Changed("storage") {
		cfg.StorageBackend = storageBackend
	}
	if flags.Changed("days") {
		cfg.StatsDays = statsDays
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// openApp builds the client for one command. Logs go to the configured
// file so they never mix with command output.
func openApp(cmd *cobra.Command) (*app.App, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}

	logger, err := observability.NewLogger(cfg.LogLevel, cfg.LogFile)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}
	logger.Debug("configuration loaded",
		zap.String("api_url", cfg.APIURL),
		zap.String("storage", cfg.StorageBackend),
		zap.Duration("http_timeout", cfg.HTTPTimeout),
		zap.Int("max_retries", cfg.MaxRetries),
		zap.String("command", cmd.CommandPath()),
	)

	a, err := app.New(cmd.Context(), cfg, logger)
	if err != nil {
		_ = logger.Sync()
		return nil, err
	}
	return a, nil
}

func closeApp(a *app.App) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := a.Close(ctx); err != nil {
		a.Logger.Warn("shutdown incomplete", zap.Error(err))
	}
	_ = a.Logger.Sync()
}

func runTUI(cmd *cobra.Command, _ []string) error {
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer closeApp(a)

	shell := ui.NewShell(cmd.Context(), ui.Deps{
		Auth:      a.Auth,
		Trips:     a.Trips,
		Vehicles:  a.Vehicles,
		Financial: a.Financial,
		Alerts:    a.Alerts,
		Chat:      a.Chat,
		Recorder:  a.Recorder,
		Player:    a.Player,
		StatsDays: a.Config.StatsDays,
		Version:   version,
		Logger:    a.Logger,
	})
	defer shell.Close()

	p := tea.NewProgram(shell, tea.WithAltScreen(), tea.WithContext(cmd.Context()))
	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("ui: %w", err)
	}
	return nil
}
