// Package cli provides the command-line interface for the dashboard.
package cli

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"finboard/internal/config"
	"finboard/internal/ledger"
	"finboard/internal/marketdata"
	"finboard/internal/session"
	"finboard/internal/store"
)

// Version information
const (
	Version   = "0.1.0"
	BuildDate = "2026-08-28"
)

// App holds the application dependencies.
type App struct {
	Config   *config.Config
	Logger   zerolog.Logger
	Provider marketdata.Provider
	Store    store.DataStore
}

// NewRootCmd creates the root command for the CLI.
func NewRootCmd(cfg *config.Config, logger zerolog.Logger) *cobra.Command {
	app := &App{
		Config: cfg,
		Logger: logger,
	}

	yahoo := marketdata.NewYahooProvider(cfg.Provider.Timeout, logger)
	app.Provider = marketdata.NewCachedProvider(yahoo,
		cfg.Provider.SeriesTTL, cfg.Provider.QuoteTTL)

	dataStore, err := store.NewSQLiteStore(config.DefaultDBPath())
	if err != nil {
		logger.Warn().Err(err).Msg("Failed to initialize store, state will not persist")
	} else {
		app.Store = dataStore
		logger.Debug().Msg("SQLite store initialized")
	}

	rootCmd := &cobra.Command{
		Use:   "finboard",
		Short: "Finboard - stock dashboard and paper trading CLI",
		Long: `Finboard is a terminal dashboard for stock analysis and paper trading.

It fetches market data from Yahoo Finance, computes technical indicators
(moving averages, RSI, Bollinger Bands), resamples price history across
timeframes, and tracks a simulated trading account with price alerts.

Use 'finboard help <command>' for more information about a command.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			debug, _ := cmd.Flags().GetBool("debug")
			if debug {
				app.Logger = app.Logger.Level(zerolog.DebugLevel)
			}
			return nil
		},
	}

	// Global flags
	rootCmd.PersistentFlags().String("config", "", "config directory (default: ~/.config/finboard)")
	rootCmd.PersistentFlags().Bool("json", false, "output in JSON format")
	rootCmd.PersistentFlags().Bool("debug", false, "enable debug logging")

	addCoreCommands(rootCmd, app)
	addMarketCommands(rootCmd, app)
	addTradingCommands(rootCmd, app)
	addAlertCommands(rootCmd, app)
	addWatchlistCommands(rootCmd, app)

	return rootCmd
}

// loadSession rebuilds the dashboard session from the persisted store.
// Without a store a fresh in-memory session is returned.
func (app *App) loadSession(ctx context.Context) (*session.Session, error) {
	if app.Store == nil {
		return session.New(app.Provider, ledger.DefaultInitialBalance), nil
	}

	balance, ok, err := app.Store.GetInitialBalance(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading account settings: %w", err)
	}
	if !ok {
		balance = app.Config.Trading.InitialBalance
		if err := app.Store.SetInitialBalance(ctx, balance); err != nil {
			return nil, fmt.Errorf("saving account settings: %w", err)
		}
	}

	trades, err := app.Store.GetTrades(ctx, store.TradeFilter{Ascending: true})
	if err != nil {
		return nil, fmt.Errorf("loading trade log: %w", err)
	}
	alerts, err := app.Store.GetAlerts(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading alerts: %w", err)
	}
	watchlist, err := app.Store.GetWatchlist(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading watchlist: %w", err)
	}

	return session.Restore(app.Provider, session.State{
		InitialBalance: balance,
		Trades:         trades,
		Alerts:         alerts,
		Watchlist:      watchlist,
	})
}

// saveAlerts persists the session's full alert set.
func (app *App) saveAlerts(ctx context.Context, s *session.Session) error {
	if app.Store == nil {
		return nil
	}
	return app.Store.SaveAlerts(ctx, s.Alerts.All())
}

// addCoreCommands adds core utility commands.
func addCoreCommands(rootCmd *cobra.Command, app *App) {
	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newConfigCmd(app))
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			output := NewOutput(cmd)
			if output.IsJSON() {
				output.JSON(map[string]string{
					"version":    Version,
					"build_date": BuildDate,
				})
			} else {
				output.Printf("Finboard v%s\n", Version)
				output.Dim("Build date: %s", BuildDate)
			}
		},
	}
}

func newConfigCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration management",
		Long:  "View and manage application configuration.",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if output.IsJSON() {
				return output.JSON(app.Config)
			}
			showConfig(output, app.Config)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Show configuration directory path",
		Run: func(cmd *cobra.Command, args []string) {
			output := NewOutput(cmd)
			if output.IsJSON() {
				output.JSON(map[string]string{"path": config.DefaultConfigDir()})
			} else {
				output.Println(config.DefaultConfigDir())
			}
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "validate",
		Short: "Validate configuration file",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if err := app.Config.Validate(); err != nil {
				output.Error("Configuration validation failed: %v", err)
				return err
			}
			if output.IsJSON() {
				output.JSON(map[string]bool{"valid": true})
			} else {
				output.Success("Configuration is valid")
			}
			return nil
		},
	})

	return cmd
}

func showConfig(output *Output, cfg *config.Config) {
	output.Bold("Trading")
	output.Printf("  Initial Balance: %.2f\n", cfg.Trading.InitialBalance)
	output.Println()

	output.Bold("Indicators")
	output.Printf("  MA Short:  %d\n", cfg.Indicators.MAShortPeriod)
	output.Printf("  MA Long:   %d\n", cfg.Indicators.MALongPeriod)
	output.Printf("  RSI:       %d\n", cfg.Indicators.RSIPeriod)
	output.Printf("  BB Period: %d\n", cfg.Indicators.BBPeriod)
	output.Printf("  BB StdDev: %.1f\n", cfg.Indicators.BBStdDev)
	output.Println()

	output.Bold("Provider")
	output.Printf("  Timeout:    %s\n", cfg.Provider.Timeout)
	output.Printf("  Series TTL: %s\n", cfg.Provider.SeriesTTL)
	output.Printf("  Quote TTL:  %s\n", cfg.Provider.QuoteTTL)
}
