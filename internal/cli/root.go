// Package cli provides the command-line interface for the app.
package cli

import (
	"context"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"tradeview/internal/auth"
	"tradeview/internal/config"
	"tradeview/internal/funds"
	"tradeview/internal/logging"
	"tradeview/internal/market"
	"tradeview/internal/quotes"
	"tradeview/internal/store"
	"tradeview/internal/stream"
)

// Version information
const (
	Version = "0.1.0"
)

func cmdContext() context.Context {
	return context.Background()
}

func seedFromClock() int64 {
	return time.Now().UnixNano()
}

// App holds the application dependencies.
type App struct {
	Config *config.Config
	Logger zerolog.Logger
	Store  store.SettingsStore
	Engine *market.Engine
	Hub    *stream.Hub
	Broker *quotes.BrokerSource
	Auth   *auth.Manager
	Funds  *funds.Manager
}

// NewRootCmd wires the application and creates the root command.
func NewRootCmd(cfg *config.Config, logger zerolog.Logger) *cobra.Command {
	app := &App{
		Config: cfg,
		Logger: logger,
	}

	if err := os.MkdirAll(config.DefaultConfigDir(), 0755); err != nil {
		logger.Warn().Err(err).Msg("cannot create config directory")
	}
	settings, err := store.NewSQLiteStore(config.DatabasePath(""))
	if err != nil {
		logger.Warn().Err(err).Msg("settings store unavailable, PIN and saved credentials disabled")
	} else {
		app.Store = settings
	}

	quoteCfg := quotes.Config{
		BaseURL:     cfg.Quotes.BaseURL,
		AccessToken: cfg.Quotes.AccessToken,
		APIKey:      cfg.Quotes.APIKey,
		APISecret:   cfg.Quotes.APISecret,
	}
	if app.Store != nil {
		// Saved credentials win over the config file.
		var saved quotes.Config
		if err := app.Store.GetJSON(cmdContext(), quotes.ConfigStorageKey, &saved); err == nil {
			if saved.Sanitize().IsConfigured() {
				quoteCfg = saved
			}
		}
	}

	app.Broker = quotes.NewBrokerSource(quoteCfg, logger)
	yahoo := quotes.NewYahooSource(logger)

	app.Hub = stream.NewHub()
	sim := market.NewSimulator(market.SimulatorConfig{
		DownThreshold:     cfg.Simulator.DownThreshold,
		DefaultVolatility: cfg.Simulator.DefaultVolatility,
		IndexVolatility:   cfg.Simulator.IndexVolatility,
		Tiers:             cfg.Simulator.Tiers,
	}, seedFromClock())
	app.Engine = market.NewEngine(market.EngineConfig{
		RefreshInterval: cfg.Market.RefreshInterval,
		SimInterval:     cfg.Market.SimInterval,
		StatusInterval:  cfg.Market.StatusInterval,
		FetchCooldown:   cfg.Market.FetchCooldown,
	}, app.Broker, yahoo, sim, app.Hub, logger)

	if app.Store != nil {
		app.Auth = auth.NewManager(app.Store, logger)
	}
	app.Funds = funds.NewManager(cfg.Funds.OpeningBalance, logger)

	rootCmd := &cobra.Command{
		Use:   "tradeview",
		Short: "tradeview - demo brokerage CLI for the Indian stock market",
		Long: `tradeview is a demo brokerage CLI for the Indian stock market.

It maintains a live watchlist, holdings and positions view, blending quotes
from a configured broker API and a public feed, with a market-hours-aware
price simulation fallback when neither is reachable.

Use 'tradeview help <command>' for more information about a command.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			debug, _ := cmd.Flags().GetBool("debug")
			if debug {
				logging.SetDebugLevel()
				app.Logger = app.Logger.Level(zerolog.DebugLevel)
			}
			return nil
		},
	}

	rootCmd.PersistentFlags().String("config", "", "config directory (default: ~/.config/tradeview)")
	rootCmd.PersistentFlags().Bool("json", false, "output in JSON format")
	rootCmd.PersistentFlags().Bool("debug", false, "enable debug logging")

	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newConfigCmd(app))
	addMarketCommands(rootCmd, app)
	addPortfolioCommands(rootCmd, app)
	addOrderCommands(rootCmd, app)
	addFundsCommands(rootCmd, app)
	addPINCommands(rootCmd, app)
	addQuoteConfigCommands(rootCmd, app)

	return rootCmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			output := NewOutput(cmd)
			if output.IsJSON() {
				output.JSON(map[string]string{"version": Version})
			} else {
				output.Printf("tradeview v%s\n", Version)
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
		Short: "Validate the configuration file",
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
	output.Bold("Market")
	output.Printf("  Refresh Interval: %s\n", cfg.Market.RefreshInterval)
	output.Printf("  Sim Interval:     %s\n", cfg.Market.SimInterval)
	output.Printf("  Fetch Cooldown:   %s\n", cfg.Market.FetchCooldown)
	output.Println()

	output.Bold("Simulator")
	output.Printf("  Down Threshold:     %.2f\n", cfg.Simulator.DownThreshold)
	output.Printf("  Default Volatility: %.4f\n", cfg.Simulator.DefaultVolatility)
	output.Printf("  Index Volatility:   %.4f\n", cfg.Simulator.IndexVolatility)
	output.Printf("  Volatility Tiers:   %d\n", len(cfg.Simulator.Tiers))
	output.Println()

	output.Bold("Funds")
	output.Printf("  Opening Balance: %s\n", FormatIndianCurrency(cfg.Funds.OpeningBalance))
	output.Println()

	output.Bold("Logging")
	output.Printf("  Level:   %s\n", cfg.Logging.Level)
	output.Printf("  Console: %v\n", cfg.Logging.Console)
	output.Printf("  File:    %v\n", cfg.Logging.File)
}
