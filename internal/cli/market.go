package cli

import (
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	apperrors "tradeview/internal/errors"
	"tradeview/internal/market"
	"tradeview/internal/market/hours"
	"tradeview/internal/models"
	"tradeview/internal/validate"
)

// addMarketCommands adds watchlist, quote, refresh and status commands.
func addMarketCommands(rootCmd *cobra.Command, app *App) {
	rootCmd.AddCommand(newWatchCmd(app))
	rootCmd.AddCommand(newQuoteCmd(app))
	rootCmd.AddCommand(newRefreshCmd(app))
	rootCmd.AddCommand(newStatusCmd(app))
}

func newWatchCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Show the watchlist with current prices",
		RunE: func(cmd *cobra.Command, args []string) error {
			follow, _ := cmd.Flags().GetBool("follow")
			output := NewOutput(cmd)

			app.Engine.Refresh(cmd.Context(), market.RefreshManual)
			if !follow {
				printWatchlist(output, app)
				return nil
			}
			return followUpdates(cmd, app, func() { printWatchlist(output, app) })
		},
	}
	cmd.Flags().Bool("follow", false, "keep the watchlist updating until interrupted")

	cmd.AddCommand(&cobra.Command{
		Use:   "add <symbol>",
		Short: "Add a symbol to the watchlist",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			symbol := validate.SanitizeSymbol(args[0])
			if err := validate.Symbol(symbol); err != nil {
				return err
			}
			if err := app.Engine.AddStock(models.Stock{
				Symbol:   symbol,
				Name:     symbol,
				Exchange: models.NSE,
			}); err != nil {
				return err
			}
			app.Engine.Refresh(cmd.Context(), market.RefreshManual)
			output.Success("Added %s to the watchlist", symbol)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "remove <symbol>",
		Short: "Remove a symbol from the watchlist",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			symbol := validate.SanitizeSymbol(args[0])
			if err := app.Engine.RemoveStock(symbol); err != nil {
				return err
			}
			output.Success("Removed %s from the watchlist", symbol)
			return nil
		},
	})

	return cmd
}

func printWatchlist(output *Output, app *App) {
	if output.IsJSON() {
		output.JSON(map[string]interface{}{
			"indices": app.Engine.Indices(),
			"stocks":  app.Engine.Stocks(),
			"live":    app.Engine.IsLive(),
		})
		return
	}

	for _, idx := range app.Engine.Indices() {
		output.Printf("%s  %s  %s\n",
			output.BoldText(fmt.Sprintf("%-10s", idx.Name)),
			fmt.Sprintf("%12.2f", idx.Price),
			output.Trend(idx.IsUp, FormatChange(idx.Change, idx.ChangePercent)))
	}
	output.Println()

	table := NewTable(output, "SYMBOL", "LTP", "CHANGE", "CHANGE %")
	for _, s := range app.Engine.Stocks() {
		table.AddRow(
			s.Symbol,
			fmt.Sprintf("%.2f", s.Price),
			output.Trend(s.IsUp, fmt.Sprintf("%+.2f", s.Change)),
			output.Trend(s.IsUp, FormatPercent(s.ChangePercent)),
		)
	}
	table.Render()

	printDataSourceLine(output, app)
}

func printDataSourceLine(output *Output, app *App) {
	if app.Engine.IsLive() {
		output.Dim("live data, updated %s", FormatTime(app.Engine.LastUpdated()))
	} else if app.Engine.IsMarketOpen() {
		output.Dim("simulated data")
	} else {
		output.Dim("market closed, last known prices")
	}
}

// followUpdates re-renders on every hub update until the user interrupts.
func followUpdates(cmd *cobra.Command, app *App, render func()) error {
	ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	go app.Engine.Run(ctx)

	updates := app.Hub.Subscribe()
	defer app.Hub.Unsubscribe(updates)

	render()
	for {
		select {
		case <-ctx.Done():
			return nil
		case _, ok := <-updates:
			if !ok {
				return nil
			}
			render()
		}
	}
}

func newQuoteCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "quote <symbol>",
		Short: "Show the current quote for a symbol",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			symbol := validate.SanitizeSymbol(args[0])
			if err := validate.Symbol(symbol); err != nil {
				return err
			}

			app.Engine.Refresh(cmd.Context(), market.RefreshManual)
			for _, s := range app.Engine.Stocks() {
				if s.Symbol != symbol {
					continue
				}
				if output.IsJSON() {
					return output.JSON(s)
				}
				output.Bold("%s (%s)", s.Symbol, s.Exchange)
				output.Printf("  LTP:    %.2f\n", s.Price)
				output.Printf("  Change: %s\n", output.Trend(s.IsUp, FormatChange(s.Change, s.ChangePercent)))
				printDataSourceLine(output, app)
				return nil
			}
			return apperrors.ErrSymbolNotFound
		},
	}
}

func newRefreshCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "refresh",
		Short: "Force a quote fetch cycle",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			ran := app.Engine.Refresh(cmd.Context(), market.RefreshManual)
			if output.IsJSON() {
				return output.JSON(map[string]interface{}{
					"ran":  ran,
					"live": app.Engine.IsLive(),
				})
			}
			if !ran {
				output.Warning("Refresh skipped (another fetch ran within the cooldown window)")
				return nil
			}
			if app.Engine.IsLive() {
				output.Success("Refreshed with live data")
			} else {
				output.Warning("No live data available, keeping last known prices")
			}
			return nil
		},
	}
}

func newStatusCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show market session status",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			now := time.Now()
			status := hours.StatusAt(now)

			if output.IsJSON() {
				return output.JSON(map[string]interface{}{
					"status":            status,
					"open":              hours.IsOpenAt(now),
					"next_open":         hours.NextOpen(now),
					"broker_configured": app.Broker.IsConfigured(),
				})
			}

			output.Printf("Market: %s\n", output.MarketStatus(status))
			output.Printf("Time:   %s IST\n", FormatTime(now))
			if !hours.IsOpenAt(now) {
				output.Printf("Opens:  %s\n", FormatDateTime(hours.NextOpen(now)))
			} else {
				output.Printf("Closes: %s\n", FormatTime(hours.CloseToday(now)))
			}
			if app.Broker.IsConfigured() {
				output.Info("Broker quote API configured")
			} else {
				output.Dim("Broker quote API not configured, using public quotes only")
			}
			return nil
		},
	}
}

// parseQuantity parses a positive integer quantity argument.
func parseQuantity(arg string) (int, error) {
	qty, err := strconv.Atoi(arg)
	if err != nil {
		return 0, apperrors.NewValidationError("quantity", arg, "not a number")
	}
	if err := validate.Quantity(qty); err != nil {
		return 0, err
	}
	return qty, nil
}

// parsePrice parses a non-negative price argument.
func parsePrice(arg string) (float64, error) {
	price, err := strconv.ParseFloat(arg, 64)
	if err != nil {
		return 0, apperrors.NewValidationError("price", arg, "not a number")
	}
	if err := validate.Price(price); err != nil {
		return 0, err
	}
	return price, nil
}
