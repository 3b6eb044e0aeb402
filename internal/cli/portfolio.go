package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"tradeview/internal/market"
	"tradeview/internal/models"
	"tradeview/internal/validate"
)

// addPortfolioCommands adds holdings and positions commands.
func addPortfolioCommands(rootCmd *cobra.Command, app *App) {
	rootCmd.AddCommand(newHoldingsCmd(app))
	rootCmd.AddCommand(newPositionsCmd(app))
}

func newHoldingsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "holdings",
		Short: "Show portfolio holdings",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			app.Engine.Refresh(cmd.Context(), market.RefreshManual)

			holdings := app.Engine.Holdings()
			if output.IsJSON() {
				return output.JSON(holdings)
			}

			var invested, current, dayPnL float64
			table := NewTable(output, "SYMBOL", "QTY", "AVG", "LTP", "P&L", "P&L %", "DAY")
			for _, h := range holdings {
				invested += h.Invested
				current += h.Current
				dayPnL += h.DayChange * float64(h.Quantity)
				table.AddRow(
					h.Symbol,
					FormatQuantity(int64(h.Quantity)),
					fmt.Sprintf("%.2f", h.AvgPrice),
					fmt.Sprintf("%.2f", h.LTP),
					output.FormatPnLColored(h.PnL),
					output.FormatPercentColored(h.PnLPercent),
					output.FormatPercentColored(h.DayChangePercent),
				)
			}
			table.Render()
			output.Println()

			totalPnL := current - invested
			totalPct := 0.0
			if invested > 0 {
				totalPct = totalPnL / invested * 100
			}
			output.Printf("Invested: %s   Current: %s   P&L: %s (%s)   Day: %s\n",
				FormatIndianCurrency(invested),
				FormatIndianCurrency(current),
				output.FormatPnLColored(models.Round2(totalPnL)),
				output.FormatPercentColored(models.Round2(totalPct)),
				output.FormatPnLColored(models.Round2(dayPnL)))
			printDataSourceLine(output, app)
			return nil
		},
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "add <symbol> <quantity> <avg-price>",
		Short: "Add a holding",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			symbol := validate.SanitizeSymbol(args[0])
			if err := validate.Symbol(symbol); err != nil {
				return err
			}
			qty, err := parseQuantity(args[1])
			if err != nil {
				return err
			}
			avg, err := parsePrice(args[2])
			if err != nil {
				return err
			}

			h := models.Holding{
				Symbol:   symbol,
				Quantity: qty,
				AvgPrice: avg,
				LTP:      avg,
				Invested: models.Round2(float64(qty) * avg),
				Current:  models.Round2(float64(qty) * avg),
			}
			if err := app.Engine.AddHolding(h); err != nil {
				return err
			}
			app.Engine.Refresh(cmd.Context(), market.RefreshManual)
			output.Success("Added holding %s x%d @ %.2f", symbol, qty, avg)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "edit <symbol> <quantity> <avg-price>",
		Short: "Edit a holding's quantity and average price",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			symbol := validate.SanitizeSymbol(args[0])
			qty, err := parseQuantity(args[1])
			if err != nil {
				return err
			}
			avg, err := parsePrice(args[2])
			if err != nil {
				return err
			}
			if err := app.Engine.UpdateHolding(symbol, qty, avg); err != nil {
				return err
			}
			output.Success("Updated holding %s", symbol)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "delete <symbol>",
		Short: "Delete a holding",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			symbol := validate.SanitizeSymbol(args[0])
			if err := app.Engine.DeleteHolding(symbol); err != nil {
				return err
			}
			output.Success("Deleted holding %s", symbol)
			return nil
		},
	})

	return cmd
}

func newPositionsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "positions",
		Short: "Show open positions",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			app.Engine.Refresh(cmd.Context(), market.RefreshManual)

			positions := app.Engine.Positions()
			if output.IsJSON() {
				return output.JSON(positions)
			}
			if len(positions) == 0 {
				output.Dim("No open positions")
				return nil
			}

			var total float64
			table := NewTable(output, "SYMBOL", "PRODUCT", "SIDE", "QTY", "AVG", "LTP", "P&L")
			for _, p := range positions {
				total += p.PnL
				table.AddRow(
					p.Symbol,
					string(p.Product),
					string(p.Side),
					FormatQuantity(int64(p.Quantity)),
					fmt.Sprintf("%.2f", p.AvgPrice),
					fmt.Sprintf("%.2f", p.LTP),
					output.FormatPnLColored(p.PnL),
				)
			}
			table.Render()
			output.Println()
			output.Printf("Total P&L: %s\n", output.FormatPnLColored(models.Round2(total)))
			printDataSourceLine(output, app)
			return nil
		},
	}

	addCmd := &cobra.Command{
		Use:   "add <symbol> <quantity> <avg-price>",
		Short: "Add a position",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			symbol := validate.SanitizeSymbol(args[0])
			if err := validate.Symbol(symbol); err != nil {
				return err
			}
			qty, err := parseQuantity(args[1])
			if err != nil {
				return err
			}
			avg, err := parsePrice(args[2])
			if err != nil {
				return err
			}
			product, _ := cmd.Flags().GetString("product")
			side, _ := cmd.Flags().GetString("side")

			p := models.Position{
				Symbol:   symbol,
				Product:  models.ProductType(product),
				Side:     models.OrderSide(side),
				Quantity: qty,
				AvgPrice: avg,
				LTP:      avg,
			}
			if err := app.Engine.AddPosition(p); err != nil {
				return err
			}
			app.Engine.Refresh(cmd.Context(), market.RefreshManual)
			output.Success("Added position %s x%d @ %.2f", symbol, qty, avg)
			return nil
		},
	}
	addCmd.Flags().String("product", string(models.ProductMIS), "product type (MIS, CNC, NRML)")
	addCmd.Flags().String("side", string(models.OrderSideBuy), "side (BUY, SELL)")
	cmd.AddCommand(addCmd)

	cmd.AddCommand(&cobra.Command{
		Use:   "delete <symbol>",
		Short: "Delete a position",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			symbol := validate.SanitizeSymbol(args[0])
			if err := app.Engine.DeletePosition(symbol); err != nil {
				return err
			}
			output.Success("Deleted position %s", symbol)
			return nil
		},
	})

	return cmd
}
