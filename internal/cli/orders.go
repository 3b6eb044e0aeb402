package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"tradeview/internal/market"
	"tradeview/internal/models"
	"tradeview/internal/validate"
)

// addOrderCommands adds the order-ticket commands.
func addOrderCommands(rootCmd *cobra.Command, app *App) {
	cmd := &cobra.Command{
		Use:   "orders",
		Short: "Show placed orders",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			orders := app.Engine.Orders()
			if output.IsJSON() {
				return output.JSON(orders)
			}
			if len(orders) == 0 {
				output.Dim("No orders placed")
				return nil
			}

			table := NewTable(output, "TIME", "SYMBOL", "SIDE", "PRODUCT", "QTY", "PRICE", "STATUS")
			for _, o := range orders {
				table.AddRow(
					FormatTime(o.Time),
					o.Symbol,
					string(o.Side),
					string(o.Product),
					FormatQuantity(int64(o.Quantity)),
					fmt.Sprintf("%.2f", o.Price),
					string(o.Status),
				)
			}
			table.Render()
			output.Dim("Orders are demo tickets and are not routed to any exchange")
			return nil
		},
	}

	cmd.AddCommand(newOrderPlaceCmd(app, models.OrderSideBuy))
	cmd.AddCommand(newOrderPlaceCmd(app, models.OrderSideSell))
	rootCmd.AddCommand(cmd)
}

func newOrderPlaceCmd(app *App, side models.OrderSide) *cobra.Command {
	verb := strings.ToLower(string(side))
	cmd := &cobra.Command{
		Use:   verb + " <symbol> <quantity>",
		Short: "Place a demo " + verb + " order at the current price",
		Args:  cobra.ExactArgs(2),
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
			product, _ := cmd.Flags().GetString("product")

			app.Engine.Refresh(cmd.Context(), market.RefreshManual)
			price := 0.0
			for _, s := range app.Engine.Stocks() {
				if s.Symbol == symbol {
					price = s.Price
					break
				}
			}

			order := models.Order{
				ID:       fmt.Sprintf("ord-%d", time.Now().UnixNano()),
				Symbol:   symbol,
				Exchange: models.NSE,
				Side:     side,
				Product:  models.ProductType(product),
				Price:    price,
				Quantity: qty,
			}
			app.Engine.PlaceOrder(order)

			if output.IsJSON() {
				return output.JSON(order)
			}
			output.Success("%s order placed: %s x%d @ %.2f", side, symbol, qty, price)
			output.Dim("Demo order, not routed to any exchange")
			return nil
		},
	}
	cmd.Flags().String("product", string(models.ProductCNC), "product type (MIS, CNC, NRML)")
	return cmd
}
