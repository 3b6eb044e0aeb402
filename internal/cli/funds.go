package cli

import (
	"strconv"

	"github.com/spf13/cobra"

	apperrors "tradeview/internal/errors"
)

// addFundsCommands adds the funds commands.
func addFundsCommands(rootCmd *cobra.Command, app *App) {
	cmd := &cobra.Command{
		Use:   "funds",
		Short: "Show available funds",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if output.IsJSON() {
				return output.JSON(map[string]interface{}{
					"balance": app.Funds.Balance(),
					"ledger":  app.Funds.Ledger(),
				})
			}
			output.Printf("Available balance: %s\n", FormatIndianCurrency(app.Funds.Balance()))
			return nil
		},
	}

	addCmd := &cobra.Command{
		Use:   "add <amount>",
		Short: "Add funds via UPI",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			amount, err := strconv.ParseFloat(args[0], 64)
			if err != nil {
				return apperrors.NewValidationError("amount", args[0], "not a number")
			}
			upiID, _ := cmd.Flags().GetString("upi")

			balance, err := app.Funds.Add(upiID, amount)
			if err != nil {
				return err
			}
			if output.IsJSON() {
				return output.JSON(map[string]float64{"balance": balance})
			}
			output.Success("Added %s from %s", FormatIndianCurrency(amount), upiID)
			output.Printf("Available balance: %s\n", FormatIndianCurrency(balance))
			return nil
		},
	}
	addCmd.Flags().String("upi", "", "UPI ID to debit (name@provider)")
	addCmd.MarkFlagRequired("upi")
	cmd.AddCommand(addCmd)

	cmd.AddCommand(&cobra.Command{
		Use:   "withdraw <amount>",
		Short: "Withdraw funds",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			amount, err := strconv.ParseFloat(args[0], 64)
			if err != nil {
				return apperrors.NewValidationError("amount", args[0], "not a number")
			}
			balance, err := app.Funds.Withdraw(amount)
			if err != nil {
				return err
			}
			if output.IsJSON() {
				return output.JSON(map[string]float64{"balance": balance})
			}
			output.Success("Withdrew %s", FormatIndianCurrency(amount))
			output.Printf("Available balance: %s\n", FormatIndianCurrency(balance))
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "history",
		Short: "Show funds transaction history",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			ledger := app.Funds.Ledger()
			if output.IsJSON() {
				return output.JSON(ledger)
			}
			if len(ledger) == 0 {
				output.Dim("No transactions yet")
				return nil
			}
			table := NewTable(output, "TIME", "KIND", "AMOUNT", "UPI")
			for _, txn := range ledger {
				table.AddRow(
					FormatDateTime(txn.Time),
					string(txn.Kind),
					FormatIndianCurrency(txn.Amount),
					txn.UPIID,
				)
			}
			table.Render()
			return nil
		},
	})

	rootCmd.AddCommand(cmd)
}
