package cli

import (
	"github.com/spf13/cobra"

	apperrors "tradeview/internal/errors"
)

// addPINCommands adds the PIN lock commands.
func addPINCommands(rootCmd *cobra.Command, app *App) {
	cmd := &cobra.Command{
		Use:   "pin",
		Short: "Manage the security PIN",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "verify <pin>",
		Short: "Verify the security PIN",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if app.Auth == nil {
				return apperrors.Wrap(apperrors.ErrDatabaseError, "settings store unavailable")
			}
			if err := app.Auth.Verify(cmd.Context(), args[0]); err != nil {
				output.Error("Incorrect PIN")
				return err
			}
			if output.IsJSON() {
				return output.JSON(map[string]bool{"unlocked": true})
			}
			output.Success("PIN verified")
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "set <current-pin> <new-pin>",
		Short: "Change the security PIN",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if app.Auth == nil {
				return apperrors.Wrap(apperrors.ErrDatabaseError, "settings store unavailable")
			}
			if err := app.Auth.SetPIN(cmd.Context(), args[0], args[1]); err != nil {
				return err
			}
			output.Success("PIN changed")
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "lock",
		Short: "Lock the app until the PIN is verified again",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if app.Auth == nil {
				return apperrors.Wrap(apperrors.ErrDatabaseError, "settings store unavailable")
			}
			app.Auth.Lock()
			if output.IsJSON() {
				return output.JSON(map[string]bool{"unlocked": false})
			}
			output.Success("Locked")
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "reset",
		Short: "Reset the PIN to the default",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if app.Auth == nil {
				return apperrors.Wrap(apperrors.ErrDatabaseError, "settings store unavailable")
			}
			if err := app.Auth.ResetPIN(cmd.Context()); err != nil {
				return err
			}
			output.Success("PIN reset to default")
			return nil
		},
	})

	rootCmd.AddCommand(cmd)
}
