package cli

import (
	"github.com/spf13/cobra"

	apperrors "tradeview/internal/errors"
	"tradeview/internal/quotes"
	"tradeview/internal/validate"
)

// addQuoteConfigCommands adds the broker quote API credential commands.
func addQuoteConfigCommands(rootCmd *cobra.Command, app *App) {
	cmd := &cobra.Command{
		Use:   "quotecfg",
		Short: "Manage broker quote API credentials",
		Long: `Manage the broker quote API credentials.

With a base URL and access token configured, quotes are fetched from the
broker API and take precedence over the public feed. Credentials are saved
in the local settings database.`,
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show the saved credentials (masked)",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			cfg := loadQuoteConfig(app)

			if output.IsJSON() {
				return output.JSON(map[string]interface{}{
					"base_url":     cfg.BaseURL,
					"access_token": validate.MaskCredential(cfg.AccessToken),
					"api_key":      validate.MaskCredential(cfg.APIKey),
					"configured":   cfg.IsConfigured(),
				})
			}

			output.Printf("Base URL:     %s\n", orDim(output, cfg.BaseURL))
			output.Printf("Access Token: %s\n", orDim(output, validate.MaskCredential(cfg.AccessToken)))
			output.Printf("API Key:      %s\n", orDim(output, validate.MaskCredential(cfg.APIKey)))
			if cfg.IsConfigured() {
				output.Success("Broker quote API configured")
			} else {
				output.Dim("Not configured, public quotes only")
			}
			return nil
		},
	})

	setCmd := &cobra.Command{
		Use:   "set",
		Short: "Save broker quote API credentials",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if app.Store == nil {
				return apperrors.Wrap(apperrors.ErrDatabaseError, "settings store unavailable")
			}

			cfg := loadQuoteConfig(app)
			if v, _ := cmd.Flags().GetString("base-url"); v != "" {
				cfg.BaseURL = v
			}
			if v, _ := cmd.Flags().GetString("access-token"); v != "" {
				cfg.AccessToken = v
			}
			if v, _ := cmd.Flags().GetString("api-key"); v != "" {
				cfg.APIKey = v
			}
			if v, _ := cmd.Flags().GetString("api-secret"); v != "" {
				cfg.APISecret = v
			}
			cfg = cfg.Sanitize()

			if err := app.Store.SetJSON(cmd.Context(), quotes.ConfigStorageKey, cfg); err != nil {
				return err
			}
			app.Broker.SetConfig(cfg)

			if cfg.IsConfigured() {
				output.Success("Credentials saved, broker quotes enabled")
			} else {
				output.Warning("Credentials saved, but base URL and access token are both required for broker quotes")
			}
			return nil
		},
	}
	setCmd.Flags().String("base-url", "", "broker quote API base URL")
	setCmd.Flags().String("access-token", "", "broker API access token")
	setCmd.Flags().String("api-key", "", "broker API key")
	setCmd.Flags().String("api-secret", "", "broker API secret")
	cmd.AddCommand(setCmd)

	cmd.AddCommand(&cobra.Command{
		Use:   "clear",
		Short: "Delete the saved credentials",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if app.Store == nil {
				return apperrors.Wrap(apperrors.ErrDatabaseError, "settings store unavailable")
			}
			if err := app.Store.Delete(cmd.Context(), quotes.ConfigStorageKey); err != nil {
				return err
			}
			app.Broker.SetConfig(quotes.Config{})
			output.Success("Credentials cleared")
			return nil
		},
	})

	rootCmd.AddCommand(cmd)
}

func loadQuoteConfig(app *App) quotes.Config {
	var cfg quotes.Config
	if app.Store != nil {
		_ = app.Store.GetJSON(cmdContext(), quotes.ConfigStorageKey, &cfg)
	}
	return cfg.Sanitize()
}

func orDim(output *Output, s string) string {
	if s == "" {
		return output.DimText("(not set)")
	}
	return s
}
