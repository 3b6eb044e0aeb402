package quotes

import (
	"os"
	"strings"
)

// Config is the user-editable credential bag for the broker quote API. It is
// persisted verbatim as a JSON blob in the settings store; there is no schema
// versioning beyond the storage-key suffix.
type Config struct {
	BaseURL     string `json:"baseUrl,omitempty"`
	AccessToken string `json:"accessToken,omitempty"`
	APIKey      string `json:"apiKey,omitempty"`
	APISecret   string `json:"apiSecret,omitempty"`
}

// ConfigStorageKey is the settings-store key for the credential bag.
const ConfigStorageKey = "quotecfg.v1"

// Sanitize trims whitespace from every field.
func (c Config) Sanitize() Config {
	return Config{
		BaseURL:     strings.TrimSpace(c.BaseURL),
		AccessToken: strings.TrimSpace(c.AccessToken),
		APIKey:      strings.TrimSpace(c.APIKey),
		APISecret:   strings.TrimSpace(c.APISecret),
	}
}

// IsConfigured reports whether the broker source has enough configuration to
// attempt a fetch. Both the base URL and the access token are required.
func (c Config) IsConfigured() bool {
	return c.BaseURL != "" && c.AccessToken != ""
}

// ConfigFromEnv reads the credential bag from environment variables.
func ConfigFromEnv() Config {
	return Config{
		BaseURL:     strings.TrimSpace(os.Getenv("TRADEVIEW_QUOTE_BASE_URL")),
		AccessToken: strings.TrimSpace(os.Getenv("TRADEVIEW_QUOTE_ACCESS_TOKEN")),
		APIKey:      strings.TrimSpace(os.Getenv("TRADEVIEW_QUOTE_API_KEY")),
		APISecret:   strings.TrimSpace(os.Getenv("TRADEVIEW_QUOTE_API_SECRET")),
	}
}

// Resolve overlays c on top of the environment config: explicit fields win,
// empty fields fall back to the environment.
func (c Config) Resolve() Config {
	env := ConfigFromEnv()
	out := c.Sanitize()
	if out.BaseURL == "" {
		out.BaseURL = env.BaseURL
	}
	if out.AccessToken == "" {
		out.AccessToken = env.AccessToken
	}
	if out.APIKey == "" {
		out.APIKey = env.APIKey
	}
	if out.APISecret == "" {
		out.APISecret = env.APISecret
	}
	return out
}
