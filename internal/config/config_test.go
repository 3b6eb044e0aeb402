package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileUsesDefaultsAndWritesTemplate(t *testing.T) {
	dir := t.TempDir()

	cfg, err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, 8*time.Second, cfg.Market.RefreshInterval)
	assert.Equal(t, 0.48, cfg.Simulator.DownThreshold)
	assert.Equal(t, 125000.00, cfg.Funds.OpeningBalance)

	_, statErr := os.Stat(filepath.Join(dir, "config.toml"))
	assert.NoError(t, statErr, "first run writes a template")
}

func TestLoadReadsOverrides(t *testing.T) {
	dir := t.TempDir()
	content := `
[market]
refresh_interval = "15s"
fetch_cooldown = "2s"

[simulator]
down_threshold = 0.5

[simulator.tiers]
FOO = 0.01

[funds]
opening_balance = 50000.0

[ui]
color_enabled = false
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"), []byte(content), 0644))

	cfg, err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, 15*time.Second, cfg.Market.RefreshInterval)
	assert.Equal(t, 2*time.Second, cfg.Market.FetchCooldown)
	assert.Equal(t, time.Second, cfg.Market.SimInterval, "unset keys keep defaults")
	assert.Equal(t, 0.5, cfg.Simulator.DownThreshold)
	assert.Equal(t, 0.01, cfg.Simulator.Tiers["FOO"])
	assert.Equal(t, 50000.0, cfg.Funds.OpeningBalance)
	assert.False(t, cfg.UI.ColorEnabled)
}

func TestLoadInvalidConfigRejected(t *testing.T) {
	dir := t.TempDir()
	content := `
[market]
refresh_interval = "0s"
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"), []byte(content), 0644))

	_, err := Load(dir)
	assert.Error(t, err)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("TRADEVIEW_QUOTE_BASE_URL", "https://env.example.com")
	t.Setenv("TRADEVIEW_LOG_LEVEL", "debug")

	cfg, err := Load(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, "https://env.example.com", cfg.Quotes.BaseURL)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestValidate(t *testing.T) {
	cfg := Default()
	assert.NoError(t, cfg.Validate())

	bad := Default()
	bad.Simulator.DownThreshold = 1.5
	assert.Error(t, bad.Validate())

	bad = Default()
	bad.Funds.OpeningBalance = -1
	assert.Error(t, bad.Validate())
}

func TestDatabasePath(t *testing.T) {
	assert.Equal(t, filepath.Join("/tmp/x", "settings.db"), DatabasePath("/tmp/x"))
	assert.Contains(t, DatabasePath(""), "tradeview")
}
