package config

import (
	"fmt"
	"os"
	"path/filepath"
)

const configTemplate = `# tradeview configuration

[market]
# How often to attempt a live quote fetch
refresh_interval = "8s"
# How often the simulator ticks while no live data is available
sim_interval = "1s"
# How often market hours are re-evaluated
status_interval = "30s"
# Minimum spacing between fetch cycles
fetch_cooldown = "5s"

[simulator]
# Uniform-random cutoff below which a tick moves down (0.48 = slight up bias)
down_threshold = 0.48
# Per-tick volatility fraction for untiered symbols
default_volatility = 0.002
# Per-tick volatility fraction for index values
index_volatility = 0.0015

[simulator.tiers]
ADANIENT = 0.004
TATAMOTORS = 0.004
RELIANCE = 0.003
BHARTIARTL = 0.003
SBIN = 0.003

[quotes]
# Broker quote API credentials. Values saved via "tradeview quotecfg set"
# take precedence over this file.
base_url = ""
access_token = ""
api_key = ""
api_secret = ""

[funds]
# Demo account opening balance in INR
opening_balance = 125000.0

[logging]
# Log level: debug, info, warn, error
level = "info"
console = true
file = true
max_size_mb = 50
max_backups = 5
max_age_days = 30

[ui]
# Enable colored output
color_enabled = true
# Date format
date_format = "02-Jan-2006"
# Time format
time_format = "15:04:05"
`

func createTemplateConfig(configDir string) error {
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	path := filepath.Join(configDir, "config.toml")
	if err := os.WriteFile(path, []byte(configTemplate), 0644); err != nil {
		return fmt.Errorf("writing config template: %w", err)
	}
	return nil
}
