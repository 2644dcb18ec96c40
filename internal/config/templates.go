package config

import (
	"fmt"
	"os"
	"path/filepath"
)

const configTemplate = `# Finboard Configuration

[trading]
# Starting cash balance for the paper-trading account
initial_balance = 100000.0

[indicators]
# Short and long moving average windows
ma_short_period = 20
ma_long_period = 50
# RSI lookback period
rsi_period = 14
# Bollinger Bands window and standard deviation multiplier
bb_period = 20
bb_std_dev = 2.0

[provider]
# HTTP timeout for market data requests (e.g., "10s")
timeout = "10s"
# How long cached history and quotes stay fresh
series_ttl = "1h"
quote_ttl = "1m"

[ui]
# Enable colored output
color_enabled = true
# Date format
date_format = "02-Jan-2006"
# Time format
time_format = "15:04:05"

[logging]
# Log level: trace, debug, info, warn, error
level = "info"
# Log file path (empty = <config dir>/logs/finboard.log)
file = ""
# Rotation settings
max_size_mb = 10
max_backups = 3
max_age_days = 30
# Also log to stderr
console = false
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
