package config

import (
	"fmt"
	"os"
	"path/filepath"
)

const configTemplate = `# Earnings Bot Configuration

[bot]
# CSV file mapping ticker symbols to company names.
# Columns: "Ticker", "Company Name". Pass order is file order.
universe_path = ""
# Delay between full passes in continuous mode
poll_interval = "60m"
# Target number of posts per summary thread
thread_length = 5
# Per-post character budget for the fallback splitter.
# A few characters under the 280-char platform limit to leave headroom.
post_char_budget = 260
# Delay between posts within one thread
post_delay = "1s"
# Delay between tickers within one pass
ticker_delay = "1s"

[store]
# Processed-record store backend: "file" (JSON) or "sqlite"
backend = "file"
# Path of the store file or database
path = ""
`

const credentialsTemplate = `# Earnings Bot Credentials
# WARNING: Keep this file secure! Do not commit to version control.

[openai]
api_key = ""
model = "gpt-4"

[twitter]
bearer_token = ""

[market]
# Override the market data endpoint; empty uses the default.
base_url = ""
api_key = ""
`

// createTemplateConfig writes a commented config template. Missing main
// config is not an error: every key has a usable default.
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

func createTemplateCredentials(configDir string) error {
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	path := filepath.Join(configDir, "credentials.toml")
	// Use restricted permissions for credentials file
	if err := os.WriteFile(path, []byte(credentialsTemplate), 0600); err != nil {
		return fmt.Errorf("writing credentials template: %w", err)
	}

	return nil
}
