// Package config provides configuration management for the earnings bot.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Bot         BotConfig   `mapstructure:"bot"`
	Store       StoreConfig `mapstructure:"store"`
	Credentials Credentials `mapstructure:"-"` // Loaded separately
}

// BotConfig holds polling and thread-shape configuration.
type BotConfig struct {
	UniversePath   string        `mapstructure:"universe_path"`
	PollInterval   time.Duration `mapstructure:"poll_interval"`
	ThreadLength   int           `mapstructure:"thread_length"`
	PostCharBudget int           `mapstructure:"post_char_budget"`
	PostDelay      time.Duration `mapstructure:"post_delay"`
	TickerDelay    time.Duration `mapstructure:"ticker_delay"`
}

// StoreConfig holds processed-record store configuration.
type StoreConfig struct {
	Backend string `mapstructure:"backend"` // "file" or "sqlite"
	Path    string `mapstructure:"path"`
}

// Credentials holds API credentials for the external collaborators.
type Credentials struct {
	OpenAI  OpenAICredentials  `mapstructure:"openai"`
	Twitter TwitterCredentials `mapstructure:"twitter"`
	Market  MarketCredentials  `mapstructure:"market"`
}

// OpenAICredentials holds OpenAI API credentials.
type OpenAICredentials struct {
	APIKey string `mapstructure:"api_key"`
	Model  string `mapstructure:"model"`
}

// TwitterCredentials holds Twitter API credentials.
type TwitterCredentials struct {
	BearerToken string `mapstructure:"bearer_token"`
}

// MarketCredentials holds market data source settings. The default
// endpoint needs no key; BaseURL exists for proxies and tests.
type MarketCredentials struct {
	BaseURL string `mapstructure:"base_url"`
	APIKey  string `mapstructure:"api_key"`
}

// DefaultConfigDir returns the default configuration directory.
func DefaultConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".config/earnings-bot"
	}
	return filepath.Join(home, ".config", "earnings-bot")
}

// Load loads configuration from the specified directory.
// If configDir is empty, uses the default config directory.
func Load(configDir string) (*Config, error) {
	if configDir == "" {
		configDir = DefaultConfigDir()
	}

	cfg := &Config{}

	if err := loadConfigFile(configDir, cfg); err != nil {
		return nil, fmt.Errorf("loading config.toml: %w", err)
	}

	if err := loadCredentials(configDir, &cfg.Credentials); err != nil {
		return nil, fmt.Errorf("loading credentials.toml: %w", err)
	}

	applyEnvOverrides(cfg)

	// Empty paths in a template config fall back to the defaults.
	if cfg.Bot.UniversePath == "" {
		cfg.Bot.UniversePath = filepath.Join(configDir, "universe.csv")
	}
	if cfg.Store.Path == "" {
		name := "processed.json"
		if cfg.Store.Backend == "sqlite" {
			name = "processed.db"
		}
		cfg.Store.Path = filepath.Join(configDir, name)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

func loadConfigFile(configDir string, target *Config) error {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(configDir)

	// Defaults mirror the original bot: 5-part threads, 260-char fallback
	// budget (280-char platform limit minus headroom), hourly polling.
	v.SetDefault("bot.universe_path", filepath.Join(configDir, "universe.csv"))
	v.SetDefault("bot.poll_interval", "60m")
	v.SetDefault("bot.thread_length", 5)
	v.SetDefault("bot.post_char_budget", 260)
	v.SetDefault("bot.post_delay", "1s")
	v.SetDefault("bot.ticker_delay", "1s")
	v.SetDefault("store.backend", "file")
	v.SetDefault("store.path", filepath.Join(configDir, "processed.json"))

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			if werr := createTemplateConfig(configDir); werr != nil {
				return werr
			}
			// Template written; continue with defaults.
			return v.Unmarshal(target)
		}
		return err
	}

	return v.Unmarshal(target)
}

func loadCredentials(configDir string, creds *Credentials) error {
	v := viper.New()
	v.SetConfigName("credentials")
	v.SetConfigType("toml")
	v.AddConfigPath(configDir)

	v.SetDefault("openai.model", "gpt-4")
	v.SetDefault("market.base_url", "https://query1.finance.yahoo.com")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			if werr := createTemplateCredentials(configDir); werr != nil {
				return werr
			}
			return v.Unmarshal(creds)
		}
		return err
	}

	return v.Unmarshal(creds)
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("OPENAI_API_KEY"); v != "" {
		cfg.Credentials.OpenAI.APIKey = v
	}
	if v := os.Getenv("OPENAI_MODEL"); v != "" {
		cfg.Credentials.OpenAI.Model = v
	}
	if v := os.Getenv("TWITTER_BEARER_TOKEN"); v != "" {
		cfg.Credentials.Twitter.BearerToken = v
	}
	if v := os.Getenv("MARKET_BASE_URL"); v != "" {
		cfg.Credentials.Market.BaseURL = v
	}
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Bot.ThreadLength <= 0 {
		return fmt.Errorf("thread_length must be positive")
	}
	if c.Bot.PostCharBudget <= 0 || c.Bot.PostCharBudget > 280 {
		return fmt.Errorf("post_char_budget must be between 1 and 280")
	}
	if c.Bot.PollInterval <= 0 {
		return fmt.Errorf("poll_interval must be positive")
	}
	if c.Bot.PostDelay < 0 || c.Bot.TickerDelay < 0 {
		return fmt.Errorf("delays must be non-negative")
	}
	if c.Store.Backend != "file" && c.Store.Backend != "sqlite" {
		return fmt.Errorf("invalid store backend: %s (must be 'file' or 'sqlite')", c.Store.Backend)
	}
	if c.Bot.UniversePath == "" {
		return fmt.Errorf("universe_path must be set")
	}
	return nil
}
