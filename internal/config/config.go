package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Watchlist is a named symbol set re-analysed on a cron schedule.
type Watchlist struct {
	Name         string   `yaml:"name"`
	Symbols      []string `yaml:"symbols"`
	LookbackDays int      `yaml:"lookback_days"`
	Cron         string   `yaml:"cron"`
	Output       string   `yaml:"output"` // chart file path, format from extension
}

// Config holds all application configuration.
type Config struct {
	DataSource struct {
		Provider    string        `yaml:"provider"` // "yahoo" or "mock"
		Concurrency int           `yaml:"concurrency"`
		Timeout     time.Duration `yaml:"timeout"`
	} `yaml:"data_source"`
	Analysis struct {
		DefaultSymbols string `yaml:"default_symbols"`
		LookbackYears  int    `yaml:"lookback_years"`
	} `yaml:"analysis"`
	Chart struct {
		WidthInches  float64 `yaml:"width_inches"`
		HeightInches float64 `yaml:"height_inches"`
		Format       string  `yaml:"format"`
	} `yaml:"chart"`
	Server struct {
		Listen string `yaml:"listen"`
	} `yaml:"server"`
	Telegram struct {
		BotToken string `yaml:"bot_token"`
		ChatID   string `yaml:"chat_id"`
	} `yaml:"telegram"`
	Database struct {
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"database"`
	Log struct {
		Level string `yaml:"level"`
		File  string `yaml:"file"`
	} `yaml:"log"`
	Watchlists []Watchlist `yaml:"watchlists"`
	Proxy      string      `yaml:"proxy"`
}

// Load reads config from a YAML file, then applies environment variable overrides.
// A missing file is not an error: defaults are used.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	// Environment variable overrides
	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		cfg.Telegram.BotToken = v
	}
	if v := os.Getenv("TELEGRAM_CHAT_ID"); v != "" {
		cfg.Telegram.ChatID = v
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		cfg.Proxy = v
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		cfg.Database.SQLitePath = v
	}
	if v := os.Getenv("LISTEN_ADDR"); v != "" {
		cfg.Server.Listen = v
	}
	if v := os.Getenv("DATA_PROVIDER"); v != "" {
		cfg.DataSource.Provider = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}

	cfg.applyDefaults()
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.DataSource.Provider == "" {
		c.DataSource.Provider = "yahoo"
	}
	if c.DataSource.Concurrency == 0 {
		c.DataSource.Concurrency = 4
	}
	if c.DataSource.Timeout == 0 {
		c.DataSource.Timeout = 30 * time.Second
	}
	if c.Analysis.DefaultSymbols == "" {
		c.Analysis.DefaultSymbols = "AAPL, MSFT, GOOG, VOO"
	}
	if c.Analysis.LookbackYears == 0 {
		c.Analysis.LookbackYears = 5
	}
	if c.Chart.WidthInches == 0 {
		c.Chart.WidthInches = 8
	}
	if c.Chart.HeightInches == 0 {
		c.Chart.HeightInches = 5
	}
	if c.Chart.Format == "" {
		c.Chart.Format = "png"
	}
	if c.Server.Listen == "" {
		c.Server.Listen = "127.0.0.1:8080"
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	for i := range c.Watchlists {
		w := &c.Watchlists[i]
		if w.LookbackDays == 0 {
			w.LookbackDays = 365 * c.Analysis.LookbackYears
		}
		if w.Output == "" {
			w.Output = "charts/" + w.Name + "." + c.Chart.Format
		}
	}
}

// Validate checks that all fields hold usable values.
func (c *Config) Validate() error {
	switch c.DataSource.Provider {
	case "yahoo", "mock":
	default:
		return fmt.Errorf("data_source.provider must be yahoo or mock, got %q", c.DataSource.Provider)
	}
	if c.DataSource.Concurrency < 0 {
		return fmt.Errorf("data_source.concurrency must not be negative")
	}
	if c.Analysis.LookbackYears < 0 {
		return fmt.Errorf("analysis.lookback_years must not be negative")
	}
	if c.Chart.WidthInches <= 0 || c.Chart.HeightInches <= 0 {
		return fmt.Errorf("chart size must be positive")
	}
	switch strings.ToLower(c.Chart.Format) {
	case "png", "svg":
	default:
		return fmt.Errorf("chart.format must be png or svg, got %q", c.Chart.Format)
	}
	if (c.Telegram.BotToken == "") != (c.Telegram.ChatID == "") {
		return fmt.Errorf("telegram.bot_token and telegram.chat_id must be set together")
	}
	seen := make(map[string]bool)
	for _, w := range c.Watchlists {
		if w.Name == "" {
			return fmt.Errorf("watchlist name is required")
		}
		if seen[w.Name] {
			return fmt.Errorf("duplicate watchlist %q", w.Name)
		}
		seen[w.Name] = true
		if len(w.Symbols) == 0 {
			return fmt.Errorf("watchlist %q: symbols are required", w.Name)
		}
		if w.Cron == "" {
			return fmt.Errorf("watchlist %q: cron is required", w.Name)
		}
		if w.LookbackDays < 0 {
			return fmt.Errorf("watchlist %q: lookback_days must not be negative", w.Name)
		}
	}
	return nil
}

// TelegramEnabled reports whether bot credentials are configured.
func (c *Config) TelegramEnabled() bool {
	return c.Telegram.BotToken != "" && c.Telegram.ChatID != ""
}
