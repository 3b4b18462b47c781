package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// DefaultTrending are the quick-select symbols shown under the search box.
var DefaultTrending = []string{"RELIANCE.NS", "TCS.NS", "INFY.NS", "HDFCBANK.NS", "LT.NS"}

// Config holds all application configuration.
type Config struct {
	App struct {
		Name       string `yaml:"name"`
		ListenAddr string `yaml:"listen_addr"`
		LogLevel   string `yaml:"log_level"`
		Timezone   string `yaml:"timezone"`
	} `yaml:"app"`
	StockAPI struct {
		BaseURL    string  `yaml:"base_url"`
		TimeoutSec int     `yaml:"timeout_sec"`
		RatePerSec float64 `yaml:"rate_per_sec"` // negative disables limiting
		Burst      int     `yaml:"burst"`
	} `yaml:"stock_api"`
	Telegram struct {
		BotToken string `yaml:"bot_token"`
		ChatID   string `yaml:"chat_id"`
	} `yaml:"telegram"`
	Schedule struct {
		SessionCron string `yaml:"session_cron"`
	} `yaml:"schedule"`
	Database struct {
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"database"`
	Trending []string `yaml:"trending"`
	Proxy    string   `yaml:"proxy"`
}

// Load reads config from a YAML file, then applies .env and environment
// variable overrides, then defaults. A missing file is not an error.
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

	_ = godotenv.Load() // best-effort

	if v := os.Getenv("LISTEN_ADDR"); v != "" {
		cfg.App.ListenAddr = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.App.LogLevel = v
	}
	if v := os.Getenv("MARKET_TZ"); v != "" {
		cfg.App.Timezone = v
	}
	if v := os.Getenv("STOCK_API_BASE_URL"); v != "" {
		cfg.StockAPI.BaseURL = v
	}
	if v := os.Getenv("STOCK_API_RATE"); v != "" {
		if rate, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.StockAPI.RatePerSec = rate
		}
	}
	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		cfg.Telegram.BotToken = v
	}
	if v := os.Getenv("TELEGRAM_CHAT_ID"); v != "" {
		cfg.Telegram.ChatID = v
	}
	if v := os.Getenv("CRON_SESSION"); v != "" {
		cfg.Schedule.SessionCron = v
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		cfg.Database.SQLitePath = v
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		cfg.Proxy = v
	}

	// Defaults
	if cfg.App.Name == "" {
		cfg.App.Name = "StockPulse"
	}
	if cfg.App.ListenAddr == "" {
		cfg.App.ListenAddr = ":8080"
	}
	if cfg.App.LogLevel == "" {
		cfg.App.LogLevel = "info"
	}
	if cfg.App.Timezone == "" {
		cfg.App.Timezone = "Asia/Kolkata"
	}
	if cfg.StockAPI.BaseURL == "" {
		cfg.StockAPI.BaseURL = "https://stock-backend-sage.vercel.app"
	}
	if cfg.StockAPI.TimeoutSec == 0 {
		cfg.StockAPI.TimeoutSec = 15
	}
	if cfg.StockAPI.RatePerSec == 0 {
		cfg.StockAPI.RatePerSec = 2
	}
	if cfg.StockAPI.Burst == 0 {
		cfg.StockAPI.Burst = 4
	}
	if cfg.Schedule.SessionCron == "" {
		cfg.Schedule.SessionCron = "0 * * * * *"
	}
	if len(cfg.Trending) == 0 {
		cfg.Trending = append([]string(nil), DefaultTrending...)
	}

	return cfg, nil
}

// Validate checks that all required fields are set.
func (c *Config) Validate() error {
	if c.StockAPI.BaseURL == "" {
		return fmt.Errorf("stock_api.base_url is required")
	}
	if c.StockAPI.TimeoutSec <= 0 {
		return fmt.Errorf("stock_api.timeout_sec must be positive")
	}
	if (c.Telegram.BotToken == "") != (c.Telegram.ChatID == "") {
		return fmt.Errorf("telegram.bot_token and telegram.chat_id must be set together")
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	return nil
}

// Location resolves the exchange timezone.
func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.App.Timezone)
	if err != nil {
		return nil, fmt.Errorf("app.timezone %q: %w", c.App.Timezone, err)
	}
	return loc, nil
}

// RateLimited reports whether outbound stock service calls are throttled.
// An unset rate_per_sec gets the default; a negative one turns limiting off.
func (c *Config) RateLimited() bool {
	return c.StockAPI.RatePerSec > 0
}

// Timeout is the per-request timeout for the stock service.
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.StockAPI.TimeoutSec) * time.Second
}

// TelegramEnabled reports whether chat alerts and commands are configured.
func (c *Config) TelegramEnabled() bool {
	return c.Telegram.BotToken != "" && c.Telegram.ChatID != ""
}
