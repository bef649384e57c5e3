// Package config loads application configuration from an optional YAML file
// and environment variables.
package config

import (
	"errors"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/samber/lo"
	"github.com/samber/oops"
)

// Supported upstream feed kinds.
const (
	FeedGamma = "gamma"
	FeedRSS   = "rss"
)

const httpDisabled = "off"

// ErrMissingBotToken is returned when no Telegram token is configured.
var ErrMissingBotToken = errors.New("TELEGRAM_BOT_TOKEN is required")

// Config holds the application configuration.
type Config struct {
	TelegramBotToken string        `koanf:"telegram_bot_token"`
	LogLevel         string        `koanf:"log_level"`
	LogFile          string        `koanf:"log_file"`
	DatabasePath     string        `koanf:"database_path"`
	FeedKind         string        `koanf:"feed_kind"`
	FeedURL          string        `koanf:"feed_url"`
	MarketBaseURL    string        `koanf:"market_base_url"`
	PollInterval     time.Duration `koanf:"poll_interval"`
	FetchLimit       int           `koanf:"fetch_limit"`
	FetchTimeout     time.Duration `koanf:"fetch_timeout"`
	SendConcurrency  int           `koanf:"send_concurrency"`
	HTTPAddr         string        `koanf:"http_addr"`
	RecentLimit      int           `koanf:"recent_limit"`
	MinVolume        float64       `koanf:"min_volume"`
	MinLiquidity     float64       `koanf:"min_liquidity"`
	MaxAge           time.Duration `koanf:"max_age"`
}

var defaults = map[string]any{
	"log_level":        "info",
	"feed_kind":        FeedGamma,
	"market_base_url":  "https://polymarket.com",
	"poll_interval":    "30s",
	"fetch_limit":      20,
	"fetch_timeout":    "10s",
	"send_concurrency": 4,
	"http_addr":        ":8080",
	"recent_limit":     50,
	"min_volume":       0,
	"min_liquidity":    0,
	"max_age":          "0s",
}

const defaultGammaURL = "https://gamma-api.polymarket.com"

// knownKeys lists every key accepted from the environment.
var knownKeys = append(lo.Keys(defaults), "telegram_bot_token", "log_file", "database_path", "feed_url")

// Load reads the YAML file at path (skipped when empty), then applies
// environment overrides and defaults. Empty environment values are ignored.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, oops.In("config").With("config_file", path).Wrapf(err, "load config file")
		}
	}

	if err := k.Load(env.ProviderWithValue("", ".", envKey), nil); err != nil {
		return nil, oops.In("config").Wrapf(err, "load environment")
	}

	for key, value := range defaults {
		if !k.Exists(key) {
			if err := k.Set(key, value); err != nil {
				return nil, oops.In("config").With("key", key).Wrapf(err, "set default")
			}
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, oops.In("config").Wrapf(err, "unmarshal config")
	}

	cfg.FeedKind = strings.ToLower(strings.TrimSpace(cfg.FeedKind))
	if cfg.FeedURL == "" && cfg.FeedKind == FeedGamma {
		cfg.FeedURL = defaultGammaURL
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func envKey(name, value string) (string, any) {
	key := strings.ToLower(name)
	if value == "" || !lo.Contains(knownKeys, key) {
		return "", nil
	}
	return key, value
}

// Validate reports the first configuration problem found.
func (c *Config) Validate() error {
	errb := oops.In("config")

	if c.TelegramBotToken == "" {
		return errb.Wrap(ErrMissingBotToken)
	}
	if !lo.Contains([]string{FeedGamma, FeedRSS}, c.FeedKind) {
		return errb.With("feed_kind", c.FeedKind).Errorf("unknown feed kind %q", c.FeedKind)
	}
	if c.FeedURL == "" {
		return errb.With("feed_kind", c.FeedKind).Errorf("feed_url is required for %s feeds", c.FeedKind)
	}
	if c.PollInterval <= 0 {
		return errb.With("poll_interval", c.PollInterval).Errorf("poll_interval must be positive")
	}
	if c.FetchLimit <= 0 {
		return errb.With("fetch_limit", c.FetchLimit).Errorf("fetch_limit must be positive")
	}
	if c.FetchTimeout <= 0 {
		return errb.With("fetch_timeout", c.FetchTimeout).Errorf("fetch_timeout must be positive")
	}
	if c.SendConcurrency <= 0 {
		return errb.With("send_concurrency", c.SendConcurrency).Errorf("send_concurrency must be positive")
	}
	if c.MinVolume < 0 || c.MinLiquidity < 0 || c.MaxAge < 0 {
		return errb.Errorf("quality gate thresholds must not be negative")
	}
	return nil
}

// HTTPEnabled reports whether the liveness server should run.
func (c *Config) HTTPEnabled() bool {
	return c.HTTPAddr != "" && c.HTTPAddr != httpDisabled
}
