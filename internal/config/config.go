package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Providers the screener can be pointed at.
const (
	ProviderFinnhub = "finnhub"
	ProviderYahoo   = "yahoo"
)

// Config holds process-level configuration: data directories, the upstream
// provider selection and its credentials, and the pacing knobs of the fetch
// pipeline. Screening thresholds live in Settings, managed separately.
type Config struct {
	DataDir      string `json:"data_dir"`
	DataCacheDir string `json:"data_cache_dir"`
	CacheEnabled bool   `json:"cache_enabled"`

	StockProvider string `json:"stock_provider"`
	FinnhubAPIKey string `json:"finnhub_api_key"`

	MaxSymbols int `json:"max_symbols"`

	// Pacing of the sequential fetch pipeline.
	RequestDelay     time.Duration `json:"request_delay"`
	NewsRequestDelay time.Duration `json:"news_request_delay"`
	RetryDelay       time.Duration `json:"retry_delay"`
	CooldownDuration time.Duration `json:"cooldown_duration"`

	// Provider rate-limit window.
	RateLimit  int           `json:"rate_limit"`
	RateWindow time.Duration `json:"rate_window"`

	Debug bool `json:"debug"`
}

func DefaultConfig() *Config {
	currentDir, _ := os.Getwd()

	cfg := &Config{
		DataDir:      filepath.Join(currentDir, "data"),
		DataCacheDir: filepath.Join(currentDir, "data", "cache"),
		CacheEnabled: true,

		StockProvider: ProviderFinnhub,

		MaxSymbols: 15,

		RequestDelay:     1 * time.Second,
		NewsRequestDelay: 2 * time.Second,
		RetryDelay:       60 * time.Second,
		CooldownDuration: 60 * time.Second,

		RateLimit:  60,
		RateWindow: 60 * time.Second,
	}

	// Load environment variables from .env file
	_ = godotenv.Load()

	cfg.loadFromEnv()

	return cfg
}

func (c *Config) loadFromEnv() {
	if val := os.Getenv("DATA_DIR"); val != "" {
		c.DataDir = val
	}
	if val := os.Getenv("DATA_CACHE_DIR"); val != "" {
		c.DataCacheDir = val
	}
	if val := os.Getenv("CACHE_ENABLED"); val != "" {
		if enabled, err := strconv.ParseBool(val); err == nil {
			c.CacheEnabled = enabled
		}
	}

	if val := os.Getenv("STOCK_PROVIDER"); val != "" {
		c.StockProvider = strings.ToLower(strings.TrimSpace(val))
	}
	if val := os.Getenv("FINNHUB_API_KEY"); val != "" {
		c.FinnhubAPIKey = val
	}

	if val := os.Getenv("MAX_SYMBOLS"); val != "" {
		if v, err := strconv.Atoi(val); err == nil && v > 0 {
			c.MaxSymbols = v
		}
	}

	if val := os.Getenv("REQUEST_DELAY"); val != "" {
		if d, err := time.ParseDuration(val); err == nil && d >= 0 {
			c.RequestDelay = d
		}
	}
	if val := os.Getenv("NEWS_REQUEST_DELAY"); val != "" {
		if d, err := time.ParseDuration(val); err == nil && d >= 0 {
			c.NewsRequestDelay = d
		}
	}
	if val := os.Getenv("RETRY_DELAY"); val != "" {
		if d, err := time.ParseDuration(val); err == nil && d > 0 {
			c.RetryDelay = d
		}
	}
	if val := os.Getenv("COOLDOWN_DURATION"); val != "" {
		if d, err := time.ParseDuration(val); err == nil && d > 0 {
			c.CooldownDuration = d
		}
	}

	if val := os.Getenv("POUNDFOOLISH_DEBUG"); val != "" {
		if enabled, err := strconv.ParseBool(val); err == nil {
			c.Debug = enabled
		}
	}
}

// EnsureDirectories creates the configured data directories.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.DataDir, c.DataCacheDir} {
		path := strings.TrimSpace(dir)
		if path == "" {
			continue
		}
		if err := os.MkdirAll(path, 0o755); err != nil {
			return fmt.Errorf("create directory %s: %w", path, err)
		}
	}
	return nil
}

// Validate checks provider selection and pacing values.
func (c *Config) Validate() error {
	switch c.StockProvider {
	case ProviderFinnhub, ProviderYahoo:
	default:
		return fmt.Errorf("unknown stock provider %q", c.StockProvider)
	}
	if c.MaxSymbols <= 0 {
		return fmt.Errorf("max_symbols must be positive, got %d", c.MaxSymbols)
	}
	if c.RateLimit <= 0 || c.RateWindow <= 0 {
		return fmt.Errorf("rate limit and window must be positive")
	}
	return nil
}
