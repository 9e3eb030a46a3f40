// Package config provides configuration management functionality.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/aristath/buywrite/internal/modules/evaluation"
	"github.com/aristath/buywrite/internal/modules/options"
	"github.com/aristath/buywrite/internal/modules/scoring"
	"github.com/aristath/buywrite/pkg/formulas"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// CacheFileName is the SQLite file holding cached market data inside DataDir.
const CacheFileName = "cache.db"

// Config holds application configuration
type Config struct {
	DataDir        string // Base directory for the cache database (always absolute)
	EODHDAPIKey    string
	EODHDBaseURL   string
	EODHDRateLimit int // requests per second
	Exchange       string
	LogLevel       string
	Port           int
	DevMode        bool
	CacheEnabled   bool
	Evaluation     EvaluationSettings
}

// EvaluationSettings are the tunables of a buy-write run.
type EvaluationSettings struct {
	Workers             int
	MinExpirationDays   int
	MaxExpirationDays   int
	BandLower           float64
	BandUpper           float64
	EarlyCallOffsetDays float64
}

// fileConfig mirrors the YAML overlay; nil fields leave the loaded value alone.
type fileConfig struct {
	DataDir  *string `yaml:"data_dir"`
	LogLevel *string `yaml:"log_level"`
	Port     *int    `yaml:"port"`
	DevMode  *bool   `yaml:"dev_mode"`
	EODHD    struct {
		APIKey    *string `yaml:"api_key"`
		BaseURL   *string `yaml:"base_url"`
		RateLimit *int    `yaml:"rate_limit"`
		Exchange  *string `yaml:"exchange"`
	} `yaml:"eodhd"`
	Cache struct {
		Enabled *bool `yaml:"enabled"`
	} `yaml:"cache"`
	Evaluation struct {
		Workers             *int     `yaml:"workers"`
		MinExpirationDays   *int     `yaml:"min_expiration_days"`
		MaxExpirationDays   *int     `yaml:"max_expiration_days"`
		BandLower           *float64 `yaml:"band_lower"`
		BandUpper           *float64 `yaml:"band_upper"`
		EarlyCallOffsetDays *float64 `yaml:"early_call_offset_days"`
	} `yaml:"evaluation"`
}

// Load reads configuration from environment variables, then applies the YAML
// file at overlayPath (or BUYWRITE_CONFIG when overlayPath is empty).
func Load(overlayPath string) (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	cfg := &Config{
		DataDir:        getEnv("BUYWRITE_DATA_DIR", "./data"),
		EODHDAPIKey:    getEnv("EODHD_API_KEY", ""),
		EODHDBaseURL:   getEnv("EODHD_BASE_URL", "https://eodhd.com/api"),
		EODHDRateLimit: getEnvAsInt("EODHD_RATE_LIMIT", 10),
		Exchange:       getEnv("BUYWRITE_EXCHANGE", "US"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		Port:           getEnvAsInt("PORT", 8080),
		DevMode:        getEnvAsBool("DEV_MODE", false),
		CacheEnabled:   getEnvAsBool("BUYWRITE_CACHE_ENABLED", true),
		Evaluation: EvaluationSettings{
			Workers:             getEnvAsInt("BUYWRITE_WORKERS", evaluation.DefaultWorkers),
			MinExpirationDays:   getEnvAsInt("BUYWRITE_MIN_EXPIRATION_DAYS", options.DefaultWindow.MinDays),
			MaxExpirationDays:   getEnvAsInt("BUYWRITE_MAX_EXPIRATION_DAYS", options.DefaultWindow.MaxDays),
			BandLower:           getEnvAsFloat("BUYWRITE_BAND_LOWER", options.DefaultBand.Lower),
			BandUpper:           getEnvAsFloat("BUYWRITE_BAND_UPPER", options.DefaultBand.Upper),
			EarlyCallOffsetDays: getEnvAsFloat("BUYWRITE_EARLY_CALL_OFFSET_DAYS", scoring.DefaultEarlyCallOffset.Hours()/24),
		},
	}

	if overlayPath == "" {
		overlayPath = os.Getenv("BUYWRITE_CONFIG")
	}
	if overlayPath != "" {
		if err := cfg.applyFile(overlayPath); err != nil {
			return nil, err
		}
	}

	absDataDir, err := filepath.Abs(cfg.DataDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve data directory path: %w", err)
	}
	cfg.DataDir = absDataDir

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) applyFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	var f fileConfig
	if err := yaml.Unmarshal(data, &f); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	set(&c.DataDir, f.DataDir)
	set(&c.LogLevel, f.LogLevel)
	set(&c.Port, f.Port)
	set(&c.DevMode, f.DevMode)
	set(&c.EODHDAPIKey, f.EODHD.APIKey)
	set(&c.EODHDBaseURL, f.EODHD.BaseURL)
	set(&c.EODHDRateLimit, f.EODHD.RateLimit)
	set(&c.Exchange, f.EODHD.Exchange)
	set(&c.CacheEnabled, f.Cache.Enabled)
	set(&c.Evaluation.Workers, f.Evaluation.Workers)
	set(&c.Evaluation.MinExpirationDays, f.Evaluation.MinExpirationDays)
	set(&c.Evaluation.MaxExpirationDays, f.Evaluation.MaxExpirationDays)
	set(&c.Evaluation.BandLower, f.Evaluation.BandLower)
	set(&c.Evaluation.BandUpper, f.Evaluation.BandUpper)
	set(&c.Evaluation.EarlyCallOffsetDays, f.Evaluation.EarlyCallOffsetDays)
	return nil
}

func set[T any](dst *T, v *T) {
	if v != nil {
		*dst = *v
	}
}

// Validate checks that the configuration describes a runnable evaluation.
func (c *Config) Validate() error {
	e := c.Evaluation
	switch {
	case c.Port <= 0 || c.Port > 65535:
		return fmt.Errorf("invalid port %d", c.Port)
	case c.EODHDRateLimit <= 0:
		return fmt.Errorf("EODHD rate limit must be positive, got %d", c.EODHDRateLimit)
	case e.Workers < 1:
		return fmt.Errorf("workers must be at least 1, got %d", e.Workers)
	case e.MinExpirationDays < 0 || e.MaxExpirationDays < e.MinExpirationDays:
		return fmt.Errorf("invalid expiration window [%d, %d] days", e.MinExpirationDays, e.MaxExpirationDays)
	case e.BandLower <= 0 || e.BandUpper < e.BandLower:
		return fmt.Errorf("invalid strike band [%g, %g]", e.BandLower, e.BandUpper)
	case e.EarlyCallOffsetDays < 0:
		return fmt.Errorf("early call offset must not be negative, got %g days", e.EarlyCallOffsetDays)
	}
	// EODHD key is optional: the cache can serve runs offline
	return nil
}

// EvaluationConfig converts the settings into the evaluation service config.
func (c *Config) EvaluationConfig() evaluation.Config {
	e := c.Evaluation
	return evaluation.Config{
		Workers: e.Workers,
		Band:    options.Band{Lower: e.BandLower, Upper: e.BandUpper},
		Window:  options.Window{MinDays: e.MinExpirationDays, MaxDays: e.MaxExpirationDays},
		Policy: scoring.Policy{
			EarlyCallOffset: time.Duration(e.EarlyCallOffsetDays * float64(formulas.Day)),
		},
	}
}

// CachePath returns the location of the market-data cache database.
func (c *Config) CachePath() string {
	return filepath.Join(c.DataDir, CacheFileName)
}

// EnsureDataDir creates DataDir if needed.
func (c *Config) EnsureDataDir() error {
	if err := os.MkdirAll(c.DataDir, 0755); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}
	return nil
}

// Helper functions
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 64); err == nil {
			return floatVal
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}
