package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"
)

type Config struct {
	Port string

	// Auth
	APIKey string

	// Worker pool
	WorkerCount  int
	MaxQueueSize int

	// Upload limits
	MaxUploadBytes int64

	// Job state and rendered output lifetime
	JobTTL    time.Duration
	ResultTTL time.Duration

	// PDF
	PDFFallbackPdftotext bool

	// Result store; in-memory when RedisURL is empty
	RedisURL    string
	RedisPrefix string

	// Rendering defaults
	DocumentClass string

	LogLevel string
}

// fileConfig is the TOML layout of TEXGEN_CONFIG. Durations are strings
// such as "90m".
type fileConfig struct {
	Port                 string `toml:"port"`
	APIKey               string `toml:"api_key"`
	WorkerCount          int    `toml:"worker_count"`
	MaxQueueSize         int    `toml:"max_queue_size"`
	MaxUploadBytes       int64  `toml:"max_upload_bytes"`
	JobTTL               string `toml:"job_ttl"`
	ResultTTL            string `toml:"result_ttl"`
	PDFFallbackPdftotext *bool  `toml:"pdf_fallback_pdftotext"`
	RedisURL             string `toml:"redis_url"`
	RedisPrefix          string `toml:"redis_prefix"`
	DocumentClass        string `toml:"document_class"`
	LogLevel             string `toml:"log_level"`
}

// Defaults returns the configuration used when nothing is set.
func Defaults() Config {
	return Config{
		Port:                 "8090",
		WorkerCount:          4,
		MaxQueueSize:         100,
		MaxUploadBytes:       52428800, // 50MB
		JobTTL:               1 * time.Hour,
		ResultTTL:            24 * time.Hour,
		PDFFallbackPdftotext: true,
		RedisPrefix:          "texgen:",
		DocumentClass:        "article",
		LogLevel:             "info",
	}
}

// Load builds the configuration from defaults, then the TOML file named
// by TEXGEN_CONFIG (if any), then environment variables.
func Load() (Config, error) {
	cfg := Defaults()

	if path := os.Getenv("TEXGEN_CONFIG"); path != "" {
		if err := cfg.applyFile(path); err != nil {
			return cfg, err
		}
	}

	cfg.Port = envOr("PORT", cfg.Port)
	cfg.APIKey = envOr("TEXGEN_API_KEY", cfg.APIKey)
	cfg.WorkerCount = envInt("WORKER_COUNT", cfg.WorkerCount)
	cfg.MaxQueueSize = envInt("MAX_QUEUE_SIZE", cfg.MaxQueueSize)
	cfg.MaxUploadBytes = envInt64("MAX_UPLOAD_BYTES", cfg.MaxUploadBytes)
	cfg.JobTTL = envDuration("JOB_TTL", cfg.JobTTL)
	cfg.ResultTTL = envDuration("RESULT_TTL", cfg.ResultTTL)
	cfg.PDFFallbackPdftotext = envBool("PDF_FALLBACK_PDFTOTEXT", cfg.PDFFallbackPdftotext)
	cfg.RedisURL = envOr("REDIS_URL", cfg.RedisURL)
	cfg.RedisPrefix = envOr("REDIS_PREFIX", cfg.RedisPrefix)
	cfg.DocumentClass = envOr("DOCUMENT_CLASS", cfg.DocumentClass)
	cfg.LogLevel = envOr("LOG_LEVEL", cfg.LogLevel)

	cfg.normalize()
	return cfg, nil
}

func (c *Config) applyFile(path string) error {
	var fc fileConfig
	if _, err := toml.DecodeFile(path, &fc); err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}

	if fc.Port != "" {
		c.Port = fc.Port
	}
	if fc.APIKey != "" {
		c.APIKey = fc.APIKey
	}
	if fc.WorkerCount != 0 {
		c.WorkerCount = fc.WorkerCount
	}
	if fc.MaxQueueSize != 0 {
		c.MaxQueueSize = fc.MaxQueueSize
	}
	if fc.MaxUploadBytes != 0 {
		c.MaxUploadBytes = fc.MaxUploadBytes
	}
	if fc.JobTTL != "" {
		d, err := time.ParseDuration(fc.JobTTL)
		if err != nil {
			return fmt.Errorf("config %s: job_ttl: %w", path, err)
		}
		c.JobTTL = d
	}
	if fc.ResultTTL != "" {
		d, err := time.ParseDuration(fc.ResultTTL)
		if err != nil {
			return fmt.Errorf("config %s: result_ttl: %w", path, err)
		}
		c.ResultTTL = d
	}
	if fc.PDFFallbackPdftotext != nil {
		c.PDFFallbackPdftotext = *fc.PDFFallbackPdftotext
	}
	if fc.RedisURL != "" {
		c.RedisURL = fc.RedisURL
	}
	if fc.RedisPrefix != "" {
		c.RedisPrefix = fc.RedisPrefix
	}
	if fc.DocumentClass != "" {
		c.DocumentClass = fc.DocumentClass
	}
	if fc.LogLevel != "" {
		c.LogLevel = fc.LogLevel
	}
	return nil
}

// normalize replaces out-of-range values with defaults.
func (c *Config) normalize() {
	d := Defaults()
	if c.WorkerCount <= 0 {
		c.WorkerCount = d.WorkerCount
	}
	if c.MaxQueueSize <= 0 {
		c.MaxQueueSize = d.MaxQueueSize
	}
	if c.MaxUploadBytes <= 0 {
		c.MaxUploadBytes = d.MaxUploadBytes
	}
	if c.JobTTL <= 0 {
		c.JobTTL = d.JobTTL
	}
	if c.ResultTTL <= 0 {
		c.ResultTTL = d.ResultTTL
	}
	if c.DocumentClass == "" {
		c.DocumentClass = d.DocumentClass
	}
}

func (c Config) Validate() error {
	if c.APIKey == "" {
		return fmt.Errorf("TEXGEN_API_KEY is required")
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("LOG_LEVEL must be debug, info, warn or error, got %q", c.LogLevel)
	}
	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envInt64(key string, fallback int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
