package config

import (
	"encoding/json"
	"fmt"
	"math/big"
	"net/url"
	"os"
	"time"
	"unicode"
)

// Ledger backends understood by the storage layer
const (
	LedgerFile   = "file"
	LedgerSQLite = "sqlite"
	LedgerMemory = "memory"
)

const defaultRequestDelayMs = 1000

// Config holds all runtime configuration parameters.
// It is built once at startup and handed to each component by value.
type Config struct {
	BaseURL             string   `json:"base_url"`
	Alphabet            string   `json:"alphabet"`
	IdentifierLength    int      `json:"identifier_length"`
	NumRuns             int      `json:"num_runs"`
	AttemptsPerRun      int      `json:"attempts_per_run"`
	RequestDelayMs      int      `json:"request_delay_ms"`
	RequestTimeoutMs    int      `json:"request_timeout_ms"`
	MaxCollisions       int      `json:"max_consecutive_collisions"`
	RetryUnverifiable   bool     `json:"retry_unverifiable"`
	UnacceptableStrings []string `json:"unacceptable_strings"`
	LedgerBackend       string   `json:"ledger_backend"`
	LedgerDir           string   `json:"ledger_dir"`
	OutputDir           string   `json:"output_dir"`
	MetricsPath         string   `json:"metrics_path"`
	Seed                uint64   `json:"seed"`
	LogLevel            string   `json:"log_level"`
}

// Default returns the configuration used when no config file is present
func Default() Config {
	cfg := Config{
		BaseURL:        "https://example.com/",
		RequestDelayMs: defaultRequestDelayMs,
	}
	applyDefaults(&cfg)
	return cfg
}

// LoadConfig reads and validates configuration from a JSON file
func LoadConfig(path string) (*Config, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer file.Close()

	// An explicit 0 delay is meaningful, so its default is set before decoding
	cfg := Config{RequestDelayMs: defaultRequestDelayMs}
	decoder := json.NewDecoder(file)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	applyDefaults(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// applyDefaults sets default values for unspecified fields
func applyDefaults(cfg *Config) {
	if cfg.Alphabet == "" {
		cfg.Alphabet = "abcdefghijklmnopqrstuvwxyz0123456789"
	}
	if cfg.IdentifierLength == 0 {
		cfg.IdentifierLength = 6
	}
	if cfg.NumRuns == 0 {
		cfg.NumRuns = 1000
	}
	if cfg.AttemptsPerRun == 0 {
		// roughly the odds of a lottery win against a 36^6 space
		cfg.AttemptsPerRun = 156
	}
	if cfg.RequestTimeoutMs == 0 {
		cfg.RequestTimeoutMs = 10000
	}
	if cfg.MaxCollisions == 0 {
		cfg.MaxCollisions = 1000
	}
	if cfg.UnacceptableStrings == nil {
		cfg.UnacceptableStrings = []string{"This video isn't available"}
	}
	if cfg.LedgerBackend == "" {
		cfg.LedgerBackend = LedgerFile
	}
	if cfg.LedgerDir == "" {
		cfg.LedgerDir = "."
	}
	if cfg.OutputDir == "" {
		cfg.OutputDir = "."
	}
	if cfg.MetricsPath == "" {
		cfg.MetricsPath = "futile-metrics.json"
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
}

// Validate checks that required fields are present and values are sensible
func (c Config) Validate() error {
	if c.BaseURL == "" {
		return fmt.Errorf("base_url is required")
	}
	u, err := url.Parse(c.BaseURL)
	if err != nil {
		return fmt.Errorf("base_url is not a valid URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("base_url must use http or https")
	}
	if u.Hostname() == "" {
		return fmt.Errorf("base_url must include a host")
	}

	seen := make(map[rune]bool)
	for _, r := range c.Alphabet {
		if unicode.IsSpace(r) || unicode.IsControl(r) {
			return fmt.Errorf("alphabet contains whitespace or control character %q", r)
		}
		if seen[r] {
			return fmt.Errorf("alphabet contains duplicate character %q", r)
		}
		seen[r] = true
	}
	if len(seen) < 2 {
		return fmt.Errorf("alphabet must contain at least 2 characters")
	}

	if c.IdentifierLength < 1 {
		return fmt.Errorf("identifier_length must be >= 1")
	}
	if c.NumRuns < 1 {
		return fmt.Errorf("num_runs must be >= 1")
	}
	if c.AttemptsPerRun < 1 {
		return fmt.Errorf("attempts_per_run must be >= 1")
	}
	if c.RequestDelayMs < 0 {
		return fmt.Errorf("request_delay_ms must be >= 0")
	}
	if c.RequestTimeoutMs < 1000 {
		return fmt.Errorf("request_timeout_ms must be >= 1000")
	}
	if c.MaxCollisions < 1 {
		return fmt.Errorf("max_consecutive_collisions must be >= 1")
	}

	switch c.LedgerBackend {
	case LedgerFile, LedgerSQLite, LedgerMemory:
	default:
		return fmt.Errorf("unknown ledger_backend %q", c.LedgerBackend)
	}
	return nil
}

// RequestDelay is the fixed pause between two probes
func (c Config) RequestDelay() time.Duration {
	return time.Duration(c.RequestDelayMs) * time.Millisecond
}

// RequestTimeout bounds a single probe
func (c Config) RequestTimeout() time.Duration {
	return time.Duration(c.RequestTimeoutMs) * time.Millisecond
}

// SpaceSize returns alphabet_size^identifier_length
func (c Config) SpaceSize() *big.Int {
	base := big.NewInt(int64(len([]rune(c.Alphabet))))
	return new(big.Int).Exp(base, big.NewInt(int64(c.IdentifierLength)), nil)
}
