package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"relcal/daterange"
)

// Environment variables that override the YAML file.
const (
	EnvOffset   = "RELCAL_OFFSET"
	EnvListen   = "RELCAL_LISTEN"
	EnvLogLevel = "RELCAL_LOG_LEVEL"
)

// ReportConfig schedules a named range. Each time Cron fires (evaluated in
// the configured offset) the report covers Range relative to that instant.
type ReportConfig struct {
	Name  string `yaml:"name" json:"name"`
	Range string `yaml:"range" json:"range"`
	Cron  string `yaml:"cron" json:"cron"`
}

// BasicAuthConfig holds HTTP Basic Auth credentials for the API.
type BasicAuthConfig struct {
	Username string `yaml:"username" json:"username"`
	Password string `yaml:"password" json:"password"`
}

// Config is the top-level application configuration.
type Config struct {
	// Listen is the HTTP listen address for `relcal serve`.
	Listen string `yaml:"listen" json:"listen"`

	// Offset is the fixed offset from UTC used when a request names none,
	// e.g. "-04:00" or "+05:30".
	Offset string `yaml:"offset" json:"offset"`

	// Format is the default CLI output format: text, json or ics.
	Format string `yaml:"format" json:"format"`

	// LogLevel is one of DEBUG, INFO, WARN, ERROR.
	LogLevel string `yaml:"log_level" json:"log_level"`

	Reports []ReportConfig `yaml:"reports" json:"reports"`

	// BasicAuth, if non-nil, enables HTTP Basic Authentication on all
	// endpoints except /health.
	BasicAuth *BasicAuthConfig `yaml:"basic_auth,omitempty" json:"basic_auth,omitempty"`
}

// DefaultConfig returns an in-memory default configuration.
func DefaultConfig() *Config {
	return &Config{
		Listen:   "127.0.0.1:8080",
		Offset:   "+00:00",
		Format:   "text",
		LogLevel: "INFO",
		Reports: []ReportConfig{
			{Name: "daily", Range: string(daterange.Yesterday), Cron: "0 1 * * *"},
			{Name: "weekly", Range: string(daterange.LastWeek), Cron: "0 2 * * 0"},
			{Name: "monthly", Range: string(daterange.LastMonth), Cron: "0 3 1 * *"},
		},
	}
}

// Normalize fills in missing/zero values so partially-filled configs still
// behave.
func (c *Config) Normalize() {
	if c.Listen == "" {
		c.Listen = "127.0.0.1:8080"
	}
	if c.Offset == "" {
		c.Offset = "+00:00"
	}
	switch c.Format {
	case "text", "json", "ics":
	default:
		c.Format = "text"
	}
	if c.LogLevel == "" {
		c.LogLevel = "INFO"
	}
	if c.Reports == nil {
		c.Reports = []ReportConfig{}
	}
}

// Validate checks the fields that Normalize cannot repair.
func (c *Config) Validate() error {
	if _, err := daterange.ParseOffset(c.Offset); err != nil {
		return fmt.Errorf("config offset: %w", err)
	}
	seen := make(map[string]bool, len(c.Reports))
	for i, r := range c.Reports {
		if r.Name == "" {
			return fmt.Errorf("config reports[%d]: name is empty", i)
		}
		if seen[r.Name] {
			return fmt.Errorf("config reports[%d]: duplicate name %q", i, r.Name)
		}
		seen[r.Name] = true
		if _, err := daterange.ParseKind(r.Range); err != nil {
			return fmt.Errorf("config report %q: %w", r.Name, err)
		}
		if r.Cron == "" {
			return fmt.Errorf("config report %q: cron is empty", r.Name)
		}
	}
	return nil
}

// OffsetDuration returns the parsed Offset.
func (c *Config) OffsetDuration() (time.Duration, error) {
	return daterange.ParseOffset(c.Offset)
}

// Load loads configuration from the given YAML path.
//
// Behavior:
//   - If the file does not exist, a default config is written with 0600
//     perms and returned.
//   - Otherwise the YAML is unmarshalled and normalized.
//
// Environment overrides are applied afterwards and the result is validated.
func Load(path string) (*Config, error) {
	if path == "" {
		return nil, errors.New("config path is empty")
	}

	var cfg *Config
	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		cfg = DefaultConfig()
		if err := Save(path, cfg); err != nil {
			// Even if save fails, return cfg with error so caller can decide.
			return cfg, err
		}
	case err != nil:
		return nil, err
	default:
		cfg = &Config{}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
		cfg.Normalize()
	}

	cfg.ApplyEnv(os.LookupEnv)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadEnvFile loads KEY=VALUE pairs from a dotenv file into the process
// environment without overriding variables that are already set. A missing
// file is not an error.
func LoadEnvFile(path string) error {
	if path == "" {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

// ApplyEnv overrides fields from RELCAL_* variables found by lookup.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) {
	if v, ok := lookup(EnvOffset); ok && v != "" {
		c.Offset = v
	}
	if v, ok := lookup(EnvListen); ok && v != "" {
		c.Listen = v
	}
	if v, ok := lookup(EnvLogLevel); ok && v != "" {
		c.LogLevel = v
	}
}

// Save writes the given configuration to the specified path.
//
// Implementation details:
//   - Ensures parent directory exists (0700).
//   - Writes atomically via a temp file + rename.
//   - Ensures final file permissions are 0600.
func Save(path string, cfg *Config) error {
	if path == "" {
		return errors.New("config path is empty")
	}
	if cfg == nil {
		return errors.New("config is nil")
	}

	cfg.Normalize()

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, ".relcal-config-*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}

	if err := os.Chmod(tmpName, 0o600); err != nil {
		return err
	}
	return os.Rename(tmpName, path)
}

// Save is a convenience method on Config that delegates to the package-level
// Save function.
func (c *Config) Save(path string) error {
	return Save(path, c)
}
