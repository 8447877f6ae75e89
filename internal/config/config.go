package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Database  DatabaseConfig  `yaml:"database"`
	Auth      AuthConfig      `yaml:"auth"`
	Tailscale TailscaleConfig `yaml:"tailscale"`
	Engine    EngineConfig    `yaml:"engine"`
	Scheduler SchedulerConfig `yaml:"scheduler"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
	Logging   LoggingConfig   `yaml:"logging"`
	MCP       MCPConfig       `yaml:"mcp"`
}

type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Name     string `yaml:"name"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	SSLMode  string `yaml:"sslmode"`
}

type AuthConfig struct {
	APIKey string `yaml:"api_key"`
}

type TailscaleConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Hostname string `yaml:"hostname"`
	StateDir string `yaml:"state_dir"`
}

// EngineConfig tunes plan adaptation.
type EngineConfig struct {
	// MaxFeedbackHistory caps how many recent feedback entries are loaded
	// per adaptation.
	MaxFeedbackHistory int `yaml:"max_feedback_history"`
	// RandomSeed makes adaptations reproducible. 0 seeds from the clock.
	RandomSeed int64 `yaml:"random_seed"`
	// GenerateMissingPlan builds an initial plan for users who have none.
	GenerateMissingPlan *bool `yaml:"generate_missing_plan"`
	// FullWeek pads generated plans to seven days with rest days.
	FullWeek bool `yaml:"full_week"`
}

// GeneratePlans reports whether missing plans are generated. Defaults to true.
func (e EngineConfig) GeneratePlans() bool {
	return e.GenerateMissingPlan == nil || *e.GenerateMissingPlan
}

// SchedulerConfig drives the periodic re-adaptation sweep.
type SchedulerConfig struct {
	Enabled     bool   `yaml:"enabled"`
	Spec        string `yaml:"spec"`
	Concurrency int    `yaml:"concurrency"`
	// Lookback limits the first sweep after startup to feedback this recent.
	Lookback time.Duration `yaml:"lookback"`
}

type RateLimitConfig struct {
	RequestsPerMinute int `yaml:"requests_per_minute"`
	Burst             int `yaml:"burst"`
}

type LoggingConfig struct {
	Level      string `yaml:"level"`
	Format     string `yaml:"format"`
	File       string `yaml:"file"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days"`
	Compress   bool   `yaml:"compress"`
}

type MCPConfig struct {
	Enabled bool `yaml:"enabled"`
}

// DSN returns a PostgreSQL connection string.
func (d DatabaseConfig) DSN() string {
	sslmode := d.SSLMode
	if sslmode == "" {
		sslmode = "disable"
	}
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, sslmode)
}

// Load reads config from a YAML file, then applies environment variable overrides.
// Env vars use the prefix FLEXIFIT_ and underscore-separated paths:
//
//	FLEXIFIT_SERVER_HOST, FLEXIFIT_SERVER_PORT,
//	FLEXIFIT_DB_HOST, FLEXIFIT_DB_PORT, FLEXIFIT_DB_NAME,
//	FLEXIFIT_DB_USER, FLEXIFIT_DB_PASSWORD, FLEXIFIT_DB_SSLMODE,
//	FLEXIFIT_AUTH_API_KEY, FLEXIFIT_TAILSCALE_ENABLED,
//	FLEXIFIT_ENGINE_RANDOM_SEED, FLEXIFIT_SCHEDULER_ENABLED,
//	FLEXIFIT_SCHEDULER_SPEC, FLEXIFIT_LOG_LEVEL, FLEXIFIT_LOG_FORMAT,
//	FLEXIFIT_LOG_FILE
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	applyEnvOverrides(cfg)
	cfg.applyDefaults()

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	return cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("FLEXIFIT_SERVER_HOST"); v != "" {
		cfg.Server.Host = v
	}
	if v := os.Getenv("FLEXIFIT_SERVER_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = port
		}
	}
	if v := os.Getenv("FLEXIFIT_DB_HOST"); v != "" {
		cfg.Database.Host = v
	}
	if v := os.Getenv("FLEXIFIT_DB_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Database.Port = port
		}
	}
	if v := os.Getenv("FLEXIFIT_DB_NAME"); v != "" {
		cfg.Database.Name = v
	}
	if v := os.Getenv("FLEXIFIT_DB_USER"); v != "" {
		cfg.Database.User = v
	}
	if v := os.Getenv("FLEXIFIT_DB_PASSWORD"); v != "" {
		cfg.Database.Password = v
	}
	if v := os.Getenv("FLEXIFIT_DB_SSLMODE"); v != "" {
		cfg.Database.SSLMode = v
	}
	if v := os.Getenv("FLEXIFIT_AUTH_API_KEY"); v != "" {
		cfg.Auth.APIKey = v
	}
	if v := os.Getenv("FLEXIFIT_TAILSCALE_ENABLED"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Tailscale.Enabled = b
		}
	}
	if v := os.Getenv("FLEXIFIT_ENGINE_RANDOM_SEED"); v != "" {
		if seed, err := strconv.ParseInt(v, 10, 64); err == nil {
			cfg.Engine.RandomSeed = seed
		}
	}
	if v := os.Getenv("FLEXIFIT_SCHEDULER_ENABLED"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Scheduler.Enabled = b
		}
	}
	if v := os.Getenv("FLEXIFIT_SCHEDULER_SPEC"); v != "" {
		cfg.Scheduler.Spec = v
	}
	if v := os.Getenv("FLEXIFIT_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("FLEXIFIT_LOG_FORMAT"); v != "" {
		cfg.Logging.Format = v
	}
	if v := os.Getenv("FLEXIFIT_LOG_FILE"); v != "" {
		cfg.Logging.File = v
	}
}

func (c *Config) applyDefaults() {
	if c.Engine.MaxFeedbackHistory == 0 {
		c.Engine.MaxFeedbackHistory = 200
	}
	if c.Scheduler.Spec == "" {
		c.Scheduler.Spec = "@weekly"
	}
	if c.Scheduler.Concurrency == 0 {
		c.Scheduler.Concurrency = 4
	}
	if c.Scheduler.Lookback == 0 {
		c.Scheduler.Lookback = 7 * 24 * time.Hour
	}
	if c.RateLimit.RequestsPerMinute == 0 {
		c.RateLimit.RequestsPerMinute = 30
	}
	if c.RateLimit.Burst == 0 {
		c.RateLimit.Burst = 10
	}
	if c.Tailscale.Hostname == "" {
		c.Tailscale.Hostname = "flexifit"
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Logging.Format == "" {
		c.Logging.Format = "text"
	}
}

func (c *Config) validate() error {
	if c.Server.Port == 0 {
		return fmt.Errorf("server.port is required")
	}
	if c.Database.Host == "" {
		return fmt.Errorf("database.host is required")
	}
	if c.Database.Port == 0 {
		return fmt.Errorf("database.port is required")
	}
	if c.Database.Name == "" {
		return fmt.Errorf("database.name is required")
	}
	if c.Database.User == "" {
		return fmt.Errorf("database.user is required")
	}
	if c.Auth.APIKey == "" {
		return fmt.Errorf("auth.api_key is required")
	}
	if c.Engine.MaxFeedbackHistory < 0 {
		return fmt.Errorf("engine.max_feedback_history must be positive")
	}
	if c.Scheduler.Concurrency < 0 {
		return fmt.Errorf("scheduler.concurrency must be positive")
	}
	switch strings.ToLower(c.Logging.Level) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level %q is not one of debug, info, warn, error", c.Logging.Level)
	}
	switch strings.ToLower(c.Logging.Format) {
	case "text", "json":
	default:
		return fmt.Errorf("logging.format %q is not one of text, json", c.Logging.Format)
	}
	return nil
}
