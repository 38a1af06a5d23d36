// Package config provides the unified configuration system for
// hrflow-connectors. It defines a single Config structure that every
// connector instance uses, ensuring consistent configuration across vendors.
//
// The configuration is organized into logical sections:
//   - Read: pagination and listing filters for pull flows
//   - Write: scoping for push flows (target job, company, origin)
//   - Security: auth strategy and credentials
//   - Timeouts: request and connection timeouts
//   - Reliability: retry logic, circuit breaker, rate limiting
//   - Observability: metrics, tracing, logging
//
// Example usage:
//
//	cfg := config.New("prod-smartrecruiters", "smartrecruiters")
//	cfg.Security.Credentials["api_key"] = os.Getenv("SMART_TOKEN")
//
//	if err := cfg.Validate(); err != nil {
//	    log.Fatal(err)
//	}
package config

import (
	"fmt"
	"time"
)

// Config is the unified configuration for one connector instance.
type Config struct {
	// Name identifies the connector instance
	Name string `yaml:"name" json:"name" mapstructure:"name"`
	// Vendor selects the connector implementation (smartrecruiters, taleez, breezyhr)
	Vendor string `yaml:"vendor" json:"vendor" mapstructure:"vendor"`
	// Endpoint overrides the vendor API base URL, mainly for tests
	Endpoint string `yaml:"endpoint" json:"endpoint" mapstructure:"endpoint"`

	// Read settings control pull flows
	Read ReadConfig `yaml:"read" json:"read" mapstructure:"read"`

	// Write settings control push flows
	Write WriteConfig `yaml:"write" json:"write" mapstructure:"write"`

	// Security configuration for authentication
	Security SecurityConfig `yaml:"security" json:"security" mapstructure:"security"`

	// Timeouts define request timeout durations
	Timeouts TimeoutConfig `yaml:"timeouts" json:"timeouts" mapstructure:"timeouts"`

	// Reliability settings for transport resilience
	Reliability ReliabilityConfig `yaml:"reliability" json:"reliability" mapstructure:"reliability"`

	// Observability settings for monitoring and debugging
	Observability ObservabilityConfig `yaml:"observability" json:"observability" mapstructure:"observability"`
}

// ReadConfig contains listing and pagination settings for pull flows.
type ReadConfig struct {
	// PageSize requests this many records per page. Values above the
	// vendor maximum are clamped, never rejected.
	PageSize int `yaml:"page_size" json:"page_size" mapstructure:"page_size"`
	// Filters holds vendor listing filters passed through as query
	// parameters (q, updated_after, posting_status, status)
	Filters map[string]string `yaml:"filters" json:"filters" mapstructure:"filters"`
}

// WriteConfig contains scoping for push flows.
type WriteConfig struct {
	// JobID is the vendor job that pushed candidates attach to
	JobID string `yaml:"job_id" json:"job_id" mapstructure:"job_id"`
	// CompanyID scopes writes for vendors with a company dimension
	CompanyID string `yaml:"company_id" json:"company_id" mapstructure:"company_id"`
	// CompanyName resolves CompanyID by name when the id is not known
	CompanyName string `yaml:"company_name" json:"company_name" mapstructure:"company_name"`
	// Origin labels the source of pushed candidates (vendor-specific)
	Origin string `yaml:"origin" json:"origin" mapstructure:"origin"`
	// CoverLetter is attached verbatim to pushed candidates when set
	CoverLetter string `yaml:"cover_letter" json:"cover_letter" mapstructure:"cover_letter"`
}

// SecurityConfig contains authentication settings.
type SecurityConfig struct {
	// AuthType selects the auth strategy (api_key, session, basic, oauth2)
	AuthType string `yaml:"auth_type" json:"auth_type" mapstructure:"auth_type"`
	// Credentials stores auth material (use env vars in production)
	Credentials map[string]string `yaml:"credentials" json:"credentials" mapstructure:"credentials"`
}

// TimeoutConfig contains timeout settings.
type TimeoutConfig struct {
	// Request timeout for individual HTTP calls
	Request time.Duration `yaml:"request" json:"request" mapstructure:"request"`
	// Connection timeout for establishing connections
	Connection time.Duration `yaml:"connection" json:"connection" mapstructure:"connection"`
	// Idle timeout before closing inactive connections
	Idle time.Duration `yaml:"idle" json:"idle" mapstructure:"idle"`
}

// ReliabilityConfig contains transport resilience settings.
type ReliabilityConfig struct {
	// RetryAttempts sets maximum retry attempts for idempotent requests
	RetryAttempts int `yaml:"retry_attempts" json:"retry_attempts" mapstructure:"retry_attempts"`
	// RetryDelay is the initial delay between retries
	RetryDelay time.Duration `yaml:"retry_delay" json:"retry_delay" mapstructure:"retry_delay"`
	// RetryMultiplier increases delay exponentially
	RetryMultiplier float64 `yaml:"retry_multiplier" json:"retry_multiplier" mapstructure:"retry_multiplier"`
	// MaxRetryDelay caps the maximum retry delay
	MaxRetryDelay time.Duration `yaml:"max_retry_delay" json:"max_retry_delay" mapstructure:"max_retry_delay"`
	// CircuitBreaker enables the circuit breaker
	CircuitBreaker bool `yaml:"circuit_breaker" json:"circuit_breaker" mapstructure:"circuit_breaker"`
	// RateLimitPerSec limits requests per second (0 = unlimited)
	RateLimitPerSec int `yaml:"rate_limit_per_sec" json:"rate_limit_per_sec" mapstructure:"rate_limit_per_sec"`
}

// ObservabilityConfig contains monitoring settings.
type ObservabilityConfig struct {
	// EnableMetrics activates prometheus metrics
	EnableMetrics bool `yaml:"enable_metrics" json:"enable_metrics" mapstructure:"enable_metrics"`
	// EnableTracing activates OpenTelemetry tracing
	EnableTracing bool `yaml:"enable_tracing" json:"enable_tracing" mapstructure:"enable_tracing"`
	// LogLevel sets logging verbosity (debug, info, warn, error)
	LogLevel string `yaml:"log_level" json:"log_level" mapstructure:"log_level"`
}

// New returns a Config with production defaults for the given instance name
// and vendor.
func New(name, vendor string) *Config {
	return &Config{
		Name:   name,
		Vendor: vendor,
		Read: ReadConfig{
			PageSize: 30,
			Filters:  make(map[string]string),
		},
		Security: SecurityConfig{
			AuthType:    "api_key",
			Credentials: make(map[string]string),
		},
		Timeouts: TimeoutConfig{
			Request:    30 * time.Second,
			Connection: 10 * time.Second,
			Idle:       90 * time.Second,
		},
		Reliability: ReliabilityConfig{
			RetryAttempts:   3,
			RetryDelay:      500 * time.Millisecond,
			RetryMultiplier: 2.0,
			MaxRetryDelay:   5 * time.Second,
			CircuitBreaker:  true,
			RateLimitPerSec: 10,
		},
		Observability: ObservabilityConfig{
			EnableMetrics: true,
			LogLevel:      "info",
		},
	}
}

// Validate checks the configuration for errors that would prevent a
// connector from operating.
func (c *Config) Validate() error {
	if c.Name == "" {
		return fmt.Errorf("config: name is required")
	}
	if c.Vendor == "" {
		return fmt.Errorf("config: vendor is required")
	}
	if c.Read.PageSize < 0 {
		return fmt.Errorf("config: page_size must not be negative")
	}
	if c.Timeouts.Request <= 0 {
		return fmt.Errorf("config: request timeout must be positive")
	}
	if c.Reliability.RetryAttempts < 0 {
		return fmt.Errorf("config: retry_attempts must not be negative")
	}
	if c.Reliability.RetryMultiplier != 0 && c.Reliability.RetryMultiplier < 1 {
		return fmt.Errorf("config: retry_multiplier must be >= 1")
	}
	return nil
}
