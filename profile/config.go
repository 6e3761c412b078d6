package profile

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/jonwraymond/upcall/call"
)

// Config declares the operation profiles a Registry is built from. Profiles
// are fixed at process start; a violated invariant rejects startup rather
// than surfacing later mid-call.
type Config struct {
	Profiles []ProfileConfig `yaml:"profiles"`
}

// ProfileConfig declares one named profile: retry tuning, breaker tuning,
// and optional admission guards.
type ProfileConfig struct {
	Name string `yaml:"name"`

	// Retry policy.
	MaxRetries        int           `yaml:"max_retries"`
	BaseDelay         time.Duration `yaml:"base_delay"`
	MaxDelay          time.Duration `yaml:"max_delay"`
	BackoffMultiplier float64       `yaml:"backoff_multiplier"`
	Timeout           time.Duration `yaml:"timeout"`
	RetryablePatterns []string      `yaml:"retryable_patterns"`

	// Circuit breaker.
	FailureThreshold int           `yaml:"failure_threshold"`
	RecoveryTimeout  time.Duration `yaml:"recovery_timeout"`

	// Optional admission guards. Zero disables the guard.
	Rate          float64 `yaml:"rate"`
	Burst         int     `yaml:"burst"`
	MaxConcurrent int     `yaml:"max_concurrent"`
}

// Policy returns the profile's retry policy, unvalidated.
func (p ProfileConfig) Policy() call.Policy {
	return call.Policy{
		MaxRetries:        p.MaxRetries,
		BaseDelay:         p.BaseDelay,
		MaxDelay:          p.MaxDelay,
		BackoffMultiplier: p.BackoffMultiplier,
		Timeout:           p.Timeout,
		RetryablePatterns: p.RetryablePatterns,
	}
}

// Validate checks every profile definition against the policy and breaker
// invariants. It does not mutate the config; normalization happens when the
// Registry builds executors.
func (c Config) Validate() error {
	if len(c.Profiles) == 0 {
		return ErrNoProfiles
	}

	seen := make(map[string]bool, len(c.Profiles))
	for _, p := range c.Profiles {
		if p.Name == "" {
			return ErrMissingName
		}
		if seen[p.Name] {
			return fmt.Errorf("%w: %q", ErrDuplicateProfile, p.Name)
		}
		seen[p.Name] = true

		if _, err := p.Policy().Validate(); err != nil {
			return fmt.Errorf("profile %q: %w", p.Name, err)
		}
		if p.FailureThreshold < 0 {
			return fmt.Errorf("profile %q: failure threshold must not be negative", p.Name)
		}
		if p.RecoveryTimeout < 0 {
			return fmt.Errorf("profile %q: recovery timeout must not be negative", p.Name)
		}
		if p.Rate < 0 || p.Burst < 0 || p.MaxConcurrent < 0 {
			return fmt.Errorf("profile %q: guard limits must not be negative", p.Name)
		}
	}
	return nil
}

// LoadConfig reads and validates a YAML profile configuration file.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("profile: reading config: %w", err)
	}
	return ParseConfig(data)
}

// ParseConfig parses and validates YAML profile configuration.
func ParseConfig(data []byte) (Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("profile: parsing config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// DefaultConfig returns the stock profiles for a generative AI backend:
// short status checks, long-running content generation, and medium file
// transfers.
func DefaultConfig() Config {
	return Config{
		Profiles: []ProfileConfig{
			{
				Name:              "quick",
				MaxRetries:        1,
				BaseDelay:         50 * time.Millisecond,
				MaxDelay:          500 * time.Millisecond,
				BackoffMultiplier: 2.0,
				Timeout:           5 * time.Second,
				RetryablePatterns: call.DefaultRetryablePatterns(),
				FailureThreshold:  3,
				RecoveryTimeout:   15 * time.Second,
			},
			{
				Name:              "content-generation",
				MaxRetries:        2,
				BaseDelay:         time.Second,
				MaxDelay:          30 * time.Second,
				BackoffMultiplier: 2.0,
				Timeout:           2 * time.Minute,
				RetryablePatterns: call.DefaultRetryablePatterns(),
				FailureThreshold:  5,
				RecoveryTimeout:   time.Minute,
			},
			{
				Name:              "file-operations",
				MaxRetries:        3,
				BaseDelay:         250 * time.Millisecond,
				MaxDelay:          10 * time.Second,
				BackoffMultiplier: 2.0,
				Timeout:           30 * time.Second,
				RetryablePatterns: call.DefaultRetryablePatterns(),
				FailureThreshold:  5,
				RecoveryTimeout:   30 * time.Second,
			},
		},
	}
}
