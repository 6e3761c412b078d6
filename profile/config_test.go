package profile

import (
	"errors"
	"os"
	"testing"
	"time"
)

func TestDefaultConfig_IsValid(t *testing.T) {
	cfg := DefaultConfig()

	if err := cfg.Validate(); err != nil {
		t.Fatalf("DefaultConfig().Validate() error = %v", err)
	}

	want := []string{"quick", "content-generation", "file-operations"}
	if len(cfg.Profiles) != len(want) {
		t.Fatalf("profiles = %d, want %d", len(cfg.Profiles), len(want))
	}
	for i, name := range want {
		if cfg.Profiles[i].Name != name {
			t.Errorf("profile %d = %q, want %q", i, cfg.Profiles[i].Name, name)
		}
	}
}

func TestConfig_ValidateRejects(t *testing.T) {
	valid := ProfileConfig{
		Name:      "ok",
		BaseDelay: 100 * time.Millisecond,
		MaxDelay:  time.Second,
	}

	tests := []struct {
		name string
		cfg  Config
		want error
	}{
		{
			name: "empty config",
			cfg:  Config{},
			want: ErrNoProfiles,
		},
		{
			name: "missing name",
			cfg:  Config{Profiles: []ProfileConfig{{BaseDelay: time.Millisecond}}},
			want: ErrMissingName,
		},
		{
			name: "duplicate name",
			cfg:  Config{Profiles: []ProfileConfig{valid, valid}},
			want: ErrDuplicateProfile,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.cfg.Validate(); !errors.Is(err, tt.want) {
				t.Errorf("Validate() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestConfig_ValidateRejectsBadPolicy(t *testing.T) {
	cfg := Config{Profiles: []ProfileConfig{{
		Name:      "inverted",
		BaseDelay: time.Second,
		MaxDelay:  time.Millisecond,
	}}}

	err := cfg.Validate()
	if err == nil {
		t.Fatal("Validate() accepted max delay below base delay")
	}
}

func TestParseConfig(t *testing.T) {
	data := []byte(`
profiles:
  - name: content-generation
    max_retries: 2
    base_delay: 1s
    max_delay: 30s
    backoff_multiplier: 2.0
    timeout: 2m
    retryable_patterns: ["timeout", "rate_limit_exceeded"]
    failure_threshold: 5
    recovery_timeout: 1m
    rate: 10
    burst: 5
    max_concurrent: 8
  - name: quick
    max_retries: 1
    base_delay: 50ms
    max_delay: 500ms
    timeout: 5s
`)

	cfg, err := ParseConfig(data)
	if err != nil {
		t.Fatalf("ParseConfig() error = %v", err)
	}
	if len(cfg.Profiles) != 2 {
		t.Fatalf("profiles = %d, want 2", len(cfg.Profiles))
	}

	gen := cfg.Profiles[0]
	if gen.Name != "content-generation" {
		t.Errorf("Name = %q, want content-generation", gen.Name)
	}
	if gen.MaxRetries != 2 {
		t.Errorf("MaxRetries = %d, want 2", gen.MaxRetries)
	}
	if gen.Timeout != 2*time.Minute {
		t.Errorf("Timeout = %v, want 2m", gen.Timeout)
	}
	if len(gen.RetryablePatterns) != 2 {
		t.Errorf("RetryablePatterns = %v, want 2 entries", gen.RetryablePatterns)
	}
	if gen.Rate != 10 || gen.Burst != 5 || gen.MaxConcurrent != 8 {
		t.Errorf("guards = {%g, %d, %d}, want {10, 5, 8}", gen.Rate, gen.Burst, gen.MaxConcurrent)
	}
}

func TestParseConfig_RejectsInvalid(t *testing.T) {
	t.Run("malformed yaml", func(t *testing.T) {
		if _, err := ParseConfig([]byte("profiles: [")); err == nil {
			t.Error("ParseConfig() accepted malformed YAML")
		}
	})

	t.Run("invariant violation", func(t *testing.T) {
		data := []byte(`
profiles:
  - name: bad
    max_retries: -1
`)
		if _, err := ParseConfig(data); err == nil {
			t.Error("ParseConfig() accepted negative max_retries")
		}
	})
}

func TestLoadConfig_MissingFile(t *testing.T) {
	if _, err := LoadConfig("/nonexistent/profiles.yaml"); err == nil {
		t.Error("LoadConfig() succeeded on a missing file")
	}
}

func TestLoadConfig_RoundTrip(t *testing.T) {
	path := t.TempDir() + "/profiles.yaml"
	data := []byte(`
profiles:
  - name: quick
    max_retries: 1
    base_delay: 50ms
    max_delay: 500ms
    timeout: 5s
    failure_threshold: 3
    recovery_timeout: 15s
`)
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatalf("writing temp config: %v", err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if len(cfg.Profiles) != 1 || cfg.Profiles[0].Name != "quick" {
		t.Errorf("unexpected config: %+v", cfg)
	}
}
