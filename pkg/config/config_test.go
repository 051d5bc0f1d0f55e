package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLoadEmptyPathUsesDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.ListenAddress != "127.0.0.1:8080" {
		t.Errorf("listen address = %q, want default", cfg.Server.ListenAddress)
	}
	if cfg.Verifier.MaxFacts != 1000 {
		t.Errorf("max facts = %d, want 1000", cfg.Verifier.MaxFacts)
	}
	if !cfg.Snippets.Enabled || !cfg.Samples.Enabled {
		t.Error("snippets and samples should default to enabled")
	}
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := `
server:
  listen_address: "0.0.0.0:9090"
verifier:
  max_duration: 5s
snippets:
  enabled: false
telemetry:
  log_format: json
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.ListenAddress != "0.0.0.0:9090" {
		t.Errorf("listen address = %q", cfg.Server.ListenAddress)
	}
	if cfg.Verifier.MaxDuration != 5*time.Second {
		t.Errorf("max duration = %v", cfg.Verifier.MaxDuration)
	}
	if cfg.Snippets.Enabled {
		t.Error("snippets should be disabled by the file")
	}
	if cfg.Telemetry.LogFormat != "json" {
		t.Errorf("log format = %q", cfg.Telemetry.LogFormat)
	}
	// Unset fields still default.
	if cfg.Verifier.MaxIterations != 100 {
		t.Errorf("max iterations = %d, want default", cfg.Verifier.MaxIterations)
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("BAKERY_SERVER_LISTEN_ADDRESS", "127.0.0.1:7777")
	t.Setenv("BAKERY_VERIFIER_MAX_FACTS", "250")
	t.Setenv("BAKERY_SAMPLES_WATCH", "false")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.ListenAddress != "127.0.0.1:7777" {
		t.Errorf("listen address = %q", cfg.Server.ListenAddress)
	}
	if cfg.Verifier.MaxFacts != 250 {
		t.Errorf("max facts = %d", cfg.Verifier.MaxFacts)
	}
	if cfg.Samples.Watch {
		t.Error("samples.watch should be overridden to false")
	}
}

func TestEnvOverrideParseError(t *testing.T) {
	t.Setenv("BAKERY_VERIFIER_MAX_FACTS", "lots")
	if _, err := Load(""); err == nil {
		t.Fatal("expected error for non-numeric BAKERY_VERIFIER_MAX_FACTS")
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"bad listen address", func(c *Config) { c.Server.ListenAddress = "no-port" }, "listen_address"},
		{"bad backend", func(c *Config) { c.Snippets.Backend = "postgres" }, "snippets.backend"},
		{"bad cron", func(c *Config) { c.Snippets.PruneSchedule = "whenever" }, "prune_schedule"},
		{"bad log level", func(c *Config) { c.Telemetry.LogLevel = "verbose" }, "log_level"},
		{"negative retention", func(c *Config) { c.Snippets.Retention = -time.Hour }, "retention"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			tc.mutate(cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tc.want) {
				t.Errorf("error %q does not mention %q", err, tc.want)
			}
		})
	}
}

func TestLoadInvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("server: [not a mapping"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("expected parse error")
	}
}
