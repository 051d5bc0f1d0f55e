package config

import (
	"fmt"
	"net"

	"github.com/robfig/cron/v3"
)

// Validate checks the configuration for values that would make the
// service misbehave at runtime. It expects defaults to have been
// applied already.
func (c *Config) Validate() error {
	if _, _, err := net.SplitHostPort(c.Server.ListenAddress); err != nil {
		return fmt.Errorf("server.listen_address: %w", err)
	}
	if c.Server.ReadTimeout <= 0 {
		return fmt.Errorf("server.read_timeout must be positive")
	}
	if c.Server.WriteTimeout <= 0 {
		return fmt.Errorf("server.write_timeout must be positive")
	}
	if c.Server.MaxRequestBytes <= 0 {
		return fmt.Errorf("server.max_request_bytes must be positive")
	}

	if c.Verifier.MaxDuration <= 0 {
		return fmt.Errorf("verifier.max_duration must be positive")
	}
	if c.Verifier.MaxFacts <= 0 {
		return fmt.Errorf("verifier.max_facts must be positive")
	}
	if c.Verifier.MaxIterations <= 0 {
		return fmt.Errorf("verifier.max_iterations must be positive")
	}

	if c.Snippets.Enabled {
		switch c.Snippets.Backend {
		case "sqlite", "memory":
		default:
			return fmt.Errorf("snippets.backend must be %q or %q, got %q", "sqlite", "memory", c.Snippets.Backend)
		}
		if c.Snippets.Backend == "sqlite" && c.Snippets.Path == "" {
			return fmt.Errorf("snippets.path is required for the sqlite backend")
		}
		if c.Snippets.Retention < 0 {
			return fmt.Errorf("snippets.retention must not be negative")
		}
		if c.Snippets.Retention > 0 {
			if _, err := cron.ParseStandard(c.Snippets.PruneSchedule); err != nil {
				return fmt.Errorf("snippets.prune_schedule: %w", err)
			}
		}
	}

	if c.Samples.Enabled && c.Samples.Dir == "" {
		return fmt.Errorf("samples.dir is required when samples are enabled")
	}
	if c.Samples.GitURL != "" && c.Samples.GitSyncInterval <= 0 {
		return fmt.Errorf("samples.git_sync_interval must be positive")
	}

	switch c.Telemetry.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("telemetry.log_level must be one of debug, info, warn, error; got %q", c.Telemetry.LogLevel)
	}
	switch c.Telemetry.LogFormat {
	case "text", "json":
	default:
		return fmt.Errorf("telemetry.log_format must be %q or %q, got %q", "text", "json", c.Telemetry.LogFormat)
	}

	return nil
}
