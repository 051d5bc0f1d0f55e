package config

import "time"

// ApplyDefaults fills in zero-valued fields with sensible defaults.
func (c *Config) ApplyDefaults() {
	if c.Server.ListenAddress == "" {
		c.Server.ListenAddress = "127.0.0.1:8080"
	}
	if c.Server.ReadTimeout == 0 {
		c.Server.ReadTimeout = 15 * time.Second
	}
	if c.Server.WriteTimeout == 0 {
		c.Server.WriteTimeout = 30 * time.Second
	}
	if c.Server.IdleTimeout == 0 {
		c.Server.IdleTimeout = 120 * time.Second
	}
	if c.Server.ShutdownTimeout == 0 {
		c.Server.ShutdownTimeout = 15 * time.Second
	}
	if c.Server.MaxRequestBytes == 0 {
		c.Server.MaxRequestBytes = 1 << 20
	}

	if c.Verifier.MaxDuration == 0 {
		c.Verifier.MaxDuration = 2 * time.Second
	}
	if c.Verifier.MaxFacts == 0 {
		c.Verifier.MaxFacts = 1000
	}
	if c.Verifier.MaxIterations == 0 {
		c.Verifier.MaxIterations = 100
	}

	if c.Snippets.Backend == "" {
		c.Snippets.Backend = "sqlite"
	}
	if c.Snippets.Path == "" {
		c.Snippets.Path = "data/snippets.db"
	}
	if c.Snippets.Retention == 0 {
		c.Snippets.Retention = 720 * time.Hour
	}
	if c.Snippets.PruneSchedule == "" {
		c.Snippets.PruneSchedule = "0 3 * * *"
	}

	if c.Samples.Dir == "" {
		c.Samples.Dir = "samples"
	}
	if c.Samples.GitBranch == "" {
		c.Samples.GitBranch = "main"
	}
	if c.Samples.GitSyncInterval == 0 {
		c.Samples.GitSyncInterval = 10 * time.Minute
	}

	if c.Telemetry.LogLevel == "" {
		c.Telemetry.LogLevel = "info"
	}
	if c.Telemetry.LogFormat == "" {
		c.Telemetry.LogFormat = "text"
	}
	if c.Telemetry.MetricsNamespace == "" {
		c.Telemetry.MetricsNamespace = "bakery"
	}
}

// Default returns a configuration with all defaults applied and the
// boolean toggles enabled.
func Default() *Config {
	c := &Config{}
	c.Snippets.Enabled = true
	c.Samples.Enabled = true
	c.Samples.Watch = true
	c.Telemetry.MetricsEnabled = true
	c.ApplyDefaults()
	return c
}
