package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Load reads the configuration from path, applies environment variable
// overrides and defaults, and validates the result. An empty path
// returns the default configuration (still subject to env overrides).
func Load(path string) (*Config, error) {
	cfg := &Config{}
	cfg.Snippets.Enabled = true
	cfg.Samples.Enabled = true
	cfg.Samples.Watch = true
	cfg.Telemetry.MetricsEnabled = true

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cfg.applyEnvOverrides(); err != nil {
		return nil, err
	}

	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// applyEnvOverrides applies BAKERY_SECTION_FIELD environment variables
// on top of the file values.
func (c *Config) applyEnvOverrides() error {
	var err error

	overrideString("BAKERY_SERVER_LISTEN_ADDRESS", &c.Server.ListenAddress)
	err = firstErr(err, overrideDuration("BAKERY_SERVER_READ_TIMEOUT", &c.Server.ReadTimeout))
	err = firstErr(err, overrideDuration("BAKERY_SERVER_WRITE_TIMEOUT", &c.Server.WriteTimeout))
	err = firstErr(err, overrideDuration("BAKERY_SERVER_SHUTDOWN_TIMEOUT", &c.Server.ShutdownTimeout))

	err = firstErr(err, overrideDuration("BAKERY_VERIFIER_MAX_DURATION", &c.Verifier.MaxDuration))
	err = firstErr(err, overrideInt("BAKERY_VERIFIER_MAX_FACTS", &c.Verifier.MaxFacts))
	err = firstErr(err, overrideInt("BAKERY_VERIFIER_MAX_ITERATIONS", &c.Verifier.MaxIterations))

	err = firstErr(err, overrideBool("BAKERY_SNIPPETS_ENABLED", &c.Snippets.Enabled))
	overrideString("BAKERY_SNIPPETS_BACKEND", &c.Snippets.Backend)
	overrideString("BAKERY_SNIPPETS_PATH", &c.Snippets.Path)
	err = firstErr(err, overrideDuration("BAKERY_SNIPPETS_RETENTION", &c.Snippets.Retention))
	overrideString("BAKERY_SNIPPETS_PRUNE_SCHEDULE", &c.Snippets.PruneSchedule)

	err = firstErr(err, overrideBool("BAKERY_SAMPLES_ENABLED", &c.Samples.Enabled))
	overrideString("BAKERY_SAMPLES_DIR", &c.Samples.Dir)
	err = firstErr(err, overrideBool("BAKERY_SAMPLES_WATCH", &c.Samples.Watch))
	overrideString("BAKERY_SAMPLES_GIT_URL", &c.Samples.GitURL)
	overrideString("BAKERY_SAMPLES_GIT_BRANCH", &c.Samples.GitBranch)

	overrideString("BAKERY_TELEMETRY_LOG_LEVEL", &c.Telemetry.LogLevel)
	overrideString("BAKERY_TELEMETRY_LOG_FORMAT", &c.Telemetry.LogFormat)
	err = firstErr(err, overrideBool("BAKERY_TELEMETRY_METRICS_ENABLED", &c.Telemetry.MetricsEnabled))

	return err
}

func overrideString(name string, dst *string) {
	if v, ok := os.LookupEnv(name); ok {
		*dst = v
	}
}

func overrideDuration(name string, dst *time.Duration) error {
	v, ok := os.LookupEnv(name)
	if !ok {
		return nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	*dst = d
	return nil
}

func overrideInt(name string, dst *int) error {
	v, ok := os.LookupEnv(name)
	if !ok {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	*dst = n
	return nil
}

func overrideBool(name string, dst *bool) error {
	v, ok := os.LookupEnv(name)
	if !ok {
		return nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	*dst = b
	return nil
}

func firstErr(a, b error) error {
	if a != nil {
		return a
	}
	return b
}
