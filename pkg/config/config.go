package config

import "time"

// Config is the root configuration for the bakery service.
type Config struct {
	// Server contains the HTTP server configuration.
	Server ServerConfig `yaml:"server"`

	// Verifier bounds policy evaluation for every playground request.
	Verifier VerifierConfig `yaml:"verifier"`

	// Snippets configures the shared-snippet store.
	Snippets SnippetsConfig `yaml:"snippets"`

	// Samples configures the sample gallery served to the editor UI.
	Samples SamplesConfig `yaml:"samples"`

	// Telemetry configures logging and metrics.
	Telemetry TelemetryConfig `yaml:"telemetry"`
}

// ServerConfig contains the HTTP server configuration.
type ServerConfig struct {
	// ListenAddress is the address and port to listen on.
	// Default: "127.0.0.1:8080"
	ListenAddress string `yaml:"listen_address"`

	// ReadTimeout is the maximum duration for reading a request.
	// Default: 15s
	ReadTimeout time.Duration `yaml:"read_timeout"`

	// WriteTimeout is the maximum duration for writing a response.
	// Default: 30s
	WriteTimeout time.Duration `yaml:"write_timeout"`

	// IdleTimeout is the keep-alive idle timeout.
	// Default: 120s
	IdleTimeout time.Duration `yaml:"idle_timeout"`

	// ShutdownTimeout bounds graceful shutdown.
	// Default: 15s
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`

	// MaxRequestBytes caps the size of a playground request body.
	// Default: 1MB
	MaxRequestBytes int64 `yaml:"max_request_bytes"`
}

// VerifierConfig bounds one verification run.
type VerifierConfig struct {
	// MaxDuration is the wall-clock budget for policy evaluation.
	// Default: 2s
	MaxDuration time.Duration `yaml:"max_duration"`

	// MaxFacts caps the number of facts the evaluator may derive.
	// Default: 1000
	MaxFacts int `yaml:"max_facts"`

	// MaxIterations caps the evaluator's fixpoint passes.
	// Default: 100
	MaxIterations int `yaml:"max_iterations"`
}

// SnippetsConfig configures the shared-snippet store.
type SnippetsConfig struct {
	// Enabled turns the share endpoints on.
	// Default: true
	Enabled bool `yaml:"enabled"`

	// Backend selects the storage backend: "sqlite" or "memory".
	// Default: "sqlite"
	Backend string `yaml:"backend"`

	// Path is the SQLite database file path.
	// Default: "data/snippets.db"
	Path string `yaml:"path"`

	// Retention is how long shared snippets are kept. Zero disables
	// pruning.
	// Default: 720h (30 days)
	Retention time.Duration `yaml:"retention"`

	// PruneSchedule is the cron expression for retention pruning.
	// Default: "0 3 * * *" (daily at 3 AM)
	PruneSchedule string `yaml:"prune_schedule"`
}

// SamplesConfig configures the sample gallery.
type SamplesConfig struct {
	// Enabled turns the samples endpoint on.
	// Default: true
	Enabled bool `yaml:"enabled"`

	// Dir is the directory holding .biscuit sample files.
	// Default: "samples"
	Dir string `yaml:"dir"`

	// Watch reloads the gallery when files under Dir change.
	// Default: true
	Watch bool `yaml:"watch"`

	// GitURL, when set, syncs the gallery from a git repository into Dir
	// instead of treating Dir as hand-maintained.
	GitURL string `yaml:"git_url"`

	// GitBranch is the branch to sync.
	// Default: "main"
	GitBranch string `yaml:"git_branch"`

	// GitSyncInterval is how often to pull the gallery repository.
	// Default: 10m
	GitSyncInterval time.Duration `yaml:"git_sync_interval"`
}

// TelemetryConfig configures logging and metrics.
type TelemetryConfig struct {
	// LogLevel is one of "debug", "info", "warn", "error".
	// Default: "info"
	LogLevel string `yaml:"log_level"`

	// LogFormat is "text" or "json".
	// Default: "text"
	LogFormat string `yaml:"log_format"`

	// MetricsEnabled exposes Prometheus metrics on /metrics.
	// Default: true
	MetricsEnabled bool `yaml:"metrics_enabled"`

	// MetricsNamespace is the Prometheus namespace for all metrics.
	// Default: "bakery"
	MetricsNamespace string `yaml:"metrics_namespace"`
}
