package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"biscuit-hq/bakery/pkg/cli"
	"biscuit-hq/bakery/pkg/config"
	"biscuit-hq/bakery/pkg/datalog/engine"
	"biscuit-hq/bakery/pkg/playground"
	"biscuit-hq/bakery/pkg/samples"
	"biscuit-hq/bakery/pkg/server"
	"biscuit-hq/bakery/pkg/snippet"
	"biscuit-hq/bakery/pkg/snippet/retention"
	"biscuit-hq/bakery/pkg/telemetry/logging"
	"biscuit-hq/bakery/pkg/telemetry/metrics"
)

var serveFlags struct {
	listenAddress string
	logLevel      string
	dryRun        bool
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the playground server",
	Long: `Start the playground HTTP server with the specified configuration.

Examples:
  # Start with default config
  bakery serve

  # Start with a custom config
  bakery serve --config /etc/bakery/config.yaml

  # Override listen address
  bakery serve --listen 0.0.0.0:8080

  # Validate config without starting the server
  bakery serve --dry-run`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVarP(&serveFlags.listenAddress, "listen", "l", "", "override listen address")
	serveCmd.Flags().StringVar(&serveFlags.logLevel, "log-level", "", "override log level (debug, info, warn, error)")
	serveCmd.Flags().BoolVar(&serveFlags.dryRun, "dry-run", false, "validate config without starting the server")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return cli.NewCommandError("serve", err)
	}

	if serveFlags.listenAddress != "" {
		cfg.Server.ListenAddress = serveFlags.listenAddress
	}
	if serveFlags.logLevel != "" {
		cfg.Telemetry.LogLevel = serveFlags.logLevel
	}
	if verbose {
		cfg.Telemetry.LogLevel = "debug"
	}

	if _, err := logging.Setup(logging.Config{
		Level:  cfg.Telemetry.LogLevel,
		Format: cfg.Telemetry.LogFormat,
	}); err != nil {
		return cli.NewCommandError("serve", err)
	}

	if serveFlags.dryRun {
		fmt.Println("configuration valid")
		return nil
	}

	ctx := cli.SetupSignalHandler()

	pg := playground.New(playground.WithLimits(engine.Limits{
		MaxFacts:      cfg.Verifier.MaxFacts,
		MaxIterations: cfg.Verifier.MaxIterations,
		MaxDuration:   cfg.Verifier.MaxDuration,
	}))

	opts := server.Options{Playground: pg}

	if cfg.Telemetry.MetricsEnabled {
		opts.Metrics = metrics.NewCollector(cfg.Telemetry.MetricsNamespace)
	}

	if cfg.Snippets.Enabled {
		var store snippet.Store
		switch cfg.Snippets.Backend {
		case "memory":
			store = snippet.NewMemoryStore()
		default:
			store, err = snippet.NewSQLiteStore(snippet.SQLiteConfig{Path: cfg.Snippets.Path})
			if err != nil {
				return cli.NewCommandError("serve", err)
			}
		}
		defer store.Close()
		opts.Snippets = store

		pruner := retention.NewPruner(store, retention.Config{
			Retention: cfg.Snippets.Retention,
			Schedule:  cfg.Snippets.PruneSchedule,
		})
		scheduler := retention.NewScheduler(pruner)
		if err := scheduler.Start(ctx); err != nil {
			return cli.NewCommandError("serve", err)
		}
		defer scheduler.Stop()
	}

	if cfg.Samples.Enabled {
		gallery := samples.NewGallery(cfg.Samples.Dir)
		if cfg.Samples.GitURL != "" {
			syncer, err := samples.NewGitSyncer(samples.GitSyncConfig{
				URL:      cfg.Samples.GitURL,
				Branch:   cfg.Samples.GitBranch,
				Dir:      cfg.Samples.Dir,
				Interval: cfg.Samples.GitSyncInterval,
			}, gallery)
			if err != nil {
				return cli.NewCommandError("serve", err)
			}
			if err := syncer.Clone(ctx); err != nil {
				return cli.NewCommandError("serve", err)
			}
			go func() {
				if err := syncer.Run(ctx); err != nil {
					slog.Error("sample gallery sync stopped", "error", err)
				}
			}()
		}
		if err := gallery.Load(); err != nil {
			return cli.NewCommandError("serve", err)
		}
		if opts.Metrics != nil {
			gallery.OnReload(opts.Metrics.RecordSampleReload)
		}
		if cfg.Samples.Watch {
			watcher, err := samples.NewWatcher(gallery, 0)
			if err != nil {
				return cli.NewCommandError("serve", err)
			}
			go func() {
				if err := watcher.Watch(ctx); err != nil {
					slog.Error("sample watcher stopped", "error", err)
				}
			}()
		}
		opts.Gallery = gallery
	}

	srv := server.NewServer(cfg, opts)
	if err := srv.Start(ctx); err != nil {
		return cli.NewCommandError("serve", err)
	}
	return nil
}
