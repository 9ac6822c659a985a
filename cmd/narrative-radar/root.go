package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"
	"github.com/ternarybob/arbor"

	"github.com/ryosukesatoh/narrative-radar/internal/config"
	"github.com/ryosukesatoh/narrative-radar/internal/fetcher"
	"github.com/ryosukesatoh/narrative-radar/internal/logger"
	"github.com/ryosukesatoh/narrative-radar/internal/publisher"
	"github.com/ryosukesatoh/narrative-radar/internal/runner"
)

type options struct {
	configPath string
	out        string
	days       int
	once       bool
	logLevel   string
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:   "narrative-radar",
		Short: "Rank ecosystem signals into narratives",
		Long: `narrative-radar fetches blog feeds and repository search results, scores
and tags every signal, clusters them into narratives and writes a static
JSON report with build ideas per narrative.

With a schedule in the config file it keeps running and regenerates the
report on every cron tick; --once forces a single run.`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, opts)
			if err != nil {
				return err
			}
			log := logger.Setup(cfg.Logging)
			return run(cmd.Context(), cfg, opts.once, log)
		},
	}
	cmd.SetVersionTemplate("narrative-radar {{.Version}}\n")

	f := cmd.Flags()
	f.StringVar(&opts.configPath, "config", "", "path to config file (default $XDG_CONFIG_HOME/narrative-radar/config.yaml if present)")
	f.StringVar(&opts.out, "out", config.DefaultOutput, "output path of the JSON report")
	f.IntVar(&opts.days, "days", config.DefaultWindowDays, "lookback window in days")
	f.BoolVar(&opts.once, "once", false, "run the pipeline once and exit, ignoring the configured schedule")
	f.StringVar(&opts.logLevel, "log-level", "", "override logging.level (trace, debug, info, warn, error)")

	cmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "narrative-radar %s\n", Version)
		},
	})

	return cmd
}

// loadConfig reads the config file and applies flag overrides. Flags win
// only when set explicitly.
func loadConfig(cmd *cobra.Command, opts *options) (*config.Config, error) {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return nil, err
	}
	flags := cmd.Flags()
	if flags.Changed("out") {
		cfg.Output = opts.out
	}
	if flags.Changed("days") {
		cfg.WindowDays = opts.days
	}
	if opts.logLevel != "" {
		cfg.Logging.Level = opts.logLevel
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

type app struct {
	runner *runner.Runner
	web    *publisher.WebPublisher
}

// build wires fetchers and publishers. The web publisher only makes sense
// for a long-running process and is skipped otherwise.
func build(cfg *config.Config, serving bool, log arbor.ILogger) *app {
	client := &http.Client{Timeout: cfg.HTTPTimeout}

	feeds := fetcher.NewFeedFetcher(cfg.Feeds, cfg.WindowDays, client, log)
	search := fetcher.NewSearchFetcher(cfg.Search, cfg.WindowDays, client, log)
	sources := append(feeds.Sources(), search.Sources()...)

	a := &app{}
	var pubs []publisher.Publisher
	if cfg.Publishers.Stdout {
		pubs = append(pubs, publisher.NewStdoutPublisher())
	}
	if serving && cfg.Publishers.Web.Addr != "" {
		a.web = publisher.NewWebPublisher(cfg.Publishers.Web.Addr, log)
		pubs = append(pubs, a.web)
	}
	if cfg.Publishers.Discord.WebhookURL != "" {
		pubs = append(pubs, publisher.NewDiscordPublisher(cfg.Publishers.Discord.WebhookURL))
	}

	a.runner = runner.New(cfg.WindowDays, feeds, search, sources, publisher.NewFilePublisher(cfg.Output), pubs, log)
	return a
}

func run(ctx context.Context, cfg *config.Config, once bool, log arbor.ILogger) error {
	if ctx == nil {
		ctx = context.Background()
	}
	serving := !once && cfg.Schedule != ""
	a := build(cfg, serving, log)

	// Single-run mode: run the pipeline once and exit
	if !serving {
		if err := a.runner.Run(ctx); err != nil {
			log.Error().Err(err).Msg("Pipeline failed")
			return err
		}
		log.Info().Str("path", cfg.Output).Msg("Wrote report")
		return nil
	}

	return serve(ctx, cfg, a, log)
}

// serve runs the pipeline on the configured cron schedule until ctx is done.
func serve(ctx context.Context, cfg *config.Config, a *app, log arbor.ILogger) error {
	if a.web != nil {
		if err := a.web.Start(); err != nil {
			return err
		}
	}

	if cfg.RunOnStart {
		log.Info().Msg("Running initial report...")
		if err := a.runner.Run(ctx); err != nil {
			log.Error().Err(err).Msg("Initial run failed")
		}
	}

	c := cron.New()
	_, err := c.AddFunc(cfg.Schedule, func() {
		log.Info().Msg("Cron triggered, generating report...")
		if err := a.runner.Run(ctx); err != nil {
			log.Error().Err(err).Msg("Scheduled run failed")
		}
	})
	if err != nil {
		return fmt.Errorf("failed to set up cron schedule %q: %w", cfg.Schedule, err)
	}
	c.Start()
	log.Info().Str("schedule", cfg.Schedule).Msg("Scheduled report generation")

	<-ctx.Done()
	log.Info().Msg("Shutting down...")

	<-c.Stop().Done()

	if a.web != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := a.web.Shutdown(shutdownCtx); err != nil {
			log.Warn().Err(err).Msg("Web server shutdown error")
		}
	}

	log.Info().Msg("Shutdown complete")
	return nil
}
