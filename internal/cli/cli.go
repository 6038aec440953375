package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sort"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/pfrederiksen/bbref-crawler/internal/config"
	"github.com/pfrederiksen/bbref-crawler/internal/directory"
	"github.com/pfrederiksen/bbref-crawler/internal/gamelog"
	"github.com/pfrederiksen/bbref-crawler/internal/logger"
	"github.com/pfrederiksen/bbref-crawler/internal/scraper"
	"github.com/pfrederiksen/bbref-crawler/internal/storage"
)

const (
	ExitSuccess = 0
	ExitError   = 1
)

// rootOptions holds the persistent flags shared by every command.
type rootOptions struct {
	configPath   string
	dataDir      string
	baseURL      string
	format       string
	logLevel     string
	requestDelay time.Duration
	verbose      bool
}

// app is the wiring a command runs against.
type app struct {
	cfg     config.Config
	store   *storage.Storage
	fetcher scraper.PageFetcher
	pacer   *scraper.Pacer
	format  OutputFormat
	out     io.Writer
}

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "bbref-crawler",
		Short: "Crawl basketball-reference.com players, coaches, teams and game logs",
		Long: `A CLI tool to build a local dataset of players, coaches and teams from
basketball-reference.com and to extract per-season game logs.
Collections are saved as JSON in the data directory between runs.`,
		SilenceUsage: true,
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if opts.verbose {
				writeMetrics(cmd.ErrOrStderr())
			}
			_ = logger.Default().Sync()
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&opts.configPath, "config", config.DefaultFile, "Config file (json5); a .local variant overrides it")
	flags.StringVar(&opts.dataDir, "data-dir", config.DefaultDataDir, "Data directory for saved collections")
	flags.StringVar(&opts.baseURL, "base-url", config.DefaultBaseURL, "Site to crawl")
	flags.StringVar(&opts.format, "format", "text", "Output format: text or json")
	flags.StringVar(&opts.logLevel, "log-level", "info", "Log level: debug, info, warn or error")
	flags.DurationVar(&opts.requestDelay, "request-delay", time.Second, "Minimum delay between requests")
	flags.BoolVar(&opts.verbose, "verbose", false, "Enable debug logging and print crawl metrics")

	cmd.AddCommand(
		newPlayersCmd(opts),
		newCoachesCmd(opts),
		newTeamsCmd(opts),
		newSearchCmd(opts),
		newGameLogsCmd(opts),
		newExportCmd(opts),
	)
	return cmd
}

// setup loads the config, applies flags that were set explicitly and wires
// the crawl dependencies.
func (o *rootOptions) setup(cmd *cobra.Command) (*app, error) {
	format := OutputFormat(strings.ToLower(o.format))
	if format != FormatText && format != FormatJSON {
		return nil, fmt.Errorf("invalid format: %s (must be 'text' or 'json')", o.format)
	}

	cfg, err := config.Load(o.configPath)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	flags := cmd.Flags()
	if flags.Changed("data-dir") {
		cfg.DataDir = o.dataDir
	}
	if flags.Changed("base-url") {
		cfg.BaseURL = strings.TrimRight(o.baseURL, "/")
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = o.logLevel
	} else if o.verbose {
		cfg.LogLevel = "debug"
	}
	if flags.Changed("request-delay") {
		cfg.RequestDelay = config.Duration(o.requestDelay)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	level, err := logger.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	logger.SetDefault(logger.New(level, cmd.ErrOrStderr()))

	store, err := storage.New(cfg.DataDir)
	if err != nil {
		return nil, fmt.Errorf("initializing storage: %w", err)
	}

	logger.Debug("Configured crawl", logger.Fields{
		"base_url":      cfg.BaseURL,
		"data_dir":      store.Dir(),
		"request_delay": cfg.RequestDelay.Std().String(),
	})

	return &app{
		cfg:   cfg,
		store: store,
		fetcher: scraper.New(scraper.Options{
			UserAgent:   cfg.UserAgent,
			Timeout:     cfg.Timeout.Std(),
			MaxAttempts: cfg.MaxAttempts,
			Backoff:     cfg.RetryBackoff.Std(),
		}),
		pacer:  scraper.NewPacer(cfg.RequestDelay.Std()),
		format: format,
		out:    cmd.OutOrStdout(),
	}, nil
}

func (a *app) builder() *directory.Builder {
	return directory.NewBuilder(a.fetcher, a.pacer, directory.Options{
		BaseURL:       a.cfg.BaseURL,
		MinYearActive: a.cfg.MinYearActive,
	})
}

func (a *app) loader() *gamelog.Loader {
	return gamelog.NewLoader(a.fetcher, a.pacer)
}

func (a *app) write(result textRenderer) error {
	if err := WriteOutput(a.out, result, a.format); err != nil {
		return fmt.Errorf("writing output: %w", err)
	}
	return nil
}

// writeMetrics prints the crawl counters and timings.
func writeMetrics(w io.Writer) {
	snap := logger.GetMetricsSnapshot()

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.AppendHeader(table.Row{"Metric", "Value"})

	counters, _ := snap["counters"].(map[string]int64)
	for _, name := range sortedKeys(counters) {
		t.AppendRow(table.Row{name, counters[name]})
	}
	gauges, _ := snap["gauges"].(map[string]float64)
	for _, name := range sortedKeys(gauges) {
		t.AppendRow(table.Row{name, gauges[name]})
	}
	timings, _ := snap["timings"].(map[string]map[string]interface{})
	for _, name := range sortedKeys(timings) {
		tm := timings[name]
		t.AppendRow(table.Row{name, fmt.Sprintf("n=%v avg=%v max=%v", tm["count"], tm["average"], tm["max"])})
	}

	t.SetStyle(table.StyleRounded)
	t.Render()
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Execute runs the CLI. An interrupt cancels the crawl after the current
// request; collections built so far are still saved.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := NewRootCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(ExitError)
	}
}
