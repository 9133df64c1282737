package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/komsit37/screen/pkg/screen/batch"
	"github.com/komsit37/screen/pkg/screen/cache"
	"github.com/komsit37/screen/pkg/screen/config"
	"github.com/komsit37/screen/pkg/screen/fetch"
	"github.com/komsit37/screen/pkg/screen/filter"
	"github.com/komsit37/screen/pkg/screen/finnhub"
	"github.com/komsit37/screen/pkg/screen/logging"
	"github.com/komsit37/screen/pkg/screen/pipeline"
	"github.com/komsit37/screen/pkg/screen/ratelimit"
	"github.com/komsit37/screen/pkg/screen/render"
	"github.com/komsit37/screen/pkg/screen/source"
)

// app holds everything a subcommand needs once config and flags are merged.
type app struct {
	cfg     config.Config
	log     *logrus.Logger
	limiter *ratelimit.Limiter
	client  *finnhub.Client
	cached  *fetch.CacheFetcher
}

func newApp(cmd *cobra.Command, g *globalFlags) (*app, error) {
	cfg, err := config.Load(g.configPath)
	if err != nil {
		return nil, err
	}
	applyFlags(cmd, g, &cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	log, err := logging.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return nil, err
	}
	return &app{cfg: cfg, log: log}, nil
}

// applyFlags lets explicitly set flags win over config and env.
func applyFlags(cmd *cobra.Command, g *globalFlags, cfg *config.Config) {
	flags := cmd.Flags()
	if flags.Changed("log-level") {
		cfg.Log.Level = g.logLevel
	}
	if flags.Changed("log-format") {
		cfg.Log.Format = g.logFormat
	}
	if flags.Changed("format") {
		cfg.Output.Format = g.format
	}
	if flags.Changed("columns") {
		cfg.Output.Columns = g.columns
	}
	if flags.Changed("workers") {
		cfg.DataFetching.Workers = g.workers
	}
	if flags.Changed("out") {
		cfg.Output.Dir = g.outDir
	}
	if g.noColor || !stdoutIsTerminal() {
		cfg.Output.Color = false
	}
	if flags.Changed("max-col-width") {
		cfg.Output.MaxColWidth = g.maxColWidth
	}
}

// connect builds the shared limiter and Finnhub client.
func (a *app) connect() error {
	if a.cfg.DataFetching.APIKey == "" {
		return fmt.Errorf("no Finnhub API key: set data_fetching.api_key or %s", config.APIKeyEnv)
	}
	df := a.cfg.DataFetching
	a.limiter = ratelimit.New(df.MaxAPICallsPerMinute, ratelimit.WithLogger(a.log))
	a.client = finnhub.New(df.APIKey,
		finnhub.WithGate(a.limiter),
		finnhub.WithLogger(a.log),
		finnhub.WithTimeout(df.Timeout),
	)
	return nil
}

func (a *app) close() {
	if a.limiter != nil {
		st := a.limiter.Stats()
		a.log.WithFields(logrus.Fields{"used": st.Used, "limit": st.Limit}).Debug("rate limiter window")
		a.limiter.Stop()
	}
	if a.cached != nil {
		hits, misses := a.cached.Stats()
		a.log.WithFields(logrus.Fields{"hits": hits, "misses": misses}).Info("cache")
	}
}

func (a *app) fetcher() fetch.Fetcher {
	df := a.cfg.DataFetching
	var opts []fetch.Option
	if df.QuoteSource == config.QuoteSourceYahoo {
		opts = append(opts, fetch.WithQuoteSource(fetch.NewYahooQuotes(a.limiter, df.Timeout)))
	}
	var f fetch.Fetcher = fetch.NewService(a.client, opts...)
	store := cache.New(a.cfg.Cache.Dir, a.cfg.Cache.TTL, a.cfg.Cache.Enabled)
	if store.Enabled() {
		a.cached = fetch.NewCacheFetcher(f, store, a.log)
		f = a.cached
	}
	return f
}

func (a *app) screener() *batch.Screener {
	workers := a.cfg.DataFetching.Workers
	if workers == 0 {
		workers = batch.DefaultWorkers(a.cfg.DataFetching.MaxAPICallsPerMinute)
	}
	return batch.New(a.fetcher(), a.cfg.Analysis,
		batch.WithWorkers(workers),
		batch.WithObserver(batch.NewLogObserver(a.log)),
	)
}

// screen runs src through the pipeline and logs a summary.
func (a *app) screen(ctx context.Context, g *globalFlags, src source.Source) error {
	filt, err := filter.Parse(g.filter)
	if err != nil {
		return err
	}
	renderer, err := render.New(a.cfg.Output.Format)
	if err != nil {
		return err
	}
	runner := &pipeline.Runner{
		Source:   src,
		Screener: a.screener(),
		Renderer: renderer,
		Writer:   os.Stdout,
		Log:      a.log,
	}
	p, err := runner.Execute(ctx, pipeline.ExecuteOptions{
		Columns:       a.cfg.Output.Columns,
		Filter:        filt,
		Limit:         g.limit,
		Color:         a.cfg.Output.Color,
		PrettyJSON:    g.pretty,
		MaxColWidth:   maxColWidth(a.cfg.Output.MaxColWidth),
		QualifiedOnly: g.qualified,
		OutDir:        a.cfg.Output.Dir,
	})
	c := p.Counts()
	entry := a.log.WithFields(logrus.Fields{
		"qualified":    c.Qualified,
		"disqualified": c.Disqualified,
	})
	for kind, n := range c.Errors {
		entry = entry.WithField("error_"+string(kind), n)
	}
	if errors.Is(err, context.Canceled) {
		entry.Warn("screening interrupted; partial results shown")
		return err
	}
	if err == nil {
		entry.Info("screening finished")
	}
	return err
}

// signalContext is canceled on SIGINT or SIGTERM.
func signalContext(parent context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
}

// maxColWidth prefers the configured width, then a share of the terminal.
func maxColWidth(configured int) int {
	if configured > 0 {
		return configured
	}
	if w := detectTerminalWidth(); w > 0 {
		return max(12, w/4)
	}
	return 0
}
