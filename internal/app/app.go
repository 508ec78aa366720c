// Package app wires the digest pipeline together for one run.
package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/deusflow/newsdigest/internal/config"
	"github.com/deusflow/newsdigest/internal/dedup"
	"github.com/deusflow/newsdigest/internal/linkpolicy"
	"github.com/deusflow/newsdigest/internal/metrics"
	"github.com/deusflow/newsdigest/internal/news"
	"github.com/deusflow/newsdigest/internal/relevance"
	"github.com/deusflow/newsdigest/internal/report"
	"github.com/deusflow/newsdigest/internal/rss"
	"github.com/deusflow/newsdigest/internal/scraper"
	"github.com/deusflow/newsdigest/internal/search"
	"github.com/deusflow/newsdigest/internal/storage"
	"github.com/deusflow/newsdigest/internal/summarize"
	"github.com/deusflow/newsdigest/internal/textgen"
)

// DefaultQuery is searched when no query is given.
const DefaultQuery = "빈집"

type Options struct {
	Query   string
	Keyword string
	NoDedup bool
	// Now overrides the clock, for tests.
	Now func() time.Time
}

// Result describes what a run produced. File names are empty when the
// corresponding file was not written.
type Result struct {
	Query      string
	Window     news.Window
	Stats      news.Stats
	ReportFile string
	NoDupFile  string
}

// Run builds the digest for opts.Query and writes it to the configured
// files. It returns an error only when the pipeline cannot be set up or
// ctx is cancelled before the report is complete.
func Run(ctx context.Context, cfg *config.Config, opts Options, l *slog.Logger) (*Result, error) {
	if l == nil {
		l = slog.Default()
	}
	query := strings.TrimSpace(opts.Query)
	if query == "" {
		query = DefaultQuery
	}
	now := time.Now
	if opts.Now != nil {
		now = opts.Now
	}

	res := &Result{Query: query, Window: cfg.Window(now())}
	l.Info("starting news digest", "query", query, "range", res.Window.String(), "search", cfg.Search.Provider, "llm", cfg.LLM.Provider)

	gen, err := textgen.New(ctx, cfg.LLM)
	if err != nil {
		return nil, fmt.Errorf("text generation: %w", err)
	}
	if c, ok := gen.(io.Closer); ok {
		defer c.Close()
	}

	source, err := newSource(cfg, l)
	if err != nil {
		return nil, err
	}

	credErr := cfg.CheckSearchCredentials()
	if credErr != nil {
		l.Error("search source unusable", "provider", cfg.Search.Provider, "error", credErr)
	}

	m := metrics.New()
	defer func() {
		if err := m.WriteTextfile(cfg.Output.MetricsFile); err != nil {
			l.Warn("failed to write metrics", "error", err)
		}
	}()

	builder := report.NewBuilder(report.Deps{
		Fetcher:    search.NewFetcher(source, res.Window, cfg.Search.DisplayCount, l),
		Links:      linkpolicy.New(cfg.SkipDomains),
		Scorer:     relevance.NewScorer(gen, l),
		Extractor:  scraper.NewExtractor(cfg.RequestTimeout, l),
		Summarizer: summarize.New(cfg.Summary, cfg.RequestTimeout, l),
		Metrics:    m,
	}, report.Options{
		Threshold:     news.Score(cfg.RelevanceThreshold),
		DaysBack:      cfg.DaysBack,
		Window:        res.Window,
		CredentialsOK: credErr == nil,
		Now:           now,
	}, l)

	rep, err := builder.Build(ctx, query, opts.Keyword)
	if err != nil {
		m.SetLastRun(false)
		return nil, fmt.Errorf("build report: %w", err)
	}
	res.Stats = rep.Stats
	logSkips(l, rep.Stats)

	res.ReportFile = storage.SaveHTML(cfg.Output.File, rep.HTML, l)
	m.SetLastRun(res.ReportFile != "")

	if opts.NoDedup || rep.HTML == report.CredentialErrorHTML {
		return res, nil
	}

	start := time.Now()
	deduped := dedup.New(gen, l).Dedupe(ctx, rep.HTML)
	m.ObserveStage(metrics.StageDedup, start)
	if err := ctx.Err(); err != nil {
		return res, err
	}
	if strings.TrimSpace(deduped) != strings.TrimSpace(rep.HTML) {
		res.NoDupFile = storage.SaveHTML(cfg.Output.NoDupFile, deduped, l)
	} else {
		l.Info("deduplication changed nothing, skipping second file")
	}
	return res, nil
}

func newSource(cfg *config.Config, l *slog.Logger) (search.Source, error) {
	switch cfg.Search.Provider {
	case config.ProviderRSS:
		var feeds []string
		if cfg.Search.FeedsFile != "" {
			var err error
			feeds, err = rss.LoadFeeds(cfg.Search.FeedsFile)
			if err != nil {
				return nil, fmt.Errorf("load RSS feeds: %w", err)
			}
		}
		return rss.NewSource(feeds, cfg.RequestTimeout, l), nil
	default:
		return search.NewNaverSource(cfg.Search.Endpoint, cfg.Search.ClientID, cfg.Search.ClientSecret, cfg.RequestTimeout, l), nil
	}
}

func logSkips(l *slog.Logger, stats news.Stats) {
	reasons := make([]string, 0, len(stats.Reasons))
	for r := range stats.Reasons {
		reasons = append(reasons, string(r))
	}
	sort.Strings(reasons)

	attrs := []any{"total", stats.Total, "processed", stats.Processed, "skipped", stats.Skipped}
	for _, r := range reasons {
		attrs = append(attrs, r, stats.Reasons[news.SkipReason(r)])
	}
	l.Info("processing finished", attrs...)
}
