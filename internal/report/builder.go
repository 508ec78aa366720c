// Package report turns search results into the HTML news digest.
package report

import (
	"context"
	"fmt"
	"html"
	"log/slog"
	"strings"
	"time"

	"github.com/microcosm-cc/bluemonday"

	"github.com/deusflow/newsdigest/internal/logger"
	"github.com/deusflow/newsdigest/internal/metrics"
	"github.com/deusflow/newsdigest/internal/news"
)

// CredentialErrorHTML is returned instead of a digest when the search
// source cannot be called.
const CredentialErrorHTML = "<html><body><h1>API 자격 증명 오류</h1></body></html>"

// DefaultThreshold is the minimum relevance for an article to be kept.
const DefaultThreshold news.Score = 50

type Fetcher interface {
	Fetch(ctx context.Context, query string) []news.Item
}

type LinkPolicy interface {
	Allowed(link string) bool
}

type Scorer interface {
	Score(ctx context.Context, keyword, sentence string) news.Score
}

type Extractor interface {
	Extract(ctx context.Context, link string) string
}

type Summarizer interface {
	Summarize(ctx context.Context, text string) news.Summary
}

// Deps are the pipeline stages. Metrics may be nil.
type Deps struct {
	Fetcher    Fetcher
	Links      LinkPolicy
	Scorer     Scorer
	Extractor  Extractor
	Summarizer Summarizer
	Metrics    *metrics.Metrics
}

type Options struct {
	Threshold     news.Score
	DaysBack      int
	Window        news.Window
	CredentialsOK bool
	// Now stamps the page title; defaults to time.Now.
	Now func() time.Time
}

type Builder struct {
	deps   Deps
	opts   Options
	strict *bluemonday.Policy
	log    *slog.Logger
}

func NewBuilder(deps Deps, opts Options, l *slog.Logger) *Builder {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Builder{
		deps:   deps,
		opts:   opts,
		strict: bluemonday.StrictPolicy(),
		log:    logger.Component(l, "report"),
	}
}

// DefaultKeyword is the relevance keyword used when none is given: the
// query framed as a neglected, socially problematic property.
func DefaultKeyword(query string) string {
	return fmt.Sprintf("%s(시골이나 도시에 방치되어 사회적으로 문제가 될 수 있는 %s, slum, ghetto, vacant house)", query, query)
}

// Build runs the pipeline for query and renders the digest. Per-article
// failures become skips or sentinel summaries; the only error is a
// cancelled context, in which case no report is returned.
func (b *Builder) Build(ctx context.Context, query, keyword string) (news.Report, error) {
	if !b.opts.CredentialsOK {
		b.log.Error("search API credentials are missing")
		return news.Report{HTML: CredentialErrorHTML}, nil
	}
	if strings.TrimSpace(keyword) == "" {
		keyword = DefaultKeyword(query)
	}

	start := time.Now()
	items := b.deps.Fetcher.Fetch(ctx, query)
	b.deps.Metrics.ObserveStage(metrics.StageSearch, start)
	b.deps.Metrics.AddFetched(len(items))
	b.log.Info("search finished", "query", query, "items", len(items))

	stats := news.Stats{Total: len(items)}
	articles := make([]news.Article, 0, len(items))

	for i, item := range items {
		if err := ctx.Err(); err != nil {
			return news.Report{}, err
		}

		article, reason := b.evaluate(ctx, keyword, item)
		if reason != news.Kept {
			stats.Skip(reason)
			b.deps.Metrics.IncrementSkipped(reason)
			b.log.Debug("article skipped", "index", i, "link", item.Link, "reason", reason)
			continue
		}

		articles = append(articles, article)
		stats.Processed++
		b.deps.Metrics.IncrementProcessed()
	}
	if err := ctx.Err(); err != nil {
		return news.Report{}, err
	}

	doc, err := render(page{
		Query:    query,
		Today:    b.opts.Now().Format("2006-01-02"),
		Range:    b.opts.Window.String(),
		DaysBack: b.opts.DaysBack,
		Stats:    stats,
		Articles: articles,
	})
	if err != nil {
		return news.Report{}, fmt.Errorf("render report: %w", err)
	}

	b.log.Info("report built", "total", stats.Total, "processed", stats.Processed, "skipped", stats.Skipped)
	return news.Report{HTML: doc, Stats: stats}, nil
}

// evaluate runs one item through the per-article stages. A non-empty
// reason means the item is left out of the report.
func (b *Builder) evaluate(ctx context.Context, keyword string, item news.Item) (news.Article, news.SkipReason) {
	if !b.deps.Links.Allowed(item.Link) {
		b.log.Info("blocked link", "link", item.Link)
		return news.Article{}, news.SkipBlocked
	}

	title := b.cleanTitle(item.Title)

	start := time.Now()
	score := b.deps.Scorer.Score(ctx, keyword, title)
	b.deps.Metrics.ObserveStage(metrics.StageRelevance, start)
	if score < b.opts.Threshold {
		b.log.Info("low relevance", "title", title, "score", int(score), "threshold", int(b.opts.Threshold))
		return news.Article{}, news.SkipIrrelevant
	}

	start = time.Now()
	text := b.deps.Extractor.Extract(ctx, item.Link)
	b.deps.Metrics.ObserveStage(metrics.StageExtract, start)
	if strings.TrimSpace(text) == "" {
		b.log.Info("empty article body", "link", item.Link)
		return news.Article{}, news.SkipEmptyBody
	}

	start = time.Now()
	summary := b.deps.Summarizer.Summarize(ctx, text)
	b.deps.Metrics.ObserveStage(metrics.StageSummarize, start)
	b.deps.Metrics.RecordSummary(summary.Status)

	return news.Article{
		Title:     title,
		Link:      item.Link,
		Relevance: score,
		Summary:   summary,
	}, news.Kept
}

// cleanTitle drops search highlight markup and decodes entities, leaving
// plain text for the template to escape.
func (b *Builder) cleanTitle(title string) string {
	return strings.TrimSpace(html.UnescapeString(b.strict.Sanitize(title)))
}
