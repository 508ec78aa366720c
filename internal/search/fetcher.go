// Package search queries a news source and keeps results inside the lookback window.
package search

import (
	"context"
	"log/slog"

	"github.com/deusflow/newsdigest/internal/logger"
	"github.com/deusflow/newsdigest/internal/news"
)

// Source returns at most limit items for query, newest first.
// Items whose publish date could not be read are dropped by the source.
type Source interface {
	Search(ctx context.Context, query string, limit int) ([]news.Item, error)
}

// DefaultDisplayCount is the result cap used when none is configured.
const DefaultDisplayCount = 30

type Fetcher struct {
	source Source
	window news.Window
	limit  int
	log    *slog.Logger
}

func NewFetcher(source Source, window news.Window, limit int, l *slog.Logger) *Fetcher {
	if limit <= 0 {
		limit = DefaultDisplayCount
	}
	return &Fetcher{source: source, window: window, limit: limit, log: logger.Component(l, "fetcher")}
}

// Fetch returns the items published within the window, in source order.
// A failing source yields an empty result.
func (f *Fetcher) Fetch(ctx context.Context, query string) []news.Item {
	items, err := f.source.Search(ctx, query, f.limit)
	if err != nil {
		f.log.Error("news search failed", "query", query, "error", err)
		return nil
	}

	kept := make([]news.Item, 0, len(items))
	for _, item := range items {
		if !f.window.Contains(item.PublishedAt) {
			continue
		}
		kept = append(kept, item)
	}

	f.log.Info("news fetched", "query", query, "received", len(items), "in_window", len(kept))
	return kept
}
