// Package rss searches news through RSS search feeds, as an alternative to the Naver API.
package rss

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"
	"gopkg.in/yaml.v3"

	"github.com/deusflow/newsdigest/internal/logger"
	"github.com/deusflow/newsdigest/internal/news"
)

// QueryPlaceholder is replaced with the escaped query in feed URLs.
const QueryPlaceholder = "{query}"

// DefaultFeeds is Google News search restricted to Korean results.
var DefaultFeeds = []string{
	"https://news.google.com/rss/search?q={query}&hl=ko&gl=KR&ceid=KR:ko",
}

// FeedsConfig is YAML config structure
// feeds:
//   - https://...?q={query}
type FeedsConfig struct {
	Feeds []string `yaml:"feeds"`
}

// LoadFeeds reads feed URL templates from a YAML file.
func LoadFeeds(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var cfg FeedsConfig
	dec := yaml.NewDecoder(f)
	if err := dec.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	if len(cfg.Feeds) == 0 {
		return nil, fmt.Errorf("%s lists no feeds", path)
	}
	return cfg.Feeds, nil
}

// Source fetches every configured feed for a query.
type Source struct {
	feeds  []string
	parser *gofeed.Parser
	log    *slog.Logger
}

func NewSource(feeds []string, timeout time.Duration, l *slog.Logger) *Source {
	if len(feeds) == 0 {
		feeds = DefaultFeeds
	}
	parser := gofeed.NewParser()
	parser.Client = &http.Client{Timeout: timeout}

	return &Source{feeds: feeds, parser: parser, log: logger.Component(l, "search.rss")}
}

// Search downloads the feeds in order and returns up to limit items. A feed
// that fails is logged and skipped; the call fails only when every feed does.
func (s *Source) Search(ctx context.Context, query string, limit int) ([]news.Item, error) {
	var items []news.Item
	var lastErr error
	successCount := 0

	for _, tmpl := range s.feeds {
		feedURL := strings.ReplaceAll(tmpl, QueryPlaceholder, url.QueryEscape(query))

		feed, err := s.parser.ParseURLWithContext(feedURL, ctx)
		if err != nil {
			s.log.Warn("error parsing RSS", "url", feedURL, "error", err)
			lastErr = err
			continue
		}
		successCount++

		for _, fi := range feed.Items {
			if fi.PublishedParsed == nil {
				s.log.Warn("skipping feed item without publish date", "title", fi.Title, "published", fi.Published)
				continue
			}
			items = append(items, news.Item{
				Title:       fi.Title,
				Link:        fi.Link,
				PublishedAt: *fi.PublishedParsed,
			})
		}
		s.log.Debug("feed loaded", "url", feedURL, "items", len(feed.Items))
	}

	if successCount == 0 {
		if lastErr == nil {
			lastErr = errors.New("no feeds configured")
		}
		return nil, fmt.Errorf("all %d feeds failed: %w", len(s.feeds), lastErr)
	}

	if limit > 0 && len(items) > limit {
		items = items[:limit]
	}
	return items, nil
}
