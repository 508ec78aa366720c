package search

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/deusflow/newsdigest/internal/logger"
	"github.com/deusflow/newsdigest/internal/news"
)

const (
	// NaverNewsURL is the Naver Open API news search endpoint.
	NaverNewsURL = "https://openapi.naver.com/v1/search/news.json"
	// PubDateLayout is the pubDate format of Naver items.
	PubDateLayout = "Mon, 02 Jan 2006 15:04:05 -0700"

	naverMaxDisplay = 100
)

type naverResponse struct {
	Items []naverItem `json:"items"`
}

type naverItem struct {
	Title        string `json:"title"`
	Link         string `json:"link"`
	OriginalLink string `json:"originallink"`
	PubDate      string `json:"pubDate"`
}

// NaverSource calls the Naver news search API.
type NaverSource struct {
	endpoint     string
	clientID     string
	clientSecret string
	http         *http.Client
	log          *slog.Logger
}

var _ Source = (*NaverSource)(nil)

func NewNaverSource(endpoint, clientID, clientSecret string, timeout time.Duration, l *slog.Logger) *NaverSource {
	if endpoint == "" {
		endpoint = NaverNewsURL
	}
	return &NaverSource{
		endpoint:     endpoint,
		clientID:     clientID,
		clientSecret: clientSecret,
		http:         &http.Client{Timeout: timeout},
		log:          logger.Component(l, "search.naver"),
	}
}

// Search issues one date-sorted query. Items with an unreadable pubDate are
// logged and left out.
func (s *NaverSource) Search(ctx context.Context, query string, limit int) ([]news.Item, error) {
	if limit <= 0 || limit > naverMaxDisplay {
		limit = naverMaxDisplay
	}

	params := url.Values{}
	params.Set("query", query)
	params.Set("sort", "date")
	params.Set("display", strconv.Itoa(limit))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("X-Naver-Client-Id", s.clientID)
	req.Header.Set("X-Naver-Client-Secret", s.clientSecret)

	resp, err := s.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("naver search: %w", err)
	}
	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil {
			s.log.Warn("failed to close response body", "error", closeErr)
		}
	}()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("naver search returned %s: %s", resp.Status, strings.TrimSpace(string(body)))
	}

	var payload naverResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode naver response: %w", err)
	}

	items := make([]news.Item, 0, len(payload.Items))
	for _, raw := range payload.Items {
		published, err := time.Parse(PubDateLayout, strings.TrimSpace(raw.PubDate))
		if err != nil {
			s.log.Warn("skipping item with unreadable pubDate", "title", raw.Title, "pubDate", raw.PubDate, "error", err)
			continue
		}

		link := raw.Link
		if link == "" {
			link = raw.OriginalLink
		}

		items = append(items, news.Item{
			Title:       raw.Title,
			Link:        link,
			PublishedAt: published,
		})
	}

	return items, nil
}
