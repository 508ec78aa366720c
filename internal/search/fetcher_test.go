package search

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deusflow/newsdigest/internal/news"
)

type stubSource struct {
	items []news.Item
	err   error
	limit int
}

func (s *stubSource) Search(_ context.Context, _ string, limit int) ([]news.Item, error) {
	s.limit = limit
	return s.items, s.err
}

func TestFetch_WindowBoundary(t *testing.T) {
	now := time.Date(2025, 10, 13, 12, 0, 0, 0, time.UTC)
	window := news.NewWindow(now, 7)

	src := &stubSource{items: []news.Item{
		{Title: "fresh", PublishedAt: now.Add(-time.Hour)},
		{Title: "boundary", PublishedAt: window.From},
		{Title: "just before", PublishedAt: window.From.Add(-time.Nanosecond)},
		{Title: "old", PublishedAt: now.AddDate(0, 0, -30)},
		{Title: "other offset", PublishedAt: window.From.In(time.FixedZone("KST", 9*3600))},
	}}

	f := NewFetcher(src, window, 0, nil)
	got := f.Fetch(context.Background(), "빈집")

	require.Len(t, got, 3)
	assert.Equal(t, "fresh", got[0].Title)
	assert.Equal(t, "boundary", got[1].Title)
	assert.Equal(t, "other offset", got[2].Title)
	assert.Equal(t, DefaultDisplayCount, src.limit)
}

func TestFetch_SourceErrorYieldsEmpty(t *testing.T) {
	src := &stubSource{err: errors.New("network down")}
	f := NewFetcher(src, news.NewWindow(time.Now(), 7), 30, nil)

	assert.Empty(t, f.Fetch(context.Background(), "빈집"))
}

func TestFetch_NaverTimeoutYieldsEmpty(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		_, _ = w.Write([]byte(`{"items":[]}`))
	}))
	defer srv.Close()

	src := NewNaverSource(srv.URL, "id", "secret", 20*time.Millisecond, nil)
	f := NewFetcher(src, news.NewWindow(time.Now(), 7), 30, nil)

	assert.Empty(t, f.Fetch(context.Background(), "빈집"))
}
