// Package summarize shortens article text with a hosted sequence-to-sequence model.
package summarize

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/deusflow/newsdigest/internal/config"
	"github.com/deusflow/newsdigest/internal/logger"
	"github.com/deusflow/newsdigest/internal/news"
)

// Options bounds the input and the generated summary, in characters.
type Options struct {
	MinContentLength int
	MaxTextLength    int
	MinLength        int
	MaxLength        int
}

type request struct {
	Inputs     string     `json:"inputs"`
	Parameters parameters `json:"parameters"`
	Options    struct {
		WaitForModel bool `json:"wait_for_model"`
	} `json:"options"`
}

type parameters struct {
	MinLength int  `json:"min_length"`
	MaxLength int  `json:"max_length"`
	DoSample  bool `json:"do_sample"`
}

type result struct {
	SummaryText string `json:"summary_text"`
}

// Summarizer calls a Hugging Face Inference style summarization endpoint.
// When it could not be set up every call returns the unavailable sentinel.
type Summarizer struct {
	modelURL string
	apiKey   string
	opts     Options
	http     *http.Client
	log      *slog.Logger
}

// New prepares the summarizer. A missing model or malformed endpoint is
// logged and leaves the summarizer unavailable rather than failing.
func New(cfg config.SummaryConfig, timeout time.Duration, l *slog.Logger) *Summarizer {
	s := &Summarizer{
		apiKey: cfg.APIKey,
		opts: Options{
			MinContentLength: cfg.MinContentLength,
			MaxTextLength:    cfg.MaxTextLength,
			MinLength:        cfg.MinLength,
			MaxLength:        cfg.MaxLength,
		},
		http: &http.Client{Timeout: timeout},
		log:  logger.Component(l, "summarizer"),
	}

	modelURL, err := modelEndpoint(cfg.Endpoint, cfg.Model)
	if err != nil {
		s.log.Error("summarization model unavailable", "model", cfg.Model, "error", err)
		return s
	}
	s.modelURL = modelURL
	s.log.Info("summarization model ready", "model", cfg.Model)
	return s
}

func modelEndpoint(endpoint, model string) (string, error) {
	model = strings.Trim(strings.TrimSpace(model), "/")
	if model == "" {
		return "", errors.New("no summarization model configured")
	}
	base, err := url.ParseRequestURI(strings.TrimSpace(endpoint))
	if err != nil {
		return "", fmt.Errorf("invalid summarization endpoint: %w", err)
	}
	if base.Scheme != "http" && base.Scheme != "https" {
		return "", fmt.Errorf("unsupported endpoint scheme %q", base.Scheme)
	}
	return strings.TrimRight(base.String(), "/") + "/" + model, nil
}

// Available reports whether a model endpoint was configured.
func (s *Summarizer) Available() bool {
	return s.modelURL != ""
}

// Summarize returns the model summary of text or a sentinel summary.
func (s *Summarizer) Summarize(ctx context.Context, text string) news.Summary {
	text = strings.TrimSpace(text)
	if utf8.RuneCountInString(text) < s.opts.MinContentLength {
		return news.SentinelSummary(news.SummaryTooShort)
	}
	if !s.Available() {
		return news.SentinelSummary(news.SummaryUnavailable)
	}

	summary, err := s.call(ctx, truncate(text, s.opts.MaxTextLength))
	if err != nil {
		s.log.Warn("summarization failed", "error", err)
		return news.SentinelSummary(news.SummaryFailed)
	}
	return news.Summary{Text: summary, Status: news.SummaryOK}
}

func (s *Summarizer) call(ctx context.Context, text string) (string, error) {
	payload := request{
		Inputs: text,
		Parameters: parameters{
			MinLength: s.opts.MinLength,
			MaxLength: s.opts.MaxLength,
			DoSample:  false,
		},
	}
	payload.Options.WaitForModel = true

	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.modelURL, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if s.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+s.apiKey)
	}

	resp, err := s.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("unexpected status %s: %s", resp.Status, strings.TrimSpace(string(msg)))
	}

	var results []result
	if err := json.NewDecoder(resp.Body).Decode(&results); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	if len(results) == 0 || strings.TrimSpace(results[0].SummaryText) == "" {
		return "", errors.New("empty summary in response")
	}
	return strings.TrimSpace(results[0].SummaryText), nil
}

// truncate cuts s to at most max characters.
func truncate(s string, max int) string {
	if max <= 0 || utf8.RuneCountInString(s) <= max {
		return s
	}
	return string([]rune(s)[:max])
}
