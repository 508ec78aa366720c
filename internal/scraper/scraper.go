// Package scraper downloads news pages and extracts the article body as plain text.
package scraper

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"

	"codeberg.org/readeck/go-readability/v2"
	"github.com/PuerkitoBio/goquery"
	"github.com/microcosm-cc/bluemonday"
	"golang.org/x/net/html/charset"
	"golang.org/x/text/unicode/norm"

	"github.com/deusflow/newsdigest/internal/logger"
)

const (
	userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0 Safari/537.36"

	// Language is sent as Accept-Language; pages are assumed to be Korean.
	Language = "ko-KR,ko;q=0.9"

	// readability output shorter than this is treated as a miss.
	minReadableRunes = 200
	maxPageBytes     = 5 << 20
)

// ArticleContent is the extracted article.
type ArticleContent struct {
	Title   string
	Content string
	URL     string
}

type Extractor struct {
	client *http.Client
	strict *bluemonday.Policy
	log    *slog.Logger
}

func NewExtractor(timeout time.Duration, l *slog.Logger) *Extractor {
	return &Extractor{
		client: &http.Client{Timeout: timeout},
		strict: bluemonday.StrictPolicy(),
		log:    logger.Component(l, "scraper"),
	}
}

// Extract returns the normalized article text of link, or "" when the page
// cannot be downloaded or parsed.
func (e *Extractor) Extract(ctx context.Context, link string) string {
	article, err := e.ExtractFullArticle(ctx, link)
	if err != nil {
		e.log.Warn("article extraction failed", "url", link, "error", err)
		return ""
	}
	e.log.Debug("article extracted", "url", link, "chars", utf8.RuneCountInString(article.Content))
	return article.Content
}

// ExtractFullArticle downloads link and extracts its title and body.
func (e *Extractor) ExtractFullArticle(ctx context.Context, link string) (*ArticleContent, error) {
	pageURL, err := url.Parse(link)
	if err != nil {
		return nil, fmt.Errorf("invalid url: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, link, nil)
	if err != nil {
		return nil, fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept-Language", Language)

	resp, err := e.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("error loading page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP error: %d", resp.StatusCode)
	}

	// Korean outlets still serve EUC-KR pages.
	body, err := charset.NewReader(io.LimitReader(resp.Body, maxPageBytes), resp.Header.Get("Content-Type"))
	if err != nil {
		return nil, fmt.Errorf("decode charset: %w", err)
	}
	page, err := io.ReadAll(body)
	if err != nil {
		return nil, fmt.Errorf("read page: %w", err)
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(page))
	if err != nil {
		return nil, fmt.Errorf("error parsing HTML: %w", err)
	}

	content := e.extractContent(page, doc, pageURL)
	content = Normalize(content)
	if content == "" {
		return nil, fmt.Errorf("can't get content")
	}

	return &ArticleContent{
		Title:   Normalize(extractTitle(doc)),
		Content: content,
		URL:     link,
	}, nil
}

// extractContent tries readability first, then site selectors, then a
// generic paragraph sweep.
func (e *Extractor) extractContent(page []byte, doc *goquery.Document, pageURL *url.URL) string {
	readable := extractReadable(page, pageURL)
	if utf8.RuneCountInString(readable) >= minReadableRunes {
		return readable
	}

	if text := extractBySelectors(doc, siteSelectors(pageURL.Host)); text != "" {
		return text
	}
	if text := extractGenericContent(doc); text != "" {
		return text
	}
	if readable != "" {
		return readable
	}

	html, err := doc.Find("body").Html()
	if err != nil {
		return ""
	}
	return collapseBlankLines(e.strict.Sanitize(html))
}

func extractReadable(page []byte, pageURL *url.URL) string {
	article, err := readability.FromReader(bytes.NewReader(page), pageURL)
	if err != nil {
		return ""
	}

	var buf strings.Builder
	if err := article.RenderText(&buf); err != nil {
		return ""
	}
	return strings.TrimSpace(buf.String())
}

// siteSelectors returns body selectors for the Korean outlets that show up
// most in search results.
func siteSelectors(host string) []string {
	switch {
	case strings.Contains(host, "naver.com"):
		return []string{"#dic_area", "#newsct_article", "#articleBodyContents", "#articeBody"}
	case strings.Contains(host, "daum.net"):
		return []string{".article_view section p", ".article_view p"}
	case strings.Contains(host, "yna.co.kr"):
		return []string{".story-news.article p", "article.story-news p"}
	case strings.Contains(host, "chosun.com"):
		return []string{".article-body p", "section.article-body p"}
	case strings.Contains(host, "joongang.co.kr"):
		return []string{"#article_body p", "#article_body"}
	case strings.Contains(host, "donga.com"):
		return []string{".news_view", "#article_txt"}
	case strings.Contains(host, "hani.co.kr"):
		return []string{".article-text p", ".text"}
	default:
		// Common CMS layouts used by regional papers.
		return []string{"#article-view-content-div", "#articletxt", ".article_body", ".article_txt", "#news_body_area"}
	}
}

func extractBySelectors(doc *goquery.Document, selectors []string) string {
	for _, selector := range selectors {
		var paragraphs []string
		doc.Find(selector).Each(func(i int, s *goquery.Selection) {
			text := strings.TrimSpace(s.Text())
			if text != "" {
				paragraphs = append(paragraphs, text)
			}
		})
		if len(paragraphs) > 0 {
			return strings.Join(paragraphs, "\n\n")
		}
	}
	return ""
}

// extractGenericContent is universal parser for any site
func extractGenericContent(doc *goquery.Document) string {
	var paragraphs []string

	selectors := []string{
		"article p",
		".article p",
		".content p",
		"main p",
		"#content p",
		"p",
	}

	for _, selector := range selectors {
		doc.Find(selector).Each(func(i int, s *goquery.Selection) {
			text := strings.TrimSpace(s.Text())
			if utf8.RuneCountInString(text) > 20 {
				paragraphs = append(paragraphs, text)
			}
		})
		if len(paragraphs) >= 3 {
			break
		}
	}

	return strings.Join(paragraphs, "\n\n")
}

func extractTitle(doc *goquery.Document) string {
	if og, ok := doc.Find(`meta[property="og:title"]`).Attr("content"); ok && strings.TrimSpace(og) != "" {
		return og
	}
	for _, selector := range []string{"h1", "title"} {
		if title := strings.TrimSpace(doc.Find(selector).First().Text()); title != "" {
			return title
		}
	}
	return ""
}

// Normalize applies NFKC, drops NUL characters and trims the text.
func Normalize(text string) string {
	text = norm.NFKC.String(text)
	text = strings.ReplaceAll(text, "\x00", "")
	return strings.TrimSpace(text)
}

func collapseBlankLines(text string) string {
	lines := strings.Split(text, "\n")
	out := lines[:0]
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line != "" {
			out = append(out, line)
		}
	}
	return strings.Join(out, "\n")
}
