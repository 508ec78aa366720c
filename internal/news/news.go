// Package news holds the data passed between pipeline stages.
package news

import (
	"fmt"
	"time"
)

// Item is a single search result as returned by a search source.
// Title may still contain highlight markup such as <b>.
type Item struct {
	Title       string
	Link        string
	PublishedAt time.Time
}

// Window is the range of acceptable publish dates for a run.
type Window struct {
	From time.Time
	To   time.Time
}

// NewWindow returns the window of daysBack days ending at now.
func NewWindow(now time.Time, daysBack int) Window {
	return Window{From: now.AddDate(0, 0, -daysBack), To: now}
}

// Contains reports whether t is at or after the window start.
func (w Window) Contains(t time.Time) bool {
	return !t.Before(w.From)
}

// String formats the window as 2006.01.02~2006.01.02.
func (w Window) String() string {
	return fmt.Sprintf("%s~%s", w.From.Format("2006.01.02"), w.To.Format("2006.01.02"))
}

// Score is a relevance score in [0,100].
type Score int

const (
	MinScore Score = 0
	MaxScore Score = 100
)

// Valid reports whether s lies within [0,100].
func (s Score) Valid() bool {
	return s >= MinScore && s <= MaxScore
}

// SummaryStatus tells whether a summary came from the model or is a sentinel.
type SummaryStatus string

const (
	SummaryOK          SummaryStatus = "ok"
	SummaryTooShort    SummaryStatus = "too_short"
	SummaryFailed      SummaryStatus = "failed"
	SummaryUnavailable SummaryStatus = "unavailable"
)

// Sentinel texts rendered in place of a model summary.
const (
	SentinelTooShort    = "요약할 수 있는 내용이 부족합니다."
	SentinelFailed      = "요약 실패"
	SentinelUnavailable = "요약 모델이 로드되지 않았습니다."
)

type Summary struct {
	Text   string
	Status SummaryStatus
}

// SentinelSummary builds the placeholder summary for a non-ok status.
func SentinelSummary(status SummaryStatus) Summary {
	switch status {
	case SummaryTooShort:
		return Summary{Text: SentinelTooShort, Status: status}
	case SummaryUnavailable:
		return Summary{Text: SentinelUnavailable, Status: status}
	default:
		return Summary{Text: SentinelFailed, Status: SummaryFailed}
	}
}

// SkipReason explains why an item produced no article fragment.
// The zero value means the item was kept.
type SkipReason string

const (
	Kept           SkipReason = ""
	SkipBlocked    SkipReason = "blocked_link"
	SkipIrrelevant SkipReason = "low_relevance"
	SkipEmptyBody  SkipReason = "empty_body"
)

// Article is the rendered form of a retained item.
type Article struct {
	Title     string
	Link      string
	Relevance Score
	Summary   Summary
}

// Stats aggregates the outcome of one report build.
type Stats struct {
	Total     int
	Processed int
	Skipped   int
	Reasons   map[SkipReason]int
}

// Skip records one skipped item.
func (s *Stats) Skip(reason SkipReason) {
	if s.Reasons == nil {
		s.Reasons = make(map[SkipReason]int)
	}
	s.Skipped++
	s.Reasons[reason]++
}

// Report is a finished HTML document.
type Report struct {
	HTML  string
	Stats Stats
}
