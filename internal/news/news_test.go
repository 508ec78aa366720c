package news

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestWindow_Contains(t *testing.T) {
	now := time.Date(2024, 11, 8, 9, 0, 0, 0, time.FixedZone("KST", 9*3600))
	w := NewWindow(now, 7)

	assert.True(t, w.Contains(w.From), "boundary is inclusive")
	assert.True(t, w.Contains(now))
	assert.False(t, w.Contains(w.From.Add(-time.Nanosecond)))
	// Same instant in another zone.
	assert.True(t, w.Contains(w.From.UTC()))
	assert.Equal(t, "2024.11.01~2024.11.08", w.String())
}

func TestScore_Valid(t *testing.T) {
	assert.True(t, Score(0).Valid())
	assert.True(t, Score(100).Valid())
	assert.False(t, Score(-1).Valid())
	assert.False(t, Score(101).Valid())
}

func TestSentinelSummary(t *testing.T) {
	assert.Equal(t, Summary{Text: SentinelTooShort, Status: SummaryTooShort}, SentinelSummary(SummaryTooShort))
	assert.Equal(t, Summary{Text: SentinelUnavailable, Status: SummaryUnavailable}, SentinelSummary(SummaryUnavailable))
	assert.Equal(t, Summary{Text: SentinelFailed, Status: SummaryFailed}, SentinelSummary(SummaryFailed))
	assert.Equal(t, SummaryFailed, SentinelSummary(SummaryOK).Status)
}

func TestStats_Skip(t *testing.T) {
	var s Stats
	s.Skip(SkipBlocked)
	s.Skip(SkipBlocked)
	s.Skip(SkipEmptyBody)

	assert.Equal(t, 3, s.Skipped)
	assert.Equal(t, map[SkipReason]int{SkipBlocked: 2, SkipEmptyBody: 1}, s.Reasons)
}
