package relevance

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deusflow/newsdigest/internal/news"
)

type fakeGenerator struct {
	reply  string
	err    error
	prompt string
}

func (f *fakeGenerator) Generate(_ context.Context, prompt string) (string, error) {
	f.prompt = prompt
	return f.reply, f.err
}

func TestScore(t *testing.T) {
	tests := []struct {
		name  string
		reply string
		err   error
		want  news.Score
	}{
		{"plain", "75", nil, 75},
		{"surrounding whitespace", "  80\n", nil, 80},
		{"zero", "0", nil, 0},
		{"upper bound", "100", nil, 100},
		{"prose", "연관성은 75입니다", nil, 0},
		{"number with unit", "75점", nil, 0},
		{"decimal", "75.5", nil, 0},
		{"above range", "150", nil, 0},
		{"below range", "-5", nil, 0},
		{"empty", "", nil, 0},
		{"transport error", "", errors.New("connection refused"), 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gen := &fakeGenerator{reply: tt.reply, err: tt.err}
			s := NewScorer(gen, nil)

			got := s.Score(context.Background(), "빈집", "농촌 지역의 빈집 문제가 심각하다")
			assert.Equal(t, tt.want, got)
			assert.True(t, got.Valid())
		})
	}
}

func TestScore_PromptCarriesKeywordAndSentence(t *testing.T) {
	gen := &fakeGenerator{reply: "50"}
	s := NewScorer(gen, nil)

	s.Score(context.Background(), "빈집(slum, ghetto)", "빈집 증가")

	assert.Contains(t, gen.prompt, "'빈집(slum, ghetto)'")
	assert.Contains(t, gen.prompt, "'빈집 증가'")
	assert.Contains(t, gen.prompt, "0에서 100")
}

func TestParse(t *testing.T) {
	s, err := Parse("42")
	require.NoError(t, err)
	assert.Equal(t, news.Score(42), s)

	_, err = Parse("101")
	assert.Error(t, err)

	_, err = Parse("forty")
	assert.Error(t, err)
}
