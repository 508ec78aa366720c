// Package relevance rates how closely a headline matches a keyword using a language model.
package relevance

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/deusflow/newsdigest/internal/logger"
	"github.com/deusflow/newsdigest/internal/news"
	"github.com/deusflow/newsdigest/internal/textgen"
)

const promptTemplate = `'%s'와 다음 문장 '%s' 간의 연관성을 숫자로 표현하세요.
설명과정은 생략하고 결과만 0에서 100 사이의 **숫자 하나**만 출력하세요.
만약 연관성이 없다면 0을 출력하고 연관성이 많다면 100을 출력해
출력 예시: 75
예시로 보여준 **숫자 하나** 이외 추론과정이나 설명을 보이면 안돼`

type Scorer struct {
	gen textgen.Generator
	log *slog.Logger
}

func NewScorer(gen textgen.Generator, l *slog.Logger) *Scorer {
	return &Scorer{gen: gen, log: logger.Component(l, "relevance")}
}

// Score asks the model for a 0..100 rating. It never fails: any transport
// error or unusable reply is logged and scored as 0.
func (s *Scorer) Score(ctx context.Context, keyword, sentence string) news.Score {
	raw, err := s.gen.Generate(ctx, Prompt(keyword, sentence))
	if err != nil {
		s.log.Warn("relevance request failed", "sentence", sentence, "error", err)
		return news.MinScore
	}

	score, err := Parse(raw)
	if err != nil {
		s.log.Warn("relevance response rejected", "response", raw, "error", err)
		return news.MinScore
	}

	s.log.Debug("relevance scored", "sentence", sentence, "score", int(score))
	return score
}

// Prompt builds the single-turn rating instruction.
func Prompt(keyword, sentence string) string {
	return fmt.Sprintf(promptTemplate, keyword, sentence)
}

// Parse reads a model reply that should be exactly one integer in [0,100].
func Parse(raw string) (news.Score, error) {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return news.MinScore, fmt.Errorf("not an integer: %w", err)
	}

	score := news.Score(n)
	if !score.Valid() {
		return news.MinScore, fmt.Errorf("score %d out of range [%d,%d]", n, news.MinScore, news.MaxScore)
	}
	return score, nil
}
