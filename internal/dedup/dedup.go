// Package dedup asks the text-generation service to drop repeated stories
// from a rendered report.
package dedup

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/deusflow/newsdigest/internal/logger"
	"github.com/deusflow/newsdigest/internal/textgen"
)

const documentPlaceholder = "{document}"

const promptTemplate = `{document}

위 문서는 뉴스 제목과 요약문으로 구성된 뉴스요약 파일(html)입니다.
일부 뉴스는 중복으로 표현되고 있습니다.
현재의 html 파일 구조를 유지하고 중복된 뉴스들은 제목, 요약, 링크가 가장 잘 정리된 한개만 남기고 삭제해서 html 파일 생성해.
즉, html의 style은 변경하지 말고, 뉴스제목(클릭시 링크로 이동)과 요약으로 구성된 입력한 html과 동일한 구성이어야 해.
html을 바로 사용할 예정이므로 삭제한 중복 뉴스목록이나 자동으로 생성되었다는 등의 진행 과정설명 등은 표시하지마.`

type Deduplicator struct {
	gen textgen.Generator
	log *slog.Logger
}

func New(gen textgen.Generator, l *slog.Logger) *Deduplicator {
	return &Deduplicator{gen: gen, log: logger.Component(l, "dedup")}
}

// Dedupe returns the document with duplicate stories removed. Any failure
// returns html unchanged.
func (d *Deduplicator) Dedupe(ctx context.Context, html string) string {
	if strings.TrimSpace(html) == "" {
		return html
	}

	start := time.Now()
	out, err := d.gen.Generate(ctx, Prompt(html))
	if err != nil {
		d.log.Warn("duplicate removal failed", "error", err)
		return html
	}

	out = textgen.StripCodeFence(out)
	if out == "" {
		d.log.Warn("duplicate removal returned empty output")
		return html
	}

	d.log.Info("duplicate removal finished",
		"input_bytes", len(html),
		"output_bytes", len(out),
		"duration", time.Since(start).Round(time.Millisecond))
	return out
}

// Prompt embeds the document in the deduplication instruction.
func Prompt(html string) string {
	return strings.Replace(promptTemplate, documentPlaceholder, html, 1)
}
