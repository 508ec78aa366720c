package report

import (
	"html/template"
	"strings"

	"github.com/deusflow/newsdigest/internal/news"
)

type page struct {
	Query    string
	Today    string
	Range    string
	DaysBack int
	Stats    news.Stats
	Articles []news.Article
}

const pageTemplate = `<html>
<head>
    <meta charset='utf-8'>
    <title>{{.Query}} 뉴스 요약 – {{.Today}}</title>
    <style>
        body { font-family: sans-serif; line-height: 1.6; max-width: 700px; margin: auto; padding: 2em; }
        h1 { color: #333; }
        article { margin-bottom: 2em; }
        footer { color: #777; font-size: 0.9em; }
        .stats { background-color: #f5f5f5; padding: 1em; margin: 1em 0; border-radius: 5px; }
    </style>
</head>
<body>
<h1>📌 {{.Query}} 관련 뉴스 요약 ({{.Range}})</h1>
<div class='stats'>
<strong>처리 통계:</strong> 전체 {{.Stats.Total}}개 기사 중 {{.Stats.Processed}}개 처리, {{.Stats.Skipped}}개 스킵
</div>
{{if eq .Stats.Total 0}}<p>지난 {{.DaysBack}}일간 '{{.Query}}' 관련 주요 보도는 아직 없습니다.</p>
{{end}}{{range .Articles}}<article>
<h5><a href='{{.Link}}' target='_blank'>{{.Title}}</a></h5>
<p><strong>연관성:</strong> {{.Relevance}}%</p>
<p><strong>요약:</strong> {{.Summary.Text}}</p>
</article>
<hr>
{{end}}<footer>자동 생성된 뉴스 요약입니다.</footer>
</body>
</html>
`

var pageTmpl = template.Must(template.New("report").Parse(pageTemplate))

func render(p page) (string, error) {
	var b strings.Builder
	if err := pageTmpl.Execute(&b, p); err != nil {
		return "", err
	}
	return b.String(), nil
}
