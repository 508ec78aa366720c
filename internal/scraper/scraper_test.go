package scraper

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/korean"
	"golang.org/x/text/unicode/norm"
)

const sentence = "전국의 빈집이 해마다 늘어나면서 지방자치단체들이 정비 사업에 나서고 있다."

func articlePage() string {
	var body strings.Builder
	for i := 0; i < 6; i++ {
		fmt.Fprintf(&body, "<p>%s 관계자는 %d번째 대책을 설명했다.</p>\n", sentence, i+1)
	}
	return `<html><head><title>빈집 증가</title>
<meta property="og:title" content="빈집 증가 대책">
</head><body>
<nav><a href="/">홈</a></nav>
<article><h1>빈집 증가 대책</h1>` + body.String() + `</article>
<footer>Copyright</footer>
</body></html>`
}

func TestExtract_ArticleBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Contains(t, r.Header.Get("Accept-Language"), "ko")
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(articlePage()))
	}))
	defer srv.Close()

	e := NewExtractor(5*time.Second, nil)
	text := e.Extract(context.Background(), srv.URL+"/news/1")

	assert.Contains(t, text, sentence)
	assert.NotContains(t, text, "\x00")
	assert.Equal(t, strings.TrimSpace(text), text)
}

func TestExtract_EUCKRPage(t *testing.T) {
	encoded, err := korean.EUCKR.NewEncoder().String(articlePage())
	require.NoError(t, err)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=euc-kr")
		_, _ = w.Write([]byte(encoded))
	}))
	defer srv.Close()

	e := NewExtractor(5*time.Second, nil)
	assert.Contains(t, e.Extract(context.Background(), srv.URL), sentence)
}

func TestExtractFullArticle_Title(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(articlePage()))
	}))
	defer srv.Close()

	e := NewExtractor(5*time.Second, nil)
	article, err := e.ExtractFullArticle(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Equal(t, "빈집 증가 대책", article.Title)
	assert.Equal(t, srv.URL, article.URL)
}

func TestExtract_FailuresYieldEmpty(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/missing":
			http.NotFound(w, r)
		case "/empty":
			_, _ = w.Write([]byte("<html><body></body></html>"))
		case "/slow":
			time.Sleep(200 * time.Millisecond)
			_, _ = w.Write([]byte(articlePage()))
		}
	}))
	defer srv.Close()

	e := NewExtractor(50*time.Millisecond, nil)
	ctx := context.Background()

	assert.Empty(t, e.Extract(ctx, srv.URL+"/missing"))
	assert.Empty(t, e.Extract(ctx, srv.URL+"/empty"))
	assert.Empty(t, e.Extract(ctx, srv.URL+"/slow"))
	assert.Empty(t, e.Extract(ctx, "://not a url"))
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, "ABC 123", Normalize("  ＡＢＣ　１２３ "))
	assert.Equal(t, "빈집증가", Normalize("빈집\x00증가"))
	// Decomposed jamo compose back into syllables.
	decomposed := norm.NFD.String("빈집 증가")
	require.NotEqual(t, "빈집 증가", decomposed)
	out := Normalize(decomposed)
	assert.Equal(t, "빈집 증가", out)
	assert.True(t, norm.NFKC.IsNormalString(out))
	assert.Equal(t, "", Normalize("\x00 \n"))
}
