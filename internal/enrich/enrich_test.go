package enrich

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-naver-importer/internal/fetch"
	"go-naver-importer/internal/model"
	"go-naver-importer/internal/naver"
)

func TestPlatformEnrichFetchesTags(t *testing.T) {
	var gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/BlogTagListInfo.naver", r.URL.Path)
		gotQuery = r.URL.RawQuery
		_, _ = w.Write([]byte(`{"taglist":[{"logNo":"223000000001","tagName":"%EC%A0%9C%EC%A3%BC%2C%EC%97%AC%ED%96%89%2C%EC%A0%9C%EC%A3%BC"}]}`))
	}))
	defer srv.Close()
	cl, err := fetch.New(fetch.Options{Timeout: 5 * time.Second})
	require.NoError(t, err)
	p := NewPlatform(cl, naver.Endpoints{Blog: srv.URL}, true)

	post := model.Post{PostStub: model.PostStub{LogNo: "223000000001"}, Content: "## 첫째 날\n\n바다를 보러 갔습니다."}
	e, err := p.Enrich(context.Background(), "myblog", post)
	require.NoError(t, err)
	assert.Equal(t, []string{"제주", "여행"}, e.Tags)
	assert.Equal(t, "바다를 보러 갔습니다.", e.Excerpt)
	assert.Contains(t, gotQuery, "blogId=myblog")
	assert.Contains(t, gotQuery, "logNoList=223000000001")

	post.Merge(e)
	assert.Equal(t, []string{"제주", "여행"}, post.Tags)
}

func TestPlatformEnrichTagFailureKeepsExcerpt(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html>not json</html>`))
	}))
	defer srv.Close()
	cl, err := fetch.New(fetch.Options{Timeout: 5 * time.Second})
	require.NoError(t, err)
	p := NewPlatform(cl, naver.Endpoints{Blog: srv.URL}, true)

	e, err := p.Enrich(context.Background(), "myblog", model.Post{Content: "본문"})
	assert.Error(t, err)
	assert.Equal(t, "본문", e.Excerpt)
	assert.Empty(t, e.Tags)
}

func TestPlatformSkipsErrorPosts(t *testing.T) {
	p := NewPlatform(nil, naver.DefaultEndpoints(), true)
	e, err := p.Enrich(context.Background(), "myblog", model.Post{
		PostStub: model.PostStub{Title: model.ErrorTitlePrefix + "x"},
		Content:  "오류",
	})
	require.NoError(t, err)
	assert.Equal(t, model.Enrichment{}, e)
}

func TestExcerpt(t *testing.T) {
	tests := []struct {
		name string
		in   string
		max  int
		want string
	}{
		{"plain", "안녕하세요.\n\n두 번째 문단", 50, "안녕하세요. 두 번째 문단"},
		{"skips headings and images", "## 제목\n\n![사진](https://x/a.jpg)\n\n[이미지]\n\n본문", 50, "본문"},
		{"unwraps links and markers", "- [데미안](https://book/1) (book)\n> 인용", 50, "데미안 (book) 인용"},
		{"skips code", "```\ncode line\n```\n글", 50, "글"},
		{"truncates", strings.Repeat("가", 20), 10, strings.Repeat("가", 9) + "…"},
		{"empty", "", 10, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Excerpt(tt.in, tt.max))
		})
	}
}
