package aggregate

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-naver-importer/internal/config"
	"go-naver-importer/internal/export"
	"go-naver-importer/internal/fetch"
	"go-naver-importer/internal/model"
	"go-naver-importer/internal/naver"
	"go-naver-importer/internal/store"
)

const okPost = `<html><head><meta property="og:title" content="바다 이야기">
<meta property="article:published_time" content="2024-05-22T10:00:00+09:00"></head><body>
<div class="se-main-container"><div class="se-component se-text"><div class="se-module se-module-text">
<p class="se-text-paragraph">바다를 보러 갔습니다.</p></div></div></div></body></html>`

func newBlogServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/PostTitleListAsync.naver", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("currentPage") != "1" {
			_, _ = w.Write([]byte(`{"postList":[]}`))
			return
		}
		_, _ = w.Write([]byte(`{"postList":[{"logNo":"223000000001","title":"%EB%B0%94%EB%8B%A4","addDate":"2024. 5. 22."},{"logNo":"223000000002","title":"%EC%82%AC%EB%9D%BC%EC%A7%84+%EA%B8%80","addDate":"2024. 5. 20."}]}`))
	})
	mux.HandleFunc("/myblog/223000000001", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(okPost))
	})
	mux.HandleFunc("/BlogTagListInfo.naver", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"taglist":[{"logNo":"223000000001","tagName":"%EB%B0%94%EB%8B%A4%2C%EC%97%AC%ED%96%89"}]}`))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func newTestRunner(t *testing.T, srv *httptest.Server, st *store.SQLite, outDir string, extra string) *Runner {
	t.Helper()
	cfg, err := config.Parse([]byte(`
BLOG_ID: myblog
FETCH_TAGS: true
OUTPUT_DIR: ` + outDir + `
ENDPOINTS:
  blog: ` + srv.URL + `
  mobile: ` + srv.URL + `/m
  rss: ` + srv.URL + `/rss
` + extra))
	require.NoError(t, err)
	cl, err := fetch.New(fetch.Options{Timeout: cfg.Timeout()})
	require.NoError(t, err)
	return New(cfg, st, cl)
}

func readManifest(t *testing.T, path string) export.Manifest {
	t.Helper()
	b, err := os.ReadFile(path)
	require.NoError(t, err)
	var m export.Manifest
	require.NoError(t, json.Unmarshal(b, &m))
	return m
}

func TestRunImportsWritesAndRecords(t *testing.T) {
	srv := newBlogServer(t)
	dir := t.TempDir()
	out := filepath.Join(dir, "posts")
	st, err := store.OpenSQLite(filepath.Join(dir, "t.db"))
	require.NoError(t, err)
	defer st.Close()
	ctx := context.Background()

	run := newTestRunner(t, srv, st, out, "")
	require.NoError(t, run.Run(ctx, "myblog"))

	posts, paths := run.BufferData()
	require.Len(t, posts, 2)
	assert.Equal(t, "바다 이야기", posts[0].Title)
	assert.Equal(t, []string{"바다", "여행"}, posts[0].Tags)
	assert.Equal(t, "바다를 보러 갔습니다.", posts[0].Excerpt)
	assert.True(t, posts[1].IsErrorPost())
	assert.Equal(t, model.ErrorTitlePrefix+"사라진 글", posts[1].Title)

	b, err := os.ReadFile(paths["223000000001"])
	require.NoError(t, err)
	assert.Contains(t, string(b), "바다를 보러 갔습니다.")
	assert.True(t, strings.HasPrefix(filepath.Base(paths["223000000001"]), "2024-05-22-바다-이야기-"))

	b, err = os.ReadFile(paths["223000000002"])
	require.NoError(t, err)
	assert.Contains(t, string(b), "import_error:")

	m := readManifest(t, filepath.Join(out, "manifest.json"))
	assert.Equal(t, 2, m.Stats.Total)
	assert.Equal(t, 1, m.Stats.Failed)

	stats, err := st.Stats(ctx, "myblog")
	require.NoError(t, err)
	assert.Equal(t, 2, stats.Total)
	assert.Equal(t, 1, stats.OK)
}

func TestRunSkipsImportedPosts(t *testing.T) {
	srv := newBlogServer(t)
	dir := t.TempDir()
	out := filepath.Join(dir, "posts")
	st, err := store.OpenSQLite(filepath.Join(dir, "t.db"))
	require.NoError(t, err)
	defer st.Close()
	ctx := context.Background()

	require.NoError(t, newTestRunner(t, srv, st, out, "").Run(ctx, "myblog"))

	// 두 번째 실행은 성공했던 글을 건너뛰고 실패했던 글만 다시 시도한다
	run := newTestRunner(t, srv, st, out, "SKIP_EXISTING: true\n")
	require.NoError(t, run.Run(ctx, "myblog"))
	posts, _ := run.BufferData()
	require.Len(t, posts, 1)
	assert.Equal(t, "223000000002", posts[0].LogNo)
}

func TestRunSingle(t *testing.T) {
	srv := newBlogServer(t)
	out := filepath.Join(t.TempDir(), "posts")
	run := newTestRunner(t, srv, nil, out, "")

	path, err := run.RunSingle(context.Background(), naver.Ref{BlogID: "myblog", LogNo: "223000000001"})
	require.NoError(t, err)
	assert.FileExists(t, path)

	_, err = run.RunSingle(context.Background(), naver.Ref{BlogID: "myblog", LogNo: "223000000002"})
	assert.Error(t, err)
}

func TestSimpleBufferSnapshotOrder(t *testing.T) {
	b := NewSimpleBuffer()
	b.AddPost(model.Post{PostStub: model.PostStub{LogNo: "1", Date: "2024-01-01"}}, "a.md")
	b.AddPost(model.Post{PostStub: model.PostStub{LogNo: "3", Date: "2024-02-01"}}, "")
	b.AddPost(model.Post{PostStub: model.PostStub{LogNo: "2", Date: "2024-02-01"}}, "b.md")
	b.AddPost(model.Post{}, "ignored.md")

	posts, paths := b.Snapshot()
	require.Len(t, posts, 3)
	assert.Equal(t, []string{"3", "2", "1"}, []string{posts[0].LogNo, posts[1].LogNo, posts[2].LogNo})
	assert.Equal(t, map[string]string{"1": "a.md", "2": "b.md"}, paths)
}

func TestRunRecordsWriteFailureAsFailed(t *testing.T) {
	srv := newBlogServer(t)
	dir := t.TempDir()
	// 출력 경로의 부모가 파일이라 디렉터리를 만들 수 없다
	blocker := filepath.Join(dir, "blocker")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o644))
	st, err := store.OpenSQLite(filepath.Join(dir, "t.db"))
	require.NoError(t, err)
	defer st.Close()
	ctx := context.Background()

	run := newTestRunner(t, srv, st, filepath.Join(blocker, "posts"), "")
	require.NoError(t, run.Run(ctx, "myblog"))

	posts, paths := run.BufferData()
	require.Len(t, posts, 2)
	assert.True(t, posts[0].Failed)
	assert.Contains(t, posts[0].Error, "mkdir")
	assert.Empty(t, paths)

	done, err := st.Imported(ctx, "myblog")
	require.NoError(t, err)
	assert.Empty(t, done)

	stats, err := st.Stats(ctx, "myblog")
	require.NoError(t, err)
	assert.Equal(t, 2, stats.Failed)
}
