package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadAppliesDefaults(t *testing.T) {
	dir := t.TempDir()
	f := filepath.Join(dir, "settings.yaml")
	require.NoError(t, os.WriteFile(f, []byte("BLOG_ID: someblog\nPOST_DELAY_MS: 250\n"), 0o644))

	c, err := Load(f)
	require.NoError(t, err)
	assert.Equal(t, "someblog", c.BlogID)
	assert.Equal(t, 50, c.PageCap)
	assert.Equal(t, 1000, c.StubCap)
	assert.Equal(t, "sqlite", c.Database.Type)
	assert.Equal(t, "./imports.db", c.Database.DSN)
	assert.Equal(t, 250*time.Millisecond, c.PostDelay())
	assert.Equal(t, 20*time.Second, c.Timeout())
	assert.Equal(t, "ko-KR", c.LogLocale)
	assert.Equal(t, 2, c.Workers)
	assert.Equal(t, filepath.Join("posts", "manifest.json"), c.Manifest())
}

func TestParseRejectsInvalidValues(t *testing.T) {
	_, err := Parse([]byte("MAX_POSTS: -1\n"))
	assert.Error(t, err)

	_, err = Parse([]byte("DATABASE:\n  type: postgres\n"))
	assert.Error(t, err)

	_, err = Parse([]byte("PAGE_DELAY_MS: -5\n"))
	assert.Error(t, err)
}

func TestParseNestedSections(t *testing.T) {
	c, err := Parse([]byte(`
HTTP:
  timeout_sec: 5
  retry: 3
  user_agent: test/1.0
ENDPOINTS:
  blog: http://127.0.0.1:8080
`))
	require.NoError(t, err)
	assert.Equal(t, 3, c.HTTP.Retry)
	assert.Equal(t, "test/1.0", c.HTTP.UserAgent)
	assert.Equal(t, "http://127.0.0.1:8080", c.Endpoints.Blog)
	assert.Empty(t, c.Endpoints.Mobile)
}
