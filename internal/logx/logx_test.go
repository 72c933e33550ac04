package logx

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPrettyKoreanLabels(t *testing.T) {
	var buf bytes.Buffer
	InitWriter(&buf, "debug", "pretty", "ko-KR", "never")
	Infof("가져오기 %d건", 3)
	assert.Contains(t, buf.String(), "[정보]")
	assert.Contains(t, buf.String(), "가져오기 3건")
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	InitWriter(&buf, "warn", "pretty", "ko-KR", "never")
	Infof("should not print")
	Warnf("warn on")
	assert.NotContains(t, buf.String(), "should not print")
	assert.Contains(t, buf.String(), "[경고]")
}

func TestEnglishLabelsAndSilent(t *testing.T) {
	var buf bytes.Buffer
	InitWriter(&buf, "info", "pretty", "en", "never")
	Infof("ok")
	assert.Contains(t, buf.String(), "[INFO]")

	buf.Reset()
	InitWriter(&buf, "off", "pretty", "en", "never")
	Errorf("hidden")
	assert.Empty(t, buf.String())
}

func TestJSONFormat(t *testing.T) {
	var buf bytes.Buffer
	InitWriter(&buf, "info", "json", "", "")
	Infof("hello")
	assert.Contains(t, buf.String(), `"msg":"hello"`)
}

func TestPrettyAttrsAndGroups(t *testing.T) {
	var buf bytes.Buffer
	h := NewPrettyHandler(&buf, slog.LevelInfo, "ko-KR", "never")
	slog.New(h).WithGroup("post").Info("저장", "logNo", "223000000001", "title", "제주 여행")
	out := buf.String()
	assert.Contains(t, out, "[정보] 저장")
	assert.Contains(t, out, "post.logNo=223000000001")
	assert.Contains(t, out, `post.title="제주 여행"`)
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelWarn, parseLevel(" WARNING "))
	assert.Equal(t, silent, parseLevel("off"))
	assert.Equal(t, slog.LevelInfo, parseLevel("verbose"))
}
