// 패키지 export 는 가져온 게시글을 파일로 쓴다.
// 게시글마다 YAML 머리말이 붙은 Markdown 파일, 실행마다 manifest JSON 하나.
package export

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"
	"gopkg.in/yaml.v3"

	"go-naver-importer/internal/model"
)

// Source 는 머리말의 출처 표식이다.
const Source = "naver-blog"

const maxSlugRunes = 60

type frontMatter struct {
	Title       string       `yaml:"title"`
	Author      string       `yaml:"author,omitempty"`
	Date        string       `yaml:"date"`
	LogNo       string       `yaml:"logNo"`
	URL         string       `yaml:"url"`
	Tags        []string     `yaml:"tags,omitempty"`
	Categories  []string     `yaml:"categories,omitempty"`
	Excerpt     string       `yaml:"excerpt,omitempty"`
	Image       *imageMatter `yaml:"image,omitempty"`
	Thumbnail   string       `yaml:"thumbnail,omitempty"`
	Source      string       `yaml:"source"`
	ImportError string       `yaml:"import_error,omitempty"`
}

// imageMatter 는 대표 이미지다. 본문 첫 이미지, 없으면 목록 썸네일.
type imageMatter struct {
	URL string `yaml:"url"`
	Alt string `yaml:"alt,omitempty"`
}

// Render 는 머리말과 본문을 합친 파일 내용을 만든다.
func Render(p model.Post) ([]byte, error) {
	fm := frontMatter{
		Title:     p.Title,
		Author:    p.Author,
		Date:      p.Date,
		LogNo:     p.LogNo,
		URL:       p.URL,
		Tags:      p.Tags,
		Excerpt:   p.Excerpt,
		Thumbnail: p.Thumbnail,
		Source:    Source,
	}
	if p.Category != "" {
		fm.Categories = []string{p.Category}
	}
	switch {
	case p.Image != nil && p.Image.URL != "":
		fm.Image = &imageMatter{URL: p.Image.URL, Alt: p.Image.Alt}
	case p.Thumbnail != "":
		fm.Image = &imageMatter{URL: p.Thumbnail}
	}
	if p.IsErrorPost() {
		fm.ImportError = p.Error
		if fm.ImportError == "" {
			fm.ImportError = "unknown"
		}
	}
	head, err := yaml.Marshal(fm)
	if err != nil {
		return nil, fmt.Errorf("encode front matter %s: %w", p.LogNo, err)
	}
	var buf bytes.Buffer
	buf.WriteString("---\n")
	buf.Write(head)
	buf.WriteString("---\n\n")
	buf.WriteString(strings.TrimRight(p.Content, "\n"))
	buf.WriteString("\n")
	return buf.Bytes(), nil
}

// WriteMarkdown 은 dir 아래에 게시글 파일을 쓰고 경로를 돌려준다. 같은 이름이 있으면 덮어쓴다.
func WriteMarkdown(dir string, p model.Post) (string, error) {
	if p.LogNo == "" {
		return "", fmt.Errorf("write markdown: empty log no")
	}
	b, err := Render(p)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("mkdir %s: %w", dir, err)
	}
	path := filepath.Join(dir, FileName(p))
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return "", fmt.Errorf("write %s: %w", path, err)
	}
	return path, nil
}

var (
	unsafeChars = regexp.MustCompile(`[\\/:*?"<>|#%&{}$!'@+=` + "`" + `\x00-\x1f]+`)
	dashRun     = regexp.MustCompile(`[\s_-]+`)
)

// FileName 은 YYYY-MM-DD-<제목>-<logNo>.md 형식의 파일 이름이다.
// 오류 게시글은 제목 앞 표식을 뺀다.
func FileName(p model.Post) string {
	date := p.Date
	if len(date) < 10 {
		date = "undated"
	} else {
		date = date[:10]
	}
	parts := []string{date}
	if slug := Slug(strings.TrimPrefix(p.Title, model.ErrorTitlePrefix)); slug != "" {
		parts = append(parts, slug)
	}
	parts = append(parts, p.LogNo)
	return strings.Join(parts, "-") + ".md"
}

// Slug 는 파일 이름에 쓸 수 없는 문자를 걷어내고 공백을 - 로 바꾼다. 한글은 그대로 둔다.
func Slug(title string) string {
	s := norm.NFC.String(title)
	s = unsafeChars.ReplaceAllString(s, " ")
	s = dashRun.ReplaceAllString(strings.TrimSpace(s), "-")
	s = strings.Trim(s, ".-")
	if r := []rune(s); len(r) > maxSlugRunes {
		s = strings.Trim(string(r[:maxSlugRunes]), ".-")
	}
	return s
}
