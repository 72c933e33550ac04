// 패키지 model 은 가져오기 파이프라인이 주고받는 데이터 모델(스텁/게시글/파싱 결과)을 정의한다.
package model

import (
	"strings"
	"time"
)

// ErrorTitlePrefix 는 합성된 오류 게시글 제목 앞에 붙는 표식이다.
const ErrorTitlePrefix = "[가져오기 실패] "

// PostStub 은 목록 발견 단계에서 얻은 최소한의 게시글 메타데이터다.
type PostStub struct {
	LogNo     string `json:"log_no"`
	Title     string `json:"title"`
	Date      string `json:"date"`
	URL       string `json:"url"`
	Thumbnail string `json:"thumbnail,omitempty"`
}

// Post 는 스텁에 본문(Markdown)이 합쳐진 결과다.
type Post struct {
	PostStub
	Content  string        `json:"content"`
	Author   string        `json:"author,omitempty"`
	Category string        `json:"category,omitempty"`
	Image    *PreviewImage `json:"image,omitempty"`
	Tags     []string      `json:"tags,omitempty"`
	Excerpt  string        `json:"excerpt,omitempty"`
	// Failed 는 본문을 가져오지 못해 오류 문서로 대체된 경우 true.
	Failed bool   `json:"failed,omitempty"`
	Error  string `json:"error,omitempty"`
}

// ParsedContent 는 본문 파서의 반환값(스텁 메타데이터 병합 전)이다.
type ParsedContent struct {
	Title    string        `json:"title"`
	Date     string        `json:"date"`
	Content  string        `json:"content"`
	Author   string        `json:"author,omitempty"`
	Category string        `json:"category,omitempty"`
	Image    *PreviewImage `json:"image,omitempty"`
}

// PreviewImage 는 본문에서 처음 채택된 이미지다. 머리말의 대표 이미지로 쓴다.
type PreviewImage struct {
	URL string `json:"url"`
	Alt string `json:"alt,omitempty"`
}

// HasContent 는 추출된 본문이 비어 있지 않은지 보고한다.
func (p ParsedContent) HasContent() bool {
	return strings.TrimSpace(p.Content) != ""
}

// Enrichment 는 외부 보강 단계(태그/요약)의 결과다.
type Enrichment struct {
	Tags    []string `json:"tags,omitempty"`
	Excerpt string   `json:"excerpt,omitempty"`
}

// Merge 는 보강 결과를 게시글에 합친다. 빈 값은 기존 값을 덮어쓰지 않는다.
func (p *Post) Merge(e Enrichment) {
	if len(e.Tags) > 0 {
		p.Tags = e.Tags
	}
	if e.Excerpt != "" {
		p.Excerpt = e.Excerpt
	}
}

// IsErrorPost 는 합성된 오류 게시글인지 판별한다.
func (p Post) IsErrorPost() bool {
	return p.Failed || strings.HasPrefix(p.Title, ErrorTitlePrefix)
}

// ImportRecord 는 가져오기 이력 한 줄이다.
type ImportRecord struct {
	BlogID     string    `json:"blog_id"`
	LogNo      string    `json:"log_no"`
	Title      string    `json:"title"`
	Date       string    `json:"date"`
	URL        string    `json:"url"`
	Path       string    `json:"path,omitempty"`
	Failed     bool      `json:"failed"`
	Error      string    `json:"error,omitempty"`
	ImportedAt time.Time `json:"imported_at"`
}

// Stats 는 가져오기 결과 집계다.
type Stats struct {
	Total     int       `json:"total"`
	OK        int       `json:"ok"`
	Failed    int       `json:"failed"`
	UpdatedAt time.Time `json:"updated_at"`
}
