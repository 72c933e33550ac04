// 패키지 enrich 는 가져온 게시글에 태그와 요약을 덧붙인다.
package enrich

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"unicode/utf8"

	"go-naver-importer/internal/fetch"
	"go-naver-importer/internal/model"
	"go-naver-importer/internal/naver"
)

// Enricher 는 게시글 하나에 대한 보강 정보를 만든다.
type Enricher interface {
	Enrich(ctx context.Context, blogID string, post model.Post) (model.Enrichment, error)
}

// ExcerptRunes 는 요약 최대 길이다.
const ExcerptRunes = 160

// Platform 은 원본 사이트의 태그 API 와 본문 요약을 쓴다.
type Platform struct {
	cl        fetch.Getter
	ep        naver.Endpoints
	fetchTags bool
}

// NewPlatform 은 fetchTags 가 false 면 태그 요청 없이 요약만 만든다.
func NewPlatform(cl fetch.Getter, ep naver.Endpoints, fetchTags bool) *Platform {
	return &Platform{cl: cl, ep: ep.WithDefaults(), fetchTags: fetchTags}
}

func (p *Platform) Enrich(ctx context.Context, blogID string, post model.Post) (model.Enrichment, error) {
	if post.IsErrorPost() {
		return model.Enrichment{}, nil
	}
	out := model.Enrichment{Excerpt: Excerpt(post.Content, ExcerptRunes)}
	if !p.fetchTags {
		return out, nil
	}
	tags, err := p.Tags(ctx, blogID, post.LogNo)
	if err != nil {
		return out, err
	}
	out.Tags = tags
	return out, nil
}

type tagList struct {
	TagList []struct {
		TagName string `json:"tagName"`
	} `json:"taglist"`
}

// Tags 는 게시글에 달린 태그를 돌려준다. 태그 이름은 URL 인코딩된 쉼표 구분 문자열로 온다.
func (p *Platform) Tags(ctx context.Context, blogID, logNo string) ([]string, error) {
	u := p.ep.TagListURL(blogID, logNo)
	body, err := p.cl.GetString(ctx, u)
	if err != nil {
		return nil, fmt.Errorf("GET tags %s: %w", logNo, err)
	}
	var tl tagList
	if err := json.Unmarshal([]byte(body), &tl); err != nil {
		return nil, fmt.Errorf("decode tags %s: %w", logNo, err)
	}
	seen := map[string]bool{}
	var tags []string
	for _, t := range tl.TagList {
		name := t.TagName
		if dec, err := url.QueryUnescape(name); err == nil {
			name = dec
		}
		for _, tag := range strings.Split(name, ",") {
			tag = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(tag), "#"))
			if tag == "" || seen[tag] {
				continue
			}
			seen[tag] = true
			tags = append(tags, tag)
		}
	}
	return tags, nil
}

var (
	mdImage  = regexp.MustCompile(`!\[[^\]]*\]\([^)]*\)`)
	mdLink   = regexp.MustCompile(`\[([^\]]*)\]\([^)]*\)`)
	mdMarker = regexp.MustCompile(`^(?:#{1,6}\s+|>\s?|[-*]\s+|\d+\.\s+)`)
)

// Excerpt 는 본문 첫 문단들에서 max 글자 이하의 평문 요약을 만든다.
// 제목, 코드, 구분선, 자리표시 줄은 건너뛴다.
func Excerpt(markdown string, max int) string {
	var parts []string
	n := 0
	inFence := false
	for _, line := range strings.Split(markdown, "\n") {
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, "```") {
			inFence = !inFence
			continue
		}
		if inFence || line == "" || line == "---" || strings.HasPrefix(line, "#") {
			continue
		}
		line = mdImage.ReplaceAllString(line, "")
		line = mdLink.ReplaceAllString(line, "$1")
		line = strings.TrimSpace(mdMarker.ReplaceAllString(line, ""))
		if line == "" || (strings.HasPrefix(line, "[") && strings.HasSuffix(line, "]")) {
			continue
		}
		parts = append(parts, line)
		n += utf8.RuneCountInString(line) + 1
		if n > max {
			break
		}
	}
	s := strings.Join(parts, " ")
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	r := []rune(s)
	return strings.TrimSpace(string(r[:max-1])) + "…"
}
