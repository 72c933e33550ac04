// 패키지 content 는 게시글 HTML 을 제목/날짜/Markdown 본문으로 변환한다.
// 입력이 편집기 문서 JSON 이면 같은 컴포넌트 모델로 처리한다.
package content

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"go-naver-importer/internal/logx"
	"go-naver-importer/internal/model"
)

// Parse 는 게시글 페이지(또는 문서 JSON)에서 제목, 날짜, 본문과 작성자/카테고리/미리보기 이미지를 뽑는다.
// 찾지 못한 필드는 빈 문자열이다. 실패하지 않는다.
func Parse(page string) model.ParsedContent {
	trimmed := strings.TrimSpace(page)
	if trimmed == "" {
		return model.ParsedContent{}
	}
	if strings.HasPrefix(trimmed, "{") || strings.HasPrefix(trimmed, "[") {
		return parseJSON(trimmed)
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(page))
	if err != nil {
		logx.Debugf("HTML 해석 실패: %v", err)
		return model.ParsedContent{}
	}
	scripts := scriptTexts(doc)
	out := model.ParsedContent{
		Author:   extractAuthor(doc),
		Category: extractCategory(doc),
		Date:     extractDate(doc, scripts),
	}
	out.Title = extractTitle(doc, out.Author)
	comps := Extract(doc)
	out.Content = cleanup(Render(comps))
	if out.Content == "" {
		for _, s := range scripts {
			comps = FromScriptJSON(s)
			if md := cleanup(Render(comps)); md != "" {
				out.Content = md
				break
			}
		}
	}
	if out.Content != "" {
		out.Image = firstImage(comps)
	}
	if out.Title == "" {
		for _, s := range scripts {
			if t := documentTitle(componentMaps(s)); t != "" {
				out.Title = t
				break
			}
		}
	}
	return out
}

func parseJSON(text string) model.ParsedContent {
	maps := componentMaps(text)
	comps := FromScriptJSON(text)
	return model.ParsedContent{
		Title:   documentTitle(maps),
		Date:    dateFromScripts([]string{text}),
		Content: cleanup(Render(comps)),
		Image:   firstImage(comps),
	}
}

func documentTitle(maps []map[string]any) string {
	for _, m := range maps {
		if ctype(m) == "documentTitle" {
			return CleanTitle(jsonText(m["value"]))
		}
	}
	return ""
}

func scriptTexts(doc *goquery.Document) []string {
	var out []string
	doc.Find("script").Each(func(_ int, s *goquery.Selection) {
		if t := s.Text(); strings.TrimSpace(t) != "" {
			out = append(out, t)
		}
	})
	return out
}
