package content

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// value 는 선택자 표현식을 평가한다.
// - 텍스트: ".title" 또는 "." (현재 노드 텍스트)
// - 속성: "meta[property=og:title]@content" / "@href" (현재 노드 속성)
// - 대체: "||" 로 이은 후보를 앞에서부터 시도
func value(scope *goquery.Selection, expr string) string {
	for _, part := range strings.Split(expr, "||") {
		if v := valueSingle(scope, strings.TrimSpace(part)); v != "" {
			return v
		}
	}
	return ""
}

func valueSingle(scope *goquery.Selection, expr string) string {
	if expr == "" {
		return ""
	}
	if expr == "." {
		return strings.TrimSpace(scope.Text())
	}
	// 속성 선택자 안의 '@' 는 없다고 가정하고 마지막 '@' 로 자른다
	if at := strings.LastIndex(expr, "@"); at != -1 && !strings.Contains(expr[at:], "]") {
		sel := strings.TrimSpace(expr[:at])
		attr := strings.TrimSpace(expr[at+1:])
		target := scope
		if sel != "" {
			target = scope.Find(sel)
		}
		var out string
		target.EachWithBreak(func(_ int, s *goquery.Selection) bool {
			v, _ := s.Attr(attr)
			out = strings.TrimSpace(v)
			return out == ""
		})
		return out
	}
	var out string
	scope.Find(expr).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		out = strings.TrimSpace(nodeText(s))
		return out == ""
	})
	return out
}

var invisible = strings.NewReplacer("\u200b", "", "\ufeff", "")

// nodeText 는 <br> 과 블록 요소 경계를 줄바꿈으로 살려 텍스트를 모은다.
func nodeText(s *goquery.Selection) string {
	var b strings.Builder
	for _, n := range s.Nodes {
		writeText(&b, n)
	}
	return invisible.Replace(b.String())
}

func writeText(b *strings.Builder, n *html.Node) {
	switch n.Type {
	case html.TextNode:
		b.WriteString(n.Data)
		return
	case html.ElementNode:
		switch n.Data {
		case "br":
			b.WriteByte('\n')
			return
		case "script", "style", "noscript", "template":
			return
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		writeText(b, c)
	}
	if n.Type == html.ElementNode && blockTags[n.Data] {
		b.WriteByte('\n')
	}
}

var blockTags = map[string]bool{
	"p": true, "div": true, "li": true, "tr": true, "pre": true, "blockquote": true,
	"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
}
