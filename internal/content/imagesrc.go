package content

import (
	"encoding/json"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"go-naver-importer/internal/images"
)

var (
	cdnURL = regexp.MustCompile(`https?:(?:\\?/){2}[^\s"'<>\\]*(?:pstatic\.net|phinf\.naver\.net)[^\s"'<>]*`)

	imgAttrs = []string{"data-lazy-src", "data-src", "data-original", "src"}
)

// resolveImage 는 이미지 하나의 주소를 정해진 순서로 찾고 채택 여부를 판정한다.
//  1. 감싼 링크의 data-linkdata JSON
//  2. 모듈 안 __se_module_data 스크립트의 JSON
//  3. 모듈 속성 전체에서 가장 긴 pstatic CDN 주소
//  4. img 의 지연 로딩 속성과 src/srcset
//  5. 이름에 src/url 이 들어간 절대 주소 속성
func resolveImage(img, comp *goquery.Selection, caption string) Image {
	alt := ""
	if img != nil {
		alt = strings.TrimSpace(img.AttrOr("alt", ""))
	}
	unit := imageUnit(img, comp)
	src := firstNonEmpty(
		func() string { return fromLinkData(img) },
		func() string { return fromModuleScript(unit) },
		func() string { return longestCDN(unit) },
		func() string { return fromImgAttrs(img) },
		func() string { return fromAnyAttr(img) },
	)
	return newImage(absolute(src), caption, alt)
}

func newImage(src, caption, alt string) Image {
	out := Image{Caption: caption, AltText: alt}
	if src == "" {
		return out
	}
	if !images.Admit(src, caption, alt) {
		out.Rejected = true
		return out
	}
	out.Src = images.Enhance(src)
	return out
}

func firstNonEmpty(fns ...func() string) string {
	for _, fn := range fns {
		if v := strings.TrimSpace(fn()); v != "" && !strings.HasPrefix(v, "data:") {
			return v
		}
	}
	return ""
}

func fromLinkData(img *goquery.Selection) string {
	if img == nil {
		return ""
	}
	a := img.Closest("a[data-linkdata]")
	raw, ok := a.Attr("data-linkdata")
	if !ok {
		return ""
	}
	var v any
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		return ""
	}
	return findKey(v, "src")
}

// imageUnit 은 이미지 하나를 감싼 모듈 노드를 찾는다. 모듈이 없으면 컴포넌트 자체다.
func imageUnit(img, comp *goquery.Selection) *goquery.Selection {
	if img != nil {
		if m := img.Closest(".se-module-image, .se-imageStrip-item, .se-module, .se_mediaArea"); m.Length() > 0 {
			return m
		}
	}
	return comp
}

func fromModuleScript(scope *goquery.Selection) string {
	var out string
	scope.Find("script.__se_module_data").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		for _, raw := range []string{s.AttrOr("data-module", ""), s.AttrOr("data-module-v2", ""), s.Text()} {
			var v any
			if raw == "" || json.Unmarshal([]byte(raw), &v) != nil {
				continue
			}
			if out = findKey(v, "src"); out != "" {
				return false
			}
		}
		return true
	})
	return out
}

// longestCDN 은 컴포넌트와 그 하위 노드의 모든 속성 값에서 CDN 주소를 찾아 가장 긴 것을 고른다.
func longestCDN(comp *goquery.Selection) string {
	if comp == nil {
		return ""
	}
	var best string
	visit := func(s *goquery.Selection) {
		for _, n := range s.Nodes {
			for _, a := range n.Attr {
				for _, m := range cdnURL.FindAllString(a.Val, -1) {
					m = strings.ReplaceAll(m, `\/`, "/")
					if len(m) > len(best) || (len(m) == len(best) && strings.Count(m, "/") > strings.Count(best, "/")) {
						best = m
					}
				}
			}
		}
	}
	visit(comp)
	comp.Find("*").Each(func(_ int, s *goquery.Selection) { visit(s) })
	return best
}

func fromImgAttrs(img *goquery.Selection) string {
	if img == nil {
		return ""
	}
	for _, name := range imgAttrs {
		if v := strings.TrimSpace(img.AttrOr(name, "")); v != "" && !strings.HasPrefix(v, "data:") {
			return v
		}
	}
	if set := strings.TrimSpace(img.AttrOr("srcset", "")); set != "" {
		first, _, _ := strings.Cut(set, ",")
		if fields := strings.Fields(first); len(fields) > 0 {
			return fields[0]
		}
	}
	return ""
}

func fromAnyAttr(img *goquery.Selection) string {
	if img == nil {
		return ""
	}
	for _, n := range img.Nodes {
		for _, a := range n.Attr {
			key := strings.ToLower(a.Key)
			if !strings.Contains(key, "src") && !strings.Contains(key, "url") {
				continue
			}
			v := strings.TrimSpace(a.Val)
			if strings.HasPrefix(v, "http://") || strings.HasPrefix(v, "https://") || strings.HasPrefix(v, "//") {
				return v
			}
		}
	}
	return ""
}

func absolute(u string) string {
	if strings.HasPrefix(u, "//") {
		return "https:" + u
	}
	if strings.HasPrefix(u, "http://") || strings.HasPrefix(u, "https://") {
		return u
	}
	return ""
}

// findKey 는 JSON 트리를 깊이 우선으로 훑어 key 의 첫 문자열 값을 돌려준다.
// 객체 키는 정렬 없이 순회되므로 같은 깊이에서는 key 자체를 먼저 본다.
func findKey(v any, key string) string {
	switch t := v.(type) {
	case map[string]any:
		if s, ok := t[key].(string); ok && s != "" {
			return s
		}
		for _, k := range []string{"data", "image", "imageInfo", "value"} {
			if child, ok := t[k]; ok {
				if s := findKey(child, key); s != "" {
					return s
				}
			}
		}
	case []any:
		for _, child := range t {
			if s := findKey(child, key); s != "" {
				return s
			}
		}
	}
	return ""
}
