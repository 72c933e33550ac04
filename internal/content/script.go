package content

import (
	"encoding/json"
	"regexp"
	"strings"
)

var componentsKey = regexp.MustCompile(`"components"\s*:\s*\[`)

// FromScriptJSON 은 스크립트 안에 직렬화된 편집기 문서에서 컴포넌트를 복원한다.
// "components" 배열을 괄호 짝 맞추기로 잘라 낸 뒤 각 항목의 @ctype 으로 분기한다.
func FromScriptJSON(text string) []Component {
	var out []Component
	for _, raw := range componentMaps(text) {
		out = append(out, fromMap(raw)...)
	}
	return out
}

// componentMaps 는 디코딩에 성공한 첫 번째 비어 있지 않은 components 배열을 돌려준다.
func componentMaps(text string) []map[string]any {
	for _, loc := range componentsKey.FindAllStringIndex(text, -1) {
		start := loc[1] - 1
		end := matchBracket(text, start)
		if end < 0 {
			continue
		}
		var items []map[string]any
		if err := json.Unmarshal([]byte(text[start:end+1]), &items); err != nil {
			continue
		}
		if len(items) > 0 {
			return items
		}
	}
	return nil
}

// matchBracket 은 text[open] 의 '[' 또는 '{' 와 짝이 되는 닫는 괄호 위치를 찾는다.
// JSON 문자열 안의 괄호와 이스케이프는 무시한다.
func matchBracket(text string, open int) int {
	depth := 0
	inString := false
	for i := open; i < len(text); i++ {
		c := text[i]
		if inString {
			switch c {
			case '\\':
				i++
			case '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '[', '{':
			depth++
		case ']', '}':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

func ctype(m map[string]any) string {
	for _, k := range []string{"@ctype", "ctype", "componentType"} {
		if s, ok := m[k].(string); ok {
			return s
		}
	}
	return ""
}

func fromMap(m map[string]any) []Component {
	switch ctype(m) {
	case "documentTitle":
		return nil
	case "text":
		var blocks []TextBlock
		for _, p := range paragraphs(m["value"]) {
			blocks = append(blocks, TextBlock{Paragraph: p})
		}
		if len(blocks) == 0 {
			return nil
		}
		return []Component{Text{Blocks: blocks}}
	case "sectionTitle":
		if t := collapseLines(jsonText(m["value"])); t != "" {
			return []Component{SectionTitle{Text: t}}
		}
	case "quotation":
		q := jsonText(m["value"])
		if q == "" {
			return nil
		}
		cite := collapseLines(jsonText(m["source"]))
		if cite == defaultCitation {
			cite = ""
		}
		return []Component{Quotation{Quote: q, Citation: cite}}
	case "image", "sticker":
		return []Component{jsonImage(m, jsonText(m["caption"]))}
	case "imageGroup", "imageStrip", "imageSlide":
		caption := jsonText(m["caption"])
		var out []Component
		if list, ok := m["images"].([]any); ok {
			for _, it := range list {
				if im, ok := it.(map[string]any); ok {
					out = append(out, jsonImage(im, caption))
				}
			}
		}
		return out
	case "code":
		if body := codeBody(jsonText(m["value"])); strings.TrimSpace(body) != "" {
			return []Component{Code{Body: body}}
		}
	case "horizontalLine":
		return []Component{HorizontalRule{}}
	case "material", "oglink":
		link, _ := m["link"].(string)
		title, _ := m["title"].(string)
		typ, _ := m["type"].(string)
		return []Component{Material{Title: strings.TrimSpace(title), Link: strings.TrimSpace(link), Kind: strings.TrimSpace(typ)}}
	case "video":
		return []Component{Video{}}
	case "oembed", "placesMap", "map":
		return []Component{Embed{}}
	case "table":
		return []Component{Table{}}
	default:
		if raw := jsonText(m["value"]); raw != "" {
			return []Component{Unknown{RawText: raw}}
		}
	}
	return nil
}

func jsonImage(m map[string]any, caption string) Component {
	src, _ := m["src"].(string)
	alt, _ := m["alt"].(string)
	return newImage(absolute(strings.TrimSpace(src)), collapseLines(caption), strings.TrimSpace(alt))
}

// paragraphs 는 [{"nodes":[{"value":"..."}]}, ...] 꼴의 문단 배열을 문자열로 푼다.
func paragraphs(v any) []string {
	list, ok := v.([]any)
	if !ok {
		if s := jsonText(v); s != "" {
			return []string{s}
		}
		return nil
	}
	out := make([]string, 0, len(list))
	for _, p := range list {
		out = append(out, strings.TrimSpace(jsonText(p)))
	}
	return out
}

// jsonText 는 value/nodes 키만 정해진 순서로 따라가 텍스트를 모은다.
func jsonText(v any) string {
	switch t := v.(type) {
	case string:
		return invisible.Replace(t)
	case []any:
		parts := make([]string, 0, len(t))
		for _, child := range t {
			if s := jsonText(child); s != "" {
				parts = append(parts, s)
			}
		}
		return strings.Join(parts, "\n")
	case map[string]any:
		if nodes, ok := t["nodes"].([]any); ok {
			var b strings.Builder
			for _, n := range nodes {
				b.WriteString(jsonText(n))
			}
			return b.String()
		}
		if val, ok := t["value"]; ok {
			return jsonText(val)
		}
	}
	return ""
}
