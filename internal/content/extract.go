package content

import (
	"encoding/json"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"go-naver-importer/internal/logx"
)

// layout 은 편집기 세대별 본문 컨테이너와 컴포넌트 선택자다. 앞에서부터 먼저 찾는 것을 쓴다.
type layout struct {
	name      string
	container string
	component string
}

var layouts = []layout{
	{"se3", ".se-main-container", ".se-component"},
	{"se2", ".se_component_wrap", ".se_component"},
	{"legacy", "#postViewArea", ""},
}

type kind int

const (
	kindUnknown kind = iota
	kindText
	kindSection
	kindQuote
	kindImage
	kindCode
	kindRule
	kindMaterial
	kindLink
	kindVideo
	kindEmbed
	kindTable
)

// 클래스 토큰은 se_ 를 se- 로 바꾸고 소문자로 비교한다.
var kinds = map[string]kind{
	"se-text":           kindText,
	"se-paragraph":      kindText,
	"se-sectiontitle":   kindSection,
	"se-quotation":      kindQuote,
	"se-image":          kindImage,
	"se-imagegroup":     kindImage,
	"se-imagestrip":     kindImage,
	"se-sticker":        kindImage,
	"se-code":           kindCode,
	"se-horizontalline": kindRule,
	"se-material":       kindMaterial,
	"se-oglink":         kindLink,
	"se-video":          kindVideo,
	"se-oembed":         kindEmbed,
	"se-placesmap":      kindEmbed,
	"se-map":            kindEmbed,
	"se-table":          kindTable,
}

const defaultCitation = "출처 입력"

// Extract 는 문서에서 본문 컴포넌트를 문서 순서대로 꺼낸다.
// 컨테이너를 못 찾으면 nil 이다.
func Extract(doc *goquery.Document) []Component {
	for _, l := range layouts {
		c := doc.Find(l.container).First()
		if c.Length() == 0 {
			continue
		}
		if l.component == "" {
			return extractLegacy(c)
		}
		var out []Component
		c.Find(l.component).Each(func(_ int, s *goquery.Selection) {
			// 중첩 컴포넌트는 바깥 것이 처리한다
			if s.ParentsFiltered(l.component).Length() > 0 {
				return
			}
			out = append(out, component(s)...)
		})
		if len(out) > 0 {
			return out
		}
	}
	return nil
}

func classify(s *goquery.Selection) kind {
	for _, tok := range strings.Fields(s.AttrOr("class", "")) {
		tok = strings.ToLower(strings.ReplaceAll(tok, "_", "-"))
		if k, ok := kinds[tok]; ok {
			return k
		}
	}
	return kindUnknown
}

// component 는 컴포넌트 노드 하나를 변환한다. 읽지 못한 컴포넌트는 건너뛴다.
func component(s *goquery.Selection) []Component {
	switch classify(s) {
	case kindText:
		if t, ok := text(s); ok {
			return []Component{t}
		}
	case kindSection:
		if v := value(s, ".se-text-paragraph||.se_textarea||."); v != "" {
			return []Component{SectionTitle{Text: collapseLines(v)}}
		}
	case kindQuote:
		if q, ok := quotation(s); ok {
			return []Component{q}
		}
	case kindImage:
		return imageComponents(s)
	case kindCode:
		if c, ok := code(s); ok {
			return []Component{c}
		}
	case kindRule:
		return []Component{HorizontalRule{}}
	case kindMaterial:
		return []Component{material(s)}
	case kindLink:
		return []Component{ogLink(s)}
	case kindVideo:
		return []Component{Video{}}
	case kindEmbed:
		return []Component{Embed{}}
	case kindTable:
		return []Component{Table{}}
	default:
		if raw := strings.TrimSpace(nodeText(s)); raw != "" {
			return []Component{Unknown{RawText: raw}}
		}
	}
	logx.Debugf("컴포넌트 건너뜀: class=%q", s.AttrOr("class", ""))
	return nil
}

func text(s *goquery.Selection) (Text, bool) {
	var blocks []TextBlock
	s.Find("p.se-text-paragraph, ul, ol").Each(func(_ int, n *goquery.Selection) {
		if n.ParentsFiltered("li").Length() > 0 {
			return
		}
		if n.Is("ul, ol") {
			l := &List{Ordered: n.Is("ol")}
			n.ChildrenFiltered("li").Each(func(_ int, li *goquery.Selection) {
				if item := collapseLines(nodeText(li)); item != "" {
					l.Items = append(l.Items, item)
				}
			})
			if len(l.Items) > 0 {
				blocks = append(blocks, TextBlock{List: l})
			}
			return
		}
		blocks = append(blocks, TextBlock{Paragraph: strings.TrimSpace(nodeText(n))})
	})
	if len(blocks) == 0 {
		// 구형 편집기: 문단 클래스가 없다
		for _, line := range strings.Split(nodeText(s), "\n") {
			blocks = append(blocks, TextBlock{Paragraph: strings.TrimSpace(line)})
		}
	}
	for _, b := range blocks {
		if b.List != nil || b.Paragraph != "" {
			return Text{Blocks: blocks}, true
		}
	}
	return Text{}, false
}

func quotation(s *goquery.Selection) (Quotation, bool) {
	quote := value(s, ".se-quote||.se_quote||blockquote")
	if quote == "" {
		return Quotation{}, false
	}
	cite := collapseLines(value(s, ".se-cite||.se_cite"))
	if cite == defaultCitation {
		cite = ""
	}
	return Quotation{Quote: quote, Citation: cite}, true
}

func code(s *goquery.Selection) (Code, bool) {
	src := s.Find(".se-code-source, .se_code, pre, code").First()
	if src.Length() == 0 {
		return Code{}, false
	}
	body := codeBody(codeText(src))
	if strings.TrimSpace(body) == "" {
		return Code{}, false
	}
	return Code{Body: body}, true
}

// codeText 는 nodeText 와 같지만 블록 요소 뒤 줄바꿈은 다음 형제가 있을 때만 넣는다.
// 마지막 블록이 남기는 줄바꿈이 빈 줄로 보이지 않게 한다.
func codeText(s *goquery.Selection) string {
	var b strings.Builder
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
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
			walk(c)
		}
		if n.Type == html.ElementNode && blockTags[n.Data] && n.NextSibling != nil {
			b.WriteByte('\n')
		}
	}
	for _, n := range s.Nodes {
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	return invisible.Replace(b.String())
}

// codeBody 는 코드 앞뒤의 빈 줄을 하나씩만 벗긴다. 나머지 공백은 그대로 둔다.
func codeBody(s string) string {
	lines := strings.Split(s, "\n")
	if len(lines) > 1 && strings.TrimSpace(lines[0]) == "" {
		lines = lines[1:]
	}
	if len(lines) > 1 && strings.TrimSpace(lines[len(lines)-1]) == "" {
		lines = lines[:len(lines)-1]
	}
	return strings.Join(lines, "\n")
}

// imageComponents 는 그룹/스트립 이미지를 각각 하나의 Image 로 낸다. 캡션은 그룹이 공유한다.
func imageComponents(s *goquery.Selection) []Component {
	caption := collapseLines(value(s, ".se-caption||.se_caption"))
	imgs := s.Find("img, video")
	if imgs.Length() == 0 {
		return []Component{resolveImage(nil, s, caption)}
	}
	out := make([]Component, 0, imgs.Length())
	imgs.Each(func(_ int, img *goquery.Selection) {
		out = append(out, resolveImage(img, s, caption))
	})
	return out
}

type linkData struct {
	Title string `json:"title"`
	Link  string `json:"link"`
	Type  string `json:"type"`
}

func material(s *goquery.Selection) Material {
	raw := value(s, "a.se-module-material@data-linkdata||a.se_material@data-linkdata||[data-linkdata]@data-linkdata")
	var d linkData
	if raw == "" || json.Unmarshal([]byte(raw), &d) != nil || strings.TrimSpace(d.Link) == "" {
		return Material{}
	}
	title := strings.TrimSpace(d.Title)
	if title == "" {
		title = value(s, ".se-material-title||.se_material_title")
	}
	return Material{Title: title, Link: strings.TrimSpace(d.Link), Kind: strings.TrimSpace(d.Type)}
}

func ogLink(s *goquery.Selection) Material {
	link := value(s, "a.se-oglink-info@href||a.se-oglink-thumbnail@href||a@href")
	if link == "" {
		return Material{}
	}
	return Material{Title: collapseLines(value(s, ".se-oglink-title")), Link: link}
}

// extractLegacy 는 구형 본문 영역의 직계 자식을 순서대로 텍스트와 이미지로 나눈다.
func extractLegacy(c *goquery.Selection) []Component {
	var out []Component
	c.Children().Each(func(_ int, child *goquery.Selection) {
		if child.Is("script, style") {
			return
		}
		if raw := strings.TrimSpace(nodeText(child)); raw != "" {
			out = append(out, Unknown{RawText: raw})
		}
		imgs := child.Find("img")
		if child.Is("img") {
			imgs = child
		}
		imgs.Each(func(_ int, img *goquery.Selection) {
			out = append(out, resolveImage(img, child, strings.TrimSpace(img.AttrOr("title", ""))))
		})
	})
	if len(out) == 0 {
		if raw := strings.TrimSpace(nodeText(c)); raw != "" {
			out = append(out, Unknown{RawText: raw})
		}
	}
	return out
}

func collapseLines(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
