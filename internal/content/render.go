package content

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

// 본문에 표시하는 자리표시자
const (
	placeholderMaterial = "[자료]"
	placeholderVideo    = "[동영상]"
	placeholderEmbed    = "[외부 콘텐츠]"
	placeholderTable    = "[표]"
	placeholderImage    = "[이미지]"
)

// minUnknownRunes 보다 짧은 미분류 텍스트 조각은 버린다.
const minUnknownRunes = 2

var (
	hashtagLine = regexp.MustCompile(`^#[^\s#]`)
	blankLine   = regexp.MustCompile(`\n[ \t]*\n`)
)

// Render 는 컴포넌트를 Markdown 으로 만든다. 비어 있지 않은 조각은 빈 줄 하나로 구분된다.
func Render(comps []Component) string {
	parts := make([]string, 0, len(comps))
	for _, c := range comps {
		if s := strings.TrimRight(renderOne(c), "\n"); strings.TrimSpace(s) != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, "\n\n")
}

func renderOne(c Component) string {
	switch v := c.(type) {
	case Text:
		return renderText(v)
	case SectionTitle:
		return "## " + v.Text
	case Quotation:
		return renderQuote(v)
	case Image:
		return renderImage(v)
	case Code:
		return "```\n" + v.Body + "\n```"
	case HorizontalRule:
		return "---"
	case Material:
		if v.Link == "" {
			return placeholderMaterial
		}
		title := v.Title
		if title == "" {
			title = v.Link
		}
		s := fmt.Sprintf("[%s](%s)", escapeLabel(title), v.Link)
		if v.Kind != "" {
			s += " (" + v.Kind + ")"
		}
		return s
	case Video:
		return placeholderVideo
	case Embed:
		return placeholderEmbed
	case Table:
		return placeholderTable
	case Unknown:
		return renderUnknown(v)
	default:
		panic(fmt.Sprintf("content: 알 수 없는 컴포넌트 %T", c))
	}
}

func renderText(t Text) string {
	var lines []string
	for _, b := range t.Blocks {
		if b.List != nil {
			for i, item := range b.List.Items {
				if b.List.Ordered {
					lines = append(lines, fmt.Sprintf("%d. %s", i+1, item))
				} else {
					lines = append(lines, "- "+item)
				}
			}
			continue
		}
		for _, line := range strings.Split(b.Paragraph, "\n") {
			line = strings.TrimSpace(line)
			if hashtagLine.MatchString(line) {
				continue
			}
			lines = append(lines, line)
		}
	}
	return strings.Trim(strings.Join(lines, "\n"), "\n")
}

func renderQuote(q Quotation) string {
	var lines []string
	for _, line := range strings.Split(strings.TrimSpace(q.Quote), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			lines = append(lines, ">")
			continue
		}
		lines = append(lines, "> "+line)
	}
	if q.Citation != "" && q.Citation != defaultCitation {
		lines = append(lines, ">", "> — "+q.Citation)
	}
	return strings.Join(lines, "\n")
}

func renderImage(im Image) string {
	if im.Src != "" && !im.Rejected {
		label := im.Caption
		if label == "" {
			label = im.AltText
		}
		return fmt.Sprintf("![%s](%s)", escapeLabel(label), im.Src)
	}
	if im.Caption != "" {
		return "[이미지: " + im.Caption + "]"
	}
	return placeholderImage
}

// renderUnknown 은 빈 줄로 나눈 조각 중 해시태그 줄을 빼고 충분히 긴 것만 남긴다.
func renderUnknown(u Unknown) string {
	var chunks []string
	for _, chunk := range blankLine.Split(u.RawText, -1) {
		var lines []string
		for _, line := range strings.Split(chunk, "\n") {
			if line = strings.TrimSpace(line); line != "" && !hashtagLine.MatchString(line) {
				lines = append(lines, line)
			}
		}
		chunk = strings.Join(lines, "\n")
		if utf8.RuneCountInString(chunk) < minUnknownRunes {
			continue
		}
		chunks = append(chunks, chunk)
	}
	return strings.Join(chunks, "\n\n")
}

func escapeLabel(s string) string {
	s = collapseLines(s)
	return strings.NewReplacer("[", `\[`, "]", `\]`).Replace(s)
}
