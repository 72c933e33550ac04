package content

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/text/unicode/norm"

	"go-naver-importer/internal/dates"
	"go-naver-importer/internal/model"
)

// 제목 후보. 앞에서부터 처음 값이 나오는 것을 쓴다.
var titleRules = []string{
	".se-documentTitle .se-title-text",
	".se-title-text",
	".se_title .se_textarea",
	".pcol1 .itemSubjectBoldfont",
	".htitle",
	`meta[property="og:title"]@content`,
	`meta[name="twitter:title"]@content`,
	"title",
}

var (
	platformSuffix = regexp.MustCompile(`(?i)\s*(?:[:|\-–—]\s*)?(?:네이버\s*블로그|naver\s*blog)\s*$`)
	bracketPrefix  = regexp.MustCompile(`^[\[【「〔<][^\]】」〕>]*[\]】」〕>]\s*`)
	bracketSuffix  = regexp.MustCompile(`\s*[\[【「〔<][^\[【「〔<]*[\]】」〕>]$`)
	bracketWhole   = regexp.MustCompile(`^[\[【「〔<]([^\[【「〔<\]】」〕>]+)[\]】」〕>]$`)
)

// 블로그 이름 앞에 오는 구분자
var siteSeparators = []string{"-", "–", "—", "|", ":", "·"}

// 작성자(닉네임) 후보
var authorRules = []string{
	".nick",
	".se_author",
	".writer",
	`meta[name="author"]@content`,
}

// 카테고리 후보
var categoryRules = []string{
	".blog2_series",
	".se_category",
	`meta[property="article:section"]@content`,
}

func extractTitle(doc *goquery.Document, author string) string {
	names := []string{value(doc.Selection, `meta[property="og:site_name"]@content`), author}
	for _, r := range titleRules {
		if t := CleanTitle(value(doc.Selection, r), names...); t != "" {
			return t
		}
	}
	return ""
}

// CleanTitle 은 공백을 정리하고 플랫폼 접미사와 괄호로 감싼 머리말/꼬리말을 한 겹 벗긴다.
// siteNames 중 하나가 " - 이름" 꼴로 끝에 붙어 있으면 그것도 뗀다.
func CleanTitle(s string, siteNames ...string) string {
	s = collapseLines(norm.NFC.String(s))
	if s == "" {
		return ""
	}
	s = strings.TrimSpace(platformSuffix.ReplaceAllString(s, ""))
	s = trimSiteName(s, siteNames)
	if m := bracketWhole.FindStringSubmatch(s); m != nil {
		return strings.TrimSpace(m[1])
	}
	s = strings.TrimSpace(bracketPrefix.ReplaceAllString(s, ""))
	return strings.TrimSpace(bracketSuffix.ReplaceAllString(s, ""))
}

func trimSiteName(s string, names []string) string {
	for _, name := range names {
		name = collapseLines(norm.NFC.String(name))
		if name == "" {
			continue
		}
		for _, sep := range siteSeparators {
			suffix := " " + sep + " " + name
			if strings.HasSuffix(s, suffix) && len(s) > len(suffix) {
				return strings.TrimSpace(strings.TrimSuffix(s, suffix))
			}
		}
	}
	return s
}

func extractAuthor(doc *goquery.Document) string {
	for _, r := range authorRules {
		if v := collapseLines(value(doc.Selection, r)); v != "" {
			return v
		}
	}
	return ""
}

func extractCategory(doc *goquery.Document) string {
	for _, r := range categoryRules {
		if v := collapseLines(value(doc.Selection, r)); v != "" {
			return v
		}
	}
	return ""
}

// firstImage 는 본문에서 처음 채택된 이미지를 미리보기로 쓴다.
func firstImage(comps []Component) *model.PreviewImage {
	for _, c := range comps {
		im, ok := c.(Image)
		if !ok || im.Src == "" || im.Rejected {
			continue
		}
		alt := im.AltText
		if alt == "" {
			alt = im.Caption
		}
		return &model.PreviewImage{URL: im.Src, Alt: alt}
	}
	return nil
}

// 날짜 메타 태그 후보
var dateMetaRules = []string{
	`meta[property="article:published_time"]@content`,
	`meta[property="og:article:published_time"]@content`,
	`meta[name="article:published_time"]@content`,
	`meta[itemprop="datePublished"]@content`,
	`meta[name="publish_date"]@content`,
	`meta[name="date"]@content`,
	`meta[property="article:modified_time"]@content`,
	`meta[property="og:updated_time"]@content`,
}

// 화면에 보이는 날짜 요소. 속성 값을 텍스트보다 먼저 본다.
var dateElements = []string{
	".se_publishDate",
	".se-date",
	".blog_date",
	".se_date",
	".date",
	"time",
	"span.date",
	"p.date",
}

var dateAttrs = []string{"datetime", "data-date", "content", "title"}

// 스크립트 안의 날짜 패턴. 첫 캡처 그룹이 후보다.
var scriptDateRules = []*regexp.Regexp{
	regexp.MustCompile(`"(?:publishDate|addDate|writeDate|createDate|regDate|postDate|datePublished)"\s*:\s*"([^"]{6,40})"`),
	regexp.MustCompile(`'(?:publishDate|addDate|writeDate|createDate|regDate|postDate)'\s*:\s*'([^']{6,40})'`),
	regexp.MustCompile(`(?:publishDate|addDate|writeDate)\s*[:=]\s*["']([^"']{6,40})["']`),
	regexp.MustCompile(`(\d{4}\s*년\s*\d{1,2}\s*월\s*\d{1,2}\s*일)`),
	regexp.MustCompile(`(\d{4}-\d{2}-\d{2}(?:T[\d:.]+)?)`),
	regexp.MustCompile(`(\d{4}\.\s*\d{1,2}\.\s*\d{1,2}\.?)`),
}

func extractDate(doc *goquery.Document, scripts []string) string {
	for _, r := range dateMetaRules {
		if d := dates.Normalize(value(doc.Selection, r)); d != "" {
			return d
		}
	}
	for _, sel := range dateElements {
		exprs := make([]string, 0, len(dateAttrs)+1)
		for _, a := range dateAttrs {
			exprs = append(exprs, sel+"@"+a)
		}
		exprs = append(exprs, sel)
		for _, e := range exprs {
			if d := dates.Normalize(value(doc.Selection, e)); d != "" {
				return d
			}
		}
	}
	return dateFromScripts(scripts)
}

func dateFromScripts(scripts []string) string {
	for _, re := range scriptDateRules {
		for _, s := range scripts {
			for _, m := range re.FindAllStringSubmatch(s, -1) {
				if d := dates.Normalize(m[1]); d != "" {
					return d
				}
			}
		}
	}
	return ""
}
