package discover

import (
	"encoding/json"
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"go-naver-importer/internal/content"
	"go-naver-importer/internal/dates"
	"go-naver-importer/internal/logx"
	"go-naver-importer/internal/model"
	"go-naver-importer/internal/naver"
)

// anchorRule 은 요소 속성 하나에서 logNo 를 꺼내는 규칙이다.
// blogGroup 이 0 이 아니면 그 캡처가 대상 블로그 ID 와 같아야 한다.
type anchorRule struct {
	attr      string
	re        *regexp.Regexp
	group     int
	blogGroup int
}

var anchorRules = []anchorRule{
	{attr: "href", re: regexp.MustCompile(`[?&](?i:logNo)=(\d+)`), group: 1},
	{attr: "href", re: regexp.MustCompile(`(?:^|/)([A-Za-z0-9_-]+)/(\d+)(?:[/?#]|$)`), group: 2, blogGroup: 1},
	{attr: "onclick", re: regexp.MustCompile(`(?i)logNo['"]?\s*[:=,]\s*['"]?(\d+)`), group: 1},
	{attr: "onclick", re: regexp.MustCompile(`\(\s*['"]?(\d+)['"]?\s*[,)]`), group: 1},
	{attr: "data-log-no", re: regexp.MustCompile(`^\s*(\d+)\s*$`), group: 1},
	{attr: "data-logno", re: regexp.MustCompile(`^\s*(\d+)\s*$`), group: 1},
	{attr: "logno", re: regexp.MustCompile(`^\s*(\d+)\s*$`), group: 1},
}

// 스크립트 안의 logNo 토큰. 순서가 우선순위다.
var scriptRules = []*regexp.Regexp{
	regexp.MustCompile(`"logNo"\s*:\s*"?(\d+)`),
	regexp.MustCompile(`'logNo'\s*:\s*'?(\d+)`),
	regexp.MustCompile(`\blogNo\s*[:=]\s*['"]?(\d+)`),
	regexp.MustCompile(`[?&]logNo=(\d+)`),
	regexp.MustCompile(`"(?:postNo|logno|log_no)"\s*:\s*"?(\d+)`),
}

// bareNumber 는 맥락 없이 12~15자리 숫자만 보는 느슨한 규칙이다. StrictScriptScan 이면 쓰지 않는다.
var bareNumber = regexp.MustCompile(`\b(\d{12,15})\b`)

// ParsePage 는 목록 페이지 본문에서 스텁을 뽑는다.
// 제목 목록 JSON, 링크 요소, 스크립트 순으로 보고 logNo 가 겹치면 먼저 나온 것을 남긴다.
func (d *Discoverer) ParsePage(body, blogID string) []model.PostStub {
	acc := newAccumulator()
	acc.add(d.fromListing(body, blogID))

	trimmed := strings.TrimSpace(body)
	if strings.HasPrefix(trimmed, "{") {
		return acc.stubs
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
	if err != nil {
		logx.Debugf("목록 HTML 해석 실패: %v", err)
		return acc.stubs
	}
	acc.add(d.fromAnchors(doc, blogID))
	acc.add(d.fromScripts(doc, blogID))
	return acc.stubs
}

func (d *Discoverer) stub(blogID, logNo string) model.PostStub {
	return model.PostStub{LogNo: logNo, URL: d.ep.CanonicalPostURL(blogID, logNo)}
}

func (d *Discoverer) fromAnchors(doc *goquery.Document, blogID string) []model.PostStub {
	var out []model.PostStub
	doc.Find("a[href], [onclick], [data-log-no], [data-logno], [logno]").Each(func(_ int, s *goquery.Selection) {
		logNo := matchAnchor(s, blogID)
		if logNo == "" {
			return
		}
		st := d.stub(blogID, logNo)
		st.Title = content.CleanTitle(s.Text())
		if src := strings.TrimSpace(s.Find("img").AttrOr("src", "")); strings.HasPrefix(src, "http") {
			st.Thumbnail = src
		}
		out = append(out, st)
	})
	return out
}

func matchAnchor(s *goquery.Selection, blogID string) string {
	for _, r := range anchorRules {
		v, ok := s.Attr(r.attr)
		if !ok {
			continue
		}
		for _, m := range r.re.FindAllStringSubmatch(v, -1) {
			if r.blogGroup > 0 && !strings.EqualFold(m[r.blogGroup], blogID) {
				continue
			}
			if naver.ValidListLogNo.MatchString(m[r.group]) {
				return m[r.group]
			}
		}
	}
	return ""
}

func (d *Discoverer) fromScripts(doc *goquery.Document, blogID string) []model.PostStub {
	var scripts []string
	doc.Find("script").Each(func(_ int, s *goquery.Selection) {
		if t := s.Text(); strings.TrimSpace(t) != "" {
			scripts = append(scripts, t)
		}
	})
	rules := scriptRules
	if !d.opts.StrictScriptScan {
		rules = append(rules[:len(rules):len(rules)], bareNumber)
	}
	var out []model.PostStub
	for _, re := range rules {
		for _, text := range scripts {
			for _, m := range re.FindAllStringSubmatch(text, -1) {
				if naver.ValidListLogNo.MatchString(m[1]) {
					out = append(out, d.stub(blogID, m[1]))
				}
			}
		}
	}
	return out
}

// listing 은 제목 목록 JSON 응답이다.
type listing struct {
	ResultCode string        `json:"resultCode"`
	PostList   []listingItem `json:"postList"`
}

type listingItem struct {
	LogNo   flexString `json:"logNo"`
	Title   string     `json:"title"`
	AddDate string     `json:"addDate"`
}

// flexString 은 따옴표가 있든 없든 JSON 값을 문자열로 받는다.
type flexString string

func (f *flexString) UnmarshalJSON(b []byte) error {
	*f = flexString(strings.Trim(strings.TrimSpace(string(b)), `"`))
	return nil
}

// fromListing 은 제목 목록 JSON 을 디코딩한다. 응답에 섞인 \' 는 JSON 에서 허용되지 않아 미리 푼다.
func (d *Discoverer) fromListing(body, blogID string) []model.PostStub {
	trimmed := strings.TrimSpace(body)
	if !strings.HasPrefix(trimmed, "{") || !strings.Contains(trimmed, "postList") {
		return nil
	}
	var l listing
	if err := json.Unmarshal([]byte(strings.ReplaceAll(trimmed, `\'`, `'`)), &l); err != nil {
		logx.Debugf("제목 목록 JSON 해석 실패: %v", err)
		return nil
	}
	out := make([]model.PostStub, 0, len(l.PostList))
	for _, it := range l.PostList {
		logNo := string(it.LogNo)
		if !naver.ValidListLogNo.MatchString(logNo) {
			continue
		}
		st := d.stub(blogID, logNo)
		st.Title = decodeTitle(it.Title)
		st.Date = dates.Normalize(it.AddDate)
		out = append(out, st)
	}
	return out
}

// decodeTitle 은 URL 인코딩을 풀고 제목을 정리한다.
func decodeTitle(s string) string {
	if t, err := url.QueryUnescape(s); err == nil {
		s = t
	}
	return content.CleanTitle(s)
}

// joinURL 은 상대 경로를 base 기준 절대 주소로 바꾼다.
func joinURL(base, ref string) string {
	if strings.HasPrefix(ref, "http") {
		return ref
	}
	u, err := url.Parse(base)
	if err != nil {
		return base + ref
	}
	ru, err := url.Parse(ref)
	if err != nil {
		return base + ref
	}
	return u.ResolveReference(ru).String()
}
