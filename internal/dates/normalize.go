// 패키지 dates 는 자유 형식의 날짜 문자열을 YYYY-MM-DD 로 정규화한다.
package dates

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/araddon/dateparse"
)

const (
	minYear = 1900
	maxYear = 2100 // 미포함
	layout  = "2006-01-02"
)

// rule 은 (패턴, 연/월/일 캡처 위치) 한 줄이다. 표의 순서가 곧 우선순위다.
type rule struct {
	name             string
	re               *regexp.Regexp
	year, month, day int
}

var rules = []rule{
	// 2024. 05. 22. 14:30
	{"naver-timestamp", regexp.MustCompile(`(\d{4})\.\s*(\d{1,2})\.\s*(\d{1,2})\.?\s+(\d{1,2}):(\d{2})`), 1, 2, 3},
	// 2024.05.22 / 2024-05-22 / 2024/5/22
	{"ymd", regexp.MustCompile(`(?:^|\D)(\d{4})\s*[./-]\s*(\d{1,2})\s*[./-]\s*(\d{1,2})(?:\D|$)`), 1, 2, 3},
	// 22.05.2024 / 22/05/2024
	{"dmy", regexp.MustCompile(`(?:^|\D)(\d{1,2})\s*[./-]\s*(\d{1,2})\s*[./-]\s*(\d{4})(?:\D|$)`), 3, 2, 1},
	// 2024년 5월 22일
	{"korean", regexp.MustCompile(`(\d{4})\s*년\s*(\d{1,2})\s*월\s*(\d{1,2})\s*일`), 1, 2, 3},
	// 20240522
	{"compact", regexp.MustCompile(`(?:^|\D)(\d{4})(\d{2})(\d{2})(?:\D|$)`), 1, 2, 3},
}

var (
	yearToken = regexp.MustCompile(`(?:^|\D)((?:19|20)\d{2})(?:\D|$)`)
	afterYear = regexp.MustCompile(`^\D{1,3}(\d{1,2})\D{1,3}(\d{1,2})(?:\D|$)`)
)

// Normalize 는 text 에서 날짜를 찾아 YYYY-MM-DD 로 돌려준다. 찾지 못하면 빈 문자열.
func Normalize(text string) string {
	text = strings.TrimSpace(text)
	if text == "" {
		return ""
	}
	for _, r := range rules {
		if d := r.apply(text); d != "" {
			return d
		}
	}
	if d := generic(text); d != "" {
		return d
	}
	return probeYear(text)
}

func (r rule) apply(text string) string {
	for _, m := range r.re.FindAllStringSubmatch(text, -1) {
		if d, ok := build(m[r.year], m[r.month], m[r.day]); ok {
			return d
		}
	}
	return ""
}

// build 는 캡처한 숫자로 날짜를 만들고, 재구성한 값이 입력과 정확히 같을 때만 인정한다.
// 2월 30일처럼 넘치는 값이 다음 달로 넘어가는 것을 막는다.
func build(ys, ms, ds string) (string, bool) {
	y, err1 := strconv.Atoi(ys)
	m, err2 := strconv.Atoi(ms)
	d, err3 := strconv.Atoi(ds)
	if err1 != nil || err2 != nil || err3 != nil {
		return "", false
	}
	if y < minYear || y >= maxYear {
		return "", false
	}
	t := time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
	if t.Year() != y || int(t.Month()) != m || t.Day() != d {
		return "", false
	}
	return t.Format(layout), true
}

var digitsOnly = regexp.MustCompile(`^\d+$`)

// generic 은 남은 형식을 dateparse 로 읽는다. 시간대가 없으면 UTC 로 본다.
// 숫자만 있는 값은 유닉스 시각으로 읽히므로 받지 않는다.
func generic(text string) string {
	if digitsOnly.MatchString(text) {
		return ""
	}
	t, err := dateparse.ParseIn(text, time.UTC)
	if err != nil {
		return ""
	}
	if t.Year() < minYear || t.Year() >= maxYear {
		return ""
	}
	return t.Format(layout)
}

// probeYear 는 최후 수단으로 4자리 연도 뒤의 숫자 두 묶음을 월/일로 시도한다.
func probeYear(text string) string {
	for _, loc := range yearToken.FindAllStringSubmatchIndex(text, -1) {
		year := text[loc[2]:loc[3]]
		m := afterYear.FindStringSubmatch(text[loc[3]:])
		if m == nil {
			continue
		}
		if d, ok := build(year, m[1], m[2]); ok {
			return d
		}
	}
	return ""
}
