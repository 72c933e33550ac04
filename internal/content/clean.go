package content

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

// substantialRunes 보다 긴 줄이 나오면 머리말 정리를 멈춘다.
const substantialRunes = 10

var (
	spaceRun   = regexp.MustCompile(`[ \t\x{00A0}\x{3000}]+`)
	newlineRun = regexp.MustCompile(`\n{3,}`)

	// 본문 앞에 붙는 화면 요소 문구
	boilerplate = []*regexp.Regexp{
		regexp.MustCompile(`(?i)^(공유하기|구독하기|이웃추가|본문\s*기타\s*기능|본문\s*바로가기|블로그\s*홈|URL\s*복사|신고하기|카테고리\s*이동|전체\s*보기|목록\s*열기|맨\s*위로|프롤로그|share|subscribe|copy\s*url)$`),
		regexp.MustCompile(`(?i)^(조회수?|공감|댓글|views?)\s*[\d,]+\s*(회|개)?$`),
		regexp.MustCompile(`(?i)^[\d,]+\s*(views?|회\s*조회)$`),
		// 카테고리 경로: "여행 > 국내 > 제주"
		regexp.MustCompile(`^[^>\s][^>]{0,30}(\s+>\s+[^>]{1,30})+$`),
	}
)

// cleanup 은 렌더링된 Markdown 을 정리한다.
// 줄바꿈 통일, NFC 정규화, 코드 펜스 밖 공백 정리, 3줄 이상 빈 줄 축소, 머리말 문구 제거.
func cleanup(md string) string {
	md = strings.ReplaceAll(md, "\r\n", "\n")
	md = strings.ReplaceAll(md, "\r", "\n")
	md = invisible.Replace(norm.NFC.String(md))

	lines := strings.Split(md, "\n")
	inFence := false
	for i, l := range lines {
		if strings.HasPrefix(strings.TrimSpace(l), "```") {
			inFence = !inFence
			lines[i] = strings.TrimSpace(l)
			continue
		}
		if inFence {
			lines[i] = strings.TrimRight(l, " \t")
			continue
		}
		lines[i] = strings.TrimSpace(spaceRun.ReplaceAllString(l, " "))
	}
	lines = stripBoilerplate(lines)

	md = strings.Join(lines, "\n")
	md = newlineRun.ReplaceAllString(md, "\n\n")
	return strings.TrimSpace(md)
}

// stripBoilerplate 는 첫 번째 충분히 긴 줄이나 코드 펜스가 나올 때까지 머리말 문구 줄을 지운다.
func stripBoilerplate(lines []string) []string {
	out := make([]string, 0, len(lines))
	for i, l := range lines {
		switch {
		case isBoilerplate(l):
			continue
		case strings.HasPrefix(l, "```"), utf8.RuneCountInString(l) > substantialRunes:
			return append(out, lines[i:]...)
		default:
			out = append(out, l)
		}
	}
	return out
}

func isBoilerplate(l string) bool {
	if l == "" || strings.HasPrefix(l, ">") || strings.HasPrefix(l, "```") {
		return false
	}
	for _, re := range boilerplate {
		if re.MatchString(l) {
			return true
		}
	}
	return false
}
