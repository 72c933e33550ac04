// 패키지 images 는 본문 이미지 URL 의 채택 여부 판정과 원본 해상도 주소 변환을 담당한다.
package images

import (
	"regexp"
	"strings"
)

var (
	// UI/애니메이션/프로필/아이콘 류 파일명
	rejectURL = regexp.MustCompile(`(?i)(sticker|emoticon|emoji|storep-phinf|profile|blogpfthumb|/icons?/|icon_|_icon|ico_|btn_|button|loading|spinner|animat|spacer|blank\.gif|transparent\.gif|static\.blog\.naver\.net)`)
	// 캡션/대체 텍스트 쪽 동일한 휴리스틱
	rejectText = regexp.MustCompile(`(?i)(스티커|이모티콘|프로필|아이콘|sticker|emoticon|profile|icon)`)
	// 썸네일 크기 지정 파라미터: type=f100_100, type=s3, thumbnail=...
	thumbQuery = regexp.MustCompile(`(?i)[?&](type=(f|ff|s)\d+(_\d+)?|thumbnail=[^&#]*)(&|#|$)`)
	// 알려진 프로필 이미지 경로
	profilePaths = []string{
		"blogpfthumb-phinf.pstatic.net",
		"phinf.pstatic.net/profile",
		"/profile_image/",
		"ssl.pstatic.net/static/blog/",
	}

	// CDN 크기/형식/품질 파라미터
	cdnParam = regexp.MustCompile(`(?i)([?&])(type|w|h|width|height|quality|q|size|resize)=[^&#]*`)
	// 썸네일 경로 조각 (/thumb_300x300/ 등)
	thumbSegment = regexp.MustCompile(`(?i)/(thumb(nail)?_\d+x\d+|s\d+x\d+)/`)
	strayAmp     = regexp.MustCompile(`&{2,}`)
)

// Admit 은 이미지가 본문 이미지로 보이면 true 를 돌려준다.
func Admit(url, caption, alt string) bool {
	if strings.TrimSpace(url) == "" {
		return false
	}
	if rejectURL.MatchString(url) {
		return false
	}
	if rejectText.MatchString(caption) || rejectText.MatchString(alt) {
		return false
	}
	if thumbQuery.MatchString(url) {
		return false
	}
	lower := strings.ToLower(url)
	for _, p := range profilePaths {
		if strings.Contains(lower, p) {
			return false
		}
	}
	return true
}

// Enhance 는 CDN 크기/품질 파라미터와 썸네일 경로 조각을 지워 원본 해상도 주소를 만든다.
// 호스트와 나머지 경로는 건드리지 않는다.
func Enhance(url string) string {
	url = strings.TrimSpace(url)
	if url == "" {
		return ""
	}
	if strings.HasPrefix(url, "//") {
		url = "https:" + url
	}
	base, frag, _ := strings.Cut(url, "#")
	path, query, hasQuery := strings.Cut(base, "?")
	path = thumbSegment.ReplaceAllString(path, "/")
	if !hasQuery {
		return join(path, "", frag)
	}
	query = cdnParam.ReplaceAllString("?"+query, "$1")
	query = cleanQuery(query)
	return join(path, query, frag)
}

// cleanQuery 는 파라미터 제거 뒤 남은 ?& / && / 끝의 & 같은 구두점을 정리한다.
func cleanQuery(q string) string {
	q = strings.TrimPrefix(q, "?")
	q = strayAmp.ReplaceAllString(q, "&")
	q = strings.Trim(q, "&")
	return q
}

func join(path, query, frag string) string {
	out := path
	if query != "" {
		out += "?" + query
	}
	if frag != "" {
		out += "#" + frag
	}
	return out
}
