package naver

import (
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

// Ref 는 단일 게시글 가져오기의 입력을 {blogId, logNo} 로 나눈 것이다.
type Ref struct {
	BlogID string
	LogNo  string
}

var (
	bareLogNo = regexp.MustCompile(`^\d{8,15}$`)
	blogIDRe  = regexp.MustCompile(`^[A-Za-z0-9_-]{1,50}$`)

	ErrNoBlogID = errors.New("blog id required for bare post number")
)

// ParseRef 는 정식 URL, 모바일 URL, PostView 쿼리 URL, 숫자만 있는 logNo 를 해석한다.
// 숫자만 주어지면 defaultBlogID 를 쓴다.
func ParseRef(input, defaultBlogID string) (Ref, error) {
	s := strings.TrimSpace(input)
	if s == "" {
		return Ref{}, errors.New("empty post reference")
	}
	if bareLogNo.MatchString(s) {
		if defaultBlogID == "" {
			return Ref{}, ErrNoBlogID
		}
		return Ref{BlogID: defaultBlogID, LogNo: s}, nil
	}
	if !strings.Contains(s, "://") {
		s = "https://" + s
	}
	u, err := url.Parse(s)
	if err != nil {
		return Ref{}, fmt.Errorf("parse post url %q: %w", input, err)
	}
	q := u.Query()
	if id, no := q.Get("blogId"), q.Get("logNo"); id != "" && bareLogNo.MatchString(no) {
		return Ref{BlogID: id, LogNo: no}, nil
	}
	parts := strings.FieldsFunc(u.Path, func(r rune) bool { return r == '/' })
	if len(parts) >= 2 && blogIDRe.MatchString(parts[0]) && bareLogNo.MatchString(parts[1]) {
		return Ref{BlogID: parts[0], LogNo: parts[1]}, nil
	}
	return Ref{}, fmt.Errorf("unrecognized post reference %q", input)
}
