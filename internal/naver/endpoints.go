// 패키지 naver 는 원본 블로그 플랫폼의 주소 템플릿과 게시글 참조 해석을 담당한다.
package naver

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

const (
	DefaultBlog   = "https://blog.naver.com"
	DefaultMobile = "https://m.blog.naver.com"
	DefaultRSS    = "https://rss.blog.naver.com"
)

// Endpoints 는 원본 사이트의 기준 주소 묶음이다.
type Endpoints struct {
	Blog   string
	Mobile string
	RSS    string
}

// DefaultEndpoints 는 실제 서비스 주소를 돌려준다.
func DefaultEndpoints() Endpoints {
	return Endpoints{Blog: DefaultBlog, Mobile: DefaultMobile, RSS: DefaultRSS}
}

// WithDefaults 는 빈 필드를 기본 주소로 채운다.
func (e Endpoints) WithDefaults() Endpoints {
	if e.Blog == "" {
		e.Blog = DefaultBlog
	}
	if e.Mobile == "" {
		e.Mobile = DefaultMobile
	}
	if e.RSS == "" {
		e.RSS = DefaultRSS
	}
	e.Blog = strings.TrimRight(e.Blog, "/")
	e.Mobile = strings.TrimRight(e.Mobile, "/")
	e.RSS = strings.TrimRight(e.RSS, "/")
	return e
}

// ListPageURLs 는 한 페이지의 목록 주소 후보를 우선순위대로 돌려준다.
// 1) 제목 목록 JSON 2) 데스크톱 PostList 3) 모바일 PostList
func (e Endpoints) ListPageURLs(blogID string, page int) []string {
	id := url.QueryEscape(blogID)
	return []string{
		fmt.Sprintf("%s/PostTitleListAsync.naver?blogId=%s&viewdate=&currentPage=%d&categoryNo=0&parentCategoryNo=&countPerPage=30", e.Blog, id, page),
		fmt.Sprintf("%s/PostList.naver?blogId=%s&currentPage=%d&categoryNo=0", e.Blog, id, page),
		fmt.Sprintf("%s/PostList.naver?blogId=%s&currentPage=%d", e.Mobile, id, page),
	}
}

// PostURLs 는 한 게시글의 주소 후보를 우선순위대로 돌려준다.
// 정식 경로형, 그리고 쿼리 파라미터형 두 가지.
func (e Endpoints) PostURLs(blogID, logNo string) []string {
	id := url.QueryEscape(blogID)
	return []string{
		e.CanonicalPostURL(blogID, logNo),
		fmt.Sprintf("%s/PostView.naver?blogId=%s&logNo=%s&redirect=Dlog&widgetTypeCall=true&directAccess=false", e.Blog, id, logNo),
		fmt.Sprintf("%s/PostView.naver?blogId=%s&logNo=%s", e.Mobile, id, logNo),
	}
}

func (e Endpoints) CanonicalPostURL(blogID, logNo string) string {
	return fmt.Sprintf("%s/%s/%s", e.Blog, url.PathEscape(blogID), logNo)
}

func (e Endpoints) LandingURL(blogID string) string {
	return fmt.Sprintf("%s/%s", e.Blog, url.PathEscape(blogID))
}

func (e Endpoints) RSSURL(blogID string) string {
	return fmt.Sprintf("%s/%s.xml", e.RSS, url.PathEscape(blogID))
}

func (e Endpoints) TagListURL(blogID, logNo string) string {
	return fmt.Sprintf("%s/BlogTagListInfo.naver?blogId=%s&logNoList=%s&logType=mylog", e.Blog, url.QueryEscape(blogID), logNo)
}

// ValidListLogNo 는 목록 스캔에서 허용하는 logNo(12~15자리)다.
// 더 짧은 숫자는 페이지 번호 같은 잡음으로 본다.
var ValidListLogNo = regexp.MustCompile(`^\d{12,15}$`)
