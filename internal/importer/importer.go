// 패키지 importer 는 목록 발견과 게시글별 본문 파싱을 순서대로 엮는다.
// - 배치: 발견 → (선택) 건너뛰기/개수 제한 → 게시글마다 FetchOne, 실패는 오류 문서로 대체
// - 단일: FetchSingle 은 실패를 그대로 돌려준다
// - 게시글 사이에는 예의상 간격을 두고, 취소는 게시글 시작 전에 확인한다
package importer

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"golang.org/x/time/rate"

	"go-naver-importer/internal/content"
	"go-naver-importer/internal/fetch"
	"go-naver-importer/internal/logx"
	"go-naver-importer/internal/model"
	"go-naver-importer/internal/naver"
)

// ErrEmptyContent 는 응답은 받았지만 본문을 추출하지 못한 경우다.
var ErrEmptyContent = errors.New("no extractable content")

// FetchError 는 게시글 주소 후보를 모두 시도했지만 실패한 경우다. 시도별 오류를 담는다.
type FetchError struct {
	BlogID   string
	LogNo    string
	Attempts []error
}

func (e *FetchError) Error() string {
	if len(e.Attempts) == 0 {
		return fmt.Sprintf("fetch post %s/%s: no url templates", e.BlogID, e.LogNo)
	}
	return fmt.Sprintf("fetch post %s/%s failed after %d attempts: %v", e.BlogID, e.LogNo, len(e.Attempts), e.Attempts[len(e.Attempts)-1])
}

func (e *FetchError) Unwrap() []error { return e.Attempts }

// Discoverer 는 블로그 ID 로 스텁 목록을 찾는다.
type Discoverer interface {
	Discover(ctx context.Context, blogID string, pageCap, stubCap int) ([]model.PostStub, error)
}

// Options 는 Importer 의 동작을 정한다. 0 값은 제한 없음/간격 없음이다.
type Options struct {
	PageCap   int
	StubCap   int
	PostDelay time.Duration
	// Skip 이 true 를 돌려준 스텁은 가져오지 않는다(이미 가져온 글 등).
	Skip func(model.PostStub) bool
	// OnProgress 는 게시글 하나가 끝날 때마다 순서대로 불린다.
	OnProgress func(done, total int, post model.Post)
	// Now 는 날짜 기본값과 오류 문서 시각에 쓴다. nil 이면 time.Now.
	Now func() time.Time
}

// Importer 는 한 블로그의 게시글을 하나씩 가져온다.
type Importer struct {
	cl    fetch.Getter
	disc  Discoverer
	ep    naver.Endpoints
	opts  Options
	pacer *rate.Limiter
}

// New 는 Importer 를 만든다. 게시글 간격은 opts.PostDelay 로 정해진다.
func New(cl fetch.Getter, disc Discoverer, ep naver.Endpoints, opts Options) *Importer {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Importer{
		cl:    cl,
		disc:  disc,
		ep:    ep.WithDefaults(),
		opts:  opts,
		pacer: fetch.NewPacer(opts.PostDelay),
	}
}

// FetchBatch 는 발견된 스텁마다 정확히 하나의 Post 를 돌려준다.
// maxPosts 가 0 보다 크면 그 수만큼만 가져온다. 취소되면 그때까지의 결과와 ctx 오류를 돌려준다.
func (im *Importer) FetchBatch(ctx context.Context, blogID string, maxPosts int) ([]model.Post, error) {
	stubs, err := im.disc.Discover(ctx, blogID, im.opts.PageCap, im.opts.StubCap)
	if err != nil {
		return nil, fmt.Errorf("discover %s: %w", blogID, err)
	}
	found := len(stubs)
	if im.opts.Skip != nil {
		kept := stubs[:0:0]
		for _, st := range stubs {
			if !im.opts.Skip(st) {
				kept = append(kept, st)
			}
		}
		stubs = kept
	}
	if maxPosts > 0 && len(stubs) > maxPosts {
		stubs = stubs[:maxPosts]
	}
	logx.Infof("블로그 %s: 발견 %d개, 가져올 글 %d개", blogID, found, len(stubs))

	posts := make([]model.Post, 0, len(stubs))
	for i, st := range stubs {
		if err := ctx.Err(); err != nil {
			return posts, err
		}
		if err := im.pacer.Wait(ctx); err != nil {
			return posts, err
		}
		var post model.Post
		pc, err := im.FetchOne(ctx, blogID, st.LogNo)
		switch {
		case err != nil && ctx.Err() != nil:
			return posts, ctx.Err()
		case err != nil:
			logx.Warnf("[%d/%d] %s 가져오기 실패: %v", i+1, len(stubs), st.LogNo, err)
			post = im.errorPost(blogID, st, err)
		default:
			post = im.buildPost(blogID, st, pc)
			logx.Infof("[%d/%d] %s %s", i+1, len(stubs), st.LogNo, post.Title)
		}
		posts = append(posts, post)
		if im.opts.OnProgress != nil {
			im.opts.OnProgress(i+1, len(stubs), post)
		}
	}
	return posts, nil
}

// FetchOne 은 게시글 주소 후보를 차례로 시도해 본문이 나온 첫 결과를 돌려준다.
// 모두 실패하면 *FetchError 다.
func (im *Importer) FetchOne(ctx context.Context, blogID, logNo string) (model.ParsedContent, error) {
	fe := &FetchError{BlogID: blogID, LogNo: logNo}
	for _, u := range im.ep.PostURLs(blogID, logNo) {
		body, err := im.cl.GetString(ctx, u)
		if err != nil {
			fe.Attempts = append(fe.Attempts, fmt.Errorf("GET %s: %w", u, err))
			if ctx.Err() != nil {
				break
			}
			continue
		}
		pc := content.Parse(body)
		if !usable(pc) {
			logx.Debugf("본문 없음: %s", u)
			fe.Attempts = append(fe.Attempts, fmt.Errorf("parse %s: %w", u, ErrEmptyContent))
			continue
		}
		return pc, nil
	}
	return model.ParsedContent{}, fe
}

// FetchSingle 은 사용자가 지정한 게시글 하나를 가져온다. 실패해도 오류 문서를 만들지 않는다.
func (im *Importer) FetchSingle(ctx context.Context, blogID, logNo string) (model.Post, error) {
	pc, err := im.FetchOne(ctx, blogID, logNo)
	if err != nil {
		return model.Post{}, err
	}
	return im.buildPost(blogID, model.PostStub{LogNo: logNo}, pc), nil
}

// 비공개/삭제 안내 페이지 문구
var sentinels = []string{
	"존재하지 않는 게시물",
	"삭제되었거나 존재하지 않는",
	"비공개 글입니다",
	"접근 권한이 없",
	"일시적인 오류",
}

const sentinelMaxRunes = 300

func usable(pc model.ParsedContent) bool {
	if !pc.HasContent() {
		return false
	}
	if strings.HasPrefix(pc.Content, model.ErrorTitlePrefix) {
		return false
	}
	if utf8.RuneCountInString(pc.Content) > sentinelMaxRunes {
		return true
	}
	for _, s := range sentinels {
		if strings.Contains(pc.Content, s) {
			return false
		}
	}
	return true
}

// buildPost 는 파싱 결과에 스텁 메타데이터를 합친다.
// 제목: 파싱 → (정리한) 스텁 → logNo, 날짜: 파싱 → 스텁 → 오늘.
func (im *Importer) buildPost(blogID string, st model.PostStub, pc model.ParsedContent) model.Post {
	p := model.Post{
		PostStub: st,
		Content:  pc.Content,
		Author:   pc.Author,
		Category: pc.Category,
		Image:    pc.Image,
	}
	p.Title = firstNonEmpty(pc.Title, content.CleanTitle(st.Title), st.LogNo)
	p.Date = firstNonEmpty(pc.Date, st.Date, im.today())
	if p.URL == "" {
		p.URL = im.ep.CanonicalPostURL(blogID, st.LogNo)
	}
	return p
}

func (im *Importer) today() string {
	return im.opts.Now().Format("2006-01-02")
}

func firstNonEmpty(vs ...string) string {
	for _, v := range vs {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
