// 패키지 discover 는 블로그 ID 로 게시글 목록(스텁)을 찾는다.
// - 페이지별로 목록 주소 후보를 차례로 시도하고, 스텁이 나온 첫 후보를 채택
// - 빈 페이지를 만나면 종료, 페이지 사이에는 예의상 간격을 둔다
// - 하나도 못 찾으면 블로그 첫 화면, 그다음 RSS 를 한 번씩 본다
package discover

import (
	"context"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/time/rate"

	"go-naver-importer/internal/fetch"
	"go-naver-importer/internal/logx"
	"go-naver-importer/internal/model"
	"go-naver-importer/internal/naver"
)

// Options 는 Discoverer 의 요청 간격과 스크립트 검색 방식을 정한다.
type Options struct {
	// PageDelay 는 목록 페이지 요청 사이의 간격이다.
	PageDelay time.Duration
	// StrictScriptScan 이 true 면 스크립트 안의 맨 숫자(12~15자리)를 logNo 로 보지 않는다.
	StrictScriptScan bool
}

// Discoverer 는 목록 페이지를 순서대로 읽어 스텁을 모은다.
type Discoverer struct {
	cl    fetch.Getter
	ep    naver.Endpoints
	opts  Options
	pacer *rate.Limiter
}

// New 는 Discoverer 를 만든다. ep 의 빈 항목은 기본 주소로 채운다.
func New(cl fetch.Getter, ep naver.Endpoints, opts Options) *Discoverer {
	return &Discoverer{
		cl:    cl,
		ep:    ep.WithDefaults(),
		opts:  opts,
		pacer: fetch.NewPacer(opts.PageDelay),
	}
}

// Discover 는 최대 pageCap 페이지, stubCap 개까지 스텁을 모아 발견 순서대로 돌려준다.
// stubCap 이 0 이하면 개수 제한이 없다. 아무것도 못 찾는 것은 오류가 아니다.
// 오류는 ctx 취소뿐이며, 그때까지 모은 스텁을 함께 돌려준다.
func (d *Discoverer) Discover(ctx context.Context, blogID string, pageCap, stubCap int) ([]model.PostStub, error) {
	if pageCap <= 0 {
		pageCap = 1
	}
	acc := newAccumulator()
	for page := 1; page <= pageCap; page++ {
		if stubCap > 0 && acc.len() >= stubCap {
			break
		}
		if err := d.pacer.Wait(ctx); err != nil {
			return acc.list(stubCap), err
		}
		stubs := d.fetchPage(ctx, blogID, page)
		if err := ctx.Err(); err != nil {
			return acc.list(stubCap), err
		}
		if len(stubs) == 0 {
			logx.Debugf("목록 %d 페이지가 비어 있어 종료합니다", page)
			break
		}
		added := acc.add(stubs)
		logx.Debugf("목록 %d 페이지: 스텁 %d개 (새 항목 %d개)", page, len(stubs), added)
		if added == 0 {
			// 범위를 넘은 페이지 번호에 마지막 페이지를 되돌려 주는 경우
			break
		}
	}

	if acc.len() == 0 {
		acc.add(d.fromLanding(ctx, blogID))
	}
	if acc.len() == 0 && ctx.Err() == nil {
		acc.add(d.fromRSS(ctx, blogID))
	}
	if err := ctx.Err(); err != nil {
		return acc.list(stubCap), err
	}
	if acc.len() == 0 {
		logx.Warnf("블로그 %s 에서 게시글을 찾지 못했습니다", blogID)
	}
	return acc.list(stubCap), nil
}

// fetchPage 는 목록 주소 후보를 차례로 시도해 스텁이 나온 첫 결과를 돌려준다.
func (d *Discoverer) fetchPage(ctx context.Context, blogID string, page int) []model.PostStub {
	for _, u := range d.ep.ListPageURLs(blogID, page) {
		body, err := d.cl.GetString(ctx, u)
		if err != nil {
			logx.Debugf("목록 요청 실패: %s 오류=%v", u, err)
			if ctx.Err() != nil {
				return nil
			}
			continue
		}
		if stubs := d.ParsePage(body, blogID); len(stubs) > 0 {
			return stubs
		}
	}
	return nil
}

// fromLanding 은 블로그 첫 화면을 한 번 해석한다. 본문이 mainFrame iframe 안에 있으면 그것도 따라간다.
func (d *Discoverer) fromLanding(ctx context.Context, blogID string) []model.PostStub {
	landing := d.ep.LandingURL(blogID)
	body, err := d.cl.GetString(ctx, landing)
	if err != nil {
		logx.Debugf("블로그 첫 화면 요청 실패: %v", err)
		return nil
	}
	if stubs := d.ParsePage(body, blogID); len(stubs) > 0 {
		return stubs
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
	if err != nil {
		return nil
	}
	src := strings.TrimSpace(doc.Find("iframe#mainFrame").AttrOr("src", ""))
	if src == "" {
		return nil
	}
	frame := joinURL(landing, src)
	body, err = d.cl.GetString(ctx, frame)
	if err != nil {
		logx.Debugf("mainFrame 요청 실패: %s 오류=%v", frame, err)
		return nil
	}
	return d.ParsePage(body, blogID)
}

// accumulator 는 logNo 기준으로 중복을 버리며 발견 순서를 지킨다.
type accumulator struct {
	seen  map[string]bool
	stubs []model.PostStub
}

func newAccumulator() *accumulator {
	return &accumulator{seen: make(map[string]bool)}
}

func (a *accumulator) add(stubs []model.PostStub) int {
	n := 0
	for _, s := range stubs {
		if s.LogNo == "" || a.seen[s.LogNo] {
			continue
		}
		a.seen[s.LogNo] = true
		a.stubs = append(a.stubs, s)
		n++
	}
	return n
}

func (a *accumulator) len() int { return len(a.stubs) }

func (a *accumulator) list(limit int) []model.PostStub {
	if limit > 0 && len(a.stubs) > limit {
		return a.stubs[:limit]
	}
	return a.stubs
}
