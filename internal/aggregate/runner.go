// 패키지 aggregate 는 한 번의 가져오기 실행을 엮는다.
// - 목록 발견과 게시글 가져오기(순차, importer)
// - 게시글별 보강/Markdown 쓰기/이력 기록(동시 작업자)
// - 실행 요약 manifest 쓰기
package aggregate

import (
	"context"
	"fmt"
	"sync"

	"go-naver-importer/internal/config"
	"go-naver-importer/internal/discover"
	"go-naver-importer/internal/enrich"
	"go-naver-importer/internal/export"
	"go-naver-importer/internal/fetch"
	"go-naver-importer/internal/importer"
	"go-naver-importer/internal/logx"
	"go-naver-importer/internal/model"
	"go-naver-importer/internal/naver"
	"go-naver-importer/internal/store"
)

// Runner 는 설정/이력 저장소/HTTP 클라이언트를 들고 가져오기를 실행한다.
type Runner struct {
	cfg    *config.Config
	ep     naver.Endpoints
	fetch  fetch.Getter
	store  *store.SQLite // nil 이면 이력을 남기지 않는다
	enrich enrich.Enricher
	buf    *SimpleBuffer
}

// New 는 Runner 를 만든다. s 는 nil 이어도 된다.
func New(cfg *config.Config, s *store.SQLite, cl fetch.Getter) *Runner {
	ep := naver.Endpoints{Blog: cfg.Endpoints.Blog, Mobile: cfg.Endpoints.Mobile, RSS: cfg.Endpoints.RSS}.WithDefaults()
	return &Runner{
		cfg:    cfg,
		ep:     ep,
		fetch:  cl,
		store:  s,
		enrich: enrich.NewPlatform(cl, ep, cfg.FetchTags),
		buf:    NewSimpleBuffer(),
	}
}

// Discoverer 는 설정대로 만든 목록 발견기다.
func (r *Runner) Discoverer() *discover.Discoverer {
	return discover.New(r.fetch, r.ep, discover.Options{
		PageDelay:        r.cfg.PageDelay(),
		StrictScriptScan: r.cfg.StrictScriptScan,
	})
}

func (r *Runner) importer(skip func(model.PostStub) bool) *importer.Importer {
	return importer.New(r.fetch, r.Discoverer(), r.ep, importer.Options{
		PageCap:   r.cfg.PageCap,
		StubCap:   r.cfg.StubCap,
		PostDelay: r.cfg.PostDelay(),
		Skip:      skip,
	})
}

// Run 은 블로그 하나를 가져온다: 발견 → 가져오기 → 보강/쓰기/기록 → manifest.
// 취소되어도 이미 가져온 글은 쓰고 기록한 뒤 ctx 오류를 돌려준다.
func (r *Runner) Run(ctx context.Context, blogID string) error {
	skip, err := r.skipper(ctx, blogID)
	if err != nil {
		return err
	}
	posts, fetchErr := r.importer(skip).FetchBatch(ctx, blogID, r.cfg.MaxPosts)
	if fetchErr != nil && len(posts) == 0 {
		return fetchErr
	}

	// 디스크/DB 쓰기는 취소와 무관하게 끝낸다
	local := context.WithoutCancel(ctx)
	sem := make(chan struct{}, max(1, r.cfg.Workers))
	var wg sync.WaitGroup
	for _, p := range posts {
		p := p
		wg.Add(1)
		sem <- struct{}{}
		go func() {
			defer wg.Done()
			defer func() { <-sem }()
			r.processPost(ctx, local, blogID, p)
		}()
	}
	wg.Wait()

	snap, paths := r.buf.Snapshot()
	if err := export.ToJSONData(local, blogID, snap, paths, r.cfg.Manifest()); err != nil {
		logx.Warnf("manifest 쓰기 실패: %v", err)
	} else {
		logx.Infof("manifest: %s", r.cfg.Manifest())
	}
	failed := 0
	for _, p := range snap {
		if p.IsErrorPost() {
			failed++
		}
	}
	logx.Infof("완료: 게시글 %d개 (실패 %d개)", len(snap), failed)
	return fetchErr
}

// RunSingle 은 게시글 하나를 가져와 쓴다. 실패는 오류 문서 없이 그대로 돌려준다.
func (r *Runner) RunSingle(ctx context.Context, ref naver.Ref) (string, error) {
	p, err := r.importer(nil).FetchSingle(ctx, ref.BlogID, ref.LogNo)
	if err != nil {
		return "", err
	}
	path := r.processPost(ctx, ctx, ref.BlogID, p)
	if path == "" {
		return "", fmt.Errorf("write %s/%s failed", ref.BlogID, ref.LogNo)
	}
	return path, nil
}

// skipper 는 SKIP_EXISTING 일 때 이미 가져온 글을 건너뛰는 함수를 만든다.
func (r *Runner) skipper(ctx context.Context, blogID string) (func(model.PostStub) bool, error) {
	if !r.cfg.SkipExisting || r.store == nil {
		return nil, nil
	}
	done, err := r.store.Imported(ctx, blogID)
	if err != nil {
		return nil, fmt.Errorf("load history: %w", err)
	}
	logx.Infof("이미 가져온 글 %d개는 건너뜁니다", len(done))
	return func(st model.PostStub) bool { return done[st.LogNo] }, nil
}

// processPost 는 게시글 하나를 보강하고 파일로 쓰고 이력에 남긴다. 쓴 경로를 돌려준다.
func (r *Runner) processPost(ctx, local context.Context, blogID string, p model.Post) string {
	e, err := r.enrich.Enrich(ctx, blogID, p)
	if err != nil {
		logx.Warnf("[%s] 보강 실패: %v", p.LogNo, err)
	}
	p.Merge(e)
	path, err := export.WriteMarkdown(r.cfg.OutputDir, p)
	if err != nil {
		// 쓰지 못한 글은 실패로 남겨 다음 실행에서 다시 시도한다
		logx.Errorf("[%s] 파일 쓰기 실패: %v", p.LogNo, err)
		p.Failed = true
		p.Error = err.Error()
	}
	r.buf.AddPost(p, path)
	if r.store != nil {
		if err := r.store.RecordPost(local, blogID, p, path); err != nil {
			logx.Warnf("[%s] 이력 기록 실패: %v", p.LogNo, err)
		}
	}
	return path
}

// BufferData 는 이번 실행에서 처리한 게시글과 파일 경로를 돌려준다.
func (r *Runner) BufferData() ([]model.Post, map[string]string) {
	if r == nil || r.buf == nil {
		return nil, nil
	}
	return r.buf.Snapshot()
}
