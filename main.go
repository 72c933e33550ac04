// 명령행 진입점:
// - 플래그와 settings.yaml 해석
// - 로그, HTTP 클라이언트, 이력 데이터베이스 초기화
// - import / single / discover / history 명령
package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"syscall"

	"github.com/jessevdk/go-flags"

	"go-naver-importer/internal/aggregate"
	"go-naver-importer/internal/config"
	"go-naver-importer/internal/fetch"
	"go-naver-importer/internal/logx"
	"go-naver-importer/internal/naver"
	"go-naver-importer/internal/store"
)

type globalOptions struct {
	Config string `short:"c" long:"config" env:"NAVER_IMPORTER_CONFIG" default:"settings.yaml" description:"path to settings.yaml"`
	Blog   string `short:"b" long:"blog" description:"blog id (overrides BLOG_ID)"`
	Output string `short:"o" long:"output" description:"output directory (overrides OUTPUT_DIR)"`
	NoDB   bool   `long:"no-db" description:"do not open the import history database"`
}

var opts globalOptions

type importCommand struct {
	Max          int  `short:"n" long:"max" description:"import at most N posts (overrides MAX_POSTS)"`
	SkipExisting bool `long:"skip-existing" description:"skip posts already imported successfully"`
}

type singleCommand struct {
	Args struct {
		Ref string `positional-arg-name:"url-or-logno" required:"true"`
	} `positional-args:"true"`
}

type discoverCommand struct{}

type historyCommand struct {
	Reset bool `long:"reset" description:"delete import history for the blog"`
}

func main() {
	parser := flags.NewParser(&opts, flags.Default)
	_, _ = parser.AddCommand("import", "import every post of a blog", "Discover posts, fetch them one by one and write Markdown files.", &importCommand{})
	_, _ = parser.AddCommand("single", "import one post", "Import one post given its URL or logNo.", &singleCommand{})
	_, _ = parser.AddCommand("discover", "list discovered posts", "Print discovered post stubs and exit.", &discoverCommand{})
	_, _ = parser.AddCommand("history", "show import history", "Print import history and stats.", &historyCommand{})

	if _, err := parser.Parse(); err != nil {
		var flagsErr *flags.Error
		if errors.As(err, &flagsErr) && flagsErr.Type == flags.ErrHelp {
			return
		}
		os.Exit(1)
	}
}

// app 은 명령들이 공유하는 초기화 결과다.
type app struct {
	cfg   *config.Config
	cl    *fetch.Client
	store *store.SQLite
}

// setup 은 설정을 읽고 로그/HTTP 클라이언트/데이터베이스를 준비한다.
func setup(openDB bool) (*app, error) {
	// 1) 설정
	cfg, err := config.Load(opts.Config)
	if errors.Is(err, fs.ErrNotExist) {
		cfg, err = config.Parse(nil)
	}
	if err != nil {
		return nil, err
	}
	if opts.Blog != "" {
		cfg.BlogID = opts.Blog
	}
	if opts.Output != "" {
		cfg.OutputDir = opts.Output
	}
	// 2) 로그: 레벨/형식/언어/색상
	logx.Init(cfg.LogLevel, cfg.LogFormat, cfg.LogLocale, cfg.LogColor)

	// 3) HTTP 클라이언트(프록시와 재시도 포함)
	cl, err := fetch.New(fetch.Options{
		ProxyHTTP:  cfg.Proxy.HTTP,
		ProxyHTTPS: cfg.Proxy.HTTPS,
		Timeout:    cfg.Timeout(),
		Retry:      cfg.HTTP.Retry,
		UserAgent:  cfg.HTTP.UserAgent,
		Interval:   cfg.Interval(),
	})
	if err != nil {
		return nil, fmt.Errorf("http client: %w", err)
	}
	a := &app{cfg: cfg, cl: cl}

	// 4) 이력 데이터베이스
	if openDB && !opts.NoDB {
		a.store, err = store.OpenSQLite(cfg.Database.DSN)
		if err != nil {
			return nil, err
		}
	}
	return a, nil
}

func (a *app) close() {
	if a.store != nil {
		_ = a.store.Close()
	}
}

func (a *app) requireBlog() error {
	if a.cfg.BlogID == "" {
		return errors.New("blog id required: set BLOG_ID or pass --blog")
	}
	return nil
}

// signalContext 는 Ctrl+C 에서 취소되는 ctx 다. 진행 중인 게시글까지 쓰고 멈춘다.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

func (c *importCommand) Execute(_ []string) error {
	a, err := setup(true)
	if err != nil {
		return err
	}
	defer a.close()
	if err := a.requireBlog(); err != nil {
		return err
	}
	if c.Max > 0 {
		a.cfg.MaxPosts = c.Max
	}
	if c.SkipExisting {
		a.cfg.SkipExisting = true
	}
	ctx, stop := signalContext()
	defer stop()

	logx.Infof("가져오기 시작: 블로그=%s 출력=%s", a.cfg.BlogID, a.cfg.OutputDir)
	if err := aggregate.New(a.cfg, a.store, a.cl).Run(ctx, a.cfg.BlogID); err != nil {
		if errors.Is(err, context.Canceled) {
			logx.Warnf("중단되었습니다. 이미 가져온 글은 저장했습니다.")
			return nil
		}
		logx.Errorf("가져오기 실패: %v", err)
		return err
	}
	return nil
}

func (c *singleCommand) Execute(_ []string) error {
	a, err := setup(true)
	if err != nil {
		return err
	}
	defer a.close()
	ref, err := naver.ParseRef(c.Args.Ref, a.cfg.BlogID)
	if err != nil {
		return err
	}
	ctx, stop := signalContext()
	defer stop()

	path, err := aggregate.New(a.cfg, a.store, a.cl).RunSingle(ctx, ref)
	if err != nil {
		logx.Errorf("가져오기 실패: %s/%s %v", ref.BlogID, ref.LogNo, err)
		return err
	}
	logx.Infof("저장했습니다: %s", path)
	return nil
}

func (c *discoverCommand) Execute(_ []string) error {
	a, err := setup(false)
	if err != nil {
		return err
	}
	defer a.close()
	if err := a.requireBlog(); err != nil {
		return err
	}
	ctx, stop := signalContext()
	defer stop()

	stubs, err := aggregate.New(a.cfg, nil, a.cl).Discoverer().Discover(ctx, a.cfg.BlogID, a.cfg.PageCap, a.cfg.StubCap)
	if err != nil {
		return err
	}
	for _, s := range stubs {
		fmt.Printf("%s\t%s\t%s\n", s.LogNo, s.Date, s.Title)
	}
	if len(stubs) == 0 {
		logx.Warnf("게시글을 찾지 못했습니다. 블로그 ID 와 공개 설정을 확인하세요.")
	} else {
		logx.Infof("게시글 %d개를 찾았습니다", len(stubs))
	}
	return nil
}

func (c *historyCommand) Execute(_ []string) error {
	if opts.NoDB {
		return errors.New("history needs the database")
	}
	a, err := setup(true)
	if err != nil {
		return err
	}
	defer a.close()
	ctx := context.Background()

	if c.Reset {
		if err := a.store.Reset(ctx, a.cfg.BlogID); err != nil {
			return err
		}
		logx.Infof("이력을 지웠습니다: %q", a.cfg.BlogID)
		return nil
	}
	recs, err := a.store.ListImports(ctx, a.cfg.BlogID)
	if err != nil {
		return err
	}
	for _, r := range recs {
		status := "ok"
		if r.Failed {
			status = "failed: " + r.Error
		}
		fmt.Printf("%s\t%s\t%s\t%s\t%s\n", r.BlogID, r.LogNo, r.Date, r.Title, status)
	}
	st, err := a.store.Stats(ctx, a.cfg.BlogID)
	if err != nil {
		return err
	}
	logx.Infof("전체 %d개, 성공 %d개, 실패 %d개", st.Total, st.OK, st.Failed)
	return nil
}
