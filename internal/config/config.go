// 패키지 config 는 settings.yaml 을 읽고 검증하며 기본값을 채운다.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	BlogID           string    `yaml:"BLOG_ID"`
	MaxPosts         int       `yaml:"MAX_POSTS"` // 0 이면 제한 없음
	PageCap          int       `yaml:"PAGE_CAP"`
	StubCap          int       `yaml:"STUB_CAP"`
	PageDelayMillis  int       `yaml:"PAGE_DELAY_MS"`
	PostDelayMillis  int       `yaml:"POST_DELAY_MS"`
	OutputDir        string    `yaml:"OUTPUT_DIR"`
	ManifestPath     string    `yaml:"MANIFEST"`
	FetchTags        bool      `yaml:"FETCH_TAGS"`
	SkipExisting     bool      `yaml:"SKIP_EXISTING"`
	StrictScriptScan bool      `yaml:"STRICT_SCRIPT_SCAN"`
	Workers          int       `yaml:"WORKERS"` // 보강/쓰기 동시 작업 수
	Database         Database  `yaml:"DATABASE"`
	HTTP             HTTP      `yaml:"HTTP"`
	Proxy            Proxy     `yaml:"PROXY"`
	Endpoints        Endpoints `yaml:"ENDPOINTS"`
	LogLevel         string    `yaml:"LOG_LEVEL"`
	LogFormat        string    `yaml:"LOG_FORMAT"` // pretty|json|text
	LogLocale        string    `yaml:"LOG_LOCALE"` // ko-KR|en
	LogColor         string    `yaml:"LOG_COLOR"`  // auto|always|never
}

type Database struct {
	Type string `yaml:"type"` // sqlite
	DSN  string `yaml:"dsn"`
}

type HTTP struct {
	TimeoutSec     int    `yaml:"timeout_sec"`
	Retry          int    `yaml:"retry"`
	UserAgent      string `yaml:"user_agent"`
	IntervalMillis int    `yaml:"interval_ms"` // 같은 호스트 요청 최소 간격
}

type Proxy struct {
	HTTP  string `yaml:"http"`
	HTTPS string `yaml:"https"`
}

// Endpoints 는 원본 사이트 주소 재정의(테스트/미러용)다. 빈 값은 기본 주소를 쓴다.
type Endpoints struct {
	Blog   string `yaml:"blog"`
	Mobile string `yaml:"mobile"`
	RSS    string `yaml:"rss"`
}

// Load 는 YAML 파일을 읽어 Config 로 변환하고 Validate 를 거친다.
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open config %s: %w", path, err)
	}
	defer f.Close()
	b, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	return Parse(b)
}

// Parse 는 YAML 바이트를 해석한다.
func Parse(b []byte) (*Config, error) {
	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return &c, nil
}

// Validate 는 값 검사와 기본값 채우기를 한곳에서 처리한다.
func (c *Config) Validate() error {
	if c.MaxPosts < 0 {
		return errors.New("MAX_POSTS must be >= 0")
	}
	if c.PageCap < 0 || c.StubCap < 0 {
		return errors.New("PAGE_CAP and STUB_CAP must be >= 0")
	}
	if c.PageDelayMillis < 0 || c.PostDelayMillis < 0 {
		return errors.New("PAGE_DELAY_MS and POST_DELAY_MS must be >= 0")
	}
	if c.PageCap == 0 {
		c.PageCap = 50
	}
	if c.StubCap == 0 {
		c.StubCap = 1000
	}
	if c.Workers <= 0 {
		c.Workers = 2
	}
	if c.OutputDir == "" {
		c.OutputDir = "./posts"
	}
	if c.Database.Type == "" {
		c.Database.Type = "sqlite"
	}
	if c.Database.Type != "sqlite" {
		return fmt.Errorf("unsupported database type: %s", c.Database.Type)
	}
	if c.Database.DSN == "" {
		c.Database.DSN = "./imports.db"
	}
	if c.HTTP.TimeoutSec <= 0 {
		c.HTTP.TimeoutSec = 20
	}
	if c.HTTP.Retry < 0 {
		c.HTTP.Retry = 1
	}
	if c.LogFormat == "" {
		c.LogFormat = "pretty"
	}
	if c.LogLocale == "" {
		c.LogLocale = "ko-KR"
	}
	if c.LogColor == "" {
		c.LogColor = "auto"
	}
	return nil
}

func (c *Config) PageDelay() time.Duration {
	return time.Duration(c.PageDelayMillis) * time.Millisecond
}

func (c *Config) PostDelay() time.Duration {
	return time.Duration(c.PostDelayMillis) * time.Millisecond
}

// Manifest 는 실행 요약 JSON 경로다. 지정이 없으면 OUTPUT_DIR/manifest.json.
func (c *Config) Manifest() string {
	if c.ManifestPath != "" {
		return c.ManifestPath
	}
	return filepath.Join(c.OutputDir, "manifest.json")
}

func (c *Config) Interval() time.Duration {
	return time.Duration(c.HTTP.IntervalMillis) * time.Millisecond
}

func (c *Config) Timeout() time.Duration {
	return time.Duration(c.HTTP.TimeoutSec) * time.Second
}
