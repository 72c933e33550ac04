// 패키지 fetch 는 HTTP 클라이언트(프록시/타임아웃/재시도/호스트별 요청 간격)를 감싼다.
package fetch

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"os"
	"strings"
	"sync"
	"time"

	"golang.org/x/text/encoding/korean"
	"golang.org/x/text/transform"
	"golang.org/x/time/rate"
)

const (
	defaultUA = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/129.0.0.0 Safari/537.36"
	maxBody   = 8 << 20
)

// Getter 는 URL 을 받아 본문 문자열을 돌려주는 최소 인터페이스다.
type Getter interface {
	GetString(ctx context.Context, url string) (string, error)
}

// HTTPError 는 2xx 가 아닌 응답을 나타낸다.
type HTTPError struct {
	StatusCode int
	URL        string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("HTTP %d %s (URL: %s)", e.StatusCode, http.StatusText(e.StatusCode), e.URL)
}

// Retryable 은 4xx 를 제외한 응답만 재시도 대상으로 본다.
func (e *HTTPError) Retryable() bool {
	return e.StatusCode < 400 || e.StatusCode >= 500
}

// Client 는 재시도와 호스트별 레이트 리미터를 가진 HTTP 클라이언트다.
type Client struct {
	http      *http.Client
	retry     int
	userAgent string
	interval  time.Duration

	mu       sync.Mutex
	limiters map[string]*rate.Limiter
}

type Options struct {
	ProxyHTTP  string
	ProxyHTTPS string
	Timeout    time.Duration
	Retry      int
	UserAgent  string
	// Interval 은 같은 호스트에 대한 요청 최소 간격이다. 0 이면 제한 없음.
	Interval time.Duration
}

func New(opts Options) (*Client, error) {
	transport := &http.Transport{
		Proxy: func(req *http.Request) (*url.URL, error) {
			if req.URL.Scheme == "https" && opts.ProxyHTTPS != "" {
				return url.Parse(opts.ProxyHTTPS)
			}
			if req.URL.Scheme == "http" && opts.ProxyHTTP != "" {
				return url.Parse(opts.ProxyHTTP)
			}
			return http.ProxyFromEnvironment(req)
		},
		DialContext:           (&net.Dialer{Timeout: 10 * time.Second}).DialContext,
		TLSHandshakeTimeout:   10 * time.Second,
		ResponseHeaderTimeout: 15 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 20 * time.Second
	}
	if opts.Retry < 0 {
		opts.Retry = 0
	}
	return &Client{
		http:      &http.Client{Transport: transport, Timeout: opts.Timeout},
		retry:     opts.Retry,
		userAgent: opts.UserAgent,
		interval:  opts.Interval,
		limiters:  make(map[string]*rate.Limiter),
	}, nil
}

// Get 은 재시도하며 GET 을 보낸다. 4xx 는 즉시 실패한다.
func (c *Client) Get(ctx context.Context, rawURL string) (*http.Response, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("parse url %s: %w", rawURL, err)
	}
	var lastErr error
	for i := 0; i <= c.retry; i++ {
		if err := c.limiterFor(u.Hostname()).Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limiter wait: %w", err)
		}
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
		if err != nil {
			return nil, fmt.Errorf("new request: %w", err)
		}
		req.Header.Set("User-Agent", c.ua())
		req.Header.Set("Accept-Language", "ko-KR,ko;q=0.9,en;q=0.8")
		resp, err := c.http.Do(req)
		if err == nil && resp.StatusCode >= 200 && resp.StatusCode < 300 {
			return resp, nil
		}
		if err == nil {
			resp.Body.Close()
			herr := &HTTPError{StatusCode: resp.StatusCode, URL: rawURL}
			if !herr.Retryable() {
				return nil, herr
			}
			lastErr = herr
		} else {
			lastErr = err
		}
		if i == c.retry {
			break
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(time.Duration(i+1) * 300 * time.Millisecond):
		}
	}
	return nil, lastErr
}

// GetString 은 응답 본문을 UTF-8 문자열로 읽는다. EUC-KR 페이지는 변환한다.
func (c *Client) GetString(ctx context.Context, rawURL string) (string, error) {
	resp, err := c.Get(ctx, rawURL)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	b, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return "", fmt.Errorf("read body %s: %w", rawURL, err)
	}
	if isEUCKR(resp.Header.Get("Content-Type"), b) {
		decoded, err := io.ReadAll(transform.NewReader(bytes.NewReader(b), korean.EUCKR.NewDecoder()))
		if err != nil {
			return "", fmt.Errorf("decode euc-kr %s: %w", rawURL, err)
		}
		return string(decoded), nil
	}
	return string(b), nil
}

func (c *Client) ua() string {
	// 환경 변수 NAVER_IMPORT_UA 가 설정값보다 우선한다
	if ua := os.Getenv("NAVER_IMPORT_UA"); ua != "" {
		return ua
	}
	if c.userAgent != "" {
		return c.userAgent
	}
	return defaultUA
}

func (c *Client) limiterFor(host string) *rate.Limiter {
	c.mu.Lock()
	defer c.mu.Unlock()
	if l, ok := c.limiters[host]; ok {
		return l
	}
	l := NewPacer(c.interval)
	c.limiters[host] = l
	return l
}

// NewPacer 는 d 간격으로 한 번씩 통과시키는 리미터를 만든다. 첫 호출은 즉시 통과한다.
func NewPacer(d time.Duration) *rate.Limiter {
	if d <= 0 {
		return rate.NewLimiter(rate.Inf, 1)
	}
	return rate.NewLimiter(rate.Every(d), 1)
}

func isEUCKR(contentType string, body []byte) bool {
	ct := strings.ToLower(contentType)
	if strings.Contains(ct, "euc-kr") || strings.Contains(ct, "ks_c_5601") {
		return true
	}
	if strings.Contains(ct, "charset=") {
		return false
	}
	head := body
	if len(head) > 1024 {
		head = head[:1024]
	}
	lh := bytes.ToLower(head)
	return bytes.Contains(lh, []byte("charset=euc-kr")) || bytes.Contains(lh, []byte(`charset="euc-kr"`))
}
