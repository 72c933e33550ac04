// 패키지 logx 는 표준 라이브러리 slog 위의 얇은 래퍼다.
// - 레벨/포맷/로케일/색상 설정
// - pretty 출력: [디버그]/[정보]/[경고]/[오류] (en 로케일이면 [INFO] 등)
// - 로그는 stderr 로 보내고 stdout 은 명령 결과(목록, 이력) 전용으로 둔다
package logx

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"
)

// silent 는 모든 출력을 막는 레벨이다.
const silent slog.Level = 100

// Init 은 stderr 로 전역 로거를 초기화한다.
func Init(level, format, locale, colorMode string) {
	InitWriter(os.Stderr, level, format, locale, colorMode)
}

// InitWriter 는 지정한 writer 로 전역 로거를 초기화한다.
func InitWriter(w io.Writer, level, format, locale, colorMode string) {
	lv := parseLevel(level)
	var handler slog.Handler
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "json":
		handler = slog.NewJSONHandler(w, &slog.HandlerOptions{Level: lv})
	case "text":
		handler = slog.NewTextHandler(w, &slog.HandlerOptions{Level: lv})
	default:
		handler = NewPrettyHandler(w, lv, locale, colorMode)
	}
	slog.SetDefault(slog.New(handler))
}

var levelNames = map[string]slog.Level{
	"debug":   slog.LevelDebug,
	"info":    slog.LevelInfo,
	"warn":    slog.LevelWarn,
	"warning": slog.LevelWarn,
	"error":   slog.LevelError,
	"none":    silent,
	"silent":  silent,
	"off":     silent,
}

// parseLevel 은 모르는 값이면 info 다.
func parseLevel(s string) slog.Level {
	if lv, ok := levelNames[strings.ToLower(strings.TrimSpace(s))]; ok {
		return lv
	}
	return slog.LevelInfo
}

func Debugf(format string, v ...any) { slog.Debug(fmt.Sprintf(format, v...)) }
func Infof(format string, v ...any)  { slog.Info(fmt.Sprintf(format, v...)) }
func Warnf(format string, v ...any)  { slog.Warn(fmt.Sprintf(format, v...)) }
func Errorf(format string, v ...any) { slog.Error(fmt.Sprintf(format, v...)) }

// PrettyHandler 는 사람이 읽는 한 줄 출력 핸들러다.
type PrettyHandler struct {
	out    io.Writer
	min    slog.Level
	labels map[slog.Level]string
	color  bool
	mu     *sync.Mutex
	attrs  []slog.Attr
	prefix string
}

var localeLabels = map[string]map[slog.Level]string{
	"ko": {slog.LevelDebug: "[디버그]", slog.LevelInfo: "[정보]", slog.LevelWarn: "[경고]", slog.LevelError: "[오류]"},
	"en": {slog.LevelDebug: "[DEBUG]", slog.LevelInfo: "[INFO]", slog.LevelWarn: "[WARN]", slog.LevelError: "[ERROR]"},
}

var levelColors = map[slog.Level]string{
	slog.LevelDebug: "90",
	slog.LevelInfo:  "36",
	slog.LevelWarn:  "33",
	slog.LevelError: "31",
}

// NewPrettyHandler 는 로케일별 레벨 라벨을 쓰는 핸들러를 만든다. 로케일이 비면 한국어.
func NewPrettyHandler(w io.Writer, lv slog.Level, locale, colorMode string) slog.Handler {
	if w == nil {
		w = os.Stderr
	}
	lang := "ko"
	if l := strings.ToLower(strings.TrimSpace(locale)); l != "" && !strings.HasPrefix(l, "ko") {
		lang = "en"
	}
	return &PrettyHandler{
		out:    w,
		min:    lv,
		labels: localeLabels[lang],
		color:  shouldColor(w, colorMode),
		mu:     &sync.Mutex{},
	}
}

func (h *PrettyHandler) Enabled(_ context.Context, l slog.Level) bool {
	return h.min < silent && l >= h.min
}

// Handle 은 "시각 레벨 메시지 k=v ..." 형태로 기록한다. 공백이 있는 값은 따옴표로 감싼다.
func (h *PrettyHandler) Handle(_ context.Context, r slog.Record) error {
	ts := r.Time
	if ts.IsZero() {
		ts = time.Now()
	}
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "%s %s %s", ts.Format("2006-01-02 15:04:05"), h.label(r.Level), r.Message)

	write := func(a slog.Attr) bool {
		v := a.Value.Resolve().String()
		if strings.ContainsAny(v, " \t\n\"") {
			v = strconv.Quote(v)
		}
		fmt.Fprintf(&buf, " %s%s=%s", h.prefix, a.Key, v)
		return true
	}
	for _, a := range h.attrs {
		write(a)
	}
	r.Attrs(write)
	buf.WriteByte('\n')

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := h.out.Write(buf.Bytes())
	return err
}

func (h *PrettyHandler) label(l slog.Level) string {
	s, ok := h.labels[l]
	if !ok {
		s = fmt.Sprintf("[L%d]", l)
	}
	if h.color {
		code, ok := levelColors[l]
		if !ok {
			code = "0"
		}
		s = "\x1b[" + code + "m" + s + "\x1b[0m"
	}
	return s
}

func (h *PrettyHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	cp := *h
	cp.attrs = append(append([]slog.Attr(nil), h.attrs...), attrs...)
	return &cp
}

func (h *PrettyHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	cp := *h
	cp.prefix += name + "."
	return &cp
}

// shouldColor 는 LOG_COLOR 설정과 NO_COLOR 환경 변수를 따른다. auto 는 터미널일 때만.
func shouldColor(w io.Writer, mode string) bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(mode)) {
	case "always":
		return true
	case "auto", "":
		f, ok := w.(*os.File)
		if !ok {
			return false
		}
		fi, err := f.Stat()
		return err == nil && fi.Mode()&os.ModeCharDevice != 0
	}
	return false
}
