package importer

import (
	"bytes"
	"text/template"
	"time"

	"go-naver-importer/internal/content"
	"go-naver-importer/internal/logx"
	"go-naver-importer/internal/model"
)

var errorReport = template.Must(template.New("error").Parse(`# 가져오기 실패

이 문서는 원본 게시글을 가져오지 못해 자동으로 만들어졌습니다.

- 게시글 번호: {{.LogNo}}
- 제목: {{.Title}}
- 날짜: {{.Date}}
- 주소: {{.URL}}
- 시각(UTC): {{.At}}

## 오류

{{.Message}}

## 해결 방법

네트워크 연결과 게시글 공개 설정을 확인한 뒤 다시 가져오기를 실행하세요.
비공개 글이나 삭제된 글은 가져올 수 없습니다.
`))

// errorPost 는 가져오지 못한 스텁을 대신할 오류 문서를 만든다.
// 제목 앞에 model.ErrorTitlePrefix 가 붙는다.
func (im *Importer) errorPost(blogID string, st model.PostStub, err error) model.Post {
	p := model.Post{PostStub: st, Failed: true, Error: err.Error()}
	if p.URL == "" {
		p.URL = im.ep.CanonicalPostURL(blogID, st.LogNo)
	}
	title := firstNonEmpty(content.CleanTitle(st.Title), st.LogNo)
	p.Title = model.ErrorTitlePrefix + title
	p.Date = firstNonEmpty(st.Date, im.today())

	var buf bytes.Buffer
	rerr := errorReport.Execute(&buf, struct {
		LogNo, Title, Date, URL, At, Message string
	}{
		LogNo:   st.LogNo,
		Title:   title,
		Date:    firstNonEmpty(st.Date, "-"),
		URL:     p.URL,
		At:      im.opts.Now().UTC().Format(time.RFC3339),
		Message: err.Error(),
	})
	p.Content = buf.String()
	if rerr != nil {
		logx.Warnf("[%s] 오류 문서 생성 실패: %v", st.LogNo, rerr)
		p.Content = "# 가져오기 실패\n\n" + err.Error() + "\n"
	}
	return p
}
