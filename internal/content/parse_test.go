package content

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"go-naver-importer/internal/model"
)

const se3Page = `<html><head>
<title>제주 여행기 : 네이버 블로그</title>
<meta property="og:title" content="[여행] 제주 여행기">
<meta property="article:published_time" content="2024-05-22T10:00:00+09:00">
</head><body>
<div class="se-main-container">
 <div class="se-component se-text se-l-default"><div class="se-module se-module-text">
  <p class="se-text-paragraph">첫째 날에는 바다를 보러 갔습니다.</p>
  <p class="se-text-paragraph">#제주 #여행</p>
  <ul class="se-text-list"><li><p class="se-text-paragraph">성산일출봉</p></li><li><p class="se-text-paragraph">우도</p></li></ul>
 </div></div>
 <div class="se-component se-sectionTitle"><div class="se-module se-module-text"><p class="se-text-paragraph">둘째 날</p></div></div>
 <div class="se-component se-image"><div class="se-module se-module-image">
  <a class="se-module-image-link" data-linkdata='{"id":"SE-1","src":"https://postfiles.pstatic.net/MjAy/sea.jpg?type=w80_blur","linkUse":"false"}'>
   <img src="https://postfiles.pstatic.net/MjAy/sea.jpg?type=w80_blur" alt="">
  </a></div>
  <div class="se-module se-module-text se-caption"><p class="se-text-paragraph">바다 풍경</p></div>
 </div>
 <div class="se-component se-sticker"><div class="se-module"><img src="https://storep-phinf.pstatic.net/ogq/sticker.png?type=p100_100"></div></div>
 <div class="se-component se-quotation"><blockquote>
  <div class="se-module se-module-text se-quote"><p class="se-text-paragraph">여행은 쉼표다</p></div>
  <div class="se-module se-module-text se-cite"><p class="se-text-paragraph">출처 입력</p></div>
 </blockquote></div>
 <div class="se-component se-code"><div class="se-module se-module-code"><div class="se-code-source"><span>fmt.Println("hi")</span></div></div></div>
 <div class="se-component se-horizontalLine"><hr></div>
 <div class="se-component se-material"><a class="se-module-material" data-linkdata='{"title":"데미안","link":"https://book.naver.com/1","type":"book"}'></a></div>
 <div class="se-component se-video"><img src="https://example.com/thumb.jpg"></div>
</div>
</body></html>`

func TestParseSE3Document(t *testing.T) {
	pc := Parse(se3Page)
	assert.Equal(t, "제주 여행기", pc.Title)
	assert.Equal(t, "2024-05-22", pc.Date)

	want := strings.Join([]string{
		"첫째 날에는 바다를 보러 갔습니다.",
		"- 성산일출봉",
		"- 우도",
		"",
		"## 둘째 날",
		"",
		"![바다 풍경](https://postfiles.pstatic.net/MjAy/sea.jpg)",
		"",
		"[이미지]",
		"",
		"> 여행은 쉼표다",
		"",
		"```",
		`fmt.Println("hi")`,
		"```",
		"",
		"---",
		"",
		"[데미안](https://book.naver.com/1) (book)",
		"",
		"[동영상]",
	}, "\n")
	assert.Equal(t, want, pc.Content)
	assert.NotContains(t, pc.Content, "#제주")
	assert.NotContains(t, pc.Content, "출처 입력")
}

func TestParseIsIdempotent(t *testing.T) {
	assert.Equal(t, Parse(se3Page), Parse(se3Page))
}

func TestParseImageGroupEmitsEachImage(t *testing.T) {
	page := `<div class="se-main-container"><div class="se-component se-imageGroup">
 <div class="se-module se-module-image"><a class="se-module-image-link" data-linkdata='{"src":"https://postfiles.pstatic.net/A/1.jpg?type=w773"}'><img src="https://postfiles.pstatic.net/A/1.jpg?type=w80_blur"></a></div>
 <div class="se-module se-module-image"><img data-lazy-src="https://postfiles.pstatic.net/B/2.jpg?type=w773" src="data:image/gif;base64,AAA"></div>
 <div class="se-module se-module-text se-caption"><p class="se-text-paragraph">성산 일출</p></div>
</div></div>`
	pc := Parse(page)
	assert.Equal(t, "![성산 일출](https://postfiles.pstatic.net/A/1.jpg)\n\n![성산 일출](https://postfiles.pstatic.net/B/2.jpg)", pc.Content)
}

func TestParseModuleScriptImage(t *testing.T) {
	page := `<div class="se-main-container"><div class="se-component se-image"><div class="se-module se-module-image">
<img src="data:image/gif;base64,AAA">
<script type="text/data" class="__se_module_data" data-module='{"type":"v2_image","data":{"src":"https://postfiles.pstatic.net/C/3.png?type=w966"}}'></script>
</div></div></div>`
	assert.Equal(t, "![](https://postfiles.pstatic.net/C/3.png)", Parse(page).Content)
}

func TestParseLegacyPostView(t *testing.T) {
	page := `<html><head><title>옛날 글 - 네이버 블로그</title></head><body>
<div id="postViewArea">
 <p>예전 편집기로 쓴 글입니다.</p>
 <p><img src="https://blogfiles.pstatic.net/old/cat.jpg?type=w2"></p>
 <p class="date">2011. 3. 5. 14:20</p>
 <p>#태그 #모음</p>
</div></body></html>`
	pc := Parse(page)
	assert.Equal(t, "옛날 글", pc.Title)
	assert.Equal(t, "2011-03-05", pc.Date)
	assert.Contains(t, pc.Content, "예전 편집기로 쓴 글입니다.")
	assert.Contains(t, pc.Content, "![](https://blogfiles.pstatic.net/old/cat.jpg)")
	assert.NotContains(t, pc.Content, "#태그")
}

const scriptOnlyPage = `<html><head></head><body>
<div id="app"></div>
<script>
var post = {"addDate":"2023. 3. 5. 14:20","documentId":"1","components":[
 {"@ctype":"documentTitle","value":[{"nodes":[{"value":"스크립트 제목"}]}]},
 {"@ctype":"text","value":[{"nodes":[{"value":"스크립트 본문 첫 문단입니다"}]},{"nodes":[{"value":"둘째 [문단] }"}]}]},
 {"@ctype":"horizontalLine"}
]};
</script>
</body></html>`

func TestParseFallsBackToScriptJSON(t *testing.T) {
	pc := Parse(scriptOnlyPage)
	assert.Equal(t, "스크립트 제목", pc.Title)
	assert.Equal(t, "2023-03-05", pc.Date)
	assert.Equal(t, "스크립트 본문 첫 문단입니다\n둘째 [문단] }\n\n---", pc.Content)
}

func TestParseJSONInput(t *testing.T) {
	doc := `{"components":[{"@ctype":"documentTitle","value":[{"nodes":[{"value":"[일상] JSON 제목"}]}]},{"@ctype":"sectionTitle","value":[{"nodes":[{"value":"소제목"}]}]},{"@ctype":"code","value":"x := 1\n"}]}`
	pc := Parse(doc)
	assert.Equal(t, "JSON 제목", pc.Title)
	assert.Equal(t, "## 소제목\n\n```\nx := 1\n```", pc.Content)
	assert.Empty(t, pc.Date)
}

func TestParseEmptyInput(t *testing.T) {
	assert.Equal(t, "", Parse("").Content)
	pc := Parse("<html><body><div>아무것도 없는 페이지</div></body></html>")
	assert.Empty(t, pc.Content)
	assert.Empty(t, pc.Title)
}

func imagePage(module string) string {
	return `<div class="se-main-container"><div class="se-component se-image">` + module + `</div></div>`
}

func TestParseImageSourceOrder(t *testing.T) {
	tests := []struct {
		name   string
		module string
		want   string
	}{
		{
			name: "link data wins over img src",
			module: `<div class="se-module se-module-image"><a class="se-module-image-link" data-linkdata='{"src":"https://postfiles.pstatic.net/A/link.jpg?type=w966"}'>
<img src="https://postfiles.pstatic.net/A/from-src-attribute-longer.jpg?type=w966"></a></div>`,
			want: "https://postfiles.pstatic.net/A/link.jpg",
		},
		{
			name: "module script wins over longer attribute",
			module: `<div class="se-module se-module-image" data-origin="https://postfiles.pstatic.net/B/a-much-longer-attribute-url.jpg">
<img src="data:image/gif;base64,AAA">
<script type="text/data" class="__se_module_data" data-module='{"data":{"src":"https://postfiles.pstatic.net/B/script.jpg"}}'></script></div>`,
			want: "https://postfiles.pstatic.net/B/script.jpg",
		},
		{
			name:   "longest cdn url among attributes",
			module: `<div class="se-module se-module-image" data-set="https://postfiles.pstatic.net/C/small.jpg?type=w80 https://postfiles.pstatic.net/C/original-large-version.jpg"><img src="data:image/gif;base64,AAA"></div>`,
			want:   "https://postfiles.pstatic.net/C/original-large-version.jpg",
		},
		{
			name:   "lazy attribute before src",
			module: `<div class="se-module se-module-image"><img data-lazy-src="https://example.com/lazy.jpg" src="https://example.com/plain.jpg"></div>`,
			want:   "https://example.com/lazy.jpg",
		},
		{
			name:   "any src or url attribute",
			module: `<div class="se-module se-module-image"><img src="data:image/gif;base64,AAA" data-image-url="https://example.com/any.jpg"></div>`,
			want:   "https://example.com/any.jpg",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, "![]("+tt.want+")", Parse(imagePage(tt.module)).Content)
		})
	}
}

func TestParseDateSourceOrder(t *testing.T) {
	const (
		meta    = `<meta property="article:published_time" content="2024-01-02T00:00:00+09:00">`
		element = `<span class="se_publishDate">2023. 3. 4. 10:00</span>`
		script  = `<script>var d = {"publishDate":"2022-05-06"};</script>`
	)
	tests := []struct {
		name, head, body, want string
	}{
		{"meta first", meta, element + script, "2024-01-02"},
		{"element before script", "", element + script, "2023-03-04"},
		{"script last", "", script, "2022-05-06"},
		{"none", "", "<p>날짜 없음</p>", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page := "<html><head>" + tt.head + "</head><body>" + tt.body + "</body></html>"
			assert.Equal(t, tt.want, Parse(page).Date)
		})
	}
}

func TestParseAuthorCategoryAndPreviewImage(t *testing.T) {
	page := `<html><head><title>산책 기록 - 바다곰의 하루</title>
<meta property="og:site_name" content="바다곰의 하루"></head><body>
<span class="nick">바다곰</span>
<div class="blog2_series"> 일상 </div>
<div class="se-main-container">
 <div class="se-component se-sticker"><div class="se-module"><img src="https://storep-phinf.pstatic.net/ogq/sticker.png"></div></div>
 <div class="se-component se-image"><div class="se-module se-module-image"><img src="https://postfiles.pstatic.net/L/lake.jpg?type=w773"></div>
  <div class="se-module se-module-text se-caption"><p class="se-text-paragraph">호수</p></div></div>
</div></body></html>`
	pc := Parse(page)
	assert.Equal(t, "산책 기록", pc.Title)
	assert.Equal(t, "바다곰", pc.Author)
	assert.Equal(t, "일상", pc.Category)
	assert.Equal(t, &model.PreviewImage{URL: "https://postfiles.pstatic.net/L/lake.jpg", Alt: "호수"}, pc.Image)
}

func TestParseCodeTrimsOneBlankLineEachSide(t *testing.T) {
	page := `<div class="se-main-container"><div class="se-component se-code"><div class="se-module se-module-code">
<div class="se-code-source"><span><br>a := 1<br><br>b := 2<br><br></span></div></div></div></div>`
	assert.Equal(t, "```\na := 1\n\nb := 2\n\n```", Parse(page).Content)
}
