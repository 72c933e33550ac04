package content

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRenderComponents(t *testing.T) {
	tests := []struct {
		name string
		in   Component
		want string
	}{
		{"ordered list", Text{Blocks: []TextBlock{{List: &List{Ordered: true, Items: []string{"하나", "둘"}}}}}, "1. 하나\n2. 둘"},
		{"hashtag line dropped", Text{Blocks: []TextBlock{{Paragraph: "본문"}, {Paragraph: "#태그 #모음"}}}, "본문"},
		{"heading mark kept", Text{Blocks: []TextBlock{{Paragraph: "# 제목처럼 보이는 줄"}}}, "# 제목처럼 보이는 줄"},
		{"quote with citation", Quotation{Quote: "첫 줄\n둘째 줄", Citation: "헤르만 헤세"}, "> 첫 줄\n> 둘째 줄\n>\n> — 헤르만 헤세"},
		{"default citation hidden", Quotation{Quote: "문장", Citation: defaultCitation}, "> 문장"},
		{"rejected image with caption", Image{Caption: "스티커", Rejected: true}, "[이미지: 스티커]"},
		{"image without source", Image{}, "[이미지]"},
		{"image alt fallback", Image{Src: "https://a.pstatic.net/x.jpg", AltText: "고양이"}, "![고양이](https://a.pstatic.net/x.jpg)"},
		{"material without data", Material{}, placeholderMaterial},
		{"material without kind", Material{Title: "[링크]", Link: "https://x.example"}, `[\[링크\]](https://x.example)`},
		{"table", Table{}, placeholderTable},
		{"embed", Embed{}, placeholderEmbed},
		{"unknown chunks", Unknown{RawText: "a\n\n의미 있는 텍스트\n \n다음 조각"}, "의미 있는 텍스트\n\n다음 조각"},
		{"unknown hashtag chunk dropped", Unknown{RawText: "본문 내용이 여기에 있습니다\n\n#제주 #여행 #맛집"}, "본문 내용이 여기에 있습니다"},
		{"unknown hashtag line inside chunk", Unknown{RawText: "첫 줄입니다\n#태그\n끝 줄입니다"}, "첫 줄입니다\n끝 줄입니다"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Render([]Component{tt.in}))
		})
	}
}

func TestRenderSkipsEmptyComponents(t *testing.T) {
	got := Render([]Component{
		SectionTitle{Text: "제목"},
		Unknown{RawText: "x"},
		Text{Blocks: []TextBlock{{Paragraph: "#only"}}},
		HorizontalRule{},
	})
	assert.Equal(t, "## 제목\n\n---", got)
}

func TestFromScriptJSONImageGroup(t *testing.T) {
	script := `window.__data = {"components":[{"@ctype":"imageGroup","caption":{"value":[{"nodes":[{"value":"함께"}]}]},"images":[
{"src":"https://postfiles.pstatic.net/a.jpg?type=w966"},
{"src":"https://storep-phinf.pstatic.net/sticker.png"}]},
{"@ctype":"quotation","value":[{"nodes":[{"value":"인용"}]}],"source":[{"nodes":[{"value":"출처 입력"}]}]},
{"@ctype":"material","title":"책","link":"https://book.example/1","type":"book"},
{"@ctype":"video"}]}`
	comps := FromScriptJSON(script)
	assert.Equal(t, []Component{
		Image{Src: "https://postfiles.pstatic.net/a.jpg", Caption: "함께"},
		Image{Caption: "함께", Rejected: true},
		Quotation{Quote: "인용"},
		Material{Title: "책", Link: "https://book.example/1", Kind: "book"},
		Video{},
	}, comps)
}

func TestFromScriptJSONIgnoresBrokenArrays(t *testing.T) {
	assert.Empty(t, FromScriptJSON(`{"components":[{"@ctype":"text"`))
	assert.Empty(t, FromScriptJSON(`nothing here`))
	comps := FromScriptJSON(`{"a":{"components":[]},"b":{"components":[{"@ctype":"horizontalLine"}]}}`)
	assert.Equal(t, []Component{HorizontalRule{}}, comps)
}
