package images

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdmitRejectsUIImages(t *testing.T) {
	rejected := []string{
		"https://storep-phinf.pstatic.net/ogq_5c5d/original_3.png?type=p100_100",
		"https://blogpfthumb-phinf.pstatic.net/MjAyMzA1/profile.jpg",
		"https://ssl.pstatic.net/static/blog/icon_new.gif",
		"https://example.com/img/sticker_01.png",
		"https://example.com/emoticon/smile.gif",
		"https://postfiles.pstatic.net/MjAy/image.jpg?type=f100_100",
		"https://postfiles.pstatic.net/MjAy/image.jpg?type=s3",
		"https://example.com/loading_spinner.gif",
	}
	for _, u := range rejected {
		assert.False(t, Admit(u, "사진", ""), u)
	}
}

func TestAdmitChecksCaptionAndAlt(t *testing.T) {
	u := "https://postfiles.pstatic.net/MjAyNDA1/photo.jpg?type=w966"
	assert.True(t, Admit(u, "바다 풍경", ""))
	assert.False(t, Admit(u, "이모티콘", ""))
	assert.False(t, Admit(u, "", "profile picture"))
	assert.False(t, Admit("", "", ""))
}

func TestAdmitStickerIgnoresCaption(t *testing.T) {
	assert.False(t, Admit("https://x.pstatic.net/sticker/a.png", "멋진 풍경 사진", "풍경"))
}

func TestEnhanceStripsSizeParameter(t *testing.T) {
	in := "https://postfiles.pstatic.net/MjAyNDA1MjJfMTAw/IMG_1234.JPG?type=w966"
	out := Enhance(in)
	assert.Equal(t, "https://postfiles.pstatic.net/MjAyNDA1MjJfMTAw/IMG_1234.JPG", out)

	before, err := url.Parse(in)
	require.NoError(t, err)
	after, err := url.Parse(out)
	require.NoError(t, err)
	assert.Equal(t, before.Host, after.Host)
	assert.Equal(t, before.Path, after.Path)
	assert.Empty(t, after.Query().Get("type"))
}

func TestEnhanceCleansLeftoverPunctuation(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"https://a.pstatic.net/x.jpg?type=w966&id=7", "https://a.pstatic.net/x.jpg?id=7"},
		{"https://a.pstatic.net/x.jpg?id=7&type=w966", "https://a.pstatic.net/x.jpg?id=7"},
		{"https://a.pstatic.net/x.jpg?id=7&w=80&h=80&k=1", "https://a.pstatic.net/x.jpg?id=7&k=1"},
		{"https://a.pstatic.net/x.jpg?&type=w2#frag", "https://a.pstatic.net/x.jpg#frag"},
		{"//a.pstatic.net/x.jpg?quality=80", "https://a.pstatic.net/x.jpg"},
		{"https://cdn.example.com/thumb_300x300/x.jpg", "https://cdn.example.com/x.jpg"},
		{"https://a.pstatic.net/x.jpg", "https://a.pstatic.net/x.jpg"},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Enhance(tt.in), tt.in)
	}
}
