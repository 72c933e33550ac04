package discover

import (
	"context"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"

	"go-naver-importer/internal/content"
	"go-naver-importer/internal/logx"
	"go-naver-importer/internal/model"
	"go-naver-importer/internal/naver"
)

// fromRSS 는 목록과 첫 화면이 모두 비었을 때 RSS 피드에서 스텁을 만든다.
// 피드는 최근 글만 담고 있다.
func (d *Discoverer) fromRSS(ctx context.Context, blogID string) []model.PostStub {
	feedURL := d.ep.RSSURL(blogID)
	body, err := d.cl.GetString(ctx, feedURL)
	if err != nil {
		logx.Debugf("RSS 요청 실패: %s 오류=%v", feedURL, err)
		return nil
	}
	feed, err := gofeed.NewParser().ParseString(body)
	if err != nil {
		logx.Debugf("RSS 해석 실패: %s 오류=%v", feedURL, err)
		return nil
	}
	out := make([]model.PostStub, 0, len(feed.Items))
	for _, it := range feed.Items {
		ref, err := naver.ParseRef(it.Link, blogID)
		if err != nil || !strings.EqualFold(ref.BlogID, blogID) {
			continue
		}
		st := d.stub(blogID, ref.LogNo)
		st.Title = content.CleanTitle(it.Title)
		st.Date = feedDate(it.PublishedParsed, it.UpdatedParsed)
		if it.Image != nil {
			st.Thumbnail = it.Image.URL
		}
		out = append(out, st)
	}
	logx.Infof("RSS 에서 스텁 %d개를 찾았습니다", len(out))
	return out
}

func feedDate(a, b *time.Time) string {
	for _, t := range []*time.Time{a, b} {
		if t != nil && !t.IsZero() {
			return t.Format("2006-01-02")
		}
	}
	return ""
}
