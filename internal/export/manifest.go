package export

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"go-naver-importer/internal/model"
)

// Manifest 는 한 번의 가져오기 실행 결과 요약이다. 본문은 담지 않는다.
type Manifest struct {
	BlogID string        `json:"blog_id"`
	Stats  model.Stats   `json:"stats"`
	Posts  []EntryRecord `json:"posts"`
}

// EntryRecord 는 manifest 의 게시글 한 줄이다.
type EntryRecord struct {
	model.PostStub
	Tags   []string `json:"tags,omitempty"`
	Path   string   `json:"path,omitempty"`
	Failed bool     `json:"failed,omitempty"`
	Error  string   `json:"error,omitempty"`
}

// ToJSONData 는 메모리의 게시글 목록을 manifest JSON 으로 쓴다(들여쓰기 포함).
// paths 는 logNo 별로 쓰인 Markdown 경로이며 nil 이어도 된다.
func ToJSONData(ctx context.Context, blogID string, posts []model.Post, paths map[string]string, path string) error {
	st := model.Stats{Total: len(posts), UpdatedAt: time.Now()}
	entries := make([]EntryRecord, 0, len(posts))
	for _, p := range posts {
		if err := ctx.Err(); err != nil {
			return err
		}
		failed := p.IsErrorPost()
		if failed {
			st.Failed++
		} else {
			st.OK++
		}
		entries = append(entries, EntryRecord{
			PostStub: p.PostStub,
			Tags:     p.Tags,
			Path:     paths[p.LogNo],
			Failed:   failed,
			Error:    p.Error,
		})
	}
	out := Manifest{BlogID: blogID, Stats: st, Posts: entries}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("encode json to %s: %w", path, err)
	}
	return nil
}
