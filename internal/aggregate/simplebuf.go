package aggregate

import (
	"sort"
	"sync"

	"go-naver-importer/internal/model"
)

// SimpleBuffer 는 한 번의 실행에서 처리한 게시글을 모은다. 작업자들이 동시에 쓴다.
type SimpleBuffer struct {
	mu    sync.Mutex
	posts map[string]model.Post // key: logNo
	paths map[string]string     // key: logNo
}

// NewSimpleBuffer 는 빈 버퍼를 만든다.
func NewSimpleBuffer() *SimpleBuffer {
	return &SimpleBuffer{
		posts: make(map[string]model.Post),
		paths: make(map[string]string),
	}
}

// AddPost 는 게시글과 쓴 파일 경로를 넣는다. 같은 logNo 는 덮어쓰고, 빈 경로는 기록하지 않는다.
func (b *SimpleBuffer) AddPost(p model.Post, path string) {
	if p.LogNo == "" {
		return
	}
	b.mu.Lock()
	b.posts[p.LogNo] = p
	if path != "" {
		b.paths[p.LogNo] = path
	}
	b.mu.Unlock()
}

// Snapshot 은 복사본을 돌려준다. 게시글은 날짜 역순, 같은 날짜는 logNo 역순.
func (b *SimpleBuffer) Snapshot() ([]model.Post, map[string]string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	ps := make([]model.Post, 0, len(b.posts))
	for _, v := range b.posts {
		ps = append(ps, v)
	}
	sort.Slice(ps, func(i, j int) bool {
		if ps[i].Date != ps[j].Date {
			return ps[i].Date > ps[j].Date
		}
		return ps[i].LogNo > ps[j].LogNo
	})
	paths := make(map[string]string, len(b.paths))
	for k, v := range b.paths {
		paths[k] = v
	}
	return ps, paths
}
