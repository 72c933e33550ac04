// 패키지 store 는 가져오기 이력을 SQLite 에 보관한다(마이그레이션/기록/조회/초기화).
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"go-naver-importer/internal/model"
)

// SQLite 는 *sql.DB 를 감싼다. modernc.org/sqlite(순수 Go) 기반.
type SQLite struct {
	db *sql.DB
}

// OpenSQLite 는 데이터베이스를 열고 마이그레이션을 실행한다.
// dsn 은 파일 경로 또는 'file:...' 형식.
func OpenSQLite(dsn string) (*SQLite, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", dsn, err)
	}
	db.SetMaxOpenConns(1)
	s := &SQLite{db: db}
	if err := s.migrate(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

func (s *SQLite) Close() error { return s.db.Close() }

func (s *SQLite) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS imports (
            blog_id TEXT NOT NULL,
            log_no TEXT NOT NULL,
            title TEXT,
            date TEXT,
            url TEXT,
            path TEXT,
            failed INTEGER NOT NULL DEFAULT 0,
            error TEXT,
            imported_at TIMESTAMP,
            PRIMARY KEY (blog_id, log_no)
        );`,
		`CREATE INDEX IF NOT EXISTS idx_imports_date ON imports(blog_id, date);`,
	}
	for _, q := range stmts {
		if _, err := s.db.Exec(q); err != nil {
			return fmt.Errorf("exec migrate: %w", err)
		}
	}
	return nil
}

// RecordPost 는 게시글 하나의 결과를 기록한다. 같은 글을 다시 가져오면 덮어쓴다.
func (s *SQLite) RecordPost(ctx context.Context, blogID string, p model.Post, path string) error {
	if blogID == "" || p.LogNo == "" {
		return errors.New("blog id and log no required")
	}
	_, err := s.db.ExecContext(ctx, `INSERT INTO imports(blog_id, log_no, title, date, url, path, failed, error, imported_at)
        VALUES(?,?,?,?,?,?,?,?,?)
        ON CONFLICT(blog_id, log_no) DO UPDATE SET title=excluded.title, date=excluded.date, url=excluded.url,
            path=excluded.path, failed=excluded.failed, error=excluded.error, imported_at=excluded.imported_at`,
		blogID, p.LogNo, p.Title, p.Date, p.URL, path, p.IsErrorPost(), p.Error, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("record post %s/%s: %w", blogID, p.LogNo, err)
	}
	return nil
}

// Imported 는 성공적으로 가져온 logNo 집합을 돌려준다. 실패한 글은 빠지므로 다음 실행에서 다시 시도된다.
func (s *SQLite) Imported(ctx context.Context, blogID string) (map[string]bool, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT log_no FROM imports WHERE blog_id = ? AND failed = 0`, blogID)
	if err != nil {
		return nil, fmt.Errorf("query imported: %w", err)
	}
	defer rows.Close()
	out := map[string]bool{}
	for rows.Next() {
		var logNo string
		if err := rows.Scan(&logNo); err != nil {
			return nil, fmt.Errorf("scan imported: %w", err)
		}
		out[logNo] = true
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate imported: %w", err)
	}
	return out, nil
}

// ListImports 는 블로그의 이력을 게시 날짜 역순으로 돌려준다. blogID 가 비면 전체.
func (s *SQLite) ListImports(ctx context.Context, blogID string) ([]model.ImportRecord, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT blog_id, log_no, COALESCE(title,''), COALESCE(date,''), COALESCE(url,''),
            COALESCE(path,''), failed, COALESCE(error,''), imported_at
        FROM imports WHERE (? = '' OR blog_id = ?) ORDER BY date DESC, log_no DESC`, blogID, blogID)
	if err != nil {
		return nil, fmt.Errorf("query imports: %w", err)
	}
	defer rows.Close()
	var out []model.ImportRecord
	for rows.Next() {
		var r model.ImportRecord
		var importedAt sql.NullTime
		if err := rows.Scan(&r.BlogID, &r.LogNo, &r.Title, &r.Date, &r.URL, &r.Path, &r.Failed, &r.Error, &importedAt); err != nil {
			return nil, fmt.Errorf("scan imports: %w", err)
		}
		if importedAt.Valid {
			r.ImportedAt = importedAt.Time
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate imports: %w", err)
	}
	return out, nil
}

// Stats 는 전체/성공/실패 수와 마지막 기록 시각을 센다. blogID 가 비면 전체.
func (s *SQLite) Stats(ctx context.Context, blogID string) (model.Stats, error) {
	var st model.Stats
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(1) FROM imports WHERE (? = '' OR blog_id = ?)`, blogID, blogID).Scan(&st.Total); err != nil {
		return st, fmt.Errorf("count imports: %w", err)
	}
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(1) FROM imports WHERE (? = '' OR blog_id = ?) AND failed = 0`, blogID, blogID).Scan(&st.OK); err != nil {
		return st, fmt.Errorf("count imports ok: %w", err)
	}
	st.Failed = st.Total - st.OK
	var last sql.NullTime
	err := s.db.QueryRowContext(ctx, `SELECT imported_at FROM imports WHERE (? = '' OR blog_id = ?) ORDER BY imported_at DESC LIMIT 1`, blogID, blogID).Scan(&last)
	switch {
	case errors.Is(err, sql.ErrNoRows):
	case err != nil:
		return st, fmt.Errorf("last import: %w", err)
	case last.Valid:
		st.UpdatedAt = last.Time
	}
	return st, nil
}

// Reset 은 이력을 지운다(데이터베이스 파일은 남긴다). blogID 가 비면 전체.
func (s *SQLite) Reset(ctx context.Context, blogID string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM imports WHERE (? = '' OR blog_id = ?)`, blogID, blogID); err != nil {
		return fmt.Errorf("delete imports: %w", err)
	}
	return nil
}
