// Package visits is the privacy-conscious page-view log behind the admin
// stats. Client addresses are never stored; only a salted, truncated hash.
package visits

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS visitors (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	hashed_ip TEXT NOT NULL,
	user_agent TEXT NOT NULL DEFAULT '',
	path TEXT NOT NULL,
	route TEXT NOT NULL,
	visited_at INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS visitors_visited_at ON visitors (visited_at);
`

// Visit is one recorded page view.
type Visit struct {
	ID        int64     `json:"id"`
	HashedIP  string    `json:"hashed_ip"`
	UserAgent string    `json:"user_agent"`
	Path      string    `json:"path"`
	Route     string    `json:"route"`
	Timestamp time.Time `json:"timestamp"`
}

// RouteCount is the number of views of one route.
type RouteCount struct {
	Route  string `json:"route"`
	Visits int64  `json:"visits"`
}

// Stats summarizes the log for the admin API.
type Stats struct {
	TotalVisitors    int64        `json:"total_visitors"`
	UniqueVisitors   int64        `json:"unique_visitors"`
	VisitorsToday    int64        `json:"visitors_today"`
	VisitorsThisWeek int64        `json:"visitors_this_week"`
	TopRoutes        []RouteCount `json:"top_routes"`
	RecentVisitors   []Visit      `json:"recent_visitors"`
}

// RecentLimit caps Stats.RecentVisitors.
const RecentLimit = 50

// Store is a SQLite-backed visit log. It is safe for concurrent use.
type Store struct {
	sqlDB *sql.DB
	now   func() time.Time
}

// Open opens the log at path, creating it if needed.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("visits path is required")
	}
	dsn := filepath.Clean(path) + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if _, err := sqlDB.Exec(schema); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("create visitors table: %w", err)
	}
	return &Store{sqlDB: sqlDB, now: time.Now}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

// Record stores v. A zero Timestamp means now.
func (s *Store) Record(ctx context.Context, v Visit) error {
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("visit store is not configured")
	}
	if v.HashedIP == "" {
		return fmt.Errorf("hashed ip is required")
	}
	at := v.Timestamp
	if at.IsZero() {
		at = s.now()
	}
	_, err := s.sqlDB.ExecContext(ctx, `
		INSERT INTO visitors (hashed_ip, user_agent, path, route, visited_at)
		VALUES (?, ?, ?, ?, ?)
	`, v.HashedIP, v.UserAgent, v.Path, v.Route, at.UnixMilli())
	if err != nil {
		return fmt.Errorf("record visit: %w", err)
	}
	return nil
}

// Stats summarizes the log.
func (s *Store) Stats(ctx context.Context) (*Stats, error) {
	now := s.now().UTC()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	week := now.Add(-7 * 24 * time.Hour)

	stats := &Stats{TopRoutes: []RouteCount{}, RecentVisitors: []Visit{}}
	counts := []struct {
		dst   *int64
		query string
		args  []any
	}{
		{&stats.TotalVisitors, `SELECT COUNT(*) FROM visitors`, nil},
		{&stats.UniqueVisitors, `SELECT COUNT(DISTINCT hashed_ip) FROM visitors`, nil},
		{&stats.VisitorsToday, `SELECT COUNT(*) FROM visitors WHERE visited_at >= ?`, []any{today.UnixMilli()}},
		{&stats.VisitorsThisWeek, `SELECT COUNT(*) FROM visitors WHERE visited_at >= ?`, []any{week.UnixMilli()}},
	}
	for _, c := range counts {
		if err := s.sqlDB.QueryRowContext(ctx, c.query, c.args...).Scan(c.dst); err != nil {
			return nil, fmt.Errorf("count visitors: %w", err)
		}
	}

	rows, err := s.sqlDB.QueryContext(ctx, `
		SELECT route, COUNT(*) AS n FROM visitors
		GROUP BY route
		ORDER BY n DESC, route ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("count routes: %w", err)
	}
	for rows.Next() {
		var rc RouteCount
		if err := rows.Scan(&rc.Route, &rc.Visits); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan route count: %w", err)
		}
		stats.TopRoutes = append(stats.TopRoutes, rc)
	}
	rows.Close()

	recent, err := s.Recent(ctx, RecentLimit)
	if err != nil {
		return nil, err
	}
	stats.RecentVisitors = recent
	return stats, nil
}

// Recent returns up to limit visits, newest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]Visit, error) {
	rows, err := s.sqlDB.QueryContext(ctx, `
		SELECT id, hashed_ip, user_agent, path, route, visited_at
		FROM visitors
		ORDER BY visited_at DESC, id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("list visitors: %w", err)
	}
	defer rows.Close()

	out := []Visit{}
	for rows.Next() {
		var (
			v  Visit
			ms int64
		)
		if err := rows.Scan(&v.ID, &v.HashedIP, &v.UserAgent, &v.Path, &v.Route, &ms); err != nil {
			return nil, fmt.Errorf("scan visitor: %w", err)
		}
		v.Timestamp = time.UnixMilli(ms).UTC()
		out = append(out, v)
	}
	return out, rows.Err()
}

// Cleanup deletes visits older than retention and reports how many went.
func (s *Store) Cleanup(ctx context.Context, retention time.Duration) (int64, error) {
	cutoff := s.now().Add(-retention)
	res, err := s.sqlDB.ExecContext(ctx, `DELETE FROM visitors WHERE visited_at < ?`, cutoff.UnixMilli())
	if err != nil {
		return 0, fmt.Errorf("clean up visitors: %w", err)
	}
	n, _ := res.RowsAffected()
	return n, nil
}

// Hasher turns client addresses into stable, unlinkable identifiers. The
// salt lives only in memory, so hashes cannot be matched across restarts.
type Hasher struct {
	salt string
}

// NewHasher returns a hasher with a fresh random salt.
func NewHasher() (*Hasher, error) {
	salt, err := Token()
	if err != nil {
		return nil, err
	}
	return &Hasher{salt: salt}, nil
}

// Hash returns the first 16 hex digits of sha256(ip + salt).
func (h *Hasher) Hash(ip string) string {
	sum := sha256.Sum256([]byte(ip + h.salt))
	return hex.EncodeToString(sum[:])[:16]
}

// Token returns 32 random bytes, hex encoded.
func Token() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate token: %w", err)
	}
	return hex.EncodeToString(b), nil
}
