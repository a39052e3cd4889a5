package session

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/oklog/ulid/v2"
	_ "modernc.org/sqlite"

	"github.com/rcliao/vibe-recommender/internal/model"
)

// MemoryDSN keeps the whole session in memory.
const MemoryDSN = ":memory:"

var _ Store = (*SQLiteStore)(nil)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db      *sql.DB
	id      string
	entropy *rand.Rand
}

// NewSQLiteStore opens a session store. dsn is MemoryDSN or a file path.
func NewSQLiteStore(dsn string) (*SQLiteStore, error) {
	if dsn == "" {
		dsn = MemoryDSN
	}
	source := dsn
	if !isMemory(dsn) {
		if err := os.MkdirAll(filepath.Dir(dsn), 0o755); err != nil {
			return nil, fmt.Errorf("create db dir: %w", err)
		}
		source = dsn + "?_pragma=journal_mode(wal)"
	}

	db, err := sql.Open("sqlite", source)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	// Each connection to :memory: is its own database.
	db.SetMaxOpenConns(1)

	s := &SQLiteStore{
		db:      db,
		entropy: rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	s.id = s.newID()

	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

func isMemory(dsn string) bool {
	return dsn == MemoryDSN || strings.HasPrefix(dsn, "file::memory:")
}

func (s *SQLiteStore) newID() string {
	return ulid.MustNew(ulid.Timestamp(time.Now()), s.entropy).String()
}

func (s *SQLiteStore) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS feedback (
		movie_id   TEXT PRIMARY KEY,
		kind       TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS liked (
		seq      INTEGER PRIMARY KEY AUTOINCREMENT,
		movie_id TEXT NOT NULL UNIQUE,
		movie    TEXT NOT NULL,
		liked_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS memo (
		ns         TEXT NOT NULL,
		key        TEXT NOT NULL,
		value      BLOB NOT NULL,
		created_at TEXT NOT NULL,
		PRIMARY KEY (ns, key)
	);

	CREATE TABLE IF NOT EXISTS history (
		seq        INTEGER PRIMARY KEY AUTOINCREMENT,
		id         TEXT NOT NULL UNIQUE,
		situation  TEXT,
		profile    TEXT NOT NULL,
		created_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS current (
		slot       INTEGER PRIMARY KEY CHECK (slot = 1),
		profile    TEXT NOT NULL,
		items      TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS shown (
		movie_id TEXT PRIMARY KEY,
		movie    TEXT NOT NULL,
		shown_at TEXT NOT NULL
	);
	`
	_, err := s.db.Exec(schema)
	return err
}

func (s *SQLiteStore) ID() string { return s.id }

func now() string {
	return time.Now().UTC().Format(time.RFC3339Nano)
}

func (s *SQLiteStore) SetFeedback(ctx context.Context, movieID string, kind model.Feedback) error {
	if !model.ValidFeedback[kind] {
		return fmt.Errorf("invalid feedback %q", kind)
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO feedback (movie_id, kind, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(movie_id) DO UPDATE SET kind = excluded.kind, updated_at = excluded.updated_at`,
		movieID, string(kind), now())
	if err != nil {
		return fmt.Errorf("set feedback: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Feedback(ctx context.Context, movieID string) (model.Feedback, bool, error) {
	var kind string
	err := s.db.QueryRowContext(ctx, `SELECT kind FROM feedback WHERE movie_id = ?`, movieID).Scan(&kind)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("get feedback: %w", err)
	}
	return model.Feedback(kind), true, nil
}

func (s *SQLiteStore) FeedbackStats(ctx context.Context) (FeedbackStats, error) {
	var st FeedbackStats
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*),
		        COALESCE(SUM(CASE WHEN kind = ? THEN 1 ELSE 0 END), 0),
		        COALESCE(SUM(CASE WHEN kind = ? THEN 1 ELSE 0 END), 0)
		 FROM feedback`, string(model.FeedbackLike), string(model.FeedbackDislike)).
		Scan(&st.Total, &st.Likes, &st.Dislikes)
	if err != nil {
		return st, fmt.Errorf("feedback stats: %w", err)
	}
	return st, nil
}

func (s *SQLiteStore) Like(ctx context.Context, m model.Movie) (bool, error) {
	b, err := json.Marshal(m)
	if err != nil {
		return false, fmt.Errorf("encode movie: %w", err)
	}
	ts := now()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return false, err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO feedback (movie_id, kind, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(movie_id) DO UPDATE SET kind = excluded.kind, updated_at = excluded.updated_at`,
		m.ID, string(model.FeedbackLike), ts); err != nil {
		return false, fmt.Errorf("set feedback: %w", err)
	}

	res, err := tx.ExecContext(ctx,
		`INSERT OR IGNORE INTO liked (movie_id, movie, liked_at) VALUES (?, ?, ?)`,
		m.ID, string(b), ts)
	if err != nil {
		return false, fmt.Errorf("insert liked: %w", err)
	}
	n, _ := res.RowsAffected()

	if err := tx.Commit(); err != nil {
		return false, err
	}
	return n > 0, nil
}

func (s *SQLiteStore) Unlike(ctx context.Context, movieID string) (bool, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return false, err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `DELETE FROM liked WHERE movie_id = ?`, movieID)
	if err != nil {
		return false, fmt.Errorf("delete liked: %w", err)
	}
	n, _ := res.RowsAffected()
	if _, err := tx.ExecContext(ctx, `DELETE FROM feedback WHERE movie_id = ?`, movieID); err != nil {
		return false, fmt.Errorf("delete feedback: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return false, err
	}
	return n > 0, nil
}

func (s *SQLiteStore) Liked(ctx context.Context) ([]model.LikedMovie, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT movie, liked_at FROM liked ORDER BY seq`)
	if err != nil {
		return nil, fmt.Errorf("list liked: %w", err)
	}
	defer rows.Close()

	var out []model.LikedMovie
	for rows.Next() {
		lm, err := scanLiked(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, lm)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) MemoGet(ctx context.Context, ns, key string) ([]byte, bool, error) {
	var v []byte
	err := s.db.QueryRowContext(ctx, `SELECT value FROM memo WHERE ns = ? AND key = ?`, ns, key).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("memo get %s/%s: %w", ns, key, err)
	}
	return v, true, nil
}

func (s *SQLiteStore) MemoPut(ctx context.Context, ns, key string, value []byte) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO memo (ns, key, value, created_at) VALUES (?, ?, ?, ?)`,
		ns, key, value, now())
	if err != nil {
		return fmt.Errorf("memo put %s/%s: %w", ns, key, err)
	}
	return nil
}

func (s *SQLiteStore) AppendHistory(ctx context.Context, situation string, p model.EmotionProfile) (*model.HistoryEntry, error) {
	b, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("encode profile: %w", err)
	}
	created := time.Now().UTC()
	e := &model.HistoryEntry{
		ID:        s.newID(),
		Situation: situation,
		Profile:   p,
		CreatedAt: created,
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO history (id, situation, profile, created_at) VALUES (?, ?, ?, ?)`,
		e.ID, situation, string(b), created.Format(time.RFC3339Nano))
	if err != nil {
		return nil, fmt.Errorf("insert history: %w", err)
	}
	return e, nil
}

func (s *SQLiteStore) History(ctx context.Context, limit int) ([]model.HistoryEntry, error) {
	query := `SELECT id, situation, profile, created_at FROM history ORDER BY seq DESC`
	var args []interface{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list history: %w", err)
	}
	defer rows.Close()

	var out []model.HistoryEntry
	for rows.Next() {
		e, err := scanHistory(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	// newest-first from the query; callers want chronological order
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return out, nil
}

func (s *SQLiteStore) SetCurrent(ctx context.Context, p model.EmotionProfile, items []model.ScoredMovie) error {
	pb, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("encode profile: %w", err)
	}
	if items == nil {
		items = []model.ScoredMovie{}
	}
	ib, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("encode items: %w", err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO current (slot, profile, items, updated_at) VALUES (1, ?, ?, ?)
		 ON CONFLICT(slot) DO UPDATE SET profile = excluded.profile, items = excluded.items, updated_at = excluded.updated_at`,
		string(pb), string(ib), now())
	if err != nil {
		return fmt.Errorf("set current: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Current(ctx context.Context) (*Current, bool, error) {
	var profile, items, updated string
	err := s.db.QueryRowContext(ctx, `SELECT profile, items, updated_at FROM current WHERE slot = 1`).
		Scan(&profile, &items, &updated)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get current: %w", err)
	}

	c := &Current{}
	if err := json.Unmarshal([]byte(profile), &c.Profile); err != nil {
		return nil, false, fmt.Errorf("decode profile: %w", err)
	}
	if err := json.Unmarshal([]byte(items), &c.Items); err != nil {
		return nil, false, fmt.Errorf("decode items: %w", err)
	}
	c.UpdatedAt, _ = time.Parse(time.RFC3339Nano, updated)
	return c, true, nil
}

func (s *SQLiteStore) Remember(ctx context.Context, movies ...model.Movie) error {
	if len(movies) == 0 {
		return nil
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	ts := now()
	for _, m := range movies {
		b, err := json.Marshal(m)
		if err != nil {
			return fmt.Errorf("encode movie: %w", err)
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT OR REPLACE INTO shown (movie_id, movie, shown_at) VALUES (?, ?, ?)`,
			m.ID, string(b), ts); err != nil {
			return fmt.Errorf("remember %s: %w", m.ID, err)
		}
	}
	return tx.Commit()
}

func (s *SQLiteStore) Shown(ctx context.Context, movieID string) (model.Movie, bool, error) {
	var raw string
	err := s.db.QueryRowContext(ctx, `SELECT movie FROM shown WHERE movie_id = ?`, movieID).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Movie{}, false, nil
	}
	if err != nil {
		return model.Movie{}, false, fmt.Errorf("get shown: %w", err)
	}
	var m model.Movie
	if err := json.Unmarshal([]byte(raw), &m); err != nil {
		return model.Movie{}, false, fmt.Errorf("decode movie: %w", err)
	}
	return m, true, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanLiked(row scanner) (model.LikedMovie, error) {
	var lm model.LikedMovie
	var raw, likedAt string
	if err := row.Scan(&raw, &likedAt); err != nil {
		return lm, err
	}
	if err := json.Unmarshal([]byte(raw), &lm.Movie); err != nil {
		return lm, fmt.Errorf("decode liked movie: %w", err)
	}
	lm.LikedAt, _ = time.Parse(time.RFC3339Nano, likedAt)
	return lm, nil
}

func scanHistory(row scanner) (model.HistoryEntry, error) {
	var e model.HistoryEntry
	var situation sql.NullString
	var profile, createdAt string
	if err := row.Scan(&e.ID, &situation, &profile, &createdAt); err != nil {
		return e, err
	}
	if situation.Valid {
		e.Situation = situation.String
	}
	if err := json.Unmarshal([]byte(profile), &e.Profile); err != nil {
		return e, fmt.Errorf("decode history profile: %w", err)
	}
	e.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdAt)
	return e, nil
}
