package out

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"moneywatch/internal/modules/ledger/domain"
	"moneywatch/internal/platform/money"

	_ "modernc.org/sqlite"
)

// MemoryDSN keeps the ledger in a private in-memory database.
const MemoryDSN = ":memory:"

type SQLiteRecordStore struct {
	db *sql.DB
}

func NewSQLiteRecordStore(dsn string) (*SQLiteRecordStore, error) {
	if strings.TrimSpace(dsn) == "" {
		dsn = MemoryDSN
	}
	if !isMemoryDSN(dsn) {
		if err := os.MkdirAll(filepath.Dir(dsn), 0o755); err != nil {
			return nil, fmt.Errorf("create db dir: %w", err)
		}
	}
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// every new connection to :memory: would see an empty database
	db.SetMaxOpenConns(1)
	store := &SQLiteRecordStore{db: db}
	if err := store.ensureSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

func isMemoryDSN(dsn string) bool {
	return dsn == MemoryDSN || strings.Contains(dsn, "mode=memory")
}

func (s *SQLiteRecordStore) ensureSchema(ctx context.Context) error {
	const ddl = `
CREATE TABLE IF NOT EXISTS records (
  seq INTEGER PRIMARY KEY AUTOINCREMENT,
  id TEXT NOT NULL UNIQUE,
  title TEXT NOT NULL,
  category TEXT NOT NULL,
  duration_minutes INTEGER NOT NULL,
  earnings_cents INTEGER NOT NULL,
  platform TEXT NOT NULL,
  origin TEXT NOT NULL,
  created_at TEXT NOT NULL
);
`
	if _, err := s.db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("create records table: %w", err)
	}
	return nil
}

func (s *SQLiteRecordStore) Append(ctx context.Context, record domain.WatchRecord) (domain.WatchRecord, error) {
	const stmt = `
INSERT INTO records (id, title, category, duration_minutes, earnings_cents, platform, origin, created_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?);
`
	res, err := s.db.ExecContext(ctx, stmt,
		record.ID,
		record.Title,
		string(record.Category),
		record.DurationMin,
		record.Earnings.Cents(),
		record.Platform,
		string(record.Origin),
		record.CreatedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return domain.WatchRecord{}, fmt.Errorf("insert record: %w", err)
	}
	seq, err := res.LastInsertId()
	if err != nil {
		return domain.WatchRecord{}, fmt.Errorf("read record seq: %w", err)
	}
	record.Seq = seq
	return record, nil
}

func (s *SQLiteRecordStore) Discard(ctx context.Context, id string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM records WHERE id = ?`, id); err != nil {
		return fmt.Errorf("discard record %s: %w", id, err)
	}
	return nil
}

func (s *SQLiteRecordStore) List(ctx context.Context) ([]domain.WatchRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
SELECT seq, id, title, category, duration_minutes, earnings_cents, platform, origin, created_at
FROM records
ORDER BY seq DESC`)
	if err != nil {
		return nil, fmt.Errorf("query records: %w", err)
	}
	defer rows.Close()

	out := []domain.WatchRecord{}
	for rows.Next() {
		var (
			rec       domain.WatchRecord
			category  string
			origin    string
			cents     int64
			createdAt string
		)
		if err := rows.Scan(&rec.Seq, &rec.ID, &rec.Title, &category, &rec.DurationMin, &cents, &rec.Platform, &origin, &createdAt); err != nil {
			return nil, fmt.Errorf("scan record: %w", err)
		}
		ts, err := time.Parse(time.RFC3339Nano, createdAt)
		if err != nil {
			return nil, fmt.Errorf("parse record timestamp %q: %w", createdAt, err)
		}
		rec.Category = domain.Category(category)
		rec.Origin = domain.Origin(origin)
		rec.Earnings = money.Cents(cents)
		rec.CreatedAt = ts
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate records: %w", err)
	}
	return out, nil
}

func (s *SQLiteRecordStore) Close() error {
	return s.db.Close()
}
