// Package history keeps a SQLite ledger of schedule fires. The ledger is
// informational: the scheduler never reads it back, so losing it has no
// effect on what fires.
package history

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"time"

	_ "modernc.org/sqlite"
)

//go:embed schema.sql
var schemaFS embed.FS

// DefaultLimit is the number of entries Recent returns when no limit is
// given.
const DefaultLimit = 20

// pruneEvery is how many appends pass between retention sweeps.
const pruneEvery = 100

// ErrClosed is returned by operations on a closed ledger.
var ErrClosed = errors.New("history: ledger closed")

// Entry is one fire.
type Entry struct {
	Label     string
	Agent     string
	Bucket    string
	MessageID string
	FiredAt   time.Time
	// Err is the emit failure, empty on success.
	Err string
}

// OK reports whether the event was written to the queue.
func (e Entry) OK() bool {
	return e.Err == ""
}

// Filter narrows Recent.
type Filter struct {
	Label string
	Limit int
}

// Ledger is a SQLite backed fire history.
type Ledger struct {
	db        *sql.DB
	retention time.Duration
	now       func() time.Time
	appends   atomic.Uint64
}

// Open opens (creating if needed) the ledger at path. Entries older than
// retention are pruned periodically; zero keeps everything.
func Open(path string, retention time.Duration) (*Ledger, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("history: path is required")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	_, _ = db.Exec("PRAGMA busy_timeout = 2000")
	_, _ = db.Exec("PRAGMA journal_mode = WAL")
	_, _ = db.Exec("PRAGMA synchronous = NORMAL")

	l := &Ledger{db: db, retention: retention, now: time.Now}
	if err := l.migrate(context.Background()); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("history: migrate %s: %w", path, err)
	}
	return l, nil
}

func (l *Ledger) migrate(ctx context.Context) error {
	b, err := schemaFS.ReadFile("schema.sql")
	if err != nil {
		return err
	}
	_, err = l.db.ExecContext(ctx, string(b))
	return err
}

// Close closes the database. Safe on a nil ledger.
func (l *Ledger) Close() error {
	if l == nil || l.db == nil {
		return nil
	}
	err := l.db.Close()
	l.db = nil
	return err
}

// Record appends e. A zero FiredAt is stamped with the current time.
func (l *Ledger) Record(ctx context.Context, e Entry) error {
	if l == nil || l.db == nil {
		return ErrClosed
	}
	if e.FiredAt.IsZero() {
		e.FiredAt = l.now()
	}
	_, err := l.db.ExecContext(ctx,
		`INSERT INTO fires(label, agent, bucket, message_id, fired_at, err) VALUES(?,?,?,?,?,?)`,
		e.Label, e.Agent, e.Bucket, nullStr(e.MessageID), e.FiredAt.UnixMilli(), nullStr(e.Err),
	)
	if err != nil {
		return fmt.Errorf("history: record %q: %w", e.Label, err)
	}
	if l.retention > 0 && l.appends.Add(1)%pruneEvery == 0 {
		_, _ = l.Prune(ctx, l.now().Add(-l.retention))
	}
	return nil
}

// Recent returns the newest entries first.
func (l *Ledger) Recent(ctx context.Context, f Filter) ([]Entry, error) {
	if l == nil || l.db == nil {
		return nil, ErrClosed
	}
	limit := f.Limit
	if limit <= 0 {
		limit = DefaultLimit
	}
	q := `SELECT label, agent, bucket, COALESCE(message_id, ''), fired_at, COALESCE(err, '') FROM fires`
	args := []any{}
	if f.Label != "" {
		q += ` WHERE label = ?`
		args = append(args, f.Label)
	}
	q += ` ORDER BY fired_at DESC, id DESC LIMIT ?`
	args = append(args, limit)

	rows, err := l.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var (
			e  Entry
			ms int64
		)
		if err := rows.Scan(&e.Label, &e.Agent, &e.Bucket, &e.MessageID, &ms, &e.Err); err != nil {
			return nil, err
		}
		e.FiredAt = time.UnixMilli(ms)
		out = append(out, e)
	}
	return out, rows.Err()
}

// Prune deletes entries fired before cutoff and returns how many went.
func (l *Ledger) Prune(ctx context.Context, cutoff time.Time) (int64, error) {
	if l == nil || l.db == nil {
		return 0, ErrClosed
	}
	res, err := l.db.ExecContext(ctx, `DELETE FROM fires WHERE fired_at < ?`, cutoff.UnixMilli())
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func nullStr(v string) any {
	if strings.TrimSpace(v) == "" {
		return nil
	}
	return v
}
