// Package audit provides an append-only SQLite log of completed tasks,
// for the reserved `history` inspection surface.
package audit

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // Pure-Go SQLite driver (no CGO required)

	"github.com/granville-run/granville/internal/domain"
)

// Log wraps a SQLite connection in WAL mode and records one row per
// completed task.
type Log struct {
	db *sql.DB
}

// Open creates or opens the audit database at path, running migrations.
func Open(path string) (*Log, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, fmt.Errorf("create audit dir: %w", err)
	}

	dsn := path + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open audit db: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping audit db: %w", err)
	}

	db.SetMaxOpenConns(1) // SQLite is single-writer
	db.SetMaxIdleConns(1)

	l := &Log{db: db}
	if err := l.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate audit db: %w", err)
	}
	return l, nil
}

// Close shuts down the database.
func (l *Log) Close() error {
	return l.db.Close()
}

func (l *Log) migrate() error {
	_, err := l.db.Exec(`CREATE TABLE IF NOT EXISTS tasks (
		task_id      TEXT PRIMARY KEY,
		model_id     INTEGER NOT NULL,
		priority     TEXT NOT NULL,
		succeeded    BOOLEAN NOT NULL,
		duration_ms  INTEGER NOT NULL,
		completed_at INTEGER NOT NULL
	)`)
	return err
}

// Record implements worker.AuditSink. A write failure is silently
// discarded: Record returns nothing and logs nothing, so an audit failure
// never affects task delivery.
func (l *Log) Record(id string, modelID int, priority domain.Priority, succeeded bool, duration time.Duration) {
	l.db.Exec(
		`INSERT INTO tasks (task_id, model_id, priority, succeeded, duration_ms, completed_at)
		 VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT(task_id) DO UPDATE SET
			model_id=excluded.model_id,
			priority=excluded.priority,
			succeeded=excluded.succeeded,
			duration_ms=excluded.duration_ms,
			completed_at=excluded.completed_at`,
		id, modelID, priority.String(), succeeded, duration.Milliseconds(), time.Now().Unix(),
	)
}

// Entry is a single row of task history.
type Entry struct {
	TaskID      string
	ModelID     int
	Priority    string
	Succeeded   bool
	DurationMS  int64
	CompletedAt time.Time
}

// Recent returns the most recently completed tasks, newest first, capped
// at limit rows.
func (l *Log) Recent(limit int) ([]Entry, error) {
	rows, err := l.db.Query(
		`SELECT task_id, model_id, priority, succeeded, duration_ms, completed_at
		 FROM tasks ORDER BY completed_at DESC LIMIT ?`, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var completedAt int64
		if err := rows.Scan(&e.TaskID, &e.ModelID, &e.Priority, &e.Succeeded, &e.DurationMS, &completedAt); err != nil {
			return nil, err
		}
		e.CompletedAt = time.Unix(completedAt, 0)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
