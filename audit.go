// audit.go: SQLite-backed audit trail for store mutations
//
// Every mutating command (init, add, rm, set, raw backend forwarding) can be
// recorded to a local SQLite database for accountability. The trail is
// queryable and prunable from the CLI. Auditing is off by default and never
// blocks a command: recording failures degrade to WARN diagnostics.
//
// Copyright (c) 2025 AGILira
// Series: AGILira fragment
// SPDX-License-Identifier: MPL-2.0

package vesta

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/agilira/go-errors"
	"github.com/agilira/go-timecache"
	_ "github.com/mattn/go-sqlite3" // SQLite driver registration
)

// AuditEvent is one recorded store mutation.
type AuditEvent struct {
	Timestamp   time.Time
	Event       string // store_init, store_set, store_add, store_rm, store_db
	Key         string
	Value       string
	ProcessID   int
	ProcessName string
}

// AuditLog records and queries audit events in a SQLite database. Vesta
// processes are short-lived, so events are written through immediately
// rather than buffered.
type AuditLog struct {
	db   *sql.DB
	path string
}

const auditSchema = `
CREATE TABLE IF NOT EXISTS audit_events (
	id           INTEGER PRIMARY KEY AUTOINCREMENT,
	ts_ns        INTEGER NOT NULL,
	event        TEXT    NOT NULL,
	key          TEXT,
	value        TEXT,
	process_id   INTEGER,
	process_name TEXT
);
CREATE INDEX IF NOT EXISTS idx_audit_events_ts ON audit_events(ts_ns);
CREATE INDEX IF NOT EXISTS idx_audit_events_event ON audit_events(event);
`

// OpenAuditLog opens (creating if needed) the audit database at path.
func OpenAuditLog(path string) (*AuditLog, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, errors.Wrap(err, ErrCodeAuditError, "cannot create audit directory")
	}
	db, err := sql.Open("sqlite3",
		fmt.Sprintf("%s?_journal_mode=WAL&_busy_timeout=5000&_synchronous=NORMAL", path))
	if err != nil {
		return nil, errors.Wrap(err, ErrCodeAuditError, "cannot open audit database")
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, errors.Wrap(err, ErrCodeAuditError, "cannot reach audit database")
	}
	if _, err := db.Exec(auditSchema); err != nil {
		db.Close()
		return nil, errors.Wrap(err, ErrCodeAuditError, "cannot initialize audit schema")
	}
	return &AuditLog{db: db, path: path}, nil
}

// Record persists one event. The timestamp comes from the cached clock.
func (a *AuditLog) Record(event, key, value string) error {
	_, err := a.db.Exec(
		`INSERT INTO audit_events (ts_ns, event, key, value, process_id, process_name)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		timecache.CachedTimeNano(), event, key, value, os.Getpid(), processName())
	if err != nil {
		return errors.Wrap(err, ErrCodeAuditError, "cannot record audit event")
	}
	return nil
}

// Query returns events newer than since (zero means no age bound), filtered
// by event name when one is given, newest first, capped at limit.
func (a *AuditLog) Query(since time.Duration, event string, limit int) ([]AuditEvent, error) {
	cutoff := int64(0)
	if since > 0 {
		cutoff = timecache.CachedTime().Add(-since).UnixNano()
	}
	if limit <= 0 {
		limit = 100
	}
	rows, err := a.db.Query(
		`SELECT ts_ns, event, key, value, process_id, process_name
		 FROM audit_events
		 WHERE ts_ns >= ? AND (? = '' OR event = ?)
		 ORDER BY ts_ns DESC, id DESC LIMIT ?`,
		cutoff, event, event, limit)
	if err != nil {
		return nil, errors.Wrap(err, ErrCodeAuditError, "audit query failed")
	}
	defer rows.Close()

	var events []AuditEvent
	for rows.Next() {
		var ev AuditEvent
		var ns int64
		if err := rows.Scan(&ns, &ev.Event, &ev.Key, &ev.Value, &ev.ProcessID, &ev.ProcessName); err != nil {
			return nil, errors.Wrap(err, ErrCodeAuditError, "audit row scan failed")
		}
		ev.Timestamp = time.Unix(0, ns)
		events = append(events, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, ErrCodeAuditError, "audit query failed")
	}
	return events, nil
}

// CountOlderThan returns how many events Cleanup would remove.
func (a *AuditLog) CountOlderThan(age time.Duration) (int64, error) {
	cutoff := timecache.CachedTime().Add(-age).UnixNano()
	var n int64
	err := a.db.QueryRow(
		`SELECT COUNT(*) FROM audit_events WHERE ts_ns < ?`, cutoff).Scan(&n)
	if err != nil {
		return 0, errors.Wrap(err, ErrCodeAuditError, "audit count failed")
	}
	return n, nil
}

// Cleanup deletes events older than age and returns the number removed.
func (a *AuditLog) Cleanup(age time.Duration) (int64, error) {
	cutoff := timecache.CachedTime().Add(-age).UnixNano()
	res, err := a.db.Exec(`DELETE FROM audit_events WHERE ts_ns < ?`, cutoff)
	if err != nil {
		return 0, errors.Wrap(err, ErrCodeAuditError, "audit cleanup failed")
	}
	n, _ := res.RowsAffected()
	return n, nil
}

// Close releases the database handle.
func (a *AuditLog) Close() error {
	return a.db.Close()
}

func processName() string {
	return filepath.Base(os.Args[0])
}
