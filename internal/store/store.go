// Package store archives generated events in a SQLite database so
// repeated runs can diff and re-export without recomputing.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/thurmanmarka/almagest"
)

// Store is the persistence surface the CLI works against.
type Store interface {
	SaveEvents(ctx context.Context, events []almagest.Event) (int64, error)
	ListEvents(ctx context.Context, q Query) ([]almagest.Event, error)
	PurgeInterval(ctx context.Context, iv almagest.Interval) (int64, error)
	Stats(ctx context.Context) (*Stats, error)
	Close() error
}

// Query filters ListEvents. Zero fields mean no constraint.
type Query struct {
	Kind     almagest.Kind
	Calendar string
	After    time.Time
	Before   time.Time
	Limit    int
}

// Stats summarizes archive contents.
type Stats struct {
	TotalEvents int64
	ByKind      map[almagest.Kind]int64
	Earliest    time.Time
	Latest      time.Time
}

// SQLiteStore implements Store on a local SQLite file.
type SQLiteStore struct {
	db *sql.DB

	insertEvent *sql.Stmt
}

// Open opens (creating if needed) the database at path, applies
// pending migrations and prepares statements.
func Open(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if err := NewMigrationRunner(db).Run(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	s := &SQLiteStore{db: db}
	if err := s.prepareStatements(); err != nil {
		db.Close()
		return nil, fmt.Errorf("prepare statements: %w", err)
	}
	return s, nil
}

func (s *SQLiteStore) prepareStatements() error {
	var err error
	s.insertEvent, err = s.db.Prepare(`
		INSERT INTO events (identity, kind, summary, start_time, duration_secs, description, participants, calendar)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(identity, start_time) DO UPDATE SET
			duration_secs = excluded.duration_secs,
			description   = excluded.description,
			calendar      = excluded.calendar,
			updated_at    = CURRENT_TIMESTAMP
	`)
	return err
}

// SaveEvents upserts the batch in one transaction and reports how many
// rows were written.
func (s *SQLiteStore) SaveEvents(ctx context.Context, events []almagest.Event) (int64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	stmt := tx.StmtContext(ctx, s.insertEvent)
	var written int64
	for _, ev := range events {
		_, err := stmt.ExecContext(ctx,
			ev.Identity(),
			string(ev.Kind),
			ev.Summary,
			ev.Start.UTC().Format(time.RFC3339Nano),
			int64(ev.Duration.Seconds()),
			ev.Description,
			strings.Join(ev.Participants, ","),
			ev.Calendar,
		)
		if err != nil {
			return written, fmt.Errorf("insert event %q: %w", ev.Summary, err)
		}
		written++
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}
	return written, nil
}

// ListEvents returns archived events matching q, ordered by start time.
func (s *SQLiteStore) ListEvents(ctx context.Context, q Query) ([]almagest.Event, error) {
	var (
		conds []string
		args  []any
	)
	if q.Kind != "" {
		conds = append(conds, "kind = ?")
		args = append(args, string(q.Kind))
	}
	if q.Calendar != "" {
		conds = append(conds, "calendar = ?")
		args = append(args, q.Calendar)
	}
	if !q.After.IsZero() {
		conds = append(conds, "start_time >= ?")
		args = append(args, q.After.UTC().Format(time.RFC3339Nano))
	}
	if !q.Before.IsZero() {
		conds = append(conds, "start_time < ?")
		args = append(args, q.Before.UTC().Format(time.RFC3339Nano))
	}

	query := "SELECT kind, summary, start_time, duration_secs, description, participants, calendar FROM events"
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY start_time"
	if q.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, q.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query events: %w", err)
	}
	defer rows.Close()

	var events []almagest.Event
	for rows.Next() {
		var (
			kind, summary, start, desc, parts, cal string
			durSecs                                int64
		)
		if err := rows.Scan(&kind, &summary, &start, &durSecs, &desc, &parts, &cal); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		startTime, err := time.Parse(time.RFC3339Nano, start)
		if err != nil {
			return nil, fmt.Errorf("parse start time %q: %w", start, err)
		}
		ev := almagest.Event{
			Kind:        almagest.Kind(kind),
			Summary:     summary,
			Start:       startTime,
			Duration:    time.Duration(durSecs) * time.Second,
			Description: desc,
			Calendar:    cal,
		}
		if parts != "" {
			ev.Participants = strings.Split(parts, ",")
		}
		events = append(events, ev)
	}
	return events, rows.Err()
}

// PurgeInterval deletes archived events whose start time falls inside
// the interval and reports the number removed.
func (s *SQLiteStore) PurgeInterval(ctx context.Context, iv almagest.Interval) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		"DELETE FROM events WHERE start_time >= ? AND start_time < ?",
		iv.Start().Format(time.RFC3339Nano),
		iv.End().Format(time.RFC3339Nano),
	)
	if err != nil {
		return 0, fmt.Errorf("purge: %w", err)
	}
	return res.RowsAffected()
}

// Stats aggregates archive counts and time bounds.
func (s *SQLiteStore) Stats(ctx context.Context) (*Stats, error) {
	st := &Stats{ByKind: make(map[almagest.Kind]int64)}

	rows, err := s.db.QueryContext(ctx, "SELECT kind, COUNT(*) FROM events GROUP BY kind")
	if err != nil {
		return nil, fmt.Errorf("count by kind: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var kind string
		var n int64
		if err := rows.Scan(&kind, &n); err != nil {
			return nil, err
		}
		st.ByKind[almagest.Kind(kind)] = n
		st.TotalEvents += n
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	var earliest, latest sql.NullString
	err = s.db.QueryRowContext(ctx,
		"SELECT MIN(start_time), MAX(start_time) FROM events").Scan(&earliest, &latest)
	if err != nil {
		return nil, fmt.Errorf("time bounds: %w", err)
	}
	if earliest.Valid {
		st.Earliest, _ = time.Parse(time.RFC3339Nano, earliest.String)
	}
	if latest.Valid {
		st.Latest, _ = time.Parse(time.RFC3339Nano, latest.String)
	}
	return st, nil
}

func (s *SQLiteStore) Close() error {
	if s.insertEvent != nil {
		s.insertEvent.Close()
	}
	return s.db.Close()
}
