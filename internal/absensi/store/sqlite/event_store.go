package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	dbpkg "github.com/hafizr/absensi-gate/internal/db"

	"github.com/hafizr/absensi-gate/internal/absensi/store"
	"github.com/hafizr/absensi-gate/internal/absensi/types"
)

// EventStore persists the append-only attendance log. All writes go through
// the serialized db.Worker so id assignment is strictly ordered even when the
// tap and verdict paths append concurrently; reads go straight to the db,
// which shares the single SQLite connection and therefore sees every append
// that has already returned.
type EventStore struct {
	db     *sql.DB
	writer *dbpkg.Worker
}

func NewEventStore(db *sql.DB, writer *dbpkg.Worker) *EventStore {
	return &EventStore{db: db, writer: writer}
}

const eventColumns = "id, uid, name, secondary_id, action, face_status, timestamp_ms"

func (s *EventStore) Append(ctx context.Context, rec store.AttendanceEvent) (int64, error) {
	if rec.Timestamp.IsZero() {
		rec.Timestamp = time.Now().UTC()
	}
	tsMs := rec.Timestamp.UTC().UnixMilli()

	var id int64
	err := s.writer.Do(ctx, func(ctx context.Context, tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `
INSERT INTO attendance_events(uid, name, secondary_id, action, face_status, timestamp_ms)
VALUES (?, ?, ?, ?, ?, ?);
`,
			rec.UID, rec.Name, rec.SecondaryID, string(rec.Action), string(rec.FaceStatus), tsMs,
		)
		if err != nil {
			return fmt.Errorf("Append insert: %w", err)
		}
		id, err = res.LastInsertId()
		if err != nil {
			return fmt.Errorf("Append last insert id: %w", err)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return id, nil
}

func (s *EventStore) Recent(ctx context.Context, f store.EventFilter) ([]store.AttendanceEvent, error) {
	limit := f.Limit
	if limit <= 0 {
		limit = 100
	}

	q := "SELECT " + eventColumns + " FROM attendance_events WHERE 1=1"
	args := make([]any, 0, 5)

	if f.Query != "" {
		pattern := "%" + f.Query + "%"
		q += " AND (uid LIKE ? OR name LIKE ? OR secondary_id LIKE ?)"
		args = append(args, pattern, pattern, pattern)
	}
	if !f.Since.IsZero() {
		q += " AND timestamp_ms >= ?"
		args = append(args, f.Since.UTC().UnixMilli())
	}

	q += " ORDER BY id DESC LIMIT ?;"
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("Recent query: %w", err)
	}
	defer rows.Close()
	return scanEvents(rows)
}

func (s *EventStore) History(ctx context.Context, uid string) ([]store.AttendanceEvent, error) {
	rows, err := s.db.QueryContext(ctx, `
SELECT `+eventColumns+`
FROM attendance_events
WHERE uid = ?
ORDER BY id DESC;
`, uid)
	if err != nil {
		return nil, fmt.Errorf("History query: %w", err)
	}
	defer rows.Close()
	return scanEvents(rows)
}

// LatestFaceVerdict picks the most recently appended qualifying verdict, not
// the one with the closest timestamp: when ids and timestamps disagree, the
// store's ordering guarantee wins.
func (s *EventStore) LatestFaceVerdict(ctx context.Context, uid string, since time.Time) (*store.AttendanceEvent, error) {
	row := s.db.QueryRowContext(ctx, `
SELECT `+eventColumns+`
FROM attendance_events
WHERE uid = ?
  AND action = 'FACE_LOG'
  AND face_status IN ('MATCH', 'MISMATCH')
  AND timestamp_ms >= ?
ORDER BY id DESC
LIMIT 1;
`, uid, since.UTC().UnixMilli())

	ev, err := scanEvent(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("LatestFaceVerdict query: %w", err)
	}
	return &ev, nil
}

// LatestMovements implements the MAX(id)-per-uid grouped join. Grouping by
// id rather than timestamp is deliberate: two writers can race and produce
// out-of-order timestamps, but ids always reflect append order.
func (s *EventStore) LatestMovements(ctx context.Context) ([]store.AttendanceEvent, error) {
	rows, err := s.db.QueryContext(ctx, `
SELECT a.id, a.uid, a.name, a.secondary_id, a.action, a.face_status, a.timestamp_ms
FROM attendance_events a
INNER JOIN (
  SELECT uid, MAX(id) AS max_id
  FROM attendance_events
  WHERE action IN ('IN', 'OUT')
  GROUP BY uid
) b ON a.uid = b.uid AND a.id = b.max_id;
`)
	if err != nil {
		return nil, fmt.Errorf("LatestMovements query: %w", err)
	}
	defer rows.Close()
	return scanEvents(rows)
}

func (s *EventStore) InTotalsByIdentity(ctx context.Context) ([]store.IdentityTotal, error) {
	rows, err := s.db.QueryContext(ctx, `
SELECT uid, MAX(name), MAX(secondary_id), COUNT(*) AS total_in
FROM attendance_events
WHERE action = 'IN'
GROUP BY uid
ORDER BY MAX(name) ASC;
`)
	if err != nil {
		return nil, fmt.Errorf("InTotalsByIdentity query: %w", err)
	}
	defer rows.Close()

	var out []store.IdentityTotal
	for rows.Next() {
		var t store.IdentityTotal
		if err := rows.Scan(&t.UID, &t.Name, &t.SecondaryID, &t.TotalIn); err != nil {
			return nil, fmt.Errorf("InTotalsByIdentity scan: %w", err)
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (s *EventStore) DailyInCounts(ctx context.Context, since time.Time) ([]store.DayCount, error) {
	rows, err := s.db.QueryContext(ctx, `
SELECT date(timestamp_ms / 1000, 'unixepoch') AS day, COUNT(*) AS total_in
FROM attendance_events
WHERE action = 'IN' AND timestamp_ms >= ?
GROUP BY day
ORDER BY day ASC;
`, since.UTC().UnixMilli())
	if err != nil {
		return nil, fmt.Errorf("DailyInCounts query: %w", err)
	}
	defer rows.Close()

	var out []store.DayCount
	for rows.Next() {
		var d store.DayCount
		if err := rows.Scan(&d.Day, &d.TotalIn); err != nil {
			return nil, fmt.Errorf("DailyInCounts scan: %w", err)
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

func (s *EventStore) InStatusTally(ctx context.Context) (store.StatusTally, error) {
	rows, err := s.db.QueryContext(ctx, `
SELECT face_status, COUNT(*)
FROM attendance_events
WHERE action = 'IN'
GROUP BY face_status;
`)
	if err != nil {
		return nil, fmt.Errorf("InStatusTally query: %w", err)
	}
	defer rows.Close()

	tally := make(store.StatusTally)
	for rows.Next() {
		var status string
		var n int64
		if err := rows.Scan(&status, &n); err != nil {
			return nil, fmt.Errorf("InStatusTally scan: %w", err)
		}
		tally[types.FaceStatus(status)] = n
	}
	return tally, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEvent(r rowScanner) (store.AttendanceEvent, error) {
	var (
		ev     store.AttendanceEvent
		action string
		status string
		tsMs   int64
	)
	if err := r.Scan(&ev.ID, &ev.UID, &ev.Name, &ev.SecondaryID, &action, &status, &tsMs); err != nil {
		return store.AttendanceEvent{}, err
	}
	ev.Action = types.Action(action)
	ev.FaceStatus = types.FaceStatus(status)
	ev.Timestamp = time.UnixMilli(tsMs).UTC()
	return ev, nil
}

func scanEvents(rows *sql.Rows) ([]store.AttendanceEvent, error) {
	var out []store.AttendanceEvent
	for rows.Next() {
		ev, err := scanEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		out = append(out, ev)
	}
	return out, rows.Err()
}
