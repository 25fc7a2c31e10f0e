package store

import (
	"context"
	"time"

	"github.com/hafizr/absensi-gate/internal/absensi/types"
)

// AttendanceEvent is the sole durable attendance entity. It is immutable once
// appended; corrections are made by appending new events, never by editing.
// ID is assigned by the store at append time and is the only ordering key —
// wall-clock timestamps come from unsynchronized producers and are advisory.
type AttendanceEvent struct {
	ID          int64
	UID         string
	Name        string
	SecondaryID string
	Action      types.Action
	FaceStatus  types.FaceStatus
	Timestamp   time.Time
}

// EventFilter narrows Recent queries. Query is matched as a substring against
// uid, name and secondary_id. A zero Since means no lower time bound.
type EventFilter struct {
	Query string
	Since time.Time
	Limit int
}

type IdentityTotal struct {
	UID         string
	Name        string
	SecondaryID string
	TotalIn     int64
}

type DayCount struct {
	Day     string // YYYY-MM-DD, UTC
	TotalIn int64
}

// StatusTally counts IN events per face status.
type StatusTally map[types.FaceStatus]int64

// EventStore is the append-only attendance log. Append must serialize id
// assignment across concurrent callers, and every successful append must be
// visible to queries issued after it returns — the tap path reads the log
// synchronously to resolve face status before its own append.
type EventStore interface {
	// Append stores the event and returns its assigned id.
	Append(ctx context.Context, rec AttendanceEvent) (int64, error)

	// Recent returns events matching f, newest first (id descending).
	Recent(ctx context.Context, f EventFilter) ([]AttendanceEvent, error)

	// History returns all events for a uid, newest first.
	History(ctx context.Context, uid string) ([]AttendanceEvent, error)

	// LatestFaceVerdict returns the highest-id FACE_LOG event for uid whose
	// face_status is MATCH or MISMATCH and whose timestamp is at or after
	// since. Returns nil when no such event exists.
	LatestFaceVerdict(ctx context.Context, uid string, since time.Time) (*AttendanceEvent, error)

	// LatestMovements returns, for every uid, its highest-id IN/OUT event.
	// FACE_LOG and DENIED rows never participate.
	LatestMovements(ctx context.Context) ([]AttendanceEvent, error)

	// InTotalsByIdentity counts IN events grouped by uid, ordered by name.
	InTotalsByIdentity(ctx context.Context) ([]IdentityTotal, error)

	// DailyInCounts counts IN events per UTC day from since onward.
	DailyInCounts(ctx context.Context, since time.Time) ([]DayCount, error)

	// InStatusTally counts IN events grouped by face status.
	InStatusTally(ctx context.Context) (StatusTally, error)
}
