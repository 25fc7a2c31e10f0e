package store

import (
	"context"
	"time"
)

// IdentityRecord is the directory's view of a person: latest known name and
// secondary id (e.g. student number) per uid. First observed via tap events.
type IdentityRecord struct {
	UID         string
	Name        string
	SecondaryID string
}

// IdentityStore is the lightweight identity directory. Entries are upserted
// on taps carrying the full uid/name/secondary_id triple and never deleted.
type IdentityStore interface {
	Upsert(ctx context.Context, rec IdentityRecord, seenAt time.Time) error

	// Get returns nil when the uid has never been seen.
	Get(ctx context.Context, uid string) (*IdentityRecord, error)
}
