package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	dbpkg "github.com/hafizr/absensi-gate/internal/db"

	"github.com/hafizr/absensi-gate/internal/absensi/store"
)

type IdentityStore struct {
	db     *sql.DB
	writer *dbpkg.Worker
}

func NewIdentityStore(db *sql.DB, writer *dbpkg.Worker) *IdentityStore {
	return &IdentityStore{db: db, writer: writer}
}

func (s *IdentityStore) Upsert(ctx context.Context, rec store.IdentityRecord, seenAt time.Time) error {
	uid := strings.TrimSpace(rec.UID)
	if uid == "" {
		return nil
	}
	if seenAt.IsZero() {
		seenAt = time.Now().UTC()
	}
	ms := seenAt.UTC().UnixMilli()

	return s.writer.Do(ctx, func(ctx context.Context, tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `
INSERT INTO identities(uid, name, secondary_id, created_at_ms, updated_at_ms)
VALUES (?, ?, ?, ?, ?)
ON CONFLICT(uid) DO UPDATE SET
  name = excluded.name,
  secondary_id = excluded.secondary_id,
  updated_at_ms = excluded.updated_at_ms;
`, uid, rec.Name, rec.SecondaryID, ms, ms); err != nil {
			return fmt.Errorf("Upsert identity %s: %w", uid, err)
		}
		return nil
	})
}

func (s *IdentityStore) Get(ctx context.Context, uid string) (*store.IdentityRecord, error) {
	uid = strings.TrimSpace(uid)
	if uid == "" {
		return nil, nil
	}

	var rec store.IdentityRecord
	err := s.db.QueryRowContext(ctx, `
SELECT uid, name, secondary_id FROM identities WHERE uid = ?;
`, uid).Scan(&rec.UID, &rec.Name, &rec.SecondaryID)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("Get identity %s: %w", uid, err)
	}
	return &rec, nil
}
