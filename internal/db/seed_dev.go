package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

type SeedIdentity struct {
	UID         string
	Name        string
	SecondaryID string
}

// SeedDev pre-populates the identity directory with a few known people so a
// fresh dev database produces useful reports immediately. Safe to call
// repeatedly: existing entries are refreshed, never duplicated.
func SeedDev(ctx context.Context, db *sql.DB, identities []SeedIdentity) error {
	now := time.Now().UTC().UnixMilli()

	if len(identities) == 0 {
		identities = []SeedIdentity{
			{UID: "AA:BB:CC:DD", Name: "Budi", SecondaryID: "101"},
			{UID: "3A:7D:CA:06", Name: "Sari", SecondaryID: "102"},
		}
	}

	for _, id := range identities {
		if _, err := db.ExecContext(ctx, `
INSERT INTO identities(uid, name, secondary_id, created_at_ms, updated_at_ms)
VALUES (?, ?, ?, ?, ?)
ON CONFLICT(uid) DO UPDATE SET
  name = excluded.name,
  secondary_id = excluded.secondary_id,
  updated_at_ms = excluded.updated_at_ms;
`, id.UID, id.Name, id.SecondaryID, now, now); err != nil {
			return fmt.Errorf("seed identity %s: %w", id.UID, err)
		}
	}

	return nil
}
