package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/hafizr/absensi-gate/internal/absensi/store"
	"github.com/hafizr/absensi-gate/internal/absensi/store/memory"
	"github.com/hafizr/absensi-gate/internal/absensi/types"
)

func seedIdentity(t *testing.T, ids *memory.IdentityStore, uid, name, secondaryID string) {
	t.Helper()
	err := ids.Upsert(context.Background(), store.IdentityRecord{
		UID:         uid,
		Name:        name,
		SecondaryID: secondaryID,
	}, time.Now().UTC())
	if err != nil {
		t.Fatalf("seed identity %s: %v", uid, err)
	}
}

func eventWithIdentity(uid, name, secondaryID string, at time.Time) store.AttendanceEvent {
	return store.AttendanceEvent{
		UID:         uid,
		Name:        name,
		SecondaryID: secondaryID,
		Action:      types.ActionIn,
		FaceStatus:  types.StatusMatch,
		Timestamp:   at,
	}
}

func appendMovement(t *testing.T, es *memory.EventStore, uid string, action types.Action, status types.FaceStatus, at time.Time) {
	t.Helper()
	_, err := es.Append(context.Background(), store.AttendanceEvent{
		UID:        uid,
		Action:     action,
		FaceStatus: status,
		Timestamp:  at,
	})
	if err != nil {
		t.Fatalf("append %s %s: %v", uid, action, err)
	}
}
