package service_test

import (
	"context"
	"errors"
	"io"
	"log"
	"testing"
	"time"

	"github.com/hafizr/absensi-gate/internal/absensi/service"
	"github.com/hafizr/absensi-gate/internal/absensi/store/memory"
	"github.com/hafizr/absensi-gate/internal/absensi/types"
)

// newTestReconciler builds a Reconciler backed by in-memory stores, returning
// the stores so tests can seed and inspect them.
func newTestReconciler(t *testing.T) (*service.Reconciler, *memory.EventStore, *memory.IdentityStore) {
	t.Helper()

	es := memory.NewEventStore()
	ids := memory.NewIdentityStore()
	sync := service.NewSynchronizer(es, 30*time.Second)
	tracker := service.NewVerdictTracker(3 * time.Second)
	liveness := service.NewLivenessTracker()
	logger := log.New(io.Discard, "", 0)
	return service.NewReconciler(ids, es, sync, tracker, liveness, logger), es, ids
}

// ── Taps ─────────────────────────────────────────────────────────────────────

func TestHandleTap_VerdictThenTapResolvesMatch(t *testing.T) {
	r, es, _ := newTestReconciler(t)
	ctx := context.Background()

	tapAt := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

	// Verdict logged 5s before the tap.
	ev, err := r.HandleVerdict(ctx, "AA:BB:CC:DD", types.StatusMatch, tapAt.Add(-5*time.Second))
	if err != nil {
		t.Fatalf("HandleVerdict: %v", err)
	}
	if ev == nil {
		t.Fatal("expected verdict to be logged")
	}

	resp, err := r.HandleTap(ctx, types.TapRequest{
		UID:            "AA:BB:CC:DD",
		Name:           "Budi",
		SecondaryID:    "101",
		Intent:         "IN",
		FaceStatusHint: "UNKNOWN",
	}, tapAt)
	if err != nil {
		t.Fatalf("HandleTap: %v", err)
	}

	if resp.Action != "IN" {
		t.Errorf("expected action IN, got %s", resp.Action)
	}
	if resp.FaceStatus != "MATCH" {
		t.Errorf("expected resolved MATCH, got %s", resp.FaceStatus)
	}
	if resp.Message != "Attendance Recorded" {
		t.Errorf("unexpected message %q", resp.Message)
	}

	events := es.Events()
	if len(events) != 2 {
		t.Fatalf("expected 2 events (FACE_LOG + IN), got %d", len(events))
	}
	last := events[1]
	if last.Action != types.ActionIn || last.FaceStatus != types.StatusMatch {
		t.Errorf("stored event: action=%s status=%s", last.Action, last.FaceStatus)
	}

	// match_rate over this single IN event is 1.0.
	rate, err := service.NewPresenceResolver(es).MatchRate(ctx)
	if err != nil {
		t.Fatalf("MatchRate: %v", err)
	}
	if rate != 1.0 {
		t.Errorf("expected match rate 1.0, got %v", rate)
	}
}

func TestHandleTap_InvalidIntentRejectedWithoutAppend(t *testing.T) {
	r, es, _ := newTestReconciler(t)

	_, err := r.HandleTap(context.Background(), types.TapRequest{
		UID:    "AA:BB:CC:DD",
		Intent: "MAYBE",
	}, time.Now().UTC())

	if !errors.Is(err, service.ErrInvalidIntent) {
		t.Fatalf("expected ErrInvalidIntent, got %v", err)
	}
	if n := len(es.Events()); n != 0 {
		t.Errorf("invalid intent must not append, got %d events", n)
	}
}

func TestHandleTap_NoVerdictResolvesUnknown(t *testing.T) {
	r, es, _ := newTestReconciler(t)

	resp, err := r.HandleTap(context.Background(), types.TapRequest{
		UID:    "AA:BB:CC:DD",
		Intent: "IN",
	}, time.Now().UTC())
	if err != nil {
		t.Fatalf("HandleTap: %v", err)
	}
	if resp.FaceStatus != "UNKNOWN" {
		t.Errorf("expected UNKNOWN with empty log, got %s", resp.FaceStatus)
	}
	if resp.Message != "Attendance Recorded (Face Unverified)" {
		t.Errorf("unexpected message %q", resp.Message)
	}
	if n := len(es.Events()); n != 1 {
		t.Fatalf("expected 1 event, got %d", n)
	}
}

func TestHandleTap_DeviceHintPreserved(t *testing.T) {
	r, es, _ := newTestReconciler(t)

	resp, err := r.HandleTap(context.Background(), types.TapRequest{
		UID:            "AA:BB:CC:DD",
		Intent:         "IN",
		FaceStatusHint: "MISMATCH",
	}, time.Now().UTC())
	if err != nil {
		t.Fatalf("HandleTap: %v", err)
	}
	if resp.FaceStatus != "MISMATCH" {
		t.Errorf("expected device hint MISMATCH preserved, got %s", resp.FaceStatus)
	}
	if resp.Message != "Face Not Recognized" {
		t.Errorf("unexpected message %q", resp.Message)
	}
	if es.Events()[0].FaceStatus != types.StatusMismatch {
		t.Error("stored event should carry the device hint")
	}
}

func TestHandleTap_UpsertsIdentityDirectory(t *testing.T) {
	r, _, ids := newTestReconciler(t)
	ctx := context.Background()

	_, err := r.HandleTap(ctx, types.TapRequest{
		UID:         "AA:BB:CC:DD",
		Name:        "Budi",
		SecondaryID: "101",
		Intent:      "IN",
	}, time.Now().UTC())
	if err != nil {
		t.Fatalf("HandleTap: %v", err)
	}

	rec, err := ids.Get(ctx, "AA:BB:CC:DD")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if rec == nil {
		t.Fatal("expected identity directory entry")
	}
	if rec.Name != "Budi" || rec.SecondaryID != "101" {
		t.Errorf("directory entry = %+v", rec)
	}
}

func TestHandleTap_IncompleteTripleSkipsUpsertButLogs(t *testing.T) {
	r, es, ids := newTestReconciler(t)
	ctx := context.Background()

	_, err := r.HandleTap(ctx, types.TapRequest{
		UID:    "AA:BB:CC:DD",
		Name:   "Budi", // no secondary_id
		Intent: "IN",
	}, time.Now().UTC())
	if err != nil {
		t.Fatalf("HandleTap: %v", err)
	}

	rec, err := ids.Get(ctx, "AA:BB:CC:DD")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if rec != nil {
		t.Error("incomplete triple must not create a directory entry")
	}
	if n := len(es.Events()); n != 1 {
		t.Errorf("event must still be logged, got %d", n)
	}
}

func TestHandleTap_MissingUIDUsesSentinel(t *testing.T) {
	r, es, _ := newTestReconciler(t)

	resp, err := r.HandleTap(context.Background(), types.TapRequest{
		Intent: "DENIED",
	}, time.Now().UTC())
	if err != nil {
		t.Fatalf("HandleTap: %v", err)
	}
	if resp.Message != "Access Denied" {
		t.Errorf("unexpected message %q", resp.Message)
	}
	if got := es.Events()[0].UID; got != types.UnknownUID {
		t.Errorf("expected sentinel uid, got %q", got)
	}
}

// ── Verdicts ─────────────────────────────────────────────────────────────────

func TestHandleVerdict_SuppressedObservationHasNoSideEffect(t *testing.T) {
	r, es, _ := newTestReconciler(t)
	ctx := context.Background()

	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	if _, err := r.HandleVerdict(ctx, "AA:BB:CC:DD", types.StatusMatch, now); err != nil {
		t.Fatalf("HandleVerdict: %v", err)
	}

	ev, err := r.HandleVerdict(ctx, "AA:BB:CC:DD", types.StatusMatch, now.Add(time.Second))
	if err != nil {
		t.Fatalf("HandleVerdict: %v", err)
	}
	if ev != nil {
		t.Error("debounced observation should return nil")
	}
	if n := len(es.Events()); n != 1 {
		t.Errorf("expected 1 FACE_LOG event, got %d", n)
	}
}

func TestHandleVerdict_DenormalizesKnownIdentity(t *testing.T) {
	r, es, ids := newTestReconciler(t)
	ctx := context.Background()

	seedIdentity(t, ids, "AA:BB:CC:DD", "Budi", "101")

	ev, err := r.HandleVerdict(ctx, "AA:BB:CC:DD", types.StatusMatch, time.Now().UTC())
	if err != nil {
		t.Fatalf("HandleVerdict: %v", err)
	}
	if ev == nil {
		t.Fatal("expected logged event")
	}
	if ev.Name != "Budi" || ev.SecondaryID != "101" {
		t.Errorf("expected denormalized identity, got name=%q secondary_id=%q", ev.Name, ev.SecondaryID)
	}
	if ev.Action != types.ActionFaceLog {
		t.Errorf("expected FACE_LOG, got %s", ev.Action)
	}
	if n := len(es.Events()); n != 1 {
		t.Errorf("expected 1 event, got %d", n)
	}
}

func TestHandleVerdict_EmptyGuessLogsUnderSentinel(t *testing.T) {
	r, _, _ := newTestReconciler(t)

	ev, err := r.HandleVerdict(context.Background(), "", types.StatusMismatch, time.Now().UTC())
	if err != nil {
		t.Fatalf("HandleVerdict: %v", err)
	}
	if ev == nil {
		t.Fatal("expected logged event")
	}
	if ev.UID != types.UnknownUID {
		t.Errorf("expected sentinel uid, got %q", ev.UID)
	}
}
