package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/hafizr/absensi-gate/internal/absensi/service"
	"github.com/hafizr/absensi-gate/internal/absensi/store/memory"
	"github.com/hafizr/absensi-gate/internal/absensi/types"
)

func newTestReports(es *memory.EventStore) (*service.Reports, *service.LivenessTracker) {
	liveness := service.NewLivenessTracker()
	presence := service.NewPresenceResolver(es)
	return service.NewReports(es, presence, liveness), liveness
}

func TestLog_BucketToday(t *testing.T) {
	es := memory.NewEventStore()
	r, _ := newTestReports(es)

	now := time.Date(2026, 3, 2, 15, 0, 0, 0, time.UTC)
	appendMovement(t, es, "AA:BB:CC:DD", types.ActionIn, types.StatusMatch, now.AddDate(0, 0, -2))
	appendMovement(t, es, "3A:7D:CA:06", types.ActionIn, types.StatusMatch, now.Add(-time.Hour))

	entries, err := r.Log(context.Background(), "", "today", 0, now)
	if err != nil {
		t.Fatalf("Log: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected only today's event, got %d", len(entries))
	}
	if entries[0].UID != "3A:7D:CA:06" {
		t.Errorf("unexpected entry %+v", entries[0])
	}
}

func TestLog_FreeTextFilter(t *testing.T) {
	es := memory.NewEventStore()
	r, _ := newTestReports(es)

	now := time.Date(2026, 3, 2, 15, 0, 0, 0, time.UTC)
	_, err := es.Append(context.Background(), eventWithIdentity("AA:BB:CC:DD", "Budi", "101", now))
	if err != nil {
		t.Fatalf("append: %v", err)
	}
	_, err = es.Append(context.Background(), eventWithIdentity("3A:7D:CA:06", "Sari", "102", now))
	if err != nil {
		t.Fatalf("append: %v", err)
	}

	entries, err := r.Log(context.Background(), "Budi", "all", 0, now)
	if err != nil {
		t.Fatalf("Log: %v", err)
	}
	if len(entries) != 1 || entries[0].Name != "Budi" {
		t.Fatalf("expected only Budi's row, got %+v", entries)
	}
}

func TestStats_TalliesAndHeartbeat(t *testing.T) {
	es := memory.NewEventStore()
	r, liveness := newTestReports(es)

	now := time.Date(2026, 3, 2, 15, 0, 0, 0, time.UTC)
	appendMovement(t, es, "AA:BB:CC:DD", types.ActionIn, types.StatusMatch, now)
	appendMovement(t, es, "3A:7D:CA:06", types.ActionIn, types.StatusUnknown, now)
	appendMovement(t, es, "AA:BB:CC:DD", types.ActionFaceLog, types.StatusMismatch, now)

	stats, err := r.Stats(context.Background(), now)
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	if stats.TotalIn != 2 || stats.Match != 1 || stats.Unknown != 1 || stats.Mismatch != 0 {
		t.Errorf("unexpected tallies: %+v", stats)
	}
	if stats.MatchRate != 0.5 {
		t.Errorf("expected match rate 0.5, got %v", stats.MatchRate)
	}
	if stats.HeartbeatAgeSecs != -1 {
		t.Errorf("expected -1 before any heartbeat, got %v", stats.HeartbeatAgeSecs)
	}

	liveness.Touch(now.Add(-10 * time.Second))
	stats, err = r.Stats(context.Background(), now)
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	if stats.HeartbeatAgeSecs != 10 {
		t.Errorf("expected heartbeat age 10s, got %v", stats.HeartbeatAgeSecs)
	}
}

func TestDaily_CountsInEventsOnly(t *testing.T) {
	es := memory.NewEventStore()
	r, _ := newTestReports(es)

	now := time.Date(2026, 3, 2, 15, 0, 0, 0, time.UTC)
	appendMovement(t, es, "AA:BB:CC:DD", types.ActionIn, types.StatusMatch, now.AddDate(0, 0, -1))
	appendMovement(t, es, "AA:BB:CC:DD", types.ActionIn, types.StatusMatch, now)
	appendMovement(t, es, "3A:7D:CA:06", types.ActionIn, types.StatusMatch, now)
	appendMovement(t, es, "AA:BB:CC:DD", types.ActionOut, types.StatusMatch, now)
	appendMovement(t, es, "AA:BB:CC:DD", types.ActionFaceLog, types.StatusMatch, now)

	days, err := r.Daily(context.Background(), now)
	if err != nil {
		t.Fatalf("Daily: %v", err)
	}
	if len(days) != 2 {
		t.Fatalf("expected 2 day buckets, got %d", len(days))
	}
	if days[1].Day != "2026-03-02" || days[1].TotalIn != 2 {
		t.Errorf("unexpected bucket %+v", days[1])
	}
}
