package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/hafizr/absensi-gate/internal/absensi/store"
	"github.com/hafizr/absensi-gate/internal/absensi/types"
)

// EventStore is an in-memory append-only attendance log for dev and tests.
// It maintains an incremental uid -> latest IN/OUT event index on each append
// so occupancy queries stay cheap as the log grows, instead of rescanning.
type EventStore struct {
	mu       sync.Mutex
	events   []store.AttendanceEvent
	nextID   int64
	latestBy map[string]store.AttendanceEvent // uid -> highest-id IN/OUT event
}

func NewEventStore() *EventStore {
	return &EventStore{
		nextID:   1,
		latestBy: make(map[string]store.AttendanceEvent),
	}
}

func (s *EventStore) Append(_ context.Context, rec store.AttendanceEvent) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if rec.Timestamp.IsZero() {
		rec.Timestamp = time.Now().UTC()
	}
	rec.ID = s.nextID
	s.nextID++
	s.events = append(s.events, rec)

	if rec.Action == types.ActionIn || rec.Action == types.ActionOut {
		s.latestBy[rec.UID] = rec
	}

	return rec.ID, nil
}

func (s *EventStore) Recent(_ context.Context, f store.EventFilter) ([]store.AttendanceEvent, error) {
	limit := f.Limit
	if limit <= 0 {
		limit = 100
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var out []store.AttendanceEvent
	for i := len(s.events) - 1; i >= 0 && len(out) < limit; i-- {
		ev := s.events[i]
		if f.Query != "" && !matchesQuery(ev, f.Query) {
			continue
		}
		if !f.Since.IsZero() && ev.Timestamp.Before(f.Since) {
			continue
		}
		out = append(out, ev)
	}
	return out, nil
}

func (s *EventStore) History(_ context.Context, uid string) ([]store.AttendanceEvent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []store.AttendanceEvent
	for i := len(s.events) - 1; i >= 0; i-- {
		if s.events[i].UID == uid {
			out = append(out, s.events[i])
		}
	}
	return out, nil
}

func (s *EventStore) LatestFaceVerdict(_ context.Context, uid string, since time.Time) (*store.AttendanceEvent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Scan backwards so the first hit is the highest-id qualifying verdict.
	// Insertion order breaks timestamp ties, not the timestamps themselves.
	for i := len(s.events) - 1; i >= 0; i-- {
		ev := s.events[i]
		if ev.UID != uid || ev.Action != types.ActionFaceLog {
			continue
		}
		if ev.FaceStatus != types.StatusMatch && ev.FaceStatus != types.StatusMismatch {
			continue
		}
		if ev.Timestamp.Before(since) {
			continue
		}
		out := ev
		return &out, nil
	}
	return nil, nil
}

func (s *EventStore) LatestMovements(_ context.Context) ([]store.AttendanceEvent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]store.AttendanceEvent, 0, len(s.latestBy))
	for _, ev := range s.latestBy {
		out = append(out, ev)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *EventStore) InTotalsByIdentity(_ context.Context) ([]store.IdentityTotal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	totals := make(map[string]*store.IdentityTotal)
	for _, ev := range s.events {
		if ev.Action != types.ActionIn {
			continue
		}
		t, ok := totals[ev.UID]
		if !ok {
			t = &store.IdentityTotal{UID: ev.UID}
			totals[ev.UID] = t
		}
		t.TotalIn++
		if ev.Name != "" {
			t.Name = ev.Name
		}
		if ev.SecondaryID != "" {
			t.SecondaryID = ev.SecondaryID
		}
	}

	out := make([]store.IdentityTotal, 0, len(totals))
	for _, t := range totals {
		out = append(out, *t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (s *EventStore) DailyInCounts(_ context.Context, since time.Time) ([]store.DayCount, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	counts := make(map[string]int64)
	for _, ev := range s.events {
		if ev.Action != types.ActionIn || ev.Timestamp.Before(since) {
			continue
		}
		counts[ev.Timestamp.UTC().Format("2006-01-02")]++
	}

	out := make([]store.DayCount, 0, len(counts))
	for day, n := range counts {
		out = append(out, store.DayCount{Day: day, TotalIn: n})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Day < out[j].Day })
	return out, nil
}

func (s *EventStore) InStatusTally(_ context.Context) (store.StatusTally, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tally := make(store.StatusTally)
	for _, ev := range s.events {
		if ev.Action == types.ActionIn {
			tally[ev.FaceStatus]++
		}
	}
	return tally, nil
}

// Events returns a copy of all appended events.  Test-only helper.
func (s *EventStore) Events() []store.AttendanceEvent {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]store.AttendanceEvent, len(s.events))
	copy(out, s.events)
	return out
}

func matchesQuery(ev store.AttendanceEvent, q string) bool {
	return strings.Contains(ev.UID, q) ||
		strings.Contains(ev.Name, q) ||
		strings.Contains(ev.SecondaryID, q)
}
