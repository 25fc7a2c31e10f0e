package service

import (
	"context"
	"time"

	"github.com/hafizr/absensi-gate/internal/absensi/store"
	"github.com/hafizr/absensi-gate/internal/absensi/types"
)

// Reports serves the read-only dashboard queries. All of them are derived
// computations over the attendance log; an empty log means empty results,
// never an error.
type Reports struct {
	events   store.EventStore
	presence *PresenceResolver
	liveness *LivenessTracker
}

func NewReports(events store.EventStore, presence *PresenceResolver, liveness *LivenessTracker) *Reports {
	return &Reports{events: events, presence: presence, liveness: liveness}
}

// maxLogLimit caps the raw log view, matching the dashboard's last-100 table.
const maxLogLimit = 100

// Log returns recent events, optionally narrowed by a free-text query over
// uid/name/secondary_id and a date bucket ("today", "7d", anything else
// meaning all).
func (r *Reports) Log(ctx context.Context, query, bucket string, limit int, now time.Time) ([]types.LogEntry, error) {
	if limit <= 0 || limit > maxLogLimit {
		limit = maxLogLimit
	}

	f := store.EventFilter{Query: query, Limit: limit}
	switch bucket {
	case "today":
		f.Since = now.UTC().Truncate(24 * time.Hour)
	case "7d":
		f.Since = now.UTC().AddDate(0, 0, -7)
	}

	events, err := r.events.Recent(ctx, f)
	if err != nil {
		return nil, err
	}

	out := make([]types.LogEntry, 0, len(events))
	for _, ev := range events {
		out = append(out, types.LogEntry{
			ID:          ev.ID,
			UID:         ev.UID,
			Name:        ev.Name,
			SecondaryID: ev.SecondaryID,
			Action:      string(ev.Action),
			FaceStatus:  string(ev.FaceStatus),
			Timestamp:   ev.Timestamp.UTC().Format(time.RFC3339),
		})
	}
	return out, nil
}

// Present returns everyone whose latest movement is an IN.
func (r *Reports) Present(ctx context.Context) ([]types.PresentEntry, error) {
	events, err := r.presence.ListPresent(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]types.PresentEntry, 0, len(events))
	for _, ev := range events {
		out = append(out, types.PresentEntry{
			UID:         ev.UID,
			Name:        ev.Name,
			SecondaryID: ev.SecondaryID,
			Since:       ev.Timestamp.UTC().Format(time.RFC3339),
		})
	}
	return out, nil
}

// Recap returns per-identity totals of IN events.
func (r *Reports) Recap(ctx context.Context) ([]types.RecapEntry, error) {
	totals, err := r.events.InTotalsByIdentity(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]types.RecapEntry, 0, len(totals))
	for _, t := range totals {
		out = append(out, types.RecapEntry{
			UID:         t.UID,
			Name:        t.Name,
			SecondaryID: t.SecondaryID,
			TotalIn:     t.TotalIn,
		})
	}
	return out, nil
}

// Daily returns per-day IN counts over the last 7 days.
func (r *Reports) Daily(ctx context.Context, now time.Time) ([]types.DayCount, error) {
	counts, err := r.events.DailyInCounts(ctx, now.UTC().AddDate(0, 0, -7))
	if err != nil {
		return nil, err
	}

	out := make([]types.DayCount, 0, len(counts))
	for _, c := range counts {
		out = append(out, types.DayCount{Day: c.Day, TotalIn: c.TotalIn})
	}
	return out, nil
}

// Stats returns the global verification tallies among IN events plus the
// device liveness age.
func (r *Reports) Stats(ctx context.Context, now time.Time) (types.Stats, error) {
	tally, err := r.events.InStatusTally(ctx)
	if err != nil {
		return types.Stats{}, err
	}

	s := types.Stats{
		Match:            tally[types.StatusMatch],
		Mismatch:         tally[types.StatusMismatch],
		Unknown:          tally[types.StatusUnknown],
		HeartbeatAgeSecs: -1,
	}
	s.TotalIn = s.Match + s.Mismatch + s.Unknown
	if s.TotalIn > 0 {
		s.MatchRate = float64(s.Match) / float64(s.TotalIn)
	}

	if age, ok := r.liveness.Age(now); ok {
		s.HeartbeatAgeSecs = age.Seconds()
	}
	return s, nil
}
