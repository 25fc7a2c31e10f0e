package service

import (
	"context"

	"github.com/hafizr/absensi-gate/internal/absensi/store"
	"github.com/hafizr/absensi-gate/internal/absensi/types"
)

// PresenceResolver derives per-identity state from the log alone; there is no
// mutable presence table. An identity is inside iff its highest-id IN/OUT
// event is an IN — interleaved FACE_LOG and DENIED records never count.
type PresenceResolver struct {
	events store.EventStore
}

func NewPresenceResolver(events store.EventStore) *PresenceResolver {
	return &PresenceResolver{events: events}
}

// ListPresent returns the latest IN event of everyone currently inside.
func (p *PresenceResolver) ListPresent(ctx context.Context) ([]store.AttendanceEvent, error) {
	movements, err := p.events.LatestMovements(ctx)
	if err != nil {
		return nil, err
	}

	var present []store.AttendanceEvent
	for _, ev := range movements {
		if ev.Action == types.ActionIn {
			present = append(present, ev)
		}
	}
	return present, nil
}

// History returns all events for a uid, newest first, FACE_LOG included.
func (p *PresenceResolver) History(ctx context.Context, uid string) ([]store.AttendanceEvent, error) {
	return p.events.History(ctx, uid)
}

// MatchRate is the fraction of IN events whose face status resolved to
// MATCH. Zero IN events yields 0.
func (p *PresenceResolver) MatchRate(ctx context.Context) (float64, error) {
	tally, err := p.events.InStatusTally(ctx)
	if err != nil {
		return 0, err
	}

	var total int64
	for _, n := range tally {
		total += n
	}
	if total == 0 {
		return 0, nil
	}
	return float64(tally[types.StatusMatch]) / float64(total), nil
}
