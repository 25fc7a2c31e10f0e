package service

import (
	"context"
	"time"

	"github.com/hafizr/absensi-gate/internal/absensi/store"
	"github.com/hafizr/absensi-gate/internal/absensi/types"
)

// DefaultRecencyWindow is the maximum gap between a logged face verdict and a
// tap for the verdict to resolve that tap's status.
const DefaultRecencyWindow = 30 * time.Second

// Synchronizer joins the tap stream with the face-verdict stream. The two are
// produced by independent processes with unsynchronized clocks, so a verdict
// may land in the log slightly before or after the corresponding tap; Resolve
// accepts any qualifying verdict within the recency window.
type Synchronizer struct {
	events store.EventStore
	window time.Duration
}

func NewSynchronizer(events store.EventStore, window time.Duration) *Synchronizer {
	if window <= 0 {
		window = DefaultRecencyWindow
	}
	return &Synchronizer{events: events, window: window}
}

// Resolve returns the face status for a tap observed at observedAt. A
// non-UNKNOWN hint means the tap device already performed its own check and
// is passed through unchanged. Otherwise the most recently appended FACE_LOG
// verdict for the uid inside the window decides; ties between qualifying
// verdicts go to the highest id, never the closest timestamp.
//
// This runs synchronously inside the tap path: the resolved status is
// denormalized onto the tap's event at append time and never back-filled, so
// a verdict arriving microseconds after this read is simply missed. That race
// is an accepted approximation, not an error.
func (s *Synchronizer) Resolve(ctx context.Context, uid string, hint types.FaceStatus, observedAt time.Time) (types.FaceStatus, error) {
	if hint == types.StatusMatch || hint == types.StatusMismatch {
		return hint, nil
	}

	rec, err := s.events.LatestFaceVerdict(ctx, uid, observedAt.Add(-s.window))
	if err != nil {
		return types.StatusUnknown, err
	}
	if rec == nil {
		return types.StatusUnknown, nil
	}
	return rec.FaceStatus, nil
}
