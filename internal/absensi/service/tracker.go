package service

import (
	"sync"
	"time"

	"github.com/hafizr/absensi-gate/internal/absensi/types"
)

// DefaultDebounceInterval is the minimum gap between repeated log writes for
// an unchanged verdict.
const DefaultDebounceInterval = 3 * time.Second

// VerdictTracker converts the classifier's high-frequency per-frame stream
// (potentially tens of observations per second) into a low-frequency stream
// of log-worthy transitions. State is owned by the tracker value, not by
// package globals, so multiple independent trackers (e.g. per camera) can
// coexist and tests stay deterministic.
type VerdictTracker struct {
	mu           sync.Mutex
	interval     time.Duration
	lastStatus   types.FaceStatus
	lastLoggedAt map[string]time.Time
}

func NewVerdictTracker(interval time.Duration) *VerdictTracker {
	if interval <= 0 {
		interval = DefaultDebounceInterval
	}
	return &VerdictTracker{
		interval:     interval,
		lastStatus:   types.StatusUnknown,
		lastLoggedAt: make(map[string]time.Time),
	}
}

// Observe reports whether the observation is a log-worthy transition and, if
// so, records it as logged. The rule: log on a status change, or on an
// unchanged non-UNKNOWN status once the debounce interval has elapsed for
// that uid. A repeated UNKNOWN never re-logs — an empty frame every tick
// would otherwise flood the log — but a transition into or out of UNKNOWN
// does.
func (t *VerdictTracker) Observe(uidGuess string, status types.FaceStatus, now time.Time) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	changed := status != t.lastStatus
	if status == types.StatusUnknown && !changed {
		return false
	}

	last, seen := t.lastLoggedAt[uidGuess]
	elapsed := !seen || now.Sub(last) > t.interval
	if !changed && !elapsed {
		return false
	}

	t.lastStatus = status
	t.lastLoggedAt[uidGuess] = now
	return true
}

// StatusFromScore thresholds a raw classifier similarity score. Lower is
// better (LBPH-style distance): a score under the threshold is a MATCH.
func StatusFromScore(score, threshold float64) types.FaceStatus {
	if score < threshold {
		return types.StatusMatch
	}
	return types.StatusMismatch
}
