package service

import (
	"sync"
	"time"
)

// LivenessTracker holds the tap device's last-seen time as process-local
// state. Refreshed on every tap and on explicit keep-alives; reporting
// surfaces the age. Advisory telemetry only.
type LivenessTracker struct {
	mu       sync.Mutex
	lastSeen time.Time
}

func NewLivenessTracker() *LivenessTracker {
	return &LivenessTracker{}
}

func (t *LivenessTracker) Touch(now time.Time) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if now.After(t.lastSeen) {
		t.lastSeen = now
	}
}

// Age returns the time since the last heartbeat. ok is false if none has
// been seen yet.
func (t *LivenessTracker) Age(now time.Time) (time.Duration, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.lastSeen.IsZero() {
		return 0, false
	}
	return now.Sub(t.lastSeen), true
}
