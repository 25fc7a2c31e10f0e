package memory

import (
	"context"
	"sync"
	"time"

	"github.com/hafizr/absensi-gate/internal/absensi/store"
)

type HeartbeatStore struct {
	mu   sync.Mutex
	data []heartbeatRow
}

type heartbeatRow struct {
	deviceID string
	rec      store.HeartbeatRecord
}

func NewHeartbeatStore() *HeartbeatStore {
	return &HeartbeatStore{}
}

func (s *HeartbeatStore) RecordHeartbeat(_ context.Context, deviceID string, rec store.HeartbeatRecord) error {
	if rec.ReceivedAt.IsZero() {
		rec.ReceivedAt = time.Now().UTC()
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.data = append(s.data, heartbeatRow{deviceID: deviceID, rec: rec})
	return nil
}

func (s *HeartbeatStore) PruneOlderThan(_ context.Context, cutoff time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.data[:0]
	var deleted int64
	for _, row := range s.data {
		if row.rec.ReceivedAt.Before(cutoff) {
			deleted++
			continue
		}
		kept = append(kept, row)
	}
	s.data = kept
	return deleted, nil
}

// Count returns the number of stored heartbeats.  Test-only helper.
func (s *HeartbeatStore) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.data)
}
