package memory

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/hafizr/absensi-gate/internal/absensi/store"
)

type IdentityStore struct {
	mu   sync.RWMutex
	data map[string]store.IdentityRecord
}

func NewIdentityStore() *IdentityStore {
	return &IdentityStore{
		data: make(map[string]store.IdentityRecord),
	}
}

func (s *IdentityStore) Upsert(_ context.Context, rec store.IdentityRecord, _ time.Time) error {
	uid := strings.TrimSpace(rec.UID)
	if uid == "" {
		return nil
	}
	rec.UID = uid

	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[uid] = rec
	return nil
}

func (s *IdentityStore) Get(_ context.Context, uid string) (*store.IdentityRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.data[strings.TrimSpace(uid)]
	if !ok {
		return nil, nil
	}
	out := rec
	return &out, nil
}
