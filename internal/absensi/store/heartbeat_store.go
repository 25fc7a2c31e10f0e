package store

import (
	"context"
	"time"

	"github.com/hafizr/absensi-gate/internal/absensi/types"
)

// HeartbeatRecord is one keep-alive from the tap device. Heartbeats are
// advisory operational telemetry, not part of the attendance data model.
type HeartbeatRecord struct {
	ReceivedAt time.Time
	Request    types.HeartbeatRequest
}

type HeartbeatStore interface {
	RecordHeartbeat(ctx context.Context, deviceID string, rec HeartbeatRecord) error
	PruneOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}
