package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/hafizr/absensi-gate/internal/absensi/store"
	"github.com/hafizr/absensi-gate/internal/absensi/types"
)

var (
	ErrInvalidDeviceID = errors.New("device_id is required")
)

// HeartbeatService handles tap-device keep-alives: it appends a telemetry
// row and refreshes the process-local liveness tracker.
type HeartbeatService struct {
	heartbeatStore store.HeartbeatStore
	liveness       *LivenessTracker
}

func NewHeartbeatService(hs store.HeartbeatStore, liveness *LivenessTracker) *HeartbeatService {
	return &HeartbeatService{heartbeatStore: hs, liveness: liveness}
}

func (s *HeartbeatService) Record(ctx context.Context, req types.HeartbeatRequest) (types.HeartbeatResponse, error) {
	deviceID := strings.TrimSpace(req.DeviceID)
	if deviceID == "" {
		return types.HeartbeatResponse{}, ErrInvalidDeviceID
	}

	now := time.Now().UTC()
	rec := store.HeartbeatRecord{
		ReceivedAt: now,
		Request:    req,
	}

	if err := s.heartbeatStore.RecordHeartbeat(ctx, deviceID, rec); err != nil {
		return types.HeartbeatResponse{}, err
	}

	s.liveness.Touch(now)

	return types.HeartbeatResponse{
		OK:         true,
		DeviceID:   deviceID,
		ServerTime: now.Format(time.RFC3339Nano),
	}, nil
}
