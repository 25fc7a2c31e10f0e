package service

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"github.com/hafizr/absensi-gate/internal/absensi/store"
	"github.com/hafizr/absensi-gate/internal/absensi/types"
)

var (
	ErrInvalidIntent = errors.New("intent must be IN, OUT or DENIED")
)

// Reconciler is the façade over the reconciling core: it accepts tap events
// and face-verdict observations from the two external sources, joins them,
// and appends resolved records to the attendance log.
type Reconciler struct {
	identities store.IdentityStore
	events     store.EventStore
	sync       *Synchronizer
	tracker    *VerdictTracker
	liveness   *LivenessTracker
	logger     *log.Logger
}

func NewReconciler(
	identities store.IdentityStore,
	events store.EventStore,
	sync *Synchronizer,
	tracker *VerdictTracker,
	liveness *LivenessTracker,
	logger *log.Logger,
) *Reconciler {
	return &Reconciler{
		identities: identities,
		events:     events,
		sync:       sync,
		tracker:    tracker,
		liveness:   liveness,
		logger:     logger,
	}
}

// HandleTap validates and records one access-control attempt. The final face
// status is resolved synchronously before the append because it is
// denormalized onto the event and never back-filled. An invalid intent is
// rejected with ErrInvalidIntent and writes nothing.
func (r *Reconciler) HandleTap(ctx context.Context, req types.TapRequest, now time.Time) (types.TapResponse, error) {
	intent := types.Action(strings.ToUpper(strings.TrimSpace(req.Intent)))
	if !intent.ValidIntent() {
		return types.TapResponse{}, ErrInvalidIntent
	}

	uid := strings.TrimSpace(req.UID)
	name := strings.TrimSpace(req.Name)
	secondaryID := strings.TrimSpace(req.SecondaryID)

	if uid == "" {
		// Unresolvable credential: the attempt is still logged under the
		// sentinel uid, it just cannot be attributed.
		uid = types.UnknownUID
	}

	tappedAt := now
	if t := parseOptionalTimestamp(req.TappedAt); t != nil {
		tappedAt = *t
	}

	// Directory upsert needs the full triple; an incomplete tap skips the
	// upsert but the event below is still logged. A failed upsert is also
	// not fatal to the tap — the directory is a convenience cache.
	if uid != types.UnknownUID && name != "" && secondaryID != "" {
		rec := store.IdentityRecord{UID: uid, Name: name, SecondaryID: secondaryID}
		if err := r.identities.Upsert(ctx, rec, tappedAt); err != nil {
			r.logger.Printf("identity upsert %s: %v", uid, err)
		}
	}

	hint := types.FaceStatus(strings.ToUpper(strings.TrimSpace(req.FaceStatusHint)))
	if !hint.Valid() {
		hint = types.StatusUnknown
	}

	resolved, err := r.sync.Resolve(ctx, uid, hint, tappedAt)
	if err != nil {
		return types.TapResponse{}, err
	}

	ev := store.AttendanceEvent{
		UID:         uid,
		Name:        name,
		SecondaryID: secondaryID,
		Action:      intent,
		FaceStatus:  resolved,
		Timestamp:   tappedAt,
	}
	id, err := r.events.Append(ctx, ev)
	if err != nil {
		return types.TapResponse{}, err
	}

	// Every tap doubles as proof the device is alive.
	r.liveness.Touch(now)

	return types.TapResponse{
		OK:         true,
		EventID:    id,
		Action:     string(intent),
		FaceStatus: string(resolved),
		Message:    tapMessage(intent, resolved),
		ServerTime: now.Format(time.RFC3339Nano),
	}, nil
}

// HandleVerdict runs one classifier observation through the debounce tracker
// and, when it qualifies, appends a FACE_LOG record. A suppressed
// observation returns (nil, nil) with no side effect.
func (r *Reconciler) HandleVerdict(ctx context.Context, uidGuess string, status types.FaceStatus, now time.Time) (*store.AttendanceEvent, error) {
	uidGuess = strings.TrimSpace(uidGuess)
	if uidGuess == "" {
		uidGuess = types.UnknownUID
	}
	if !status.Valid() {
		status = types.StatusUnknown
	}

	if !r.tracker.Observe(uidGuess, status, now) {
		return nil, nil
	}

	ev := store.AttendanceEvent{
		UID:        uidGuess,
		Action:     types.ActionFaceLog,
		FaceStatus: status,
		Timestamp:  now,
	}

	// Denormalize the directory name onto the record when the guess is a
	// known identity; lookup failures degrade to an unnamed row.
	if uidGuess != types.UnknownUID {
		if rec, err := r.identities.Get(ctx, uidGuess); err != nil {
			r.logger.Printf("identity lookup %s: %v", uidGuess, err)
		} else if rec != nil {
			ev.Name = rec.Name
			ev.SecondaryID = rec.SecondaryID
		}
	}

	id, err := r.events.Append(ctx, ev)
	if err != nil {
		return nil, err
	}
	ev.ID = id
	return &ev, nil
}

func tapMessage(intent types.Action, status types.FaceStatus) string {
	if intent == types.ActionDenied {
		return "Access Denied"
	}
	switch status {
	case types.StatusMatch:
		return "Attendance Recorded"
	case types.StatusMismatch:
		return "Face Not Recognized"
	default:
		return "Attendance Recorded (Face Unverified)"
	}
}

// parseOptionalTimestamp attempts to parse a device-reported timestamp.
// Returns nil if the string is empty or unparseable.
func parseOptionalTimestamp(s string) *time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		u := t.UTC()
		return &u
	}
	return nil
}
