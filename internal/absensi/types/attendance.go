package types

// Action classifies an attendance event. IN/OUT/DENIED are tap-driven access
// decisions; FACE_LOG marks a verdict-only record with no access-control
// semantics and is excluded from occupancy and attendance tallies.
type Action string

const (
	ActionIn      Action = "IN"
	ActionOut     Action = "OUT"
	ActionDenied  Action = "DENIED"
	ActionFaceLog Action = "FACE_LOG"
)

// ValidIntent reports whether the action is acceptable as a tap intent.
// FACE_LOG is never a valid intent — it is only produced internally.
func (a Action) ValidIntent() bool {
	switch a {
	case ActionIn, ActionOut, ActionDenied:
		return true
	}
	return false
}

// FaceStatus is the biometric verdict attached to an attendance event.
type FaceStatus string

const (
	StatusMatch    FaceStatus = "MATCH"
	StatusMismatch FaceStatus = "MISMATCH"
	StatusUnknown  FaceStatus = "UNKNOWN"
)

func (s FaceStatus) Valid() bool {
	switch s {
	case StatusMatch, StatusMismatch, StatusUnknown:
		return true
	}
	return false
}

// UnknownUID is the sentinel uid recorded when the classifier cannot name
// the subject (or a tap arrives with an unresolvable credential).
const UnknownUID = "UNKNOWN"
