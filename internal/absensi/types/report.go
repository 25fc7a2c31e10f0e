package types

// Report DTOs returned by the read-only reporting endpoints. These are pure
// derived views over the attendance log; they own no state.

type LogEntry struct {
	ID          int64  `json:"id"`
	UID         string `json:"uid"`
	Name        string `json:"name"`
	SecondaryID string `json:"secondary_id"`
	Action      string `json:"action"`
	FaceStatus  string `json:"face_status"`
	Timestamp   string `json:"timestamp"`
}

type PresentEntry struct {
	UID         string `json:"uid"`
	Name        string `json:"name"`
	SecondaryID string `json:"secondary_id"`
	Since       string `json:"since"`
}

type RecapEntry struct {
	UID         string `json:"uid"`
	Name        string `json:"name"`
	SecondaryID string `json:"secondary_id"`
	TotalIn     int64  `json:"total_in"`
}

type DayCount struct {
	Day     string `json:"day"` // YYYY-MM-DD
	TotalIn int64  `json:"total_in"`
}

type Stats struct {
	TotalIn          int64   `json:"total_in"`
	Match            int64   `json:"match"`
	Mismatch         int64   `json:"mismatch"`
	Unknown          int64   `json:"unknown"`
	MatchRate        float64 `json:"match_rate"`
	HeartbeatAgeSecs float64 `json:"heartbeat_age_s"` // -1 if no heartbeat yet
}
