package types

type TapRequest struct {
	UID            string `json:"uid"`
	Name           string `json:"name,omitempty"`
	SecondaryID    string `json:"secondary_id,omitempty"`
	Intent         string `json:"intent"`
	FaceStatusHint string `json:"face_status_hint,omitempty"`
	TappedAt       string `json:"tapped_at,omitempty"` // optional device timestamp
}

type TapResponse struct {
	OK         bool   `json:"ok"`
	EventID    int64  `json:"event_id,omitempty"`
	Action     string `json:"action"`
	FaceStatus string `json:"face_status"`
	Message    string `json:"message"`
	ServerTime string `json:"server_time"`
}
