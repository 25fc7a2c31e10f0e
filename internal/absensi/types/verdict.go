package types

// VerdictRequest is one observation from the face classifier daemon.
// Either Status or Score is set: a well-behaved daemon sends the raw
// similarity score and lets the server threshold it, but a daemon doing its
// own thresholding may send the status directly. Neither set means the frame
// contained no detectable face.
type VerdictRequest struct {
	UIDGuess   string   `json:"uid_guess,omitempty"`
	Status     string   `json:"status,omitempty"`
	Score      *float64 `json:"score,omitempty"`
	ObservedAt string   `json:"observed_at,omitempty"`
}

type VerdictResponse struct {
	OK         bool   `json:"ok"`
	Logged     bool   `json:"logged"`
	EventID    int64  `json:"event_id,omitempty"`
	FaceStatus string `json:"face_status"`
	ServerTime string `json:"server_time"`
}
