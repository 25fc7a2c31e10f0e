package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/hafizr/absensi-gate/internal/absensi/service"
	"github.com/hafizr/absensi-gate/internal/absensi/types"
)

type Dependencies struct {
	Logger           *log.Logger
	Addr             string
	Reconciler       *service.Reconciler
	HeartbeatService *service.HeartbeatService
	Reports          *service.Reports

	// MatchThreshold converts raw classifier scores into verdicts when the
	// daemon sends a score instead of a pre-thresholded status.
	MatchThreshold float64
}

type Server struct {
	httpServer       *http.Server
	logger           *log.Logger
	mux              *http.ServeMux
	reconciler       *service.Reconciler
	heartbeatService *service.HeartbeatService
	reports          *service.Reports
	matchThreshold   float64
}

func NewServer(d Dependencies) *Server {
	mux := http.NewServeMux()

	s := &Server{
		logger:           d.Logger,
		mux:              mux,
		reconciler:       d.Reconciler,
		heartbeatService: d.HeartbeatService,
		reports:          d.Reports,
		matchThreshold:   d.MatchThreshold,
	}

	mux.HandleFunc("POST /v1/tap", s.handleTap)
	mux.HandleFunc("POST /v1/verdict", s.handleVerdict)
	mux.HandleFunc("POST /v1/heartbeat", s.handleHeartbeat)
	mux.HandleFunc("GET /v1/reports/log", s.handleReportLog)
	mux.HandleFunc("GET /v1/reports/present", s.handleReportPresent)
	mux.HandleFunc("GET /v1/reports/recap", s.handleReportRecap)
	mux.HandleFunc("GET /v1/reports/daily", s.handleReportDaily)
	mux.HandleFunc("GET /v1/reports/stats", s.handleReportStats)

	handler := loggingMiddleware(d.Logger, mux)

	s.httpServer = &http.Server{
		Addr:              d.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	return s
}

func (s *Server) Handler() http.Handler { return s.httpServer.Handler }

func (s *Server) Start() error {
	return s.httpServer.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

func (s *Server) handleTap(w http.ResponseWriter, r *http.Request) {
	var req types.TapRequest
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	if err := dec.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_json", "invalid JSON body")
		return
	}

	resp, err := s.reconciler.HandleTap(r.Context(), req, time.Now().UTC())
	if err != nil {
		if errors.Is(err, service.ErrInvalidIntent) {
			writeError(w, http.StatusBadRequest, "invalid_intent", err.Error())
			return
		}
		s.logger.Printf("tap error: %v", err)
		writeError(w, http.StatusInternalServerError, "internal_error", "unexpected server error")
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleVerdict(w http.ResponseWriter, r *http.Request) {
	var req types.VerdictRequest
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	if err := dec.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_json", "invalid JSON body")
		return
	}

	now := time.Now().UTC()
	observedAt := now
	if t, err := time.Parse(time.RFC3339, req.ObservedAt); err == nil {
		observedAt = t.UTC()
	}

	// Precedence: an explicit status wins, then a raw score is thresholded
	// server-side, and a bare observation (no face in frame) is UNKNOWN.
	status := types.FaceStatus(req.Status)
	switch {
	case status.Valid():
	case req.Score != nil:
		status = service.StatusFromScore(*req.Score, s.matchThreshold)
	default:
		status = types.StatusUnknown
	}

	ev, err := s.reconciler.HandleVerdict(r.Context(), req.UIDGuess, status, observedAt)
	if err != nil {
		s.logger.Printf("verdict error: %v", err)
		writeError(w, http.StatusInternalServerError, "internal_error", "unexpected server error")
		return
	}

	resp := types.VerdictResponse{
		OK:         true,
		FaceStatus: string(status),
		ServerTime: now.Format(time.RFC3339Nano),
	}
	if ev != nil {
		resp.Logged = true
		resp.EventID = ev.ID
	}

	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleHeartbeat(w http.ResponseWriter, r *http.Request) {
	var req types.HeartbeatRequest
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	if err := dec.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_json", "invalid JSON body")
		return
	}

	resp, err := s.heartbeatService.Record(r.Context(), req)
	if err != nil {
		if errors.Is(err, service.ErrInvalidDeviceID) {
			writeError(w, http.StatusBadRequest, "invalid_device_id", err.Error())
			return
		}
		s.logger.Printf("heartbeat error: %v", err)
		writeError(w, http.StatusInternalServerError, "internal_error", "unexpected server error")
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleReportLog(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	limit := 0
	if v := q.Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			limit = n
		}
	}

	entries, err := s.reports.Log(r.Context(), q.Get("q"), q.Get("bucket"), limit, time.Now().UTC())
	if err != nil {
		s.logger.Printf("report log error: %v", err)
		writeError(w, http.StatusInternalServerError, "internal_error", "unexpected server error")
		return
	}
	if entries == nil {
		entries = []types.LogEntry{}
	}
	writeJSON(w, http.StatusOK, entries)
}

func (s *Server) handleReportPresent(w http.ResponseWriter, r *http.Request) {
	entries, err := s.reports.Present(r.Context())
	if err != nil {
		s.logger.Printf("report present error: %v", err)
		writeError(w, http.StatusInternalServerError, "internal_error", "unexpected server error")
		return
	}
	if entries == nil {
		entries = []types.PresentEntry{}
	}
	writeJSON(w, http.StatusOK, entries)
}

func (s *Server) handleReportRecap(w http.ResponseWriter, r *http.Request) {
	entries, err := s.reports.Recap(r.Context())
	if err != nil {
		s.logger.Printf("report recap error: %v", err)
		writeError(w, http.StatusInternalServerError, "internal_error", "unexpected server error")
		return
	}
	if entries == nil {
		entries = []types.RecapEntry{}
	}
	writeJSON(w, http.StatusOK, entries)
}

func (s *Server) handleReportDaily(w http.ResponseWriter, r *http.Request) {
	entries, err := s.reports.Daily(r.Context(), time.Now().UTC())
	if err != nil {
		s.logger.Printf("report daily error: %v", err)
		writeError(w, http.StatusInternalServerError, "internal_error", "unexpected server error")
		return
	}
	if entries == nil {
		entries = []types.DayCount{}
	}
	writeJSON(w, http.StatusOK, entries)
}

func (s *Server) handleReportStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.reports.Stats(r.Context(), time.Now().UTC())
	if err != nil {
		s.logger.Printf("report stats error: %v", err)
		writeError(w, http.StatusInternalServerError, "internal_error", "unexpected server error")
		return
	}
	writeJSON(w, http.StatusOK, stats)
}
