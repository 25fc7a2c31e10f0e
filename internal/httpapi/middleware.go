package httpapi

import (
	"log"
	"net/http"
	"time"

	"github.com/google/uuid"
)

func loggingMiddleware(logger *log.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rid := r.Header.Get("X-Request-ID")
		if rid == "" {
			rid = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", rid)

		start := time.Now().UTC()
		next.ServeHTTP(w, r)
		logger.Printf("%s %s from=%s rid=%s dur=%s", r.Method, r.URL.Path, r.RemoteAddr, rid, time.Since(start))
	})
}
