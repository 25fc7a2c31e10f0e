package config

import (
	"os"
	"strconv"
	"strings"
)

type Config struct {
	HTTPAddr string

	// DB
	Env    string // "dev" | "prod"
	DBPath string // e.g. "./data/absensi.db"

	// Reconciliation tuning
	RecencyWindowSeconds int     // verdict-to-tap correlation window
	DebounceSeconds      int     // minimum gap between repeated verdict logs
	MatchThreshold       float64 // classifier score below this is a MATCH

	// Heartbeat retention
	HeartbeatRetentionDays int // 0 = keep forever
	PruneIntervalHours     int // how often the pruner runs (default 6)
}

func FromEnv() Config {
	addr := getenvDefault("ABSENSI_HTTP_ADDR", ":8080")

	env := strings.ToLower(getenvDefault("ABSENSI_ENV", "dev"))
	if env != "dev" && env != "prod" {
		// fail-soft: treat unknown as dev
		env = "dev"
	}

	dbPath := getenvDefault("ABSENSI_DB_PATH", "./data/absensi.db")

	window := getenvInt("ABSENSI_RECENCY_WINDOW_S", 30)
	debounce := getenvInt("ABSENSI_DEBOUNCE_S", 3)

	// LBPH-style distance; sane values sit in the 35-70 range depending on
	// deployment lighting.
	threshold := getenvFloat("ABSENSI_MATCH_THRESHOLD", 55)

	retentionDays := getenvInt("ABSENSI_HEARTBEAT_RETENTION_DAYS", 30)
	pruneInterval := getenvInt("ABSENSI_PRUNE_INTERVAL_HOURS", 6)

	return Config{
		HTTPAddr: addr,
		Env:      env,
		DBPath:   dbPath,

		RecencyWindowSeconds: window,
		DebounceSeconds:      debounce,
		MatchThreshold:       threshold,

		HeartbeatRetentionDays: retentionDays,
		PruneIntervalHours:     pruneInterval,
	}
}

func getenvDefault(key, def string) string {
	v := os.Getenv(key)
	if strings.TrimSpace(v) == "" {
		return def
	}
	return v
}

func getenvInt(key string, def int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return def
	}
	return n
}

func getenvFloat(key string, def float64) float64 {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || f <= 0 {
		return def
	}
	return f
}
