package config

import (
	"log"
	"os"
	"strconv"
	"time"
)

type Config struct {
	Port          string
	DBDSN         string
	LogFile       string
	AdminToken    string
	HoldTTL       time.Duration
	SweepInterval time.Duration
	UpcomingPage  int
}

func Load() Config {
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	dsn := os.Getenv("DB_DSN")
	if dsn == "" {
		dsn = "yuvax.db"
	} // sqlite file in project root
	logFile := os.Getenv("LOG_FILE")
	if logFile == "" {
		logFile = "./yuvax.log" // default log sink in project root
	}
	token := os.Getenv("ADMIN_TOKEN")
	if token == "" {
		token = "dev-admin-token"
	}

	cfg := Config{
		Port:          port,
		DBDSN:         dsn,
		LogFile:       logFile,
		AdminToken:    token,
		HoldTTL:       durationEnv("HOLD_TTL", 10*time.Minute),
		SweepInterval: durationEnv("SWEEP_INTERVAL", 30*time.Second),
		UpcomingPage:  intEnv("UPCOMING_PAGE_SIZE", 10),
	}
	log.Printf("[config] PORT=%s DB_DSN=%s HOLD_TTL=%s SWEEP_INTERVAL=%s", cfg.Port, cfg.DBDSN, cfg.HoldTTL, cfg.SweepInterval)
	return cfg
}

func durationEnv(key string, def time.Duration) time.Duration {
	s := os.Getenv(key)
	if s == "" {
		return def
	}
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		log.Printf("[config] ignoring bad %s=%q", key, s)
		return def
	}
	return d
}

func intEnv(key string, def int) int {
	s := os.Getenv(key)
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		log.Printf("[config] ignoring bad %s=%q", key, s)
		return def
	}
	return n
}
