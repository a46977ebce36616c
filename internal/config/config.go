package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds process settings. The checks themselves live in the
// dashboard document (see Document).
type Config struct {
	Addr            string        // dashboard bind address, e.g. "0.0.0.0:3000"
	LogDir          string        // logs directory
	LogLevel        string        // debug | info | warn | error
	ConfigPath      string        // dashboard document (json or yaml)
	PollInterval    time.Duration // pause between scan passes
	PollConcurrency int           // probes in flight per pass; 1 = sequential
	PublicRPM       int           // per-IP requests/min on /api; 0 disables
	PublicBurst     int
}

func FromEnv() Config {
	addr := os.Getenv("ADDR")
	if addr == "" {
		addr = "0.0.0.0:3000"
	}

	logDir := os.Getenv("LOG_DIR")
	if logDir == "" {
		logDir = "logs"
	}

	logLevel := os.Getenv("LOG_LEVEL")
	if logLevel == "" {
		logLevel = "info"
	}

	path := os.Getenv("CONFIG_PATH")
	if path == "" {
		path = "config.json"
	}

	interval := time.Second
	if ms, ok := positiveInt("POLL_INTERVAL_MS"); ok {
		interval = time.Duration(ms) * time.Millisecond
	}

	concurrency := 1
	if n, ok := positiveInt("POLL_CONCURRENCY"); ok {
		concurrency = n
	}

	rpm := 600
	if v := os.Getenv("PUBLIC_RPM"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			rpm = n
		}
	}

	burst := 100
	if n, ok := positiveInt("PUBLIC_BURST"); ok {
		burst = n
	}

	return Config{
		Addr:            addr,
		LogDir:          logDir,
		LogLevel:        logLevel,
		ConfigPath:      path,
		PollInterval:    interval,
		PollConcurrency: concurrency,
		PublicRPM:       rpm,
		PublicBurst:     burst,
	}
}

func positiveInt(key string) (int, bool) {
	v := os.Getenv(key)
	if v == "" {
		return 0, false
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return 0, false
	}
	return n, true
}
