package main

import (
	"os"
	"time"
)

// Config holds process configuration, read once at startup and never
// mutated afterwards.
type Config struct {
	Addr         string
	EngineURL    string
	DatabaseURL  string
	CORSOrigin   string
	SolveTimeout time.Duration
}

// ConfigFromEnv reads configuration from the environment, falling back
// to development defaults.
func ConfigFromEnv() Config {
	cfg := Config{
		Addr:         ":8000",
		CORSOrigin:   "http://localhost:3000",
		SolveTimeout: 60 * time.Second,
	}
	if v := os.Getenv("MBQC_ADDR"); v != "" {
		cfg.Addr = v
	}
	cfg.EngineURL = os.Getenv("ENGINE_URL")
	cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	if v := os.Getenv("CORS_ORIGIN"); v != "" {
		cfg.CORSOrigin = v
	}
	if v := os.Getenv("SOLVE_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			cfg.SolveTimeout = d
		}
	}
	return cfg
}
