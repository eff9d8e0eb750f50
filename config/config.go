// Package config reads runtime settings from the environment. Call Load once
// at startup; every accessor falls back to a sane local default.
package config

import (
	"os"
	"strings"

	"github.com/joho/godotenv"
)

const (
	defaultPostgresDSN = "host=localhost user=postgres password=postgres dbname=storefront port=5432 sslmode=disable"
	defaultListenAddr  = ":8080"
	defaultJWTSecret   = "change-me-in-production"
	defaultStorageRoot = "storage"
)

// Load pulls a .env file into the process environment if one exists. Missing
// files are fine; real deployments set variables directly.
func Load() {
	_ = godotenv.Load()
}

func get(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

// DatabaseDSN is the postgres connection string.
func DatabaseDSN() string { return get("DATABASE_DSN", defaultPostgresDSN) }

// ListenAddr is the HTTP bind address.
func ListenAddr() string { return get("LISTEN_ADDR", defaultListenAddr) }

// JWTSecret signs access tokens.
func JWTSecret() string { return get("JWT_SECRET", defaultJWTSecret) }

// StorageRoot is the local directory product images are written under.
func StorageRoot() string { return get("STORAGE_ROOT", defaultStorageRoot) }

// AppEnv distinguishes local from production (log encoding).
func AppEnv() string { return get("APP_ENV", "local") }
