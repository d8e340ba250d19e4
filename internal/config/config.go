// Package config loads application configuration from environment variables.
//
// Every knob has a default that works for local development, so a bare
// `devshare feed` runs with no environment at all. Struct-tag parsing via
// caarlos0/env keeps the whole configuration in one declarative place
// instead of scattered os.Getenv calls.
package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Backend names accepted by STORAGE_BACKEND.
const (
	BackendSQLite = "sqlite"
	BackendBadger = "badger"
)

// Config contains all runtime parameters.
type Config struct {
	LogLevel string  `env:"LOG_LEVEL" envDefault:"info"` // debug, info, warn, error
	Storage  Storage `envPrefix:"STORAGE_"`
	Session  Session `envPrefix:"SESSION_"`
	KDF      KDF     `envPrefix:"KDF_"`
}

// Storage selects and locates the key-value persistence substrate.
type Storage struct {
	// Backend is "sqlite" (single-file database) or "badger" (directory).
	Backend string `env:"BACKEND" envDefault:"sqlite"`
	// Path is the database file (sqlite) or directory (badger).
	Path string `env:"PATH" envDefault:"data/devshare.db"`
}

// Session configures the signed session pointer.
type Session struct {
	// Secret signs the persisted session value. At least 16 characters.
	// The default is for local development only.
	Secret string `env:"SECRET" envDefault:"devshare-local-dev-secret"`
}

// KDF holds argon2id parameters for password hashing.
// Defaults follow the RFC 9106 low-memory profile (t=3, m=64 MiB, p=4).
type KDF struct {
	Time   uint32 `env:"TIME" envDefault:"3"`
	MemKiB uint32 `env:"MEM" envDefault:"65536"`
	Par    uint8  `env:"PAR" envDefault:"4"`
}

// New loads configuration from the environment.
func New() (*Config, error) {
	cfg := Config{}
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("config: parsing environment: %w", err)
	}

	if cfg.Storage.Backend != BackendSQLite && cfg.Storage.Backend != BackendBadger {
		return nil, fmt.Errorf("config: unknown STORAGE_BACKEND %q (want %q or %q)",
			cfg.Storage.Backend, BackendSQLite, BackendBadger)
	}

	return &cfg, nil
}
