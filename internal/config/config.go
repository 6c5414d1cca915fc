// Package config reads wordiz settings from WORDIZ_* environment
// variables, optionally seeded from a .env file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
)

// Backend names.
const (
	BackendSQLite = "sqlite"
	BackendRedis  = "redis"
)

// Config holds process-level configuration. Mastery thresholds are user
// settings and live in the store, not here.
type Config struct {
	// Backend selects the persistence provider: "sqlite" or "redis".
	Backend string

	// DBPath is the SQLite database file. Empty means the default path.
	DBPath string

	// RedisURL is required for the redis backend.
	RedisURL string

	// Profile namespaces redis keys so several learners can share a server.
	Profile string

	// CurriculumPath is the root of <lang>/<step>.yaml lesson files.
	CurriculumPath string

	LearningLang string
	NativeLang   string

	// LogMode is "dev" or "prod".
	LogMode string

	// Seed makes task building deterministic when non-zero.
	Seed uint64
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Backend:        BackendSQLite,
		Profile:        "default",
		CurriculumPath: "curriculum",
		LearningLang:   "es",
		NativeLang:     "en",
		LogMode:        "dev",
	}
}

// LoadDotEnv loads variables from the given .env files (".env" when none
// are named) without overriding variables already set. Missing files are
// ignored.
func LoadDotEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	var existing []string
	for _, f := range files {
		if _, err := os.Stat(f); err == nil {
			existing = append(existing, f)
		} else if !errors.Is(err, fs.ErrNotExist) {
			return err
		}
	}
	if len(existing) == 0 {
		return nil
	}
	if err := godotenv.Load(existing...); err != nil {
		return fmt.Errorf("load %v: %w", existing, err)
	}
	return nil
}

// FromEnv builds a Config from environment variables, falling back to
// defaults for unset values.
func FromEnv() (Config, error) {
	cfg := DefaultConfig()

	if v := os.Getenv("WORDIZ_BACKEND"); v != "" {
		cfg.Backend = v
	}
	if v := os.Getenv("WORDIZ_DB"); v != "" {
		cfg.DBPath = v
	}
	if v := os.Getenv("WORDIZ_REDIS_URL"); v != "" {
		cfg.RedisURL = v
	}
	if v := os.Getenv("WORDIZ_PROFILE"); v != "" {
		cfg.Profile = v
	}
	if v := os.Getenv("WORDIZ_CURRICULUM_PATH"); v != "" {
		cfg.CurriculumPath = filepath.Clean(v)
	}
	if v := os.Getenv("WORDIZ_LEARNING_LANG"); v != "" {
		cfg.LearningLang = v
	}
	if v := os.Getenv("WORDIZ_NATIVE_LANG"); v != "" {
		cfg.NativeLang = v
	}
	if v := os.Getenv("WORDIZ_LOG_MODE"); v != "" {
		cfg.LogMode = v
	}
	if v := os.Getenv("WORDIZ_SEED"); v != "" {
		seed, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return cfg, fmt.Errorf("WORDIZ_SEED: %w", err)
		}
		cfg.Seed = seed
	}
	return cfg, nil
}

// Validate checks the backend selection.
func (c Config) Validate() error {
	switch c.Backend {
	case BackendSQLite:
	case BackendRedis:
		if c.RedisURL == "" {
			return fmt.Errorf("WORDIZ_REDIS_URL is required for the redis backend")
		}
	default:
		return fmt.Errorf("unknown backend: %q", c.Backend)
	}
	if c.LearningLang == "" || c.NativeLang == "" {
		return fmt.Errorf("learning and native languages must be set")
	}
	return nil
}
