package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	DriverSQLite = "sqlite"
	DriverFile   = "file"
	DriverMemory = "memory"

	DefaultStorageKey  = "prapp_profile"
	DefaultWarmupDelay = 1500 * time.Millisecond
)

type Config struct {
	DataDir       string        `yaml:"-"`
	DBPath        string        `yaml:"db_path" env:"DB_PATH"`
	StorageDriver string        `yaml:"storage_driver" env:"STORAGE_DRIVER"`
	StorageKey    string        `yaml:"storage_key" env:"STORAGE_KEY"`
	WarmupDelay   time.Duration `yaml:"warmup_delay" env:"WARMUP_DELAY"`
	RecordAborted bool          `yaml:"record_aborted" env:"RECORD_ABORTED"`
	LogLevel      string        `yaml:"log_level" env:"LOG_LEVEL"`
}

// New returns the defaults rooted at dataDir without reading any overlay.
func New(dataDir string) (Config, error) {
	if dataDir == "" {
		return Config{}, fmt.Errorf("data dir is required")
	}
	return Config{
		DataDir:       dataDir,
		DBPath:        filepath.Join(dataDir, ".prapp", "prapp.db"),
		StorageDriver: DriverSQLite,
		StorageKey:    DefaultStorageKey,
		WarmupDelay:   DefaultWarmupDelay,
		LogLevel:      "info",
	}, nil
}

// Load layers <data>/.prapp/config.yaml, <data>/.env and PRAPP_* environment
// variables over the defaults, in that order.
func Load(dataDir string) (Config, error) {
	cfg, err := New(dataDir)
	if err != nil {
		return Config{}, err
	}
	if err := cfg.readFile(filepath.Join(dataDir, ".prapp", "config.yaml")); err != nil {
		return Config{}, err
	}
	if err := godotenv.Load(filepath.Join(dataDir, ".env")); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}
	if err := env.ParseWithOptions(&cfg, env.Options{Prefix: "PRAPP_"}); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) readFile(path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(raw, c); err != nil {
		return fmt.Errorf("decode config: %w", err)
	}
	return nil
}

func (c Config) Validate() error {
	switch c.StorageDriver {
	case DriverSQLite, DriverFile, DriverMemory:
	default:
		return fmt.Errorf("unknown storage driver %q", c.StorageDriver)
	}
	if strings.TrimSpace(c.StorageKey) == "" {
		return fmt.Errorf("storage key is required")
	}
	if c.WarmupDelay < 0 {
		return fmt.Errorf("warmup delay must be non-negative")
	}
	return nil
}

// StateDir is where file-backed storage and logs live.
func (c Config) StateDir() string {
	return filepath.Join(c.DataDir, ".prapp")
}
