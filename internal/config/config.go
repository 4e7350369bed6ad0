// SPDX-License-Identifier: EPL-2.0

// Package config loads the intake settings from an XDG config file, a .env
// file and the environment, in increasing order of precedence.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/adrg/xdg"
	"github.com/joho/godotenv"
	"github.com/spf13/afero"
)

const (
	AppName  = "intake"
	FileName = "config.json"

	DefaultModel    = "gemini-2.5-flash"
	DefaultEndpoint = "https://generativelanguage.googleapis.com"
	DefaultTimeout  = 5 * time.Minute
	DefaultRate     = 16000
)

// Environment variables that override file settings.
const (
	EnvLogLevel   = "INTAKE_LOG_LEVEL"
	EnvTargetRate = "INTAKE_TARGET_RATE"
	EnvAPIKey     = "GEMINI_API_KEY"
	EnvModel      = "INTAKE_MODEL"
)

var (
	ErrInvalidRate     = errors.New("target rate must be 16000 or 24000")
	ErrInvalidLogLevel = errors.New("invalid log level")
	ErrInvalidTimeout  = errors.New("timeout must be positive")
)

var (
	validRates     = []int{16000, 24000}
	validLogLevels = []string{"trace", "debug", "info", "warn", "error", "disabled"}
)

type FileLogging struct {
	Enabled    bool   `json:"enabled"`
	Filename   string `json:"filename"`
	MaxSizeMB  int    `json:"max_size_mb"`
	MaxBackups int    `json:"max_backups"`
	MaxAgeDays int    `json:"max_age_days"`
	Compress   bool   `json:"compress"`
}

type Config struct {
	LogLevel   string `json:"log_level"`
	TargetRate int    `json:"target_rate"`

	// APIKey is read from the environment only and never written back.
	APIKey         string `json:"-"`
	Model          string `json:"model"`
	Endpoint       string `json:"endpoint"`
	TimeoutSeconds int    `json:"timeout_seconds"`

	// UsageDB is the SQLite file holding the usage log. Relative paths are
	// resolved against the XDG data directory.
	UsageDB string `json:"usage_db"`

	FileLogging *FileLogging `json:"file_logging,omitempty"`
}

// Timeout is the remote analysis timeout.
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		LogLevel:       "info",
		TargetRate:     DefaultRate,
		Model:          DefaultModel,
		Endpoint:       DefaultEndpoint,
		TimeoutSeconds: int(DefaultTimeout / time.Second),
		UsageDB:        "usage.db",
		FileLogging: &FileLogging{
			Enabled:    false,
			Filename:   "intake.log",
			MaxSizeMB:  10,
			MaxBackups: 3,
			MaxAgeDays: 30,
			Compress:   true,
		},
	}
}

// Validate reports every invalid field at once.
func Validate(cfg *Config) error {
	var errs []error
	if !slices.Contains(validRates, cfg.TargetRate) {
		errs = append(errs, fmt.Errorf("%w, got %d", ErrInvalidRate, cfg.TargetRate))
	}
	if cfg.LogLevel != "" && !slices.Contains(validLogLevels, strings.ToLower(cfg.LogLevel)) {
		errs = append(errs, fmt.Errorf("%w: %q", ErrInvalidLogLevel, cfg.LogLevel))
	}
	if cfg.TimeoutSeconds <= 0 {
		errs = append(errs, fmt.Errorf("%w, got %d", ErrInvalidTimeout, cfg.TimeoutSeconds))
	}
	return errors.Join(errs...)
}

// Manager resolves paths and reads and writes configuration through an
// afero filesystem.
type Manager struct {
	fs         afero.Fs
	configHome string
	dataHome   string
	cacheHome  string

	getenv func(string) string
	dotenv map[string]string
}

func NewManager(fs afero.Fs) *Manager {
	return &Manager{
		fs:         fs,
		configHome: xdg.ConfigHome,
		dataHome:   xdg.DataHome,
		cacheHome:  xdg.CacheHome,
		getenv:     os.Getenv,
	}
}

// WithDirs overrides the XDG base directories.
func (m *Manager) WithDirs(configHome, dataHome, cacheHome string) *Manager {
	m.configHome, m.dataHome, m.cacheHome = configHome, dataHome, cacheHome
	return m
}

// WithEnv replaces the environment lookup.
func (m *Manager) WithEnv(getenv func(string) string) *Manager {
	m.getenv = getenv
	return m
}

func (m *Manager) Path() string {
	return filepath.Join(m.configHome, AppName, FileName)
}

// LoadDotEnv reads KEY=value pairs from path. They are consulted after the
// real environment, so an exported variable always wins. A missing file is
// not an error.
func (m *Manager) LoadDotEnv(path string) error {
	f, err := m.fs.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	vars, err := godotenv.Parse(f)
	if err != nil {
		return fmt.Errorf("parsing %s: %w", path, err)
	}
	m.dotenv = vars
	return nil
}

func (m *Manager) env(key string) string {
	if v := m.getenv(key); v != "" {
		return v
	}
	return m.dotenv[key]
}

// Load reads the config file at Path, or returns the defaults when there is
// none. Environment overrides are not applied.
func (m *Manager) Load() (*Config, error) {
	path := m.Path()
	ok, err := afero.Exists(m.fs, path)
	if err != nil {
		return nil, fmt.Errorf("checking %s: %w", path, err)
	}
	if !ok {
		return Default(), nil
	}
	return m.LoadFromFile(path)
}

// LoadFromFile reads path on top of the defaults and validates the result.
func (m *Manager) LoadFromFile(path string) (*Config, error) {
	data, err := afero.ReadFile(m.fs, path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg := Default()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file %s: %w", path, err)
	}
	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid config file %s: %w", path, err)
	}
	return cfg, nil
}

// Save validates cfg and writes it to path, creating parent directories.
func (m *Manager) Save(cfg *Config, path string) error {
	if err := Validate(cfg); err != nil {
		return fmt.Errorf("refusing to save invalid config: %w", err)
	}
	if err := m.fs.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	if err := afero.WriteFile(m.fs, path, data, 0o644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}

// ApplyEnv copies environment overrides into cfg. Malformed numeric values
// are reported and leave the field unchanged.
func (m *Manager) ApplyEnv(cfg *Config) error {
	if v := m.env(EnvLogLevel); v != "" {
		cfg.LogLevel = strings.ToLower(v)
	}
	if v := m.env(EnvModel); v != "" {
		cfg.Model = v
	}
	if v := m.env(EnvAPIKey); v != "" {
		cfg.APIKey = v
	}
	if v := m.env(EnvTargetRate); v != "" {
		rate, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s=%q: %w", EnvTargetRate, v, err)
		}
		cfg.TargetRate = rate
	}
	return Validate(cfg)
}

// Resolve loads the config file and applies environment overrides.
func (m *Manager) Resolve() (*Config, error) {
	cfg, err := m.Load()
	if err != nil {
		return nil, err
	}
	if err := m.ApplyEnv(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LogFilePath places relative log file names under the XDG cache directory.
func (m *Manager) LogFilePath(cfg *Config) string {
	name := "intake.log"
	if cfg.FileLogging != nil && cfg.FileLogging.Filename != "" {
		name = cfg.FileLogging.Filename
	}
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(m.cacheHome, AppName, name)
}

// UsageDBPath places a relative database path under the XDG data directory.
func (m *Manager) UsageDBPath(cfg *Config) string {
	if cfg.UsageDB == ":memory:" || filepath.IsAbs(cfg.UsageDB) {
		return cfg.UsageDB
	}
	name := cfg.UsageDB
	if name == "" {
		name = "usage.db"
	}
	return filepath.Join(m.dataHome, AppName, name)
}
