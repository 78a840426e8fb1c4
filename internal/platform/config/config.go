// Package config loads layered service configuration with koanf.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Default configuration values.
const (
	DefaultServerPort     = 8080
	DefaultMaxRequestSize = 1 << 20

	DefaultClientRetryMaxAttempts     = 3
	DefaultClientRetryMultiplier      = 2.0
	DefaultClientCircuitMaxFailures   = 5
	DefaultClientCircuitHalfOpenLimit = 3

	DefaultLogFileMaxSizeMB  = 100
	DefaultLogFileMaxBackups = 3
	DefaultLogFileMaxAgeDays = 28

	// DefaultMaxReplyDepth matches the nesting the web client renders.
	DefaultMaxReplyDepth = 3
	DefaultPageSize      = 20
	MaxPageSize          = 100

	// DefaultAdminPasswordHash is bcrypt("admin123"). Override it outside
	// local development.
	DefaultAdminPasswordHash = "$2a$10$zUXJLbBbqUrTZJ3ZklPebOTYpVAS3Up3hiZrG3aqCDtOxhne7CoF."

	// EnvPrefix namespaces environment overrides. Nested keys are separated
	// by a double underscore: APP_STORE__STRICT_REPLIES=false.
	EnvPrefix = "APP_"
)

// Store backends.
const (
	BackendMemory   = "memory"
	BackendFile     = "file"
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
	BackendRemote   = "remote"
)

// Config is the root configuration structure.
type Config struct {
	App        AppConfig        `koanf:"app"        validate:"required"`
	Server     ServerConfig     `koanf:"server"     validate:"required"`
	Log        LogConfig        `koanf:"log"        validate:"required"`
	Telemetry  TelemetryConfig  `koanf:"telemetry"`
	Store      StoreConfig      `koanf:"store"      validate:"required"`
	Moderation ModerationConfig `koanf:"moderation"`
	Admin      AdminConfig      `koanf:"admin"      validate:"required"`
	API        APIConfig        `koanf:"api"        validate:"required"`
	Client     ClientConfig     `koanf:"client"     validate:"required"`
}

type AppConfig struct {
	Name        string `koanf:"name"        validate:"required"`
	Version     string `koanf:"version"     validate:"required"`
	Environment string `koanf:"environment" validate:"required,oneof=local dev qa prod test"`
}

type ServerConfig struct {
	Port            int           `koanf:"port"             validate:"required,min=1,max=65535"`
	Host            string        `koanf:"host"             validate:"required"`
	ReadTimeout     time.Duration `koanf:"read_timeout"     validate:"required,min=1s"`
	WriteTimeout    time.Duration `koanf:"write_timeout"    validate:"required,min=1s"`
	IdleTimeout     time.Duration `koanf:"idle_timeout"     validate:"required,min=1s"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout" validate:"required,min=1s"`
	MaxRequestSize  int64         `koanf:"max_request_size" validate:"required,min=1"`
}

type LogConfig struct {
	Level  string        `koanf:"level"  validate:"required,oneof=trace debug info warn error"`
	Format string        `koanf:"format" validate:"required,oneof=json text pretty"`
	File   LogFileConfig `koanf:"file"`
}

// LogFileConfig controls the rotating JSON log file.
type LogFileConfig struct {
	Enabled    bool   `koanf:"enabled"`
	Path       string `koanf:"path"        validate:"required_if=Enabled true"`
	MaxSizeMB  int    `koanf:"max_size"    validate:"omitempty,min=1,max=1024"`
	MaxBackups int    `koanf:"max_backups" validate:"omitempty,min=0,max=100"`
	MaxAgeDays int    `koanf:"max_age"     validate:"omitempty,min=0,max=365"`
	Compress   bool   `koanf:"compress"`
}

type TelemetryConfig struct {
	Enabled      bool    `koanf:"enabled"`
	Endpoint     string  `koanf:"endpoint"      validate:"required_if=Enabled true,omitempty,url"`
	ServiceName  string  `koanf:"service_name"  validate:"required_if=Enabled true"`
	SamplingRate float64 `koanf:"sampling_rate" validate:"min=0,max=1"`
}

// StoreConfig selects and configures the persistence backend.
type StoreConfig struct {
	Backend string `koanf:"backend" validate:"required,oneof=memory file sqlite postgres remote"`

	// Path is a directory for the file backend and a database file for sqlite.
	Path string `koanf:"path" validate:"required_if=Backend file,required_if=Backend sqlite"`
	DSN  string `koanf:"dsn"  validate:"required_if=Backend postgres"`

	Remote RemoteStoreConfig `koanf:"remote"`

	// StrictReplies rejects replies to unknown questions or to parents of
	// another question.
	StrictReplies bool `koanf:"strict_replies"`
}

// RemoteStoreConfig points at an HTTP blob service.
type RemoteStoreConfig struct {
	BaseURL    string `koanf:"base_url"    validate:"omitempty,url"`
	Token      string `koanf:"token"`
	HealthPath string `koanf:"health_path"`
}

// ModerationConfig configures the banned-word source.
type ModerationConfig struct {
	// WordsFile is an optional YAML file ({words: [...]}) that overrides the
	// persisted list at startup.
	WordsFile string        `koanf:"words_file"`
	Watch     bool          `koanf:"watch"`
	Debounce  time.Duration `koanf:"debounce" validate:"omitempty,min=10ms"`
}

type AdminConfig struct {
	PasswordHash string `koanf:"password_hash" validate:"required,startswith=$2"`
}

type APIConfig struct {
	MaxReplyDepth   int `koanf:"max_reply_depth"   validate:"required,min=1,max=32"`
	DefaultPageSize int `koanf:"default_page_size" validate:"required,min=1,max=100"`
}

// ClientConfig configures the HTTP client used by the remote backend.
type ClientConfig struct {
	Timeout        time.Duration        `koanf:"timeout"         validate:"required,min=100ms"`
	Retry          RetryConfig          `koanf:"retry"           validate:"required"`
	CircuitBreaker CircuitBreakerConfig `koanf:"circuit_breaker" validate:"required"`
}

type RetryConfig struct {
	MaxAttempts     int           `koanf:"max_attempts"     validate:"required,min=1,max=10"`
	InitialInterval time.Duration `koanf:"initial_interval" validate:"required,min=1ms"`
	MaxInterval     time.Duration `koanf:"max_interval"     validate:"required,min=1ms"`
	Multiplier      float64       `koanf:"multiplier"       validate:"required,min=1,max=10"`
}

type CircuitBreakerConfig struct {
	MaxFailures   int           `koanf:"max_failures"    validate:"required,min=1"`
	Timeout       time.Duration `koanf:"timeout"         validate:"required,min=1ms"`
	HalfOpenLimit int           `koanf:"half_open_limit" validate:"required,min=1"`
}

func defaults() map[string]any {
	return map[string]any{
		"app.name":        "campus-qa",
		"app.version":     "dev",
		"app.environment": "local",

		"server.port":             DefaultServerPort,
		"server.host":             "0.0.0.0",
		"server.read_timeout":     "30s",
		"server.write_timeout":    "30s",
		"server.idle_timeout":     "120s",
		"server.shutdown_timeout": "10s",
		"server.max_request_size": DefaultMaxRequestSize,

		"log.level":            "info",
		"log.format":           "json",
		"log.file.enabled":     false,
		"log.file.path":        "./logs/campus-qa.log",
		"log.file.max_size":    DefaultLogFileMaxSizeMB,
		"log.file.max_backups": DefaultLogFileMaxBackups,
		"log.file.max_age":     DefaultLogFileMaxAgeDays,
		"log.file.compress":    true,

		"telemetry.enabled":       false,
		"telemetry.endpoint":      "",
		"telemetry.service_name":  "campus-qa",
		"telemetry.sampling_rate": 1.0,

		"store.backend":            BackendFile,
		"store.path":               "./data",
		"store.dsn":                "",
		"store.remote.base_url":    "",
		"store.remote.token":       "",
		"store.remote.health_path": "/health",
		"store.strict_replies":     true,

		"moderation.words_file": "",
		"moderation.watch":      false,
		"moderation.debounce":   "250ms",

		"admin.password_hash": DefaultAdminPasswordHash,

		"api.max_reply_depth":   DefaultMaxReplyDepth,
		"api.default_page_size": DefaultPageSize,

		"client.timeout":                         "10s",
		"client.retry.max_attempts":              DefaultClientRetryMaxAttempts,
		"client.retry.initial_interval":          "100ms",
		"client.retry.max_interval":              "5s",
		"client.retry.multiplier":                DefaultClientRetryMultiplier,
		"client.circuit_breaker.max_failures":    DefaultClientCircuitMaxFailures,
		"client.circuit_breaker.timeout":         "30s",
		"client.circuit_breaker.half_open_limit": DefaultClientCircuitHalfOpenLimit,
	}
}

// Options control where Load looks for its sources.
type Options struct {
	// Dir holds base.yaml and {profile}.yaml. Defaults to "configs".
	Dir string

	// EnvFile is loaded into the process environment before env overrides
	// are read. Existing variables win. Defaults to ".env"; a missing file
	// is ignored.
	EnvFile string
}

// Load loads configuration with the following precedence (highest first):
//  1. Environment variables (APP_ prefix, .env included)
//  2. Profile config file (configs/{profile}.yaml)
//  3. Base config file (configs/base.yaml)
//  4. Default values
func Load(profile string) (*Config, error) {
	return LoadWithOptions(profile, Options{})
}

// LoadWithOptions is Load with explicit source locations.
func LoadWithOptions(profile string, opts Options) (*Config, error) {
	if opts.Dir == "" {
		opts.Dir = "configs"
	}

	if opts.EnvFile == "" {
		opts.EnvFile = ".env"
	}

	if err := loadDotEnv(opts.EnvFile); err != nil {
		return nil, fmt.Errorf("loading %s: %w", opts.EnvFile, err)
	}

	k := koanf.New(".")

	if err := k.Load(confmap.Provider(defaults(), "."), nil); err != nil {
		return nil, fmt.Errorf("loading defaults: %w", err)
	}

	if err := loadFileIfExists(k, filepath.Join(opts.Dir, "base.yaml")); err != nil {
		return nil, fmt.Errorf("loading base config: %w", err)
	}

	if profile != "" {
		if err := loadFileIfExists(k, filepath.Join(opts.Dir, profile+".yaml")); err != nil {
			return nil, fmt.Errorf("loading profile config %q: %w", profile, err)
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("loading env vars: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}

	return &cfg, nil
}

// envKey maps APP_STORE__STRICT_REPLIES to store.strict_replies.
func envKey(s string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(s, EnvPrefix)), "__", ".")
}

func loadDotEnv(path string) error {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil
	}

	return godotenv.Load(path)
}

func loadFileIfExists(k *koanf.Koanf, path string) error {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil
	}

	return k.Load(file.Provider(path), yaml.Parser())
}
