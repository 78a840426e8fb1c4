package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	return &Config{
		App: AppConfig{Name: "campus-qa", Version: "1.0.0", Environment: "test"},
		Server: ServerConfig{
			Port:            8080,
			Host:            "0.0.0.0",
			ReadTimeout:     30 * time.Second,
			WriteTimeout:    30 * time.Second,
			IdleTimeout:     120 * time.Second,
			ShutdownTimeout: 10 * time.Second,
			MaxRequestSize:  DefaultMaxRequestSize,
		},
		Log:   LogConfig{Level: "info", Format: "json"},
		Store: StoreConfig{Backend: BackendMemory, StrictReplies: true},
		Admin: AdminConfig{PasswordHash: DefaultAdminPasswordHash},
		API:   APIConfig{MaxReplyDepth: 3, DefaultPageSize: 20},
		Client: ClientConfig{
			Timeout: 10 * time.Second,
			Retry: RetryConfig{
				MaxAttempts:     3,
				InitialInterval: 100 * time.Millisecond,
				MaxInterval:     5 * time.Second,
				Multiplier:      2,
			},
			CircuitBreaker: CircuitBreakerConfig{MaxFailures: 5, Timeout: 30 * time.Second, HalfOpenLimit: 3},
		},
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr []string
	}{
		{
			name:   "valid",
			mutate: func(*Config) {},
		},
		{
			name:    "missing app name",
			mutate:  func(c *Config) { c.App.Name = "" },
			wantErr: []string{"app.name is required"},
		},
		{
			name:    "unknown environment",
			mutate:  func(c *Config) { c.App.Environment = "staging" },
			wantErr: []string{"app.environment must be one of: local dev qa prod test"},
		},
		{
			name:    "port out of range",
			mutate:  func(c *Config) { c.Server.Port = 70000 },
			wantErr: []string{"server.port must be at most 65535"},
		},
		{
			name:    "trace level accepted, unknown rejected",
			mutate:  func(c *Config) { c.Log.Level = "verbose" },
			wantErr: []string{"log.level must be one of: trace debug info warn error"},
		},
		{
			name:    "unknown backend",
			mutate:  func(c *Config) { c.Store.Backend = "redis" },
			wantErr: []string{"store.backend must be one of"},
		},
		{
			name:    "file backend needs path",
			mutate:  func(c *Config) { c.Store.Backend = BackendFile },
			wantErr: []string{"store.path is required when"},
		},
		{
			name:    "sqlite backend needs path",
			mutate:  func(c *Config) { c.Store.Backend = BackendSQLite },
			wantErr: []string{"store.path is required when"},
		},
		{
			name:    "postgres backend needs dsn",
			mutate:  func(c *Config) { c.Store.Backend = BackendPostgres },
			wantErr: []string{"store.dsn is required when"},
		},
		{
			name:    "remote backend needs base url",
			mutate:  func(c *Config) { c.Store.Backend = BackendRemote },
			wantErr: []string{"store.remote.base_url is required when backend is remote"},
		},
		{
			name:    "remote base url must be a url",
			mutate:  func(c *Config) { c.Store.Remote.BaseURL = "not a url" },
			wantErr: []string{"store.remote.base_url must be a valid URL"},
		},
		{
			name:    "admin hash must be bcrypt",
			mutate:  func(c *Config) { c.Admin.PasswordHash = "admin123" },
			wantErr: []string{`admin.password_hash must start with "$2"`},
		},
		{
			name:    "watch needs a words file",
			mutate:  func(c *Config) { c.Moderation.Watch = true },
			wantErr: []string{"moderation.words_file is required when watch is enabled"},
		},
		{
			name:    "reply depth bounds",
			mutate:  func(c *Config) { c.API.MaxReplyDepth = 0 },
			wantErr: []string{"api.max_reply_depth is required"},
		},
		{
			name: "telemetry needs endpoint when enabled",
			mutate: func(c *Config) {
				c.Telemetry.Enabled = true
				c.Telemetry.ServiceName = "campus-qa"
			},
			wantErr: []string{"telemetry.endpoint is required when"},
		},
		{
			name: "errors are aggregated",
			mutate: func(c *Config) {
				c.App.Name = ""
				c.Server.Port = 0
				c.Store.Backend = BackendRemote
			},
			wantErr: []string{"app.name is required", "server.port is required", "store.remote.base_url"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			if len(tt.wantErr) == 0 {
				require.NoError(t, err)
				return
			}

			require.Error(t, err)
			assert.Contains(t, err.Error(), "config validation failed")

			for _, want := range tt.wantErr {
				assert.Contains(t, err.Error(), want)
			}
		})
	}
}

func TestFormatFieldPath(t *testing.T) {
	assert.Equal(t, "store.strict_replies", formatFieldPath("Config.store.strict_replies"))
	assert.Equal(t, "port", formatFieldPath("port"))
}
