package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func envOf(values map[string]string) func(string) string {
	return func(key string) string {
		return values[key]
	}
}

func TestLoadFromEnv_Defaults(t *testing.T) {
	t.Parallel()

	cfg, err := LoadFromEnv(envOf(nil))
	require.NoError(t, err)

	assert.Equal(t, ":5001", cfg.Server.Addr)
	assert.Equal(t, DefaultMaxUploadBytes, cfg.Server.MaxUploadBytes)
	assert.Equal(t, 30*time.Second, cfg.Server.ParseTimeout)
	assert.Equal(t, 10*time.Second, cfg.Server.ShutdownTimeout)
	assert.Equal(t, []string{"*"}, cfg.Server.AllowedOrigins)
	assert.Equal(t, filepath.Join(os.TempDir(), "modelcard-uploads"), cfg.Server.UploadDir)
	assert.Equal(t, "sqlserver", cfg.Database.Driver)
	assert.Equal(t, "ModelCards", cfg.Database.Table)
	assert.Empty(t, cfg.Database.DSN)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
}

func TestLoadFromEnv_Overrides(t *testing.T) {
	t.Parallel()

	cfg, err := LoadFromEnv(envOf(map[string]string{
		EnvAddr:            "127.0.0.1:8080",
		EnvMaxUploadBytes:  "1024",
		EnvParseTimeout:    "5s",
		EnvShutdownTimeout: "1m",
		EnvAllowedOrigins:  "https://forms.example.com, http://localhost:3000,",
		EnvDBDriver:        "sqlite",
		EnvDBDSN:           "file:cards.db",
		EnvDBTable:         "dbo.ModelCards",
		EnvLogLevel:        "debug",
		EnvLogFormat:       "console",
	}))
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "127.0.0.1:8080", cfg.Server.Addr)
	assert.Equal(t, int64(1024), cfg.Server.MaxUploadBytes)
	assert.Equal(t, 5*time.Second, cfg.Server.ParseTimeout)
	assert.Equal(t, time.Minute, cfg.Server.ShutdownTimeout)
	assert.Equal(t, []string{"https://forms.example.com", "http://localhost:3000"}, cfg.Server.AllowedOrigins)
	assert.Equal(t, "dbo.ModelCards", cfg.Database.Table)
	assert.Equal(t, "console", cfg.Log.Format)
}

func TestLoadFromEnv_Malformed(t *testing.T) {
	t.Parallel()

	tests := []struct {
		key   string
		value string
	}{
		{key: EnvMaxUploadBytes, value: "16MB"},
		{key: EnvParseTimeout, value: "30"},
		{key: EnvShutdownTimeout, value: "soon"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.key, func(t *testing.T) {
			t.Parallel()

			_, err := LoadFromEnv(envOf(map[string]string{tt.key: tt.value}))
			assert.ErrorIs(t, err, ErrInvalidConfig)
		})
	}
}

func TestConfig_Validate(t *testing.T) {
	t.Parallel()

	valid := func() *Config {
		cfg, err := LoadFromEnv(envOf(map[string]string{EnvDBDSN: "sqlserver://localhost"}))
		require.NoError(t, err)
		return cfg
	}

	tests := []struct {
		name   string
		mutate func(c *Config)
	}{
		{name: "missing dsn", mutate: func(c *Config) { c.Database.DSN = "" }},
		{name: "unknown driver", mutate: func(c *Config) { c.Database.Driver = "postgres" }},
		{name: "unsafe table", mutate: func(c *Config) { c.Database.Table = "cards; DROP TABLE x" }},
		{name: "zero upload cap", mutate: func(c *Config) { c.Server.MaxUploadBytes = 0 }},
		{name: "zero parse timeout", mutate: func(c *Config) { c.Server.ParseTimeout = 0 }},
		{name: "empty address", mutate: func(c *Config) { c.Server.Addr = "" }},
		{name: "empty upload dir", mutate: func(c *Config) { c.Server.UploadDir = "" }},
	}

	require.NoError(t, valid().Validate())
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := valid()
			tt.mutate(cfg)
			assert.ErrorIs(t, cfg.Validate(), ErrInvalidConfig)
		})
	}
}

func TestLoad_EnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("MODELCARD_DB_TABLE=CardsFromFile\n"), 0o600))
	t.Cleanup(func() { _ = os.Unsetenv(EnvDBTable) })

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "CardsFromFile", cfg.Database.Table)

	_, err = Load(filepath.Join(t.TempDir(), "missing.env"))
	assert.NoError(t, err, "a missing env file is not an error")
}
