// Package config loads the modelcard runtime settings from the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/cardops/modelcard/domain/model"
	"github.com/cardops/modelcard/storage"
)

// ErrInvalidConfig is returned when a setting is missing or malformed.
var ErrInvalidConfig = errors.New("config: invalid configuration")

// Environment variable names
const (
	EnvAddr            = "MODELCARD_ADDR"
	EnvUploadDir       = "MODELCARD_UPLOAD_DIR"
	EnvMaxUploadBytes  = "MODELCARD_MAX_UPLOAD_BYTES"
	EnvParseTimeout    = "MODELCARD_PARSE_TIMEOUT"
	EnvShutdownTimeout = "MODELCARD_SHUTDOWN_TIMEOUT"
	EnvAllowedOrigins  = "MODELCARD_ALLOWED_ORIGINS"
	EnvDBDriver        = "MODELCARD_DB_DRIVER"
	EnvDBDSN           = "MODELCARD_DB_DSN"
	EnvDBTable         = "MODELCARD_DB_TABLE"
	EnvLogLevel        = "MODELCARD_LOG_LEVEL"
	EnvLogFormat       = "MODELCARD_LOG_FORMAT"
)

// DefaultMaxUploadBytes is the upload cap of the form endpoint.
const DefaultMaxUploadBytes int64 = 16 << 20

// Config represents the complete application configuration
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Log      LogConfig
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Addr            string
	UploadDir       string
	MaxUploadBytes  int64
	ParseTimeout    time.Duration
	ShutdownTimeout time.Duration
	AllowedOrigins  []string
}

// DatabaseConfig holds database connection settings
type DatabaseConfig struct {
	Driver string
	DSN    string
	Table  string
}

// LogConfig holds logger settings
type LogConfig struct {
	Level  string
	Format string
}

// Load reads an optional .env file and then the process environment.
// Variables already set in the environment win over the file.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: read %s: %w", ErrInvalidConfig, envFile, err)
		}
	}
	return LoadFromEnv(os.Getenv)
}

// LoadFromEnv builds a Config from getenv without validating the database
// settings, so commands that never touch storage can run without a DSN.
func LoadFromEnv(getenv func(string) string) (*Config, error) {
	env := lookup(getenv)

	maxUpload, err := env.int64OrDefault(EnvMaxUploadBytes, DefaultMaxUploadBytes)
	if err != nil {
		return nil, err
	}
	parseTimeout, err := env.durationOrDefault(EnvParseTimeout, 30*time.Second)
	if err != nil {
		return nil, err
	}
	shutdownTimeout, err := env.durationOrDefault(EnvShutdownTimeout, 10*time.Second)
	if err != nil {
		return nil, err
	}

	return &Config{
		Server: ServerConfig{
			Addr:            env.orDefault(EnvAddr, ":5001"),
			UploadDir:       env.orDefault(EnvUploadDir, filepath.Join(os.TempDir(), "modelcard-uploads")),
			MaxUploadBytes:  maxUpload,
			ParseTimeout:    parseTimeout,
			ShutdownTimeout: shutdownTimeout,
			AllowedOrigins:  splitList(env.orDefault(EnvAllowedOrigins, "*")),
		},
		Database: DatabaseConfig{
			Driver: env.orDefault(EnvDBDriver, string(storage.DialectSQLServer)),
			DSN:    env.orDefault(EnvDBDSN, ""),
			Table:  env.orDefault(EnvDBTable, "ModelCards"),
		},
		Log: LogConfig{
			Level:  env.orDefault(EnvLogLevel, "info"),
			Format: env.orDefault(EnvLogFormat, "json"),
		},
	}, nil
}

// Validate checks the server settings.
func (c *Config) Validate() error {
	if c.Server.Addr == "" {
		return fmt.Errorf("%w: %s is empty", ErrInvalidConfig, EnvAddr)
	}
	if c.Server.MaxUploadBytes <= 0 {
		return fmt.Errorf("%w: %s must be positive", ErrInvalidConfig, EnvMaxUploadBytes)
	}
	if c.Server.ParseTimeout <= 0 {
		return fmt.Errorf("%w: %s must be positive", ErrInvalidConfig, EnvParseTimeout)
	}
	if c.Server.UploadDir == "" {
		return fmt.Errorf("%w: %s is empty", ErrInvalidConfig, EnvUploadDir)
	}
	return c.Database.Validate()
}

// Validate checks the database settings.
func (d DatabaseConfig) Validate() error {
	if _, err := storage.ParseDialect(d.Driver); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrInvalidConfig, EnvDBDriver, err)
	}
	if d.DSN == "" {
		return fmt.Errorf("%w: %s is required", ErrInvalidConfig, EnvDBDSN)
	}
	if err := model.ValidateTable(d.Table); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrInvalidConfig, EnvDBTable, err)
	}
	return nil
}

// Dialect returns the parsed driver.
func (d DatabaseConfig) Dialect() (storage.Dialect, error) {
	return storage.ParseDialect(d.Driver)
}

// lookup wraps getenv with typed accessors
type lookup func(string) string

func (l lookup) orDefault(key, defaultValue string) string {
	if value := strings.TrimSpace(l(key)); value != "" {
		return value
	}
	return defaultValue
}

func (l lookup) int64OrDefault(key string, defaultValue int64) (int64, error) {
	value := strings.TrimSpace(l(key))
	if value == "" {
		return defaultValue, nil
	}
	n, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %s=%q is not an integer", ErrInvalidConfig, key, value)
	}
	return n, nil
}

func (l lookup) durationOrDefault(key string, defaultValue time.Duration) (time.Duration, error) {
	value := strings.TrimSpace(l(key))
	if value == "" {
		return defaultValue, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("%w: %s=%q is not a duration", ErrInvalidConfig, key, value)
	}
	return d, nil
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
