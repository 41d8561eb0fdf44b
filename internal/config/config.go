package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ardanlabs/conf/v3"
	"github.com/joho/godotenv"
)

// Environment name constants used in the ENVIRONMENT config field.
const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
	EnvTesting     = "testing"
)

// ErrHelp is returned by Load when usage output was requested.
var ErrHelp = errors.New("help requested")

// Config holds all configuration for the server.
type Config struct {
	// HTTP
	Addr            string        `conf:"default:0.0.0.0:5000,env:ADDR,flag:addr,short:a"`
	ShutdownTimeout time.Duration `conf:"default:5s,env:SHUTDOWN_TIMEOUT"`
	HandlerTimeout  time.Duration `conf:"default:30s,env:HANDLER_TIMEOUT"`

	// Storage
	DBPath    string `conf:"default:archive.sqlite3,env:DB_PATH,flag:db,short:d"`
	UploadDir string `conf:"default:uploads,env:UPLOAD_DIR,flag:uploads"`

	// Tokens are signed with SecretKey. When empty, a key is generated once
	// and kept in the database.
	SecretKey string `conf:"env:SECRET_KEY,noprint"`

	// Logging
	LogPath  string `conf:"env:LOG_PATH,flag:log,short:l"`
	LogLevel string `conf:"default:info,enum:debug|info|warn|error,env:LOG_LEVEL"`

	Environment string `conf:"default:development,enum:development|testing|production,env:ENVIRONMENT"`

	// CORS: comma-separated list of allowed origins; * allows all (dev only).
	CORSAllowedOrigins string `conf:"default:*,env:CORS_ALLOWED_ORIGINS"`

	// Requests per minute per client IP on signup and login.
	AuthRateLimit int `conf:"default:20,env:AUTH_RATE_LIMIT"`

	// Raw upload size cap in bytes.
	MaxUploadBytes int64 `conf:"default:5242880,env:MAX_UPLOAD_BYTES"`
}

// Load reads configuration from a .env file (if present), the environment
// and the command line. ErrHelp wraps the usage text when --help was given.
func Load() (*Config, error) {
	var cfg Config
	_ = godotenv.Load()

	help, err := conf.Parse("", &cfg)
	if err != nil {
		if errors.Is(err, conf.ErrHelpWanted) {
			return nil, fmt.Errorf("%w\n%s", ErrHelp, help)
		}
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return &cfg, nil
}

// CORSOrigins splits CORSAllowedOrigins into its entries.
func (c *Config) CORSOrigins() []string {
	var origins []string
	for _, o := range strings.Split(c.CORSAllowedOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	return origins
}

// String renders the configuration with secrets masked.
func (c *Config) String() string {
	out, err := conf.String(c)
	if err != nil {
		return fmt.Sprintf("config: %v", err)
	}
	return out
}

// ValidateForProduction enforces security requirements when ENVIRONMENT=production.
// No-ops for non-production environments.
func ValidateForProduction(cfg *Config) error {
	if cfg.Environment != EnvProduction {
		return nil
	}

	var errs []string

	if len(cfg.SecretKey) < 32 {
		errs = append(errs, fmt.Sprintf(
			"SECRET_KEY must be at least 32 bytes (got %d); generate with: openssl rand -base64 32",
			len(cfg.SecretKey),
		))
	}

	if cfg.LogLevel == "debug" {
		errs = append(errs, "LOG_LEVEL must not be 'debug' in production (may leak sensitive data)")
	}

	if cfg.CORSAllowedOrigins == "*" {
		errs = append(errs, "CORS_ALLOWED_ORIGINS must list explicit origins in production")
	}

	if len(errs) == 0 {
		return nil
	}

	return fmt.Errorf("production config validation failed: %s", strings.Join(errs, "; "))
}
