package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cast"
)

const (
	DefaultAPIURL         = "http://localhost:8000/api"
	DefaultRequestTimeout = 30 * time.Second
	DefaultMaxImageBytes  = 5 * 1024 * 1024
	DefaultDashboardAddr  = ":8080"
)

// AppConfig is the seller client configuration, read from the environment
// (optionally seeded from a .env file).
type AppConfig struct {
	API       APIConfig
	Token     TokenConfig
	Upload    UploadConfig
	Dashboard DashboardConfig
	Logger    LoggerConfig
}

type APIConfig struct {
	BaseURL        string
	RequestTimeout time.Duration
}

// TokenConfig selects the durable credential slot backend.
// Type is one of memory | bolt | postgres | mysql.
type TokenConfig struct {
	Type string
	Path string
	DSN  string
}

type UploadConfig struct {
	MaxImageBytes int64
}

type DashboardConfig struct {
	Addr string
}

type LoggerConfig struct {
	Mode     string // development | production
	Filename string
}

// Load reads the given .env files (missing files are ignored) and builds
// the configuration from the process environment.
func Load(envFiles ...string) (*AppConfig, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("load %s: %w", f, err)
		}
	}
	return FromEnv(os.Getenv)
}

// FromEnv builds the configuration from a lookup function.
func FromEnv(getenv func(string) string) (*AppConfig, error) {
	cfg := &AppConfig{
		API: APIConfig{
			BaseURL:        strings.TrimRight(valueOr(getenv("API_URL"), DefaultAPIURL), "/"),
			RequestTimeout: DefaultRequestTimeout,
		},
		Token: TokenConfig{
			Type: strings.ToLower(valueOr(getenv("TOKEN_STORE"), "bolt")),
			Path: getenv("TOKEN_PATH"),
			DSN:  getenv("TOKEN_DSN"),
		},
		Upload:    UploadConfig{MaxImageBytes: DefaultMaxImageBytes},
		Dashboard: DashboardConfig{Addr: valueOr(getenv("DASHBOARD_ADDR"), DefaultDashboardAddr)},
		Logger: LoggerConfig{
			Mode:     valueOr(getenv("LOG_MODE"), "development"),
			Filename: getenv("LOG_FILE"),
		},
	}

	if v := getenv("REQUEST_TIMEOUT"); v != "" {
		d, err := cast.ToDurationE(v)
		if err != nil {
			return nil, fmt.Errorf("invalid REQUEST_TIMEOUT %q: %w", v, err)
		}
		cfg.API.RequestTimeout = d
	}
	if v := getenv("MAX_IMAGE_BYTES"); v != "" {
		n, err := cast.ToInt64E(v)
		if err != nil || n <= 0 {
			return nil, fmt.Errorf("invalid MAX_IMAGE_BYTES %q", v)
		}
		cfg.Upload.MaxImageBytes = n
	}

	switch cfg.Token.Type {
	case "memory":
	case "bolt":
		if cfg.Token.Path == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				return nil, fmt.Errorf("resolve home dir for token store: %w", err)
			}
			cfg.Token.Path = filepath.Join(home, ".printa", "seller.db")
		}
	case "postgres", "mysql":
		if cfg.Token.DSN == "" {
			return nil, fmt.Errorf("TOKEN_DSN is required for token store %q", cfg.Token.Type)
		}
	default:
		return nil, fmt.Errorf("unknown TOKEN_STORE %q", cfg.Token.Type)
	}

	return cfg, nil
}

func valueOr(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
