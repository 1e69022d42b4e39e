package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func envMap(m map[string]string) func(string) string {
	return func(k string) string { return m[k] }
}

func TestFromEnvDefaults(t *testing.T) {
	cfg, err := FromEnv(envMap(map[string]string{"TOKEN_STORE": "memory"}))
	if err != nil {
		t.Fatalf("FromEnv: %v", err)
	}
	if cfg.API.BaseURL != DefaultAPIURL {
		t.Errorf("BaseURL = %q, want %q", cfg.API.BaseURL, DefaultAPIURL)
	}
	if cfg.API.RequestTimeout != DefaultRequestTimeout {
		t.Errorf("RequestTimeout = %v", cfg.API.RequestTimeout)
	}
	if cfg.Upload.MaxImageBytes != DefaultMaxImageBytes {
		t.Errorf("MaxImageBytes = %d", cfg.Upload.MaxImageBytes)
	}
	if cfg.Dashboard.Addr != DefaultDashboardAddr {
		t.Errorf("Addr = %q", cfg.Dashboard.Addr)
	}
	if cfg.Logger.Mode != "development" {
		t.Errorf("Logger.Mode = %q", cfg.Logger.Mode)
	}
}

func TestFromEnvOverrides(t *testing.T) {
	cfg, err := FromEnv(envMap(map[string]string{
		"API_URL":         "https://market.example/api/",
		"REQUEST_TIMEOUT": "5s",
		"MAX_IMAGE_BYTES": "1024",
		"TOKEN_STORE":     "BOLT",
		"TOKEN_PATH":      "/tmp/seller.db",
		"LOG_MODE":        "production",
	}))
	if err != nil {
		t.Fatalf("FromEnv: %v", err)
	}
	if cfg.API.BaseURL != "https://market.example/api" {
		t.Errorf("BaseURL = %q, trailing slash not trimmed", cfg.API.BaseURL)
	}
	if cfg.API.RequestTimeout != 5*time.Second {
		t.Errorf("RequestTimeout = %v", cfg.API.RequestTimeout)
	}
	if cfg.Upload.MaxImageBytes != 1024 {
		t.Errorf("MaxImageBytes = %d", cfg.Upload.MaxImageBytes)
	}
	if cfg.Token.Type != "bolt" || cfg.Token.Path != "/tmp/seller.db" {
		t.Errorf("Token = %+v", cfg.Token)
	}
}

func TestFromEnvRejectsBadValues(t *testing.T) {
	cases := map[string]map[string]string{
		"timeout":   {"TOKEN_STORE": "memory", "REQUEST_TIMEOUT": "soon"},
		"max bytes": {"TOKEN_STORE": "memory", "MAX_IMAGE_BYTES": "-3"},
		"store":     {"TOKEN_STORE": "redis"},
		"dsn":       {"TOKEN_STORE": "postgres"},
	}
	for name, env := range cases {
		if _, err := FromEnv(envMap(env)); err == nil {
			t.Errorf("%s: expected error", name)
		}
	}
}

func TestLoadIgnoresMissingEnvFile(t *testing.T) {
	t.Setenv("TOKEN_STORE", "memory")
	if _, err := Load(filepath.Join(t.TempDir(), "missing.env")); err != nil {
		t.Fatalf("Load: %v", err)
	}
}

func TestLoadReadsEnvFile(t *testing.T) {
	t.Setenv("TOKEN_STORE", "memory")
	t.Setenv("API_URL", "")
	os.Unsetenv("API_URL")

	path := filepath.Join(t.TempDir(), "seller.env")
	if err := os.WriteFile(path, []byte("API_URL=http://shop.test/api\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { os.Unsetenv("API_URL") })

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.API.BaseURL != "http://shop.test/api" {
		t.Errorf("BaseURL = %q", cfg.API.BaseURL)
	}
}
