package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/pflag"
)

type testRequest struct {
	Method string        `mapstructure:"method"`
	URL    string        `mapstructure:"url"`
	Wait   time.Duration `mapstructure:"wait"`
}

type testConfig struct {
	ServiceConfig `yaml:",inline" mapstructure:",squash"`
	Request       testRequest `mapstructure:"request"`
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write %s: %v", name, err)
	}
	return path
}

func TestServiceConfigApplyDefaults(t *testing.T) {
	t.Run("empty environment defaults to development", func(t *testing.T) {
		cfg := ServiceConfig{Name: "svc"}
		cfg.ApplyDefaults()
		if cfg.Environment != "development" {
			t.Errorf("expected 'development', got %q", cfg.Environment)
		}
		if !cfg.Debug {
			t.Error("expected debug=true for development")
		}
		if cfg.Logging.Level != "debug" {
			t.Errorf("expected debug log level, got %q", cfg.Logging.Level)
		}
	})

	t.Run("production keeps debug false", func(t *testing.T) {
		cfg := ServiceConfig{Name: "svc", Environment: "production"}
		cfg.ApplyDefaults()
		if cfg.Debug {
			t.Error("expected debug=false for production")
		}
		if cfg.Logging.Level != "info" {
			t.Errorf("expected info log level, got %q", cfg.Logging.Level)
		}
	})
}

func TestServiceConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     ServiceConfig
		wantErr bool
	}{
		{"valid development", ServiceConfig{Name: "svc", Environment: "development"}, false},
		{"valid production", ServiceConfig{Name: "svc", Environment: "production"}, false},
		{"missing name", ServiceConfig{Environment: "production"}, true},
		{"invalid environment", ServiceConfig{Name: "svc", Environment: "invalid"}, true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			tc.cfg.ApplyDefaults()
			err := tc.cfg.Validate()
			if tc.wantErr && err == nil {
				t.Fatal("expected error")
			}
			if !tc.wantErr && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestLoadConfigWithYAML(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "config.yml", `
name: xhrget
environment: staging
request:
  method: POST
  url: https://example.test/submit
  wait: 3s
`)

	var cfg testConfig
	if err := LoadConfig("xhrget", &cfg, WithConfigFile(path), WithEnvPrefix("XHRKIT_TEST_NONE")); err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if cfg.Name != "xhrget" || cfg.Environment != "staging" {
		t.Errorf("unexpected service config %+v", cfg.ServiceConfig)
	}
	if cfg.Request.Method != "POST" {
		t.Errorf("expected POST, got %q", cfg.Request.Method)
	}
	if cfg.Request.Wait != 3*time.Second {
		t.Errorf("expected 3s, got %v", cfg.Request.Wait)
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	var cfg testConfig
	err := LoadConfig("nonexistent", &cfg, WithConfigFile("/nonexistent/path.yml"), WithEnvPrefix("XHRKIT_TEST_NONE"))
	if err != nil {
		t.Fatalf("expected LoadConfig to succeed with missing file, got %v", err)
	}
}

func TestLoadConfigEnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "config.yml", "request:\n  method: GET\n")
	t.Setenv("XHRKIT_TEST_REQUEST_METHOD", "PUT")

	var cfg testConfig
	if err := LoadConfig("xhrget", &cfg, WithConfigFile(path), WithEnvPrefix("XHRKIT_TEST")); err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.Request.Method != "PUT" {
		t.Errorf("expected env override PUT, got %q", cfg.Request.Method)
	}
}

func TestLoadConfigEnvFile(t *testing.T) {
	dir := t.TempDir()
	envPath := writeFile(t, dir, ".env", "XHRKIT_DOTENV_REQUEST_URL=https://dotenv.test/\n")
	t.Cleanup(func() { os.Unsetenv("XHRKIT_DOTENV_REQUEST_URL") })

	var cfg testConfig
	if err := LoadConfig("xhrget", &cfg, WithEnvFile(envPath), WithEnvPrefix("XHRKIT_DOTENV")); err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.Request.URL != "https://dotenv.test/" {
		t.Errorf("expected url from .env, got %q", cfg.Request.URL)
	}
}

func TestLoadConfigFlagsOverrideEnv(t *testing.T) {
	t.Setenv("XHRKIT_FLAGS_REQUEST_METHOD", "PUT")
	t.Setenv("XHRKIT_FLAGS_REQUEST_URL", "https://env.test/")

	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.String("method", "GET", "")
	fs.String("url", "", "")
	if err := fs.Parse([]string{"--method", "DELETE"}); err != nil {
		t.Fatalf("parse failed: %v", err)
	}

	var cfg testConfig
	err := LoadConfig("xhrget", &cfg,
		WithFileSystem(&mockFS{}),
		WithEnvPrefix("XHRKIT_FLAGS"),
		WithFlags(fs, map[string]string{"method": "request.method", "url": "request.url"}),
	)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.Request.Method != "DELETE" {
		t.Errorf("expected flag override DELETE, got %q", cfg.Request.Method)
	}
	if cfg.Request.URL != "https://env.test/" {
		t.Errorf("unset flag must not override env, got %q", cfg.Request.URL)
	}
}

func TestResolverWithMockFS(t *testing.T) {
	fs := &mockFS{files: map[string]bool{
		"./cmd/xhrget/config.yml": true,
		"./.env":                  true,
	}}
	resolver := &Resolver{FileSystem: fs}
	files := resolver.ResolveFiles("xhrget", LoaderConfig{})
	if files.ConfigFile != "./cmd/xhrget/config.yml" {
		t.Errorf("expected ./cmd/xhrget/config.yml, got %q", files.ConfigFile)
	}
	if files.EnvFile != "./.env" {
		t.Errorf("expected ./.env, got %q", files.EnvFile)
	}
}

func TestResolverExplicitPathsWin(t *testing.T) {
	fs := &mockFS{files: map[string]bool{"./config.yml": true}}
	resolver := &Resolver{FileSystem: fs}
	files := resolver.ResolveFiles("xhrget", LoaderConfig{ConfigFile: "custom.yml"})
	if files.ConfigFile != "custom.yml" {
		t.Errorf("expected explicit path, got %q", files.ConfigFile)
	}
}

type mockFS struct {
	files map[string]bool
}

func (m *mockFS) Exists(path string) bool  { return m.files[path] }
func (m *mockFS) LoadEnv(path string) error { return nil }

func TestGenerateEnvKeyVariants(t *testing.T) {
	variants := generateEnvKeyVariants("HTTP_BASE_URL")
	joined := strings.Join(variants, ",")
	for _, want := range []string{"http_base_url", "http.base.url", "http.base_url"} {
		if !strings.Contains(joined, want) {
			t.Errorf("expected variant %q in %v", want, variants)
		}
	}
	if got := generateEnvKeyVariants("DEBUG"); len(got) != 1 || got[0] != "debug" {
		t.Errorf("expected single variant, got %v", got)
	}
}

func TestLoaderOptions(t *testing.T) {
	var lc LoaderConfig
	WithConfigFile("/path/to/config.yml")(&lc)
	WithEnvFile("/path/to/.env")(&lc)
	WithEnvPrefix("xhrget_")(&lc)
	if lc.ConfigFile != "/path/to/config.yml" || lc.EnvFile != "/path/to/.env" {
		t.Errorf("unexpected file options %+v", lc)
	}
	if lc.EnvPrefix != "XHRGET" {
		t.Errorf("expected normalized prefix, got %q", lc.EnvPrefix)
	}
}
