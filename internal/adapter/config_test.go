package adapter

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadConfigMissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Remote.Mode != RemoteLocal {
		t.Errorf("mode = %q, want local", cfg.Remote.Mode)
	}
	if cfg.Library.PageSize != 12 {
		t.Errorf("page size = %d, want 12", cfg.Library.PageSize)
	}
}

func TestLoadConfigFromFile(t *testing.T) {
	path := writeConfig(t, `
remote:
  mode: http
  url: http://example.test:8420
  timeout: 5s
library:
  page_size: 20
`)
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Remote.Mode != RemoteHTTP || cfg.Remote.URL != "http://example.test:8420" {
		t.Errorf("remote = %+v", cfg.Remote)
	}
	if cfg.Remote.Timeout != 5*time.Second {
		t.Errorf("timeout = %v, want 5s", cfg.Remote.Timeout)
	}
	if cfg.Library.PageSize != 20 {
		t.Errorf("page size = %d, want 20", cfg.Library.PageSize)
	}
	// Unset keys keep their defaults.
	if cfg.Server.Addr != "127.0.0.1:8420" {
		t.Errorf("server addr = %q", cfg.Server.Addr)
	}
}

func TestLoadConfigEnvOverride(t *testing.T) {
	t.Setenv("DRIVE_LIBRARY_PAGE_SIZE", "7")
	t.Setenv("DRIVE_SERVER_TOKEN", "s3cret")

	cfg, err := LoadConfig(writeConfig(t, "library:\n  page_size: 20\n"))
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Library.PageSize != 7 {
		t.Errorf("page size = %d, want env value 7", cfg.Library.PageSize)
	}
	if cfg.Server.Token != "s3cret" {
		t.Errorf("server token = %q", cfg.Server.Token)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"defaults", func(*Config) {}, ""},
		{"unknown mode", func(c *Config) { c.Remote.Mode = "ftp" }, "remote"},
		{"http without url", func(c *Config) { c.Remote.Mode = RemoteHTTP }, "url"},
		{"local without data dir", func(c *Config) { c.Remote.DataDir = "" }, "datadir"},
		{"zero page size", func(c *Config) { c.Library.PageSize = 0 }, "library"},
		{"huge page size", func(c *Config) { c.Library.PageSize = 501 }, "library"},
		{"no server addr", func(c *Config) { c.Server.Addr = "" }, "server"},
		{"unknown log level", func(c *Config) { c.Logging.Level = "loud" }, "logging"},
		{"unknown log format", func(c *Config) { c.Logging.Format = "xml" }, "logging"},
		{"lowercase log level", func(c *Config) { c.Logging.Level = "warning" }, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(strings.ToLower(err.Error()), tt.wantErr) {
				t.Errorf("error = %v, want mention of %q", err, tt.wantErr)
			}
		})
	}
}

func TestSaveConfigRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	cfg := DefaultConfig()
	cfg.Library.PageSize = 33
	cfg.UI.OpenCommand = "less"

	if err := SaveConfig(cfg, path); err != nil {
		t.Fatalf("SaveConfig: %v", err)
	}
	loaded, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if loaded.Library.PageSize != 33 || loaded.UI.OpenCommand != "less" {
		t.Errorf("loaded = %+v", loaded)
	}
}

func TestSetupLoggerWritesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "drive.log")
	logger, err := SetupLogger(&LoggingConfig{File: path, Level: "debug"})
	if err != nil {
		t.Fatalf("SetupLogger: %v", err)
	}
	logger.Debug("hello", "k", "v")

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	if !strings.Contains(string(data), `"msg":"hello"`) {
		t.Errorf("log = %s", data)
	}
}

func TestSetupLoggerTextFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "drive.log")
	logger, err := SetupLogger(&LoggingConfig{File: path, Level: "warn", Format: "text"})
	if err != nil {
		t.Fatalf("SetupLogger: %v", err)
	}
	logger.Info("quiet")
	logger.Warn("loud")

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	out := string(data)
	if strings.Contains(out, "quiet") {
		t.Errorf("info line written below warn level: %s", out)
	}
	if !strings.Contains(out, "msg=loud") {
		t.Errorf("log = %s, want text format", out)
	}
}

func TestSetupLoggerStderrAndDisabled(t *testing.T) {
	if _, err := SetupLogger(&LoggingConfig{File: StderrLogFile}); err != nil {
		t.Errorf("stderr logger: %v", err)
	}
	logger, err := SetupLogger(&LoggingConfig{})
	if err != nil {
		t.Fatalf("disabled logger: %v", err)
	}
	if logger.Enabled(context.Background(), slog.LevelError) {
		t.Error("disabled logger still enabled")
	}
}
