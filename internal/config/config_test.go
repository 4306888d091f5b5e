package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLoad_MissingConfigFallsBackToDefaults(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	cfg, err := Load(filepath.Join(home, "does-not-exist.toml"))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Endpoint != defaultEndpoint {
		t.Fatalf("Endpoint = %q, want %q", cfg.Endpoint, defaultEndpoint)
	}
	if cfg.Timeout != 30*time.Second {
		t.Fatalf("Timeout = %v, want 30s", cfg.Timeout)
	}
	if !cfg.Watch {
		t.Fatalf("Watch = false, want true by default")
	}

	wantFormat, err := expandPath(defaultFormatFile)
	if err != nil {
		t.Fatalf("expandPath(defaultFormatFile) returned error: %v", err)
	}
	if cfg.FormatFile != wantFormat {
		t.Fatalf("FormatFile = %q, want %q", cfg.FormatFile, wantFormat)
	}
	if !strings.HasPrefix(cfg.ParamsFile, home) || !strings.HasPrefix(cfg.LogFile, home) {
		t.Fatalf("ParamsFile/LogFile = %q/%q, want them under HOME %q", cfg.ParamsFile, cfg.LogFile, home)
	}
}

func TestLoad_DefaultPathUsesHome(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	dir := filepath.Join(home, ".config", "courier")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("MkdirAll: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "config.toml"), []byte(`endpoint = "https://example.com/exec"`), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Endpoint != "https://example.com/exec" {
		t.Fatalf("Endpoint = %q, want https://example.com/exec", cfg.Endpoint)
	}
}

func TestLoad_ParsesAndTrimsConfig(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(`
endpoint = "  https://script.example.com/macros/s/abc/exec  "
timeout = " 5s "
format_file = "  ~/courier/info.json  "
params_file = "/etc/courier/params.json"
log_file = "~/logs/courier.log"
log_level = " DEBUG "
log_format = "JSON"
watch = false
`), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Endpoint != "https://script.example.com/macros/s/abc/exec" {
		t.Fatalf("Endpoint = %q", cfg.Endpoint)
	}
	if cfg.Timeout != 5*time.Second {
		t.Fatalf("Timeout = %v, want 5s", cfg.Timeout)
	}
	if cfg.FormatFile != filepath.Join(home, "courier", "info.json") {
		t.Fatalf("FormatFile = %q, want it under HOME", cfg.FormatFile)
	}
	if cfg.ParamsFile != "/etc/courier/params.json" {
		t.Fatalf("ParamsFile = %q", cfg.ParamsFile)
	}
	if cfg.LogFile != filepath.Join(home, "logs", "courier.log") {
		t.Fatalf("LogFile = %q", cfg.LogFile)
	}
	if cfg.LogLevel != "debug" || cfg.LogFormat != "json" {
		t.Fatalf("LogLevel/LogFormat = %q/%q, want debug/json", cfg.LogLevel, cfg.LogFormat)
	}
	if cfg.Watch {
		t.Fatalf("Watch = true, want false")
	}
}

func TestLoad_EmptyValuesUseDefaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(`
endpoint = "   "
timeout = ""
format_file = ""
`), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	want := Defaults()
	if cfg != want {
		t.Fatalf("Load = %#v, want defaults %#v", cfg, want)
	}
}

func TestLoad_InvalidTOMLFails(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(`endpoint = [`), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	_, err := Load(path)
	if err == nil {
		t.Fatalf("Load returned nil error, want parse error")
	}
	if !strings.Contains(err.Error(), "parse config") {
		t.Fatalf("Load error = %q, want it to mention parse config", err.Error())
	}
}

func TestLoad_InvalidTimeoutFails(t *testing.T) {
	for _, value := range []string{"soon", "-1s", "0s"} {
		path := filepath.Join(t.TempDir(), "config.toml")
		if err := os.WriteFile(path, []byte(`timeout = "`+value+`"`), 0o600); err != nil {
			t.Fatalf("WriteFile: %v", err)
		}
		if _, err := Load(path); err == nil || !strings.Contains(err.Error(), "timeout") {
			t.Fatalf("Load(timeout=%q) error = %v, want timeout error", value, err)
		}
	}
}

func TestExpandPath_ExpandsTildeAndReturnsAbs(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	got, err := expandPath("~/a/b")
	if err != nil {
		t.Fatalf("expandPath returned error: %v", err)
	}
	want := filepath.Join(home, "a/b")
	if got != want {
		t.Fatalf("expandPath = %q, want %q", got, want)
	}
}

func TestExpandPath_EmptyErrors(t *testing.T) {
	if _, err := expandPath("   "); err == nil {
		t.Fatalf("expandPath returned nil error, want error")
	}
}
