package app

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/five82/courier/internal/jsonstore"
)

type testPaths struct {
	config string
	format string
	params string
	log    string
}

func writeConfig(t *testing.T, extra string) testPaths {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	dir := t.TempDir()
	p := testPaths{
		config: filepath.Join(dir, "config.toml"),
		format: filepath.Join(dir, "catalog", "formats.json"),
		params: filepath.Join(dir, "catalog", "params.json"),
		log:    filepath.Join(dir, "logs", "courier.log"),
	}
	content := "endpoint = \"http://127.0.0.1:9/exec\"\n" +
		"format_file = \"" + p.format + "\"\n" +
		"params_file = \"" + p.params + "\"\n" +
		"log_file = \"" + p.log + "\"\n" +
		"log_level = \"debug\"\n" + extra
	if err := os.WriteFile(p.config, []byte(content), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return p
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("MkdirAll: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
}

func TestBootstrap_RemakesMissingFormatFile(t *testing.T) {
	p := writeConfig(t, "")
	writeFile(t, p.params, `{"planning": {"q": "x"}}`)

	env, err := Bootstrap(Options{ConfigPath: p.config})
	if err != nil {
		t.Fatalf("Bootstrap returned error: %v", err)
	}
	defer env.Close()

	data, err := os.ReadFile(p.format)
	if err != nil {
		t.Fatalf("format file not recreated: %v", err)
	}
	if !strings.Contains(string(data), `"format": []`) {
		t.Fatalf("format file = %s, want empty format list", data)
	}
	if !env.Catalog.Loaded() {
		t.Fatalf("catalog should load after the format file is recreated")
	}
	if got := env.Catalog.Patterns(); len(got) != 1 || got[0] != "planning" {
		t.Fatalf("Patterns = %v, want [planning]", got)
	}
	if len(env.Catalog.Formats()) != 0 {
		t.Fatalf("Formats = %v, want none", env.Catalog.Formats())
	}

	logData, err := os.ReadFile(p.log)
	if err != nil {
		t.Fatalf("log file not written: %v", err)
	}
	if !strings.Contains(string(logData), "format file missing or blank") {
		t.Fatalf("log = %s, want remake message", logData)
	}
}

func TestBootstrap_MissingParamsLeavesCatalogUnloaded(t *testing.T) {
	p := writeConfig(t, "")
	writeFile(t, p.format, `{"format": ["get"]}`)

	env, err := Bootstrap(Options{ConfigPath: p.config})
	if err != nil {
		t.Fatalf("Bootstrap returned error: %v", err)
	}
	defer env.Close()

	if env.Catalog.Loaded() {
		t.Fatalf("catalog loaded without a params file")
	}
	if env.Dispatcher == nil {
		t.Fatalf("dispatcher should exist even when the catalog is unloaded")
	}
}

func TestBootstrap_LogToStderr(t *testing.T) {
	p := writeConfig(t, "")
	var stderr bytes.Buffer

	env, err := Bootstrap(Options{ConfigPath: p.config, LogToStderr: true, Stderr: &stderr})
	if err != nil {
		t.Fatalf("Bootstrap returned error: %v", err)
	}
	defer env.Close()

	if _, err := os.Stat(p.log); !os.IsNotExist(err) {
		t.Fatalf("log file should not be created, stat err = %v", err)
	}
	if !strings.Contains(stderr.String(), "catalog") {
		t.Fatalf("stderr = %q, want catalog log lines", stderr.String())
	}
}

func TestBootstrap_InvalidConfig(t *testing.T) {
	p := writeConfig(t, "timeout = \"never\"\n")
	if _, err := Bootstrap(Options{ConfigPath: p.config}); err == nil || !strings.Contains(err.Error(), "load config") {
		t.Fatalf("Bootstrap error = %v, want load config error", err)
	}
}

func TestBootstrap_InvalidEndpoint(t *testing.T) {
	p := writeConfig(t, "")
	content, _ := os.ReadFile(p.config)
	replaced := strings.Replace(string(content), "http://127.0.0.1:9/exec", "http://", 1)
	writeFile(t, p.config, replaced)

	if _, err := Bootstrap(Options{ConfigPath: p.config}); err == nil || !strings.Contains(err.Error(), "init dispatcher") {
		t.Fatalf("Bootstrap error = %v, want init dispatcher error", err)
	}
}

func TestEnvLoad_PicksUpChanges(t *testing.T) {
	p := writeConfig(t, "")
	writeFile(t, p.format, `{"format": ["get"]}`)
	writeFile(t, p.params, `{"a": {}}`)

	env, err := Bootstrap(Options{ConfigPath: p.config})
	if err != nil {
		t.Fatalf("Bootstrap returned error: %v", err)
	}
	defer env.Close()

	writeFile(t, p.format, `{"format": ["get", "post_json"]}`)
	writeFile(t, p.params, `{"a": {}, "b": {"n": 1}}`)

	c, d, err := env.reloadForUI()
	if err != nil {
		t.Fatalf("reload returned error: %v", err)
	}
	if got := c.Formats(); len(got) != 2 {
		t.Fatalf("Formats = %v, want 2", got)
	}
	if got := c.Patterns(); len(got) != 2 || got[1] != "b" {
		t.Fatalf("Patterns = %v, want [a b]", got)
	}
	if d == nil {
		t.Fatalf("reload returned nil dispatcher")
	}
	// The catalog from Bootstrap is a snapshot and does not change.
	if got := env.Catalog.Patterns(); len(got) != 1 {
		t.Fatalf("original catalog Patterns = %v, want [a]", got)
	}
}

func TestStartPoller_SignalsOnChange(t *testing.T) {
	path := filepath.Join(t.TempDir(), "params.json")
	writeFile(t, path, `{}`)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	out := make(chan struct{}, 1)
	StartPoller(ctx, []*jsonstore.File{jsonstore.New(path, nil)}, 20*time.Millisecond, out)

	select {
	case <-out:
		t.Fatal("signal without a change")
	case <-time.After(80 * time.Millisecond):
	}

	writeFile(t, path, `{"planning": {}}`)
	select {
	case <-out:
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for change signal")
	}

	if err := os.Remove(path); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	select {
	case <-out:
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for removal signal")
	}
}

func TestStartPoller_StopsOnCancel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "formats.json")
	ctx, cancel := context.WithCancel(context.Background())
	out := make(chan struct{}, 1)
	StartPoller(ctx, []*jsonstore.File{jsonstore.New(path, nil)}, 10*time.Millisecond, out)
	cancel()

	time.Sleep(30 * time.Millisecond)
	writeFile(t, path, `{}`)
	select {
	case <-out:
		t.Fatal("poller signalled after cancel")
	case <-time.After(100 * time.Millisecond):
	}
}
