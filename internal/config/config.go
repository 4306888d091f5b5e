package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"
)

// Config captures everything courier needs at startup.
type Config struct {
	Endpoint   string
	Timeout    time.Duration
	FormatFile string
	ParamsFile string
	LogFile    string
	LogLevel   string
	LogFormat  string
	Watch      bool
}

const (
	defaultConfigPath = "~/.config/courier/config.toml"
	defaultEndpoint   = "http://127.0.0.1:8080/exec"
	defaultTimeout    = 30 * time.Second
	defaultFormatFile = "~/.config/courier/formats.json"
	defaultParamsFile = "~/.config/courier/params.json"
	defaultLogFile    = "~/.local/state/courier/courier.log"
	defaultLogLevel   = "info"
	defaultLogFormat  = "text"
)

// DefaultPath returns the default config file path.
func DefaultPath() string {
	return defaultConfigPath
}

// Defaults returns the configuration used when no file exists.
func Defaults() Config {
	return Config{
		Endpoint:   defaultEndpoint,
		Timeout:    defaultTimeout,
		FormatFile: mustExpand(defaultFormatFile),
		ParamsFile: mustExpand(defaultParamsFile),
		LogFile:    mustExpand(defaultLogFile),
		LogLevel:   defaultLogLevel,
		LogFormat:  defaultLogFormat,
		Watch:      true,
	}
}

// Load locates and parses the courier config, falling back to defaults when missing.
func Load(path string) (Config, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	cfg := Defaults()

	file, err := os.Open(resolved)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	bytes, err := io.ReadAll(file)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	var raw struct {
		Endpoint   string `toml:"endpoint"`
		Timeout    string `toml:"timeout"`
		FormatFile string `toml:"format_file"`
		ParamsFile string `toml:"params_file"`
		LogFile    string `toml:"log_file"`
		LogLevel   string `toml:"log_level"`
		LogFormat  string `toml:"log_format"`
		Watch      *bool  `toml:"watch"`
	}
	if err := toml.Unmarshal(bytes, &raw); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}

	if endpoint := strings.TrimSpace(raw.Endpoint); endpoint != "" {
		cfg.Endpoint = endpoint
	}
	if timeout := strings.TrimSpace(raw.Timeout); timeout != "" {
		d, err := time.ParseDuration(timeout)
		if err != nil {
			return Config{}, fmt.Errorf("parse config: timeout: %w", err)
		}
		if d <= 0 {
			return Config{}, fmt.Errorf("parse config: timeout must be positive, got %s", d)
		}
		cfg.Timeout = d
	}
	cfg.FormatFile = pathOr(raw.FormatFile, cfg.FormatFile)
	cfg.ParamsFile = pathOr(raw.ParamsFile, cfg.ParamsFile)
	cfg.LogFile = pathOr(raw.LogFile, cfg.LogFile)
	if level := strings.TrimSpace(raw.LogLevel); level != "" {
		cfg.LogLevel = strings.ToLower(level)
	}
	if format := strings.TrimSpace(raw.LogFormat); format != "" {
		cfg.LogFormat = strings.ToLower(format)
	}
	if raw.Watch != nil {
		cfg.Watch = *raw.Watch
	}

	return cfg, nil
}

func pathOr(value, fallback string) string {
	if strings.TrimSpace(value) == "" {
		return fallback
	}
	return mustExpand(value)
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultConfigPath)
	}
	return expandPath(path)
}

func mustExpand(path string) string {
	expanded, err := expandPath(path)
	if err != nil {
		return path
	}
	return expanded
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}

// ExpandPath resolves "~" and relative segments the same way config values are.
func ExpandPath(path string) (string, error) {
	return expandPath(path)
}
