package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
)

// Config is shared by copylistd and the copylist client.
type Config struct {
	APIBind   string
	LogDir    string
	LogLevel  string
	LogFormat string
	Metrics   bool
}

const (
	defaultConfigPath = "~/.config/copylist/config.toml"
	defaultLogDir     = "~/.local/share/copylist/logs"
	defaultAPIBind    = "127.0.0.1:7488"
	defaultLogLevel   = "info"
	defaultLogFormat  = "json"
)

// Load locates and parses the config, falling back to defaults when missing.
func Load(path string) (Config, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	cfg := defaults()

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
		APIBind   string `toml:"api_bind"`
		LogDir    string `toml:"log_dir"`
		LogLevel  string `toml:"log_level"`
		LogFormat string `toml:"log_format"`
		Metrics   *bool  `toml:"metrics"`
	}
	if err := toml.Unmarshal(bytes, &raw); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}

	if v := strings.TrimSpace(raw.APIBind); v != "" {
		cfg.APIBind = v
	}
	if v := strings.TrimSpace(raw.LogDir); v != "" {
		cfg.LogDir = mustExpand(v)
	}
	if v := strings.ToLower(strings.TrimSpace(raw.LogLevel)); v != "" {
		cfg.LogLevel = v
	}
	switch v := strings.ToLower(strings.TrimSpace(raw.LogFormat)); v {
	case "":
	case "json", "console":
		cfg.LogFormat = v
	default:
		return Config{}, fmt.Errorf("parse config: unknown log_format %q", raw.LogFormat)
	}
	if raw.Metrics != nil {
		cfg.Metrics = *raw.Metrics
	}

	return cfg, nil
}

func defaults() Config {
	return Config{
		APIBind:   defaultAPIBind,
		LogDir:    mustExpand(defaultLogDir),
		LogLevel:  defaultLogLevel,
		LogFormat: defaultLogFormat,
		Metrics:   true,
	}
}

// ClientLogPath is where the TUI writes its diagnostics.
func (c Config) ClientLogPath() string {
	return filepath.Join(c.logDir(), "copylist.log")
}

// DaemonLogPath is where copylistd writes its log when not logging to stderr.
func (c Config) DaemonLogPath() string {
	return filepath.Join(c.logDir(), "copylistd.log")
}

func (c Config) logDir() string {
	if strings.TrimSpace(c.LogDir) == "" {
		return mustExpand(defaultLogDir)
	}
	return c.LogDir
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
