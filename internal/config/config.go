package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	toml "github.com/pelletier/go-toml/v2"
)

// Config holds the resolved client settings.
type Config struct {
	APIURL          string        `env:"SNOOZE_API_URL"`
	CredentialsPath string        `env:"SNOOZE_CREDENTIALS_PATH"`
	LogPath         string        `env:"SNOOZE_LOG_PATH"`
	LogLevel        string        `env:"SNOOZE_LOG_LEVEL"`
	Theme           string        `env:"SNOOZE_THEME"`
	RequestTimeout  time.Duration `env:"SNOOZE_REQUEST_TIMEOUT"`
}

const (
	defaultConfigPath      = "~/.config/snooze/config.toml"
	defaultAPIURL          = "https://hack-or-snooze-v3.herokuapp.com"
	defaultCredentialsPath = "~/.config/snooze/credentials.toml"
	defaultLogPath         = "~/.local/state/snooze/snooze.log"
	defaultLogLevel        = "info"
	defaultTheme           = "Nightfox"
	defaultRequestTimeout  = 10 * time.Second
)

// Load reads the config file, applies SNOOZE_* environment overrides and
// fills defaults. A missing file is not an error.
func Load(path string) (Config, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	cfg, err := readFile(resolved)
	if err != nil {
		return Config{}, err
	}
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse environment: %w", err)
	}

	cfg.APIURL = orDefault(cfg.APIURL, defaultAPIURL)
	cfg.LogLevel = strings.ToLower(orDefault(cfg.LogLevel, defaultLogLevel))
	cfg.Theme = orDefault(cfg.Theme, defaultTheme)
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = defaultRequestTimeout
	}
	if cfg.CredentialsPath, err = expandPath(orDefault(cfg.CredentialsPath, defaultCredentialsPath)); err != nil {
		return Config{}, fmt.Errorf("credentials_path: %w", err)
	}
	if cfg.LogPath, err = expandPath(orDefault(cfg.LogPath, defaultLogPath)); err != nil {
		return Config{}, fmt.Errorf("log_path: %w", err)
	}
	if _, err := cfg.Level(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func readFile(path string) (Config, error) {
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Config{}, nil
		}
		return Config{}, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	bytes, err := io.ReadAll(file)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	var raw struct {
		APIURL          string `toml:"api_url"`
		CredentialsPath string `toml:"credentials_path"`
		LogPath         string `toml:"log_path"`
		LogLevel        string `toml:"log_level"`
		Theme           string `toml:"theme"`
		RequestTimeout  string `toml:"request_timeout"`
	}
	if err := toml.Unmarshal(bytes, &raw); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}

	cfg := Config{
		APIURL:          strings.TrimSpace(raw.APIURL),
		CredentialsPath: strings.TrimSpace(raw.CredentialsPath),
		LogPath:         strings.TrimSpace(raw.LogPath),
		LogLevel:        strings.TrimSpace(raw.LogLevel),
		Theme:           strings.TrimSpace(raw.Theme),
	}
	if timeout := strings.TrimSpace(raw.RequestTimeout); timeout != "" {
		d, err := time.ParseDuration(timeout)
		if err != nil {
			return Config{}, fmt.Errorf("parse config: request_timeout: %w", err)
		}
		cfg.RequestTimeout = d
	}
	return cfg, nil
}

// Level returns the slog level named by LogLevel.
func (c Config) Level() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(orDefault(c.LogLevel, defaultLogLevel))); err != nil {
		return slog.LevelInfo, fmt.Errorf("log_level %q: %w", c.LogLevel, err)
	}
	return level, nil
}

// DefaultPath returns the default config file location.
func DefaultPath() string {
	return defaultConfigPath
}

func orDefault(value, fallback string) string {
	if v := strings.TrimSpace(value); v != "" {
		return v
	}
	return fallback
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultConfigPath)
	}
	return expandPath(path)
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
