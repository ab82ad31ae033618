package store

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"platedash/internal/remote"

	"github.com/natefinch/atomic"
	"github.com/tailscale/hujson"
)

const (
	envConfigDir = "PLATEDASH_CONFIG_DIR"
	envAPI       = "PLATEDASH_API"
)

// Config is the user's global platedash configuration (config.json, JSONC allowed).
type Config struct {
	// APIURL is the root of the plates REST API (e.g. http://localhost:3333).
	APIURL string `json:"apiUrl,omitempty"`

	// TimeoutSeconds bounds each remote call. Zero means no timeout.
	TimeoutSeconds int `json:"timeoutSeconds,omitempty"`

	// TUI holds optional preferences for the interactive dashboard.
	TUI *TUIConfig `json:"tui,omitempty"`
}

type TUIConfig struct {
	// Glyphs selects the glyph set ("unicode" or "ascii").
	Glyphs string `json:"glyphs,omitempty"`
}

// Timeout returns the configured per-request timeout.
func (c *Config) Timeout() time.Duration {
	if c == nil || c.TimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(c.TimeoutSeconds) * time.Second
}

func ConfigDir() (string, error) {
	// Test/advanced override (keeps unit tests from touching ~/.platedash).
	if v := strings.TrimSpace(os.Getenv(envConfigDir)); v != "" {
		return v, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".platedash"), nil
}

func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// LoadConfig reads config.json. A missing file yields an empty config.
func LoadConfig() (*Config, error) {
	path, err := ConfigPath()
	if err != nil {
		return nil, err
	}
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &Config{}, nil
		}
		return nil, err
	}
	return parseConfig(b)
}

func parseConfig(b []byte) (*Config, error) {
	std, err := hujson.Standardize(b)
	if err != nil {
		return nil, fmt.Errorf("invalid config (JSONC): %w", err)
	}
	var cfg Config
	if err := json.Unmarshal(std, &cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &cfg, nil
}

func SaveConfig(cfg *Config) error {
	if cfg == nil {
		return errors.New("nil config")
	}
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	b, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}
	b = append(b, '\n')
	return atomic.WriteFile(path, bytes.NewReader(b))
}

// ResolveAPIURL picks the API root: explicit flag, then $PLATEDASH_API, then config,
// then the default.
func ResolveAPIURL(flagValue string, cfg *Config) string {
	if v := strings.TrimSpace(flagValue); v != "" {
		return v
	}
	if v := strings.TrimSpace(os.Getenv(envAPI)); v != "" {
		return v
	}
	if cfg != nil {
		if v := strings.TrimSpace(cfg.APIURL); v != "" {
			return v
		}
	}
	return remote.DefaultBaseURL
}
