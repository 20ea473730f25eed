// Package config loads musicbridge settings from YAML.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	projectConfigName = "musicbridge.yaml"
	homeConfigDir     = ".musicbridge"
	homeConfigName    = "config.yaml"
	journalFileName   = "journal.db"

	// EnvConfigPath names an explicit config file when no --config flag is set.
	EnvConfigPath = "MUSICBRIDGE_CONFIG"
)

// ErrNotFound is returned when an explicitly named config file is missing.
var ErrNotFound = errors.New("config file not found")

// Config is the top-level config file shape.
type Config struct {
	Osascript OsascriptConfig `yaml:"osascript"`
	Search    SearchConfig    `yaml:"search"`
	Logging   LoggingConfig   `yaml:"logging"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
	Journal   JournalConfig   `yaml:"journal"`

	// Path is the file the config was read from, empty for defaults.
	Path string `yaml:"-"`
}

// OsascriptConfig controls how automation scripts are spawned.
type OsascriptConfig struct {
	Command string            `yaml:"command,omitempty"`
	Args    []string          `yaml:"args,omitempty"`
	Env     map[string]string `yaml:"env,omitempty"`
}

// SearchConfig tunes search_songs.
type SearchConfig struct {
	DefaultLimit int `yaml:"default_limit,omitempty"`
}

// LoggingConfig selects the slog handler.
type LoggingConfig struct {
	Level  string `yaml:"level,omitempty"`
	Format string `yaml:"format,omitempty"`
}

// TelemetryConfig enables OpenTelemetry export of invocation spans.
type TelemetryConfig struct {
	Enabled      bool   `yaml:"enabled"`
	OTLPEndpoint string `yaml:"otlp_endpoint,omitempty"`
	Insecure     bool   `yaml:"insecure"`
	ServiceName  string `yaml:"service_name,omitempty"`
}

// JournalConfig enables the SQLite invocation journal.
type JournalConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path,omitempty"`
	// Retention keeps at most this many entries; 0 keeps everything.
	Retention int `yaml:"retention,omitempty"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Osascript: OsascriptConfig{Command: "/usr/bin/osascript"},
		Search:    SearchConfig{DefaultLimit: 10},
		Logging:   LoggingConfig{Level: "info", Format: "text"},
		Telemetry: TelemetryConfig{ServiceName: "musicbridge"},
	}
}

// DiscoverPath resolves the config location with first-match semantics:
// explicit path, $MUSICBRIDGE_CONFIG, ./musicbridge.yaml, then
// ~/.musicbridge/config.yaml.
func DiscoverPath(explicitPath string) (string, bool, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return "", false, fmt.Errorf("resolve working directory: %w", err)
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", false, fmt.Errorf("resolve user home: %w", err)
	}
	if strings.TrimSpace(explicitPath) == "" {
		explicitPath = os.Getenv(EnvConfigPath)
	}
	return DiscoverPathFrom(explicitPath, cwd, homeDir)
}

// DiscoverPathFrom is a testable variant of DiscoverPath.
func DiscoverPathFrom(explicitPath, cwd, homeDir string) (string, bool, error) {
	candidates := make([]string, 0, 2)
	explicit := strings.TrimSpace(explicitPath) != ""
	if explicit {
		candidates = append(candidates, filepath.Clean(strings.TrimSpace(explicitPath)))
	} else {
		candidates = append(candidates, filepath.Join(cwd, projectConfigName))
		if homeDir != "" {
			candidates = append(candidates, filepath.Join(homeDir, homeConfigDir, homeConfigName))
		}
	}

	for _, candidate := range candidates {
		info, err := os.Stat(candidate)
		if err == nil && !info.IsDir() {
			return candidate, true, nil
		}
		if errors.Is(err, os.ErrNotExist) || err == nil {
			if explicit {
				return "", false, fmt.Errorf("%w: %s", ErrNotFound, candidate)
			}
			continue
		}
		return "", false, fmt.Errorf("checking config path %q: %w", candidate, err)
	}
	return "", false, nil
}

// Load reads path over the defaults. An empty path returns the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	clean := strings.TrimSpace(path)
	if clean == "" {
		return cfg, nil
	}

	// #nosec G304 -- path resolved from explicit local config discovery.
	data, err := os.ReadFile(clean)
	if err != nil {
		return Config{}, fmt.Errorf("reading config %q: %w", clean, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parsing config %q: %w", clean, err)
	}
	cfg.Path = clean
	cfg.expand(filepath.Dir(clean))
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("config %q: %w", clean, err)
	}
	return cfg, nil
}

// Resolve discovers and loads the config in one step.
func Resolve(explicitPath string) (Config, error) {
	path, found, err := DiscoverPath(explicitPath)
	if err != nil {
		return Config{}, err
	}
	if !found {
		return Default(), nil
	}
	return Load(path)
}

// Validate reports the first invalid setting.
func (c Config) Validate() error {
	if strings.TrimSpace(c.Osascript.Command) == "" {
		return errors.New("osascript.command must not be empty")
	}
	if c.Search.DefaultLimit < 0 {
		return fmt.Errorf("search.default_limit must not be negative, got %d", c.Search.DefaultLimit)
	}
	if _, err := ParseLevel(c.Logging.Level); err != nil {
		return err
	}
	switch strings.ToLower(c.Logging.Format) {
	case "", "text", "json":
	default:
		return fmt.Errorf("logging.format must be text or json, got %q", c.Logging.Format)
	}
	if c.Journal.Retention < 0 {
		return fmt.Errorf("journal.retention must not be negative, got %d", c.Journal.Retention)
	}
	if c.Telemetry.Enabled && strings.TrimSpace(c.Telemetry.OTLPEndpoint) == "" {
		return errors.New("telemetry.otlp_endpoint is required when telemetry is enabled")
	}
	return nil
}

// JournalPath returns the journal file, defaulting to
// ~/.musicbridge/journal.db.
func (c Config) JournalPath() (string, error) {
	if p := strings.TrimSpace(c.Journal.Path); p != "" {
		return p, nil
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve user home: %w", err)
	}
	return filepath.Join(homeDir, homeConfigDir, journalFileName), nil
}

// ParseLevel maps a config level name to a slog level. Empty means info.
func ParseLevel(name string) (slog.Level, error) {
	var level slog.Level
	if strings.TrimSpace(name) == "" {
		return slog.LevelInfo, nil
	}
	if err := level.UnmarshalText([]byte(strings.TrimSpace(name))); err != nil {
		return slog.LevelInfo, fmt.Errorf("logging.level: %w", err)
	}
	return level, nil
}

func (c *Config) expand(baseDir string) {
	c.Osascript.Command = os.ExpandEnv(strings.TrimSpace(c.Osascript.Command))
	for i, arg := range c.Osascript.Args {
		c.Osascript.Args[i] = os.ExpandEnv(arg)
	}
	for key, value := range c.Osascript.Env {
		c.Osascript.Env[key] = os.ExpandEnv(value)
	}
	c.Telemetry.OTLPEndpoint = os.ExpandEnv(strings.TrimSpace(c.Telemetry.OTLPEndpoint))
	if p := os.ExpandEnv(strings.TrimSpace(c.Journal.Path)); p != "" {
		c.Journal.Path = resolveConfigRelative(baseDir, p)
	}
}

func resolveConfigRelative(baseDir, p string) string {
	clean := filepath.Clean(p)
	if filepath.IsAbs(clean) {
		return clean
	}
	return filepath.Join(baseDir, clean)
}
