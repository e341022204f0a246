// Package config loads tradelog settings from layered YAML files and the
// environment.
package config

import (
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/odvcencio/tradelog/pkg/errors"
	"github.com/odvcencio/tradelog/pkg/logging"
)

const (
	// DirName is the per-user and per-project settings directory.
	DirName = ".tradelog"
	// FileName is the config file inside DirName.
	FileName = "config.yaml"
	// EnvFileName holds KEY=value lines consulted after the process
	// environment.
	EnvFileName = "config.env"
)

// Config is the full application configuration.
type Config struct {
	UI      UIConfig      `yaml:"ui"`
	Form    FormConfig    `yaml:"form"`
	Journal JournalConfig `yaml:"journal"`
	Logging LoggingConfig `yaml:"logging"`
	Metrics MetricsConfig `yaml:"metrics"`
}

// UIConfig controls the terminal surface.
type UIConfig struct {
	// OriginX and OriginY offset the form from the top-left corner.
	OriginX int `yaml:"origin_x"`
	OriginY int `yaml:"origin_y"`
	// MessageBuffer is the event queue length.
	MessageBuffer int `yaml:"message_buffer"`
}

// FormConfig selects the form definition.
type FormConfig struct {
	// Path is a YAML or TOML definition. Empty uses the built-in trade form.
	Path string `yaml:"path"`
}

// JournalConfig controls where submitted entries go.
type JournalConfig struct {
	DBPath        string `yaml:"db_path"`
	MarkdownDir   string `yaml:"markdown_dir"`
	WriteMarkdown bool   `yaml:"write_markdown"`
}

type LoggingConfig struct {
	Dir   string `yaml:"dir"`
	Level string `yaml:"level"`
}

type MetricsConfig struct {
	// Addr is the listen address of the /metrics endpoint. Empty disables it.
	Addr string `yaml:"addr"`
}

// DefaultConfig returns the built-in settings, rooted at ~/.tradelog.
func DefaultConfig() *Config {
	base := filepath.Join(homeDir(), DirName)
	return &Config{
		UI: UIConfig{
			OriginX:       2,
			OriginY:       1,
			MessageBuffer: 128,
		},
		Journal: JournalConfig{
			DBPath:        filepath.Join(base, "journal.db"),
			MarkdownDir:   filepath.Join(base, "journal"),
			WriteMarkdown: true,
		},
		Logging: LoggingConfig{
			Dir:   filepath.Join(base, "logs"),
			Level: string(logging.LevelInfo),
		},
	}
}

// Load loads configuration with precedence defaults < user file < project
// file < environment.
func Load() (*Config, error) {
	cfg := DefaultConfig()
	configEnv := loadConfigEnvVars()

	if home := homeDir(); home != "" {
		userConfigPath := filepath.Join(home, DirName, FileName)
		if err := loadAndMerge(cfg, userConfigPath); err != nil && !os.IsNotExist(err) {
			return nil, wrapLoadError(err, userConfigPath)
		}
	}

	projectConfigPath := filepath.Join(".", DirName, FileName)
	if err := loadAndMerge(cfg, projectConfigPath); err != nil && !os.IsNotExist(err) {
		return nil, wrapLoadError(err, projectConfigPath)
	}

	applyEnvOverrides(cfg, configEnv)
	cfg.expandPaths()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFromPath loads defaults, then path, then the environment.
func LoadFromPath(path string) (*Config, error) {
	cfg := DefaultConfig()
	configEnv := loadConfigEnvVars()

	if err := loadAndMerge(cfg, path); err != nil {
		return nil, wrapLoadError(err, path)
	}

	applyEnvOverrides(cfg, configEnv)
	cfg.expandPaths()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ApplyEnvOverridesForTest exposes env override logic for tests without file I/O.
func ApplyEnvOverridesForTest(cfg *Config) {
	applyEnvOverrides(cfg, nil)
}

func wrapLoadError(err error, path string) error {
	if _, ok := err.(*parseError); ok {
		return errors.Wrap(err, errors.ErrCodeConfigParse, "parse config").
			WithContext("path", path).
			WithUserMessage(fmt.Sprintf("%s is not valid YAML", path))
	}
	return errors.Wrap(err, errors.ErrCodeConfigLoad, "read config").WithContext("path", path)
}

// applyEnvOverrides reads TRADELOG_* variables from the process
// environment, falling back to configEnv.
func applyEnvOverrides(cfg *Config, configEnv map[string]string) {
	get := func(key string) string {
		if v := os.Getenv(key); v != "" {
			return v
		}
		return configEnv[key]
	}

	if v := get("TRADELOG_FORM"); v != "" {
		cfg.Form.Path = v
	}
	if v := get("TRADELOG_DB_PATH"); v != "" {
		cfg.Journal.DBPath = v
	}
	if v := get("TRADELOG_MARKDOWN_DIR"); v != "" {
		cfg.Journal.MarkdownDir = v
	}
	if val, ok := parseBool(get("TRADELOG_WRITE_MARKDOWN")); ok {
		cfg.Journal.WriteMarkdown = val
	}
	if v := get("TRADELOG_LOG_DIR"); v != "" {
		cfg.Logging.Dir = v
	}
	if v := get("TRADELOG_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := get("TRADELOG_METRICS_ADDR"); v != "" {
		cfg.Metrics.Addr = v
	}
	if v := get("TRADELOG_ORIGIN"); v != "" {
		if x, y, ok := parseOrigin(v); ok {
			cfg.UI.OriginX, cfg.UI.OriginY = x, y
		}
	}
}

// parseOrigin reads "x,y".
func parseOrigin(raw string) (int, int, bool) {
	xs, ys, found := strings.Cut(raw, ",")
	if !found {
		return 0, 0, false
	}
	x, errX := strconv.Atoi(strings.TrimSpace(xs))
	y, errY := strconv.Atoi(strings.TrimSpace(ys))
	if errX != nil || errY != nil {
		return 0, 0, false
	}
	return x, y, true
}

func parseBool(val string) (bool, bool) {
	switch strings.ToLower(strings.TrimSpace(val)) {
	case "1", "true", "yes", "on":
		return true, true
	case "0", "false", "no", "off":
		return false, true
	default:
		return false, false
	}
}

func (c *Config) expandPaths() {
	c.Form.Path = expandHomeDir(c.Form.Path)
	c.Journal.DBPath = expandHomeDir(c.Journal.DBPath)
	c.Journal.MarkdownDir = expandHomeDir(c.Journal.MarkdownDir)
	c.Logging.Dir = expandHomeDir(c.Logging.Dir)
}

// Validate checks the configuration and returns the first problem found.
func (c *Config) Validate() error {
	invalid := func(field, format string, args ...any) error {
		return errors.Newf(errors.ErrCodeConfigInvalid, format, args...).WithContext("field", field)
	}

	if c.UI.OriginX < 0 || c.UI.OriginY < 0 {
		return invalid("ui.origin", "origin must not be negative: (%d, %d)", c.UI.OriginX, c.UI.OriginY)
	}
	if c.UI.MessageBuffer <= 0 {
		return invalid("ui.message_buffer", "message buffer must be positive: %d", c.UI.MessageBuffer)
	}
	if strings.TrimSpace(c.Journal.DBPath) == "" {
		return invalid("journal.db_path", "journal database path is required")
	}
	if c.Journal.WriteMarkdown && strings.TrimSpace(c.Journal.MarkdownDir) == "" {
		return invalid("journal.markdown_dir", "markdown directory is required when write_markdown is on")
	}
	if _, ok := logging.ParseLevel(c.Logging.Level); !ok {
		return invalid("logging.level", "invalid log level: %s (valid: debug, info, warn, error)", c.Logging.Level)
	}
	if c.Form.Path != "" {
		switch strings.ToLower(filepath.Ext(c.Form.Path)) {
		case ".yaml", ".yml", ".toml":
		default:
			return invalid("form.path", "form definition must be .yaml, .yml or .toml: %s", c.Form.Path)
		}
	}
	if addr := strings.TrimSpace(c.Metrics.Addr); addr != "" {
		if _, _, err := net.SplitHostPort(addr); err != nil {
			return invalid("metrics.addr", "invalid metrics address %q: %v", addr, err)
		}
	}
	return nil
}

func homeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return os.Getenv("HOME")
	}
	return home
}

func expandHomeDir(path string) string {
	path = strings.TrimSpace(path)
	if path == "" {
		return ""
	}
	home := homeDir()
	if home == "" {
		return path
	}
	if path == "~" {
		return home
	}
	if rest, ok := strings.CutPrefix(path, "~/"); ok {
		return filepath.Join(home, rest)
	}
	return path
}
