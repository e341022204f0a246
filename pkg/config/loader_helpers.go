package config

import (
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// parseError marks a file that was read but could not be decoded.
type parseError struct {
	err error
}

func (e *parseError) Error() string { return "parsing YAML: " + e.err.Error() }
func (e *parseError) Unwrap() error { return e.err }

// loadAndMerge loads a YAML file and merges the keys it sets into cfg.
func loadAndMerge(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	var override Config
	if err := yaml.Unmarshal(data, &override); err != nil {
		return &parseError{err: err}
	}

	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return &parseError{err: err}
	}

	mergeConfigs(cfg, &override, raw)
	return nil
}

// mergeConfigs copies the fields present in raw from override into base.
// Numbers and booleans are copied only when the key is set so an explicit
// zero or false overrides a default.
func mergeConfigs(base, override *Config, raw map[string]any) {
	if override == nil {
		return
	}

	if fieldSet(raw, "ui", "origin_x") {
		base.UI.OriginX = override.UI.OriginX
	}
	if fieldSet(raw, "ui", "origin_y") {
		base.UI.OriginY = override.UI.OriginY
	}
	if fieldSet(raw, "ui", "message_buffer") {
		base.UI.MessageBuffer = override.UI.MessageBuffer
	}

	if override.Form.Path != "" {
		base.Form.Path = override.Form.Path
	}

	if override.Journal.DBPath != "" {
		base.Journal.DBPath = override.Journal.DBPath
	}
	if override.Journal.MarkdownDir != "" {
		base.Journal.MarkdownDir = override.Journal.MarkdownDir
	}
	if fieldSet(raw, "journal", "write_markdown") {
		base.Journal.WriteMarkdown = override.Journal.WriteMarkdown
	}

	if override.Logging.Dir != "" {
		base.Logging.Dir = override.Logging.Dir
	}
	if override.Logging.Level != "" {
		base.Logging.Level = override.Logging.Level
	}

	if fieldSet(raw, "metrics", "addr") {
		base.Metrics.Addr = override.Metrics.Addr
	}
}

func fieldSet(raw map[string]any, path ...string) bool {
	if raw == nil || len(path) == 0 {
		return false
	}
	current := raw
	for i, key := range path {
		val, ok := current[key]
		if !ok {
			return false
		}
		if i == len(path)-1 {
			return true
		}
		next, ok := val.(map[string]any)
		if !ok {
			return false
		}
		current = next
	}
	return false
}

// loadConfigEnvVars reads ~/.tradelog/config.env. Blank lines, comments and
// an "export " prefix are tolerated; values may be quoted.
func loadConfigEnvVars() map[string]string {
	home := homeDir()
	if home == "" {
		return nil
	}
	data, err := os.ReadFile(filepath.Join(home, DirName, EnvFileName))
	if err != nil {
		return nil
	}
	return parseEnvLines(string(data))
}

func parseEnvLines(data string) map[string]string {
	vars := make(map[string]string)
	for _, line := range strings.Split(data, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		line = strings.TrimSpace(strings.TrimPrefix(line, "export "))
		key, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		key = strings.TrimSpace(key)
		if key == "" {
			continue
		}
		vars[key] = strings.Trim(strings.TrimSpace(value), "\"'")
	}
	return vars
}
