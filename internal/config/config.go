// Package config loads layered configuration for databayes through Viper:
// defaults, then the first config file found (project directory walking up,
// then XDG config dir, then home directory), then environment variables, in
// ascending precedence — the same walk-up-then-fall-back
// pattern and singleton shape the teacher's own config package uses, here
// re-keyed onto databayes's backend/sampling settings instead of beads'
// issue-tracker settings.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/spf13/viper"
)

var v *viper.Viper

// Initialize sets up the Viper singleton. Should be called once at process
// startup, before any Get call.
func Initialize() error {
	v = viper.New()
	v.SetConfigType("yaml")

	// DATABAYES_-prefixed environment variables take precedence over the
	// config file; hyphens and dots both map to underscores so
	// DATABAYES_BACKEND_PATH binds "backend.path".
	v.SetEnvPrefix("DATABAYES")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	v.SetDefault("backend.driver", "sqlite")
	v.SetDefault("backend.path", filepath.Join(".databayes", "databayes.db"))
	v.SetDefault("backend.counter-key", "total_relations")
	v.SetDefault("backend.file-lock", true)
	v.SetDefault("backend.watch", false)

	v.SetDefault("sample.seed", int64(0)) // 0 means "seed from runtime entropy"

	v.SetDefault("json", false)
	v.SetDefault("verbose", false)

	v.SetDefault("log.file", "") // empty means log to stderr, not a rotating file

	switch path, format := locateConfigFile(); format {
	case formatYAML:
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return err
		}
	case formatTOML:
		// Decoded directly through BurntSushi/toml rather than viper's own
		// toml backend, then merged in — config.toml is an alternate format
		// a project may keep instead of config.yaml, not a second source
		// layered on top of it.
		var parsed map[string]interface{}
		if _, err := toml.DecodeFile(path, &parsed); err != nil {
			return fmt.Errorf("config: parsing %s: %w", path, err)
		}
		if err := v.MergeConfigMap(parsed); err != nil {
			return fmt.Errorf("config: merging %s: %w", path, err)
		}
	}
	return nil
}

type configFormat int

const (
	formatNone configFormat = iota
	formatYAML
	formatTOML
)

// locateConfigFile applies the three-tier lookup: a project .databayes
// directory found by walking up from the working directory, then the XDG
// config directory, then the user's home directory. Within each tier,
// config.yaml is preferred over config.toml when both exist. It returns
// ("", formatNone) when no candidate exists anywhere, leaving the caller to
// run on defaults and environment variables alone.
func locateConfigFile() (string, configFormat) {
	dirs := candidateConfigDirs()
	for _, dir := range dirs {
		if path := filepath.Join(dir, "config.yaml"); fileExists(path) {
			return path, formatYAML
		}
		if path := filepath.Join(dir, "config.toml"); fileExists(path) {
			return path, formatTOML
		}
	}
	return "", formatNone
}

func candidateConfigDirs() []string {
	var dirs []string
	if cwd, err := os.Getwd(); err == nil {
		for dir := cwd; dir != filepath.Dir(dir); dir = filepath.Dir(dir) {
			dirs = append(dirs, filepath.Join(dir, ".databayes"))
		}
	}
	if configDir, err := os.UserConfigDir(); err == nil {
		dirs = append(dirs, filepath.Join(configDir, "databayes"))
	}
	if homeDir, err := os.UserHomeDir(); err == nil {
		dirs = append(dirs, filepath.Join(homeDir, ".databayes"))
	}
	return dirs
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// ConfigSource names where an effective value came from.
type ConfigSource string

const (
	SourceDefault    ConfigSource = "default"
	SourceConfigFile ConfigSource = "config_file"
	SourceEnvVar     ConfigSource = "env_var"
)

// GetValueSource reports where key's current value came from. Priority
// (highest to lowest): environment variable > config file > default.
func GetValueSource(key string) ConfigSource {
	if v == nil {
		return SourceDefault
	}
	envKey := "DATABAYES_" + strings.ToUpper(strings.NewReplacer(".", "_", "-", "_").Replace(key))
	if os.Getenv(envKey) != "" {
		return SourceEnvVar
	}
	if v.InConfig(key) {
		return SourceConfigFile
	}
	return SourceDefault
}

// GetString retrieves a string configuration value.
func GetString(key string) string {
	if v == nil {
		return ""
	}
	return v.GetString(key)
}

// GetBool retrieves a boolean configuration value.
func GetBool(key string) bool {
	if v == nil {
		return false
	}
	return v.GetBool(key)
}

// GetInt64 retrieves an integer configuration value.
func GetInt64(key string) int64 {
	if v == nil {
		return 0
	}
	return v.GetInt64(key)
}

// Set overrides a configuration value at runtime, e.g. from a parsed CLI
// flag.
func Set(key string, value interface{}) {
	if v != nil {
		v.Set(key, value)
	}
}

// AllSettings returns every configuration key and its effective value.
func AllSettings() map[string]interface{} {
	if v == nil {
		return map[string]interface{}{}
	}
	return v.AllSettings()
}
