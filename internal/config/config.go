// Package config loads remote-guard settings from flags, environment, an
// optional dotenv file, a YAML config file and compiled-in defaults.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/krmcbride/remote-guard/pkg/utils"
)

const (
	// EnvPrefix prefixes every environment variable, e.g. REMOTE_GUARD_PATTERNS.
	EnvPrefix = "REMOTE_GUARD"

	// LocalFile is looked up in the working directory. git runs hooks from
	// the root of the work tree, so this is the per-repository config.
	LocalFile = ".remote-guard.yaml"

	// DotenvFile is an optional KEY=value file in the working directory.
	DotenvFile = ".remote-guard.env"

	DefaultSuggestRemote = "origin"
	DefaultLogLevel      = "warn"
)

// Config keys.
const (
	KeyPatterns      = "patterns"
	KeySuggestRemote = "suggest_remote"
	KeyDisabled      = "disabled"
	KeyLogLevel      = "log_level"
	KeyAuditLog      = "audit_log"
)

// DefaultPatterns returns the upstream locations blocked when nothing else is
// configured.
func DefaultPatterns() []string {
	return []string{"github.com/google-deepmind/mujoco"}
}

// Config is the effective configuration.
type Config struct {
	Patterns      []string
	SuggestRemote string
	Disabled      bool
	LogLevel      string
	AuditLog      string

	// File is the config file that was read, empty when none was found.
	File string
}

// Options controls where Load looks for a config file.
type Options struct {
	// ConfigFile is an explicit path; it must exist.
	ConfigFile string
	// SearchPaths are tried in order when ConfigFile is empty. Nil means
	// DefaultSearchPaths.
	SearchPaths []string
}

// DefaultSearchPaths returns the per-repository file followed by the
// per-user file.
func DefaultSearchPaths() []string {
	paths := []string{LocalFile}
	if dir, err := os.UserConfigDir(); err == nil && dir != "" {
		paths = append(paths, filepath.Join(dir, "remote-guard", "config.yaml"))
	}
	return paths
}

// SetDefaults registers compiled-in defaults on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault(KeyPatterns, DefaultPatterns())
	v.SetDefault(KeySuggestRemote, DefaultSuggestRemote)
	v.SetDefault(KeyDisabled, false)
	v.SetDefault(KeyLogLevel, DefaultLogLevel)
	v.SetDefault(KeyAuditLog, "")
}

// Load resolves the effective configuration into a Config. Values already
// set on v (for example bound flags) take precedence over everything else.
func Load(v *viper.Viper, opts Options) (*Config, error) {
	if v == nil {
		v = viper.New()
	}
	SetDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	path, err := resolveFile(opts)
	if err != nil {
		return nil, err
	}
	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config %s: %w", path, err)
		}
	}

	return &Config{
		Patterns:      patternsFrom(v),
		SuggestRemote: strings.TrimSpace(v.GetString(KeySuggestRemote)),
		Disabled:      v.GetBool(KeyDisabled),
		LogLevel:      strings.TrimSpace(v.GetString(KeyLogLevel)),
		AuditLog:      utils.ExpandHomePath(v.GetString(KeyAuditLog)),
		File:          path,
	}, nil
}

// patternsFrom accepts both a YAML list and a comma-separated string, which
// is how the environment variable spells it.
func patternsFrom(v *viper.Viper) []string {
	switch raw := v.Get(KeyPatterns).(type) {
	case nil:
		return nil
	case string:
		return utils.ParseCommaSeparated(raw)
	default:
		var patterns []string
		for _, p := range v.GetStringSlice(KeyPatterns) {
			if p = strings.TrimSpace(p); p != "" {
				patterns = append(patterns, p)
			}
		}
		return patterns
	}
}

func resolveFile(opts Options) (string, error) {
	if opts.ConfigFile != "" {
		path := utils.ExpandHomePath(opts.ConfigFile)
		if _, err := os.Stat(path); err != nil {
			return "", fmt.Errorf("config file: %w", err)
		}
		return path, nil
	}

	search := opts.SearchPaths
	if search == nil {
		search = DefaultSearchPaths()
	}
	for _, candidate := range search {
		path := utils.ExpandHomePath(candidate)
		info, err := os.Stat(path)
		switch {
		case err == nil && !info.IsDir():
			return path, nil
		case err != nil && !errors.Is(err, os.ErrNotExist):
			return "", fmt.Errorf("config file: %w", err)
		}
	}
	return "", nil
}

// LoadDotenv loads DotenvFile from dir into the process environment without
// overriding variables that are already set. A missing file is not an error.
func LoadDotenv(dir string) error {
	path := filepath.Join(dir, DotenvFile)
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	return nil
}
