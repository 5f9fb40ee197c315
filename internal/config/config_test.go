package config

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// clearEnv unsets every REMOTE_GUARD_* variable for the duration of the test.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{"PATTERNS", "SUGGEST_REMOTE", "DISABLED", "LOG_LEVEL", "AUDIT_LOG"} {
		name := EnvPrefix + "_" + key
		t.Setenv(name, "")
		if err := os.Unsetenv(name); err != nil {
			t.Fatal(err)
		}
	}
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load(viper.New(), Options{SearchPaths: []string{}})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	want := &Config{
		Patterns:      DefaultPatterns(),
		SuggestRemote: DefaultSuggestRemote,
		LogLevel:      DefaultLogLevel,
	}
	if !reflect.DeepEqual(cfg, want) {
		t.Errorf("Load() = %+v, want %+v", cfg, want)
	}
}

func TestLoadPrecedence(t *testing.T) {
	dir := t.TempDir()
	file := writeFile(t, dir, "config.yaml", `
patterns:
  - github.com/acme/upstream
  - "  "
  - git@gitlab.com:acme/other
suggest_remote: fork
audit_log: /tmp/guard.jsonl
`)

	tests := []struct {
		name    string
		env     map[string]string
		flagSet func(v *viper.Viper)
		want    Config
	}{
		{
			name: "File overrides defaults",
			want: Config{
				Patterns:      []string{"github.com/acme/upstream", "git@gitlab.com:acme/other"},
				SuggestRemote: "fork",
				LogLevel:      DefaultLogLevel,
				AuditLog:      "/tmp/guard.jsonl",
				File:          file,
			},
		},
		{
			name: "Environment overrides file",
			env: map[string]string{
				"REMOTE_GUARD_PATTERNS":       "github.com/a/b, github.com/c/d",
				"REMOTE_GUARD_DISABLED":       "true",
				"REMOTE_GUARD_SUGGEST_REMOTE": "mine",
			},
			want: Config{
				Patterns:      []string{"github.com/a/b", "github.com/c/d"},
				SuggestRemote: "mine",
				Disabled:      true,
				LogLevel:      DefaultLogLevel,
				AuditLog:      "/tmp/guard.jsonl",
				File:          file,
			},
		},
		{
			name: "Explicit value overrides environment",
			env:  map[string]string{"REMOTE_GUARD_LOG_LEVEL": "info"},
			flagSet: func(v *viper.Viper) {
				v.Set(KeyLogLevel, "debug")
			},
			want: Config{
				Patterns:      []string{"github.com/acme/upstream", "git@gitlab.com:acme/other"},
				SuggestRemote: "fork",
				LogLevel:      "debug",
				AuditLog:      "/tmp/guard.jsonl",
				File:          file,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			v := viper.New()
			if tt.flagSet != nil {
				tt.flagSet(v)
			}

			cfg, err := Load(v, Options{ConfigFile: file})
			if err != nil {
				t.Fatalf("Load: %v", err)
			}
			if !reflect.DeepEqual(*cfg, tt.want) {
				t.Errorf("Load() = %+v, want %+v", *cfg, tt.want)
			}
		})
	}
}

func TestLoadEmptyPatternList(t *testing.T) {
	clearEnv(t)
	file := writeFile(t, t.TempDir(), "config.yaml", "patterns: []\n")

	cfg, err := Load(viper.New(), Options{ConfigFile: file})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(cfg.Patterns) != 0 {
		t.Errorf("Patterns = %v, want none", cfg.Patterns)
	}
}

func TestLoadSearchPaths(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	second := writeFile(t, dir, "second.yaml", "suggest_remote: second\n")
	third := writeFile(t, dir, "third.yaml", "suggest_remote: third\n")

	cfg, err := Load(viper.New(), Options{SearchPaths: []string{
		filepath.Join(dir, "missing.yaml"),
		dir, // directories are skipped
		second,
		third,
	}})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.File != second || cfg.SuggestRemote != "second" {
		t.Errorf("Load picked %q (%q), want first existing file %q", cfg.File, cfg.SuggestRemote, second)
	}
}

func TestLoadErrors(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	invalid := writeFile(t, dir, "invalid.yaml", "patterns: [unterminated\n")

	tests := []struct {
		name string
		opts Options
		want string
	}{
		{"Explicit file missing", Options{ConfigFile: filepath.Join(dir, "nope.yaml")}, "config file"},
		{"Invalid YAML", Options{ConfigFile: invalid}, "failed to read config"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(viper.New(), tt.opts)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("err = %v, want error containing %q", err, tt.want)
			}
		})
	}
}

func TestLoadDotenv(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()

	if err := LoadDotenv(dir); err != nil {
		t.Fatalf("LoadDotenv without file: %v", err)
	}

	writeFile(t, dir, DotenvFile, "REMOTE_GUARD_SUGGEST_REMOTE=fork\nREMOTE_GUARD_LOG_LEVEL=debug\n")
	t.Setenv("REMOTE_GUARD_LOG_LEVEL", "error")

	if err := LoadDotenv(dir); err != nil {
		t.Fatalf("LoadDotenv: %v", err)
	}
	if got := os.Getenv("REMOTE_GUARD_SUGGEST_REMOTE"); got != "fork" {
		t.Errorf("REMOTE_GUARD_SUGGEST_REMOTE = %q, want value from dotenv", got)
	}
	if got := os.Getenv("REMOTE_GUARD_LOG_LEVEL"); got != "error" {
		t.Errorf("REMOTE_GUARD_LOG_LEVEL = %q, dotenv must not override the environment", got)
	}
}

func TestMarshalYAML(t *testing.T) {
	out, err := MarshalYAML(DefaultFile())
	if err != nil {
		t.Fatalf("MarshalYAML: %v", err)
	}
	if !strings.HasPrefix(string(out), "# remote-guard configuration.") {
		t.Errorf("missing header:\n%s", out)
	}

	var decoded FileConfig
	if err := yaml.Unmarshal(out, &decoded); err != nil {
		t.Fatalf("output is not YAML: %v", err)
	}
	if !reflect.DeepEqual(decoded, DefaultFile()) {
		t.Errorf("decoded %+v, want %+v", decoded, DefaultFile())
	}

	// The written file must load back into the same effective config.
	clearEnv(t)
	path := writeFile(t, t.TempDir(), LocalFile, string(out))
	cfg, err := Load(viper.New(), Options{ConfigFile: path})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !reflect.DeepEqual(cfg.Patterns, DefaultPatterns()) || cfg.SuggestRemote != DefaultSuggestRemote {
		t.Errorf("reloaded %+v", cfg)
	}
}

func TestConfigFileConfig(t *testing.T) {
	cfg := &Config{LogLevel: "warn"}
	fc := cfg.FileConfig()
	if fc.Patterns == nil || len(fc.Patterns) != 0 {
		t.Errorf("Patterns = %#v, want empty non-nil slice so YAML shows []", fc.Patterns)
	}
}
