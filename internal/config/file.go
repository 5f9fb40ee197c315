package config

import (
	"bytes"

	"gopkg.in/yaml.v3"
)

// FileConfig is the on-disk YAML shape.
type FileConfig struct {
	Patterns      []string `yaml:"patterns"`
	SuggestRemote string   `yaml:"suggest_remote,omitempty"`
	Disabled      bool     `yaml:"disabled,omitempty"`
	LogLevel      string   `yaml:"log_level,omitempty"`
	AuditLog      string   `yaml:"audit_log,omitempty"`
}

const fileHeader = `# remote-guard configuration.
#
# patterns: remote locations pushes are refused to. Each entry is a
# "host/path" fragment or a shell glob matched anywhere in the remote URL;
# https://, ssh:// and git@host: spellings are equivalent.
`

// DefaultFile returns the config written by "remote-guard config init".
func DefaultFile() FileConfig {
	return FileConfig{
		Patterns:      DefaultPatterns(),
		SuggestRemote: DefaultSuggestRemote,
	}
}

// FileConfig returns the effective configuration in its on-disk shape.
func (c *Config) FileConfig() FileConfig {
	patterns := c.Patterns
	if patterns == nil {
		patterns = []string{}
	}
	return FileConfig{
		Patterns:      patterns,
		SuggestRemote: c.SuggestRemote,
		Disabled:      c.Disabled,
		LogLevel:      c.LogLevel,
		AuditLog:      c.AuditLog,
	}
}

// MarshalYAML renders fc with a short explanatory header.
func MarshalYAML(fc FileConfig) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(fileHeader)

	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(fc); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
