package config

import (
	"errors"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is the default profile file name.
const DefaultConfigFile = ".megacrawl"

// ErrConfigNotFound is returned when the profile file does not exist.
var ErrConfigNotFound = errors.New("configuration file not found")

// Profile holds per-source settings loaded from the YAML profile file.
// Flag values take precedence; the profile fills what flags left unset.
type Profile struct {
	// Cookie is the cookie set sent with requests to this source.
	Cookies map[string]string `yaml:"cookies,omitempty"`

	// Headers are extra HTTP headers merged over the defaults.
	Headers map[string]string `yaml:"headers,omitempty"`

	// Delay overrides the inter-request delay (e.g. "400ms").
	Delay string `yaml:"delay,omitempty"`
}

// File represents the structure of the .megacrawl profile file.
type File struct {
	// Sources maps source names (Korean name or alias) to their
	// profiles.
	Sources map[string]Profile `yaml:"sources,omitempty"`

	// Defaults applies to every source unless overridden.
	Defaults Profile `yaml:"defaults,omitempty"`
}

// LoadConfigFile loads source profiles from a YAML file.
// If the file does not exist, it returns ErrConfigNotFound; callers
// decide whether that matters based on whether the path was explicit.
func LoadConfigFile(path string) (*File, error) {
	data, err := os.ReadFile(path) //nolint:gosec // User-provided config path is intentional
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrConfigNotFound
		}
		return nil, err
	}

	var cf File
	if err := yaml.Unmarshal(data, &cf); err != nil {
		return nil, err
	}

	if cf.Sources == nil {
		cf.Sources = make(map[string]Profile)
	}
	return &cf, nil
}

// FindConfigFile searches for the profile file in the following order:
//  1. If configPath is specified, use it directly
//  2. Look for .megacrawl in the current directory
//  3. Look for .megacrawl in the user's home directory
//
// Returns the path if found, or an empty string.
func FindConfigFile(configPath string) string {
	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}
		return ""
	}

	cwd, err := os.Getwd()
	if err == nil {
		cwdConfig := filepath.Join(cwd, DefaultConfigFile)
		if _, err := os.Stat(cwdConfig); err == nil {
			return cwdConfig
		}
	}

	home, err := os.UserHomeDir()
	if err == nil {
		homeConfig := filepath.Join(home, DefaultConfigFile)
		if _, err := os.Stat(homeConfig); err == nil {
			return homeConfig
		}
	}

	return ""
}

// ProfileFor returns the merged profile for a source name, defaults
// first, then the source-specific entry (matched by either the Korean
// display name or the alias).
func (cf *File) ProfileFor(sourceName string) Profile {
	result := cf.Defaults

	p, ok := cf.Sources[sourceName]
	if !ok {
		return result
	}

	if len(p.Cookies) > 0 {
		if result.Cookies == nil {
			result.Cookies = make(map[string]string)
		}
		for k, v := range p.Cookies {
			result.Cookies[k] = v
		}
	}
	if len(p.Headers) > 0 {
		if result.Headers == nil {
			result.Headers = make(map[string]string)
		}
		for k, v := range p.Headers {
			result.Headers[k] = v
		}
	}
	if p.Delay != "" {
		result.Delay = p.Delay
	}
	return result
}

// Apply merges a profile into the config: cookies and headers merge
// key-by-key under the caller's flag-supplied values, the delay applies
// only when parseable.
func (c *Config) Apply(p Profile) {
	for k, v := range p.Cookies {
		if _, exists := c.Cookies[k]; !exists {
			c.Cookies[k] = v
		}
	}
	for k, v := range p.Headers {
		if _, exists := c.Headers[k]; !exists {
			c.Headers[k] = v
		}
	}
	if p.Delay != "" {
		if d, err := time.ParseDuration(p.Delay); err == nil {
			c.Delay = d
		}
	}
}
