// Package config loads and saves the ehour configuration file.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// DefaultBaseURL is the eHour cloud API endpoint used when no override is
// configured.
const DefaultBaseURL = "https://ehourapp.com/api/v1/"

// Config holds all ehour configuration.
type Config struct {
	API     APIConfig     `toml:"api"`
	General GeneralConfig `toml:"general"`
	// CustomFields maps entity name -> raw server field name -> display
	// name, e.g. custom_fields.client.customField1 = "PO Number".
	CustomFields map[string]map[string]string `toml:"custom_fields,omitempty"`
}

// APIConfig holds eHour API connection settings.
type APIConfig struct {
	Key     string `toml:"key,omitempty"`
	BaseURL string `toml:"base_url,omitempty"`
}

// GeneralConfig holds general preferences.
type GeneralConfig struct {
	// EagerFill makes list commands fetch the full detail record for
	// every returned entity. One extra request per entity, so off by
	// default.
	EagerFill bool `toml:"eager_fill"`
	// OnlyActive restricts list commands to active entities.
	OnlyActive bool `toml:"only_active"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		API: APIConfig{
			BaseURL: DefaultBaseURL,
		},
		General: GeneralConfig{
			OnlyActive: true,
		},
	}
}

// Dir returns the XDG-compliant config directory.
func Dir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "ehour")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "ehour")
}

// Path returns the config file path: the EHOUR_CONFIG_FILE environment
// variable if set, otherwise the default location under Dir().
func Path() string {
	if p := os.Getenv("EHOUR_CONFIG_FILE"); p != "" {
		return p
	}
	return filepath.Join(Dir(), "config.toml")
}

// Load reads the config file at path, returning defaults if it doesn't
// exist. An empty path means Path().
func Load(path string) (Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		path = Path()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config: %w", err)
	}

	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config: %w", err)
	}

	return cfg, nil
}

// Save writes the config to path. An empty path means Path().
func Save(cfg Config, path string) error {
	if path == "" {
		path = Path()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("creating config file: %w", err)
	}
	defer f.Close()

	enc := toml.NewEncoder(f)
	return enc.Encode(cfg)
}

// Exists returns true if a config file exists at the effective path.
func Exists() bool {
	_, err := os.Stat(Path())
	return err == nil
}

// APIKey returns the API key from the EHOUR_API_KEY environment variable
// or the config file, in that order.
func (c Config) APIKey() string {
	if key := os.Getenv("EHOUR_API_KEY"); key != "" {
		return key
	}
	return c.API.Key
}

// BaseURL returns the configured API endpoint, falling back to the eHour
// cloud default.
func (c Config) BaseURL() string {
	if c.API.BaseURL != "" {
		return c.API.BaseURL
	}
	return DefaultBaseURL
}

// CustomFieldName resolves the display name for a server custom field,
// e.g. ("client", "customField1"). A missing entity section or field
// entry is not an error: the raw name is returned unchanged.
func (c Config) CustomFieldName(entity, raw string) string {
	fields, ok := c.CustomFields[entity]
	if !ok {
		return raw
	}
	name, ok := fields[raw]
	if !ok {
		return raw
	}
	return name
}
