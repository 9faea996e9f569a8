package config

import (
	"fmt"
	"net/url"
	"os"
	"strings"

	"github.com/alecthomas/chroma/v2/styles"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	yamlv3 "gopkg.in/yaml.v3"
)

// DefaultPath is the config file looked up when --config is not given.
const DefaultPath = ".progvibe.yml"

// Load reads configuration from the given YAML file, then overlays
// environment variable overrides (PROGVIBE_*).
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	// Start from defaults.
	cfg := DefaultConfig()

	// Load YAML file if it exists.
	if _, err := os.Stat(path); err == nil {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("accessing config %s: %w", path, err)
	}

	// PROGVIBE_CONTENT_URL -> content_url, PROGVIBE_STYLES__DARK -> styles.dark.
	if err := k.Load(env.Provider("PROGVIBE_", ".", func(s string) string {
		s = strings.ToLower(strings.TrimPrefix(s, "PROGVIBE_"))
		return strings.ReplaceAll(s, "__", ".")
	}), nil); err != nil {
		return nil, fmt.Errorf("loading env overrides: %w", err)
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}

	return cfg, nil
}

// Save writes the configuration to the given YAML file path.
func (c *Config) Save(path string) error {
	data, err := yamlv3.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshalling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}
	return nil
}

var validThemeStores = map[ThemeStoreType]bool{
	ThemeStoreCookie: true,
	ThemeStoreSQLite: true,
}

// Validate checks that the configuration contains valid values.
func (c *Config) Validate() error {
	if c.ContentDir == "" && c.ContentURL == "" {
		return fmt.Errorf("one of content_dir or content_url is required")
	}

	if c.ContentURL != "" {
		u, err := url.Parse(c.ContentURL)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return fmt.Errorf("invalid content_url %q: must be an http(s) URL", c.ContentURL)
		}
	}

	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("invalid port %d", c.Port)
	}

	if c.FetchTimeout < 0 {
		return fmt.Errorf("fetch_timeout must be non-negative")
	}

	if !validThemeStores[c.ThemeStore] {
		return fmt.Errorf("invalid theme_store %q: must be cookie or sqlite", c.ThemeStore)
	}

	if c.ThemeStore == ThemeStoreSQLite && c.DataDir == "" {
		return fmt.Errorf("data_dir is required when theme_store is sqlite")
	}

	for name, style := range map[string]string{"styles.dark": c.Styles.Dark, "styles.light": c.Styles.Light} {
		if style != "" && styles.Registry[style] == nil {
			return fmt.Errorf("unknown %s style %q", name, style)
		}
	}

	return nil
}

// UsesRemoteContent reports whether content is fetched over HTTP. A
// content_url takes precedence over content_dir.
func (c *Config) UsesRemoteContent() bool {
	return c.ContentURL != ""
}
