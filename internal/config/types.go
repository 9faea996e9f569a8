package config

import "time"

// ThemeStoreType selects where the theme preference is persisted.
type ThemeStoreType string

const (
	// ThemeStoreCookie keeps the preference in the visitor's browser.
	ThemeStoreCookie ThemeStoreType = "cookie"
	// ThemeStoreSQLite keeps it server-side, keyed by a visitor id cookie.
	ThemeStoreSQLite ThemeStoreType = "sqlite"
)

// Config is the top-level progvibe configuration, corresponding to .progvibe.yml.
type Config struct {
	SiteTitle       string         `yaml:"site_title" koanf:"site_title"`
	ContentDir      string         `yaml:"content_dir" koanf:"content_dir"`
	ContentURL      string         `yaml:"content_url" koanf:"content_url"`
	FetchTimeout    time.Duration  `yaml:"fetch_timeout" koanf:"fetch_timeout"`
	Port            int            `yaml:"port" koanf:"port"`
	AllowAllOrigins bool           `yaml:"allow_all_origins" koanf:"allow_all_origins"`
	ThemeStore      ThemeStoreType `yaml:"theme_store" koanf:"theme_store"`
	DataDir         string         `yaml:"data_dir" koanf:"data_dir"`
	Styles          StylesConfig   `yaml:"styles" koanf:"styles"`
	Watch           bool           `yaml:"watch" koanf:"watch"`
	LogMode         string         `yaml:"log_mode" koanf:"log_mode"`
}

// StylesConfig names the chroma style used for code in each theme.
type StylesConfig struct {
	Dark  string `yaml:"dark" koanf:"dark"`
	Light string `yaml:"light" koanf:"light"`
}
