package config

import "time"

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		SiteTitle:    "PROGVIBE",
		ContentDir:   "content",
		FetchTimeout: 10 * time.Second,
		Port:         8080,
		ThemeStore:   ThemeStoreCookie,
		DataDir:      ".progvibe",
		Styles: StylesConfig{
			Dark:  "monokai",
			Light: "github",
		},
		LogMode: "dev",
	}
}
