package cmd

import (
	"fmt"

	"github.com/ziadkadry99/progvibe/internal/augment"
	"github.com/ziadkadry99/progvibe/internal/config"
	"github.com/ziadkadry99/progvibe/internal/content"
	"github.com/ziadkadry99/progvibe/internal/db"
	"github.com/ziadkadry99/progvibe/internal/logging"
	"github.com/ziadkadry99/progvibe/internal/render"
	"github.com/ziadkadry99/progvibe/internal/site"
	"github.com/ziadkadry99/progvibe/internal/theme"
)

// loadConfig loads and validates the config, providing a user-friendly error.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w\nRun `progvibe init` to create a config file", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", cfgFile, err)
	}
	return cfg, nil
}

// newLogger builds the logger for cfg and the --verbose flag.
func newLogger(cfg *config.Config) (*logging.Logger, error) {
	log, err := logging.New(cfg.LogMode, verbose)
	if err != nil {
		return nil, fmt.Errorf("creating logger: %w", err)
	}
	return log, nil
}

// newSource picks the content source. content_url wins over content_dir.
func newSource(cfg *config.Config) content.Source {
	if cfg.UsesRemoteContent() {
		return content.NewHTTPSource(cfg.ContentURL, cfg.FetchTimeout)
	}
	return content.NewDirSource(cfg.ContentDir)
}

func newLoader(cfg *config.Config, log *logging.Logger) *content.Loader {
	return content.NewLoader(newSource(cfg), log.With("component", "loader"))
}

func newAugmenter(cfg *config.Config) *augment.Augmenter {
	return augment.New(map[theme.Theme]string{
		theme.Dark:  cfg.Styles.Dark,
		theme.Light: cfg.Styles.Light,
	})
}

// openPreferences opens the preference database when the theme is stored
// server-side. It returns nil for the cookie store.
func openPreferences(cfg *config.Config) (*db.DB, error) {
	if cfg.ThemeStore != config.ThemeStoreSQLite {
		return nil, nil
	}
	d, err := db.OpenDir(cfg.DataDir)
	if err != nil {
		return nil, fmt.Errorf("opening preference database: %w", err)
	}
	return d, nil
}

// newSite wires the content pipeline into a site.
func newSite(cfg *config.Config, log *logging.Logger, prefs *db.DB) (*site.Site, error) {
	return site.New(site.Options{
		Title:       cfg.SiteTitle,
		Loader:      newLoader(cfg, log),
		Renderer:    render.New(),
		Augmenter:   newAugmenter(cfg),
		Preferences: prefs,
		Log:         log,
	})
}
