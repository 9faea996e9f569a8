package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/manifoldco/promptui"
)

// detectContentDir looks for a content tree in the usual places.
func detectContentDir() string {
	for _, dir := range []string{"content", "public/content", "static/content"} {
		if _, err := os.Stat(filepath.Join(dir, "sections.json")); err == nil {
			return dir
		}
	}
	return ""
}

// RunWizard runs an interactive configuration wizard, saves the result to
// path and returns it.
func RunWizard(path string) (*Config, error) {
	fmt.Println("Welcome to progvibe! Let's configure your tutorial site.")
	fmt.Println()

	cfg := DefaultConfig()

	detected := detectContentDir()
	if detected != "" {
		fmt.Printf("Found content tree at %s\n\n", detected)
	}

	// 1. Content source.
	sourcePrompt := promptui.Select{
		Label: "Where does the content live",
		Items: []string{
			"local directory",
			"remote static server (http/https)",
		},
	}
	sourceIdx, _, err := sourcePrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("source selection: %w", err)
	}

	if sourceIdx == 0 {
		def := detected
		if def == "" {
			def = cfg.ContentDir
		}
		dirPrompt := promptui.Prompt{
			Label:   "Content directory (contains sections.json)",
			Default: def,
		}
		if cfg.ContentDir, err = dirPrompt.Run(); err != nil {
			return nil, fmt.Errorf("content dir: %w", err)
		}
	} else {
		urlPrompt := promptui.Prompt{
			Label: "Content base URL",
			Validate: func(s string) error {
				candidate := *cfg
				candidate.ContentURL = s
				return candidate.Validate()
			},
		}
		if cfg.ContentURL, err = urlPrompt.Run(); err != nil {
			return nil, fmt.Errorf("content url: %w", err)
		}
		cfg.ContentDir = ""
	}

	// 2. Port.
	portPrompt := promptui.Prompt{
		Label:   "HTTP port",
		Default: strconv.Itoa(cfg.Port),
		Validate: func(s string) error {
			n, err := strconv.Atoi(s)
			if err != nil || n <= 0 || n > 65535 {
				return fmt.Errorf("port must be between 1 and 65535")
			}
			return nil
		},
	}
	portStr, err := portPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("port: %w", err)
	}
	cfg.Port, _ = strconv.Atoi(portStr)

	// 3. Theme persistence.
	storePrompt := promptui.Select{
		Label: "Remember each visitor's theme in",
		Items: []string{
			"cookie: stored in the browser",
			"sqlite: stored on the server, keyed by a visitor id",
		},
	}
	storeIdx, _, err := storePrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("theme store selection: %w", err)
	}
	cfg.ThemeStore = []ThemeStoreType{ThemeStoreCookie, ThemeStoreSQLite}[storeIdx]

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if err := cfg.Save(path); err != nil {
		return nil, fmt.Errorf("saving config: %w", err)
	}

	fmt.Printf("\nConfiguration saved to %s\n", path)
	return cfg, nil
}
