// Package theme holds the light/dark preference and the two stylesheet
// links it switches between.
package theme

import (
	"errors"
	"fmt"
	"sync"
)

// Theme is a colour scheme name.
type Theme string

const (
	Light Theme = "light"
	Dark  Theme = "dark"

	// Default applies when no preference is stored.
	Default = Dark
)

// ErrInvalidTheme is returned by Parse for anything but light or dark.
var ErrInvalidTheme = errors.New("invalid theme")

// Parse validates a theme name.
func Parse(s string) (Theme, error) {
	switch Theme(s) {
	case Light, Dark:
		return Theme(s), nil
	}
	return "", fmt.Errorf("%w %q: must be light or dark", ErrInvalidTheme, s)
}

// Other returns the opposite theme.
func (t Theme) Other() Theme {
	if t == Light {
		return Dark
	}
	return Light
}

// Store persists the preference. Load reports false when nothing is stored.
type Store interface {
	Load() (Theme, bool, error)
	Save(Theme) error
}

// Link is one stylesheet reference. Exactly one of a Stylesheets pair is
// enabled at a time.
type Link struct {
	Href     string
	Disabled bool
}

// Stylesheets are the dark and light stylesheet links of a page.
type Stylesheets struct {
	Dark  Link
	Light Link
}

// DefaultStylesheets points at the embedded site stylesheets.
func DefaultStylesheets() *Stylesheets {
	return &Stylesheets{
		Dark:  Link{Href: "/static/dark.css"},
		Light: Link{Href: "/static/light.css"},
	}
}

// activate enables the stylesheet for t and disables the other one.
func (s *Stylesheets) activate(t Theme) {
	s.Dark.Disabled = t == Light
	s.Light.Disabled = t == Dark
}

// State is the current theme of one viewer together with the stylesheet
// links it controls and the store it persists to.
type State struct {
	mu          sync.Mutex
	store       Store
	links       *Stylesheets
	current     Theme
	subscribers []func(Theme)
}

// New creates a State. links may be nil when no page is attached.
func New(store Store, links *Stylesheets) *State {
	if links == nil {
		links = DefaultStylesheets()
	}
	return &State{store: store, links: links, current: Default}
}

// Subscribe registers fn to run after every Set, with the new theme.
func (s *State) Subscribe(fn func(Theme)) {
	s.mu.Lock()
	s.subscribers = append(s.subscribers, fn)
	s.mu.Unlock()
}

// Current returns the active theme.
func (s *State) Current() Theme {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// Links returns a copy of the stylesheet links.
func (s *State) Links() Stylesheets {
	s.mu.Lock()
	defer s.mu.Unlock()
	return *s.links
}

// Load reads the stored preference and applies it, falling back to Default
// when nothing valid is stored. A store read error still applies Default
// and is returned.
func (s *State) Load() (Theme, error) {
	t, ok, err := s.store.Load()
	if err != nil || !ok {
		t = Default
	}
	if _, perr := Parse(string(t)); perr != nil {
		t = Default
	}
	if serr := s.Set(t); serr != nil && err == nil {
		err = serr
	}
	return t, err
}

// Set persists t, switches the stylesheet links and notifies subscribers.
// The links switch even when persisting fails.
func (s *State) Set(t Theme) error {
	if _, err := Parse(string(t)); err != nil {
		return err
	}

	s.mu.Lock()
	s.current = t
	s.links.activate(t)
	subs := append([]func(Theme){}, s.subscribers...)
	s.mu.Unlock()

	err := s.store.Save(t)
	for _, fn := range subs {
		fn(t)
	}
	if err != nil {
		return fmt.Errorf("saving theme: %w", err)
	}
	return nil
}

// Toggle flips between dark and light.
func (s *State) Toggle() (Theme, error) {
	next := s.Current().Other()
	return next, s.Set(next)
}

// MemoryStore keeps the preference in memory.
type MemoryStore struct {
	mu    sync.Mutex
	theme Theme
	set   bool
}

func (m *MemoryStore) Load() (Theme, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.theme, m.set, nil
}

func (m *MemoryStore) Save(t Theme) error {
	m.mu.Lock()
	m.theme, m.set = t, true
	m.mu.Unlock()
	return nil
}
