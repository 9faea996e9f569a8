package site

import (
	"bytes"
	"fmt"
	"html/template"
	"path"
	"strings"

	"github.com/ziadkadry99/progvibe/internal/content"
	"github.com/ziadkadry99/progvibe/internal/nav"
	"github.com/ziadkadry99/progvibe/internal/presenter"
	"github.com/ziadkadry99/progvibe/internal/theme"
)

// pageData holds the data passed to the page templates.
type pageData struct {
	SiteTitle string
	Title     string
	Theme     theme.Theme
	Styles    theme.Stylesheets
	Static    bool
	Live      bool
	Cards     []card
	View      presenter.View
	Content   template.HTML
	Nav       navData
}

// card is one entry of a section or tutorial listing.
type card struct {
	Title       string
	Description string
	Href        string
}

// navData feeds the navigation panel below an article.
type navData struct {
	Links       nav.Links
	SectionPath string
}

// pages renders the site templates.
type pages struct {
	tmpl *template.Template
}

func newPages() (*pages, error) {
	tmpl, err := template.New("site").Parse(pageTemplates)
	if err != nil {
		return nil, fmt.Errorf("parsing page templates: %w", err)
	}
	return &pages{tmpl: tmpl}, nil
}

func (p *pages) render(name string, data any) ([]byte, error) {
	var buf bytes.Buffer
	if err := p.tmpl.ExecuteTemplate(&buf, name, data); err != nil {
		return nil, fmt.Errorf("rendering %s: %w", name, err)
	}
	return buf.Bytes(), nil
}

// fragments renders the parts of an article page a live session replaces.
func (p *pages) fragments(v presenter.View) (menu, pagenav string, err error) {
	m, err := p.render("menu", v.Menu)
	if err != nil {
		return "", "", err
	}
	n, err := p.render("pagenav", navFor(v.Key, v.Links))
	if err != nil {
		return "", "", err
	}
	return string(m), string(n), nil
}

func navFor(key content.Key, links nav.Links) navData {
	return navData{Links: links, SectionPath: sectionPath(key.Section)}
}

func sectionPath(section string) string {
	return "/" + section
}

// cardHref resolves a listing url. Absolute paths and URLs are kept; a
// relative url is taken relative to base.
func cardHref(base, url string) string {
	if strings.HasPrefix(url, "/") || strings.Contains(url, "://") {
		return url
	}
	return "/" + path.Join(base, url)
}

func sectionCards(sections []content.Section) []card {
	cards := make([]card, 0, len(sections))
	for _, s := range sections {
		cards = append(cards, card{Title: s.Title, Description: s.Description, Href: cardHref("", s.URL)})
	}
	return cards
}

func tutorialCards(section string, tutorials []content.Tutorial) []card {
	cards := make([]card, 0, len(tutorials))
	for _, t := range tutorials {
		cards = append(cards, card{Title: t.Title, Description: t.Description, Href: cardHref(section, t.URL)})
	}
	return cards
}
