package nav

import (
	"fmt"

	"github.com/ziadkadry99/progvibe/internal/content"
)

// Menu is the tutorial's article list grouped by chapter.
type Menu struct {
	Chapters []Chapter `json:"chapters"`
	// Gaps lists chapter ids referenced by articles but absent from the
	// chapter map.
	Gaps []DataIntegrityGap `json:"-"`
}

// Chapter is one group of the menu. Title is empty when the chapter map
// has no entry for ID.
type Chapter struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Items []Item `json:"items"`
}

// Item is a link to one article.
type Item struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Path     string `json:"path"`
	Selected bool   `json:"selected,omitempty"`
}

// DataIntegrityGap records an article whose chapter id does not resolve.
type DataIntegrityGap struct {
	Article string
	Chapter string
}

func (g DataIntegrityGap) Error() string {
	return fmt.Sprintf("article %q references unknown chapter %q", g.Article, g.Chapter)
}

// BuildMenu groups idx.Articles by chapter in order of first appearance.
// current marks the selected article. A nil chapter map (failed fetch)
// still yields every article, with empty chapter titles.
func BuildMenu(section, tutorial, current string, idx content.Indexes) Menu {
	var menu Menu
	pos := make(map[string]int)
	reported := make(map[string]bool)

	for _, a := range idx.Articles {
		id := string(a.Chapter)
		i, ok := pos[id]
		if !ok {
			title, found := idx.Chapters[id]
			if !found && idx.Chapters != nil && !reported[id] {
				menu.Gaps = append(menu.Gaps, DataIntegrityGap{Article: a.URL, Chapter: id})
				reported[id] = true
			}
			menu.Chapters = append(menu.Chapters, Chapter{ID: id, Title: title})
			i = len(menu.Chapters) - 1
			pos[id] = i
		}
		menu.Chapters[i].Items = append(menu.Chapters[i].Items, Item{
			ID:       string(a.ID),
			Title:    a.Title,
			Path:     ArticlePath(section, tutorial, a.URL),
			Selected: a.URL == current,
		})
	}
	return menu
}

// Len returns the number of articles in the menu.
func (m Menu) Len() int {
	n := 0
	for _, c := range m.Chapters {
		n += len(c.Items)
	}
	return n
}
