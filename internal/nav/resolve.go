// Package nav computes previous/next links and the chapter menu for an
// article within its tutorial.
package nav

import (
	"path"

	"github.com/ziadkadry99/progvibe/internal/content"
)

// Links are the previous and next article paths. An empty string means no
// link.
type Links struct {
	Back    string `json:"back,omitempty"`
	Forward string `json:"forward,omitempty"`
}

func (l Links) HasBack() bool    { return l.Back != "" }
func (l Links) HasForward() bool { return l.Forward != "" }

// ArticlePath is the site path of an article.
func ArticlePath(section, tutorial, article string) string {
	return "/" + path.Join(section, tutorial, article)
}

// Resolve locates article in entries by URL and returns links to its
// neighbours. entries order is authoritative. An article that is not in
// entries gets no links at all.
func Resolve(section, tutorial, article string, entries []content.ArticleEntry) Links {
	i := IndexOf(article, entries)
	if i < 0 {
		return Links{}
	}
	var links Links
	if i > 0 {
		links.Back = ArticlePath(section, tutorial, entries[i-1].URL)
	}
	if i < len(entries)-1 {
		links.Forward = ArticlePath(section, tutorial, entries[i+1].URL)
	}
	return links
}

// IndexOf returns the position of the entry with the given URL, or -1.
func IndexOf(article string, entries []content.ArticleEntry) int {
	for i, e := range entries {
		if e.URL == article {
			return i
		}
	}
	return -1
}
