package content

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// Section is a top-level subject area listed in sections.json.
type Section struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	URL         string `json:"url"`
}

// Tutorial is a course within a section, listed in {section}/{section}.json.
type Tutorial struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	URL         string `json:"url"`
}

// ChapterMap maps chapter ids to chapter titles. Iteration order carries no
// meaning; it is only used for label lookup.
type ChapterMap map[string]string

// Ref is an identifier that content authors write either as a JSON string or
// as a bare number. It always decodes to its textual form.
type Ref string

func (r *Ref) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*r = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*r = Ref(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("ref must be a string or number, got %s", data)
	}
	*r = Ref(n.String())
	return nil
}

// ArticleEntry is one element of articles.json. The order of entries in
// that file is the navigation order.
type ArticleEntry struct {
	ID      Ref    `json:"id"`
	URL     string `json:"url"`
	Title   string `json:"title"`
	Chapter Ref    `json:"chapter"`
}

// Indexes is the chapter map and article list of one tutorial. Both are
// always fetched for the same (section, tutorial) pair.
type Indexes struct {
	Chapters ChapterMap
	Articles []ArticleEntry
}

// Find returns the entry whose URL equals url.
func (idx Indexes) Find(url string) (ArticleEntry, bool) {
	for _, a := range idx.Articles {
		if a.URL == url {
			return a, true
		}
	}
	return ArticleEntry{}, false
}

// Key identifies the article currently displayed.
type Key struct {
	Section  string `json:"section"`
	Tutorial string `json:"tutorial"`
	Article  string `json:"article"`
}

func (k Key) String() string {
	return k.Section + "/" + k.Tutorial + "/" + k.Article
}

// IsZero reports whether no article is selected.
func (k Key) IsZero() bool {
	return k == Key{}
}

// Valid reports whether every part of the key is a usable path segment.
func (k Key) Valid() bool {
	return ValidSegment(k.Section) && ValidSegment(k.Tutorial) && ValidSegment(k.Article)
}

// ValidSegment rejects empty segments and anything that could escape the
// content tree.
func ValidSegment(s string) bool {
	if s == "" || s == "." || s == ".." {
		return false
	}
	return !strings.ContainsAny(s, "/\\\x00")
}
