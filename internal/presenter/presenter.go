// Package presenter holds the view state of one reader: which article is
// selected, its loaded document and indexes, and the augmented HTML derived
// from them.
package presenter

import (
	"context"
	"errors"
	"sync"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/sync/errgroup"

	"github.com/ziadkadry99/progvibe/internal/augment"
	"github.com/ziadkadry99/progvibe/internal/content"
	"github.com/ziadkadry99/progvibe/internal/logging"
	"github.com/ziadkadry99/progvibe/internal/nav"
	"github.com/ziadkadry99/progvibe/internal/render"
	"github.com/ziadkadry99/progvibe/internal/theme"
)

// ErrSuperseded is returned by Navigate when a newer navigation started
// before this one finished. Its results were discarded.
var ErrSuperseded = errors.New("navigation superseded")

// Loader is the part of content.Loader the presenter needs.
type Loader interface {
	LoadIndexes(ctx context.Context, section, tutorial string) (content.Indexes, error)
	LoadDocument(ctx context.Context, key content.Key) (string, error)
}

// View is a snapshot of what should be on screen.
type View struct {
	Key     content.Key `json:"key"`
	Title   string      `json:"title"`
	Chapter string      `json:"chapter"`
	HTML    string      `json:"html"`
	Links   nav.Links   `json:"links"`
	Menu    nav.Menu    `json:"menu"`
	Theme   theme.Theme `json:"theme"`
	Pending bool        `json:"pending"`
	Err     error       `json:"-"`
}

// ticket identifies one Navigate call. Results carry it back so late
// answers to an older navigation can be recognised and dropped.
type ticket struct {
	key content.Key
	seq uint64
}

// Presenter is safe for concurrent use.
type Presenter struct {
	loader    Loader
	renderer  *render.Renderer
	augmenter *augment.Augmenter
	theme     *theme.State
	log       *logging.Logger

	mu       sync.Mutex
	current  ticket
	pending  int
	document string
	indexes  content.Indexes
	revision uint64
	hook     augment.Hook
	html     string
	dom      *goquery.Document
	lastErr  error
}

// New creates a Presenter. It subscribes to ts so a theme change
// re-augments the current document.
func New(loader Loader, renderer *render.Renderer, augmenter *augment.Augmenter, ts *theme.State, log *logging.Logger) *Presenter {
	if log == nil {
		log = logging.Nop()
	}
	p := &Presenter{
		loader:    loader,
		renderer:  renderer,
		augmenter: augmenter,
		theme:     ts,
		log:       log,
	}
	ts.Subscribe(func(theme.Theme) {
		if _, err := p.View(); err != nil {
			p.log.Warn("re-augmenting after theme change", "error", err)
		}
	})
	return p
}

// Key returns the current navigation key.
func (p *Presenter) Key() content.Key {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.current.key
}

// Navigate selects key, clears the previous article and loads the document
// and indexes concurrently. Results are committed only while key is still
// the latest navigation; otherwise ErrSuperseded is returned.
func (p *Presenter) Navigate(ctx context.Context, key content.Key) (View, error) {
	p.mu.Lock()
	t := ticket{key: key, seq: p.current.seq + 1}
	p.current = t
	p.pending = 2
	p.document = ""
	p.indexes = content.Indexes{}
	p.lastErr = nil
	p.revision++
	p.mu.Unlock()

	var g errgroup.Group
	g.Go(func() error {
		text, err := p.loader.LoadDocument(ctx, key)
		p.commit(t, err, func() { p.document = text })
		return nil
	})
	g.Go(func() error {
		idx, err := p.loader.LoadIndexes(ctx, key.Section, key.Tutorial)
		p.commit(t, err, func() {
			p.indexes = idx
			menu := nav.BuildMenu(key.Section, key.Tutorial, key.Article, idx)
			for _, gap := range menu.Gaps {
				p.log.Warn("data integrity gap", "key", key.String(), "article", gap.Article, "chapter", gap.Chapter)
			}
		})
		return nil
	})
	_ = g.Wait()

	if !p.isCurrent(t) {
		p.log.Debug("discarding superseded navigation", "key", key.String())
		return View{}, ErrSuperseded
	}
	return p.View()
}

// Reload re-fetches the current key, e.g. after the content changed on disk.
func (p *Presenter) Reload(ctx context.Context) (View, error) {
	key := p.Key()
	if key.IsZero() {
		return p.View()
	}
	p.hook.Reset()
	return p.Navigate(ctx, key)
}

func (p *Presenter) isCurrent(t ticket) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.current == t
}

// commit applies a load result if t is still the current navigation.
func (p *Presenter) commit(t ticket, err error, apply func()) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.current != t {
		return
	}
	apply()
	p.pending--
	p.revision++
	if err != nil {
		p.lastErr = errors.Join(p.lastErr, err)
	}
}

// View composes the current state. Rendering and augmentation run only when
// the key, theme or loaded content changed since the last call.
func (p *Presenter) View() (View, error) {
	th := p.theme.Current()

	p.mu.Lock()
	defer p.mu.Unlock()

	key := p.current.key
	id := augment.Identity{Key: key.String(), Theme: string(th), Revision: p.revision}
	_, err := p.hook.Run(id, func() error {
		return p.augmentLocked(th)
	})

	v := View{
		Key:     key,
		HTML:    p.html,
		Links:   nav.Resolve(key.Section, key.Tutorial, key.Article, p.indexes.Articles),
		Menu:    nav.BuildMenu(key.Section, key.Tutorial, key.Article, p.indexes),
		Theme:   th,
		Pending: p.pending > 0,
		Err:     p.lastErr,
	}
	if entry, ok := p.indexes.Find(key.Article); ok {
		v.Title = entry.Title
		v.Chapter = p.indexes.Chapters[string(entry.Chapter)]
	}
	if v.Title == "" {
		v.Title = render.Title(p.document)
	}
	return v, err
}

func (p *Presenter) augmentLocked(th theme.Theme) error {
	fragment, err := p.renderer.Render(p.document)
	if err != nil {
		p.html, p.dom = "", nil
		return err
	}
	doc, err := augment.ParseFragment(fragment)
	if err != nil {
		p.html, p.dom = "", nil
		return err
	}
	if err := p.augmenter.Apply(doc, th); err != nil {
		p.html, p.dom = "", nil
		return err
	}
	out, err := augment.FragmentHTML(doc)
	if err != nil {
		return err
	}
	p.html, p.dom = out, doc
	return nil
}

// MarkCopied records a successful copy from button id in the current DOM.
func (p *Presenter) MarkCopied(id string) (View, bool, error) {
	p.mu.Lock()
	ok := p.dom != nil && augment.MarkCopied(p.dom, id)
	if ok {
		out, err := augment.FragmentHTML(p.dom)
		if err != nil {
			p.mu.Unlock()
			return View{}, false, err
		}
		p.html = out
	}
	p.mu.Unlock()

	v, err := p.View()
	return v, ok, err
}

// AugmentationRuns reports how many augmentation passes have run.
func (p *Presenter) AugmentationRuns() int {
	return p.hook.Runs()
}
