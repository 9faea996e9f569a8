package content

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/ziadkadry99/progvibe/internal/logging"
)

// Loader fetches and decodes the repository's indexes and documents. It
// keeps no cache: every call goes to the Source.
type Loader struct {
	src Source
	log *logging.Logger
}

// NewLoader creates a Loader over src. A nil logger discards output.
func NewLoader(src Source, log *logging.Logger) *Loader {
	if log == nil {
		log = logging.Nop()
	}
	return &Loader{src: src, log: log}
}

// Source returns the underlying content source.
func (l *Loader) Source() Source { return l.src }

// LoadSections reads sections.json.
func (l *Loader) LoadSections(ctx context.Context) ([]Section, error) {
	var sections []Section
	if err := l.fetchJSON(ctx, SectionsPath(), &sections); err != nil {
		return nil, l.fail(Key{}, ResourceSections, err)
	}
	return sections, nil
}

// LoadTutorials reads the tutorial list of a section.
func (l *Loader) LoadTutorials(ctx context.Context, section string) ([]Tutorial, error) {
	key := Key{Section: section}
	if !ValidSegment(section) {
		return nil, l.fail(key, ResourceTutorials, fmt.Errorf("invalid section %q", section))
	}
	var tutorials []Tutorial
	if err := l.fetchJSON(ctx, TutorialsPath(section), &tutorials); err != nil {
		return nil, l.fail(key, ResourceTutorials, err)
	}
	return tutorials, nil
}

// LoadIndexes fetches chapters.json and articles.json concurrently. A
// failure of one does not prevent the other from populating: the returned
// Indexes holds whatever loaded and the error joins the failures.
func (l *Loader) LoadIndexes(ctx context.Context, section, tutorial string) (Indexes, error) {
	key := Key{Section: section, Tutorial: tutorial}
	if !ValidSegment(section) || !ValidSegment(tutorial) {
		err := fmt.Errorf("invalid tutorial path %q/%q", section, tutorial)
		return Indexes{}, errors.Join(l.fail(key, ResourceChapters, err), l.fail(key, ResourceArticles, err))
	}

	var (
		idx  Indexes
		mu   sync.Mutex
		errs []error
	)
	record := func(err error) {
		mu.Lock()
		errs = append(errs, err)
		mu.Unlock()
	}

	// Neither goroutine returns an error: a failed index must not cancel
	// its sibling.
	var g errgroup.Group
	g.Go(func() error {
		var chapters ChapterMap
		if err := l.fetchJSON(ctx, ChaptersPath(section, tutorial), &chapters); err != nil {
			record(l.fail(key, ResourceChapters, err))
			return nil
		}
		idx.Chapters = chapters
		return nil
	})
	g.Go(func() error {
		var articles []ArticleEntry
		if err := l.fetchJSON(ctx, ArticlesPath(section, tutorial), &articles); err != nil {
			record(l.fail(key, ResourceArticles, err))
			return nil
		}
		idx.Articles = articles
		return nil
	})
	_ = g.Wait()

	return idx, errors.Join(errs...)
}

// LoadDocument fetches the Markdown body of an article. On failure it
// returns an empty string, never partial or previous text.
func (l *Loader) LoadDocument(ctx context.Context, key Key) (string, error) {
	if !key.Valid() {
		return "", l.fail(key, ResourceDocument, fmt.Errorf("invalid navigation key %q", key.String()))
	}
	data, err := l.src.Fetch(ctx, DocumentPath(key))
	if err != nil {
		return "", l.fail(key, ResourceDocument, err)
	}
	return string(data), nil
}

func (l *Loader) fetchJSON(ctx context.Context, p string, v any) error {
	data, err := l.src.Fetch(ctx, p)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("decoding %s: %w", p, err)
	}
	return nil
}

func (l *Loader) fail(key Key, res Resource, err error) error {
	le := &LoadError{Key: key, Resource: res, Err: err}
	if errors.Is(err, context.Canceled) {
		l.log.Debug("content load cancelled", "key", key.String(), "resource", string(res))
		return le
	}
	l.log.Warn("content load failed", "key", key.String(), "resource", string(res), "error", err)
	return le
}
