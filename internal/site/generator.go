package site

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"path"
	"path/filepath"
	"strings"
	"sync/atomic"

	"github.com/spf13/afero"
	"golang.org/x/sync/errgroup"

	"github.com/ziadkadry99/progvibe/internal/content"
	"github.com/ziadkadry99/progvibe/internal/nav"
	"github.com/ziadkadry99/progvibe/internal/progress"
	"github.com/ziadkadry99/progvibe/internal/theme"
)

// Exporter writes the whole site as static HTML.
type Exporter struct {
	Site      *Site
	OutputDir string
	Fs        afero.Fs
	Reporter  progress.Reporter
	// Workers bounds concurrent page renders.
	Workers int
}

// NewExporter creates an Exporter writing to outputDir on the OS filesystem.
func NewExporter(s *Site, outputDir string) *Exporter {
	return &Exporter{
		Site:      s,
		OutputDir: outputDir,
		Fs:        afero.NewOsFs(),
		Reporter:  progress.Nop{},
		Workers:   4,
	}
}

// exportPage is one file to write.
type exportPage struct {
	path   string // relative output path
	render func(ctx context.Context) ([]byte, error)
}

// Export builds every page and returns the number of pages written.
func (e *Exporter) Export(ctx context.Context) (int, error) {
	s := e.Site
	sections, err := s.opts.Loader.LoadSections(ctx)
	if err != nil {
		return 0, fmt.Errorf("listing sections: %w", err)
	}

	ts := theme.New(&theme.MemoryStore{}, theme.DefaultStylesheets())
	if _, err := ts.Load(); err != nil {
		return 0, err
	}

	pages := []exportPage{{
		path: "index.html",
		render: func(context.Context) ([]byte, error) {
			data := e.basePage(ts, "")
			data.Cards = sectionCards(sections)
			return s.pages.render("home", data)
		},
	}}

	for _, sec := range sections {
		section := segmentOf(sec.URL)
		if !content.ValidSegment(section) {
			s.log.Warn("skipping section with unusable url", "url", sec.URL)
			continue
		}
		tutorials, err := s.opts.Loader.LoadTutorials(ctx, section)
		if err != nil {
			s.log.Warn("skipping section", "section", section, "error", err)
			continue
		}
		pages = append(pages, exportPage{
			path: filepath.Join(section, "index.html"),
			render: func(context.Context) ([]byte, error) {
				data := e.basePage(ts, sec.Title)
				data.Cards = tutorialCards(section, tutorials)
				return s.pages.render("section", data)
			},
		})

		for _, tut := range tutorials {
			tutorial := segmentOf(tut.URL)
			if !content.ValidSegment(tutorial) {
				s.log.Warn("skipping tutorial with unusable url", "section", section, "url", tut.URL)
				continue
			}
			idx, err := s.opts.Loader.LoadIndexes(ctx, section, tutorial)
			if len(idx.Articles) == 0 {
				s.log.Warn("skipping tutorial without articles", "section", section, "tutorial", tutorial, "error", err)
				continue
			}
			first := nav.ArticlePath(section, tutorial, idx.Articles[0].URL)
			pages = append(pages, exportPage{
				path: filepath.Join(section, tutorial, "index.html"),
				render: func(context.Context) ([]byte, error) {
					return redirectPage(first), nil
				},
			})
			for _, entry := range idx.Articles {
				key := content.Key{Section: section, Tutorial: tutorial, Article: entry.URL}
				if !key.Valid() {
					s.log.Warn("skipping article with unusable url", "section", section, "tutorial", tutorial, "url", entry.URL)
					continue
				}
				pages = append(pages, exportPage{
					path: filepath.Join(section, tutorial, entry.URL, "index.html"),
					render: func(ctx context.Context) ([]byte, error) {
						return e.renderArticle(ctx, key)
					},
				})
			}
		}
	}

	if err := e.writeStatic(); err != nil {
		return 0, err
	}

	e.Reporter.Start(len(pages))
	defer e.Reporter.Finish()

	var done atomic.Int64
	g, gctx := errgroup.WithContext(ctx)
	workers := e.Workers
	if workers <= 0 {
		workers = 1
	}
	g.SetLimit(workers)
	for _, page := range pages {
		g.Go(func() error {
			out, err := page.render(gctx)
			if err != nil {
				return fmt.Errorf("rendering %s: %w", page.path, err)
			}
			if err := e.write(page.path, out); err != nil {
				return err
			}
			e.Reporter.Update(int(done.Add(1)), page.path)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return int(done.Load()), err
	}
	return len(pages), nil
}

// renderArticle runs the article pipeline for one key with its own theme
// state so concurrent renders do not share a presenter.
func (e *Exporter) renderArticle(ctx context.Context, key content.Key) ([]byte, error) {
	ts := theme.New(&theme.MemoryStore{}, theme.DefaultStylesheets())
	if _, err := ts.Load(); err != nil {
		return nil, err
	}
	v, err := e.Site.newPresenter(ts).Navigate(ctx, key)
	if err != nil {
		return nil, err
	}
	data := e.Site.articlePage(ts, v)
	data.Static, data.Live = true, false
	return e.Site.pages.render("article", data)
}

func (e *Exporter) basePage(ts *theme.State, title string) pageData {
	data := e.Site.basePage(ts, title)
	data.Static, data.Live = true, false
	return data
}

func (e *Exporter) writeStatic() error {
	for name, f := range staticFiles {
		if err := e.write(filepath.Join("static", name), []byte(f.body)); err != nil {
			return err
		}
	}
	return nil
}

func (e *Exporter) write(rel string, data []byte) error {
	dst := filepath.Join(e.OutputDir, rel)
	if err := e.Fs.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", filepath.Dir(dst), err)
	}
	if err := afero.WriteFile(e.Fs, dst, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", dst, err)
	}
	return nil
}

var redirectTemplate = template.Must(template.New("redirect").Parse(
	`<!DOCTYPE html><html><head><meta charset="UTF-8"><meta http-equiv="refresh" content="0; url={{.}}"></head><body><a href="{{.}}">{{.}}</a></body></html>`,
))

func redirectPage(target string) []byte {
	var buf bytes.Buffer
	_ = redirectTemplate.Execute(&buf, target)
	return buf.Bytes()
}

// segmentOf reduces a listing url such as "/go/" or "go/basics" to its last
// path segment.
func segmentOf(url string) string {
	return path.Base(strings.Trim(url, "/"))
}
