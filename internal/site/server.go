// Package site serves the tutorial website: section and tutorial listings,
// article pages, the theme switch, raw content and the live session
// endpoint.
package site

import (
	"errors"
	"net/http"
	"net/url"
	"path"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/ziadkadry99/progvibe/internal/augment"
	"github.com/ziadkadry99/progvibe/internal/content"
	"github.com/ziadkadry99/progvibe/internal/db"
	"github.com/ziadkadry99/progvibe/internal/logging"
	"github.com/ziadkadry99/progvibe/internal/nav"
	"github.com/ziadkadry99/progvibe/internal/presenter"
	"github.com/ziadkadry99/progvibe/internal/render"
	"github.com/ziadkadry99/progvibe/internal/theme"
)

// VisitorCookie identifies a visitor when preferences are kept server-side.
const VisitorCookie = "visitor"

// Options configures a Site.
type Options struct {
	Title     string
	Loader    *content.Loader
	Renderer  *render.Renderer
	Augmenter *augment.Augmenter
	// Preferences, when set, stores the theme per visitor in SQLite
	// instead of in a cookie.
	Preferences *db.DB
	Log         *logging.Logger
}

// Site holds the handlers of the tutorial website.
type Site struct {
	opts  Options
	log   *logging.Logger
	pages *pages
	hub   *Hub
}

// New creates a Site.
func New(opts Options) (*Site, error) {
	if opts.Loader == nil {
		return nil, errors.New("site: loader is required")
	}
	if opts.Title == "" {
		opts.Title = "PROGVIBE"
	}
	if opts.Renderer == nil {
		opts.Renderer = render.New()
	}
	if opts.Augmenter == nil {
		opts.Augmenter = augment.New(nil)
	}
	log := opts.Log
	if log == nil {
		log = logging.Nop()
	}
	p, err := newPages()
	if err != nil {
		return nil, err
	}
	s := &Site{opts: opts, log: log, pages: p}
	s.hub = newHub(s)
	return s, nil
}

// Hub returns the registry of live sessions.
func (s *Site) Hub() *Hub { return s.hub }

// Mount registers the site routes. Ordinary routes go on r, the websocket
// endpoint on long, which must not carry a request timeout.
func (s *Site) Mount(r, long chi.Router) {
	r.Get("/static/{name}", s.handleStatic)
	r.Get("/content/*", s.handleContent)
	r.Post("/theme/toggle", s.handleThemeToggle)
	r.Get("/", s.handleHome)
	r.Get("/{section}", s.handleSection)
	r.Get("/{section}/{tutorial}", s.handleTutorial)
	r.Get("/{section}/{tutorial}/{article}", s.handleArticle)
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		s.notFound(w, r)
	})

	long.Get("/live", s.handleLive)
}

// newPresenter builds the per-viewer pipeline around ts.
func (s *Site) newPresenter(ts *theme.State) *presenter.Presenter {
	return presenter.New(s.opts.Loader, s.opts.Renderer, s.opts.Augmenter, ts, s.log)
}

// themeStore picks the preference store for one request.
func (s *Site) themeStore(w http.ResponseWriter, r *http.Request) theme.Store {
	if s.opts.Preferences == nil {
		return theme.NewCookieStore(w, r)
	}
	return db.NewPreferenceStore(r.Context(), s.opts.Preferences, visitorID(w, r))
}

// loadTheme applies the stored preference for the request.
func (s *Site) loadTheme(w http.ResponseWriter, r *http.Request) *theme.State {
	ts := theme.New(s.themeStore(w, r), theme.DefaultStylesheets())
	if _, err := ts.Load(); err != nil {
		s.log.Warn("loading theme preference", "error", err)
	}
	return ts
}

// visitorID returns the visitor cookie, issuing a new id when absent.
func visitorID(w http.ResponseWriter, r *http.Request) string {
	if ck, err := r.Cookie(VisitorCookie); err == nil && ck.Value != "" {
		return ck.Value
	}
	id := uuid.NewString()
	http.SetCookie(w, visitorCookie(id))
	return id
}

func visitorCookie(id string) *http.Cookie {
	return &http.Cookie{
		Name:     VisitorCookie,
		Value:    id,
		Path:     "/",
		MaxAge:   365 * 24 * 60 * 60,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
}

func (s *Site) basePage(ts *theme.State, title string) pageData {
	return pageData{
		SiteTitle: s.opts.Title,
		Title:     title,
		Theme:     ts.Current(),
		Styles:    ts.Links(),
		Live:      true,
	}
}

func (s *Site) write(w http.ResponseWriter, status int, name string, data pageData) {
	out, err := s.pages.render(name, data)
	if err != nil {
		s.log.Error("rendering page", "page", name, "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	w.Write(out)
}

func (s *Site) notFound(w http.ResponseWriter, r *http.Request) {
	ts := s.loadTheme(w, r)
	s.write(w, http.StatusNotFound, "notfound", s.basePage(ts, "404"))
}

func (s *Site) handleHome(w http.ResponseWriter, r *http.Request) {
	ts := s.loadTheme(w, r)
	sections, err := s.opts.Loader.LoadSections(r.Context())
	if err != nil {
		s.log.Warn("listing sections", "error", err)
	}
	data := s.basePage(ts, "")
	data.Cards = sectionCards(sections)
	s.write(w, http.StatusOK, "home", data)
}

func (s *Site) handleSection(w http.ResponseWriter, r *http.Request) {
	section := pathParam(r, "section")
	if !content.ValidSegment(section) {
		s.notFound(w, r)
		return
	}
	tutorials, err := s.opts.Loader.LoadTutorials(r.Context(), section)
	if err != nil {
		if content.IsNotFound(err) {
			s.notFound(w, r)
			return
		}
		s.log.Warn("listing tutorials", "section", section, "error", err)
	}
	ts := s.loadTheme(w, r)
	data := s.basePage(ts, "")
	data.Cards = tutorialCards(section, tutorials)
	s.write(w, http.StatusOK, "section", data)
}

// handleTutorial sends a bare tutorial path to its first article.
func (s *Site) handleTutorial(w http.ResponseWriter, r *http.Request) {
	section, tutorial := pathParam(r, "section"), pathParam(r, "tutorial")
	if !content.ValidSegment(section) || !content.ValidSegment(tutorial) {
		s.notFound(w, r)
		return
	}
	idx, _ := s.opts.Loader.LoadIndexes(r.Context(), section, tutorial)
	if len(idx.Articles) == 0 || !content.ValidSegment(idx.Articles[0].URL) {
		s.notFound(w, r)
		return
	}
	http.Redirect(w, r, nav.ArticlePath(section, tutorial, idx.Articles[0].URL), http.StatusFound)
}

func (s *Site) handleArticle(w http.ResponseWriter, r *http.Request) {
	key := content.Key{
		Section:  pathParam(r, "section"),
		Tutorial: pathParam(r, "tutorial"),
		Article:  pathParam(r, "article"),
	}
	if !key.Valid() {
		s.notFound(w, r)
		return
	}

	ts := s.loadTheme(w, r)
	p := s.newPresenter(ts)
	v, err := p.Navigate(r.Context(), key)
	if err != nil && !errors.Is(err, presenter.ErrSuperseded) {
		s.log.Error("composing article view", "key", key.String(), "error", err)
	}
	if v.Err != nil {
		// Already logged by the loader; the page degrades to empty content.
		s.log.Debug("article loaded partially", "key", key.String(), "error", v.Err)
	}

	s.write(w, http.StatusOK, "article", s.articlePage(ts, v))
}

// pathParam returns a decoded route parameter. chi matches on the raw path
// when one is present, so percent-encoded segments arrive still encoded.
func pathParam(r *http.Request, name string) string {
	v := chi.URLParam(r, name)
	if r.URL.RawPath == "" {
		return v
	}
	d, err := url.PathUnescape(v)
	if err != nil {
		return ""
	}
	return d
}

// decodeKey builds a key from segments that may still be percent-encoded,
// as split from an href.
func decodeKey(section, tutorial, article string) (content.Key, error) {
	var (
		k   content.Key
		err error
	)
	if k.Section, err = url.PathUnescape(section); err != nil {
		return content.Key{}, err
	}
	if k.Tutorial, err = url.PathUnescape(tutorial); err != nil {
		return content.Key{}, err
	}
	if k.Article, err = url.PathUnescape(article); err != nil {
		return content.Key{}, err
	}
	return k, nil
}

func (s *Site) articlePage(ts *theme.State, v presenter.View) pageData {
	data := s.basePage(ts, v.Title)
	data.View = v
	data.Content = safeHTML(v.HTML)
	data.Nav = navFor(v.Key, v.Links)
	return data
}

func (s *Site) handleThemeToggle(w http.ResponseWriter, r *http.Request) {
	ts := s.loadTheme(w, r)
	next, err := ts.Toggle()
	if err != nil {
		s.log.Warn("saving theme preference", "error", err)
	}

	if strings.Contains(r.Header.Get("Accept"), "application/json") {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"theme":"` + string(next) + `"}`))
		return
	}
	http.Redirect(w, r, backTo(r), http.StatusSeeOther)
}

// backTo returns the local path the request came from, or "/".
func backTo(r *http.Request) string {
	ref, err := url.Parse(r.Referer())
	if err != nil || ref.Path == "" || !strings.HasPrefix(ref.Path, "/") {
		return "/"
	}
	if ref.Host != "" && ref.Host != r.Host {
		return "/"
	}
	return ref.Path
}

// handleContent exposes the raw content repository.
func (s *Site) handleContent(w http.ResponseWriter, r *http.Request) {
	p := chi.URLParam(r, "*")
	clean := path.Clean("/" + p)[1:]
	if clean == "" || clean != p {
		s.notFound(w, r)
		return
	}
	for _, seg := range strings.Split(clean, "/") {
		if !content.ValidSegment(seg) {
			s.notFound(w, r)
			return
		}
	}

	data, err := s.opts.Loader.Source().Fetch(r.Context(), clean)
	if err != nil {
		var se *content.StatusError
		if errors.As(err, &se) {
			http.Error(w, http.StatusText(se.Code), se.Code)
			return
		}
		s.log.Warn("fetching raw content", "path", clean, "error", err)
		http.Error(w, "content source unavailable", http.StatusBadGateway)
		return
	}

	switch path.Ext(clean) {
	case ".json":
		w.Header().Set("Content-Type", "application/json")
	case ".md":
		w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
	default:
		w.Header().Set("Content-Type", http.DetectContentType(data))
	}
	w.Write(data)
}

// staticFiles are the assets served under /static and written by Export.
var staticFiles = map[string]struct {
	contentType string
	body        string
}{
	"main.css":  {"text/css; charset=utf-8", mainCSS},
	"dark.css":  {"text/css; charset=utf-8", darkCSS},
	"light.css": {"text/css; charset=utf-8", lightCSS},
	"app.js":    {"application/javascript; charset=utf-8", appJS},
}

func (s *Site) handleStatic(w http.ResponseWriter, r *http.Request) {
	f, ok := staticFiles[chi.URLParam(r, "name")]
	if !ok {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", f.contentType)
	w.Header().Set("Cache-Control", "public, max-age=300")
	w.Write([]byte(f.body))
}
