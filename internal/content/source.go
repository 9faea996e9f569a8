package content

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"net/url"
	"os"
	"path"
	"strings"
	"time"

	"github.com/spf13/afero"
)

// Source reads raw files from the content repository by slash-separated path
// relative to its root.
type Source interface {
	Fetch(ctx context.Context, p string) ([]byte, error)
}

// Paths of the repository files. Segments must already be validated.
func SectionsPath() string { return "sections.json" }

func TutorialsPath(section string) string {
	return path.Join(section, section+".json")
}

func ChaptersPath(section, tutorial string) string {
	return path.Join(section, tutorial, "chapters.json")
}

func ArticlesPath(section, tutorial string) string {
	return path.Join(section, tutorial, "articles.json")
}

func DocumentPath(k Key) string {
	return path.Join(k.Section, k.Tutorial, k.Article+".md")
}

// maxDocumentSize bounds a single fetched file.
const maxDocumentSize = 8 << 20

// HTTPSource fetches content from a static file server.
type HTTPSource struct {
	BaseURL string
	Client  *http.Client
}

// NewHTTPSource creates an HTTPSource with the given per-request timeout.
func NewHTTPSource(baseURL string, timeout time.Duration) *HTTPSource {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &HTTPSource{
		BaseURL: strings.TrimRight(baseURL, "/"),
		Client:  &http.Client{Timeout: timeout},
	}
}

func (s *HTTPSource) Fetch(ctx context.Context, p string) ([]byte, error) {
	u := s.URL(p)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("building request for %s: %w", u, err)
	}
	resp, err := s.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", u, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))
		return nil, &StatusError{URL: u, Code: resp.StatusCode}
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxDocumentSize))
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", u, err)
	}
	return data, nil
}

// URL returns the address of p on the server. Each segment is escaped, so
// '#', '?' and non-ASCII characters stay part of the path.
func (s *HTTPSource) URL(p string) string {
	segments := strings.Split(strings.TrimLeft(p, "/"), "/")
	for i, seg := range segments {
		segments[i] = url.PathEscape(seg)
	}
	return s.BaseURL + "/" + strings.Join(segments, "/")
}

// FSSource reads content from a filesystem. Missing files are reported as
// a 404 StatusError so callers classify them the same way for both sources.
type FSSource struct {
	Fs afero.Fs
}

// NewDirSource serves content from a directory on disk.
func NewDirSource(dir string) *FSSource {
	return &FSSource{Fs: afero.NewReadOnlyFs(afero.NewBasePathFs(afero.NewOsFs(), dir))}
}

func (s *FSSource) Fetch(ctx context.Context, p string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	p = strings.TrimLeft(path.Clean("/"+p), "/")
	data, err := afero.ReadFile(s.Fs, p)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) || errors.Is(err, os.ErrNotExist) {
			return nil, &StatusError{URL: p, Code: http.StatusNotFound}
		}
		return nil, fmt.Errorf("reading %s: %w", p, err)
	}
	return data, nil
}
