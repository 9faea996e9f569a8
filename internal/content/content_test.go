package content

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func memSource(t *testing.T, files map[string]string) *FSSource {
	t.Helper()
	fs := afero.NewMemMapFs()
	for name, body := range files {
		require.NoError(t, afero.WriteFile(fs, name, []byte(body), 0o644))
	}
	return &FSSource{Fs: fs}
}

const articlesJSON = `[
  {"id": 1, "url": "intro", "title": "Введение", "chapter": "1"},
  {"id": "2", "url": "vars", "title": "Переменные", "chapter": 1},
  {"id": 3, "url": "loops", "title": "Циклы", "chapter": "2"}
]`

func TestRefAcceptsStringsAndNumbers(t *testing.T) {
	var entries []ArticleEntry
	require.NoError(t, json.Unmarshal([]byte(articlesJSON), &entries))
	require.Len(t, entries, 3)
	assert.Equal(t, Ref("1"), entries[0].ID)
	assert.Equal(t, Ref("2"), entries[1].ID)
	assert.Equal(t, Ref("1"), entries[1].Chapter)
	assert.Equal(t, "loops", entries[2].URL)

	var bad Ref
	assert.Error(t, json.Unmarshal([]byte(`{"x":1}`), &bad))
}

func TestKeyValid(t *testing.T) {
	assert.True(t, Key{"go", "basics", "intro"}.Valid())
	assert.False(t, Key{"go", "basics", ""}.Valid())
	assert.False(t, Key{"..", "basics", "intro"}.Valid())
	assert.False(t, Key{"go", "a/b", "intro"}.Valid())
	assert.Equal(t, "go/basics/intro", Key{"go", "basics", "intro"}.String())
}

func TestLoadSectionsAndTutorials(t *testing.T) {
	src := memSource(t, map[string]string{
		"sections.json": `[{"title":"Go","description":"Язык Go","url":"go"}]`,
		"go/go.json":    `[{"title":"Основы","description":"С нуля","url":"basics"}]`,
	})
	l := NewLoader(src, nil)

	sections, err := l.LoadSections(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []Section{{Title: "Go", Description: "Язык Go", URL: "go"}}, sections)

	tutorials, err := l.LoadTutorials(context.Background(), "go")
	require.NoError(t, err)
	require.Len(t, tutorials, 1)
	assert.Equal(t, "basics", tutorials[0].URL)

	_, err = l.LoadTutorials(context.Background(), "rust")
	var le *LoadError
	require.ErrorAs(t, err, &le)
	assert.Equal(t, ResourceTutorials, le.Resource)
	assert.True(t, IsNotFound(err))
}

func TestLoadIndexesPartialFailure(t *testing.T) {
	src := memSource(t, map[string]string{
		"go/basics/articles.json": articlesJSON,
	})
	l := NewLoader(src, nil)

	idx, err := l.LoadIndexes(context.Background(), "go", "basics")
	require.Error(t, err)
	assert.Len(t, idx.Articles, 3, "articles must populate even though chapters failed")
	assert.Nil(t, idx.Chapters)

	var le *LoadError
	require.ErrorAs(t, err, &le)
	assert.Equal(t, ResourceChapters, le.Resource)
}

func TestLoadIndexesBothPresent(t *testing.T) {
	src := memSource(t, map[string]string{
		"go/basics/articles.json": articlesJSON,
		"go/basics/chapters.json": `{"1":"Начало","2":"Управление"}`,
	})
	idx, err := NewLoader(src, nil).LoadIndexes(context.Background(), "go", "basics")
	require.NoError(t, err)
	assert.Equal(t, "Управление", idx.Chapters["2"])

	entry, ok := idx.Find("vars")
	require.True(t, ok)
	assert.Equal(t, "Переменные", entry.Title)
}

func TestLoadIndexesInvalidPath(t *testing.T) {
	idx, err := NewLoader(memSource(t, nil), nil).LoadIndexes(context.Background(), "..", "x")
	assert.Error(t, err)
	assert.Empty(t, idx.Articles)
}

func TestLoadDocumentHTTP404(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/content/go/basics/intro.md" {
			w.Write([]byte("# Введение\n"))
			return
		}
		http.NotFound(w, r)
	}))
	defer srv.Close()

	l := NewLoader(NewHTTPSource(srv.URL+"/content/", 0), nil)

	text, err := l.LoadDocument(context.Background(), Key{"go", "basics", "intro"})
	require.NoError(t, err)
	assert.Equal(t, "# Введение\n", text)

	text, err = l.LoadDocument(context.Background(), Key{"go", "basics", "missing"})
	assert.Equal(t, "", text)
	var se *StatusError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, http.StatusNotFound, se.Code)
	var le *LoadError
	require.ErrorAs(t, err, &le)
	assert.Equal(t, Key{"go", "basics", "missing"}, le.Key)
}

func TestHTTPSourceEscapesSegments(t *testing.T) {
	var (
		mu        sync.Mutex
		requested []string
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		requested = append(requested, r.URL.Path)
		mu.Unlock()
		switch r.URL.Path {
		case "/go/basics/a":
			w.Write([]byte("WRONG"))
		case "/go/basics/a?b.md", "/go/basics/c#d.md", "/go/basics/циклы.md":
			w.Write([]byte(r.URL.Path))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	l := NewLoader(NewHTTPSource(srv.URL, 0), nil)
	for _, article := range []string{"a?b", "c#d", "циклы"} {
		key := Key{"go", "basics", article}
		require.True(t, key.Valid())

		text, err := l.LoadDocument(context.Background(), key)
		require.NoError(t, err, article)
		assert.Equal(t, "/go/basics/"+article+".md", text)
	}
	mu.Lock()
	defer mu.Unlock()
	assert.NotContains(t, requested, "/go/basics/a")
}

func TestLoadDocumentTransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	text, err := NewLoader(NewHTTPSource(url, 0), nil).LoadDocument(context.Background(), Key{"go", "basics", "intro"})
	assert.Equal(t, "", text)
	require.Error(t, err)

	var se *StatusError
	assert.False(t, errors.As(err, &se), "transport failures must not look like status errors")
	var le *LoadError
	assert.ErrorAs(t, err, &le)
}

func TestFSSourceRejectsEscape(t *testing.T) {
	src := memSource(t, map[string]string{"a.md": "x"})
	_, err := src.Fetch(context.Background(), "../../etc/passwd")
	assert.True(t, IsNotFound(err))

	data, err := src.Fetch(context.Background(), "/a.md")
	require.NoError(t, err)
	assert.Equal(t, "x", string(data))
}

func TestDirSourceReadsSampleTree(t *testing.T) {
	l := NewLoader(NewDirSource("../../testdata/content"), nil)
	ctx := context.Background()

	sections, err := l.LoadSections(ctx)
	require.NoError(t, err)
	require.Len(t, sections, 2)
	assert.Equal(t, "go", sections[0].URL)

	idx, err := l.LoadIndexes(ctx, "go", "basics")
	require.NoError(t, err)
	assert.Len(t, idx.Articles, 3)
	assert.Equal(t, "Начало работы", idx.Chapters["1"])

	doc, err := l.LoadDocument(ctx, Key{"go", "basics", "loops"})
	require.NoError(t, err)
	assert.Contains(t, doc, "# Циклы")

	_, err = l.LoadDocument(ctx, Key{"go", "basics", "ghost"})
	assert.True(t, IsNotFound(err))
}
