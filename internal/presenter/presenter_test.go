package presenter

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ziadkadry99/progvibe/internal/augment"
	"github.com/ziadkadry99/progvibe/internal/content"
	"github.com/ziadkadry99/progvibe/internal/nav"
	"github.com/ziadkadry99/progvibe/internal/render"
	"github.com/ziadkadry99/progvibe/internal/theme"
)

func fixtureLoader(t *testing.T, files map[string]string) *content.Loader {
	t.Helper()
	fs := afero.NewMemMapFs()
	for name, body := range files {
		require.NoError(t, afero.WriteFile(fs, name, []byte(body), 0o644))
	}
	return content.NewLoader(&content.FSSource{Fs: fs}, nil)
}

var tutorialFiles = map[string]string{
	"go/basics/chapters.json": `{"1":"Начало","2":"Управление"}`,
	"go/basics/articles.json": `[
		{"id":1,"url":"intro","title":"Введение","chapter":"1"},
		{"id":2,"url":"vars","title":"Переменные","chapter":"1"},
		{"id":3,"url":"loops","title":"Циклы","chapter":"2"}
	]`,
	"go/basics/intro.md": "# Введение\n\nТекст.\n",
	"go/basics/vars.md":  "# Переменные\n\n```go\nvar x = 1\n```\n\n```go\nvar y = 2\n```\n",
	"go/basics/loops.md": "# Циклы\n",
}

func newPresenter(t *testing.T, loader Loader) (*Presenter, *theme.State) {
	t.Helper()
	ts := theme.New(&theme.MemoryStore{}, nil)
	p := New(loader, render.New(), augment.New(nil), ts, nil)
	_, err := ts.Load()
	require.NoError(t, err)
	return p, ts
}

func TestNavigateComposesView(t *testing.T) {
	p, _ := newPresenter(t, fixtureLoader(t, tutorialFiles))

	v, err := p.Navigate(context.Background(), content.Key{Section: "go", Tutorial: "basics", Article: "vars"})
	require.NoError(t, err)

	assert.Equal(t, "Переменные", v.Title)
	assert.Equal(t, "Начало", v.Chapter)
	assert.Equal(t, "/go/basics/intro", v.Links.Back)
	assert.Equal(t, "/go/basics/loops", v.Links.Forward)
	assert.Equal(t, 2, strings.Count(v.HTML, `class="copy-button"`))
	assert.Equal(t, theme.Dark, v.Theme)
	assert.False(t, v.Pending)
	require.Len(t, v.Menu.Chapters, 2)
}

func TestMissingDocumentRendersEmpty(t *testing.T) {
	p, _ := newPresenter(t, fixtureLoader(t, tutorialFiles))
	_, err := p.Navigate(context.Background(), content.Key{Section: "go", Tutorial: "basics", Article: "intro"})
	require.NoError(t, err)

	v, err := p.Navigate(context.Background(), content.Key{Section: "go", Tutorial: "basics", Article: "ghost"})
	require.NoError(t, err, "load failures are not view errors")
	assert.Equal(t, "", v.HTML, "previous article must not linger")
	assert.Equal(t, nav.Links{}, v.Links)
	assert.True(t, content.IsNotFound(v.Err))
	assert.Equal(t, 3, v.Menu.Len())
}

func TestChaptersFailureKeepsMenu(t *testing.T) {
	files := map[string]string{}
	for k, v := range tutorialFiles {
		if !strings.HasSuffix(k, "chapters.json") {
			files[k] = v
		}
	}
	p, _ := newPresenter(t, fixtureLoader(t, files))

	v, err := p.Navigate(context.Background(), content.Key{Section: "go", Tutorial: "basics", Article: "intro"})
	require.NoError(t, err)
	require.Len(t, v.Menu.Chapters, 2)
	assert.Equal(t, "", v.Menu.Chapters[0].Title)
	assert.Equal(t, 3, v.Menu.Len())
	assert.NotEmpty(t, v.HTML)
}

func TestHookSkipsUnchangedIdentity(t *testing.T) {
	p, ts := newPresenter(t, fixtureLoader(t, tutorialFiles))
	_, err := p.Navigate(context.Background(), content.Key{Section: "go", Tutorial: "basics", Article: "vars"})
	require.NoError(t, err)

	runs := p.AugmentationRuns()
	_, err = p.View()
	require.NoError(t, err)
	_, err = p.View()
	require.NoError(t, err)
	assert.Equal(t, runs, p.AugmentationRuns())

	_, err = ts.Toggle()
	require.NoError(t, err)
	assert.Equal(t, runs+1, p.AugmentationRuns(), "theme switch must re-augment")

	v, err := p.View()
	require.NoError(t, err)
	assert.Equal(t, theme.Light, v.Theme)
	assert.Equal(t, runs+1, p.AugmentationRuns())
}

func TestMarkCopiedPersistsUntilNextPass(t *testing.T) {
	p, ts := newPresenter(t, fixtureLoader(t, tutorialFiles))
	_, err := p.Navigate(context.Background(), content.Key{Section: "go", Tutorial: "basics", Article: "vars"})
	require.NoError(t, err)

	v, ok, err := p.MarkCopied("copy-2")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Contains(t, v.HTML, augment.CopiedLabel)

	v, err = p.View()
	require.NoError(t, err)
	assert.Contains(t, v.HTML, augment.CopiedLabel)

	_, err = ts.Toggle()
	require.NoError(t, err)
	v, err = p.View()
	require.NoError(t, err)
	assert.NotContains(t, v.HTML, augment.CopiedLabel)

	_, ok, err = p.MarkCopied("copy-7")
	require.NoError(t, err)
	assert.False(t, ok)
}

// gatedLoader blocks document loads for one key, or index loads for one
// tutorial, until released.
type gatedLoader struct {
	inner   Loader
	gateKey content.Key
	// gateIndexes holds back LoadIndexes for "section/tutorial" instead.
	gateIndexes string
	gate        chan struct{}
	entered     chan struct{}
}

func (g *gatedLoader) LoadIndexes(ctx context.Context, section, tutorial string) (content.Indexes, error) {
	if g.gateIndexes != "" && g.gateIndexes == section+"/"+tutorial {
		close(g.entered)
		<-g.gate
	}
	return g.inner.LoadIndexes(ctx, section, tutorial)
}

func (g *gatedLoader) LoadDocument(ctx context.Context, key content.Key) (string, error) {
	if g.gateIndexes == "" && key == g.gateKey {
		close(g.entered)
		<-g.gate
	}
	return g.inner.LoadDocument(ctx, key)
}

func TestStaleNavigationIsDiscarded(t *testing.T) {
	loader := &gatedLoader{
		inner:   fixtureLoader(t, tutorialFiles),
		gateKey: content.Key{Section: "go", Tutorial: "basics", Article: "intro"},
		gate:    make(chan struct{}),
		entered: make(chan struct{}),
	}
	p, _ := newPresenter(t, loader)

	type result struct {
		v   View
		err error
	}
	slow := make(chan result, 1)
	go func() {
		v, err := p.Navigate(context.Background(), content.Key{Section: "go", Tutorial: "basics", Article: "intro"})
		slow <- result{v, err}
	}()

	select {
	case <-loader.entered:
	case <-time.After(2 * time.Second):
		t.Fatal("slow navigation never started")
	}

	v, err := p.Navigate(context.Background(), content.Key{Section: "go", Tutorial: "basics", Article: "loops"})
	require.NoError(t, err)
	assert.Equal(t, "Циклы", v.Title)

	close(loader.gate)
	select {
	case r := <-slow:
		assert.True(t, errors.Is(r.err, ErrSuperseded))
	case <-time.After(2 * time.Second):
		t.Fatal("slow navigation never finished")
	}

	v, err = p.View()
	require.NoError(t, err)
	assert.Equal(t, content.Key{Section: "go", Tutorial: "basics", Article: "loops"}, v.Key)
	assert.NotContains(t, v.HTML, "Текст.")
	assert.Contains(t, v.HTML, "Циклы")
}

func TestLateIndexesForOldKeyAreDiscarded(t *testing.T) {
	files := map[string]string{
		"python/intro/chapters.json": `{"9":"Чужая глава"}`,
		"python/intro/articles.json": `[{"id":1,"url":"hello","title":"Привет","chapter":"9"}]`,
		"python/intro/hello.md":      "# Привет\n",
	}
	for name, body := range tutorialFiles {
		files[name] = body
	}
	loader := &gatedLoader{
		inner:       fixtureLoader(t, files),
		gateIndexes: "python/intro",
		gate:        make(chan struct{}),
		entered:     make(chan struct{}),
	}
	p, _ := newPresenter(t, loader)

	slow := make(chan error, 1)
	go func() {
		_, err := p.Navigate(context.Background(), content.Key{Section: "python", Tutorial: "intro", Article: "hello"})
		slow <- err
	}()

	select {
	case <-loader.entered:
	case <-time.After(2 * time.Second):
		t.Fatal("index load for the old key never started")
	}

	v, err := p.Navigate(context.Background(), content.Key{Section: "go", Tutorial: "basics", Article: "vars"})
	require.NoError(t, err)
	require.Len(t, v.Menu.Chapters, 2)

	close(loader.gate)
	select {
	case err := <-slow:
		assert.True(t, errors.Is(err, ErrSuperseded))
	case <-time.After(2 * time.Second):
		t.Fatal("old navigation never finished")
	}

	v, err = p.View()
	require.NoError(t, err)
	assert.Equal(t, content.Key{Section: "go", Tutorial: "basics", Article: "vars"}, v.Key)
	require.Len(t, v.Menu.Chapters, 2)
	assert.Equal(t, "Начало", v.Menu.Chapters[0].Title)
	assert.Equal(t, "/go/basics/intro", v.Links.Back)
	assert.Equal(t, "/go/basics/loops", v.Links.Forward)
	assert.Equal(t, "Начало", v.Chapter)
}

func TestPendingStateIsEmpty(t *testing.T) {
	loader := &gatedLoader{
		inner:   fixtureLoader(t, tutorialFiles),
		gateKey: content.Key{Section: "go", Tutorial: "basics", Article: "vars"},
		gate:    make(chan struct{}),
		entered: make(chan struct{}),
	}
	p, _ := newPresenter(t, loader)
	_, err := p.Navigate(context.Background(), content.Key{Section: "go", Tutorial: "basics", Article: "intro"})
	require.NoError(t, err)

	done := make(chan struct{})
	go func() {
		_, _ = p.Navigate(context.Background(), content.Key{Section: "go", Tutorial: "basics", Article: "vars"})
		close(done)
	}()
	<-loader.entered

	v, err := p.View()
	require.NoError(t, err)
	assert.True(t, v.Pending)
	assert.Equal(t, "", v.HTML)
	assert.Equal(t, content.Key{Section: "go", Tutorial: "basics", Article: "vars"}, v.Key)

	close(loader.gate)
	<-done
}

func TestReloadRefetches(t *testing.T) {
	fs := afero.NewMemMapFs()
	for name, body := range tutorialFiles {
		require.NoError(t, afero.WriteFile(fs, name, []byte(body), 0o644))
	}
	p, _ := newPresenter(t, content.NewLoader(&content.FSSource{Fs: fs}, nil))

	_, err := p.Navigate(context.Background(), content.Key{Section: "go", Tutorial: "basics", Article: "loops"})
	require.NoError(t, err)

	require.NoError(t, afero.WriteFile(fs, "go/basics/loops.md", []byte("# Циклы for\n"), 0o644))
	v, err := p.Reload(context.Background())
	require.NoError(t, err)
	assert.Contains(t, v.HTML, "Циклы for")
}
