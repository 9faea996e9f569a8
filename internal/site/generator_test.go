package site

import (
	"context"
	"strings"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func exportFixture(t *testing.T) (afero.Fs, int) {
	t.Helper()
	ts := newTestSite(t, nil)
	out := afero.NewMemMapFs()

	e := NewExporter(ts.site, "public")
	e.Fs = out
	n, err := e.Export(context.Background())
	require.NoError(t, err)
	return out, n
}

func readFile(t *testing.T, fs afero.Fs, name string) string {
	t.Helper()
	data, err := afero.ReadFile(fs, name)
	require.NoError(t, err, name)
	return string(data)
}

func TestExportWritesEveryPage(t *testing.T) {
	out, n := exportFixture(t)

	// home, section, tutorial redirect and three articles.
	assert.Equal(t, 6, n)
	for _, name := range []string{
		"public/index.html",
		"public/go/index.html",
		"public/go/basics/index.html",
		"public/go/basics/intro/index.html",
		"public/go/basics/vars/index.html",
		"public/go/basics/loops/index.html",
		"public/static/main.css",
		"public/static/dark.css",
		"public/static/light.css",
		"public/static/app.js",
	} {
		ok, err := afero.Exists(out, name)
		require.NoError(t, err)
		assert.True(t, ok, name)
	}

	// The tutorial without articles is skipped.
	ok, _ := afero.DirExists(out, "public/go/empty")
	assert.False(t, ok)
}

func TestExportedArticleIsStatic(t *testing.T) {
	out, _ := exportFixture(t)

	page := readFile(t, out, "public/go/basics/vars/index.html")
	assert.Contains(t, page, `data-static="true"`)
	assert.NotContains(t, page, `data-live="true"`)
	assert.Contains(t, page, `<a href="/go/basics/loops">ДАЛЕЕ</a>`)
	assert.Equal(t, 2, strings.Count(page, `class="copy-button"`))
}

func TestExportedTutorialRedirects(t *testing.T) {
	out, _ := exportFixture(t)

	page := readFile(t, out, "public/go/basics/index.html")
	assert.Contains(t, page, `url=/go/basics/intro`)
}

func TestExportFailsWithoutSections(t *testing.T) {
	ts := newTestSite(t, nil)
	require.NoError(t, ts.fs.Remove("sections.json"))

	e := NewExporter(ts.site, "public")
	e.Fs = afero.NewMemMapFs()
	_, err := e.Export(context.Background())
	assert.Error(t, err)
}

func TestSegmentOf(t *testing.T) {
	assert.Equal(t, "go", segmentOf("go"))
	assert.Equal(t, "go", segmentOf("/go/"))
	assert.Equal(t, "basics", segmentOf("go/basics"))
	assert.Equal(t, ".", segmentOf(""))
}
