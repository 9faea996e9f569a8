package nav

import (
	"fmt"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ziadkadry99/progvibe/internal/content"
)

func entries(urls ...string) []content.ArticleEntry {
	out := make([]content.ArticleEntry, len(urls))
	for i, u := range urls {
		out[i] = content.ArticleEntry{ID: content.Ref(fmt.Sprint(i + 1)), URL: u, Title: u, Chapter: "1"}
	}
	return out
}

func TestResolveMiddle(t *testing.T) {
	links := Resolve("go", "basics", "b", entries("a", "b", "c"))
	assert.Equal(t, Links{Back: "/go/basics/a", Forward: "/go/basics/c"}, links)
}

func TestResolveSingle(t *testing.T) {
	links := Resolve("go", "basics", "a", entries("a"))
	assert.False(t, links.HasBack())
	assert.False(t, links.HasForward())
}

func TestResolveUnknownArticle(t *testing.T) {
	assert.Equal(t, Links{}, Resolve("go", "basics", "zzz", entries("a", "b")))
	assert.Equal(t, Links{}, Resolve("go", "basics", "a", nil))
}

func TestResolveUsesListOrderNotID(t *testing.T) {
	list := []content.ArticleEntry{
		{ID: "9", URL: "first"},
		{ID: "1", URL: "second"},
		{ID: "5", URL: "third"},
	}
	links := Resolve("s", "t", "second", list)
	assert.Equal(t, "/s/t/first", links.Back)
	assert.Equal(t, "/s/t/third", links.Forward)
}

func TestResolveProperties(t *testing.T) {
	params := gopter.DefaultTestParameters()
	params.MinSuccessfulTests = 200
	properties := gopter.NewProperties(params)

	properties.Property("links follow position in the sequence", prop.ForAll(
		func(n int, seed int) bool {
			urls := make([]string, n)
			for i := range urls {
				urls[i] = fmt.Sprintf("a%d", i)
			}
			list := entries(urls...)
			i := seed % n
			links := Resolve("s", "t", urls[i], list)

			if (i == 0) != !links.HasBack() {
				return false
			}
			if (i == n-1) != !links.HasForward() {
				return false
			}
			if i > 0 && links.Back != "/s/t/"+urls[i-1] {
				return false
			}
			if i < n-1 && links.Forward != "/s/t/"+urls[i+1] {
				return false
			}
			return true
		},
		gen.IntRange(1, 50),
		gen.IntRange(0, 1000),
	))

	properties.Property("absent article never links", prop.ForAll(
		func(n int) bool {
			urls := make([]string, n)
			for i := range urls {
				urls[i] = fmt.Sprintf("a%d", i)
			}
			return Resolve("s", "t", "missing", entries(urls...)) == Links{}
		},
		gen.IntRange(0, 50),
	))

	properties.TestingRun(t)
}

func TestBuildMenuGroupsByFirstAppearance(t *testing.T) {
	idx := content.Indexes{
		Chapters: content.ChapterMap{"1": "Начало", "2": "Управление"},
		Articles: []content.ArticleEntry{
			{ID: "1", URL: "intro", Title: "Введение", Chapter: "2"},
			{ID: "2", URL: "vars", Title: "Переменные", Chapter: "1"},
			{ID: "3", URL: "loops", Title: "Циклы", Chapter: "2"},
		},
	}
	menu := BuildMenu("go", "basics", "vars", idx)

	require.Len(t, menu.Chapters, 2)
	assert.Equal(t, "2", menu.Chapters[0].ID)
	assert.Equal(t, "Управление", menu.Chapters[0].Title)
	require.Len(t, menu.Chapters[0].Items, 2)
	assert.Equal(t, "/go/basics/loops", menu.Chapters[0].Items[1].Path)

	assert.True(t, menu.Chapters[1].Items[0].Selected)
	assert.False(t, menu.Chapters[0].Items[0].Selected)
	assert.Empty(t, menu.Gaps)
	assert.Equal(t, 3, menu.Len())
}

func TestBuildMenuWithoutChapters(t *testing.T) {
	idx := content.Indexes{Articles: entries("a", "b", "c")}
	menu := BuildMenu("go", "basics", "a", idx)

	require.Len(t, menu.Chapters, 1)
	assert.Equal(t, "", menu.Chapters[0].Title)
	assert.Len(t, menu.Chapters[0].Items, 3)
	assert.Empty(t, menu.Gaps, "a failed chapter fetch is a load error, not an integrity gap")
}

func TestBuildMenuReportsIntegrityGap(t *testing.T) {
	idx := content.Indexes{
		Chapters: content.ChapterMap{"1": "Начало"},
		Articles: []content.ArticleEntry{
			{URL: "a", Chapter: "1"},
			{URL: "b", Chapter: "7"},
			{URL: "c", Chapter: "7"},
		},
	}
	menu := BuildMenu("go", "basics", "", idx)

	require.Len(t, menu.Chapters, 2)
	assert.Equal(t, "", menu.Chapters[1].Title)
	require.Len(t, menu.Gaps, 1)
	assert.Equal(t, DataIntegrityGap{Article: "b", Chapter: "7"}, menu.Gaps[0])
	assert.Contains(t, menu.Gaps[0].Error(), `"7"`)
}
