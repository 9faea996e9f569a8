package site

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ziadkadry99/progvibe/internal/augment"
	"github.com/ziadkadry99/progvibe/internal/theme"
)

func dialLive(t *testing.T, ts *testSite, header http.Header) *websocket.Conn {
	t.Helper()
	hs := httptest.NewServer(ts.srv.Handler())
	t.Cleanup(hs.Close)

	url := "ws" + strings.TrimPrefix(hs.URL, "http") + "/live"
	conn, _, err := websocket.DefaultDialer.Dial(url, header)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readView(t *testing.T, conn *websocket.Conn) ServerMessage {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	var msg ServerMessage
	require.NoError(t, conn.ReadJSON(&msg))
	return msg
}

func TestLiveNavigate(t *testing.T) {
	conn := dialLive(t, newTestSite(t, nil), nil)

	require.NoError(t, conn.WriteJSON(ClientMessage{Type: "navigate", Section: "go", Tutorial: "basics", Article: "vars"}))
	msg := readView(t, conn)

	assert.Equal(t, "view", msg.Type)
	assert.Equal(t, "vars", msg.Key.Article)
	assert.Equal(t, "Переменные", msg.Title)
	assert.Equal(t, "/go/basics/loops", msg.Links.Forward)
	assert.Equal(t, 2, strings.Count(msg.HTML, `class="copy-button"`))
	assert.Contains(t, msg.NavHTML, "ДАЛЕЕ")
	assert.Contains(t, msg.MenuHTML, `class="item selected"`)
	assert.Equal(t, theme.Dark, msg.Theme)
}

func TestLiveNavigateFromEncodedHref(t *testing.T) {
	ts := newTestSite(t, nil)
	addRussianTutorial(t, ts)
	href := pageForwardHref(t, ts.get("/go/ru/intro").Body.String())

	parts := strings.Split(strings.Trim(href, "/"), "/")
	require.Len(t, parts, 3)

	conn := dialLive(t, ts, nil)
	require.NoError(t, conn.WriteJSON(ClientMessage{Type: "navigate", Section: parts[0], Tutorial: parts[1], Article: parts[2]}))
	msg := readView(t, conn)

	assert.Equal(t, "view", msg.Type)
	assert.Equal(t, "циклы", msg.Key.Article)
	assert.Equal(t, "Циклы", msg.Title)
	assert.Contains(t, msg.HTML, "for без условия")
	assert.Equal(t, "/go/ru/intro", msg.Links.Back)
}

func TestDecodeKey(t *testing.T) {
	k, err := decodeKey("go", "ru", "%d1%86%d0%b8%d0%ba%d0%bb%d1%8b")
	require.NoError(t, err)
	assert.Equal(t, "циклы", k.Article)

	k, err = decodeKey("go", "ru", "циклы")
	require.NoError(t, err)
	assert.Equal(t, "циклы", k.Article)

	_, err = decodeKey("go", "ru", "%zz")
	assert.Error(t, err)
}

func TestLiveRejectsInvalidKey(t *testing.T) {
	conn := dialLive(t, newTestSite(t, nil), nil)

	require.NoError(t, conn.WriteJSON(ClientMessage{Type: "navigate", Section: "..", Tutorial: "basics", Article: "vars"}))
	msg := readView(t, conn)
	assert.Equal(t, "error", msg.Type)
}

func TestLiveThemeSwitchReaugments(t *testing.T) {
	header := http.Header{}
	header.Add("Cookie", "theme=light")
	conn := dialLive(t, newTestSite(t, nil), header)

	require.NoError(t, conn.WriteJSON(ClientMessage{Type: "navigate", Section: "go", Tutorial: "basics", Article: "vars"}))
	light := readView(t, conn)
	require.Equal(t, theme.Light, light.Theme)

	require.NoError(t, conn.WriteJSON(ClientMessage{Type: "theme"}))
	dark := readView(t, conn)

	assert.Equal(t, theme.Dark, dark.Theme)
	assert.NotEqual(t, light.HTML, dark.HTML, "highlighting follows the theme")
	assert.Equal(t, 2, strings.Count(dark.HTML, `class="copy-button"`))
}

func TestLiveCopiedLabel(t *testing.T) {
	conn := dialLive(t, newTestSite(t, nil), nil)

	require.NoError(t, conn.WriteJSON(ClientMessage{Type: "navigate", Section: "go", Tutorial: "basics", Article: "vars"}))
	readView(t, conn)

	require.NoError(t, conn.WriteJSON(ClientMessage{Type: "copied", Button: "copy-1"}))
	msg := readView(t, conn)

	assert.Equal(t, 1, strings.Count(msg.HTML, augment.CopiedLabel))
	assert.Equal(t, 1, strings.Count(msg.HTML, augment.DefaultLabel))
}

func TestHubReloadAllPushesFreshContent(t *testing.T) {
	ts := newTestSite(t, nil)
	conn := dialLive(t, ts, nil)

	require.NoError(t, conn.WriteJSON(ClientMessage{Type: "navigate", Section: "go", Tutorial: "basics", Article: "loops"}))
	first := readView(t, conn)
	require.NotContains(t, first.HTML, "обновлено")
	require.Equal(t, 1, ts.site.Hub().Len())

	require.NoError(t, afero.WriteFile(ts.fs, "go/basics/loops.md", []byte("# Циклы\n\nобновлено\n"), 0o644))
	ts.site.Hub().ReloadAll([]string{"go/basics/loops.md"})

	msg := readView(t, conn)
	assert.Equal(t, "loops", msg.Key.Article)
	assert.Contains(t, msg.HTML, "обновлено")
}
