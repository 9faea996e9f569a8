package theme

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaultsToDark(t *testing.T) {
	s := New(&MemoryStore{}, nil)
	got, err := s.Load()
	require.NoError(t, err)
	assert.Equal(t, Dark, got)

	links := s.Links()
	assert.False(t, links.Dark.Disabled)
	assert.True(t, links.Light.Disabled)
}

func TestLoadUsesStoredTheme(t *testing.T) {
	store := &MemoryStore{}
	require.NoError(t, store.Save(Light))

	s := New(store, nil)
	got, err := s.Load()
	require.NoError(t, err)
	assert.Equal(t, Light, got)
	assert.True(t, s.Links().Dark.Disabled)
}

func TestToggleIsTwoCycle(t *testing.T) {
	s := New(&MemoryStore{}, nil)
	_, err := s.Load()
	require.NoError(t, err)
	initial := s.Links()

	next, err := s.Toggle()
	require.NoError(t, err)
	assert.Equal(t, Light, next)
	assert.NotEqual(t, initial, s.Links())

	next, err = s.Toggle()
	require.NoError(t, err)
	assert.Equal(t, Dark, next)
	assert.Equal(t, initial, s.Links())
}

func TestSetNotifiesSubscribers(t *testing.T) {
	s := New(&MemoryStore{}, nil)
	var seen []Theme
	s.Subscribe(func(t Theme) { seen = append(seen, t) })

	require.NoError(t, s.Set(Light))
	_, err := s.Toggle()
	require.NoError(t, err)
	assert.Equal(t, []Theme{Light, Dark}, seen)
}

func TestSetRejectsUnknownTheme(t *testing.T) {
	s := New(&MemoryStore{}, nil)
	err := s.Set("sepia")
	assert.True(t, errors.Is(err, ErrInvalidTheme))
	assert.Equal(t, Default, s.Current())
}

type failingStore struct{ MemoryStore }

func (*failingStore) Save(Theme) error { return errors.New("disk full") }

func TestSetSwitchesLinksEvenIfSaveFails(t *testing.T) {
	s := New(&failingStore{}, nil)
	err := s.Set(Light)
	require.Error(t, err)
	assert.Equal(t, Light, s.Current())
	assert.True(t, s.Links().Dark.Disabled)
}

func TestCookieStore(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	store := NewCookieStore(rec, req)

	_, ok, err := store.Load()
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, store.Save(Light))
	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, CookieName, cookies[0].Name)
	assert.Equal(t, "light", cookies[0].Value)

	req2 := httptest.NewRequest(http.MethodGet, "/", nil)
	req2.AddCookie(cookies[0])
	got, ok, err := NewCookieStore(httptest.NewRecorder(), req2).Load()
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, Light, got)

	req3 := httptest.NewRequest(http.MethodGet, "/", nil)
	req3.AddCookie(&http.Cookie{Name: CookieName, Value: "neon"})
	_, ok, _ = NewCookieStore(httptest.NewRecorder(), req3).Load()
	assert.False(t, ok)
}
