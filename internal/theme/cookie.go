package theme

import (
	"net/http"
	"time"
)

// CookieName is the cookie holding the preference.
const CookieName = "theme"

// CookieStore persists the preference in a browser cookie. It reads from the
// request and writes to the response of a single exchange.
type CookieStore struct {
	r *http.Request
	w http.ResponseWriter
}

// NewCookieStore binds a store to one request/response pair.
func NewCookieStore(w http.ResponseWriter, r *http.Request) *CookieStore {
	return &CookieStore{r: r, w: w}
}

func (c *CookieStore) Load() (Theme, bool, error) {
	ck, err := c.r.Cookie(CookieName)
	if err != nil {
		return "", false, nil
	}
	t, err := Parse(ck.Value)
	if err != nil {
		return "", false, nil
	}
	return t, true, nil
}

func (c *CookieStore) Save(t Theme) error {
	http.SetCookie(c.w, &http.Cookie{
		Name:     CookieName,
		Value:    string(t),
		Path:     "/",
		Expires:  time.Now().AddDate(1, 0, 0),
		MaxAge:   365 * 24 * 60 * 60,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}
