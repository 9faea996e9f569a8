package site

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/ziadkadry99/progvibe/internal/content"
	"github.com/ziadkadry99/progvibe/internal/db"
	"github.com/ziadkadry99/progvibe/internal/logging"
	"github.com/ziadkadry99/progvibe/internal/presenter"
	"github.com/ziadkadry99/progvibe/internal/theme"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
	maxMessage = 4096
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

// ClientMessage is sent by the browser over a live session.
type ClientMessage struct {
	Type     string `json:"type"` // navigate, theme or copied
	Section  string `json:"section,omitempty"`
	Tutorial string `json:"tutorial,omitempty"`
	Article  string `json:"article,omitempty"`
	Button   string `json:"button,omitempty"`
}

// ServerMessage is pushed to the browser.
type ServerMessage struct {
	Type string `json:"type"` // view or error
	presenter.View
	MenuHTML string `json:"menu_html,omitempty"`
	NavHTML  string `json:"nav_html,omitempty"`
	Error    string `json:"error,omitempty"`
}

// Hub tracks the open live sessions.
type Hub struct {
	site     *Site
	mu       sync.Mutex
	sessions map[*session]struct{}
}

func newHub(s *Site) *Hub {
	return &Hub{site: s, sessions: make(map[*session]struct{})}
}

// Len returns the number of open sessions.
func (h *Hub) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.sessions)
}

// ReloadAll re-fetches the current article of every session. It is called
// when the content tree changes.
func (h *Hub) ReloadAll(changed []string) {
	h.mu.Lock()
	list := make([]*session, 0, len(h.sessions))
	for s := range h.sessions {
		list = append(list, s)
	}
	h.mu.Unlock()

	h.site.log.Info("content changed, reloading live sessions", "files", len(changed), "sessions", len(list))
	for _, s := range list {
		go s.reload()
	}
}

func (h *Hub) add(s *session) {
	h.mu.Lock()
	h.sessions[s] = struct{}{}
	h.mu.Unlock()
}

func (h *Hub) remove(s *session) {
	h.mu.Lock()
	delete(h.sessions, s)
	h.mu.Unlock()
}

// session is one browser tab: its own presenter and theme state.
type session struct {
	ctx    context.Context
	conn   *websocket.Conn
	site   *Site
	log    *logging.Logger
	theme  *theme.State
	view   *presenter.Presenter
	writes sync.Mutex
}

func (s *Site) handleLive(w http.ResponseWriter, r *http.Request) {
	header := http.Header{}
	store := s.liveStore(r, header)

	conn, err := upgrader.Upgrade(w, r, header)
	if err != nil {
		s.log.Debug("websocket upgrade failed", "error", err)
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sess := &session{
		ctx:  ctx,
		conn: conn,
		site: s,
		log:  s.log.With("remote", r.RemoteAddr),
	}
	sess.theme = theme.New(store, theme.DefaultStylesheets())
	sess.view = s.newPresenter(sess.theme)
	if _, err := sess.theme.Load(); err != nil {
		sess.log.Warn("loading theme preference", "error", err)
	}

	s.hub.add(sess)
	defer s.hub.remove(sess)

	go sess.pinger()
	sess.readLoop()
	conn.Close()
}

// liveStore picks the theme store for a websocket session. Response
// headers cannot be written after the upgrade, so a new visitor cookie
// travels in the upgrade response. In cookie mode the browser writes the
// cookie itself when a view with a new theme arrives.
func (s *Site) liveStore(r *http.Request, header http.Header) theme.Store {
	if s.opts.Preferences != nil {
		id := visitorID(&headerWriter{h: header}, r)
		// r.Context stays valid while the handler blocks in readLoop.
		return db.NewPreferenceStore(r.Context(), s.opts.Preferences, id)
	}
	seeded := &theme.MemoryStore{}
	if t, ok, _ := theme.NewCookieStore(nil, r).Load(); ok {
		seeded.Save(t)
	}
	return seeded
}

// headerWriter collects Set-Cookie headers for the upgrade response.
type headerWriter struct {
	h http.Header
}

func (hw *headerWriter) Header() http.Header         { return hw.h }
func (hw *headerWriter) Write(b []byte) (int, error) { return len(b), nil }
func (hw *headerWriter) WriteHeader(int)             {}

func (s *session) readLoop() {
	s.conn.SetReadLimit(maxMessage)
	s.conn.SetReadDeadline(time.Now().Add(pongWait))
	s.conn.SetPongHandler(func(string) error {
		s.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		var msg ClientMessage
		if err := s.conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				s.log.Debug("live session closed", "error", err)
			}
			return
		}
		s.handle(msg)
	}
}

func (s *session) handle(msg ClientMessage) {
	switch msg.Type {
	case "navigate":
		key, err := decodeKey(msg.Section, msg.Tutorial, msg.Article)
		if err != nil || !key.Valid() {
			s.sendError("invalid article key")
			return
		}
		// Navigation runs concurrently so a newer request can supersede it.
		go s.navigate(key)
	case "theme":
		if _, err := s.theme.Toggle(); err != nil {
			s.log.Warn("saving theme preference", "error", err)
		}
		s.pushCurrent()
	case "copied":
		v, ok, err := s.view.MarkCopied(msg.Button)
		if err != nil {
			s.log.Warn("marking copied block", "button", msg.Button, "error", err)
			return
		}
		if ok {
			s.push(v)
		}
	default:
		s.sendError("unknown message type " + msg.Type)
	}
}

func (s *session) navigate(key content.Key) {
	v, err := s.view.Navigate(s.ctx, key)
	if errors.Is(err, presenter.ErrSuperseded) {
		return
	}
	if err != nil {
		s.log.Warn("composing article view", "key", key.String(), "error", err)
	}
	s.push(v)
}

func (s *session) reload() {
	v, err := s.view.Reload(s.ctx)
	if errors.Is(err, presenter.ErrSuperseded) {
		return
	}
	if err != nil {
		s.log.Warn("reloading article", "error", err)
	}
	if v.Key.IsZero() {
		return
	}
	s.push(v)
}

func (s *session) pushCurrent() {
	v, err := s.view.View()
	if err != nil {
		s.log.Warn("composing article view", "error", err)
	}
	s.push(v)
}

func (s *session) push(v presenter.View) {
	menu, pagenav, err := s.site.pages.fragments(v)
	if err != nil {
		s.log.Error("rendering live fragments", "error", err)
	}
	s.send(ServerMessage{Type: "view", View: v, MenuHTML: menu, NavHTML: pagenav})
}

func (s *session) sendError(msg string) {
	s.send(ServerMessage{Type: "error", Error: msg})
}

func (s *session) send(msg ServerMessage) {
	data, err := json.Marshal(msg)
	if err != nil {
		s.log.Error("encoding live message", "error", err)
		return
	}
	s.writes.Lock()
	defer s.writes.Unlock()
	s.conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err := s.conn.WriteMessage(websocket.TextMessage, data); err != nil {
		s.log.Debug("writing live message", "error", err)
	}
}

func (s *session) pinger() {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()
	for {
		select {
		case <-s.ctx.Done():
			return
		case <-ticker.C:
			s.writes.Lock()
			err := s.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait))
			s.writes.Unlock()
			if err != nil {
				return
			}
		}
	}
}
