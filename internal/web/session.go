package web

import (
	"crypto/sha256"
	"net/http"
	"sync"
	"time"

	"github.com/gofrs/uuid"
	"github.com/gorilla/securecookie"

	"staffcore/internal/auth"
)

const sessionCookieName = "staffweb_session"

type sessionEntry struct {
	token     string
	role      auth.Role
	expiresAt time.Time
}

// SessionStore holds the bearer token for each browser session,
// server-side. The browser only ever sees an opaque session ID inside a
// securecookie-encoded HttpOnly cookie; the JWT itself never leaves the
// process. Entries live as long as the token they hold.
type SessionStore struct {
	mu      sync.Mutex
	entries map[string]sessionEntry

	codec *securecookie.SecureCookie
	ttl   time.Duration
}

func NewSessionStore(secret string, ttl time.Duration) *SessionStore {
	hashKey := sha256.Sum256([]byte(secret + ":hash"))
	blockKey := sha256.Sum256([]byte(secret + ":block"))
	return &SessionStore{
		entries: make(map[string]sessionEntry),
		codec:   securecookie.New(hashKey[:], blockKey[:]),
		ttl:     ttl,
	}
}

// Set starts a fresh session holding the given token and hands the
// browser its session ID. The role stored alongside is a display hint
// decoded without verification; it never gates anything.
func (s *SessionStore) Set(w http.ResponseWriter, token string) error {
	id, err := uuid.NewV4()
	if err != nil {
		return err
	}
	role, _ := auth.RoleHint(token)

	s.mu.Lock()
	s.entries[id.String()] = sessionEntry{
		token:     token,
		role:      role,
		expiresAt: time.Now().Add(s.ttl),
	}
	s.mu.Unlock()

	encoded, err := s.codec.Encode(sessionCookieName, id.String())
	if err != nil {
		return err
	}
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    encoded,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Expires:  time.Now().Add(s.ttl),
	})
	return nil
}

// Get returns the session's token and display role. Expired entries are
// dropped on access.
func (s *SessionStore) Get(r *http.Request) (token string, role auth.Role, ok bool) {
	id, ok := s.sessionID(r)
	if !ok {
		return "", "", false
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	entry, found := s.entries[id]
	if !found {
		return "", "", false
	}
	if time.Now().After(entry.expiresAt) {
		delete(s.entries, id)
		return "", "", false
	}
	return entry.token, entry.role, true
}

// Clear drops the session entry and expires the browser cookie.
// Subsequent requests behave as if never authenticated.
func (s *SessionStore) Clear(w http.ResponseWriter, r *http.Request) {
	if id, ok := s.sessionID(r); ok {
		s.mu.Lock()
		delete(s.entries, id)
		s.mu.Unlock()
	}
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Expires:  time.Unix(0, 0),
	})
}

func (s *SessionStore) sessionID(r *http.Request) (string, bool) {
	cookie, err := r.Cookie(sessionCookieName)
	if err != nil || cookie.Value == "" {
		return "", false
	}
	var id string
	if err := s.codec.Decode(sessionCookieName, cookie.Value, &id); err != nil {
		return "", false
	}
	if _, err := uuid.FromString(id); err != nil {
		return "", false
	}
	return id, true
}
