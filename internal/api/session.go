package api

import (
	"net/http"

	"github.com/lox/pogoda/internal/screen"
)

const (
	sessionCookie = "pogoda_session"
	sessionHeader = "X-Session-ID"
)

func sessionID(r *http.Request) string {
	if id := r.Header.Get(sessionHeader); id != "" {
		return id
	}
	if c, err := r.Cookie(sessionCookie); err == nil {
		return c.Value
	}
	return ""
}

func setSessionCookie(w http.ResponseWriter, id string) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:   sessionCookie,
		Value:  "",
		Path:   "/",
		MaxAge: -1,
	})
}

// lookupScreen returns the screen mounted for the request's session.
func (s *Server) lookupScreen(r *http.Request) (string, *screen.Screen, bool) {
	id := sessionID(r)
	if id == "" {
		return "", nil, false
	}
	sc, ok := s.sessions.Get(id)
	if !ok || sc.Closed() {
		return "", nil, false
	}
	return id, sc, true
}

// resumeOrMount returns the request's screen, mounting a new one when the
// session is missing or has expired.
func (s *Server) resumeOrMount(w http.ResponseWriter, r *http.Request) (string, *screen.Screen, error) {
	if id, sc, ok := s.lookupScreen(r); ok {
		return id, sc, nil
	}
	id, sc, err := s.sessions.Mount()
	if err != nil {
		return "", nil, err
	}
	setSessionCookie(w, id)
	return id, sc, nil
}
