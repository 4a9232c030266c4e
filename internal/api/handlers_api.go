package api

import (
	"encoding/json"
	"net/http"

	"github.com/lox/pogoda/internal/screen"
	"github.com/lox/pogoda/internal/theme"
)

// StateResponse is the JSON view of a mounted screen.
type StateResponse struct {
	ID       string          `json:"id"`
	State    screen.AppState `json:"state"`
	Theme    theme.Token     `json:"theme"`
	Gradient string          `json:"gradient"`
}

type actionRequest struct {
	Value string `json:"value"`
}

func (s *Server) stateResponse(id string, sc *screen.Screen) StateResponse {
	tok := sc.Theme(s.now().In(s.loc))
	return StateResponse{
		ID:       id,
		State:    sc.State(),
		Theme:    tok,
		Gradient: tok.Gradient().CSS(),
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func (s *Server) handleAPIMount(w http.ResponseWriter, r *http.Request) {
	id, sc, err := s.sessions.Mount()
	if err != nil {
		writeError(w, http.StatusServiceUnavailable, err.Error())
		return
	}
	setSessionCookie(w, id)
	writeJSON(w, http.StatusCreated, s.stateResponse(id, sc))
}

func (s *Server) handleAPITeardown(w http.ResponseWriter, r *http.Request) {
	id := sessionID(r)
	if id == "" || !s.sessions.Teardown(id) {
		writeError(w, http.StatusNotFound, "unknown session")
		return
	}
	clearSessionCookie(w)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleAPIState(w http.ResponseWriter, r *http.Request) {
	id, sc, ok := s.lookupScreen(r)
	if !ok {
		writeError(w, http.StatusNotFound, "unknown session")
		return
	}
	writeJSON(w, http.StatusOK, s.stateResponse(id, sc))
}

func (s *Server) handleAPIAction(w http.ResponseWriter, r *http.Request) {
	id, sc, ok := s.lookupScreen(r)
	if !ok {
		writeError(w, http.StatusNotFound, "unknown session")
		return
	}

	var req actionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	if err := applyAction(sc, r.PathValue("kind"), req.Value); err != nil {
		writeError(w, actionStatus(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, s.stateResponse(id, sc))
}

func (s *Server) handleAPIWeather(w http.ResponseWriter, r *http.Request) {
	location := r.URL.Query().Get("location")
	if location == "" {
		location = s.defaultLocation(r)
	}

	snap, err := s.source.Snapshot(r.Context(), location)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if snap == nil {
		writeError(w, http.StatusNotFound, "unknown location")
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

func (s *Server) handleAPILocations(w http.ResponseWriter, r *http.Request) {
	cities, err := s.source.Cities(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, cities)
}

// defaultLocation is the session's selection, or the first location when
// there is no session.
func (s *Server) defaultLocation(r *http.Request) string {
	if _, sc, ok := s.lookupScreen(r); ok {
		return sc.State().SelectedLocation
	}
	if locs := s.sessions.Locations(); len(locs) > 0 {
		return locs[0]
	}
	return ""
}
