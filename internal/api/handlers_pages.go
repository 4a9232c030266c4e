package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"

	"github.com/lox/pogoda/internal/htmlutil"
	"github.com/lox/pogoda/internal/metrics"
	"github.com/lox/pogoda/internal/screen"
	"github.com/lox/pogoda/internal/theme"
)

var errUnknownAction = errors.New("unknown action")

// currentTheme picks the gradient for this render. ?theme=dusk previews a
// token regardless of the time.
func (s *Server) currentTheme(r *http.Request) (theme.Token, string) {
	if override := r.URL.Query().Get("theme"); override != "" {
		if tok, ok := theme.ParseToken(override); ok {
			return tok, override
		}
	}
	return theme.ForTime(s.now().In(s.loc)), ""
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	_, sc, err := s.resumeOrMount(w, r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusServiceUnavailable)
		return
	}

	state := sc.State()
	if state.IsLoading {
		metrics.PageRenders.WithLabelValues("loading").Inc()
		s.render(w, r, "loading.html", LoadingData{Background: theme.LoadingGradient})
		return
	}

	tok, override := s.currentTheme(r)
	data := PageData{
		State:         state,
		Theme:         tok,
		Card:          tok.Gradient(),
		Page:          theme.PageGradient,
		Locations:     sc.Locations(),
		Tabs:          buildTabs(state.ActiveForecastTab),
		Nav:           buildNav(state.ActiveScreen),
		Settings:      settingsRows,
		ThemeOverride: override,
	}

	switch state.ActiveScreen {
	case screen.ScreenWeather:
		snap, err := s.source.Snapshot(r.Context(), state.SelectedLocation)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		if snap == nil {
			http.Error(w, "no weather for "+state.SelectedLocation, http.StatusNotFound)
			return
		}
		data.Weather = snap
	case screen.ScreenCities:
		cities, err := s.source.Cities(r.Context())
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		data.Cities = cities
	}

	metrics.PageRenders.WithLabelValues(string(state.ActiveScreen)).Inc()
	s.render(w, r, "index.html", data)
}

// render executes a template, or converts it to plain text for ?format=text.
func (s *Server) render(w http.ResponseWriter, r *http.Request, name string, data any) {
	var buf bytes.Buffer
	if err := s.tmpl.ExecuteTemplate(&buf, name, data); err != nil {
		log.Printf("template error: %v", err)
		http.Error(w, "template error", http.StatusInternalServerError)
		return
	}

	if r.URL.Query().Get("format") == "text" {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		fmt.Fprintln(w, htmlutil.ToText(buf.String()))
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(buf.Bytes())
}

// applyAction routes one user selection to the matching setter.
func applyAction(sc *screen.Screen, kind, value string) error {
	var err error
	switch kind {
	case "tab":
		var tab screen.ForecastTab
		if tab, err = screen.ParseForecastTab(value); err == nil {
			err = sc.SetForecastTab(tab)
		}
	case "screen":
		var id screen.ScreenID
		if id, err = screen.ParseScreenID(value); err == nil {
			err = sc.SetScreen(id)
		}
	case "location":
		err = sc.SetLocation(value)
	default:
		return fmt.Errorf("%w: %q", errUnknownAction, kind)
	}

	status := "ok"
	if err != nil {
		status = "rejected"
	}
	metrics.Transitions.WithLabelValues(kind, status).Inc()
	return err
}

// actionStatus maps a setter error to an HTTP status.
func actionStatus(err error) int {
	switch {
	case errors.Is(err, errUnknownAction):
		return http.StatusNotFound
	case errors.Is(err, screen.ErrInvalidTab),
		errors.Is(err, screen.ErrInvalidScreen),
		errors.Is(err, screen.ErrUnknownLocation):
		return http.StatusBadRequest
	case errors.Is(err, screen.ErrClosed):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// handleAction serves the HTML form posts behind the tabs, the navigation
// bar and the location selector.
func (s *Server) handleAction(w http.ResponseWriter, r *http.Request) {
	_, sc, err := s.resumeOrMount(w, r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusServiceUnavailable)
		return
	}

	err = applyAction(sc, r.PathValue("kind"), r.FormValue("value"))
	if err != nil && !errors.Is(err, screen.ErrClosed) {
		http.Error(w, err.Error(), actionStatus(err))
		return
	}

	target := "/"
	if override := r.FormValue("theme"); override != "" {
		if tok, ok := theme.ParseToken(override); ok {
			target = "/?theme=" + string(tok)
		}
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}

type HealthStatus struct {
	Status   string `json:"status"`
	Sessions int    `json:"sessions"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(HealthStatus{Status: "ok", Sessions: s.sessions.Len()})
}
