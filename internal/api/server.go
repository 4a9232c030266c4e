package api

import (
	"context"
	"html/template"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/time/rate"

	"github.com/lox/pogoda/internal/imagegen"
	"github.com/lox/pogoda/internal/metrics"
	"github.com/lox/pogoda/internal/models"
	"github.com/lox/pogoda/internal/session"
)

// WeatherSource provides the data the screens render.
type WeatherSource interface {
	Snapshot(ctx context.Context, location string) (*models.WeatherSnapshot, error)
	Cities(ctx context.Context) ([]models.CitySummary, error)
}

type Config struct {
	Port          string
	Location      *time.Location
	MutationRPS   float64
	MutationBurst int
	// Now overrides the wall clock used to pick the theme.
	Now func() time.Time
}

type Server struct {
	source   WeatherSource
	sessions *session.Registry
	port     string
	loc      *time.Location
	now      func() time.Time
	tmpl     *template.Template
	limiter  *rate.Limiter
	ogCache  *imagegen.Cache
	upgrader websocket.Upgrader
}

func NewServer(source WeatherSource, sessions *session.Registry, cfg Config) *Server {
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.MutationRPS <= 0 {
		cfg.MutationRPS = 20
	}
	if cfg.MutationBurst <= 0 {
		cfg.MutationBurst = 40
	}

	return &Server{
		source:   source,
		sessions: sessions,
		port:     cfg.Port,
		loc:      cfg.Location,
		now:      cfg.Now,
		tmpl:     newTemplates(),
		limiter:  rate.NewLimiter(rate.Limit(cfg.MutationRPS), cfg.MutationBurst),
		ogCache:  imagegen.NewCache(10 * time.Minute),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.handleIndex)
	mux.HandleFunc("POST /actions/{kind}", s.limited(s.handleAction))
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /og-image.png", s.handleOGImage)
	mux.HandleFunc("GET /ws", s.handleWS)
	mux.HandleFunc("POST /api/session", s.limited(s.handleAPIMount))
	mux.HandleFunc("DELETE /api/session", s.handleAPITeardown)
	mux.HandleFunc("GET /api/state", s.handleAPIState)
	mux.HandleFunc("POST /api/{kind}", s.limited(s.handleAPIAction))
	mux.HandleFunc("GET /api/weather", s.handleAPIWeather)
	mux.HandleFunc("GET /api/locations", s.handleAPILocations)
	mux.Handle("GET /metrics", promhttp.Handler())
	return mux
}

func (s *Server) Run(ctx context.Context) error {
	server := &http.Server{
		Addr:    ":" + s.port,
		Handler: s.Handler(),
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		server.Shutdown(shutdownCtx)
	}()

	if err := server.ListenAndServe(); err != http.ErrServerClosed {
		return err
	}
	return nil
}

// limited rejects requests once the mutation budget is spent.
func (s *Server) limited(h http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !s.limiter.Allow() {
			metrics.RateLimited.Inc()
			http.Error(w, "too many requests", http.StatusTooManyRequests)
			return
		}
		h(w, r)
	}
}
