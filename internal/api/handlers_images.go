package api

import (
	"log"
	"net/http"

	"github.com/lox/pogoda/internal/imagegen"
	"github.com/lox/pogoda/internal/metrics"
)

// handleOGImage serves a share card of the current conditions painted with
// the theme gradient.
func (s *Server) handleOGImage(w http.ResponseWriter, r *http.Request) {
	location := r.URL.Query().Get("location")
	if location == "" {
		location = s.defaultLocation(r)
	}

	snap, err := s.source.Snapshot(r.Context(), location)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if snap == nil {
		http.NotFound(w, r)
		return
	}

	tok, _ := s.currentTheme(r)
	data := imagegen.OGImageData{
		Location:    snap.Location,
		Temperature: snap.Current.Temp,
		Condition:   snap.Current.Condition,
		Theme:       tok,
	}

	key := data.CacheKey()
	if img, ok := s.ogCache.Get(key); ok {
		metrics.OGImageRenders.WithLabelValues("hit").Inc()
		serveImage(w, img)
		return
	}

	img, err := imagegen.GenerateOGImage(data)
	if err != nil {
		log.Printf("og-image: %v", err)
		http.Error(w, "image generation failed", http.StatusInternalServerError)
		return
	}
	s.ogCache.Set(key, img)
	metrics.OGImageRenders.WithLabelValues("miss").Inc()
	serveImage(w, img)
}

func serveImage(w http.ResponseWriter, data []byte) {
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "public, max-age=600")
	w.Write(data)
}
