package api

import (
	"log"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/lox/pogoda/internal/screen"
)

const (
	wsWriteWait  = 10 * time.Second
	wsPingPeriod = 30 * time.Second
)

// handleWS streams the session's state: once on connect and again after
// every change, including the end of the loading view.
func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	id, sc, ok := s.lookupScreen(r)
	if !ok {
		http.Error(w, "unknown session", http.StatusNotFound)
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("ws: upgrade: %v", err)
		return
	}
	defer conn.Close()

	// Only the newest state matters, so a slow client skips intermediate ones.
	updates := make(chan screen.AppState, 1)
	cancel := sc.Subscribe(func(st screen.AppState) {
		select {
		case <-updates:
		default:
		}
		updates <- st
	})
	defer cancel()

	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	send := func() error {
		conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
		return conn.WriteJSON(s.stateResponse(id, sc))
	}
	if err := send(); err != nil {
		return
	}

	ticker := time.NewTicker(wsPingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-closed:
			return
		case <-updates:
			if err := send(); err != nil {
				return
			}
		case <-ticker.C:
			if sc.Closed() {
				conn.WriteControl(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseGoingAway, "session ended"),
					time.Now().Add(wsWriteWait))
				return
			}
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(wsWriteWait)); err != nil {
				return
			}
		}
	}
}
