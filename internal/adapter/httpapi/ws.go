package httpapi

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/skycastapp/skycast/internal/controller"
)

const wsWriteTimeout = 10 * time.Second

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// The dashboard is same-origin; the API carries no credentials.
	CheckOrigin: func(*http.Request) bool { return true },
}

// handleWebsocket streams snapshot updates to a connected dashboard. The
// current snapshot is sent immediately so a reconnecting client never renders
// empty.
func (s *Server) handleWebsocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	s.metrics.WebsocketClients.Inc()
	defer s.metrics.WebsocketClients.Dec()

	updates, cancel := s.dashboard.Subscribe()
	defer cancel()

	// Reader loop exists only to notice the client going away.
	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	if err := writeSnapshot(conn, s.dashboard.Snapshot()); err != nil {
		return
	}

	for {
		select {
		case <-closed:
			return
		case snap := <-updates:
			if err := writeSnapshot(conn, snap); err != nil {
				return
			}
		}
	}
}

func writeSnapshot(conn *websocket.Conn, snap controller.Snapshot) error {
	conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout)) //nolint:errcheck
	return conn.WriteJSON(snap)
}
