package live

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
)

// Server upgrades admin list requests to WebSocket feeds.
type Server struct {
	hub      *Hub
	upgrader websocket.Upgrader
}

// NewServer accepts upgrades from the listed origins ("*" allows any).
// Requests without an Origin header are accepted.
func NewServer(hub *Hub, allowedOrigins []string) *Server {
	return &Server{
		hub: hub,
		upgrader: websocket.Upgrader{
			HandshakeTimeout: 10 * time.Second,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				if origin == "" {
					return true
				}
				for _, allowed := range allowedOrigins {
					if allowed == "*" || allowed == origin {
						return true
					}
				}
				return false
			},
		},
	}
}

// Handler streams collection c: the current list on connect, then the whole
// list again after every write. Client messages are ignored.
func (s *Server) Handler(c Collection) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := s.hub.logger.With().Str("collection", string(c)).Logger()

		snapshots, cancel, err := s.hub.Subscribe(r.Context(), c)
		if err != nil {
			logger.Error().Err(err).Msg("failed to subscribe")
			http.Error(w, "feed unavailable", http.StatusInternalServerError)
			return
		}
		defer cancel()

		conn, err := s.upgrader.Upgrade(w, r, nil)
		if err != nil {
			logger.Warn().Err(err).Msg("websocket upgrade failed")
			return
		}
		defer conn.Close()

		done := make(chan struct{})
		go readUntilClosed(conn, done)

		ticker := time.NewTicker(pingPeriod)
		defer ticker.Stop()

		logger.Debug().Msg("live feed connected")
		for {
			select {
			case snap, ok := <-snapshots:
				if !ok {
					return
				}
				_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
				if err := conn.WriteJSON(snap); err != nil {
					logger.Debug().Err(err).Msg("live feed write failed")
					return
				}
			case <-ticker.C:
				_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
				if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
					return
				}
			case <-done:
				logger.Debug().Msg("live feed closed by client")
				return
			case <-r.Context().Done():
				return
			}
		}
	}
}

func readUntilClosed(conn *websocket.Conn, done chan<- struct{}) {
	defer close(done)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}
