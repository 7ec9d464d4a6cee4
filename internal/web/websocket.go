package web

import (
	"log"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/arif-itm/FarmProof/internal/logger"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// handleActivityWS streams activity-log messages to a dashboard client:
// recent history first, then new messages as they arrive.
func (s *Server) handleActivityWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("WebSocket upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	// Send initial history oldest-first; GetRecent returns newest first.
	initial := s.logger.GetRecent(50)
	for i := len(initial) - 1; i >= 0; i-- {
		if err := conn.WriteJSON(initial[i]); err != nil {
			return
		}
	}

	ticker := time.NewTicker(500 * time.Millisecond)
	defer ticker.Stop()

	var lastSeen time.Time
	if len(initial) > 0 {
		lastSeen = initial[0].Timestamp
	}

	for {
		select {
		case <-r.Context().Done():
			return
		case <-ticker.C:
			recent := s.logger.GetRecent(20)

			var fresh []logger.Message
			for _, msg := range recent {
				if msg.Timestamp.After(lastSeen) {
					fresh = append(fresh, msg)
				}
			}

			for i := len(fresh) - 1; i >= 0; i-- {
				msg := fresh[i]
				if err := conn.WriteJSON(msg); err != nil {
					return
				}
				if msg.Timestamp.After(lastSeen) {
					lastSeen = msg.Timestamp
				}
			}
		}
	}
}

// handleDiagnosticsWS pushes a summary frame every two seconds.
func (s *Server) handleDiagnosticsWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("WebSocket upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	ticker := time.NewTicker(2 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case <-ticker.C:
			snap := s.store.Snapshot()
			msg := map[string]interface{}{
				"time":        time.Now().Format("2006-01-02 15:04:05"),
				"farmers":     len(snap.Farmers),
				"ledger":      len(snap.Ledger),
				"block":       snap.BlockNumber,
				"sse_clients": s.broker.count(),
			}
			if err := conn.WriteJSON(msg); err != nil {
				return
			}
		}
	}
}
