package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	log "github.com/sirupsen/logrus"
	"github.com/ukydev/eco-routes/internal/live"
	"github.com/ukydev/eco-routes/internal/rewards"
)

const writeTimeout = 10 * time.Second

// LiveHandler streams ledger snapshots over websockets. Every message is a
// full JSON snapshot; the subscription ends when the socket closes.
type LiveHandler struct {
	ledger   *rewards.Ledger
	upgrader websocket.Upgrader
}

// NewLiveHandler creates a new live stream handler
func NewLiveHandler(ledger *rewards.Ledger) *LiveHandler {
	return &LiveHandler{
		ledger: ledger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

// Profile streams the caller's profile
func (h *LiveHandler) Profile(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	conn, ctx, cancel, ok := h.upgrade(w, r)
	if !ok {
		return
	}
	defer cancel()
	stream(conn, cancel, h.ledger.SubscribeProfile(ctx, userID))
}

// Leaderboard streams the top of the leaderboard
func (h *LiveHandler) Leaderboard(w http.ResponseWriter, r *http.Request) {
	conn, ctx, cancel, ok := h.upgrade(w, r)
	if !ok {
		return
	}
	defer cancel()
	stream(conn, cancel, h.ledger.SubscribeLeaderboard(ctx))
}

// Garage streams the caller's garage
func (h *LiveHandler) Garage(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	conn, ctx, cancel, ok := h.upgrade(w, r)
	if !ok {
		return
	}
	defer cancel()
	stream(conn, cancel, h.ledger.SubscribeGarage(ctx, userID))
}

func (h *LiveHandler) upgrade(w http.ResponseWriter, r *http.Request) (*websocket.Conn, context.Context, context.CancelFunc, bool) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return nil, nil, nil, false
	}
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already replied to the client.
		log.WithError(err).Warn("Websocket upgrade failed")
		return nil, nil, nil, false
	}
	ctx, cancel := context.WithCancel(r.Context())
	return conn, ctx, cancel, true
}

// stream writes snapshots until the client goes away or the subscription
// ends. Incoming messages are discarded; a read error means the client left.
func stream[T any](conn *websocket.Conn, cancel context.CancelFunc, sub *live.Subscription[T]) {
	defer conn.Close()
	defer sub.Close()

	go func() {
		defer cancel()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for snapshot := range sub.C {
		if err := conn.SetWriteDeadline(time.Now().Add(writeTimeout)); err != nil {
			log.WithError(err).Debug("Live stream closed")
			return
		}
		if err := conn.WriteJSON(snapshot); err != nil {
			log.WithError(err).Debug("Live stream closed")
			return
		}
	}
}
