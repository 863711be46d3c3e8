package ws

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"badam-satti-server/config"
	"badam-satti-server/game"
	"badam-satti-server/ratelimit"
	"badam-satti-server/registry"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Allow all origins for development; restrict in production.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Hub maintains the set of active clients and hands disconnects to the
// owning room's action loop.
type Hub struct {
	Clients    map[*Client]bool
	Register   chan *Client
	Unregister chan *Client
	Registry   *registry.Registry
	Config     *config.Config
	Limiter    *ratelimit.Limiter
}

// NewHub creates a new Hub.
func NewHub(cfg *config.Config, reg *registry.Registry) *Hub {
	return &Hub{
		Clients:    make(map[*Client]bool),
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
		Registry:   reg,
		Config:     cfg,
		Limiter:    ratelimit.New(cfg.RateLimitPerSec, cfg.RateLimitBurst),
	}
}

// Run starts the hub's main loop. Should be run as a goroutine.
// When ctx is cancelled the loop returns and no longer accepts registrations.
func (h *Hub) Run(ctx context.Context) {
	prune := time.NewTicker(10 * time.Minute)
	defer prune.Stop()
	for {
		select {
		case <-ctx.Done():
			slog.Info("hub stopping", "tag", "ws")
			return
		case client := <-h.Register:
			h.Clients[client] = true
			slog.Info("client connected", "tag", "ws", "total", len(h.Clients))

		case client := <-h.Unregister:
			if _, ok := h.Clients[client]; ok {
				delete(h.Clients, client)
				close(client.Send)
				slog.Info("client disconnected", "tag", "ws", "total", len(h.Clients))

				// Hand the disconnect to the room so the turn is
				// relinquished and the room never stalls on an absent player.
				if room := client.Room; room != nil {
					select {
					case room.Actions <- game.Action{Type: game.ActionDisconnect, PlayerID: client.ID}:
					case <-room.Done:
					}
				}
			}

		case <-prune.C:
			h.Limiter.Prune()
		}
	}
}

// ServeWS handles WebSocket upgrade requests and creates a new Client.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Error("websocket upgrade", "tag", "ws", "err", err)
		return
	}

	client := &Client{
		Hub:  h,
		Conn: conn,
		Send: make(chan []byte, 256),
		ID:   uuid.NewString(),
	}

	h.Register <- client

	go client.WritePump()
	go client.ReadPump()
}
