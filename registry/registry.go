package registry

import (
	"context"
	"log/slog"
	"math/rand"
	"strings"
	"sync"
	"time"

	"badam-satti-server/config"
	"badam-satti-server/game"
)

const codeCharset = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// Registry maps room codes to live rooms. It owns room creation and the
// periodic sweep that reaps rooms with no connected players; everything
// else about a room is the room's own business.
type Registry struct {
	mu    sync.Mutex
	rooms map[string]*game.Room
	cfg   *config.Config
	store game.Persister
}

// New creates an empty registry. store may be nil (no persistence).
func New(cfg *config.Config, store game.Persister) *Registry {
	return &Registry{
		rooms: make(map[string]*game.Room),
		cfg:   cfg,
		store: store,
	}
}

// CreateRoom generates a unique room code, creates the room and starts its
// action loop. The creator joins through the room's own action channel like
// everyone else.
func (reg *Registry) CreateRoom() *game.Room {
	reg.mu.Lock()
	code := reg.generateCode()
	room := game.NewRoom(code, reg.cfg, reg.store)
	reg.rooms[code] = room
	reg.mu.Unlock()

	go room.Run()
	return room
}

// generateCode builds a fresh room code, retrying on collision with a live
// room. Caller holds reg.mu.
func (reg *Registry) generateCode() string {
	for {
		b := make([]byte, reg.cfg.RoomCodeLength)
		for i := range b {
			b[i] = codeCharset[rand.Intn(len(codeCharset))]
		}
		code := string(b)
		if _, exists := reg.rooms[code]; !exists {
			return code
		}
	}
}

// Get resolves a room code. Codes are case-insensitive on the wire.
func (reg *Registry) Get(code string) (*game.Room, bool) {
	code = strings.ToUpper(strings.TrimSpace(code))
	reg.mu.Lock()
	defer reg.mu.Unlock()
	room, ok := reg.rooms[code]
	return room, ok
}

// Count returns the number of live rooms.
func (reg *Registry) Count() int {
	reg.mu.Lock()
	defer reg.mu.Unlock()
	return len(reg.rooms)
}

// RunSweep reaps empty rooms on a fixed interval until ctx is cancelled.
// Run as a goroutine.
func (reg *Registry) RunSweep(ctx context.Context) {
	interval := time.Duration(reg.cfg.SweepIntervalSec) * time.Second
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			reg.Sweep()
		}
	}
}

// Sweep destroys every room with zero connected players. Freshly created
// rooms get one interval of grace so a creator whose join action is still
// in flight is not reaped.
func (reg *Registry) Sweep() {
	grace := time.Duration(reg.cfg.SweepIntervalSec) * time.Second

	reg.mu.Lock()
	var reaped []*game.Room
	for code, room := range reg.rooms {
		if room.LiveConnections() == 0 && time.Since(room.CreatedAt) > grace {
			delete(reg.rooms, code)
			reaped = append(reaped, room)
		}
	}
	reg.mu.Unlock()

	for _, room := range reaped {
		select {
		case room.Actions <- game.Action{Type: game.ActionShutdown}:
		case <-room.Done:
		}
		if reg.store != nil {
			reg.store.DeleteRoom(room.Code)
		}
		slog.Info("reaped empty room", "tag", "registry", "room", room.Code)
	}
}
