package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"badam-satti-server/config"
	"badam-satti-server/storage"
)

// RoomCounter is the slice of the registry the API needs.
type RoomCounter interface {
	Count() int
}

// Handler holds dependencies for the HTTP API handlers.
type Handler struct {
	Config *config.Config
	Store  *storage.Store
	Rooms  RoomCounter
}

// NewHandler creates a new API handler with the given dependencies.
func NewHandler(cfg *config.Config, store *storage.Store, rooms RoomCounter) *Handler {
	return &Handler{Config: cfg, Store: store, Rooms: rooms}
}

// CORS sets CORS headers on the response. Call before writing body; returns
// true when the request was a preflight and is already answered.
func CORS(w http.ResponseWriter, r *http.Request) bool {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
	if r.Method == http.MethodOptions {
		w.WriteHeader(http.StatusNoContent)
		return true
	}
	return false
}

// HealthResponse is the JSON structure for /health.
type HealthResponse struct {
	Status    string `json:"status"`
	Rooms     int    `json:"rooms"`
	Timestamp string `json:"timestamp"`
}

// Health reports liveness and the number of active rooms.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	if CORS(w, r) {
		return
	}
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	resp := HealthResponse{
		Status:    "ok",
		Rooms:     h.Rooms.Count(),
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		slog.Error("encoding health response", "tag", "api", "err", err)
	}
}

// History returns the most recently finished rounds.
func (h *Handler) History(w http.ResponseWriter, r *http.Request) {
	if CORS(w, r) {
		return
	}
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	records, err := h.Store.ListRecentRounds(r.Context(), limit)
	if err != nil {
		slog.Error("listing round history", "tag", "api", "err", err)
		http.Error(w, "failed to load history", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(records); err != nil {
		slog.Error("encoding history response", "tag", "api", "err", err)
	}
}
