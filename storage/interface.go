package storage

import (
	"context"
	"time"
)

// RoundRecord is one finished round as stored in round_history.
type RoundRecord struct {
	ID         string    `json:"id"`
	RoomCode   string    `json:"roomCode"`
	Round      int       `json:"round"`
	Winner     string    `json:"winner"`
	FinishedAt time.Time `json:"finishedAt"`
}

// RoomStore abstracts persistence for room snapshots and round history.
// Snapshot and result writes are fire-and-forget: in-memory room state is
// authoritative, so a failed write is logged and dropped, never retried
// against live state.
type RoomStore interface {
	SaveRoomState(roomCode string, state []byte)
	SaveRoundResult(roomCode string, round int, winner string, results []byte)
	DeleteRoom(roomCode string)

	ListRecentRounds(ctx context.Context, limit int) ([]RoundRecord, error)

	Close()
}

// Ensure *Store implements RoomStore at compile time.
var _ RoomStore = (*Store)(nil)
