package storage

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// writeTimeout bounds each background write so a slow database cannot pile
// up goroutines forever.
const writeTimeout = 5 * time.Second

const createTableSQL = `
CREATE TABLE IF NOT EXISTS game_rooms (
	room_code  TEXT PRIMARY KEY,
	game_state JSONB NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE TABLE IF NOT EXISTS round_history (
	id          UUID PRIMARY KEY,
	room_code   TEXT NOT NULL,
	round       INT NOT NULL,
	winner      TEXT NOT NULL,
	results     JSONB NOT NULL,
	finished_at TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS idx_round_history_room ON round_history(room_code);
CREATE INDEX IF NOT EXISTS idx_round_history_finished ON round_history(finished_at DESC);
`

// Store persists room snapshots and round history in Postgres.
type Store struct {
	pool *pgxpool.Pool
}

// NewStore connects to Postgres and ensures the tables exist. If
// databaseURL is empty, NewStore returns (nil, nil) and no persistence
// occurs; every Store method is nil-receiver safe.
func NewStore(ctx context.Context, databaseURL string) (*Store, error) {
	if databaseURL == "" {
		return nil, nil
	}
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, err
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	if _, err := pool.Exec(ctx, createTableSQL); err != nil {
		pool.Close()
		return nil, err
	}
	return &Store{pool: pool}, nil
}

// SaveRoomState upserts the room's public snapshot. Fire-and-forget.
func (s *Store) SaveRoomState(roomCode string, state []byte) {
	if s == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
		defer cancel()
		_, err := s.pool.Exec(ctx, `
			INSERT INTO game_rooms (room_code, game_state, updated_at)
			VALUES ($1, $2, now())
			ON CONFLICT (room_code)
			DO UPDATE SET game_state = EXCLUDED.game_state, updated_at = now()`,
			roomCode, state)
		if err != nil {
			slog.Error("saving room state", "tag", "storage", "room", roomCode, "err", err)
		}
	}()
}

// SaveRoundResult records one finished round. Fire-and-forget.
func (s *Store) SaveRoundResult(roomCode string, round int, winner string, results []byte) {
	if s == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
		defer cancel()
		_, err := s.pool.Exec(ctx, `
			INSERT INTO round_history (id, room_code, round, winner, results)
			VALUES ($1, $2, $3, $4, $5)`,
			uuid.NewString(), roomCode, round, winner, results)
		if err != nil {
			slog.Error("saving round result", "tag", "storage", "room", roomCode, "err", err)
		}
	}()
}

// DeleteRoom removes the room's snapshot row when the registry reaps it.
// Round history is kept. Fire-and-forget.
func (s *Store) DeleteRoom(roomCode string) {
	if s == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
		defer cancel()
		_, err := s.pool.Exec(ctx, `DELETE FROM game_rooms WHERE room_code = $1`, roomCode)
		if err != nil {
			slog.Error("deleting room", "tag", "storage", "room", roomCode, "err", err)
		}
	}()
}

// ListRecentRounds returns the most recently finished rounds, newest first.
func (s *Store) ListRecentRounds(ctx context.Context, limit int) ([]RoundRecord, error) {
	if s == nil {
		return []RoundRecord{}, nil
	}
	rows, err := s.pool.Query(ctx, `
		SELECT id, room_code, round, winner, finished_at
		FROM round_history
		ORDER BY finished_at DESC
		LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	records := []RoundRecord{}
	for rows.Next() {
		var rec RoundRecord
		if err := rows.Scan(&rec.ID, &rec.RoomCode, &rec.Round, &rec.Winner, &rec.FinishedAt); err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// Close releases the connection pool.
func (s *Store) Close() {
	if s == nil {
		return
	}
	s.pool.Close()
}
