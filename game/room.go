package game

import (
	"sync/atomic"
	"time"

	"badam-satti-server/config"
	"badam-satti-server/roomerrors"
)

// Persister abstracts the storage layer so the game package does not import
// the storage package directly (avoids circular deps). All writes are
// fire-and-forget: in-memory room state is authoritative and is never
// blocked on a durable write.
type Persister interface {
	SaveRoomState(roomCode string, state []byte)
	SaveRoundResult(roomCode string, round int, winner string, results []byte)
	DeleteRoom(roomCode string)
}

// Room is the authoritative state machine for one game room. All mutation
// happens inside the Run loop; the rule methods below are only called from
// there (or from tests, which own the room outright).
type Room struct {
	Code               string
	Players            []*Player // join order; index 0 is the creator/host
	Board              *Board
	CurrentPlayerIndex int
	Started            bool
	GameFinished       bool
	Round              int
	RoundsPlayed       int
	MaxRounds          int
	Config             *config.Config
	Store              Persister
	CreatedAt          time.Time

	// LastSummary holds the result of the most recently finished round.
	LastSummary *RoundSummary

	Actions chan Action
	Done    chan struct{}

	// live is the connected-player count, maintained by the action loop and
	// read by the registry sweep without entering the loop.
	live atomic.Int32
}

// NewRoom creates a room in the waiting state. The caller starts the action
// loop with go room.Run().
func NewRoom(code string, cfg *config.Config, store Persister) *Room {
	return &Room{
		Code:      code,
		Players:   []*Player{},
		Board:     NewBoard(),
		Round:     1,
		MaxRounds: cfg.MaxRounds,
		Config:    cfg,
		Store:     store,
		CreatedAt: time.Now(),
		Actions:   make(chan Action, 32),
		Done:      make(chan struct{}),
	}
}

// LiveConnections returns the number of connected players. Safe to call from
// outside the action loop; used by the registry sweep.
func (r *Room) LiveConnections() int {
	return int(r.live.Load())
}

func (r *Room) playerByID(id string) *Player {
	for _, p := range r.Players {
		if p.ID == id {
			return p
		}
	}
	return nil
}

func (r *Room) playerByName(name string) *Player {
	for _, p := range r.Players {
		if p.Name == name {
			return p
		}
	}
	return nil
}

func (r *Room) currentPlayer() *Player {
	if len(r.Players) == 0 || r.CurrentPlayerIndex >= len(r.Players) {
		return nil
	}
	return r.Players[r.CurrentPlayerIndex]
}

// AddPlayer appends a player in join order. Name uniqueness is
// case-sensitive within the room.
func (r *Room) AddPlayer(id, name string, send chan []byte) error {
	if r.Started {
		return roomerrors.ErrGameStarted
	}
	if len(r.Players) >= r.Config.MaxPlayers {
		return roomerrors.ErrRoomFull
	}
	if r.playerByName(name) != nil {
		return roomerrors.ErrUsernameTaken
	}
	r.Players = append(r.Players, NewPlayer(id, name, send))
	return nil
}

// StartGame deals a fresh shuffled deck and auto-plays the 7 of hearts on
// behalf of its holder, which advances the turn to the next connected player
// through the normal PlayCard path.
func (r *Room) StartGame() error {
	if r.Started {
		return roomerrors.ErrGameStarted
	}
	if len(r.Players) < r.Config.MinPlayers {
		return roomerrors.ErrNotEnoughPlayers
	}
	r.Started = true
	r.Board.Reset()
	r.openRound()
	return nil
}

// openRound deals hands and auto-plays the anchor card. Shared by StartGame
// and ContinueRound.
func (r *Room) openRound() {
	r.deal()
	for i, p := range r.Players {
		if p.HasCard(AnchorCard) {
			r.CurrentPlayerIndex = i
			break
		}
	}
	// The holder always has the anchor, so this cannot fail.
	_ = r.PlayCard(r.Players[r.CurrentPlayerIndex].ID, AnchorCard)
}

// deal distributes all 52 cards as evenly as possible: every player gets
// floor(52/N), then the remainder goes round-robin starting at player 0.
// Hands are sorted once here.
func (r *Room) deal() {
	deck := NewDeck()
	ShuffleDeck(deck)

	for _, p := range r.Players {
		p.Hand = []Card{}
	}

	n := len(r.Players)
	perPlayer := len(deck) / n
	idx := 0
	for i := 0; i < perPlayer; i++ {
		for _, p := range r.Players {
			p.Hand = append(p.Hand, deck[idx])
			idx++
		}
	}
	for pi := 0; idx < len(deck); pi = (pi + 1) % n {
		r.Players[pi].Hand = append(r.Players[pi].Hand, deck[idx])
		idx++
	}

	for _, p := range r.Players {
		SortHand(p.Hand)
	}
}

// PlayCard validates and applies one card play. On success the card moves
// from the hand to the board; an emptied hand finishes the round, otherwise
// the turn advances to the next connected player. Rejected plays leave the
// room untouched.
func (r *Room) PlayCard(playerID string, c Card) error {
	if r.GameFinished {
		return roomerrors.ErrRoundOver
	}
	p := r.playerByID(playerID)
	if p == nil {
		return roomerrors.ErrNotInRoom
	}
	if p != r.currentPlayer() {
		return roomerrors.ErrNotYourTurn
	}
	if !p.HasCard(c) {
		return roomerrors.ErrCardNotHeld
	}
	if !r.Board.IsLegal(c) {
		return roomerrors.ErrIllegalMove
	}

	p.RemoveCard(c)
	r.Board.Apply(c)

	if len(p.Hand) == 0 {
		r.finishRound(p)
	} else {
		r.NextTurn()
	}
	return nil
}

// PassTurn advances the turn, but only when the player truly has no legal
// move. The check is server-side; the client's claim is never trusted.
func (r *Room) PassTurn(playerID string) error {
	if r.GameFinished {
		return roomerrors.ErrRoundOver
	}
	p := r.playerByID(playerID)
	if p == nil {
		return roomerrors.ErrNotInRoom
	}
	if p != r.currentPlayer() {
		return roomerrors.ErrNotYourTurn
	}
	if r.CanPlay(playerID) {
		return roomerrors.ErrHasLegalMove
	}
	r.NextTurn()
	return nil
}

// CanPlay reports whether the player is the current player and holds at
// least one card legal on the live board.
func (r *Room) CanPlay(playerID string) bool {
	p := r.playerByID(playerID)
	if p == nil || p != r.currentPlayer() {
		return false
	}
	for _, c := range p.Hand {
		if r.Board.IsLegal(c) {
			return true
		}
	}
	return false
}

// ValidMoves returns the player's currently legal cards, or nothing when it
// is not their turn.
func (r *Room) ValidMoves(playerID string) []Card {
	moves := []Card{}
	p := r.playerByID(playerID)
	if p == nil || p != r.currentPlayer() {
		return moves
	}
	for _, c := range p.Hand {
		if r.Board.IsLegal(c) {
			moves = append(moves, c)
		}
	}
	return moves
}

// finishRound scores every player's leftover cards, accumulates totals and
// marks the round over. The winner is the player who emptied their hand and
// scores zero for the round.
func (r *Room) finishRound(winner *Player) {
	rows := make([]RoundScore, 0, len(r.Players))
	for _, p := range r.Players {
		roundScore := p.HandScore()
		p.TotalScore += roundScore
		rows = append(rows, RoundScore{
			Name:           p.Name,
			Score:          roundScore,
			IsWinner:       p == winner,
			RemainingCards: len(p.Hand),
		})
	}
	sortScoresAscending(rows)
	r.GameFinished = true
	r.LastSummary = &RoundSummary{Winner: winner.Name, FinalScores: rows}
}

// ContinueRound starts the next round: fresh board, fresh deal, anchor
// auto-play. Players and cumulative scores carry over.
func (r *Room) ContinueRound() error {
	if !r.GameFinished {
		return roomerrors.ErrRoundNotOver
	}
	r.Round++
	r.RoundsPlayed++
	r.GameFinished = false
	r.Board.Reset()
	r.openRound()
	return nil
}

// RemovePlayer takes a player out of the room. With redistribute set (only
// meaningful mid-game) their remaining cards go round-robin to the other
// players in join order; hands are not re-sorted, so the random card order
// is preserved. The turn pointer is shifted so it keeps naming the same
// player; if the removed player held the turn the caller advances it
// explicitly with NextTurn.
func (r *Room) RemovePlayer(id string, redistribute bool) *Player {
	idx := -1
	for i, p := range r.Players {
		if p.ID == id {
			idx = i
			break
		}
	}
	if idx == -1 {
		return nil
	}
	removed := r.Players[idx]
	r.Players = append(r.Players[:idx], r.Players[idx+1:]...)

	if redistribute && len(removed.Hand) > 0 && len(r.Players) > 0 {
		for i, c := range removed.Hand {
			r.Players[i%len(r.Players)].Hand = append(r.Players[i%len(r.Players)].Hand, c)
		}
	}

	if idx < r.CurrentPlayerIndex {
		r.CurrentPlayerIndex--
	}
	if r.CurrentPlayerIndex >= len(r.Players) {
		r.CurrentPlayerIndex = 0
	}
	return removed
}

// NextTurn advances to the next connected player, wrapping around. The
// search is bounded by the player count so a room where everyone is
// disconnected cannot livelock.
func (r *Room) NextTurn() {
	n := len(r.Players)
	if n == 0 {
		return
	}
	r.CurrentPlayerIndex = (r.CurrentPlayerIndex + 1) % n
	attempts := 0
	for !r.Players[r.CurrentPlayerIndex].Connected && attempts < n {
		r.CurrentPlayerIndex = (r.CurrentPlayerIndex + 1) % n
		attempts++
	}
}

// ConnectedCount counts currently connected players.
func (r *Room) ConnectedCount() int {
	n := 0
	for _, p := range r.Players {
		if p.Connected {
			n++
		}
	}
	return n
}

// TotalCards returns cards in hands plus cards on the board. During a round
// this is always 52 (no card lost or duplicated).
func (r *Room) TotalCards() int {
	n := r.Board.CardCount()
	for _, p := range r.Players {
		n += len(p.Hand)
	}
	return n
}
