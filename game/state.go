package game

import "sort"

// Indicator is a server-computed hint for how close a player is to going
// out. Clients render it but never compute it: that would require giving
// untrusted clients full board-legality logic for hidden hands.
type Indicator string

const (
	IndicatorNone     Indicator = "none"
	IndicatorWarning  Indicator = "warning"
	IndicatorCritical Indicator = "critical"
)

// indicatorFor classifies a player's hand against the live board. With three
// or fewer cards the player gets at least a warning; if every remaining card
// is playable on the board right now (regardless of whose turn it is) the
// player is critical. Recomputed on every snapshot since each play moves
// the board.
func (r *Room) indicatorFor(p *Player) Indicator {
	if len(p.Hand) == 0 || len(p.Hand) > 3 {
		return IndicatorNone
	}
	for _, c := range p.Hand {
		if !r.Board.IsLegal(c) {
			return IndicatorWarning
		}
	}
	return IndicatorCritical
}

// PlayerView is the public, per-player slice of a room snapshot.
type PlayerView struct {
	Name            string    `json:"name"`
	CardCount       int       `json:"cardCount"`
	Connected       bool      `json:"connected"`
	IsCurrentPlayer bool      `json:"isCurrentPlayer"`
	CumulativeScore int       `json:"cumulativeScore"`
	Indicator       Indicator `json:"indicator"`
}

// RoomState is the public snapshot broadcast to every socket in the room.
// It is a deep copy: the action loop may keep mutating the live room while
// the transport layer is still writing this out.
type RoomState struct {
	RoomCode          string       `json:"roomCode"`
	Players           []PlayerView `json:"players"`
	Board             Board        `json:"board"`
	Started           bool         `json:"started"`
	Round             int          `json:"round"`
	RoundsPlayed      int          `json:"roundsPlayed"`
	MaxRounds         int          `json:"maxRounds"`
	GameFinished      bool         `json:"gameFinished"`
	CurrentPlayerName string       `json:"currentPlayerName"`
}

// PlayerState is the private snapshot for one player: the public state plus
// their own hand, current legal moves and pass permission.
type PlayerState struct {
	RoomState
	MyCards    []Card `json:"myCards"`
	ValidMoves []Card `json:"validMoves"`
	CanPass    bool   `json:"canPass"`
}

// State builds the public snapshot.
func (r *Room) State() RoomState {
	players := make([]PlayerView, 0, len(r.Players))
	current := r.currentPlayer()
	for _, p := range r.Players {
		players = append(players, PlayerView{
			Name:            p.Name,
			CardCount:       len(p.Hand),
			Connected:       p.Connected,
			IsCurrentPlayer: p == current,
			CumulativeScore: p.TotalScore,
			Indicator:       r.indicatorFor(p),
		})
	}
	currentName := ""
	if current != nil {
		currentName = current.Name
	}
	return RoomState{
		RoomCode:          r.Code,
		Players:           players,
		Board:             r.Board.Clone(),
		Started:           r.Started,
		Round:             r.Round,
		RoundsPlayed:      r.RoundsPlayed,
		MaxRounds:         r.MaxRounds,
		GameFinished:      r.GameFinished,
		CurrentPlayerName: currentName,
	}
}

// PlayerState builds the private snapshot for the given player.
func (r *Room) PlayerState(playerID string) PlayerState {
	state := PlayerState{
		RoomState:  r.State(),
		MyCards:    []Card{},
		ValidMoves: r.ValidMoves(playerID),
	}
	if p := r.playerByID(playerID); p != nil {
		state.MyCards = append(state.MyCards, p.Hand...)
		state.CanPass = p == r.currentPlayer() && !r.CanPlay(playerID)
	}
	return state
}

// RoundScore is one player's result for a finished round.
type RoundScore struct {
	Name           string `json:"name"`
	Score          int    `json:"score"`
	IsWinner       bool   `json:"isWinner"`
	RemainingCards int    `json:"remainingCards"`
}

// RoundSummary is the outcome of one round: the player who went out plus
// everyone's leftover score, best (lowest) first.
type RoundSummary struct {
	Winner      string       `json:"winner"`
	FinalScores []RoundScore `json:"finalScores"`
}

func sortScoresAscending(rows []RoundScore) {
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].Score < rows[j].Score
	})
}

// TotalRow is one player's cumulative score across rounds.
type TotalRow struct {
	Name            string `json:"name"`
	CumulativeScore int    `json:"cumulativeScore"`
}

// Totals returns cumulative scores sorted ascending (lower is better).
func (r *Room) Totals() []TotalRow {
	rows := make([]TotalRow, 0, len(r.Players))
	for _, p := range r.Players {
		rows = append(rows, TotalRow{Name: p.Name, CumulativeScore: p.TotalScore})
	}
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].CumulativeScore < rows[j].CumulativeScore
	})
	return rows
}
