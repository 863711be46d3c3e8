package game

import (
	"encoding/json"
	"fmt"
	"log/slog"

	"badam-satti-server/roomerrors"
	"badam-satti-server/wsutil"
)

// ActionType enumerates the commands a room can process.
type ActionType int

const (
	ActionJoin ActionType = iota
	ActionStart
	ActionPlayCard
	ActionPassTurn
	ActionContinueRound
	ActionExitGame
	ActionGetState
	ActionDisconnect
	ActionReconnect
	ActionShutdown // registry is reaping the room
)

// Action is one command sent into the room's action channel. PlayerID is the
// sender's connection identity; Send is their send channel, used for error
// replies and for binding a seat on join/reconnect.
//
// Result, when non-nil, receives the outcome of a join or reconnect so the
// transport layer can commit its room binding only on success. It must be
// buffered; the loop never blocks on it.
type Action struct {
	Type      ActionType
	PlayerID  string
	Name      string
	Card      Card
	Send      chan []byte
	AsCreator bool
	Result    chan error
}

// reply reports a join/reconnect outcome without blocking the loop.
func (a Action) reply(err error) {
	if a.Result == nil {
		return
	}
	select {
	case a.Result <- err:
	default:
	}
}

// Run is the room's main loop. It processes actions strictly sequentially,
// which is the whole concurrency story: no lock is ever taken on room state.
// Run as a goroutine; it exits on ActionShutdown or channel close.
func (r *Room) Run() {
	defer close(r.Done)

	for {
		action, ok := <-r.Actions
		if !ok {
			return
		}
		switch action.Type {
		case ActionJoin:
			r.handleJoin(action)
		case ActionStart:
			r.handleStart(action)
		case ActionPlayCard:
			r.handlePlayCard(action)
		case ActionPassTurn:
			r.handlePassTurn(action)
		case ActionContinueRound:
			r.handleContinueRound(action)
		case ActionExitGame:
			r.handleExitGame(action)
		case ActionGetState:
			r.handleGetState(action)
		case ActionDisconnect:
			r.handleDisconnect(action)
		case ActionReconnect:
			r.handleReconnect(action)
		case ActionShutdown:
			return
		}
	}
}

func (r *Room) unicast(send chan []byte, v interface{}) {
	if send == nil {
		return
	}
	data, err := json.Marshal(v)
	if err != nil {
		slog.Error("marshaling event", "tag", "room", "room", r.Code, "err", err)
		return
	}
	wsutil.SafeSend(send, data)
}

func (r *Room) broadcast(v interface{}) {
	data, err := json.Marshal(v)
	if err != nil {
		slog.Error("marshaling event", "tag", "room", "room", r.Code, "err", err)
		return
	}
	for _, p := range r.Players {
		if p.Connected && p.Send != nil {
			wsutil.SafeSend(p.Send, data)
		}
	}
}

func (r *Room) broadcastExcept(skip *Player, v interface{}) {
	data, err := json.Marshal(v)
	if err != nil {
		slog.Error("marshaling event", "tag", "room", "room", r.Code, "err", err)
		return
	}
	for _, p := range r.Players {
		if p != skip && p.Connected && p.Send != nil {
			wsutil.SafeSend(p.Send, data)
		}
	}
}

func (r *Room) sendError(send chan []byte, err error) {
	r.unicast(send, ErrorEvent{Type: "error", Message: err.Error()})
}

// broadcastHands unicasts each connected player their private hand and
// current legal moves. Hands are copied; the loop may mutate them before the
// network write completes.
func (r *Room) broadcastHands() {
	for _, p := range r.Players {
		if !p.Connected || p.Send == nil {
			continue
		}
		r.unicast(p.Send, YourCardsEvent{
			Type:       "your_cards",
			Cards:      append([]Card{}, p.Hand...),
			ValidMoves: r.ValidMoves(p.ID),
			CanPass:    p == r.currentPlayer() && !r.CanPlay(p.ID),
		})
	}
}

// persist writes the public snapshot through the fire-and-forget store.
func (r *Room) persist() {
	if r.Store == nil {
		return
	}
	data, err := json.Marshal(r.State())
	if err != nil {
		slog.Error("marshaling room state", "tag", "room", "room", r.Code, "err", err)
		return
	}
	r.Store.SaveRoomState(r.Code, data)
}

func (r *Room) persistRound() {
	if r.Store == nil || r.LastSummary == nil {
		return
	}
	data, err := json.Marshal(r.LastSummary)
	if err != nil {
		slog.Error("marshaling round summary", "tag", "room", "room", r.Code, "err", err)
		return
	}
	r.Store.SaveRoundResult(r.Code, r.Round, r.LastSummary.Winner, data)
}

func (r *Room) handleJoin(a Action) {
	if err := r.AddPlayer(a.PlayerID, a.Name, a.Send); err != nil {
		r.sendError(a.Send, err)
		a.reply(err)
		return
	}
	a.reply(nil)
	r.live.Add(1)

	if a.AsCreator {
		r.unicast(a.Send, RoomCreatedEvent{
			Type:      "room_created",
			RoomCode:  r.Code,
			GameState: r.PlayerState(a.PlayerID),
		})
		slog.Info("room created", "tag", "room", "room", r.Code, "player", a.Name)
	} else {
		r.unicast(a.Send, RoomJoinedEvent{
			Type:      "room_joined",
			RoomCode:  r.Code,
			GameState: r.PlayerState(a.PlayerID),
		})
		r.broadcast(PlayerJoinedEvent{
			Type:       "player_joined",
			PlayerName: a.Name,
			GameState:  r.State(),
		})
		slog.Info("player joined", "tag", "room", "room", r.Code, "player", a.Name)
	}
	r.persist()
}

func (r *Room) handleStart(a Action) {
	if len(r.Players) == 0 || r.Players[0].ID != a.PlayerID {
		r.sendError(a.Send, roomerrors.ErrNotHost)
		return
	}
	if err := r.StartGame(); err != nil {
		r.sendError(a.Send, err)
		return
	}
	slog.Info("game started", "tag", "room", "room", r.Code, "players", len(r.Players))
	r.broadcast(GameStartedEvent{Type: "game_started", GameState: r.State()})
	r.broadcastHands()
	r.persist()
}

func (r *Room) handlePlayCard(a Action) {
	p := r.playerByID(a.PlayerID)
	if p == nil {
		r.sendError(a.Send, roomerrors.ErrNotInRoom)
		return
	}
	if err := r.PlayCard(a.PlayerID, a.Card); err != nil {
		r.sendError(a.Send, err)
		return
	}
	r.broadcast(CardPlayedEvent{
		Type:       "card_played",
		PlayerName: p.Name,
		Card:       a.Card,
		GameState:  r.State(),
	})
	r.broadcastHands()

	if r.GameFinished {
		slog.Info("round finished", "tag", "room", "room", r.Code, "winner", r.LastSummary.Winner, "round", r.Round)
		r.broadcast(GameOverEvent{
			Type:        "game_over",
			Result:      "game_complete",
			Winner:      r.LastSummary.Winner,
			FinalScores: r.LastSummary.FinalScores,
		})
		r.persistRound()
	}
	r.persist()
}

func (r *Room) handlePassTurn(a Action) {
	p := r.playerByID(a.PlayerID)
	if p == nil {
		r.sendError(a.Send, roomerrors.ErrNotInRoom)
		return
	}
	if err := r.PassTurn(a.PlayerID); err != nil {
		r.sendError(a.Send, err)
		return
	}
	r.broadcast(TurnPassedEvent{
		Type:       "turn_passed",
		PlayerName: p.Name,
		GameState:  r.State(),
	})
	r.broadcastHands()
	r.persist()
}

func (r *Room) handleContinueRound(a Action) {
	if r.playerByID(a.PlayerID) == nil {
		r.sendError(a.Send, roomerrors.ErrNotInRoom)
		return
	}
	if err := r.ContinueRound(); err != nil {
		r.sendError(a.Send, err)
		return
	}
	slog.Info("round continued", "tag", "room", "room", r.Code, "round", r.Round)
	r.broadcast(RoundContinuedEvent{Type: "round_continued", GameState: r.State()})
	r.broadcastHands()
	r.persist()
}

func (r *Room) handleExitGame(a Action) {
	if r.playerByID(a.PlayerID) == nil {
		r.sendError(a.Send, roomerrors.ErrNotInRoom)
		return
	}
	totals := r.Totals()
	winner, loser := "", ""
	if len(totals) > 0 {
		winner = totals[0].Name
		loser = totals[len(totals)-1].Name
	}
	r.broadcast(GameTotalsEvent{
		Type:   "game_totals",
		Totals: totals,
		Winner: winner,
		Loser:  loser,
	})
	r.Started = false
	r.GameFinished = true
	slog.Info("game exited", "tag", "room", "room", r.Code, "winner", winner)
	r.persist()
}

func (r *Room) handleGetState(a Action) {
	if r.playerByID(a.PlayerID) == nil {
		r.sendError(a.Send, roomerrors.ErrNotInRoom)
		return
	}
	r.unicast(a.Send, GameStateEvent{Type: "game_state", PlayerState: r.PlayerState(a.PlayerID)})
}

// handleDisconnect is best-effort cleanup; it never fails. With reconnection
// enabled mid-game the seat is kept and only marked disconnected. Otherwise
// the player is removed and, mid-round, their cards are redistributed.
func (r *Room) handleDisconnect(a Action) {
	p := r.playerByID(a.PlayerID)
	if p == nil {
		return
	}
	wasCurrent := p == r.currentPlayer()

	if r.Config.AllowReconnect && r.Started && !r.GameFinished {
		p.Connected = false
		p.Send = nil
		r.live.Add(-1)
		if wasCurrent {
			r.NextTurn()
		}
		slog.Info("player disconnected, seat held", "tag", "room", "room", r.Code, "player", p.Name)
		r.broadcast(PlayerDisconnectedEvent{
			Type:       "player_disconnected",
			PlayerName: p.Name,
			GameState:  r.State(),
		})
		r.persist()
		return
	}

	wasStarted := r.Started
	removed := r.RemovePlayer(a.PlayerID, wasStarted)
	r.live.Add(-1)
	if wasStarted && wasCurrent && !r.GameFinished {
		r.NextTurn()
	}
	slog.Info("player left", "tag", "room", "room", r.Code, "player", removed.Name)
	r.broadcast(PlayerDisconnectedEvent{
		Type:       "player_disconnected",
		PlayerName: removed.Name,
		GameState:  r.State(),
	})

	if wasStarted && !r.GameFinished && len(r.Players) > 0 {
		if len(r.Players) == 1 {
			r.GameFinished = true
			r.broadcast(GameOverEvent{
				Type:    "game_over",
				Result:  "all_players_left",
				Winner:  r.Players[0].Name,
				Message: "All other players have left the game",
			})
		} else {
			r.broadcast(CardsRedistributedEvent{
				Type:                   "cards_redistributed",
				Message:                fmt.Sprintf("%s's cards have been redistributed", removed.Name),
				RedistributedCardCount: len(removed.Hand),
			})
			r.broadcastHands()
		}
	}
	r.persist()
}

// handleReconnect rebinds an existing seat to a new connection, found by
// username. The seat's identity becomes the new connection's ID, exactly as
// the seat originally bound to the joining connection.
func (r *Room) handleReconnect(a Action) {
	if !r.Config.AllowReconnect {
		r.sendError(a.Send, roomerrors.ErrReconnectOff)
		a.reply(roomerrors.ErrReconnectOff)
		return
	}
	p := r.playerByName(a.Name)
	if p == nil {
		r.sendError(a.Send, roomerrors.ErrPlayerNotFound)
		a.reply(roomerrors.ErrPlayerNotFound)
		return
	}
	a.reply(nil)
	if !p.Connected {
		r.live.Add(1)
	}
	p.ID = a.PlayerID
	p.Connected = true
	p.Send = a.Send

	slog.Info("player reconnected", "tag", "room", "room", r.Code, "player", p.Name)
	r.unicast(a.Send, ReconnectedEvent{Type: "reconnected", GameState: r.PlayerState(p.ID)})
	r.broadcastExcept(p, PlayerReconnectedEvent{
		Type:       "player_reconnected",
		PlayerName: p.Name,
		GameState:  r.State(),
	})
	r.persist()
}
