package game

// Server-to-client events. Every message carries a top-level "type" field;
// one struct per event keeps the payload shapes closed and greppable.

// ErrorEvent goes only to the client whose command was rejected.
type ErrorEvent struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

// RoomCreatedEvent confirms room creation to the creator.
type RoomCreatedEvent struct {
	Type      string      `json:"type"`
	RoomCode  string      `json:"roomCode"`
	GameState PlayerState `json:"gameState"`
}

// RoomJoinedEvent confirms a successful join to the joining client.
type RoomJoinedEvent struct {
	Type      string      `json:"type"`
	RoomCode  string      `json:"roomCode"`
	GameState PlayerState `json:"gameState"`
}

// PlayerJoinedEvent tells the whole room someone joined.
type PlayerJoinedEvent struct {
	Type       string    `json:"type"`
	PlayerName string    `json:"playerName"`
	GameState  RoomState `json:"gameState"`
}

// GameStartedEvent tells the whole room the game began.
type GameStartedEvent struct {
	Type      string    `json:"type"`
	GameState RoomState `json:"gameState"`
}

// YourCardsEvent is a per-player unicast with the private hand.
type YourCardsEvent struct {
	Type       string `json:"type"`
	Cards      []Card `json:"cards"`
	ValidMoves []Card `json:"validMoves"`
	CanPass    bool   `json:"canPass"`
}

// CardPlayedEvent announces a successful play to the whole room.
type CardPlayedEvent struct {
	Type       string    `json:"type"`
	PlayerName string    `json:"playerName"`
	Card       Card      `json:"card"`
	GameState  RoomState `json:"gameState"`
}

// TurnPassedEvent announces a pass to the whole room.
type TurnPassedEvent struct {
	Type       string    `json:"type"`
	PlayerName string    `json:"playerName"`
	GameState  RoomState `json:"gameState"`
}

// GameOverEvent ends a round. Result is "game_complete" when a player
// emptied their hand, or "all_players_left" when only one player remains.
type GameOverEvent struct {
	Type        string       `json:"type"`
	Result      string       `json:"result"`
	Winner      string       `json:"winner"`
	FinalScores []RoundScore `json:"finalScores,omitempty"`
	Message     string       `json:"message,omitempty"`
}

// CardsRedistributedEvent tells the room a leaver's cards were dealt out.
type CardsRedistributedEvent struct {
	Type                   string `json:"type"`
	Message                string `json:"message"`
	RedistributedCardCount int    `json:"redistributedCardCount"`
}

// RoundContinuedEvent announces the next round after a continue.
type RoundContinuedEvent struct {
	Type      string    `json:"type"`
	GameState RoomState `json:"gameState"`
}

// GameTotalsEvent carries cumulative totals when the match is exited,
// sorted ascending (lowest total wins).
type GameTotalsEvent struct {
	Type   string     `json:"type"`
	Totals []TotalRow `json:"totals"`
	Winner string     `json:"winner"`
	Loser  string     `json:"loser"`
}

// PlayerDisconnectedEvent tells the room a player dropped.
type PlayerDisconnectedEvent struct {
	Type       string    `json:"type"`
	PlayerName string    `json:"playerName"`
	GameState  RoomState `json:"gameState"`
}

// PlayerReconnectedEvent tells the room a player retook their seat.
type PlayerReconnectedEvent struct {
	Type       string    `json:"type"`
	PlayerName string    `json:"playerName"`
	GameState  RoomState `json:"gameState"`
}

// ReconnectedEvent resyncs the reconnecting client.
type ReconnectedEvent struct {
	Type      string      `json:"type"`
	GameState PlayerState `json:"gameState"`
}

// GameStateEvent answers an explicit get_state resync request.
type GameStateEvent struct {
	Type string `json:"type"`
	PlayerState
}
