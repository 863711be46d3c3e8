package ws

import "encoding/json"

// InboundEnvelope is the generic envelope for all client-to-server messages.
// The Type field is used for routing; Raw holds the full JSON payload, which
// is decoded once into the matching command struct below.
type InboundEnvelope struct {
	Type string          `json:"type"`
	Raw  json.RawMessage `json:"-"`
}

// UnmarshalJSON implements custom unmarshaling to capture the raw payload.
func (e *InboundEnvelope) UnmarshalJSON(data []byte) error {
	type typeOnly struct {
		Type string `json:"type"`
	}
	var t typeOnly
	if err := json.Unmarshal(data, &t); err != nil {
		return err
	}
	e.Type = t.Type
	e.Raw = json.RawMessage(data)
	return nil
}

// CreateRoomMsg opens a new room with the sender as creator.
type CreateRoomMsg struct {
	Type     string `json:"type"`
	Username string `json:"username"`
}

// JoinRoomMsg joins an existing waiting room.
type JoinRoomMsg struct {
	Type     string `json:"type"`
	RoomCode string `json:"roomCode"`
	Username string `json:"username"`
}

// StartGameMsg starts the game. Only the room creator may send it.
type StartGameMsg struct {
	Type string `json:"type"`
}

// PlayCardMsg plays one card from the sender's hand.
type PlayCardMsg struct {
	Type string `json:"type"`
	Suit string `json:"suit"`
	Rank int    `json:"rank"`
}

// PassTurnMsg passes the turn when no legal move exists.
type PassTurnMsg struct {
	Type string `json:"type"`
}

// ContinueRoundMsg starts the next round after a round ends.
type ContinueRoundMsg struct {
	Type string `json:"type"`
}

// ExitGameMsg ends the match and requests cumulative totals.
type ExitGameMsg struct {
	Type string `json:"type"`
}

// GetStateMsg requests a full resync snapshot.
type GetStateMsg struct {
	Type string `json:"type"`
}

// ReconnectMsg retakes a disconnected seat by room code and username.
type ReconnectMsg struct {
	Type     string `json:"type"`
	RoomCode string `json:"roomCode"`
	Username string `json:"username"`
}
