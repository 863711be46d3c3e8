package ws

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/gorilla/websocket"

	"badam-satti-server/game"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer.
	maxMessageSize = 4096
)

// Client is a middleman between one websocket connection and the rooms.
// ID is the connection identity carried on every action into a room.
type Client struct {
	Hub  *Hub
	Conn *websocket.Conn
	Send chan []byte
	ID   string
	Name string
	Room *game.Room
}

// ReadPump pumps messages from the websocket connection into command
// handling. It runs in its own goroutine per connection.
func (c *Client) ReadPump() {
	defer func() {
		c.Hub.Unregister <- c
		c.Conn.Close()
	}()

	c.Conn.SetReadLimit(maxMessageSize)
	c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, message, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				slog.Warn("websocket read", "tag", "ws", "err", err)
			}
			break
		}

		c.handleMessage(message)
	}
}

// WritePump pumps messages from the send channel to the websocket
// connection. It runs in its own goroutine per connection.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// The hub closed the channel.
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			w, err := c.Conn.NextWriter(websocket.TextMessage)
			if err != nil {
				return
			}
			w.Write(message)

			if err := w.Close(); err != nil {
				return
			}

		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (c *Client) remoteIP() string {
	host, _, err := net.SplitHostPort(c.Conn.RemoteAddr().String())
	if err != nil {
		return c.Conn.RemoteAddr().String()
	}
	return host
}

func (c *Client) handleMessage(data []byte) {
	if !c.Hub.Limiter.Allow(c.remoteIP()) {
		c.sendError("Too many requests. Slow down.")
		return
	}

	var envelope InboundEnvelope
	if err := json.Unmarshal(data, &envelope); err != nil {
		c.sendError("Invalid message format.")
		return
	}

	switch envelope.Type {
	case "create_room":
		c.handleCreateRoom(envelope.Raw)
	case "join_room":
		c.handleJoinRoom(envelope.Raw)
	case "start_game":
		c.dispatch(game.Action{Type: game.ActionStart, PlayerID: c.ID, Send: c.Send})
	case "play_card":
		c.handlePlayCard(envelope.Raw)
	case "pass_turn":
		c.dispatch(game.Action{Type: game.ActionPassTurn, PlayerID: c.ID, Send: c.Send})
	case "continue_round":
		c.dispatch(game.Action{Type: game.ActionContinueRound, PlayerID: c.ID, Send: c.Send})
	case "exit_game":
		c.dispatch(game.Action{Type: game.ActionExitGame, PlayerID: c.ID, Send: c.Send})
	case "get_state":
		c.dispatch(game.Action{Type: game.ActionGetState, PlayerID: c.ID, Send: c.Send})
	case "reconnect_player":
		c.handleReconnect(envelope.Raw)
	default:
		c.sendError("Unknown message type: " + envelope.Type)
	}
}

// cleanUsername validates and normalizes a username, or returns an error
// message to send back.
func (c *Client) cleanUsername(raw string) (string, string) {
	name := strings.TrimSpace(raw)
	if name == "" {
		return "", "Username is required."
	}
	if utf8.RuneCountInString(name) > c.Hub.Config.MaxNameLength {
		return "", fmt.Sprintf("Username must be at most %d characters.", c.Hub.Config.MaxNameLength)
	}
	return name, ""
}

func (c *Client) handleCreateRoom(raw json.RawMessage) {
	var msg CreateRoomMsg
	if err := json.Unmarshal(raw, &msg); err != nil {
		c.sendError("Invalid create_room message.")
		return
	}
	name, errMsg := c.cleanUsername(msg.Username)
	if errMsg != "" {
		c.sendError(errMsg)
		return
	}
	if c.Room != nil {
		c.sendError("You are already in a room.")
		return
	}

	room := c.Hub.Registry.CreateRoom()
	c.bindRoom(room, game.Action{Type: game.ActionJoin, PlayerID: c.ID, Name: name, Send: c.Send, AsCreator: true})
}

func (c *Client) handleJoinRoom(raw json.RawMessage) {
	var msg JoinRoomMsg
	if err := json.Unmarshal(raw, &msg); err != nil {
		c.sendError("Invalid join_room message.")
		return
	}
	name, errMsg := c.cleanUsername(msg.Username)
	if errMsg != "" {
		c.sendError(errMsg)
		return
	}
	if c.Room != nil {
		c.sendError("You are already in a room.")
		return
	}
	code := strings.TrimSpace(msg.RoomCode)
	if len(code) != c.Hub.Config.RoomCodeLength {
		c.sendError("Invalid room code.")
		return
	}

	room, ok := c.Hub.Registry.Get(code)
	if !ok {
		c.sendError("Room not found.")
		return
	}
	c.bindRoom(room, game.Action{Type: game.ActionJoin, PlayerID: c.ID, Name: name, Send: c.Send})
}

func (c *Client) handlePlayCard(raw json.RawMessage) {
	var msg PlayCardMsg
	if err := json.Unmarshal(raw, &msg); err != nil {
		c.sendError("Invalid play_card message.")
		return
	}
	card := game.Card{Suit: game.Suit(msg.Suit), Rank: game.Rank(msg.Rank)}
	if !card.Suit.Valid() || card.Rank < 1 || card.Rank > 13 {
		c.sendError("Invalid card.")
		return
	}
	c.dispatch(game.Action{Type: game.ActionPlayCard, PlayerID: c.ID, Card: card, Send: c.Send})
}

func (c *Client) handleReconnect(raw json.RawMessage) {
	var msg ReconnectMsg
	if err := json.Unmarshal(raw, &msg); err != nil {
		c.sendError("Invalid reconnect_player message.")
		return
	}
	name, errMsg := c.cleanUsername(msg.Username)
	if errMsg != "" {
		c.sendError(errMsg)
		return
	}
	room, ok := c.Hub.Registry.Get(msg.RoomCode)
	if !ok {
		c.sendError("Room not found.")
		return
	}
	c.bindRoom(room, game.Action{Type: game.ActionReconnect, PlayerID: c.ID, Name: name, Send: c.Send})
}

// bindRoom dispatches a join or reconnect and commits the client's room
// binding only when the room accepts the seat. A rejected command leaves the
// client free to try another room or name; the room already sent the error
// event.
func (c *Client) bindRoom(room *game.Room, a game.Action) {
	result := make(chan error, 1)
	a.Result = result

	select {
	case room.Actions <- a:
	case <-room.Done:
		c.sendError("This room is closed.")
		return
	}

	select {
	case err := <-result:
		if err != nil {
			return
		}
	case <-room.Done:
		return
	}
	c.Room = room
	c.Name = a.Name
}

// dispatch enqueues an action for the client's room. Blocking on the
// room's buffered channel gives natural backpressure; the Done case keeps a
// reaped room from wedging the reader.
func (c *Client) dispatch(a game.Action) {
	room := c.Room
	if room == nil {
		c.sendError("You are not in a room.")
		return
	}
	select {
	case room.Actions <- a:
	case <-room.Done:
		c.sendError("This room is closed.")
	}
}

func (c *Client) sendError(message string) {
	data, _ := json.Marshal(game.ErrorEvent{Type: "error", Message: message})
	select {
	case c.Send <- data:
	default:
	}
}
