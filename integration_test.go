package main

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"badam-satti-server/api"
	"badam-satti-server/config"
	"badam-satti-server/registry"
	"badam-satti-server/ws"
)

// setupTestServer creates a test HTTP server with the full game server stack.
// Rate limits are raised because every test connection shares 127.0.0.1.
func setupTestServer(t *testing.T) (*httptest.Server, func()) {
	t.Helper()

	cfg := config.Defaults()
	cfg.RateLimitPerSec = 1000
	cfg.RateLimitBurst = 1000

	ctx, cancel := context.WithCancel(context.Background())

	reg := registry.New(cfg, nil)
	hub := ws.NewHub(cfg, reg)
	go hub.Run(ctx)

	handler := api.NewHandler(cfg, nil, reg)

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", hub.ServeWS)
	mux.HandleFunc("/health", handler.Health)

	server := httptest.NewServer(mux)
	cleanup := func() {
		server.Close()
		cancel()
	}
	return server, cleanup
}

// connectWS creates a WebSocket connection to the test server.
func connectWS(t *testing.T, server *httptest.Server) *websocket.Conn {
	t.Helper()
	wsURL := "ws" + strings.TrimPrefix(server.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("failed to connect: %v", err)
	}
	return conn
}

// sendMsg writes a JSON message to the WebSocket.
func sendMsg(t *testing.T, conn *websocket.Conn, msg map[string]interface{}) {
	t.Helper()
	if err := conn.WriteJSON(msg); err != nil {
		t.Fatalf("failed to send message: %v", err)
	}
}

// readUntil reads messages until one of the wanted type arrives, skipping
// unrelated broadcasts.
func readUntil(t *testing.T, conn *websocket.Conn, wantType string) map[string]interface{} {
	t.Helper()
	deadline := time.Now().Add(3 * time.Second)
	for {
		conn.SetReadDeadline(deadline)
		_, data, err := conn.ReadMessage()
		if err != nil {
			t.Fatalf("waiting for %q: %v", wantType, err)
		}
		var msg map[string]interface{}
		if err := json.Unmarshal(data, &msg); err != nil {
			t.Fatalf("bad message %q: %v", data, err)
		}
		if msg["type"] == wantType {
			return msg
		}
	}
}

func TestHealthEndpoint(t *testing.T) {
	server, cleanup := setupTestServer(t)
	defer cleanup()

	resp, err := http.Get(server.URL + "/health")
	if err != nil {
		t.Fatalf("GET /health: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d", resp.StatusCode)
	}
	var health api.HealthResponse
	if err := json.NewDecoder(resp.Body).Decode(&health); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if health.Status != "ok" {
		t.Errorf("status = %q", health.Status)
	}
}

func TestCreateJoinStartPlayFlow(t *testing.T) {
	server, cleanup := setupTestServer(t)
	defer cleanup()

	names := []string{"Alice", "Bob", "Carol"}
	conns := make(map[string]*websocket.Conn, len(names))
	for _, name := range names {
		conns[name] = connectWS(t, server)
		defer conns[name].Close()
	}

	// Alice creates the room.
	sendMsg(t, conns["Alice"], map[string]interface{}{"type": "create_room", "username": "Alice"})
	created := readUntil(t, conns["Alice"], "room_created")
	roomCode, _ := created["roomCode"].(string)
	if len(roomCode) != 6 {
		t.Fatalf("roomCode = %q", roomCode)
	}

	// Bob and Carol join; the room code is case-insensitive on the wire.
	sendMsg(t, conns["Bob"], map[string]interface{}{"type": "join_room", "roomCode": strings.ToLower(roomCode), "username": "Bob"})
	readUntil(t, conns["Bob"], "room_joined")
	sendMsg(t, conns["Carol"], map[string]interface{}{"type": "join_room", "roomCode": roomCode, "username": "Carol"})
	readUntil(t, conns["Carol"], "room_joined")
	joined := readUntil(t, conns["Alice"], "player_joined")
	if joined["playerName"] != "Bob" {
		t.Errorf("first join should be Bob, got %v", joined["playerName"])
	}

	// Only the creator may start.
	sendMsg(t, conns["Bob"], map[string]interface{}{"type": "start_game"})
	readUntil(t, conns["Bob"], "error")

	sendMsg(t, conns["Alice"], map[string]interface{}{"type": "start_game"})
	started := readUntil(t, conns["Alice"], "game_started")
	state := started["gameState"].(map[string]interface{})
	currentName, _ := state["currentPlayerName"].(string)
	if conns[currentName] == nil {
		t.Fatalf("currentPlayerName = %q", currentName)
	}

	// Everyone gets a private hand; 52 cards minus the opening seven.
	total := 0
	for _, name := range names {
		cards := readUntil(t, conns[name], "your_cards")
		total += len(cards["cards"].([]interface{}))
	}
	if total != 51 {
		t.Errorf("dealt %d cards, want 51 after the opening seven", total)
	}

	// The player on turn plays their first legal card, passing through any
	// turns with no legal move. Someone always holds a playable card.
	played := false
	for i := 0; i < len(names) && !played; i++ {
		sendMsg(t, conns[currentName], map[string]interface{}{"type": "get_state"})
		snap := readUntil(t, conns[currentName], "game_state")
		moves := snap["validMoves"].([]interface{})
		if len(moves) == 0 {
			sendMsg(t, conns[currentName], map[string]interface{}{"type": "pass_turn"})
			passed := readUntil(t, conns[currentName], "turn_passed")
			currentName = passed["gameState"].(map[string]interface{})["currentPlayerName"].(string)
			continue
		}
		move := moves[0].(map[string]interface{})
		sendMsg(t, conns[currentName], map[string]interface{}{
			"type": "play_card",
			"suit": move["suit"],
			"rank": move["rank"],
		})
		played = true
	}
	if !played {
		t.Fatal("no player could play a card")
	}

	// Every connection sees the play.
	for _, name := range names {
		played := readUntil(t, conns[name], "card_played")
		if played["playerName"] != currentName {
			t.Errorf("card_played names %v, want %s", played["playerName"], currentName)
		}
	}
}

func TestJoinValidation(t *testing.T) {
	server, cleanup := setupTestServer(t)
	defer cleanup()

	conn := connectWS(t, server)
	defer conn.Close()

	// Unknown room.
	sendMsg(t, conn, map[string]interface{}{"type": "join_room", "roomCode": "ZZZZZZ", "username": "Alice"})
	readUntil(t, conn, "error")

	// Missing username.
	sendMsg(t, conn, map[string]interface{}{"type": "create_room", "username": "  "})
	readUntil(t, conn, "error")

	// Unknown message type.
	sendMsg(t, conn, map[string]interface{}{"type": "do_magic"})
	readUntil(t, conn, "error")

	// Acting before joining a room.
	sendMsg(t, conn, map[string]interface{}{"type": "start_game"})
	readUntil(t, conn, "error")
}

// TestRejectedJoinLeavesClientFree covers the recovery path: a join refused
// by the room (here, a duplicate username) must not bind the client to the
// room, so a retry on the same connection succeeds.
func TestRejectedJoinLeavesClientFree(t *testing.T) {
	server, cleanup := setupTestServer(t)
	defer cleanup()

	c1 := connectWS(t, server)
	defer c1.Close()
	c2 := connectWS(t, server)
	defer c2.Close()

	sendMsg(t, c1, map[string]interface{}{"type": "create_room", "username": "Alice"})
	created := readUntil(t, c1, "room_created")
	roomCode := created["roomCode"].(string)

	sendMsg(t, c2, map[string]interface{}{"type": "join_room", "roomCode": roomCode, "username": "Alice"})
	readUntil(t, c2, "error")

	// Still unbound: a fresh name goes straight in.
	sendMsg(t, c2, map[string]interface{}{"type": "join_room", "roomCode": roomCode, "username": "Bob"})
	joined := readUntil(t, c2, "room_joined")
	if joined["roomCode"] != roomCode {
		t.Errorf("roomCode = %v, want %v", joined["roomCode"], roomCode)
	}

	// And the new seat is live: a state request answers instead of erroring.
	sendMsg(t, c2, map[string]interface{}{"type": "get_state"})
	readUntil(t, c2, "game_state")
}

// A refused reconnect must leave the client free to join normally.
func TestRejectedReconnectLeavesClientFree(t *testing.T) {
	server, cleanup := setupTestServer(t)
	defer cleanup()

	c1 := connectWS(t, server)
	defer c1.Close()
	c2 := connectWS(t, server)
	defer c2.Close()

	sendMsg(t, c1, map[string]interface{}{"type": "create_room", "username": "Alice"})
	created := readUntil(t, c1, "room_created")
	roomCode := created["roomCode"].(string)

	// Reconnection is disabled by default, so this is refused.
	sendMsg(t, c2, map[string]interface{}{"type": "reconnect_player", "roomCode": roomCode, "username": "Bob"})
	readUntil(t, c2, "error")

	sendMsg(t, c2, map[string]interface{}{"type": "join_room", "roomCode": roomCode, "username": "Bob"})
	readUntil(t, c2, "room_joined")
}

// TestGetStateIsRepeatable asks for the same snapshot twice with no moves in
// between; the two answers must agree.
func TestGetStateIsRepeatable(t *testing.T) {
	server, cleanup := setupTestServer(t)
	defer cleanup()

	c1 := connectWS(t, server)
	defer c1.Close()
	c2 := connectWS(t, server)
	defer c2.Close()

	sendMsg(t, c1, map[string]interface{}{"type": "create_room", "username": "Alice"})
	created := readUntil(t, c1, "room_created")
	roomCode := created["roomCode"].(string)
	sendMsg(t, c2, map[string]interface{}{"type": "join_room", "roomCode": roomCode, "username": "Bob"})
	readUntil(t, c2, "room_joined")
	sendMsg(t, c1, map[string]interface{}{"type": "start_game"})
	readUntil(t, c1, "game_started")

	sendMsg(t, c1, map[string]interface{}{"type": "get_state"})
	first := readUntil(t, c1, "game_state")
	sendMsg(t, c1, map[string]interface{}{"type": "get_state"})
	second := readUntil(t, c1, "game_state")

	a, _ := json.Marshal(first)
	b, _ := json.Marshal(second)
	if string(a) != string(b) {
		t.Errorf("snapshots differ:\n%s\n%s", a, b)
	}
}

func TestDisconnectEndsTwoPlayerGame(t *testing.T) {
	server, cleanup := setupTestServer(t)
	defer cleanup()

	c1 := connectWS(t, server)
	defer c1.Close()
	c2 := connectWS(t, server)

	sendMsg(t, c1, map[string]interface{}{"type": "create_room", "username": "Alice"})
	created := readUntil(t, c1, "room_created")
	roomCode := created["roomCode"].(string)
	sendMsg(t, c2, map[string]interface{}{"type": "join_room", "roomCode": roomCode, "username": "Bob"})
	readUntil(t, c2, "room_joined")
	sendMsg(t, c1, map[string]interface{}{"type": "start_game"})
	readUntil(t, c1, "game_started")

	c2.Close()

	over := readUntil(t, c1, "game_over")
	if over["result"] != "all_players_left" {
		t.Errorf("result = %v, want all_players_left", over["result"])
	}
	if over["winner"] != "Alice" {
		t.Errorf("winner = %v, want Alice", over["winner"])
	}
}
