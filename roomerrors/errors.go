package roomerrors

import "errors"

// Sentinel errors shared by the game, registry and ws packages to avoid
// circular imports. The error text is what the originating client sees in
// the error event, so it is written for people, not for matching.
var (
	ErrRoomNotFound     = errors.New("room not found")
	ErrRoomFull         = errors.New("room is full (max 11 players)")
	ErrGameStarted      = errors.New("game already started")
	ErrUsernameTaken    = errors.New("username already taken in this room")
	ErrNotInRoom        = errors.New("you are not in this room")
	ErrNotHost          = errors.New("only the room creator can start the game")
	ErrNotEnoughPlayers = errors.New("need at least 2 players to start")
	ErrNotYourTurn      = errors.New("it is not your turn")
	ErrCardNotHeld      = errors.New("you do not hold that card")
	ErrIllegalMove      = errors.New("that card cannot be played right now")
	ErrRoundOver        = errors.New("the round is already over")
	ErrRoundNotOver     = errors.New("the round is not finished yet")
	ErrHasLegalMove     = errors.New("cannot pass: you have a valid move")
	ErrPlayerNotFound   = errors.New("player not found in room")
	ErrReconnectOff     = errors.New("reconnection is disabled in this room")
)
