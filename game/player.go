package game

// Player is one seat in a room. The hand is owned exclusively by the room's
// action loop; nothing outside the game package mutates it.
type Player struct {
	ID         string // connection identity; rebound on reconnect
	Name       string
	Hand       []Card
	Connected  bool
	TotalScore int         // cumulative across rounds, reset only with the room
	Send       chan []byte // the client's send channel; nil while disconnected
}

// NewPlayer creates a connected player with an empty hand.
func NewPlayer(id, name string, send chan []byte) *Player {
	return &Player{
		ID:        id,
		Name:      name,
		Hand:      []Card{},
		Connected: true,
		Send:      send,
	}
}

// HasCard reports whether the player holds the card.
func (p *Player) HasCard(c Card) bool {
	for _, held := range p.Hand {
		if held == c {
			return true
		}
	}
	return false
}

// RemoveCard removes one copy of the card from the hand and reports whether
// it was held.
func (p *Player) RemoveCard(c Card) bool {
	for i, held := range p.Hand {
		if held == c {
			p.Hand = append(p.Hand[:i], p.Hand[i+1:]...)
			return true
		}
	}
	return false
}

// HandScore sums the values of the player's remaining cards.
func (p *Player) HandScore() int {
	score := 0
	for _, c := range p.Hand {
		score += c.Value()
	}
	return score
}
