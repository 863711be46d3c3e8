package game

import (
	"fmt"
	"math/rand"
	"sort"
)

// Suit identifies one of the four card suits. The string values double as
// the wire representation, matching what clients send in play_card.
type Suit string

const (
	Hearts   Suit = "hearts"
	Diamonds Suit = "diamonds"
	Clubs    Suit = "clubs"
	Spades   Suit = "spades"
)

// Suits lists all suits in display order (hearts first, since hearts anchors the game).
var Suits = []Suit{Hearts, Diamonds, Clubs, Spades}

// suitOrder is used for sorting hands.
var suitOrder = map[Suit]int{Hearts: 0, Diamonds: 1, Clubs: 2, Spades: 3}

// Valid reports whether s is one of the four known suits.
func (s Suit) Valid() bool {
	_, ok := suitOrder[s]
	return ok
}

// Rank is a card rank: 1 = Ace, 11 = Jack, 12 = Queen, 13 = King.
type Rank int

// Card is an immutable card value. Equality is by (suit, rank).
type Card struct {
	Suit Suit `json:"suit"`
	Rank Rank `json:"rank"`
}

// AnchorCard is the card that opens every round: the 7 of hearts.
var AnchorCard = Card{Suit: Hearts, Rank: 7}

// Value returns the card's scoring value: Ace = 1, number cards = face
// value, Jack = 11, Queen = 12, King = 13. Lower leftover totals are better.
func (c Card) Value() int {
	return int(c.Rank)
}

func (c Card) String() string {
	return fmt.Sprintf("%d of %s", c.Rank, c.Suit)
}

// NewDeck returns all 52 distinct cards in suit-then-rank order.
func NewDeck() []Card {
	deck := make([]Card, 0, 52)
	for _, suit := range Suits {
		for rank := Rank(1); rank <= 13; rank++ {
			deck = append(deck, Card{Suit: suit, Rank: rank})
		}
	}
	return deck
}

// ShuffleDeck shuffles the deck in place.
func ShuffleDeck(deck []Card) {
	rand.Shuffle(len(deck), func(i, j int) {
		deck[i], deck[j] = deck[j], deck[i]
	})
}

// SortHand orders a hand by suit (hearts, diamonds, clubs, spades) then rank.
// Hands are sorted once at deal time; redistributed cards are appended
// unsorted to keep their random order.
func SortHand(hand []Card) {
	sort.Slice(hand, func(i, j int) bool {
		if hand[i].Suit != hand[j].Suit {
			return suitOrder[hand[i].Suit] < suitOrder[hand[j].Suit]
		}
		return hand[i].Rank < hand[j].Rank
	})
}
