package game

import "testing"

func TestNewDeck(t *testing.T) {
	deck := NewDeck()
	if len(deck) != 52 {
		t.Fatalf("expected 52 cards, got %d", len(deck))
	}

	seen := make(map[Card]bool)
	for _, c := range deck {
		if seen[c] {
			t.Errorf("duplicate card in deck: %v", c)
		}
		seen[c] = true
		if !c.Suit.Valid() {
			t.Errorf("invalid suit: %q", c.Suit)
		}
		if c.Rank < 1 || c.Rank > 13 {
			t.Errorf("rank out of range: %d", c.Rank)
		}
	}
}

func TestShuffleDeckPreservesCards(t *testing.T) {
	deck := NewDeck()
	ShuffleDeck(deck)

	if len(deck) != 52 {
		t.Fatalf("expected 52 cards after shuffle, got %d", len(deck))
	}
	seen := make(map[Card]bool)
	for _, c := range deck {
		if seen[c] {
			t.Errorf("duplicate card after shuffle: %v", c)
		}
		seen[c] = true
	}
}

func TestSortHand(t *testing.T) {
	hand := []Card{
		{Spades, 2},
		{Hearts, 13},
		{Clubs, 7},
		{Hearts, 3},
		{Diamonds, 1},
	}
	SortHand(hand)

	want := []Card{
		{Hearts, 3},
		{Hearts, 13},
		{Diamonds, 1},
		{Clubs, 7},
		{Spades, 2},
	}
	for i, c := range want {
		if hand[i] != c {
			t.Errorf("hand[%d] = %v, want %v", i, hand[i], c)
		}
	}
}

func TestCardValue(t *testing.T) {
	tests := []struct {
		card Card
		want int
	}{
		{Card{Hearts, 1}, 1},   // ace
		{Card{Clubs, 5}, 5},    // number card
		{Card{Spades, 10}, 10},
		{Card{Diamonds, 11}, 11}, // jack
		{Card{Hearts, 12}, 12},   // queen
		{Card{Clubs, 13}, 13},    // king
	}
	for _, test := range tests {
		if got := test.card.Value(); got != test.want {
			t.Errorf("%v.Value() = %d, want %d", test.card, got, test.want)
		}
	}
}

func TestSuitValid(t *testing.T) {
	for _, s := range Suits {
		if !s.Valid() {
			t.Errorf("suit %q should be valid", s)
		}
	}
	if Suit("coins").Valid() {
		t.Error("unknown suit should not be valid")
	}
}
