package game

// SuitRun tracks the cards played for one suit. Up holds ranks played at or
// above 7 in play order (strictly increasing); Down holds ranks played below
// 7 in play order (strictly decreasing). The 7 always lives in Up.
type SuitRun struct {
	Up   []Rank `json:"up"`
	Down []Rank `json:"down"`
}

func (r *SuitRun) empty() bool {
	return len(r.Up) == 0 && len(r.Down) == 0
}

func (r *SuitRun) highest() Rank {
	return r.Up[len(r.Up)-1]
}

func (r *SuitRun) lowest() Rank {
	return r.Down[len(r.Down)-1]
}

// Board holds the four suit runs. The field layout matches the board object
// clients render: {"hearts": {"up": [...], "down": [...]}, ...}.
type Board struct {
	Hearts   SuitRun `json:"hearts"`
	Diamonds SuitRun `json:"diamonds"`
	Clubs    SuitRun `json:"clubs"`
	Spades   SuitRun `json:"spades"`
}

// NewBoard returns an empty board with all four runs initialized.
func NewBoard() *Board {
	b := &Board{}
	b.Reset()
	return b
}

// Reset empties all four runs. Called at round start.
func (b *Board) Reset() {
	b.Hearts = SuitRun{Up: []Rank{}, Down: []Rank{}}
	b.Diamonds = SuitRun{Up: []Rank{}, Down: []Rank{}}
	b.Clubs = SuitRun{Up: []Rank{}, Down: []Rank{}}
	b.Spades = SuitRun{Up: []Rank{}, Down: []Rank{}}
}

func (b *Board) run(s Suit) *SuitRun {
	switch s {
	case Hearts:
		return &b.Hearts
	case Diamonds:
		return &b.Diamonds
	case Clubs:
		return &b.Clubs
	case Spades:
		return &b.Spades
	default:
		return nil
	}
}

// IsLegal reports whether the card may be played on the board right now.
// An untouched suit accepts only its 7. Otherwise the card must extend the
// up run by one, extend the down run by one, or be the 6 that starts the
// down run when only the 7 has been played.
func (b *Board) IsLegal(c Card) bool {
	run := b.run(c.Suit)
	if run == nil {
		return false
	}

	if run.empty() {
		return c.Rank == 7
	}

	if len(run.Up) > 0 && c.Rank == run.highest()+1 && c.Rank <= 13 {
		return true
	}

	if len(run.Down) > 0 && c.Rank == run.lowest()-1 && c.Rank >= 1 {
		return true
	}

	// The 7 is on the board but nothing below it yet: 6 starts the down run.
	if len(run.Down) == 0 && c.Rank == 6 {
		for _, r := range run.Up {
			if r == 7 {
				return true
			}
		}
	}

	return false
}

// Apply places a legal card onto the board. The first card of a suit and any
// new maximum go into Up; everything else goes into Down. Callers must check
// IsLegal first; Apply does not re-validate.
func (b *Board) Apply(c Card) {
	run := b.run(c.Suit)
	switch {
	case run.empty():
		run.Up = append(run.Up, c.Rank)
	case len(run.Up) > 0 && c.Rank > run.highest():
		run.Up = append(run.Up, c.Rank)
	default:
		run.Down = append(run.Down, c.Rank)
	}
}

// CardCount returns the number of cards on the board across all suits.
func (b *Board) CardCount() int {
	n := 0
	for _, s := range Suits {
		run := b.run(s)
		n += len(run.Up) + len(run.Down)
	}
	return n
}

// Clone returns a deep copy of the board. Snapshots handed to the transport
// layer are built from clones so the live board is never shared with a
// pending network write.
func (b *Board) Clone() Board {
	clone := Board{}
	for _, s := range Suits {
		src := b.run(s)
		dst := clone.run(s)
		dst.Up = append([]Rank{}, src.Up...)
		dst.Down = append([]Rank{}, src.Down...)
	}
	return clone
}
