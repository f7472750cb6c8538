package gomoku

// Outcome is the game result passed along with a stat update.
type Outcome uint8

const (
	Undecided Outcome = iota
	Won
	Lost
)

// Player holds the per-side statistics shown next to the board.
type Player struct {
	Name    string
	Color   Color
	Placed  int
	Stones  []Position
	Maximum int // longest line computed for the latest move, not a running max
	Wins    int
	Streak  int
}

// NewPlayer returns a player with empty stats.
func NewPlayer(name string, color Color) *Player {
	return &Player{Name: name, Color: color}
}

// UpdateState records a move. NoPosition skips the placement bookkeeping, a
// non-positive longest leaves Maximum untouched.
func (p *Player) UpdateState(pos Position, longest int, outcome Outcome) {
	if pos.Real() {
		p.Placed++
		p.Stones = append(p.Stones, pos)
	}

	if longest > 0 {
		p.Maximum = longest
	}

	switch outcome {
	case Won:
		p.Wins++
		p.Streak++
	case Lost:
		p.Streak = 0
	}
}

// ClearStats resets the per-game stats for a rematch. Wins and streak survive.
func (p *Player) ClearStats() {
	p.Placed = 0
	p.Stones = nil
	p.Maximum = 0
}
