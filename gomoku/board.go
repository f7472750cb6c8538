package gomoku

// StoneID is a stable handle into the board's stone arena.
type StoneID int32

const noStone StoneID = -1

// endpoint is the per-direction connection state of a stone. A terminal of a
// tracked line links to the opposite terminal and stores the full line length.
type endpoint struct {
	link   StoneID
	length int
}

// Stone is a placed stone. Position and color never change after placement.
type Stone struct {
	Pos   Position
	Color Color
	ends  [4]endpoint
}

// Board is the 15x15 grid. Cells hold handles into the stone arena.
type Board struct {
	cells  [BoardSize * BoardSize]StoneID
	stones []Stone
}

// NewBoard returns an empty board.
func NewBoard() *Board {
	b := &Board{stones: make([]Stone, 0, BoardSize*BoardSize)}
	for i := range b.cells {
		b.cells[i] = noStone
	}
	return b
}

func inRange(x, y int) bool {
	return x >= 0 && x < BoardSize && y >= 0 && y < BoardSize
}

// Get returns the stone occupying (x,y), if any.
func (b *Board) Get(x, y int) (StoneID, bool, error) {
	if !inRange(x, y) {
		return noStone, false, ErrOutOfRange
	}
	id := b.cells[y*BoardSize+x]
	return id, id != noStone, nil
}

// Place creates a stone of the given color at (x,y).
func (b *Board) Place(x, y int, color Color) (StoneID, error) {
	if !inRange(x, y) {
		return noStone, ErrOutOfRange
	}
	if b.cells[y*BoardSize+x] != noStone {
		return noStone, ErrCellOccupied
	}

	s := Stone{Pos: Position{X: x, Y: y}, Color: color}
	for i := range s.ends {
		s.ends[i] = endpoint{link: noStone, length: 1}
	}
	id := StoneID(len(b.stones))
	b.stones = append(b.stones, s)
	b.cells[y*BoardSize+x] = id
	return id, nil
}

// Stone returns a copy of the stone behind id.
func (b *Board) Stone(id StoneID) Stone {
	return b.stones[id]
}

func (b *Board) stone(id StoneID) *Stone {
	return &b.stones[id]
}

// neighbour returns the stone at (x,y) or noStone for empty and off-board cells.
func (b *Board) neighbour(x, y int) StoneID {
	if !inRange(x, y) {
		return noStone
	}
	return b.cells[y*BoardSize+x]
}

// Count returns the number of stones on the board.
func (b *Board) Count() int {
	return len(b.stones)
}

// Full reports whether every cell is occupied.
func (b *Board) Full() bool {
	return len(b.stones) == BoardSize*BoardSize
}

// Snapshot returns the color of every cell, indexed [x][y].
func (b *Board) Snapshot() [BoardSize][BoardSize]Color {
	var out [BoardSize][BoardSize]Color
	for _, s := range b.stones {
		out[s.Pos.X][s.Pos.Y] = s.Color
	}
	return out
}
