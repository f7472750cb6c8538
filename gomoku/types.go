package gomoku

// BoardSize is the edge length of the gomoku board.
const BoardSize = 15

// WinLength is the exact line length that wins a game.
const WinLength = 5

// Color is the color of a stone or the color a player currently plays.
type Color uint8

const (
	NoColor Color = iota // empty cell in snapshots
	Black
	White
)

func (c Color) String() string {
	switch c {
	case Black:
		return "Black"
	case White:
		return "White"
	default:
		return "None"
	}
}

// Opposite returns the other stone color.
func (c Color) Opposite() Color {
	if c == Black {
		return White
	}
	return Black
}

// Direction is one of the four axes a five-in-a-row is evaluated on.
type Direction uint8

const (
	Horizontal Direction = iota
	Vertical
	DiagonalTLBR // top-left to bottom-right
	DiagonalBLTR // bottom-left to top-right
)

// Directions lists all axes in trace order.
var Directions = [4]Direction{Horizontal, Vertical, DiagonalTLBR, DiagonalBLTR}

func (d Direction) String() string {
	switch d {
	case Horizontal:
		return "Horizontal"
	case Vertical:
		return "Vertical"
	case DiagonalTLBR:
		return "DiagonalTLBR"
	case DiagonalBLTR:
		return "DiagonalBLTR"
	}
	return "Unknown"
}

// offset returns the step towards the second neighbour of a cell on this axis.
// The first neighbour sits at the negated step.
func (d Direction) offset() (dx, dy int) {
	switch d {
	case Horizontal:
		return 1, 0
	case Vertical:
		return 0, 1
	case DiagonalTLBR:
		return 1, 1
	default: // DiagonalBLTR
		return -1, 1
	}
}

// Opening is the opening rule a match is played with.
type Opening uint8

const (
	Standard Opening = iota
	Swap2
)

func (o Opening) String() string {
	if o == Swap2 {
		return "Swap2"
	}
	return "Standard"
}

// Position is a board coordinate.
type Position struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// NoPosition marks a stat update that is not caused by a placed stone.
var NoPosition = Position{X: -1, Y: -1}

// Real reports whether p denotes an actual placement.
func (p Position) Real() bool {
	return p.X >= 0
}
