package gomoku

import "errors"

var (
	ErrOutOfRange      = errors.New("coordinate out of range")
	ErrCellOccupied    = errors.New("cell already occupied")
	ErrGameOver        = errors.New("game is over")
	ErrChoiceRequired  = errors.New("opening choice required")
	ErrNoChoicePending = errors.New("no opening choice pending")
	ErrInvalidChoice   = errors.New("invalid opening choice")
)
