package gomoku

import "go.uber.org/zap"

// OpeningOption is the decision taken after the third Swap2 stone.
type OpeningOption uint8

const (
	TakeWhite OpeningOption = iota + 1 // chooser plays white and moves next
	TakeBlack                          // chooser plays black, opponent moves next with white
	Defer                              // chooser places two more stones, opponent decides
)

func (o OpeningOption) String() string {
	switch o {
	case TakeWhite:
		return "TakeWhite"
	case TakeBlack:
		return "TakeBlack"
	case Defer:
		return "Defer"
	}
	return "Unknown"
}

var openingOptions = []OpeningOption{TakeWhite, TakeBlack, Defer}

// swap2Turn handles the turn change during the first three Swap2 rounds.
// Player one places both colors, then control passes to the other player
// who has to pick an OpeningOption before play continues.
func (m *Match) swap2Turn() {
	if m.round < 3 {
		m.current.Color = m.current.Color.Opposite()
		return
	}
	m.switchPlayer()
	m.state = AwaitingOpeningChoice
	m.logger.Info("Opening choice required", zap.String("player", m.current.Name))
}

// ChoiceRequired reports whether the match waits for ChooseOpening.
func (m *Match) ChoiceRequired() bool {
	return m.state == AwaitingOpeningChoice
}

// OpeningOptions returns the legal choices while one is pending, nil otherwise.
func (m *Match) OpeningOptions() []OpeningOption {
	if m.state != AwaitingOpeningChoice {
		return nil
	}
	out := make([]OpeningOption, len(openingOptions))
	copy(out, openingOptions)
	return out
}

// ChooseOpening resumes a suspended Swap2 opening with the current player's choice.
func (m *Match) ChooseOpening(option OpeningOption) error {
	if m.state != AwaitingOpeningChoice {
		return ErrNoChoicePending
	}

	other := m.opponent(m.current)
	switch option {
	case TakeWhite:
		other.Color = Black
		m.current.Color = White
	case TakeBlack:
		m.current.Color = Black
		m.switchPlayer()
		m.current.Color = White
	case Defer:
		m.round = 2
		other.Color = White
	default:
		return ErrInvalidChoice
	}

	m.state = AwaitingMove
	m.logger.Info("Opening choice made",
		zap.Stringer("option", option),
		zap.String("next", m.current.Name),
		zap.Stringer("color", m.current.Color),
	)
	return nil
}
