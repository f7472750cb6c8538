package gomoku

import (
	"go.uber.org/zap"
)

// State is the phase a match is in.
type State uint8

const (
	AwaitingMove State = iota
	AwaitingOpeningChoice
	GameOver
)

func (s State) String() string {
	switch s {
	case AwaitingMove:
		return "AwaitingMove"
	case AwaitingOpeningChoice:
		return "AwaitingOpeningChoice"
	default:
		return "GameOver"
	}
}

// Config is the read-only setup of a match.
type Config struct {
	PlayerOneName string
	PlayerTwoName string
	Opening       Opening
}

// MatchResult is handed to the ResultReporter when a match is won.
type MatchResult struct {
	PlayerOneName   string
	PlayerTwoName   string
	PlayerOneWinner bool
	PlayerTwoWinner bool
}

// ResultReporter receives finished matches. Report must not block; the match
// never learns whether reporting succeeded.
type ResultReporter interface {
	Report(result MatchResult)
}

// Option configures a Match.
type Option func(*Match)

// WithLogger sets the logger, zap.NewNop by default.
func WithLogger(logger *zap.Logger) Option {
	return func(m *Match) {
		m.logger = logger
	}
}

// WithReporter sets the receiver of match results.
func WithReporter(r ResultReporter) Option {
	return func(m *Match) {
		m.reporter = r
	}
}

// Match runs one game between two players. It is not safe for concurrent use:
// the caller serializes PlaceStone and ChooseOpening.
type Match struct {
	cfg       Config
	board     *Board
	lines     *LineIndex
	playerOne *Player
	playerTwo *Player
	current   *Player
	winner    *Player
	round     int
	state     State
	reporter  ResultReporter
	logger    *zap.Logger
}

// NewMatch sets up a match. Player one plays Black and moves first.
func NewMatch(cfg Config, opts ...Option) *Match {
	m := &Match{
		cfg:       cfg,
		playerOne: NewPlayer(cfg.PlayerOneName, Black),
		playerTwo: NewPlayer(cfg.PlayerTwoName, White),
		logger:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(m)
	}
	m.reset()
	return m
}

func (m *Match) reset() {
	m.board = NewBoard()
	m.lines = NewLineIndex(m.board)
	m.playerOne.Color = Black
	m.playerTwo.Color = White
	m.current = m.playerOne
	m.winner = nil
	m.round = 1
	m.state = AwaitingMove
}

// PlaceStone puts a stone of the current player's color at (x,y). Rejected
// moves leave the match untouched.
func (m *Match) PlaceStone(x, y int) error {
	switch m.state {
	case GameOver:
		return ErrGameOver
	case AwaitingOpeningChoice:
		return ErrChoiceRequired
	}

	mover := m.current
	id, err := m.board.Place(x, y, mover.Color)
	if err != nil {
		m.logger.Info("Stone rejected", zap.Int("x", x), zap.Int("y", y), zap.Error(err))
		return err
	}
	m.lines.Incorporate(id)

	won := m.lines.Win(mover.Color)
	longest := m.lines.Longest(mover.Color)
	outcome := Undecided
	if won {
		outcome = Won
	}
	mover.UpdateState(Position{X: x, Y: y}, longest, outcome)

	m.logger.Debug("Stone placed",
		zap.String("player", mover.Name),
		zap.Stringer("color", mover.Color),
		zap.Int("x", x),
		zap.Int("y", y),
		zap.Int("round", m.round),
		zap.Int("longestLine", longest),
	)

	if won {
		m.state = GameOver
		m.winner = mover
		m.opponent(mover).UpdateState(NoPosition, -1, Lost)
		m.round++
		m.logger.Info("Match won", zap.String("winner", mover.Name), zap.Int("stones", m.board.Count()))
		m.report()
		return nil
	}

	if m.board.Full() {
		m.state = GameOver
		m.round++
		m.logger.Info("Match tied")
		return nil
	}

	m.switchTurn()
	return nil
}

func (m *Match) switchTurn() {
	if m.cfg.Opening == Swap2 && m.round <= 3 {
		m.swap2Turn()
	} else {
		m.switchPlayer()
	}
	m.round++
}

func (m *Match) switchPlayer() {
	m.current = m.opponent(m.current)
}

func (m *Match) opponent(p *Player) *Player {
	if p == m.playerOne {
		return m.playerTwo
	}
	return m.playerOne
}

func (m *Match) report() {
	if m.reporter == nil {
		return
	}
	m.reporter.Report(MatchResult{
		PlayerOneName:   m.playerOne.Name,
		PlayerTwoName:   m.playerTwo.Name,
		PlayerOneWinner: m.winner == m.playerOne,
		PlayerTwoWinner: m.winner == m.playerTwo,
	})
}

// Rematch starts a new game with the same players. Wins and streaks carry over.
func (m *Match) Rematch() {
	m.playerOne.ClearStats()
	m.playerTwo.ClearStats()
	m.reset()
}

// Board returns the color of every cell, indexed [x][y].
func (m *Match) Board() [BoardSize][BoardSize]Color {
	return m.board.Snapshot()
}

// Lines returns the currently tracked lines.
func (m *Match) Lines() []LineRecord {
	return m.lines.Records()
}

func (m *Match) CurrentPlayer() *Player { return m.current }
func (m *Match) PlayerOne() *Player     { return m.playerOne }
func (m *Match) PlayerTwo() *Player     { return m.playerTwo }
func (m *Match) Round() int             { return m.round }
func (m *Match) State() State           { return m.state }
func (m *Match) Opening() Opening       { return m.cfg.Opening }

// GameOver reports whether the match ended by a win or a full board.
func (m *Match) GameOver() bool {
	return m.state == GameOver
}

// Winner returns the winning player, nil while running or after a tie.
func (m *Match) Winner() *Player {
	return m.winner
}
