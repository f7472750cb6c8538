package main

import (
	"bytes"
	"strings"
	"testing"

	"gomokuserver/gomoku"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func newSession(opening gomoku.Opening) (*session, *bytes.Buffer) {
	out := &bytes.Buffer{}
	return &session{
		match:  gomoku.NewMatch(gomoku.Config{PlayerOneName: "Ann", PlayerTwoName: "Ben", Opening: opening}),
		out:    out,
		logger: zap.NewNop(),
	}, out
}

func TestSessionPlaysToWin(t *testing.T) {
	s, out := newSession(gomoku.Standard)
	s.run(strings.NewReader("0 0\n0 1\n1 0\n1 1\n2 0\n2 1\n3 0\n3 1\n4 0\nquit\n9 9\n"))

	assert.Contains(t, out.String(), "Ann wins")
	assert.True(t, s.match.GameOver())
	assert.Equal(t, 5, s.match.PlayerOne().Placed, "input after quit is ignored")
}

func TestSessionReportsErrors(t *testing.T) {
	s, out := newSession(gomoku.Standard)
	s.run(strings.NewReader("7 7\n7 7\n20 1\nfoo\nhistory\n"))

	text := out.String()
	assert.Contains(t, text, "error: "+gomoku.ErrCellOccupied.Error())
	assert.Contains(t, text, "error: "+gomoku.ErrOutOfRange.Error())
	assert.Contains(t, text, `unknown command "foo"`)
	assert.Contains(t, text, "no history server configured")
	assert.Equal(t, 1, s.match.PlayerOne().Placed)
}

func TestSessionSwap2Choice(t *testing.T) {
	s, out := newSession(gomoku.Swap2)
	s.run(strings.NewReader("7 7\n8 8\n9 9\nchoose 2\n"))

	assert.Contains(t, out.String(), "Ben: choose")
	assert.False(t, s.match.ChoiceRequired())
	assert.Same(t, s.match.PlayerOne(), s.match.CurrentPlayer())
	assert.Equal(t, gomoku.Black, s.match.PlayerTwo().Color)
}
