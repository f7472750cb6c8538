package gomoku

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBoardPlaceAndGet(t *testing.T) {
	b := NewBoard()

	_, ok, err := b.Get(3, 4)
	require.NoError(t, err)
	assert.False(t, ok)

	id, err := b.Place(3, 4, Black)
	require.NoError(t, err)

	got, ok, err := b.Get(3, 4)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, id, got)
	assert.Equal(t, Position{X: 3, Y: 4}, b.Stone(id).Pos)
	assert.Equal(t, Black, b.Stone(id).Color)
	assert.Equal(t, 1, b.Count())
	assert.Equal(t, Black, b.Snapshot()[3][4])
}

func TestBoardOutOfRange(t *testing.T) {
	b := NewBoard()
	for _, pos := range []Position{{-1, 0}, {0, -1}, {BoardSize, 0}, {0, BoardSize}} {
		_, _, err := b.Get(pos.X, pos.Y)
		assert.ErrorIs(t, err, ErrOutOfRange, "get %v", pos)

		_, err = b.Place(pos.X, pos.Y, White)
		assert.ErrorIs(t, err, ErrOutOfRange, "place %v", pos)
	}
	assert.Equal(t, 0, b.Count())
}

func TestBoardCellOccupied(t *testing.T) {
	b := NewBoard()
	first, err := b.Place(7, 7, Black)
	require.NoError(t, err)

	_, err = b.Place(7, 7, White)
	assert.ErrorIs(t, err, ErrCellOccupied)

	got, _, _ := b.Get(7, 7)
	assert.Equal(t, first, got)
	assert.Equal(t, Black, b.Stone(got).Color)
	assert.Equal(t, 1, b.Count())
}

func TestBoardFull(t *testing.T) {
	b := NewBoard()
	for x := 0; x < BoardSize; x++ {
		for y := 0; y < BoardSize; y++ {
			assert.False(t, b.Full())
			_, err := b.Place(x, y, Black)
			require.NoError(t, err)
		}
	}
	assert.True(t, b.Full())
}
