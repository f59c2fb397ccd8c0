package game

import (
	"encoding/json"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func drop(t *testing.T, b *Board, col int, c Cell) int {
	t.Helper()
	row, err := b.NextOpenRow(col)
	require.NoError(t, err)
	b.Drop(row, col, c)
	return row
}

func TestNextOpenRow(t *testing.T) {
	var b Board

	row, err := b.NextOpenRow(3)
	require.NoError(t, err)
	assert.Equal(t, Rows-1, row)

	for i := 0; i < Rows; i++ {
		drop(t, &b, 3, Red)
	}
	_, err = b.NextOpenRow(3)
	assert.ErrorIs(t, err, ErrColumnFull)

	_, err = b.NextOpenRow(-1)
	assert.ErrorIs(t, err, ErrColumnOutOfRange)
	_, err = b.NextOpenRow(Columns)
	assert.ErrorIs(t, err, ErrColumnOutOfRange)
}

func TestRandomDropsKeepGravity(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for game := 0; game < 50; game++ {
		var b Board
		color := Red
		for !b.IsFull() {
			cols := b.ValidColumns()
			drop(t, &b, cols[rng.Intn(len(cols))], color)
			require.NoError(t, b.Validate())
			color = color.Opponent()
		}
		assert.Equal(t, Rows*Columns, b.Count())
	}
}

func TestValidateDetectsFloatingStone(t *testing.T) {
	var b Board
	b.Drop(2, 4, Yellow)
	assert.Error(t, b.Validate())
}

func TestCheckWinDirections(t *testing.T) {
	t.Run("horizontal", func(t *testing.T) {
		var b Board
		for col := 1; col <= 4; col++ {
			drop(t, &b, col, Red)
		}
		run := b.CheckWin(5, 2, Red)
		assert.ElementsMatch(t, []Position{{5, 1}, {5, 2}, {5, 3}, {5, 4}}, run)
	})

	t.Run("vertical", func(t *testing.T) {
		var b Board
		for i := 0; i < 4; i++ {
			drop(t, &b, 0, Yellow)
		}
		run := b.CheckWin(2, 0, Yellow)
		assert.ElementsMatch(t, []Position{{2, 0}, {3, 0}, {4, 0}, {5, 0}}, run)
	})

	t.Run("diagonal down-right", func(t *testing.T) {
		var b Board
		// (2,0) (3,1) (4,2) (5,3)
		b[5] = [Columns]Cell{Yellow, Yellow, Yellow, Red}
		b[4] = [Columns]Cell{Yellow, Yellow, Red}
		b[3] = [Columns]Cell{Yellow, Red}
		b[2] = [Columns]Cell{Red}
		require.NoError(t, b.Validate())
		run := b.CheckWin(2, 0, Red)
		assert.ElementsMatch(t, []Position{{2, 0}, {3, 1}, {4, 2}, {5, 3}}, run)
	})

	t.Run("diagonal up-right", func(t *testing.T) {
		var b Board
		// (5,0) (4,1) (3,2) (2,3)
		b[5] = [Columns]Cell{Red, Yellow, Yellow, Yellow}
		b[4] = [Columns]Cell{Empty, Red, Yellow, Yellow}
		b[3] = [Columns]Cell{Empty, Empty, Red, Yellow}
		b[2] = [Columns]Cell{Empty, Empty, Empty, Red}
		require.NoError(t, b.Validate())
		run := b.CheckWin(3, 2, Red)
		assert.ElementsMatch(t, []Position{{5, 0}, {4, 1}, {3, 2}, {2, 3}}, run)
	})

	t.Run("three is not a win", func(t *testing.T) {
		var b Board
		for col := 0; col < 3; col++ {
			drop(t, &b, col, Red)
		}
		assert.Nil(t, b.CheckWin(5, 1, Red))
	})

	t.Run("other color breaks the run", func(t *testing.T) {
		var b Board
		drop(t, &b, 0, Red)
		drop(t, &b, 1, Red)
		drop(t, &b, 2, Yellow)
		drop(t, &b, 3, Red)
		drop(t, &b, 4, Red)
		assert.Nil(t, b.CheckWin(5, 3, Red))
	})
}

func TestCheckWinFiveInARow(t *testing.T) {
	var b Board
	for _, col := range []int{0, 1, 3, 4} {
		drop(t, &b, col, Red)
	}
	row := drop(t, &b, 2, Red)

	run := b.CheckWin(row, 2, Red)
	assert.Len(t, run, 5)
	assert.Contains(t, run, Position{Row: 5, Col: 2})
}

func TestFindAnyWinner(t *testing.T) {
	var b Board
	winner, run := b.FindAnyWinner()
	assert.Equal(t, Empty, winner)
	assert.Nil(t, run)

	for i := 0; i < 4; i++ {
		drop(t, &b, 6, Yellow)
	}
	winner, run = b.FindAnyWinner()
	assert.Equal(t, Yellow, winner)
	assert.Len(t, run, 4)
}

func TestIsFullAndUndo(t *testing.T) {
	var b Board
	assert.True(t, b.IsEmpty())
	assert.False(t, b.IsFull())

	color := Red
	for col := 0; col < Columns; col++ {
		for i := 0; i < Rows; i++ {
			drop(t, &b, col, color)
			color = color.Opponent()
		}
	}
	assert.True(t, b.IsFull())
	assert.Empty(t, b.ValidColumns())

	b.Undo(0, 5)
	assert.False(t, b.IsFull())
	assert.Equal(t, []int{5}, b.ValidColumns())
}

func TestValidColumnsCenterFirst(t *testing.T) {
	var b Board
	assert.Equal(t, []int{3, 2, 4, 1, 5, 0, 6}, b.ValidColumns())
}

func TestBoardJSON(t *testing.T) {
	var b Board
	b.Drop(5, 0, Red)
	b.Drop(5, 1, Yellow)

	data, err := json.Marshal(b)
	require.NoError(t, err)

	var rows [][]*string
	require.NoError(t, json.Unmarshal(data, &rows))
	require.Len(t, rows, Rows)
	assert.Nil(t, rows[0][0])
	assert.Equal(t, "red", *rows[5][0])
	assert.Equal(t, "yellow", *rows[5][1])

	var back Board
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, b, back)
}
