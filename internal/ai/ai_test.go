package ai

import (
	"math/rand"
	"testing"

	"connect4server/internal/game"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBestMoveOpensInCenter(t *testing.T) {
	var b game.Board
	col, err := BestMove(b, game.Red)
	require.NoError(t, err)
	assert.Equal(t, 3, col)
}

func TestBestMoveTakesWinBeforeBlock(t *testing.T) {
	var b game.Board
	// 黄が下段に3つ、赤が6列目に縦3つ。どちらも次で勝てる。
	b[5] = [game.Columns]game.Cell{game.Yellow, game.Yellow, game.Yellow, game.Empty, game.Empty, game.Empty, game.Red}
	b[4][0] = game.Red
	b[4][1] = game.Red
	b[4][6] = game.Red
	b[3][6] = game.Red
	require.NoError(t, b.Validate())

	col, err := BestMove(b, game.Yellow)
	require.NoError(t, err)
	assert.Equal(t, 3, col)
}

func TestBestMoveBlocksOpponentWin(t *testing.T) {
	var b game.Board
	b[5] = [game.Columns]game.Cell{game.Red, game.Red, game.Red, game.Empty, game.Empty, game.Empty, game.Yellow}
	b[4][0] = game.Yellow
	b[4][1] = game.Yellow
	require.NoError(t, b.Validate())

	col, err := BestMove(b, game.Yellow)
	require.NoError(t, err)
	assert.Equal(t, 3, col)
}

func TestBestMoveAvoidsGivingAwayWin(t *testing.T) {
	var b game.Board
	// 赤は(4,0)と(4,4)で勝てる。0列目か4列目に置くと相手に勝ちを渡す。
	b[5] = [game.Columns]game.Cell{game.Empty, game.Yellow, game.Yellow, game.Red}
	b[4] = [game.Columns]game.Cell{game.Empty, game.Red, game.Red, game.Red}
	require.NoError(t, b.Validate())

	col, err := BestMove(b, game.Yellow)
	require.NoError(t, err)
	assert.NotEqual(t, 0, col)
	assert.NotEqual(t, 4, col)
}

func TestBestMoveFullBoard(t *testing.T) {
	var b game.Board
	for row := 0; row < game.Rows; row++ {
		for col := 0; col < game.Columns; col++ {
			b[row][col] = game.Red
		}
	}
	_, err := BestMove(b, game.Yellow)
	assert.ErrorIs(t, err, ErrNoMoves)
}

func TestBestMoveIsAlwaysLegal(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	for i := 0; i < 30; i++ {
		var b game.Board
		color := game.Red
		moves := rng.Intn(30)
		for m := 0; m < moves; m++ {
			cols := b.ValidColumns()
			col := cols[rng.Intn(len(cols))]
			row, err := b.NextOpenRow(col)
			require.NoError(t, err)
			b.Drop(row, col, color)
			if b.CheckWin(row, col, color) != nil {
				break
			}
			color = color.Opponent()
		}
		if b.IsFull() {
			continue
		}

		before := b
		col, err := BestMoveDepth(b, color, 3)
		require.NoError(t, err)
		assert.Contains(t, b.ValidColumns(), col)
		assert.Equal(t, before, b)
	}
}

func TestEvaluatePrefersCenter(t *testing.T) {
	var center, edge game.Board
	center[5][3] = game.Red
	edge[5][0] = game.Red

	assert.Greater(t, Evaluate(&center, game.Red), Evaluate(&edge, game.Red))
	assert.Less(t, Evaluate(&center, game.Yellow), 0)
}

func TestScoreWindow(t *testing.T) {
	r, y, e := game.Red, game.Yellow, game.Empty
	assert.Equal(t, windowFour, scoreWindow(r, r, r, r, r))
	assert.Equal(t, windowThree, scoreWindow(r, e, r, r, r))
	assert.Equal(t, windowTwo, scoreWindow(e, r, r, e, r))
	assert.Equal(t, windowBlockThreat, scoreWindow(y, y, e, y, r))
	assert.Equal(t, 0, scoreWindow(r, y, r, e, r))
}
