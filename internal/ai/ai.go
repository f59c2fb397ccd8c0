// Package ai picks moves for the computer player.
//
// The search is a pure function of the board it is given: the board is passed
// by value and every simulated drop is undone before returning.
package ai

import (
	"errors"
	"math"

	"connect4server/internal/game"
)

const (
	DefaultDepth = 6

	WinScore  = 10000
	LossScore = -WinScore
	DrawScore = 0

	centerColumn = game.Columns / 2
)

var ErrNoMoves = errors.New("no legal moves")

// BestMove returns the column the AI should play with the default search depth.
func BestMove(b game.Board, me game.Cell) (int, error) {
	return BestMoveDepth(b, me, DefaultDepth)
}

// BestMoveDepth applies, in order: opening book, win now, block now, minimax.
func BestMoveDepth(b game.Board, me game.Cell, depth int) (int, error) {
	cols := b.ValidColumns()
	if len(cols) == 0 {
		return -1, ErrNoMoves
	}
	if depth < 1 {
		depth = 1
	}

	// 初手は中央
	if b.IsEmpty() {
		return centerColumn, nil
	}

	if col, ok := winningColumn(&b, me); ok {
		return col, nil
	}
	if col, ok := winningColumn(&b, me.Opponent()); ok {
		return col, nil
	}

	s := searcher{me: me, opp: me.Opponent()}
	bestCol := cols[0]
	bestScore := math.MinInt
	alpha, beta := math.MinInt, math.MaxInt
	for _, col := range cols {
		row, _ := b.NextOpenRow(col)
		b.Drop(row, col, me)
		score := s.minimax(&b, depth-1, alpha, beta, false)
		b.Undo(row, col)

		if score > bestScore {
			bestScore = score
			bestCol = col
		}
		alpha = max(alpha, bestScore)
	}
	return bestCol, nil
}

// winningColumn finds a column where dropping c wins immediately.
func winningColumn(b *game.Board, c game.Cell) (int, bool) {
	for _, col := range b.ValidColumns() {
		row, _ := b.NextOpenRow(col)
		b.Drop(row, col, c)
		won := b.CheckWin(row, col, c) != nil
		b.Undo(row, col)
		if won {
			return col, true
		}
	}
	return -1, false
}

type searcher struct {
	me  game.Cell
	opp game.Cell
}

func (s *searcher) minimax(b *game.Board, depth, alpha, beta int, maximizing bool) int {
	switch winner, _ := b.FindAnyWinner(); winner {
	case s.me:
		return WinScore
	case s.opp:
		return LossScore
	}
	if b.IsFull() {
		return DrawScore
	}
	if depth == 0 {
		return Evaluate(b, s.me)
	}

	if maximizing {
		best := math.MinInt
		for _, col := range b.ValidColumns() {
			row, _ := b.NextOpenRow(col)
			b.Drop(row, col, s.me)
			best = max(best, s.minimax(b, depth-1, alpha, beta, false))
			b.Undo(row, col)

			alpha = max(alpha, best)
			if beta <= alpha {
				break
			}
		}
		return best
	}

	best := math.MaxInt
	for _, col := range b.ValidColumns() {
		row, _ := b.NextOpenRow(col)
		b.Drop(row, col, s.opp)
		best = min(best, s.minimax(b, depth-1, alpha, beta, true))
		b.Undo(row, col)

		beta = min(beta, best)
		if beta <= alpha {
			break
		}
	}
	return best
}
