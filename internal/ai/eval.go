package ai

import "connect4server/internal/game"

// Window scores for a run of four cells seen from the AI's side.
const (
	windowFour        = 100
	windowThree       = 5
	windowTwo         = 2
	windowBlockThreat = -4
)

// 中央ほど高い位置評価。そのマスを含む4連の本数に比例する。
var positionWeights = [game.Rows][game.Columns]int{
	{3, 4, 5, 7, 5, 4, 3},
	{4, 6, 8, 10, 8, 6, 4},
	{5, 8, 11, 13, 11, 8, 5},
	{5, 8, 11, 13, 11, 8, 5},
	{4, 6, 8, 10, 8, 6, 4},
	{3, 4, 5, 7, 5, 4, 3},
}

// Evaluate scores a non-terminal board from me's point of view.
func Evaluate(b *game.Board, me game.Cell) int {
	opp := me.Opponent()
	score := 0

	for row := 0; row < game.Rows; row++ {
		for col := 0; col < game.Columns; col++ {
			switch b[row][col] {
			case me:
				score += positionWeights[row][col]
			case opp:
				score -= positionWeights[row][col]
			}
		}
	}

	// 横
	for row := 0; row < game.Rows; row++ {
		for col := 0; col <= game.Columns-game.WinLength; col++ {
			score += scoreWindow(b[row][col], b[row][col+1], b[row][col+2], b[row][col+3], me)
		}
	}
	// 縦
	for col := 0; col < game.Columns; col++ {
		for row := 0; row <= game.Rows-game.WinLength; row++ {
			score += scoreWindow(b[row][col], b[row+1][col], b[row+2][col], b[row+3][col], me)
		}
	}
	// 右下がり
	for row := 0; row <= game.Rows-game.WinLength; row++ {
		for col := 0; col <= game.Columns-game.WinLength; col++ {
			score += scoreWindow(b[row][col], b[row+1][col+1], b[row+2][col+2], b[row+3][col+3], me)
		}
	}
	// 右上がり
	for row := game.WinLength - 1; row < game.Rows; row++ {
		for col := 0; col <= game.Columns-game.WinLength; col++ {
			score += scoreWindow(b[row][col], b[row-1][col+1], b[row-2][col+2], b[row-3][col+3], me)
		}
	}

	return score
}

func scoreWindow(a, b, c, d game.Cell, me game.Cell) int {
	mine, theirs, empty := 0, 0, 0
	for _, cell := range [4]game.Cell{a, b, c, d} {
		switch cell {
		case game.Empty:
			empty++
		case me:
			mine++
		default:
			theirs++
		}
	}

	switch {
	case mine == 4:
		return windowFour
	case mine == 3 && empty == 1:
		return windowThree
	case mine == 2 && empty == 2:
		return windowTwo
	case theirs == 3 && empty == 1:
		return windowBlockThreat
	}
	return 0
}
