package game

import (
	"encoding/json"
	"errors"
	"fmt"
)

const (
	Rows      = 6
	Columns   = 7
	WinLength = 4
)

var (
	ErrColumnOutOfRange = errors.New("column out of range")
	ErrColumnFull       = errors.New("column is full")
)

// Cell は盤面の1マスの状態
type Cell int8

const (
	Empty Cell = iota
	Red
	Yellow
)

func (c Cell) String() string {
	switch c {
	case Red:
		return "red"
	case Yellow:
		return "yellow"
	default:
		return ""
	}
}

// Opponent returns the other stone color. Empty has no opponent.
func (c Cell) Opponent() Cell {
	switch c {
	case Red:
		return Yellow
	case Yellow:
		return Red
	default:
		return Empty
	}
}

// 空のマスはnull、それ以外は"red"/"yellow"
func (c Cell) MarshalJSON() ([]byte, error) {
	if c == Empty {
		return []byte("null"), nil
	}
	return json.Marshal(c.String())
}

func (c *Cell) UnmarshalJSON(data []byte) error {
	var s *string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	switch {
	case s == nil || *s == "":
		*c = Empty
	case *s == "red":
		*c = Red
	case *s == "yellow":
		*c = Yellow
	default:
		return fmt.Errorf("unknown cell value %q", *s)
	}
	return nil
}

type Position struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// Board は6x7の盤面。0行目が最上段、5行目が最下段。
// 値型なのでコピーしても元の盤面には影響しない。
type Board [Rows][Columns]Cell

// 勝利判定の4方向（横、縦、右下がり、右上がり）
var axes = [4][2]int{
	{0, 1},
	{1, 0},
	{1, 1},
	{-1, 1},
}

// 中央寄りの列から順に探索する
var columnOrder = [Columns]int{3, 2, 4, 1, 5, 0, 6}

func inBounds(row, col int) bool {
	return row >= 0 && row < Rows && col >= 0 && col < Columns
}

// NextOpenRow scans the column bottom-up and returns the first empty row.
func (b *Board) NextOpenRow(col int) (int, error) {
	if col < 0 || col >= Columns {
		return -1, ErrColumnOutOfRange
	}
	for row := Rows - 1; row >= 0; row-- {
		if b[row][col] == Empty {
			return row, nil
		}
	}
	return -1, ErrColumnFull
}

// Drop writes a stone. The caller validates the position with NextOpenRow first.
func (b *Board) Drop(row, col int, c Cell) {
	b[row][col] = c
}

func (b *Board) Undo(row, col int) {
	b[row][col] = Empty
}

// CheckWin extends outward from the just-placed cell along each axis and returns
// the contiguous run of the same color if it is at least WinLength long.
func (b *Board) CheckWin(row, col int, c Cell) []Position {
	if c == Empty || !inBounds(row, col) || b[row][col] != c {
		return nil
	}
	for _, axis := range axes {
		dr, dc := axis[0], axis[1]

		// 連続している区間の端まで戻る
		r, k := row, col
		for inBounds(r-dr, k-dc) && b[r-dr][k-dc] == c {
			r -= dr
			k -= dc
		}

		var run []Position
		for inBounds(r, k) && b[r][k] == c {
			run = append(run, Position{Row: r, Col: k})
			r += dr
			k += dc
		}
		if len(run) >= WinLength {
			return run
		}
	}
	return nil
}

// FindAnyWinner scans the whole board. Used where the last move is not known.
func (b *Board) FindAnyWinner() (Cell, []Position) {
	for row := 0; row < Rows; row++ {
		for col := 0; col < Columns; col++ {
			c := b[row][col]
			if c == Empty {
				continue
			}
			if run := b.CheckWin(row, col, c); run != nil {
				return c, run
			}
		}
	}
	return Empty, nil
}

func (b *Board) IsFull() bool {
	for col := 0; col < Columns; col++ {
		if b[0][col] == Empty {
			return false
		}
	}
	return true
}

func (b *Board) IsEmpty() bool {
	for col := 0; col < Columns; col++ {
		if b[Rows-1][col] != Empty {
			return false
		}
	}
	return true
}

// ValidColumns returns the playable columns, center first.
func (b *Board) ValidColumns() []int {
	cols := make([]int, 0, Columns)
	for _, col := range columnOrder {
		if b[0][col] == Empty {
			cols = append(cols, col)
		}
	}
	return cols
}

// Count returns how many stones are on the board.
func (b *Board) Count() int {
	n := 0
	for row := 0; row < Rows; row++ {
		for col := 0; col < Columns; col++ {
			if b[row][col] != Empty {
				n++
			}
		}
	}
	return n
}

// Validate reports a floating stone (a non-empty cell above an empty one).
func (b *Board) Validate() error {
	for col := 0; col < Columns; col++ {
		for row := 1; row < Rows; row++ {
			if b[row][col] == Empty && b[row-1][col] != Empty {
				return fmt.Errorf("floating stone at row %d column %d", row-1, col)
			}
		}
	}
	return nil
}
