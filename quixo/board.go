// Package quixo implements the board, move rules and terminal detection for
// Quixo, a 5x5 game in which every move claims a border cube and pushes it
// back into the grid, sliding the rest of its row or column.
package quixo

import (
	"fmt"
	"strings"
)

// Size is the number of rows and columns on the board.
const Size = 5

// Mark is the content of a single cell.
type Mark int

const (
	Empty Mark = iota
	PlayerA
	PlayerB
)

var markStr = [...]string{
	".",
	"X",
	"O",
}

// String implements fmt.Stringer.
func (m Mark) String() string {
	if m < Empty || m > PlayerB {
		return fmt.Sprintf("Mark(%d)", int(m))
	}

	return markStr[m]
}

// Opponent returns the other player. Empty has no opponent.
func (m Mark) Opponent() Mark {
	switch m {
	case PlayerA:
		return PlayerB
	case PlayerB:
		return PlayerA
	}

	return Empty
}

// IsPlayer reports whether m is one of the two players.
func (m Mark) IsPlayer() bool {
	return m == PlayerA || m == PlayerB
}

func parseMark(c byte) (Mark, bool) {
	switch c {
	case '.', ' ', '-':
		return Empty, true
	case 'X', 'x':
		return PlayerA, true
	case 'O', 'o':
		return PlayerB, true
	}

	return Empty, false
}

// Board is the 5x5 grid. It is a value type: assigning or passing a Board
// copies all of its cells.
type Board [Size][Size]Mark

// String renders the board one row per line.
func (b Board) String() string {
	var sb strings.Builder
	for i, row := range b {
		if i > 0 {
			sb.WriteByte('\n')
		}
		sb.WriteByte('|')
		for _, m := range row {
			sb.WriteString(m.String())
			sb.WriteByte('|')
		}
	}

	return sb.String()
}

// Count returns the number of cells holding m.
func (b Board) Count(m Mark) int {
	n := 0
	for _, row := range b {
		for _, c := range row {
			if c == m {
				n++
			}
		}
	}

	return n
}

// ParseBoard reads a board from Size rows of Size cells each, using
// '.' (or ' ', '-') for empty, 'X' for PlayerA and 'O' for PlayerB.
func ParseBoard(rows ...string) (Board, error) {
	var b Board
	if len(rows) != Size {
		return b, fmt.Errorf("expected %d rows, got %d", Size, len(rows))
	}

	for i, row := range rows {
		if len(row) != Size {
			return b, fmt.Errorf("row %d: expected %d cells, got %d", i, Size, len(row))
		}

		for j := 0; j < Size; j++ {
			m, ok := parseMark(row[j])
			if !ok {
				return b, fmt.Errorf("row %d: invalid cell %q", i, row[j])
			}
			b[i][j] = m
		}
	}

	return b, nil
}

// MustParseBoard is like ParseBoard but panics on error.
func MustParseBoard(rows ...string) Board {
	b, err := ParseBoard(rows...)
	if err != nil {
		panic(err)
	}

	return b
}

// Diff calls fn for every cell whose mark differs between prev and next.
func Diff(prev, next Board, fn func(row, col int, mark Mark)) {
	for i := 0; i < Size; i++ {
		for j := 0; j < Size; j++ {
			if prev[i][j] != next[i][j] {
				fn(i, j, next[i][j])
			}
		}
	}
}

// IsBorder reports whether (row, col) lies on the outer ring of the board.
func IsBorder(row, col int) bool {
	if !inBounds(row, col) {
		return false
	}

	return row == 0 || row == Size-1 || col == 0 || col == Size-1
}

// IsCorner reports whether (row, col) is one of the four corners.
func IsCorner(row, col int) bool {
	return (row == 0 || row == Size-1) && (col == 0 || col == Size-1)
}

func inBounds(row, col int) bool {
	return row >= 0 && row < Size && col >= 0 && col < Size
}
