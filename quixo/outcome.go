package quixo

import (
	"fmt"
	"strings"
)

// Outcome is the result of a game, or InProgress while it is still running.
type Outcome int

const (
	InProgress Outcome = iota
	WinA
	WinB
	Draw
)

var outcomeStr = [...]string{
	"IN_PROGRESS",
	"WIN_A",
	"WIN_B",
	"DRAW",
}

// String implements fmt.Stringer.
func (o Outcome) String() string {
	if o < InProgress || o > Draw {
		return fmt.Sprintf("Outcome(%d)", int(o))
	}

	return outcomeStr[o]
}

// Winner returns the mark of the winning player, or Empty for Draw and InProgress.
func (o Outcome) Winner() Mark {
	switch o {
	case WinA:
		return PlayerA
	case WinB:
		return PlayerB
	}

	return Empty
}

// IsTerminal reports whether the game is over.
func (o Outcome) IsTerminal() bool {
	return o != InProgress
}

// WinFor returns the winning outcome for m.
func WinFor(m Mark) Outcome {
	switch m {
	case PlayerA:
		return WinA
	case PlayerB:
		return WinB
	}

	panic(fmt.Errorf("no winning outcome for %v", m))
}

// lines lists every row, column and both diagonals as cell coordinates.
var lines = buildLines()

func buildLines() [][Size][2]int {
	result := make([][Size][2]int, 0, 2*Size+2)
	for i := 0; i < Size; i++ {
		var row, col [Size][2]int
		for j := 0; j < Size; j++ {
			row[j] = [2]int{i, j}
			col[j] = [2]int{j, i}
		}
		result = append(result, row, col)
	}

	var diag, anti [Size][2]int
	for i := 0; i < Size; i++ {
		diag[i] = [2]int{i, i}
		anti[i] = [2]int{i, Size - 1 - i}
	}

	return append(result, diag, anti)
}

// Lines reports whether PlayerA and PlayerB each hold at least one complete
// row, column or diagonal.
func Lines(b Board) (a, o bool) {
	for _, line := range lines {
		first := b[line[0][0]][line[0][1]]
		if first == Empty {
			continue
		}

		uniform := true
		for _, cell := range line[1:] {
			if b[cell[0]][cell[1]] != first {
				uniform = false
				break
			}
		}

		if uniform {
			switch first {
			case PlayerA:
				a = true
			case PlayerB:
				o = true
			}
		}
	}

	return a, o
}

// Evaluate returns the outcome after justMoved has played on b.
//
// Only a line held by justMoved ends the game. A push can also complete a line
// for the opponent; that line does not count until the opponent keeps it intact
// through their own move. When both players hold lines, justMoved wins.
// Evaluate never returns Draw.
func Evaluate(b Board, justMoved Mark) Outcome {
	a, o := Lines(b)
	switch {
	case justMoved == PlayerA && a:
		return WinA
	case justMoved == PlayerB && o:
		return WinB
	}

	return InProgress
}

// Key is the canonical state key: the 25 cells in row-major order followed by
// '/' and the mark of the player to move next.
func Key(b Board, next Mark) string {
	var sb strings.Builder
	sb.Grow(Size*Size + 2)
	for _, row := range b {
		for _, m := range row {
			sb.WriteString(m.String())
		}
	}
	sb.WriteByte('/')
	sb.WriteString(next.String())
	return sb.String()
}

// ParseKey is the inverse of Key.
func ParseKey(key string) (Board, Mark, error) {
	var b Board
	if len(key) != Size*Size+2 || key[Size*Size] != '/' {
		return b, Empty, fmt.Errorf("malformed state key %q", key)
	}

	for i := 0; i < Size*Size; i++ {
		m, ok := parseMark(key[i])
		if !ok || key[i] == ' ' || key[i] == '-' {
			return b, Empty, fmt.Errorf("malformed state key %q: invalid cell %q", key, key[i])
		}
		b[i/Size][i%Size] = m
	}

	next, ok := parseMark(key[Size*Size+1])
	if !ok || !next.IsPlayer() {
		return b, Empty, fmt.Errorf("malformed state key %q: invalid mover", key)
	}

	return b, next, nil
}
