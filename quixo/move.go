package quixo

import (
	"errors"
	"fmt"
)

// Axis is the line along which a move pushes.
type Axis int

const (
	// AnyAxis is only meaningful as a request to ParseMove.
	AnyAxis Axis = iota
	// Column pushes along the origin's column. Allowed from the top and bottom edges.
	Column
	// Row pushes along the origin's row. Allowed from the left and right edges.
	Row
)

var axisStr = [...]string{
	"any",
	"column",
	"row",
}

// String implements fmt.Stringer.
func (a Axis) String() string {
	if a < AnyAxis || a > Row {
		return fmt.Sprintf("Axis(%d)", int(a))
	}

	return axisStr[a]
}

// Move takes the cube at (Row, Col) and pushes it back in along Axis.
type Move struct {
	Row  int
	Col  int
	Axis Axis
}

// String implements fmt.Stringer.
func (m Move) String() string {
	return fmt.Sprintf("(%d,%d)/%s", m.Row, m.Col, m.Axis)
}

// ErrIllegalMove is wrapped by every *IllegalMoveError.
var ErrIllegalMove = errors.New("illegal move")

// IllegalMoveError describes why a requested move was rejected.
type IllegalMoveError struct {
	Move   Move
	Mover  Mark
	Reason string
}

func (e *IllegalMoveError) Error() string {
	return fmt.Sprintf("illegal move %v for %v: %s", e.Move, e.Mover, e.Reason)
}

// Unwrap makes errors.Is(err, ErrIllegalMove) hold.
func (e *IllegalMoveError) Unwrap() error {
	return ErrIllegalMove
}

// Axes returns the axes that may be pushed from a border cell.
// Non-border cells have none.
func Axes(row, col int) []Axis {
	if !IsBorder(row, col) {
		return nil
	}

	axes := make([]Axis, 0, 2)
	if row == 0 || row == Size-1 {
		axes = append(axes, Column)
	}
	if col == 0 || col == Size-1 {
		axes = append(axes, Row)
	}

	return axes
}

func axisAllowed(row, col int, axis Axis) bool {
	switch axis {
	case Column:
		return row == 0 || row == Size-1
	case Row:
		return col == 0 || col == Size-1
	}

	return false
}

// LegalMoves enumerates every move available to mover, in row-major order
// of origin and with Column before Row at corners.
func LegalMoves(b Board, mover Mark) []Move {
	moves := make([]Move, 0, 44)
	for i := 0; i < Size; i++ {
		for j := 0; j < Size; j++ {
			if !IsBorder(i, j) {
				continue
			}

			if c := b[i][j]; c != Empty && c != mover {
				continue
			}

			for _, axis := range Axes(i, j) {
				moves = append(moves, Move{Row: i, Col: j, Axis: axis})
			}
		}
	}

	return moves
}

// Check returns an *IllegalMoveError if mover may not play m on b.
func Check(b Board, m Move, mover Mark) error {
	illegal := func(reason string) error {
		return &IllegalMoveError{Move: m, Mover: mover, Reason: reason}
	}

	switch {
	case !mover.IsPlayer():
		return illegal("no player to move")
	case !inBounds(m.Row, m.Col):
		return illegal("cell is off the board")
	case !IsBorder(m.Row, m.Col):
		return illegal("cell is not on the border")
	case b[m.Row][m.Col] == mover.Opponent():
		return illegal("cell is held by the opponent")
	case !axisAllowed(m.Row, m.Col, m.Axis):
		return illegal(fmt.Sprintf("cannot push along %v from this cell", m.Axis))
	}

	return nil
}

// ParseMove converts a raw (row, col) request into a legal Move. With AnyAxis,
// edge cells resolve to their only axis and corners resolve to Column.
func ParseMove(b Board, mover Mark, row, col int, axis Axis) (Move, error) {
	m := Move{Row: row, Col: col, Axis: axis}
	if axis == AnyAxis {
		if axes := Axes(row, col); len(axes) > 0 {
			m.Axis = axes[0]
		}
	}

	if err := Check(b, m, mover); err != nil {
		return Move{}, err
	}

	return m, nil
}

// Apply returns the board after mover plays m. The input board is not
// modified. The cube at the origin is removed, the rest of the line slides
// one cell toward the origin, and mover's mark is inserted at the far end.
//
// Apply does not validate m; use Check first for untrusted moves.
func Apply(b Board, m Move, mover Mark) Board {
	r, c := m.Row, m.Col
	switch m.Axis {
	case Column:
		if r == 0 {
			for i := 0; i < Size-1; i++ {
				b[i][c] = b[i+1][c]
			}
			b[Size-1][c] = mover
		} else {
			for i := Size - 1; i > 0; i-- {
				b[i][c] = b[i-1][c]
			}
			b[0][c] = mover
		}
	case Row:
		if c == 0 {
			for j := 0; j < Size-1; j++ {
				b[r][j] = b[r][j+1]
			}
			b[r][Size-1] = mover
		} else {
			for j := Size - 1; j > 0; j-- {
				b[r][j] = b[r][j-1]
			}
			b[r][0] = mover
		}
	default:
		panic(fmt.Errorf("cannot apply move with axis %v", m.Axis))
	}

	return b
}
