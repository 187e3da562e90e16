package selfplay

import (
	"github.com/timpalpant/go-selfplay/quixo"
)

// Policy selects a move for mover on board b.
//
// The board is passed by value, so a Policy may explore lookahead positions
// freely without affecting the caller. lookup may be nil, which is treated as
// an empty table. Evaluate must return a legal move; it panics if mover has
// none. A position that is still in progress always has one, because a player
// who has lost every border cell has lost the top row with it.
type Policy interface {
	Evaluate(b quixo.Board, mover quixo.Mark, lookup Lookup) quixo.Move
}

// PolicyFunc adapts an ordinary function to the Policy interface.
type PolicyFunc func(b quixo.Board, mover quixo.Mark, lookup Lookup) quixo.Move

// Evaluate implements Policy.
func (f PolicyFunc) Evaluate(b quixo.Board, mover quixo.Mark, lookup Lookup) quixo.Move {
	return f(b, mover, lookup)
}
