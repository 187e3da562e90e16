package selfplay

import (
	"fmt"

	"golang.org/x/exp/rand"

	"github.com/timpalpant/go-selfplay/internal/sampling"
	"github.com/timpalpant/go-selfplay/quixo"
)

// NewPolicy returns the Policy implementation for kind. The policy draws all of
// its randomness from rng, which must not be shared with another goroutine.
func NewPolicy(kind PolicyKind, params Params, rng *rand.Rand) Policy {
	switch kind {
	case Random:
		return &RandomPolicy{rng: rng}
	case Greedy:
		return NewGreedyPolicy(params, rng)
	case Heuristic:
		return NewHeuristicPolicy(params, rng)
	}

	panic(fmt.Errorf("unknown policy kind: %v", kind))
}

// RandomPolicy plays uniformly among the legal moves.
type RandomPolicy struct {
	rng *rand.Rand
}

// NewRandomPolicy returns a RandomPolicy drawing from rng.
func NewRandomPolicy(rng *rand.Rand) *RandomPolicy {
	return &RandomPolicy{rng: rng}
}

// Evaluate implements Policy.
func (p *RandomPolicy) Evaluate(b quixo.Board, mover quixo.Mark, _ Lookup) quixo.Move {
	return sampling.Choice(p.rng, legalMoves(b, mover))
}

func legalMoves(b quixo.Board, mover quixo.Mark) []quixo.Move {
	moves := quixo.LegalMoves(b, mover)
	if len(moves) == 0 {
		panic(fmt.Errorf("no legal moves for %v on board:\n%v", mover, b))
	}

	return moves
}

// winsImmediately reports whether mover playing m on b completes a line for mover.
func winsImmediately(b quixo.Board, m quixo.Move, mover quixo.Mark) bool {
	next := quixo.Apply(b, m, mover)
	return quixo.Evaluate(next, mover) == quixo.WinFor(mover)
}

// hasWinningReply reports whether mover has any move on b that wins at once.
func hasWinningReply(b quixo.Board, mover quixo.Mark) bool {
	for _, m := range quixo.LegalMoves(b, mover) {
		if winsImmediately(b, m, mover) {
			return true
		}
	}

	return false
}
