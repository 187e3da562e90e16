package selfplay

import (
	"golang.org/x/exp/rand"

	"github.com/timpalpant/go-selfplay/internal/sampling"
	"github.com/timpalpant/go-selfplay/quixo"
)

// HeuristicPolicy plays by an ordered cascade:
//
//  1. a move that wins at once, if any;
//  2. otherwise only moves after which the opponent has no winning reply
//     (all moves if every one of them leaves a reply);
//  3. among those, a move from a privileged cell, if any;
//  4. otherwise the epsilon-greedy choice among them.
type HeuristicPolicy struct {
	rng    *rand.Rand
	greedy *GreedyPolicy
}

// NewHeuristicPolicy returns a HeuristicPolicy configured by params.
func NewHeuristicPolicy(params Params, rng *rand.Rand) *HeuristicPolicy {
	return &HeuristicPolicy{
		rng:    rng,
		greedy: NewGreedyPolicy(params, rng),
	}
}

// Evaluate implements Policy.
func (p *HeuristicPolicy) Evaluate(b quixo.Board, mover quixo.Mark, lookup Lookup) quixo.Move {
	moves := legalMoves(b, mover)

	var winning []quixo.Move
	for _, m := range moves {
		if winsImmediately(b, m, mover) {
			winning = append(winning, m)
		}
	}

	if len(winning) > 0 {
		return sampling.Choice(p.rng, winning)
	}

	candidates := safeMoves(b, mover, moves)
	if len(candidates) == 0 {
		candidates = moves
	}

	var privileged []quixo.Move
	for _, m := range candidates {
		if IsPrivileged(m.Row, m.Col) {
			privileged = append(privileged, m)
		}
	}

	if len(privileged) > 0 {
		return sampling.Choice(p.rng, privileged)
	}

	return p.greedy.choose(b, mover, candidates, lookup)
}

// safeMoves returns the moves after which the opponent cannot win on the next ply.
func safeMoves(b quixo.Board, mover quixo.Mark, moves []quixo.Move) []quixo.Move {
	var result []quixo.Move
	for _, m := range moves {
		next := quixo.Apply(b, m, mover)
		if !hasWinningReply(next, mover.Opponent()) {
			result = append(result, m)
		}
	}

	return result
}

// IsPrivileged reports whether (row, col) is a corner or the midpoint of an edge.
func IsPrivileged(row, col int) bool {
	const mid = quixo.Size / 2
	if quixo.IsCorner(row, col) {
		return true
	}

	return quixo.IsBorder(row, col) && (row == mid || col == mid)
}
