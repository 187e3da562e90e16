package selfplay

import (
	"golang.org/x/exp/rand"

	"github.com/timpalpant/go-selfplay/internal/sampling"
	"github.com/timpalpant/go-selfplay/quixo"
)

// GreedyPolicy is the epsilon-greedy lookup policy. With probability Epsilon it
// plays uniformly at random; otherwise it plays the move whose resulting state
// has the best value for the mover, breaking ties uniformly.
type GreedyPolicy struct {
	params Params
	rng    *rand.Rand
}

// NewGreedyPolicy returns a GreedyPolicy configured by params.
func NewGreedyPolicy(params Params, rng *rand.Rand) *GreedyPolicy {
	return &GreedyPolicy{params: params, rng: rng}
}

// Evaluate implements Policy.
func (p *GreedyPolicy) Evaluate(b quixo.Board, mover quixo.Mark, lookup Lookup) quixo.Move {
	return p.choose(b, mover, legalMoves(b, mover), lookup)
}

// choose applies the epsilon-greedy rule to the given candidate moves.
func (p *GreedyPolicy) choose(b quixo.Board, mover quixo.Mark, moves []quixo.Move, lookup Lookup) quixo.Move {
	if sampling.Bernoulli(p.rng, p.params.Epsilon) {
		return sampling.Choice(p.rng, moves)
	}

	scores := make([]float64, len(moves))
	for i, m := range moves {
		scores[i] = p.Score(quixo.Apply(b, m, mover), mover, lookup)
	}

	return moves[sampling.ArgMax(p.rng, scores)]
}

// Score returns the value for mover of the position after mover has played.
//
// Values are stored for the side to move, so the entry for the resulting key
// (opponent to move) is converted to mover's point of view. A state missing
// from lookup scores UnknownScore.
func (p *GreedyPolicy) Score(next quixo.Board, mover quixo.Mark, lookup Lookup) float64 {
	if lookup == nil {
		return p.params.UnknownScore
	}

	e, ok := lookup.Get(quixo.Key(next, mover.Opponent()))
	if !ok {
		return p.params.UnknownScore
	}

	return p.params.Complement(e.Average)
}
