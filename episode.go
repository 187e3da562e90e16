package selfplay

import (
	"github.com/golang/glog"
	"github.com/pkg/errors"

	"github.com/timpalpant/go-selfplay/quixo"
)

// RenderFunc receives every cell change of a live board.
type RenderFunc func(row, col int, mark quixo.Mark)

// Step is one decision point: the state key recorded immediately before
// Mover chose a move.
type Step struct {
	Key   string
	Mover quixo.Mark
}

// Credit is the discounted terminal return assigned to one recorded state.
type Credit struct {
	Key    string
	Return float64
}

// Result summarizes one finished episode.
type Result struct {
	Outcome quixo.Outcome
	Plies   int
	Final   quixo.Board
	History []Step
	Credits []Credit
	// Unknown is the number of decision points whose key was absent from the lookup.
	Unknown int
}

// UnknownRate is the fraction of decision points whose key was absent from the lookup.
func (r Result) UnknownRate() float64 {
	if r.Plies == 0 {
		return 0
	}

	return float64(r.Unknown) / float64(r.Plies)
}

// Episode plays one game from the empty board, PlayerA first.
type Episode struct {
	params   Params
	policies [2]Policy
	lookup   Lookup
	onChange RenderFunc
}

// NewEpisode returns an Episode in which policyA plays PlayerA and policyB
// plays PlayerB. Both consult lookup, which may be nil.
func NewEpisode(params Params, policyA, policyB Policy, lookup Lookup) *Episode {
	return &Episode{
		params:   params,
		policies: [2]Policy{policyA, policyB},
		lookup:   lookup,
	}
}

// OnChange registers fn to be called for every cell changed by a move.
func (e *Episode) OnChange(fn RenderFunc) *Episode {
	e.onChange = fn
	return e
}

func (e *Episode) policy(mover quixo.Mark) Policy {
	if mover == quixo.PlayerA {
		return e.policies[0]
	}

	return e.policies[1]
}

// Play runs the episode to completion. A game in which no line is completed
// within MoveCeiling plies is a Draw.
//
// Play panics if a policy returns an illegal move.
func (e *Episode) Play() Result {
	var b quixo.Board
	mover := quixo.PlayerA
	outcome := quixo.InProgress
	history := make([]Step, 0, 64)
	unknown := 0

	for len(history) < e.params.MoveCeiling && outcome == quixo.InProgress {
		key := quixo.Key(b, mover)
		history = append(history, Step{Key: key, Mover: mover})
		if !isKnown(e.lookup, key) {
			unknown++
		}

		m := e.policy(mover).Evaluate(b, mover, e.lookup)
		if err := quixo.Check(b, m, mover); err != nil {
			panic(errors.Wrapf(err, "ply %d", len(history)))
		}

		next := quixo.Apply(b, m, mover)
		if e.onChange != nil {
			quixo.Diff(b, next, e.onChange)
		}

		b = next
		outcome = quixo.Evaluate(b, mover)
		mover = mover.Opponent()
	}

	if outcome == quixo.InProgress {
		outcome = quixo.Draw
	}

	result := Result{
		Outcome: outcome,
		Plies:   len(history),
		Final:   b,
		History: history,
		Credits: Credits(history, outcome, e.params),
		Unknown: unknown,
	}

	if glog.V(2) {
		glog.Infof("Episode finished: %v after %d plies (unknown rate %.3f)",
			outcome, result.Plies, result.UnknownRate())
	}

	return result
}

func isKnown(lookup Lookup, key string) bool {
	if lookup == nil {
		return false
	}

	_, ok := lookup.Get(key)
	return ok
}

// Credits assigns the terminal outcome back to every recorded step. Walking
// from the last step to the first, the step i plies before the end receives
// Reward(outcome, step.Mover) * Discount^i.
func Credits(history []Step, outcome quixo.Outcome, params Params) []Credit {
	result := make([]Credit, len(history))
	w := 1.0
	for i := len(history) - 1; i >= 0; i-- {
		step := history[i]
		result[i] = Credit{
			Key:    step.Key,
			Return: params.Reward(outcome, step.Mover) * w,
		}
		w *= params.Discount
	}

	return result
}
