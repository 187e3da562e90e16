package selfplay

import (
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/timpalpant/go-selfplay/internal/sampling"
	"github.com/timpalpant/go-selfplay/quixo"
)

// bottomRowPolicy fills row 4 by pushing each column up from the top edge.
func bottomRowPolicy() Policy {
	col := 0
	return PolicyFunc(func(b quixo.Board, mover quixo.Mark, lookup Lookup) quixo.Move {
		m := quixo.Move{Row: 0, Col: col, Axis: quixo.Column}
		col++
		return m
	})
}

// rowTwoPolicy always pushes row 2 from the left edge.
func rowTwoPolicy() Policy {
	return PolicyFunc(func(b quixo.Board, mover quixo.Mark, lookup Lookup) quixo.Move {
		return quixo.Move{Row: 2, Col: 0, Axis: quixo.Row}
	})
}

func signedParams() Params {
	p := DefaultParams()
	p.WinReward, p.DrawReward, p.LossReward = 1, 0, -1
	return p
}

func TestEpisode_ScriptedWin(t *testing.T) {
	params := signedParams()
	result := NewEpisode(params, bottomRowPolicy(), rowTwoPolicy(), nil).Play()

	assert.Equal(t, quixo.WinA, result.Outcome)
	assert.Equal(t, 9, result.Plies)
	assert.Equal(t, "XXXXX", rowString(result.Final, 4))

	require.Len(t, result.History, 9)
	assert.Equal(t, quixo.Key(quixo.Board{}, quixo.PlayerA), result.History[0].Key)
	for i, step := range result.History {
		if i%2 == 0 {
			assert.Equal(t, quixo.PlayerA, step.Mover)
		} else {
			assert.Equal(t, quixo.PlayerB, step.Mover)
		}
	}

	require.Len(t, result.Credits, 9)
	assert.Equal(t, 1.0, result.Credits[8].Return)
	assert.InDelta(t, -0.9, result.Credits[7].Return, 1e-12)
	assert.InDelta(t, 0.81, result.Credits[6].Return, 1e-12)
	assert.InDelta(t, math.Pow(0.9, 8), result.Credits[0].Return, 1e-12)
	for i, c := range result.Credits {
		assert.Equal(t, result.History[i].Key, c.Key)
	}

	assert.Equal(t, 9, result.Unknown)
	assert.Equal(t, 1.0, result.UnknownRate())
}

func rowString(b quixo.Board, row int) string {
	var sb strings.Builder
	for _, m := range b[row] {
		sb.WriteString(m.String())
	}

	return sb.String()
}

func TestEpisode_UnknownCountsLookupMisses(t *testing.T) {
	lookup := NewTable()
	lookup.Observe(quixo.Key(quixo.Board{}, quixo.PlayerA), 0.5)

	result := NewEpisode(DefaultParams(), bottomRowPolicy(), rowTwoPolicy(), lookup).Play()
	assert.Equal(t, 8, result.Unknown)
	assert.InDelta(t, 8.0/9.0, result.UnknownRate(), 1e-12)
	// The lookup is read, never written.
	assert.Equal(t, 1, lookup.Len())
}

func TestEpisode_MoveCeilingIsDraw(t *testing.T) {
	params := signedParams()
	params.DrawReward = 0
	params.MoveCeiling = 4
	rng := sampling.NewRand(1)

	result := NewEpisode(params, NewRandomPolicy(rng), NewRandomPolicy(rng), nil).Play()
	assert.Equal(t, quixo.Draw, result.Outcome)
	assert.Equal(t, 4, result.Plies)
	for _, c := range result.Credits {
		assert.Equal(t, 0.0, c.Return)
	}
}

func TestEpisode_RenderReplaysBoard(t *testing.T) {
	var rendered quixo.Board
	calls := 0
	ep := NewEpisode(DefaultParams(), bottomRowPolicy(), rowTwoPolicy(), nil)
	ep.OnChange(func(row, col int, mark quixo.Mark) {
		rendered[row][col] = mark
		calls++
	})

	result := ep.Play()
	assert.Equal(t, result.Final, rendered)
	assert.True(t, calls >= result.Plies)
}

func TestEpisode_IllegalPolicyMovePanics(t *testing.T) {
	interior := PolicyFunc(func(b quixo.Board, mover quixo.Mark, lookup Lookup) quixo.Move {
		return quixo.Move{Row: 2, Col: 2, Axis: quixo.Row}
	})

	assert.Panics(t, func() {
		NewEpisode(DefaultParams(), interior, rowTwoPolicy(), nil).Play()
	})
}

func TestEpisode_RandomPlayoutsCreditTheMover(t *testing.T) {
	params := DefaultParams()
	rng := sampling.NewRand(2)
	for i := 0; i < 200; i++ {
		result := NewEpisode(params, NewRandomPolicy(rng), NewRandomPolicy(rng), nil).Play()
		require.True(t, result.Outcome.IsTerminal())
		if result.Outcome == quixo.Draw {
			continue
		}

		last := result.History[len(result.History)-1]
		assert.Equal(t, last.Mover, result.Outcome.Winner())
		assert.Equal(t, params.WinReward, result.Credits[len(result.Credits)-1].Return)
		for _, c := range result.Credits {
			assert.True(t, c.Return >= params.LossReward && c.Return <= params.WinReward)
		}
	}
}

func TestCredits(t *testing.T) {
	params := signedParams()
	params.Discount = 0.5
	history := []Step{
		{Key: "a", Mover: quixo.PlayerA},
		{Key: "b", Mover: quixo.PlayerB},
		{Key: "a", Mover: quixo.PlayerA},
	}

	credits := Credits(history, quixo.WinB, params)
	assert.Equal(t, []Credit{
		{Key: "a", Return: -0.25},
		{Key: "b", Return: 0.5},
		{Key: "a", Return: -1},
	}, credits)

	assert.Empty(t, Credits(nil, quixo.Draw, params))
}
