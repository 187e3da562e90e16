package tree

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/timpalpant/go-selfplay/quixo"
)

func TestCountNodes_EmptyBoard(t *testing.T) {
	var b quixo.Board
	assert.Equal(t, 1, CountNodes(b, quixo.PlayerA, 0))
	assert.Equal(t, 21, CountNodes(b, quixo.PlayerA, 1))
	// Pushes from opposite ends of a corner land on the same cell, so the
	// 20 opening moves reach only 16 positions.
	assert.Equal(t, 17, CountStates(b, quixo.PlayerA, 1))
	assert.Equal(t, 0, CountTerminalNodes(b, quixo.PlayerA, 2))
}

func TestVisit_StopsAtTerminal(t *testing.T) {
	b := quixo.MustParseBoard(
		"XXXX.",
		"OO...",
		"O....",
		".....",
		".....",
	)

	var terminal []Node
	Visit(b, quixo.PlayerA, 2, func(n Node) {
		if n.Outcome.IsTerminal() {
			assert.Equal(t, 1, n.Depth)
			terminal = append(terminal, n)
		}
	})

	assert.NotEmpty(t, terminal)
	for _, n := range terminal {
		assert.Equal(t, quixo.WinA, n.Outcome)
		assert.Equal(t, quixo.PlayerB, n.Next)
	}
}

func TestVisit_NeverCreditsTheWaitingPlayer(t *testing.T) {
	b := quixo.MustParseBoard(
		"XOXOX",
		"O...O",
		"X.X.X",
		"O...O",
		"XOXOX",
	)

	nodes := 0
	Visit(b, quixo.PlayerA, 3, func(n Node) {
		nodes++
		if n.Depth == 0 {
			return
		}

		justMoved := n.Next.Opponent()
		if n.Outcome.IsTerminal() {
			assert.Equal(t, justMoved, n.Outcome.Winner(), "board:\n%v", n.Board)
		}
	})

	t.Logf("Visited %d nodes", nodes)
}
