// Package tree walks the positions reachable from a Quixo board.
package tree

import (
	"github.com/timpalpant/go-selfplay/quixo"
)

// Node is one position reached during a walk.
type Node struct {
	Board quixo.Board
	// Next is the player to move at Board.
	Next quixo.Mark
	// Move is the move that produced Board; zero at the root.
	Move  quixo.Move
	Depth int
	// Outcome is the result of Move, from the point of view of the player who made it.
	Outcome quixo.Outcome
}

// Key returns the canonical state key of n.
func (n Node) Key() string {
	return quixo.Key(n.Board, n.Next)
}

// Visit calls visitor on root and on every position reachable from it in at
// most maxDepth plies. Terminal positions are not expanded.
func Visit(root quixo.Board, next quixo.Mark, maxDepth int, visitor func(n Node)) {
	visit(Node{Board: root, Next: next}, maxDepth, visitor)
}

func visit(n Node, maxDepth int, visitor func(n Node)) {
	visitor(n)
	if n.Depth >= maxDepth || n.Outcome.IsTerminal() {
		return
	}

	mover := n.Next
	for _, m := range quixo.LegalMoves(n.Board, mover) {
		b := quixo.Apply(n.Board, m, mover)
		visit(Node{
			Board:   b,
			Next:    mover.Opponent(),
			Move:    m,
			Depth:   n.Depth + 1,
			Outcome: quixo.Evaluate(b, mover),
		}, maxDepth, visitor)
	}
}

// VisitStates is like Visit but calls visitor once per distinct state key.
func VisitStates(root quixo.Board, next quixo.Mark, maxDepth int, visitor func(key string, n Node)) {
	seen := make(map[string]struct{})
	Visit(root, next, maxDepth, func(n Node) {
		key := n.Key()
		if _, ok := seen[key]; ok {
			return
		}

		visitor(key, n)
		seen[key] = struct{}{}
	})
}

func CountTerminalNodes(root quixo.Board, next quixo.Mark, maxDepth int) int {
	total := 0
	Visit(root, next, maxDepth, func(n Node) {
		if n.Outcome.IsTerminal() {
			total++
		}
	})

	return total
}

func CountNodes(root quixo.Board, next quixo.Mark, maxDepth int) int {
	total := 0
	Visit(root, next, maxDepth, func(n Node) { total++ })
	return total
}

func CountStates(root quixo.Board, next quixo.Mark, maxDepth int) int {
	total := 0
	VisitStates(root, next, maxDepth, func(key string, n Node) { total++ })
	return total
}
