package selfplay

import (
	"github.com/pkg/errors"

	"github.com/timpalpant/go-selfplay/quixo"
)

var (
	// ErrNotYourTurn is returned when a move is requested out of turn.
	ErrNotYourTurn = errors.New("not your turn")
	// ErrGameOver is returned when a move is requested after the game ended.
	ErrGameOver = errors.New("game over")
)

// Session is an interactive game between a human and an agent policy.
// Every cell change is reported to the render callback.
type Session struct {
	params Params
	human  quixo.Mark
	agent  Policy
	lookup Lookup
	render RenderFunc

	board   quixo.Board
	next    quixo.Mark
	outcome quixo.Outcome
	plies   int
}

// NewSession returns a Session in which the human plays human and agent plays
// the other side. render may be nil. The session starts reset.
func NewSession(params Params, human quixo.Mark, agent Policy, lookup Lookup, render RenderFunc) *Session {
	s := &Session{
		params: params,
		human:  human,
		agent:  agent,
		lookup: lookup,
		render: render,
	}

	s.Reset()
	return s
}

// Reset clears the board and reports every cell to the render callback.
func (s *Session) Reset() {
	s.board = quixo.Board{}
	s.next = quixo.PlayerA
	s.outcome = quixo.InProgress
	s.plies = 0
	if s.render != nil {
		for i := 0; i < quixo.Size; i++ {
			for j := 0; j < quixo.Size; j++ {
				s.render(i, j, s.board[i][j])
			}
		}
	}
}

// Board returns a copy of the current board.
func (s *Session) Board() quixo.Board { return s.board }

// Next returns the player to move.
func (s *Session) Next() quixo.Mark { return s.next }

// Outcome returns the current outcome.
func (s *Session) Outcome() quixo.Outcome { return s.outcome }

// HumanToMove reports whether the session is waiting for the human.
func (s *Session) HumanToMove() bool {
	return !s.outcome.IsTerminal() && s.next == s.human
}

// HumanMove plays the human's move from (row, col). AnyAxis picks the only
// axis allowed at an edge cell, or Column at a corner. A rejected request
// leaves the board untouched.
func (s *Session) HumanMove(row, col int, axis quixo.Axis) error {
	if s.outcome.IsTerminal() {
		return ErrGameOver
	}

	if s.next != s.human {
		return ErrNotYourTurn
	}

	m, err := quixo.ParseMove(s.board, s.human, row, col, axis)
	if err != nil {
		return err
	}

	s.play(m)
	return nil
}

// AgentMove lets the agent policy choose and play its move.
func (s *Session) AgentMove() (quixo.Move, error) {
	if s.outcome.IsTerminal() {
		return quixo.Move{}, ErrGameOver
	}

	if s.next == s.human {
		return quixo.Move{}, ErrNotYourTurn
	}

	m := s.agent.Evaluate(s.board, s.next, s.lookup)
	if err := quixo.Check(s.board, m, s.next); err != nil {
		return m, errors.Wrap(err, "agent policy")
	}

	s.play(m)
	return m, nil
}

func (s *Session) play(m quixo.Move) {
	next := quixo.Apply(s.board, m, s.next)
	if s.render != nil {
		quixo.Diff(s.board, next, s.render)
	}

	s.board = next
	s.plies++
	s.outcome = quixo.Evaluate(s.board, s.next)
	if s.outcome == quixo.InProgress && s.plies >= s.params.MoveCeiling {
		s.outcome = quixo.Draw
	}

	s.next = s.next.Opponent()
}
