package main

import (
	"bufio"
	"io"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"github.com/timpalpant/go-selfplay"
	"github.com/timpalpant/go-selfplay/internal/sampling"
	"github.com/timpalpant/go-selfplay/quixo"
)

// showEpisode plays one episode and prints the board after every ply.
func showEpisode(params selfplay.Params, lookup *selfplay.Table, r *renderer) {
	rng := sampling.NewRand(seedOf(params))
	policyA := selfplay.NewPolicy(params.Policy, params, rng)
	policyB := selfplay.NewPolicy(params.Opponent, params, rng)

	var live quixo.Board
	ply := 0
	ep := selfplay.NewEpisode(params, printingPolicy(policyA, r, &live, &ply), printingPolicy(policyB, r, &live, &ply), lookupOrNil(lookup))
	ep.OnChange(func(row, col int, mark quixo.Mark) {
		live[row][col] = mark
	})

	result := ep.Play()
	r.printf("\nfinal position after %d plies:\n", result.Plies)
	r.board(result.Final)
	r.printf("%v\n", result.Outcome)
}

// printingPolicy prints the live board, as maintained by the render callback,
// before delegating each decision to p.
func printingPolicy(p selfplay.Policy, r *renderer, live *quixo.Board, ply *int) selfplay.Policy {
	return selfplay.PolicyFunc(func(b quixo.Board, mover quixo.Mark, lookup selfplay.Lookup) quixo.Move {
		*ply++
		r.printf("\nply %d, %v to move:\n", *ply, mover)
		r.board(*live)
		return p.Evaluate(b, mover, lookup)
	})
}

func seedOf(params selfplay.Params) uint64 {
	if params.Seed != 0 {
		return params.Seed
	}

	return selfplay.NewTournament(params, nil, nil).Seed()
}

// playInteractive runs a human (X) vs agent (O) session over in.
// Moves are entered as "row col [row|column]".
func playInteractive(params selfplay.Params, lookup *selfplay.Table, in io.Reader, r *renderer) error {
	rng := sampling.NewRand(seedOf(params))
	agent := selfplay.NewPolicy(params.Policy, params, rng)
	s := selfplay.NewSession(params, quixo.PlayerA, agent, lookupOrNil(lookup), nil)

	scanner := bufio.NewScanner(in)
	for !s.Outcome().IsTerminal() {
		if !s.HumanToMove() {
			m, err := s.AgentMove()
			if err != nil {
				return err
			}

			r.printf("agent plays %v\n", m)
			continue
		}

		r.board(s.Board())
		r.printf("your move (row col [row|column]): ")
		if !scanner.Scan() {
			return scanner.Err()
		}

		row, col, axis, err := parseHumanMove(scanner.Text())
		if err == nil {
			err = s.HumanMove(row, col, axis)
		}

		if err != nil {
			log.Warn().Err(err).Msg("move rejected")
		}
	}

	r.board(s.Board())
	r.printf("%v\n", s.Outcome())
	return nil
}

func parseHumanMove(line string) (row, col int, axis quixo.Axis, err error) {
	fields := strings.Fields(line)
	if len(fields) < 2 || len(fields) > 3 {
		return 0, 0, quixo.AnyAxis, errors.Errorf("expected 2 or 3 fields, got %d", len(fields))
	}

	if row, err = strconv.Atoi(fields[0]); err != nil {
		return 0, 0, quixo.AnyAxis, errors.Wrap(err, "row")
	}

	if col, err = strconv.Atoi(fields[1]); err != nil {
		return 0, 0, quixo.AnyAxis, errors.Wrap(err, "column")
	}

	axis = quixo.AnyAxis
	if len(fields) == 3 {
		switch strings.ToLower(fields[2]) {
		case "row", "r":
			axis = quixo.Row
		case "column", "col", "c":
			axis = quixo.Column
		default:
			return 0, 0, quixo.AnyAxis, errors.Errorf("unknown axis %q", fields[2])
		}
	}

	return row, col, axis, nil
}
