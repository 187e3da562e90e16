// Command selfplay runs Quixo self-play tournaments and maintains the
// resulting value tables.
package main

import (
	"context"
	"flag"
	"io"
	"os"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/syndtr/goleveldb/leveldb/opt"

	"github.com/timpalpant/go-selfplay"
	"github.com/timpalpant/go-selfplay/ldbstore"
	"github.com/timpalpant/go-selfplay/quixo"
	"github.com/timpalpant/go-selfplay/rdbstore"
)

type options struct {
	config    string
	lookup    string
	save      string
	store     string
	dbPath    string
	pipeline  bool
	randomOut string
	greedyOut string
	play      bool
	show      bool
	color     bool
}

func main() {
	var o options
	flag.StringVar(&o.config, "config", "", "YAML file with tournament params")
	flag.StringVar(&o.lookup, "lookup", "", "JSON value table consulted by the policies")
	flag.StringVar(&o.save, "save", "", "Write the accumulated value table to this JSON file")
	flag.StringVar(&o.store, "store", "memory", "Value table backend: memory, leveldb or rocksdb")
	flag.StringVar(&o.dbPath, "db", "", "Database directory for the leveldb and rocksdb backends")
	flag.BoolVar(&o.pipeline, "pipeline", false, "Run the full random -> greedy -> evaluation pipeline")
	flag.StringVar(&o.randomOut, "random_out", "states_random.json", "Pipeline: write the random dataset to this JSON file")
	flag.StringVar(&o.greedyOut, "greedy_out", "states_greedy.json", "Pipeline: write the greedy dataset to this JSON file")
	flag.BoolVar(&o.play, "play", false, "Play interactively against the configured policy")
	flag.BoolVar(&o.show, "show", false, "Print the board after every move of a single episode")
	flag.BoolVar(&o.color, "color", true, "Colorize boards")

	defaults := selfplay.DefaultParams()
	policy := flag.String("policy", defaults.Policy.String(), "Policy for X: RANDOM, GREEDY or HEURISTIC")
	opponent := flag.String("opponent", defaults.Opponent.String(), "Policy for O: RANDOM, GREEDY or HEURISTIC")
	epsilon := flag.Float64("epsilon", defaults.Epsilon, "Exploration probability")
	discount := flag.Float64("discount", defaults.Discount, "Per-ply discount of terminal credit")
	episodes := flag.Int("episodes", defaults.Episodes, "Number of episodes")
	ceiling := flag.Int("move_ceiling", defaults.MoveCeiling, "Plies after which an episode is a draw")
	seed := flag.Uint64("seed", defaults.Seed, "Random seed (0 picks one)")
	workers := flag.Int("workers", defaults.Workers, "Parallel tournament workers")
	flag.Parse()

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})

	params, err := loadParams(o.config)
	if err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}

	// Flags given explicitly override the config file.
	flag.Visit(func(f *flag.Flag) {
		var err error
		switch f.Name {
		case "policy":
			params.Policy, err = selfplay.ParsePolicyKind(*policy)
		case "opponent":
			params.Opponent, err = selfplay.ParsePolicyKind(*opponent)
		case "epsilon":
			params.Epsilon = *epsilon
		case "discount":
			params.Discount = *discount
		case "episodes":
			params.Episodes = *episodes
		case "move_ceiling":
			params.MoveCeiling = *ceiling
		case "seed":
			params.Seed = *seed
		case "workers":
			params.Workers = *workers
		}

		if err != nil {
			log.Fatal().Err(err).Str("flag", f.Name).Msg("invalid flag")
		}
	})

	if err := params.Validate(); err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}

	lookup, err := loadTable(o.lookup, params)
	if err != nil {
		log.Fatal().Err(err).Str("path", o.lookup).Msg("failed to load lookup table")
	}

	r := newRenderer(os.Stdout, o.color)
	switch {
	case o.pipeline:
		err = runPipeline(params, o, r)
	case o.play:
		err = playInteractive(params, lookup, os.Stdin, r)
	case o.show:
		showEpisode(params, lookup, r)
	default:
		err = runTournament(params, lookup, o)
	}

	if err != nil {
		log.Fatal().Err(err).Msg("failed")
	}
}

func loadParams(path string) (selfplay.Params, error) {
	if path == "" {
		return selfplay.DefaultParams(), nil
	}

	f, err := os.Open(path)
	if err != nil {
		return selfplay.Params{}, err
	}
	defer f.Close()

	return selfplay.LoadParams(f)
}

func loadTable(path string, params selfplay.Params) (*selfplay.Table, error) {
	if path == "" {
		return nil, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	t, err := selfplay.LoadTable(f)
	if err != nil {
		return nil, err
	}

	if err := t.CheckRange(params); err != nil {
		return nil, err
	}

	return t, nil
}

func saveTable(path string, t *selfplay.Table) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}

	if err := t.MarshalTo(f); err != nil {
		f.Close()
		return errors.Wrapf(err, "writing %s", path)
	}

	return f.Close()
}

// diskStore is a Storage that can be exported to memory and must be closed.
type diskStore interface {
	selfplay.Storage
	io.Closer
	Import(*selfplay.Table) error
	Export() (*selfplay.Table, error)
}

func openStore(kind, path string) (diskStore, error) {
	if path == "" {
		return nil, errors.Errorf("-db is required for the %s backend", kind)
	}

	switch kind {
	case "leveldb":
		return ldbstore.New(path, &opt.Options{})
	case "rocksdb":
		return rdbstore.Open(path)
	}

	return nil, errors.Errorf("unknown store: %q", kind)
}

func runTournament(params selfplay.Params, lookup *selfplay.Table, o options) error {
	var storage selfplay.Storage
	var export func() (*selfplay.Table, error)
	if o.store == "memory" {
		table := selfplay.NewTable()
		storage = table
		export = func() (*selfplay.Table, error) { return table, nil }
	} else {
		store, err := openStore(o.store, o.dbPath)
		if err != nil {
			return err
		}
		defer store.Close()

		storage = store
		export = store.Export
	}

	log.Info().
		Stringer("policy", params.Policy).
		Stringer("opponent", params.Opponent).
		Float64("epsilon", params.Epsilon).
		Int("episodes", params.Episodes).
		Int("workers", params.Workers).
		Msg("starting tournament")

	start := time.Now()
	tour := selfplay.NewTournament(params, lookupOrNil(lookup), storage)
	stats, err := tour.RunParallel(context.Background(), params.Workers)
	if err != nil {
		return err
	}

	reportStats("tournament", stats, time.Since(start))

	table, err := export()
	if err != nil {
		return err
	}

	reportQuality(table)
	if o.save != "" {
		if err := saveTable(o.save, table); err != nil {
			return err
		}

		log.Info().Str("path", o.save).Int("states", table.Len()).Msg("saved value table")
	}

	return nil
}

// lookupOrNil avoids wrapping a nil *Table in a non-nil Lookup.
func lookupOrNil(t *selfplay.Table) selfplay.Lookup {
	if t == nil {
		return nil
	}

	return t
}

func reportStats(label string, stats selfplay.Stats, elapsed time.Duration) {
	mean, variance := stats.UnknownSummary()
	log.Info().
		Str("run", label).
		Int("wins_x", stats.WinsA).
		Int("wins_o", stats.WinsB).
		Int("draws", stats.Draws).
		Float64("win_rate_x", stats.WinRate(quixo.PlayerA)).
		Float64("mean_plies", stats.MeanPlies()).
		Float64("unknown_mean", mean).
		Float64("unknown_variance", variance).
		Dur("elapsed", elapsed).
		Msg("completed run")
}

func reportQuality(t *selfplay.Table) {
	q := selfplay.Quality(t)
	log.Info().
		Int("states", t.Len()).
		Int("weak", q.Weak).
		Int("medium", q.Medium).
		Int("good", q.Good).
		Int("excellent", q.Excellent).
		Msg("value table quality")
}
