package main

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/timpalpant/go-selfplay"
)

// greedyExploration is the epsilon used while generating the greedy dataset.
const greedyExploration = 0.1

// runPipeline generates a dataset from random play, uses it as a frozen lookup
// to generate a greedy dataset, then evaluates the greedy agent against a
// random opponent and checks that full exploration is indistinguishable from
// random play. Each dataset is saved once its stage finishes; an empty
// path skips saving it.
func runPipeline(params selfplay.Params, o options, r *renderer) error {
	stage := func(label string, p selfplay.Params, lookup selfplay.Lookup, storage selfplay.Storage) (selfplay.Stats, error) {
		log.Info().
			Str("stage", label).
			Stringer("policy", p.Policy).
			Float64("epsilon", p.Epsilon).
			Int("episodes", p.Episodes).
			Msg("starting stage")

		start := time.Now()
		stats, err := selfplay.NewTournament(p, lookup, storage).RunParallel(context.Background(), p.Workers)
		if err == nil {
			reportStats(label, stats, time.Since(start))
		}

		return stats, err
	}

	base := params
	base.Opponent = selfplay.Random

	randomParams := base
	randomParams.Policy = selfplay.Random
	randomTable := selfplay.NewTable()
	randomStats, err := stage("random dataset", randomParams, nil, randomTable)
	if err != nil {
		return err
	}
	reportQuality(randomTable)
	if err := saveDataset(o.randomOut, randomTable); err != nil {
		return err
	}

	greedyParams := base
	greedyParams.Policy = selfplay.Greedy
	greedyParams.Epsilon = greedyExploration
	greedyTable := selfplay.NewTable()
	if _, err := stage("greedy dataset", greedyParams, randomTable.Clone(), greedyTable); err != nil {
		return err
	}
	reportQuality(greedyTable)
	if err := saveDataset(o.greedyOut, greedyTable); err != nil {
		return err
	}

	evalParams := greedyParams
	evalParams.Epsilon = 0
	if _, err := stage("greedy evaluation", evalParams, greedyTable, nil); err != nil {
		return err
	}

	sanityParams := greedyParams
	sanityParams.Epsilon = 1
	sanityStats, err := stage("full exploration", sanityParams, greedyTable, nil)
	if err != nil {
		return err
	}

	chi2, p := selfplay.CompareOutcomes(randomStats, sanityStats)
	event := log.Info()
	if p < 0.001 {
		event = log.Warn()
	}
	event.Float64("chi2", chi2).Float64("p_value", p).Msg("full exploration vs random play")

	r.printf("pipeline complete: %d random states, %d greedy states\n", randomTable.Len(), greedyTable.Len())
	return nil
}

func saveDataset(path string, t *selfplay.Table) error {
	if path == "" {
		return nil
	}

	if err := saveTable(path, t); err != nil {
		return err
	}

	log.Info().Str("path", path).Int("states", t.Len()).Msg("saved dataset")
	return nil
}
