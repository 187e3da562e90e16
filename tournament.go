package selfplay

import (
	"context"
	"math"

	"github.com/golang/glog"
	"golang.org/x/exp/rand"
	"golang.org/x/sync/errgroup"
	"lukechampine.com/frand"

	"github.com/timpalpant/go-selfplay/internal/sampling"
)

// Tournament runs many episodes under one policy configuration and feeds
// their credited histories into a Storage.
//
// The lookup consulted by the policies and the storage being written are
// distinct: passing a frozen table as lookup and a fresh table as storage
// ranks moves against one table while accumulating into another.
type Tournament struct {
	params  Params
	lookup  Lookup
	storage Storage
	seed    uint64
}

// NewTournament returns a Tournament. storage may be nil, in which case
// credits are discarded and only statistics are collected.
func NewTournament(params Params, lookup Lookup, storage Storage) *Tournament {
	seed := params.Seed
	if seed == 0 {
		seed = frand.Uint64n(math.MaxUint64) + 1
	}

	return &Tournament{
		params:  params,
		lookup:  lookup,
		storage: storage,
		seed:    seed,
	}
}

// Seed returns the seed the tournament's generators are derived from.
func (t *Tournament) Seed() uint64 {
	return t.seed
}

// Run plays Params.Episodes episodes sequentially. Each episode's credits
// are folded into storage before the next episode starts.
func (t *Tournament) Run() Stats {
	rng := sampling.NewRand(t.seed)
	return t.play(rng, t.params.Episodes, t.storage, nil)
}

// RunParallel splits Params.Episodes across workers. Every worker owns its rng,
// its boards and a private delta table, and reads the shared lookup only.
// The deltas are merged into storage, in worker order, after all workers are done.
//
// When storage is also the lookup, episodes within a worker do not see each
// other's credits, unlike Run.
func (t *Tournament) RunParallel(ctx context.Context, workers int) (Stats, error) {
	if workers <= 1 {
		return t.Run(), nil
	}

	g, ctx := errgroup.WithContext(ctx)
	stats := make([]Stats, workers)
	deltas := make([]*Table, workers)
	for w := 0; w < workers; w++ {
		w := w
		n := t.params.Episodes / workers
		if w < t.params.Episodes%workers {
			n++
		}

		g.Go(func() error {
			rng := sampling.NewRand(t.seed + uint64(w))
			if t.storage != nil {
				deltas[w] = NewTable()
			}

			stats[w] = t.play(rng, n, storageOrNil(deltas[w]), ctx.Done())
			return ctx.Err()
		})
	}

	if err := g.Wait(); err != nil {
		return Stats{}, err
	}

	var total Stats
	for w := 0; w < workers; w++ {
		total.Add(stats[w])
		if deltas[w] != nil {
			Merge(t.storage, deltas[w])
		}
	}

	glog.V(1).Infof("Merged %d worker deltas", workers)
	return total, nil
}

// storageOrNil avoids wrapping a nil *Table in a non-nil Storage.
func storageOrNil(t *Table) Storage {
	if t == nil {
		return nil
	}

	return t
}

func (t *Tournament) play(rng *rand.Rand, n int, storage Storage, done <-chan struct{}) Stats {
	policyA := NewPolicy(t.params.Policy, t.params, rng)
	policyB := NewPolicy(t.params.Opponent, t.params, rng)

	var stats Stats
	progress := n / 10
	for i := 0; i < n; i++ {
		select {
		case <-done:
			return stats
		default:
		}

		result := NewEpisode(t.params, policyA, policyB, t.lookup).Play()
		stats.Record(result)
		if storage != nil {
			for _, c := range result.Credits {
				storage.Update(c.Key, c.Return, 1)
			}
		}

		if progress > 0 && (i+1)%progress == 0 {
			glog.V(1).Infof("[episode %d/%d] A: %d, B: %d, draws: %d",
				i+1, n, stats.WinsA, stats.WinsB, stats.Draws)
		}
	}

	return stats
}
