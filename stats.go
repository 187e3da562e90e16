package selfplay

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/timpalpant/go-selfplay/quixo"
)

// Stats aggregates the outcomes of a set of episodes.
type Stats struct {
	WinsA, WinsB, Draws int
	// UnknownRates holds, per episode, the fraction of decision points that
	// were absent from the lookup table.
	UnknownRates []float64
	Plies        int
}

// Record adds the result of one episode.
func (s *Stats) Record(r Result) {
	switch r.Outcome {
	case quixo.WinA:
		s.WinsA++
	case quixo.WinB:
		s.WinsB++
	default:
		s.Draws++
	}

	s.UnknownRates = append(s.UnknownRates, r.UnknownRate())
	s.Plies += r.Plies
}

// Add merges other into s.
func (s *Stats) Add(other Stats) {
	s.WinsA += other.WinsA
	s.WinsB += other.WinsB
	s.Draws += other.Draws
	s.UnknownRates = append(s.UnknownRates, other.UnknownRates...)
	s.Plies += other.Plies
}

// Total returns the number of recorded episodes.
func (s Stats) Total() int {
	return s.WinsA + s.WinsB + s.Draws
}

// WinRate returns the fraction of episodes won by m.
func (s Stats) WinRate(m quixo.Mark) float64 {
	if s.Total() == 0 {
		return 0
	}

	switch m {
	case quixo.PlayerA:
		return float64(s.WinsA) / float64(s.Total())
	case quixo.PlayerB:
		return float64(s.WinsB) / float64(s.Total())
	}

	return float64(s.Draws) / float64(s.Total())
}

// MeanPlies returns the average episode length.
func (s Stats) MeanPlies() float64 {
	if s.Total() == 0 {
		return 0
	}

	return float64(s.Plies) / float64(s.Total())
}

// UnknownSummary returns the mean and population variance of the per-episode unknown rates.
func (s Stats) UnknownSummary() (mean, variance float64) {
	if len(s.UnknownRates) == 0 {
		return 0, 0
	}

	return stat.Mean(s.UnknownRates, nil), stat.PopVariance(s.UnknownRates, nil)
}

// CompareOutcomes runs a chi-square test of homogeneity on the
// (WinsA, WinsB, Draws) counts of a and b. A large p-value means the two
// outcome distributions are consistent with each other.
func CompareOutcomes(a, b Stats) (chi2, pValue float64) {
	rows := [2][3]float64{
		{float64(a.WinsA), float64(a.WinsB), float64(a.Draws)},
		{float64(b.WinsA), float64(b.WinsB), float64(b.Draws)},
	}

	var rowTotals [2]float64
	var colTotals [3]float64
	total := 0.0
	for i, row := range rows {
		for j, x := range row {
			rowTotals[i] += x
			colTotals[j] += x
			total += x
		}
	}

	if rowTotals[0] == 0 || rowTotals[1] == 0 {
		return 0, 1
	}

	df := -1
	for j := range colTotals {
		if colTotals[j] == 0 {
			continue
		}

		df++
		for i := range rows {
			expected := rowTotals[i] * colTotals[j] / total
			d := rows[i][j] - expected
			chi2 += d * d / expected
		}
	}

	if df <= 0 {
		return 0, 1
	}

	dist := distuv.ChiSquared{K: float64(df)}
	return chi2, dist.Survival(chi2)
}

// QualityReport buckets the averages of a value table.
type QualityReport struct {
	Weak      int // average < 0.4
	Medium    int // 0.4 <= average < 0.6
	Good      int // 0.6 <= average < 0.8
	Excellent int // average >= 0.8
}

// Total returns the number of bucketed entries.
func (q QualityReport) Total() int {
	return q.Weak + q.Medium + q.Good + q.Excellent
}

var qualityDividers = []float64{math.Inf(-1), 0.4, 0.6, 0.8, math.Inf(1)}

// Quality returns the distribution of averages in t over fixed buckets.
func Quality(t *Table) QualityReport {
	if t.Len() == 0 {
		return QualityReport{}
	}

	averages := make([]float64, 0, t.Len())
	t.Range(func(_ string, e Entry) bool {
		averages = append(averages, e.Average)
		return true
	})
	sort.Float64s(averages)

	counts := stat.Histogram(nil, qualityDividers, averages, nil)
	return QualityReport{
		Weak:      int(counts[0]),
		Medium:    int(counts[1]),
		Good:      int(counts[2]),
		Excellent: int(counts[3]),
	}
}
