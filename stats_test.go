package selfplay

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/timpalpant/go-selfplay/quixo"
)

func TestStats_Record(t *testing.T) {
	var s Stats
	s.Record(Result{Outcome: quixo.WinA, Plies: 10, Unknown: 5})
	s.Record(Result{Outcome: quixo.WinB, Plies: 20, Unknown: 20})
	s.Record(Result{Outcome: quixo.Draw, Plies: 30, Unknown: 0})
	s.Record(Result{Outcome: quixo.WinA, Plies: 20, Unknown: 10})

	assert.Equal(t, 4, s.Total())
	assert.Equal(t, 0.5, s.WinRate(quixo.PlayerA))
	assert.Equal(t, 0.25, s.WinRate(quixo.PlayerB))
	assert.Equal(t, 0.25, s.WinRate(quixo.Empty))
	assert.Equal(t, 20.0, s.MeanPlies())

	mean, variance := s.UnknownSummary()
	assert.InDelta(t, 0.5, mean, 1e-12)
	assert.InDelta(t, 0.125, variance, 1e-12)

	var total Stats
	total.Add(s)
	total.Add(s)
	assert.Equal(t, 8, total.Total())
	assert.Len(t, total.UnknownRates, 8)
}

func TestStats_Empty(t *testing.T) {
	var s Stats
	assert.Equal(t, 0.0, s.WinRate(quixo.PlayerA))
	mean, variance := s.UnknownSummary()
	assert.Equal(t, 0.0, mean)
	assert.Equal(t, 0.0, variance)
}

func TestCompareOutcomes(t *testing.T) {
	a := Stats{WinsA: 520, WinsB: 470, Draws: 10}
	chi2, p := CompareOutcomes(a, a)
	assert.InDelta(t, 0, chi2, 1e-9)
	assert.InDelta(t, 1, p, 1e-9)

	b := Stats{WinsA: 800, WinsB: 190, Draws: 10}
	chi2, p = CompareOutcomes(a, b)
	assert.True(t, chi2 > 50, "chi2 = %v", chi2)
	assert.True(t, p < 1e-6, "p = %v", p)

	// Without draws in either sample the test has one degree of freedom.
	c := Stats{WinsA: 50, WinsB: 50}
	d := Stats{WinsA: 60, WinsB: 40}
	chi2, p = CompareOutcomes(c, d)
	assert.InDelta(t, 2.0202, chi2, 1e-3)
	assert.InDelta(t, 0.1552, p, 1e-3)

	_, p = CompareOutcomes(Stats{}, a)
	assert.Equal(t, 1.0, p)
}

func TestQuality(t *testing.T) {
	table := NewTable()
	for i, avg := range []float64{0.1, 0.4, 0.59, 0.6, 0.8, 1.0, -0.5} {
		table.Set(string(rune('a'+i)), Entry{Average: avg, Count: 1})
	}

	q := Quality(table)
	assert.Equal(t, QualityReport{Weak: 2, Medium: 2, Good: 1, Excellent: 2}, q)
	assert.Equal(t, 7, q.Total())
	assert.Equal(t, QualityReport{}, Quality(NewTable()))
}
