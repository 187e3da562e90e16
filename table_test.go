package selfplay

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/stat"
)

func TestEntry_Merge(t *testing.T) {
	var e Entry
	e = e.Merge(0.5, 1)
	assert.Equal(t, Entry{Average: 0.5, Count: 1}, e)

	e = e.Merge(1.0, 1)
	assert.Equal(t, Entry{Average: 0.75, Count: 2}, e)

	e = e.Merge(0.0, 2)
	assert.InDelta(t, 0.375, e.Average, 1e-12)
	assert.Equal(t, 4, e.Count)

	assert.Equal(t, e, e.Merge(123, 0))
}

func TestTable_ObserveIsArithmeticMean(t *testing.T) {
	returns := []float64{1, 0, 0.9, 0.81, 0.5, 0, 0.729, 1}

	table := NewTable()
	for _, r := range returns {
		table.Observe("k", r)
	}

	e, ok := table.Get("k")
	require.True(t, ok)
	assert.Equal(t, len(returns), e.Count)
	assert.InDelta(t, stat.Mean(returns, nil), e.Average, 1e-12)
	assert.Equal(t, 1, table.Len())

	_, ok = table.Get("missing")
	assert.False(t, ok)
}

func TestMerge_MatchesSequentialUpdates(t *testing.T) {
	observations := []struct {
		key string
		r   float64
	}{
		{"a", 1}, {"b", 0}, {"a", 0.5}, {"c", 0.9}, {"b", 0.25}, {"a", 0}, {"c", 0.1},
	}

	sequential := NewTable()
	left, right := NewTable(), NewTable()
	for i, o := range observations {
		sequential.Observe(o.key, o.r)
		if i%2 == 0 {
			left.Observe(o.key, o.r)
		} else {
			right.Observe(o.key, o.r)
		}
	}

	merged := NewTable()
	Merge(merged, left)
	merged.Merge(right)

	require.Equal(t, sequential.Keys(), merged.Keys())
	sequential.Range(func(key string, want Entry) bool {
		got, _ := merged.Get(key)
		assert.Equal(t, want.Count, got.Count, key)
		assert.InDelta(t, want.Average, got.Average, 1e-12, key)
		return true
	})
}

func TestTable_CloneIsFrozen(t *testing.T) {
	table := NewTable()
	table.Observe("a", 1)
	frozen := table.Clone()
	table.Observe("a", 0)
	table.Observe("b", 0)

	e, _ := frozen.Get("a")
	assert.Equal(t, Entry{Average: 1, Count: 1}, e)
	assert.Equal(t, 1, frozen.Len())
	assert.False(t, frozen.Equal(table))
	assert.True(t, frozen.Equal(frozen.Clone()))
}

func TestTable_Nil(t *testing.T) {
	var table *Table
	_, ok := table.Get("a")
	assert.False(t, ok)
	assert.Equal(t, 0, table.Len())
	assert.Empty(t, table.Keys())
	assert.True(t, table.Equal(NewTable()))
}

func TestEntry_Binary(t *testing.T) {
	for _, e := range []Entry{
		{Average: 0.1 + 0.2, Count: 1},
		{Average: -1, Count: 0},
		{Average: 1e-300, Count: 1 << 33},
	} {
		buf, err := e.MarshalBinary()
		require.NoError(t, err)

		var got Entry
		require.NoError(t, got.UnmarshalBinary(buf))
		assert.Equal(t, e, got)
	}

	var e Entry
	assert.Error(t, e.UnmarshalBinary([]byte{1, 2, 3}))
	buf, _ := Entry{Average: 0.5, Count: 3}.MarshalBinary()
	assert.Error(t, e.UnmarshalBinary(append(buf, 0)))
	_, err := Entry{Count: -1}.MarshalBinary()
	assert.Error(t, err)
}
