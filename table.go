package selfplay

import (
	"encoding/binary"
	"math"
	"sort"

	"github.com/pkg/errors"
)

// Entry is the running-average return and visit count stored for one state key.
type Entry struct {
	Average float64
	Count   int
}

// Merge folds n observations with the given mean into e using the
// count-weighted incremental mean. For n == 1 this is the per-observation
// rule (avg*count + r) / (count+1).
func (e Entry) Merge(mean float64, n int) Entry {
	if n <= 0 {
		return e
	}

	if e.Count <= 0 {
		return Entry{Average: mean, Count: n}
	}

	total := e.Count + n
	return Entry{
		Average: (e.Average*float64(e.Count) + mean*float64(n)) / float64(total),
		Count:   total,
	}
}

// MarshalBinary implements encoding.BinaryMarshaler. The average is stored
// as a little-endian float64 followed by the count as a uvarint.
func (e Entry) MarshalBinary() ([]byte, error) {
	if e.Count < 0 {
		return nil, errors.Errorf("negative count: %d", e.Count)
	}

	buf := make([]byte, 8, 8+binary.MaxVarintLen64)
	binary.LittleEndian.PutUint64(buf, math.Float64bits(e.Average))
	return binary.AppendUvarint(buf, uint64(e.Count)), nil
}

// UnmarshalBinary implements encoding.BinaryUnmarshaler.
func (e *Entry) UnmarshalBinary(buf []byte) error {
	if len(buf) < 9 {
		return errors.Wrapf(ErrCorruptTable, "entry too short: %d bytes", len(buf))
	}

	count, n := binary.Uvarint(buf[8:])
	if n <= 0 || 8+n != len(buf) || count > math.MaxInt64 {
		return errors.Wrap(ErrCorruptTable, "invalid entry count")
	}

	avg := math.Float64frombits(binary.LittleEndian.Uint64(buf))
	if math.IsNaN(avg) || math.IsInf(avg, 0) {
		return errors.Wrap(ErrCorruptTable, "entry average is not finite")
	}

	e.Average = avg
	e.Count = int(count)
	return nil
}

// Lookup is read-only access to state values.
// Implementations must not mutate on Get.
type Lookup interface {
	// Get returns the entry for key, if it has ever been observed.
	Get(key string) (Entry, bool)
}

// Storage is a Lookup that can also accumulate new observations.
type Storage interface {
	Lookup
	// Update folds n observations with the given mean return into the entry for key.
	Update(key string, mean float64, n int)
}

// Table is an in-memory Storage.
type Table struct {
	entries map[string]Entry
}

// NewTable returns an empty Table.
func NewTable() *Table {
	return &Table{entries: make(map[string]Entry)}
}

// Get implements Lookup. A nil Table is empty.
func (t *Table) Get(key string) (Entry, bool) {
	if t == nil {
		return Entry{}, false
	}

	e, ok := t.entries[key]
	return e, ok
}

// Update implements Storage.
func (t *Table) Update(key string, mean float64, n int) {
	if n <= 0 {
		return
	}

	t.entries[key] = t.entries[key].Merge(mean, n)
}

// Observe records a single return r for key.
func (t *Table) Observe(key string, r float64) {
	t.Update(key, r, 1)
}

// Set overwrites the entry for key.
func (t *Table) Set(key string, e Entry) {
	t.entries[key] = e
}

// Len returns the number of distinct keys.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}

	return len(t.entries)
}

// Keys returns all keys in sorted order.
func (t *Table) Keys() []string {
	keys := make([]string, 0, t.Len())
	if t == nil {
		return keys
	}

	for key := range t.entries {
		keys = append(keys, key)
	}

	sort.Strings(keys)
	return keys
}

// Range calls fn for every entry in key order until fn returns false.
func (t *Table) Range(fn func(key string, e Entry) bool) {
	for _, key := range t.Keys() {
		if !fn(key, t.entries[key]) {
			return
		}
	}
}

// Clone returns an independent copy of t, suitable as a frozen lookup.
func (t *Table) Clone() *Table {
	result := &Table{entries: make(map[string]Entry, t.Len())}
	if t == nil {
		return result
	}

	for key, e := range t.entries {
		result.entries[key] = e
	}

	return result
}

// Merge folds every entry of other into t.
func (t *Table) Merge(other *Table) {
	Merge(t, other)
}

// Equal reports whether t and other hold exactly the same entries.
func (t *Table) Equal(other *Table) bool {
	if t.Len() != other.Len() {
		return false
	}

	if t == nil || other == nil {
		return true
	}

	for key, e := range t.entries {
		if o, ok := other.entries[key]; !ok || o != e {
			return false
		}
	}

	return true
}

// Merge folds every entry of delta into dst using the incremental-mean rule.
// It is how per-worker deltas are combined once the workers are done.
func Merge(dst Storage, delta *Table) {
	delta.Range(func(key string, e Entry) bool {
		dst.Update(key, e.Average, e.Count)
		return true
	})
}
