package selfplay

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTable_RoundTrip(t *testing.T) {
	table := NewTable()
	table.Set("X...........O...........X/O", Entry{Average: 0.1 + 0.2, Count: 3})
	table.Set("........................./X", Entry{Average: 1.0 / 3.0, Count: 1})
	table.Set("OOOOO...................X/X", Entry{Average: -1e-9, Count: 0})
	table.Set("XXXXXOOOOOXXXXXOOOOOXXXXX/O", Entry{Average: 123456789.125, Count: 1 << 40})

	var buf bytes.Buffer
	require.NoError(t, table.MarshalTo(&buf))

	loaded, err := LoadTable(&buf)
	require.NoError(t, err)
	assert.True(t, table.Equal(loaded))
	table.Range(func(key string, want Entry) bool {
		got, ok := loaded.Get(key)
		assert.True(t, ok, key)
		assert.Equal(t, want, got, key)
		return true
	})
}

func TestTable_MarshalFormat(t *testing.T) {
	table := NewTable()
	table.Set("b", Entry{Average: 0.5, Count: 2})
	table.Set("a", Entry{Average: 1, Count: 1})

	var buf bytes.Buffer
	require.NoError(t, table.MarshalTo(&buf))
	assert.Equal(t, `{"a":[1,1],"b":[0.5,2]}`+"\n", buf.String())

	var empty bytes.Buffer
	require.NoError(t, NewTable().MarshalTo(&empty))
	loaded, err := LoadTable(&empty)
	require.NoError(t, err)
	assert.Equal(t, 0, loaded.Len())
}

const emptyKey = "........................./X"

func TestLoadTable_Corrupt(t *testing.T) {
	entry := func(value string) string {
		return `{"` + emptyKey + `": ` + value + `}`
	}

	tests := []struct {
		name string
		doc  string
	}{
		{"empty", ``},
		{"not an object", `[1, 2]`},
		{"null", `null`},
		{"value not an array", entry(`0.5`)},
		{"too short", entry(`[0.5]`)},
		{"too long", entry(`[0.5, 1, 2]`)},
		{"string average", entry(`["0.5", 1]`)},
		{"bool average", entry(`[true, 1]`)},
		{"fractional count", entry(`[0.5, 1.5]`)},
		{"exponent count", entry(`[0.5, 1e2]`)},
		{"negative count", entry(`[0.5, -1]`)},
		{"overflowing average", entry(`[1e400, 1]`)},
		{"trailing data", entry(`[0.5, 1]`) + ` {}`},
		{"truncated", `{"` + emptyKey + `": [0.5, 1]`},
		{"not a state key", `{"not-a-state-key": [0.5, 1]}`},
		{"invalid mover", `{"XXXXXXXXXXXXXXXXXXXXXXXXX/Z": [0.9, 3]}`},
		{"empty mover", `{"........................./.": [0.5, 1]}`},
		{"lowercase cells", `{"x......................../O": [0.5, 1]}`},
		{"non-canonical empty cell", `{"-......................../O": [0.5, 1]}`},
		{"repeated key", `{"` + emptyKey + `": [0.5, 1], "` + emptyKey + `": [0.1, 9]}`},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := LoadTable(strings.NewReader(tc.doc))
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrCorruptTable), "%v", err)
		})
	}
}

func TestLoadTable_ErrorNamesKey(t *testing.T) {
	bad := "X.......................O/X"
	doc := `{"` + emptyKey + `": [0.5, 1], "` + bad + `": [0.5, "x"]}`
	_, err := LoadTable(strings.NewReader(doc))
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"`+bad+`"`)
}

func TestTable_CheckRange(t *testing.T) {
	params := DefaultParams()

	table := NewTable()
	table.Set(emptyKey, Entry{Average: params.WinReward, Count: 1})
	table.Set("X......................../O", Entry{Average: params.LossReward, Count: 2})
	assert.NoError(t, table.CheckRange(params))

	table.Set("O......................../X", Entry{Average: 7.5, Count: 1})
	err := table.CheckRange(params)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrCorruptTable), "%v", err)
	assert.Contains(t, err.Error(), `"O......................../X"`)
}
