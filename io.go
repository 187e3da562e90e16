package selfplay

import (
	"bufio"
	"encoding/json"
	"io"
	"math"
	"strconv"

	"github.com/pkg/errors"

	"github.com/timpalpant/go-selfplay/quixo"
)

// ErrCorruptTable is returned (wrapped with the offending key) when a
// persisted table cannot be decoded.
var ErrCorruptTable = errors.New("corrupt value table")

// LoadTable reads a table written by MarshalTo: a JSON object mapping each
// canonical state key to an [average, count] pair. Any malformed entry,
// non-canonical key or repeated key fails the whole load.
func LoadTable(r io.Reader) (*Table, error) {
	dec := json.NewDecoder(r)
	if tok, err := dec.Token(); err != nil {
		return nil, errors.Wrapf(ErrCorruptTable, "decoding: %v", err)
	} else if tok != json.Delim('{') {
		return nil, errors.Wrap(ErrCorruptTable, "expected a JSON object")
	}

	t := NewTable()
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, errors.Wrapf(ErrCorruptTable, "decoding: %v", err)
		}

		key, ok := tok.(string)
		if !ok {
			return nil, errors.Wrapf(ErrCorruptTable, "unexpected token %v", tok)
		}

		if err := checkKey(key); err != nil {
			return nil, errors.Wrapf(err, "key %q", key)
		}

		if _, ok := t.entries[key]; ok {
			return nil, errors.Wrapf(ErrCorruptTable, "key %q: repeated", key)
		}

		var value json.RawMessage
		if err := dec.Decode(&value); err != nil {
			return nil, errors.Wrapf(ErrCorruptTable, "key %q: decoding: %v", key, err)
		}

		e, err := decodeEntry(value)
		if err != nil {
			return nil, errors.Wrapf(err, "key %q", key)
		}

		t.entries[key] = e
	}

	if _, err := dec.Token(); err != nil {
		return nil, errors.Wrapf(ErrCorruptTable, "decoding: %v", err)
	}

	if _, err := dec.Token(); err != io.EOF {
		return nil, errors.Wrap(ErrCorruptTable, "trailing data after table")
	}

	return t, nil
}

// checkKey requires key to be exactly what quixo.Key produces for its state.
func checkKey(key string) error {
	b, next, err := quixo.ParseKey(key)
	if err != nil {
		return errors.Wrap(ErrCorruptTable, err.Error())
	}

	if quixo.Key(b, next) != key {
		return errors.Wrap(ErrCorruptTable, "not a canonical state key")
	}

	return nil
}

func decodeEntry(value json.RawMessage) (Entry, error) {
	var pair []json.RawMessage
	if err := json.Unmarshal(value, &pair); err != nil {
		return Entry{}, errors.Wrapf(ErrCorruptTable, "expected [average, count]: %v", err)
	}

	if len(pair) != 2 {
		return Entry{}, errors.Wrapf(ErrCorruptTable, "expected 2 elements, got %d", len(pair))
	}

	avg, err := strconv.ParseFloat(string(pair[0]), 64)
	if err != nil || math.IsNaN(avg) || math.IsInf(avg, 0) {
		return Entry{}, errors.Wrapf(ErrCorruptTable, "invalid average %s", pair[0])
	}

	count, err := strconv.ParseInt(string(pair[1]), 10, 0)
	if err != nil || count < 0 {
		return Entry{}, errors.Wrapf(ErrCorruptTable, "invalid count %s", pair[1])
	}

	return Entry{Average: avg, Count: int(count)}, nil
}

// MarshalTo writes t as a JSON object in key order. Averages use the
// shortest representation that parses back to the same float64.
func (t *Table) MarshalTo(w io.Writer) error {
	bw := bufio.NewWriter(w)
	if _, err := bw.WriteString("{"); err != nil {
		return err
	}

	first := true
	var werr error
	t.Range(func(key string, e Entry) bool {
		if !first {
			werr = bw.WriteByte(',')
		}
		first = false

		if werr == nil {
			werr = writeEntry(bw, key, e)
		}

		return werr == nil
	})

	if werr != nil {
		return errors.Wrap(werr, "writing table")
	}

	if _, err := bw.WriteString("}\n"); err != nil {
		return err
	}

	return bw.Flush()
}

func writeEntry(w *bufio.Writer, key string, e Entry) error {
	k, err := json.Marshal(key)
	if err != nil {
		return err
	}

	buf := make([]byte, 0, len(k)+32)
	buf = append(buf, k...)
	buf = append(buf, ":["...)
	buf = strconv.AppendFloat(buf, e.Average, 'g', -1, 64)
	buf = append(buf, ',')
	buf = strconv.AppendInt(buf, int64(e.Count), 10)
	buf = append(buf, ']')
	_, err = w.Write(buf)
	return err
}

// CheckRange returns an error wrapping ErrCorruptTable naming the first key
// whose average lies outside [p.LossReward, p.WinReward]. Every credit of an
// episode lies in that span, so no table produced under p can violate it.
func (t *Table) CheckRange(p Params) error {
	var err error
	t.Range(func(key string, e Entry) bool {
		if e.Average < p.LossReward || e.Average > p.WinReward {
			err = errors.Wrapf(ErrCorruptTable, "key %q: average %v outside [%v, %v]",
				key, e.Average, p.LossReward, p.WinReward)
		}

		return err == nil
	})

	return err
}
