package rdbstore

import (
	"sync"

	"github.com/golang/glog"
	"github.com/pkg/errors"
	rocksdb "github.com/tecbot/gorocksdb"

	"github.com/timpalpant/go-selfplay"
)

// Table is a value table that keeps every entry in a RocksDB database.
// Table implements selfplay.Storage.
type Table struct {
	params Params

	mx sync.Mutex
	db *rocksdb.DB
}

// New opens (or creates) a Table backed by a RocksDB database.
func New(params Params) (*Table, error) {
	db, err := rocksdb.OpenDb(params.Options, params.Path)
	if err != nil {
		return nil, errors.Wrapf(err, "opening %s", params.Path)
	}

	return &Table{
		params: params,
		db:     db,
	}, nil
}

// Close implements io.Closer.
func (t *Table) Close() error {
	t.db.Close()
	t.params.Close()
	return nil
}

// Get implements selfplay.Lookup.
func (t *Table) Get(key string) (selfplay.Entry, bool) {
	e, ok, err := t.get([]byte(key))
	if err != nil {
		panic(err)
	}

	return e, ok
}

func (t *Table) get(key []byte) (selfplay.Entry, bool, error) {
	var e selfplay.Entry
	value, err := t.db.Get(t.params.ReadOptions, key)
	if err != nil {
		return e, false, err
	}
	defer value.Free()

	if !value.Exists() {
		return e, false, nil
	}

	if err := e.UnmarshalBinary(value.Data()); err != nil {
		return e, false, errors.Wrapf(err, "key %q", key)
	}

	return e, true, nil
}

// Update implements selfplay.Storage.
func (t *Table) Update(key string, mean float64, n int) {
	if n <= 0 {
		return
	}

	t.mx.Lock()
	defer t.mx.Unlock()
	k := []byte(key)
	e, _, err := t.get(k)
	if err != nil {
		panic(err)
	}

	buf, err := e.Merge(mean, n).MarshalBinary()
	if err != nil {
		panic(err)
	}

	if err := t.db.Put(t.params.WriteOptions, k, buf); err != nil {
		panic(err)
	}
}

// Import merges every entry of src into t in a single write batch.
func (t *Table) Import(src *selfplay.Table) error {
	t.mx.Lock()
	defer t.mx.Unlock()

	wb := rocksdb.NewWriteBatch()
	defer wb.Destroy()

	var rangeErr error
	src.Range(func(key string, delta selfplay.Entry) bool {
		k := []byte(key)
		e, _, err := t.get(k)
		if err != nil {
			rangeErr = err
			return false
		}

		buf, err := e.Merge(delta.Average, delta.Count).MarshalBinary()
		if err != nil {
			rangeErr = errors.Wrapf(err, "key %q", key)
			return false
		}

		wb.Put(k, buf)
		return true
	})

	if rangeErr != nil {
		return rangeErr
	}

	if err := t.db.Write(t.params.WriteOptions, wb); err != nil {
		return errors.Wrap(err, "writing batch")
	}

	glog.V(1).Infof("Imported %d entries into %s", wb.Count(), t.params.Path)
	return nil
}

// Export copies every stored entry into a new in-memory table.
func (t *Table) Export() (*selfplay.Table, error) {
	result := selfplay.NewTable()
	it := t.db.NewIterator(t.params.ReadOptions)
	defer it.Close()
	for it.SeekToFirst(); it.Valid(); it.Next() {
		key := it.Key()
		value := it.Value()
		var e selfplay.Entry
		err := e.UnmarshalBinary(value.Data())
		k := string(key.Data())
		key.Free()
		value.Free()
		if err != nil {
			return nil, errors.Wrapf(err, "key %q", k)
		}

		result.Set(k, e)
	}

	if err := it.Err(); err != nil {
		return nil, err
	}

	glog.V(1).Infof("Exported %d entries from %s", result.Len(), t.params.Path)
	return result, nil
}
