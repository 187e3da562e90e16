package ldbstore

import (
	"sync"

	"github.com/golang/glog"
	"github.com/pkg/errors"
	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/opt"

	"github.com/timpalpant/go-selfplay"
)

// Table is a value table that keeps every entry in a LevelDB database.
// Table implements selfplay.Storage.
//
// Get is safe for concurrent use. Update serializes its read-modify-write
// cycle so that concurrent updates to one key are not lost.
type Table struct {
	path string

	mx    sync.Mutex
	db    *leveldb.DB
	rOpts *opt.ReadOptions
	wOpts *opt.WriteOptions
}

// New opens (or creates) a Table backed by a LevelDB database at the given path.
func New(path string, opts *opt.Options) (*Table, error) {
	db, err := leveldb.OpenFile(path, opts)
	if err != nil {
		return nil, errors.Wrapf(err, "opening %s", path)
	}

	return &Table{
		path: path,
		db:   db,
	}, nil
}

// Close implements io.Closer.
func (t *Table) Close() error {
	return t.db.Close()
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
	buf, err := t.db.Get(key, t.rOpts)
	if err == leveldb.ErrNotFound {
		return e, false, nil
	} else if err != nil {
		return e, false, err
	}

	if err := e.UnmarshalBinary(buf); err != nil {
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

	if err := t.db.Put(k, buf, t.wOpts); err != nil {
		panic(err)
	}
}

// Len returns the number of stored keys.
func (t *Table) Len() int {
	iter := t.db.NewIterator(nil, t.rOpts)
	defer iter.Release()
	n := 0
	for iter.Next() {
		n++
	}

	if err := iter.Error(); err != nil {
		panic(err)
	}

	return n
}

// Import merges every entry of src into t in a single batch.
func (t *Table) Import(src *selfplay.Table) error {
	t.mx.Lock()
	defer t.mx.Unlock()

	batch := new(leveldb.Batch)
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

		batch.Put(k, buf)
		return true
	})

	if rangeErr != nil {
		return rangeErr
	}

	if err := t.db.Write(batch, t.wOpts); err != nil {
		return errors.Wrap(err, "writing batch")
	}

	glog.V(1).Infof("Imported %d entries into %s", batch.Len(), t.path)
	return nil
}

// Export copies every stored entry into a new in-memory table.
func (t *Table) Export() (*selfplay.Table, error) {
	result := selfplay.NewTable()
	iter := t.db.NewIterator(nil, t.rOpts)
	defer iter.Release()
	for iter.Next() {
		var e selfplay.Entry
		if err := e.UnmarshalBinary(iter.Value()); err != nil {
			return nil, errors.Wrapf(err, "key %q", iter.Key())
		}

		result.Set(string(iter.Key()), e)
	}

	if err := iter.Error(); err != nil {
		return nil, err
	}

	glog.V(1).Infof("Exported %d entries from %s", result.Len(), t.path)
	return result, nil
}
