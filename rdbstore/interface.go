// Package rdbstore implements a value table that keeps its entries
// in a RocksDB database, rather than in memory.
//
// It is substantially slower than selfplay.Table but can hold tables
// that do not fit in memory.
package rdbstore

import (
	rocksdb "github.com/tecbot/gorocksdb"
)

// bloomBitsPerKey sizes the filter that lets a Get for an unseen state
// return without reading a data block.
const bloomBitsPerKey = 10

// Params locates a value table on disk and holds the RocksDB options it is
// opened with. Keys are canonical state keys and values are encoded
// selfplay.Entry records. A Table owns its Params and destroys the
// options when it is closed.
type Params struct {
	Path         string
	Options      *rocksdb.Options
	ReadOptions  *rocksdb.ReadOptions
	WriteOptions *rocksdb.WriteOptions
}

// DefaultParams returns options for a value table at path. The database is
// created if missing and its tables carry a bloom filter over state keys.
func DefaultParams(path string) Params {
	bbto := rocksdb.NewDefaultBlockBasedTableOptions()
	bbto.SetFilterPolicy(rocksdb.NewBloomFilter(bloomBitsPerKey))

	opts := rocksdb.NewDefaultOptions()
	opts.SetCreateIfMissing(true)
	opts.SetBlockBasedTableFactory(bbto)

	return Params{
		Path:         path,
		Options:      opts,
		ReadOptions:  rocksdb.NewDefaultReadOptions(),
		WriteOptions: rocksdb.NewDefaultWriteOptions(),
	}
}

// Close releases the options, including the table factory.
func (p Params) Close() {
	p.Options.Destroy()
	p.ReadOptions.Destroy()
	p.WriteOptions.Destroy()
}

// Open opens (or creates) a Table at path with DefaultParams.
func Open(path string) (*Table, error) {
	params := DefaultParams(path)
	t, err := New(params)
	if err != nil {
		params.Close()
		return nil, err
	}

	return t, nil
}
