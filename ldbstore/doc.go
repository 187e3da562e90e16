// Package ldbstore implements a value table that keeps its entries
// on disk in a LevelDB database, rather than in memory.
//
// It is substantially slower than selfplay.Table but can hold tables
// that do not fit in memory.
package ldbstore
