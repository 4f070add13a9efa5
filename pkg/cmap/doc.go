// Package cmap provides a sharded concurrent map keyed by strings.
//
// Keys are spread over a power-of-two number of shards with murmur3, and
// each shard is guarded by its own RWMutex. Reads of different keys rarely
// contend, which suits caches that are written once and read on every
// request.
//
// Usage:
//
//	m := cmap.New[string, *Entry]()
//	m.Set("customers", entry)
//	e, ok := m.Get("customers")
package cmap
