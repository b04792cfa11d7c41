package merklelog

import (
	"sort"
	"sync"

	"github.com/ironclad-robotics/attestcore/xcrypto"
)

// Log is the ordered container of Entry values accumulated since the last
// checkpoint. Entries are keyed by their composite EntryID; inserting the
// same EntryID twice overwrites the previous entry. The log is cleared back
// to empty every time a checkpoint seals the window.
//
// Log is safe for concurrent use; a read (Root, Proof) takes a consistent
// snapshot of whatever has been inserted up to that call.
type Log struct {
	mu      sync.Mutex
	entries map[EntryID]Entry

	// sortedCache and sortedCacheValid implement the lazy-rebuild strategy:
	// insertion only touches the map (O(1)); the sorted view is rebuilt once,
	// on demand, the next time it's needed, rather than on every insert.
	sortedCache      []Entry
	sortedCacheValid bool
}

// NewLog returns an empty log.
func NewLog() *Log {
	return &Log{entries: make(map[EntryID]Entry)}
}

// Insert adds or replaces the entry at e.ID(). Returns true if this
// overwrote an existing entry at the same EntryID.
func (l *Log) Insert(e Entry) (overwrote bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	_, overwrote = l.entries[e.ID()]
	l.entries[e.ID()] = e
	l.sortedCacheValid = false
	return overwrote
}

// Len returns the number of distinct entries currently in the log.
func (l *Log) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}

// Clear resets the log to empty, for the start of the next checkpoint
// window.
func (l *Log) Clear() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = make(map[EntryID]Entry)
	l.sortedCache = nil
	l.sortedCacheValid = false
}

// sorted returns the entries in ascending (timestamp_us, nonce) order. The
// caller must hold l.mu.
func (l *Log) sorted() []Entry {
	if l.sortedCacheValid {
		return l.sortedCache
	}
	out := make([]Entry, 0, len(l.entries))
	for _, e := range l.entries {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID().Less(out[j].ID()) })
	l.sortedCache = out
	l.sortedCacheValid = true
	return out
}

// Root computes the Merkle root over every entry currently in the log, per
// the rules in HashLeaf/buildLevel: the empty log's root is 32 zero bytes,
// a single-entry log's root is that entry's leaf hash, and because the
// entries are always processed in sorted order, the root depends only on
// the *set* of entries, never on insertion order.
func (l *Log) Root() xcrypto.Hash256 {
	l.mu.Lock()
	defer l.mu.Unlock()

	entries := l.sorted()
	leaves := make([]xcrypto.Hash256, len(entries))
	for i, e := range entries {
		leaves[i] = HashLeaf(e)
	}
	return rootOf(leaves)
}

// rootOf computes the Merkle root over leaves, which must already be in
// canonical (sorted-key) order.
func rootOf(leaves []xcrypto.Hash256) xcrypto.Hash256 {
	if len(leaves) == 0 {
		return xcrypto.Hash256{}
	}
	level := leaves
	for len(level) > 1 {
		level = buildLevel(level)
	}
	return level[0]
}

// buildLevel pairs adjacent nodes in level, producing the next level up. An
// odd node out is paired with itself, per the spec's self-pairing rule.
func buildLevel(level []xcrypto.Hash256) []xcrypto.Hash256 {
	next := make([]xcrypto.Hash256, 0, (len(level)+1)/2)
	for i := 0; i < len(level); i += 2 {
		if i+1 < len(level) {
			next = append(next, HashNode(level[i], level[i+1]))
		} else {
			next = append(next, HashNode(level[i], level[i]))
		}
	}
	return next
}
