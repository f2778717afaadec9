// cache.go implements the two fixed-capacity, lossy hash tables the
// search shares across probes: the transposition table (TT) and the
// evaluation table (ET). Both use the same four-way set-associative,
// lock-less layout; only the entry shape differs.

package engine

import "unsafe"

// bucketSplits are the four hash splits, as fractions of total capacity,
// used to derive a set-associative bucket's four candidate slots from one
// Zobrist key. Splits are biased so the first table absorbs more hits
// while the overall load factor stays high.
var bucketSplits = [4]float64{0.325, 0.275, 0.225, 0.175}

// bucketSizes turns a requested entry count into four sub-table sizes,
// each rounded down to a power of two so indexing is a mask, not a mod.
func bucketSizes(entries int) [4]uint32 {
	var sizes [4]uint32
	for i, frac := range bucketSplits {
		n := uint64(float64(entries) * frac)
		if n == 0 {
			n = 1
		}
		for n&(n-1) != 0 {
			n &= n - 1
		}
		sizes[i] = uint32(n)
	}
	return sizes
}

// generation is a monotonically increasing, wrapping 7-bit counter
// incremented once per root search; used both for TT/ET replacement
// ordering and for bulk eviction of stale entries.
type generation uint8

const maxGeneration generation = 1<<7 - 1

func (g generation) next() generation {
	return (g + 1) & maxGeneration
}

//go:generate stringer -type nodeType

// nodeType classifies how a stored score relates to the window it was
// computed under.
type nodeType uint8

const (
	noEntry    nodeType = iota
	exact               // score is exact
	failedLow           // search failed low: score is an upper bound
	failedHigh          // search failed high: score is a lower bound
)

// ttEntry is one transposition-table slot (24 bytes with padding): the payload words
// are XORed with the Zobrist key on write (Hyatt lock-less hashing) and
// un-XORed on read, so a read racing a concurrent write either sees a
// fully-written entry or a key mismatch, never a silently torn one.
type ttEntry struct {
	lockedKey uint64 // Zobrist key XOR payload words
	move      uint32 // PackedMove of the best move found
	score     int16
	depth     int8
	kind      nodeType
	gen       generation
}

func (e ttEntry) payload() uint64 {
	return uint64(e.move) | uint64(uint16(e.score))<<32 | uint64(uint8(e.depth))<<48 |
		uint64(e.kind)<<56 | uint64(e.gen)<<60
}

// matches reports whether e's stored lockedKey, un-XORed with e's own
// payload, recovers zobrist -- i.e. this slot both holds zobrist's entry
// and was not torn by a concurrent write.
func (e *ttEntry) matches(zobrist uint64) bool {
	return e.lockedKey^e.payload() == zobrist
}

// less reports whether e is less valuable to keep than o, per §4.5's
// replacement ordering: younger generation wins outright; within a
// generation, exact beats non-exact at equal-or-lesser depth, deeper
// search wins within a node type, and tied type+depth breaks towards the
// bound more likely to produce future cutoffs.
func (e ttEntry) less(o ttEntry) bool {
	if e.gen != o.gen {
		return e.gen < o.gen
	}
	if e.kind != o.kind {
		if e.kind == exact && e.depth >= o.depth {
			return false
		}
		if o.kind == exact && o.depth >= e.depth {
			return true
		}
	}
	if e.depth != o.depth {
		return e.depth < o.depth
	}
	switch o.kind {
	case failedHigh:
		return e.score < o.score
	case failedLow:
		return e.score > o.score
	}
	return false
}

// Cache is a four-way set-associative, lock-less hash table. It backs
// both the transposition table and the evaluation table; Cache itself is
// untyped over ttEntry because that is the only entry shape spec.md §9
// keeps (the ET uses the same shape with depth/move left zero).
type Cache struct {
	buckets [4][]ttEntry
	masks   [4]uint32
	gen     generation
}

// NewCache builds a cache sized to hold roughly sizeMB megabytes of
// entries, split across the four set-associative sub-tables.
func NewCache(sizeMB int) *Cache {
	entrySize := int(unsafe.Sizeof(ttEntry{}))
	entries := sizeMB << 20 / entrySize
	sizes := bucketSizes(entries)

	c := &Cache{}
	for i, n := range sizes {
		c.buckets[i] = make([]ttEntry, n)
		c.masks[i] = n - 1
	}
	opLog.Debugf("cache sized to %dMB: bucket entries %v, entry size %d bytes", sizeMB, sizes, entrySize)
	return c
}

// Generation returns the cache's current generation counter.
func (c *Cache) Generation() generation {
	return c.gen
}

// NewSearch bumps the generation counter, called once per root search so
// the replacement policy prefers entries from the search in progress.
func (c *Cache) NewSearch() {
	c.gen = c.gen.next()
}

func (c *Cache) slot(i int, zobrist uint64) *ttEntry {
	idx := uint32(zobrist) & c.masks[i]
	return &c.buckets[i][idx]
}

// Get probes all four candidate slots for zobrist and returns the first
// self-consistent entry whose un-XORed key matches; ok is false on a
// cache miss or a detected torn write.
func (c *Cache) Get(zobrist uint64) (ttEntry, bool) {
	for i := range c.buckets {
		e := c.slot(i, zobrist)
		if e.kind != noEntry && e.matches(zobrist) {
			return *e, true
		}
	}
	return ttEntry{}, false
}

// Put stores entry under zobrist, picking an empty or matching slot if
// one exists, otherwise evicting the least valuable of the four
// candidates per ttEntry.less.
func (c *Cache) Put(zobrist uint64, entry ttEntry) {
	entry.gen = c.gen
	worst, worstIdx := -1, -1
	for i := range c.buckets {
		e := c.slot(i, zobrist)
		if e.kind == noEntry || e.matches(zobrist) {
			worstIdx = i
			break
		}
		if worst == -1 || e.less(*c.slot(worst, zobrist)) {
			worst = i
		}
	}
	if worstIdx == -1 {
		worstIdx = worst
	}
	entry.lockedKey = zobrist ^ entry.payload()
	*c.slot(worstIdx, zobrist) = entry
}

// Clear removes every entry from the cache without resizing it.
func (c *Cache) Clear() {
	for i := range c.buckets {
		for j := range c.buckets[i] {
			c.buckets[i][j] = ttEntry{}
		}
	}
}

// EvictOld removes every entry whose generation is more than maxAge
// generations behind the cache's current generation, in bulk.
func (c *Cache) EvictOld(maxAge generation) {
	cur := c.gen
	for i := range c.buckets {
		for j := range c.buckets[i] {
			e := &c.buckets[i][j]
			if e.kind != noEntry && (cur-e.gen)&maxGeneration > maxAge {
				*e = ttEntry{}
			}
		}
	}
}

var (
	// DefaultHashTableSizeMB is the default size, in megabytes, of the
	// transposition table allocated by NewEngine.
	DefaultHashTableSizeMB = 64
	// DefaultEvalTableSizeMB is the default size, in megabytes, of the
	// evaluation table allocated by NewEngine.
	DefaultEvalTableSizeMB = 16

	// GlobalHashTable is the transposition table shared by every search,
	// including the worker goroutines parallel.go launches.
	GlobalHashTable *Cache
	// GlobalEvalTable is the evaluation cache shared the same way.
	GlobalEvalTable *Cache
)

func init() {
	GlobalHashTable = NewCache(DefaultHashTableSizeMB)
	GlobalEvalTable = NewCache(DefaultEvalTableSizeMB)
}
