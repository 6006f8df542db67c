// Package cache implements the Last-Value Cache: the only mutable
// shared structure inside the core (spec.md §4.7, §5). It stores, per
// symbol, the latest consensus price and the latest normalized quote
// list. Writes are single-writer per symbol (the scheduler); reads
// return a consistent snapshot of one entry so a debug endpoint never
// observes a torn record while a write is in flight.
package cache

import (
	"sync"

	"github.com/pricecore/oracle-core/pkg/quote"
)

const shardCount = 32

// Entry is one symbol's cached state.
type Entry struct {
	LastConsensus    quote.ConsensusPrice
	LastCanonicalSet []quote.CanonicalQuote
	LastUpdatedAt    int64 // epoch milliseconds
}

// Cache is a concurrent symbol→Entry map, sharded by symbol hash so
// concurrent multi-symbol reads (the debug surface) don't contend with
// the scheduler's per-symbol writes for unrelated symbols.
type Cache struct {
	shards [shardCount]shard
}

type shard struct {
	mu      sync.RWMutex
	entries map[string]Entry
}

// New builds an empty Cache. There is no eviction and no durability,
// per spec.md §4.7.
func New() *Cache {
	c := &Cache{}
	for i := range c.shards {
		c.shards[i].entries = make(map[string]Entry)
	}
	return c
}

// Set stores consensus and canonicalSet for symbol, atomically with
// respect to any concurrent Get on the same symbol.
func (c *Cache) Set(symbol string, consensus quote.ConsensusPrice, canonicalSet []quote.CanonicalQuote, updatedAt int64) {
	s := c.shardFor(symbol)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[symbol] = Entry{
		LastConsensus:    consensus,
		LastCanonicalSet: canonicalSet,
		LastUpdatedAt:    updatedAt,
	}
}

// Get returns the entry for symbol and whether it was present.
func (c *Cache) Get(symbol string) (Entry, bool) {
	s := c.shardFor(symbol)
	s.mu.RLock()
	defer s.mu.RUnlock()
	entry, ok := s.entries[symbol]
	return entry, ok
}

// Snapshot returns a DebugSnapshot-shaped copy of every cached symbol,
// safe for a caller to range over without holding any shard's lock.
// updatedAt is the latest LastUpdatedAt across all symbols, or zero if
// the cache is empty.
func (c *Cache) Snapshot() (lastAggregated map[string]quote.ConsensusPrice, lastNormalized map[string][]quote.CanonicalQuote, updatedAt int64) {
	lastAggregated = make(map[string]quote.ConsensusPrice)
	lastNormalized = make(map[string][]quote.CanonicalQuote)
	for i := range c.shards {
		s := &c.shards[i]
		s.mu.RLock()
		for symbol, entry := range s.entries {
			lastAggregated[symbol] = entry.LastConsensus
			lastNormalized[symbol] = entry.LastCanonicalSet
			if entry.LastUpdatedAt > updatedAt {
				updatedAt = entry.LastUpdatedAt
			}
		}
		s.mu.RUnlock()
	}
	return lastAggregated, lastNormalized, updatedAt
}

// Symbols returns every symbol currently cached.
func (c *Cache) Symbols() []string {
	symbols := make([]string, 0)
	for i := range c.shards {
		s := &c.shards[i]
		s.mu.RLock()
		for symbol := range s.entries {
			symbols = append(symbols, symbol)
		}
		s.mu.RUnlock()
	}
	return symbols
}

func (c *Cache) shardFor(symbol string) *shard {
	return &c.shards[fnv32(symbol)%shardCount]
}

// fnv32 is a small non-cryptographic hash used only to pick a shard;
// collision resistance doesn't matter here.
func fnv32(s string) uint32 {
	const (
		offset32 = 2166136261
		prime32  = 16777619
	)
	h := uint32(offset32)
	for i := 0; i < len(s); i++ {
		h ^= uint32(s[i])
		h *= prime32
	}
	return h
}
