// Package corpus holds the pool of seed inputs the mutation engine
// draws splice and prolongation candidates from, and watches a corpus
// directory for newly discovered seeds.
package corpus

import (
	"sync"

	"github.com/sfuzz-go/mutation/internal/ambienterr"
	"github.com/sfuzz-go/mutation/internal/mutation"
)

// Corpus is a thread-safe pool of fuzz items: a DirectoryWatcher
// goroutine may add items while the mutation loop reads them.
type Corpus struct {
	mu    sync.RWMutex
	items []mutation.FuzzItem
}

// New returns an empty corpus.
func New() *Corpus {
	return &Corpus{}
}

// Add appends item to the pool.
func (c *Corpus) Add(item mutation.FuzzItem) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.items = append(c.items, item)
}

// Len reports the current pool size.
func (c *Corpus) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return len(c.items)
}

// PickDistinct returns the data of a random corpus item whose checksum
// differs from exclude, or nil if no such item exists — the splice
// stage's SpliceSource.
func (c *Corpus) PickDistinct(exclude mutation.Result, rng mutation.RNG) []byte {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if len(c.items) == 0 {
		return nil
	}

	start := rng.UR(uint32(len(c.items)))

	for i := uint32(0); i < uint32(len(c.items)); i++ {
		idx := (start + i) % uint32(len(c.items))
		cand := c.items[idx]

		if cand.Res.Cksum != exclude.Cksum {
			return cand.Data
		}
	}

	return nil
}

// RequireNonEmpty returns an error identifying dir if the corpus holds
// no seeds.
func (c *Corpus) RequireNonEmpty(dir string) error {
	if c.Len() == 0 {
		return ambienterr.CorpusEmpty(dir)
	}

	return nil
}
