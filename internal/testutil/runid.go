package testutil

import (
	"fmt"
	"sync"
)

// RunIDSequence generates predictable run IDs: prefix-0001, prefix-0002, ...
//
// Unlike engine.FixedGenerator, which needs every ID up front and panics when
// exhausted, RunIDSequence never runs out and can be reset for test reuse.
// IDs sort in generation order, like UUIDv7.
//
// Thread-safety: All methods are safe for concurrent use via internal mutex.
type RunIDSequence struct {
	mu     sync.Mutex
	prefix string
	seq    int64
}

// NewRunIDSequence creates a sequence. An empty prefix becomes "run".
func NewRunIDSequence(prefix string) *RunIDSequence {
	if prefix == "" {
		prefix = "run"
	}
	return &RunIDSequence{prefix: prefix}
}

// Generate returns the next ID.
//
// Implements engine.RunIDGenerator interface.
func (g *RunIDSequence) Generate() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.seq++
	return fmt.Sprintf("%s-%04d", g.prefix, g.seq)
}

// Count returns how many IDs have been generated since creation or Reset.
func (g *RunIDSequence) Count() int64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.seq
}

// Reset restarts the sequence. The next Generate returns prefix-0001.
func (g *RunIDSequence) Reset() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.seq = 0
}
