// Package cursor tracks paused aggregation requests (IS_CURSOR) between
// chunks, and sweeps entries that have sat idle past their configured
// TTL.
package cursor

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/kvsearch/qexec/flow"
	"github.com/kvsearch/qexec/lookup"
)

// Entry is one paused request: its terminal stage (ready to resume with
// further Next calls), its Lookup, and when it was last read from.
type Entry struct {
	ID         uuid.UUID
	Stage      flow.Stage
	Lookup     *lookup.Lookup
	ChunkSize  int
	MaxIdle    time.Duration
	lastAccess time.Time
}

// Table is the process-wide set of live cursors, guarded by a mutex since
// the background sweep and per-request reads run on different goroutines.
type Table struct {
	mu      sync.Mutex
	entries map[uuid.UUID]*Entry
}

// New creates an empty cursor table.
func New() *Table {
	return &Table{entries: make(map[uuid.UUID]*Entry)}
}

// Store registers a newly paused request, stamping its last-access time
// to now, and returns the id it was assigned.
func (t *Table) Store(e *Entry) uuid.UUID {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	e.lastAccess = time.Now()
	t.mu.Lock()
	defer t.mu.Unlock()
	t.entries[e.ID] = e
	return e.ID
}

// Take removes and returns the cursor for id, refreshing nothing since
// the caller now owns it until it calls Store again. Sweep no longer
// sees a taken entry, so dropping it frees nothing.
func (t *Table) Take(id uuid.UUID) (*Entry, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	e, ok := t.entries[id]
	if ok {
		delete(t.entries, id)
	}
	return e, ok
}

// Sweep frees and removes every cursor whose idle time exceeds its
// configured MaxIdle, returning how many were swept.
func (t *Table) Sweep() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	now := time.Now()
	swept := 0
	for id, e := range t.entries {
		if now.Sub(e.lastAccess) > e.MaxIdle {
			e.Stage.Free()
			delete(t.entries, id)
			swept++
		}
	}
	return swept
}

// Len reports the number of live cursors, for diagnostics.
func (t *Table) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.entries)
}
