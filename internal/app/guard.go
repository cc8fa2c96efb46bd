package app

import (
	"sync"

	"github.com/google/uuid"
)

// ItemGuard serializes mutations of a single item's records. Bid placement,
// the outbid cascade, manual close and the scheduled sweeps all acquire the
// item's lock before reading state, so none of them can interleave with
// another on the same item. Different items are fully independent.
type ItemGuard struct {
	mu    sync.Mutex
	locks map[uuid.UUID]*sync.Mutex
}

// NewItemGuard creates a new item guard
func NewItemGuard() *ItemGuard {
	return &ItemGuard{
		locks: make(map[uuid.UUID]*sync.Mutex),
	}
}

// Lock acquires the lock for the given item and returns the release func
func (g *ItemGuard) Lock(itemID uuid.UUID) func() {
	g.mu.Lock()
	lock, ok := g.locks[itemID]
	if !ok {
		lock = &sync.Mutex{}
		g.locks[itemID] = lock
	}
	g.mu.Unlock()

	lock.Lock()
	return lock.Unlock
}
