// Package syncutil provides locking primitives missing from the sync package.
package syncutil

import (
	"sync"
	"sync/atomic"

	"github.com/petermattis/goid"
)

// ReentrantMutex is a mutual exclusion lock that the owning goroutine may
// acquire again without deadlock. Every Lock must be paired with an Unlock
// on the same goroutine. The zero value is an unlocked mutex.
type ReentrantMutex struct {
	mu    sync.Mutex
	held  atomic.Bool
	owner atomic.Int64 // goroutine id of the holder, valid while held
	depth int
}

func (m *ReentrantMutex) Lock() {
	id := currentID()
	if m.held.Load() && m.owner.Load() == id {
		m.depth++
		return
	}
	m.mu.Lock()
	m.owner.Store(id)
	m.held.Store(true)
	m.depth = 1
}

func (m *ReentrantMutex) Unlock() {
	if !m.heldBy(currentID()) {
		panic("syncutil: unlock of ReentrantMutex not held by this goroutine")
	}
	m.depth--
	if m.depth == 0 {
		m.held.Store(false)
		m.owner.Store(0)
		m.mu.Unlock()
	}
}

func (m *ReentrantMutex) heldBy(id int64) bool {
	return m.held.Load() && m.owner.Load() == id
}

func (m *ReentrantMutex) heldByCurrent() bool {
	return m.heldBy(currentID())
}

// currentID panics when the runtime layout is unknown to goid, since every
// goroutine would otherwise share one identity and exclusion would be lost.
func currentID() int64 {
	id := goid.Get()
	if id <= 0 {
		panic("syncutil: goroutine id unavailable")
	}
	return id
}
