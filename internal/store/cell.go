package store

import "sync"

// Cell holds a single server-owned value: a microsite profile, a
// statistics snapshot, or the denormalized stats block that rides along a
// list response. Same fetch-sequence guard as Store.
type Cell[T any] struct {
	mu      sync.RWMutex
	value   T
	ok      bool
	loading bool
	errMsg  string
	latest  uint64
}

func NewCell[T any]() *Cell[T] {
	return &Cell[T]{}
}

func (c *Cell[T]) Begin() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.latest++
	c.errMsg = ""
	return c.latest
}

func (c *Cell[T]) CompleteFetch(seq uint64, value T) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if seq < c.latest {
		return false
	}
	c.value = value
	c.ok = true
	return true
}

func (c *Cell[T]) Set(value T) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.value = value
	c.ok = true
}

// Update applies fn to the held value in place. Before the first Set or
// CompleteFetch there is nothing to adjust and the call is a no-op.
func (c *Cell[T]) Update(fn func(*T)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.ok {
		return
	}
	fn(&c.value)
}

func (c *Cell[T]) Get() (T, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.value, c.ok
}

func (c *Cell[T]) SetLoading(loading bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.loading = loading
}

func (c *Cell[T]) Loading() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.loading
}

func (c *Cell[T]) SetError(msg string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.errMsg = msg
}

func (c *Cell[T]) Err() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.errMsg
}
