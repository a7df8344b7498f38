package store

import "sync"

// Entity is anything addressable by a collection-unique id.
type Entity interface {
	EntityID() string
}

// Store holds the session-local copy of one server-owned collection plus
// its request status. Every mutation is a single atomic update under the
// store mutex; reads hand out snapshot copies so callers can iterate
// without holding any lock.
//
// Fetches are guarded by a monotonically increasing sequence number:
// Begin allocates the sequence for a new fetch and CompleteFetch discards
// any response that resolved after a newer fetch was dispatched. Without
// the guard, two in-flight fetches would race and "last to resolve" would
// win regardless of dispatch order.
type Store[T Entity] struct {
	mu      sync.RWMutex
	items   []T
	loading bool
	errMsg  string
	latest  uint64
}

func New[T Entity]() *Store[T] {
	return &Store[T]{}
}

// Begin registers a new fetch and returns its sequence number. It also
// clears the error banner: a fresh attempt always starts clean.
func (s *Store[T]) Begin() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.latest++
	s.errMsg = ""
	return s.latest
}

// CompleteFetch replaces the whole collection with the response of the
// fetch identified by seq. A response that lost the race to a newer fetch
// is discarded and the method reports false.
func (s *Store[T]) CompleteFetch(seq uint64, items []T) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if seq < s.latest {
		return false
	}
	s.items = append([]T(nil), items...)
	return true
}

// SetCollection replaces the collection unconditionally. No merge: an item
// absent from the new list disappears even if it was being edited.
func (s *Store[T]) SetCollection(items []T) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = append([]T(nil), items...)
}

// PatchOne replaces the item with a matching id wholesale. Patching an id
// that is not present, e.g. one deleted by a concurrent fetch, is a
// silent no-op.
func (s *Store[T]) PatchOne(item T) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.items {
		if s.items[i].EntityID() == item.EntityID() {
			s.items[i] = item
			return true
		}
	}
	return false
}

// AddOne prepends the item. Most-recent-first is a presentation
// convention, not a stored attribute.
func (s *Store[T]) AddOne(item T) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = append([]T{item}, s.items...)
}

// RemoveOne drops the item with the given id. Removing an absent id is a
// no-op, so the operation is idempotent.
func (s *Store[T]) RemoveOne(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.items {
		if s.items[i].EntityID() == id {
			s.items = append(s.items[:i:i], s.items[i+1:]...)
			return true
		}
	}
	return false
}

func (s *Store[T]) SetLoading(loading bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = loading
}

func (s *Store[T]) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

// SetError records the banner message for the slice. An empty string
// clears it.
func (s *Store[T]) SetError(msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.errMsg = msg
}

func (s *Store[T]) Err() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.errMsg
}

// Items returns a snapshot copy in server-provided order.
func (s *Store[T]) Items() []T {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]T(nil), s.items...)
}

func (s *Store[T]) Get(id string) (T, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for i := range s.items {
		if s.items[i].EntityID() == id {
			return s.items[i], true
		}
	}
	var zero T
	return zero, false
}

func (s *Store[T]) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}
