package stakewatch

import "sync"

// defaultSeenCapacity bounds how many event references the redelivery
// guard remembers. Old entries are evicted FIFO once the capacity is hit,
// so a reorg deeper than the window surfaces as a duplicate event.
const defaultSeenCapacity = 4096

// seenSet is a bounded FIFO set of event-reference keys. It gives the
// watcher at-least-once semantics with local redelivery suppression: the
// first MarkSeen for a key returns true, repeats within the window return
// false.
//
// State is process-local on purpose; relay state does not survive restarts.
type seenSet struct {
	mu       sync.Mutex
	capacity int
	order    []string
	members  map[string]struct{}
}

// newSeenSet creates a seenSet remembering up to capacity keys.
func newSeenSet(capacity int) *seenSet {
	return &seenSet{
		capacity: capacity,
		order:    make([]string, 0, capacity),
		members:  make(map[string]struct{}, capacity),
	}
}

// MarkSeen records the key and reports whether it was new. Once the set is
// full, the oldest key is evicted to make room.
func (s *seenSet) MarkSeen(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.members[key]; ok {
		return false
	}

	if len(s.order) >= s.capacity {
		oldest := s.order[0]
		s.order = s.order[1:]
		delete(s.members, oldest)
	}

	s.order = append(s.order, key)
	s.members[key] = struct{}{}
	return true
}
