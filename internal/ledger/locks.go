package ledger

import (
	"sort"
	"sync"
)

// userLocks serializes mutating operations per user id. Cross-user
// operations (a referral credit touches two rows) acquire ids in
// ascending order so two concurrent events can never deadlock.
type userLocks struct {
	mu sync.Mutex
	m  map[int64]*sync.Mutex
}

func newUserLocks() *userLocks {
	return &userLocks{m: make(map[int64]*sync.Mutex)}
}

func (l *userLocks) forUser(id int64) *sync.Mutex {
	l.mu.Lock()
	defer l.mu.Unlock()
	lk, ok := l.m[id]
	if !ok {
		lk = &sync.Mutex{}
		l.m[id] = lk
	}
	return lk
}

// acquire locks the given ids in ascending order and returns the matching
// release. Duplicate ids are collapsed.
func (l *userLocks) acquire(ids ...int64) func() {
	uniq := make([]int64, 0, len(ids))
	seen := make(map[int64]bool, len(ids))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			uniq = append(uniq, id)
		}
	}
	sort.Slice(uniq, func(i, j int) bool { return uniq[i] < uniq[j] })

	locked := make([]*sync.Mutex, 0, len(uniq))
	for _, id := range uniq {
		lk := l.forUser(id)
		lk.Lock()
		locked = append(locked, lk)
	}
	return func() {
		for i := len(locked) - 1; i >= 0; i-- {
			locked[i].Unlock()
		}
	}
}
