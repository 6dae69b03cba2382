package session

import "sync"

// Locks hands out one mutex per conversation. Entries are reference counted
// and removed once nobody holds or waits on them.
type Locks struct {
	mu      sync.Mutex
	entries map[string]*lockEntry
}

type lockEntry struct {
	mu   sync.Mutex
	refs int
}

func NewLocks() *Locks {
	return &Locks{entries: make(map[string]*lockEntry)}
}

// Lock blocks until the conversation's lock is held and returns the release
// function. Calling the release function more than once is a no-op.
func (l *Locks) Lock(conversationID string) func() {
	l.mu.Lock()
	e, ok := l.entries[conversationID]
	if !ok {
		e = &lockEntry{}
		l.entries[conversationID] = e
	}
	e.refs++
	l.mu.Unlock()

	e.mu.Lock()

	var once sync.Once
	return func() {
		once.Do(func() {
			e.mu.Unlock()

			l.mu.Lock()
			e.refs--
			if e.refs == 0 {
				delete(l.entries, conversationID)
			}
			l.mu.Unlock()
		})
	}
}

func (l *Locks) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}
