// Package presence derives online/offline status from the set of live
// connections each user currently holds. State is process-wide and
// rebuilt from scratch as connections are re-established after a
// restart.
package presence

import "sync"

// Tracker maps user ids to their active connection ids. Add and remove
// for the same user are serialized under one mutex, so the online set
// is never observed transiently empty while a valid connection exists.
type Tracker struct {
	mu    sync.Mutex
	conns map[string]map[string]bool
}

func NewTracker() *Tracker {
	return &Tracker{
		conns: make(map[string]map[string]bool),
	}
}

// AddConnection records a connection for a user and reports whether
// the user just transitioned from offline to online.
func (t *Tracker) AddConnection(userID, connID string) (wentOnline bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	set, ok := t.conns[userID]
	if !ok {
		set = make(map[string]bool)
		t.conns[userID] = set
	}

	wentOnline = len(set) == 0
	set[connID] = true
	return wentOnline
}

// RemoveConnection drops a connection for a user and reports whether
// that was the user's last one, i.e. the user just went offline.
// Removing an unknown connection is a no-op.
func (t *Tracker) RemoveConnection(userID, connID string) (wentOffline bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	set, ok := t.conns[userID]
	if !ok || !set[connID] {
		return false
	}

	delete(set, connID)
	if len(set) == 0 {
		delete(t.conns, userID)
		return true
	}
	return false
}

// IsOnline reports whether the user has at least one live connection.
func (t *Tracker) IsOnline(userID string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.conns[userID]) > 0
}

// ConnectionCount returns the number of live connections for a user.
func (t *Tracker) ConnectionCount(userID string) int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.conns[userID])
}
