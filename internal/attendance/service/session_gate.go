package service

import (
	"sync"

	id "tempo/pkg/domain"
)

// sessionGate orders ApplyAction calls on one session inside this process,
// from the store write through the hand-off to the emitter. The store lock
// ends at commit, so without the gate a later transition could be queued
// for delivery before an earlier one.
type sessionGate struct {
	mu      sync.Mutex
	entries map[id.SessionID]*gateEntry
}

type gateEntry struct {
	mu   sync.Mutex
	refs int
}

// lock blocks until sessionID is free and returns the release func. Entries
// are dropped once nobody holds or waits on them.
func (g *sessionGate) lock(sessionID id.SessionID) func() {
	g.mu.Lock()
	if g.entries == nil {
		g.entries = make(map[id.SessionID]*gateEntry)
	}
	e, ok := g.entries[sessionID]
	if !ok {
		e = &gateEntry{}
		g.entries[sessionID] = e
	}
	e.refs++
	g.mu.Unlock()

	e.mu.Lock()
	return func() {
		e.mu.Unlock()
		g.mu.Lock()
		e.refs--
		if e.refs == 0 {
			delete(g.entries, sessionID)
		}
		g.mu.Unlock()
	}
}
