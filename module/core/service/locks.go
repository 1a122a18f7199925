package service

import "sync"

// VehicleLocks hands out one mutex per vehicle id: detection passes and
// alert lifecycle mutations for the same vehicle never interleave, while
// distinct vehicles proceed in parallel. Entries are reference counted and
// evicted when the last holder releases, so the map does not grow with the
// fleet's lifetime id churn.
type VehicleLocks struct {
	mu      sync.Mutex
	entries map[string]*lockEntry
}

type lockEntry struct {
	mu   sync.Mutex
	refs int
}

func NewVehicleLocks() *VehicleLocks {
	return &VehicleLocks{entries: make(map[string]*lockEntry)}
}

func (l *VehicleLocks) lock(id string) func() {
	l.mu.Lock()
	e, ok := l.entries[id]
	if !ok {
		e = &lockEntry{}
		l.entries[id] = e
	}
	e.refs++
	l.mu.Unlock()

	e.mu.Lock()
	return func() {
		e.mu.Unlock()
		l.mu.Lock()
		e.refs--
		if e.refs == 0 {
			delete(l.entries, id)
		}
		l.mu.Unlock()
	}
}
