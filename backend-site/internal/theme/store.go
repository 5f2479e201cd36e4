package theme

import (
	"sync"

	"github.com/OttoDev-System/intellicor-saas/backend-site/internal/domain"
)

// Store is a style-variable store safe for concurrent use
type Store struct {
	mu   sync.RWMutex
	vars map[string]string
}

func NewStore() *Store {
	return &Store{vars: make(map[string]string)}
}

func (s *Store) Set(name, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.vars[name] = value
}

func (s *Store) Remove(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.vars, name)
}

func (s *Store) Get(name string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.vars[name]
	return v, ok
}

// Snapshot returns a copy of every variable
func (s *Store) Snapshot() map[string]string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]string, len(s.vars))
	for k, v := range s.vars {
		out[k] = v
	}
	return out
}

type priorValue struct {
	value   string
	present bool
}

// Applicator writes property sets into a Store and can undo them
type Applicator struct {
	mu      sync.Mutex
	store   *Store
	applied PropertySet
	prior   map[string]priorValue
}

func NewApplicator(store *Store) *Applicator {
	return &Applicator{store: store}
}

// Apply reverts any previously applied set, then writes the set for colors
func (a *Applicator) Apply(colors domain.ThemeColors) PropertySet {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.revertLocked()

	ps := Apply(colors)
	a.prior = make(map[string]priorValue, len(ps))
	for _, p := range ps {
		v, ok := a.store.Get(p.Name)
		a.prior[p.Name] = priorValue{value: v, present: ok}
		a.store.Set(p.Name, p.Value)
	}
	a.applied = ps
	return ps
}

// Revert removes the applied slots, restoring whatever the store held before Apply
func (a *Applicator) Revert() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.revertLocked()
}

func (a *Applicator) revertLocked() {
	for _, name := range Revert(a.applied) {
		if p := a.prior[name]; p.present {
			a.store.Set(name, p.value)
		} else {
			a.store.Remove(name)
		}
	}
	a.applied = nil
	a.prior = nil
}

// Applied returns the currently applied set
func (a *Applicator) Applied() PropertySet {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make(PropertySet, len(a.applied))
	copy(out, a.applied)
	return out
}
