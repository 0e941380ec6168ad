package state

import "sync"

// Store holds a [SettingsPageState] shared between goroutines. The zero
// value holds an empty, hidden state.
type Store struct {
	s  SettingsPageState
	mu sync.RWMutex
}

// NewStore returns a [Store] holding a copy of s.
func NewStore(s SettingsPageState) *Store {
	return &Store{s: s.Clone()}
}

// Load returns a copy of the current state.
func (st *Store) Load() SettingsPageState {
	st.mu.RLock()
	defer st.mu.RUnlock()

	return st.s.Clone()
}

// Save replaces the current state with a copy of s.
func (st *Store) Save(s SettingsPageState) {
	st.mu.Lock()
	defer st.mu.Unlock()

	st.s = s.Clone()
}
