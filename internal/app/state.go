package app

import "sync"

// State guards one-time startup work. The zero value is ready to use.
type State struct {
	mu          sync.Mutex
	initialized bool
}

// Init runs fn unless a previous call already succeeded, and reports whether
// initialization had already happened. A failed fn leaves the state
// uninitialized so the next call retries.
func (s *State) Init(fn func() error) (alreadyInitialized bool, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.initialized {
		return true, nil
	}
	if err := fn(); err != nil {
		return false, err
	}
	s.initialized = true
	return false, nil
}

func (s *State) Initialized() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.initialized
}
