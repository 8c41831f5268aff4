package state

import (
	"sync"

	"github.com/atomicstack/termslots/internal/indicator"
)

// StatusStore holds the latest indicator readings shown in the status bar.
type StatusStore interface {
	Clock() string
	SetClock(string)
	Battery() string
	SetBattery(string)
}

type statusStore struct {
	mu      sync.RWMutex
	clock   string
	battery string
}

func NewStatusStore() StatusStore {
	return &statusStore{battery: indicator.UnknownBattery}
}

func (s *statusStore) Clock() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.clock
}

func (s *statusStore) SetClock(clock string) {
	s.mu.Lock()
	s.clock = clock
	s.mu.Unlock()
}

func (s *statusStore) Battery() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.battery
}

func (s *statusStore) SetBattery(battery string) {
	s.mu.Lock()
	s.battery = battery
	s.mu.Unlock()
}
