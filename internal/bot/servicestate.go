package bot

import "sync"

// ServiceState holds the runtime maintenance switch. It is flipped from
// the admin panel and read by the maintenance middleware on every
// update, so access is synchronized.
type ServiceState struct {
	mu          sync.RWMutex
	maintenance bool
}

// NewServiceState seeds the switch with the configured startup value.
func NewServiceState(maintenance bool) *ServiceState {
	return &ServiceState{maintenance: maintenance}
}

// Maintenance reports whether the bot is closed for non-admin traffic.
func (s *ServiceState) Maintenance() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.maintenance
}

// SetMaintenance flips the switch.
func (s *ServiceState) SetMaintenance(v bool) {
	s.mu.Lock()
	s.maintenance = v
	s.mu.Unlock()
}
