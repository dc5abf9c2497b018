package session

import (
	"log/slog"
	"sync"
	"time"
)

// Manager owns the per-user session map. Sessions for different users never
// share mutable state: the map itself is guarded here, each session carries
// its own lock, and an idle sweep discards sessions past the TTL.
type Manager struct {
	mu       sync.Mutex
	sessions map[int64]*Session
	ttl      time.Duration

	sweeping  bool
	stopSweep chan struct{}
	sweepDone chan struct{}
	stopOnce  sync.Once
}

// NewManager creates a session manager. ttl <= 0 disables idle expiry.
func NewManager(ttl time.Duration) *Manager {
	return &Manager{
		sessions:  make(map[int64]*Session),
		ttl:       ttl,
		stopSweep: make(chan struct{}),
		sweepDone: make(chan struct{}),
	}
}

// Start opens a fresh session for the user. An existing session of either
// kind is silently replaced; no error, no merge.
func (m *Manager) Start(userID int64, kind Kind) *Session {
	s := newSession(userID, kind)
	m.mu.Lock()
	m.sessions[userID] = s
	m.mu.Unlock()
	return s
}

// Get returns the user's active session, if any.
func (m *Manager) Get(userID int64) (*Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[userID]
	return s, ok
}

// End discards the user's session. Ending an absent session is a no-op.
func (m *Manager) End(userID int64) {
	m.mu.Lock()
	delete(m.sessions, userID)
	m.mu.Unlock()
}

// Len returns the number of active sessions.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

// StartSweep begins periodic expiry of idle sessions. No-op when the TTL
// is disabled.
func (m *Manager) StartSweep(interval time.Duration) {
	if m.ttl <= 0 {
		return
	}
	m.mu.Lock()
	if m.sweeping {
		m.mu.Unlock()
		return
	}
	m.sweeping = true
	m.mu.Unlock()
	go m.sweep(interval)
}

func (m *Manager) sweep(interval time.Duration) {
	defer close(m.sweepDone)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if n := m.ExpireIdle(time.Now()); n > 0 {
				slog.Info("expired idle sessions", "count", n, "ttl", m.ttl)
			}
		case <-m.stopSweep:
			return
		}
	}
}

// ExpireIdle discards every session idle longer than the TTL and returns
// how many were removed.
func (m *Manager) ExpireIdle(now time.Time) int {
	if m.ttl <= 0 {
		return 0
	}
	m.mu.Lock()
	var stale []int64
	for id, s := range m.sessions {
		if s.idleSince(now) > m.ttl {
			stale = append(stale, id)
		}
	}
	for _, id := range stale {
		delete(m.sessions, id)
	}
	m.mu.Unlock()
	return len(stale)
}

// StopSweep halts the sweep goroutine and waits for it to exit.
func (m *Manager) StopSweep() {
	m.mu.Lock()
	sweeping := m.sweeping
	m.mu.Unlock()
	if !sweeping {
		return
	}
	m.stopOnce.Do(func() { close(m.stopSweep) })
	<-m.sweepDone
}
