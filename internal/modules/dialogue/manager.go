// README: Per-call session registry; serializes turns and sweeps idle calls.
package dialogue

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"voxguide/internal/types"
)

// ErrTooManySessions is returned when the active-call cap is reached.
var ErrTooManySessions = errors.New("too many active sessions")

type session struct {
	state      *State
	mu         sync.Mutex
	lastActive time.Time
}

// Manager owns every live dialogue state, one per active call. Turns for
// the same call are serialized through the session mutex; turns for
// different calls proceed independently.
type Manager struct {
	mu          sync.Mutex
	sessions    map[types.ID]*session
	maxSessions int
	idleAfter   time.Duration
}

// NewManager creates a registry capped at maxSessions, evicting calls
// idle longer than idleAfter.
func NewManager(maxSessions int, idleAfter time.Duration) *Manager {
	return &Manager{
		sessions:    make(map[types.ID]*session),
		maxSessions: maxSessions,
		idleAfter:   idleAfter,
	}
}

// Begin creates a fresh state for a call, replacing any previous one with
// the same id (a redialed call starts clean).
func (m *Manager) Begin(callID types.ID) (*State, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.sessions[callID]; !exists && len(m.sessions) >= m.maxSessions {
		return nil, ErrTooManySessions
	}
	st := NewState(callID)
	m.sessions[callID] = &session{state: st, lastActive: time.Now()}
	return st, nil
}

// WithState runs fn while holding the call's turn lock, creating the
// session if the call is unknown (e.g. a webhook turn after a restart).
func (m *Manager) WithState(callID types.ID, fn func(*State)) error {
	m.mu.Lock()
	sess, ok := m.sessions[callID]
	if !ok {
		if len(m.sessions) >= m.maxSessions {
			m.mu.Unlock()
			return ErrTooManySessions
		}
		sess = &session{state: NewState(callID)}
		m.sessions[callID] = sess
	}
	m.mu.Unlock()

	sess.mu.Lock()
	defer sess.mu.Unlock()
	sess.lastActive = time.Now()
	fn(sess.state)
	return nil
}

// Has reports whether the call currently has a live session.
func (m *Manager) Has(callID types.ID) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.sessions[callID]
	return ok
}

// Adopt registers a restored state for its call. A live session wins
// over a snapshot, so adopting an already-known call is a no-op.
func (m *Manager) Adopt(st *State) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.sessions[st.CallID]; ok {
		return nil
	}
	if len(m.sessions) >= m.maxSessions {
		return ErrTooManySessions
	}
	m.sessions[st.CallID] = &session{state: st, lastActive: time.Now()}
	return nil
}

// End discards the call's state.
func (m *Manager) End(callID types.ID) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, callID)
}

// Len reports the number of live sessions.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

// RunSweeper evicts idle sessions until ctx is cancelled.
func (m *Manager) RunSweeper(ctx context.Context) {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.sweep(time.Now())
		}
	}
}

func (m *Manager) sweep(now time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, sess := range m.sessions {
		if now.Sub(sess.lastActive) > m.idleAfter {
			log.Printf("dialogue: evicting idle session %s", id)
			delete(m.sessions, id)
		}
	}
}
