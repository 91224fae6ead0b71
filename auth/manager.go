// Package auth exposes login/logout and authenticated state over the session
// slot for UI-facing callers, with change notification for re-renders.
package auth

import (
	"fmt"
	"sync"

	"github.com/facultyms/appraise/session"
)

// State is the snapshot handed to subscribers on every change.
type State struct {
	Authenticated bool
	User          *session.Record
	Role          session.Role
}

// Manager wraps a session.Store with presence-based authentication state.
//
// Authenticated tracks only whether a record exists in the slot; token
// validity is enforced per request by the gateway, not here. User data and
// role are re-read from the store on every access so the slot stays the
// single source of truth.
type Manager struct {
	mu      sync.RWMutex
	store   session.Store
	authed  bool
	subs    map[int]func(State)
	nextSub int
}

// NewManager returns a Manager over store. The authenticated flag is seeded
// from the slot's current presence.
func NewManager(store session.Store) *Manager {
	return &Manager{
		store:  store,
		authed: store.Load() != nil,
		subs:   make(map[int]func(State)),
	}
}

// Login fully replaces the session slot with rec and flips the authenticated
// flag. User data and role are recomputed from the store afterwards, so a
// record that does not survive serialization behaves the same as it would
// after a reload.
func (m *Manager) Login(rec *session.Record) error {
	m.mu.Lock()
	if err := m.store.Save(rec); err != nil {
		m.mu.Unlock()
		return fmt.Errorf("persisting session: %w", err)
	}
	m.authed = true
	m.mu.Unlock()
	m.notify()
	return nil
}

// Logout clears the slot and flips the authenticated flag. Subsequent
// UserData and UserRole reads return nothing.
func (m *Manager) Logout() error {
	m.mu.Lock()
	err := m.store.Clear()
	m.authed = false
	m.mu.Unlock()
	m.notify()
	if err != nil {
		return fmt.Errorf("clearing session: %w", err)
	}
	return nil
}

// Authenticated reports whether a session record is present. An expired
// token does not flip this flag; only logout or a rejected credential on a
// network call empties the slot.
func (m *Manager) Authenticated() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.authed
}

// UserData re-reads the slot. It returns nil after logout even if a stale
// record were somehow still on disk.
func (m *Manager) UserData() *session.Record {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if !m.authed {
		return nil
	}
	return m.store.Load()
}

// UserRole derives the current role from UserData.
func (m *Manager) UserRole() session.Role {
	return m.UserData().ResolveRole()
}

// Refresh re-seeds the authenticated flag from the slot. The gateway clears
// the slot out-of-band on credential rejection; callers that observe such a
// failure can Refresh to bring the flag back in line.
func (m *Manager) Refresh() {
	m.mu.Lock()
	m.authed = m.store.Load() != nil
	m.mu.Unlock()
	m.notify()
}

// Subscribe registers fn to receive every state change and returns its
// unsubscribe function. The current state is not replayed on subscription.
func (m *Manager) Subscribe(fn func(State)) func() {
	m.mu.Lock()
	id := m.nextSub
	m.nextSub++
	m.subs[id] = fn
	m.mu.Unlock()
	return func() {
		m.mu.Lock()
		delete(m.subs, id)
		m.mu.Unlock()
	}
}

func (m *Manager) snapshot() State {
	m.mu.RLock()
	defer m.mu.RUnlock()
	st := State{Authenticated: m.authed}
	if m.authed {
		st.User = m.store.Load()
		st.Role = st.User.ResolveRole()
	}
	return st
}

func (m *Manager) notify() {
	st := m.snapshot()
	m.mu.RLock()
	fns := make([]func(State), 0, len(m.subs))
	for _, fn := range m.subs {
		fns = append(fns, fn)
	}
	m.mu.RUnlock()
	for _, fn := range fns {
		fn(st)
	}
}
