package model

import (
	"fmt"
	"sync"
)

// Store is the per-session identity map for cacheable entities. It
// guarantees at most one live instance per (type, ID) pair: every lookup
// for an ID returns the same pointer for the lifetime of the store.
//
// The store only grows; entities are never evicted. A fresh store is
// created per API session, so tests and long-lived callers control the
// cache lifetime explicitly instead of sharing process-global state.
type Store struct {
	mu       sync.Mutex
	users    map[string]*User
	clients  map[string]*Client
	projects map[string]*Project
}

// NewStore returns an empty identity store.
func NewStore() *Store {
	return &Store{
		users:    make(map[string]*User),
		clients:  make(map[string]*Client),
		projects: make(map[string]*Project),
	}
}

// GetUser returns the unique User for id, creating it on first sight.
// When merge is non-nil it is applied to the instance while the store
// lock is held; merge functions assign only the fields they carry, giving
// field-level last-write-wins semantics across partial constructions.
func (s *Store) GetUser(id string, merge func(*User)) *User {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		u = &User{ID: id}
		mustInsert(s.users, id, u)
	}
	if merge != nil {
		merge(u)
	}
	return u
}

// GetClient returns the unique Client for id, creating it on first sight.
func (s *Store) GetClient(id string, merge func(*Client)) *Client {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.clients[id]
	if !ok {
		c = &Client{ID: id}
		mustInsert(s.clients, id, c)
	}
	if merge != nil {
		merge(c)
	}
	return c
}

// GetProject returns the unique Project for id, creating it on first sight.
func (s *Store) GetProject(id string, merge func(*Project)) *Project {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.projects[id]
	if !ok {
		p = &Project{ID: id}
		mustInsert(s.projects, id, p)
	}
	if merge != nil {
		merge(p)
	}
	return p
}

// mustInsert inserts an entity into its type map. Inserting an ID that is
// already present would create a second instance for the same identity,
// which is a programming error.
func mustInsert[T any](m map[string]*T, id string, v *T) {
	if _, dup := m[id]; dup {
		panic(fmt.Sprintf("model: duplicate entity id %q", id))
	}
	m[id] = v
}
