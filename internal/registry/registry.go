// Package registry tracks the sessions this peer participates in.
package registry

import (
	"sync"

	"github.com/frodon-community/peergames/internal/model"
)

// Registry is the in-memory session table. Sessions live only for the
// lifetime of the process; durable data (stats) goes through storage.
type Registry struct {
	mu       sync.RWMutex
	sessions map[model.SessionID]model.Session
}

func New() *Registry {
	return &Registry{sessions: make(map[model.SessionID]model.Session)}
}

func (r *Registry) Put(s model.Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.sessions[s.SessionID()]; ok {
		return model.ErrSessionExists
	}
	r.sessions[s.SessionID()] = s
	return nil
}

// Replace stores a session regardless of whether the id is already
// present. Rematch reuses this to swap a finished board for a fresh one
// under a new id while the old one is removed by the caller.
func (r *Registry) Replace(s model.Session) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[s.SessionID()] = s
}

func (r *Registry) Get(id model.SessionID) (model.Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.sessions[id]
	if !ok {
		return nil, model.ErrSessionNotFound
	}
	return s, nil
}

// TicTacToe fetches a session and asserts its kind
func (r *Registry) TicTacToe(id model.SessionID) (*model.TicTacToeSession, error) {
	s, err := r.Get(id)
	if err != nil {
		return nil, err
	}
	t, ok := s.(*model.TicTacToeSession)
	if !ok {
		return nil, model.ErrSessionNotFound
	}
	return t, nil
}

// Poker fetches a session and asserts its kind
func (r *Registry) Poker(id model.SessionID) (*model.PokerSession, error) {
	s, err := r.Get(id)
	if err != nil {
		return nil, err
	}
	p, ok := s.(*model.PokerSession)
	if !ok {
		return nil, model.ErrSessionNotFound
	}
	return p, nil
}

func (r *Registry) Remove(id model.SessionID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, id)
}

func (r *Registry) List() []model.Session {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]model.Session, 0, len(r.sessions))
	for _, s := range r.sessions {
		out = append(out, s)
	}
	return out
}

// Has reports whether the id is known
func (r *Registry) Has(id model.SessionID) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.sessions[id]
	return ok
}
