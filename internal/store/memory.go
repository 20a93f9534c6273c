// Package store keeps the live games of the process in memory. Live game
// state is never persisted; finished games go to the archive instead.
package store

import (
	"github.com/mkeskinen/mimicry/internal/director"
	"sync"
)

// GameStore maps game IDs to their directors. Safe for concurrent use; the
// directors themselves are single-session and must be driven by one request
// at a time.
type GameStore struct {
	mu    sync.RWMutex
	games map[string]*director.Director
}

// NewGameStore creates an empty game store.
func NewGameStore() *GameStore {
	return &GameStore{
		games: make(map[string]*director.Director),
	}
}

// Get retrieves a game by ID.
func (s *GameStore) Get(id string) (*director.Director, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	d, ok := s.games[id]
	return d, ok
}

// Put stores a game under the given ID.
func (s *GameStore) Put(id string, d *director.Director) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.games[id] = d
}

// Delete removes a game.
func (s *GameStore) Delete(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.games, id)
}

// Len returns the number of live games.
func (s *GameStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.games)
}
