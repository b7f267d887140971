package server

import (
	"sync"

	"github.com/google/uuid"

	"github.com/they4kman/gosweep/v2/game"
)

// session guards one game; game.Game itself is not safe for concurrent use
type session struct {
	mu   sync.Mutex
	game *game.Game
}

// Store keeps games in memory, keyed by a random ID. Everything is lost when
// the process exits.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]*session
}

func NewStore() *Store {
	return &Store{sessions: make(map[string]*session)}
}

// NewID returns an ID for a game that is about to be stored
func (store *Store) NewID() string {
	return uuid.NewString()
}

func (store *Store) Put(id string, g *game.Game) {
	store.mu.Lock()
	defer store.mu.Unlock()
	store.sessions[id] = &session{game: g}
}

func (store *Store) get(id string) (*session, bool) {
	store.mu.RLock()
	defer store.mu.RUnlock()
	sess, ok := store.sessions[id]
	return sess, ok
}

// With runs fn against the game while holding its lock
func (store *Store) With(id string, fn func(*game.Game) error) (bool, error) {
	sess, ok := store.get(id)
	if !ok {
		return false, nil
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()
	return true, fn(sess.game)
}

func (store *Store) Delete(id string) bool {
	store.mu.Lock()
	defer store.mu.Unlock()
	if _, ok := store.sessions[id]; !ok {
		return false
	}
	delete(store.sessions, id)
	return true
}

func (store *Store) Len() int {
	store.mu.RLock()
	defer store.mu.RUnlock()
	return len(store.sessions)
}
