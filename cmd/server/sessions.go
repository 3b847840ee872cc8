package main

import (
	"strconv"
	"sync"
	"time"

	"github.com/vancomm/mahjong-solver/internal/mahjong"
)

// boardSession is one filled board held in memory. The board itself is
// never mutated after the fill; rollout batches work on clones.
type boardSession struct {
	ID        int64          `json:"board_id"`
	Seed      uint64         `json:"seed"`
	CreatedAt time.Time      `json:"created_at"`
	Board     *mahjong.Board `json:"-"`
}

type sessionStore struct {
	mu     sync.RWMutex
	nextID int64
	byID   map[int64]*boardSession
}

func newSessionStore() *sessionStore {
	return &sessionStore{byID: map[int64]*boardSession{}}
}

func (s *sessionStore) Add(board *mahjong.Board, seed uint64) *boardSession {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	session := &boardSession{
		ID:        s.nextID,
		Seed:      seed,
		CreatedAt: time.Now().UTC(),
		Board:     board,
	}
	s.byID[session.ID] = session
	return session
}

func (s *sessionStore) Get(id int64) (*boardSession, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	session, ok := s.byID[id]
	return session, ok
}

func sessionFromPath(raw string) (*boardSession, bool) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil, false
	}
	return sessions.Get(id)
}
