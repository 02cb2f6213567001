// Package inmem keeps sessions in the process memory. Sessions are lost on restart.
package inmem

import (
	"context"
	"sync"
	"time"

	"github.com/trezcool/masomo-dashboard/storage/session"
)

type Store struct {
	mutex sync.RWMutex
	table map[string]session.Session

	NowFunc func() time.Time
}

var (
	_ session.Store  = (*Store)(nil)
	_ session.Reaper = (*Store)(nil)
)

func NewStore() *Store {
	return &Store{table: make(map[string]session.Session), NowFunc: time.Now}
}

func (s *Store) now() time.Time {
	if s.NowFunc == nil {
		return time.Now()
	}
	return s.NowFunc()
}

func (s *Store) Get(_ context.Context, id string) (session.Session, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	sess, ok := s.table[id]
	if !ok || sess.Expired(s.now()) {
		return session.Session{}, session.ErrNotFound
	}
	return sess, nil
}

func (s *Store) Save(_ context.Context, sess session.Session) error {
	if err := sess.Validate(s.now()); err != nil {
		return err
	}

	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.table[sess.ID] = sess
	return nil
}

func (s *Store) Delete(_ context.Context, id string) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	delete(s.table, id)
	return nil
}

func (s *Store) DeleteExpired(_ context.Context) (int64, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	now := s.now()
	var n int64
	for id, sess := range s.table {
		if sess.Expired(now) {
			delete(s.table, id)
			n++
		}
	}
	return n, nil
}

func (s *Store) Len() int {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return len(s.table)
}
