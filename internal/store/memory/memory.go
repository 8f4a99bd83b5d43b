// Package memory is an in-process Store backend, grounded on the teacher's
// internal/storage/memory fake: no external process, used for fast unit
// tests of the index, filter, and Bayesian engines without a SQLite file.
package memory

import (
	"context"
	"strconv"
	"sync"

	"github.com/rfaulkner/databayes/internal/store"
)

// Store is an in-memory implementation of store.Store. Safe for concurrent
// use; every operation holds a single mutex, which also gives Incr/Decr the
// atomicity §4.1 requires without any extra bookkeeping.
type Store struct {
	mu   sync.Mutex
	data map[string]string
}

// New returns an empty in-memory store.
func New() *Store {
	return &Store{data: make(map[string]string)}
}

var _ store.Store = (*Store)(nil)

func (s *Store) Get(_ context.Context, key string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.data[key]
	return v, ok, nil
}

func (s *Store) Set(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = value
	return nil
}

func (s *Store) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, key)
	return nil
}

func (s *Store) Exists(_ context.Context, key string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.data[key]
	return ok, nil
}

func (s *Store) Incr(_ context.Context, key string, n int64) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v := s.intAt(key) + n
	s.data[key] = strconv.FormatInt(v, 10)
	return v, nil
}

func (s *Store) Decr(_ context.Context, key string, n int64) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v := s.intAt(key) - n
	s.data[key] = strconv.FormatInt(v, 10)
	return v, nil
}

// intAt parses the value at key as a base-10 integer, treating an absent or
// malformed value as zero. Caller must hold s.mu.
func (s *Store) intAt(key string) int64 {
	v, ok := s.data[key]
	if !ok {
		return 0
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return 0
	}
	return n
}

func (s *Store) Keys(_ context.Context, pattern string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	matches := make([]string, 0)
	for key := range s.data {
		if store.MatchGlob(pattern, key) {
			matches = append(matches, key)
		}
	}
	return matches, nil
}

func (s *Store) Close() error { return nil }
