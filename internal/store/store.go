// Package store provides ordered in-memory record collections keyed by a
// caller-supplied identity. Records live for the lifetime of the process;
// there is no backing storage.
package store

import (
	"errors"
	"sync"
)

var (
	// ErrNotFound indicates no record carries the given identity.
	ErrNotFound = errors.New("store: record not found")
	// ErrDuplicate indicates the identity is already taken.
	ErrDuplicate = errors.New("store: duplicate identity")
)

// Position selects where Insert places a new record.
type Position int

const (
	// Append places new records at the end of the collection.
	Append Position = iota
	// Prepend places new records at the front.
	Prepend
)

// Store holds records of type R in insertion order. Identity is derived
// from the record itself via the idOf function given to New.
type Store[R any] struct {
	mu      sync.RWMutex
	records []R
	index   map[string]int
	idOf    func(R) string
}

// New constructs an empty Store using idOf to extract record identities.
func New[R any](idOf func(R) string) *Store[R] {
	return &Store[R]{
		index: make(map[string]int),
		idOf:  idOf,
	}
}

// List returns a copy of all records in their current order.
func (s *Store[R]) List() []R {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]R, len(s.records))
	copy(out, s.records)
	return out
}

// Len reports the number of stored records.
func (s *Store[R]) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

// Insert adds a record at the given position. Identities are unique;
// inserting an existing identity fails with ErrDuplicate.
func (s *Store[R]) Insert(record R, pos Position) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.idOf(record)
	if _, exists := s.index[id]; exists {
		return ErrDuplicate
	}
	if pos == Prepend {
		s.records = append([]R{record}, s.records...)
		s.reindex()
		return nil
	}
	s.index[id] = len(s.records)
	s.records = append(s.records, record)
	return nil
}

// Replace swaps the record stored under id, keeping its position. The
// replacement may carry a new identity as long as it collides with nothing
// else in the store.
func (s *Store[R]) Replace(id string, record R) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	at, exists := s.index[id]
	if !exists {
		return ErrNotFound
	}
	newID := s.idOf(record)
	if newID != id {
		if _, taken := s.index[newID]; taken {
			return ErrDuplicate
		}
		delete(s.index, id)
		s.index[newID] = at
	}
	s.records[at] = record
	return nil
}

// Remove deletes the record stored under id.
func (s *Store[R]) Remove(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	at, exists := s.index[id]
	if !exists {
		return ErrNotFound
	}
	s.records = append(s.records[:at], s.records[at+1:]...)
	delete(s.index, id)
	s.reindex()
	return nil
}

// Find returns the record stored under id.
func (s *Store[R]) Find(id string) (R, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	at, exists := s.index[id]
	if !exists {
		var zero R
		return zero, ErrNotFound
	}
	return s.records[at], nil
}

// FindBy returns the first record matching the predicate in order.
func (s *Store[R]) FindBy(match func(R) bool) (R, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, record := range s.records {
		if match(record) {
			return record, nil
		}
	}
	var zero R
	return zero, ErrNotFound
}

// ReplaceAll swaps the entire contents of the store in one step. Used by
// feed refreshes that atomically adopt a new snapshot.
func (s *Store[R]) ReplaceAll(records []R) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	index := make(map[string]int, len(records))
	for at, record := range records {
		id := s.idOf(record)
		if _, exists := index[id]; exists {
			return ErrDuplicate
		}
		index[id] = at
	}
	s.records = append([]R(nil), records...)
	s.index = index
	return nil
}

// reindex rebuilds the identity index after positions shift. Callers hold
// the write lock.
func (s *Store[R]) reindex() {
	for at, record := range s.records {
		s.index[s.idOf(record)] = at
	}
}
