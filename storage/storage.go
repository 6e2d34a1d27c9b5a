// Package storage is the save-state store: a flat key/value blob space the
// guest reads and writes through the host boundary. Contents live in memory
// for the life of the console; frontends that want persistence serialize the
// snapshot themselves.
package storage

import "sync"

// Store maps guest-chosen string keys to opaque byte blobs.
type Store struct {
	mu   sync.Mutex
	data map[string][]byte
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{data: make(map[string][]byte)}
}

// Save copies value under key, replacing any previous blob.
func (s *Store) Save(key string, value []byte) {
	blob := make([]byte, len(value))
	copy(blob, value)

	s.mu.Lock()
	s.data[key] = blob
	s.mu.Unlock()
}

// Load returns the blob under key, or nil and false. The returned slice is
// the store's copy; callers must not mutate it.
func (s *Store) Load(key string) ([]byte, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	blob, ok := s.data[key]
	return blob, ok
}

// Delete removes the blob under key, if any.
func (s *Store) Delete(key string) {
	s.mu.Lock()
	delete(s.data, key)
	s.mu.Unlock()
}

// Snapshot copies the full contents, for frontend-side persistence.
func (s *Store) Snapshot() map[string][]byte {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make(map[string][]byte, len(s.data))
	for k, v := range s.data {
		blob := make([]byte, len(v))
		copy(blob, v)
		out[k] = blob
	}
	return out
}

// Reset drops every saved blob.
func (s *Store) Reset() {
	s.mu.Lock()
	s.data = make(map[string][]byte)
	s.mu.Unlock()
}
