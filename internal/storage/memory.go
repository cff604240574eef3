package storage

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/JKrag/punnett-simulator/internal/model"
)

type MemoryStore struct {
	mu          sync.RWMutex
	initialized bool
	pairings    map[string]memoryPairing
	seq         int
}

type memoryPairing struct {
	pairing model.Pairing
	seq     int
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Init(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.initialized = true
	s.pairings = make(map[string]memoryPairing)
	s.seq = 0
	return nil
}

func (s *MemoryStore) SavePairing(_ context.Context, pairing model.Pairing) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.initialized {
		return errors.New("store is not initialized")
	}
	if pairing.ID == "" {
		return errors.New("pairing id is required")
	}
	s.seq++
	s.pairings[pairing.ID] = memoryPairing{pairing: pairing, seq: s.seq}
	return nil
}

func (s *MemoryStore) GetPairing(_ context.Context, id string) (model.Pairing, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entry, ok := s.pairings[id]
	return entry.pairing, ok, nil
}

func (s *MemoryStore) ListPairings(_ context.Context) ([]model.Pairing, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries := make([]memoryPairing, 0, len(s.pairings))
	for _, entry := range s.pairings {
		entries = append(entries, entry)
	}
	sort.Slice(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if a.pairing.CreatedAtUTC == b.pairing.CreatedAtUTC {
			// Prefer later saves for equal timestamps.
			return a.seq > b.seq
		}
		return a.pairing.CreatedAtUTC > b.pairing.CreatedAtUTC
	})

	out := make([]model.Pairing, 0, len(entries))
	for _, entry := range entries {
		out = append(out, entry.pairing)
	}
	return out, nil
}

func (s *MemoryStore) DeletePairing(_ context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.pairings[id]; !ok {
		return false, nil
	}
	delete(s.pairings, id)
	return true, nil
}
