// Package session keeps one workbook snapshot per user session in memory.
package session

import (
	"context"
	"sync"

	"sheetgen/domain/core"
	"sheetgen/domain/sheet"
	"sheetgen/ports"
)

// MemoryStore is the default SnapshotRepository. Saved snapshots are owned
// by the store and must not be modified by the caller afterwards.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[core.SessionID]ports.StoredSnapshot
}

// NewMemoryStore creates an empty store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sessions: make(map[core.SessionID]ports.StoredSnapshot)}
}

// Save replaces the session snapshot. A nil snapshot records an empty session.
func (s *MemoryStore) Save(ctx context.Context, id core.SessionID, snap *sheet.Snapshot) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[id] = ports.StoredSnapshot{SessionID: id, Snapshot: snap, UpdatedAt: core.Now()}
	return nil
}

// Get returns core.ErrSessionNotFound for unknown ids
func (s *MemoryStore) Get(ctx context.Context, id core.SessionID) (*ports.StoredSnapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	stored, ok := s.sessions[id]
	if !ok {
		return nil, core.ErrSessionNotFound
	}
	return &stored, nil
}

// Delete is a no-op for unknown ids
func (s *MemoryStore) Delete(ctx context.Context, id core.SessionID) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
	return nil
}

// Len is the number of live sessions
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

var _ ports.SnapshotRepository = (*MemoryStore)(nil)
