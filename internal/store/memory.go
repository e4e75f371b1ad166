package store

import (
	"context"
	"sync"
)

// Memory is an in-process KV with the same transaction and observation
// semantics as the SQLite store. Nothing survives the process.
type Memory struct {
	mu   sync.Mutex
	data Preferences
	hub  *hub
}

var _ KV = (*Memory)(nil)

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{hub: newHub()}
}

func (s *Memory) Data(ctx context.Context) (Preferences, error) {
	if err := ctx.Err(); err != nil {
		return Preferences{}, unavailable("read", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.data, nil
}

func (s *Memory) Edit(ctx context.Context, fn func(*MutablePreferences) error) error {
	if err := ctx.Err(); err != nil {
		return unavailable("edit", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	mp := s.data.Edit()
	if err := fn(mp); err != nil {
		return err
	}
	upserts, removed := mp.changes()
	if len(upserts) == 0 && len(removed) == 0 {
		return nil
	}
	s.data = mp.Snapshot()
	s.hub.publish(s.data)
	return nil
}

func (s *Memory) Observe(ctx context.Context) <-chan Preferences {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hub.subscribe(ctx, s.data)
}

// Close detaches all observers.
func (s *Memory) Close() error {
	s.hub.close()
	return nil
}
