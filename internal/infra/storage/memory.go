package storage

import (
	"bytes"
	"context"

	"github.com/boddenberg/sarathi-client-go/internal/infra/cache"
)

// Memory is a process-local KV store. Nothing survives a restart.
type Memory struct {
	items *cache.InMemory[[]byte]
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{items: cache.New[[]byte](0)}
}

func (m *Memory) Get(_ context.Context, key string) ([]byte, error) {
	v, ok := m.items.Get(key)
	if !ok {
		return nil, nil
	}
	return bytes.Clone(v), nil
}

func (m *Memory) Set(_ context.Context, key string, value []byte) error {
	m.items.Set(key, bytes.Clone(value))
	return nil
}

func (m *Memory) Delete(_ context.Context, key string) error {
	m.items.Delete(key)
	return nil
}

func (m *Memory) Ping(context.Context) error {
	return nil
}

func (m *Memory) Close() error {
	m.items.Close()
	return nil
}
