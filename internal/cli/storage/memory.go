package storage

import "sync"

// MemoryStorage is an in-memory Storage for tests. Setting GetErr, SetErr
// or RemoveErr makes the matching operation fail.
type MemoryStorage struct {
	mu     sync.Mutex
	values map[string]string
	writes int

	GetErr    error
	SetErr    error
	RemoveErr error
}

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{values: make(map[string]string)}
}

func (m *MemoryStorage) Get(key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.GetErr != nil {
		return "", m.GetErr
	}
	value, ok := m.values[key]
	if !ok {
		return "", ErrNotFound
	}
	return value, nil
}

func (m *MemoryStorage) Set(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.SetErr != nil {
		return m.SetErr
	}
	m.values[key] = value
	m.writes++
	return nil
}

func (m *MemoryStorage) Remove(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.RemoveErr != nil {
		return m.RemoveErr
	}
	delete(m.values, key)
	m.writes++
	return nil
}

// Writes counts successful Set and Remove calls.
func (m *MemoryStorage) Writes() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.writes
}
