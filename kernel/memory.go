package kernel

import (
	"bytes"
	"sync"
)

// MemoryStore is a Store held entirely in memory.
type MemoryStore struct {
	mu       sync.Mutex
	accounts map[Address]*Account
	storage  map[Address]map[string][]byte
}

// NewMemoryStore returns an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		accounts: make(map[Address]*Account),
		storage:  make(map[Address]map[string][]byte),
	}
}

// Account implements Store.
func (s *MemoryStore) Account(addr Address) (*Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.accounts[addr]
	if !ok {
		return nil, nil
	}
	cp := *a
	cp.Code = bytes.Clone(a.Code)
	return &cp, nil
}

// PutAccount implements Store.
func (s *MemoryStore) PutAccount(addr Address, acct *Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *acct
	cp.Code = bytes.Clone(acct.Code)
	s.accounts[addr] = &cp
	return nil
}

// DeleteAccount implements Store.
func (s *MemoryStore) DeleteAccount(addr Address) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.accounts, addr)
	delete(s.storage, addr)
	return nil
}

// Storage implements Store.
func (s *MemoryStore) Storage(addr Address, key []byte) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return bytes.Clone(s.storage[addr][string(key)]), nil
}

// PutStorage implements Store.
func (s *MemoryStore) PutStorage(addr Address, key, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.storage[addr]
	if !ok {
		m = make(map[string][]byte)
		s.storage[addr] = m
	}
	m[string(key)] = bytes.Clone(value)
	return nil
}

// StorageEntries implements Store.
func (s *MemoryStore) StorageEntries(addr Address) (map[string][]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string][]byte, len(s.storage[addr]))
	for k, v := range s.storage[addr] {
		out[k] = bytes.Clone(v)
	}
	return out, nil
}

// Close implements Store.
func (s *MemoryStore) Close() error { return nil }
