// Package memory is a process-local DocumentStore used for guest sessions and tests.
package memory

import (
	"context"
	"encoding/json"
	"sort"
	"sync"

	"billflow/internal/domain"
	"billflow/internal/port"
)

type documentStore struct {
	mu          sync.RWMutex
	collections map[string]map[string]json.RawMessage
}

// NewDocumentStore creates an empty in-memory DocumentStore.
func NewDocumentStore() port.DocumentStore {
	return &documentStore{collections: make(map[string]map[string]json.RawMessage)}
}

func (s *documentStore) Get(_ context.Context, collection, id string) (json.RawMessage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	doc, ok := s.collections[collection][id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return clone(doc), nil
}

func (s *documentStore) GetAll(_ context.Context, collection string) ([]port.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	docs := make([]port.Document, 0, len(s.collections[collection]))
	for id, data := range s.collections[collection] {
		docs = append(docs, port.Document{ID: id, Data: clone(data)})
	}
	sort.Slice(docs, func(i, j int) bool { return docs[i].ID < docs[j].ID })
	return docs, nil
}

func (s *documentStore) Set(_ context.Context, collection, id string, data json.RawMessage) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	col, ok := s.collections[collection]
	if !ok {
		col = make(map[string]json.RawMessage)
		s.collections[collection] = col
	}
	col[id] = clone(data)
	return nil
}

func (s *documentStore) Delete(_ context.Context, collection, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.collections[collection], id)
	return nil
}

func (s *documentStore) Ping(context.Context) error {
	return nil
}

func clone(b json.RawMessage) json.RawMessage {
	out := make(json.RawMessage, len(b))
	copy(out, b)
	return out
}
