// Package redis stores each collection as a Redis hash of id -> JSON document.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	goredis "github.com/redis/go-redis/v9"

	"billflow/internal/domain"
	"billflow/internal/port"
)

type documentStore struct {
	client *goredis.Client
	prefix string
}

// NewDocumentStore creates a Redis-backed DocumentStore. Keys are "{prefix}{collection}".
func NewDocumentStore(client *goredis.Client, prefix string) port.DocumentStore {
	return &documentStore{client: client, prefix: prefix}
}

func (s *documentStore) key(collection string) string {
	return s.prefix + collection
}

func (s *documentStore) Get(ctx context.Context, collection, id string) (json.RawMessage, error) {
	val, err := s.client.HGet(ctx, s.key(collection), id).Bytes()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("redisStore.Get: %w", err)
	}
	return json.RawMessage(val), nil
}

func (s *documentStore) GetAll(ctx context.Context, collection string) ([]port.Document, error) {
	vals, err := s.client.HGetAll(ctx, s.key(collection)).Result()
	if err != nil {
		return nil, fmt.Errorf("redisStore.GetAll: %w", err)
	}
	docs := make([]port.Document, 0, len(vals))
	for id, data := range vals {
		docs = append(docs, port.Document{ID: id, Data: json.RawMessage(data)})
	}
	sort.Slice(docs, func(i, j int) bool { return docs[i].ID < docs[j].ID })
	return docs, nil
}

func (s *documentStore) Set(ctx context.Context, collection, id string, data json.RawMessage) error {
	if err := s.client.HSet(ctx, s.key(collection), id, []byte(data)).Err(); err != nil {
		return fmt.Errorf("redisStore.Set: %w", err)
	}
	return nil
}

func (s *documentStore) Delete(ctx context.Context, collection, id string) error {
	if err := s.client.HDel(ctx, s.key(collection), id).Err(); err != nil {
		return fmt.Errorf("redisStore.Delete: %w", err)
	}
	return nil
}

func (s *documentStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}
