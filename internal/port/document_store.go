package port

import (
	"context"
	"encoding/json"
)

// Document is a stored JSON document and its id.
type Document struct {
	ID   string
	Data json.RawMessage
}

// DocumentStore persists whole JSON documents by collection path and id.
// There are no transactions and no queries beyond listing a collection.
type DocumentStore interface {
	// Get returns domain.ErrNotFound when the document is absent.
	Get(ctx context.Context, collection, id string) (json.RawMessage, error)
	// GetAll returns the documents of a collection ordered by id.
	GetAll(ctx context.Context, collection string) ([]Document, error)
	Set(ctx context.Context, collection, id string, data json.RawMessage) error
	// Delete is a no-op for absent documents.
	Delete(ctx context.Context, collection, id string) error
	Ping(ctx context.Context) error
}
