// Package blobstore stores opaque objects by key. Keys are plain object keys
// without a leading slash, e.g. "public/chart-svg/<id>.svg".
package blobstore

import (
	"context"
	"time"
)

type Object struct {
	Key          string
	LastModified time.Time
}

type Store interface {
	// Put stores body under key, replacing any existing object.
	Put(ctx context.Context, key string, body []byte, contentType string) error

	// Delete removes the object. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// List returns every object whose key starts with prefix.
	List(ctx context.Context, prefix string) ([]Object, error)

	// PublicURL derives the public link of key without contacting the backend.
	PublicURL(key string) string
}
