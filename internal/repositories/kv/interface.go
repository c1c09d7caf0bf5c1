// Package kv implements the on-device key-value store backing Facenote.
// The whole application state lives under two fixed keys: the serialized
// account set and the current-user marker.
package kv

import "context"

type Repository interface {
	// Get returns the value stored under key, or nil when the key is absent.
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Clear(ctx context.Context) error
}
