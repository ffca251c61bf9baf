package storage

import "errors"

// ErrNotFound indicates a requested key is missing.
var ErrNotFound = errors.New("key not found")

// KV is the durable local key-value storage the cart persists into. Writes
// are synchronous; callers treat failures as best effort.
type KV interface {
	Get(key string) ([]byte, error)
	Set(key string, value []byte) error
	Delete(key string) error
	Close() error
}
