// Package kv provides the local persistent key/value storage backing the
// session cache and user preferences. The production store is an embedded
// BadgerDB instance; an in-memory variant exists for tests and for running
// without a writable data directory.
package kv

import "fmt"

// Store is a plain key -> string store with synchronous semantics.
type Store interface {
	// Get returns the stored value and whether the key was present.
	Get(key string) (string, bool, error)
	// Set stores a value, replacing any previous one.
	Set(key, value string) error
	// Delete removes a key. Deleting a missing key is not an error.
	Delete(key string) error
	// Close releases the underlying storage.
	Close() error
}

// ErrClosed is returned for operations on a closed store
var ErrClosed = fmt.Errorf("kv store is closed")
