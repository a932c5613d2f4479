package flightstore

import (
	enc "github.com/unkn0wn-root/flightstore/encoder"
	st "github.com/unkn0wn-root/flightstore/store"
)

// Persistence is the typed surface a messaging runtime drives to stage
// in-flight messages. It wraps one Store and an optional Encoder, enforcing
// the Closed -> Open -> Closed lifecycle: every method except Open returns
// ErrInvalidState while the handle is closed, and Open on an open handle
// returns ErrInvalidState.
//
// A Persistence handle expects one call at a time; the runtime serializes
// operations per handle (see the Store contract).
type Persistence interface {
	// Open opens the underlying store for the (clientID, serverURI) pair.
	Open(clientID, serverURI string) error

	// Close closes the underlying store.
	Close() error

	// Put stores the concatenation of segments under key, encoding each
	// segment first when an Encoder is installed. All-or-nothing: on error
	// the key's prior state is untouched.
	Put(key string, segments [][]byte) error

	// Get returns the value under key as a caller-owned copy, decoded when an
	// Encoder is installed.
	Get(key string) ([]byte, error)

	// Remove deletes key. ErrNotFound when absent; on failure the key is
	// treated as still present and the call is safe to retry.
	Remove(key string) error

	// Keys returns a snapshot of all keys in unspecified order.
	Keys() ([]string, error)

	// Clear removes every key.
	Clear() error

	// ContainsKey reports whether key is present. It only errors on a closed
	// handle (ErrInvalidState); on a valid handle an absent or malformed key
	// simply reports false.
	ContainsKey(key string) (bool, error)
}

// Options tune the persistence wrapper. Only Store is required.
type Options struct {
	// Required
	Store st.Store

	Encoder enc.Encoder // nil => bytes pass through unchanged
	Logger  Logger      // nil => NopLogger
	Hooks   Hooks       // nil => NopHooks
}

func New(opts Options) (Persistence, error) {
	return newPersistence(opts)
}
