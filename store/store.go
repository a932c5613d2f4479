// Package store defines the persistence abstraction used by flightstore.
//
// Implementations MUST be byte-for-byte transparent: Get must return exactly
// the concatenation of the segments previously passed to Put for a key (no
// prepended/appended metadata, no re-encoding, no mutation). If a store
// performs internal transforms (e.g. framing, compression), they MUST be fully
// reversed before Get returns.
//
// Ownership: the byte slice returned by Get is a fresh copy owned by the
// caller; it stays valid across subsequent store calls. Put implementations
// must not retain the segment slices past the call.
//
// A backing medium identified by one (clientID, serverURI) pair is exclusively
// owned by the single open Store referencing it. Implementations are not
// required to be safe for concurrent use; the caller serializes operations on
// a handle unless a concrete store documents otherwise.
package store

// Store is a keyed byte store with an Open -> operations -> Close lifecycle.
//
// Every operation is all-or-nothing: on error the store holds exactly the
// state it held before the call. In particular a failed Put leaves the key's
// prior value (or absence) intact, and a failed Remove leaves the key present.
//
// Remove of an absent key returns flightstore.ErrNotFound; the store is
// unchanged either way, so remove-then-check is always consistent.
type Store interface {
	// Open establishes or creates the backing medium scoped to the
	// (clientID, serverURI) pair. It must be called before any other method.
	// Returns flightstore.ErrStoreUnavailable (wrapped) when the medium
	// cannot be created or accessed.
	Open(clientID, serverURI string) error

	// Close releases the backing medium. After Close only Open is valid.
	Close() error

	// Put atomically replaces the value under key with the concatenation of
	// segments, in order. flightstore.ErrWriteFailed on medium error.
	Put(key string, segments [][]byte) error

	// Get returns the whole value stored under key as a caller-owned copy.
	// flightstore.ErrNotFound when absent, flightstore.ErrReadFailed on
	// medium error or corruption.
	Get(key string) ([]byte, error)

	// Remove deletes the value under key. flightstore.ErrNotFound when
	// absent, flightstore.ErrRemoveFailed on medium error.
	Remove(key string) error

	// Keys returns a snapshot of all keys, in unspecified order.
	Keys() ([]string, error)

	// Clear removes every key. flightstore.ErrStoreUnavailable on medium error.
	Clear() error

	// Has reports whether key is present. A false return with nil error means
	// Get(key) would return flightstore.ErrNotFound.
	Has(key string) (bool, error)
}
