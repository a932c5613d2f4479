package flightstore

import "errors"

// Error kinds for store and encoder operations. Backends wrap the underlying
// medium error around the matching kind (fmt.Errorf("%w: ...", ErrWriteFailed))
// so callers can test with errors.Is while keeping the diagnostic detail.
//
// Every operation either fully succeeds or fully fails: when one of these is
// returned the store holds exactly the state it held before the call, so a
// failed Put or Remove is always safe to retry.
var (
	// ErrStoreUnavailable - the backing medium cannot be created or reached.
	ErrStoreUnavailable = errors.New("flightstore: store unavailable")

	// ErrWriteFailed - the medium rejected a Put; prior value (or absence) intact.
	ErrWriteFailed = errors.New("flightstore: write failed")

	// ErrReadFailed - the medium failed a Get, or the stored entry is corrupt.
	ErrReadFailed = errors.New("flightstore: read failed")

	// ErrRemoveFailed - the medium failed a Remove; the key is still present.
	ErrRemoveFailed = errors.New("flightstore: remove failed")

	// ErrNotFound - the key is absent on a Get or Remove.
	ErrNotFound = errors.New("flightstore: key not found")

	// ErrInvalidState - operation on a closed handle, or Open on an open one.
	ErrInvalidState = errors.New("flightstore: invalid state")

	// ErrEncodingFailed - encode/decode could not complete. Nothing downstream
	// of the encoder was touched.
	ErrEncodingFailed = errors.New("flightstore: encoding failed")

	// ErrKeyInvalid - the key contains characters outside the allowed set.
	ErrKeyInvalid = errors.New("flightstore: invalid key")
)
