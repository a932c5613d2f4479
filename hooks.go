package flightstore

// Hooks are lightweight callbacks for high-signal persistence events.
// Implementations MUST be cheap and non-blocking; the wrapper calls them on
// hot paths. Wrap with hooks/async to decouple slow sinks.
type Hooks interface {
	// The store was opened for (clientID, serverURI).
	Opened(clientID, serverURI string)

	// The store was closed.
	Closed(clientID, serverURI string)

	// A Put failed and was rolled back; the key's prior state is intact.
	PutFailed(key string, err error)

	// A Get failed on the medium (not a plain miss).
	GetFailed(key string, err error)

	// A Remove failed; the key is still present.
	RemoveFailed(key string, err error)

	// A retrieved value could not be decoded by the installed Encoder.
	// reason ∈ {"decode", "frame"}
	CorruptEntry(key, reason string)
}

// NopHooks is the default no-op.
type NopHooks struct{}

func (NopHooks) Opened(string, string)        {}
func (NopHooks) Closed(string, string)        {}
func (NopHooks) PutFailed(string, error)      {}
func (NopHooks) GetFailed(string, error)      {}
func (NopHooks) RemoveFailed(string, error)   {}
func (NopHooks) CorruptEntry(string, string)  {}
