// Package boundary adapts typed Store/Encoder implementations to the
// raw-buffer, status-code calling convention of a messaging runtime's C-style
// callback dispatcher. It is the only code aware of that convention: backend
// authors write against store.Store and encoder.Encoder, and the Dispatcher
// here owns handle management, buffer ownership, shape marshalling, and the
// translation of the error taxonomy into fixed negative status codes.
//
// A translated failure always corresponds to a store state in which nothing
// was mutated, so the runtime may retry or escalate freely.
package boundary

import (
	"errors"
	"fmt"
	"sync"

	fs "github.com/unkn0wn-root/flightstore"
	enc "github.com/unkn0wn-root/flightstore/encoder"
	st "github.com/unkn0wn-root/flightstore/store"
)

// Status is the coarse result code carried across the boundary. Zero or
// positive means success; each error kind maps to one stable negative code.
type Status int

const (
	StatusOK               Status = 0
	StatusStoreUnavailable Status = -1
	StatusWriteFailed      Status = -2
	StatusReadFailed       Status = -3
	StatusRemoveFailed     Status = -4
	StatusNotFound         Status = -5
	StatusInvalidState     Status = -6
	StatusEncodingFailed   Status = -7
	StatusInvalidKey       Status = -8
	StatusInternal         Status = -9

	// StatusTrue is the positive contains-key result.
	StatusTrue Status = 1
)

// Ok reports whether s is a success code.
func (s Status) Ok() bool { return s >= 0 }

func statusFor(err error) Status {
	switch {
	case err == nil:
		return StatusOK
	case errors.Is(err, fs.ErrNotFound):
		return StatusNotFound
	case errors.Is(err, fs.ErrInvalidState):
		return StatusInvalidState
	case errors.Is(err, fs.ErrKeyInvalid):
		return StatusInvalidKey
	case errors.Is(err, fs.ErrWriteFailed):
		return StatusWriteFailed
	case errors.Is(err, fs.ErrReadFailed):
		return StatusReadFailed
	case errors.Is(err, fs.ErrRemoveFailed):
		return StatusRemoveFailed
	case errors.Is(err, fs.ErrStoreUnavailable):
		return StatusStoreUnavailable
	case errors.Is(err, fs.ErrEncodingFailed):
		return StatusEncodingFailed
	default:
		return StatusInternal
	}
}

// Handle identifies one open store across the boundary. Zero is never a valid
// handle.
type Handle int32

// Factory creates the Store behind a new handle. context is the opaque value
// supplied at Dispatcher construction, passed unchanged on every Open so one
// backend implementation can serve several independent stores without global
// state.
type Factory func(context any, clientID, serverURI string) (st.Store, error)

// Config tunes a Dispatcher. Only Factory is required.
type Config struct {
	// Required
	Factory Factory

	Encoder enc.Encoder // nil => BeforeWrite/AfterRead report not wired
	Context any         // opaque, threaded into Factory
	Logger  fs.Logger   // nil => NopLogger
	Hooks   fs.Hooks    // nil => NopHooks
}

// Dispatcher exposes the documented entry points to the runtime caller.
// Handle allocation is internally synchronized, but calls against one handle
// are expected one at a time, mirroring the runtime's own serialization.
type Dispatcher struct {
	factory Factory
	encoder enc.Encoder
	context any
	logger  fs.Logger
	hooks   fs.Hooks
	alloc   *Allocator

	mu   sync.Mutex
	next Handle
	open map[Handle]fs.Persistence
}

func NewDispatcher(cfg Config) (*Dispatcher, error) {
	if cfg.Factory == nil {
		return nil, fmt.Errorf("boundary: factory is required")
	}
	d := &Dispatcher{
		factory: cfg.Factory,
		encoder: cfg.Encoder,
		context: cfg.Context,
		logger:  cfg.Logger,
		hooks:   cfg.Hooks,
		alloc:   NewAllocator(),
		open:    make(map[Handle]fs.Persistence),
	}
	if d.logger == nil {
		d.logger = fs.NopLogger{}
	}
	return d, nil
}

// Allocator returns the paired allocate/free primitive all boundary-crossing
// buffers must come from.
func (d *Dispatcher) Allocator() *Allocator { return d.alloc }

// Open creates and opens a store for (clientID, serverURI) and returns its
// handle. The encoder is NOT applied here or in Put/Get; the runtime invokes
// BeforeWrite/AfterRead itself, as its C counterpart does.
func (d *Dispatcher) Open(clientID, serverURI string) (Handle, Status) {
	s, err := d.factory(d.context, clientID, serverURI)
	if err != nil {
		d.logger.Error("boundary open: factory failed", fs.Fields{"clientID": clientID, "err": err})
		return 0, statusFor(fmt.Errorf("%w: %v", fs.ErrStoreUnavailable, err))
	}

	p, err := fs.New(fs.Options{Store: s, Logger: d.logger, Hooks: d.hooks})
	if err != nil {
		return 0, StatusInternal
	}
	if err := p.Open(clientID, serverURI); err != nil {
		return 0, statusFor(err)
	}

	d.mu.Lock()
	d.next++
	h := d.next
	d.open[h] = p
	d.mu.Unlock()
	return h, StatusOK
}

// Close closes the handle's store. On failure the handle stays valid, matching
// the nothing-mutated rule.
func (d *Dispatcher) Close(h Handle) Status {
	p, ok := d.lookup(h)
	if !ok {
		return StatusInvalidState
	}
	if err := p.Close(); err != nil {
		return statusFor(err)
	}
	d.mu.Lock()
	delete(d.open, h)
	d.mu.Unlock()
	return StatusOK
}

// Put stores the concatenation of bufs[i][:lens[i]] under key. bufs and lens
// are the parallel (buffer-pointer array, length array) pair of the calling
// convention; a shape mismatch is rejected before the store is touched.
func (d *Dispatcher) Put(h Handle, key string, bufs [][]byte, lens []int) Status {
	p, ok := d.lookup(h)
	if !ok {
		return StatusInvalidState
	}
	if len(bufs) != len(lens) {
		return StatusInternal
	}
	segments := make([][]byte, len(bufs))
	for i, b := range bufs {
		if lens[i] < 0 || lens[i] > len(b) {
			return StatusInternal
		}
		segments[i] = b[:lens[i]]
	}
	return statusFor(p.Put(key, segments))
}

// Get retrieves the value under key into a Buffer owned by the caller, who
// must release it via Allocator().Free.
func (d *Dispatcher) Get(h Handle, key string) (*Buffer, Status) {
	p, ok := d.lookup(h)
	if !ok {
		return nil, StatusInvalidState
	}
	v, err := p.Get(key)
	if err != nil {
		return nil, statusFor(err)
	}
	return d.alloc.Copy(v), StatusOK
}

// Remove deletes key. StatusNotFound when absent; the store is unchanged
// either way.
func (d *Dispatcher) Remove(h Handle, key string) Status {
	p, ok := d.lookup(h)
	if !ok {
		return StatusInvalidState
	}
	return statusFor(p.Remove(key))
}

// Keys returns the key set as owned string buffers. Ownership of every
// element transfers to the caller; each must be released via
// Allocator().Free. The count is len of the returned slice.
func (d *Dispatcher) Keys(h Handle) ([]*Buffer, Status) {
	p, ok := d.lookup(h)
	if !ok {
		return nil, StatusInvalidState
	}
	ks, err := p.Keys()
	if err != nil {
		return nil, statusFor(err)
	}
	out := make([]*Buffer, len(ks))
	for i, k := range ks {
		out[i] = d.alloc.Copy([]byte(k))
	}
	return out, StatusOK
}

// Clear removes every key under the handle.
func (d *Dispatcher) Clear(h Handle) Status {
	p, ok := d.lookup(h)
	if !ok {
		return StatusInvalidState
	}
	return statusFor(p.Clear())
}

// ContainsKey reports presence as an integer: StatusTrue, StatusOK (absent),
// or a negative status for an invalid handle. On a valid handle it never
// fails; medium hiccups degrade to absent.
func (d *Dispatcher) ContainsKey(h Handle, key string) Status {
	p, ok := d.lookup(h)
	if !ok {
		return StatusInvalidState
	}
	present, err := p.ContainsKey(key)
	if err != nil {
		return statusFor(err)
	}
	if present {
		return StatusTrue
	}
	return StatusOK
}

// BeforeWrite encodes each buffer just prior to a store write. Buffers are
// transformed in place when the result fits the existing allocation;
// otherwise the element is swapped for a fresh Buffer from the paired
// allocator and the original is freed through it. On a non-OK status no
// buffer has been modified and nothing may be written downstream.
func (d *Dispatcher) BeforeWrite(bufs []*Buffer) Status {
	if d.encoder == nil {
		return StatusEncodingFailed
	}
	segments := make([][]byte, len(bufs))
	for i, b := range bufs {
		segments[i] = b.Bytes()
	}
	encoded, err := d.encoder.Encode(segments)
	if err != nil || len(encoded) != len(bufs) {
		d.logger.Error("before-write encode failed", fs.Fields{"err": err})
		return StatusEncodingFailed
	}
	for i, nb := range encoded {
		d.replace(&bufs[i], nb)
	}
	return StatusOK
}

// AfterRead decodes a whole retrieved value. *bufp may be swapped for a fresh
// Buffer under the same rules as BeforeWrite.
func (d *Dispatcher) AfterRead(bufp **Buffer) Status {
	if d.encoder == nil {
		return StatusEncodingFailed
	}
	if bufp == nil || *bufp == nil {
		return StatusInternal
	}
	decoded, err := d.encoder.Decode((*bufp).Bytes())
	if err != nil {
		d.logger.Error("after-read decode failed", fs.Fields{"err": err})
		return StatusEncodingFailed
	}
	d.replace(bufp, decoded)
	return StatusOK
}

// replace installs content into *slot, reusing the existing allocation when
// it fits and swapping through the allocator pair when it does not.
func (d *Dispatcher) replace(slot **Buffer, content []byte) {
	old := *slot
	if len(content) <= cap(old.data) {
		// in-place (content may alias old.data; copy handles overlap)
		old.data = old.data[:len(content)]
		copy(old.data, content)
		return
	}
	nb := d.alloc.Copy(content)
	d.alloc.Free(old)
	*slot = nb
}

func (d *Dispatcher) lookup(h Handle) (fs.Persistence, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	p, ok := d.open[h]
	return p, ok
}
