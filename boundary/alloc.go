package boundary

import (
	"fmt"
	"sync"
)

// Buffer is a byte buffer whose ownership crosses the boundary. Every Buffer
// comes from exactly one Allocator and must be returned to the same Allocator
// with Free once the receiving side is done with it. The bytes may be
// mutated in place, but growth requires a fresh Alloc (see
// Dispatcher.BeforeWrite for the swap pattern).
type Buffer struct {
	a    *Allocator
	data []byte
}

// Bytes returns the buffer contents. The slice stays valid until Free.
func (b *Buffer) Bytes() []byte { return b.data }

// Len returns the current length of the buffer.
func (b *Buffer) Len() int { return len(b.data) }

// Allocator is the paired allocate/free primitive for boundary-crossing
// buffers (the persistence_malloc/persistence_free pair of the C calling
// convention). Both sides of the boundary obtain growable buffers only from
// here, so ownership transfer is unambiguous regardless of which side
// allocated.
//
// Freeing a buffer this Allocator did not hand out, or freeing one twice,
// panics: in the calling convention being modeled that is heap corruption,
// not a recoverable condition.
type Allocator struct {
	mu   sync.Mutex
	live map[*Buffer]struct{}
}

func NewAllocator() *Allocator {
	return &Allocator{live: make(map[*Buffer]struct{})}
}

// Alloc returns a zeroed n-byte Buffer owned by this Allocator.
func (a *Allocator) Alloc(n int) *Buffer {
	if n < 0 {
		panic(fmt.Sprintf("boundary: Alloc(%d)", n))
	}
	b := &Buffer{a: a, data: make([]byte, n)}
	a.mu.Lock()
	a.live[b] = struct{}{}
	a.mu.Unlock()
	return b
}

// Copy allocates a Buffer holding a copy of p.
func (a *Allocator) Copy(p []byte) *Buffer {
	b := a.Alloc(len(p))
	copy(b.data, p)
	return b
}

// Free releases b back to the Allocator. b must have been obtained from this
// Allocator and not freed before.
func (a *Allocator) Free(b *Buffer) {
	if b == nil {
		panic("boundary: Free(nil)")
	}
	if b.a != a {
		panic("boundary: Free of buffer from a different allocator")
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	if _, ok := a.live[b]; !ok {
		panic("boundary: double free")
	}
	delete(a.live, b)
	b.data = nil
}

// Live reports the number of outstanding buffers. Useful for leak checks in
// tests and shutdown diagnostics; a clean caller drives this back to zero.
func (a *Allocator) Live() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.live)
}
