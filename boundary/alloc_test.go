package boundary

import (
	"bytes"
	"testing"
)

func mustPanic(t *testing.T, name string, f func()) {
	t.Helper()
	defer func() {
		if recover() == nil {
			t.Fatalf("%s: expected panic", name)
		}
	}()
	f()
}

func TestAllocFreeLifecycle(t *testing.T) {
	a := NewAllocator()

	b := a.Alloc(4)
	if b.Len() != 4 {
		t.Fatalf("Len = %d", b.Len())
	}
	if a.Live() != 1 {
		t.Fatalf("Live = %d", a.Live())
	}

	c := a.Copy([]byte("hello"))
	if !bytes.Equal(c.Bytes(), []byte("hello")) {
		t.Fatalf("Copy content: %q", c.Bytes())
	}
	if a.Live() != 2 {
		t.Fatalf("Live = %d", a.Live())
	}

	a.Free(b)
	a.Free(c)
	if a.Live() != 0 {
		t.Fatalf("Live after frees = %d", a.Live())
	}
}

func TestFreeViolationsPanic(t *testing.T) {
	a := NewAllocator()
	other := NewAllocator()

	b := a.Alloc(1)
	a.Free(b)
	mustPanic(t, "double free", func() { a.Free(b) })

	foreign := other.Alloc(1)
	mustPanic(t, "foreign allocator", func() { a.Free(foreign) })

	mustPanic(t, "nil", func() { a.Free(nil) })
	mustPanic(t, "negative alloc", func() { a.Alloc(-1) })
}

func TestBufferMutableInPlace(t *testing.T) {
	a := NewAllocator()
	b := a.Copy([]byte("abc"))
	b.Bytes()[0] = 'X'
	if !bytes.Equal(b.Bytes(), []byte("Xbc")) {
		t.Fatalf("in-place mutation lost: %q", b.Bytes())
	}
	a.Free(b)
}
