package bigcache

import (
	"errors"
	"sort"
	"testing"
	"time"

	fs "github.com/unkn0wn-root/flightstore"
)

func openStore(t *testing.T) *Store {
	t.Helper()
	s := New(Config{LifeWindow: time.Hour})
	if err := s.Open("c1", "tcp://host:1883"); err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() {
		if s.c != nil {
			_ = s.Close()
		}
	})
	return s
}

func TestCrud(t *testing.T) {
	s := openStore(t)

	if err := s.Put("k1", [][]byte{[]byte("AB"), []byte("CDE")}); err != nil {
		t.Fatalf("Put: %v", err)
	}
	v, err := s.Get("k1")
	if err != nil || string(v) != "ABCDE" {
		t.Fatalf("Get: %q, %v", v, err)
	}
	if ok, _ := s.Has("k1"); !ok {
		t.Fatalf("Has = false")
	}

	if err := s.Remove("k1"); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if err := s.Remove("k1"); !errors.Is(err, fs.ErrNotFound) {
		t.Fatalf("Remove absent: %v", err)
	}
	if _, err := s.Get("k1"); !errors.Is(err, fs.ErrNotFound) {
		t.Fatalf("Get absent: %v", err)
	}
}

func TestKeysAndClear(t *testing.T) {
	s := openStore(t)

	for _, k := range []string{"a", "b"} {
		if err := s.Put(k, [][]byte{[]byte(k)}); err != nil {
			t.Fatalf("Put %s: %v", k, err)
		}
	}
	ks, err := s.Keys()
	if err != nil {
		t.Fatalf("Keys: %v", err)
	}
	sort.Strings(ks)
	if len(ks) != 2 || ks[0] != "a" || ks[1] != "b" {
		t.Fatalf("keys: %v", ks)
	}

	if err := s.Clear(); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	ks, _ = s.Keys()
	if len(ks) != 0 {
		t.Fatalf("keys after clear: %v", ks)
	}
}

func TestClosedStateRejected(t *testing.T) {
	s := New(Config{})
	if err := s.Put("k", nil); !errors.Is(err, fs.ErrInvalidState) {
		t.Fatalf("Put closed: %v", err)
	}
	if err := s.Close(); !errors.Is(err, fs.ErrInvalidState) {
		t.Fatalf("Close closed: %v", err)
	}
}
