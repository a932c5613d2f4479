package memory

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"sort"
	"testing"

	fs "github.com/unkn0wn-root/flightstore"
)

func openStore(t *testing.T, cfg Config) *Store {
	t.Helper()
	s := New(cfg)
	if err := s.Open("c1", "tcp://host:1883"); err != nil {
		t.Fatalf("Open: %v", err)
	}
	return s
}

func TestCrud(t *testing.T) {
	s := openStore(t, Config{})
	defer s.Close()

	if err := s.Put("k1", [][]byte{[]byte("AB"), []byte("CDE")}); err != nil {
		t.Fatalf("Put: %v", err)
	}
	v, err := s.Get("k1")
	if err != nil || !bytes.Equal(v, []byte("ABCDE")) {
		t.Fatalf("Get: %q, %v", v, err)
	}

	// returned copy must be detached from store state
	v[0] = 'X'
	v2, _ := s.Get("k1")
	if !bytes.Equal(v2, []byte("ABCDE")) {
		t.Fatalf("caller mutation leaked into store: %q", v2)
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
	s := openStore(t, Config{})
	defer s.Close()

	_ = s.Put("a", [][]byte{[]byte("1")})
	_ = s.Put("b", [][]byte{[]byte("2")})
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

	_ = s.Open("c1", "u")
	if err := s.Open("c1", "u"); !errors.Is(err, fs.ErrInvalidState) {
		t.Fatalf("double Open: %v", err)
	}
}

func TestSnapshotSurvivesReopen(t *testing.T) {
	dir := t.TempDir()

	s := openStore(t, Config{SnapshotDir: dir})
	_ = s.Put("k1", [][]byte{[]byte("hello")})
	_ = s.Put("k2", [][]byte{[]byte("world")})
	if err := s.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	s2 := openStore(t, Config{SnapshotDir: dir})
	defer s2.Close()
	v, err := s2.Get("k1")
	if err != nil || !bytes.Equal(v, []byte("hello")) {
		t.Fatalf("Get after reopen: %q, %v", v, err)
	}
	ks, _ := s2.Keys()
	if len(ks) != 2 {
		t.Fatalf("keys after reopen: %v", ks)
	}
}

func TestSnapshotIsolatedPerPair(t *testing.T) {
	dir := t.TempDir()

	s := New(Config{SnapshotDir: dir})
	_ = s.Open("c1", "tcp://a:1883")
	_ = s.Put("k", [][]byte{[]byte("v")})
	_ = s.Close()

	other := New(Config{SnapshotDir: dir})
	if err := other.Open("c2", "tcp://a:1883"); err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer other.Close()
	if ok, _ := other.Has("k"); ok {
		t.Fatalf("snapshot leaked across pairs")
	}
}

func TestCorruptSnapshotFailsOpen(t *testing.T) {
	dir := t.TempDir()

	s := New(Config{SnapshotDir: dir})
	_ = s.Open("c1", "u")
	_ = s.Put("k", [][]byte{[]byte("v")})
	_ = s.Close()

	entries, err := os.ReadDir(dir)
	if err != nil || len(entries) != 1 {
		t.Fatalf("snapshot file missing: %v %v", entries, err)
	}
	if err := os.WriteFile(filepath.Join(dir, entries[0].Name()), []byte("junk"), 0o600); err != nil {
		t.Fatalf("corrupt: %v", err)
	}

	s2 := New(Config{SnapshotDir: dir})
	if err := s2.Open("c1", "u"); !errors.Is(err, fs.ErrStoreUnavailable) {
		t.Fatalf("corrupt snapshot open: %v", err)
	}
}
