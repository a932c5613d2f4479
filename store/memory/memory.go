// Package memory provides a map-backed Store. By default nothing survives a
// process restart; with a snapshot directory configured, the whole key space
// is loaded at Open and written back at Close, which is enough durability for
// short-lived in-flight traffic on a clean shutdown.
package memory

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/vmihailenco/msgpack/v5"

	fs "github.com/unkn0wn-root/flightstore"
	"github.com/unkn0wn-root/flightstore/internal/keys"
	"github.com/unkn0wn-root/flightstore/internal/wire"
	st "github.com/unkn0wn-root/flightstore/store"
)

type Config struct {
	// SnapshotDir enables snapshot persistence: one file per open
	// (clientID, serverURI) pair under this directory. Empty disables it.
	SnapshotDir string
}

// Store is not safe for concurrent use; the runtime serializes calls per the
// store contract.
type Store struct {
	cfg  Config
	m    map[string][]byte // nil while closed
	path string            // snapshot file, "" when disabled
}

var _ st.Store = (*Store)(nil)

func New(cfg Config) *Store {
	return &Store{cfg: cfg}
}

func (s *Store) Open(clientID, serverURI string) error {
	if s.m != nil {
		return fmt.Errorf("%w: already open", fs.ErrInvalidState)
	}

	s.m = make(map[string][]byte)
	if s.cfg.SnapshotDir == "" {
		return nil
	}

	if err := os.MkdirAll(s.cfg.SnapshotDir, 0o700); err != nil {
		s.m = nil
		return fmt.Errorf("%w: %v", fs.ErrStoreUnavailable, err)
	}
	s.path = filepath.Join(s.cfg.SnapshotDir, keys.Escape(clientID+"@"+serverURI)+".snap")

	raw, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil // first open for this pair
	}
	if err != nil {
		s.m = nil
		return fmt.Errorf("%w: %v", fs.ErrStoreUnavailable, err)
	}

	payload, err := wire.DecodeSnapshot(raw)
	if err != nil {
		s.m = nil
		return fmt.Errorf("%w: %v", fs.ErrStoreUnavailable, err)
	}
	if err := msgpack.Unmarshal(payload, &s.m); err != nil {
		s.m = nil
		return fmt.Errorf("%w: %v", fs.ErrStoreUnavailable, err)
	}
	return nil
}

func (s *Store) Close() error {
	if s.m == nil {
		return fmt.Errorf("%w: not open", fs.ErrInvalidState)
	}
	if s.path != "" {
		payload, err := msgpack.Marshal(s.m)
		if err != nil {
			return fmt.Errorf("%w: %v", fs.ErrStoreUnavailable, err)
		}
		tmp := s.path + ".tmp"
		if err := os.WriteFile(tmp, wire.EncodeSnapshot(payload), 0o600); err != nil {
			return fmt.Errorf("%w: %v", fs.ErrStoreUnavailable, err)
		}
		if err := os.Rename(tmp, s.path); err != nil {
			return fmt.Errorf("%w: %v", fs.ErrStoreUnavailable, err)
		}
	}
	s.m = nil
	return nil
}

func (s *Store) Put(key string, segments [][]byte) error {
	if s.m == nil {
		return fmt.Errorf("%w: not open", fs.ErrInvalidState)
	}
	total := 0
	for _, seg := range segments {
		total += len(seg)
	}
	v := make([]byte, 0, total)
	for _, seg := range segments {
		v = append(v, seg...)
	}
	s.m[key] = v
	return nil
}

func (s *Store) Get(key string) ([]byte, error) {
	if s.m == nil {
		return nil, fmt.Errorf("%w: not open", fs.ErrInvalidState)
	}
	v, ok := s.m[key]
	if !ok {
		return nil, fs.ErrNotFound
	}
	out := make([]byte, len(v))
	copy(out, v)
	return out, nil
}

func (s *Store) Remove(key string) error {
	if s.m == nil {
		return fmt.Errorf("%w: not open", fs.ErrInvalidState)
	}
	if _, ok := s.m[key]; !ok {
		return fs.ErrNotFound
	}
	delete(s.m, key)
	return nil
}

func (s *Store) Keys() ([]string, error) {
	if s.m == nil {
		return nil, fmt.Errorf("%w: not open", fs.ErrInvalidState)
	}
	out := make([]string, 0, len(s.m))
	for k := range s.m {
		out = append(out, k)
	}
	return out, nil
}

func (s *Store) Clear() error {
	if s.m == nil {
		return fmt.Errorf("%w: not open", fs.ErrInvalidState)
	}
	s.m = make(map[string][]byte)
	return nil
}

func (s *Store) Has(key string) (bool, error) {
	if s.m == nil {
		return false, fmt.Errorf("%w: not open", fs.ErrInvalidState)
	}
	_, ok := s.m[key]
	return ok, nil
}
