// Package fsstore persists each key to its own file under a directory derived
// from the (clientID, serverURI) pair. Values are framed (magic, version,
// lengths) with a small CBOR metadata envelope, so truncated or foreign files
// surface as read failures instead of bogus payloads. Writes go through a
// temp file and rename, which keeps a failed Put from disturbing the key's
// prior value.
package fsstore

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fxamacker/cbor/v2"
	"github.com/pkg/errors"

	fs "github.com/unkn0wn-root/flightstore"
	"github.com/unkn0wn-root/flightstore/internal/keys"
	"github.com/unkn0wn-root/flightstore/internal/wire"
	st "github.com/unkn0wn-root/flightstore/store"
)

const (
	msgExt   = ".msg"
	tmpExt   = ".tmp"
	fileMode = 0o600
	dirMode  = 0o700
)

var nowFunc = time.Now

// envelope is the per-record CBOR metadata stored alongside the payload.
type envelope struct {
	StoredAt time.Time `cbor:"1,keyasint"`
	Size     int       `cbor:"2,keyasint"`
	Segments int       `cbor:"3,keyasint"`
}

type Config struct {
	// Root is the base directory; each open (clientID, serverURI) pair gets
	// its own subdirectory beneath it.
	Root string
}

// Store is not safe for concurrent use; the runtime serializes calls per the
// store contract.
type Store struct {
	cfg Config
	dir string // per-pair directory, "" while closed
}

var _ st.Store = (*Store)(nil)

func New(cfg Config) *Store {
	return &Store{cfg: cfg}
}

func (s *Store) Open(clientID, serverURI string) error {
	if s.dir != "" {
		return errors.Wrap(fs.ErrInvalidState, "fsstore: already open")
	}
	if s.cfg.Root == "" {
		return errors.Wrap(fs.ErrStoreUnavailable, "fsstore: root directory not set")
	}

	dir := filepath.Join(s.cfg.Root, keys.Escape(clientID+"@"+serverURI))
	if err := os.MkdirAll(dir, dirMode); err != nil {
		return errors.Wrapf(fs.ErrStoreUnavailable, "fsstore open: %v", err)
	}

	// Leftover temp files from an interrupted Put are dead weight; the rename
	// never happened so the old value (if any) is still authoritative.
	if entries, err := os.ReadDir(dir); err == nil {
		for _, e := range entries {
			if !e.IsDir() && strings.HasSuffix(e.Name(), tmpExt) {
				_ = os.Remove(filepath.Join(dir, e.Name()))
			}
		}
	}

	s.dir = dir
	return nil
}

func (s *Store) Close() error {
	if s.dir == "" {
		return errors.Wrap(fs.ErrInvalidState, "fsstore: not open")
	}
	s.dir = ""
	return nil
}

func (s *Store) Put(key string, segments [][]byte) error {
	if s.dir == "" {
		return errors.Wrap(fs.ErrInvalidState, "fsstore: not open")
	}

	total := 0
	for _, seg := range segments {
		total += len(seg)
	}
	payload := make([]byte, 0, total)
	for _, seg := range segments {
		payload = append(payload, seg...)
	}

	meta, err := cbor.Marshal(envelope{
		StoredAt: nowFunc(),
		Size:     len(payload),
		Segments: len(segments),
	})
	if err != nil {
		return errors.Wrapf(fs.ErrWriteFailed, "fsstore put %q: marshal envelope: %v", key, err)
	}

	final := s.pathFor(key)
	tmp := final + tmpExt
	if err := os.WriteFile(tmp, wire.EncodeRecord(meta, payload), fileMode); err != nil {
		return errors.Wrapf(fs.ErrWriteFailed, "fsstore put %q: %v", key, err)
	}
	if err := os.Rename(tmp, final); err != nil {
		_ = os.Remove(tmp)
		return errors.Wrapf(fs.ErrWriteFailed, "fsstore put %q: rename: %v", key, err)
	}
	return nil
}

func (s *Store) Get(key string) ([]byte, error) {
	if s.dir == "" {
		return nil, errors.Wrap(fs.ErrInvalidState, "fsstore: not open")
	}

	raw, err := os.ReadFile(s.pathFor(key))
	if os.IsNotExist(err) {
		return nil, fs.ErrNotFound
	}
	if err != nil {
		return nil, errors.Wrapf(fs.ErrReadFailed, "fsstore get %q: %v", key, err)
	}

	meta, payload, err := wire.DecodeRecord(raw)
	if err != nil {
		return nil, errors.Wrapf(fs.ErrReadFailed, "fsstore get %q: %v", key, err)
	}
	var env envelope
	if err := cbor.Unmarshal(meta, &env); err != nil {
		return nil, errors.Wrapf(fs.ErrReadFailed, "fsstore get %q: envelope: %v", key, err)
	}
	if env.Size != len(payload) {
		return nil, errors.Wrapf(fs.ErrReadFailed, "fsstore get %q: size mismatch (%d != %d)", key, env.Size, len(payload))
	}
	return payload, nil
}

func (s *Store) Remove(key string) error {
	if s.dir == "" {
		return errors.Wrap(fs.ErrInvalidState, "fsstore: not open")
	}
	p := s.pathFor(key)
	if _, err := os.Stat(p); os.IsNotExist(err) {
		return fs.ErrNotFound
	}
	if err := os.Remove(p); err != nil {
		return errors.Wrapf(fs.ErrRemoveFailed, "fsstore remove %q: %v", key, err)
	}
	return nil
}

func (s *Store) Keys() ([]string, error) {
	if s.dir == "" {
		return nil, errors.Wrap(fs.ErrInvalidState, "fsstore: not open")
	}
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, errors.Wrapf(fs.ErrStoreUnavailable, "fsstore keys: %v", err)
	}

	out := make([]string, 0, len(entries))
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, msgExt) {
			continue
		}
		key, err := keys.Unescape(strings.TrimSuffix(name, msgExt))
		if err != nil {
			continue // foreign file; not one of ours
		}
		out = append(out, key)
	}
	return out, nil
}

func (s *Store) Clear() error {
	if s.dir == "" {
		return errors.Wrap(fs.ErrInvalidState, "fsstore: not open")
	}
	ks, err := s.Keys()
	if err != nil {
		return err
	}
	for _, k := range ks {
		if err := os.Remove(s.pathFor(k)); err != nil && !os.IsNotExist(err) {
			return errors.Wrapf(fs.ErrStoreUnavailable, "fsstore clear: %v", err)
		}
	}
	return nil
}

func (s *Store) Has(key string) (bool, error) {
	if s.dir == "" {
		return false, errors.Wrap(fs.ErrInvalidState, "fsstore: not open")
	}
	if _, err := os.Stat(s.pathFor(key)); err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, errors.Wrapf(fs.ErrReadFailed, "fsstore has %q: %v", key, err)
	}
	return true, nil
}

func (s *Store) pathFor(key string) string {
	return filepath.Join(s.dir, keys.Escape(key)+msgExt)
}

// Dir exposes the per-pair directory of an open store (diagnostics only).
func (s *Store) Dir() string { return s.dir }
