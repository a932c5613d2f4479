// Package badger provides a Store backed by a BadgerDB instance, one database
// directory per open (clientID, serverURI) pair. Suited to clients that carry
// larger in-flight windows than a file-per-key layout handles comfortably.
package badger

import (
	"fmt"

	bd "github.com/dgraph-io/badger/v4"

	fs "github.com/unkn0wn-root/flightstore"
	"github.com/unkn0wn-root/flightstore/internal/keys"
	st "github.com/unkn0wn-root/flightstore/store"
)

type Config struct {
	// Root is the base directory; each pair opens its own DB beneath it.
	Root string
	// InMemory runs Badger without disk files (tests, ephemeral clients).
	InMemory bool
}

type Store struct {
	cfg Config
	db  *bd.DB // nil while closed
}

var _ st.Store = (*Store)(nil)

func New(cfg Config) *Store {
	return &Store{cfg: cfg}
}

func (s *Store) Open(clientID, serverURI string) error {
	if s.db != nil {
		return fmt.Errorf("%w: already open", fs.ErrInvalidState)
	}

	var opts bd.Options
	if s.cfg.InMemory {
		opts = bd.DefaultOptions("").WithInMemory(true)
	} else {
		if s.cfg.Root == "" {
			return fmt.Errorf("%w: badger root directory not set", fs.ErrStoreUnavailable)
		}
		dir := s.cfg.Root + "/" + keys.Escape(clientID+"@"+serverURI)
		opts = bd.DefaultOptions(dir)
	}
	opts = opts.WithLogger(nil)

	db, err := bd.Open(opts)
	if err != nil {
		return fmt.Errorf("%w: %v", fs.ErrStoreUnavailable, err)
	}
	s.db = db
	return nil
}

func (s *Store) Close() error {
	if s.db == nil {
		return fmt.Errorf("%w: not open", fs.ErrInvalidState)
	}
	err := s.db.Close()
	s.db = nil
	if err != nil {
		return fmt.Errorf("%w: %v", fs.ErrStoreUnavailable, err)
	}
	return nil
}

func (s *Store) Put(key string, segments [][]byte) error {
	if s.db == nil {
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

	err := s.db.Update(func(txn *bd.Txn) error {
		return txn.Set([]byte(key), v)
	})
	if err != nil {
		return fmt.Errorf("%w: %v", fs.ErrWriteFailed, err)
	}
	return nil
}

func (s *Store) Get(key string) ([]byte, error) {
	if s.db == nil {
		return nil, fmt.Errorf("%w: not open", fs.ErrInvalidState)
	}
	var out []byte
	err := s.db.View(func(txn *bd.Txn) error {
		item, err := txn.Get([]byte(key))
		if err != nil {
			return err
		}
		out, err = item.ValueCopy(nil)
		return err
	})
	if err == bd.ErrKeyNotFound {
		return nil, fs.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", fs.ErrReadFailed, err)
	}
	return out, nil
}

func (s *Store) Remove(key string) error {
	if s.db == nil {
		return fmt.Errorf("%w: not open", fs.ErrInvalidState)
	}
	err := s.db.Update(func(txn *bd.Txn) error {
		if _, err := txn.Get([]byte(key)); err != nil {
			return err
		}
		return txn.Delete([]byte(key))
	})
	if err == bd.ErrKeyNotFound {
		return fs.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("%w: %v", fs.ErrRemoveFailed, err)
	}
	return nil
}

func (s *Store) Keys() ([]string, error) {
	if s.db == nil {
		return nil, fmt.Errorf("%w: not open", fs.ErrInvalidState)
	}
	var out []string
	err := s.db.View(func(txn *bd.Txn) error {
		iopts := bd.DefaultIteratorOptions
		iopts.PrefetchValues = false
		it := txn.NewIterator(iopts)
		defer it.Close()
		for it.Rewind(); it.Valid(); it.Next() {
			out = append(out, string(it.Item().KeyCopy(nil)))
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", fs.ErrStoreUnavailable, err)
	}
	return out, nil
}

func (s *Store) Clear() error {
	if s.db == nil {
		return fmt.Errorf("%w: not open", fs.ErrInvalidState)
	}
	if err := s.db.DropAll(); err != nil {
		return fmt.Errorf("%w: %v", fs.ErrStoreUnavailable, err)
	}
	return nil
}

func (s *Store) Has(key string) (bool, error) {
	if s.db == nil {
		return false, fmt.Errorf("%w: not open", fs.ErrInvalidState)
	}
	err := s.db.View(func(txn *bd.Txn) error {
		_, err := txn.Get([]byte(key))
		return err
	})
	if err == bd.ErrKeyNotFound {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("%w: %v", fs.ErrReadFailed, err)
	}
	return true, nil
}
