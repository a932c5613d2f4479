// Package bigcache provides a volatile Store on top of BigCache. Nothing
// survives a restart and entries age out with the configured life window, so
// it only suits sessions whose in-flight window is bounded by the connection
// lifetime. It exists for high-churn clients where file or DB stores are too
// slow and real durability is handled elsewhere.
package bigcache

import (
	"context"
	"errors"
	"fmt"
	"time"

	bc "github.com/allegro/bigcache/v3"

	fs "github.com/unkn0wn-root/flightstore"
	st "github.com/unkn0wn-root/flightstore/store"
)

type Config struct {
	LifeWindow         time.Duration // 0 => 24h; must outlive the longest redelivery cycle
	MaxEntrySize       int
	HardMaxCacheSizeMB int // ~ memory limit; 0 = unlimited
}

type Store struct {
	cfg Config
	c   *bc.BigCache // nil while closed
}

var _ st.Store = (*Store)(nil)

func New(cfg Config) *Store {
	return &Store{cfg: cfg}
}

func (s *Store) Open(_, _ string) error {
	if s.c != nil {
		return fmt.Errorf("%w: already open", fs.ErrInvalidState)
	}

	lw := s.cfg.LifeWindow
	if lw <= 0 {
		lw = 24 * time.Hour
	}
	conf := bc.DefaultConfig(lw)
	if s.cfg.MaxEntrySize > 0 {
		conf.MaxEntrySize = s.cfg.MaxEntrySize
	}
	if s.cfg.HardMaxCacheSizeMB > 0 {
		conf.HardMaxCacheSize = s.cfg.HardMaxCacheSizeMB
	}

	c, err := bc.New(context.Background(), conf)
	if err != nil {
		return fmt.Errorf("%w: %v", fs.ErrStoreUnavailable, err)
	}
	s.c = c
	return nil
}

func (s *Store) Close() error {
	if s.c == nil {
		return fmt.Errorf("%w: not open", fs.ErrInvalidState)
	}
	err := s.c.Close()
	s.c = nil
	if err != nil {
		return fmt.Errorf("%w: %v", fs.ErrStoreUnavailable, err)
	}
	return nil
}

func (s *Store) Put(key string, segments [][]byte) error {
	if s.c == nil {
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
	if err := s.c.Set(key, v); err != nil {
		return fmt.Errorf("%w: %v", fs.ErrWriteFailed, err)
	}
	return nil
}

func (s *Store) Get(key string) ([]byte, error) {
	if s.c == nil {
		return nil, fmt.Errorf("%w: not open", fs.ErrInvalidState)
	}
	b, err := s.c.Get(key)
	if errors.Is(err, bc.ErrEntryNotFound) {
		return nil, fs.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", fs.ErrReadFailed, err)
	}
	return b, nil
}

func (s *Store) Remove(key string) error {
	if s.c == nil {
		return fmt.Errorf("%w: not open", fs.ErrInvalidState)
	}
	err := s.c.Delete(key)
	if errors.Is(err, bc.ErrEntryNotFound) {
		return fs.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("%w: %v", fs.ErrRemoveFailed, err)
	}
	return nil
}

func (s *Store) Keys() ([]string, error) {
	if s.c == nil {
		return nil, fmt.Errorf("%w: not open", fs.ErrInvalidState)
	}
	var out []string
	it := s.c.Iterator()
	for it.SetNext() {
		e, err := it.Value()
		if err != nil {
			return nil, fmt.Errorf("%w: %v", fs.ErrStoreUnavailable, err)
		}
		out = append(out, e.Key())
	}
	return out, nil
}

func (s *Store) Clear() error {
	if s.c == nil {
		return fmt.Errorf("%w: not open", fs.ErrInvalidState)
	}
	if err := s.c.Reset(); err != nil {
		return fmt.Errorf("%w: %v", fs.ErrStoreUnavailable, err)
	}
	return nil
}

func (s *Store) Has(key string) (bool, error) {
	if s.c == nil {
		return false, fmt.Errorf("%w: not open", fs.ErrInvalidState)
	}
	_, err := s.c.Get(key)
	if errors.Is(err, bc.ErrEntryNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("%w: %v", fs.ErrReadFailed, err)
	}
	return true, nil
}
