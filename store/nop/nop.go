// Package nop provides a Store that persists nothing. Useful when the runtime
// requires a persistence implementation but durability is explicitly not
// wanted (e.g. ephemeral clients on clean sessions).
package nop

import (
	"fmt"

	fs "github.com/unkn0wn-root/flightstore"
	st "github.com/unkn0wn-root/flightstore/store"
)

type Store struct {
	open bool
}

var _ st.Store = (*Store)(nil)

func New() *Store { return &Store{} }

func (s *Store) Open(_, _ string) error {
	if s.open {
		return fmt.Errorf("%w: already open", fs.ErrInvalidState)
	}
	s.open = true
	return nil
}

func (s *Store) Close() error {
	if !s.open {
		return fmt.Errorf("%w: not open", fs.ErrInvalidState)
	}
	s.open = false
	return nil
}

func (s *Store) Put(string, [][]byte) error { return nil }
func (s *Store) Get(string) ([]byte, error) { return nil, fs.ErrNotFound }
func (s *Store) Remove(string) error        { return fs.ErrNotFound }
func (s *Store) Keys() ([]string, error)    { return nil, nil }
func (s *Store) Clear() error               { return nil }
func (s *Store) Has(string) (bool, error)   { return false, nil }
