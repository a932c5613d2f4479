// Package redis provides a Store backed by a Redis hash, one hash per open
// (clientID, serverURI) pair. Gives in-flight messages durability independent
// of the client host, at the cost of a network round trip per operation.
package redis

import (
	"context"
	"errors"
	"fmt"

	goredis "github.com/redis/go-redis/v9"

	fs "github.com/unkn0wn-root/flightstore"
	st "github.com/unkn0wn-root/flightstore/store"
)

var ErrNilClient = errors.New("redis store: nil client")

const hashPrefix = "flight"

type Config struct {
	Client goredis.UniversalClient
	// CloseClient releases the client on Close; set true only if this store
	// exclusively owns it.
	CloseClient bool
}

type Store struct {
	rdb         goredis.UniversalClient
	closeClient bool
	hash        string // "" while closed
}

var _ st.Store = (*Store)(nil)

func New(cfg Config) (*Store, error) {
	if cfg.Client == nil {
		return nil, ErrNilClient
	}
	return &Store{rdb: cfg.Client, closeClient: cfg.CloseClient}, nil
}

func (s *Store) Open(clientID, serverURI string) error {
	if s.hash != "" {
		return fmt.Errorf("%w: already open", fs.ErrInvalidState)
	}
	if err := s.rdb.Ping(context.Background()).Err(); err != nil {
		return fmt.Errorf("%w: %v", fs.ErrStoreUnavailable, err)
	}
	s.hash = hashPrefix + ":" + clientID + ":" + serverURI
	return nil
}

func (s *Store) Close() error {
	if s.hash == "" {
		return fmt.Errorf("%w: not open", fs.ErrInvalidState)
	}
	s.hash = ""
	if s.closeClient {
		if err := s.rdb.Close(); err != nil && !errors.Is(err, goredis.ErrClosed) {
			return fmt.Errorf("%w: %v", fs.ErrStoreUnavailable, err)
		}
	}
	return nil
}

func (s *Store) Put(key string, segments [][]byte) error {
	if s.hash == "" {
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
	// HSET replaces the field atomically server-side; a transport failure
	// before the reply leaves either the old or the new value, never a blend.
	if err := s.rdb.HSet(context.Background(), s.hash, key, v).Err(); err != nil {
		return fmt.Errorf("%w: %v", fs.ErrWriteFailed, err)
	}
	return nil
}

func (s *Store) Get(key string) ([]byte, error) {
	if s.hash == "" {
		return nil, fmt.Errorf("%w: not open", fs.ErrInvalidState)
	}
	b, err := s.rdb.HGet(context.Background(), s.hash, key).Bytes()
	if err == goredis.Nil {
		return nil, fs.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", fs.ErrReadFailed, err)
	}
	return b, nil
}

func (s *Store) Remove(key string) error {
	if s.hash == "" {
		return fmt.Errorf("%w: not open", fs.ErrInvalidState)
	}
	n, err := s.rdb.HDel(context.Background(), s.hash, key).Result()
	if err != nil {
		return fmt.Errorf("%w: %v", fs.ErrRemoveFailed, err)
	}
	if n == 0 {
		return fs.ErrNotFound
	}
	return nil
}

func (s *Store) Keys() ([]string, error) {
	if s.hash == "" {
		return nil, fmt.Errorf("%w: not open", fs.ErrInvalidState)
	}
	ks, err := s.rdb.HKeys(context.Background(), s.hash).Result()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", fs.ErrStoreUnavailable, err)
	}
	return ks, nil
}

func (s *Store) Clear() error {
	if s.hash == "" {
		return fmt.Errorf("%w: not open", fs.ErrInvalidState)
	}
	if err := s.rdb.Del(context.Background(), s.hash).Err(); err != nil {
		return fmt.Errorf("%w: %v", fs.ErrStoreUnavailable, err)
	}
	return nil
}

func (s *Store) Has(key string) (bool, error) {
	if s.hash == "" {
		return false, fmt.Errorf("%w: not open", fs.ErrInvalidState)
	}
	ok, err := s.rdb.HExists(context.Background(), s.hash, key).Result()
	if err != nil {
		return false, fmt.Errorf("%w: %v", fs.ErrReadFailed, err)
	}
	return ok, nil
}
