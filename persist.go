package flightstore

import (
	"errors"
	"fmt"

	enc "github.com/unkn0wn-root/flightstore/encoder"
	"github.com/unkn0wn-root/flightstore/internal/keys"
	st "github.com/unkn0wn-root/flightstore/store"
)

type persistence struct {
	store st.Store
	enc   enc.Encoder
	log   Logger
	hooks Hooks

	open      bool
	clientID  string
	serverURI string
}

func newPersistence(opts Options) (*persistence, error) {
	if opts.Store == nil {
		return nil, fmt.Errorf("flightstore: store is required")
	}

	p := &persistence{store: opts.Store}

	// defaults
	p.enc = coalesce[enc.Encoder](opts.Encoder, enc.Nop{})
	p.log = coalesce[Logger](opts.Logger, NopLogger{})
	p.hooks = coalesce[Hooks](opts.Hooks, NopHooks{})

	return p, nil
}

func (p *persistence) Open(clientID, serverURI string) error {
	if p.open {
		return fmt.Errorf("%w: already open", ErrInvalidState)
	}
	if err := p.store.Open(clientID, serverURI); err != nil {
		p.log.Error("store open failed", Fields{"clientID": clientID, "serverURI": serverURI, "err": err})
		return err
	}
	p.open = true
	p.clientID = clientID
	p.serverURI = serverURI
	p.log.Debug("store opened", Fields{"clientID": clientID, "serverURI": serverURI})
	p.hooks.Opened(clientID, serverURI)
	return nil
}

func (p *persistence) Close() error {
	if !p.open {
		return fmt.Errorf("%w: not open", ErrInvalidState)
	}
	if err := p.store.Close(); err != nil {
		p.log.Error("store close failed", Fields{"clientID": p.clientID, "err": err})
		return err
	}
	p.open = false
	p.hooks.Closed(p.clientID, p.serverURI)
	return nil
}

func (p *persistence) Put(key string, segments [][]byte) error {
	if !p.open {
		return fmt.Errorf("%w: not open", ErrInvalidState)
	}
	if !keys.Valid(key) {
		return fmt.Errorf("%w: %q", ErrKeyInvalid, key)
	}

	// Encode before the store is touched: an encoder failure here leaves the
	// key's prior state intact by construction.
	encoded, err := p.enc.Encode(segments)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrEncodingFailed, err)
	}

	if err := p.store.Put(key, encoded); err != nil {
		p.log.Error("put failed", Fields{"key": key, "err": err})
		p.hooks.PutFailed(key, err)
		return err
	}
	return nil
}

func (p *persistence) Get(key string) ([]byte, error) {
	if !p.open {
		return nil, fmt.Errorf("%w: not open", ErrInvalidState)
	}
	if !keys.Valid(key) {
		return nil, fmt.Errorf("%w: %q", ErrKeyInvalid, key)
	}

	raw, err := p.store.Get(key)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			p.log.Error("get failed", Fields{"key": key, "err": err})
			p.hooks.GetFailed(key, err)
		}
		return nil, err
	}

	v, err := p.enc.Decode(raw)
	if err != nil {
		p.log.Error("decode failed", Fields{"key": key, "err": err})
		p.hooks.CorruptEntry(key, "decode")
		return nil, fmt.Errorf("%w: %v", ErrEncodingFailed, err)
	}
	return v, nil
}

func (p *persistence) Remove(key string) error {
	if !p.open {
		return fmt.Errorf("%w: not open", ErrInvalidState)
	}
	if !keys.Valid(key) {
		return fmt.Errorf("%w: %q", ErrKeyInvalid, key)
	}

	if err := p.store.Remove(key); err != nil {
		if !errors.Is(err, ErrNotFound) {
			p.log.Error("remove failed", Fields{"key": key, "err": err})
			p.hooks.RemoveFailed(key, err)
		}
		return err
	}
	return nil
}

func (p *persistence) Keys() ([]string, error) {
	if !p.open {
		return nil, fmt.Errorf("%w: not open", ErrInvalidState)
	}
	return p.store.Keys()
}

func (p *persistence) Clear() error {
	if !p.open {
		return fmt.Errorf("%w: not open", ErrInvalidState)
	}
	return p.store.Clear()
}

func (p *persistence) ContainsKey(key string) (bool, error) {
	if !p.open {
		return false, fmt.Errorf("%w: not open", ErrInvalidState)
	}
	if !keys.Valid(key) {
		return false, nil
	}
	ok, err := p.store.Has(key)
	if err != nil {
		// Has never fails on a valid handle per the contract; degrade to
		// "absent" and log rather than surface a medium hiccup here.
		p.log.Warn("contains-key degraded to false", Fields{"key": key, "err": err})
		return false, nil
	}
	return ok, nil
}
