// Package asynchook decouples hook sinks from the persistence hot path: events
// are queued to a small worker pool and dropped under pressure rather than
// blocking a Put or Get.
//
// usage:
//
//	raw := sloghooks.New(slog.Default(), sloghooks.Options{CorruptEvery: 10})
//	hooks := asynchook.New(raw, 1, 1000) // 1 worker; queue 1000 events
//	defer hooks.Close()
//
//	p, _ := flightstore.New(flightstore.Options{
//	    Store: store,
//	    Hooks: hooks, // or `raw` if you don't want async
//	})
package asynchook

import (
	"sync"

	"github.com/unkn0wn-root/flightstore"
)

type Hooks struct {
	inner flightstore.Hooks
	q     chan func()
	wg    sync.WaitGroup
	once  sync.Once
}

var _ flightstore.Hooks = (*Hooks)(nil)

func New(inner flightstore.Hooks, workers, qlen int) *Hooks {
	if workers <= 0 {
		workers = 1
	}
	if qlen <= 0 {
		qlen = 1024
	}

	h := &Hooks{inner: inner, q: make(chan func(), qlen)}
	h.wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer h.wg.Done()
			for f := range h.q {
				f()
			}
		}()
	}
	return h
}

func (h *Hooks) Close() {
	h.once.Do(func() {
		close(h.q)
		h.wg.Wait()
	})
}

func (h *Hooks) try(f func()) {
	select {
	case h.q <- f:
	default: // drop
	}
}

func (h *Hooks) Opened(cid, uri string) { h.try(func() { h.inner.Opened(cid, uri) }) }
func (h *Hooks) Closed(cid, uri string) { h.try(func() { h.inner.Closed(cid, uri) }) }
func (h *Hooks) PutFailed(k string, err error) {
	h.try(func() { h.inner.PutFailed(k, err) })
}
func (h *Hooks) GetFailed(k string, err error) {
	h.try(func() { h.inner.GetFailed(k, err) })
}
func (h *Hooks) RemoveFailed(k string, err error) {
	h.try(func() { h.inner.RemoveFailed(k, err) })
}
func (h *Hooks) CorruptEntry(k, reason string) {
	h.try(func() { h.inner.CorruptEntry(k, reason) })
}
