// Package sloghooks implements flightstore.Hooks on log/slog, with sampling
// for the noisy events and key redaction (in-flight message keys can embed
// client identifiers).
package sloghooks

import (
	"crypto/sha256"
	"encoding/hex"
	"log/slog"
	"sync/atomic"

	"github.com/unkn0wn-root/flightstore"
)

type Options struct {
	// Sampling to avoid floods; 0/1 = log all.
	CorruptEvery  uint64
	OpFailedEvery uint64
	// Optional key redactor. Defaults to SHA-256 prefix.
	Redact func(string) string
}

type Hooks struct {
	l    *slog.Logger
	opts Options

	corruptCtr  atomic.Uint64
	opFailedCtr atomic.Uint64
}

var _ flightstore.Hooks = (*Hooks)(nil)

func New(l *slog.Logger, opts Options) *Hooks {
	return &Hooks{l: l, opts: opts}
}

func (h *Hooks) redact(k string) string {
	if h.opts.Redact != nil {
		return h.opts.Redact(k)
	}
	sum := sha256.Sum256([]byte(k))
	return hex.EncodeToString(sum[:8])
}

func sample(n uint64, ctr *atomic.Uint64) bool {
	if n == 0 || n == 1 {
		return true
	}
	return ctr.Add(1)%n == 0
}

func (h *Hooks) Opened(clientID, serverURI string) {
	if h.l == nil {
		return
	}
	h.l.Info("flightstore.opened",
		"client_id", clientID,
		"server_uri", serverURI)
}

func (h *Hooks) Closed(clientID, serverURI string) {
	if h.l == nil {
		return
	}
	h.l.Info("flightstore.closed",
		"client_id", clientID,
		"server_uri", serverURI)
}

func (h *Hooks) PutFailed(key string, err error) {
	if h.l == nil || !sample(h.opts.OpFailedEvery, &h.opFailedCtr) {
		return
	}
	h.l.Warn("flightstore.put_failed",
		"key", h.redact(key),
		"err", err)
}

func (h *Hooks) GetFailed(key string, err error) {
	if h.l == nil || !sample(h.opts.OpFailedEvery, &h.opFailedCtr) {
		return
	}
	h.l.Warn("flightstore.get_failed",
		"key", h.redact(key),
		"err", err)
}

func (h *Hooks) RemoveFailed(key string, err error) {
	if h.l == nil || !sample(h.opts.OpFailedEvery, &h.opFailedCtr) {
		return
	}
	h.l.Warn("flightstore.remove_failed",
		"key", h.redact(key),
		"err", err)
}

func (h *Hooks) CorruptEntry(key, reason string) {
	if h.l == nil || !sample(h.opts.CorruptEvery, &h.corruptCtr) {
		return
	}
	h.l.Error("flightstore.corrupt_entry",
		"key", h.redact(key),
		"reason", reason)
}
