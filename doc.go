// Package flightstore implements pluggable keyed persistence for in-flight
// messaging traffic: messages awaiting acknowledged delivery are staged in a
// durable store so a client can resume them across restarts.
//
// Components:
//   - store.Store: exclusive-access byte store scoped to a (clientID, serverURI)
//     pair (e.g. memory, filesystem, Badger, Redis, BigCache).
//   - encoder.Encoder: optional symmetric transform applied to outbound segments
//     before they reach the store and reversed on retrieval (e.g. AEAD encryption).
//   - boundary.Dispatcher: translation layer that lets any Store/Encoder pair be
//     driven by a raw-buffer, status-code calling convention.
//
// The root package ties one Store and an optional Encoder together behind the
// Persistence interface, which enforces the open/close lifecycle and the
// all-or-nothing failure contract: a failed Put or Remove leaves the store
// exactly as if the call never happened.
//
// Typical use:
//
//	p, _ := flightstore.New(flightstore.Options{
//	    Store:   fsstore.New(fsstore.Config{Root: dir}),
//	    Encoder: enc, // nil => bytes pass through unchanged
//	})
//	_ = p.Open("c1", "tcp://host:1883")
//	_ = p.Put("m:12", [][]byte{header, payload})
//	v, _ := p.Get("m:12") // header||payload
package flightstore
