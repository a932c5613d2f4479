// Package encoder defines the optional byte transform applied around store
// writes and reads, typically to encrypt in-flight message payloads before
// they reach a shared medium.
//
// Encode runs per segment just before a Put; the encoded segments are then
// concatenated by the store into one value. Decode runs once over the whole
// retrieved value after a Get. Because Decode sees only the concatenation, an
// encoder that changes segment lengths MUST make each encoded segment
// self-delimiting (length-prefixed) so Decode can recover the original
// boundaries. Encode and Decode must be exact inverses for the same encoder
// configuration.
package encoder

// Encoder transforms segments on the way into the store and reverses the
// transform on the way out.
//
// Encode may transform a segment in place and return the input slices, or
// return freshly allocated replacements when the result does not fit. It must
// not partially transform: on error the input segments are unchanged and
// nothing is written downstream.
//
// Decode receives the concatenation of the encoded segments of the last Put
// for the key and returns the concatenation of the original segments.
type Encoder interface {
	Encode(segments [][]byte) ([][]byte, error)
	Decode(value []byte) ([]byte, error)
}

// Nop is the identity encoder. With Nop installed, store behavior is
// byte-for-byte identical to having no encoder at all.
type Nop struct{}

func (Nop) Encode(segments [][]byte) ([][]byte, error) { return segments, nil }
func (Nop) Decode(value []byte) ([]byte, error)        { return value, nil }
