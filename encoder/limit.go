package encoder

import "fmt"

// Limit wraps another encoder to enforce a maximum allowed value size at
// Decode time. Encode is forwarded to Inner unchanged.
// If MaxDecode <= 0, size limiting is disabled.
//
// Typical use: protect against oversized entries coming back from a shared
// medium (e.g. a Redis hash another process can write to).
type Limit struct {
	// Inner is the underlying encoder being wrapped. It must be set.
	Inner Encoder
	// MaxDecode is the maximum permitted length (in bytes) of a retrieved
	// value. Larger values fail Decode without invoking Inner.
	MaxDecode int
}

func (l Limit) Encode(segments [][]byte) ([][]byte, error) { return l.Inner.Encode(segments) }

func (l Limit) Decode(value []byte) ([]byte, error) {
	if l.MaxDecode > 0 && len(value) > l.MaxDecode {
		return nil, fmt.Errorf("encoder: value too large: %d > %d", len(value), l.MaxDecode)
	}
	return l.Inner.Decode(value)
}
